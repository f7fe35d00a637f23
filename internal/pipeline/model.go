package pipeline

import "gorm.io/gorm"

// Nome histórico do estágio terminal. Estágios antigos ainda não migrados para
// o flag Fechamento continuam sendo reconhecidos por esse nome.
const NomeFechamentoLegado = "Fechamento"

// EstagioPipeline é uma etapa do funil de vendas do tenant, ordenada por
// Posicao. O estágio com Fechamento=true dispara os efeitos de ganho do
// negócio (ver pacote negocio).
type EstagioPipeline struct {
	gorm.Model
	TenantID   uint   `json:"tenantId" gorm:"index"`
	Nome       string `json:"nome"`
	Cor        string `json:"cor"`
	Posicao    int    `json:"posicao"`
	Padrao     bool   `json:"padrao"`     // estágio inicial de novos negócios
	Fechamento bool   `json:"fechamento"` // estágio terminal (ganho)
}

// EhFechamento decide se o estágio dispara o fechamento do negócio.
// O flag é a fonte de verdade; o nome legado vale durante a migração.
func (e EstagioPipeline) EhFechamento() bool {
	return e.Fechamento || e.Nome == NomeFechamentoLegado
}
