package lead

import (
	"time"

	"gorm.io/gorm"
)

// Status do ciclo de vida do lead. Remoção é sempre lógica (StatusDeletado);
// o registro permanece para histórico de atividades.
const (
	StatusNovo       = "new"
	StatusContactado = "contacted"
	StatusQualifcado = "qualified"
	StatusGanho      = "won"
	StatusPerdido    = "lost"
	StatusDeletado   = "deleted"
)

// Lead é um potencial cliente do tenant, opcionalmente atribuído a um agente
// do mesmo tenant. Score é sempre derivado de CalcularScore, nunca setado à
// mão.
type Lead struct {
	gorm.Model
	TenantID uint `json:"tenantId" gorm:"index"`
	AgenteID uint `json:"agenteId"`

	Nome        string   `json:"nome"`
	Email       string   `json:"email"`
	Telefone    string   `json:"telefone"`
	Fonte       string   `json:"fonte"`       // manual | indicacao | idealista | ...
	Status      string   `json:"status"`      // new | contacted | qualified | won | lost | deleted
	Temperatura string   `json:"temperatura"` // cold | warm | hot
	Interesse   string   `json:"interesse"`
	BudgetMin   *float64 `json:"budgetMin"`
	BudgetMax   *float64 `json:"budgetMax"`
	Notas       string   `json:"notas"`
	Score       int      `json:"score"`

	UltimoContato *time.Time `json:"ultimoContato"`
}

// RecalcularScore aplica a função de score aos atributos atuais.
func (l *Lead) RecalcularScore() {
	l.Score = CalcularScore(ScoreInput{
		Telefone:    l.Telefone,
		Email:       l.Email,
		BudgetMax:   l.BudgetMax,
		Fonte:       l.Fonte,
		Temperatura: l.Temperatura,
	})
}
