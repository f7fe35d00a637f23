package tenant

import "gorm.io/gorm"

// Tenant é a fronteira de isolamento: uma imobiliária (agência) por registro.
// Todas as demais entidades carregam TenantID e nunca referenciam dados de
// outro tenant.
type Tenant struct {
	gorm.Model
	Nome     string `json:"nome"`
	Slug     string `json:"slug" gorm:"uniqueIndex"`
	Plano    string `json:"plano"` // FREE | GROWTH | PRO
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Ativo    bool   `json:"ativo" gorm:"default:true"`
}
