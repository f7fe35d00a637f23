package atividade

import "gorm.io/gorm"

// Atividade é o log de auditoria do tenant: append-only, nunca alterada
// depois de criada.
type Atividade struct {
	gorm.Model
	TenantID  uint `json:"tenantId" gorm:"index"`
	UsuarioID uint `json:"usuarioId"`

	LeadID    *uint `json:"leadId"`
	NegocioID *uint `json:"negocioId"`
	ImovelID  *uint `json:"imovelId"`

	Tipo      string `json:"tipo"` // lead_created | lead_updated | stage_changed | ...
	Descricao string `json:"descricao"`
}
