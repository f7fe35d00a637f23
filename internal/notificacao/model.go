package notificacao

import "gorm.io/gorm"

// Notificacao é dirigida a um usuário específico do tenant. Depois de criada,
// só o campo Lida muda.
type Notificacao struct {
	gorm.Model
	TenantID  uint  `json:"tenantId" gorm:"index"`
	UsuarioID uint  `json:"usuarioId" gorm:"index"`
	LeadID    *uint `json:"leadId"`

	Tipo     string `json:"tipo"` // lead | deal | task | system
	Titulo   string `json:"titulo"`
	Mensagem string `json:"mensagem"`
	Link     string `json:"link"`
	Lida     bool   `json:"lida" gorm:"default:false"`
}
