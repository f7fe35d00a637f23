package agendamento

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusAgendado  = "scheduled"
	StatusRealizado = "done"
	StatusCancelado = "cancelled"
)

// Agendamento é uma visita/reunião/ligação marcada no calendário do tenant.
type Agendamento struct {
	gorm.Model
	TenantID uint `json:"tenantId" gorm:"index"`
	AgenteID uint `json:"agenteId"`

	LeadID   *uint `json:"leadId"`
	ImovelID *uint `json:"imovelId"`

	Titulo  string    `json:"titulo"`
	Tipo    string    `json:"tipo"` // visit | meeting | call
	Data    time.Time `json:"data"`
	Duracao int       `json:"duracao"` // minutos
	Notas   string    `json:"notas"`
	Status  string    `json:"status"` // scheduled | done | cancelled
}
