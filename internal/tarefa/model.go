package tarefa

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPendente  = "pending"
	StatusConcluida = "done"
)

// Tarefa é um follow-up interno, atribuível a um membro da equipe.
type Tarefa struct {
	gorm.Model
	TenantID   uint `json:"tenantId" gorm:"index"`
	CriadoPor  uint `json:"criadoPor"`
	AtribuidoA uint `json:"atribuidoA"`

	LeadID    *uint `json:"leadId"`
	ImovelID  *uint `json:"imovelId"`
	NegocioID *uint `json:"negocioId"`

	Titulo     string     `json:"titulo"`
	Descricao  string     `json:"descricao"`
	Vencimento *time.Time `json:"vencimento"`
	Prioridade string     `json:"prioridade"` // high | medium | low
	Status     string     `json:"status"`     // pending | done
}
