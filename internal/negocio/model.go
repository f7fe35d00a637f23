package negocio

import (
	"time"

	"gorm.io/gorm"
)

// Status do negócio. Transições só para frente: open → won ou open → deleted;
// won e deleted são terminais (sem reabertura).
const (
	StatusAberto   = "open"
	StatusGanho    = "won"
	StatusDeletado = "deleted"
)

// Negocio é uma negociação em andamento do tenant: vincula opcionalmente um
// lead e um imóvel (sempre do mesmo tenant) a um estágio do pipeline.
type Negocio struct {
	gorm.Model
	TenantID uint `json:"tenantId" gorm:"index"`
	AgenteID uint `json:"agenteId"`

	Titulo    string `json:"titulo"`
	LeadID    *uint  `json:"leadId"`
	ImovelID  *uint  `json:"imovelId"`
	EstagioID uint   `json:"estagioId"`

	Valor         *float64   `json:"valor"`
	Notas         string     `json:"notas"`
	PrevisaoFecho *time.Time `json:"previsaoFecho"`

	Status   string     `json:"status"` // open | won | deleted
	ClosedAt *time.Time `json:"closedAt"`
}
