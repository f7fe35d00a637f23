package imovel

import "gorm.io/gorm"

const (
	StatusAtivo    = "active"
	StatusVendido  = "sold"
	StatusDeletado = "deleted"
)

// Imovel é um imóvel do portfólio do tenant.
type Imovel struct {
	gorm.Model
	TenantID uint `json:"tenantId" gorm:"index"`
	AgenteID uint `json:"agenteId"`

	Titulo     string   `json:"titulo"`
	Tipo       string   `json:"tipo"`       // apartamento | moradia | terreno | ...
	Finalidade string   `json:"finalidade"` // venda | arrendamento
	Preco      float64  `json:"preco"`
	Area       *float64 `json:"area"`
	Quartos    int      `json:"quartos"`
	Banheiros  int      `json:"banheiros"`
	Vagas      int      `json:"vagas"`

	Endereco  string `json:"endereco"`
	Bairro    string `json:"bairro"`
	Cidade    string `json:"cidade"`
	Estado    string `json:"estado"`
	Descricao string `json:"descricao"`

	Status   string `json:"status"` // active | sold | deleted
	Destaque bool   `json:"destaque"`

	Imagens     []string `gorm:"type:jsonb;serializer:json" json:"imagens"`
	Comodidades []string `gorm:"type:jsonb;serializer:json" json:"comodidades"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
