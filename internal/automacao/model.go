package automacao

import (
	"time"

	"gorm.io/gorm"
)

const (
	GatilhoAgendado   = "scheduled"
	GatilhoNovoLead   = "lead_created"
	GatilhoMudancaEst = "stage_changed"
)

// Automacao é uma regra gatilho+acção configurada pelo tenant. As execuções
// são simuladas: incrementam o contador e registam um log, sem chamar a
// integração externa.
type Automacao struct {
	gorm.Model
	TenantID  uint `json:"tenantId" gorm:"index"`
	CriadoPor uint `json:"criadoPor"`

	Nome          string         `json:"nome"`
	TipoGatilho   string         `json:"tipoGatilho"`
	ConfigGatilho map[string]any `gorm:"type:jsonb;serializer:json" json:"configGatilho"`
	TipoAcao      string         `json:"tipoAcao"`
	ConfigAcao    map[string]any `gorm:"type:jsonb;serializer:json" json:"configAcao"`

	Ativa          bool       `json:"ativa"`
	Execucoes      int        `json:"execucoes"`
	UltimaExecucao *time.Time `json:"ultimaExecucao"`
}

// AutomacaoLog regista cada execução ou mudança de estado de uma automação.
type AutomacaoLog struct {
	gorm.Model
	TenantID    uint   `json:"tenantId" gorm:"index"`
	AutomacaoID uint   `json:"automacaoId" gorm:"index"`
	Status      string `json:"status"` // success | error | activated | deactivated
	Mensagem    string `json:"mensagem"`
}

// Integracao é um conector externo do tenant (portais, ads, webhooks).
// Criadas desativadas no onboarding; o tenant liga as que usa.
type Integracao struct {
	gorm.Model
	TenantID uint   `json:"tenantId" gorm:"index"`
	Nome     string `json:"nome"`
	Tipo     string `json:"tipo"` // whatsapp | portal | ads | analytics | webhook
	Ativa    bool   `json:"ativa"`
}

// IntegracoesPadrao devolve o catálogo inicial criado no onboarding.
func IntegracoesPadrao(tenantID uint) []Integracao {
	return []Integracao{
		{TenantID: tenantID, Nome: "WhatsApp Business", Tipo: "whatsapp"},
		{TenantID: tenantID, Nome: "Idealista Portugal", Tipo: "portal"},
		{TenantID: tenantID, Nome: "Imovirtual", Tipo: "portal"},
		{TenantID: tenantID, Nome: "Casa Sapo", Tipo: "portal"},
		{TenantID: tenantID, Nome: "Google Ads", Tipo: "ads"},
		{TenantID: tenantID, Nome: "Meta / Instagram", Tipo: "ads"},
		{TenantID: tenantID, Nome: "Google Analytics", Tipo: "analytics"},
		{TenantID: tenantID, Nome: "Zapier", Tipo: "webhook"},
	}
}
