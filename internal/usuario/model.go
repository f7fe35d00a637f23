package usuario

import "gorm.io/gorm"

// Usuario é um membro da equipe do tenant (imobiliária): admin, gestor ou
// agente. Email é único dentro do tenant, não globalmente.
type Usuario struct {
	gorm.Model
	TenantID uint   `json:"tenantId" gorm:"index;uniqueIndex:idx_usuario_tenant_email"`
	Nome     string `json:"nome"`
	Email    string `json:"email" gorm:"uniqueIndex:idx_usuario_tenant_email"`
	Senha    string `json:"-"`
	Telefone string `json:"telefone"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"` // ADMIN | MANAGER | AGENT
	Ativo    bool   `json:"ativo" gorm:"default:true"`
}
