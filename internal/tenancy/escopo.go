// internal/tenancy/escopo.go
// Isolamento multi-tenant: toda leitura/escrita passa por aqui.
package tenancy

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNaoEncontrado cobre tanto registro inexistente quanto registro de outro
// tenant: nunca revelamos que o dado existe fora do escopo do chamador.
var ErrNaoEncontrado = errors.New("registro não encontrado")

// Escopo aplica o filtro de tenant a qualquer query GORM.
// Uso: db.Scopes(tenancy.Escopo(tenantID)).Find(&leads)
func Escopo(tenantID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// PertenceAoTenant verifica se o registro da tabela informada pertence ao
// tenant. Deve ser chamado antes de confiar em qualquer FK vinda do cliente
// (lead_id, imovel_id, estagio_id, agente_id...).
func PertenceAoTenant(db *gorm.DB, tabela string, id, tenantID uint) error {
	if id == 0 {
		return ErrNaoEncontrado
	}
	var total int64
	err := db.Table(tabela).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Count(&total).Error
	if err != nil {
		return err
	}
	if total == 0 {
		return ErrNaoEncontrado
	}
	return nil
}

// PertenceAoTenantOpcional aceita FKs opcionais: ponteiro nulo passa direto.
func PertenceAoTenantOpcional(db *gorm.DB, tabela string, id *uint, tenantID uint) error {
	if id == nil {
		return nil
	}
	return PertenceAoTenant(db, tabela, *id, tenantID)
}
