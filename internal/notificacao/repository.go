package notificacao

import (
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, n *Notificacao) error
	ListarPorUsuario(db *gorm.DB, tenantID, usuarioID uint, limite int) ([]Notificacao, error)
	ContarNaoLidas(db *gorm.DB, tenantID, usuarioID uint) (int64, error)
	MarcarTodasLidas(db *gorm.DB, tenantID, usuarioID uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, n *Notificacao) error {
	return db.Create(n).Error
}

func (r *repositoryImpl) ListarPorUsuario(db *gorm.DB, tenantID, usuarioID uint, limite int) ([]Notificacao, error) {
	if limite <= 0 {
		limite = 20
	}
	var list []Notificacao
	err := db.Scopes(tenancy.Escopo(tenantID)).
		Where("usuario_id = ?", usuarioID).
		Order("created_at desc").
		Limit(limite).
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ContarNaoLidas(db *gorm.DB, tenantID, usuarioID uint) (int64, error) {
	var total int64
	err := db.Model(&Notificacao{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("usuario_id = ? AND lida = ?", usuarioID, false).
		Count(&total).Error
	return total, err
}

func (r *repositoryImpl) MarcarTodasLidas(db *gorm.DB, tenantID, usuarioID uint) error {
	return db.Model(&Notificacao{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("usuario_id = ? AND lida = ?", usuarioID, false).
		Update("lida", true).Error
}
