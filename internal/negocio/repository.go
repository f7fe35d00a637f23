package negocio

import (
	"errors"

	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, n *Negocio) error
	BuscarPorID(db *gorm.DB, tenantID, id uint) (*Negocio, error)
	ListarAtivos(db *gorm.DB, tenantID uint) ([]Negocio, error)
	ValorTotalAberto(db *gorm.DB, tenantID uint) (float64, error)
	MarcarStatus(db *gorm.DB, tenantID, id uint, status string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, n *Negocio) error {
	return db.Save(n).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, tenantID, id uint) (*Negocio, error) {
	var n Negocio
	err := db.Scopes(tenancy.Escopo(tenantID)).First(&n, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tenancy.ErrNaoEncontrado
	}
	return &n, err
}

// ListarAtivos exclui os deletados logicamente; negócios ganhos continuam
// visíveis no kanban até serem arquivados.
func (r *repositoryImpl) ListarAtivos(db *gorm.DB, tenantID uint) ([]Negocio, error) {
	var list []Negocio
	err := db.Scopes(tenancy.Escopo(tenantID)).
		Where("status <> ?", StatusDeletado).
		Order("updated_at desc").
		Find(&list).Error
	return list, err
}

// ValorTotalAberto soma apenas negócios abertos; deletados e ganhos ficam
// fora dos agregados do pipeline.
func (r *repositoryImpl) ValorTotalAberto(db *gorm.DB, tenantID uint) (float64, error) {
	var total float64
	err := db.Model(&Negocio{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("status = ?", StatusAberto).
		Select("COALESCE(SUM(valor), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repositoryImpl) MarcarStatus(db *gorm.DB, tenantID, id uint, status string) error {
	res := db.Model(&Negocio{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tenancy.ErrNaoEncontrado
	}
	return nil
}
