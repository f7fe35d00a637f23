package agendamento

import (
	"time"

	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, a *Agendamento) error
	Listar(db *gorm.DB, tenantID uint, inicio, fim *time.Time) ([]Agendamento, error)
	MarcarStatus(db *gorm.DB, tenantID, id uint, status string) error
	Remover(db *gorm.DB, tenantID, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, a *Agendamento) error {
	return db.Save(a).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB, tenantID uint, inicio, fim *time.Time) ([]Agendamento, error) {
	q := db.Scopes(tenancy.Escopo(tenantID))
	if inicio != nil && fim != nil {
		q = q.Where("data BETWEEN ? AND ?", *inicio, *fim)
	}
	var list []Agendamento
	err := q.Order("data asc").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) MarcarStatus(db *gorm.DB, tenantID, id uint, status string) error {
	res := db.Model(&Agendamento{}).
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

func (r *repositoryImpl) Remover(db *gorm.DB, tenantID, id uint) error {
	res := db.Scopes(tenancy.Escopo(tenantID)).Where("id = ?", id).Delete(&Agendamento{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tenancy.ErrNaoEncontrado
	}
	return nil
}
