package tarefa

import (
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, t *Tarefa) error
	Listar(db *gorm.DB, tenantID uint, status, prioridade string) ([]Tarefa, error)
	ContarPendentes(db *gorm.DB, tenantID uint) (int64, error)
	MarcarStatus(db *gorm.DB, tenantID, id uint, status string) error
	Remover(db *gorm.DB, tenantID, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, t *Tarefa) error {
	return db.Save(t).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB, tenantID uint, status, prioridade string) ([]Tarefa, error) {
	q := db.Scopes(tenancy.Escopo(tenantID))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if prioridade != "" {
		q = q.Where("prioridade = ?", prioridade)
	}
	var list []Tarefa
	err := q.Order("prioridade asc, vencimento asc").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ContarPendentes(db *gorm.DB, tenantID uint) (int64, error) {
	var total int64
	err := db.Model(&Tarefa{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("status = ?", StatusPendente).
		Count(&total).Error
	return total, err
}

func (r *repositoryImpl) MarcarStatus(db *gorm.DB, tenantID, id uint, status string) error {
	res := db.Model(&Tarefa{}).
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
	res := db.Scopes(tenancy.Escopo(tenantID)).Where("id = ?", id).Delete(&Tarefa{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tenancy.ErrNaoEncontrado
	}
	return nil
}
