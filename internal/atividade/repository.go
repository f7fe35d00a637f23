package atividade

import (
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

type Repository interface {
	Registrar(db *gorm.DB, a *Atividade) error
	ListarRecentes(db *gorm.DB, tenantID uint, limite int) ([]Atividade, error)
	ListarPorLead(db *gorm.DB, tenantID, leadID uint, limite int) ([]Atividade, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Registrar(db *gorm.DB, a *Atividade) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) ListarRecentes(db *gorm.DB, tenantID uint, limite int) ([]Atividade, error) {
	if limite <= 0 {
		limite = 10
	}
	var list []Atividade
	err := db.Scopes(tenancy.Escopo(tenantID)).
		Order("created_at desc").
		Limit(limite).
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarPorLead(db *gorm.DB, tenantID, leadID uint, limite int) ([]Atividade, error) {
	if limite <= 0 {
		limite = 20
	}
	var list []Atividade
	err := db.Scopes(tenancy.Escopo(tenantID)).
		Where("lead_id = ?", leadID).
		Order("created_at desc").
		Limit(limite).
		Find(&list).Error
	return list, err
}
