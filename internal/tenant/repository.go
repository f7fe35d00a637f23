package tenant

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, t *Tenant) error
	BuscarPorID(db *gorm.DB, id uint) (*Tenant, error)
	BuscarPorSlug(db *gorm.DB, slug string) (*Tenant, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, t *Tenant) error {
	return db.Save(t).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Tenant, error) {
	var t Tenant
	err := db.First(&t, id).Error
	return &t, err
}

func (r *repositoryImpl) BuscarPorSlug(db *gorm.DB, slug string) (*Tenant, error) {
	var t Tenant
	err := db.Where("slug = ?", slug).First(&t).Error
	return &t, err
}
