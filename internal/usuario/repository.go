package usuario

import (
	"errors"

	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, u *Usuario) error
	BuscarPorID(db *gorm.DB, tenantID, id uint) (*Usuario, error)
	BuscarAtivoPorEmail(db *gorm.DB, email string) (*Usuario, error)
	BuscarAtivoPorEmailNoTenant(db *gorm.DB, email string, tenantID uint) (*Usuario, error)
	ListarPorTenant(db *gorm.DB, tenantID uint) ([]Usuario, error)
	Desativar(db *gorm.DB, tenantID, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, u *Usuario) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, tenantID, id uint) (*Usuario, error) {
	var u Usuario
	err := db.Scopes(tenancy.Escopo(tenantID)).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tenancy.ErrNaoEncontrado
	}
	return &u, err
}

func (r *repositoryImpl) BuscarAtivoPorEmail(db *gorm.DB, email string) (*Usuario, error) {
	var u Usuario
	err := db.Where("email = ? AND ativo = ?", email, true).First(&u).Error
	return &u, err
}

// Login com slug de tenant: útil quando houver subdomínios por agência.
func (r *repositoryImpl) BuscarAtivoPorEmailNoTenant(db *gorm.DB, email string, tenantID uint) (*Usuario, error) {
	var u Usuario
	err := db.Where("email = ? AND ativo = ? AND tenant_id = ?", email, true, tenantID).First(&u).Error
	return &u, err
}

func (r *repositoryImpl) ListarPorTenant(db *gorm.DB, tenantID uint) ([]Usuario, error) {
	var list []Usuario
	err := db.Scopes(tenancy.Escopo(tenantID)).Order("nome asc").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Desativar(db *gorm.DB, tenantID, id uint) error {
	res := db.Model(&Usuario{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("id = ?", id).
		Update("ativo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tenancy.ErrNaoEncontrado
	}
	return nil
}
