package lead

import (
	"errors"
	"strings"
	"time"

	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

// Filtro da listagem de leads.
type Filtro struct {
	Temperatura string
	Status      string
	Busca       string
	Pagina      int
	Limite      int
}

type Repository interface {
	Salvar(db *gorm.DB, l *Lead) error
	BuscarPorID(db *gorm.DB, tenantID, id uint) (*Lead, error)
	Listar(db *gorm.DB, tenantID uint, f Filtro) ([]Lead, int64, error)
	MarcarStatus(db *gorm.DB, tenantID, id uint, status string) error
	RegistrarContato(db *gorm.DB, tenantID, id uint, quando time.Time) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, l *Lead) error {
	return db.Save(l).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, tenantID, id uint) (*Lead, error) {
	var l Lead
	err := db.Scopes(tenancy.Escopo(tenantID)).First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tenancy.ErrNaoEncontrado
	}
	return &l, err
}

// Listar pagina os leads do tenant, melhores scores primeiro. Sem filtro de
// status explícito, leads deletados ficam de fora.
func (r *repositoryImpl) Listar(db *gorm.DB, tenantID uint, f Filtro) ([]Lead, int64, error) {
	q := db.Model(&Lead{}).Scopes(tenancy.Escopo(tenantID))
	if f.Temperatura != "" {
		q = q.Where("temperatura = ?", f.Temperatura)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	} else {
		q = q.Where("status <> ?", StatusDeletado)
	}
	if f.Busca != "" {
		like := "%" + strings.ToLower(f.Busca) + "%"
		q = q.Where("LOWER(nome) LIKE ? OR LOWER(email) LIKE ? OR telefone LIKE ?", like, like, "%"+f.Busca+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limite <= 0 {
		f.Limite = 50
	}
	if f.Pagina <= 0 {
		f.Pagina = 1
	}
	var list []Lead
	err := q.Order("score desc, created_at desc").
		Offset((f.Pagina - 1) * f.Limite).
		Limit(f.Limite).
		Find(&list).Error
	return list, total, err
}

func (r *repositoryImpl) MarcarStatus(db *gorm.DB, tenantID, id uint, status string) error {
	res := db.Model(&Lead{}).
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

func (r *repositoryImpl) RegistrarContato(db *gorm.DB, tenantID, id uint, quando time.Time) error {
	res := db.Model(&Lead{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("id = ?", id).
		Update("ultimo_contato", quando)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tenancy.ErrNaoEncontrado
	}
	return nil
}
