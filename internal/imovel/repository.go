package imovel

import (
	"errors"
	"strings"

	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

type Filtro struct {
	Tipo       string
	Finalidade string
	Status     string
	Busca      string
	Pagina     int
	Limite     int
}

type Repository interface {
	Salvar(db *gorm.DB, i *Imovel) error
	BuscarPorID(db *gorm.DB, tenantID, id uint) (*Imovel, error)
	Listar(db *gorm.DB, tenantID uint, f Filtro) ([]Imovel, int64, error)
	ListarGeolocalizados(db *gorm.DB, tenantID uint) ([]Imovel, error)
	MarcarStatus(db *gorm.DB, tenantID, id uint, status string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, i *Imovel) error {
	return db.Save(i).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, tenantID, id uint) (*Imovel, error) {
	var i Imovel
	err := db.Scopes(tenancy.Escopo(tenantID)).First(&i, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tenancy.ErrNaoEncontrado
	}
	return &i, err
}

// Listar pagina o portfólio; sem status explícito, deletados ficam de fora e
// destaques vêm primeiro.
func (r *repositoryImpl) Listar(db *gorm.DB, tenantID uint, f Filtro) ([]Imovel, int64, error) {
	q := db.Model(&Imovel{}).Scopes(tenancy.Escopo(tenantID))
	if f.Tipo != "" {
		q = q.Where("tipo = ?", f.Tipo)
	}
	if f.Finalidade != "" {
		q = q.Where("finalidade = ?", f.Finalidade)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	} else {
		q = q.Where("status <> ?", StatusDeletado)
	}
	if f.Busca != "" {
		like := "%" + strings.ToLower(f.Busca) + "%"
		q = q.Where("LOWER(titulo) LIKE ? OR LOWER(bairro) LIKE ? OR LOWER(cidade) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limite <= 0 {
		f.Limite = 20
	}
	if f.Pagina <= 0 {
		f.Pagina = 1
	}
	var list []Imovel
	err := q.Order("destaque desc, created_at desc").
		Offset((f.Pagina - 1) * f.Limite).
		Limit(f.Limite).
		Find(&list).Error
	return list, total, err
}

// ListarGeolocalizados alimenta o mapa: só ativos com coordenadas.
func (r *repositoryImpl) ListarGeolocalizados(db *gorm.DB, tenantID uint) ([]Imovel, error) {
	var list []Imovel
	err := db.Scopes(tenancy.Escopo(tenantID)).
		Where("status = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", StatusAtivo).
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) MarcarStatus(db *gorm.DB, tenantID, id uint, status string) error {
	res := db.Model(&Imovel{}).
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
