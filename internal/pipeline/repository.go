package pipeline

import (
	"errors"

	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, e *EstagioPipeline) error
	BuscarPorID(db *gorm.DB, tenantID, id uint) (*EstagioPipeline, error)
	ListarPorTenant(db *gorm.DB, tenantID uint) ([]EstagioPipeline, error)
	PrimeiroEstagio(db *gorm.DB, tenantID uint) (*EstagioPipeline, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, e *EstagioPipeline) error {
	return db.Save(e).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, tenantID, id uint) (*EstagioPipeline, error) {
	var e EstagioPipeline
	err := db.Scopes(tenancy.Escopo(tenantID)).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tenancy.ErrNaoEncontrado
	}
	return &e, err
}

func (r *repositoryImpl) ListarPorTenant(db *gorm.DB, tenantID uint) ([]EstagioPipeline, error) {
	var list []EstagioPipeline
	err := db.Scopes(tenancy.Escopo(tenantID)).Order("posicao asc").Find(&list).Error
	return list, err
}

// PrimeiroEstagio retorna o estágio de menor posição do tenant, destino
// padrão de negócios criados sem estágio explícito.
func (r *repositoryImpl) PrimeiroEstagio(db *gorm.DB, tenantID uint) (*EstagioPipeline, error) {
	var e EstagioPipeline
	err := db.Scopes(tenancy.Escopo(tenantID)).Order("posicao asc").First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tenancy.ErrNaoEncontrado
	}
	return &e, err
}

// EstagiosPadrao devolve o funil inicial criado no onboarding de um tenant.
func EstagiosPadrao(tenantID uint) []EstagioPipeline {
	return []EstagioPipeline{
		{TenantID: tenantID, Nome: "Novo", Cor: "#00d4ff", Posicao: 0, Padrao: true},
		{TenantID: tenantID, Nome: "Qualificação", Cor: "#7c5cfc", Posicao: 1},
		{TenantID: tenantID, Nome: "Proposta", Cor: "#ffb422", Posicao: 2},
		{TenantID: tenantID, Nome: "Negociação", Cor: "#ff3e9d", Posicao: 3},
		{TenantID: tenantID, Nome: "Fechamento", Cor: "#00e59b", Posicao: 4, Fechamento: true},
	}
}
