package automacao

import (
	"errors"
	"time"

	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, a *Automacao) error
	BuscarPorID(db *gorm.DB, tenantID, id uint) (*Automacao, error)
	ListarPorTenant(db *gorm.DB, tenantID uint) ([]Automacao, error)
	ListarAgendadasAtivas(db *gorm.DB) ([]Automacao, error)
	MarcarAtiva(db *gorm.DB, tenantID, id uint, ativa bool) error
	RegistrarExecucao(db *gorm.DB, tenantID, id uint) error
	Remover(db *gorm.DB, tenantID, id uint) error

	RegistrarLog(db *gorm.DB, l *AutomacaoLog) error
	ListarLogs(db *gorm.DB, tenantID uint, limite int) ([]AutomacaoLog, error)

	ListarIntegracoes(db *gorm.DB, tenantID uint) ([]Integracao, error)
	BuscarIntegracao(db *gorm.DB, tenantID, id uint) (*Integracao, error)
	SalvarIntegracao(db *gorm.DB, i *Integracao) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, a *Automacao) error {
	return db.Save(a).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, tenantID, id uint) (*Automacao, error) {
	var a Automacao
	err := db.Scopes(tenancy.Escopo(tenantID)).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tenancy.ErrNaoEncontrado
	}
	return &a, err
}

func (r *repositoryImpl) ListarPorTenant(db *gorm.DB, tenantID uint) ([]Automacao, error) {
	var list []Automacao
	err := db.Scopes(tenancy.Escopo(tenantID)).Order("created_at desc").Find(&list).Error
	return list, err
}

// ListarAgendadasAtivas atravessa todos os tenants: alimenta o scheduler.
func (r *repositoryImpl) ListarAgendadasAtivas(db *gorm.DB) ([]Automacao, error) {
	var list []Automacao
	err := db.Where("ativa = ? AND tipo_gatilho = ?", true, GatilhoAgendado).Find(&list).Error
	return list, err
}

func (r *repositoryImpl) MarcarAtiva(db *gorm.DB, tenantID, id uint, ativa bool) error {
	res := db.Model(&Automacao{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("id = ?", id).
		Update("ativa", ativa)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tenancy.ErrNaoEncontrado
	}
	return nil
}

// RegistrarExecucao incrementa o contador e carimba a última execução.
func (r *repositoryImpl) RegistrarExecucao(db *gorm.DB, tenantID, id uint) error {
	agora := time.Now()
	res := db.Model(&Automacao{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"execucoes":       gorm.Expr("execucoes + 1"),
			"ultima_execucao": agora,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tenancy.ErrNaoEncontrado
	}
	return nil
}

func (r *repositoryImpl) Remover(db *gorm.DB, tenantID, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("tenant_id = ? AND automacao_id = ?", tenantID, id).
			Delete(&AutomacaoLog{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().
			Scopes(tenancy.Escopo(tenantID)).
			Where("id = ?", id).
			Delete(&Automacao{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tenancy.ErrNaoEncontrado
		}
		return nil
	})
}

func (r *repositoryImpl) RegistrarLog(db *gorm.DB, l *AutomacaoLog) error {
	return db.Create(l).Error
}

func (r *repositoryImpl) ListarLogs(db *gorm.DB, tenantID uint, limite int) ([]AutomacaoLog, error) {
	if limite <= 0 {
		limite = 30
	}
	var list []AutomacaoLog
	err := db.Scopes(tenancy.Escopo(tenantID)).
		Order("created_at desc").
		Limit(limite).
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarIntegracoes(db *gorm.DB, tenantID uint) ([]Integracao, error) {
	var list []Integracao
	err := db.Scopes(tenancy.Escopo(tenantID)).
		Order("ativa desc").
		Order("nome asc").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarIntegracao(db *gorm.DB, tenantID, id uint) (*Integracao, error) {
	var i Integracao
	err := db.Scopes(tenancy.Escopo(tenantID)).First(&i, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tenancy.ErrNaoEncontrado
	}
	return &i, err
}

func (r *repositoryImpl) SalvarIntegracao(db *gorm.DB, i *Integracao) error {
	return db.Save(i).Error
}
