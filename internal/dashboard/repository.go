package dashboard

import (
	"time"

	"github.com/leadcontrol/api-crm/internal/agendamento"
	"github.com/leadcontrol/api-crm/internal/imovel"
	"github.com/leadcontrol/api-crm/internal/lead"
	"github.com/leadcontrol/api-crm/internal/negocio"
	"github.com/leadcontrol/api-crm/internal/tarefa"
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"gorm.io/gorm"
)

// Repository agrega os números do painel. Todas as consultas levam o
// tenantID embutido na cláusula where.
type Repository interface {
	SomaNegociosAbertos(db *gorm.DB, tenantID uint, inicio, fim *time.Time) (float64, error)
	SomaNegociosCriados(db *gorm.DB, tenantID uint, inicio, fim time.Time) (float64, error)
	ContarLeadsAtivos(db *gorm.DB, tenantID uint, antesDe *time.Time) (int64, error)
	ContarImoveisAtivos(db *gorm.DB, tenantID uint) (int64, error)
	ContarVisitasAgendadas(db *gorm.DB, tenantID uint, desde time.Time) (int64, error)
	ContarTarefasPendentes(db *gorm.DB, tenantID uint) (int64, error)
	ContarNegociosGanhos(db *gorm.DB, tenantID uint, desde time.Time) (int64, error)
	LeadsQuentes(db *gorm.DB, tenantID uint, limite int) ([]lead.Lead, error)
	ImoveisDestaque(db *gorm.DB, tenantID uint, limite int) ([]imovel.Imovel, error)
	ResumoPipeline(db *gorm.DB, tenantID uint) ([]LinhaPipeline, error)
}

// LinhaPipeline é uma linha do resumo por estágio.
type LinhaPipeline struct {
	Nome  string  `json:"nome"`
	Cor   string  `json:"cor"`
	Count int64   `json:"count"`
	Total float64 `json:"total"`
}

type repositoryImpl struct {
	tarefas tarefa.Repository
}

func NewRepository() Repository {
	return &repositoryImpl{tarefas: tarefa.NewRepository()}
}

func (r *repositoryImpl) SomaNegociosAbertos(db *gorm.DB, tenantID uint, inicio, fim *time.Time) (float64, error) {
	q := db.Model(&negocio.Negocio{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("status = ?", negocio.StatusAberto)
	if inicio != nil {
		q = q.Where("created_at >= ?", *inicio)
	}
	if fim != nil {
		q = q.Where("created_at <= ?", *fim)
	}
	var total float64
	err := q.Select("COALESCE(SUM(valor), 0)").Scan(&total).Error
	return total, err
}

func (r *repositoryImpl) SomaNegociosCriados(db *gorm.DB, tenantID uint, inicio, fim time.Time) (float64, error) {
	var total float64
	err := db.Model(&negocio.Negocio{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("created_at >= ? AND created_at <= ?", inicio, fim).
		Select("COALESCE(SUM(valor), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repositoryImpl) ContarLeadsAtivos(db *gorm.DB, tenantID uint, antesDe *time.Time) (int64, error) {
	q := db.Model(&lead.Lead{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("status NOT IN ?", []string{lead.StatusDeletado, lead.StatusPerdido})
	if antesDe != nil {
		q = q.Where("created_at < ?", *antesDe)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *repositoryImpl) ContarImoveisAtivos(db *gorm.DB, tenantID uint) (int64, error) {
	var n int64
	err := db.Model(&imovel.Imovel{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("status = ?", imovel.StatusAtivo).
		Count(&n).Error
	return n, err
}

func (r *repositoryImpl) ContarVisitasAgendadas(db *gorm.DB, tenantID uint, desde time.Time) (int64, error) {
	var n int64
	err := db.Model(&agendamento.Agendamento{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("status = ? AND data >= ?", agendamento.StatusAgendado, desde).
		Count(&n).Error
	return n, err
}

func (r *repositoryImpl) ContarTarefasPendentes(db *gorm.DB, tenantID uint) (int64, error) {
	return r.tarefas.ContarPendentes(db, tenantID)
}

func (r *repositoryImpl) ContarNegociosGanhos(db *gorm.DB, tenantID uint, desde time.Time) (int64, error) {
	var n int64
	err := db.Model(&negocio.Negocio{}).
		Scopes(tenancy.Escopo(tenantID)).
		Where("status = ? AND created_at >= ?", negocio.StatusGanho, desde).
		Count(&n).Error
	return n, err
}

func (r *repositoryImpl) LeadsQuentes(db *gorm.DB, tenantID uint, limite int) ([]lead.Lead, error) {
	var list []lead.Lead
	err := db.Scopes(tenancy.Escopo(tenantID)).
		Where("temperatura IN ?", []string{lead.TemperaturaHot, lead.TemperaturaWarm}).
		Where("status NOT IN ?", []string{lead.StatusDeletado, lead.StatusGanho}).
		Order("score desc").
		Limit(limite).
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ImoveisDestaque(db *gorm.DB, tenantID uint, limite int) ([]imovel.Imovel, error) {
	var list []imovel.Imovel
	err := db.Scopes(tenancy.Escopo(tenantID)).
		Where("destaque = ? AND status = ?", true, imovel.StatusAtivo).
		Limit(limite).
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ResumoPipeline(db *gorm.DB, tenantID uint) ([]LinhaPipeline, error) {
	var list []LinhaPipeline
	err := db.Table("estagio_pipelines").
		Select(`estagio_pipelines.nome,
			estagio_pipelines.cor,
			COUNT(negocios.id) AS count,
			COALESCE(SUM(negocios.valor), 0) AS total`).
		Joins(`LEFT JOIN negocios ON negocios.estagio_id = estagio_pipelines.id
			AND negocios.status = ? AND negocios.deleted_at IS NULL`, negocio.StatusAberto).
		Where("estagio_pipelines.tenant_id = ? AND estagio_pipelines.deleted_at IS NULL", tenantID).
		Group("estagio_pipelines.id, estagio_pipelines.nome, estagio_pipelines.cor, estagio_pipelines.posicao").
		Order("estagio_pipelines.posicao asc").
		Scan(&list).Error
	return list, err
}
