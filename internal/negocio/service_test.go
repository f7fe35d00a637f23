package negocio

import (
	"errors"
	"testing"

	"github.com/leadcontrol/api-crm/internal/atividade"
	"github.com/leadcontrol/api-crm/internal/lead"
	"github.com/leadcontrol/api-crm/internal/notificacao"
	"github.com/leadcontrol/api-crm/internal/pipeline"
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func novoBancoTeste(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Banco em memória vive por conexão; o pool precisa de ficar numa só.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&pipeline.EstagioPipeline{},
		&lead.Lead{},
		&Negocio{},
		&atividade.Atividade{},
		&notificacao.Notificacao{},
	))
	return db
}

// semeiaFunil cria o funil padrão do tenant e devolve os estágios ordenados.
func semeiaFunil(t *testing.T, db *gorm.DB, tenantID uint) []pipeline.EstagioPipeline {
	t.Helper()
	estagios := pipeline.EstagiosPadrao(tenantID)
	for i := range estagios {
		require.NoError(t, db.Create(&estagios[i]).Error)
	}
	return estagios
}

func TestCriarSemEstagioUsaPrimeiro(t *testing.T) {
	db := novoBancoTeste(t)
	estagios := semeiaFunil(t, db, 1)
	svc := NewService()

	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "Apartamento Chiado"}
	require.NoError(t, svc.Criar(db, n))

	assert.Equal(t, estagios[0].ID, n.EstagioID)
	assert.Equal(t, StatusAberto, n.Status)

	var a atividade.Atividade
	require.NoError(t, db.Where("tipo = ?", "deal_created").First(&a).Error)
	assert.Equal(t, uint(1), a.TenantID)
	require.NotNil(t, a.NegocioID)
	assert.Equal(t, n.ID, *a.NegocioID)
}

func TestCriarComEstagioDeOutroTenant(t *testing.T) {
	db := novoBancoTeste(t)
	semeiaFunil(t, db, 1)
	alheios := semeiaFunil(t, db, 2)
	svc := NewService()

	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "Moradia Cascais", EstagioID: alheios[0].ID}
	err := svc.Criar(db, n)
	assert.ErrorIs(t, err, tenancy.ErrNaoEncontrado)

	var total int64
	require.NoError(t, db.Model(&Negocio{}).Count(&total).Error)
	assert.Zero(t, total)
}

func TestMoverEstagioIntermediario(t *testing.T) {
	db := novoBancoTeste(t)
	estagios := semeiaFunil(t, db, 1)
	svc := NewService()

	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "T2 Alvalade"}
	require.NoError(t, svc.Criar(db, n))

	res, err := svc.MoverEstagio(db, 1, 10, n.ID, estagios[2].ID)
	require.NoError(t, err)

	assert.Equal(t, estagios[2].ID, res.Negocio.EstagioID)
	assert.Equal(t, StatusAberto, res.Negocio.Status)
	assert.Nil(t, res.Negocio.ClosedAt)
	assert.Nil(t, res.Notificacao)
	assert.False(t, res.LeadAtualizado)

	require.NotNil(t, res.Atividade)
	assert.Equal(t, "stage_changed", res.Atividade.Tipo)
	assert.Contains(t, res.Atividade.Descricao, "Proposta")
}

func TestMoverParaTrasEhValido(t *testing.T) {
	db := novoBancoTeste(t)
	estagios := semeiaFunil(t, db, 1)
	svc := NewService()

	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "Loja Baixa", EstagioID: estagios[3].ID}
	require.NoError(t, svc.Criar(db, n))

	res, err := svc.MoverEstagio(db, 1, 10, n.ID, estagios[1].ID)
	require.NoError(t, err)
	assert.Equal(t, estagios[1].ID, res.Negocio.EstagioID)
	assert.Equal(t, StatusAberto, res.Negocio.Status)
}

func TestMoverParaFechamentoAplicaGanho(t *testing.T) {
	db := novoBancoTeste(t)
	estagios := semeiaFunil(t, db, 1)
	svc := NewService()

	l := lead.Lead{TenantID: 1, Nome: "Carlos", Status: lead.StatusQualifcado}
	require.NoError(t, db.Create(&l).Error)

	valor := 420000.0
	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "Penthouse Parque", LeadID: &l.ID, Valor: &valor}
	require.NoError(t, svc.Criar(db, n))

	fechamento := estagios[len(estagios)-1]
	require.True(t, fechamento.EhFechamento())

	res, err := svc.MoverEstagio(db, 1, 10, n.ID, fechamento.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusGanho, res.Negocio.Status)
	require.NotNil(t, res.Negocio.ClosedAt)
	assert.True(t, res.LeadAtualizado)

	require.NotNil(t, res.Notificacao)
	assert.Equal(t, "🎉 Negócio Fechado!", res.Notificacao.Titulo)
	assert.Equal(t, "deal", res.Notificacao.Tipo)
	assert.Equal(t, "/pipeline", res.Notificacao.Link)

	var atualizado lead.Lead
	require.NoError(t, db.First(&atualizado, l.ID).Error)
	assert.Equal(t, lead.StatusGanho, atualizado.Status)
}

func TestMoverFlagDeFechamentoSemNomeLegado(t *testing.T) {
	db := novoBancoTeste(t)
	svc := NewService()

	aberto := pipeline.EstagioPipeline{TenantID: 1, Nome: "Entrada", Posicao: 0, Padrao: true}
	ganho := pipeline.EstagioPipeline{TenantID: 1, Nome: "Assinado", Posicao: 1, Fechamento: true}
	require.NoError(t, db.Create(&aberto).Error)
	require.NoError(t, db.Create(&ganho).Error)

	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "Armazém Norte"}
	require.NoError(t, svc.Criar(db, n))

	res, err := svc.MoverEstagio(db, 1, 10, n.ID, ganho.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusGanho, res.Negocio.Status)
	require.NotNil(t, res.Notificacao)
}

func TestMoverGanhoNaoReaplicaEfeitos(t *testing.T) {
	db := novoBancoTeste(t)
	estagios := semeiaFunil(t, db, 1)
	svc := NewService()

	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "Estúdio Graça"}
	require.NoError(t, svc.Criar(db, n))

	fechamento := estagios[len(estagios)-1]
	primeiro, err := svc.MoverEstagio(db, 1, 10, n.ID, fechamento.ID)
	require.NoError(t, err)
	require.NotNil(t, primeiro.Notificacao)
	fechadoEm := *primeiro.Negocio.ClosedAt

	segundo, err := svc.MoverEstagio(db, 1, 10, n.ID, fechamento.ID)
	require.NoError(t, err)
	assert.Nil(t, segundo.Notificacao)
	assert.Equal(t, StatusGanho, segundo.Negocio.Status)
	assert.Equal(t, fechadoEm.Unix(), segundo.Negocio.ClosedAt.Unix())

	var total int64
	require.NoError(t, db.Model(&notificacao.Notificacao{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestMoverParaEstagioDeOutroTenant(t *testing.T) {
	db := novoBancoTeste(t)
	semeiaFunil(t, db, 1)
	alheios := semeiaFunil(t, db, 2)
	svc := NewService()

	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "T3 Benfica"}
	require.NoError(t, svc.Criar(db, n))
	estagioOriginal := n.EstagioID

	_, err := svc.MoverEstagio(db, 1, 10, n.ID, alheios[2].ID)
	assert.ErrorIs(t, err, tenancy.ErrNaoEncontrado)

	var persistido Negocio
	require.NoError(t, db.First(&persistido, n.ID).Error)
	assert.Equal(t, estagioOriginal, persistido.EstagioID)
}

func TestMoverNegocioDeOutroTenant(t *testing.T) {
	db := novoBancoTeste(t)
	estagios := semeiaFunil(t, db, 1)
	semeiaFunil(t, db, 2)
	svc := NewService()

	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "T1 Arroios"}
	require.NoError(t, svc.Criar(db, n))

	_, err := svc.MoverEstagio(db, 2, 10, n.ID, estagios[1].ID)
	assert.ErrorIs(t, err, tenancy.ErrNaoEncontrado)
}

func TestMoverNegocioDeletado(t *testing.T) {
	db := novoBancoTeste(t)
	estagios := semeiaFunil(t, db, 1)
	svc := NewService()

	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "Garagem Campolide"}
	require.NoError(t, svc.Criar(db, n))
	require.NoError(t, NewRepository().MarcarStatus(db, 1, n.ID, StatusDeletado))

	_, err := svc.MoverEstagio(db, 1, 10, n.ID, estagios[1].ID)
	assert.ErrorIs(t, err, tenancy.ErrNaoEncontrado)
}

// notificacoesComFalha simula indisponibilidade no meio do fechamento.
type notificacoesComFalha struct {
	notificacao.Repository
}

var errNotificacaoIndisponivel = errors.New("notificações indisponíveis")

func (notificacoesComFalha) Criar(_ *gorm.DB, _ *notificacao.Notificacao) error {
	return errNotificacaoIndisponivel
}

func TestMoverFechamentoAtomico(t *testing.T) {
	db := novoBancoTeste(t)
	estagios := semeiaFunil(t, db, 1)

	svc := NewService()
	svc.Notificacoes = notificacoesComFalha{}

	l := lead.Lead{TenantID: 1, Nome: "Beatriz", Status: lead.StatusQualifcado}
	require.NoError(t, db.Create(&l).Error)

	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "Duplex Areeiro", LeadID: &l.ID}
	require.NoError(t, svc.Criar(db, n))
	estagioOriginal := n.EstagioID

	fechamento := estagios[len(estagios)-1]
	_, err := svc.MoverEstagio(db, 1, 10, n.ID, fechamento.ID)
	require.ErrorIs(t, err, errNotificacaoIndisponivel)

	// Nada da sequência pode ter sobrevivido ao rollback.
	var persistido Negocio
	require.NoError(t, db.First(&persistido, n.ID).Error)
	assert.Equal(t, StatusAberto, persistido.Status)
	assert.Equal(t, estagioOriginal, persistido.EstagioID)
	assert.Nil(t, persistido.ClosedAt)

	var leadPersistido lead.Lead
	require.NoError(t, db.First(&leadPersistido, l.ID).Error)
	assert.Equal(t, lead.StatusQualifcado, leadPersistido.Status)

	var atividades int64
	require.NoError(t, db.Model(&atividade.Atividade{}).
		Where("tipo = ?", "stage_changed").Count(&atividades).Error)
	assert.Zero(t, atividades)
}

func TestListarAtivosEValorTotalIgnoramDeletados(t *testing.T) {
	db := novoBancoTeste(t)
	semeiaFunil(t, db, 1)
	svc := NewService()
	repo := NewRepository()

	valores := []float64{100000, 250000, 300000}
	ids := make([]uint, 0, 3)
	for i, v := range valores {
		valor := v
		n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "Negócio", Valor: &valor}
		require.NoError(t, svc.Criar(db, n))
		if i == 2 {
			require.NoError(t, repo.MarcarStatus(db, 1, n.ID, StatusDeletado))
		}
		ids = append(ids, n.ID)
	}

	ativos, err := repo.ListarAtivos(db, 1)
	require.NoError(t, err)
	assert.Len(t, ativos, 2)
	for _, n := range ativos {
		assert.NotEqual(t, ids[2], n.ID)
	}

	total, err := repo.ValorTotalAberto(db, 1)
	require.NoError(t, err)
	assert.Equal(t, 350000.0, total)

	// Remoção lógica: o registro segue recuperável por id dentro do tenant.
	apagado, err := repo.BuscarPorID(db, 1, ids[2])
	require.NoError(t, err)
	assert.Equal(t, StatusDeletado, apagado.Status)
}

func TestFluxoLeadIndicadoAteFechamento(t *testing.T) {
	db := novoBancoTeste(t)
	estagios := semeiaFunil(t, db, 1)
	svc := NewService()

	budget := 900000.0
	l := lead.Lead{
		TenantID:    1,
		Nome:        "Cliente Indicado",
		Telefone:    "+351912345678",
		Fonte:       lead.FonteIndicacao,
		Temperatura: lead.TemperaturaHot,
		BudgetMax:   &budget,
		Status:      lead.StatusNovo,
	}
	l.RecalcularScore()
	require.NoError(t, db.Create(&l).Error)
	assert.Equal(t, 85, l.Score)

	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "Venda indicada", LeadID: &l.ID}
	require.NoError(t, svc.Criar(db, n))
	assert.Equal(t, estagios[0].ID, n.EstagioID)

	res, err := svc.MoverEstagio(db, 1, 10, n.ID, estagios[len(estagios)-1].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusGanho, res.Negocio.Status)
	require.NotNil(t, res.Notificacao)
	require.NotNil(t, res.Atividade)

	var ganho lead.Lead
	require.NoError(t, db.First(&ganho, l.ID).Error)
	assert.Equal(t, lead.StatusGanho, ganho.Status)

	var notificacoes, atividades int64
	require.NoError(t, db.Model(&notificacao.Notificacao{}).Count(&notificacoes).Error)
	require.NoError(t, db.Model(&atividade.Atividade{}).
		Where("tipo = ?", "stage_changed").Count(&atividades).Error)
	assert.Equal(t, int64(1), notificacoes)
	assert.Equal(t, int64(1), atividades)
}
