package automacao

import (
	"testing"

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
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Automacao{}, &AutomacaoLog{}, &Integracao{}))
	return db
}

func TestRegistrarExecucao(t *testing.T) {
	db := novoBancoTeste(t)
	repo := NewRepository()

	a := Automacao{
		TenantID:    1,
		Nome:        "Boas-vindas WhatsApp",
		TipoGatilho: GatilhoNovoLead,
		TipoAcao:    "whatsapp_message",
		Ativa:       true,
	}
	require.NoError(t, repo.Salvar(db, &a))

	require.NoError(t, repo.RegistrarExecucao(db, 1, a.ID))
	require.NoError(t, repo.RegistrarExecucao(db, 1, a.ID))

	atual, err := repo.BuscarPorID(db, 1, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, atual.Execucoes)
	require.NotNil(t, atual.UltimaExecucao)

	// Tenant errado não incrementa nada.
	assert.ErrorIs(t, repo.RegistrarExecucao(db, 2, a.ID), tenancy.ErrNaoEncontrado)
}

func TestMarcarAtiva(t *testing.T) {
	db := novoBancoTeste(t)
	repo := NewRepository()

	a := Automacao{TenantID: 1, Nome: "Follow-up", TipoGatilho: GatilhoAgendado, TipoAcao: "email", Ativa: true}
	require.NoError(t, repo.Salvar(db, &a))

	require.NoError(t, repo.MarcarAtiva(db, 1, a.ID, false))
	atual, err := repo.BuscarPorID(db, 1, a.ID)
	require.NoError(t, err)
	assert.False(t, atual.Ativa)

	assert.ErrorIs(t, repo.MarcarAtiva(db, 2, a.ID, true), tenancy.ErrNaoEncontrado)
}

func TestListarAgendadasAtivas(t *testing.T) {
	db := novoBancoTeste(t)
	repo := NewRepository()

	require.NoError(t, repo.Salvar(db, &Automacao{TenantID: 1, Nome: "A", TipoGatilho: GatilhoAgendado, TipoAcao: "email", Ativa: true}))
	require.NoError(t, repo.Salvar(db, &Automacao{TenantID: 2, Nome: "B", TipoGatilho: GatilhoAgendado, TipoAcao: "email", Ativa: true}))
	require.NoError(t, repo.Salvar(db, &Automacao{TenantID: 1, Nome: "C", TipoGatilho: GatilhoAgendado, TipoAcao: "email", Ativa: false}))
	require.NoError(t, repo.Salvar(db, &Automacao{TenantID: 1, Nome: "D", TipoGatilho: GatilhoNovoLead, TipoAcao: "email", Ativa: true}))

	list, err := repo.ListarAgendadasAtivas(db)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, a := range list {
		assert.True(t, a.Ativa)
		assert.Equal(t, GatilhoAgendado, a.TipoGatilho)
	}
}

func TestRemoverApagaLogsJuntos(t *testing.T) {
	db := novoBancoTeste(t)
	repo := NewRepository()

	a := Automacao{TenantID: 1, Nome: "Limpeza", TipoGatilho: GatilhoAgendado, TipoAcao: "webhook", Ativa: true}
	require.NoError(t, repo.Salvar(db, &a))
	require.NoError(t, repo.RegistrarLog(db, &AutomacaoLog{TenantID: 1, AutomacaoID: a.ID, Status: "success", Mensagem: "ok"}))

	require.NoError(t, repo.Remover(db, 1, a.ID))

	_, err := repo.BuscarPorID(db, 1, a.ID)
	assert.ErrorIs(t, err, tenancy.ErrNaoEncontrado)

	var logs int64
	require.NoError(t, db.Model(&AutomacaoLog{}).Where("automacao_id = ?", a.ID).Count(&logs).Error)
	assert.Zero(t, logs)

	// Remover de novo já não encontra nada.
	assert.ErrorIs(t, repo.Remover(db, 1, a.ID), tenancy.ErrNaoEncontrado)
}

func TestIntegracoesPadrao(t *testing.T) {
	db := novoBancoTeste(t)
	repo := NewRepository()

	integracoes := IntegracoesPadrao(1)
	require.Len(t, integracoes, 8)
	require.NoError(t, db.Create(&integracoes).Error)

	list, err := repo.ListarIntegracoes(db, 1)
	require.NoError(t, err)
	assert.Len(t, list, 8)
	for _, i := range list {
		assert.False(t, i.Ativa)
	}

	list[0].Ativa = true
	require.NoError(t, repo.SalvarIntegracao(db, &list[0]))

	reordenada, err := repo.ListarIntegracoes(db, 1)
	require.NoError(t, err)
	assert.True(t, reordenada[0].Ativa)
}
