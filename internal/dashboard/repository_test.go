package dashboard

import (
	"testing"

	"github.com/leadcontrol/api-crm/internal/tarefa"
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
	require.NoError(t, db.AutoMigrate(&tarefa.Tarefa{}))
	return db
}

func TestContarTarefasPendentesPorTenant(t *testing.T) {
	db := novoBancoTeste(t)
	repo := NewRepository()

	tarefas := []tarefa.Tarefa{
		{TenantID: 1, Titulo: "Ligar para lead", Status: tarefa.StatusPendente},
		{TenantID: 1, Titulo: "Preparar visita", Status: tarefa.StatusPendente},
		{TenantID: 1, Titulo: "Enviar proposta", Status: tarefa.StatusConcluida},
		{TenantID: 2, Titulo: "Follow-up", Status: tarefa.StatusPendente},
	}
	for i := range tarefas {
		require.NoError(t, db.Create(&tarefas[i]).Error)
	}

	total, err := repo.ContarTarefasPendentes(db, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	total, err = repo.ContarTarefasPendentes(db, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
