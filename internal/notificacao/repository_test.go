package notificacao

import (
	"testing"

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
	require.NoError(t, db.AutoMigrate(&Notificacao{}))
	return db
}

func TestMarcarTodasLidasSoDoUsuario(t *testing.T) {
	db := novoBancoTeste(t)
	repo := NewRepository()

	notificacoes := []Notificacao{
		{TenantID: 1, UsuarioID: 1, Tipo: "deal", Titulo: "Negócio Fechado!"},
		{TenantID: 1, UsuarioID: 1, Tipo: "lead", Titulo: "Novo lead"},
		{TenantID: 1, UsuarioID: 1, Tipo: "system", Titulo: "Bem-vindo", Lida: true},
		{TenantID: 1, UsuarioID: 2, Tipo: "task", Titulo: "Tarefa vencida"},
		{TenantID: 2, UsuarioID: 1, Tipo: "lead", Titulo: "Lead de outro tenant"},
	}
	for i := range notificacoes {
		require.NoError(t, repo.Criar(db, &notificacoes[i]))
	}

	require.NoError(t, repo.MarcarTodasLidas(db, 1, 1))

	// Só as não lidas do usuário 1 do tenant 1 viram lidas.
	naoLidas, err := repo.ContarNaoLidas(db, 1, 1)
	require.NoError(t, err)
	assert.Zero(t, naoLidas)

	naoLidas, err = repo.ContarNaoLidas(db, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), naoLidas)

	naoLidas, err = repo.ContarNaoLidas(db, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), naoLidas)

	// Os demais campos ficam intactos.
	var primeira Notificacao
	require.NoError(t, db.First(&primeira, notificacoes[0].ID).Error)
	assert.True(t, primeira.Lida)
	assert.Equal(t, "Negócio Fechado!", primeira.Titulo)
	assert.Equal(t, "deal", primeira.Tipo)
}
