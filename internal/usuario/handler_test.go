package usuario

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadcontrol/api-crm/internal/auth"
	"github.com/leadcontrol/api-crm/internal/utils"
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
	require.NoError(t, db.AutoMigrate(&Usuario{}))
	return db
}

func postCriar(t *testing.T, h *Handler, tenantID uint, corpo map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(corpo)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/usuarios", bytes.NewReader(payload))
	ctx := context.WithValue(req.Context(), auth.CtxUserID, uint(1))
	ctx = context.WithValue(ctx, auth.CtxTenantID, tenantID)
	rec := httptest.NewRecorder()
	h.Criar(rec, req.WithContext(ctx))
	return rec
}

func TestCriarComSenhaDefinida(t *testing.T) {
	db := novoBancoTeste(t)
	h := NewHandler(db)

	rec := postCriar(t, h, 1, map[string]any{
		"nome":  "Maria Costa",
		"email": "maria@silva.pt",
		"senha": "segredo123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp usuarioResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.SenhaTemporaria)
	assert.Equal(t, auth.RoleAgent, resp.Role)

	var salvo Usuario
	require.NoError(t, db.First(&salvo, resp.ID).Error)
	assert.True(t, utils.VerificarSenha(salvo.Senha, "segredo123"))
}

func TestCriarSemSenhaGeraTemporaria(t *testing.T) {
	db := novoBancoTeste(t)
	h := NewHandler(db)

	rec := postCriar(t, h, 1, map[string]any{
		"nome":  "Pedro Alves",
		"email": "pedro@silva.pt",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp usuarioResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.SenhaTemporaria, 12)

	// A senha devolvida tem de autenticar contra o hash persistido.
	var salvo Usuario
	require.NoError(t, db.First(&salvo, resp.ID).Error)
	assert.True(t, utils.VerificarSenha(salvo.Senha, resp.SenhaTemporaria))
	assert.NotEqual(t, resp.SenhaTemporaria, salvo.Senha)
}

func TestCriarSenhaCurtaRejeitada(t *testing.T) {
	db := novoBancoTeste(t)
	h := NewHandler(db)

	rec := postCriar(t, h, 1, map[string]any{
		"nome":  "Rita Nunes",
		"email": "rita@silva.pt",
		"senha": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var total int64
	require.NoError(t, db.Model(&Usuario{}).Count(&total).Error)
	assert.Zero(t, total)
}

func TestGerarSenhaTemporariaAleatoria(t *testing.T) {
	a, err := utils.GerarSenhaTemporaria()
	require.NoError(t, err)
	b, err := utils.GerarSenhaTemporaria()
	require.NoError(t, err)
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
}
