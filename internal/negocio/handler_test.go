package negocio

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/leadcontrol/api-crm/internal/auth"
	"github.com/leadcontrol/api-crm/internal/notificacao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtualizarNaoMoveEstagio(t *testing.T) {
	db := novoBancoTeste(t)
	estagios := semeiaFunil(t, db, 1)
	svc := NewService()
	h := NewHandler(db)

	valor := 200000.0
	n := &Negocio{TenantID: 1, AgenteID: 10, Titulo: "Apartamento Graça", Valor: &valor}
	require.NoError(t, svc.Criar(db, n))
	require.Equal(t, estagios[0].ID, n.EstagioID)

	fechamento := estagios[len(estagios)-1]
	corpo, err := json.Marshal(map[string]any{
		"titulo":    "Apartamento Graça (atualizado)",
		"valor":     210000.0,
		"estagioId": fechamento.ID,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/negocios/1", bytes.NewReader(corpo))
	req = mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(int(n.ID))})
	ctx := context.WithValue(req.Context(), auth.CtxUserID, uint(10))
	ctx = context.WithValue(ctx, auth.CtxTenantID, uint(1))
	rec := httptest.NewRecorder()
	h.Atualizar(rec, req.WithContext(ctx))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// O PUT edita os campos do negócio; o estágio segue intocado e nenhum
	// efeito de fechamento é aplicado.
	var depois Negocio
	require.NoError(t, db.First(&depois, n.ID).Error)
	assert.Equal(t, "Apartamento Graça (atualizado)", depois.Titulo)
	require.NotNil(t, depois.Valor)
	assert.Equal(t, 210000.0, *depois.Valor)
	assert.Equal(t, estagios[0].ID, depois.EstagioID)
	assert.Equal(t, StatusAberto, depois.Status)
	assert.Nil(t, depois.ClosedAt)

	var notificacoes int64
	require.NoError(t, db.Model(&notificacao.Notificacao{}).Count(&notificacoes).Error)
	assert.Zero(t, notificacoes)
}
