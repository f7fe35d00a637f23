package notificacao

import (
	"encoding/json"
	"net/http"

	"github.com/leadcontrol/api-crm/internal/auth"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// Listar trata GET /notificacoes: últimas 20 + contagem de não lidas
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	list, err := h.Repository.ListarPorUsuario(h.DB, tenantID, userID, 20)
	if err != nil {
		http.Error(w, "erro ao carregar notificações", http.StatusInternalServerError)
		return
	}
	naoLidas, err := h.Repository.ContarNaoLidas(h.DB, tenantID, userID)
	if err != nil {
		http.Error(w, "erro ao carregar notificações", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"notificacoes": list,
		"naoLidas":     naoLidas,
	})
}

// MarcarLidas trata PATCH /notificacoes/lidas
func (h *Handler) MarcarLidas(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	if err := h.Repository.MarcarTodasLidas(h.DB, tenantID, userID); err != nil {
		http.Error(w, "erro ao atualizar notificações", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Notificações marcadas como lidas"})
}
