package automacao

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/leadcontrol/api-crm/internal/auth"
	"github.com/leadcontrol/api-crm/internal/metrics"
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"github.com/leadcontrol/api-crm/internal/usuario"
	"gorm.io/gorm"
)

var validate = validator.New()

type criarAutomacaoRequest struct {
	Nome          string         `json:"nome" validate:"required"`
	TipoGatilho   string         `json:"tipoGatilho" validate:"required"`
	ConfigGatilho map[string]any `json:"configGatilho"`
	TipoAcao      string         `json:"tipoAcao" validate:"required"`
	ConfigAcao    map[string]any `json:"configAcao"`
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Usuarios   usuario.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Usuarios:   usuario.NewRepository(),
	}
}

// Listar trata GET /automacoes: automações do tenant mais os últimos logs.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	automacoes, err := h.Repository.ListarPorTenant(h.DB, tenantID)
	if err != nil {
		http.Error(w, "Erro ao listar automações", http.StatusInternalServerError)
		return
	}
	logs, err := h.Repository.ListarLogs(h.DB, tenantID, 30)
	if err != nil {
		http.Error(w, "Erro ao listar automações", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"automacoes": automacoes,
		"logs":       logs,
	})
}

// Criar trata POST /automacoes
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	var req criarAutomacaoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "nome, tipoGatilho e tipoAcao são obrigatórios", http.StatusBadRequest)
		return
	}
	if req.ConfigGatilho == nil {
		req.ConfigGatilho = map[string]any{}
	}
	if req.ConfigAcao == nil {
		req.ConfigAcao = map[string]any{}
	}

	a := Automacao{
		TenantID:      tenantID,
		CriadoPor:     userID,
		Nome:          req.Nome,
		TipoGatilho:   req.TipoGatilho,
		ConfigGatilho: req.ConfigGatilho,
		TipoAcao:      req.TipoAcao,
		ConfigAcao:    req.ConfigAcao,
		Ativa:         true,
	}
	if err := h.Repository.Salvar(h.DB, &a); err != nil {
		http.Error(w, "Erro ao criar automação", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": a.ID, "mensagem": "Automação criada com sucesso"})
}

// Alternar trata PATCH /automacoes/{id}/toggle
func (h *Handler) Alternar(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	a, err := h.Repository.BuscarPorID(h.DB, tenantID, uint(id))
	if err != nil {
		if errors.Is(err, tenancy.ErrNaoEncontrado) {
			http.Error(w, "Automação não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao alterar automação", http.StatusInternalServerError)
		return
	}

	novoEstado := !a.Ativa
	status := "deactivated"
	verbo := "desativada"
	if novoEstado {
		status = "activated"
		verbo = "ativada"
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.MarcarAtiva(tx, tenantID, a.ID, novoEstado); err != nil {
			return err
		}
		return h.Repository.RegistrarLog(tx, &AutomacaoLog{
			TenantID:    tenantID,
			AutomacaoID: a.ID,
			Status:      status,
			Mensagem:    fmt.Sprintf("Automação %q %s", a.Nome, verbo),
		})
	})
	if err != nil {
		http.Error(w, "Erro ao alterar automação", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ativa":    novoEstado,
		"mensagem": fmt.Sprintf("Automação %s", verbo),
	})
}

// Executar trata POST /automacoes/{id}/run. A execução é simulada: só o
// contador e o log mudam.
func (h *Handler) Executar(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	a, err := h.Repository.BuscarPorID(h.DB, tenantID, uint(id))
	if err != nil {
		if errors.Is(err, tenancy.ErrNaoEncontrado) {
			http.Error(w, "Automação não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao executar automação", http.StatusInternalServerError)
		return
	}

	executor := "utilizador"
	if u, err := h.Usuarios.BuscarPorID(h.DB, tenantID, userID); err == nil {
		executor = u.Nome
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Repository.RegistrarExecucao(tx, tenantID, a.ID); err != nil {
			return err
		}
		return h.Repository.RegistrarLog(tx, &AutomacaoLog{
			TenantID:    tenantID,
			AutomacaoID: a.ID,
			Status:      "success",
			Mensagem:    fmt.Sprintf("Executada manualmente por %s", executor),
		})
	})
	if err != nil {
		metrics.RecordAutomacaoExecutada("error")
		http.Error(w, "Erro ao executar automação", http.StatusInternalServerError)
		return
	}
	metrics.RecordAutomacaoExecutada("success")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"mensagem": fmt.Sprintf("Automação %q executada com sucesso!", a.Nome),
		"simulada": true,
		"acao":     a.TipoAcao,
	})
}

// Deletar trata DELETE /automacoes/{id}
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Remover(h.DB, tenantID, uint(id)); err != nil {
		if errors.Is(err, tenancy.ErrNaoEncontrado) {
			http.Error(w, "Automação não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao eliminar automação", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"mensagem": "Automação eliminada"})
}

// ListarIntegracoes trata GET /automacoes/integracoes
func (h *Handler) ListarIntegracoes(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	list, err := h.Repository.ListarIntegracoes(h.DB, tenantID)
	if err != nil {
		http.Error(w, "Erro ao listar integrações", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// AlternarIntegracao trata PATCH /automacoes/integracoes/{id}/toggle
func (h *Handler) AlternarIntegracao(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	i, err := h.Repository.BuscarIntegracao(h.DB, tenantID, uint(id))
	if err != nil {
		if errors.Is(err, tenancy.ErrNaoEncontrado) {
			http.Error(w, "Integração não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao atualizar integração", http.StatusInternalServerError)
		return
	}

	i.Ativa = !i.Ativa
	if err := h.Repository.SalvarIntegracao(h.DB, i); err != nil {
		http.Error(w, "Erro ao atualizar integração", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ativa": i.Ativa, "mensagem": "Integração atualizada"})
}
