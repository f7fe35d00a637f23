package usuario

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/leadcontrol/api-crm/internal/auth"
	"github.com/leadcontrol/api-crm/internal/tenancy"
	"github.com/leadcontrol/api-crm/internal/utils"
	"gorm.io/gorm"
)

var validate = validator.New()

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

// Listar retorna a equipe do tenant autenticado
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	list, err := h.Repository.ListarPorTenant(h.DB, tenantID)
	if err != nil {
		http.Error(w, "erro ao listar usuários", http.StatusInternalServerError)
		return
	}
	out := make([]usuarioResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toResponse(u))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// Criar cadastra um novo membro da equipe (agente por padrão)
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	var req criarUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "payload inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Sem senha no cadastro, uma temporária é gerada e devolvida no 201
	// para o gestor repassar ao novo membro.
	senhaTemporaria := ""
	if req.Senha == "" {
		gerada, err := utils.GerarSenhaTemporaria()
		if err != nil {
			http.Error(w, "erro ao gerar senha", http.StatusInternalServerError)
			return
		}
		senhaTemporaria = gerada
		req.Senha = gerada
	}

	hash, err := utils.HashSenha(req.Senha)
	if err != nil {
		http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
		return
	}

	role := req.Role
	if role == "" {
		role = auth.RoleAgent
	}

	u := Usuario{
		TenantID: tenantID,
		Nome:     req.Nome,
		Email:    req.Email,
		Senha:    hash,
		Telefone: req.Telefone,
		Avatar:   req.Avatar,
		Role:     role,
		Ativo:    true,
	}
	if err := h.Repository.Salvar(h.DB, &u); err != nil {
		http.Error(w, "erro ao salvar usuário", http.StatusInternalServerError)
		return
	}

	resp := toResponse(u)
	resp.SenhaTemporaria = senhaTemporaria

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}

// BuscarPorID retorna um usuário do tenant pelo ID
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
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

	u, err := h.Repository.BuscarPorID(h.DB, tenantID, uint(id))
	if err != nil {
		http.Error(w, "usuário não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toResponse(*u))
}

// Desativar remove logicamente um membro da equipe
func (h *Handler) Desativar(w http.ResponseWriter, r *http.Request) {
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
	if uint(id) == userID {
		http.Error(w, "não é possível desativar o próprio usuário", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Desativar(h.DB, tenantID, uint(id)); err != nil {
		if errors.Is(err, tenancy.ErrNaoEncontrado) {
			http.Error(w, "usuário não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao desativar usuário", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
