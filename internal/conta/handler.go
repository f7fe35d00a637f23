package conta

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leadcontrol/api-crm/internal/auth"
	"github.com/leadcontrol/api-crm/internal/automacao"
	"github.com/leadcontrol/api-crm/internal/pipeline"
	"github.com/leadcontrol/api-crm/internal/tenant"
	"github.com/leadcontrol/api-crm/internal/usuario"
	"github.com/leadcontrol/api-crm/internal/utils"
	"gorm.io/gorm"
)

var validate = validator.New()

type loginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Senha      string `json:"senha" validate:"required"`
	TenantSlug string `json:"tenantSlug"`
}

type registrarRequest struct {
	NomeTenant string `json:"nomeTenant" validate:"required"`
	SlugTenant string `json:"slugTenant"`
	NomeAdmin  string `json:"nomeAdmin"`
	EmailAdmin string `json:"emailAdmin" validate:"required,email"`
	SenhaAdmin string `json:"senhaAdmin" validate:"required,min=6"`
}

// Handler concentra login, perfil e o onboarding self-service de tenants.
type Handler struct {
	DB       *gorm.DB
	Tenants  tenant.Repository
	Usuarios usuario.Repository
	Estagios pipeline.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:       db,
		Tenants:  tenant.NewRepository(),
		Usuarios: usuario.NewRepository(),
		Estagios: pipeline.NewRepository(),
	}
}

// Login trata POST /auth/login. tenantSlug desambigua quando o mesmo email
// existe em mais de um tenant.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Email e senha obrigatórios", http.StatusBadRequest)
		return
	}

	var u *usuario.Usuario
	var err error
	if req.TenantSlug != "" {
		t, errSlug := h.Tenants.BuscarPorSlug(h.DB, req.TenantSlug)
		if errSlug != nil {
			http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
			return
		}
		u, err = h.Usuarios.BuscarAtivoPorEmailNoTenant(h.DB, req.Email, t.ID)
	} else {
		u, err = h.Usuarios.BuscarAtivoPorEmail(h.DB, req.Email)
	}
	if err != nil || !utils.VerificarSenha(u.Senha, req.Senha) {
		http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
		return
	}

	t, err := h.Tenants.BuscarPorID(h.DB, u.TenantID)
	if err != nil {
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}
	if !t.Ativo {
		http.Error(w, "Conta suspensa, contacte o suporte", http.StatusForbidden)
		return
	}

	token, err := auth.GerarToken(u.ID, u.TenantID, u.Role)
	if err != nil {
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token": token,
		"usuario": map[string]any{
			"id":       u.ID,
			"nome":     u.Nome,
			"email":    u.Email,
			"role":     u.Role,
			"tenantId": u.TenantID,
		},
		"tenant": map[string]any{
			"id":    t.ID,
			"nome":  t.Nome,
			"slug":  t.Slug,
			"plano": t.Plano,
		},
	})
}

// Me trata GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "não autenticado", http.StatusUnauthorized)
		return
	}

	u, err := h.Usuarios.BuscarPorID(h.DB, tenantID, userID)
	if err != nil {
		http.Error(w, "Utilizador não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":       u.ID,
		"nome":     u.Nome,
		"email":    u.Email,
		"role":     u.Role,
		"telefone": u.Telefone,
		"avatar":   u.Avatar,
		"tenantId": u.TenantID,
		"criadoEm": u.CreatedAt,
	})
}

var slugInvalido = regexp.MustCompile(`[^a-z0-9-]`)

func normalizarSlug(slug, nome string) string {
	if slug != "" {
		return slugInvalido.ReplaceAllString(strings.ToLower(slug), "-")
	}
	s := slugInvalido.ReplaceAllString(strings.ToLower(nome), "-")
	if len(s) > 30 {
		s = s[:30]
	}
	return s
}

// Registrar trata POST /auth/register: cria tenant, admin, funil padrão e
// catálogo de integrações numa única transação.
func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	var req registrarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "nomeTenant, emailAdmin e senhaAdmin são obrigatórios", http.StatusBadRequest)
		return
	}

	slug := normalizarSlug(req.SlugTenant, req.NomeTenant)
	if _, err := h.Tenants.BuscarPorSlug(h.DB, slug); err == nil {
		http.Error(w, "Slug já em uso, escolha outro nome de empresa", http.StatusConflict)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Erro ao criar conta", http.StatusInternalServerError)
		return
	}

	hash, err := utils.HashSenha(req.SenhaAdmin)
	if err != nil {
		http.Error(w, "Erro ao criar conta", http.StatusInternalServerError)
		return
	}

	nomeAdmin := req.NomeAdmin
	if nomeAdmin == "" {
		nomeAdmin = strings.SplitN(req.EmailAdmin, "@", 2)[0]
	}

	t := tenant.Tenant{Nome: req.NomeTenant, Slug: slug, Plano: "FREE", Ativo: true}
	admin := usuario.Usuario{
		Nome:  nomeAdmin,
		Email: req.EmailAdmin,
		Senha: hash,
		Role:  auth.RoleAdmin,
		Ativo: true,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := h.Tenants.Salvar(tx, &t); err != nil {
			return err
		}
		admin.TenantID = t.ID
		if err := h.Usuarios.Salvar(tx, &admin); err != nil {
			return err
		}
		for _, e := range pipeline.EstagiosPadrao(t.ID) {
			estagio := e
			if err := h.Estagios.Salvar(tx, &estagio); err != nil {
				return err
			}
		}
		integracoes := automacao.IntegracoesPadrao(t.ID)
		return tx.Create(&integracoes).Error
	})
	if err != nil {
		http.Error(w, "Erro ao criar conta", http.StatusInternalServerError)
		return
	}

	token, err := auth.GerarToken(admin.ID, t.ID, admin.Role)
	if err != nil {
		http.Error(w, "Erro ao criar conta", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"mensagem": "Conta criada com sucesso!",
		"token":    token,
		"tenant":   map[string]any{"id": t.ID, "slug": t.Slug, "nome": t.Nome},
		"usuario":  map[string]any{"id": admin.ID, "email": admin.Email, "role": admin.Role},
	})
}
