package usuario

// request DTOs
type criarUsuarioRequest struct {
	Nome     string `json:"nome" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Senha    string `json:"senha" validate:"omitempty,min=6"`
	Telefone string `json:"telefone"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN MANAGER AGENT"`
}

type usuarioResponse struct {
	ID       uint   `json:"id"`
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
	Ativo    bool   `json:"ativo"`
	// Preenchida apenas quando o cadastro não trouxe senha; devolvida uma
	// única vez, no 201.
	SenhaTemporaria string `json:"senhaTemporaria,omitempty"`
}

func toResponse(u Usuario) usuarioResponse {
	return usuarioResponse{
		ID:       u.ID,
		Nome:     u.Nome,
		Email:    u.Email,
		Telefone: u.Telefone,
		Avatar:   u.Avatar,
		Role:     u.Role,
		Ativo:    u.Ativo,
	}
}
