package lead

// DTOs tipados por operação: nada de mapas abertos chegando ao storage.

type leadCreateDTO struct {
	Nome        string   `json:"nome" validate:"required"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Telefone    string   `json:"telefone"`
	Fonte       string   `json:"fonte"`
	Status      string   `json:"status" validate:"omitempty,oneof=new contacted qualified won lost"`
	Temperatura string   `json:"temperatura" validate:"omitempty,oneof=cold warm hot"`
	Interesse   string   `json:"interesse"`
	BudgetMin   *float64 `json:"budgetMin"`
	BudgetMax   *float64 `json:"budgetMax"`
	Notas       string   `json:"notas"`
	AgenteID    *uint    `json:"agenteId"`
}

type leadUpdateDTO struct {
	Nome        string   `json:"nome" validate:"required"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Telefone    string   `json:"telefone"`
	Fonte       string   `json:"fonte"`
	Status      string   `json:"status" validate:"omitempty,oneof=new contacted qualified won lost"`
	Temperatura string   `json:"temperatura" validate:"omitempty,oneof=cold warm hot"`
	Interesse   string   `json:"interesse"`
	BudgetMin   *float64 `json:"budgetMin"`
	BudgetMax   *float64 `json:"budgetMax"`
	Notas       string   `json:"notas"`
	AgenteID    *uint    `json:"agenteId"`
}

type registrarContatoDTO struct {
	Tipo      string `json:"tipo"`
	Descricao string `json:"descricao"`
}
