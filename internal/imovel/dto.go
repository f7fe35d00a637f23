package imovel

type imovelCreateDTO struct {
	Titulo     string   `json:"titulo" validate:"required"`
	Tipo       string   `json:"tipo" validate:"required"`
	Finalidade string   `json:"finalidade" validate:"required"`
	Preco      float64  `json:"preco" validate:"required,gt=0"`
	Area       *float64 `json:"area"`
	Quartos    int      `json:"quartos"`
	Banheiros  int      `json:"banheiros"`
	Vagas      int      `json:"vagas"`

	Endereco  string `json:"endereco"`
	Bairro    string `json:"bairro"`
	Cidade    string `json:"cidade"`
	Estado    string `json:"estado"`
	Descricao string `json:"descricao"`

	Status   string `json:"status" validate:"omitempty,oneof=active sold"`
	Destaque bool   `json:"destaque"`

	Imagens     []string `json:"imagens"`
	Comodidades []string `json:"comodidades"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Atualização usa o mesmo shape da criação.
type imovelUpdateDTO = imovelCreateDTO
