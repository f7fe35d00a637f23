package negocio

import "time"

type negocioCreateDTO struct {
	Titulo        string     `json:"titulo" validate:"required"`
	LeadID        *uint      `json:"leadId"`
	ImovelID      *uint      `json:"imovelId"`
	EstagioID     *uint      `json:"estagioId"`
	Valor         *float64   `json:"valor"`
	Notas         string     `json:"notas"`
	PrevisaoFecho *time.Time `json:"previsaoFecho"`
}

// negocioUpdateDTO não aceita estagioId: mudança de estágio só pela
// operação de movimentação, que valida o estágio e aplica os efeitos de
// fechamento.
type negocioUpdateDTO struct {
	Titulo        string     `json:"titulo" validate:"required"`
	LeadID        *uint      `json:"leadId"`
	ImovelID      *uint      `json:"imovelId"`
	Valor         *float64   `json:"valor"`
	Notas         string     `json:"notas"`
	PrevisaoFecho *time.Time `json:"previsaoFecho"`
}

type moverEstagioDTO struct {
	EstagioID uint `json:"estagioId" validate:"required"`
}

// colunaKanban agrupa os negócios de um estágio para o GET do pipeline.
type colunaKanban struct {
	ID       uint      `json:"id"`
	Nome     string    `json:"nome"`
	Cor      string    `json:"cor"`
	Posicao  int       `json:"posicao"`
	Negocios []Negocio `json:"negocios"`
}
