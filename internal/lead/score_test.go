package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrFloat(v float64) *float64 { return &v }

func TestCalcularScoreVazio(t *testing.T) {
	assert.Equal(t, 0, CalcularScore(ScoreInput{}))
}

func TestCalcularScorePorSinal(t *testing.T) {
	casos := []struct {
		nome     string
		in       ScoreInput
		esperado int
	}{
		{"apenas telefone", ScoreInput{Telefone: "+351912345678"}, 20},
		{"apenas email", ScoreInput{Email: "ana@example.com"}, 15},
		{"orcamento no limiar", ScoreInput{BudgetMax: ptrFloat(500000)}, 20},
		{"orcamento abaixo do limiar", ScoreInput{BudgetMax: ptrFloat(499999)}, 0},
		{"orcamento nulo", ScoreInput{BudgetMax: nil}, 0},
		{"fonte indicacao", ScoreInput{Fonte: FonteIndicacao}, 20},
		{"fonte desconhecida", ScoreInput{Fonte: "portal"}, 0},
		{"temperatura hot", ScoreInput{Temperatura: TemperaturaHot}, 25},
		{"temperatura warm", ScoreInput{Temperatura: TemperaturaWarm}, 15},
		{"temperatura cold", ScoreInput{Temperatura: TemperaturaCold}, 0},
		{"temperatura desconhecida", ScoreInput{Temperatura: "boiling"}, 0},
		{"manual e cold valem zero", ScoreInput{Fonte: "manual", Temperatura: TemperaturaCold}, 0},
		{"sem email fica em 85", ScoreInput{
			Telefone:    "912345678",
			BudgetMax:   ptrFloat(500000),
			Fonte:       FonteIndicacao,
			Temperatura: TemperaturaHot,
		}, 85},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			assert.Equal(t, c.esperado, CalcularScore(c.in))
		})
	}
}

func TestCalcularScoreHotSuperaWarm(t *testing.T) {
	base := ScoreInput{Telefone: "912345678", Email: "x@y.pt"}

	hot := base
	hot.Temperatura = TemperaturaHot
	warm := base
	warm.Temperatura = TemperaturaWarm

	assert.Greater(t, CalcularScore(hot), CalcularScore(warm))
}

func TestCalcularScoreTetoEmCem(t *testing.T) {
	in := ScoreInput{
		Telefone:    "912345678",
		Email:       "vip@example.com",
		BudgetMax:   ptrFloat(900000),
		Fonte:       FonteIndicacao,
		Temperatura: TemperaturaHot,
	}
	// 20+15+20+20+25 = 100, nunca acima
	assert.Equal(t, 100, CalcularScore(in))
}

func TestCalcularScoreDeterministico(t *testing.T) {
	in := ScoreInput{
		Telefone:    "912345678",
		BudgetMax:   ptrFloat(650000),
		Temperatura: TemperaturaWarm,
	}
	primeiro := CalcularScore(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, primeiro, CalcularScore(in))
	}
}

func TestRecalcularScore(t *testing.T) {
	l := Lead{
		Nome:        "Ana",
		Telefone:    "912345678",
		Email:       "ana@example.com",
		Fonte:       FonteIndicacao,
		Temperatura: TemperaturaHot,
		BudgetMax:   ptrFloat(600000),
		Score:       7, // valor manual é sempre sobrescrito
	}
	l.RecalcularScore()
	assert.Equal(t, 100, l.Score)

	l.Telefone = ""
	l.BudgetMax = nil
	l.RecalcularScore()
	assert.Equal(t, 60, l.Score)
}
