// internal/lead/score.go
// Calcula o score de qualificação de um lead (0-100).
package lead

// Limiar de orçamento que pontua (inclusive).
const BudgetAltoMinimo = 500000

// Fontes e temperaturas com peso no score.
const (
	FonteIndicacao  = "indicacao"
	TemperaturaHot  = "hot"
	TemperaturaWarm = "warm"
	TemperaturaCold = "cold"
)

// ScoreInput reúne os cinco sinais que pontuam. Campos vazios/nulos não
// pontuam; valores desconhecidos de fonte ou temperatura valem zero.
type ScoreInput struct {
	Telefone    string
	Email       string
	BudgetMax   *float64
	Fonte       string
	Temperatura string
}

// CalcularScore é determinística e sem efeitos colaterais: mesma entrada,
// mesmo resultado. Deve ser chamada (e o resultado persistido) em TODA
// criação ou atualização de lead; score desatualizado é bug, não staleness
// aceitável.
func CalcularScore(in ScoreInput) int {
	score := 0
	if in.Telefone != "" {
		score += 20
	}
	if in.Email != "" {
		score += 15
	}
	if in.BudgetMax != nil && *in.BudgetMax >= BudgetAltoMinimo {
		score += 20
	}
	if in.Fonte == FonteIndicacao {
		score += 20
	}
	switch in.Temperatura {
	case TemperaturaHot:
		score += 25
	case TemperaturaWarm:
		score += 15
	}
	if score > 100 {
		score = 100
	}
	return score
}
