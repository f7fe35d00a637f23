package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEhFechamento(t *testing.T) {
	assert.True(t, EstagioPipeline{Nome: "Assinado", Fechamento: true}.EhFechamento())
	assert.False(t, EstagioPipeline{Nome: "Proposta"}.EhFechamento())

	// Tenants antigos do funil padrão não têm a flag gravada.
	assert.True(t, EstagioPipeline{Nome: NomeFechamentoLegado}.EhFechamento())
}

func TestEstagiosPadrao(t *testing.T) {
	estagios := EstagiosPadrao(7)
	assert.Len(t, estagios, 5)

	assert.True(t, estagios[0].Padrao)
	assert.True(t, estagios[len(estagios)-1].Fechamento)

	fechamentos := 0
	for i, e := range estagios {
		assert.Equal(t, uint(7), e.TenantID)
		assert.Equal(t, i, e.Posicao)
		if e.Fechamento {
			fechamentos++
		}
	}
	assert.Equal(t, 1, fechamentos)
}
