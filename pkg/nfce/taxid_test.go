package nfce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// ──────────────────────────────────────────────────────────────────────────────
// ClassifyTaxID: a discriminação CPF/CNPJ é feita só pela contagem de dígitos
// depois de remover a pontuação. 11 dígitos = CPF, qualquer outra coisa = CNPJ.
// ──────────────────────────────────────────────────────────────────────────────

func TestClassifyTaxID(t *testing.T) {
	cases := []struct {
		name       string
		input      string
		wantKind   string
		wantDigits string
	}{
		{"cpf com pontuação", "123.456.789-01", nfce.TaxIDCPF, "12345678901"},
		{"cpf limpo", "12345678901", nfce.TaxIDCPF, "12345678901"},
		{"cnpj com pontuação", "12.345.678/0001-99", nfce.TaxIDCNPJ, "12345678000199"},
		{"cnpj limpo", "12345678000199", nfce.TaxIDCNPJ, "12345678000199"},
		{"tamanho fora do padrão vira cnpj", "1234", nfce.TaxIDCNPJ, "1234"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, digits := nfce.ClassifyTaxID(tc.input)
			assert.Equal(t, tc.wantKind, kind)
			assert.Equal(t, tc.wantDigits, digits)
		})
	}
}

func TestExtractDigits(t *testing.T) {
	assert.Equal(t, "12345678000199", nfce.ExtractDigits("12.345.678/0001-99"))
	assert.Equal(t, "", nfce.ExtractDigits("S/N"))
}

// ValidateCNPJ usa o algoritmo módulo 11 com os pesos oficiais.
// 11.222.333/0001-81 é um CNPJ sintético com dígitos verificadores corretos.
func TestValidateCNPJ(t *testing.T) {
	require.NoError(t, nfce.ValidateCNPJ("11.222.333/0001-81"))
	require.NoError(t, nfce.ValidateCNPJ("11222333000181"))

	assert.Error(t, nfce.ValidateCNPJ("11.222.333/0001-80"), "dígito verificador trocado deve falhar")
	assert.Error(t, nfce.ValidateCNPJ("123"), "tamanho errado deve falhar")
	assert.Error(t, nfce.ValidateCNPJ("00000000000000"), "dígitos repetidos devem falhar")
}

func TestEnvironment(t *testing.T) {
	assert.True(t, nfce.EnvHomologacao.Valid())
	assert.True(t, nfce.EnvProducao.Valid())
	assert.False(t, nfce.Environment("staging").Valid())

	// Produção: tpAmb 1, série 1. Homologação: tpAmb 2, série 2.
	assert.Equal(t, 1, nfce.EnvProducao.TpAmb())
	assert.Equal(t, 1, nfce.EnvProducao.Serie())
	assert.Equal(t, 2, nfce.EnvHomologacao.TpAmb())
	assert.Equal(t, 2, nfce.EnvHomologacao.Serie())
}

func TestRequiresCardDetail(t *testing.T) {
	assert.False(t, nfce.RequiresCardDetail(nfce.PaymentDinheiro))
	assert.True(t, nfce.RequiresCardDetail(nfce.PaymentCartaoCredito))
	assert.True(t, nfce.RequiresCardDetail(nfce.PaymentCartaoDebito))
	assert.True(t, nfce.RequiresCardDetail(nfce.PaymentPIX))
}
