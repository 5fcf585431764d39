// Package nfce contém catálogos e validações alinhados ao leiaute da NFC-e
// (Nota Fiscal de Consumidor Eletrônica, modelo 65, versão 4.00).
package nfce

// =============================================================================
// Ambiente de emissão (tpAmb)
// Cada empresa opera em homologação (sandbox SEFAZ) ou produção. As séries de
// numeração ficam separadas por ambiente para que os fluxos nunca se cruzem.
// =============================================================================

// Environment identifica o ambiente de emissão da empresa.
type Environment string

const (
	EnvHomologacao Environment = "homologacao"
	EnvProducao    Environment = "producao"
)

// Valid informa se o valor corresponde a um ambiente conhecido.
func (e Environment) Valid() bool {
	return e == EnvHomologacao || e == EnvProducao
}

// TpAmb devolve o código tpAmb do leiaute: 1 = produção, 2 = homologação.
func (e Environment) TpAmb() int {
	if e == EnvProducao {
		return 1
	}
	return 2
}

// Serie devolve a série de numeração fixa do ambiente. Produção usa a série 1
// e homologação a série 2, mantendo as sequências disjuntas.
func (e Environment) Serie() int {
	if e == EnvProducao {
		return 1
	}
	return 2
}

// =============================================================================
// Meios de pagamento (tPag) - códigos de uso frequente no PDV
// =============================================================================

const (
	PaymentDinheiro      = "01" // Dinheiro
	PaymentCartaoCredito = "03" // Cartão de Crédito
	PaymentCartaoDebito  = "04" // Cartão de Débito
	PaymentPIX           = "17" // PIX
)

// ValidPaymentMethods meios de pagamento aceitos pelo sistema.
var ValidPaymentMethods = map[string]bool{
	PaymentDinheiro:      true,
	PaymentCartaoCredito: true,
	PaymentCartaoDebito:  true,
	PaymentPIX:           true,
}

// RequiresCardDetail indica se o meio de pagamento exige o subgrupo card no
// detPag. Cartões e PIX levam tpIntegra = 2 (sem integração com TEF/POS físico).
func RequiresCardDetail(tPag string) bool {
	return tPag == PaymentCartaoCredito || tPag == PaymentCartaoDebito || tPag == PaymentPIX
}

// =============================================================================
// Constantes do leiaute usadas na montagem do documento
// =============================================================================

const (
	// DefaultNCM placeholder quando o produto não tem NCM cadastrado.
	DefaultNCM = "00000000"
	// DefaultCFOP venda de mercadoria dentro do estado (consumidor final).
	DefaultCFOP = "5102"
	// SemGTIN valor fixo de cEAN/cEANTrib quando o produto não tem código de barras.
	SemGTIN = "SEM GTIN"
	// CodigoPaisBrasil código BACEN do Brasil (cPais).
	CodigoPaisBrasil = "1058"
	// NomePaisBrasil nome do país no endereço (xPais).
	NomePaisBrasil = "BRASIL"
)
