package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pdv-nfce/internal/application/billing"
	"github.com/tu-usuario/pdv-nfce/internal/application/dto"
	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/internal/infrastructure/nuvemfiscal"
	"github.com/tu-usuario/pdv-nfce/pkg/logger"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

type issueFixture struct {
	uc       *billing.IssueInvoiceUseCase
	invoices *fakeInvoiceRepo
	tokens   *fakeTokenSource
	provider *fakeProvider
}

func newIssueFixture(outcome nuvemfiscal.Outcome) *issueFixture {
	companies := &fakeCompanyRepo{companies: map[string]*entity.Company{
		"company-1": emissionReadyCompany(),
	}}
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		"cust-1": {ID: "cust-1", CompanyID: "company-1", Name: "Maria Silva", TaxID: "123.456.789-01"},
		"cust-2": {ID: "cust-2", CompanyID: "company-2", Name: "De outra empresa", TaxID: "987.654.321-00"},
	}}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": catalogProduct("prod-1", "CAFE500", "Café 500g", "5.25"),
		"prod-2": catalogProduct("prod-2", "ACUCAR1", "Açúcar 1kg", "3.00"),
	}}
	invoices := &fakeInvoiceRepo{}
	tokens := &fakeTokenSource{token: "tok-abc"}
	provider := &fakeProvider{outcome: outcome}

	uc := billing.NewIssueInvoiceUseCase(companies, customers, products, invoices, tokens, provider, logger.Nop())
	return &issueFixture{uc: uc, invoices: invoices, tokens: tokens, provider: provider}
}

func authorizedOutcome(providerID string) nuvemfiscal.Outcome {
	return nuvemfiscal.Outcome{
		Kind: nuvemfiscal.OutcomeAuthorized,
		Authorization: &nuvemfiscal.AuthorizationResponse{
			ID:       providerID,
			Status:   "autorizado",
			Chave:    "35260811222333000181650020000000011000000015",
			URLDanfe: "https://cdn/danfe.pdf",
			URLXML:   "https://cdn/nota.xml",
		},
	}
}

func saleRequest() dto.IssueInvoiceRequest {
	return dto.IssueInvoiceRequest{
		Payment: nfce.PaymentDinheiro,
		Items: []dto.CartItemRequest{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "prod-2", Quantity: 1},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Caminho feliz
// ──────────────────────────────────────────────────────────────────────────────

func TestIssue_Autorizada_GravaNoLivro(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))

	res, err := f.uc.Issue(context.Background(), "company-1", saleRequest())

	require.NoError(t, err)
	assert.Equal(t, nuvemfiscal.OutcomeAuthorized, res.Outcome.Kind)
	require.NotNil(t, res.Invoice)
	assert.Equal(t, 1, res.Invoice.Numero, "primeira nota da série começa em 1")
	assert.Equal(t, 2, res.Invoice.Serie, "homologação usa a série 2")
	assert.Equal(t, "13.50", res.Invoice.Total.StringFixed(2), "2×5.25 + 1×3.00")
	assert.Equal(t, entity.InvoiceStatusAutorizada, res.Invoice.Status)
	assert.Equal(t, "nfe_1", res.Invoice.ProviderID)
	assert.Equal(t, "35260811222333000181650020000000011000000015", res.Invoice.Chave)
	assert.Equal(t, "https://cdn/danfe.pdf", res.Invoice.URLPDF)

	require.Len(t, f.invoices.invoices, 1)
	assert.Equal(t, "company-1", f.invoices.invoices[0].CompanyID)
	assert.Equal(t, "tok-abc", f.provider.lastToken, "token adquirido é repassado ao envio")
}

func TestIssue_NumeracaoMonotonica(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))

	for esperado := 1; esperado <= 3; esperado++ {
		f.provider.outcome = authorizedOutcome("nfe_" + string(rune('0'+esperado)))
		res, err := f.uc.Issue(context.Background(), "company-1", saleRequest())
		require.NoError(t, err)
		assert.Equal(t, esperado, res.Invoice.Numero)
	}
}

func TestIssue_ClienteIdentificado_EntraNoDocumento(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))
	req := saleRequest()
	req.CustomerID = "cust-1"

	res, err := f.uc.Issue(context.Background(), "company-1", req)

	require.NoError(t, err)
	assert.Equal(t, "cust-1", res.Invoice.CustomerID)
	require.NotNil(t, f.provider.lastDoc.InfNFe.Dest)
	assert.Equal(t, "12345678901", f.provider.lastDoc.InfNFe.Dest.CPF)
}

// ──────────────────────────────────────────────────────────────────────────────
// Desfechos não autorizados: nada é persistido
// ──────────────────────────────────────────────────────────────────────────────

func TestIssue_Rejeitada_NaoPersiste(t *testing.T) {
	f := newIssueFixture(nuvemfiscal.Outcome{Kind: nuvemfiscal.OutcomeRejected, Reason: "Rejeicao: X"})

	res, err := f.uc.Issue(context.Background(), "company-1", saleRequest())

	require.NoError(t, err)
	assert.Equal(t, nuvemfiscal.OutcomeRejected, res.Outcome.Kind)
	assert.Nil(t, res.Invoice)
	assert.Empty(t, f.invoices.invoices)

	// O número não foi consumido: a próxima emissão autorizada recebe 1.
	f.provider.outcome = authorizedOutcome("nfe_1")
	res, err = f.uc.Issue(context.Background(), "company-1", saleRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Invoice.Numero)
}

func TestIssue_Processando_NaoPersiste(t *testing.T) {
	f := newIssueFixture(nuvemfiscal.Outcome{Kind: nuvemfiscal.OutcomeProcessing, Reason: "processamento"})

	res, err := f.uc.Issue(context.Background(), "company-1", saleRequest())

	require.NoError(t, err)
	assert.Equal(t, nuvemfiscal.OutcomeProcessing, res.Outcome.Kind)
	assert.Empty(t, f.invoices.invoices, "nota em processamento entra no livro só via reconciliação")
}

// ──────────────────────────────────────────────────────────────────────────────
// Pré-condições: falham antes de qualquer chamada de rede
// ──────────────────────────────────────────────────────────────────────────────

func TestIssue_CarrinhoVazio(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))
	req := saleRequest()
	req.Items = nil

	_, err := f.uc.Issue(context.Background(), "company-1", req)

	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, f.tokens.calls, "sem autenticação")
	assert.Zero(t, f.provider.submitCalls, "sem envio")
}

func TestIssue_PagamentoInvalido(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))
	req := saleRequest()
	req.Payment = "99"

	_, err := f.uc.Issue(context.Background(), "company-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIssue_QuantidadeInvalida(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))
	req := saleRequest()
	req.Items[0].Quantity = 0

	_, err := f.uc.Issue(context.Background(), "company-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIssue_EmpresaIncompleta(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))
	companies := &fakeCompanyRepo{companies: map[string]*entity.Company{}}
	incompleta := emissionReadyCompany()
	incompleta.IE = ""
	companies.companies["company-1"] = incompleta
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": catalogProduct("prod-1", "CAFE500", "Café 500g", "5.25"),
		"prod-2": catalogProduct("prod-2", "ACUCAR1", "Açúcar 1kg", "3.00"),
	}}
	uc := billing.NewIssueInvoiceUseCase(companies, &fakeCustomerRepo{}, products, f.invoices, f.tokens, f.provider, logger.Nop())

	_, err := uc.Issue(context.Background(), "company-1", saleRequest())

	assert.ErrorIs(t, err, domain.ErrIncompleteCompany)
	assert.Zero(t, f.provider.submitCalls)
}

func TestIssue_SemCredenciaisDoAmbiente(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))
	semCreds := emissionReadyCompany()
	semCreds.SandboxClientID = ""
	companies := &fakeCompanyRepo{companies: map[string]*entity.Company{"company-1": semCreds}}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": catalogProduct("prod-1", "CAFE500", "Café 500g", "5.25"),
		"prod-2": catalogProduct("prod-2", "ACUCAR1", "Açúcar 1kg", "3.00"),
	}}
	uc := billing.NewIssueInvoiceUseCase(companies, &fakeCustomerRepo{}, products, f.invoices, f.tokens, f.provider, logger.Nop())

	_, err := uc.Issue(context.Background(), "company-1", saleRequest())

	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
	assert.Zero(t, f.tokens.calls)
}

func TestIssue_ProdutoDeOutraEmpresa(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))
	req := saleRequest()

	// prod-3 pertence a outra empresa
	alheio := catalogProduct("prod-3", "X", "Alheio", "1.00")
	alheio.CompanyID = "company-2"
	fProducts := &fakeProductRepo{products: map[string]*entity.Product{"prod-3": alheio}}
	companies := &fakeCompanyRepo{companies: map[string]*entity.Company{"company-1": emissionReadyCompany()}}
	uc := billing.NewIssueInvoiceUseCase(companies, &fakeCustomerRepo{}, fProducts, f.invoices, f.tokens, f.provider, logger.Nop())
	req.Items = []dto.CartItemRequest{{ProductID: "prod-3", Quantity: 1}}

	_, err := uc.Issue(context.Background(), "company-1", req)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestIssue_ClienteDeOutraEmpresa(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))
	req := saleRequest()
	req.CustomerID = "cust-2"

	_, err := f.uc.Issue(context.Background(), "company-1", req)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestIssue_FalhaDeAutenticacao_Propaga(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))
	f.tokens.err = &nuvemfiscal.AuthError{Reason: nuvemfiscal.AuthProviderRejected}

	_, err := f.uc.Issue(context.Background(), "company-1", saleRequest())

	var authErr *nuvemfiscal.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Zero(t, f.provider.submitCalls, "sem token não há envio")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta do livro local
// ──────────────────────────────────────────────────────────────────────────────

func TestGetInvoice_RestritaAEmpresa(t *testing.T) {
	f := newIssueFixture(authorizedOutcome("nfe_1"))
	res, err := f.uc.Issue(context.Background(), "company-1", saleRequest())
	require.NoError(t, err)

	got, err := f.uc.GetInvoice(context.Background(), "company-1", res.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Invoice.ID, got.ID)

	_, err = f.uc.GetInvoice(context.Background(), "company-2", res.Invoice.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.GetInvoice(context.Background(), "company-1", "inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
