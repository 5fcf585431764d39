package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pdv-nfce/internal/application/billing"
	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/pkg/logger"
)

type fakeReceiptGen struct {
	calls int
	out   []byte
}

func (f *fakeReceiptGen) GenerateReceipt(_ context.Context, _ *entity.Invoice, _ *entity.Company, _ []billing.ReceiptLine) ([]byte, error) {
	f.calls++
	return f.out, nil
}

type documentFixture struct {
	uc       *billing.DocumentUseCase
	invoices *fakeInvoiceRepo
	tokens   *fakeTokenSource
	provider *fakeProvider
	receipts *fakeReceiptGen
}

func newDocumentFixture() *documentFixture {
	companies := &fakeCompanyRepo{companies: map[string]*entity.Company{
		"company-1": emissionReadyCompany(),
	}}
	invoices := &fakeInvoiceRepo{}
	tokens := &fakeTokenSource{token: "tok-abc"}
	provider := &fakeProvider{}
	receipts := &fakeReceiptGen{out: []byte("%PDF recibo local")}
	uc := billing.NewDocumentUseCase(companies, invoices, tokens, provider, receipts, logger.Nop())
	return &documentFixture{uc: uc, invoices: invoices, tokens: tokens, provider: provider, receipts: receipts}
}

func TestDownloadPDF_NotaComProviderID_BaixaDoProvedor(t *testing.T) {
	f := newDocumentFixture()
	require.NoError(t, f.invoices.Create(localInvoice(7)))
	f.provider.pdf = []byte("%PDF danfe oficial")

	data, err := f.uc.DownloadPDF(context.Background(), "company-1", "inv-local")

	require.NoError(t, err)
	assert.Equal(t, "%PDF danfe oficial", string(data))
	assert.Zero(t, f.receipts.calls)
}

// Nota adotada sem id no provedor: cai no recibo local, sem rede.
func TestDownloadPDF_SemProviderID_ReciboLocal(t *testing.T) {
	f := newDocumentFixture()
	pendente := localInvoice(7)
	pendente.ProviderID = ""
	pendente.Status = entity.InvoiceStatusPendente
	require.NoError(t, f.invoices.Create(pendente))

	data, err := f.uc.DownloadPDF(context.Background(), "company-1", "inv-local")

	require.NoError(t, err)
	assert.Equal(t, "%PDF recibo local", string(data))
	assert.Equal(t, 1, f.receipts.calls)
	assert.Zero(t, f.tokens.calls, "recibo local não autentica no provedor")
}

func TestDownloadPDF_NotaDeOutraEmpresa(t *testing.T) {
	f := newDocumentFixture()
	require.NoError(t, f.invoices.Create(localInvoice(7)))

	_, err := f.uc.DownloadPDF(context.Background(), "company-2", "inv-local")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDownloadXML_SemProviderID_Conflito(t *testing.T) {
	f := newDocumentFixture()
	pendente := localInvoice(7)
	pendente.ProviderID = ""
	require.NoError(t, f.invoices.Create(pendente))

	_, _, err := f.uc.DownloadXML(context.Background(), "company-1", "inv-local")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// Ao baixar o XML de uma nota adotada sem chave, a chave e o status são
// completados na linha local a partir dos metadados do protocolo.
func TestDownloadXML_CompletaChaveDaNotaAdotada(t *testing.T) {
	f := newDocumentFixture()
	adotada := localInvoice(7)
	adotada.Chave = ""
	adotada.Status = entity.InvoiceStatusPendente
	require.NoError(t, f.invoices.Create(adotada))

	f.provider.xml = []byte(`<nfeProc><NFe><infNFe Id="NFe35260811222333000181650020000000071000000077"/></NFe>` +
		`<protNFe><infProt><chNFe>35260811222333000181650020000000071000000077</chNFe><nProt>135260000099999</nProt></infProt></protNFe></nfeProc>`)

	raw, meta, err := f.uc.DownloadXML(context.Background(), "company-1", "inv-local")

	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	require.NotNil(t, meta)
	assert.Equal(t, "35260811222333000181650020000000071000000077", meta.Chave)
	assert.Equal(t, "135260000099999", meta.Protocolo)

	atualizada, _ := f.invoices.GetByID("inv-local")
	assert.Equal(t, "35260811222333000181650020000000071000000077", atualizada.Chave)
	assert.Equal(t, entity.InvoiceStatusAutorizada, atualizada.Status)
}

// XML sem protNFe prova só a chave, não a autorização: a chave é completada
// mas a nota adotada segue PENDENTE até aparecer o protocolo.
func TestDownloadXML_SemProtocolo_NaoAutoriza(t *testing.T) {
	f := newDocumentFixture()
	adotada := localInvoice(7)
	adotada.Chave = ""
	adotada.Status = entity.InvoiceStatusPendente
	require.NoError(t, f.invoices.Create(adotada))

	f.provider.xml = []byte(`<NFe><infNFe Id="NFe35260811222333000181650020000000071000000077" versao="4.00"/></NFe>`)

	raw, meta, err := f.uc.DownloadXML(context.Background(), "company-1", "inv-local")

	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	require.NotNil(t, meta)
	assert.Equal(t, "35260811222333000181650020000000071000000077", meta.Chave)
	assert.Empty(t, meta.Protocolo)

	atualizada, _ := f.invoices.GetByID("inv-local")
	assert.Equal(t, "35260811222333000181650020000000071000000077", atualizada.Chave, "a chave entra mesmo sem protocolo")
	assert.Equal(t, entity.InvoiceStatusPendente, atualizada.Status, "sem protocolo a nota não vira AUTORIZADA")
}

// XML sem os campos esperados é entregue mesmo assim, sem metadados.
func TestDownloadXML_SemMetadados_EntregaCru(t *testing.T) {
	f := newDocumentFixture()
	require.NoError(t, f.invoices.Create(localInvoice(7)))
	f.provider.xml = []byte(`<qualquer>coisa</qualquer>`)

	raw, meta, err := f.uc.DownloadXML(context.Background(), "company-1", "inv-local")

	require.NoError(t, err)
	assert.Equal(t, `<qualquer>coisa</qualquer>`, string(raw))
	assert.Nil(t, meta)
}
