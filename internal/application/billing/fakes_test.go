package billing_test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/internal/infrastructure/nuvemfiscal"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// Fakes em memória dos portos usados pelos casos de uso de emissão. Ficam aqui
// para serem compartilhados entre os arquivos de teste do pacote.

// ──────────────────────────────────────────────────────────────────────────────
// Repositórios
// ──────────────────────────────────────────────────────────────────────────────

type fakeCompanyRepo struct {
	companies map[string]*entity.Company
}

func (f *fakeCompanyRepo) Create(c *entity.Company) error { f.companies[c.ID] = c; return nil }
func (f *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	return f.companies[id], nil
}
func (f *fakeCompanyRepo) GetByCNPJ(string) (*entity.Company, error) { return nil, nil }
func (f *fakeCompanyRepo) Update(c *entity.Company) error            { f.companies[c.ID] = c; return nil }
func (f *fakeCompanyRepo) List(int, int) ([]*entity.Company, error)  { return nil, nil }

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (f *fakeCustomerRepo) Create(c *entity.Customer) error { f.customers[c.ID] = c; return nil }
func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return f.customers[id], nil
}
func (f *fakeCustomerRepo) GetByCompanyAndTaxID(string, string) (*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) ListByCompany(string, int, int) ([]*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) Update(c *entity.Customer) error { f.customers[c.ID] = c; return nil }
func (f *fakeCustomerRepo) Delete(id string) error          { delete(f.customers, id); return nil }

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(p *entity.Product) error { f.products[p.ID] = p; return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductRepo) GetByCompanyAndCode(string, string) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Search(string, string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Update(p *entity.Product) error { f.products[p.ID] = p; return nil }
func (f *fakeProductRepo) Delete(id string) error         { delete(f.products, id); return nil }

// fakeInvoiceRepo replica o contrato do livro local, inclusive o ErrDuplicate
// da constraint única em (company, serie, numero).
type fakeInvoiceRepo struct {
	invoices   []*entity.Invoice
	createErr  error           // forçado no próximo Create, se definido
	raceWinner *entity.Invoice // gravado junto com o createErr, simulando a concorrente
}

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		if f.raceWinner != nil {
			f.invoices = append(f.invoices, f.raceWinner)
			f.raceWinner = nil
		}
		return err
	}
	for _, existing := range f.invoices {
		if existing.CompanyID == inv.CompanyID && existing.Serie == inv.Serie && existing.Numero == inv.Numero {
			return domain.ErrDuplicate
		}
	}
	f.invoices = append(f.invoices, inv)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) GetByNumber(companyID string, serie, numero int) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.CompanyID == companyID && inv.Serie == serie && inv.Numero == numero {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) NextNumber(companyID string, serie int) (int, error) {
	max := 0
	for _, inv := range f.invoices {
		if inv.CompanyID == companyID && inv.Serie == serie && inv.Numero > max {
			max = inv.Numero
		}
	}
	return max + 1, nil
}

func (f *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	for i, existing := range f.invoices {
		if existing.ID == inv.ID {
			f.invoices[i] = inv
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeInvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	out := []*entity.Invoice{}
	for _, inv := range f.invoices {
		if inv.CompanyID == companyID {
			out = append(out, inv)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Provedor
// ──────────────────────────────────────────────────────────────────────────────

type fakeTokenSource struct {
	token string
	err   error
	calls int
}

func (f *fakeTokenSource) AcquireToken(_ context.Context, _ *entity.Company, _ nfce.Environment) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

type fakeProvider struct {
	outcome     nuvemfiscal.Outcome
	submitCalls int
	lastDoc     *nuvemfiscal.Document
	lastToken   string

	findResult *nuvemfiscal.AuthorizationResponse
	findErr    error

	pdf []byte
	xml []byte
}

func (f *fakeProvider) Submit(_ context.Context, doc *nuvemfiscal.Document, token string, _ nfce.Environment) nuvemfiscal.Outcome {
	f.submitCalls++
	f.lastDoc = doc
	f.lastToken = token
	return f.outcome
}

func (f *fakeProvider) FindExisting(_ context.Context, _ string, _ nfce.Environment, _ string, _, _ int) (*nuvemfiscal.AuthorizationResponse, error) {
	return f.findResult, f.findErr
}

func (f *fakeProvider) DownloadPDF(_ context.Context, _ string, _ nfce.Environment, _ string) ([]byte, error) {
	return f.pdf, nil
}

func (f *fakeProvider) DownloadXML(_ context.Context, _ string, _ nfce.Environment, _ string) ([]byte, error) {
	return f.xml, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

func emissionReadyCompany() *entity.Company {
	return &entity.Company{
		ID:              "company-1",
		Name:            "Mercadinho Central LTDA",
		CNPJ:            "11.222.333/0001-81",
		IE:              "123456789",
		CRT:             1,
		Logradouro:      "Rua das Flores",
		Numero:          "100",
		Bairro:          "Centro",
		CodigoMunicipio: "3550308",
		Municipio:       "São Paulo",
		UF:              "SP",
		CEP:             "01001000",
		Environment:     nfce.EnvHomologacao,
		SandboxClientID: "client-sandbox",
		SandboxSecret:   "secret-sandbox",
		Status:          "active",
	}
}

func catalogProduct(id, code, name, price string) *entity.Product {
	return &entity.Product{
		ID:        id,
		CompanyID: "company-1",
		Code:      code,
		Name:      name,
		Price:     decimal.RequireFromString(price),
	}
}
