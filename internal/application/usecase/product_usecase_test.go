package usecase_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pdv-nfce/internal/application/dto"
	"github.com/tu-usuario/pdv-nfce/internal/application/usecase"
	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
)

type stubProductRepo struct {
	products map[string]*entity.Product
}

func newStubProductRepo(products ...*entity.Product) *stubProductRepo {
	repo := &stubProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (s *stubProductRepo) Create(p *entity.Product) error { s.products[p.ID] = p; return nil }
func (s *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	return s.products[id], nil
}
func (s *stubProductRepo) GetByCompanyAndCode(companyID, code string) (*entity.Product, error) {
	for _, p := range s.products {
		if p.CompanyID == companyID && p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}
func (s *stubProductRepo) Search(companyID, q string, limit, offset int) ([]*entity.Product, error) {
	out := []*entity.Product{}
	for _, p := range s.products {
		if p.CompanyID != companyID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
func (s *stubProductRepo) Update(p *entity.Product) error { s.products[p.ID] = p; return nil }
func (s *stubProductRepo) Delete(id string) error         { delete(s.products, id); return nil }

func produto(id, code, name, price string) *entity.Product {
	return &entity.Product{
		ID:        id,
		CompanyID: "company-1",
		Code:      code,
		Name:      name,
		Price:     decimal.RequireFromString(price),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_CodigoDuplicado(t *testing.T) {
	repo := newStubProductRepo(produto("p1", "CAFE500", "Café 500g", "5.25"))
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.Create("company-1", dto.CreateProductRequest{
		Code:  "CAFE500",
		Name:  "Outro café",
		Price: decimal.RequireFromString("9.90"),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_PrecoArredondadoADuasCasas(t *testing.T) {
	uc := usecase.NewProductUseCase(newStubProductRepo())

	res, err := uc.Create("company-1", dto.CreateProductRequest{
		Code:  "X1",
		Name:  "Produto",
		Price: decimal.RequireFromString("10.005"),
	})

	require.NoError(t, err)
	assert.Equal(t, "10.01", res.Price.StringFixed(2))
}

func TestProductCreate_EntradaInvalida(t *testing.T) {
	uc := usecase.NewProductUseCase(newStubProductRepo())

	_, err := uc.Create("company-1", dto.CreateProductRequest{Code: "X", Name: "Sem preço"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create("company-1", dto.CreateProductRequest{Name: "Sem código", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductGet_DeOutraEmpresa(t *testing.T) {
	repo := newStubProductRepo(produto("p1", "C1", "Café", "5.00"))
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.Get("company-2", "p1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Simulação de carrinho
// ──────────────────────────────────────────────────────────────────────────────

func TestSimulateCart_AtingeOValorAlvo(t *testing.T) {
	repo := newStubProductRepo(
		produto("p1", "C1", "Café 500g", "5.25"),
		produto("p2", "A1", "Açúcar 1kg", "3.00"),
		produto("p3", "B1", "Biscoito", "2.10"),
	)
	uc := usecase.NewProductUseCase(repo)
	target := decimal.RequireFromString("50.00")

	res, err := uc.SimulateCart("company-1", target)

	require.NoError(t, err)
	require.NotEmpty(t, res.Lines)
	assert.True(t, res.Total.GreaterThanOrEqual(target), "total %s deve atingir o alvo", res.Total)

	// O total é a soma exata das linhas, e cada linha é consistente.
	soma := decimal.Zero
	for _, line := range res.Lines {
		esperado := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		assert.True(t, line.LineTotal.Equal(esperado), "linha %s inconsistente", line.Code)
		assert.GreaterOrEqual(t, line.Quantity, 1)
		soma = soma.Add(line.LineTotal)
	}
	assert.True(t, res.Total.Equal(soma))
}

// A última linha pode estourar o alvo, mas no máximo por uma unidade do
// produto mais barato.
func TestSimulateCart_EstouroLimitado(t *testing.T) {
	repo := newStubProductRepo(
		produto("p1", "C1", "Café 500g", "5.25"),
		produto("p2", "B1", "Bala", "0.50"),
	)
	uc := usecase.NewProductUseCase(repo)
	target := decimal.RequireFromString("20.30")

	for i := 0; i < 20; i++ {
		res, err := uc.SimulateCart("company-1", target)
		require.NoError(t, err)
		excesso := res.Total.Sub(target)
		assert.True(t, excesso.LessThan(decimal.RequireFromString("0.50")),
			"excesso %s acima de uma unidade do mais barato", excesso)
	}
}

func TestSimulateCart_CatalogoVazio(t *testing.T) {
	uc := usecase.NewProductUseCase(newStubProductRepo())

	_, err := uc.SimulateCart("company-1", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSimulateCart_AlvoInvalido(t *testing.T) {
	uc := usecase.NewProductUseCase(newStubProductRepo(produto("p1", "C1", "Café", "5.00")))

	_, err := uc.SimulateCart("company-1", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
