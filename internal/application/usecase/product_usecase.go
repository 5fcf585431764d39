package usecase

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pdv-nfce/internal/application/dto"
	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/internal/domain/repository"
)

// ProductUseCase casos de uso do catálogo de produtos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase constrói o caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create cadastra um produto. Code é único por empresa.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Code == "" || in.Name == "" || !in.Price.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndCode(companyID, in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      in.Code,
		Name:      in.Name,
		Price:     in.Price.Round(2),
		NCM:       in.NCM,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Get devolve um produto da empresa.
func (uc *ProductUseCase) Get(companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toProductResponse(product), nil
}

// Search busca produtos por nome; q vazio lista o catálogo paginado.
func (uc *ProductUseCase) Search(companyID, q string, limit, offset int) ([]*dto.ProductResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.Search(companyID, q, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update atualização parcial.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = in.Price.Round(2)
	}
	if in.NCM != nil {
		product.NCM = *in.NCM
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete remove o produto da empresa.
func (uc *ProductUseCase) Delete(companyID, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

// Pesos de quantidade da simulação: quantidades menores são bem mais
// prováveis, para o carrinho parecer uma venda de balcão de verdade.
var (
	simulateQtyOptions = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	simulateQtyWeights = []int{50, 15, 10, 5, 5, 3, 3, 3, 3, 3}
)

// SimulateCart monta um carrinho aleatório que atinge (e pode ultrapassar por
// uma linha) o valor alvo, escolhendo produtos que cabem no valor restante.
// Quando só sobram centavos que nenhum produto cobre, entra uma unidade do
// mais barato e o carrinho fecha acima do alvo.
func (uc *ProductUseCase) SimulateCart(companyID string, target decimal.Decimal) (*dto.SimulateCartResponse, error) {
	if !target.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.repo.Search(companyID, "", 500, 0)
	if err != nil {
		return nil, err
	}
	available := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if p.Price.IsPositive() {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Slice(available, func(i, j int) bool {
		return available[i].Price.LessThan(available[j].Price)
	})

	resp := &dto.SimulateCartResponse{Total: decimal.Zero}
	for resp.Total.LessThan(target) {
		falta := target.Sub(resp.Total)

		fit := make([]*entity.Product, 0, len(available))
		for _, p := range available {
			if p.Price.LessThanOrEqual(falta) {
				fit = append(fit, p)
			}
		}

		var prod *entity.Product
		qty := 1
		if len(fit) > 0 {
			prod = fit[rand.Intn(len(fit))]
			qty = weightedQty()
			if max := int(falta.Div(prod.Price).IntPart()); qty > max {
				qty = max
			}
			if qty < 1 {
				qty = 1
			}
		} else {
			// Sobra de centavos: fecha com o produto mais barato.
			prod = available[0]
		}

		lineTotal := prod.Price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
		resp.Lines = append(resp.Lines, dto.SimulatedLine{
			ProductID: prod.ID,
			Code:      prod.Code,
			Name:      prod.Name,
			UnitPrice: prod.Price,
			Quantity:  qty,
			LineTotal: lineTotal,
		})
		resp.Total = resp.Total.Add(lineTotal)
	}
	return resp, nil
}

// weightedQty sorteia a quantidade com os pesos de simulateQtyWeights.
func weightedQty() int {
	total := 0
	for _, w := range simulateQtyWeights {
		total += w
	}
	r := rand.Intn(total)
	for i, w := range simulateQtyWeights {
		if r < w {
			return simulateQtyOptions[i]
		}
		r -= w
	}
	return 1
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Code:      p.Code,
		Name:      p.Name,
		Price:     p.Price,
		NCM:       p.NCM,
		CreatedAt: p.CreatedAt,
	}
}
