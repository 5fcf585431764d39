package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/pdv-nfce/internal/application/dto"
	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/internal/domain/repository"
	"github.com/tu-usuario/pdv-nfce/internal/infrastructure/nuvemfiscal"
	"github.com/tu-usuario/pdv-nfce/pkg/logger"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// IssueResult resultado da emissão. Invoice só vem preenchida quando o
// desfecho é Authorized; nos demais casos o handler decide o status HTTP
// a partir de Outcome.
type IssueResult struct {
	Outcome nuvemfiscal.Outcome
	Invoice *dto.InvoiceResponse
}

// IssueInvoiceUseCase orquestra a emissão de NFC-e: valida pré-condições,
// resolve o ambiente, serializa a numeração, monta o documento, autentica,
// envia ao provedor e grava no livro local quando autorizada.
type IssueInvoiceUseCase struct {
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
	tokens       TokenSource
	provider     ProviderClient
	locker       *serieLocker
	log          *logger.Logger
}

// NewIssueInvoiceUseCase constrói o caso de uso.
func NewIssueInvoiceUseCase(
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	tokens TokenSource,
	provider ProviderClient,
	log *logger.Logger,
) *IssueInvoiceUseCase {
	return &IssueInvoiceUseCase{
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		tokens:       tokens,
		provider:     provider,
		locker:       newSerieLocker(),
		log:          log,
	}
}

// Issue emite uma NFC-e para a venda informada. Toda pré-condição é checada
// antes de qualquer chamada de rede; violações devolvem erros de domínio sem
// consumir número nem tocar o provedor.
func (uc *IssueInvoiceUseCase) Issue(ctx context.Context, companyID string, in dto.IssueInvoiceRequest) (*IssueResult, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if !nfce.ValidPaymentMethods[in.Payment] {
		return nil, domain.ErrInvalidInput
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if !company.EmissionReady() {
		return nil, domain.ErrIncompleteCompany
	}

	// Ambiente resolvido uma única vez; tudo daqui pra frente recebe env
	// explícito, nunca relê da empresa.
	env := company.Environment
	if !env.Valid() {
		env = nfce.EnvHomologacao
	}
	if !company.HasCredentials(env) {
		return nil, domain.ErrMissingCredentials
	}

	var customer *entity.Customer
	if in.CustomerID != "" {
		customer, err = uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
		if customer.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}

	items, err := uc.buildCart(companyID, in.Items)
	if err != nil {
		return nil, err
	}
	total := nuvemfiscal.DocumentTotal(items)
	serie := env.Serie()

	// Numeração serializada: ler número, enviar e gravar sob o mesmo lock.
	lock := uc.locker.acquire(companyID, serie)
	defer lock.Unlock()

	numero, err := uc.invoiceRepo.NextNumber(companyID, serie)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc, err := nuvemfiscal.Assemble(nuvemfiscal.AssembleInput{
		Company:     company,
		Customer:    customer,
		Items:       items,
		Payment:     in.Payment,
		Numero:      numero,
		Environment: env,
		EmittedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	token, err := uc.tokens.AcquireToken(ctx, company, env)
	if err != nil {
		return nil, err
	}

	outcome := uc.provider.Submit(ctx, doc, token, env)
	uc.log.Info().
		Str("company_id", companyID).
		Int("serie", serie).
		Int("numero", numero).
		Str("ambiente", string(env)).
		Str("desfecho", outcome.Kind.String()).
		Msg("emissão de NFC-e processada")

	if outcome.Kind != nuvemfiscal.OutcomeAuthorized {
		// Nada é persistido: o número volta ao pool naturalmente porque
		// NextNumber deriva do maior numero gravado.
		return &IssueResult{Outcome: outcome}, nil
	}

	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Numero:      numero,
		Serie:       serie,
		Environment: env,
		Payment:     in.Payment,
		Total:       total,
		Status:      entity.InvoiceStatusAutorizada,
		EmittedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if customer != nil {
		inv.CustomerID = customer.ID
	}
	if auth := outcome.Authorization; auth != nil {
		inv.ProviderID = auth.ID
		inv.Chave = auth.Chave
		inv.URLPDF = auth.URLDanfe
		inv.URLXML = auth.URLXML
	}
	if err := uc.invoiceRepo.Create(inv); err != nil {
		return nil, err
	}
	return &IssueResult{Outcome: outcome, Invoice: toInvoiceResponse(inv)}, nil
}

// buildCart valida os itens e resolve os produtos da empresa.
func (uc *IssueInvoiceUseCase) buildCart(companyID string, reqItems []dto.CartItemRequest) ([]nuvemfiscal.CartItem, error) {
	items := make([]nuvemfiscal.CartItem, 0, len(reqItems))
	for _, it := range reqItems {
		if it.ProductID == "" || it.Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		items = append(items, nuvemfiscal.CartItem{
			RefID:     product.Code,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  it.Quantity,
			NCM:       product.NCM,
		})
	}
	return items, nil
}

// GetInvoice devolve uma nota do livro local, restrita à empresa do chamador.
func (uc *IssueInvoiceUseCase) GetInvoice(_ context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toInvoiceResponse(inv), nil
}

// ListInvoices lista o histórico de notas da empresa.
func (uc *IssueInvoiceUseCase) ListInvoices(_ context.Context, companyID string, limit, offset int) ([]dto.InvoiceResponse, error) {
	rows, err := uc.invoiceRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(rows))
	for _, inv := range rows {
		out = append(out, *toInvoiceResponse(inv))
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:          inv.ID,
		CompanyID:   inv.CompanyID,
		CustomerID:  inv.CustomerID,
		ProviderID:  inv.ProviderID,
		Numero:      inv.Numero,
		Serie:       inv.Serie,
		Chave:       inv.Chave,
		Environment: string(inv.Environment),
		Payment:     inv.Payment,
		Total:       inv.Total,
		Status:      inv.Status,
		URLPDF:      inv.URLPDF,
		URLXML:      inv.URLXML,
		EmittedAt:   inv.EmittedAt,
		CreatedAt:   inv.CreatedAt,
	}
}
