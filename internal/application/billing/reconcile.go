package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pdv-nfce/internal/application/dto"
	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/internal/domain/repository"
	"github.com/tu-usuario/pdv-nfce/pkg/logger"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// ReconcileUseCase responde à pergunta "essa nota chegou na SEFAZ?" depois de
// um timeout ou queda durante a emissão. Consulta o provedor pelo trio
// (CNPJ, numero, serie) e, quando a nota existe lá mas não no livro local,
// adota: grava a linha a partir do resumo do provedor. Nunca duplica.
type ReconcileUseCase struct {
	companyRepo repository.CompanyRepository
	invoiceRepo repository.InvoiceRepository
	tokens      TokenSource
	provider    ProviderClient
	log         *logger.Logger
}

// NewReconcileUseCase constrói o caso de uso.
func NewReconcileUseCase(
	companyRepo repository.CompanyRepository,
	invoiceRepo repository.InvoiceRepository,
	tokens TokenSource,
	provider ProviderClient,
	log *logger.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		companyRepo: companyRepo,
		invoiceRepo: invoiceRepo,
		tokens:      tokens,
		provider:    provider,
		log:         log,
	}
}

// CheckExisting verifica se a nota (numero, serie) existe no provedor e
// garante que o livro local reflita o que a SEFAZ conhece. Found=false
// significa que é seguro reemitir com o mesmo número.
func (uc *ReconcileUseCase) CheckExisting(ctx context.Context, companyID string, numero, serie int) (*dto.ReconcileResponse, error) {
	if numero < 1 || serie < 1 {
		return nil, domain.ErrInvalidInput
	}

	// Linha local primeiro: se já temos a nota, não há o que reconciliar.
	local, err := uc.invoiceRepo.GetByNumber(companyID, serie, numero)
	if err != nil {
		return nil, err
	}
	if local != nil {
		return &dto.ReconcileResponse{Found: true, Invoice: toInvoiceResponse(local)}, nil
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	env := company.Environment
	if !env.Valid() {
		env = nfce.EnvHomologacao
	}
	if !company.HasCredentials(env) {
		return nil, domain.ErrMissingCredentials
	}

	token, err := uc.tokens.AcquireToken(ctx, company, env)
	if err != nil {
		return nil, err
	}
	found, err := uc.provider.FindExisting(ctx, token, env, nfce.ExtractDigits(company.CNPJ), numero, serie)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return &dto.ReconcileResponse{Found: false}, nil
	}

	// Adoção: a nota existe no provedor mas não aqui. Grava a partir do
	// resumo; um 23505 concorrente significa que outra requisição adotou
	// primeiro, então apenas relê.
	status := entity.InvoiceStatusPendente
	if strings.EqualFold(found.Status, "autorizado") {
		status = entity.InvoiceStatusAutorizada
	}
	now := time.Now()
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ProviderID:  found.ID,
		Numero:      numero,
		Serie:       serie,
		Chave:       found.Chave,
		Environment: env,
		Total:       decimal.NewFromFloat(found.ValorTotal).Round(2),
		Status:      status,
		URLPDF:      found.URLDanfe,
		URLXML:      found.URLXML,
		EmittedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.invoiceRepo.Create(inv); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			existing, gerr := uc.invoiceRepo.GetByNumber(companyID, serie, numero)
			if gerr != nil || existing == nil {
				return nil, err
			}
			return &dto.ReconcileResponse{Found: true, Invoice: toInvoiceResponse(existing)}, nil
		}
		return nil, err
	}
	uc.log.Info().
		Str("company_id", companyID).
		Int("serie", serie).
		Int("numero", numero).
		Str("provider_id", found.ID).
		Msg("nota adotada do provedor na reconciliação")
	return &dto.ReconcileResponse{Found: true, Adopted: true, Invoice: toInvoiceResponse(inv)}, nil
}
