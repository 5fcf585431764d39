package billing

import (
	"context"

	"github.com/tu-usuario/pdv-nfce/internal/application/dto"
	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/internal/domain/repository"
	"github.com/tu-usuario/pdv-nfce/internal/infrastructure/nuvemfiscal"
	"github.com/tu-usuario/pdv-nfce/pkg/logger"
)

// DocumentUseCase baixa os artefatos da nota: DANFE em PDF e XML autorizado.
// O PDF vem do provedor quando a nota tem id lá; notas adotadas ainda
// pendentes caem no recibo local para o PDV não ficar sem impressão.
type DocumentUseCase struct {
	companyRepo repository.CompanyRepository
	invoiceRepo repository.InvoiceRepository
	tokens      TokenSource
	provider    ProviderClient
	receipts    ReceiptGenerator
	log         *logger.Logger
}

// NewDocumentUseCase constrói o caso de uso.
func NewDocumentUseCase(
	companyRepo repository.CompanyRepository,
	invoiceRepo repository.InvoiceRepository,
	tokens TokenSource,
	provider ProviderClient,
	receipts ReceiptGenerator,
	log *logger.Logger,
) *DocumentUseCase {
	return &DocumentUseCase{
		companyRepo: companyRepo,
		invoiceRepo: invoiceRepo,
		tokens:      tokens,
		provider:    provider,
		receipts:    receipts,
		log:         log,
	}
}

// DownloadPDF devolve o DANFE da nota. Erros do provedor são propagados com o
// texto original para o operador ver o motivo real.
func (uc *DocumentUseCase) DownloadPDF(ctx context.Context, companyID, invoiceID string) ([]byte, error) {
	inv, company, err := uc.loadInvoice(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.ProviderID == "" {
		return uc.receipts.GenerateReceipt(ctx, inv, company, nil)
	}
	env := inv.Environment
	token, err := uc.tokens.AcquireToken(ctx, company, env)
	if err != nil {
		return nil, err
	}
	return uc.provider.DownloadPDF(ctx, token, env, inv.ProviderID)
}

// DownloadXML devolve o XML autorizado e, de quebra, completa chave e status
// na linha local quando a adoção os deixou vazios.
func (uc *DocumentUseCase) DownloadXML(ctx context.Context, companyID, invoiceID string) ([]byte, *dto.XMLMetadataResponse, error) {
	inv, company, err := uc.loadInvoice(companyID, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv.ProviderID == "" {
		return nil, nil, domain.ErrConflict
	}
	env := inv.Environment
	token, err := uc.tokens.AcquireToken(ctx, company, env)
	if err != nil {
		return nil, nil, err
	}
	raw, err := uc.provider.DownloadXML(ctx, token, env, inv.ProviderID)
	if err != nil {
		return nil, nil, err
	}

	meta, err := nuvemfiscal.ExtractXMLMetadata(raw)
	if err != nil {
		// XML veio mas sem os campos esperados; entrega mesmo assim.
		uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("XML autorizado sem metadados")
		return raw, nil, nil
	}
	if inv.Chave == "" && meta.Chave != "" {
		inv.Chave = meta.Chave
		// Só o protocolo de autorização (protNFe) comprova que a SEFAZ
		// autorizou; a chave sozinha pode vir do Id do infNFe.
		if meta.Protocolo != "" {
			inv.Status = entity.InvoiceStatusAutorizada
		}
		if err := uc.invoiceRepo.Update(inv); err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("falha ao completar chave da nota")
		}
	}
	return raw, &dto.XMLMetadataResponse{Chave: meta.Chave, Protocolo: meta.Protocolo}, nil
}

func (uc *DocumentUseCase) loadInvoice(companyID, invoiceID string) (*entity.Invoice, *entity.Company, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, domain.ErrNotFound
	}
	return inv, company, nil
}
