package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pdv-nfce/internal/application/billing"
	"github.com/tu-usuario/pdv-nfce/internal/application/dto"
	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/infrastructure/nuvemfiscal"
)

// InvoiceHandler trata as requisições de emissão e consulta de NFC-e.
type InvoiceHandler struct {
	issueUC     *billing.IssueInvoiceUseCase
	reconcileUC *billing.ReconcileUseCase
	documentUC  *billing.DocumentUseCase
}

// NewInvoiceHandler constrói o handler.
func NewInvoiceHandler(issueUC *billing.IssueInvoiceUseCase, reconcileUC *billing.ReconcileUseCase, documentUC *billing.DocumentUseCase) *InvoiceHandler {
	return &InvoiceHandler{issueUC: issueUC, reconcileUC: reconcileUC, documentUC: documentUC}
}

// Issue emite uma NFC-e para a venda.
// POST /api/invoices
func (h *InvoiceHandler) Issue(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.IssueInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	result, err := h.issueUC.Issue(c.Context(), companyID, in)
	if err != nil {
		return h.issueError(c, err)
	}
	return h.issueOutcome(c, result)
}

// issueError mapeia erros de pré-condição e infraestrutura para HTTP.
func (h *InvoiceHandler) issueError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_CART", Message: "a venda precisa de ao menos um item"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dados inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa, cliente ou produto não encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado ao recurso"})
	case errors.Is(err, domain.ErrIncompleteCompany):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "COMPANY_INCOMPLETE", Message: "cadastro fiscal da empresa incompleto"})
	case errors.Is(err, domain.ErrMissingCredentials):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "MISSING_CREDENTIALS", Message: "credenciais da Nuvem Fiscal ausentes para o ambiente ativo"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_NUMBER", Message: "número da nota já usado; consulte a reconciliação"})
	}
	var authErr *nuvemfiscal.AuthError
	if errors.As(err, &authErr) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "PROVIDER_AUTH", Message: authErr.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// issueOutcome mapeia o desfecho classificado da submissão para HTTP.
// Processing é não-terminal: 202 e a instrução de reconciliar.
func (h *InvoiceHandler) issueOutcome(c *fiber.Ctx, result *billing.IssueResult) error {
	switch result.Outcome.Kind {
	case nuvemfiscal.OutcomeAuthorized:
		return c.Status(fiber.StatusCreated).JSON(result.Invoice)
	case nuvemfiscal.OutcomeRejected:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.IssueFailureResponse{Outcome: "rejeitada", Motivo: result.Outcome.Reason})
	case nuvemfiscal.OutcomeDenied:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.IssueFailureResponse{Outcome: "denegada", Motivo: result.Outcome.Reason})
	case nuvemfiscal.OutcomeProcessing:
		return c.Status(fiber.StatusAccepted).JSON(dto.IssueFailureResponse{Outcome: "processando", Motivo: "consulte /api/invoices/reconcile antes de reemitir"})
	case nuvemfiscal.OutcomeValidationError:
		return c.Status(fiber.StatusBadRequest).JSON(dto.IssueFailureResponse{Outcome: "validacao", Motivo: result.Outcome.Reason})
	default: // OutcomeTransportError
		return c.Status(fiber.StatusBadGateway).JSON(dto.IssueFailureResponse{Outcome: "transporte", Motivo: result.Outcome.Reason})
	}
}

// List lista o histórico de notas da empresa.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	list, err := h.issueUC.ListInvoices(c.Context(), companyID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetByID devolve uma nota do livro local.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id obrigatório"})
	}
	invoice, err := h.issueUC.GetInvoice(c.Context(), companyID, id)
	if err != nil {
		return h.lookupError(c, err, "nota não encontrada")
	}
	return c.JSON(invoice)
}

// Reconcile verifica se a nota chegou na SEFAZ e adota a linha quando preciso.
// GET /api/invoices/reconcile?numero=&serie=
func (h *InvoiceHandler) Reconcile(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	numero, _ := strconv.Atoi(c.Query("numero"))
	serie, _ := strconv.Atoi(c.Query("serie"))
	out, err := h.reconcileUC.CheckExisting(c.Context(), companyID, numero, serie)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "numero e serie são obrigatórios e positivos"})
		}
		if errors.Is(err, domain.ErrMissingCredentials) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "MISSING_CREDENTIALS", Message: "credenciais da Nuvem Fiscal ausentes"})
		}
		var authErr *nuvemfiscal.AuthError
		if errors.As(err, &authErr) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "PROVIDER_AUTH", Message: authErr.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// DownloadPDF devolve o DANFE (ou o recibo local para nota pendente).
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	raw, err := h.documentUC.DownloadPDF(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return h.lookupError(c, err, "nota não encontrada")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(raw)
}

// DownloadXML devolve o XML autorizado da nota.
// GET /api/invoices/:id/xml
func (h *InvoiceHandler) DownloadXML(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	raw, _, err := h.documentUC.DownloadXML(c.Context(), companyID, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_AUTHORIZED_YET", Message: "a nota ainda não tem XML no provedor"})
		}
		return h.lookupError(c, err, "nota não encontrada")
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	return c.Send(raw)
}

// lookupError tratamento comum de NotFound/Forbidden/infra nas consultas.
func (h *InvoiceHandler) lookupError(c *fiber.Ctx, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFoundMsg})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado"})
	}
	var authErr *nuvemfiscal.AuthError
	if errors.As(err, &authErr) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "PROVIDER_AUTH", Message: authErr.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
