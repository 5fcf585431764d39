package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/internal/domain/repository"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementação de InvoiceRepository (usável com pool ou tx).
// A tabela invoices tem constraint única em (company_id, serie, numero):
// é o backstop da numeração sequencial quando há mais de uma instância.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, COALESCE(customer_id, ''), COALESCE(provider_id, ''),
	numero, serie, COALESCE(chave, ''), environment, payment, total, status,
	COALESCE(url_pdf, ''), COALESCE(url_xml, ''), emitted_at, created_at, updated_at`

// Create persiste a nota no livro local. Devolve domain.ErrDuplicate em
// colisão de (company, serie, numero).
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, company_id, customer_id, provider_id, numero, serie, chave,
			environment, payment, total, status, url_pdf, url_xml, emitted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.CompanyID, nullIfEmpty(invoice.CustomerID), nullIfEmpty(invoice.ProviderID),
		invoice.Numero, invoice.Serie, nullIfEmpty(invoice.Chave),
		string(invoice.Environment), invoice.Payment, invoice.Total, invoice.Status,
		nullIfEmpty(invoice.URLPDF), nullIfEmpty(invoice.URLXML),
		invoice.EmittedAt, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtém uma nota por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.q.QueryRow(context.Background(), query, id))
}

// GetByNumber localiza a nota por (company, serie, numero); nil se não existe.
func (r *InvoiceRepo) GetByNumber(companyID string, serie, numero int) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE company_id = $1 AND serie = $2 AND numero = $3`
	return scanInvoice(r.q.QueryRow(context.Background(), query, companyID, serie, numero))
}

// NextNumber devolve 1 + maior numero já usado pela empresa na série, ou 1.
// A leitura não é serializada aqui: o caso de uso de emissão segura o lock
// por (company, serie) do início da leitura até a persistência.
func (r *InvoiceRepo) NextNumber(companyID string, serie int) (int, error) {
	var next int
	query := `SELECT COALESCE(MAX(numero), 0) + 1 FROM invoices WHERE company_id = $1 AND serie = $2`
	err := r.q.QueryRow(context.Background(), query, companyID, serie).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return next, nil
}

// Update atualiza os campos mutáveis da nota (status, ids do provedor, links).
// emitted_at nunca muda depois da criação.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET provider_id = COALESCE($2, provider_id),
		    chave       = COALESCE($3, chave),
		    status      = $4,
		    url_pdf     = COALESCE($5, url_pdf),
		    url_xml     = COALESCE($6, url_xml),
		    updated_at  = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID,
		nullIfEmpty(invoice.ProviderID),
		nullIfEmpty(invoice.Chave),
		invoice.Status,
		nullIfEmpty(invoice.URLPDF),
		nullIfEmpty(invoice.URLXML),
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// ListByCompany lista as notas da empresa, mais recentes primeiro.
func (r *InvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE company_id = $1 ORDER BY emitted_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var env string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.ProviderID,
		&inv.Numero, &inv.Serie, &inv.Chave, &env, &inv.Payment,
		&inv.Total, &inv.Status, &inv.URLPDF, &inv.URLXML,
		&inv.EmittedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	inv.Environment = nfce.Environment(env)
	return &inv, nil
}
