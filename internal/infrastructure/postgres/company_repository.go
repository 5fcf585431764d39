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

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementação de CompanyRepository (usável com pool ou tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, cnpj, ie, crt, logradouro, numero, bairro,
	codigo_municipio, municipio, uf, cep, environment,
	COALESCE(sandbox_client_id, ''), COALESCE(sandbox_client_secret, ''),
	COALESCE(prod_client_id, ''), COALESCE(prod_client_secret, ''),
	status, created_at, updated_at`

// Create persiste uma nova empresa.
func (r *CompanyRepo) Create(company *entity.Company) error {
	if company.ID == "" {
		company.ID = uuid.New().String()
	}
	query := `
		INSERT INTO companies (id, name, cnpj, ie, crt, logradouro, numero, bairro,
			codigo_municipio, municipio, uf, cep, environment,
			sandbox_client_id, sandbox_client_secret, prod_client_id, prod_client_secret,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.CNPJ, company.IE, company.CRT,
		company.Logradouro, company.Numero, company.Bairro,
		company.CodigoMunicipio, company.Municipio, company.UF, company.CEP,
		string(company.Environment),
		nullIfEmpty(company.SandboxClientID), nullIfEmpty(company.SandboxSecret),
		nullIfEmpty(company.ProdClientID), nullIfEmpty(company.ProdSecret),
		company.Status, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtém uma empresa por ID.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCNPJ obtém uma empresa pelo CNPJ.
func (r *CompanyRepo) GetByCNPJ(cnpj string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE cnpj = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, cnpj))
}

// Update atualiza o cadastro da empresa (inclui credenciais e ambiente).
func (r *CompanyRepo) Update(company *entity.Company) error {
	query := `
		UPDATE companies
		SET name = $2, cnpj = $3, ie = $4, crt = $5, logradouro = $6, numero = $7,
		    bairro = $8, codigo_municipio = $9, municipio = $10, uf = $11, cep = $12,
		    environment = $13, sandbox_client_id = $14, sandbox_client_secret = $15,
		    prod_client_id = $16, prod_client_secret = $17, status = $18, updated_at = $19
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.CNPJ, company.IE, company.CRT,
		company.Logradouro, company.Numero, company.Bairro,
		company.CodigoMunicipio, company.Municipio, company.UF, company.CEP,
		string(company.Environment),
		nullIfEmpty(company.SandboxClientID), nullIfEmpty(company.SandboxSecret),
		nullIfEmpty(company.ProdClientID), nullIfEmpty(company.ProdSecret),
		company.Status, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// List lista empresas com paginação.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CompanyRepo) scanOne(row pgx.Row) (*entity.Company, error) {
	c, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CompanyRepo) scanRow(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	var env string
	err := row.Scan(
		&c.ID, &c.Name, &c.CNPJ, &c.IE, &c.CRT,
		&c.Logradouro, &c.Numero, &c.Bairro,
		&c.CodigoMunicipio, &c.Municipio, &c.UF, &c.CEP, &env,
		&c.SandboxClientID, &c.SandboxSecret, &c.ProdClientID, &c.ProdSecret,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}
	c.Environment = nfce.Environment(env)
	return &c, nil
}
