package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/pdv-nfce/internal/application/dto"
	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/internal/domain/repository"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// CustomerUseCase casos de uso para clientes (destinatário opcional da nota).
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase constrói o caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create cadastra um cliente. O CPF/CNPJ é aceito com ou sem pontuação; só a
// contagem de dígitos o classifica, e CNPJ ainda passa pelos dígitos
// verificadores.
func (uc *CustomerUseCase) Create(companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	kind, _ := nfce.ClassifyTaxID(in.TaxID)
	if kind == nfce.TaxIDCNPJ {
		if err := nfce.ValidateCNPJ(in.TaxID); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	existing, _ := uc.repo.GetByCompanyAndTaxID(companyID, in.TaxID)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Name:       in.Name,
		TaxID:      in.TaxID,
		Email:      in.Email,
		Phone:      in.Phone,
		Logradouro: in.Logradouro,
		Numero:     in.Numero,
		Bairro:     in.Bairro,
		Municipio:  in.Municipio,
		UF:         in.UF,
		CEP:        in.CEP,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get devolve um cliente da empresa.
func (uc *CustomerUseCase) Get(companyID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes da empresa.
func (uc *CustomerUseCase) List(companyID string, limit, offset int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Update atualização parcial.
func (uc *CustomerUseCase) Update(companyID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&customer.Name, in.Name)
	apply(&customer.Email, in.Email)
	apply(&customer.Phone, in.Phone)
	apply(&customer.Logradouro, in.Logradouro)
	apply(&customer.Numero, in.Numero)
	apply(&customer.Bairro, in.Bairro)
	apply(&customer.Municipio, in.Municipio)
	apply(&customer.UF, in.UF)
	apply(&customer.CEP, in.CEP)
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete remove o cliente da empresa.
func (uc *CustomerUseCase) Delete(companyID, id string) error {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	kind, _ := nfce.ClassifyTaxID(c.TaxID)
	return &dto.CustomerResponse{
		ID:         c.ID,
		CompanyID:  c.CompanyID,
		Name:       c.Name,
		TaxID:      c.TaxID,
		TaxIDKind:  kind,
		Email:      c.Email,
		Phone:      c.Phone,
		Logradouro: c.Logradouro,
		Numero:     c.Numero,
		Bairro:     c.Bairro,
		Municipio:  c.Municipio,
		UF:         c.UF,
		CEP:        c.CEP,
		CreatedAt:  c.CreatedAt,
	}
}
