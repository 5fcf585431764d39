package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/pdv-nfce/internal/application/dto"
	"github.com/tu-usuario/pdv-nfce/internal/domain"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/internal/domain/repository"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// CompanyUseCase casos de uso da empresa emitente (tenant).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase constrói o caso de uso.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create cadastra a empresa. O CNPJ é validado pelos dígitos verificadores e
// é único no sistema.
func (uc *CompanyUseCase) Create(in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if in.Name == "" || in.CNPJ == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := nfce.ValidateCNPJ(in.CNPJ); err != nil {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCNPJ(in.CNPJ)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	env := nfce.Environment(in.Environment)
	if !env.Valid() {
		env = nfce.EnvHomologacao
	}
	now := time.Now()
	company := &entity.Company{
		ID:              uuid.New().String(),
		Name:            in.Name,
		CNPJ:            in.CNPJ,
		IE:              in.IE,
		CRT:             in.CRT,
		Logradouro:      in.Logradouro,
		Numero:          in.Numero,
		Bairro:          in.Bairro,
		CodigoMunicipio: in.CodigoMunicipio,
		Municipio:       in.Municipio,
		UF:              in.UF,
		CEP:             in.CEP,
		Environment:     env,
		Status:          "active",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Get devolve a empresa por id.
func (uc *CompanyUseCase) Get(id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// Update atualização parcial, inclusive credenciais da Nuvem Fiscal por
// ambiente e troca do ambiente ativo.
func (uc *CompanyUseCase) Update(id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&company.Name, in.Name)
	apply(&company.IE, in.IE)
	if in.CRT != nil {
		company.CRT = *in.CRT
	}
	apply(&company.Logradouro, in.Logradouro)
	apply(&company.Numero, in.Numero)
	apply(&company.Bairro, in.Bairro)
	apply(&company.CodigoMunicipio, in.CodigoMunicipio)
	apply(&company.Municipio, in.Municipio)
	apply(&company.UF, in.UF)
	apply(&company.CEP, in.CEP)
	apply(&company.SandboxClientID, in.SandboxClientID)
	apply(&company.SandboxSecret, in.SandboxSecret)
	apply(&company.ProdClientID, in.ProdClientID)
	apply(&company.ProdSecret, in.ProdSecret)
	if in.Environment != nil {
		env := nfce.Environment(*in.Environment)
		if !env.Valid() {
			return nil, domain.ErrInvalidInput
		}
		company.Environment = env
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		CNPJ:               c.CNPJ,
		IE:                 c.IE,
		CRT:                c.CRT,
		Logradouro:         c.Logradouro,
		Numero:             c.Numero,
		Bairro:             c.Bairro,
		CodigoMunicipio:    c.CodigoMunicipio,
		Municipio:          c.Municipio,
		UF:                 c.UF,
		CEP:                c.CEP,
		Environment:        string(c.Environment),
		HasSandboxCreds:    c.HasCredentials(nfce.EnvHomologacao),
		HasProductionCreds: c.HasCredentials(nfce.EnvProducao),
		EmissionReady:      c.EmissionReady(),
		CreatedAt:          c.CreatedAt,
	}
}
