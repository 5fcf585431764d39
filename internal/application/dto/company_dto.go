package dto

import "time"

// CreateCompanyRequest cadastro de empresa emitente.
type CreateCompanyRequest struct {
	Name            string `json:"name" validate:"required"`
	CNPJ            string `json:"cnpj" validate:"required"`
	IE              string `json:"ie,omitempty"`
	CRT             int    `json:"crt,omitempty"`
	Logradouro      string `json:"logradouro,omitempty"`
	Numero          string `json:"numero,omitempty"`
	Bairro          string `json:"bairro,omitempty"`
	CodigoMunicipio string `json:"codigo_municipio,omitempty"`
	Municipio       string `json:"municipio,omitempty"`
	UF              string `json:"uf,omitempty"`
	CEP             string `json:"cep,omitempty"`
	Environment     string `json:"ambiente,omitempty"`
}

// UpdateCompanyRequest atualização parcial, inclui credenciais por ambiente.
type UpdateCompanyRequest struct {
	Name            *string `json:"name,omitempty"`
	IE              *string `json:"ie,omitempty"`
	CRT             *int    `json:"crt,omitempty"`
	Logradouro      *string `json:"logradouro,omitempty"`
	Numero          *string `json:"numero,omitempty"`
	Bairro          *string `json:"bairro,omitempty"`
	CodigoMunicipio *string `json:"codigo_municipio,omitempty"`
	Municipio       *string `json:"municipio,omitempty"`
	UF              *string `json:"uf,omitempty"`
	CEP             *string `json:"cep,omitempty"`
	Environment     *string `json:"ambiente,omitempty"`
	SandboxClientID *string `json:"sandbox_client_id,omitempty"`
	SandboxSecret   *string `json:"sandbox_client_secret,omitempty"`
	ProdClientID    *string `json:"prod_client_id,omitempty"`
	ProdSecret      *string `json:"prod_client_secret,omitempty"`
}

// CompanyResponse empresa retornada pela API. Segredos nunca saem daqui.
type CompanyResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	CNPJ               string    `json:"cnpj"`
	IE                 string    `json:"ie,omitempty"`
	CRT                int       `json:"crt"`
	Logradouro         string    `json:"logradouro,omitempty"`
	Numero             string    `json:"numero,omitempty"`
	Bairro             string    `json:"bairro,omitempty"`
	CodigoMunicipio    string    `json:"codigo_municipio,omitempty"`
	Municipio          string    `json:"municipio,omitempty"`
	UF                 string    `json:"uf,omitempty"`
	CEP                string    `json:"cep,omitempty"`
	Environment        string    `json:"ambiente"`
	HasSandboxCreds    bool      `json:"has_sandbox_credentials"`
	HasProductionCreds bool      `json:"has_production_credentials"`
	EmissionReady      bool      `json:"emission_ready"`
	CreatedAt          time.Time `json:"created_at"`
}
