package dto

import "time"

// CreateCustomerRequest cadastro de cliente.
type CreateCustomerRequest struct {
	Name       string `json:"name" validate:"required"`
	TaxID      string `json:"tax_id" validate:"required"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Logradouro string `json:"logradouro,omitempty"`
	Numero     string `json:"numero,omitempty"`
	Bairro     string `json:"bairro,omitempty"`
	Municipio  string `json:"municipio,omitempty"`
	UF         string `json:"uf,omitempty"`
	CEP        string `json:"cep,omitempty"`
}

// UpdateCustomerRequest atualização parcial de cliente.
type UpdateCustomerRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Logradouro *string `json:"logradouro,omitempty"`
	Numero     *string `json:"numero,omitempty"`
	Bairro     *string `json:"bairro,omitempty"`
	Municipio  *string `json:"municipio,omitempty"`
	UF         *string `json:"uf,omitempty"`
	CEP        *string `json:"cep,omitempty"`
}

// CustomerResponse cliente retornado pela API.
type CustomerResponse struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	Name       string    `json:"name"`
	TaxID      string    `json:"tax_id"`
	TaxIDKind  string    `json:"tax_id_kind"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Logradouro string    `json:"logradouro,omitempty"`
	Numero     string    `json:"numero,omitempty"`
	Bairro     string    `json:"bairro,omitempty"`
	Municipio  string    `json:"municipio,omitempty"`
	UF         string    `json:"uf,omitempty"`
	CEP        string    `json:"cep,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
