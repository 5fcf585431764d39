package entity

import "time"

// Customer representa um cliente da empresa (destinatário opcional da NFC-e).
// O endereço é opcional; quando presente, só Logradouro é obrigatório; os
// demais subcampos recebem defaults na montagem do documento.
type Customer struct {
	ID         string
	CompanyID  string
	Name       string
	TaxID      string // CPF ou CNPJ (com ou sem pontuação)
	Email      string
	Phone      string
	Logradouro string
	Numero     string
	Bairro     string
	Municipio  string
	UF         string
	CEP        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasAddress informa se o cliente tem endereço cadastrado (bloco enderDest).
func (c *Customer) HasAddress() bool {
	return c.Logradouro != ""
}
