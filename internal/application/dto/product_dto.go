package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest cadastro de produto.
type CreateProductRequest struct {
	Code  string          `json:"code" validate:"required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"required"`
	NCM   string          `json:"ncm,omitempty"`
}

// UpdateProductRequest atualização parcial de produto.
type UpdateProductRequest struct {
	Name  *string          `json:"name,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
	NCM   *string          `json:"ncm,omitempty"`
}

// ProductResponse produto retornado pela API.
type ProductResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	NCM       string          `json:"ncm"`
	CreatedAt time.Time       `json:"created_at"`
}

// SimulatedLine linha do carrinho montado pela simulação.
type SimulatedLine struct {
	ProductID string          `json:"product_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SimulateCartResponse carrinho montado para atingir um valor alvo.
type SimulateCartResponse struct {
	Lines []SimulatedLine `json:"lines"`
	Total decimal.Decimal `json:"total"`
}
