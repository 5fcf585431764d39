package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa um produto do catálogo da empresa.
type Product struct {
	ID        string
	CompanyID string
	Code      string          // código único por empresa (cProd)
	Name      string
	Price     decimal.Decimal // preço de venda, 2 casas
	NCM       string          // classificação fiscal da mercadoria (8 dígitos)
	CreatedAt time.Time
	UpdatedAt time.Time
}
