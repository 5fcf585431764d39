package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItemRequest um item do carrinho na venda.
type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// IssueInvoiceRequest requisição de emissão de NFC-e.
// CustomerID vazio = consumidor não identificado (venda balcão).
type IssueInvoiceRequest struct {
	CustomerID string            `json:"customer_id,omitempty"`
	Payment    string            `json:"payment"`
	Items      []CartItemRequest `json:"items"`
}

// InvoiceResponse nota registrada no livro local.
type InvoiceResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	CustomerID  string          `json:"customer_id,omitempty"`
	ProviderID  string          `json:"provider_id,omitempty"`
	Numero      int             `json:"numero"`
	Serie       int             `json:"serie"`
	Chave       string          `json:"chave,omitempty"`
	Environment string          `json:"ambiente"`
	Payment     string          `json:"forma_pagamento"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	URLPDF      string          `json:"url_pdf,omitempty"`
	URLXML      string          `json:"url_xml,omitempty"`
	EmittedAt   time.Time       `json:"emitted_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IssueFailureResponse detalhe de emissão não autorizada.
type IssueFailureResponse struct {
	Outcome string `json:"outcome"`
	Motivo  string `json:"motivo,omitempty"`
}

// ReconcileResponse resultado da reconciliação contra o provedor.
type ReconcileResponse struct {
	Found   bool             `json:"found"`
	Adopted bool             `json:"adopted"`
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
}

// XMLMetadataResponse campos extraídos do XML autorizado.
type XMLMetadataResponse struct {
	Chave     string `json:"chave"`
	Protocolo string `json:"protocolo,omitempty"`
}
