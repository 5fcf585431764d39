package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// Status da nota no livro local. Só notas autorizadas são gravadas pelo fluxo
// de emissão; PENDENTE cobre notas adotadas via reconciliação ainda sem
// autorização definitiva no provedor.
const (
	InvoiceStatusAutorizada = "AUTORIZADA"
	InvoiceStatusPendente   = "PENDENTE"
)

// Invoice representa uma nota fiscal no livro local (ledger). Numero/Serie
// identificam a nota junto à SEFAZ; ProviderID é o id interno da Nuvem Fiscal
// usado para baixar PDF e XML.
type Invoice struct {
	ID          string
	CompanyID   string
	CustomerID  string // vazio = consumidor não identificado
	ProviderID  string // id do documento na Nuvem Fiscal (vazio até autorização)
	Numero      int
	Serie       int
	Chave       string // chave de acesso de 44 dígitos (vazia até autorização)
	Environment nfce.Environment
	Payment     string // tPag: 01, 03, 04, 17
	Total       decimal.Decimal
	Status      string
	URLPDF      string // link do DANFE devolvido pelo provedor, se houver
	URLXML      string
	EmittedAt   time.Time // data de emissão, gravada uma única vez
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
