package billing

import (
	"context"

	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/internal/infrastructure/nuvemfiscal"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// TokenSource obtém um access token OAuth2 junto ao provedor com as
// credenciais da empresa para o ambiente indicado.
type TokenSource interface {
	AcquireToken(ctx context.Context, company *entity.Company, env nfce.Environment) (string, error)
}

// ProviderClient é o porto para a API da Nuvem Fiscal. A implementação real
// vive em infrastructure/nuvemfiscal; os testes usam fakes.
type ProviderClient interface {
	Submit(ctx context.Context, doc *nuvemfiscal.Document, token string, env nfce.Environment) nuvemfiscal.Outcome
	FindExisting(ctx context.Context, token string, env nfce.Environment, cnpj string, numero, serie int) (*nuvemfiscal.AuthorizationResponse, error)
	DownloadPDF(ctx context.Context, token string, env nfce.Environment, providerID string) ([]byte, error)
	DownloadXML(ctx context.Context, token string, env nfce.Environment, providerID string) ([]byte, error)
}

// ReceiptLine linha impressa no recibo local (fallback quando a nota ainda
// não tem PDF no provedor).
type ReceiptLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// ReceiptGenerator gera o recibo simples em PDF para impressão no PDV.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, invoice *entity.Invoice, company *entity.Company, lines []ReceiptLine) ([]byte, error)
}
