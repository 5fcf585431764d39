// Package pdf gera o recibo local de venda em PDF. Ele cobre a impressão no
// PDV enquanto a nota ainda não tem DANFE no provedor (nota adotada pendente);
// o DANFE oficial é sempre o PDF baixado da Nuvem Fiscal.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/tu-usuario/pdv-nfce/internal/application/billing"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReceiptGenerator implementa billing.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator constrói o gerador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// GenerateReceipt gera o recibo e devolve os bytes do PDF. lines pode ser
// vazio quando a venda não guardou detalhamento por item.
func (g *ReceiptGenerator) GenerateReceipt(
	_ context.Context,
	invoice *entity.Invoice,
	company *entity.Company,
	lines []appbilling.ReceiptLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de Venda", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emitterRow(company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(lines) > 0 {
		m.AddRows(tableHeaderRow())
		for _, r := range tableLineRows(lines) {
			m.AddRows(r)
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}

	m.AddRows(totalRow(invoice))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range fiscalFooterRows(invoice) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: razão social + CNPJ (esq) e número/série + data (dir).
func headerRow(invoice *entity.Invoice, company *entity.Company) core.Row {
	numero := fmt.Sprintf("N° %06d  Série %d", invoice.Numero, invoice.Serie)
	data := invoice.EmittedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CNPJ: "+nfce.ExtractDigits(company.CNPJ), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("NFC-e — CUPOM FISCAL ELETRÔNICO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(numero, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emissão: "+data, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emitterRow: endereço do emitente.
func emitterRow(company *entity.Company) core.Row {
	endereco := fmt.Sprintf("%s, %s — %s, %s/%s",
		company.Logradouro, company.Numero, company.Bairro,
		company.Municipio, company.UF,
	)
	return row.New(12).Add(
		col.New(12).Add(
			text.New("EMITENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(endereco, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabeçalho da tabela de itens.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtd", 1, align.Center),
		h("Descrição", 6, align.Left),
		h("V. Unit.", 2, align.Right),
		h("V. Total", 3, align.Right),
	)
}

// tableLineRows: uma linha por item do carrinho.
func tableLineRows(lines []appbilling.ReceiptLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				l.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"R$ "+l.UnitPrice,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"R$ "+l.LineTotal,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: total da venda e forma de pagamento.
func totalRow(invoice *entity.Invoice) core.Row {
	return row.New(14).Add(
		col.New(6).Add(
			text.New("Forma de pagamento: "+paymentLabel(invoice.Payment), props.Text{
				Size: 9, Top: 4, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("TOTAL  R$ "+invoice.Total.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right,
				Color: colorPrimary, Top: 3,
			}),
		),
	)
}

// fiscalFooterRows: chave de acesso (quando existe) + QR + situação da nota.
func fiscalFooterRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMAÇÕES FISCAIS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if invoice.Chave != "" {
		rows = append(rows,
			row.New(5).Add(col.New(12).Add(
				text.New("Chave de acesso:", props.Text{
					Style: fontstyle.Bold, Size: 7, Top: 1,
				}),
			)),
			row.New(4).Add(col.New(12).Add(
				text.New(invoice.Chave, props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 2}),
			)),
			row.New(40).Add(
				col.New(4).Add(code.NewQr(invoice.Chave, props.Rect{
					Percent: 90,
					Center:  true,
				})),
				col.New(8).Add(
					text.New("Consulte pela chave de acesso no portal\nda SEFAZ do seu estado.", props.Text{
						Size: 8, Top: 4, Left: 3, Color: colorGray,
					}),
				),
			),
		)
	} else {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("NOTA EM PROCESSAMENTO — recibo sem valor fiscal até a autorização da NFC-e.", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center,
				Color: colorPrimary, Top: 2,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Documento auxiliar da NFC-e (modelo 65). Guarde este recibo como comprovante da compra.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// paymentLabel nome amigável do tPag para impressão.
func paymentLabel(tPag string) string {
	switch tPag {
	case nfce.PaymentDinheiro:
		return "Dinheiro"
	case nfce.PaymentCartaoCredito:
		return "Cartão de crédito"
	case nfce.PaymentCartaoDebito:
		return "Cartão de débito"
	case nfce.PaymentPIX:
		return "PIX"
	default:
		return tPag
	}
}
