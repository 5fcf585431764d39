package nuvemfiscal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// CartItem é uma linha de venda efêmera: existe só durante a montagem.
type CartItem struct {
	RefID     string // referência externa (cProd)
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int // >= 1, validado antes da montagem
	NCM       string
}

// LineTotal devolve o total da linha arredondado a 2 casas.
// O arredondamento é por linha; o total da nota soma linhas já arredondadas
// para não acumular erro de ponto flutuante no valor declarado.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

// AssembleInput entrada completa da montagem. Environment vem resolvido pelo
// caller uma única vez; nunca é relido da empresa no meio do fluxo.
type AssembleInput struct {
	Company     *entity.Company
	Customer    *entity.Customer // opcional
	Items       []CartItem
	Payment     string // tPag
	Numero      int
	Environment nfce.Environment
	EmittedAt   time.Time
}

// Assemble monta o documento NFC-e completo no formato da Nuvem Fiscal.
// Função pura: não faz I/O. Pré-condições (carrinho não vazio, empresa
// completa, meio de pagamento válido) são checadas pelo caso de uso.
func Assemble(in AssembleInput) (*Document, error) {
	cuf, ok := nfce.UFCode(in.Company.UF)
	if !ok {
		return nil, fmt.Errorf("nuvemfiscal: UF desconhecida %q", in.Company.UF)
	}

	det := make([]Detalhe, 0, len(in.Items))
	total := decimal.Zero
	for i, item := range in.Items {
		lineTotal := item.LineTotal()
		total = total.Add(lineTotal)

		ncm := item.NCM
		if ncm == "" {
			ncm = nfce.DefaultNCM
		}
		qty := float64(item.Quantity)
		unit, _ := item.UnitPrice.Float64()
		det = append(det, Detalhe{
			NItem: i + 1,
			Prod: Produto{
				CProd:    item.RefID,
				CEAN:     nfce.SemGTIN,
				XProd:    item.Name,
				NCM:      ncm,
				CFOP:     nfce.DefaultCFOP,
				UCom:     "UN",
				QCom:     qty,
				VUnCom:   unit,
				VProd:    lineTotal.InexactFloat64(),
				CEANTrib: nfce.SemGTIN,
				UTrib:    "UN",
				QTrib:    qty,
				VUnTrib:  unit,
				IndTot:   1,
			},
			Imposto: Imposto{
				ICMS:   ICMS{ICMSSN102: ICMSSN102{Orig: 0, CSOSN: "102"}},
				PIS:    PIS{PISNT: CSTGroup{CST: "07"}},
				COFINS: COFINS{COFINSNT: CSTGroup{CST: "07"}},
			},
		})
	}
	total = total.Round(2)
	vNF := total.InexactFloat64()

	detPag := DetPag{TPag: in.Payment, VPag: vNF}
	if nfce.RequiresCardDetail(in.Payment) {
		// Cartões e PIX sem TEF integrado: tpIntegra 2
		detPag.Card = &Card{TpIntegra: 2}
	}

	doc := &Document{
		Ambiente: string(in.Environment),
		InfNFe: InfNFe{
			Versao: "4.00",
			Ide: Ide{
				CUF:      cuf,
				NatOp:    "VENDA",
				Mod:      65,
				Serie:    in.Environment.Serie(),
				NNF:      in.Numero,
				DhEmi:    in.EmittedAt.Format(time.RFC3339),
				TpNF:     1,
				IdDest:   1,
				CMunFG:   in.Company.CodigoMunicipio,
				TpImp:    4,
				TpEmis:   1,
				TpAmb:    in.Environment.TpAmb(),
				FinNFe:   1,
				IndFinal: 1,
				IndPres:  1,
				ProcEmi:  0,
				VerProc:  "1.0",
			},
			Emit: Emitente{
				CNPJ:  nfce.ExtractDigits(in.Company.CNPJ),
				XNome: in.Company.Name,
				EnderEmit: Endereco{
					XLgr:    in.Company.Logradouro,
					Nro:     in.Company.Numero,
					XBairro: in.Company.Bairro,
					CMun:    in.Company.CodigoMunicipio,
					XMun:    in.Company.Municipio,
					UF:      in.Company.UF,
					CEP:     in.Company.CEP,
					CPais:   nfce.CodigoPaisBrasil,
					XPais:   nfce.NomePaisBrasil,
				},
				IE:  in.Company.IE,
				CRT: in.Company.CRT,
			},
			Dest: buildDest(in.Customer, in.Company.CodigoMunicipio),
			Det:  det,
			Total: Total{ICMSTot: ICMSTot{
				VProd: vNF,
				VNF:   vNF,
			}},
			Transp: Transporte{ModFrete: 9},
			Pag:    Pagamento{DetPag: []DetPag{detPag}},
		},
	}
	return doc, nil
}

// DocumentTotal devolve o total declarado (soma de linhas já arredondadas).
func DocumentTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total.Round(2)
}

// buildDest monta o destinatário quando há cliente identificado. O CPF/CNPJ é
// limpo e discriminado pela contagem de dígitos. O endereço só entra quando o
// cliente tem logradouro; subcampos opcionais ausentes recebem defaults,
// os obrigatórios (xMun, UF) seguem verbatim do cadastro.
func buildDest(customer *entity.Customer, cMunFallback string) *Dest {
	if customer == nil {
		return nil
	}
	dest := &Dest{
		XNome:     customer.Name,
		IndIEDest: "9", // não contribuinte
	}
	kind, digits := nfce.ClassifyTaxID(customer.TaxID)
	if kind == nfce.TaxIDCPF {
		dest.CPF = digits
	} else {
		dest.CNPJ = digits
	}

	if !customer.HasAddress() {
		return dest
	}
	numero := customer.Numero
	if numero == "" {
		numero = "S/N"
	}
	bairro := customer.Bairro
	if bairro == "" {
		bairro = "Centro"
	}
	cep := customer.CEP
	if cep == "" {
		cep = "00000000"
	}
	dest.EnderDest = &Endereco{
		XLgr:    customer.Logradouro,
		Nro:     numero,
		XBairro: bairro,
		CMun:    cMunFallback,
		XMun:    customer.Municipio,
		UF:      customer.UF,
		CEP:     cep,
		CPais:   nfce.CodigoPaisBrasil,
		XPais:   nfce.NomePaisBrasil,
	}
	return dest
}
