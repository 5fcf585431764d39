// Package nuvemfiscal implementa a integração com a API da Nuvem Fiscal:
// troca de token OAuth2, montagem do documento NFC-e (leiaute 4.00 em JSON),
// envio com classificação centralizada do retorno, consulta de reconciliação
// e download de PDF/XML.
package nuvemfiscal

// ── Payload de emissão (POST /nfce) ───────────────────────────────────────────

// Document é o corpo completo enviado à Nuvem Fiscal.
type Document struct {
	Ambiente string `json:"ambiente"` // "homologacao" | "producao"
	InfNFe   InfNFe `json:"infNFe"`
}

// InfNFe grupo raiz do leiaute 4.00.
type InfNFe struct {
	Versao string     `json:"versao"` // "4.00"
	Ide    Ide        `json:"ide"`
	Emit   Emitente   `json:"emit"`
	Dest   *Dest      `json:"dest,omitempty"`
	Det    []Detalhe  `json:"det"`
	Total  Total      `json:"total"`
	Transp Transporte `json:"transp"`
	Pag    Pagamento  `json:"pag"`
}

// Ide identificação da nota.
type Ide struct {
	CUF      int    `json:"cUF"`
	NatOp    string `json:"natOp"`
	Mod      int    `json:"mod"` // 65 = NFC-e
	Serie    int    `json:"serie"`
	NNF      int    `json:"nNF"`
	DhEmi    string `json:"dhEmi"` // RFC3339 com offset
	TpNF     int    `json:"tpNF"`
	IdDest   int    `json:"idDest"`
	CMunFG   string `json:"cMunFG"`
	TpImp    int    `json:"tpImp"`
	TpEmis   int    `json:"tpEmis"`
	TpAmb    int    `json:"tpAmb"` // 1 = produção, 2 = homologação
	FinNFe   int    `json:"finNFe"`
	IndFinal int    `json:"indFinal"`
	IndPres  int    `json:"indPres"`
	ProcEmi  int    `json:"procEmi"`
	VerProc  string `json:"verProc"`
}

// Emitente bloco emit, preenchido verbatim do cadastro da empresa.
type Emitente struct {
	CNPJ      string   `json:"CNPJ"`
	XNome     string   `json:"xNome"`
	EnderEmit Endereco `json:"enderEmit"`
	IE        string   `json:"IE"`
	CRT       int      `json:"CRT"`
}

// Endereco usado em enderEmit e enderDest.
type Endereco struct {
	XLgr    string `json:"xLgr"`
	Nro     string `json:"nro"`
	XBairro string `json:"xBairro"`
	CMun    string `json:"cMun"`
	XMun    string `json:"xMun"`
	UF      string `json:"UF"`
	CEP     string `json:"CEP"`
	CPais   string `json:"cPais"`
	XPais   string `json:"xPais"`
}

// Dest destinatário opcional. Exatamente um de CPF/CNPJ vai preenchido.
type Dest struct {
	XNome     string    `json:"xNome"`
	CPF       string    `json:"CPF,omitempty"`
	CNPJ      string    `json:"CNPJ,omitempty"`
	IndIEDest string    `json:"indIEDest"` // "9" = não contribuinte
	EnderDest *Endereco `json:"enderDest,omitempty"`
}

// Detalhe uma linha de item (det).
type Detalhe struct {
	NItem   int     `json:"nItem"`
	Prod    Produto `json:"prod"`
	Imposto Imposto `json:"imposto"`
}

// Produto grupo prod de um item.
type Produto struct {
	CProd    string  `json:"cProd"`
	CEAN     string  `json:"cEAN"`
	XProd    string  `json:"xProd"`
	NCM      string  `json:"NCM"`
	CFOP     string  `json:"CFOP"`
	UCom     string  `json:"uCom"`
	QCom     float64 `json:"qCom"`
	VUnCom   float64 `json:"vUnCom"`
	VProd    float64 `json:"vProd"`
	CEANTrib string  `json:"cEANTrib"`
	UTrib    string  `json:"uTrib"`
	QTrib    float64 `json:"qTrib"`
	VUnTrib  float64 `json:"vUnTrib"`
	IndTot   int     `json:"indTot"`
}

// Imposto tributação do item. Os códigos são valores de configuração opacos:
// Simples Nacional CSOSN 102, PIS/COFINS não tributados (CST 07).
type Imposto struct {
	ICMS   ICMS   `json:"ICMS"`
	PIS    PIS    `json:"PIS"`
	COFINS COFINS `json:"COFINS"`
}

// ICMS só com o grupo ICMSSN102 (Simples Nacional sem permissão de crédito).
type ICMS struct {
	ICMSSN102 ICMSSN102 `json:"ICMSSN102"`
}

// ICMSSN102 grupo do Simples Nacional.
type ICMSSN102 struct {
	Orig  int    `json:"orig"`
	CSOSN string `json:"CSOSN"`
}

// PIS não tributado.
type PIS struct {
	PISNT CSTGroup `json:"PISNT"`
}

// COFINS não tributado.
type COFINS struct {
	COFINSNT CSTGroup `json:"COFINSNT"`
}

// CSTGroup grupo simples com só o CST.
type CSTGroup struct {
	CST string `json:"CST"`
}

// Total grupo total com ICMSTot completo (exigido pelo leiaute mesmo zerado).
type Total struct {
	ICMSTot ICMSTot `json:"ICMSTot"`
}

// ICMSTot totais da nota. vProd e vNF carregam o total; o resto fica zerado
// no Simples Nacional com PIS/COFINS não tributados.
type ICMSTot struct {
	VBC        float64 `json:"vBC"`
	VICMS      float64 `json:"vICMS"`
	VICMSDeson float64 `json:"vICMSDeson"`
	VFCP       float64 `json:"vFCP"`
	VBCST      float64 `json:"vBCST"`
	VST        float64 `json:"vST"`
	VFCPST     float64 `json:"vFCPST"`
	VFCPSTRet  float64 `json:"vFCPSTRet"`
	VProd      float64 `json:"vProd"`
	VFrete     float64 `json:"vFrete"`
	VSeg       float64 `json:"vSeg"`
	VDesc      float64 `json:"vDesc"`
	VII        float64 `json:"vII"`
	VIPI       float64 `json:"vIPI"`
	VIPIDevol  float64 `json:"vIPIDevol"`
	VPIS       float64 `json:"vPIS"`
	VCOFINS    float64 `json:"vCOFINS"`
	VOutro     float64 `json:"vOutro"`
	VNF        float64 `json:"vNF"`
}

// Transporte só modFrete 9 (sem frete) em NFC-e.
type Transporte struct {
	ModFrete int `json:"modFrete"`
}

// Pagamento grupo pag.
type Pagamento struct {
	DetPag []DetPag `json:"detPag"`
}

// DetPag um meio de pagamento. Card vai presente para cartões e PIX.
type DetPag struct {
	TPag string  `json:"tPag"`
	VPag float64 `json:"vPag"`
	Card *Card   `json:"card,omitempty"`
}

// Card subgrupo card: tpIntegra 2 = pagamento não integrado com o emissor.
type Card struct {
	TpIntegra int `json:"tpIntegra"`
}

// ── Respostas da API ──────────────────────────────────────────────────────────

// AuthorizationResponse corpo devolvido pelo provedor na emissão e na consulta.
type AuthorizationResponse struct {
	ID          string       `json:"id"`
	Ambiente    string       `json:"ambiente"`
	Status      string       `json:"status"` // autorizado, rejeitado, denegado, processamento...
	Numero      int          `json:"numero"`
	Serie       int          `json:"serie"`
	ValorTotal  float64      `json:"valor_total"`
	Chave       string       `json:"chave"`
	URLDanfe    string       `json:"url_danfe"`
	URLXML      string       `json:"url_xml"`
	Autorizacao *Autorizacao `json:"autorizacao,omitempty"`
}

// Autorizacao subobjeto com o detalhamento do processamento na SEFAZ.
type Autorizacao struct {
	MotivoStatus string `json:"motivo_status"`
}

// listResponse corpo da listagem GET /nfce (consulta de reconciliação).
type listResponse struct {
	Data []AuthorizationResponse `json:"data"`
}

// providerError corpo de erro estruturado devolvido em status HTTP != 2xx.
type providerError struct {
	Error struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// tokenResponse corpo do endpoint OAuth2.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
