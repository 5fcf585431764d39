package nuvemfiscal

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// XMLMetadata campos de interesse do nfeProc autorizado.
type XMLMetadata struct {
	Chave     string
	Protocolo string
}

// ExtractXMLMetadata lê chave de acesso e protocolo de autorização do XML
// devolvido pelo provedor. A chave sai de protNFe/infProt/chNFe; na falta,
// do atributo Id do infNFe (prefixado com "NFe").
func ExtractXMLMetadata(raw []byte) (*XMLMetadata, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("nuvemfiscal: XML inválido: %w", err)
	}

	meta := &XMLMetadata{}
	if el := doc.FindElement("//infProt/chNFe"); el != nil {
		meta.Chave = strings.TrimSpace(el.Text())
	}
	if el := doc.FindElement("//infProt/nProt"); el != nil {
		meta.Protocolo = strings.TrimSpace(el.Text())
	}
	if meta.Chave == "" {
		if el := doc.FindElement("//infNFe"); el != nil {
			meta.Chave = strings.TrimPrefix(el.SelectAttrValue("Id", ""), "NFe")
		}
	}
	if meta.Chave == "" {
		return nil, fmt.Errorf("nuvemfiscal: XML sem chave de acesso")
	}
	return meta, nil
}
