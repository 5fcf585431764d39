package nuvemfiscal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nfeProcAutorizado = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">
  <NFe>
    <infNFe Id="NFe35260811222333000181650020000000421000000420" versao="4.00">
      <ide><mod>65</mod><serie>2</serie><nNF>42</nNF></ide>
    </infNFe>
  </NFe>
  <protNFe versao="4.00">
    <infProt>
      <chNFe>35260811222333000181650020000000421000000420</chNFe>
      <nProt>135260000012345</nProt>
      <cStat>100</cStat>
    </infProt>
  </protNFe>
</nfeProc>`

func TestExtractXMLMetadata_NfeProcCompleto(t *testing.T) {
	meta, err := ExtractXMLMetadata([]byte(nfeProcAutorizado))

	require.NoError(t, err)
	assert.Equal(t, "35260811222333000181650020000000421000000420", meta.Chave)
	assert.Equal(t, "135260000012345", meta.Protocolo)
}

// Sem protNFe a chave sai do atributo Id do infNFe, sem o prefixo "NFe".
func TestExtractXMLMetadata_FallbackAtributoId(t *testing.T) {
	raw := `<NFe><infNFe Id="NFe35260811222333000181650020000000421000000420" versao="4.00"/></NFe>`
	meta, err := ExtractXMLMetadata([]byte(raw))

	require.NoError(t, err)
	assert.Equal(t, "35260811222333000181650020000000421000000420", meta.Chave)
	assert.Empty(t, meta.Protocolo)
}

func TestExtractXMLMetadata_XMLInvalido(t *testing.T) {
	_, err := ExtractXMLMetadata([]byte("isto nao e xml <"))
	assert.Error(t, err)
}

func TestExtractXMLMetadata_SemChave(t *testing.T) {
	_, err := ExtractXMLMetadata([]byte(`<nfeProc><NFe></NFe></nfeProc>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sem chave de acesso")
}
