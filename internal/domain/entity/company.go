package entity

import (
	"time"

	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// Company representa uma empresa/tenant do sistema (multi-tenant, foco Brasil).
// Carrega os dados do emitente da NFC-e e as credenciais da Nuvem Fiscal para
// os dois ambientes; o campo Environment seleciona o ambiente ativo.
type Company struct {
	ID                string
	Name              string // razão social (xNome)
	CNPJ              string
	IE                string // inscrição estadual
	CRT               int    // código de regime tributário
	Logradouro        string
	Numero            string
	Bairro            string
	CodigoMunicipio   string // código IBGE do município (cMun)
	Municipio         string
	UF                string
	CEP               string
	Environment       nfce.Environment
	SandboxClientID   string
	SandboxSecret     string
	ProdClientID      string
	ProdSecret        string
	Status            string // active, suspended, inactive
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Credentials devolve o par client id/secret do ambiente informado.
func (c *Company) Credentials(env nfce.Environment) (clientID, secret string) {
	if env == nfce.EnvProducao {
		return c.ProdClientID, c.ProdSecret
	}
	return c.SandboxClientID, c.SandboxSecret
}

// HasCredentials informa se o par do ambiente está completo.
func (c *Company) HasCredentials(env nfce.Environment) bool {
	id, secret := c.Credentials(env)
	return id != "" && secret != ""
}

// EmissionReady verifica os campos obrigatórios do bloco emitente. As
// credenciais são checadas à parte (HasCredentials) para erro específico.
func (c *Company) EmissionReady() bool {
	return c.CNPJ != "" && c.Name != "" && c.IE != "" && c.CRT > 0 &&
		c.Logradouro != "" && c.Numero != "" && c.Bairro != "" &&
		c.CodigoMunicipio != "" && c.Municipio != "" && c.UF != "" && c.CEP != ""
}
