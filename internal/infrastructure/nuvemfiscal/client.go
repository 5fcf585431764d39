package nuvemfiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tu-usuario/pdv-nfce/pkg/config"
	"github.com/tu-usuario/pdv-nfce/pkg/logger"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// Client fala com os endpoints de NFC-e da Nuvem Fiscal. A URL base é
// escolhida pelo ambiente passado em cada chamada, nunca por estado interno.
type Client struct {
	cfg    config.NuvemFiscalConfig
	client *http.Client
	log    *logger.Logger
}

// NewClient constrói o cliente com timeout de 30 s (a autorização na SEFAZ
// pode demorar alguns segundos).
func NewClient(cfg config.NuvemFiscalConfig, log *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

func (c *Client) baseURL(env nfce.Environment) string {
	return c.cfg.BaseURL(env == nfce.EnvProducao)
}

// Submit envia o documento montado e classifica o retorno. Nunca devolve erro:
// qualquer exceção de transporte vira Outcome{TransportError}.
func (c *Client) Submit(ctx context.Context, doc *Document, token string, env nfce.Environment) Outcome {
	payload, err := json.Marshal(doc)
	if err != nil {
		return Outcome{Kind: OutcomeTransportError, Reason: "serializar documento: " + err.Error()}
	}

	endpoint := c.baseURL(env) + "/nfce"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Outcome{Kind: OutcomeTransportError, Reason: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("env", string(env)).Msg("falha de rede no envio da NFC-e")
		return Outcome{Kind: OutcomeTransportError, Reason: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{Kind: OutcomeTransportError, Reason: "ler resposta: " + err.Error()}
	}

	outcome := classify(resp.StatusCode, body)
	c.log.Info().
		Int("http_status", resp.StatusCode).
		Str("outcome", outcome.Kind.String()).
		Str("env", string(env)).
		Msg("NFC-e enviada")
	return outcome
}

// FindExisting consulta se já existe um documento com (cnpj, numero, serie) no
// ambiente; usado depois de TransportError/Processing, quando o caller não
// sabe se o documento chegou a ser criado no provedor.
//
// Devolve (nil, nil) quando não há documento: é seguro reenviar com o mesmo
// número. Quando devolve um documento, o caller NÃO deve reenviar: deve
// adotar o id/status encontrado no livro local.
func (c *Client) FindExisting(ctx context.Context, token string, env nfce.Environment, cnpj string, numero, serie int) (*AuthorizationResponse, error) {
	q := url.Values{}
	q.Set("cpf_cnpj", nfce.ExtractDigits(cnpj))
	q.Set("ambiente", string(env))
	q.Set("numero", strconv.Itoa(numero))
	q.Set("serie", strconv.Itoa(serie))
	q.Set("$top", "1")
	q.Set("$orderby", "created_at desc")

	endpoint := c.baseURL(env) + "/nfce?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("nuvemfiscal: montar consulta: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nuvemfiscal: consultar documentos: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nuvemfiscal: consulta devolveu HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("nuvemfiscal: decodificar consulta: %w", err)
	}
	if len(list.Data) == 0 {
		return nil, nil
	}
	return &list.Data[0], nil
}

// DownloadPDF baixa o binário do DANFE do documento. Em erro do provedor a
// mensagem crua é preservada para depuração do operador.
func (c *Client) DownloadPDF(ctx context.Context, token string, env nfce.Environment, providerID string) ([]byte, error) {
	return c.download(ctx, token, env, providerID, "pdf")
}

// DownloadXML baixa o XML autorizado do documento.
func (c *Client) DownloadXML(ctx context.Context, token string, env nfce.Environment, providerID string) ([]byte, error) {
	return c.download(ctx, token, env, providerID, "xml")
}

func (c *Client) download(ctx context.Context, token string, env nfce.Environment, providerID, format string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/nfce/%s/%s", c.baseURL(env), providerID, format)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("nuvemfiscal: montar download: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nuvemfiscal: baixar %s: %w", format, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nuvemfiscal: ler %s: %w", format, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nuvemfiscal: erro da API (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
