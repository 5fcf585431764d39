package nuvemfiscal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/pkg/logger"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

// Motivos de falha de autenticação.
const (
	AuthMissingCredentials = "missing_credentials"
	AuthProviderRejected   = "provider_rejected"
	AuthNetworkError       = "network_error"
)

// AuthError falha tipada na obtenção do token. Nunca propaga como pânico nem
// como erro cru de transporte: o caller decide a mensagem pelo Reason.
type AuthError struct {
	Reason string
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "nuvemfiscal: auth: " + e.Reason
	}
	return fmt.Sprintf("nuvemfiscal: auth: %s: %s", e.Reason, e.Detail)
}

// tokenScope cobre emissão de NFC-e e consulta de CNPJ.
const tokenScope = "nfce cnpj"

// TokenProvider troca as credenciais da empresa por um bearer token OAuth2
// (client credentials) no endpoint fixo da Nuvem Fiscal.
//
// Sem retry e sem cache: cada emissão reautentica. A política de retry é do
// caller.
// TODO: guardar o token num cache por empresa respeitando expires_in.
type TokenProvider struct {
	authURL string
	client  *http.Client
	log     *logger.Logger
}

// NewTokenProvider constrói o provider com timeout curto (10 s).
func NewTokenProvider(authURL string, log *logger.Logger) *TokenProvider {
	return &TokenProvider{
		authURL: authURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// AcquireToken obtém um token para o ambiente informado. Falha rápido, sem
// nenhuma chamada de rede, quando o par de credenciais do ambiente está
// incompleto. Erros sempre saem como *AuthError.
func (p *TokenProvider) AcquireToken(ctx context.Context, company *entity.Company, env nfce.Environment) (string, error) {
	clientID, secret := company.Credentials(env)
	if clientID == "" || secret == "" {
		return "", &AuthError{Reason: AuthMissingCredentials}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", tokenScope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Reason: AuthNetworkError, Detail: err.Error()}
	}
	basic := base64.StdEncoding.EncodeToString([]byte(clientID + ":" + secret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn().Err(err).Str("company_id", company.ID).Msg("falha de rede na autenticação Nuvem Fiscal")
		return "", &AuthError{Reason: AuthNetworkError, Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		p.log.Warn().Int("status", resp.StatusCode).Str("company_id", company.ID).Msg("autenticação rejeitada pela Nuvem Fiscal")
		return "", &AuthError{Reason: AuthProviderRejected, Detail: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil || tr.AccessToken == "" {
		return "", &AuthError{Reason: AuthProviderRejected, Detail: "resposta sem access_token"}
	}
	return tr.AccessToken, nil
}
