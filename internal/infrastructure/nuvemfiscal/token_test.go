package nuvemfiscal

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pdv-nfce/internal/domain/entity"
	"github.com/tu-usuario/pdv-nfce/pkg/logger"
	"github.com/tu-usuario/pdv-nfce/pkg/nfce"
)

func companyWithCreds() *entity.Company {
	return &entity.Company{
		ID:              "company-1",
		SandboxClientID: "client-sandbox",
		SandboxSecret:   "secret-sandbox",
		ProdClientID:    "client-prod",
		ProdSecret:      "secret-prod",
	}
}

// Credenciais incompletas falham antes de qualquer chamada de rede.
func TestAcquireToken_SemCredenciais_FalhaSemRede(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	provider := NewTokenProvider(srv.URL, logger.Nop())
	company := &entity.Company{ID: "company-1"} // sem credenciais

	_, err := provider.AcquireToken(context.Background(), company, nfce.EnvHomologacao)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, AuthMissingCredentials, authErr.Reason)
	assert.Zero(t, hits, "não deve haver chamada ao endpoint de token")
}

func TestAcquireToken_Sucesso_EnviaBasicEForm(t *testing.T) {
	var gotAuth, gotGrant, gotScope, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotGrant = r.PostFormValue("grant_type")
		gotScope = r.PostFormValue("scope")
		w.Write([]byte(`{"access_token":"tok-123","expires_in":3600}`))
	}))
	defer srv.Close()

	provider := NewTokenProvider(srv.URL, logger.Nop())
	token, err := provider.AcquireToken(context.Background(), companyWithCreds(), nfce.EnvHomologacao)

	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	basic := base64.StdEncoding.EncodeToString([]byte("client-sandbox:secret-sandbox"))
	assert.Equal(t, "Basic "+basic, gotAuth)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "client_credentials", gotGrant)
	assert.Equal(t, "nfce cnpj", gotScope)
}

// O par de credenciais acompanha o ambiente pedido, não o cadastrado na empresa.
func TestAcquireToken_Producao_UsaParDeProducao(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"access_token":"tok-prod"}`))
	}))
	defer srv.Close()

	provider := NewTokenProvider(srv.URL, logger.Nop())
	token, err := provider.AcquireToken(context.Background(), companyWithCreds(), nfce.EnvProducao)

	require.NoError(t, err)
	assert.Equal(t, "tok-prod", token)
	basic := base64.StdEncoding.EncodeToString([]byte("client-prod:secret-prod"))
	assert.Equal(t, "Basic "+basic, gotAuth)
}

func TestAcquireToken_ProvedorRecusa(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	provider := NewTokenProvider(srv.URL, logger.Nop())
	_, err := provider.AcquireToken(context.Background(), companyWithCreds(), nfce.EnvHomologacao)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, AuthProviderRejected, authErr.Reason)
	assert.Contains(t, authErr.Detail, "invalid_client")
}

func TestAcquireToken_RespostaSemAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	provider := NewTokenProvider(srv.URL, logger.Nop())
	_, err := provider.AcquireToken(context.Background(), companyWithCreds(), nfce.EnvHomologacao)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, AuthProviderRejected, authErr.Reason)
	assert.Equal(t, "resposta sem access_token", authErr.Detail)
}

func TestAcquireToken_FalhaDeRede(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // derruba o servidor antes da chamada

	provider := NewTokenProvider(srv.URL, logger.Nop())
	_, err := provider.AcquireToken(context.Background(), companyWithCreds(), nfce.EnvHomologacao)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, AuthNetworkError, authErr.Reason)
}
