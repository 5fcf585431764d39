package nuvemfiscal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutcomeKind variante fechada do resultado de uma submissão.
type OutcomeKind int

const (
	OutcomeAuthorized OutcomeKind = iota
	OutcomeRejected
	OutcomeDenied
	OutcomeProcessing
	OutcomeValidationError
	OutcomeTransportError
)

// String para logs.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAuthorized:
		return "authorized"
	case OutcomeRejected:
		return "rejected"
	case OutcomeDenied:
		return "denied"
	case OutcomeProcessing:
		return "processing"
	case OutcomeValidationError:
		return "validation_error"
	default:
		return "transport_error"
	}
}

// Outcome resultado classificado de uma submissão. Submit nunca devolve erro
// cru: toda exceção de rede ou corpo inesperado vira um Outcome.
type Outcome struct {
	Kind          OutcomeKind
	Reason        string                 // motivo legível (rejeição, validação, transporte)
	Authorization *AuthorizationResponse // preenchido quando Kind == OutcomeAuthorized
}

// classify mapeia (status HTTP, corpo) para a variante fechada. É a única
// função que interpreta o formato heterogêneo de resposta do provedor, e por
// isso concentra os testes de classificação.
//
// Ordem das regras:
//  1. Corpo não parseável          -> TransportError
//  2. status corpo == "rejeitado"  -> Rejected (prioridade sobre o HTTP 200)
//  3. HTTP 200/201: status do corpo decide (autorizado/denegado/processamento)
//  4. HTTP de erro: extrai mensagem do objeto de erro estruturado
func classify(statusCode int, body []byte) Outcome {
	var resp AuthorizationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Outcome{
			Kind:   OutcomeTransportError,
			Reason: fmt.Sprintf("resposta não estruturada (HTTP %d): %s", statusCode, truncate(string(body), 200)),
		}
	}

	// O provedor pode devolver 200 com payload semanticamente rejeitado.
	if strings.EqualFold(resp.Status, "rejeitado") {
		motivo := "motivo desconhecido"
		if resp.Autorizacao != nil && resp.Autorizacao.MotivoStatus != "" {
			motivo = resp.Autorizacao.MotivoStatus
		}
		return Outcome{Kind: OutcomeRejected, Reason: motivo}
	}

	if statusCode == 200 || statusCode == 201 {
		switch strings.ToLower(resp.Status) {
		case "autorizado":
			return Outcome{Kind: OutcomeAuthorized, Authorization: &resp}
		case "denegado":
			return Outcome{Kind: OutcomeDenied, Reason: motivoOuStatus(&resp)}
		case "processamento", "pendente":
			// Não terminal: o caller deve consultar via reconciliação, nunca
			// reenviar às cegas com o mesmo número.
			return Outcome{Kind: OutcomeProcessing, Reason: motivoOuStatus(&resp)}
		default:
			return Outcome{Kind: OutcomeValidationError, Reason: fmt.Sprintf("status inesperado do provedor: %q", resp.Status)}
		}
	}

	return Outcome{Kind: OutcomeValidationError, Reason: extractErrorMessage(body, statusCode)}
}

// motivoOuStatus devolve o motivo_status quando presente, senão o status cru.
func motivoOuStatus(resp *AuthorizationResponse) string {
	if resp.Autorizacao != nil && resp.Autorizacao.MotivoStatus != "" {
		return resp.Autorizacao.MotivoStatus
	}
	return resp.Status
}

// extractErrorMessage tenta o campo message direto e depois a primeira entrada
// da lista de erros (concatenada com o caminho do campo). Fallback genérico.
func extractErrorMessage(body []byte, statusCode int) string {
	var pe providerError
	if err := json.Unmarshal(body, &pe); err == nil {
		if pe.Error.Message != "" {
			return pe.Error.Message
		}
		if len(pe.Error.Errors) > 0 {
			first := pe.Error.Errors[0]
			if first.Field != "" {
				return first.Field + ": " + first.Message
			}
			return first.Message
		}
	}
	return fmt.Sprintf("erro de validação do provedor (HTTP %d)", statusCode)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
