package nfce

import (
	"fmt"
	"unicode"
)

// Tipos de documento do destinatário, discriminados pela quantidade de dígitos.
const (
	TaxIDCPF  = "CPF"  // 11 dígitos - pessoa física
	TaxIDCNPJ = "CNPJ" // 14 dígitos (ou qualquer tamanho != 11) - pessoa jurídica
)

// ExtractDigits remove toda pontuação de um CPF/CNPJ e devolve apenas os dígitos.
// Aceita "123.456.789-01", "12.345.678/0001-99" ou o valor já limpo.
func ExtractDigits(s string) string {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// ClassifyTaxID limpa o documento e o classifica: exatamente 11 dígitos é CPF,
// qualquer outro tamanho é tratado como CNPJ. Devolve também os dígitos limpos.
func ClassifyTaxID(taxID string) (kind, digits string) {
	digits = ExtractDigits(taxID)
	if len(digits) == 11 {
		return TaxIDCPF, digits
	}
	return TaxIDCNPJ, digits
}

// pesos do primeiro e segundo dígito verificador do CNPJ (módulo 11).
var (
	cnpjWeightsFirst  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateCNPJ valida os dois dígitos verificadores do CNPJ (módulo 11).
// taxID pode vir com ou sem pontuação.
func ValidateCNPJ(taxID string) error {
	digits := ExtractDigits(taxID)
	if len(digits) != 14 {
		return fmt.Errorf("nfce: CNPJ deve ter 14 dígitos, recebidos %d", len(digits))
	}
	if allSameDigit(digits) {
		return fmt.Errorf("nfce: CNPJ com todos os dígitos iguais é inválido")
	}
	if digits[12] != cnpjCheckDigit(digits[:12], cnpjWeightsFirst[:]) {
		return fmt.Errorf("nfce: primeiro dígito verificador do CNPJ inválido")
	}
	if digits[13] != cnpjCheckDigit(digits[:13], cnpjWeightsSecond[:]) {
		return fmt.Errorf("nfce: segundo dígito verificador do CNPJ inválido")
	}
	return nil
}

func cnpjCheckDigit(base string, weights []int) byte {
	var sum int
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + (11 - remainder))
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
