package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("o email já está cadastrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")
	ErrConflict           = errors.New("conflito com o estado atual")

	// ErrEmptyCart carrinho sem itens: rejeitado antes de qualquer chamada externa.
	ErrEmptyCart = errors.New("carrinho vazio")
	// ErrMissingCredentials empresa sem credenciais para o ambiente ativo.
	ErrMissingCredentials = errors.New("credenciais da Nuvem Fiscal ausentes para o ambiente ativo")
	// ErrIncompleteCompany cadastro da empresa sem os campos obrigatórios de emissão.
	ErrIncompleteCompany = errors.New("cadastro da empresa incompleto para emissão")
)
