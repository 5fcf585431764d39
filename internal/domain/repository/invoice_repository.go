package repository

import "github.com/tu-usuario/pdv-nfce/internal/domain/entity"

// InvoiceRepository define o porto de persistência do livro local de notas.
type InvoiceRepository interface {
	// Create insere a nota. Devolve domain.ErrDuplicate se já existe uma nota
	// com o mesmo (company, serie, numero), backstop da constraint única
	// contra corridas de numeração entre instâncias.
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	// GetByNumber localiza a nota por (company, serie, numero); nil se não existe.
	GetByNumber(companyID string, serie, numero int) (*entity.Invoice, error)
	// NextNumber devolve 1 + maior numero já usado pela empresa na série, ou 1.
	NextNumber(companyID string, serie int) (int, error)
	Update(invoice *entity.Invoice) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error)
}
