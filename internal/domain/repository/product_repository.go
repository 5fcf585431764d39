package repository

import "github.com/tu-usuario/pdv-nfce/internal/domain/entity"

// ProductRepository define o porto de persistência para Product.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndCode(companyID, code string) (*entity.Product, error)
	// Search busca por nome (case insensitive, substring). q vazio lista tudo.
	Search(companyID, q string, limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id string) error
}
