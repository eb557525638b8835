package services

import (
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"tillbook/internal/domain"
	"tillbook/internal/repos"
)

// CatalogService owns the inventory catalogue: create, edit, toggle-favorite,
// delete, list, get. Quantity is otherwise mutated only by the ledger.
type CatalogService struct {
	Items *repos.ItemRepo
}

func NewCatalogService(items *repos.ItemRepo) *CatalogService {
	return &CatalogService{Items: items}
}

func (s *CatalogService) Create(name string, price decimal.Decimal, quantity int, imagePath string) (domain.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Item{}, &domain.ValidationError{Field: "name", Msg: "must not be empty"}
	}
	if price.IsNegative() {
		return domain.Item{}, &domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}
	if quantity < 0 {
		return domain.Item{}, &domain.ValidationError{Field: "quantity", Msg: "must not be negative"}
	}
	return s.Items.Create(name, price, quantity, imagePath)
}

// Edit applies only the supplied fields; nil means keep the current value.
func (s *CatalogService) Edit(id int64, u repos.ItemUpdate) error {
	if u.Name != nil {
		n := strings.TrimSpace(*u.Name)
		if n == "" {
			return &domain.ValidationError{Field: "name", Msg: "must not be empty"}
		}
		u.Name = &n
	}
	if u.Price != nil && u.Price.IsNegative() {
		return &domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}
	if u.Quantity != nil && *u.Quantity < 0 {
		return &domain.ValidationError{Field: "quantity", Msg: "must not be negative"}
	}
	err := s.Items.Update(id, u)
	if err == sql.ErrNoRows {
		return &domain.NotFoundError{Kind: "item", ID: id}
	}
	return err
}

// ToggleFavorite flips the flag and returns the item as it now stands.
func (s *CatalogService) ToggleFavorite(id int64) (domain.Item, error) {
	if err := s.Items.ToggleFavorite(id); err != nil {
		if err == sql.ErrNoRows {
			return domain.Item{}, &domain.NotFoundError{Kind: "item", ID: id}
		}
		return domain.Item{}, err
	}
	return s.Items.Get(id)
}

// Delete removes the item. Sale rows referencing it survive and read back as
// "unknown item".
func (s *CatalogService) Delete(id int64) error {
	err := s.Items.Delete(id)
	if err == sql.ErrNoRows {
		return &domain.NotFoundError{Kind: "item", ID: id}
	}
	return err
}

func (s *CatalogService) Get(id int64) (domain.Item, error) {
	it, err := s.Items.Get(id)
	if err == sql.ErrNoRows {
		return domain.Item{}, &domain.NotFoundError{Kind: "item", ID: id}
	}
	return it, err
}

func (s *CatalogService) List(search string) ([]domain.Item, error) {
	return s.Items.List(strings.TrimSpace(search))
}
