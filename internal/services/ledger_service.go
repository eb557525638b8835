package services

import (
	"tillbook/internal/domain"
	"tillbook/internal/repos"
)

// LedgerService fronts the sale lifecycle: sell, cancel, uncancel, delete,
// list. Each mutation is one transaction in SaleRepo; this layer adds input
// validation and keeps the error taxonomy uniform.
type LedgerService struct {
	Sales *repos.SaleRepo
}

func NewLedgerService(sales *repos.SaleRepo) *LedgerService {
	return &LedgerService{Sales: sales}
}

func (s *LedgerService) Sell(itemID int64, qty int) (domain.Receipt, error) {
	if qty <= 0 {
		return domain.Receipt{}, &domain.ValidationError{Field: "quantity", Msg: "must be positive"}
	}
	return s.Sales.Sell(itemID, qty)
}

func (s *LedgerService) Cancel(saleID int64) error {
	return s.Sales.Cancel(saleID)
}

func (s *LedgerService) Uncancel(saleID int64) error {
	return s.Sales.Uncancel(saleID)
}

func (s *LedgerService) Delete(saleID int64) error {
	return s.Sales.Delete(saleID)
}

func (s *LedgerService) List() ([]domain.SaleRecord, error) {
	return s.Sales.List()
}
