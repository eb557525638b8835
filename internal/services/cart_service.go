package services

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"tillbook/internal/domain"
	"tillbook/internal/repos"
)

// CartService holds the pending, unconfirmed cart for each session. Carts are
// caller-owned state, not part of the durable ledger: they live in process
// memory keyed by the sid cookie and vanish on restart. Prices are read at
// view/checkout time, never stored in the cart.
type CartService struct {
	Items *repos.ItemRepo

	mu    sync.Mutex
	carts map[string]map[int64]int // sid -> itemID -> qty
}

func NewCartService(items *repos.ItemRepo) *CartService {
	return &CartService{Items: items, carts: make(map[string]map[int64]int)}
}

// Add accumulates qty onto an existing line. The item must exist at add time.
func (s *CartService) Add(sid string, itemID int64, qty int) error {
	if qty < 1 {
		qty = 1
	}
	if _, err := s.Items.Get(itemID); err != nil {
		return &domain.NotFoundError{Kind: "item", ID: itemID}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.carts[sid]
	if c == nil {
		c = make(map[int64]int)
		s.carts[sid] = c
	}
	c[itemID] += qty
	return nil
}

// SetQty replaces a line's quantity; qty <= 0 removes the line.
func (s *CartService) SetQty(sid string, itemID int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.carts[sid]
	if c == nil {
		return
	}
	if qty <= 0 {
		delete(c, itemID)
		return
	}
	c[itemID] = qty
}

func (s *CartService) Remove(sid string, itemID int64) {
	s.SetQty(sid, itemID, 0)
}

func (s *CartService) Clear(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sid)
}

type CartLine struct {
	ItemID   int64
	Name     string
	Price    decimal.Decimal
	Quantity int
	Total    decimal.Decimal
}

type CartView struct {
	Lines []CartLine
	Total decimal.Decimal
}

// View prices the cart at current catalogue prices. Lines whose item has been
// deleted since they were added are dropped silently.
func (s *CartService) View(sid string) (CartView, error) {
	s.mu.Lock()
	lines := make(map[int64]int, len(s.carts[sid]))
	for id, q := range s.carts[sid] {
		lines[id] = q
	}
	s.mu.Unlock()

	cv := CartView{Total: decimal.Zero}
	ids := make([]int64, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		it, err := s.Items.Get(id)
		if err != nil {
			continue
		}
		qty := lines[id]
		lineTotal := it.Price.Mul(decimal.NewFromInt(int64(qty)))
		cv.Lines = append(cv.Lines, CartLine{
			ItemID: id, Name: it.Name, Price: it.Price, Quantity: qty, Total: lineTotal,
		})
		cv.Total = cv.Total.Add(lineTotal)
	}
	return cv, nil
}

// Checkout invokes one sale per cart line, in ascending item-id order.
// Deliberately not atomic across lines: the first failing line stops the run,
// earlier lines stay sold and later lines are left in the cart untouched.
func (s *CartService) Checkout(sid string, ledger *LedgerService) ([]domain.Receipt, error) {
	cv, err := s.View(sid)
	if err != nil {
		return nil, err
	}
	if len(cv.Lines) == 0 {
		return nil, &domain.ValidationError{Field: "cart", Msg: "is empty"}
	}

	var receipts []domain.Receipt
	for _, line := range cv.Lines {
		rc, err := ledger.Sell(line.ItemID, line.Quantity)
		if err != nil {
			return receipts, err
		}
		receipts = append(receipts, rc)
		s.Remove(sid, line.ItemID)
	}
	s.Clear(sid)
	return receipts, nil
}
