package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tillbook/internal/domain"
)

// SaleRepo owns the sales table and the quantity-transfer invariant linking
// each sale to its inventory row. Every operation that touches both tables
// runs in a single transaction: stock is never left adjusted without the
// matching sale state, and vice versa.
type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

// Now is stubbed in tests to pin sale timestamps.
var Now = func() string { return time.Now().UTC().Format(time.RFC3339) }

type saleState struct {
	ItemID    int64 `db:"item_id"`
	Quantity  int   `db:"quantity"`
	Cancelled bool  `db:"cancelled"`
}

func (r *SaleRepo) getSale(tx *sqlx.Tx, saleID int64) (saleState, error) {
	var s saleState
	err := tx.Get(&s, tx.Rebind(`SELECT item_id, quantity, cancelled FROM sales WHERE id = ?`), saleID)
	if err == sql.ErrNoRows {
		return s, &domain.NotFoundError{Kind: "sale", ID: saleID}
	}
	return s, err
}

// Sell records a sale of qty units of an item: checks stock, freezes
// total = price x qty, debits inventory and inserts the Active sale row
// atomically. Caller validates qty > 0.
func (r *SaleRepo) Sell(itemID int64, qty int) (domain.Receipt, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Receipt{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var it struct {
		Name     string          `db:"name"`
		Price    decimal.Decimal `db:"price"`
		Quantity int             `db:"quantity"`
	}
	err = tx.Get(&it, tx.Rebind(`SELECT name, price, quantity FROM inventory WHERE id = ?`), itemID)
	if err == sql.ErrNoRows {
		return domain.Receipt{}, &domain.NotFoundError{Kind: "item", ID: itemID}
	}
	if err != nil {
		return domain.Receipt{}, err
	}
	if it.Quantity < qty {
		return domain.Receipt{}, &domain.InsufficientStockError{ItemID: itemID, Requested: qty, Available: it.Quantity}
	}

	// Conditional decrement guards the read-check-write sequence even if the
	// backend runs this transaction at a weaker isolation level.
	res, err := tx.Exec(tx.Rebind(`
		UPDATE inventory SET quantity = quantity - ? WHERE id = ? AND quantity >= ?
	`), qty, itemID, qty)
	if err != nil {
		return domain.Receipt{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Receipt{}, &domain.InsufficientStockError{ItemID: itemID, Requested: qty, Available: it.Quantity}
	}

	total := it.Price.Mul(decimal.NewFromInt(int64(qty)))
	ts := Now()
	var saleID int64
	err = tx.Get(&saleID, tx.Rebind(`
		INSERT INTO sales(item_id, quantity, timestamp, total_price, cancelled)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), itemID, qty, ts, total, false)
	if err != nil {
		return domain.Receipt{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Receipt{}, err
	}
	return domain.Receipt{SaleID: saleID, ItemName: it.Name, Quantity: qty, Total: total, Timestamp: ts}, nil
}

// Cancel marks an Active sale Cancelled and credits the sold quantity back to
// its item. If the item was deleted in the meantime the credit is a silent
// no-op (0-row update); the sale is still marked cancelled.
func (r *SaleRepo) Cancel(saleID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	s, err := r.getSale(tx, saleID)
	if err != nil {
		return err
	}
	if s.Cancelled {
		return domain.ErrAlreadyCancelled
	}
	if _, err := tx.Exec(tx.Rebind(`UPDATE sales SET cancelled = ? WHERE id = ?`), true, saleID); err != nil {
		return err
	}
	if _, err := tx.Exec(tx.Rebind(`UPDATE inventory SET quantity = quantity + ? WHERE id = ?`), s.Quantity, s.ItemID); err != nil {
		return err
	}
	return tx.Commit()
}

// Uncancel re-debits exactly the quantity the sale originally removed and
// marks it Active again. Unlike Cancel, the item must still exist and have
// sufficient stock.
func (r *SaleRepo) Uncancel(saleID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	s, err := r.getSale(tx, saleID)
	if err != nil {
		return err
	}
	if !s.Cancelled {
		return domain.ErrNotCancelled
	}

	var avail int
	err = tx.Get(&avail, tx.Rebind(`SELECT quantity FROM inventory WHERE id = ?`), s.ItemID)
	if err == sql.ErrNoRows {
		return &domain.NotFoundError{Kind: "item", ID: s.ItemID}
	}
	if err != nil {
		return err
	}
	if avail < s.Quantity {
		return &domain.InsufficientStockError{ItemID: s.ItemID, Requested: s.Quantity, Available: avail}
	}

	res, err := tx.Exec(tx.Rebind(`
		UPDATE inventory SET quantity = quantity - ? WHERE id = ? AND quantity >= ?
	`), s.Quantity, s.ItemID, s.Quantity)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.InsufficientStockError{ItemID: s.ItemID, Requested: s.Quantity, Available: avail}
	}
	if _, err := tx.Exec(tx.Rebind(`UPDATE sales SET cancelled = ? WHERE id = ?`), false, saleID); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a sale permanently. An Active sale has its quantity credited
// back first (reconciliation happens exactly once: a Cancelled sale was
// already restored at cancel time).
func (r *SaleRepo) Delete(saleID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	s, err := r.getSale(tx, saleID)
	if err != nil {
		return err
	}
	if !s.Cancelled {
		if _, err := tx.Exec(tx.Rebind(`UPDATE inventory SET quantity = quantity + ? WHERE id = ?`), s.Quantity, s.ItemID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(tx.Rebind(`DELETE FROM sales WHERE id = ?`), saleID); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns all sales newest-first, each annotated with the referenced
// item's current name. Dangling references (item deleted) come back with
// ItemMissing set. RFC3339 text sorts chronologically, so no backend date
// functions are needed.
func (r *SaleRepo) List() ([]domain.SaleRecord, error) {
	out := []domain.SaleRecord{}
	err := r.db.Select(&out, `
		SELECT s.id, s.item_id,
		       COALESCE(i.name, '') AS item_name,
		       (i.id IS NULL) AS item_missing,
		       s.quantity, s.timestamp, s.total_price, s.cancelled
		FROM sales s
		LEFT JOIN inventory i ON i.id = s.item_id
		ORDER BY s.timestamp DESC, s.id DESC
	`)
	return out, err
}
