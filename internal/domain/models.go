package domain

import "github.com/shopspring/decimal"

type Item struct {
	ID        int64           `db:"id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Quantity  int             `db:"quantity"`
	ImagePath string          `db:"image_path"`
	Favorite  bool            `db:"favorite"`
}

type Sale struct {
	ID         int64           `db:"id"`
	ItemID     int64           `db:"item_id"`
	Quantity   int             `db:"quantity"`
	Timestamp  string          `db:"timestamp"` // RFC3339
	TotalPrice decimal.Decimal `db:"total_price"`
	Cancelled  bool            `db:"cancelled"`
}

// SaleRecord is a ledger row annotated with the referenced item's current
// name. ItemMissing is set when the item was deleted after the sale.
type SaleRecord struct {
	ID          int64           `db:"id"`
	ItemID      int64           `db:"item_id"`
	ItemName    string          `db:"item_name"`
	ItemMissing bool            `db:"item_missing"`
	Quantity    int             `db:"quantity"`
	Timestamp   string          `db:"timestamp"`
	TotalPrice  decimal.Decimal `db:"total_price"`
	Cancelled   bool            `db:"cancelled"`
}

// DisplayName is what listings show for the sold item.
func (s SaleRecord) DisplayName() string {
	if s.ItemMissing {
		return "(unknown item)"
	}
	return s.ItemName
}

// Receipt is the structured confirmation returned by a successful sale.
// Formatting it into prose is a caller concern.
type Receipt struct {
	SaleID    int64
	ItemName  string
	Quantity  int
	Total     decimal.Decimal
	Timestamp string
}

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}
