package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tillbook/internal/domain"
)

type ItemRepo struct{ db *sqlx.DB }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemColumns = `id, name, price, quantity, COALESCE(image_path,'') AS image_path, favorite`

func (r *ItemRepo) Create(name string, price decimal.Decimal, quantity int, imagePath string) (domain.Item, error) {
	var id int64
	err := r.db.Get(&id, r.db.Rebind(`
		INSERT INTO inventory(name, price, quantity, image_path, favorite)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), name, price, quantity, imagePath, false)
	if err != nil {
		return domain.Item{}, err
	}
	return domain.Item{ID: id, Name: name, Price: price, Quantity: quantity, ImagePath: imagePath}, nil
}

func (r *ItemRepo) Get(id int64) (domain.Item, error) {
	var it domain.Item
	err := r.db.Get(&it, r.db.Rebind(`
		SELECT `+itemColumns+` FROM inventory WHERE id = ?
	`), id)
	return it, err
}

// ItemUpdate carries the optional fields of an edit; nil means unchanged.
type ItemUpdate struct {
	Name      *string
	Price     *decimal.Decimal
	Quantity  *int
	ImagePath *string
}

// Update applies only the supplied fields. Returns sql.ErrNoRows when the id
// does not exist; a fully-empty update is a no-op.
func (r *ItemRepo) Update(id int64, u ItemUpdate) error {
	set := ""
	args := []any{}
	add := func(clause string, v any) {
		if set != "" {
			set += ", "
		}
		set += clause
		args = append(args, v)
	}
	if u.Name != nil {
		add("name = ?", *u.Name)
	}
	if u.Price != nil {
		add("price = ?", *u.Price)
	}
	if u.Quantity != nil {
		add("quantity = ?", *u.Quantity)
	}
	if u.ImagePath != nil {
		add("image_path = ?", *u.ImagePath)
	}
	if set == "" {
		return nil
	}
	args = append(args, id)
	res, err := r.db.Exec(r.db.Rebind(`UPDATE inventory SET `+set+` WHERE id = ?`), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ItemRepo) ToggleFavorite(id int64) error {
	res, err := r.db.Exec(r.db.Rebind(`UPDATE inventory SET favorite = NOT favorite WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the catalogue row. Sales referencing it are left intact.
func (r *ItemRepo) Delete(id int64) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM inventory WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns all items, filtered case-insensitively by substring match on
// name when search is non-empty, favorites first then name.
func (r *ItemRepo) List(search string) ([]domain.Item, error) {
	q := `SELECT ` + itemColumns + ` FROM inventory`
	args := []any{}
	if search != "" {
		q += ` WHERE LOWER(name) LIKE LOWER(?)`
		args = append(args, "%"+search+"%")
	}
	q += ` ORDER BY favorite DESC, LOWER(name), id`

	out := []domain.Item{}
	err := r.db.Select(&out, r.db.Rebind(q), args...)
	return out, err
}
