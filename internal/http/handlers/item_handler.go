package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"tillbook/internal/domain"
	applog "tillbook/internal/log"
	"tillbook/internal/repos"
	"tillbook/internal/services"
	"tillbook/internal/uploads"
	"tillbook/internal/validate"
)

type ItemHandler struct {
	Catalog *services.CatalogService
	Ledger  *services.LedgerService
	Cart    *services.CartService
	Media   *uploads.Store
}

// Index lists the catalogue (favorites first), honours the search box and
// shows the session cart alongside.
func (h *ItemHandler) Index(c *fiber.Ctx) error {
	sid := ensureSID(c)
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q"})
		q = ""
	}
	items, err := h.Catalog.List(q)
	if err != nil {
		applog.Error(c, "items.list.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	var favorites, others []domain.Item
	for _, it := range items {
		if it.Favorite {
			favorites = append(favorites, it)
		} else {
			others = append(others, it)
		}
	}
	cart, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	return render(c, "index", fiber.Map{
		"Favorites":  favorites,
		"Items":      others,
		"Cart":       cart,
		"SearchTerm": q,
	})
}

func (h *ItemHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "add_item", fiber.Map{})
}

// Create handles the add-item form, including the optional image upload.
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		flash(c, "danger", "Item name cannot be empty.")
		return c.Redirect("/items/new")
	}
	price, okP := validate.Price(c.FormValue("price"))
	qty, okQ := validate.Qty(c.FormValue("quantity"))
	if !okP || !okQ {
		flash(c, "danger", "Enter valid numeric values for price and quantity.")
		return c.Redirect("/items/new")
	}

	imagePath := ""
	if fh, err := c.FormFile("image"); err == nil && fh != nil && fh.Filename != "" {
		p, err := h.Media.Save(fh)
		if err != nil {
			applog.Security(c, "upload.reject", map[string]any{"filename": fh.Filename})
			flash(c, "danger", "Unsupported image type. Allowed: png, jpg, jpeg, gif, webp.")
			return c.Redirect("/items/new")
		}
		imagePath = p
	}

	it, err := h.Catalog.Create(name, price, qty, imagePath)
	if err != nil {
		msg, known := userMessage(err)
		if !known {
			applog.Error(c, "items.create.fail", err, nil)
		}
		flash(c, "danger", msg)
		return c.Redirect("/items/new")
	}
	applog.Audit(c, "items.create", map[string]any{"item_id": it.ID, "name": it.Name})
	flash(c, "success", fmt.Sprintf("Item '%s' added successfully.", it.Name))
	return c.Redirect("/")
}

func (h *ItemHandler) EditForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		flash(c, "danger", "Item not found.")
		return c.Redirect("/")
	}
	it, err := h.Catalog.Get(id)
	if err != nil {
		msg, _ := userMessage(err)
		flash(c, "danger", msg)
		return c.Redirect("/")
	}
	return render(c, "edit_item", fiber.Map{"Item": it})
}

// Update applies the edit form. All three scalar fields are required by the
// form; the image is replaced only when a new file is uploaded, in which case
// the previous file is removed best-effort.
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		flash(c, "danger", "Item not found.")
		return c.Redirect("/")
	}
	name, okN := validate.Name(c.FormValue("name"))
	if !okN {
		flash(c, "danger", "Name cannot be empty.")
		return c.Redirect(fmt.Sprintf("/items/%d/edit", id))
	}
	price, okP := validate.Price(c.FormValue("price"))
	qty, okQ := validate.Qty(c.FormValue("quantity"))
	if !okP || !okQ {
		flash(c, "danger", "Enter valid numbers for price and quantity.")
		return c.Redirect(fmt.Sprintf("/items/%d/edit", id))
	}

	upd := repos.ItemUpdate{Name: &name, Price: &price, Quantity: &qty}

	var oldImage string
	if fh, err := c.FormFile("image"); err == nil && fh != nil && fh.Filename != "" {
		if prev, err := h.Catalog.Get(id); err == nil {
			oldImage = prev.ImagePath
		}
		p, err := h.Media.Save(fh)
		if err != nil {
			applog.Security(c, "upload.reject", map[string]any{"filename": fh.Filename})
			flash(c, "danger", "Unsupported image type. Allowed: png, jpg, jpeg, gif, webp.")
			return c.Redirect(fmt.Sprintf("/items/%d/edit", id))
		}
		upd.ImagePath = &p
	}

	if err := h.Catalog.Edit(id, upd); err != nil {
		msg, known := userMessage(err)
		if !known {
			applog.Error(c, "items.edit.fail", err, map[string]any{"item_id": id})
		}
		flash(c, "danger", msg)
		return c.Redirect("/")
	}
	if upd.ImagePath != nil && oldImage != "" {
		h.Media.Remove(oldImage)
	}
	applog.Audit(c, "items.edit", map[string]any{"item_id": id})
	flash(c, "success", "Item updated successfully.")
	return c.Redirect("/")
}

func (h *ItemHandler) ToggleFavorite(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		flash(c, "danger", "Item not found.")
		return c.Redirect("/")
	}
	it, err := h.Catalog.ToggleFavorite(id)
	if err != nil {
		msg, known := userMessage(err)
		if !known {
			applog.Error(c, "items.favorite.fail", err, map[string]any{"item_id": id})
		}
		flash(c, "danger", msg)
		return c.Redirect("/")
	}
	action := "removed from"
	if it.Favorite {
		action = "added to"
	}
	flash(c, "info", fmt.Sprintf("'%s' %s favorites.", it.Name, action))
	return c.Redirect("/")
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		flash(c, "danger", "Item not found.")
		return c.Redirect("/")
	}
	if err := h.Catalog.Delete(id); err != nil {
		msg, known := userMessage(err)
		if !known {
			applog.Error(c, "items.delete.fail", err, map[string]any{"item_id": id})
		}
		flash(c, "danger", msg)
		return c.Redirect("/")
	}
	applog.Audit(c, "items.delete", map[string]any{"item_id": id})
	flash(c, "success", "Item deleted. Its sales history is retained.")
	return c.Redirect("/")
}

// Sell records a one-line sale straight from the inventory page.
func (h *ItemHandler) Sell(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("item_id"))
	if !ok {
		flash(c, "danger", "No item specified.")
		return c.Redirect("/")
	}
	qty, ok := validate.SellQty(c.FormValue("quantity"))
	if !ok {
		flash(c, "danger", "Quantity must be a positive integer.")
		return c.Redirect("/")
	}
	rc, err := h.Ledger.Sell(id, qty)
	if err != nil {
		msg, known := userMessage(err)
		if !known {
			applog.Error(c, "sales.sell.fail", err, map[string]any{"item_id": id})
		}
		flash(c, "danger", msg)
		return c.Redirect("/")
	}
	applog.Audit(c, "sales.sell", map[string]any{
		"sale_id": rc.SaleID, "item_id": id, "qty": qty, "total": rc.Total.String(),
	})
	flash(c, "info", fmt.Sprintf("Sold %d x '%s' for $%s at %s.",
		rc.Quantity, rc.ItemName, rc.Total.StringFixed(2), rc.Timestamp))
	return c.Redirect("/")
}
