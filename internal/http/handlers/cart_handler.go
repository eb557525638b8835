package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "tillbook/internal/log"
	"tillbook/internal/services"
	"tillbook/internal/validate"
)

type CartHandler struct {
	Cart   *services.CartService
	Ledger *services.LedgerService
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.FormValue("item_id"))
	if !ok {
		flash(c, "danger", "No item specified.")
		return c.Redirect("/")
	}
	qty, ok := validate.SellQty(c.FormValue("quantity"))
	if !ok {
		qty = 1
	}
	if err := h.Cart.Add(sid, id, qty); err != nil {
		msg, _ := userMessage(err)
		flash(c, "danger", msg)
		return c.Redirect("/")
	}
	flash(c, "success", fmt.Sprintf("Added %d to cart.", qty))
	return c.Redirect("/")
}

// Update sets a line's quantity, or removes it when action=remove or the
// quantity drops to zero.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.FormValue("item_id"))
	if !ok {
		flash(c, "danger", "Invalid cart update request.")
		return c.Redirect("/")
	}
	if c.FormValue("action") == "remove" {
		h.Cart.Remove(sid, id)
		flash(c, "info", "Item removed from cart.")
		return c.Redirect("/")
	}
	qty, ok := validate.Qty(c.FormValue("quantity"))
	if !ok {
		flash(c, "danger", "Invalid quantity.")
		return c.Redirect("/")
	}
	h.Cart.SetQty(sid, id, qty)
	if qty == 0 {
		flash(c, "info", "Item removed from cart.")
	} else {
		flash(c, "success", "Cart updated.")
	}
	return c.Redirect("/")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	h.Cart.Clear(ensureSID(c))
	flash(c, "info", "Cart cleared.")
	return c.Redirect("/")
}

// Checkout sells the cart one line at a time. Not atomic across lines: a
// failing line stops the run with earlier lines sold, and the flash says so.
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	receipts, err := h.Cart.Checkout(sid, h.Ledger)

	var parts []string
	for _, rc := range receipts {
		parts = append(parts, fmt.Sprintf("Sold %d x '%s' for $%s.",
			rc.Quantity, rc.ItemName, rc.Total.StringFixed(2)))
	}
	if err != nil {
		msg, known := userMessage(err)
		if !known {
			applog.Error(c, "cart.checkout.fail", err, nil)
		}
		if len(receipts) > 0 {
			msg = strings.Join(parts, " ") + " Remaining lines not sold: " + msg
		}
		flash(c, "warning", msg)
		return c.Redirect("/")
	}
	applog.Audit(c, "cart.checkout", map[string]any{"lines": len(receipts)})
	flash(c, "success", "Checkout complete. "+strings.Join(parts, " "))
	return c.Redirect("/")
}
