package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tillbook/internal/log"
	"tillbook/internal/services"
	"tillbook/internal/validate"
)

type SaleHandler struct {
	Ledger *services.LedgerService
}

// List shows the ledger newest-first, cancelled sales included.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	records, err := h.Ledger.List()
	if err != nil {
		applog.Error(c, "sales.list.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	return render(c, "sales", fiber.Map{"Sales": records})
}

func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		flash(c, "danger", "Sale not found.")
		return c.Redirect("/sales")
	}
	if err := h.Ledger.Cancel(id); err != nil {
		msg, known := userMessage(err)
		if !known {
			applog.Error(c, "sales.cancel.fail", err, map[string]any{"sale_id": id})
		}
		flash(c, "warning", msg)
		return c.Redirect("/sales")
	}
	applog.Audit(c, "sales.cancel", map[string]any{"sale_id": id})
	flash(c, "success", "Sale cancelled and inventory restored.")
	return c.Redirect("/sales")
}

func (h *SaleHandler) Uncancel(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		flash(c, "danger", "Sale not found.")
		return c.Redirect("/sales")
	}
	if err := h.Ledger.Uncancel(id); err != nil {
		msg, known := userMessage(err)
		if !known {
			applog.Error(c, "sales.uncancel.fail", err, map[string]any{"sale_id": id})
		}
		flash(c, "warning", msg)
		return c.Redirect("/sales")
	}
	applog.Audit(c, "sales.uncancel", map[string]any{"sale_id": id})
	flash(c, "success", "Sale un-cancelled and inventory updated.")
	return c.Redirect("/sales")
}

func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		flash(c, "danger", "Sale not found.")
		return c.Redirect("/sales")
	}
	if err := h.Ledger.Delete(id); err != nil {
		msg, known := userMessage(err)
		if !known {
			applog.Error(c, "sales.delete.fail", err, map[string]any{"sale_id": id})
		}
		flash(c, "warning", msg)
		return c.Redirect("/sales")
	}
	applog.Audit(c, "sales.delete", map[string]any{"sale_id": id})
	flash(c, "success", "Sale deleted permanently.")
	return c.Redirect("/sales")
}
