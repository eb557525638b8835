package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"tillbook/internal/repos"
	"tillbook/internal/services"
	"tillbook/internal/validate"
)

// Menu is the interactive text surface over the same catalogue and ledger
// services the web UI uses. It owns no state beyond the streams it reads and
// writes.
type Menu struct {
	Catalog *services.CatalogService
	Ledger  *services.LedgerService

	in  *bufio.Scanner
	out io.Writer
}

func New(catalog *services.CatalogService, ledger *services.LedgerService, in io.Reader, out io.Writer) *Menu {
	return &Menu{Catalog: catalog, Ledger: ledger, in: bufio.NewScanner(in), out: out}
}

const banner = `
==== tillbook ====
1. Add new item
2. View inventory
3. Update an item
4. Delete an item
5. Record a sale
6. View sales history
7. Exit
`

// Run loops until the operator exits or input runs out.
func (m *Menu) Run() {
	for {
		fmt.Fprint(m.out, banner)
		choice, ok := m.readLine("Select an option (1-7): ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			m.addItem()
		case "2":
			m.viewInventory()
		case "3":
			m.updateItem()
		case "4":
			m.deleteItem()
		case "5":
			m.recordSale()
		case "6":
			m.viewSales()
		case "7":
			fmt.Fprintln(m.out, "Exiting...")
			return
		default:
			fmt.Fprintln(m.out, "Invalid option. Please choose a number between 1 and 7.")
		}
	}
}

func (m *Menu) readLine(prompt string) (string, bool) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) addItem() {
	name, ok := m.readLine("Enter item name: ")
	if !ok {
		return
	}
	if name == "" {
		fmt.Fprintln(m.out, "Item name cannot be empty.")
		return
	}
	for {
		raw, ok := m.readLine("Enter item price: ")
		if !ok {
			return
		}
		price, valid := validate.Price(raw)
		if !valid {
			fmt.Fprintln(m.out, "Please enter a valid number.")
			continue
		}
		for {
			raw, ok := m.readLine("Enter starting quantity: ")
			if !ok {
				return
			}
			qty, valid := validate.Qty(raw)
			if !valid {
				fmt.Fprintln(m.out, "Please enter a valid integer.")
				continue
			}
			it, err := m.Catalog.Create(name, price, qty, "")
			if err != nil {
				fmt.Fprintln(m.out, err)
				return
			}
			fmt.Fprintf(m.out, "Item '%s' added with price $%s and quantity %d.\n",
				it.Name, it.Price.StringFixed(2), it.Quantity)
			return
		}
	}
}

func (m *Menu) viewInventory() {
	items, err := m.Catalog.List("")
	if err != nil {
		fmt.Fprintln(m.out, err)
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(m.out, "\nInventory is empty. Use option 1 to add items.")
		return
	}
	fmt.Fprintln(m.out, "\nCurrent Inventory:")
	fmt.Fprintf(m.out, "%-5s%-20s%-10s%-10s%-4s\n", "ID", "Name", "Price", "Quantity", "Fav")
	fmt.Fprintln(m.out, strings.Repeat("-", 49))
	for _, it := range items {
		fav := ""
		if it.Favorite {
			fav = "*"
		}
		fmt.Fprintf(m.out, "%-5d%-20s$%-9s%-10d%-4s\n",
			it.ID, it.Name, it.Price.StringFixed(2), it.Quantity, fav)
	}
}

func (m *Menu) updateItem() {
	rawID, ok := m.readLine("Enter the ID of the item to update: ")
	if !ok {
		return
	}
	id, valid := validate.ID(rawID)
	if !valid {
		fmt.Fprintln(m.out, "Please enter a valid integer.")
		return
	}
	fmt.Fprintln(m.out, "Leave a field blank to keep the current value.")

	upd := repos.ItemUpdate{}
	if raw, ok := m.readLine("New name: "); ok && raw != "" {
		upd.Name = &raw
	} else if !ok {
		return
	}
	if raw, ok := m.readLine("New price: "); ok && raw != "" {
		price, valid := validate.Price(raw)
		if !valid {
			fmt.Fprintln(m.out, "Invalid price entered. Update aborted.")
			return
		}
		upd.Price = &price
	} else if !ok {
		return
	}
	if raw, ok := m.readLine("New quantity: "); ok && raw != "" {
		qty, valid := validate.Qty(raw)
		if !valid {
			fmt.Fprintln(m.out, "Invalid quantity entered. Update aborted.")
			return
		}
		upd.Quantity = &qty
	} else if !ok {
		return
	}

	if err := m.Catalog.Edit(id, upd); err != nil {
		fmt.Fprintln(m.out, err)
		return
	}
	fmt.Fprintf(m.out, "Item %d updated.\n", id)
}

func (m *Menu) deleteItem() {
	rawID, ok := m.readLine("Enter the ID of the item to delete: ")
	if !ok {
		return
	}
	id, valid := validate.ID(rawID)
	if !valid {
		fmt.Fprintln(m.out, "Please enter a valid integer.")
		return
	}
	it, err := m.Catalog.Get(id)
	if err != nil {
		fmt.Fprintln(m.out, err)
		return
	}
	if err := m.Catalog.Delete(id); err != nil {
		fmt.Fprintln(m.out, err)
		return
	}
	fmt.Fprintf(m.out, "Item '%s' deleted from inventory.\n", it.Name)
}

func (m *Menu) recordSale() {
	m.viewInventory()
	rawID, ok := m.readLine("Enter the ID of the item to sell: ")
	if !ok {
		return
	}
	id, valid := validate.ID(rawID)
	if !valid {
		fmt.Fprintln(m.out, "Please enter a valid integer.")
		return
	}
	rawQty, ok := m.readLine("Enter quantity sold: ")
	if !ok {
		return
	}
	qty, valid := validate.SellQty(rawQty)
	if !valid {
		fmt.Fprintln(m.out, "Quantity must be positive.")
		return
	}
	rc, err := m.Ledger.Sell(id, qty)
	if err != nil {
		fmt.Fprintln(m.out, err)
		return
	}
	fmt.Fprintf(m.out, "Sold %dx '%s' for $%s at %s.\n",
		rc.Quantity, rc.ItemName, rc.Total.StringFixed(2), rc.Timestamp)
}

func (m *Menu) viewSales() {
	records, err := m.Ledger.List()
	if err != nil {
		fmt.Fprintln(m.out, err)
		return
	}
	if len(records) == 0 {
		fmt.Fprintln(m.out, "\nNo sales have been recorded yet.")
		return
	}
	fmt.Fprintln(m.out, "\nSales History:")
	fmt.Fprintf(m.out, "%-8s%-20s%-6s%-12s%-22s%-10s\n", "Sale ID", "Item", "Qty", "Total", "Timestamp", "Status")
	fmt.Fprintln(m.out, strings.Repeat("-", 78))
	for _, s := range records {
		status := "active"
		if s.Cancelled {
			status = "cancelled"
		}
		fmt.Fprintf(m.out, "%-8d%-20s%-6d$%-11s%-22s%-10s\n",
			s.ID, s.DisplayName(), s.Quantity, s.TotalPrice.StringFixed(2), s.Timestamp, status)
	}
}
