// Package reorder builds supplier purchase orders for products below their
// minimum stock and renders them as share links for a messaging app.
package reorder

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rogerio-castellano/shop-inventory/internal/models"
	"github.com/shopspring/decimal"
)

const DefaultMessagingHost = "wa.me"

type Line struct {
	Shortfall int             `json:"shortfall"`
	Name      string          `json:"name"`
	CostPrice decimal.Decimal `json:"cost_price"`
}

// Cost is shortfall * cost_price.
func (l Line) Cost() decimal.Decimal {
	return l.CostPrice.Mul(decimal.NewFromInt(int64(l.Shortfall)))
}

type SupplierOrder struct {
	Supplier string          `json:"supplier"`
	Lines    []Line          `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	Message  string          `json:"message"`
	ShareURL string          `json:"share_url"`
}

// Plan lists one order per supplier, in the order suppliers were first seen.
type Plan struct {
	Orders     []SupplierOrder `json:"orders"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type Generator struct {
	messagingHost string
}

func NewGenerator(messagingHost string) *Generator {
	if messagingHost == "" {
		messagingHost = DefaultMessagingHost
	}
	return &Generator{messagingHost: messagingHost}
}

// Group buckets the products with a positive shortfall by supplier.
func Group(products []models.Product) []SupplierOrder {
	orders := []SupplierOrder{}
	index := map[string]int{}

	for _, p := range products {
		shortfall := p.Shortfall()
		if shortfall <= 0 {
			continue
		}

		i, ok := index[p.Supplier]
		if !ok {
			i = len(orders)
			index[p.Supplier] = i
			orders = append(orders, SupplierOrder{Supplier: p.Supplier, Total: decimal.Zero})
		}

		line := Line{Shortfall: shortfall, Name: p.Name, CostPrice: p.CostPrice}
		orders[i].Lines = append(orders[i].Lines, line)
		orders[i].Total = orders[i].Total.Add(line.Cost())
	}
	return orders
}

// Generate groups the products and renders each supplier's message and link.
func (g *Generator) Generate(products []models.Product) Plan {
	plan := Plan{Orders: Group(products), GrandTotal: decimal.Zero}
	for i := range plan.Orders {
		o := &plan.Orders[i]
		o.Message = Message(o.Supplier, o.Lines)
		o.ShareURL = g.ShareURL(o.Message)
		plan.GrandTotal = plan.GrandTotal.Add(o.Total)
	}
	return plan
}

// Message is the plain text order sent to a supplier.
func Message(supplier string, lines []Line) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 *Order for %s* 📦\n\n", supplier)
	for _, l := range lines {
		fmt.Fprintf(&b, "- %d %s\n", l.Shortfall, l.Name)
	}
	return b.String()
}

// ShareURL embeds message as the text parameter of the messaging link.
func (g *Generator) ShareURL(message string) string {
	return fmt.Sprintf("https://%s/?text=%s", g.messagingHost, Encode(message))
}

// Encode percent-encodes s for a query value, with spaces as %20.
func Encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
