package handlers

import (
	"time"

	"github.com/rogerio-castellano/shop-inventory/internal/models"
	"github.com/rogerio-castellano/shop-inventory/internal/price"
	"github.com/rogerio-castellano/shop-inventory/internal/pricing"
	"github.com/shopspring/decimal"
)

// ProductRequest carries prices as text, so both "1.234,56" and 1234.56 are accepted.
type ProductRequest struct {
	Name          string     `json:"name"`
	Quantity      int        `json:"quantity"`
	StockMinimum  int        `json:"stock_minimum"`
	CostPrice     price.Text `json:"cost_price" swaggertype:"string" example:"1.234,56"`
	Supplier      string     `json:"supplier"`
	MarkupPercent price.Text `json:"markup_percent" swaggertype:"string" example:"30"`
}

type ProductResponse struct {
	Id            int             `json:"id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	StockMinimum  int             `json:"stock_minimum"`
	CostPrice     decimal.Decimal `json:"cost_price" swaggertype:"string"`
	Supplier      string          `json:"supplier"`
	MarkupPercent decimal.Decimal `json:"markup_percent" swaggertype:"string"`
	SalePrice     decimal.Decimal `json:"sale_price" swaggertype:"string"`
	LowStock      bool            `json:"low_stock,omitempty"`
}

type InventoryResponse struct {
	Query    string            `json:"query,omitempty"`
	Products []ProductResponse `json:"products"`
	Totals   pricing.Totals    `json:"totals"`
}

type PriceListItem struct {
	Name          string          `json:"name"`
	CostPrice     decimal.Decimal `json:"cost_price" swaggertype:"string"`
	MarkupPercent decimal.Decimal `json:"markup_percent" swaggertype:"string"`
	SalePrice     decimal.Decimal `json:"sale_price" swaggertype:"string"`
	SalePriceText string          `json:"sale_price_text" example:"1.234,56"`
	Quantity      int             `json:"quantity"`
	Supplier      string          `json:"supplier"`
}

type PriceListResponse struct {
	Query string          `json:"query,omitempty"`
	Items []PriceListItem `json:"items"`
}

type SellRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:            p.ID,
		Name:          p.Name,
		Quantity:      p.Quantity,
		StockMinimum:  p.StockMinimum,
		CostPrice:     p.CostPrice,
		Supplier:      p.Supplier,
		MarkupPercent: p.MarkupPercent,
		SalePrice:     p.SalePrice(),
		LowStock:      p.Quantity < p.StockMinimum,
	}
}

func toPriceListItem(p pricing.PricedProduct) PriceListItem {
	return PriceListItem{
		Name:          p.Name,
		CostPrice:     p.CostPrice,
		MarkupPercent: p.MarkupPercent,
		SalePrice:     p.SalePrice,
		SalePriceText: price.Format(p.SalePrice),
		Quantity:      p.Quantity,
		Supplier:      p.Supplier,
	}
}

func (req ProductRequest) toProduct(id int) models.Product {
	return models.Product{
		ID:            id,
		Name:          req.Name,
		Quantity:      req.Quantity,
		StockMinimum:  req.StockMinimum,
		CostPrice:     req.CostPrice.Decimal(),
		Supplier:      req.Supplier,
		MarkupPercent: req.MarkupPercent.Decimal(),
	}
}
