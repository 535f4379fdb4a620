package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/shop-inventory/internal/pricing"
)

// GetPriceListHandler godoc
// @Summary Price list
// @Description Sale price per product. q filters by name.
// @Tags price-list
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive text matched against name"
// @Success 200 {object} PriceListResponse
// @Failure 500 {string} string "Internal error"
// @Router /price-list [get]
func (s *Server) GetPriceListHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.GetAll(r.Context())
	if err != nil {
		s.internalError(w, "could not fetch products", err)
		return
	}

	query := r.URL.Query().Get("q")
	summary := pricing.Summarize(products, query, pricing.MatchName)

	resp := PriceListResponse{Query: query, Items: make([]PriceListItem, len(summary.Products))}
	for i, p := range summary.Products {
		resp.Items[i] = toPriceListItem(p)
	}
	s.respond(w, http.StatusOK, resp)
}

// GetOrdersHandler godoc
// @Summary Supplier reorder plan
// @Description Groups products below their minimum stock by supplier, with a shareable message link per supplier.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} reorder.Plan
// @Failure 500 {string} string "Internal error"
// @Router /orders [get]
func (s *Server) GetOrdersHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.GetAll(r.Context())
	if err != nil {
		s.internalError(w, "could not fetch products", err)
		return
	}
	s.respond(w, http.StatusOK, s.orders.Generate(products))
}
