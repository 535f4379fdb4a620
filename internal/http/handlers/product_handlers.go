package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/shop-inventory/internal/pricing"
	"github.com/rogerio-castellano/shop-inventory/internal/repo"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the inventory. Prices accept "1.234,56" style text.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} ProductValidationError
// @Failure 409 {string} string "Name already exists"
// @Router /products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		s.respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	created, err := s.products.Create(r.Context(), req.toProduct(0))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "could not create product: product name duplicated", http.StatusConflict)
			return
		}
		s.internalError(w, "could not create product", err)
		return
	}

	s.respond(w, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary Inventory view
// @Description Lists products with sale prices and stock valuation totals. q filters by name or supplier before totals are computed.
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive text matched against name or supplier"
// @Success 200 {object} InventoryResponse
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.GetAll(r.Context())
	if err != nil {
		s.internalError(w, "could not fetch products", err)
		return
	}

	query := r.URL.Query().Get("q")
	summary := pricing.Summarize(products, query, pricing.MatchAny)

	resp := InventoryResponse{
		Query:    query,
		Products: make([]ProductResponse, len(summary.Products)),
		Totals:   summary.Totals,
	}
	for i, p := range summary.Products {
		resp.Products[i] = toProductResponse(p.Product)
	}
	s.respond(w, http.StatusOK, resp)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [get]
func (s *Server) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		s.internalError(w, "could not fetch product", err)
		return
	}
	s.respond(w, http.StatusOK, toProductResponse(product))
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Replaces every field of the product.
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} ProductResponse
// @Failure 400 {array} ProductValidationError
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Name already exists"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [put]
// @Security BearerAuth
func (s *Server) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		s.respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	updated, err := s.products.Update(r.Context(), req.toProduct(id))
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrDuplicatedValueUnique):
			http.Error(w, "could not update product: product name duplicated", http.StatusConflict)
		default:
			s.internalError(w, "could not update product", err)
		}
		return
	}
	s.respond(w, http.StatusOK, toProductResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Param id path int true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [delete]
// @Security BearerAuth
func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	if err := s.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		s.internalError(w, "could not delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SellProductHandler godoc
// @Summary Sell units of a product
// @Description Decrements stock only when enough units are available.
// @Tags products
// @Accept json
// @Produce json
// @Param sale body SellRequest true "Product name and quantity"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid quantity"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Insufficient stock"
// @Router /products/sell [post]
// @Security BearerAuth
func (s *Server) SellProductHandler(w http.ResponseWriter, r *http.Request) {
	var req SellRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	product, err := s.products.Sell(r.Context(), req.Name, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrInvalidQuantity):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repo.ErrProductNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrInsufficientStock):
			http.Error(w, "insufficient stock", http.StatusConflict)
		default:
			s.internalError(w, "could not sell product", err)
		}
		return
	}

	s.log.Info().Str("product", product.Name).Int("sold", req.Quantity).Int("left", product.Quantity).Msg("sale")
	s.respond(w, http.StatusOK, toProductResponse(product))
}
