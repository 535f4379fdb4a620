package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogerio-castellano/shop-inventory/internal/auth"
	"github.com/rogerio-castellano/shop-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/shop-inventory/internal/reorder"
	"github.com/rogerio-castellano/shop-inventory/internal/spreadsheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAuthGate(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for API call without session, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/price-list", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %d %q", w.Code, w.Header().Get("Location"))
	}

	req = httptest.NewRequest(http.MethodGet, w.Header().Get("Location"), nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected the login redirect target to answer 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %d", w.Code)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.login(adminUser, "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}
	wrongBody := w.Body.String()
	if len(w.Result().Cookies()) != 0 {
		t.Errorf("failed login must not set a session cookie")
	}

	w = env.login("nobody", adminPassword)
	if w.Code != http.StatusUnauthorized || w.Body.String() != wrongBody {
		t.Errorf("unknown user must look like a wrong password, got %d %q", w.Code, w.Body.String())
	}

	w = env.login(adminUser, adminPassword)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	if session == nil || !session.HttpOnly {
		t.Fatalf("expected HttpOnly session cookie, got %+v", session)
	}

	// Browsers authenticate with the cookie alone.
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected cookie session to pass the gate, got %d", rec.Code)
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	env := newTestEnv(t, envOptions{loginBurst: 2})

	// newTestEnv spent one attempt.
	env.login(adminUser, "wrong")
	w := env.login(adminUser, adminPassword)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/logout", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = env.do(http.MethodGet, "/products", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected revoked token to be rejected, got %d", w.Code)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/password", handlers.ChangePasswordRequest{
		CurrentPassword: adminPassword, NewPassword: "new-secret", ConfirmPassword: "typo",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for mismatched confirmation, got %d", w.Code)
	}
	if env.login(adminUser, adminPassword).Code != http.StatusOK {
		t.Fatal("old password must still work after a rejected change")
	}

	w = env.do(http.MethodPost, "/password", handlers.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "new-secret", ConfirmPassword: "new-secret",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for wrong current password, got %d", w.Code)
	}

	w = env.do(http.MethodPost, "/password", handlers.ChangePasswordRequest{
		CurrentPassword: adminPassword, NewPassword: "new-secret", ConfirmPassword: "new-secret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if env.login(adminUser, "new-secret").Code != http.StatusOK {
		t.Error("new password must work")
	}
	if env.login(adminUser, adminPassword).Code != http.StatusUnauthorized {
		t.Error("old password must stop working")
	}
}

func TestRootRedirectsToPriceList(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/", nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/price-list" {
		t.Errorf("expected redirect to /price-list, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestProductCRUD(t *testing.T) {
	env := newTestEnv(t)

	created := env.createProduct(t, handlers.ProductRequest{
		Name: "Mate", Quantity: 4, StockMinimum: 2, CostPrice: "1.500,50", Supplier: "Calabazas SA", MarkupPercent: "20",
	})
	if !created.CostPrice.Equal(decimal.RequireFromString("1500.50")) {
		t.Errorf("expected normalized cost 1500.50, got %s", created.CostPrice)
	}
	if !created.SalePrice.Equal(decimal.RequireFromString("1800.6")) {
		t.Errorf("expected sale price 1800.6, got %s", created.SalePrice)
	}

	w := env.do(http.MethodPost, "/products", handlers.ProductRequest{Name: "Mate"})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicated name, got %d", w.Code)
	}

	w = env.do(http.MethodGet, productPath(created.Id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = env.do(http.MethodPut, productPath(created.Id), handlers.ProductRequest{
		Name: "Mate", Quantity: 1, StockMinimum: 2, CostPrice: "100", Supplier: "Otro", MarkupPercent: "0",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated handlers.ProductResponse
	decode(t, w, &updated)
	if updated.Supplier != "Otro" || updated.Quantity != 1 || !updated.LowStock {
		t.Errorf("unexpected update result %+v", updated)
	}

	w = env.do(http.MethodPut, productPath(999), handlers.ProductRequest{Name: "Ghost"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = env.do(http.MethodDelete, productPath(created.Id), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = env.do(http.MethodGet, productPath(created.Id), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
	w = env.do(http.MethodGet, "/products/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid id, got %d", w.Code)
	}
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name           string
		payload        handlers.ProductRequest
		expectedErrors []string
	}{
		{"Empty name", handlers.ProductRequest{CostPrice: "10"}, []string{"Name"}},
		{"Negative quantity", handlers.ProductRequest{Name: "Keyboard", Quantity: -1}, []string{"Quantity"}},
		{"Negative minimum", handlers.ProductRequest{Name: "Keyboard", StockMinimum: -3}, []string{"StockMinimum"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/products", tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			var resp []handlers.ProductValidationError
			decode(t, w, &resp)
			for _, field := range tt.expectedErrors {
				found := false
				for _, err := range resp {
					if strings.EqualFold(err.Field, field) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, but not found", field)
				}
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(`{name: "Invalid"`))
	req.Header.Set("Authorization", "Bearer "+env.token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", w.Code)
	}
}

func TestInventoryViewFiltersBeforeTotals(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, handlers.ProductRequest{Name: "Yerba", Quantity: 2, CostPrice: "100", MarkupPercent: "20", Supplier: "Norte"})
	env.createProduct(t, handlers.ProductRequest{Name: "Azucar", Quantity: 10, CostPrice: "5", Supplier: "Ingenio"})

	w := env.do(http.MethodGet, "/products", nil)
	var all handlers.InventoryResponse
	decode(t, w, &all)
	assert.Len(t, all.Products, 2)
	assert.Equal(t, "Azucar", all.Products[0].Name, "sorted by name")
	assert.True(t, all.Totals.TotalCost.Equal(decimal.NewFromInt(250)), "total cost %s", all.Totals.TotalCost)
	assert.True(t, all.Totals.TotalSale.Equal(decimal.NewFromInt(290)), "total sale %s", all.Totals.TotalSale)

	w = env.do(http.MethodGet, "/products?q=norte", nil)
	var filtered handlers.InventoryResponse
	decode(t, w, &filtered)
	require.Len(t, filtered.Products, 1)
	assert.Equal(t, "Yerba", filtered.Products[0].Name)
	assert.True(t, filtered.Totals.TotalCost.Equal(decimal.NewFromInt(200)))
	assert.True(t, filtered.Totals.TotalSale.Equal(decimal.NewFromInt(240)))
	assert.True(t, filtered.Totals.Margin.Equal(decimal.NewFromInt(40)))
}

func TestPriceList(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, handlers.ProductRequest{Name: "Termo", CostPrice: "1000", MarkupPercent: "23,456", Quantity: 7, Supplier: "Norte"})
	env.createProduct(t, handlers.ProductRequest{Name: "Bombilla", CostPrice: "50", Supplier: "Termo Hnos"})

	w := env.do(http.MethodGet, "/price-list?q=termo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp handlers.PriceListResponse
	decode(t, w, &resp)
	require.Len(t, resp.Items, 1, "price list matches on name only")
	assert.Equal(t, "Termo", resp.Items[0].Name)
	assert.Equal(t, "1.234,56", resp.Items[0].SalePriceText)
	assert.Equal(t, 7, resp.Items[0].Quantity)
}

func TestSell(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, handlers.ProductRequest{Name: "Pila", Quantity: 5})

	w := env.do(http.MethodPost, "/products/sell", handlers.SellRequest{Name: "Pila", Quantity: 6})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 on oversell, got %d", w.Code)
	}
	w = env.do(http.MethodPost, "/products/sell", handlers.SellRequest{Name: "Pila", Quantity: 0})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-positive quantity, got %d", w.Code)
	}
	w = env.do(http.MethodPost, "/products/sell", handlers.SellRequest{Name: "Nada", Quantity: 1})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", w.Code)
	}

	w = env.do(http.MethodPost, "/products/sell", handlers.SellRequest{Name: "Pila", Quantity: 5})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var sold handlers.ProductResponse
	decode(t, w, &sold)
	if sold.Quantity != 0 {
		t.Errorf("expected stock 0 after selling everything, got %d", sold.Quantity)
	}
}

func TestConcurrentSellsNeverOversell(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, handlers.ProductRequest{Name: "Vela", Quantity: 7})

	var wg sync.WaitGroup
	codes := make([]int, 10)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = env.do(http.MethodPost, "/products/sell", handlers.SellRequest{Name: "Vela", Quantity: 2}).Code
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, c := range codes {
		if c == http.StatusOK {
			ok++
		}
	}
	assert.Equal(t, 3, ok)

	p, err := env.products.GetByName(context.Background(), "Vela")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Quantity)
}

func TestOrders(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, handlers.ProductRequest{Name: "Fideos", Quantity: 1, StockMinimum: 4, CostPrice: "10", Supplier: "Molino Sur"})
	env.createProduct(t, handlers.ProductRequest{Name: "Arroz", Quantity: 9, StockMinimum: 4, CostPrice: "3", Supplier: "Molino Sur"})

	w := env.do(http.MethodGet, "/orders", nil)
	var plan reorder.Plan
	decode(t, w, &plan)
	require.Len(t, plan.Orders, 1)
	assert.Equal(t, "Molino Sur", plan.Orders[0].Supplier)
	assert.True(t, plan.GrandTotal.Equal(decimal.NewFromInt(30)))
	assert.True(t, strings.HasPrefix(plan.Orders[0].ShareURL, "https://wa.me/?text="))
	assert.Contains(t, plan.Orders[0].ShareURL, "%20Molino%20Sur")
}

func TestImportAndExport(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, handlers.ProductRequest{Name: "Cafe", Quantity: 1, StockMinimum: 3, CostPrice: "200", Supplier: "Tostadero"})

	csv := "Nombre,Cantidad,Proveedor\nCafe,12,\nTe,4,Hierbas\n,1,\n"
	w := env.upload("/products/import", "stock.csv", csv)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result spreadsheet.Result
	decode(t, w, &result)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	cafe, err := env.products.GetByName(context.Background(), "Cafe")
	require.NoError(t, err)
	assert.Equal(t, 12, cafe.Quantity)
	assert.Equal(t, "Tostadero", cafe.Supplier, "blank cell keeps the stored supplier")
	assert.Equal(t, 3, cafe.StockMinimum)

	w = env.upload("/products/import", "stock.csv", "Cantidad\n3\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.upload("/products/import", "stock.txt", "Name\nX\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/products/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products_export_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Cost Price", "% Markup", "Quantity", "Minimum Stock", "Supplier"}, rows[0])
	assert.Len(t, rows, 3)

	w = env.do(http.MethodGet, "/price-list/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "price_list.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Name,Cost Price,% Markup,Sale Price,Supplier\n"))

	w = env.do(http.MethodGet, "/price-list/export?format=ods", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBackup(t *testing.T) {
	tmp := t.TempDir()
	store := filepath.Join(tmp, "inventory.db")
	require.NoError(t, os.WriteFile(store, []byte("store bytes"), 0o600))

	env := newTestEnv(t, envOptions{storePath: store, backupDir: filepath.Join(tmp, "backups")})
	w := env.do(http.MethodGet, "/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "store bytes", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "backup_")

	entries, err := os.ReadDir(filepath.Join(tmp, "backups"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	unsupported := newTestEnv(t)
	w = unsupported.do(http.MethodGet, "/backup", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
