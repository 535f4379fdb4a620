package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/shop-inventory/internal/models"
)

const (
	queryTimeout  = 3 * time.Second
	importTimeout = time.Minute

	productColumns = `id, name, quantity, stock_minimum, cost_price, supplier, markup_percent`
)

// SQLProductRepository stores products in a relational database. Queries are
// written with '?' placeholders and rebound for the connection's driver.
type SQLProductRepository struct {
	db *sqlx.DB
}

func NewSQLProductRepository(db *sqlx.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db}
}

func (r *SQLProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	products := []models.Product{}
	query := `SELECT ` + productColumns + ` FROM products ORDER BY LOWER(name), id`
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *SQLProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	query := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *SQLProductRepository) GetByName(ctx context.Context, name string) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return getByName(ctx, r.db, name)
}

func getByName(ctx context.Context, e sqlx.ExtContext, name string) (models.Product, error) {
	var p models.Product
	query := e.Rebind(`SELECT ` + productColumns + ` FROM products WHERE name = ?`)
	err := sqlx.GetContext(ctx, e, &p, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *SQLProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return insertProduct(ctx, r.db, p)
}

func insertProduct(ctx context.Context, e sqlx.ExtContext, p models.Product) (models.Product, error) {
	query := e.Rebind(`
		INSERT INTO products (name, quantity, stock_minimum, cost_price, supplier, markup_percent)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := e.QueryRowxContext(ctx, query, p.Name, p.Quantity, p.StockMinimum, p.CostPrice, p.Supplier, p.MarkupPercent).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (r *SQLProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return updateProduct(ctx, r.db, p)
}

func updateProduct(ctx context.Context, e sqlx.ExtContext, p models.Product) (models.Product, error) {
	query := e.Rebind(`
		UPDATE products
		SET name = ?, quantity = ?, stock_minimum = ?, cost_price = ?, supplier = ?, markup_percent = ?
		WHERE id = ?`)

	res, err := e.ExecContext(ctx, query, p.Name, p.Quantity, p.StockMinimum, p.CostPrice, p.Supplier, p.MarkupPercent, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *SQLProductRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *SQLProductRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func (r *SQLProductRepository) Sell(ctx context.Context, name string, quantity int) (models.Product, error) {
	if quantity <= 0 {
		return models.Product{}, ErrInvalidQuantity
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := r.db.Rebind(`
		UPDATE products
		SET quantity = quantity - ?
		WHERE name = ? AND quantity >= ?`)

	res, err := r.db.ExecContext(ctx, query, quantity, name, quantity)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to sell product: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()

	p, err := getByName(ctx, r.db, name)
	if err != nil {
		return models.Product{}, err
	}
	if rowsAffected == 0 {
		return p, ErrInsufficientStock
	}
	return p, nil
}

const importSavepoint = "import_row"

func (r *SQLProductRepository) Import(ctx context.Context, patches []ProductPatch) ([]error, error) {
	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	rowErrs := make([]error, len(patches))
	for i, patch := range patches {
		if _, err := tx.ExecContext(ctx, "SAVEPOINT "+importSavepoint); err != nil {
			return nil, fmt.Errorf("failed to open savepoint: %w", err)
		}

		if err := applyPatch(ctx, tx, patch); err != nil {
			rowErrs[i] = err
			if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+importSavepoint); rbErr != nil {
				return nil, fmt.Errorf("failed to roll back row: %w", rbErr)
			}
		}

		if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+importSavepoint); err != nil {
			return nil, fmt.Errorf("failed to release savepoint: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}
	return rowErrs, nil
}

func applyPatch(ctx context.Context, tx *sqlx.Tx, patch ProductPatch) error {
	existing, err := getByName(ctx, tx, patch.Name)
	if errors.Is(err, ErrProductNotFound) {
		_, err = insertProduct(ctx, tx, patch.NewProduct())
		return err
	}
	if err != nil {
		return err
	}

	if patch.Empty() {
		return nil
	}
	_, err = updateProduct(ctx, tx, patch.Apply(existing))
	return err
}
