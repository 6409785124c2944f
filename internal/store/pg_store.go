package store

import (
	"context"
	"errors"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	findAllQuery  = `SELECT id, name FROM products ORDER BY id`
	findByIDQuery = `SELECT id, name FROM products WHERE id = $1`
	insertQuery   = `INSERT INTO products (name) VALUES ($1) RETURNING id`
	updateQuery   = `UPDATE products SET name = $2 WHERE id = $1`
	deleteQuery   = `DELETE FROM products WHERE id = $1`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
	}
}

// FindAll retrieves all products ordered by ID.
// It returns a slice of products, which may be empty if no products exist.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, findAllQuery)
	if err != nil {
		return nil, perrors.NewStoreError("find all", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[Product])
	if err != nil {
		return nil, perrors.NewStoreError("find all", err)
	}
	return products, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	rows, err := p.db.Query(ctx, findByIDQuery, id)
	if err != nil {
		return nil, perrors.NewStoreError("find by id", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, perrors.NewStoreError("find by id", err)
	}
	return &product, nil
}

// Save inserts or updates the product inside a transaction.
// On insert the generated ID is written back into product.
func (p *PgStore) Save(ctx context.Context, product *Product) error {
	var notFound bool
	err := pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		if product.ID == 0 {
			return tx.QueryRow(ctx, insertQuery, product.Name).Scan(&product.ID)
		}
		tag, err := tx.Exec(ctx, updateQuery, product.ID, product.Name)
		if err != nil {
			return err
		}
		notFound = tag.RowsAffected() == 0
		return nil
	})
	if err != nil {
		return perrors.NewStoreError("save", err)
	}
	if notFound {
		return perrors.ErrProductNotFound
	}
	return nil
}

// Delete removes the product inside a transaction.
// Returns ErrProductNotFound if no row was deleted.
func (p *PgStore) Delete(ctx context.Context, product *Product) error {
	var count int64
	err := pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteQuery, product.ID)
		if err != nil {
			return err
		}
		count = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return perrors.NewStoreError("delete", err)
	}
	if count == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// Ping checks the database connection.
func (p *PgStore) Ping(ctx context.Context) error {
	if err := p.db.Ping(ctx); err != nil {
		return perrors.NewStoreError("ping", err)
	}
	return nil
}
