package product

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/wichananm65/craft-catalog/internal/database"
)

// SQLRepository stores products in Postgres or SQLite.
type SQLRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

const (
	listProductsQuery = `
		SELECT id, name, price, description, image, category
		FROM products
		ORDER BY created_at DESC, id DESC
	`
	getProductByIDQuery = `
		SELECT id, name, price, description, image, category
		FROM products
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO products (name, price, description, image, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			price = $2,
			description = $3,
			category = $4
		WHERE id = $5
	`
	updateProductWithImageQuery = `
		UPDATE products
		SET name = $1,
			price = $2,
			description = $3,
			category = $4,
			image = $5
		WHERE id = $6
	`
	deleteProductQuery = `DELETE FROM products WHERE id = $1`
)

func NewSQLRepository(db *sql.DB, dialect database.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (Product, error) {
	var (
		p        Product
		desc     sql.NullString
		category sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Price, &desc, &p.Image, &category); err != nil {
		return Product{}, err
	}
	p.Description = desc.String
	if category.Valid && category.String != "" {
		c := category.String
		p.Category = &c
	}
	return p, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), "list products")
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, r.dialect.Rebind(getProductByIDQuery), id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, errors.Wrapf(err, "get product %d", id)
	}
	return p, nil
}

func (r *SQLRepository) Create(ctx context.Context, p Product) (Product, error) {
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertProductQuery),
		p.Name, p.Price, p.Description, p.Image, nullString(p.Category)).Scan(&p.ID)
	if err != nil {
		return Product{}, errors.Wrap(err, "insert product")
	}
	return p, nil
}

func (r *SQLRepository) Update(ctx context.Context, id int64, p Product) (Product, error) {
	var (
		res sql.Result
		err error
	)
	if p.Image != "" {
		res, err = r.db.ExecContext(ctx, r.dialect.Rebind(updateProductWithImageQuery),
			p.Name, p.Price, p.Description, nullString(p.Category), p.Image, id)
	} else {
		res, err = r.db.ExecContext(ctx, r.dialect.Rebind(updateProductQuery),
			p.Name, p.Price, p.Description, nullString(p.Category), id)
	}
	if err != nil {
		return Product{}, errors.Wrapf(err, "update product %d", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(deleteProductQuery), id)
	if err != nil {
		return errors.Wrapf(err, "delete product %d", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
