package customers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	"github.com/saddlefit/oms/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Customer, int, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, id int64, c Customer) (Customer, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, name, email, phone, address, country_code, horse_name, fitter_id, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	"name":    "name",
	"email":   "email",
	"created": "created_at",
}

func scan(row interface{ Scan(...any) error }) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CountryCode, &c.HorseName, &c.FitterID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Customer, int, error) {
	var where shared.Where
	where.AddSearch(filters.Search, "name", "email", "horse_name")
	if filters.CountryCode != "" {
		where.Add("country_code = ?", filters.CountryCode)
	}
	if filters.FitterID != nil {
		where.Add("fitter_id = ?", *filters.FitterID)
	}
	if filters.IsActive != nil {
		where.Add("is_active = ?", *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, args := where.Page(filters)
	query := `SELECT ` + columns + ` FROM customers` + where.SQL() +
		` ORDER BY ` + shared.SortOrder(filters.SortBy, filters.SortDir, sortColumns, "name") + page
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Customer, error) {
	c, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM customers WHERE id = $1`, id))
	return c, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, c Customer) (Customer, error) {
	created, err := scan(r.pool.QueryRow(ctx, `INSERT INTO customers (name, email, phone, address, country_code, horse_name, fitter_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+columns,
		c.Name, c.Email, c.Phone, c.Address, c.CountryCode, c.HorseName, c.FitterID, c.IsActive))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, id int64, c Customer) (Customer, error) {
	updated, err := scan(r.pool.QueryRow(ctx, `UPDATE customers SET name = $1, email = $2, phone = $3, address = $4, country_code = $5, horse_name = $6, fitter_id = $7, is_active = $8,
		updated_at = NOW() WHERE id = $9 RETURNING `+columns,
		c.Name, c.Email, c.Phone, c.Address, c.CountryCode, c.HorseName, c.FitterID, c.IsActive, id))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.ExpectAffected(r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id))
}
