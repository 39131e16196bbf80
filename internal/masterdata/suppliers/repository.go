package suppliers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	"github.com/saddlefit/oms/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, id int64, supplier Supplier) (Supplier, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, code, name, email, phone, address, country_code, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	"code":    "code",
	"name":    "name",
	"country": "country_code",
	"created": "created_at",
}

func scan(row interface{ Scan(...any) error }) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Email, &s.Phone, &s.Address, &s.CountryCode, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	var where shared.Where
	where.AddSearch(filters.Search, "name", "code", "email")
	if filters.CountryCode != "" {
		where.Add("country_code = ?", filters.CountryCode)
	}
	if filters.IsActive != nil {
		where.Add("is_active = ?", *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, args := where.Page(filters)
	query := `SELECT ` + columns + ` FROM suppliers` + where.SQL() +
		` ORDER BY ` + shared.SortOrder(filters.SortBy, filters.SortDir, sortColumns, "name") + page
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	suppliers := make([]Supplier, 0)
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	s, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM suppliers WHERE id = $1`, id))
	return s, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	created, err := scan(r.pool.QueryRow(ctx, `INSERT INTO suppliers (code, name, email, phone, address, country_code, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+columns,
		s.Code, s.Name, s.Email, s.Phone, s.Address, s.CountryCode, s.IsActive))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, id int64, s Supplier) (Supplier, error) {
	updated, err := scan(r.pool.QueryRow(ctx, `UPDATE suppliers SET code = $1, name = $2, email = $3, phone = $4,
		address = $5, country_code = $6, is_active = $7, updated_at = NOW() WHERE id = $8 RETURNING `+columns,
		s.Code, s.Name, s.Email, s.Phone, s.Address, s.CountryCode, s.IsActive, id))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.ExpectAffected(r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id))
}
