package fitters

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	"github.com/saddlefit/oms/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Fitter, int, error)
	Get(ctx context.Context, id int64) (Fitter, error)
	Create(ctx context.Context, f Fitter) (Fitter, error)
	Update(ctx context.Context, id int64, f Fitter) (Fitter, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, username, name, email, phone, country_code, country_manager_id, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	"name":     "name",
	"username": "username",
	"country":  "country_code",
	"created":  "created_at",
}

func scan(row interface{ Scan(...any) error }) (Fitter, error) {
	var f Fitter
	err := row.Scan(&f.ID, &f.Username, &f.Name, &f.Email, &f.Phone, &f.CountryCode, &f.CountryManagerID, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Fitter, int, error) {
	var where shared.Where
	where.AddSearch(filters.Search, "name", "username", "email")
	if filters.CountryCode != "" {
		where.Add("country_code = ?", filters.CountryCode)
	}
	if filters.CountryManagerID != nil {
		where.Add("country_manager_id = ?", *filters.CountryManagerID)
	}
	if filters.IsActive != nil {
		where.Add("is_active = ?", *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM fitters`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, args := where.Page(filters)
	query := `SELECT ` + columns + ` FROM fitters` + where.SQL() +
		` ORDER BY ` + shared.SortOrder(filters.SortBy, filters.SortDir, sortColumns, "name") + page
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	fitters := make([]Fitter, 0)
	for rows.Next() {
		f, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		fitters = append(fitters, f)
	}
	return fitters, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Fitter, error) {
	f, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM fitters WHERE id = $1`, id))
	return f, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, f Fitter) (Fitter, error) {
	created, err := scan(r.pool.QueryRow(ctx, `INSERT INTO fitters (username, name, email, phone, country_code, country_manager_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+columns,
		f.Username, f.Name, f.Email, f.Phone, f.CountryCode, f.CountryManagerID, f.IsActive))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, id int64, f Fitter) (Fitter, error) {
	updated, err := scan(r.pool.QueryRow(ctx, `UPDATE fitters SET username = $1, name = $2, email = $3, phone = $4, country_code = $5, country_manager_id = $6, is_active = $7,
		updated_at = NOW() WHERE id = $8 RETURNING `+columns,
		f.Username, f.Name, f.Email, f.Phone, f.CountryCode, f.CountryManagerID, f.IsActive, id))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.ExpectAffected(r.pool.Exec(ctx, `DELETE FROM fitters WHERE id = $1`, id))
}
