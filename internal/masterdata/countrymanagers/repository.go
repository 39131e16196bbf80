package countrymanagers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	"github.com/saddlefit/oms/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]CountryManager, int, error)
	Get(ctx context.Context, id int64) (CountryManager, error)
	Create(ctx context.Context, cm CountryManager) (CountryManager, error)
	Update(ctx context.Context, id int64, cm CountryManager) (CountryManager, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, name, email, phone, country_code, region, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	"name":    "name",
	"email":   "email",
	"country": "country_code",
	"created": "created_at",
}

func scan(row interface{ Scan(...any) error }) (CountryManager, error) {
	var cm CountryManager
	err := row.Scan(&cm.ID, &cm.Name, &cm.Email, &cm.Phone, &cm.CountryCode, &cm.Region, &cm.IsActive, &cm.CreatedAt, &cm.UpdatedAt)
	return cm, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]CountryManager, int, error) {
	var where shared.Where
	where.AddSearch(filters.Search, "name", "email", "region")
	if filters.CountryCode != "" {
		where.Add("country_code = ?", filters.CountryCode)
	}
	if filters.IsActive != nil {
		where.Add("is_active = ?", *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM country_managers`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, args := where.Page(filters)
	query := `SELECT ` + columns + ` FROM country_managers` + where.SQL() +
		` ORDER BY ` + shared.SortOrder(filters.SortBy, filters.SortDir, sortColumns, "name") + page
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	countrymanagers := make([]CountryManager, 0)
	for rows.Next() {
		cm, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		countrymanagers = append(countrymanagers, cm)
	}
	return countrymanagers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (CountryManager, error) {
	cm, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM country_managers WHERE id = $1`, id))
	return cm, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, cm CountryManager) (CountryManager, error) {
	created, err := scan(r.pool.QueryRow(ctx, `INSERT INTO country_managers (name, email, phone, country_code, region, is_active)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+columns,
		cm.Name, cm.Email, cm.Phone, cm.CountryCode, cm.Region, cm.IsActive))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, id int64, cm CountryManager) (CountryManager, error) {
	updated, err := scan(r.pool.QueryRow(ctx, `UPDATE country_managers SET name = $1, email = $2, phone = $3, country_code = $4, region = $5, is_active = $6,
		updated_at = NOW() WHERE id = $7 RETURNING `+columns,
		cm.Name, cm.Email, cm.Phone, cm.CountryCode, cm.Region, cm.IsActive, id))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.ExpectAffected(r.pool.Exec(ctx, `DELETE FROM country_managers WHERE id = $1`, id))
}
