package warehouses

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	"github.com/saddlefit/oms/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Warehouse, int, error)
	Get(ctx context.Context, id int64) (Warehouse, error)
	Create(ctx context.Context, wh Warehouse) (Warehouse, error)
	Update(ctx context.Context, id int64, wh Warehouse) (Warehouse, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, code, name, address, country_code, country_manager_id, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	"code":    "code",
	"name":    "name",
	"country": "country_code",
}

func scan(row interface{ Scan(...any) error }) (Warehouse, error) {
	var wh Warehouse
	err := row.Scan(&wh.ID, &wh.Code, &wh.Name, &wh.Address, &wh.CountryCode, &wh.CountryManagerID, &wh.IsActive, &wh.CreatedAt, &wh.UpdatedAt)
	return wh, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Warehouse, int, error) {
	var where shared.Where
	where.AddSearch(filters.Search, "name", "code")
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM warehouses`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, args := where.Page(filters)
	query := `SELECT ` + columns + ` FROM warehouses` + where.SQL() +
		` ORDER BY ` + shared.SortOrder(filters.SortBy, filters.SortDir, sortColumns, "name") + page
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	warehouses := make([]Warehouse, 0)
	for rows.Next() {
		wh, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		warehouses = append(warehouses, wh)
	}
	return warehouses, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Warehouse, error) {
	wh, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM warehouses WHERE id = $1`, id))
	return wh, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, wh Warehouse) (Warehouse, error) {
	created, err := scan(r.pool.QueryRow(ctx, `INSERT INTO warehouses (code, name, address, country_code, country_manager_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+columns,
		wh.Code, wh.Name, wh.Address, wh.CountryCode, wh.CountryManagerID, wh.IsActive))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, id int64, wh Warehouse) (Warehouse, error) {
	updated, err := scan(r.pool.QueryRow(ctx, `UPDATE warehouses SET code = $1, name = $2, address = $3, country_code = $4, country_manager_id = $5, is_active = $6,
		updated_at = NOW() WHERE id = $7 RETURNING `+columns,
		wh.Code, wh.Name, wh.Address, wh.CountryCode, wh.CountryManagerID, wh.IsActive, id))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.ExpectAffected(r.pool.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id))
}
