package presets

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	"github.com/saddlefit/oms/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Preset, int, error)
	Get(ctx context.Context, id int64) (Preset, error)
	Create(ctx context.Context, p Preset) (Preset, error)
	Update(ctx context.Context, id int64, p Preset) (Preset, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, supplier_id, name, brand, model, seat_size, color, base_price, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	"name":    "name",
	"brand":   "brand",
	"price":   "base_price",
	"created": "created_at",
}

func scan(row interface{ Scan(...any) error }) (Preset, error) {
	var p Preset
	err := row.Scan(&p.ID, &p.SupplierID, &p.Name, &p.Brand, &p.Model, &p.SeatSize, &p.Color, &p.BasePrice, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Preset, int, error) {
	var where shared.Where
	where.AddSearch(filters.Search, "name", "brand", "model")
	if filters.SupplierID != nil {
		where.Add("supplier_id = ?", *filters.SupplierID)
	}
	if filters.IsActive != nil {
		where.Add("is_active = ?", *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM presets`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, args := where.Page(filters)
	query := `SELECT ` + columns + ` FROM presets` + where.SQL() +
		` ORDER BY ` + shared.SortOrder(filters.SortBy, filters.SortDir, sortColumns, "name") + page
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	presets := make([]Preset, 0)
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		presets = append(presets, p)
	}
	return presets, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Preset, error) {
	p, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM presets WHERE id = $1`, id))
	return p, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, p Preset) (Preset, error) {
	created, err := scan(r.pool.QueryRow(ctx, `INSERT INTO presets (supplier_id, name, brand, model, seat_size, color, base_price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+columns,
		p.SupplierID, p.Name, p.Brand, p.Model, p.SeatSize, p.Color, p.BasePrice, p.IsActive))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, id int64, p Preset) (Preset, error) {
	updated, err := scan(r.pool.QueryRow(ctx, `UPDATE presets SET supplier_id = $1, name = $2, brand = $3, model = $4, seat_size = $5, color = $6, base_price = $7, is_active = $8,
		updated_at = NOW() WHERE id = $9 RETURNING `+columns,
		p.SupplierID, p.Name, p.Brand, p.Model, p.SeatSize, p.Color, p.BasePrice, p.IsActive, id))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.ExpectAffected(r.pool.Exec(ctx, `DELETE FROM presets WHERE id = $1`, id))
}
