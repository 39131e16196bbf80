package extras

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	"github.com/saddlefit/oms/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Extra, int, error)
	Get(ctx context.Context, id int64) (Extra, error)
	Create(ctx context.Context, e Extra) (Extra, error)
	Update(ctx context.Context, id int64, e Extra) (Extra, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, name, description, price, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	"name":    "name",
	"price":   "price",
	"created": "created_at",
}

func scan(row interface{ Scan(...any) error }) (Extra, error) {
	var e Extra
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Price, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Extra, int, error) {
	var where shared.Where
	where.AddSearch(filters.Search, "name", "description")
	if filters.IsActive != nil {
		where.Add("is_active = ?", *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM extras`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, args := where.Page(filters)
	query := `SELECT ` + columns + ` FROM extras` + where.SQL() +
		` ORDER BY ` + shared.SortOrder(filters.SortBy, filters.SortDir, sortColumns, "name") + page
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	extras := make([]Extra, 0)
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		extras = append(extras, e)
	}
	return extras, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Extra, error) {
	e, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM extras WHERE id = $1`, id))
	return e, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, e Extra) (Extra, error) {
	created, err := scan(r.pool.QueryRow(ctx, `INSERT INTO extras (name, description, price, is_active)
		VALUES ($1, $2, $3, $4) RETURNING `+columns,
		e.Name, e.Description, e.Price, e.IsActive))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, id int64, e Extra) (Extra, error) {
	updated, err := scan(r.pool.QueryRow(ctx, `UPDATE extras SET name = $1, description = $2, price = $3, is_active = $4,
		updated_at = NOW() WHERE id = $5 RETURNING `+columns,
		e.Name, e.Description, e.Price, e.IsActive, id))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.ExpectAffected(r.pool.Exec(ctx, `DELETE FROM extras WHERE id = $1`, id))
}
