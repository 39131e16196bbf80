package stock

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saddlefit/oms/internal/platform/db"
	"github.com/saddlefit/oms/internal/shared"
)

type Repository interface {
	List(ctx context.Context, f Filters) ([]Item, int, error)
	Get(ctx context.Context, id int64) (Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, id int64, item Item) (Item, error)
	Delete(ctx context.Context, id int64) error
	// Assign moves an item between holders only while it is in status from.
	// A non-nil holder must also match the current assignee.
	Assign(ctx context.Context, id int64, from Status, to Status, holder, username *string) (Item, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, serial_number, supplier_id, preset_id, warehouse_id, brand, model, seat_size, color,
	condition, price, status, assigned_to, assigned_at, notes, created_at, updated_at`

func scan(row pgx.Row) (Item, error) {
	var (
		it     Item
		status string
	)
	err := row.Scan(&it.ID, &it.SerialNumber, &it.SupplierID, &it.PresetID, &it.WarehouseID, &it.Brand, &it.Model,
		&it.SeatSize, &it.Color, &it.Condition, &it.Price, &status, &it.AssignedTo, &it.AssignedAt, &it.Notes,
		&it.CreatedAt, &it.UpdatedAt)
	it.Status = Status(status)
	return it, err
}

func (r *repository) List(ctx context.Context, f Filters) ([]Item, int, error) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if f.Status != nil {
		add("status = ?", string(*f.Status))
	}
	if f.AssignedTo != nil {
		add("assigned_to = ?", *f.AssignedTo)
	}
	if f.WarehouseID != nil {
		add("warehouse_id = ?", *f.WarehouseID)
	}
	if f.SeatSize != "" {
		add("seat_size = ?", f.SeatSize)
	}
	if f.Search != "" {
		add("(serial_number ILIKE ? OR brand ILIKE ? OR model ILIKE ?)", "%"+f.Search+"%")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stock_items`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + columns + ` FROM stock_items` + where + ` ORDER BY brand, model, id`
	if f.Limit > 0 {
		args = append(args, f.Limit, shared.Offset(f.Page, f.Limit))
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		it, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Item, error) {
	it, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM stock_items WHERE id = $1`, id))
	return it, db.MapError(err)
}

func (r *repository) Create(ctx context.Context, it Item) (Item, error) {
	created, err := scan(r.pool.QueryRow(ctx, `INSERT INTO stock_items (serial_number, supplier_id, preset_id, warehouse_id,
		brand, model, seat_size, color, condition, price, status, assigned_to, assigned_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, CASE WHEN $12::text IS NULL THEN NULL ELSE NOW() END, $13)
		RETURNING `+columns,
		it.SerialNumber, it.SupplierID, it.PresetID, it.WarehouseID, it.Brand, it.Model, it.SeatSize, it.Color,
		it.Condition, it.Price, string(it.Status), it.AssignedTo, it.Notes))
	return created, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, id int64, it Item) (Item, error) {
	updated, err := scan(r.pool.QueryRow(ctx, `UPDATE stock_items SET serial_number = $1, supplier_id = $2, preset_id = $3,
		warehouse_id = $4, brand = $5, model = $6, seat_size = $7, color = $8, condition = $9, price = $10,
		status = $11, assigned_at = CASE WHEN $12::text IS DISTINCT FROM assigned_to THEN
			CASE WHEN $12::text IS NULL THEN NULL ELSE NOW() END ELSE assigned_at END,
		assigned_to = $12, notes = $13, updated_at = NOW()
		WHERE id = $14 RETURNING `+columns,
		it.SerialNumber, it.SupplierID, it.PresetID, it.WarehouseID, it.Brand, it.Model, it.SeatSize, it.Color,
		it.Condition, it.Price, string(it.Status), it.AssignedTo, it.Notes, id))
	return updated, db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.ExpectAffected(r.pool.Exec(ctx, `DELETE FROM stock_items WHERE id = $1`, id))
}

func (r *repository) Assign(ctx context.Context, id int64, from Status, to Status, holder, username *string) (Item, error) {
	it, err := scan(r.pool.QueryRow(ctx, `UPDATE stock_items SET status = $1, assigned_to = $2,
		assigned_at = CASE WHEN $2::text IS NULL THEN NULL ELSE NOW() END, updated_at = NOW()
		WHERE id = $3 AND status = $4 AND ($5::text IS NULL OR assigned_to = $5)
		RETURNING `+columns, string(to), username, id, string(from), holder))
	if err == nil {
		return it, nil
	}
	err = db.MapError(err)
	if errors.Is(err, shared.ErrNotFound) {
		if _, gerr := r.Get(ctx, id); gerr == nil {
			return Item{}, shared.ErrConflict
		}
	}
	return Item{}, err
}
