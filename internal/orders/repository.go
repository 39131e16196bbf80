package orders

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saddlefit/oms/internal/platform/db"
	"github.com/saddlefit/oms/internal/shared"
)

// PresetRef is the catalogue data an order copies from a preset.
type PresetRef struct {
	ID         int64
	SupplierID int64
	BasePrice  int64
	SeatSize   string
	Color      string
}

// ExtraRef is the catalogue data an order copies from an extra.
type ExtraRef struct {
	ID    int64
	Name  string
	Price int64
}

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Order, error)
	Extras(ctx context.Context, orderID int64) ([]OrderExtra, error)
	FindByIdempotencyKey(ctx context.Context, createdBy int64, key string) (*Order, error)
	List(ctx context.Context, f ListFilters) ([]Order, int, error)
	Create(ctx context.Context, o Order, idempotencyKey string) (int64, error)
	Update(ctx context.Context, id int64, o Order) error
	ReplaceExtras(ctx context.Context, orderID int64, extras []OrderExtra) error
	UpdateStatus(ctx context.Context, change StatusChange) error
	Delete(ctx context.Context, id int64) error
	Preset(ctx context.Context, id int64) (PresetRef, error)
	ExtraPrices(ctx context.Context, ids []int64) (map[int64]ExtraRef, error)
	FitterIDByUsername(ctx context.Context, username string) (int64, error)
}

type repository struct {
	db   db.DBTX
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const orderSelect = `SELECT o.id, o.order_number, o.customer_id, c.name, o.fitter_id, f.username,
	o.supplier_id, s.name, o.preset_id, o.seat_size, o.color, o.status, o.currency,
	o.base_price, o.extras_total, o.total, o.notes, o.created_by, o.approved_by, o.approved_at,
	o.created_at, o.updated_at
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
	JOIN fitters f ON f.id = o.fitter_id
	JOIN suppliers s ON s.id = o.supplier_id`

var sortColumns = map[string]string{
	"number":   "o.order_number",
	"status":   "o.status",
	"total":    "o.total",
	"customer": "c.name",
	"created":  "o.created_at",
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var status string
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &o.FitterID, &o.FitterUsername,
		&o.SupplierID, &o.SupplierName, &o.PresetID, &o.SeatSize, &o.Color, &status, &o.Currency,
		&o.BasePrice, &o.ExtrasTotal, &o.Total, &o.Notes, &o.CreatedBy, &o.ApprovedBy, &o.ApprovedAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = Status(status)
	return &o, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	return o, nil
}

func (r *repository) FindByIdempotencyKey(ctx context.Context, createdBy int64, key string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.created_by = $1 AND o.idempotency_key = $2`, createdBy, key))
	if err != nil {
		return nil, db.MapError(err)
	}
	return o, nil
}

func (r *repository) Extras(ctx context.Context, orderID int64) ([]OrderExtra, error) {
	rows, err := r.db.Query(ctx, `SELECT oe.extra_id, e.name, oe.quantity, oe.unit_price, oe.line_total
		FROM order_extras oe JOIN extras e ON e.id = oe.extra_id
		WHERE oe.order_id = $1 ORDER BY oe.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	extras := make([]OrderExtra, 0)
	for rows.Next() {
		var e OrderExtra
		if err := rows.Scan(&e.ExtraID, &e.Name, &e.Quantity, &e.UnitPrice, &e.LineTotal); err != nil {
			return nil, err
		}
		extras = append(extras, e)
	}
	return extras, rows.Err()
}

func (r *repository) List(ctx context.Context, f ListFilters) ([]Order, int, error) {
	var conditions []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.FitterUsername != nil && *f.FitterUsername != "" {
		add("f.username = ?", *f.FitterUsername)
	}
	if f.Status != nil {
		add("o.status = ?", string(*f.Status))
	}
	if f.CustomerID != nil {
		add("o.customer_id = ?", *f.CustomerID)
	}
	if f.SupplierID != nil {
		add("o.supplier_id = ?", *f.SupplierID)
	}
	if f.DateFrom != nil {
		add("o.created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("o.created_at < ?", *f.DateTo)
	}
	if f.Search != "" {
		add("(o.order_number ILIKE ? OR c.name ILIKE ? OR s.name ILIKE ?)", "%"+f.Search+"%")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders o
		JOIN customers c ON c.id = o.customer_id
		JOIN fitters f ON f.id = o.fitter_id
		JOIN suppliers s ON s.id = o.supplier_id` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "DESC"
	if f.SortDir == "asc" {
		dir = "ASC"
	}
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "o.created_at"
	}
	query := orderSelect + where + " ORDER BY " + col + " " + dir + ", o.id " + dir
	if f.Limit > 0 {
		args = append(args, f.Limit, shared.Offset(f.Page, f.Limit))
		query += " LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, o Order, idempotencyKey string) (int64, error) {
	var key *string
	if idempotencyKey != "" {
		key = &idempotencyKey
	}
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO orders (order_number, customer_id, fitter_id, supplier_id, preset_id,
		seat_size, color, status, currency, base_price, extras_total, total, notes, created_by, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`,
		o.OrderNumber, o.CustomerID, o.FitterID, o.SupplierID, o.PresetID,
		o.SeatSize, o.Color, string(o.Status), o.Currency, o.BasePrice, o.ExtrasTotal, o.Total, o.Notes, o.CreatedBy, key,
	).Scan(&id)
	return id, db.MapError(err)
}

func (r *repository) Update(ctx context.Context, id int64, o Order) error {
	return db.ExpectAffected(r.db.Exec(ctx, `UPDATE orders SET preset_id = $1, seat_size = $2, color = $3,
		base_price = $4, extras_total = $5, total = $6, notes = $7, updated_at = NOW() WHERE id = $8`,
		o.PresetID, o.SeatSize, o.Color, o.BasePrice, o.ExtrasTotal, o.Total, o.Notes, id))
}

func (r *repository) ReplaceExtras(ctx context.Context, orderID int64, extras []OrderExtra) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM order_extras WHERE order_id = $1`, orderID); err != nil {
		return err
	}
	for _, e := range extras {
		_, err := r.db.Exec(ctx, `INSERT INTO order_extras (order_id, extra_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5)`, orderID, e.ExtraID, e.Quantity, e.UnitPrice, e.LineTotal)
		if err != nil {
			return db.MapError(err)
		}
	}
	return nil
}

// UpdateStatus moves the order only if it is still in change.From, so two
// concurrent transitions cannot both succeed.
func (r *repository) UpdateStatus(ctx context.Context, change StatusChange) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $1,
		approved_by = CASE WHEN $1 = 'APPROVED' THEN $3 ELSE approved_by END,
		approved_at = CASE WHEN $1 = 'APPROVED' THEN NOW() ELSE approved_at END,
		updated_at = NOW()
		WHERE id = $2 AND status = $4`, string(change.To), change.OrderID, change.ChangedBy, string(change.From))
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrConflict
	}
	_, err = r.db.Exec(ctx, `INSERT INTO order_status_history (order_id, from_status, to_status, changed_by, note)
		VALUES ($1, $2, $3, $4, $5)`, change.OrderID, string(change.From), string(change.To), change.ChangedBy, change.Note)
	return db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.ExpectAffected(r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id))
}

func (r *repository) Preset(ctx context.Context, id int64) (PresetRef, error) {
	p := PresetRef{ID: id}
	err := r.db.QueryRow(ctx, `SELECT supplier_id, base_price, seat_size, color FROM presets WHERE id = $1 AND is_active`, id).
		Scan(&p.SupplierID, &p.BasePrice, &p.SeatSize, &p.Color)
	return p, db.MapError(err)
}

func (r *repository) ExtraPrices(ctx context.Context, ids []int64) (map[int64]ExtraRef, error) {
	out := make(map[int64]ExtraRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, name, price FROM extras WHERE id = ANY($1) AND is_active`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e ExtraRef
		if err := rows.Scan(&e.ID, &e.Name, &e.Price); err != nil {
			return nil, err
		}
		out[e.ID] = e
	}
	return out, rows.Err()
}

func (r *repository) FitterIDByUsername(ctx context.Context, username string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT id FROM fitters WHERE username = $1 AND is_active`, username).Scan(&id)
	return id, db.MapError(err)
}
