package orders

import "time"

// Order is a saddle order placed by a fitter for a customer with a supplier.
// Money fields are minor currency units.
type Order struct {
	ID             int64        `json:"id"`
	OrderNumber    string       `json:"order_number"`
	CustomerID     int64        `json:"customer_id"`
	CustomerName   string       `json:"customer_name"`
	FitterID       int64        `json:"fitter_id"`
	FitterUsername string       `json:"fitter_username"`
	SupplierID     int64        `json:"supplier_id"`
	SupplierName   string       `json:"supplier_name"`
	PresetID       *int64       `json:"preset_id,omitempty"`
	SeatSize       string       `json:"seat_size"`
	Color          string       `json:"color"`
	Status         Status       `json:"status"`
	Currency       string       `json:"currency"`
	BasePrice      int64        `json:"base_price"`
	ExtrasTotal    int64        `json:"extras_total"`
	Total          int64        `json:"total"`
	Notes          string       `json:"notes"`
	CreatedBy      int64        `json:"created_by"`
	ApprovedBy     *int64       `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time   `json:"approved_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Extras         []OrderExtra `json:"extras"`
}

// OrderExtra is one extra attached to an order, priced at order time.
type OrderExtra struct {
	ExtraID   int64  `json:"extra_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

// StatusChange records one transition in the order history.
type StatusChange struct {
	OrderID   int64
	From      Status
	To        Status
	ChangedBy int64
	Note      string
}

// ListFilters is the filter set of an order listing. FitterUsername is a
// pointer so that "not supplied" is distinguishable from a value.
type ListFilters struct {
	Page           int
	Limit          int
	Search         string
	SortBy         string
	SortDir        string
	Status         *Status
	FitterUsername *string
	CustomerID     *int64
	SupplierID     *int64
	DateFrom       *time.Time
	DateTo         *time.Time
}
