package orders

type ExtraLine struct {
	ExtraID  int64 `json:"extra_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gt=0,lte=100"`
}

type CreateOrderRequest struct {
	CustomerID int64       `json:"customer_id" validate:"required,gt=0"`
	FitterID   int64       `json:"fitter_id" validate:"omitempty,gt=0"`
	SupplierID int64       `json:"supplier_id" validate:"omitempty,gt=0"`
	PresetID   *int64      `json:"preset_id,omitempty" validate:"omitempty,gt=0"`
	BasePrice  *int64      `json:"base_price,omitempty" validate:"omitempty,gte=0"`
	SeatSize   string      `json:"seat_size" validate:"max=20"`
	Color      string      `json:"color" validate:"max=50"`
	Currency   string      `json:"currency" validate:"required,len=3"`
	Notes      string      `json:"notes" validate:"max=2000"`
	Submit     bool        `json:"submit"`
	Extras     []ExtraLine `json:"extras" validate:"omitempty,dive"`
}

type UpdateOrderRequest struct {
	PresetID  *int64       `json:"preset_id,omitempty" validate:"omitempty,gt=0"`
	BasePrice *int64       `json:"base_price,omitempty" validate:"omitempty,gte=0"`
	SeatSize  *string      `json:"seat_size,omitempty" validate:"omitempty,max=20"`
	Color     *string      `json:"color,omitempty" validate:"omitempty,max=50"`
	Notes     *string      `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Extras    *[]ExtraLine `json:"extras,omitempty" validate:"omitempty,dive"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=500"`
}
