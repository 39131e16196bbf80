package orders

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var exportHeader = []string{"Order Number", "Status", "Customer", "Fitter", "Supplier", "Seat Size", "Color", "Currency", "Base Price", "Extras", "Total", "Created At"}

// WriteCSV serialises orders for spreadsheet export.
func WriteCSV(w io.Writer, orders []Order) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, o := range orders {
		if err := writer.Write([]string{
			o.OrderNumber,
			string(o.Status),
			o.CustomerName,
			o.FitterUsername,
			o.SupplierName,
			o.SeatSize,
			o.Color,
			o.Currency,
			formatMinor(o.BasePrice),
			formatMinor(o.ExtrasTotal),
			formatMinor(o.Total),
			o.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatMinor(v int64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	cents := v % 100
	pad := ""
	if cents < 10 {
		pad = "0"
	}
	return sign + strconv.FormatInt(v/100, 10) + "." + pad + strconv.FormatInt(cents, 10)
}
