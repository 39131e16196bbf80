package orders

import (
	"context"
	"fmt"

	"github.com/saddlefit/oms/internal/shared"
)

// Totals sums extra lines on top of the base price.
func Totals(base int64, extras []OrderExtra) (extrasTotal, total int64) {
	for _, e := range extras {
		extrasTotal += e.LineTotal
	}
	return extrasTotal, base + extrasTotal
}

// priceExtras resolves catalogue prices for the requested lines. Repeated
// extra ids are merged into one line.
func priceExtras(ctx context.Context, repo Repository, lines []ExtraLine) ([]OrderExtra, error) {
	if len(lines) == 0 {
		return []OrderExtra{}, nil
	}
	qty := make(map[int64]int, len(lines))
	order := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, seen := qty[l.ExtraID]; !seen {
			order = append(order, l.ExtraID)
		}
		qty[l.ExtraID] += l.Quantity
	}
	refs, err := repo.ExtraPrices(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("load extras: %w", err)
	}
	out := make([]OrderExtra, 0, len(order))
	for _, id := range order {
		ref, ok := refs[id]
		if !ok {
			return nil, shared.NewValidationError("extras", fmt.Sprintf("extra %d does not exist or is inactive", id))
		}
		out = append(out, OrderExtra{
			ExtraID:   id,
			Name:      ref.Name,
			Quantity:  qty[id],
			UnitPrice: ref.Price,
			LineTotal: ref.Price * int64(qty[id]),
		})
	}
	return out, nil
}
