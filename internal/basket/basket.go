// Package basket computes the aggregated cost view over all live orders.
package basket

import "github.com/jonnyb/group-order/internal/models"

// UnknownBucket receives an order's price when it has no participants and
// no owner to attribute it to.
const UnknownBucket = "Unknown"

// Totals is the aggregated basket: the grand total across all orders and
// each person's owed amount.
type Totals struct {
	GrandTotal float64
	PerPerson  map[string]float64
}

// Aggregate splits each order's price evenly among its participants and
// accumulates per-person totals. An order with no participants attributes
// its full price to the owner, or to the Unknown bucket when the owner is
// blank. Every order's price is fully distributed, so the per-person sums
// always add up to the grand total. Accumulation is not rounded per step;
// rendering rounds to two decimals.
func Aggregate(orders []models.Order) Totals {
	totals := Totals{
		PerPerson: make(map[string]float64),
	}

	for _, order := range orders {
		totals.GrandTotal += order.Price

		if len(order.Participants) > 0 {
			share := order.Price / float64(len(order.Participants))
			for _, p := range order.Participants {
				totals.PerPerson[p] += share
			}
			continue
		}

		if order.Name != "" {
			totals.PerPerson[order.Name] += order.Price
		} else {
			totals.PerPerson[UnknownBucket] += order.Price
		}
	}

	return totals
}
