package checkout

// Delivery pricing policy: the fee is waived at or above the free-shipping
// threshold, otherwise a flat fee applies.
const (
	FreeShippingThreshold int64 = 30000
	FlatDeliveryFee       int64 = 3000
)

// DeliveryFee returns the fee owed for an order subtotal.
func DeliveryFee(totalPrice int64) int64 {
	if totalPrice >= FreeShippingThreshold {
		return 0
	}
	return FlatDeliveryFee
}

// Totals are the computed amounts of one submission.
// Invariant: TotalPaid = TotalPrice + DeliveryFee.
type Totals struct {
	TotalPrice  int64 `json:"totalPrice"`
	DeliveryFee int64 `json:"deliveryFee"`
	TotalPaid   int64 `json:"totalPaid"`
}

// ComputeTotals derives the order amounts for a single line item.
func ComputeTotals(unitPrice, quantity int64) Totals {
	total := unitPrice * quantity
	fee := DeliveryFee(total)
	return Totals{
		TotalPrice:  total,
		DeliveryFee: fee,
		TotalPaid:   total + fee,
	}
}
