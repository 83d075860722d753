package enum

// ── Order lifecycle (CHECK constrained in DB) ──

const (
	OrderStatusPreparing = "Preparing"
	OrderStatusReady     = "Ready"
	OrderStatusDelivered = "Delivered"
)

// OrderStatuses lists every valid order status in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
}

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered:
		return true
	}
	return false
}
