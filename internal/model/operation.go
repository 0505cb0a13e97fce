package model

import "time"

// Operation types recorded in the cart ledger.
const (
	OpAddItem        = "add_item"
	OpRemoveItem     = "remove_item"
	OpUpdateQuantity = "update_quantity"
	OpApplyCoupon    = "apply_coupon"
)

// Operation is an immutable ledger entry describing a single cart mutation.
// Entries are never updated or deleted once written.
type Operation struct {
	ID            string         `json:"id" db:"id"`
	CartID        string         `json:"cartId" db:"cart_id"`
	OperationType string         `json:"operationType" db:"operation_type"`
	Details       map[string]any `json:"details" db:"details"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
}
