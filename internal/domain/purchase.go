package domain

import "time"

type PurchaseState string

const (
	PurchaseStateCheckout     PurchaseState = "checkout"
	PurchaseStateProcessing   PurchaseState = "processing"
	PurchaseStateConfirmation PurchaseState = "confirmation"
)

type PurchaseOrder struct {
	OrderNumber string        `json:"orderNumber"`
	Game        GameDisplay   `json:"game"`
	State       PurchaseState `json:"state"`
	CreatedAt   time.Time     `json:"createdAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}
