package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Completed and cancelled are terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order tracks a buyer's claim on a listing through to completion or
// cancellation. Title, price and image are snapshots taken when the order is
// created so later listing changes cannot corrupt order history.
type Order struct {
	ID                int64           `json:"id"`
	ListingID         int64           `json:"itemId"`
	Buyer             string          `json:"buyer"`
	Seller            string          `json:"seller"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	ImageURL          string          `json:"imageUrl"`
	ConfirmedByBuyer  bool            `json:"meetupConfirmedByBuyer"`
	ConfirmedBySeller bool            `json:"meetupConfirmedBySeller"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}
