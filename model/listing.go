package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing represents an item a user offers for sale. Listings are read-only
// once created; orders snapshot the fields they need.
type Listing struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	Location    string          `json:"location"`
	ImageURL    string          `json:"imageUrl"`
	Username    string          `json:"username"`   // owning account
	SellerName  string          `json:"sellerName"` // display name at creation time
	CreatedAt   time.Time       `json:"createdAt"`
}
