// Package market implements listings and the meetup order lifecycle: a
// listing reservation moves from pending to completed once buyer and seller
// have both confirmed the exchange, or to cancelled by the buyer.
package market

import (
	"context"

	"github.com/HnnhKylSdsBrl/ClassCart/logger"
	"github.com/HnnhKylSdsBrl/ClassCart/model"
	"github.com/HnnhKylSdsBrl/ClassCart/repository"
	"github.com/HnnhKylSdsBrl/ClassCart/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service implements listing and order operations.
type Service struct {
	listings repository.ListingRepository
	orders   repository.OrderRepository
	images   storage.ImageStore
}

// NewService creates a market Service.
func NewService(listings repository.ListingRepository, orders repository.OrderRepository, images storage.ImageStore) *Service {
	return &Service{listings: listings, orders: orders, images: images}
}

// CreateListingInput is the listing creation payload. The image arrives as a
// base64 data URL.
type CreateListingInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	Location    string          `json:"location"`
	ImageData   string          `json:"imageUrl"`
	SellerName  string          `json:"sellerName"`
}

// CreateListing validates the payload, stores the image and creates the
// listing owned by the seller.
func (s *Service) CreateListing(ctx context.Context, seller string, in CreateListingInput) (*model.Listing, error) {
	switch {
	case in.Title == "":
		return nil, model.ValidationError("Title is required")
	case in.Category == "":
		return nil, model.ValidationError("Category is required")
	case in.Condition == "":
		return nil, model.ValidationError("Condition is required")
	case in.Location == "":
		return nil, model.ValidationError("Location is required")
	case in.Description == "":
		return nil, model.ValidationError("Description is required")
	case in.ImageData == "":
		return nil, model.ValidationError("Image is required")
	}
	if in.Price.IsNegative() {
		return nil, model.ValidationError("Price must not be negative")
	}

	contentType, ext, data, err := storage.DecodeImageDataURL(in.ImageData)
	if err != nil {
		return nil, model.ValidationError(err.Error())
	}

	objectName := "listings/" + uuid.NewString() + ext
	url, err := s.images.Save(ctx, objectName, data, contentType)
	if err != nil {
		logger.Error("[Listing] image upload failed", logger.ErrorField(err))
		return nil, model.ServerError()
	}

	listing := &model.Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Condition:   in.Condition,
		Location:    in.Location,
		ImageURL:    url,
		Username:    seller,
		SellerName:  in.SellerName,
	}

	id, err := s.listings.CreateListing(ctx, listing)
	if err != nil {
		logger.Error("[Listing] insert failed", logger.ErrorField(err))
		return nil, model.ServerError()
	}

	created, err := s.listings.GetListingByID(ctx, id)
	if err != nil || created == nil {
		logger.Error("[Listing] reload after insert failed", logger.Int64("listingId", id), logger.ErrorField(err))
		return nil, model.ServerError()
	}

	logger.Info("[Listing] created", logger.Int64("listingId", id), logger.String("seller", seller))
	return created, nil
}

// ListListings returns all listings, newest first.
func (s *Service) ListListings(ctx context.Context) ([]*model.Listing, error) {
	listings, err := s.listings.ListListings(ctx)
	if err != nil {
		logger.Error("[Listing] list failed", logger.ErrorField(err))
		return nil, model.ServerError()
	}
	if listings == nil {
		listings = []*model.Listing{}
	}
	return listings, nil
}

// GetListing returns a single listing.
func (s *Service) GetListing(ctx context.Context, id int64) (*model.Listing, error) {
	listing, err := s.listings.GetListingByID(ctx, id)
	if err != nil {
		logger.Error("[Listing] lookup failed", logger.Int64("listingId", id), logger.ErrorField(err))
		return nil, model.ServerError()
	}
	if listing == nil {
		return nil, model.NewAppError(model.KindNotFound, "Listing not found")
	}
	return listing, nil
}

// CreateOrder reserves a listing for the buyer. The order snapshots the
// listing's title, price and image so later listing changes cannot corrupt
// order history. Self-purchase is forbidden.
func (s *Service) CreateOrder(ctx context.Context, buyer string, listingID int64) (*model.Order, error) {
	listing, err := s.listings.GetListingByID(ctx, listingID)
	if err != nil {
		logger.Error("[Order] listing lookup failed", logger.Int64("listingId", listingID), logger.ErrorField(err))
		return nil, model.ServerError()
	}
	if listing == nil {
		return nil, model.NewAppError(model.KindNotFound, "Listing not found")
	}

	seller := listing.Username
	if seller == "" {
		return nil, model.NewAppError(model.KindInvalidOperation, "Listing has no seller")
	}
	if seller == buyer {
		return nil, model.NewAppError(model.KindInvalidOperation, "You cannot buy your own listing")
	}

	order := &model.Order{
		ListingID: listing.ID,
		Buyer:     buyer,
		Seller:    seller,
		Title:     listing.Title,
		Price:     listing.Price,
		ImageURL:  listing.ImageURL,
		Status:    model.OrderStatusPending,
	}

	id, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		logger.Error("[Order] insert failed", logger.ErrorField(err))
		return nil, model.ServerError()
	}

	created, err := s.orders.GetOrderByID(ctx, id)
	if err != nil || created == nil {
		logger.Error("[Order] reload after insert failed", logger.Int64("orderId", id), logger.ErrorField(err))
		return nil, model.ServerError()
	}

	logger.Info("[Order] created",
		logger.Int64("orderId", id),
		logger.String("buyer", buyer),
		logger.String("seller", seller))
	return created, nil
}

// ConfirmOrder records the caller's side of the meetup confirmation and
// completes the order once both sides have confirmed. Re-confirming is a
// no-op. The flag write and the completion transition are separate atomic
// statements evaluated by the database against post-write state, so
// concurrent buyer/seller confirmations cannot lose a write or miss the
// transition.
func (s *Service) ConfirmOrder(ctx context.Context, caller string, orderID int64) (*model.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		logger.Error("[Order] lookup failed", logger.Int64("orderId", orderID), logger.ErrorField(err))
		return nil, model.ServerError()
	}
	if order == nil {
		return nil, model.NewAppError(model.KindNotFound, "Order not found")
	}
	if caller != order.Buyer && caller != order.Seller {
		return nil, model.NewAppError(model.KindForbidden, "Not your order")
	}
	if order.Status == model.OrderStatusCancelled {
		return nil, model.NewAppError(model.KindInvalidOperation, "Order is cancelled")
	}
	if order.Status == model.OrderStatusCompleted {
		return order, nil
	}

	if caller == order.Buyer {
		err = s.orders.MarkBuyerConfirmed(ctx, orderID)
	} else {
		err = s.orders.MarkSellerConfirmed(ctx, orderID)
	}
	if err != nil {
		logger.Error("[Order] confirmation write failed", logger.Int64("orderId", orderID), logger.ErrorField(err))
		return nil, model.ServerError()
	}

	if err := s.orders.CompleteIfConfirmed(ctx, orderID); err != nil {
		logger.Error("[Order] completion check failed", logger.Int64("orderId", orderID), logger.ErrorField(err))
		return nil, model.ServerError()
	}

	updated, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil || updated == nil {
		logger.Error("[Order] reload failed", logger.Int64("orderId", orderID), logger.ErrorField(err))
		return nil, model.ServerError()
	}
	if updated.Status == model.OrderStatusCancelled {
		// A cancel landed between the pre-check and the flag write; the
		// guarded flag update was a no-op.
		return nil, model.NewAppError(model.KindInvalidOperation, "Order is cancelled")
	}

	logger.Info("[Order] confirmed",
		logger.Int64("orderId", orderID),
		logger.String("by", caller),
		logger.String("status", updated.Status))
	return updated, nil
}

// CancelOrder cancels a pending order. Only the buyer may cancel; a
// completed order stays completed. Cancelling an already cancelled order is
// a no-op.
func (s *Service) CancelOrder(ctx context.Context, caller string, orderID int64) (*model.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		logger.Error("[Order] lookup failed", logger.Int64("orderId", orderID), logger.ErrorField(err))
		return nil, model.ServerError()
	}
	if order == nil {
		return nil, model.NewAppError(model.KindNotFound, "Order not found")
	}
	if caller != order.Buyer {
		return nil, model.NewAppError(model.KindForbidden, "Only the buyer can cancel an order")
	}
	if order.Status == model.OrderStatusCompleted {
		return nil, model.NewAppError(model.KindInvalidOperation, "Completed order cannot be cancelled")
	}
	if order.Status == model.OrderStatusCancelled {
		return order, nil
	}

	// MarkCancelled only moves a still-pending order; the re-read tells us
	// whether a concurrent completion won instead.
	if err := s.orders.MarkCancelled(ctx, orderID); err != nil {
		logger.Error("[Order] cancel failed", logger.Int64("orderId", orderID), logger.ErrorField(err))
		return nil, model.ServerError()
	}

	updated, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil || updated == nil {
		logger.Error("[Order] reload failed", logger.Int64("orderId", orderID), logger.ErrorField(err))
		return nil, model.ServerError()
	}
	if updated.Status == model.OrderStatusCompleted {
		return nil, model.NewAppError(model.KindInvalidOperation, "Completed order cannot be cancelled")
	}

	logger.Info("[Order] cancelled", logger.Int64("orderId", orderID), logger.String("by", caller))
	return updated, nil
}

// ListMyOrders returns all orders where the caller is buyer or seller,
// newest first.
func (s *Service) ListMyOrders(ctx context.Context, caller string) ([]*model.Order, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, caller)
	if err != nil {
		logger.Error("[Order] list failed", logger.String("user", caller), logger.ErrorField(err))
		return nil, model.ServerError()
	}
	if orders == nil {
		orders = []*model.Order{}
	}
	return orders, nil
}
