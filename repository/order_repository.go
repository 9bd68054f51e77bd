package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HnnhKylSdsBrl/ClassCart/model"
)

// OrderRepository defines the interface for order data operations.
//
// Confirmation writes are field-level updates and the completed transition is
// a guarded update evaluated by the database, so two near-simultaneous
// confirmations can never overwrite each other or miss the transition. All
// status-changing writes are guarded on the pending state; the terminal
// states are unreachable from each other.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) (int64, error)
	GetOrderByID(ctx context.Context, id int64) (*model.Order, error)
	MarkBuyerConfirmed(ctx context.Context, id int64) error
	MarkSellerConfirmed(ctx context.Context, id int64) error
	// CompleteIfConfirmed flips a pending order with both flags set to
	// completed. A no-op when the condition does not hold.
	CompleteIfConfirmed(ctx context.Context, id int64) error
	MarkCancelled(ctx context.Context, id int64) error
	ListOrdersByUser(ctx context.Context, username string) ([]*model.Order, error)
}

// mysqlOrderRepository implements OrderRepository for MySQL.
type mysqlOrderRepository struct {
	db *sql.DB
}

// NewMySQLOrderRepository creates a new mysqlOrderRepository.
func NewMySQLOrderRepository(db *sql.DB) OrderRepository {
	return &mysqlOrderRepository{db: db}
}

const orderColumns = "id, listing_id, buyer, seller, title, price, image_url, confirmed_by_buyer, confirmed_by_seller, status, created_at, updated_at"

func scanOrder(scan func(dest ...interface{}) error) (*model.Order, error) {
	order := &model.Order{}
	err := scan(&order.ID, &order.ListingID, &order.Buyer, &order.Seller,
		&order.Title, &order.Price, &order.ImageURL,
		&order.ConfirmedByBuyer, &order.ConfirmedBySeller, &order.Status,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOrder adds a new order.
func (r *mysqlOrderRepository) CreateOrder(ctx context.Context, order *model.Order) (int64, error) {
	query := "INSERT INTO orders (listing_id, buyer, seller, title, price, image_url, confirmed_by_buyer, confirmed_by_seller, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, query,
		order.ListingID, order.Buyer, order.Seller, order.Title, order.Price,
		order.ImageURL, order.ConfirmedByBuyer, order.ConfirmedBySeller,
		order.Status)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for order: %w", err)
	}
	return id, nil
}

// GetOrderByID retrieves an order by its ID. Returns (nil, nil) when absent.
func (r *mysqlOrderRepository) GetOrderByID(ctx context.Context, id int64) (*model.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE id = ?"
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // order not found
		}
		return nil, fmt.Errorf("failed to scan order row for ID %d: %w", id, err)
	}
	return order, nil
}

// MarkBuyerConfirmed sets the buyer confirmation flag on a pending order.
// Idempotent; a no-op once the order left the pending state, so a
// confirmation racing a cancellation cannot leave a flag on a cancelled
// order.
func (r *mysqlOrderRepository) MarkBuyerConfirmed(ctx context.Context, id int64) error {
	query := "UPDATE orders SET confirmed_by_buyer = TRUE, updated_at = NOW() WHERE id = ? AND status = ?"
	if _, err := r.db.ExecContext(ctx, query, id, model.OrderStatusPending); err != nil {
		return fmt.Errorf("failed to mark buyer confirmation for order %d: %w", id, err)
	}
	return nil
}

// MarkSellerConfirmed sets the seller confirmation flag on a pending order.
// Idempotent; a no-op once the order left the pending state.
func (r *mysqlOrderRepository) MarkSellerConfirmed(ctx context.Context, id int64) error {
	query := "UPDATE orders SET confirmed_by_seller = TRUE, updated_at = NOW() WHERE id = ? AND status = ?"
	if _, err := r.db.ExecContext(ctx, query, id, model.OrderStatusPending); err != nil {
		return fmt.Errorf("failed to mark seller confirmation for order %d: %w", id, err)
	}
	return nil
}

// CompleteIfConfirmed transitions pending -> completed once both flags are
// set. The WHERE clause evaluates against post-write state inside the
// database, which closes the window between two concurrent confirmations.
func (r *mysqlOrderRepository) CompleteIfConfirmed(ctx context.Context, id int64) error {
	query := `UPDATE orders SET status = ?, updated_at = NOW()
		WHERE id = ? AND confirmed_by_buyer = TRUE AND confirmed_by_seller = TRUE AND status = ?`
	if _, err := r.db.ExecContext(ctx, query, model.OrderStatusCompleted, id, model.OrderStatusPending); err != nil {
		return fmt.Errorf("failed to complete order %d: %w", id, err)
	}
	return nil
}

// MarkCancelled transitions pending -> cancelled. Guarded like the
// completion transition: a no-op when the order is no longer pending, so a
// cancel racing a completing confirmation can never overwrite a completed
// order. Callers re-read to learn which transition won.
func (r *mysqlOrderRepository) MarkCancelled(ctx context.Context, id int64) error {
	query := "UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?"
	if _, err := r.db.ExecContext(ctx, query, model.OrderStatusCancelled, id, model.OrderStatusPending); err != nil {
		return fmt.Errorf("failed to cancel order %d: %w", id, err)
	}
	return nil
}

// ListOrdersByUser retrieves all orders where the user is buyer or seller,
// newest first.
func (r *mysqlOrderRepository) ListOrdersByUser(ctx context.Context, username string) ([]*model.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE buyer = ? OR seller = ? ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, query, username, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders for %s: %w", username, err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}
	return orders, nil
}
