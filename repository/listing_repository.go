package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HnnhKylSdsBrl/ClassCart/model"
)

// ListingRepository defines the interface for listing data operations.
// GetListingByID returns (nil, nil) when no row matches.
type ListingRepository interface {
	CreateListing(ctx context.Context, listing *model.Listing) (int64, error)
	GetListingByID(ctx context.Context, id int64) (*model.Listing, error)
	ListListings(ctx context.Context) ([]*model.Listing, error)
}

// mysqlListingRepository implements ListingRepository for MySQL.
type mysqlListingRepository struct {
	db *sql.DB
}

// NewMySQLListingRepository creates a new mysqlListingRepository.
func NewMySQLListingRepository(db *sql.DB) ListingRepository {
	return &mysqlListingRepository{db: db}
}

const listingColumns = "id, title, description, price, category, condition_label, location, image_url, username, seller_name, created_at"

// CreateListing adds a new listing.
func (r *mysqlListingRepository) CreateListing(ctx context.Context, listing *model.Listing) (int64, error) {
	query := "INSERT INTO listings (title, description, price, category, condition_label, location, image_url, username, seller_name) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, query,
		listing.Title, listing.Description, listing.Price, listing.Category,
		listing.Condition, listing.Location, listing.ImageURL,
		listing.Username, listing.SellerName)
	if err != nil {
		return 0, fmt.Errorf("failed to insert listing: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for listing: %w", err)
	}
	return id, nil
}

// GetListingByID retrieves a listing by its ID.
func (r *mysqlListingRepository) GetListingByID(ctx context.Context, id int64) (*model.Listing, error) {
	query := "SELECT " + listingColumns + " FROM listings WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, id)

	listing := &model.Listing{}
	err := row.Scan(&listing.ID, &listing.Title, &listing.Description,
		&listing.Price, &listing.Category, &listing.Condition,
		&listing.Location, &listing.ImageURL, &listing.Username,
		&listing.SellerName, &listing.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // listing not found
		}
		return nil, fmt.Errorf("failed to scan listing row for ID %d: %w", id, err)
	}
	return listing, nil
}

// ListListings retrieves all listings, newest first.
func (r *mysqlListingRepository) ListListings(ctx context.Context) ([]*model.Listing, error) {
	query := "SELECT " + listingColumns + " FROM listings ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []*model.Listing
	for rows.Next() {
		listing := &model.Listing{}
		err := rows.Scan(&listing.ID, &listing.Title, &listing.Description,
			&listing.Price, &listing.Category, &listing.Condition,
			&listing.Location, &listing.ImageURL, &listing.Username,
			&listing.SellerName, &listing.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listing rows: %w", err)
	}
	return listings, nil
}
