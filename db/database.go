package db

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/HnnhKylSdsBrl/ClassCart/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't
// exist. The unique indexes on users are the authoritative guard against
// duplicate usernames, emails and contact numbers.
func InitDB() error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createListingsTable(); err != nil {
		return err
	}
	if err := createOrdersTable(); err != nil {
		return err
	}
	log.Println("Database initialization completed.")
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(20) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		name VARCHAR(25) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		student_id VARCHAR(10) NOT NULL,
		contact VARCHAR(13) UNIQUE,
		gender VARCHAR(20),
		dob VARCHAR(10),
		dob_edit_count INT NOT NULL DEFAULT 0,
		image_url VARCHAR(767),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	log.Println("Users table initialized successfully (or already exists).")
	return nil
}

func createListingsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS listings (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		price DECIMAL(10,2) NOT NULL,
		category VARCHAR(100) NOT NULL,
		condition_label VARCHAR(100) NOT NULL,
		location VARCHAR(255) NOT NULL,
		image_url VARCHAR(767) NOT NULL,
		username VARCHAR(20) NOT NULL,
		seller_name VARCHAR(25) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create listings table: %w", err)
	}
	log.Println("Listings table initialized successfully (or already exists).")
	return nil
}

func createOrdersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS orders (
		id INT AUTO_INCREMENT PRIMARY KEY,
		listing_id INT NOT NULL,
		buyer VARCHAR(20) NOT NULL,
		seller VARCHAR(20) NOT NULL,
		title VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		image_url VARCHAR(767),
		confirmed_by_buyer BOOLEAN NOT NULL DEFAULT FALSE,
		confirmed_by_seller BOOLEAN NOT NULL DEFAULT FALSE,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}
	log.Println("Orders table initialized successfully (or already exists).")
	return nil
}
