package main

import (
	"context"
	"fmt"
	"os"

	pgcrud "github.com/pgcrud/postgres-crud-mcp"

	"github.com/joho/godotenv"
)

// schemaStatements creates the demo schema. Statements run one at a time so a
// failure reports the statement that caused it.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL DEFAULT 1
	)`,
}

var seedItems = []map[string]any{
	{"name": "Widget", "description": "A standard widget"},
	{"name": "Gadget", "description": "A clever gadget"},
	{"name": "Gizmo", "description": "An experimental gizmo"},
	{"name": "Doohickey", "description": "Purpose unknown"},
	{"name": "Thingamajig", "description": "Like a doohickey, but bigger"},
}

func runInitDB() error {
	ctx := context.Background()

	_ = godotenv.Load()

	connString := os.Getenv("PGCRUD_PG_CONNSTRING")
	if connString == "" {
		var conn pgcrud.ConnectionConfig
		conn.ApplyEnv()
		password := os.Getenv("PG_PASSWORD")
		if password == "" {
			password = promptPassword("Password: ")
		}
		connString = conn.ConnString(password)
	}

	logger := setupLogger(pgcrud.LoggingConfig{Format: "text"})

	db, err := pgcrud.New(ctx, connString, pgcrud.Config{}, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer db.Close(ctx)

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	fmt.Println("Creating database schema...")
	for _, stmt := range schemaStatements {
		if _, err := db.ExecuteCustomQuery(ctx, pgcrud.CustomQueryInput{
			Query:     stmt,
			QueryType: "CREATE",
		}); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	existing, err := db.SelectRecords(ctx, pgcrud.SelectRecordsInput{TableName: "items"})
	if err != nil {
		return fmt.Errorf("failed to check items table: %w", err)
	}
	if existing.TotalCount > 0 {
		fmt.Printf("Items table already has %d records, skipping seed data\n", existing.TotalCount)
		return nil
	}

	fmt.Println("Seeding sample data...")
	for _, item := range seedItems {
		if _, err := db.InsertRecord(ctx, pgcrud.InsertRecordInput{
			TableName: "items",
			Data:      item,
		}); err != nil {
			return fmt.Errorf("failed to seed items: %w", err)
		}
	}

	fmt.Printf("Database initialization completed: %d items seeded\n", len(seedItems))
	return nil
}
