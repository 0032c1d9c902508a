package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/shoplite/shoplite-api/config"
	"github.com/shoplite/shoplite-api/pkg/helpers"
)

// Seeds a demo catalog plus a customer account for local development. The
// admin account is seeded by the server itself on boot.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	seedCustomer(db)
	seedCatalog(db)
}

func seedCustomer(db *sql.DB) {
	email := "demo@example.com"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role, is_active)
		VALUES ($1, $2, 'Demo Customer', 'customer', TRUE)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed customer: %v", err)
	}
	fmt.Printf("seeded customer: id=%s email=%s password=%s\n", id, email, password)
}

func seedCatalog(db *sql.DB) {
	categories := map[string]string{
		"Coffee":   "Beans, grounds and everything brewed",
		"Hardware": "Tools and workshop supplies",
		"Books":    "Paper still wins",
	}
	catIDs := map[string]string{}
	for name, desc := range categories {
		var id string
		err := db.QueryRow(`
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
			RETURNING id
		`, name, desc).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed category %s: %v", name, err)
		}
		catIDs[name] = id
	}

	products := []struct {
		sku, name, desc, category string
		priceCents                int64
		stock                     int
	}{
		{"CF-ESP-250", "Espresso Roast 250g", "Dark roast whole beans, chocolate notes", "Coffee", 1250, 50},
		{"CF-FLT-500", "Filter Blend 500g", "Medium roast for pour-over and drip", "Coffee", 1850, 40},
		{"CF-DEC-250", "Decaf Swiss Water 250g", "All the taste, none of the jitters", "Coffee", 1390, 12},
		{"HW-HMR-01", "Claw Hammer 450g", "Fiberglass handle, forged steel head", "Hardware", 2199, 25},
		{"HW-SCR-SET", "Screwdriver Set 12pc", "Magnetic tips, chrome vanadium", "Hardware", 3499, 18},
		{"BK-GOPL-01", "The Go Programming Language", "Donovan & Kernighan, paperback", "Books", 4250, 8},
		{"BK-SICP-01", "Structure and Interpretation of Computer Programs", "MIT Press, 2nd edition", "Books", 3890, 3},
	}
	for _, p := range products {
		var id string
		err := db.QueryRow(`
			INSERT INTO products (sku, name, description, price_cents, stock_qty, category_id, status)
			VALUES ($1, $2, $3, $4, $5, $6, 'active')
			ON CONFLICT (sku) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				price_cents = EXCLUDED.price_cents,
				stock_qty = EXCLUDED.stock_qty,
				category_id = EXCLUDED.category_id,
				updated_at = now()
			RETURNING id
		`, p.sku, p.name, p.desc, p.priceCents, p.stock, catIDs[p.category]).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed product %s: %v", p.sku, err)
		}
		fmt.Printf("seeded product: %s (%s)\n", p.name, p.sku)
	}
}
