// Seeds the plan catalog with the standard HotelSuite tiers. Run against a
// migrated database:
//
//	go run ./scripts/seedplans
package main

import (
	"fmt"
	"log"

	"github.com/opulencedeveloper/hotelsuite/internal/database"
)

type seedPlan struct {
	id        string
	name      string
	yearly    *float64
	quarterly *float64
}

func usd(v float64) *float64 { return &v }

func main() {
	db, err := database.NewDB("")
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	seeds := []seedPlan{
		{id: "starter", name: "Starter", yearly: usd(480), quarterly: usd(150)},
		{id: "standard", name: "Standard", yearly: usd(1000), quarterly: usd(300)},
		{id: "premium", name: "Premium", yearly: usd(2400), quarterly: usd(720)},
		// Enterprise is contact-sales only: no self-serve prices.
		{id: "enterprise", name: "Enterprise"},
	}

	for _, p := range seeds {
		_, err := db.Exec(`
			INSERT INTO plans (id, name, price_yearly_usd, price_quarterly_usd, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name,
			    price_yearly_usd = EXCLUDED.price_yearly_usd,
			    price_quarterly_usd = EXCLUDED.price_quarterly_usd,
			    updated_at = NOW()`,
			p.id, p.name, p.yearly, p.quarterly,
		)
		if err != nil {
			log.Fatalf("Failed to seed plan %s: %v", p.id, err)
		}
		fmt.Printf("✓ Seeded plan: %s\n", p.name)
	}
}
