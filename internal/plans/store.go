package plans

import (
	"context"
	"database/sql"
	"fmt"
)

// Store provides read access to the plan catalog.
type Store struct {
	db *sql.DB
}

// NewStore creates a new plan catalog store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindPlanByID loads a plan from the catalog. Returns ErrNotFound when the
// id has no entry.
func (s *Store) FindPlanByID(ctx context.Context, id string) (*Plan, error) {
	var plan Plan
	var yearly, quarterly sql.NullFloat64

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, price_yearly_usd, price_quarterly_usd
		FROM plans
		WHERE id = $1`,
		id,
	).Scan(&plan.ID, &plan.Name, &yearly, &quarterly)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query plan %s: %w", id, err)
	}

	if yearly.Valid {
		plan.PriceYearlyUSD = &yearly.Float64
	}
	if quarterly.Valid {
		plan.PriceQuarterlyUSD = &quarterly.Float64
	}

	return &plan, nil
}

// ListPlans returns the full catalog ordered by name, for the purchase UI.
func (s *Store) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price_yearly_usd, price_quarterly_usd
		FROM plans
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var result []Plan
	for rows.Next() {
		var plan Plan
		var yearly, quarterly sql.NullFloat64
		if err := rows.Scan(&plan.ID, &plan.Name, &yearly, &quarterly); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		if yearly.Valid {
			plan.PriceYearlyUSD = &yearly.Float64
		}
		if quarterly.Valid {
			plan.PriceQuarterlyUSD = &quarterly.Float64
		}
		result = append(result, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}

	return result, nil
}
