package license

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store persists license keys and their audit trail.
type Store struct {
	db *sql.DB
}

// NewStore creates a new license store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreatePendingLicense inserts a new pending-payment license key and an
// audit row in one transaction, returning the created record. Every purchase
// attempt gets a fresh record; there is no dedup key, so a buyer who retries
// accumulates pending records that the sweeper later expires.
func (s *Store) CreatePendingLicense(ctx context.Context, planID, billingPeriod, buyerEmail, buyerName string) (*PendingLicense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	lic := &PendingLicense{
		ID:            uuid.NewString(),
		PlanID:        planID,
		BillingPeriod: billingPeriod,
		BuyerEmail:    buyerEmail,
		BuyerName:     buyerName,
		Status:        StatusPendingPayment,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO license_keys (
			id, plan_id, billing_period, buyer_email, buyer_name, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at`,
		lic.ID, lic.PlanID, lic.BillingPeriod, lic.BuyerEmail, lic.BuyerName, lic.Status,
	).Scan(&lic.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert license key: %w", err)
	}

	metadata := map[string]interface{}{
		"license_key_id": lic.ID,
		"plan_id":        planID,
		"billing_period": billingPeriod,
	}
	metadataJSON, _ := json.Marshal(metadata)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO license_log (
			license_key_id, event_type, description, metadata, created_at
		) VALUES ($1, $2, $3, $4, NOW())`,
		lic.ID, "license_created",
		fmt.Sprintf("Created pending %s license for plan %s", billingPeriod, planID),
		metadataJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to log license creation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return lic, nil
}

// ExpireStale marks pending-payment keys older than ttl as expired and
// returns how many were touched. Expired keys are inert; a payment
// confirmation arriving afterwards is handled by reconciliation, not here.
func (s *Store) ExpireStale(ctx context.Context, ttl time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE license_keys
		SET status = $1,
		    updated_at = NOW()
		WHERE status = $2
		  AND created_at < NOW() - $3::interval`,
		StatusExpired, StatusPendingPayment, fmt.Sprintf("%d seconds", int64(ttl.Seconds())),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale license keys: %w", err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count expired keys: %w", err)
	}

	if count > 0 {
		log.Info().
			Int64("expired", count).
			Dur("ttl", ttl).
			Msg("Expired stale pending license keys")
	}

	return count, nil
}
