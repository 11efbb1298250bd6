package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
)

// HistoryRepository writes the append-only cancel and refund audit trails.
// Rows are inserted exactly once per settlement action and never updated.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// InsertCancelHistory appends a cancellation record inside the settlement
// transaction
func (r *HistoryRepository) InsertCancelHistory(tx *sqlx.Tx, h *models.CancelHistory) error {
	query := `
		INSERT INTO cancel_history (booking_id, booking_reference, fee_amount, refund_amount, reason, actor)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := tx.QueryRowx(query,
		h.BookingID, h.BookingReference, h.FeeAmount, h.RefundAmount, h.Reason, h.Actor,
	).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record cancel history: %w", err)
	}

	return nil
}

// InsertRefundHistory appends a refund record inside the settlement
// transaction
func (r *HistoryRepository) InsertRefundHistory(tx *sqlx.Tx, h *models.RefundHistory) error {
	query := `
		INSERT INTO refund_history (booking_id, booking_reference, refund_amount, reason, actor)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := tx.QueryRowx(query,
		h.BookingID, h.BookingReference, h.RefundAmount, h.Reason, h.Actor,
	).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record refund history: %w", err)
	}

	return nil
}

// GetByBookingID returns both audit trails for a booking, newest first
func (r *HistoryRepository) GetByBookingID(bookingID string) (*models.BookingHistory, error) {
	history := &models.BookingHistory{
		Cancellations: []models.CancelHistory{},
		Refunds:       []models.RefundHistory{},
	}

	cancelQuery := `
		SELECT id, booking_id, booking_reference, fee_amount, refund_amount, reason, actor, created_at
		FROM cancel_history
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.Select(&history.Cancellations, cancelQuery, bookingID); err != nil {
		return nil, fmt.Errorf("failed to get cancel history: %w", err)
	}

	refundQuery := `
		SELECT id, booking_id, booking_reference, refund_amount, reason, actor, created_at
		FROM refund_history
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.Select(&history.Refunds, refundQuery, bookingID); err != nil {
		return nil, fmt.Errorf("failed to get refund history: %w", err)
	}

	return history, nil
}
