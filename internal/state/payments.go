package state

import (
	"sync"

	"github.com/google/uuid"

	"telesim/pkg/botapi"
)

// PaymentStore owns the bot's payment ledger: completed charges and their
// refund state. Settlement is modeled only to the level a bot observes.
type PaymentStore struct {
	mu      sync.Mutex
	clock   *Clock
	charges map[string]*chargeRecord
	order   []string
}

type chargeRecord struct {
	transaction botapi.StarTransaction
}

// NewPaymentStore creates an empty payment ledger bound to the shared clock.
func NewPaymentStore(clock *Clock) *PaymentStore {
	return &PaymentStore{
		clock:   clock,
		charges: make(map[string]*chargeRecord),
	}
}

// Charge records a completed payment by userID and returns the minted charge
// identifier.
func (s *PaymentStore) Charge(userID int64, amount int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	chargeID := uuid.NewString()
	s.charges[chargeID] = &chargeRecord{
		transaction: botapi.StarTransaction{
			ID:     chargeID,
			Amount: amount,
			Date:   s.clock.Unix(),
			UserID: userID,
		},
	}
	s.order = append(s.order, chargeID)

	return chargeID
}

// Refund marks a charge refunded. Refunding twice or refunding another
// user's charge fails.
func (s *PaymentStore) Refund(userID int64, chargeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.charges[chargeID]
	if !exists || record.transaction.UserID != userID {
		return ErrChargeNotFound
	}
	if record.transaction.Refunded {
		return ErrChargeRefunded
	}
	record.transaction.Refunded = true

	return nil
}

// Transactions returns a page of the ledger, oldest first.
func (s *PaymentStore) Transactions(offset, limit int) []botapi.StarTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(s.order) {
		return nil
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	end := min(offset+limit, len(s.order))

	page := make([]botapi.StarTransaction, 0, end-offset)
	for _, chargeID := range s.order[offset:end] {
		page = append(page, s.charges[chargeID].transaction)
	}

	return page
}
