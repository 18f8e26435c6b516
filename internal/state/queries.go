package state

import "sync"

// QueryKind identifies the pending query family.
type QueryKind string

const (
	// QueryKindCallback is an inline keyboard callback query.
	QueryKindCallback QueryKind = "callback"
	// QueryKindInline is an inline mode query.
	QueryKindInline QueryKind = "inline"
	// QueryKindShipping is a shipping options query.
	QueryKindShipping QueryKind = "shipping"
	// QueryKindPreCheckout is a checkout confirmation query.
	QueryKindPreCheckout QueryKind = "pre_checkout"
)

// QueryStore tracks pending callback/inline/payment queries. A query exists
// until answered; afterwards only the audit record remains.
type QueryStore struct {
	mu      sync.Mutex
	pending map[queryKey]*queryRecord
}

type queryKey struct {
	kind QueryKind
	id   string
}

type queryRecord struct {
	answered bool
	answer   any
	userID   int64
	payload  any
}

// NewQueryStore creates an empty pending query store.
func NewQueryStore() *QueryStore {
	return &QueryStore{pending: make(map[queryKey]*queryRecord)}
}

// Register records a freshly minted query as pending.
func (s *QueryStore) Register(kind QueryKind, id string, userID int64, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[queryKey{kind, id}] = &queryRecord{userID: userID, payload: payload}
}

// Answer marks a query answered, capturing the answer payload for later
// assertions. Answering twice or answering an unknown id fails.
func (s *QueryStore) Answer(kind QueryKind, id string, answer any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.pending[queryKey{kind, id}]
	if !exists {
		return ErrQueryNotFound
	}
	if record.answered {
		return ErrQueryAnswered
	}
	record.answered = true
	record.answer = answer

	return nil
}

// Answered reports whether a query was answered and with what payload.
func (s *QueryStore) Answered(kind QueryKind, id string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.pending[queryKey{kind, id}]
	if !exists || !record.answered {
		return nil, false
	}

	return record.answer, true
}

// Payload returns the original query payload registered for id.
func (s *QueryStore) Payload(kind QueryKind, id string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.pending[queryKey{kind, id}]
	if !exists {
		return nil, false
	}

	return record.payload, true
}
