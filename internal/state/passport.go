package state

import (
	"sync"

	"telesim/pkg/botapi"
)

// PassportStore owns per-user passport submissions and the element errors a
// bot reports back.
type PassportStore struct {
	mu          sync.Mutex
	submissions map[int64][]botapi.EncryptedPassportElement
	errors      map[int64][]botapi.PassportElementError
}

// NewPassportStore creates an empty passport submission store.
func NewPassportStore() *PassportStore {
	return &PassportStore{
		submissions: make(map[int64][]botapi.EncryptedPassportElement),
		errors:      make(map[int64][]botapi.PassportElementError),
	}
}

// Submit records a user's passport data, replacing any prior submission and
// clearing previously reported errors.
func (s *PassportStore) Submit(userID int64, elements []botapi.EncryptedPassportElement) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submissions[userID] = append([]botapi.EncryptedPassportElement(nil), elements...)
	delete(s.errors, userID)
}

// Submission returns the user's current passport data.
func (s *PassportStore) Submission(userID int64) ([]botapi.EncryptedPassportElement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elements, exists := s.submissions[userID]
	if !exists {
		return nil, false
	}

	return append([]botapi.EncryptedPassportElement(nil), elements...), true
}

// SetErrors records element errors against a user's submission.
func (s *PassportStore) SetErrors(userID int64, elementErrors []botapi.PassportElementError) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.submissions[userID]; !exists {
		return ErrMemberNotFound
	}
	s.errors[userID] = append([]botapi.PassportElementError(nil), elementErrors...)

	return nil
}

// Errors returns the element errors currently recorded for a user.
func (s *PassportStore) Errors(userID int64) []botapi.PassportElementError {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]botapi.PassportElementError(nil), s.errors[userID]...)
}
