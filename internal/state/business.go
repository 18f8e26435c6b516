package state

import (
	"sync"

	"github.com/google/uuid"

	"telesim/pkg/botapi"
)

// BusinessStore owns business connections and the reply permission each one
// grants the bot.
type BusinessStore struct {
	mu          sync.Mutex
	clock       *Clock
	connections map[string]*botapi.BusinessConnection
}

// NewBusinessStore creates an empty business connection store bound to the
// shared clock.
func NewBusinessStore(clock *Clock) *BusinessStore {
	return &BusinessStore{
		clock:       clock,
		connections: make(map[string]*botapi.BusinessConnection),
	}
}

// Connect registers an enabled connection for user and returns it.
func (s *BusinessStore) Connect(user botapi.User, canReply bool) botapi.BusinessConnection {
	s.mu.Lock()
	defer s.mu.Unlock()

	connection := &botapi.BusinessConnection{
		ID:         uuid.NewString(),
		User:       &user,
		UserChatID: user.ID,
		Date:       s.clock.Unix(),
		CanReply:   canReply,
		IsEnabled:  true,
	}
	s.connections[connection.ID] = connection

	return *connection
}

// Disable flips a connection to disabled and returns the new state.
func (s *BusinessStore) Disable(connectionID string) (botapi.BusinessConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	connection, exists := s.connections[connectionID]
	if !exists {
		return botapi.BusinessConnection{}, ErrConnectionNotFound
	}
	connection.IsEnabled = false

	return *connection, nil
}

// Get returns one connection by id.
func (s *BusinessStore) Get(connectionID string) (botapi.BusinessConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	connection, exists := s.connections[connectionID]
	if !exists {
		return botapi.BusinessConnection{}, ErrConnectionNotFound
	}

	return *connection, nil
}
