package state

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"telesim/pkg/botapi"
)

const inviteLinkPrefix = "https://t.me/+"

// InviteStore owns invite links, their usage counters, and pending join
// requests. Link validity is derived on use: not revoked, not past expiry,
// and under the member limit.
type InviteStore struct {
	mu      sync.Mutex
	clock   *Clock
	links   map[string]*linkRecord
	primary map[int64]string
}

type linkRecord struct {
	chatID  int64
	link    botapi.ChatInviteLink
	uses    int
	pending map[int64]*botapi.ChatJoinRequest
}

// NewInviteStore creates an empty invite link store bound to the shared
// clock.
func NewInviteStore(clock *Clock) *InviteStore {
	return &InviteStore{
		clock:   clock,
		links:   make(map[string]*linkRecord),
		primary: make(map[int64]string),
	}
}

// LinkParams carries the mutable invite link attributes.
type LinkParams struct {
	Name               string
	ExpireDate         int64
	MemberLimit        int
	CreatesJoinRequest bool
	SubscriptionPeriod int
	SubscriptionPrice  int
}

// Create mints a new secondary invite link for a chat.
func (s *InviteStore) Create(chatID int64, creator botapi.User, params LinkParams) botapi.ChatInviteLink {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createLocked(chatID, creator, params, false)
}

func (s *InviteStore) createLocked(chatID int64, creator botapi.User, params LinkParams, primary bool) botapi.ChatInviteLink {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	record := &linkRecord{
		chatID: chatID,
		link: botapi.ChatInviteLink{
			InviteLink:         inviteLinkPrefix + token,
			Creator:            &creator,
			IsPrimary:          primary,
			Name:               params.Name,
			ExpireDate:         params.ExpireDate,
			MemberLimit:        params.MemberLimit,
			CreatesJoinRequest: params.CreatesJoinRequest,
			SubscriptionPeriod: params.SubscriptionPeriod,
			SubscriptionPrice:  params.SubscriptionPrice,
		},
		pending: make(map[int64]*botapi.ChatJoinRequest),
	}
	s.links[record.link.InviteLink] = record

	return record.link
}

// ExportPrimary revokes the current primary link, mints a fresh one, and
// returns its URL.
func (s *InviteStore) ExportPrimary(chatID int64, creator botapi.User) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, exists := s.primary[chatID]; exists {
		if record, found := s.links[current]; found {
			record.link.IsRevoked = true
		}
	}
	link := s.createLocked(chatID, creator, LinkParams{}, true)
	s.primary[chatID] = link.InviteLink

	return link.InviteLink
}

// Get returns one link with its live pending-request count.
func (s *InviteStore) Get(url string) (botapi.ChatInviteLink, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.links[url]
	if !exists {
		return botapi.ChatInviteLink{}, 0, ErrLinkNotFound
	}

	return record.snapshot(), record.chatID, nil
}

// Edit replaces the mutable attributes of a non-revoked link.
func (s *InviteStore) Edit(url string, params LinkParams) (botapi.ChatInviteLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.links[url]
	if !exists {
		return botapi.ChatInviteLink{}, ErrLinkNotFound
	}
	if record.link.IsRevoked {
		return botapi.ChatInviteLink{}, ErrLinkRevoked
	}
	record.link.Name = params.Name
	record.link.ExpireDate = params.ExpireDate
	record.link.MemberLimit = params.MemberLimit
	record.link.CreatesJoinRequest = params.CreatesJoinRequest
	if params.SubscriptionPrice != 0 {
		record.link.SubscriptionPrice = params.SubscriptionPrice
	}

	return record.snapshot(), nil
}

// Revoke marks a link revoked; revoking is idempotent.
func (s *InviteStore) Revoke(url string) (botapi.ChatInviteLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.links[url]
	if !exists {
		return botapi.ChatInviteLink{}, ErrLinkNotFound
	}
	record.link.IsRevoked = true

	return record.snapshot(), nil
}

// Use consumes one join through the link after checking derived validity.
// Links that create join requests do not admit directly; the caller should
// register a join request instead.
func (s *InviteStore) Use(url string) (botapi.ChatInviteLink, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.links[url]
	if !exists {
		return botapi.ChatInviteLink{}, 0, ErrLinkNotFound
	}
	if record.link.IsRevoked {
		return botapi.ChatInviteLink{}, 0, ErrLinkRevoked
	}
	if record.link.ExpireDate != 0 && s.clock.Unix() >= record.link.ExpireDate {
		return botapi.ChatInviteLink{}, 0, ErrLinkExpired
	}
	if record.link.MemberLimit != 0 && record.uses >= record.link.MemberLimit {
		return botapi.ChatInviteLink{}, 0, ErrLinkLimitReached
	}
	record.uses++

	return record.snapshot(), record.chatID, nil
}

// AddJoinRequest registers a pending join request on the link.
func (s *InviteStore) AddJoinRequest(url string, request botapi.ChatJoinRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.links[url]
	if !exists {
		return ErrLinkNotFound
	}
	if request.From == nil {
		return ErrJoinRequestNotFound
	}
	record.pending[request.From.ID] = &request

	return nil
}

// ResolveJoinRequest removes the pending request for userID in chatID,
// returning it. Approved requests consume one link use; membership side
// effects belong to the caller.
func (s *InviteStore) ResolveJoinRequest(chatID, userID int64, approved bool) (botapi.ChatJoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.links {
		if record.chatID != chatID {
			continue
		}
		if request, found := record.pending[userID]; found {
			delete(record.pending, userID)
			if approved {
				record.uses++
			}
			return *request, nil
		}
	}

	return botapi.ChatJoinRequest{}, ErrJoinRequestNotFound
}

func (r *linkRecord) snapshot() botapi.ChatInviteLink {
	link := r.link
	link.PendingJoinRequestCount = len(r.pending)

	return link
}
