package state

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"telesim/pkg/botapi"
)

// MemberStore owns every (chat, user) membership record and enforces the
// status state machine. Restriction and temporary-ban expiry is polled: any
// read consults the clock and auto-reverts expired states before returning.
type MemberStore struct {
	mu      sync.Mutex
	clock   *Clock
	members map[memberKey]*memberRecord
}

type memberKey struct {
	chatID int64
	userID int64
}

type memberRecord struct {
	user        botapi.User
	status      botapi.MemberStatus
	rights      *botapi.ChatAdministratorRights
	permissions *botapi.ChatPermissions
	customTitle string
	isMember    bool
	until       time.Time
}

// NewMemberStore creates an empty membership store bound to the shared clock.
func NewMemberStore(clock *Clock) *MemberStore {
	return &MemberStore{
		clock:   clock,
		members: make(map[memberKey]*memberRecord),
	}
}

// Get returns the flattened membership record, applying expiry first.
func (s *MemberStore) Get(chatID, userID int64) (botapi.ChatMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.members[memberKey{chatID, userID}]
	if !exists {
		return botapi.ChatMember{}, false
	}
	s.expireLocked(record)

	return record.flatten(), true
}

// Status returns just the membership status, applying expiry first. Users
// with no record are reported as left.
func (s *MemberStore) Status(chatID, userID int64) botapi.MemberStatus {
	member, exists := s.Get(chatID, userID)
	if !exists {
		return botapi.MemberStatusLeft
	}

	return member.Status
}

// expireLocked reverts an expired restriction to member and an expired
// temporary ban to left.
func (s *MemberStore) expireLocked(record *memberRecord) {
	if record.until.IsZero() || s.clock.Now().Before(record.until) {
		return
	}
	switch record.status {
	case botapi.MemberStatusRestricted:
		record.status = botapi.MemberStatusMember
		record.permissions = nil
		record.isMember = false
	case botapi.MemberStatusKicked:
		record.status = botapi.MemberStatusLeft
	}
	record.until = time.Time{}
}

// EnsureMember records userID as a plain member unless a record already
// exists. Simulated actor actions imply membership for their sender.
func (s *MemberStore) EnsureMember(chatID int64, user botapi.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{chatID, user.ID}
	if record, exists := s.members[key]; exists {
		s.expireLocked(record)
		record.user = user
		return
	}
	s.members[key] = &memberRecord{user: user, status: botapi.MemberStatusMember}
}

// SetCreator marks user as the chat owner.
func (s *MemberStore) SetCreator(chatID int64, user botapi.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members[memberKey{chatID, user.ID}] = &memberRecord{
		user:   user,
		status: botapi.MemberStatusCreator,
	}
}

// Promote turns a present member into an administrator with the given
// rights. Promoting with empty rights demotes an administrator back to
// member, matching the wire semantics of promoteChatMember.
func (s *MemberStore) Promote(chatID, userID int64, rights botapi.ChatAdministratorRights) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.members[memberKey{chatID, userID}]
	if !exists {
		return ErrMemberNotFound
	}
	s.expireLocked(record)

	switch record.status {
	case botapi.MemberStatusCreator:
		return fmt.Errorf("%w: creator cannot be promoted", ErrInvalidTransition)
	case botapi.MemberStatusLeft, botapi.MemberStatusKicked:
		return fmt.Errorf("%w: user is not a participant", ErrInvalidTransition)
	}

	if rights == (botapi.ChatAdministratorRights{}) {
		record.status = botapi.MemberStatusMember
		record.rights = nil
		record.customTitle = ""
		return nil
	}
	record.status = botapi.MemberStatusAdministrator
	record.rights = &rights
	record.permissions = nil
	record.until = time.Time{}

	return nil
}

// SetCustomTitle sets the administrator custom title.
func (s *MemberStore) SetCustomTitle(chatID, userID int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.members[memberKey{chatID, userID}]
	if !exists {
		return ErrMemberNotFound
	}
	s.expireLocked(record)
	if record.status != botapi.MemberStatusAdministrator && record.status != botapi.MemberStatusCreator {
		return fmt.Errorf("%w: user is not an administrator", ErrInvalidTransition)
	}
	record.customTitle = title

	return nil
}

// Restrict places a member under a permission override until the given
// instant. A zero until means the restriction never expires on its own.
func (s *MemberStore) Restrict(chatID, userID int64, permissions botapi.ChatPermissions, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.members[memberKey{chatID, userID}]
	if !exists {
		return ErrMemberNotFound
	}
	s.expireLocked(record)

	switch record.status {
	case botapi.MemberStatusCreator, botapi.MemberStatusAdministrator:
		return fmt.Errorf("%w: administrators cannot be restricted", ErrInvalidTransition)
	case botapi.MemberStatusKicked:
		return fmt.Errorf("%w: user is banned", ErrInvalidTransition)
	}

	wasMember := record.status != botapi.MemberStatusLeft
	record.status = botapi.MemberStatusRestricted
	record.permissions = &permissions
	record.isMember = wasMember
	record.until = until

	return nil
}

// Unrestrict lifts a restriction, reverting the user to plain member.
func (s *MemberStore) Unrestrict(chatID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.members[memberKey{chatID, userID}]
	if !exists {
		return ErrMemberNotFound
	}
	if record.status != botapi.MemberStatusRestricted {
		return nil
	}
	record.status = botapi.MemberStatusMember
	record.permissions = nil
	record.isMember = false
	record.until = time.Time{}

	return nil
}

// Ban kicks a user. A non-zero until makes the ban temporary; expiry is
// observed on the next read.
func (s *MemberStore) Ban(chatID int64, user botapi.User, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{chatID, user.ID}
	record, exists := s.members[key]
	if !exists {
		record = &memberRecord{user: user, status: botapi.MemberStatusLeft}
		s.members[key] = record
	}
	s.expireLocked(record)
	if record.status == botapi.MemberStatusCreator {
		return fmt.Errorf("%w: creator cannot be banned", ErrInvalidTransition)
	}

	record.status = botapi.MemberStatusKicked
	record.rights = nil
	record.permissions = nil
	record.until = until

	return nil
}

// Unban lifts a ban, leaving the user outside the chat with status left.
func (s *MemberStore) Unban(chatID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.members[memberKey{chatID, userID}]
	if !exists {
		return nil
	}
	if record.status == botapi.MemberStatusKicked {
		record.status = botapi.MemberStatusLeft
		record.until = time.Time{}
	}

	return nil
}

// Join moves a left (or absent) user to member. Banned users cannot join
// until their ban expires or is lifted.
func (s *MemberStore) Join(chatID int64, user botapi.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{chatID, user.ID}
	record, exists := s.members[key]
	if !exists {
		s.members[key] = &memberRecord{user: user, status: botapi.MemberStatusMember}
		return nil
	}
	s.expireLocked(record)
	if record.status == botapi.MemberStatusKicked {
		return fmt.Errorf("%w: user is banned", ErrInvalidTransition)
	}
	if record.status == botapi.MemberStatusLeft {
		record.status = botapi.MemberStatusMember
	}
	record.user = user

	return nil
}

// Leave moves a participating user to left.
func (s *MemberStore) Leave(chatID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.members[memberKey{chatID, userID}]
	if !exists {
		return ErrMemberNotFound
	}
	s.expireLocked(record)
	switch record.status {
	case botapi.MemberStatusKicked, botapi.MemberStatusLeft:
		return fmt.Errorf("%w: user is not a participant", ErrInvalidTransition)
	}
	record.status = botapi.MemberStatusLeft
	record.rights = nil
	record.permissions = nil
	record.until = time.Time{}

	return nil
}

// Count reports how many users currently participate in the chat.
func (s *MemberStore) Count(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key, record := range s.members {
		if key.chatID != chatID {
			continue
		}
		s.expireLocked(record)
		switch record.status {
		case botapi.MemberStatusCreator, botapi.MemberStatusAdministrator, botapi.MemberStatusMember:
			count++
		case botapi.MemberStatusRestricted:
			if record.isMember {
				count++
			}
		}
	}

	return count
}

// Administrators returns the creator and administrators of a chat, creator
// first, then by user id for determinism.
func (s *MemberStore) Administrators(chatID int64) []botapi.ChatMember {
	s.mu.Lock()
	defer s.mu.Unlock()

	admins := make([]botapi.ChatMember, 0, 4)
	for key, record := range s.members {
		if key.chatID != chatID {
			continue
		}
		s.expireLocked(record)
		if record.status == botapi.MemberStatusCreator || record.status == botapi.MemberStatusAdministrator {
			admins = append(admins, record.flatten())
		}
	}
	sort.Slice(admins, func(i, j int) bool {
		if (admins[i].Status == botapi.MemberStatusCreator) != (admins[j].Status == botapi.MemberStatusCreator) {
			return admins[i].Status == botapi.MemberStatusCreator
		}
		return admins[i].User.ID < admins[j].User.ID
	})

	return admins
}

func (r *memberRecord) flatten() botapi.ChatMember {
	member := botapi.ChatMember{
		Status:      r.status,
		CustomTitle: r.customTitle,
	}
	user := r.user
	member.User = &user
	if !r.until.IsZero() {
		member.UntilDate = r.until.Unix()
	}
	if r.rights != nil {
		rights := *r.rights
		member.Rights = &rights
	}
	if r.permissions != nil {
		permissions := *r.permissions
		member.Permissions = &permissions
	}
	if r.status == botapi.MemberStatusRestricted {
		member.IsMember = r.isMember
	}

	return member
}
