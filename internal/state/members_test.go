package state

import (
	"errors"
	"testing"
	"time"

	"telesim/pkg/botapi"
)

const memberTestChatID int64 = -100200300

func newMemberFixture() (*MemberStore, *Clock) {
	clock := NewClock(time.Unix(1_700_000_000, 0).UTC())

	return NewMemberStore(clock), clock
}

// TestMemberBanAndUnban verifies the kicked to left transition.
func TestMemberBanAndUnban(t *testing.T) {
	t.Parallel()

	store, _ := newMemberFixture()
	user := botapi.User{ID: 10, FirstName: "Alice"}
	store.EnsureMember(memberTestChatID, user)

	if err := store.Ban(memberTestChatID, user, time.Time{}); err != nil {
		t.Fatalf("ban failed: %v", err)
	}
	if got := store.Status(memberTestChatID, user.ID); got != botapi.MemberStatusKicked {
		t.Fatalf("status after ban = %q, want %q", got, botapi.MemberStatusKicked)
	}

	if err := store.Join(memberTestChatID, user); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("join while banned error = %v, want ErrInvalidTransition", err)
	}

	if err := store.Unban(memberTestChatID, user.ID); err != nil {
		t.Fatalf("unban failed: %v", err)
	}
	if got := store.Status(memberTestChatID, user.ID); got != botapi.MemberStatusLeft {
		t.Fatalf("status after unban = %q, want %q", got, botapi.MemberStatusLeft)
	}
}

// TestMemberTemporaryBanExpires verifies expiry on read.
func TestMemberTemporaryBanExpires(t *testing.T) {
	t.Parallel()

	store, clock := newMemberFixture()
	user := botapi.User{ID: 10}
	store.EnsureMember(memberTestChatID, user)

	until := clock.Now().Add(time.Hour)
	if err := store.Ban(memberTestChatID, user, until); err != nil {
		t.Fatalf("ban failed: %v", err)
	}

	member, _ := store.Get(memberTestChatID, user.ID)
	if member.UntilDate != until.Unix() {
		t.Fatalf("until date = %d, want %d", member.UntilDate, until.Unix())
	}

	clock.Advance(time.Hour + time.Second)

	if got := store.Status(memberTestChatID, user.ID); got != botapi.MemberStatusLeft {
		t.Fatalf("status after expiry = %q, want %q", got, botapi.MemberStatusLeft)
	}
	if err := store.Join(memberTestChatID, user); err != nil {
		t.Fatalf("join after ban expiry failed: %v", err)
	}
}

// TestMemberRestrictionExpires verifies restriction revert on read.
func TestMemberRestrictionExpires(t *testing.T) {
	t.Parallel()

	store, clock := newMemberFixture()
	user := botapi.User{ID: 10}
	store.EnsureMember(memberTestChatID, user)

	permissions := botapi.ChatPermissions{CanSendMessages: false}
	if err := store.Restrict(memberTestChatID, user.ID, permissions, clock.Now().Add(time.Minute)); err != nil {
		t.Fatalf("restrict failed: %v", err)
	}

	member, _ := store.Get(memberTestChatID, user.ID)
	if member.Status != botapi.MemberStatusRestricted {
		t.Fatalf("status = %q, want %q", member.Status, botapi.MemberStatusRestricted)
	}
	if member.Permissions == nil || member.Permissions.CanSendMessages {
		t.Fatalf("permissions = %+v, want send disabled", member.Permissions)
	}

	clock.Advance(2 * time.Minute)

	member, _ = store.Get(memberTestChatID, user.ID)
	if member.Status != botapi.MemberStatusMember {
		t.Fatalf("status after expiry = %q, want %q", member.Status, botapi.MemberStatusMember)
	}
	if member.Permissions != nil {
		t.Fatalf("permissions after expiry = %+v, want nil", member.Permissions)
	}
}

// TestMemberPromoteAndDemote verifies the administrator transitions.
func TestMemberPromoteAndDemote(t *testing.T) {
	t.Parallel()

	store, _ := newMemberFixture()
	user := botapi.User{ID: 10}
	store.EnsureMember(memberTestChatID, user)

	rights := botapi.ChatAdministratorRights{CanManageChat: true, CanRestrictMembers: true}
	if err := store.Promote(memberTestChatID, user.ID, rights); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	member, _ := store.Get(memberTestChatID, user.ID)
	if member.Status != botapi.MemberStatusAdministrator {
		t.Fatalf("status = %q, want %q", member.Status, botapi.MemberStatusAdministrator)
	}
	if member.Rights == nil || !member.Rights.CanRestrictMembers {
		t.Fatalf("rights = %+v, want restrict right", member.Rights)
	}

	// Empty rights demote back to member.
	if err := store.Promote(memberTestChatID, user.ID, botapi.ChatAdministratorRights{}); err != nil {
		t.Fatalf("demote failed: %v", err)
	}
	if got := store.Status(memberTestChatID, user.ID); got != botapi.MemberStatusMember {
		t.Fatalf("status after demote = %q, want %q", got, botapi.MemberStatusMember)
	}
}

// TestMemberCreatorIsProtected verifies creator transition guards.
func TestMemberCreatorIsProtected(t *testing.T) {
	t.Parallel()

	store, _ := newMemberFixture()
	owner := botapi.User{ID: 1}
	store.SetCreator(memberTestChatID, owner)

	if err := store.Ban(memberTestChatID, owner, time.Time{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ban creator error = %v, want ErrInvalidTransition", err)
	}
	if err := store.Promote(memberTestChatID, owner.ID, botapi.ChatAdministratorRights{CanManageChat: true}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("promote creator error = %v, want ErrInvalidTransition", err)
	}
	if err := store.Restrict(memberTestChatID, owner.ID, botapi.ChatPermissions{}, time.Time{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("restrict creator error = %v, want ErrInvalidTransition", err)
	}
}

// TestMemberCountAndAdministrators verifies participant accounting and admin
// ordering.
func TestMemberCountAndAdministrators(t *testing.T) {
	t.Parallel()

	store, _ := newMemberFixture()
	store.SetCreator(memberTestChatID, botapi.User{ID: 5})
	store.EnsureMember(memberTestChatID, botapi.User{ID: 10})
	store.EnsureMember(memberTestChatID, botapi.User{ID: 11})
	store.EnsureMember(memberTestChatID, botapi.User{ID: 12})
	if err := store.Promote(memberTestChatID, 11, botapi.ChatAdministratorRights{CanManageChat: true}); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if err := store.Ban(memberTestChatID, botapi.User{ID: 12}, time.Time{}); err != nil {
		t.Fatalf("ban failed: %v", err)
	}
	// Membership in another chat must not leak into the count.
	store.EnsureMember(memberTestChatID+1, botapi.User{ID: 99})

	if got := store.Count(memberTestChatID); got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}

	admins := store.Administrators(memberTestChatID)
	if len(admins) != 2 {
		t.Fatalf("admin count = %d, want 2", len(admins))
	}
	if admins[0].Status != botapi.MemberStatusCreator || admins[0].User.ID != 5 {
		t.Fatalf("admins[0] = %+v, want creator 5", admins[0])
	}
	if admins[1].User.ID != 11 {
		t.Fatalf("admins[1].User.ID = %d, want 11", admins[1].User.ID)
	}
}

// TestMemberRestrictTracksMembership verifies that restricting a user who
// already left the chat reports a non-member restriction, while restricting a
// present member keeps them a member.
func TestMemberRestrictTracksMembership(t *testing.T) {
	t.Parallel()

	store, _ := newMemberFixture()
	user := botapi.User{ID: 10}
	store.EnsureMember(memberTestChatID, user)

	if err := store.Restrict(memberTestChatID, user.ID, botapi.ChatPermissions{}, time.Time{}); err != nil {
		t.Fatalf("restrict failed: %v", err)
	}
	member, _ := store.Get(memberTestChatID, user.ID)
	if !member.IsMember {
		t.Fatalf("is_member after restricting a member = false, want true")
	}

	if err := store.Ban(memberTestChatID, user, time.Time{}); err != nil {
		t.Fatalf("ban failed: %v", err)
	}
	if err := store.Unban(memberTestChatID, user.ID); err != nil {
		t.Fatalf("unban failed: %v", err)
	}
	if err := store.Restrict(memberTestChatID, user.ID, botapi.ChatPermissions{}, time.Time{}); err != nil {
		t.Fatalf("restrict failed: %v", err)
	}
	member, _ = store.Get(memberTestChatID, user.ID)
	if member.Status != botapi.MemberStatusRestricted {
		t.Fatalf("status = %q, want %q", member.Status, botapi.MemberStatusRestricted)
	}
	if member.IsMember {
		t.Fatalf("is_member after restricting a departed user = true, want false")
	}
}

// TestMemberCustomTitleRequiresAdministrator verifies the custom title guard.
func TestMemberCustomTitleRequiresAdministrator(t *testing.T) {
	t.Parallel()

	store, _ := newMemberFixture()
	store.EnsureMember(memberTestChatID, botapi.User{ID: 10})

	if err := store.SetCustomTitle(memberTestChatID, 10, "chief"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("custom title on member error = %v, want ErrInvalidTransition", err)
	}

	if err := store.Promote(memberTestChatID, 10, botapi.ChatAdministratorRights{CanManageChat: true}); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if err := store.SetCustomTitle(memberTestChatID, 10, "chief"); err != nil {
		t.Fatalf("custom title failed: %v", err)
	}
	member, _ := store.Get(memberTestChatID, 10)
	if member.CustomTitle != "chief" {
		t.Fatalf("custom title = %q, want %q", member.CustomTitle, "chief")
	}
}
