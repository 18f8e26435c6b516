package state

import (
	"errors"
	"testing"
	"time"

	"telesim/pkg/botapi"
)

func newChatFixture() (*ChatStore, *Clock) {
	clock := NewClock(time.Unix(1_700_000_000, 0).UTC())

	return NewChatStore(clock, &Sequence{}), clock
}

// TestChatGetOrCreateDefaults verifies chat template defaults on first
// reference.
func TestChatGetOrCreateDefaults(t *testing.T) {
	t.Parallel()

	store, _ := newChatFixture()

	private := store.GetOrCreate(botapi.Chat{ID: 10})
	if private.Type != botapi.ChatTypePrivate {
		t.Fatalf("type = %q, want %q", private.Type, botapi.ChatTypePrivate)
	}
	if private.Permissions != nil {
		t.Fatalf("private permissions = %+v, want nil", private.Permissions)
	}

	group := store.GetOrCreate(botapi.Chat{ID: -20, Type: botapi.ChatTypeSupergroup, Title: "G"})
	if group.Permissions == nil || !group.Permissions.CanSendMessages {
		t.Fatalf("group permissions = %+v, want defaults", group.Permissions)
	}

	// Second reference returns the stored record, not the new template.
	again := store.GetOrCreate(botapi.Chat{ID: -20, Title: "Other"})
	if again.Title != "G" {
		t.Fatalf("title = %q, want %q", again.Title, "G")
	}
}

// TestChatResolveUsername verifies @username resolution.
func TestChatResolveUsername(t *testing.T) {
	t.Parallel()

	store, _ := newChatFixture()
	store.GetOrCreate(botapi.Chat{ID: -30, Type: botapi.ChatTypeChannel, Username: "SomeChannel"})

	chat, err := store.Resolve(botapi.UsernameChatID("@somechannel"))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if chat.ID != -30 {
		t.Fatalf("chat id = %d, want -30", chat.ID)
	}

	if _, err := store.Resolve(botapi.UsernameChatID("@missing")); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("resolve missing error = %v, want ErrChatNotFound", err)
	}
	if _, err := store.Resolve(botapi.NumericChatID(404)); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("resolve unknown id error = %v, want ErrChatNotFound", err)
	}
}

// TestChatMessageLog verifies message id assignment, lookup, and deletion.
func TestChatMessageLog(t *testing.T) {
	t.Parallel()

	store, clock := newChatFixture()
	chat := store.GetOrCreate(botapi.Chat{ID: -40, Type: botapi.ChatTypeGroup, Title: "log"})

	first, err := store.StoreMessage(chat.ID, botapi.Message{Text: "one"})
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}
	second, err := store.StoreMessage(chat.ID, botapi.Message{Text: "two"})
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if second.MessageID <= first.MessageID {
		t.Fatalf("message ids = %d then %d, want increasing", first.MessageID, second.MessageID)
	}
	if first.Date != clock.Unix() {
		t.Fatalf("date = %d, want %d", first.Date, clock.Unix())
	}

	got, err := store.Message(chat.ID, first.MessageID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.Text != "one" {
		t.Fatalf("text = %q, want %q", got.Text, "one")
	}

	if err := store.DeleteMessage(chat.ID, first.MessageID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Message(chat.ID, first.MessageID); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("lookup deleted error = %v, want ErrMessageNotFound", err)
	}
	if log := store.Messages(chat.ID); len(log) != 1 || log[0].MessageID != second.MessageID {
		t.Fatalf("log = %+v, want only the second message", log)
	}
}

// TestChatEditStampsEditDate verifies UpdateMessage side effects.
func TestChatEditStampsEditDate(t *testing.T) {
	t.Parallel()

	store, clock := newChatFixture()
	chat := store.GetOrCreate(botapi.Chat{ID: -41, Type: botapi.ChatTypeGroup})
	message, _ := store.StoreMessage(chat.ID, botapi.Message{Text: "before"})

	clock.Advance(time.Minute)

	edited, err := store.UpdateMessage(chat.ID, message.MessageID, func(m *botapi.Message) {
		m.Text = "after"
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if edited.Text != "after" {
		t.Fatalf("text = %q, want %q", edited.Text, "after")
	}
	if edited.EditDate != clock.Unix() {
		t.Fatalf("edit date = %d, want %d", edited.EditDate, clock.Unix())
	}
}

// TestChatPinSet verifies pin ordering and the zero-id unpin shorthand.
func TestChatPinSet(t *testing.T) {
	t.Parallel()

	store, _ := newChatFixture()
	chat := store.GetOrCreate(botapi.Chat{ID: -42, Type: botapi.ChatTypeGroup})
	first, _ := store.StoreMessage(chat.ID, botapi.Message{Text: "one"})
	second, _ := store.StoreMessage(chat.ID, botapi.Message{Text: "two"})

	if _, err := store.Pin(chat.ID, first.MessageID); err != nil {
		t.Fatalf("pin failed: %v", err)
	}
	if _, err := store.Pin(chat.ID, second.MessageID); err != nil {
		t.Fatalf("pin failed: %v", err)
	}
	// Repeat pin is idempotent.
	if _, err := store.Pin(chat.ID, first.MessageID); err != nil {
		t.Fatalf("repeat pin failed: %v", err)
	}
	if pinned := store.Pinned(chat.ID); len(pinned) != 2 {
		t.Fatalf("pinned count = %d, want 2", len(pinned))
	}

	// Zero message id unpins the most recent pin.
	if err := store.Unpin(chat.ID, 0); err != nil {
		t.Fatalf("unpin failed: %v", err)
	}
	pinned := store.Pinned(chat.ID)
	if len(pinned) != 1 || pinned[0].MessageID != first.MessageID {
		t.Fatalf("pinned = %+v, want only the first message", pinned)
	}

	if err := store.UnpinAll(chat.ID); err != nil {
		t.Fatalf("unpin all failed: %v", err)
	}
	if pinned := store.Pinned(chat.ID); len(pinned) != 0 {
		t.Fatalf("pinned after clear = %+v, want empty", pinned)
	}
}

// TestChatSlowModeWait verifies slow-mode delay accounting per sender.
func TestChatSlowModeWait(t *testing.T) {
	t.Parallel()

	store, clock := newChatFixture()
	chat := store.GetOrCreate(botapi.Chat{
		ID:            -43,
		Type:          botapi.ChatTypeSupergroup,
		SlowModeDelay: 30,
	})
	sender := botapi.User{ID: 10}

	if _, waiting := store.SlowModeWait(chat.ID, sender.ID, false); waiting {
		t.Fatal("expected no wait before the first send")
	}

	if _, err := store.StoreMessage(chat.ID, botapi.Message{From: &sender, Text: "x"}); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	wait, waiting := store.SlowModeWait(chat.ID, sender.ID, false)
	if !waiting {
		t.Fatal("expected a wait right after sending")
	}
	if wait != 30*time.Second {
		t.Fatalf("wait = %v, want 30s", wait)
	}

	if _, waiting := store.SlowModeWait(chat.ID, sender.ID, true); waiting {
		t.Fatal("expected exempt sender to never wait")
	}
	if _, waiting := store.SlowModeWait(chat.ID, 11, false); waiting {
		t.Fatal("expected another sender to be unaffected")
	}

	clock.Advance(30 * time.Second)
	if _, waiting := store.SlowModeWait(chat.ID, sender.ID, false); waiting {
		t.Fatal("expected no wait after the delay elapsed")
	}
}

// TestChatForumTopics verifies topic creation and the general topic.
func TestChatForumTopics(t *testing.T) {
	t.Parallel()

	store, _ := newChatFixture()
	chat := store.GetOrCreate(botapi.Chat{ID: -44, Type: botapi.ChatTypeSupergroup, IsForum: true})

	general, err := store.Topic(chat.ID, 1)
	if err != nil {
		t.Fatalf("general topic lookup failed: %v", err)
	}
	if !general.IsGeneral || general.Name != "General" {
		t.Fatalf("general topic = %+v, want the General topic", general)
	}

	topic, err := store.CreateTopic(chat.ID, "news", 0x6FB9F0, "")
	if err != nil {
		t.Fatalf("create topic failed: %v", err)
	}
	if topic.MessageThreadID <= 1 {
		t.Fatalf("thread id = %d, want above the general topic", topic.MessageThreadID)
	}

	mutated, err := store.MutateTopic(chat.ID, topic.MessageThreadID, func(ft *botapi.ForumTopic) {
		ft.IsClosed = true
	})
	if err != nil {
		t.Fatalf("mutate topic failed: %v", err)
	}
	if !mutated.IsClosed {
		t.Fatal("expected topic to be closed")
	}

	if err := store.DeleteTopic(chat.ID, topic.MessageThreadID); err != nil {
		t.Fatalf("delete topic failed: %v", err)
	}
	if _, err := store.Topic(chat.ID, topic.MessageThreadID); !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("deleted topic lookup error = %v, want ErrTopicNotFound", err)
	}
}
