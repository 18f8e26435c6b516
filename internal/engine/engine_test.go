package engine

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"telesim/internal/state"
	"telesim/pkg/botapi"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestDispatchUnknownMethod verifies unknown method names produce the
// platform's 404 envelope.
func TestDispatchUnknownMethod(t *testing.T) {
	t.Parallel()

	e := newTestEngine()

	_, err := e.Do(context.Background(), "sendTimeMachine", nil)
	wantAPIError(t, err, 404, "Not Found: method not found")
}

// TestDispatchIsCaseInsensitive verifies method names dispatch regardless of
// casing.
func TestDispatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	e := newTestEngine()

	result, err := e.Do(context.Background(), "GETME", nil)
	if err != nil {
		t.Fatalf("GETME failed: %v", err)
	}
	bot, ok := result.(botapi.User)
	if !ok {
		t.Fatalf("result type = %T, want botapi.User", result)
	}
	if bot.ID != e.Bot().ID {
		t.Fatalf("bot id = %d, want %d", bot.ID, e.Bot().ID)
	}
}

// TestDispatchRecoversPanic verifies a panicking handler surfaces as an
// internal error instead of crashing the caller.
func TestDispatchRecoversPanic(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	e.handlers["boom"] = func(context.Context, *Invocation, json.RawMessage) (any, error) {
		panic("handler exploded")
	}

	_, err := e.Do(context.Background(), "boom", nil)
	wantAPIError(t, err, 500, "Internal Server Error")
}

// TestDispatchRejectsMalformedPayload verifies broken JSON is reported as a
// parse failure.
func TestDispatchRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	e := newTestEngine()

	_, err := e.Do(context.Background(), "sendMessage", json.RawMessage(`{"chat_id":`))
	wantAPIError(t, err, 400, "can't parse request")
}

// TestAdvanceClock verifies clock advancement is visible through the engine.
func TestAdvanceClock(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	before := e.Clock().Unix()

	moved := e.AdvanceClock(90 * time.Second)
	if got := moved.Unix() - before; got != 90 {
		t.Fatalf("advance delta = %d, want 90", got)
	}
	if got := e.Clock().Unix() - before; got != 90 {
		t.Fatalf("clock delta = %d, want 90", got)
	}
}

// TestSentinelErrorMapping verifies state sentinels translate into
// platform-phrased envelopes.
func TestSentinelErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantKind botapi.ErrorKind
		wantDesc string
	}{
		{
			name:     "chat not found",
			err:      state.ErrChatNotFound,
			wantKind: botapi.ErrorKindNotFound,
			wantDesc: "Bad Request: chat not found",
		},
		{
			name:     "message not found",
			err:      state.ErrMessageNotFound,
			wantKind: botapi.ErrorKindNotFound,
			wantDesc: "Bad Request: message to edit/delete not found",
		},
		{
			name:     "poll not found",
			err:      state.ErrPollNotFound,
			wantKind: botapi.ErrorKindNotFound,
			wantDesc: "Bad Request: poll not found",
		},
		{
			name:     "link revoked",
			err:      state.ErrLinkRevoked,
			wantKind: botapi.ErrorKindValidation,
			wantDesc: "Bad Request: invite link has been revoked",
		},
		{
			name:     "query answered",
			err:      state.ErrQueryAnswered,
			wantKind: botapi.ErrorKindValidation,
			wantDesc: "Bad Request: query has already been answered",
		},
		{
			name:     "invalid transition keeps detail",
			err:      state.ErrInvalidTransition,
			wantKind: botapi.ErrorKindValidation,
			wantDesc: "Bad Request: invalid member status transition",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := toAPIError(testCase.err)
			if got.Kind != testCase.wantKind {
				t.Fatalf("kind = %q, want %q", got.Kind, testCase.wantKind)
			}
			if got.Code != 400 {
				t.Fatalf("code = %d, want 400", got.Code)
			}
			if got.Description != testCase.wantDesc {
				t.Fatalf("description = %q, want %q", got.Description, testCase.wantDesc)
			}
		})
	}
}

// TestAPIErrorPassthrough verifies already-shaped platform errors are not
// rewrapped.
func TestAPIErrorPassthrough(t *testing.T) {
	t.Parallel()

	original := botapi.NewRateLimitError(7)
	if got := toAPIError(original); got != original {
		t.Fatalf("passthrough returned %v, want the original error", got)
	}
}

func newTestEngine(options ...Option) *Engine {
	base := []Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}

	return New(botapi.User{ID: 1, IsBot: true, FirstName: "Sim", Username: "sim_bot"}, append(base, options...)...)
}

// seedPrivateChat registers a private chat with the given actor.
func seedPrivateChat(e *Engine, user botapi.User) botapi.Chat {
	chat := e.chats.GetOrCreate(botapi.Chat{
		ID:        user.ID,
		Type:      botapi.ChatTypePrivate,
		FirstName: user.FirstName,
		Username:  user.Username,
	})
	e.members.EnsureMember(chat.ID, user)

	return chat
}

// seedGroupChat registers a non-private chat and optionally adds the bot as a
// plain member.
func seedGroupChat(e *Engine, template botapi.Chat, botIsMember bool) botapi.Chat {
	chat := e.chats.GetOrCreate(template)
	if botIsMember {
		e.members.EnsureMember(chat.ID, e.bot)
	}

	return chat
}

func wantAPIError(t *testing.T, err error, code int, contains string) {
	t.Helper()

	apiErr, ok := botapi.AsError(err)
	if !ok {
		t.Fatalf("error = %v, want *botapi.Error", err)
	}
	if apiErr.Code != code {
		t.Fatalf("error code = %d, want %d (description %q)", apiErr.Code, code, apiErr.Description)
	}
	if !strings.Contains(apiErr.Description, contains) {
		t.Fatalf("description = %q, want substring %q", apiErr.Description, contains)
	}
}
