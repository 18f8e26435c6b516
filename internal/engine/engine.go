// Package engine is the protocol dispatch core of the simulated platform.
// It holds every domain state manager, exposes one entry point taking a
// method name and payload, and returns platform-shaped results or errors.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"telesim/internal/state"
	"telesim/pkg/botapi"
)

// handlerFunc executes one API method against engine state.
type handlerFunc func(ctx context.Context, inv *Invocation, payload json.RawMessage) (any, error)

// Engine simulates the platform backend for one bot. All state is scoped to
// the instance; independent simulations can coexist in one process.
type Engine struct {
	cfg config

	logger *slog.Logger
	bot    botapi.User

	clock    *state.Clock
	seq      *state.Sequence
	chats    *state.ChatStore
	members  *state.MemberStore
	invites  *state.InviteStore
	polls    *state.PollStore
	files    *state.FileStore
	stickers *state.StickerStore
	business *state.BusinessStore
	payments *state.PaymentStore
	passport *state.PassportStore
	queries  *state.QueryStore

	queue    *updateQueue
	throttle *rate.Limiter
	handlers map[string]handlerFunc

	// mu serializes every mutating API call so no call observes a
	// half-applied cross-store mutation.
	mu        sync.Mutex
	profile   botProfile
	webhook   botapi.WebhookInfo
	reactions map[messageRef][]botapi.ReactionType

	pollMu       sync.Mutex
	pollMessages map[string]messageRef
	messagePolls map[messageRef]string
}

type messageRef struct {
	chatID    int64
	messageID int64
}

// botProfile holds the bot-scoped settings mutated by the setMy* methods.
type botProfile struct {
	name             string
	description      string
	shortDescription string
	commands         map[string][]botapi.BotCommand
	menuButtons      map[int64]botapi.MenuButton
}

// New creates an engine for the given bot identity.
func New(bot botapi.User, options ...Option) *Engine {
	cfg := defaultConfig()
	for _, option := range options {
		option(&cfg)
	}

	clock := state.NewClock(cfg.startTime)
	seq := &state.Sequence{}
	e := &Engine{
		cfg:      cfg,
		logger:   cfg.logger,
		bot:      bot,
		clock:    clock,
		seq:      seq,
		chats:    state.NewChatStore(clock, seq),
		members:  state.NewMemberStore(clock),
		invites:  state.NewInviteStore(clock),
		polls:    state.NewPollStore(clock, seq),
		files:    state.NewFileStore(),
		stickers: state.NewStickerStore(),
		business: state.NewBusinessStore(clock),
		payments: state.NewPaymentStore(clock),
		passport: state.NewPassportStore(),
		queries:  state.NewQueryStore(),
		queue:    newUpdateQueue(),
		profile: botProfile{
			name:        bot.FirstName,
			commands:    make(map[string][]botapi.BotCommand),
			menuButtons: make(map[int64]botapi.MenuButton),
		},
		reactions:    make(map[messageRef][]botapi.ReactionType),
		pollMessages: make(map[string]messageRef),
		messagePolls: make(map[messageRef]string),
	}
	if cfg.sendRate > 0 {
		e.throttle = rate.NewLimiter(cfg.sendRate, cfg.sendBurst)
	}
	e.handlers = e.buildDispatchTable()

	return e
}

// Bot returns the simulated bot identity.
func (e *Engine) Bot() botapi.User {
	return e.bot
}

// Clock exposes the simulated clock so harnesses can advance time.
func (e *Engine) Clock() *state.Clock {
	return e.clock
}

// AdvanceClock moves simulated time forward under the engine lock so no
// in-flight call observes a partial advance.
func (e *Engine) AdvanceClock(d time.Duration) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.clock.Advance(d)
}

// Do dispatches one API call without response accumulation. The result is a
// platform-shaped value, the error (when not nil) a *botapi.Error.
func (e *Engine) Do(ctx context.Context, method string, payload json.RawMessage) (any, error) {
	return e.dispatch(ctx, nil, method, payload)
}

func (e *Engine) dispatch(ctx context.Context, inv *Invocation, method string, payload json.RawMessage) (result any, err error) {
	handler, known := e.handlers[strings.ToLower(method)]
	if !known {
		return nil, &botapi.Error{
			Kind:        botapi.ErrorKindNotFound,
			Code:        404,
			Description: "Not Found: method not found",
		}
	}

	// getUpdates blocks on update arrival and must not hold the engine
	// lock; the queue has its own synchronization.
	if !strings.EqualFold(method, "getUpdates") {
		e.mu.Lock()
		defer e.mu.Unlock()
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			e.logger.ErrorContext(ctx, "telesim handler panic", "method", method, "panic", recovered)
			result = nil
			err = &botapi.Error{
				Kind:        botapi.ErrorKindValidation,
				Code:        500,
				Description: "Internal Server Error",
			}
		}
	}()

	result, err = handler(ctx, inv, payload)
	if err != nil {
		e.logger.DebugContext(ctx, "telesim call rejected", "method", method, "error", err)
		return nil, toAPIError(err)
	}

	return result, nil
}

// toAPIError maps state sentinel errors onto platform error envelopes and
// passes platform errors through unchanged.
func toAPIError(err error) *botapi.Error {
	if apiErr, ok := botapi.AsError(err); ok {
		return apiErr
	}

	switch {
	case errors.Is(err, state.ErrChatNotFound):
		return botapi.NewNotFoundError("chat")
	case errors.Is(err, state.ErrMessageNotFound):
		return botapi.NewNotFoundError("message to edit/delete")
	case errors.Is(err, state.ErrMemberNotFound):
		return botapi.NewNotFoundError("user")
	case errors.Is(err, state.ErrTopicNotFound):
		return botapi.NewNotFoundError("message thread")
	case errors.Is(err, state.ErrPollNotFound):
		return botapi.NewNotFoundError("poll")
	case errors.Is(err, state.ErrFileNotFound):
		return botapi.NewNotFoundError("file")
	case errors.Is(err, state.ErrLinkNotFound):
		return botapi.NewNotFoundError("invite link")
	case errors.Is(err, state.ErrLinkRevoked):
		return botapi.NewValidationError("invite link has been revoked")
	case errors.Is(err, state.ErrLinkExpired):
		return botapi.NewValidationError("invite link has expired")
	case errors.Is(err, state.ErrLinkLimitReached):
		return botapi.NewValidationError("invite link member limit reached")
	case errors.Is(err, state.ErrJoinRequestNotFound):
		return botapi.NewNotFoundError("join request")
	case errors.Is(err, state.ErrStickerSetNotFound):
		return botapi.NewNotFoundError("sticker set")
	case errors.Is(err, state.ErrStickerNotFound):
		return botapi.NewNotFoundError("sticker")
	case errors.Is(err, state.ErrConnectionNotFound):
		return botapi.NewNotFoundError("business connection")
	case errors.Is(err, state.ErrQueryNotFound):
		return botapi.NewValidationError("query is too old and response timeout expired or query ID is invalid")
	case errors.Is(err, state.ErrQueryAnswered):
		return botapi.NewValidationError("query has already been answered")
	case errors.Is(err, state.ErrChargeNotFound):
		return botapi.NewNotFoundError("charge")
	case errors.Is(err, state.ErrChargeRefunded):
		return botapi.NewValidationError("charge has already been refunded")
	case errors.Is(err, state.ErrInvalidTransition):
		return botapi.NewValidationError("%s", trimSentinel(err))
	default:
		return botapi.NewValidationError("%v", err)
	}
}

func trimSentinel(err error) string {
	return strings.TrimPrefix(err.Error(), "telesim: ")
}
