package state

import (
	"strconv"
	"sync/atomic"
)

// Sequence mints monotonically increasing identifiers. Each counter is
// independent and scoped to one Sequence instance, never package-global, so
// multiple simulations can coexist in one process.
type Sequence struct {
	update   atomic.Int64
	message  atomic.Int64
	callback atomic.Int64
	inline   atomic.Int64
	shipping atomic.Int64
	checkout atomic.Int64
	poll     atomic.Int64
	topic    atomic.Int64
}

// NextUpdateID mints the next update identifier.
func (s *Sequence) NextUpdateID() int64 {
	return s.update.Add(1)
}

// NextMessageID mints the next message identifier. Identifiers are never
// reused within one simulation.
func (s *Sequence) NextMessageID() int64 {
	return s.message.Add(1)
}

// NextCallbackQueryID mints the next callback query identifier.
func (s *Sequence) NextCallbackQueryID() string {
	return strconv.FormatInt(s.callback.Add(1), 10)
}

// NextInlineQueryID mints the next inline query identifier.
func (s *Sequence) NextInlineQueryID() string {
	return strconv.FormatInt(s.inline.Add(1), 10)
}

// NextShippingQueryID mints the next shipping query identifier.
func (s *Sequence) NextShippingQueryID() string {
	return strconv.FormatInt(s.shipping.Add(1), 10)
}

// NextPreCheckoutQueryID mints the next pre-checkout query identifier.
func (s *Sequence) NextPreCheckoutQueryID() string {
	return strconv.FormatInt(s.checkout.Add(1), 10)
}

// NextPollID mints the next poll identifier.
func (s *Sequence) NextPollID() string {
	return strconv.FormatInt(s.poll.Add(1), 10)
}

// NextTopicID mints the next forum topic thread identifier.
func (s *Sequence) NextTopicID() int64 {
	return s.topic.Add(1)
}
