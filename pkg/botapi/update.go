package botapi

import "fmt"

// UpdateKind identifies which payload branch an update carries.
type UpdateKind string

const (
	// UpdateKindMessage is a new inbound message.
	UpdateKindMessage UpdateKind = "message"
	// UpdateKindEditedMessage is an edit of an inbound message.
	UpdateKindEditedMessage UpdateKind = "edited_message"
	// UpdateKindCallbackQuery is an inline keyboard button press.
	UpdateKindCallbackQuery UpdateKind = "callback_query"
	// UpdateKindInlineQuery is an inline mode query.
	UpdateKindInlineQuery UpdateKind = "inline_query"
	// UpdateKindChosenInlineResult is an inline result selection.
	UpdateKindChosenInlineResult UpdateKind = "chosen_inline_result"
	// UpdateKindPollAnswer is a non-anonymous poll vote.
	UpdateKindPollAnswer UpdateKind = "poll_answer"
	// UpdateKindMessageReaction is a reaction change on a message.
	UpdateKindMessageReaction UpdateKind = "message_reaction"
	// UpdateKindChatMember is a membership transition.
	UpdateKindChatMember UpdateKind = "chat_member"
	// UpdateKindChatJoinRequest is a pending join request.
	UpdateKindChatJoinRequest UpdateKind = "chat_join_request"
	// UpdateKindChatBoost is an added chat boost.
	UpdateKindChatBoost UpdateKind = "chat_boost"
	// UpdateKindRemovedChatBoost is a removed chat boost.
	UpdateKindRemovedChatBoost UpdateKind = "removed_chat_boost"
	// UpdateKindBusinessConnection is a business connection change.
	UpdateKindBusinessConnection UpdateKind = "business_connection"
	// UpdateKindBusinessMessage is a message on a business connection.
	UpdateKindBusinessMessage UpdateKind = "business_message"
	// UpdateKindPreCheckoutQuery is a checkout confirmation request.
	UpdateKindPreCheckoutQuery UpdateKind = "pre_checkout_query"
	// UpdateKindShippingQuery is a shipping option request.
	UpdateKindShippingQuery UpdateKind = "shipping_query"
)

// Update is the inbound event envelope delivered to bot-handling code.
// Exactly one payload branch must be populated.
type Update struct {
	UpdateID           int64                   `json:"update_id"`
	Message            *Message                `json:"message,omitempty"`
	EditedMessage      *Message                `json:"edited_message,omitempty"`
	CallbackQuery      *CallbackQuery          `json:"callback_query,omitempty"`
	InlineQuery        *InlineQuery            `json:"inline_query,omitempty"`
	ChosenInlineResult *ChosenInlineResult     `json:"chosen_inline_result,omitempty"`
	PollAnswer         *PollAnswer             `json:"poll_answer,omitempty"`
	MessageReaction    *MessageReactionUpdated `json:"message_reaction,omitempty"`
	ChatMember         *ChatMemberUpdated      `json:"chat_member,omitempty"`
	ChatJoinRequest    *ChatJoinRequest        `json:"chat_join_request,omitempty"`
	ChatBoost          *ChatBoostUpdated       `json:"chat_boost,omitempty"`
	RemovedChatBoost   *ChatBoostRemoved       `json:"removed_chat_boost,omitempty"`
	BusinessConnection *BusinessConnection     `json:"business_connection,omitempty"`
	BusinessMessage    *Message                `json:"business_message,omitempty"`
	PreCheckoutQuery   *PreCheckoutQuery       `json:"pre_checkout_query,omitempty"`
	ShippingQuery      *ShippingQuery          `json:"shipping_query,omitempty"`
}

// Kind reports which payload branch is populated, and "" when none is.
func (u *Update) Kind() UpdateKind {
	switch {
	case u.Message != nil:
		return UpdateKindMessage
	case u.EditedMessage != nil:
		return UpdateKindEditedMessage
	case u.CallbackQuery != nil:
		return UpdateKindCallbackQuery
	case u.InlineQuery != nil:
		return UpdateKindInlineQuery
	case u.ChosenInlineResult != nil:
		return UpdateKindChosenInlineResult
	case u.PollAnswer != nil:
		return UpdateKindPollAnswer
	case u.MessageReaction != nil:
		return UpdateKindMessageReaction
	case u.ChatMember != nil:
		return UpdateKindChatMember
	case u.ChatJoinRequest != nil:
		return UpdateKindChatJoinRequest
	case u.ChatBoost != nil:
		return UpdateKindChatBoost
	case u.RemovedChatBoost != nil:
		return UpdateKindRemovedChatBoost
	case u.BusinessConnection != nil:
		return UpdateKindBusinessConnection
	case u.BusinessMessage != nil:
		return UpdateKindBusinessMessage
	case u.PreCheckoutQuery != nil:
		return UpdateKindPreCheckoutQuery
	case u.ShippingQuery != nil:
		return UpdateKindShippingQuery
	default:
		return ""
	}
}

// Validate checks envelope coherence: a positive id and exactly one payload.
func (u *Update) Validate() error {
	if u == nil {
		return fmt.Errorf("telesim: nil update")
	}
	if u.UpdateID <= 0 {
		return fmt.Errorf("telesim: update missing id")
	}

	populated := 0
	for _, present := range []bool{
		u.Message != nil,
		u.EditedMessage != nil,
		u.CallbackQuery != nil,
		u.InlineQuery != nil,
		u.ChosenInlineResult != nil,
		u.PollAnswer != nil,
		u.MessageReaction != nil,
		u.ChatMember != nil,
		u.ChatJoinRequest != nil,
		u.ChatBoost != nil,
		u.RemovedChatBoost != nil,
		u.BusinessConnection != nil,
		u.BusinessMessage != nil,
		u.PreCheckoutQuery != nil,
		u.ShippingQuery != nil,
	} {
		if present {
			populated++
		}
	}
	if populated != 1 {
		return fmt.Errorf("telesim: update %d has %d payloads, want exactly 1", u.UpdateID, populated)
	}

	return nil
}
