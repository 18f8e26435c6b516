package engine

import (
	"math"

	"telesim/pkg/botapi"
)

// rightCheck selects one bit of the administrator rights bitset.
type rightCheck func(botapi.ChatAdministratorRights) bool

// sendCheck selects one bit of the member permission bitset.
type sendCheck func(botapi.ChatPermissions) bool

// requireChat resolves a chat reference to a known chat.
func (e *Engine) requireChat(ref botapi.ChatID) (botapi.Chat, error) {
	if ref.IsZero() {
		return botapi.Chat{}, botapi.NewValidationError("chat_id is empty")
	}

	return e.chats.Resolve(ref)
}

// isPrivileged reports whether the user is the chat creator or an
// administrator.
func (e *Engine) isPrivileged(chatID, userID int64) bool {
	status := e.members.Status(chatID, userID)

	return status == botapi.MemberStatusCreator || status == botapi.MemberStatusAdministrator
}

// requireAdminRight gates an administrative action. The creator always
// passes, private chats have no administration, administrators need the
// specific right, everyone else is denied.
func (e *Engine) requireAdminRight(chat botapi.Chat, userID int64, action string, check rightCheck) error {
	if chat.Type == botapi.ChatTypePrivate {
		return nil
	}

	member, exists := e.members.Get(chat.ID, userID)
	if !exists || member.Status == botapi.MemberStatusLeft || member.Status == botapi.MemberStatusKicked {
		return botapi.NewPermissionError("bot is not a member of the chat")
	}
	if member.Status == botapi.MemberStatusCreator {
		return nil
	}
	if member.Status == botapi.MemberStatusAdministrator && member.Rights != nil && check(*member.Rights) {
		return nil
	}

	return botapi.NewPermissionError("not enough rights to %s", action)
}

// requireSend gates posting a message class into a chat: private chats are
// open, channels demand the post right, restricted members follow their
// override bitset, plain members follow the chat defaults.
func (e *Engine) requireSend(chat botapi.Chat, senderID int64, kind string, allow sendCheck) error {
	if chat.Type == botapi.ChatTypePrivate {
		return nil
	}

	member, exists := e.members.Get(chat.ID, senderID)
	if !exists || member.Status == botapi.MemberStatusLeft {
		return botapi.NewPermissionError("bot is not a member of the chat")
	}
	if member.Status == botapi.MemberStatusKicked {
		return botapi.NewPermissionError("bot was kicked from the chat")
	}

	if chat.Type == botapi.ChatTypeChannel {
		if member.Status == botapi.MemberStatusCreator {
			return nil
		}
		if member.Status == botapi.MemberStatusAdministrator && member.Rights != nil && member.Rights.CanPostMessages {
			return nil
		}

		return botapi.NewPermissionError("need administrator rights in the channel chat")
	}

	switch member.Status {
	case botapi.MemberStatusCreator, botapi.MemberStatusAdministrator:
		return nil
	case botapi.MemberStatusRestricted:
		if member.Permissions == nil || allow(*member.Permissions) {
			return nil
		}
	default:
		if chat.Permissions == nil || allow(*chat.Permissions) {
			return nil
		}
	}

	return botapi.NewPermissionError("not enough rights to send %s to the chat", kind)
}

// checkSendBudget applies per-chat slow mode and the bot-wide throttle, both
// driven by the simulated clock.
func (e *Engine) checkSendBudget(chat botapi.Chat) error {
	exempt := chat.Type == botapi.ChatTypePrivate || e.isPrivileged(chat.ID, e.bot.ID)
	if wait, limited := e.chats.SlowModeWait(chat.ID, e.bot.ID, exempt); limited {
		return botapi.NewRateLimitError(int(math.Ceil(wait.Seconds())))
	}
	if e.throttle != nil && !e.throttle.AllowN(e.clock.Now(), 1) {
		return botapi.NewRateLimitError(1)
	}

	return nil
}

// canDeleteOther reports whether the bot may delete a message it did not
// send: the delete right always suffices, private and group-like chats also
// allow deletion inside the 48-hour grace window, channels never do.
func (e *Engine) canDeleteOther(chat botapi.Chat, message botapi.Message) bool {
	if chat.Type != botapi.ChatTypePrivate {
		err := e.requireAdminRight(chat, e.bot.ID, "delete messages", func(r botapi.ChatAdministratorRights) bool {
			return r.CanDeleteMessages
		})
		if err == nil {
			return true
		}
	}
	if chat.Type == botapi.ChatTypeChannel {
		return false
	}

	return e.clock.Unix()-message.Date <= botapi.DeleteGraceWindowSeconds
}
