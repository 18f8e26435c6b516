package engine

import (
	"context"
	"encoding/json"
	"time"

	"telesim/pkg/botapi"
)

// memberUser resolves the user object behind a membership action, falling
// back to a bare identity for users the simulation has not seen yet.
func (e *Engine) memberUser(chatID, userID int64) botapi.User {
	if member, exists := e.members.Get(chatID, userID); exists && member.User != nil {
		return *member.User
	}

	return botapi.User{ID: userID}
}

// untilTime converts a wire until_date into a clock instant. Zero and past
// values mean no expiry.
func (e *Engine) untilTime(untilDate int64) time.Time {
	if untilDate <= 0 || untilDate <= e.clock.Unix() {
		return time.Time{}
	}

	return time.Unix(untilDate, 0)
}

type banChatMemberRequest struct {
	ChatID         botapi.ChatID `json:"chat_id"`
	UserID         int64         `json:"user_id"`
	UntilDate      int64         `json:"until_date,omitempty"`
	RevokeMessages bool          `json:"revoke_messages,omitempty"`
}

func (e *Engine) banChatMember(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[banChatMemberRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireRestrictRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	user := e.memberUser(chat.ID, req.UserID)
	if err := e.members.Ban(chat.ID, user, e.untilTime(req.UntilDate)); err != nil {
		return nil, err
	}

	return true, nil
}

type unbanChatMemberRequest struct {
	ChatID       botapi.ChatID `json:"chat_id"`
	UserID       int64         `json:"user_id"`
	OnlyIfBanned bool          `json:"only_if_banned,omitempty"`
}

func (e *Engine) unbanChatMember(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[unbanChatMemberRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireRestrictRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	if req.OnlyIfBanned && e.members.Status(chat.ID, req.UserID) != botapi.MemberStatusKicked {
		return true, nil
	}
	if err := e.members.Unban(chat.ID, req.UserID); err != nil {
		return nil, err
	}

	return true, nil
}

type restrictChatMemberRequest struct {
	ChatID      botapi.ChatID          `json:"chat_id"`
	UserID      int64                  `json:"user_id"`
	Permissions botapi.ChatPermissions `json:"permissions"`
	UntilDate   int64                  `json:"until_date,omitempty"`
}

func (e *Engine) restrictChatMember(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[restrictChatMemberRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireRestrictRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	if chat.Type != botapi.ChatTypeSupergroup {
		return nil, botapi.NewValidationError("method is available only for supergroup chats")
	}
	if err := e.members.Restrict(chat.ID, req.UserID, req.Permissions, e.untilTime(req.UntilDate)); err != nil {
		return nil, err
	}

	return true, nil
}

// requireRestrictRight resolves the chat and gates member restriction.
func (e *Engine) requireRestrictRight(ref botapi.ChatID) (botapi.Chat, error) {
	chat, err := e.requireChat(ref)
	if err != nil {
		return botapi.Chat{}, err
	}
	if chat.Type == botapi.ChatTypePrivate {
		return botapi.Chat{}, botapi.NewValidationError("chat member status can't be changed in private chats")
	}
	if err := e.requireAdminRight(chat, e.bot.ID, "restrict chat members", func(r botapi.ChatAdministratorRights) bool {
		return r.CanRestrictMembers
	}); err != nil {
		return botapi.Chat{}, err
	}

	return chat, nil
}

type promoteChatMemberRequest struct {
	ChatID botapi.ChatID `json:"chat_id"`
	UserID int64         `json:"user_id"`
	botapi.ChatAdministratorRights
}

func (e *Engine) promoteChatMember(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[promoteChatMemberRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if chat.Type == botapi.ChatTypePrivate {
		return nil, botapi.NewValidationError("chat member status can't be changed in private chats")
	}
	if err := e.requireAdminRight(chat, e.bot.ID, "promote chat members", func(r botapi.ChatAdministratorRights) bool {
		return r.CanPromoteMembers
	}); err != nil {
		return nil, err
	}
	if err := e.members.Promote(chat.ID, req.UserID, req.ChatAdministratorRights); err != nil {
		return nil, err
	}

	return true, nil
}

const maxCustomTitleLength = 16

type setCustomTitleRequest struct {
	ChatID      botapi.ChatID `json:"chat_id"`
	UserID      int64         `json:"user_id"`
	CustomTitle string        `json:"custom_title"`
}

func (e *Engine) setChatAdministratorCustomTitle(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setCustomTitleRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkLength("custom title", req.CustomTitle, maxCustomTitleLength); err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if chat.Type != botapi.ChatTypeSupergroup {
		return nil, botapi.NewValidationError("method is available only for supergroup chats")
	}
	if err := e.requireAdminRight(chat, e.bot.ID, "change custom title of the user", func(r botapi.ChatAdministratorRights) bool {
		return r.CanPromoteMembers
	}); err != nil {
		return nil, err
	}
	if err := e.members.SetCustomTitle(chat.ID, req.UserID, req.CustomTitle); err != nil {
		return nil, err
	}

	return true, nil
}

type joinRequestRequest struct {
	ChatID botapi.ChatID `json:"chat_id"`
	UserID int64         `json:"user_id"`
}

func (e *Engine) approveChatJoinRequest(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	return e.resolveJoinRequest(payload, true)
}

func (e *Engine) declineChatJoinRequest(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	return e.resolveJoinRequest(payload, false)
}

func (e *Engine) resolveJoinRequest(payload json.RawMessage, approved bool) (any, error) {
	req, err := decode[joinRequestRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if err := e.requireAdminRight(chat, e.bot.ID, "manage join requests", func(r botapi.ChatAdministratorRights) bool {
		return r.CanInviteUsers
	}); err != nil {
		return nil, err
	}
	request, err := e.invites.ResolveJoinRequest(chat.ID, req.UserID, approved)
	if err != nil {
		return nil, err
	}
	if approved && request.From != nil {
		if err := e.members.Join(chat.ID, *request.From); err != nil {
			return nil, err
		}
	}

	return true, nil
}
