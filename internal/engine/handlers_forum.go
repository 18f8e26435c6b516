package engine

import (
	"context"
	"encoding/json"

	"telesim/pkg/botapi"
)

// topicIconColors is the accepted icon color palette for new topics.
var topicIconColors = map[int]bool{
	0x6FB9F0: true,
	0xFFD67E: true,
	0xCB86DB: true,
	0x8EEE98: true,
	0xFF93B2: true,
	0xFB6F5F: true,
}

// requireForumTopicRight resolves the chat and gates topic management:
// forum supergroups only, with the manage-topics right for admins or the
// chat-level permission for plain members.
func (e *Engine) requireForumTopicRight(ref botapi.ChatID) (botapi.Chat, error) {
	chat, err := e.requireChat(ref)
	if err != nil {
		return botapi.Chat{}, err
	}
	if !chat.IsForum {
		return botapi.Chat{}, botapi.NewValidationError("the chat is not a forum")
	}
	if e.isPrivileged(chat.ID, e.bot.ID) {
		if err := e.requireAdminRight(chat, e.bot.ID, "manage topics", func(r botapi.ChatAdministratorRights) bool {
			return r.CanManageTopics
		}); err != nil {
			return botapi.Chat{}, err
		}

		return chat, nil
	}
	if chat.Permissions != nil && chat.Permissions.CanManageTopics &&
		e.members.Status(chat.ID, e.bot.ID) == botapi.MemberStatusMember {
		return chat, nil
	}

	return botapi.Chat{}, botapi.NewPermissionError("not enough rights to manage topics")
}

type createForumTopicRequest struct {
	ChatID            botapi.ChatID `json:"chat_id"`
	Name              string        `json:"name"`
	IconColor         int           `json:"icon_color,omitempty"`
	IconCustomEmojiID string        `json:"icon_custom_emoji_id,omitempty"`
}

func (e *Engine) createForumTopic(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[createForumTopicRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("topic name", req.Name); err != nil {
		return nil, err
	}
	if err := checkLength("topic name", req.Name, botapi.MaxTopicNameLength); err != nil {
		return nil, err
	}
	color := req.IconColor
	if color == 0 {
		color = 0x6FB9F0
	}
	if !topicIconColors[color] {
		return nil, botapi.NewValidationError("wrong parameter icon_color in request")
	}
	chat, err := e.requireForumTopicRight(req.ChatID)
	if err != nil {
		return nil, err
	}

	return e.chats.CreateTopic(chat.ID, req.Name, color, req.IconCustomEmojiID)
}

type forumTopicRequest struct {
	ChatID            botapi.ChatID `json:"chat_id"`
	MessageThreadID   int64         `json:"message_thread_id"`
	Name              string        `json:"name,omitempty"`
	IconCustomEmojiID *string       `json:"icon_custom_emoji_id,omitempty"`
}

func (e *Engine) editForumTopic(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[forumTopicRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkLength("topic name", req.Name, botapi.MaxTopicNameLength); err != nil {
		return nil, err
	}
	chat, err := e.requireForumTopicRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	if _, err := e.chats.MutateTopic(chat.ID, req.MessageThreadID, func(t *botapi.ForumTopic) {
		if req.Name != "" {
			t.Name = req.Name
		}
		if req.IconCustomEmojiID != nil {
			t.IconCustomEmojiID = *req.IconCustomEmojiID
		}
	}); err != nil {
		return nil, err
	}

	return true, nil
}

func (e *Engine) closeForumTopic(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	return e.setTopicClosed(payload, true)
}

func (e *Engine) reopenForumTopic(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	return e.setTopicClosed(payload, false)
}

func (e *Engine) setTopicClosed(payload json.RawMessage, closed bool) (any, error) {
	req, err := decode[forumTopicRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireForumTopicRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	if _, err := e.chats.MutateTopic(chat.ID, req.MessageThreadID, func(t *botapi.ForumTopic) {
		t.IsClosed = closed
	}); err != nil {
		return nil, err
	}

	return true, nil
}

func (e *Engine) deleteForumTopic(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[forumTopicRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireForumTopicRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	topic, err := e.chats.Topic(chat.ID, req.MessageThreadID)
	if err != nil {
		return nil, err
	}
	if topic.IsGeneral {
		return nil, botapi.NewValidationError("the general topic can't be deleted")
	}
	if err := e.chats.DeleteTopic(chat.ID, req.MessageThreadID); err != nil {
		return nil, err
	}

	return true, nil
}

type generalTopicRequest struct {
	ChatID botapi.ChatID `json:"chat_id"`
	Name   string        `json:"name,omitempty"`
}

const generalTopicThreadID int64 = 1

func (e *Engine) editGeneralForumTopic(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[generalTopicRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("topic name", req.Name); err != nil {
		return nil, err
	}
	if err := checkLength("topic name", req.Name, botapi.MaxTopicNameLength); err != nil {
		return nil, err
	}
	chat, err := e.requireForumTopicRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	if _, err := e.chats.MutateTopic(chat.ID, generalTopicThreadID, func(t *botapi.ForumTopic) {
		t.Name = req.Name
	}); err != nil {
		return nil, err
	}

	return true, nil
}

func (e *Engine) closeGeneralForumTopic(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	return e.mutateGeneralTopic(payload, func(t *botapi.ForumTopic) { t.IsClosed = true })
}

func (e *Engine) reopenGeneralForumTopic(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	return e.mutateGeneralTopic(payload, func(t *botapi.ForumTopic) {
		t.IsClosed = false
		t.IsHidden = false
	})
}

func (e *Engine) hideGeneralForumTopic(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	return e.mutateGeneralTopic(payload, func(t *botapi.ForumTopic) {
		t.IsHidden = true
		t.IsClosed = true
	})
}

func (e *Engine) unhideGeneralForumTopic(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	return e.mutateGeneralTopic(payload, func(t *botapi.ForumTopic) { t.IsHidden = false })
}

func (e *Engine) mutateGeneralTopic(payload json.RawMessage, fn func(*botapi.ForumTopic)) (any, error) {
	req, err := decode[generalTopicRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireForumTopicRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	if _, err := e.chats.MutateTopic(chat.ID, generalTopicThreadID, fn); err != nil {
		return nil, err
	}

	return true, nil
}
