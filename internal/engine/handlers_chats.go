package engine

import (
	"context"
	"encoding/json"

	"telesim/pkg/botapi"
)

type chatRequest struct {
	ChatID botapi.ChatID `json:"chat_id"`
}

func (e *Engine) getChat(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[chatRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if pinned := e.chats.Pinned(chat.ID); len(pinned) > 0 {
		latest := pinned[len(pinned)-1]
		chat.PinnedMessage = &latest
	}

	return chat, nil
}

func (e *Engine) getChatAdministrators(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[chatRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if chat.Type == botapi.ChatTypePrivate {
		return nil, botapi.NewValidationError("there are no administrators in the private chat")
	}

	return e.members.Administrators(chat.ID), nil
}

func (e *Engine) getChatMemberCount(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[chatRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}

	return e.members.Count(chat.ID), nil
}

type chatMemberRequest struct {
	ChatID botapi.ChatID `json:"chat_id"`
	UserID int64         `json:"user_id"`
}

func (e *Engine) getChatMember(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[chatMemberRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	member, exists := e.members.Get(chat.ID, req.UserID)
	if !exists {
		return nil, botapi.NewNotFoundError("user")
	}

	return member, nil
}

type setChatTitleRequest struct {
	ChatID botapi.ChatID `json:"chat_id"`
	Title  string        `json:"title"`
}

func (e *Engine) setChatTitle(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setChatTitleRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("chat title", req.Title); err != nil {
		return nil, err
	}
	if err := checkLength("chat title", req.Title, botapi.MaxChatTitleLength); err != nil {
		return nil, err
	}
	chat, err := e.requireInfoRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	if err := e.chats.Mutate(chat.ID, func(c *botapi.Chat) {
		c.Title = req.Title
	}); err != nil {
		return nil, err
	}

	return true, nil
}

type setChatDescriptionRequest struct {
	ChatID      botapi.ChatID `json:"chat_id"`
	Description string        `json:"description,omitempty"`
}

func (e *Engine) setChatDescription(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setChatDescriptionRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkLength("chat description", req.Description, botapi.MaxChatDescriptionLength); err != nil {
		return nil, err
	}
	chat, err := e.requireInfoRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	if err := e.chats.Mutate(chat.ID, func(c *botapi.Chat) {
		c.Description = req.Description
	}); err != nil {
		return nil, err
	}

	return true, nil
}

type setChatPhotoRequest struct {
	ChatID botapi.ChatID `json:"chat_id"`
	Photo  string        `json:"photo"`
}

func (e *Engine) setChatPhoto(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setChatPhotoRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("photo", req.Photo); err != nil {
		return nil, err
	}
	chat, err := e.requireInfoRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	if err := e.chats.Mutate(chat.ID, func(c *botapi.Chat) {
		c.HasPhoto = true
	}); err != nil {
		return nil, err
	}

	return true, nil
}

func (e *Engine) deleteChatPhoto(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[chatRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireInfoRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	if err := e.chats.Mutate(chat.ID, func(c *botapi.Chat) {
		c.HasPhoto = false
	}); err != nil {
		return nil, err
	}

	return true, nil
}

// requireInfoRight gates chat info mutation: group-like chats and channels
// only, and the bot needs the change-info right.
func (e *Engine) requireInfoRight(ref botapi.ChatID) (botapi.Chat, error) {
	chat, err := e.requireChat(ref)
	if err != nil {
		return botapi.Chat{}, err
	}
	if chat.Type == botapi.ChatTypePrivate {
		return botapi.Chat{}, botapi.NewValidationError("chat info can't be changed in private chats")
	}
	if err := e.requireAdminRight(chat, e.bot.ID, "change chat info", func(r botapi.ChatAdministratorRights) bool {
		return r.CanChangeInfo
	}); err != nil {
		return botapi.Chat{}, err
	}

	return chat, nil
}

type setChatPermissionsRequest struct {
	ChatID      botapi.ChatID          `json:"chat_id"`
	Permissions botapi.ChatPermissions `json:"permissions"`
}

func (e *Engine) setChatPermissions(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setChatPermissionsRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if !chat.Type.IsGroupLike() {
		return nil, botapi.NewValidationError("method is available only for group chats")
	}
	if err := e.requireAdminRight(chat, e.bot.ID, "restrict chat members", func(r botapi.ChatAdministratorRights) bool {
		return r.CanRestrictMembers
	}); err != nil {
		return nil, err
	}
	permissions := req.Permissions
	if err := e.chats.Mutate(chat.ID, func(c *botapi.Chat) {
		c.Permissions = &permissions
	}); err != nil {
		return nil, err
	}

	return true, nil
}

func (e *Engine) leaveChat(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[chatRequest](payload)
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
	if err := e.members.Leave(chat.ID, e.bot.ID); err != nil {
		return nil, err
	}

	return true, nil
}

type getUserProfilePhotosRequest struct {
	UserID int64 `json:"user_id"`
	Offset int   `json:"offset,omitempty"`
	Limit  int   `json:"limit,omitempty"`
}

func (e *Engine) getUserProfilePhotos(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[getUserProfilePhotosRequest](payload)
	if err != nil {
		return nil, err
	}
	if req.UserID == 0 {
		return nil, botapi.NewValidationError("user_id is empty")
	}

	// Simulated users carry no uploaded photo history.
	return botapi.UserProfilePhotos{TotalCount: 0, Photos: [][]botapi.PhotoSize{}}, nil
}

type menuButtonRequest struct {
	ChatID     int64              `json:"chat_id,omitempty"`
	MenuButton *botapi.MenuButton `json:"menu_button,omitempty"`
}

func (e *Engine) setChatMenuButton(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[menuButtonRequest](payload)
	if err != nil {
		return nil, err
	}
	button := botapi.MenuButton{Type: "default"}
	if req.MenuButton != nil {
		button = *req.MenuButton
	}
	e.profile.menuButtons[req.ChatID] = button

	return true, nil
}

func (e *Engine) getChatMenuButton(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[menuButtonRequest](payload)
	if err != nil {
		return nil, err
	}
	if button, found := e.profile.menuButtons[req.ChatID]; found {
		return button, nil
	}
	if button, found := e.profile.menuButtons[0]; found {
		return button, nil
	}

	return botapi.MenuButton{Type: "default"}, nil
}
