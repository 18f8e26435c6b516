package engine

import (
	"context"
	"encoding/json"

	"telesim/internal/markup"
	"telesim/pkg/botapi"
)

// sendCommon carries the request fields shared by every send* method.
type sendCommon struct {
	ChatID               botapi.ChatID                `json:"chat_id"`
	MessageThreadID      int64                        `json:"message_thread_id,omitempty"`
	BusinessConnectionID string                       `json:"business_connection_id,omitempty"`
	DisableNotification  bool                         `json:"disable_notification,omitempty"`
	ProtectContent       bool                         `json:"protect_content,omitempty"`
	ReplyToMessageID     int64                        `json:"reply_to_message_id,omitempty"`
	ReplyMarkup          *botapi.InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// prepareSend runs the shared pre-mutation gates for a send: chat exists,
// the bot may post this message class, slow mode and the global throttle
// have budget, the business connection (when named) accepts replies, and the
// target forum topic is open.
func (e *Engine) prepareSend(common sendCommon, kind string, allow sendCheck) (botapi.Chat, error) {
	chat, err := e.requireChat(common.ChatID)
	if err != nil {
		return botapi.Chat{}, err
	}
	if common.BusinessConnectionID == "" {
		if err := e.requireSend(chat, e.bot.ID, kind, allow); err != nil {
			return botapi.Chat{}, err
		}
		if err := e.checkSendBudget(chat); err != nil {
			return botapi.Chat{}, err
		}
	} else {
		connection, err := e.business.Get(common.BusinessConnectionID)
		if err != nil {
			return botapi.Chat{}, err
		}
		if !connection.IsEnabled || !connection.CanReply {
			return botapi.Chat{}, botapi.NewValidationError("business connection can't be used to send messages")
		}
	}
	if common.MessageThreadID != 0 {
		if !chat.IsForum {
			return botapi.Chat{}, botapi.NewValidationError("message thread not supported by the chat")
		}
		topic, err := e.chats.Topic(chat.ID, common.MessageThreadID)
		if err != nil {
			return botapi.Chat{}, err
		}
		if topic.IsClosed && !e.isPrivileged(chat.ID, e.bot.ID) {
			return botapi.Chat{}, botapi.NewPermissionError("topic is closed")
		}
	}

	return chat, nil
}

// finishSend assembles the message envelope, lets build attach the payload,
// and stores it in the chat log.
func (e *Engine) finishSend(chat botapi.Chat, common sendCommon, build func(*botapi.Message)) (botapi.Message, error) {
	bot := e.bot
	message := botapi.Message{
		From:                 &bot,
		Chat:                 &chat,
		MessageThreadID:      common.MessageThreadID,
		IsTopicMessage:       common.MessageThreadID != 0,
		BusinessConnectionID: common.BusinessConnectionID,
		ReplyMarkup:          common.ReplyMarkup,
		HasProtectedContent:  common.ProtectContent,
	}
	if common.ReplyToMessageID != 0 {
		replied, err := e.chats.Message(chat.ID, common.ReplyToMessageID)
		if err != nil {
			return botapi.Message{}, botapi.NewNotFoundError("message to be replied")
		}
		message.ReplyToMessage = &replied
	}
	build(&message)

	return e.chats.StoreMessage(chat.ID, message)
}

// parseText resolves the text/parse_mode/entities triple: explicit entities
// win, otherwise the declared dialect is parsed out of the text.
func parseText(text, mode string, provided []botapi.MessageEntity) (string, []botapi.MessageEntity, error) {
	if len(provided) > 0 {
		return text, provided, nil
	}
	parseMode, err := markup.ParseModeFrom(mode)
	if err != nil {
		return "", nil, botapi.NewValidationError("can't parse entities: %v", err)
	}
	plain, entities, err := markup.Parse(text, parseMode)
	if err != nil {
		return "", nil, botapi.NewValidationError("can't parse entities: %v", err)
	}

	return plain, entities, nil
}

type sendMessageRequest struct {
	sendCommon
	Text      string                 `json:"text"`
	ParseMode string                 `json:"parse_mode,omitempty"`
	Entities  []botapi.MessageEntity `json:"entities,omitempty"`
}

func (e *Engine) sendMessage(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendMessageRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("message text", req.Text); err != nil {
		return nil, err
	}
	plain, entities, err := parseText(req.Text, req.ParseMode, req.Entities)
	if err != nil {
		return nil, err
	}
	if err := checkLength("message", plain, botapi.MaxTextLength); err != nil {
		return nil, err
	}
	chat, err := e.prepareSend(req.sendCommon, "text messages", func(p botapi.ChatPermissions) bool {
		return p.CanSendMessages
	})
	if err != nil {
		return nil, err
	}

	return e.finishSend(chat, req.sendCommon, func(m *botapi.Message) {
		m.Text = plain
		m.Entities = entities
	})
}

type forwardMessageRequest struct {
	ChatID              botapi.ChatID `json:"chat_id"`
	FromChatID          botapi.ChatID `json:"from_chat_id"`
	MessageID           int64         `json:"message_id"`
	MessageThreadID     int64         `json:"message_thread_id,omitempty"`
	DisableNotification bool          `json:"disable_notification,omitempty"`
	ProtectContent      bool          `json:"protect_content,omitempty"`
}

func (e *Engine) forwardMessage(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[forwardMessageRequest](payload)
	if err != nil {
		return nil, err
	}
	source, original, err := e.resolveSourceMessage(req.FromChatID, req.MessageID)
	if err != nil {
		return nil, err
	}
	if source.HasProtectedContent || original.HasProtectedContent {
		return nil, botapi.NewValidationError("message can't be forwarded")
	}
	common := sendCommon{ChatID: req.ChatID, MessageThreadID: req.MessageThreadID, ProtectContent: req.ProtectContent}
	chat, err := e.prepareSend(common, "text messages", func(p botapi.ChatPermissions) bool {
		return p.CanSendMessages
	})
	if err != nil {
		return nil, err
	}

	return e.finishSend(chat, common, func(m *botapi.Message) {
		copyContent(m, original)
		origin := &botapi.MessageOrigin{Type: "user", Date: original.Date}
		switch {
		case source.Type == botapi.ChatTypeChannel:
			origin.Type = "channel"
			origin.SenderChat = &source
			origin.MessageID = original.MessageID
		case original.From != nil:
			origin.SenderUser = original.From
		default:
			origin.Type = "chat"
			origin.SenderChat = &source
		}
		m.ForwardOrigin = origin
	})
}

type copyMessageRequest struct {
	sendCommon
	FromChatID      botapi.ChatID          `json:"from_chat_id"`
	MessageID       int64                  `json:"message_id"`
	Caption         string                 `json:"caption,omitempty"`
	ParseMode       string                 `json:"parse_mode,omitempty"`
	CaptionEntities []botapi.MessageEntity `json:"caption_entities,omitempty"`
}

func (e *Engine) copyMessage(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[copyMessageRequest](payload)
	if err != nil {
		return nil, err
	}
	source, original, err := e.resolveSourceMessage(req.FromChatID, req.MessageID)
	if err != nil {
		return nil, err
	}
	if source.HasProtectedContent || original.HasProtectedContent {
		return nil, botapi.NewValidationError("message can't be copied")
	}
	var caption string
	var captionEntities []botapi.MessageEntity
	if req.Caption != "" {
		caption, captionEntities, err = parseText(req.Caption, req.ParseMode, req.CaptionEntities)
		if err != nil {
			return nil, err
		}
		if err := checkLength("caption", caption, botapi.MaxCaptionLength); err != nil {
			return nil, err
		}
	}
	chat, err := e.prepareSend(req.sendCommon, "text messages", func(p botapi.ChatPermissions) bool {
		return p.CanSendMessages
	})
	if err != nil {
		return nil, err
	}
	stored, err := e.finishSend(chat, req.sendCommon, func(m *botapi.Message) {
		copyContent(m, original)
		if caption != "" {
			m.Caption = caption
			m.CaptionEntities = captionEntities
		}
	})
	if err != nil {
		return nil, err
	}

	return botapi.MessageID{MessageID: stored.MessageID}, nil
}

// resolveSourceMessage loads a forward/copy source.
func (e *Engine) resolveSourceMessage(ref botapi.ChatID, messageID int64) (botapi.Chat, botapi.Message, error) {
	chat, err := e.requireChat(ref)
	if err != nil {
		return botapi.Chat{}, botapi.Message{}, err
	}
	message, err := e.chats.Message(chat.ID, messageID)
	if err != nil {
		return botapi.Chat{}, botapi.Message{}, err
	}

	return chat, message, nil
}

// copyContent transfers the payload branches a forward/copy carries over.
func copyContent(dst *botapi.Message, src botapi.Message) {
	dst.Text = src.Text
	dst.Entities = src.Entities
	dst.Caption = src.Caption
	dst.CaptionEntities = src.CaptionEntities
	dst.Photo = src.Photo
	dst.Document = src.Document
	dst.Audio = src.Audio
	dst.Video = src.Video
	dst.Voice = src.Voice
	dst.Animation = src.Animation
	dst.Sticker = src.Sticker
	dst.Location = src.Location
	dst.Venue = src.Venue
	dst.Contact = src.Contact
	dst.Dice = src.Dice
	dst.Poll = src.Poll
}

var chatActions = map[string]bool{
	"typing":            true,
	"upload_photo":      true,
	"record_video":      true,
	"upload_video":      true,
	"record_voice":      true,
	"upload_voice":      true,
	"upload_document":   true,
	"choose_sticker":    true,
	"find_location":     true,
	"record_video_note": true,
	"upload_video_note": true,
}

type sendChatActionRequest struct {
	ChatID          botapi.ChatID `json:"chat_id"`
	MessageThreadID int64         `json:"message_thread_id,omitempty"`
	Action          string        `json:"action"`
}

func (e *Engine) sendChatAction(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendChatActionRequest](payload)
	if err != nil {
		return nil, err
	}
	if !chatActions[req.Action] {
		return nil, botapi.NewValidationError("wrong parameter action in request")
	}
	if _, err := e.requireChat(req.ChatID); err != nil {
		return nil, err
	}

	return true, nil
}

type editMessageTextRequest struct {
	ChatID      botapi.ChatID                `json:"chat_id"`
	MessageID   int64                        `json:"message_id"`
	Text        string                       `json:"text"`
	ParseMode   string                       `json:"parse_mode,omitempty"`
	Entities    []botapi.MessageEntity       `json:"entities,omitempty"`
	ReplyMarkup *botapi.InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

func (e *Engine) editMessageText(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[editMessageTextRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("message text", req.Text); err != nil {
		return nil, err
	}
	plain, entities, err := parseText(req.Text, req.ParseMode, req.Entities)
	if err != nil {
		return nil, err
	}
	if err := checkLength("message", plain, botapi.MaxTextLength); err != nil {
		return nil, err
	}
	chat, message, err := e.requireOwnMessage(req.ChatID, req.MessageID)
	if err != nil {
		return nil, err
	}
	if message.Text == "" {
		return nil, botapi.NewValidationError("there is no text in the message to edit")
	}

	return e.chats.UpdateMessage(chat.ID, req.MessageID, func(m *botapi.Message) {
		m.Text = plain
		m.Entities = entities
		if req.ReplyMarkup != nil {
			m.ReplyMarkup = req.ReplyMarkup
		}
	})
}

type editMessageCaptionRequest struct {
	ChatID          botapi.ChatID                `json:"chat_id"`
	MessageID       int64                        `json:"message_id"`
	Caption         string                       `json:"caption,omitempty"`
	ParseMode       string                       `json:"parse_mode,omitempty"`
	CaptionEntities []botapi.MessageEntity       `json:"caption_entities,omitempty"`
	ReplyMarkup     *botapi.InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

func (e *Engine) editMessageCaption(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[editMessageCaptionRequest](payload)
	if err != nil {
		return nil, err
	}
	caption, captionEntities, err := parseText(req.Caption, req.ParseMode, req.CaptionEntities)
	if err != nil {
		return nil, err
	}
	if err := checkLength("caption", caption, botapi.MaxCaptionLength); err != nil {
		return nil, err
	}
	chat, message, err := e.requireOwnMessage(req.ChatID, req.MessageID)
	if err != nil {
		return nil, err
	}
	if message.Text != "" {
		return nil, botapi.NewValidationError("there is no caption in the message to edit")
	}

	return e.chats.UpdateMessage(chat.ID, req.MessageID, func(m *botapi.Message) {
		m.Caption = caption
		m.CaptionEntities = captionEntities
		if req.ReplyMarkup != nil {
			m.ReplyMarkup = req.ReplyMarkup
		}
	})
}

type editMessageReplyMarkupRequest struct {
	ChatID      botapi.ChatID                `json:"chat_id"`
	MessageID   int64                        `json:"message_id"`
	ReplyMarkup *botapi.InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

func (e *Engine) editMessageReplyMarkup(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[editMessageReplyMarkupRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, _, err := e.requireOwnMessage(req.ChatID, req.MessageID)
	if err != nil {
		return nil, err
	}

	return e.chats.UpdateMessage(chat.ID, req.MessageID, func(m *botapi.Message) {
		m.ReplyMarkup = req.ReplyMarkup
	})
}

// requireOwnMessage loads a message and checks the bot sent it.
func (e *Engine) requireOwnMessage(ref botapi.ChatID, messageID int64) (botapi.Chat, botapi.Message, error) {
	chat, err := e.requireChat(ref)
	if err != nil {
		return botapi.Chat{}, botapi.Message{}, err
	}
	message, err := e.chats.Message(chat.ID, messageID)
	if err != nil {
		return botapi.Chat{}, botapi.Message{}, err
	}
	if message.From == nil || message.From.ID != e.bot.ID {
		return botapi.Chat{}, botapi.Message{}, botapi.NewPermissionError("message can't be edited")
	}

	return chat, message, nil
}

type deleteMessageRequest struct {
	ChatID    botapi.ChatID `json:"chat_id"`
	MessageID int64         `json:"message_id"`
}

func (e *Engine) deleteMessage(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[deleteMessageRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if err := e.deleteOne(chat, req.MessageID); err != nil {
		return nil, err
	}

	return true, nil
}

type deleteMessagesRequest struct {
	ChatID     botapi.ChatID `json:"chat_id"`
	MessageIDs []int64       `json:"message_ids"`
}

func (e *Engine) deleteMessages(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[deleteMessagesRequest](payload)
	if err != nil {
		return nil, err
	}
	if len(req.MessageIDs) == 0 {
		return nil, botapi.NewValidationError("message_ids is empty")
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	for _, messageID := range req.MessageIDs {
		// Batch deletion skips messages that are gone or out of reach.
		_ = e.deleteOne(chat, messageID)
	}

	return true, nil
}

func (e *Engine) deleteOne(chat botapi.Chat, messageID int64) error {
	message, err := e.chats.Message(chat.ID, messageID)
	if err != nil {
		return err
	}
	own := message.From != nil && message.From.ID == e.bot.ID
	if !own && !e.canDeleteOther(chat, message) {
		return botapi.NewPermissionError("message can't be deleted")
	}
	if err := e.chats.DeleteMessage(chat.ID, messageID); err != nil {
		return err
	}
	e.forgetPoll(chat.ID, messageID)
	delete(e.reactions, messageRef{chat.ID, messageID})

	return nil
}

type setMessageReactionRequest struct {
	ChatID    botapi.ChatID         `json:"chat_id"`
	MessageID int64                 `json:"message_id"`
	Reaction  []botapi.ReactionType `json:"reaction,omitempty"`
	IsBig     bool                  `json:"is_big,omitempty"`
}

func (e *Engine) setMessageReaction(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setMessageReactionRequest](payload)
	if err != nil {
		return nil, err
	}
	if len(req.Reaction) > 1 {
		return nil, botapi.NewValidationError("bots can set at most one reaction")
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if _, err := e.chats.Message(chat.ID, req.MessageID); err != nil {
		return nil, err
	}
	ref := messageRef{chat.ID, req.MessageID}
	if len(req.Reaction) == 0 {
		delete(e.reactions, ref)
	} else {
		e.reactions[ref] = req.Reaction
	}

	return true, nil
}

type pinChatMessageRequest struct {
	ChatID              botapi.ChatID `json:"chat_id"`
	MessageID           int64         `json:"message_id"`
	DisableNotification bool          `json:"disable_notification,omitempty"`
}

func (e *Engine) pinChatMessage(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[pinChatMessageRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if err := e.requirePinRight(chat); err != nil {
		return nil, err
	}
	if _, err := e.chats.Pin(chat.ID, req.MessageID); err != nil {
		return nil, err
	}

	return true, nil
}

type unpinChatMessageRequest struct {
	ChatID    botapi.ChatID `json:"chat_id"`
	MessageID int64         `json:"message_id,omitempty"`
}

func (e *Engine) unpinChatMessage(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[unpinChatMessageRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if err := e.requirePinRight(chat); err != nil {
		return nil, err
	}
	if err := e.chats.Unpin(chat.ID, req.MessageID); err != nil {
		return nil, err
	}

	return true, nil
}

func (e *Engine) unpinAllChatMessages(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[unpinChatMessageRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	if err := e.requirePinRight(chat); err != nil {
		return nil, err
	}
	if err := e.chats.UnpinAll(chat.ID); err != nil {
		return nil, err
	}

	return true, nil
}

// requirePinRight gates pin management: admins need the pin right, plain
// members fall back to the chat permission defaults.
func (e *Engine) requirePinRight(chat botapi.Chat) error {
	if chat.Type == botapi.ChatTypePrivate {
		return nil
	}
	if e.isPrivileged(chat.ID, e.bot.ID) {
		return e.requireAdminRight(chat, e.bot.ID, "pin messages", func(r botapi.ChatAdministratorRights) bool {
			return r.CanPinMessages || r.CanManageChat
		})
	}
	if chat.Permissions != nil && chat.Permissions.CanPinMessages {
		if status := e.members.Status(chat.ID, e.bot.ID); status == botapi.MemberStatusMember {
			return nil
		}
	}

	return botapi.NewPermissionError("not enough rights to pin a message")
}

// forgetPoll drops the poll<->message correlation for a deleted message.
func (e *Engine) forgetPoll(chatID, messageID int64) {
	e.pollMu.Lock()
	defer e.pollMu.Unlock()

	ref := messageRef{chatID, messageID}
	if pollID, found := e.messagePolls[ref]; found {
		delete(e.messagePolls, ref)
		delete(e.pollMessages, pollID)
	}
}
