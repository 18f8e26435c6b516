package engine

import (
	"time"

	"telesim/internal/state"
	"telesim/pkg/botapi"
)

// Simulate* helpers model actions of other platform actors. Each one
// registers the side state the action implies, mints an update id, and
// enqueues the corresponding update for getUpdates to deliver.

// push wraps an update envelope with a fresh id and enqueues it.
func (e *Engine) push(update botapi.Update) botapi.Update {
	update.UpdateID = e.seq.NextUpdateID()
	e.queue.push(update)

	return update
}

// SimulateMessage delivers a message from a simulated actor. The chat is
// created on first reference and the sender becomes a member of it.
func (e *Engine) SimulateMessage(chat botapi.Chat, from botapi.User, text string) (botapi.Message, error) {
	stored, err := e.storeActorMessage(chat, from, text, "")
	if err != nil {
		return botapi.Message{}, err
	}
	e.push(botapi.Update{Message: &stored})

	return stored, nil
}

// SimulateEditedMessage applies an edit by the original sender and delivers
// the edited_message update.
func (e *Engine) SimulateEditedMessage(chatID, messageID int64, text string) (botapi.Message, error) {
	edited, err := e.chats.UpdateMessage(chatID, messageID, func(m *botapi.Message) {
		m.Text = text
		m.Entities = nil
	})
	if err != nil {
		return botapi.Message{}, err
	}
	e.push(botapi.Update{EditedMessage: &edited})

	return edited, nil
}

// SimulateCallbackQuery presses an inline keyboard button: the query becomes
// pending until the bot answers it.
func (e *Engine) SimulateCallbackQuery(from botapi.User, message *botapi.Message, data string) botapi.CallbackQuery {
	query := botapi.CallbackQuery{
		ID:           e.seq.NextCallbackQueryID(),
		From:         &from,
		Message:      message,
		ChatInstance: "simulated",
		Data:         data,
	}
	if message != nil && message.Chat != nil {
		e.members.EnsureMember(message.Chat.ID, from)
	}
	e.queries.Register(state.QueryKindCallback, query.ID, from.ID, query)
	e.push(botapi.Update{CallbackQuery: &query})

	return query
}

// SimulateInlineQuery issues an inline mode query from a simulated actor.
func (e *Engine) SimulateInlineQuery(from botapi.User, text, offset string) botapi.InlineQuery {
	query := botapi.InlineQuery{
		ID:     e.seq.NextInlineQueryID(),
		From:   &from,
		Query:  text,
		Offset: offset,
	}
	e.queries.Register(state.QueryKindInline, query.ID, from.ID, query)
	e.push(botapi.Update{InlineQuery: &query})

	return query
}

// SimulateChosenInlineResult reports the actor picked one inline result.
func (e *Engine) SimulateChosenInlineResult(from botapi.User, resultID, query string) botapi.ChosenInlineResult {
	chosen := botapi.ChosenInlineResult{
		ResultID: resultID,
		From:     &from,
		Query:    query,
	}
	e.push(botapi.Update{ChosenInlineResult: &chosen})

	return chosen
}

// SimulatePollAnswer casts a vote. A repeat vote replaces the voter's prior
// contribution; closed polls swallow the vote silently. Non-anonymous polls
// additionally deliver the poll_answer update.
func (e *Engine) SimulatePollAnswer(pollID string, from botapi.User, optionIDs []int) (botapi.Poll, error) {
	poll, counted := e.polls.Vote(pollID, from.ID, optionIDs)
	if poll.ID == "" {
		return botapi.Poll{}, state.ErrPollNotFound
	}
	e.refreshPollMessage(poll)
	if counted && !poll.IsAnonymous {
		answer := botapi.PollAnswer{
			PollID:    pollID,
			User:      &from,
			OptionIDs: optionIDs,
		}
		e.push(botapi.Update{PollAnswer: &answer})
	}

	return poll, nil
}

// refreshPollMessage re-snapshots the poll into the message that carries it.
func (e *Engine) refreshPollMessage(poll botapi.Poll) {
	e.pollMu.Lock()
	ref, found := e.pollMessages[poll.ID]
	e.pollMu.Unlock()
	if !found {
		return
	}
	_, _ = e.chats.UpdateMessage(ref.chatID, ref.messageID, func(m *botapi.Message) {
		snapshot := poll
		m.Poll = &snapshot
	})
}

// SimulateReaction changes an actor's reaction on a message and delivers the
// message_reaction update.
func (e *Engine) SimulateReaction(chatID, messageID int64, from botapi.User, reaction []botapi.ReactionType) (botapi.MessageReactionUpdated, error) {
	chat, found := e.chats.Get(chatID)
	if !found {
		return botapi.MessageReactionUpdated{}, state.ErrChatNotFound
	}
	if _, err := e.chats.Message(chatID, messageID); err != nil {
		return botapi.MessageReactionUpdated{}, err
	}
	e.members.EnsureMember(chatID, from)
	updated := botapi.MessageReactionUpdated{
		Chat:        &chat,
		MessageID:   messageID,
		User:        &from,
		Date:        e.clock.Unix(),
		OldReaction: []botapi.ReactionType{},
		NewReaction: reaction,
	}
	e.push(botapi.Update{MessageReaction: &updated})

	return updated, nil
}

// SimulateJoinRequest files a pending join request through an invite link
// that requires approval.
func (e *Engine) SimulateJoinRequest(inviteLink string, from botapi.User, bio string) (botapi.ChatJoinRequest, error) {
	link, chatID, err := e.invites.Get(inviteLink)
	if err != nil {
		return botapi.ChatJoinRequest{}, err
	}
	chat, found := e.chats.Get(chatID)
	if !found {
		return botapi.ChatJoinRequest{}, state.ErrChatNotFound
	}
	request := botapi.ChatJoinRequest{
		Chat:       &chat,
		From:       &from,
		UserChatID: from.ID,
		Date:       e.clock.Unix(),
		Bio:        bio,
		InviteLink: &link,
	}
	if err := e.invites.AddJoinRequest(inviteLink, request); err != nil {
		return botapi.ChatJoinRequest{}, err
	}
	e.push(botapi.Update{ChatJoinRequest: &request})

	return request, nil
}

// SimulateJoinViaInvite admits an actor through a direct invite link,
// consuming one use and delivering the chat_member transition.
func (e *Engine) SimulateJoinViaInvite(inviteLink string, from botapi.User) (botapi.ChatInviteLink, error) {
	link, chatID, err := e.invites.Use(inviteLink)
	if err != nil {
		return botapi.ChatInviteLink{}, err
	}
	old, _ := e.members.Get(chatID, from.ID)
	if old.Status == "" {
		old = botapi.ChatMember{Status: botapi.MemberStatusLeft, User: &from}
	}
	if err := e.members.Join(chatID, from); err != nil {
		return botapi.ChatInviteLink{}, err
	}
	e.pushMemberUpdate(chatID, from, old, &link)

	return link, nil
}

// SimulateChatMemberUpdate delivers a membership transition computed from
// the current record.
func (e *Engine) SimulateChatMemberUpdate(chatID int64, from botapi.User, old botapi.ChatMember) {
	e.pushMemberUpdate(chatID, from, old, nil)
}

func (e *Engine) pushMemberUpdate(chatID int64, from botapi.User, old botapi.ChatMember, link *botapi.ChatInviteLink) {
	chat, found := e.chats.Get(chatID)
	if !found {
		return
	}
	current, exists := e.members.Get(chatID, from.ID)
	if !exists {
		current = botapi.ChatMember{Status: botapi.MemberStatusLeft, User: &from}
	}
	updated := botapi.ChatMemberUpdated{
		Chat:          &chat,
		From:          &from,
		Date:          e.clock.Unix(),
		OldChatMember: &old,
		NewChatMember: &current,
		InviteLink:    link,
	}
	e.push(botapi.Update{ChatMember: &updated})
}

// SimulateBoost applies a boost to a chat for the given duration.
func (e *Engine) SimulateBoost(chatID int64, from botapi.User, duration time.Duration) (botapi.ChatBoost, error) {
	boost, err := e.chats.AddBoost(chatID, from, duration)
	if err != nil {
		return botapi.ChatBoost{}, err
	}
	chat, _ := e.chats.Get(chatID)
	e.push(botapi.Update{ChatBoost: &botapi.ChatBoostUpdated{Chat: &chat, Boost: &boost}})

	return boost, nil
}

// SimulateRemovedBoost removes a boost and delivers the removal update.
func (e *Engine) SimulateRemovedBoost(chatID int64, boostID string) bool {
	if !e.chats.RemoveBoost(chatID, boostID) {
		return false
	}
	chat, _ := e.chats.Get(chatID)
	e.push(botapi.Update{RemovedChatBoost: &botapi.ChatBoostRemoved{
		Chat:       &chat,
		BoostID:    boostID,
		RemoveDate: e.clock.Unix(),
	}})

	return true
}

// SimulateBusinessConnection opens a business connection from a simulated
// user account to the bot.
func (e *Engine) SimulateBusinessConnection(from botapi.User, canReply bool) botapi.BusinessConnection {
	connection := e.business.Connect(from, canReply)
	e.push(botapi.Update{BusinessConnection: &connection})

	return connection
}

// SimulateBusinessDisconnect disables a business connection and delivers the
// change.
func (e *Engine) SimulateBusinessDisconnect(connectionID string) (botapi.BusinessConnection, error) {
	connection, err := e.business.Disable(connectionID)
	if err != nil {
		return botapi.BusinessConnection{}, err
	}
	e.push(botapi.Update{BusinessConnection: &connection})

	return connection, nil
}

// SimulateBusinessMessage delivers a customer message on a business
// connection.
func (e *Engine) SimulateBusinessMessage(connectionID string, chat botapi.Chat, from botapi.User, text string) (botapi.Message, error) {
	if _, err := e.business.Get(connectionID); err != nil {
		return botapi.Message{}, err
	}
	stored, err := e.storeActorMessage(chat, from, text, connectionID)
	if err != nil {
		return botapi.Message{}, err
	}
	e.push(botapi.Update{BusinessMessage: &stored})

	return stored, nil
}

// SimulatePreCheckoutQuery raises a checkout confirmation the bot must
// answer within the flow of sendInvoice.
func (e *Engine) SimulatePreCheckoutQuery(from botapi.User, currency string, totalAmount int, invoicePayload string) botapi.PreCheckoutQuery {
	query := botapi.PreCheckoutQuery{
		ID:             e.seq.NextPreCheckoutQueryID(),
		From:           &from,
		Currency:       currency,
		TotalAmount:    totalAmount,
		InvoicePayload: invoicePayload,
	}
	e.queries.Register(state.QueryKindPreCheckout, query.ID, from.ID, query)
	e.push(botapi.Update{PreCheckoutQuery: &query})

	return query
}

// SimulateShippingQuery raises a shipping options request for a flexible
// invoice.
func (e *Engine) SimulateShippingQuery(from botapi.User, invoicePayload string, address botapi.ShippingAddress) botapi.ShippingQuery {
	query := botapi.ShippingQuery{
		ID:              e.seq.NextShippingQueryID(),
		From:            &from,
		InvoicePayload:  invoicePayload,
		ShippingAddress: &address,
	}
	e.queries.Register(state.QueryKindShipping, query.ID, from.ID, query)
	e.push(botapi.Update{ShippingQuery: &query})

	return query
}

// SimulatePassportSubmission records the actor's passport data and delivers
// it as a message carrying passport_data in the actor's private chat.
func (e *Engine) SimulatePassportSubmission(from botapi.User, elements []botapi.EncryptedPassportElement) (botapi.Message, error) {
	e.passport.Submit(from.ID, elements)
	chat := e.chats.GetOrCreate(botapi.Chat{
		ID:        from.ID,
		Type:      botapi.ChatTypePrivate,
		FirstName: from.FirstName,
		LastName:  from.LastName,
		Username:  from.Username,
	})
	e.members.EnsureMember(chat.ID, from)
	stored, err := e.chats.StoreMessage(chat.ID, botapi.Message{
		From:         &from,
		Chat:         &chat,
		PassportData: &botapi.PassportData{Data: elements},
	})
	if err != nil {
		return botapi.Message{}, err
	}
	e.push(botapi.Update{Message: &stored})

	return stored, nil
}

// storeActorMessage registers chat and membership side state, then stores an
// inbound text message.
func (e *Engine) storeActorMessage(chat botapi.Chat, from botapi.User, text, connectionID string) (botapi.Message, error) {
	created := e.chats.GetOrCreate(chat)
	e.members.EnsureMember(created.ID, from)

	return e.chats.StoreMessage(created.ID, botapi.Message{
		From:                 &from,
		Chat:                 &created,
		Text:                 text,
		BusinessConnectionID: connectionID,
	})
}
