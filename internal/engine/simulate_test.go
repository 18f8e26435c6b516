package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"telesim/internal/state"
	"telesim/pkg/botapi"
)

// TestSimulateMessageRegistersSideState verifies a simulated inbound message
// creates the chat, the membership, the log entry, and the queued update.
func TestSimulateMessageRegistersSideState(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	template := botapi.Chat{ID: -100600, Type: botapi.ChatTypeSupergroup, Title: "pals"}

	stored, err := e.SimulateMessage(template, testActor, "hello bot")
	if err != nil {
		t.Fatalf("simulate message failed: %v", err)
	}

	if _, found := e.chats.Get(template.ID); !found {
		t.Fatal("expected chat to be created on first reference")
	}
	if status := e.members.Status(template.ID, testActor.ID); status != botapi.MemberStatusMember {
		t.Fatalf("sender status = %q, want %q", status, botapi.MemberStatusMember)
	}
	logged, err := e.chats.Message(template.ID, stored.MessageID)
	if err != nil {
		t.Fatalf("stored message lookup failed: %v", err)
	}
	if logged.Text != "hello bot" {
		t.Fatalf("logged text = %q, want %q", logged.Text, "hello bot")
	}
	if got := e.queue.size(); got != 1 {
		t.Fatalf("queued updates = %d, want 1", got)
	}
}

// TestSimulatePollAnswerRefreshesCarryingMessage verifies a vote updates the
// message snapshot and delivers poll_answer for non-anonymous polls.
func TestSimulatePollAnswerRefreshesCarryingMessage(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	chat := seedPrivateChat(e, testActor)

	result, err := e.Do(context.Background(), "sendPoll",
		json.RawMessage(`{"chat_id": 10, "question": "pick one", "options": ["a", "b"], "is_anonymous": false}`))
	if err != nil {
		t.Fatalf("sendPoll failed: %v", err)
	}
	carrier := result.(botapi.Message)
	if carrier.Poll == nil {
		t.Fatal("sent message carries no poll")
	}

	voted, err := e.SimulatePollAnswer(carrier.Poll.ID, testActor, []int{1})
	if err != nil {
		t.Fatalf("simulate poll answer failed: %v", err)
	}
	if voted.TotalVoterCount != 1 || voted.Options[1].VoterCount != 1 {
		t.Fatalf("vote counts = %d total, %d option, want 1/1",
			voted.TotalVoterCount, voted.Options[1].VoterCount)
	}

	refreshed, err := e.chats.Message(chat.ID, carrier.MessageID)
	if err != nil {
		t.Fatalf("carrier lookup failed: %v", err)
	}
	if refreshed.Poll == nil || refreshed.Poll.TotalVoterCount != 1 {
		t.Fatalf("carrier poll = %+v, want total voter count 1", refreshed.Poll)
	}

	batch, err := e.Do(context.Background(), "getUpdates", nil)
	if err != nil {
		t.Fatalf("getUpdates failed: %v", err)
	}
	updates := batch.([]botapi.Update)
	if len(updates) != 1 || updates[0].PollAnswer == nil {
		t.Fatalf("updates = %+v, want one poll_answer", updates)
	}
	answer := updates[0].PollAnswer
	if answer.PollID != carrier.Poll.ID || len(answer.OptionIDs) != 1 || answer.OptionIDs[0] != 1 {
		t.Fatalf("poll answer = %+v, want option 1 on poll %s", answer, carrier.Poll.ID)
	}
}

// TestPreCheckoutSettlement verifies a confirmed checkout charges the ledger
// and delivers the successful-payment message.
func TestPreCheckoutSettlement(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	query := e.SimulatePreCheckoutQuery(testActor, "XTR", 100, "order-1")

	payload := fmt.Sprintf(`{"pre_checkout_query_id": %q, "ok": true}`, query.ID)
	if _, err := e.Do(context.Background(), "answerPreCheckoutQuery", json.RawMessage(payload)); err != nil {
		t.Fatalf("answerPreCheckoutQuery failed: %v", err)
	}

	batch, err := e.Do(context.Background(), "getUpdates", nil)
	if err != nil {
		t.Fatalf("getUpdates failed: %v", err)
	}
	updates := batch.([]botapi.Update)
	if len(updates) != 2 {
		t.Fatalf("update count = %d, want 2", len(updates))
	}
	if updates[0].PreCheckoutQuery == nil {
		t.Fatalf("first update = %+v, want pre_checkout_query", updates[0])
	}
	settled := updates[1].Message
	if settled == nil || settled.SuccessfulPayment == nil {
		t.Fatalf("second update = %+v, want successful_payment message", updates[1])
	}
	payment := settled.SuccessfulPayment
	if payment.TotalAmount != 100 || payment.InvoicePayload != "order-1" {
		t.Fatalf("payment = %+v, want amount 100 payload order-1", payment)
	}
	if payment.TelegramPaymentChargeID == "" {
		t.Fatal("expected a minted charge id")
	}

	transactions := e.payments.Transactions(0, 0)
	if len(transactions) != 1 {
		t.Fatalf("ledger size = %d, want 1", len(transactions))
	}
	if transactions[0].Amount != 100 || transactions[0].UserID != testActor.ID {
		t.Fatalf("transaction = %+v, want amount 100 from user %d", transactions[0], testActor.ID)
	}

	_, err = e.Do(context.Background(), "answerPreCheckoutQuery", json.RawMessage(payload))
	wantAPIError(t, err, 400, "query has already been answered")
}

// TestSimulateJoinViaInvite verifies a link use admits the actor and delivers
// the membership transition.
func TestSimulateJoinViaInvite(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	chat := seedGroupChat(e, botapi.Chat{ID: -100700, Type: botapi.ChatTypeSupergroup, Title: "pals"}, true)
	link := e.invites.Create(chat.ID, e.bot, state.LinkParams{})

	used, err := e.SimulateJoinViaInvite(link.InviteLink, testActor)
	if err != nil {
		t.Fatalf("simulate join failed: %v", err)
	}
	if used.InviteLink != link.InviteLink {
		t.Fatalf("used link = %q, want %q", used.InviteLink, link.InviteLink)
	}
	if status := e.members.Status(chat.ID, testActor.ID); status != botapi.MemberStatusMember {
		t.Fatalf("member status = %q, want %q", status, botapi.MemberStatusMember)
	}

	batch, err := e.Do(context.Background(), "getUpdates", nil)
	if err != nil {
		t.Fatalf("getUpdates failed: %v", err)
	}
	updates := batch.([]botapi.Update)
	if len(updates) != 1 || updates[0].ChatMember == nil {
		t.Fatalf("updates = %+v, want one chat_member transition", updates)
	}
	transition := updates[0].ChatMember
	if transition.OldChatMember.Status != botapi.MemberStatusLeft {
		t.Fatalf("old status = %q, want %q", transition.OldChatMember.Status, botapi.MemberStatusLeft)
	}
	if transition.NewChatMember.Status != botapi.MemberStatusMember {
		t.Fatalf("new status = %q, want %q", transition.NewChatMember.Status, botapi.MemberStatusMember)
	}
	if transition.InviteLink == nil {
		t.Fatal("expected the consumed invite link on the transition")
	}
}

// TestSimulateCallbackQueryAnswerOnce verifies a pressed button can be
// answered exactly once.
func TestSimulateCallbackQueryAnswerOnce(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	query := e.SimulateCallbackQuery(testActor, nil, "page:2")

	payload := fmt.Sprintf(`{"callback_query_id": %q, "text": "done"}`, query.ID)
	if _, err := e.Do(context.Background(), "answerCallbackQuery", json.RawMessage(payload)); err != nil {
		t.Fatalf("answerCallbackQuery failed: %v", err)
	}

	answer, answered := e.queries.Answered(state.QueryKindCallback, query.ID)
	if !answered {
		t.Fatal("expected the query to be marked answered")
	}
	if got := answer.(CallbackAnswer).Text; got != "done" {
		t.Fatalf("recorded answer text = %q, want %q", got, "done")
	}

	_, err := e.Do(context.Background(), "answerCallbackQuery", json.RawMessage(payload))
	wantAPIError(t, err, 400, "query has already been answered")
}
