package engine

import (
	"context"
	"encoding/json"
	"testing"

	"telesim/pkg/botapi"
)

// TestGetUpdatesDeliversPending verifies queued updates return without
// blocking.
func TestGetUpdatesDeliversPending(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	chat := botapi.Chat{ID: 10, Type: botapi.ChatTypePrivate}
	if _, err := e.SimulateMessage(chat, testActor, "ping"); err != nil {
		t.Fatalf("simulate message failed: %v", err)
	}

	result, err := e.Do(context.Background(), "getUpdates", nil)
	if err != nil {
		t.Fatalf("getUpdates failed: %v", err)
	}
	batch, ok := result.([]botapi.Update)
	if !ok {
		t.Fatalf("result type = %T, want []botapi.Update", result)
	}
	if len(batch) != 1 {
		t.Fatalf("batch size = %d, want 1", len(batch))
	}
	if batch[0].UpdateID != 1 {
		t.Fatalf("update id = %d, want 1", batch[0].UpdateID)
	}
	if batch[0].Message == nil || batch[0].Message.Text != "ping" {
		t.Fatalf("update message = %+v, want text %q", batch[0].Message, "ping")
	}
}

// TestGetUpdatesLongPollWakesOnPush verifies a blocked fetch resolves when an
// update arrives.
func TestGetUpdatesLongPollWakesOnPush(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	done := make(chan []botapi.Update, 1)
	go func() {
		result, err := e.Do(context.Background(), "getUpdates", nil)
		if err != nil {
			done <- nil
			return
		}
		done <- result.([]botapi.Update)
	}()

	chat := botapi.Chat{ID: 10, Type: botapi.ChatTypePrivate}
	if _, err := e.SimulateMessage(chat, testActor, "wake up"); err != nil {
		t.Fatalf("simulate message failed: %v", err)
	}

	batch := <-done
	if len(batch) != 1 {
		t.Fatalf("batch size = %d, want 1", len(batch))
	}
	if batch[0].Message == nil || batch[0].Message.Text != "wake up" {
		t.Fatalf("update message = %+v, want text %q", batch[0].Message, "wake up")
	}
}

// TestGetUpdatesCancellation verifies cancellation resolves a pending fetch
// with an empty batch, not an error.
func TestGetUpdatesCancellation(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := e.Do(ctx, "getUpdates", nil)
	if err != nil {
		t.Fatalf("getUpdates after cancellation failed: %v", err)
	}
	batch := result.([]botapi.Update)
	if len(batch) != 0 {
		t.Fatalf("batch size = %d, want 0", len(batch))
	}
}

// TestGetUpdatesOffsetConfirms verifies the offset discards every update
// below it.
func TestGetUpdatesOffsetConfirms(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	chat := botapi.Chat{ID: 10, Type: botapi.ChatTypePrivate}
	for _, text := range []string{"one", "two"} {
		if _, err := e.SimulateMessage(chat, testActor, text); err != nil {
			t.Fatalf("simulate message failed: %v", err)
		}
	}

	result, err := e.Do(context.Background(), "getUpdates", json.RawMessage(`{"offset": 2}`))
	if err != nil {
		t.Fatalf("getUpdates failed: %v", err)
	}
	batch := result.([]botapi.Update)
	if len(batch) != 1 {
		t.Fatalf("batch size = %d, want 1", len(batch))
	}
	if batch[0].UpdateID != 2 {
		t.Fatalf("update id = %d, want 2", batch[0].UpdateID)
	}
	if got := e.queue.size(); got != 1 {
		t.Fatalf("unconfirmed updates = %d, want 1", got)
	}
}

// TestGetUpdatesLimit verifies the batch size cap.
func TestGetUpdatesLimit(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	chat := botapi.Chat{ID: 10, Type: botapi.ChatTypePrivate}
	for _, text := range []string{"one", "two", "three"} {
		if _, err := e.SimulateMessage(chat, testActor, text); err != nil {
			t.Fatalf("simulate message failed: %v", err)
		}
	}

	result, err := e.Do(context.Background(), "getUpdates", json.RawMessage(`{"limit": 2}`))
	if err != nil {
		t.Fatalf("getUpdates failed: %v", err)
	}
	batch := result.([]botapi.Update)
	if len(batch) != 2 {
		t.Fatalf("batch size = %d, want 2", len(batch))
	}
	if batch[0].UpdateID != 1 || batch[1].UpdateID != 2 {
		t.Fatalf("update ids = %d/%d, want 1/2", batch[0].UpdateID, batch[1].UpdateID)
	}
}

// TestGetUpdatesRejectsNegativeLimit verifies the limit gate.
func TestGetUpdatesRejectsNegativeLimit(t *testing.T) {
	t.Parallel()

	e := newTestEngine()

	_, err := e.Do(context.Background(), "getUpdates", json.RawMessage(`{"limit": -1}`))
	wantAPIError(t, err, 400, "limit must be non-negative")
}

// TestWebhookLifecycle verifies set, inspect, and delete of the webhook
// configuration.
func TestWebhookLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEngine()

	_, err := e.Do(context.Background(), "setWebhook", json.RawMessage(`{"url": "http://example.com/hook"}`))
	wantAPIError(t, err, 400, "HTTPS url must be provided for webhook")

	if _, err := e.Do(context.Background(), "setWebhook", json.RawMessage(`{"url": "https://example.com/hook"}`)); err != nil {
		t.Fatalf("setWebhook failed: %v", err)
	}

	chat := botapi.Chat{ID: 10, Type: botapi.ChatTypePrivate}
	if _, err := e.SimulateMessage(chat, testActor, "pending"); err != nil {
		t.Fatalf("simulate message failed: %v", err)
	}

	result, err := e.Do(context.Background(), "getWebhookInfo", nil)
	if err != nil {
		t.Fatalf("getWebhookInfo failed: %v", err)
	}
	info := result.(botapi.WebhookInfo)
	if info.URL != "https://example.com/hook" {
		t.Fatalf("webhook url = %q, want %q", info.URL, "https://example.com/hook")
	}
	if info.PendingUpdateCount != 1 {
		t.Fatalf("pending update count = %d, want 1", info.PendingUpdateCount)
	}

	if _, err := e.Do(context.Background(), "deleteWebhook", nil); err != nil {
		t.Fatalf("deleteWebhook failed: %v", err)
	}
	result, err = e.Do(context.Background(), "getWebhookInfo", nil)
	if err != nil {
		t.Fatalf("getWebhookInfo after delete failed: %v", err)
	}
	if got := result.(botapi.WebhookInfo).URL; got != "" {
		t.Fatalf("webhook url after delete = %q, want empty", got)
	}
}
