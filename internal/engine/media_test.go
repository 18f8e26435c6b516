package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"telesim/pkg/botapi"
)

// TestSendDocumentStoresFile verifies a successful upload lands in the file
// store and is reachable through getFile.
func TestSendDocumentStoresFile(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	seedPrivateChat(e, testActor)

	result, err := e.Do(context.Background(), "sendDocument",
		json.RawMessage(`{"chat_id": 10, "document": "report contents", "file_name": "report.txt"}`))
	if err != nil {
		t.Fatalf("sendDocument failed: %v", err)
	}
	message := result.(botapi.Message)
	if message.Document == nil || message.Document.FileName != "report.txt" {
		t.Fatalf("document = %+v, want report.txt", message.Document)
	}
	if got := e.files.Len(); got != 1 {
		t.Fatalf("stored file count = %d, want 1", got)
	}

	payload := fmt.Sprintf(`{"file_id": %q}`, message.Document.FileID)
	if _, err := e.Do(context.Background(), "getFile", json.RawMessage(payload)); err != nil {
		t.Fatalf("getFile failed: %v", err)
	}
}

// TestSendMediaRejectedStoresNoFiles verifies a send refused by a chat gate
// leaves the file store untouched.
func TestSendMediaRejectedStoresNoFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		method  string
		payload string
	}{
		{
			name:    "photo to unknown chat",
			method:  "sendPhoto",
			payload: `{"chat_id": 999, "photo": "sunset bytes"}`,
		},
		{
			name:    "document to unknown chat",
			method:  "sendDocument",
			payload: `{"chat_id": 999, "document": "report contents"}`,
		},
		{
			name:    "video to unknown chat",
			method:  "sendVideo",
			payload: `{"chat_id": 999, "video": "clip bytes"}`,
		},
		{
			name:    "sticker to unknown chat",
			method:  "sendSticker",
			payload: `{"chat_id": 999, "sticker": "sticker bytes"}`,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			e := newTestEngine()
			seedPrivateChat(e, testActor)

			_, err := e.Do(context.Background(), testCase.method, json.RawMessage(testCase.payload))
			wantAPIError(t, err, 400, "chat not found")
			if got := e.files.Len(); got != 0 {
				t.Fatalf("stored file count = %d, want 0", got)
			}
		})
	}
}

// TestSendDocumentDeniedStoresNoFiles verifies a permission refusal leaves
// the file store untouched.
func TestSendDocumentDeniedStoresNoFiles(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	chat := seedGroupChat(e, botapi.Chat{ID: -100600, Type: botapi.ChatTypeSupergroup, Title: "pals"}, true)
	if err := e.members.Restrict(chat.ID, e.bot.ID, botapi.ChatPermissions{}, time.Time{}); err != nil {
		t.Fatalf("restrict failed: %v", err)
	}

	payload := fmt.Sprintf(`{"chat_id": %d, "document": "report contents"}`, chat.ID)
	_, err := e.Do(context.Background(), "sendDocument", json.RawMessage(payload))
	wantAPIError(t, err, 400, "not enough rights to send documents to the chat")
	if got := e.files.Len(); got != 0 {
		t.Fatalf("stored file count = %d, want 0", got)
	}
}
