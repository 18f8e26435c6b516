package botapi

import "testing"

// TestUpdateKind verifies branch detection on the envelope.
func TestUpdateKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		update Update
		want   UpdateKind
	}{
		{name: "message", update: Update{Message: &Message{}}, want: UpdateKindMessage},
		{name: "edited message", update: Update{EditedMessage: &Message{}}, want: UpdateKindEditedMessage},
		{name: "callback query", update: Update{CallbackQuery: &CallbackQuery{}}, want: UpdateKindCallbackQuery},
		{name: "poll answer", update: Update{PollAnswer: &PollAnswer{}}, want: UpdateKindPollAnswer},
		{name: "chat member", update: Update{ChatMember: &ChatMemberUpdated{}}, want: UpdateKindChatMember},
		{name: "pre checkout", update: Update{PreCheckoutQuery: &PreCheckoutQuery{}}, want: UpdateKindPreCheckoutQuery},
		{name: "empty", update: Update{}, want: ""},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := testCase.update.Kind(); got != testCase.want {
				t.Fatalf("kind = %q, want %q", got, testCase.want)
			}
		})
	}
}

// TestUpdateValidate verifies the exactly-one-payload envelope invariant.
func TestUpdateValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		update  *Update
		wantErr bool
	}{
		{
			name:   "one payload",
			update: &Update{UpdateID: 1, Message: &Message{}},
		},
		{
			name:    "nil update",
			update:  nil,
			wantErr: true,
		},
		{
			name:    "missing id",
			update:  &Update{Message: &Message{}},
			wantErr: true,
		},
		{
			name:    "no payload",
			update:  &Update{UpdateID: 2},
			wantErr: true,
		},
		{
			name:    "two payloads",
			update:  &Update{UpdateID: 3, Message: &Message{}, PollAnswer: &PollAnswer{}},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := testCase.update.Validate()
			if testCase.wantErr && err == nil {
				t.Fatal("expected validation to fail")
			}
			if !testCase.wantErr && err != nil {
				t.Fatalf("validation failed: %v", err)
			}
		})
	}
}
