package botapi

import (
	"encoding/json"
	"testing"
)

// TestChatIDUnmarshal verifies the accepted chat_id wire forms.
func TestChatIDUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		raw          string
		wantNumeric  int64
		wantUsername string
		wantErr      bool
	}{
		{name: "integer", raw: `-100200300`, wantNumeric: -100200300},
		{name: "numeric string", raw: `"42"`, wantNumeric: 42},
		{name: "username string", raw: `"@somechannel"`, wantUsername: "@somechannel"},
		{name: "non numeric string rejected", raw: `"nope"`, wantErr: true},
		{name: "object rejected", raw: `{}`, wantErr: true},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var chatID ChatID
			err := json.Unmarshal([]byte(testCase.raw), &chatID)
			if testCase.wantErr {
				if err == nil {
					t.Fatalf("unmarshal %s succeeded, want error", testCase.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal %s failed: %v", testCase.raw, err)
			}

			if testCase.wantUsername != "" {
				username, ok := chatID.Username()
				if !ok || username != testCase.wantUsername {
					t.Fatalf("username = %q (%v), want %q", username, ok, testCase.wantUsername)
				}
				return
			}
			numeric, ok := chatID.Numeric()
			if !ok || numeric != testCase.wantNumeric {
				t.Fatalf("numeric = %d (%v), want %d", numeric, ok, testCase.wantNumeric)
			}
		})
	}
}

// TestChatIDMarshalRoundTrip verifies both forms survive re-serialization.
func TestChatIDMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		chatID ChatID
		want   string
	}{
		{name: "numeric", chatID: NumericChatID(-100500), want: `-100500`},
		{name: "username", chatID: UsernameChatID("somechannel"), want: `"@somechannel"`},
		{name: "username keeps at sign", chatID: UsernameChatID("@other"), want: `"@other"`},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			raw, err := json.Marshal(testCase.chatID)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if string(raw) != testCase.want {
				t.Fatalf("marshaled = %s, want %s", raw, testCase.want)
			}
		})
	}
}

// TestChatIDZeroAndString verifies absence detection and error rendering.
func TestChatIDZeroAndString(t *testing.T) {
	t.Parallel()

	var zero ChatID
	if !zero.IsZero() {
		t.Fatal("expected zero value to report absence")
	}
	if NumericChatID(5).IsZero() {
		t.Fatal("expected numeric id to be present")
	}
	if got := NumericChatID(-1).String(); got != "-1" {
		t.Fatalf("string = %q, want %q", got, "-1")
	}
	if got := UsernameChatID("chan").String(); got != "@chan" {
		t.Fatalf("string = %q, want %q", got, "@chan")
	}
}
