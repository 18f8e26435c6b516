package botapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ChatID accepts either the numeric chat identifier or the "@username" string
// form, as the platform does for every chat_id field.
type ChatID struct {
	id       int64
	username string
}

// NumericChatID wraps a numeric chat identifier.
func NumericChatID(id int64) ChatID {
	return ChatID{id: id}
}

// UsernameChatID wraps an "@username" chat reference.
func UsernameChatID(username string) ChatID {
	if !strings.HasPrefix(username, "@") {
		username = "@" + username
	}

	return ChatID{username: username}
}

// IsZero reports whether the field was absent from the request.
func (c ChatID) IsZero() bool {
	return c.id == 0 && c.username == ""
}

// Numeric returns the numeric identifier when one was supplied.
func (c ChatID) Numeric() (int64, bool) {
	return c.id, c.id != 0
}

// Username returns the "@username" form when one was supplied.
func (c ChatID) Username() (string, bool) {
	return c.username, c.username != ""
}

// String renders the reference for error descriptions.
func (c ChatID) String() string {
	if c.username != "" {
		return c.username
	}

	return strconv.FormatInt(c.id, 10)
}

// UnmarshalJSON accepts int64, numeric string, or "@username" values.
func (c *ChatID) UnmarshalJSON(data []byte) error {
	var numeric int64
	if err := json.Unmarshal(data, &numeric); err == nil {
		*c = ChatID{id: numeric}
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("telesim: chat_id must be int or string: %w", err)
	}
	if strings.HasPrefix(text, "@") {
		*c = ChatID{username: text}
		return nil
	}
	parsed, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return fmt.Errorf("telesim: chat_id string %q is not numeric or @username", text)
	}
	*c = ChatID{id: parsed}

	return nil
}

// MarshalJSON renders the form the caller supplied.
func (c ChatID) MarshalJSON() ([]byte, error) {
	if c.username != "" {
		return json.Marshal(c.username)
	}

	return json.Marshal(c.id)
}
