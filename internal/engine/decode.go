package engine

import (
	"encoding/json"
	"unicode/utf8"

	"telesim/pkg/botapi"
)

// decode parses the payload into a typed request. An empty payload decodes to
// the zero request so parameterless methods share the same path.
func decode[T any](payload json.RawMessage) (T, error) {
	var req T
	if len(payload) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		var zero T
		return zero, botapi.NewValidationError("can't parse request: %v", err)
	}

	return req, nil
}

// checkLength validates a character-counted field against its inclusive cap.
func checkLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return botapi.NewValidationError("%s is too long: limit is %d characters", field, limit)
	}

	return nil
}

// checkNotEmpty rejects a required string field the request left blank.
func checkNotEmpty(field, value string) error {
	if value == "" {
		return botapi.NewValidationError("%s is empty", field)
	}

	return nil
}

// checkRange validates an inclusive numeric range.
func checkRange(field string, value, low, high int) error {
	if value < low || value > high {
		return botapi.NewValidationError("%s must be between %d and %d", field, low, high)
	}

	return nil
}
