package botapi

import (
	"context"
	"encoding/json"
)

// Response is the wire envelope every API call returns.
type Response struct {
	OK          bool                `json:"ok"`
	Result      json.RawMessage     `json:"result,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Description string              `json:"description,omitempty"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
}

// CallFunc is the single seam a bot-framework adapter needs from the engine:
// one request in, one platform-shaped envelope out. Cancellation of ctx
// releases a pending long-poll with an empty result rather than an error.
type CallFunc func(ctx context.Context, method string, payload json.RawMessage) Response

// OKResponse marshals a successful result into the wire envelope.
func OKResponse(result any) Response {
	raw, err := json.Marshal(result)
	if err != nil {
		return ErrResponse(NewValidationError("result is not serializable: %v", err))
	}

	return Response{OK: true, Result: raw}
}

// ErrResponse converts a platform error into the wire envelope.
func ErrResponse(apiErr *Error) Response {
	return Response{
		OK:          false,
		ErrorCode:   apiErr.Code,
		Description: apiErr.Description,
		Parameters:  apiErr.Parameters,
	}
}
