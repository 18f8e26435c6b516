package engine

import (
	"context"
	"encoding/json"
	"errors"

	"telesim/pkg/botapi"
)

// ErrInvocationFinished is returned by Invocation calls after Finish.
var ErrInvocationFinished = errors.New("telesim: invocation already finished")

// Invocation groups a sequence of API calls and accumulates their wire
// responses in call order. Each invocation is an explicit object; invocations
// never nest and an engine can serve any number of them concurrently.
type Invocation struct {
	engine    *Engine
	responses []botapi.Response
	finished  bool
}

// NewInvocation starts an invocation scope on the engine.
func (e *Engine) NewInvocation() *Invocation {
	return &Invocation{engine: e}
}

// Do dispatches one API call inside the invocation, recording the wire
// envelope before returning the decoded result.
func (inv *Invocation) Do(ctx context.Context, method string, payload json.RawMessage) (any, error) {
	if inv.finished {
		return nil, ErrInvocationFinished
	}

	result, err := inv.engine.dispatch(ctx, inv, method, payload)
	if err != nil {
		apiErr, _ := botapi.AsError(err)
		inv.responses = append(inv.responses, botapi.ErrResponse(apiErr))
		return nil, err
	}
	inv.responses = append(inv.responses, botapi.OKResponse(result))

	return result, nil
}

// Call dispatches one API call and returns only the wire envelope.
func (inv *Invocation) Call(ctx context.Context, method string, payload json.RawMessage) botapi.Response {
	if inv.finished {
		return botapi.ErrResponse(botapi.NewValidationError("invocation already finished"))
	}

	if _, err := inv.Do(ctx, method, payload); err != nil {
		return inv.responses[len(inv.responses)-1]
	}

	return inv.responses[len(inv.responses)-1]
}

// Finish closes the invocation and returns the accumulated responses in call
// order. Further calls on the invocation fail.
func (inv *Invocation) Finish() []botapi.Response {
	inv.finished = true
	out := make([]botapi.Response, len(inv.responses))
	copy(out, inv.responses)

	return out
}

// Responses returns a snapshot of the envelopes accumulated so far.
func (inv *Invocation) Responses() []botapi.Response {
	out := make([]botapi.Response, len(inv.responses))
	copy(out, inv.responses)

	return out
}

// CallFunc adapts the engine to the one-function seam bot frameworks consume.
func (e *Engine) CallFunc() botapi.CallFunc {
	return func(ctx context.Context, method string, payload json.RawMessage) botapi.Response {
		result, err := e.Do(ctx, method, payload)
		if err != nil {
			apiErr, _ := botapi.AsError(err)
			return botapi.ErrResponse(apiErr)
		}

		return botapi.OKResponse(result)
	}
}
