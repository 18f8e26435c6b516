package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"telesim/pkg/botapi"
)

// TestInvocationAccumulatesEnvelopes verifies successes and failures are
// recorded in call order.
func TestInvocationAccumulatesEnvelopes(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	inv := e.NewInvocation()
	ctx := context.Background()

	if _, err := inv.Do(ctx, "getMe", nil); err != nil {
		t.Fatalf("getMe failed: %v", err)
	}
	if _, err := inv.Do(ctx, "noSuchMethod", nil); err == nil {
		t.Fatal("expected unknown method to fail")
	}

	responses := inv.Finish()
	if len(responses) != 2 {
		t.Fatalf("response count = %d, want 2", len(responses))
	}
	if !responses[0].OK {
		t.Fatalf("first envelope = %+v, want ok", responses[0])
	}
	var bot botapi.User
	if err := json.Unmarshal(responses[0].Result, &bot); err != nil {
		t.Fatalf("unmarshal first result failed: %v", err)
	}
	if bot.ID != e.Bot().ID {
		t.Fatalf("bot id = %d, want %d", bot.ID, e.Bot().ID)
	}
	if responses[1].OK || responses[1].ErrorCode != 404 {
		t.Fatalf("second envelope = %+v, want error code 404", responses[1])
	}
}

// TestInvocationRejectsCallsAfterFinish verifies a finished invocation stays
// closed.
func TestInvocationRejectsCallsAfterFinish(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	inv := e.NewInvocation()
	ctx := context.Background()

	inv.Finish()

	if _, err := inv.Do(ctx, "getMe", nil); !errors.Is(err, ErrInvocationFinished) {
		t.Fatalf("Do after Finish error = %v, want ErrInvocationFinished", err)
	}
	envelope := inv.Call(ctx, "getMe", nil)
	if envelope.OK || !strings.Contains(envelope.Description, "invocation already finished") {
		t.Fatalf("Call after Finish envelope = %+v, want finished failure", envelope)
	}
}

// TestInvocationResponsesSnapshot verifies mid-flight inspection does not
// close the invocation.
func TestInvocationResponsesSnapshot(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	inv := e.NewInvocation()
	ctx := context.Background()

	if _, err := inv.Do(ctx, "getMe", nil); err != nil {
		t.Fatalf("getMe failed: %v", err)
	}
	if got := len(inv.Responses()); got != 1 {
		t.Fatalf("snapshot size = %d, want 1", got)
	}
	if _, err := inv.Do(ctx, "getMe", nil); err != nil {
		t.Fatalf("getMe after snapshot failed: %v", err)
	}
	if got := len(inv.Finish()); got != 2 {
		t.Fatalf("final response count = %d, want 2", got)
	}
}

// TestInvocationCall verifies the envelope-only entry point.
func TestInvocationCall(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	inv := e.NewInvocation()
	ctx := context.Background()

	if envelope := inv.Call(ctx, "getMe", nil); !envelope.OK {
		t.Fatalf("getMe envelope = %+v, want ok", envelope)
	}
	envelope := inv.Call(ctx, "noSuchMethod", nil)
	if envelope.OK || envelope.ErrorCode != 404 {
		t.Fatalf("unknown method envelope = %+v, want error code 404", envelope)
	}
}

// TestCallFunc verifies the framework adapter seam wraps results and errors.
func TestCallFunc(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	call := e.CallFunc()
	ctx := context.Background()

	if envelope := call(ctx, "getMe", nil); !envelope.OK {
		t.Fatalf("getMe envelope = %+v, want ok", envelope)
	}
	envelope := call(ctx, "noSuchMethod", nil)
	if envelope.OK || envelope.ErrorCode != 404 {
		t.Fatalf("unknown method envelope = %+v, want error code 404", envelope)
	}
}
