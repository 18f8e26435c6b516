package state

import (
	"errors"
	"testing"
	"time"
)

func newPaymentFixture() *PaymentStore {
	return NewPaymentStore(NewClock(time.Unix(1_700_000_000, 0).UTC()))
}

// TestPaymentChargeAndRefund verifies the charge lifecycle.
func TestPaymentChargeAndRefund(t *testing.T) {
	t.Parallel()

	store := newPaymentFixture()
	chargeID := store.Charge(10, 50)
	if chargeID == "" {
		t.Fatal("expected a minted charge id")
	}

	if err := store.Refund(10, chargeID); err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if err := store.Refund(10, chargeID); !errors.Is(err, ErrChargeRefunded) {
		t.Fatalf("second refund error = %v, want ErrChargeRefunded", err)
	}
}

// TestPaymentRefundGuards verifies unknown charge and wrong user rejection.
func TestPaymentRefundGuards(t *testing.T) {
	t.Parallel()

	store := newPaymentFixture()
	chargeID := store.Charge(10, 50)

	if err := store.Refund(11, chargeID); !errors.Is(err, ErrChargeNotFound) {
		t.Fatalf("refund by other user error = %v, want ErrChargeNotFound", err)
	}
	if err := store.Refund(10, "missing"); !errors.Is(err, ErrChargeNotFound) {
		t.Fatalf("refund unknown charge error = %v, want ErrChargeNotFound", err)
	}
}

// TestPaymentTransactionPaging verifies ledger order and offset paging.
func TestPaymentTransactionPaging(t *testing.T) {
	t.Parallel()

	store := newPaymentFixture()
	for i := 1; i <= 5; i++ {
		store.Charge(int64(i), i*10)
	}

	page := store.Transactions(0, 3)
	if len(page) != 3 {
		t.Fatalf("page size = %d, want 3", len(page))
	}
	if page[0].Amount != 10 || page[2].Amount != 30 {
		t.Fatalf("page amounts = %d..%d, want oldest first", page[0].Amount, page[2].Amount)
	}

	rest := store.Transactions(3, 0)
	if len(rest) != 2 {
		t.Fatalf("rest size = %d, want 2", len(rest))
	}
	if rest[0].Amount != 40 {
		t.Fatalf("rest[0].Amount = %d, want 40", rest[0].Amount)
	}

	if got := store.Transactions(10, 5); got != nil {
		t.Fatalf("out of range page = %+v, want nil", got)
	}
}
