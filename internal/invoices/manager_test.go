package invoices

import (
	"testing"
	"time"

	"lnwallet/internal/domain"
)

func invoice(id string, amount domain.Tokens) domain.Invoice {
	return domain.Invoice{
		ID:             id,
		PaymentRequest: "lnpr-" + id,
		CreatedAt:      time.Now(),
		Amount:         amount,
	}
}

func received(id string, confirmed bool) domain.Transaction {
	return domain.Transaction{
		ID:        id,
		Type:      domain.TransactionReceived,
		Confirmed: confirmed,
		Tokens:    1000,
	}
}

func TestManager_SettlesExactlyOnce(t *testing.T) {
	m := NewManager()
	if err := m.Track(invoice("inv-1", 1000)); err != nil {
		t.Fatalf("Track: %v", err)
	}

	feed := []domain.Transaction{received("inv-1", true)}

	settled := m.Advance(feed)
	if len(settled) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(settled))
	}
	if settled[0].Invoice.ID != "inv-1" {
		t.Errorf("expected invoice inv-1, got %s", settled[0].Invoice.ID)
	}
	if settled[0].Transaction.ID != "inv-1" {
		t.Errorf("expected transaction inv-1, got %s", settled[0].Transaction.ID)
	}

	// Same feed again: settlement is not re-reported, never regresses.
	settled = m.Advance(feed)
	if len(settled) != 0 {
		t.Fatalf("expected no re-reported settlement, got %d", len(settled))
	}
	if len(m.Pending()) != 0 {
		t.Errorf("expected no pending invoices, got %d", len(m.Pending()))
	}
}

func TestManager_UnconfirmedDoesNotSettle(t *testing.T) {
	m := NewManager()
	if err := m.Track(invoice("inv-1", 1000)); err != nil {
		t.Fatalf("Track: %v", err)
	}

	settled := m.Advance([]domain.Transaction{received("inv-1", false)})
	if len(settled) != 0 {
		t.Fatalf("expected no settlement for unconfirmed receive, got %d", len(settled))
	}
	if len(m.Pending()) != 1 {
		t.Errorf("expected invoice still pending")
	}
}

func TestManager_OnlyReceivedVariantSettles(t *testing.T) {
	m := NewManager()
	if err := m.Track(invoice("inv-1", 1000)); err != nil {
		t.Fatalf("Track: %v", err)
	}

	feed := []domain.Transaction{
		{ID: "inv-1", Type: domain.TransactionChain, Tokens: 1000},
		{ID: "inv-1", Type: domain.TransactionSent, Recipient: "someone", Tokens: 1000},
	}

	if settled := m.Advance(feed); len(settled) != 0 {
		t.Fatalf("expected no settlement from chain/sent variants, got %d", len(settled))
	}
}

func TestManager_MultiplePendingNoCrossContamination(t *testing.T) {
	m := NewManager()
	for _, id := range []string{"inv-1", "inv-2", "inv-3"} {
		if err := m.Track(invoice(id, 500)); err != nil {
			t.Fatalf("Track %s: %v", id, err)
		}
	}

	// Only inv-2 settles; a confirmed receive for an untracked id is noise.
	feed := []domain.Transaction{
		received("inv-2", true),
		received("unknown", true),
	}

	settled := m.Advance(feed)
	if len(settled) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(settled))
	}
	if settled[0].Invoice.ID != "inv-2" {
		t.Errorf("expected inv-2 settled, got %s", settled[0].Invoice.ID)
	}

	pending := m.Pending()
	if len(pending) != 2 {
		t.Fatalf("expected 2 still pending, got %d", len(pending))
	}
	for _, inv := range pending {
		if inv.ID == "inv-2" {
			t.Errorf("settled invoice still pending")
		}
	}
}

func TestManager_PendingIndefinitelyWithoutMatch(t *testing.T) {
	m := NewManager()
	if err := m.Track(invoice("inv-1", 1000)); err != nil {
		t.Fatalf("Track: %v", err)
	}

	for i := 0; i < 10; i++ {
		if settled := m.Advance(nil); len(settled) != 0 {
			t.Fatalf("poll %d: unexpected settlement", i)
		}
	}
	if len(m.Pending()) != 1 {
		t.Errorf("expected invoice still pending after empty polls")
	}
}

func TestManager_TrackDuplicate(t *testing.T) {
	m := NewManager()
	if err := m.Track(invoice("inv-1", 1000)); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := m.Track(invoice("inv-1", 2000)); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestManager_Drop(t *testing.T) {
	m := NewManager()
	if err := m.Track(invoice("inv-1", 1000)); err != nil {
		t.Fatalf("Track: %v", err)
	}

	if err := m.Drop("inv-1"); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if len(m.Pending()) != 0 {
		t.Errorf("expected no pending after drop")
	}

	// A dropped invoice no longer settles.
	if settled := m.Advance([]domain.Transaction{received("inv-1", true)}); len(settled) != 0 {
		t.Errorf("dropped invoice settled")
	}

	if err := m.Drop("inv-1"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_PendingOrderedByCreation(t *testing.T) {
	m := NewManager()
	base := time.Now()

	for i, id := range []string{"c", "a", "b"} {
		inv := invoice(id, 100)
		inv.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := m.Track(inv); err != nil {
			t.Fatalf("Track %s: %v", id, err)
		}
	}

	pending := m.Pending()
	want := []string{"c", "a", "b"}
	for i, inv := range pending {
		if inv.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], inv.ID)
		}
	}
}
