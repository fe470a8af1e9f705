// Package invoices tracks locally-created invoices from creation until the
// daemon's transaction feed reports them settled.
package invoices

import (
	"errors"
	"sort"
	"sync"

	"lnwallet/internal/domain"
	"lnwallet/internal/observability"
)

var (
	// ErrDuplicate is returned when tracking an invoice id twice.
	ErrDuplicate = errors.New("invoice already tracked")

	// ErrNotFound is returned when dropping an unknown invoice id.
	ErrNotFound = errors.New("invoice not tracked")
)

// Manager owns the set of outstanding invoices. An invoice is Pending from
// Track until a confirmed received transaction with its id appears in the
// feed, then Settled, a terminal state reported once. Invoices with no match stay
// Pending indefinitely. Multiple concurrently pending invoices are tracked
// without cross-contamination.
type Manager struct {
	mu      sync.Mutex
	pending map[string]domain.Invoice
}

// NewManager creates an empty invoice manager.
func NewManager() *Manager {
	return &Manager{pending: make(map[string]domain.Invoice)}
}

// Track registers a daemon-acknowledged invoice as pending.
func (m *Manager) Track(inv domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pending[inv.ID]; exists {
		return ErrDuplicate
	}
	m.pending[inv.ID] = inv

	observability.UpdatePendingInvoices(len(m.pending))
	return nil
}

// Drop removes a pending invoice without settling it (the clear flow).
func (m *Manager) Drop(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pending[id]; !exists {
		return ErrNotFound
	}
	delete(m.pending, id)

	observability.UpdatePendingInvoices(len(m.pending))
	return nil
}

// Pending returns the outstanding invoices ordered by creation time.
func (m *Manager) Pending() []domain.Invoice {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.Invoice, 0, len(m.pending))
	for _, inv := range m.pending {
		result = append(result, inv)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Advance reconciles pending invoices against a freshly fetched feed. A
// pending invoice settles on the first received transaction with matching
// id and confirmed set. Settlements are returned for this call only and
// never re-reported.
func (m *Manager) Advance(feed []domain.Transaction) []domain.SettledInvoice {
	m.mu.Lock()
	defer m.mu.Unlock()

	var settled []domain.SettledInvoice
	for _, tx := range feed {
		if tx.Type != domain.TransactionReceived || !tx.Confirmed {
			continue
		}
		inv, exists := m.pending[tx.ID]
		if !exists {
			continue
		}

		delete(m.pending, tx.ID)
		settled = append(settled, domain.SettledInvoice{Invoice: inv, Transaction: tx})
		observability.RecordInvoiceSettled()
	}

	if len(settled) > 0 {
		sort.Slice(settled, func(i, j int) bool {
			return settled[i].Invoice.ID < settled[j].Invoice.ID
		})
		observability.UpdatePendingInvoices(len(m.pending))
	}
	return settled
}
