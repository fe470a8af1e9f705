// Package stub implements lnd.Gateway in memory for testing.
package stub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lnwallet/internal/domain"
	"lnwallet/internal/lnd"
)

// Gateway is a scriptable in-memory daemon. Set the list fields to shape
// poll results and the Err fields to inject failures. Mutating calls are
// recorded for assertions.
type Gateway struct {
	mu sync.Mutex

	Connections  []domain.Connection
	Peers        []domain.Peer
	Transactions []domain.Transaction

	ConnectionsErr   error
	PeersErr         error
	TransactionsErr  error
	AddPeerErr       error
	OpenChannelErr   error
	CloseChannelErr  error
	CreateInvoiceErr error

	// CloseChannelErrs injects per-channel failures by id.
	CloseChannelErrs map[string]error

	AddedPeers      []string
	OpenedChannels  []domain.PublicKey
	ClosedChannels  []string
	CreatedInvoices []domain.Invoice

	// OnListConnections, when set, runs at the start of ListConnections.
	// Tests use it to sequence interleaved cycles.
	OnListConnections func()

	nextInvoice int
}

// New creates an empty stub gateway.
func New() *Gateway {
	return &Gateway{CloseChannelErrs: make(map[string]error)}
}

// SetConnections replaces the connection list.
func (g *Gateway) SetConnections(conns []domain.Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Connections = conns
}

// SetPeers replaces the peer list.
func (g *Gateway) SetPeers(peers []domain.Peer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Peers = peers
}

// SetTransactions replaces the transaction feed.
func (g *Gateway) SetTransactions(txs []domain.Transaction) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Transactions = txs
}

// ListConnections returns the scripted connection list.
func (g *Gateway) ListConnections(_ context.Context) ([]domain.Connection, error) {
	g.mu.Lock()
	hook := g.OnListConnections
	g.mu.Unlock()
	if hook != nil {
		hook()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ConnectionsErr != nil {
		return nil, g.ConnectionsErr
	}
	return append([]domain.Connection(nil), g.Connections...), nil
}

// ListPeers returns the scripted peer list.
func (g *Gateway) ListPeers(_ context.Context) ([]domain.Peer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.PeersErr != nil {
		return nil, g.PeersErr
	}
	return append([]domain.Peer(nil), g.Peers...), nil
}

// ListTransactions returns the scripted transaction feed.
func (g *Gateway) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.TransactionsErr != nil {
		return nil, g.TransactionsErr
	}
	return append([]domain.Transaction(nil), g.Transactions...), nil
}

// AddPeer records the request.
func (g *Gateway) AddPeer(_ context.Context, host string, publicKey domain.PublicKey) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.AddPeerErr != nil {
		return g.AddPeerErr
	}
	g.AddedPeers = append(g.AddedPeers, host+"/"+publicKey.String())
	return nil
}

// OpenChannel records the request.
func (g *Gateway) OpenChannel(_ context.Context, partner domain.PublicKey) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.OpenChannelErr != nil {
		return g.OpenChannelErr
	}
	g.OpenedChannels = append(g.OpenedChannels, partner)
	return nil
}

// CloseChannel records the request.
func (g *Gateway) CloseChannel(_ context.Context, channelID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err, ok := g.CloseChannelErrs[channelID]; ok {
		return err
	}
	if g.CloseChannelErr != nil {
		return g.CloseChannelErr
	}
	g.ClosedChannels = append(g.ClosedChannels, channelID)
	return nil
}

// CreateInvoice records the request and assigns a sequential id.
func (g *Gateway) CreateInvoice(_ context.Context, amount domain.Tokens, memo string) (*domain.Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.CreateInvoiceErr != nil {
		return nil, g.CreateInvoiceErr
	}

	g.nextInvoice++
	inv := domain.Invoice{
		ID:             fmt.Sprintf("invoice-%d", g.nextInvoice),
		PaymentRequest: fmt.Sprintf("lnpr%d", g.nextInvoice),
		CreatedAt:      time.Now(),
		Amount:         amount,
		Memo:           memo,
	}
	g.CreatedInvoices = append(g.CreatedInvoices, inv)
	return &inv, nil
}

// Verify interface compliance at compile time.
var _ lnd.Gateway = (*Gateway)(nil)
