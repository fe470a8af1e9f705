// Package lnd is the request/response boundary to the local payment-node
// daemon. It exposes one operation per daemon capability; mutating
// operations are fire-and-forget (success means the daemon accepted the
// request, not that the target state was reached) and are never retried
// here.
package lnd

import (
	"context"

	"lnwallet/internal/domain"
)

// Gateway is the daemon capability surface consumed by the reconciler.
type Gateway interface {
	// ListConnections fetches all connection records.
	ListConnections(ctx context.Context) ([]domain.Connection, error)

	// ListPeers fetches all active peer links.
	ListPeers(ctx context.Context) ([]domain.Peer, error)

	// ListTransactions fetches the full transaction feed.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// AddPeer asks the daemon to connect to a remote node.
	AddPeer(ctx context.Context, host string, publicKey domain.PublicKey) error

	// OpenChannel asks the daemon to open a channel with a partner.
	OpenChannel(ctx context.Context, partner domain.PublicKey) error

	// CloseChannel asks the daemon to close a channel by id.
	CloseChannel(ctx context.Context, channelID string) error

	// CreateInvoice asks the daemon to create an invoice. The returned
	// invoice carries the daemon-assigned id and payment request.
	CreateInvoice(ctx context.Context, amount domain.Tokens, memo string) (*domain.Invoice, error)
}
