// Package reconciler rebuilds the derived wallet view from the daemon on
// every refresh trigger and publishes immutable snapshots to subscribers.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"lnwallet/internal/domain"
	"lnwallet/internal/invoices"
	"lnwallet/internal/lnd"
	"lnwallet/internal/observability"
	"lnwallet/internal/status"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls further behind loses notifications, not consistency: every
// delivered snapshot is complete.
const subscriberBuffer = 8

// Reconciler owns the current snapshot and the set of outstanding
// invoices. One goroutine (Run) is the single writer; fetches run
// asynchronously and their completions are marshaled back onto that
// goroutine, where a sequence guard enforces last-full-cycle-wins.
type Reconciler struct {
	gateway  lnd.Gateway
	invoices *invoices.Manager
	rate     int64
	logger   *slog.Logger

	triggers chan struct{}
	results  chan cycleResult
	seq      atomic.Uint64
	applied  uint64 // owned by the Run goroutine

	mu       sync.RWMutex
	snapshot *domain.Snapshot

	subMu sync.Mutex
	subs  map[uuid.UUID]chan *domain.Snapshot
}

// Options for creating a Reconciler.
type Options struct {
	// Gateway is the daemon boundary. Required.
	Gateway lnd.Gateway

	// CentsPerCoin is the fiat exchange rate; 0 means no known rate.
	CentsPerCoin int64

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Invoices defaults to a fresh manager.
	Invoices *invoices.Manager
}

// cycleResult carries one completed fetch cycle back to the owning loop.
type cycleResult struct {
	seq     uint64
	started time.Time
	conns   []domain.Connection
	peers   []domain.Peer
	txs     []domain.Transaction
	err     error
}

// New creates a Reconciler. Call Run to start the owning loop.
func New(opts Options) *Reconciler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	inv := opts.Invoices
	if inv == nil {
		inv = invoices.NewManager()
	}

	return &Reconciler{
		gateway:  opts.Gateway,
		invoices: inv,
		rate:     opts.CentsPerCoin,
		logger:   logger,
		triggers: make(chan struct{}, 1),
		results:  make(chan cycleResult),
		subs:     make(map[uuid.UUID]chan *domain.Snapshot),
	}
}

// Run is the owning loop. It consumes refresh triggers, fans fetches out,
// and applies completions. Returns when ctx is done.
func (r *Reconciler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.triggers:
			r.startCycle(ctx)
		case res := <-r.results:
			r.apply(res)
		}
	}
}

// Refresh requests a reconciliation cycle. Non-blocking; triggers coalesce
// while a request is already queued. Timer ticks, completed user actions,
// daemon push events and view-visibility changes all funnel through here.
func (r *Reconciler) Refresh() {
	select {
	case r.triggers <- struct{}{}:
	default:
	}
}

// Snapshot returns the last published snapshot, or nil before the first
// successful cycle. The snapshot is immutable; callers must not modify it.
func (r *Reconciler) Snapshot() *domain.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// startCycle assigns the next sequence number and fetches asynchronously.
func (r *Reconciler) startCycle(ctx context.Context) {
	seq := r.seq.Add(1)
	go func() {
		res := r.runCycle(ctx, seq)
		select {
		case r.results <- res:
		case <-ctx.Done():
		}
	}()
}

// runCycle issues the three fetches for one cycle. Any failure aborts the
// whole cycle; no partial data ever reaches apply.
func (r *Reconciler) runCycle(ctx context.Context, seq uint64) cycleResult {
	res := cycleResult{seq: seq, started: time.Now()}

	res.conns, res.err = r.gateway.ListConnections(ctx)
	if res.err != nil {
		return res
	}
	res.peers, res.err = r.gateway.ListPeers(ctx)
	if res.err != nil {
		return res
	}
	res.txs, res.err = r.gateway.ListTransactions(ctx)
	return res
}

// apply runs on the owning goroutine. Stale completions are discarded; a
// failed cycle retains the previous snapshot and emits nothing.
func (r *Reconciler) apply(res cycleResult) {
	if res.seq <= r.applied {
		observability.RecordStaleCycle()
		r.logger.Debug("discarding stale cycle", "seq", res.seq, "applied", r.applied)
		return
	}

	elapsed := time.Since(res.started).Seconds()

	if res.err != nil {
		observability.RecordCycle("failure", elapsed)
		r.logger.Warn("refresh cycle failed", "seq", res.seq, "error", res.err)
		return
	}

	snap := r.buildSnapshot(res)
	r.applied = res.seq

	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()

	observability.RecordCycle("success", elapsed)
	r.publish(snap)
}

// buildSnapshot merges peers into their owning connection, resolves
// statuses and advances the invoice lifecycle.
func (r *Reconciler) buildSnapshot(res cycleResult) *domain.Snapshot {
	// The peer feed is authoritative: peers embedded in connection
	// records are replaced by the freshly fetched list.
	byKey := make(map[domain.PublicKey]*domain.Connection, len(res.conns))
	order := make([]domain.PublicKey, 0, len(res.conns))

	for _, conn := range res.conns {
		c := conn
		c.Peers = nil
		byKey[c.PublicKey] = &c
		order = append(order, c.PublicKey)
	}

	for _, peer := range res.peers {
		conn, ok := byKey[peer.PublicKey]
		if !ok {
			conn = &domain.Connection{PublicKey: peer.PublicKey}
			byKey[peer.PublicKey] = conn
			order = append(order, peer.PublicKey)
		}
		conn.Peers = append(conn.Peers, peer)
	}

	sort.Slice(order, func(i, j int) bool {
		return order[i].String() < order[j].String()
	})

	views := make([]domain.ConnectionView, 0, len(order))
	for _, key := range order {
		conn := *byKey[key]
		views = append(views, domain.ConnectionView{
			Connection: conn,
			Status:     status.Resolve(conn),
			Balance:    conn.Balance(),
			BestPingMs: conn.BestPing(),
		})
	}

	settled := r.invoices.Advance(res.txs)

	return &domain.Snapshot{
		Seq:             res.seq,
		TakenAt:         time.Now(),
		Connections:     views,
		Wallet:          domain.Wallet{Transactions: res.txs, CentsPerCoin: r.rate},
		PendingInvoices: r.invoices.Pending(),
		Settled:         settled,
	}
}

// publish delivers the snapshot to every subscriber exactly once per
// successful cycle. Slow subscribers drop notifications rather than block
// the owning loop.
func (r *Reconciler) publish(snap *domain.Snapshot) {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	for _, ch := range r.subs {
		select {
		case ch <- snap:
		default:
			observability.RecordDroppedNotification()
		}
	}
	observability.RecordSnapshotPublished()
}

// Subscribe registers a snapshot subscriber. The returned channel receives
// every published snapshot until Unsubscribe is called with the token.
func (r *Reconciler) Subscribe() (uuid.UUID, <-chan *domain.Snapshot) {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	id := uuid.New()
	ch := make(chan *domain.Snapshot, subscriberBuffer)
	r.subs[id] = ch

	observability.UpdateSubscribers(len(r.subs))
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (r *Reconciler) Unsubscribe(id uuid.UUID) {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	ch, ok := r.subs[id]
	if !ok {
		return
	}
	delete(r.subs, id)
	close(ch)

	observability.UpdateSubscribers(len(r.subs))
}

// AddPeer asks the daemon to connect to a remote node, then refreshes.
func (r *Reconciler) AddPeer(ctx context.Context, host string, publicKey domain.PublicKey) error {
	if host == "" {
		return fmt.Errorf("add peer: %w: host required", lnd.ErrValidation)
	}
	if publicKey.IsZero() {
		return fmt.Errorf("add peer: %w: public key required", lnd.ErrValidation)
	}

	if err := r.gateway.AddPeer(ctx, host, publicKey); err != nil {
		return err
	}
	r.Refresh()
	return nil
}

// OpenChannel asks the daemon to open a channel with a partner, then
// refreshes. The partner must have an active peer link in the current
// snapshot; a channel cannot be opened without transport.
func (r *Reconciler) OpenChannel(ctx context.Context, partner domain.PublicKey) error {
	if partner.IsZero() {
		return fmt.Errorf("open channel: %w: partner public key required", lnd.ErrValidation)
	}
	if !r.hasPeer(partner) {
		return fmt.Errorf("open channel: %w: no active peer for %s", lnd.ErrValidation, partner)
	}

	if err := r.gateway.OpenChannel(ctx, partner); err != nil {
		return err
	}
	r.Refresh()
	return nil
}

// CloseChannel asks the daemon to close one channel, then refreshes.
func (r *Reconciler) CloseChannel(ctx context.Context, channelID string) error {
	if channelID == "" {
		return fmt.Errorf("close channel: %w: channel id required", lnd.ErrValidation)
	}

	if err := r.gateway.CloseChannel(ctx, channelID); err != nil {
		return err
	}
	r.Refresh()
	return nil
}

// CloseConnectionChannels closes every channel of a connection,
// best-effort: each close is issued independently and failures are
// collected per channel. One failed close does not stop the rest.
func (r *Reconciler) CloseConnectionChannels(ctx context.Context, publicKey domain.PublicKey) error {
	snap := r.Snapshot()
	if snap == nil {
		return fmt.Errorf("close channels: %w: no snapshot yet", lnd.ErrValidation)
	}

	var channels []domain.Channel
	for _, view := range snap.Connections {
		if view.Connection.PublicKey == publicKey {
			channels = view.Connection.Channels
			break
		}
	}
	if len(channels) == 0 {
		return fmt.Errorf("close channels: %w: no channels for %s", lnd.ErrValidation, publicKey)
	}

	var errs []error
	closed := 0
	for _, ch := range channels {
		if err := r.gateway.CloseChannel(ctx, ch.ID); err != nil {
			errs = append(errs, fmt.Errorf("channel %s: %w", ch.ID, err))
			continue
		}
		closed++
	}

	if closed > 0 {
		r.Refresh()
	}
	return errors.Join(errs...)
}

// CreateInvoice validates the amount, asks the daemon to create the
// invoice, tracks it as pending and refreshes. Settlement is discovered
// via the transaction feed on later cycles.
func (r *Reconciler) CreateInvoice(ctx context.Context, amount domain.Tokens, memo string) (*domain.Invoice, error) {
	if amount == 0 {
		return nil, fmt.Errorf("create invoice: %w: amount must be positive", lnd.ErrValidation)
	}

	inv, err := r.gateway.CreateInvoice(ctx, amount, memo)
	if err != nil {
		return nil, err
	}

	if err := r.invoices.Track(*inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	r.Refresh()
	return inv, nil
}

// ClearInvoice stops tracking a pending invoice without settling it.
func (r *Reconciler) ClearInvoice(id string) error {
	return r.invoices.Drop(id)
}

func (r *Reconciler) hasPeer(publicKey domain.PublicKey) bool {
	snap := r.Snapshot()
	if snap == nil {
		return false
	}
	for _, view := range snap.Connections {
		if view.Connection.PublicKey == publicKey {
			return len(view.Connection.Peers) > 0
		}
	}
	return false
}
