package lnd

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"lnwallet/internal/observability"
)

// FeedConfig configures the wallet event feed.
type FeedConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the backoff between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is the interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is the timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultFeedConfig returns the default feed configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       90 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// WalletEvent is one push notification from the daemon. Any event means
// wallet state may have changed; the payload carries no state itself.
type WalletEvent struct {
	Type string
	At   time.Time
}

// WalletFeed delivers daemon push notifications over a websocket so the
// reconciler can refresh without waiting for the next timer tick.
type WalletFeed struct {
	endpoint string
	config   FeedConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	events chan WalletEvent
	done   chan struct{}
	wg     sync.WaitGroup

	reconnecting atomic.Bool
}

type feedMessage struct {
	Type string `json:"type"`
}

// DialWalletFeed connects to the daemon's event endpoint and starts
// reading notifications.
func DialWalletFeed(ctx context.Context, endpoint string, config *FeedConfig) (*WalletFeed, error) {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}

	f := &WalletFeed{
		endpoint: endpoint,
		config:   cfg,
		events:   make(chan WalletEvent, 16),
		done:     make(chan struct{}),
	}

	if err := f.connect(ctx); err != nil {
		return nil, err
	}

	f.wg.Add(1)
	go f.readLoop()

	f.wg.Add(1)
	go f.pingLoop()

	return f, nil
}

// Events returns the notification channel. Closed when the feed closes.
func (f *WalletFeed) Events() <-chan WalletEvent {
	return f.events
}

// Close shuts the feed down and closes the event channel.
func (f *WalletFeed) Close() error {
	if f.closed.Swap(true) {
		return nil // Already closed
	}

	close(f.done)

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		f.conn.Close()
	}
	f.connMu.Unlock()

	f.wg.Wait()
	close(f.events)
	return nil
}

func (f *WalletFeed) connect(ctx context.Context) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: websocket dial: %w", ErrTransport, err)
	}

	// Pongs extend the read deadline so an idle but healthy connection
	// is not torn down at ReadTimeout.
	conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))
	})

	f.conn = conn
	return nil
}

// readLoop reads notifications and dispatches them. Connection errors hand
// off to reconnect, which owns the backoff until a dial succeeds.
func (f *WalletFeed) readLoop() {
	defer f.wg.Done()

	for !f.closed.Load() {
		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()

		if conn == nil {
			select {
			case <-f.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if f.closed.Load() {
				return
			}

			if !f.reconnecting.Swap(true) {
				go f.reconnect()
			}

			select {
			case <-f.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		f.handleMessage(message)
	}
}

func (f *WalletFeed) handleMessage(message []byte) {
	var msg feedMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return // Unknown payloads are ignored, not fatal
	}

	event := WalletEvent{Type: msg.Type, At: time.Now()}

	// Events coalesce on a full buffer; any single trigger causes a full
	// refetch downstream.
	select {
	case f.events <- event:
	default:
	}
}

// reconnect dials until a connection is established or the feed closes,
// doubling the delay between attempts up to MaxReconnectDelay. A failed
// dial must retry here: with no connection there are no read errors left
// to trigger another attempt.
func (f *WalletFeed) reconnect() {
	defer f.reconnecting.Store(false)

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
	f.connMu.Unlock()

	delay := f.config.ReconnectDelay

	for !f.closed.Load() {
		select {
		case <-f.done:
			return
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := f.connect(ctx)
		cancel()

		if err == nil {
			if f.closed.Load() {
				f.connMu.Lock()
				if f.conn != nil {
					f.conn.Close()
					f.conn = nil
				}
				f.connMu.Unlock()
				return
			}
			observability.RecordFeedReconnect()
			return
		}

		delay = delay * 2
		if delay > f.config.MaxReconnectDelay {
			delay = f.config.MaxReconnectDelay
		}
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (f *WalletFeed) pingLoop() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			f.connMu.Lock()
			if f.conn != nil {
				f.conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
				if err := f.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader handles reconnect
				}
			}
			f.connMu.Unlock()
		}
	}
}
