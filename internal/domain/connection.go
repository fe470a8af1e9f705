package domain

// Peer is an active network-level link to a remote node. Peers exist only
// while the daemon reports the link; they are never persisted here.
type Peer struct {
	PublicKey PublicKey
	Host      string
	PingMs    *int64 // nil when the daemon reports no ping
}

// Connection groups the peer links and payment channels sharing one
// counterparty identity.
type Connection struct {
	PublicKey PublicKey
	Peers     []Peer
	Channels  []Channel
}

// Balance is the sum of all channel balances. Integer arithmetic only.
func (c Connection) Balance() Tokens {
	var total Tokens
	for _, ch := range c.Channels {
		total += ch.Balance
	}
	return total
}

// BestPing returns the lowest reported peer ping, or nil if none is known.
func (c Connection) BestPing() *int64 {
	var best *int64
	for _, p := range c.Peers {
		if p.PingMs == nil {
			continue
		}
		if best == nil || *p.PingMs < *best {
			v := *p.PingMs
			best = &v
		}
	}
	return best
}

// ConnectionStatus is the derived connectivity state of a connection.
type ConnectionStatus string

// Connection statuses.
const (
	StatusOffline    ConnectionStatus = "offline"
	StatusConnecting ConnectionStatus = "connecting"
	StatusOnline     ConnectionStatus = "online"
	StatusClosing    ConnectionStatus = "closing"
)
