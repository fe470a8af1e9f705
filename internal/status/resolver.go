// Package status derives a connectivity status per connection from peer
// presence and channel states.
package status

import "lnwallet/internal/domain"

// Resolve derives the connectivity status of a connection. The ladder is
// evaluated in fixed priority order: an active channel always wins over a
// simultaneously opening or closing one; at least one usable path exists.
//
//  1. No peers → Offline, regardless of channel state.
//  2. Any active channel → Online.
//  3. Any opening channel → Connecting.
//  4. Any closing channel → Closing.
//  5. Peer present, no channels → Online.
func Resolve(c domain.Connection) domain.ConnectionStatus {
	if len(c.Peers) == 0 {
		return domain.StatusOffline
	}
	if hasChannelState(c, domain.ChannelActive) {
		return domain.StatusOnline
	}
	if hasChannelState(c, domain.ChannelOpening) {
		return domain.StatusConnecting
	}
	if hasChannelState(c, domain.ChannelClosing) {
		return domain.StatusClosing
	}
	return domain.StatusOnline
}

func hasChannelState(c domain.Connection, state domain.ChannelState) bool {
	for _, ch := range c.Channels {
		if ch.State == state {
			return true
		}
	}
	return false
}
