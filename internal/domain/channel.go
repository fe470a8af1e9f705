package domain

// ChannelState is the daemon-reported lifecycle state of a channel.
// The daemon is authoritative; this core only requests transitions.
type ChannelState string

// Channel states.
const (
	ChannelOpening ChannelState = "opening"
	ChannelActive  ChannelState = "active"
	ChannelClosing ChannelState = "closing"
)

// Channel is a bilateral payment channel with a counterparty.
type Channel struct {
	ID               string
	PartnerPublicKey PublicKey
	Balance          Tokens
	State            ChannelState
}
