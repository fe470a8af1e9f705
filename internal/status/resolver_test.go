package status

import (
	"testing"

	"lnwallet/internal/domain"
)

func peer(pk domain.PublicKey) domain.Peer {
	return domain.Peer{PublicKey: pk, Host: "127.0.0.1:9735"}
}

func channel(state domain.ChannelState) domain.Channel {
	return domain.Channel{ID: "chan-" + string(state), State: state}
}

func TestResolve_NoPeersIsOfflineRegardlessOfChannels(t *testing.T) {
	pk := domain.PublicKey{1}

	cases := [][]domain.Channel{
		nil,
		{channel(domain.ChannelActive)},
		{channel(domain.ChannelOpening)},
		{channel(domain.ChannelClosing)},
		{channel(domain.ChannelActive), channel(domain.ChannelOpening), channel(domain.ChannelClosing)},
	}

	for i, channels := range cases {
		conn := domain.Connection{PublicKey: pk, Channels: channels}
		if got := Resolve(conn); got != domain.StatusOffline {
			t.Errorf("case %d: expected offline, got %s", i, got)
		}
	}
}

func TestResolve_ActiveChannelWinsOverOpeningAndClosing(t *testing.T) {
	pk := domain.PublicKey{1}

	conn := domain.Connection{
		PublicKey: pk,
		Peers:     []domain.Peer{peer(pk)},
		Channels: []domain.Channel{
			channel(domain.ChannelOpening),
			channel(domain.ChannelClosing),
			channel(domain.ChannelActive),
		},
	}

	if got := Resolve(conn); got != domain.StatusOnline {
		t.Errorf("expected online, got %s", got)
	}
}

func TestResolve_Ladder(t *testing.T) {
	pk := domain.PublicKey{1}

	tests := []struct {
		name     string
		channels []domain.Channel
		want     domain.ConnectionStatus
	}{
		{"active only", []domain.Channel{channel(domain.ChannelActive)}, domain.StatusOnline},
		{"opening only", []domain.Channel{channel(domain.ChannelOpening)}, domain.StatusConnecting},
		{"closing only", []domain.Channel{channel(domain.ChannelClosing)}, domain.StatusClosing},
		{"opening beats closing", []domain.Channel{channel(domain.ChannelClosing), channel(domain.ChannelOpening)}, domain.StatusConnecting},
		{"peer without channels", nil, domain.StatusOnline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := domain.Connection{
				PublicKey: pk,
				Peers:     []domain.Peer{peer(pk)},
				Channels:  tt.channels,
			}
			if got := Resolve(conn); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
