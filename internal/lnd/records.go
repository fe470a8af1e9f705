package lnd

import (
	"fmt"
	"time"

	"lnwallet/internal/domain"
)

// Raw daemon records. Conversion to domain types validates required
// fields; anything missing or malformed classifies as ErrDecode.

type connectionRecord struct {
	PublicKey string          `json:"public_key"`
	Peers     []peerRecord    `json:"peers"`
	Channels  []channelRecord `json:"channels"`
}

type peerRecord struct {
	PublicKey string `json:"public_key"`
	Host      string `json:"host"`
	PingMs    *int64 `json:"ping_ms"`
}

type channelRecord struct {
	ID               string `json:"id"`
	PartnerPublicKey string `json:"partner_public_key"`
	Balance          uint64 `json:"balance"`
	State            string `json:"state"`
}

type invoiceRecord struct {
	ID             string `json:"id"`
	PaymentRequest string `json:"payment_request"`
	Tokens         uint64 `json:"tokens"`
	Memo           string `json:"memo"`
	CreatedAt      string `json:"created_at"`
}

// transactionRecord is a tagged union keyed by field presence:
// chain_address → chain, destination → sent, memo/confirmed → received.
type transactionRecord struct {
	ID           string  `json:"id"`
	Tokens       uint64  `json:"tokens"`
	CreatedAt    string  `json:"created_at"`
	ChainAddress *string `json:"chain_address"`
	Destination  *string `json:"destination"`
	Memo         *string `json:"memo"`
	Confirmed    *bool   `json:"confirmed"`
}

func (r connectionRecord) toDomain() (domain.Connection, error) {
	pk, err := domain.ParsePublicKey(r.PublicKey)
	if err != nil {
		return domain.Connection{}, fmt.Errorf("%w: connection: %w", ErrDecode, err)
	}

	conn := domain.Connection{PublicKey: pk}
	for _, p := range r.Peers {
		peer, err := p.toDomain()
		if err != nil {
			return domain.Connection{}, err
		}
		conn.Peers = append(conn.Peers, peer)
	}
	for _, ch := range r.Channels {
		channel, err := ch.toDomain()
		if err != nil {
			return domain.Connection{}, err
		}
		conn.Channels = append(conn.Channels, channel)
	}
	return conn, nil
}

func (r peerRecord) toDomain() (domain.Peer, error) {
	pk, err := domain.ParsePublicKey(r.PublicKey)
	if err != nil {
		return domain.Peer{}, fmt.Errorf("%w: peer: %w", ErrDecode, err)
	}
	return domain.Peer{PublicKey: pk, Host: r.Host, PingMs: r.PingMs}, nil
}

func (r channelRecord) toDomain() (domain.Channel, error) {
	if r.ID == "" {
		return domain.Channel{}, fmt.Errorf("%w: channel: missing id", ErrDecode)
	}

	var partner domain.PublicKey
	if r.PartnerPublicKey != "" {
		pk, err := domain.ParsePublicKey(r.PartnerPublicKey)
		if err != nil {
			return domain.Channel{}, fmt.Errorf("%w: channel %s: %w", ErrDecode, r.ID, err)
		}
		partner = pk
	}

	state := domain.ChannelState(r.State)
	switch state {
	case domain.ChannelOpening, domain.ChannelActive, domain.ChannelClosing:
	default:
		return domain.Channel{}, fmt.Errorf("%w: channel %s: unknown state %q", ErrDecode, r.ID, r.State)
	}

	return domain.Channel{
		ID:               r.ID,
		PartnerPublicKey: partner,
		Balance:          domain.Tokens(r.Balance),
		State:            state,
	}, nil
}

func (r invoiceRecord) toDomain() (*domain.Invoice, error) {
	if r.ID == "" || r.PaymentRequest == "" {
		return nil, fmt.Errorf("%w: invoice: missing id or payment request", ErrDecode)
	}

	createdAt := time.Now()
	if r.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: invoice %s: bad created_at: %w", ErrDecode, r.ID, err)
		}
		createdAt = t
	}

	return &domain.Invoice{
		ID:             r.ID,
		PaymentRequest: r.PaymentRequest,
		CreatedAt:      createdAt,
		Amount:         domain.Tokens(r.Tokens),
		Memo:           r.Memo,
	}, nil
}

func (r transactionRecord) toDomain() (domain.Transaction, error) {
	if r.ID == "" {
		return domain.Transaction{}, fmt.Errorf("%w: transaction: missing id", ErrDecode)
	}

	var createdAt time.Time
	if r.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("%w: transaction %s: bad created_at: %w", ErrDecode, r.ID, err)
		}
		createdAt = t
	}

	tx := domain.Transaction{
		ID:        r.ID,
		Tokens:    domain.Tokens(r.Tokens),
		CreatedAt: createdAt,
	}

	// Exactly one variant applies, resolved in this order.
	switch {
	case r.ChainAddress != nil:
		tx.Type = domain.TransactionChain
		tx.ChainAddress = *r.ChainAddress
	case r.Destination != nil:
		tx.Type = domain.TransactionSent
		tx.Recipient = *r.Destination
	case r.Memo != nil || r.Confirmed != nil:
		tx.Type = domain.TransactionReceived
		if r.Memo != nil {
			tx.Memo = *r.Memo
		}
		if r.Confirmed != nil {
			tx.Confirmed = *r.Confirmed
		}
	default:
		return domain.Transaction{}, fmt.Errorf("%w: transaction %s: no variant matches", ErrDecode, r.ID)
	}

	return tx, nil
}
