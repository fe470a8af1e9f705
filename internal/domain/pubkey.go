// Package domain defines the core wallet data model shared by all components.
package domain

import (
	"encoding/hex"
	"fmt"
)

// PublicKeySize is the byte length of a compressed node public key.
const PublicKeySize = 33

// PublicKey identifies a remote node. Compared by byte equality.
type PublicKey [PublicKeySize]byte

// ParsePublicKey decodes a hex-encoded public key.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey

	raw, err := hex.DecodeString(s)
	if err != nil {
		return pk, fmt.Errorf("parse public key: %w", err)
	}
	if len(raw) != PublicKeySize {
		return pk, fmt.Errorf("parse public key: expected %d bytes, got %d", PublicKeySize, len(raw))
	}

	copy(pk[:], raw)
	return pk, nil
}

// String returns the hex encoding of the key.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk[:])
}

// IsZero reports whether the key is all zero bytes.
func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

// MarshalText implements encoding.TextMarshaler (hex).
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (hex).
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}
