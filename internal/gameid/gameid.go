// Package gameid mints short, time-ordered ids: a UUIDv7 written as 26
// characters of Crockford base32, as TypeID does.
package gameid

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32, lower case
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an id.
const Length = 26

// New returns a fresh id. Ids minted later sort after earlier ones.
func New() string {
	return Encode(uuid.Must(uuid.NewV7()))
}

// Encode writes u as an id. The 128 bits are read as a 130-bit number with
// two leading zero bits, five bits per character.
func Encode(u uuid.UUID) string {
	hi := binary.BigEndian.Uint64(u[:8])
	lo := binary.BigEndian.Uint64(u[8:])

	out := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

// Parse decodes an id back into its UUID.
func Parse(id string) (uuid.UUID, error) {
	if len(id) != Length {
		return uuid.Nil, fmt.Errorf("game id must be %d characters, got %d", Length, len(id))
	}
	// The first character carries only three bits.
	if id[0] > '7' {
		return uuid.Nil, fmt.Errorf("game id must start with 0-7, got %c", id[0])
	}

	var hi, lo uint64
	for i := range Length {
		v := strings.IndexByte(alphabet, id[i])
		if v < 0 {
			return uuid.Nil, fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
		hi = hi<<5 | lo>>59
		lo = lo<<5 | uint64(v)
	}

	var u uuid.UUID
	binary.BigEndian.PutUint64(u[:8], hi)
	binary.BigEndian.PutUint64(u[8:], lo)
	return u, nil
}

// Validate checks that id is well formed.
func Validate(id string) error {
	_, err := Parse(id)
	return err
}
