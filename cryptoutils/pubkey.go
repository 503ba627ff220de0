package cryptoutils

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/ruteri/maci-signup/interfaces"
)

// SerializedPublicKeyPrefix marks a serialized MACI public key.
const SerializedPublicKeyPrefix = "macipk."

var (
	// ErrInvalidSerializedPublicKey is returned when a string is not a serialized MACI public key.
	ErrInvalidSerializedPublicKey = errors.New("invalid serialized public key")

	// ErrPointNotOnCurve is returned when the packed point cannot be decompressed.
	ErrPointNotOnCurve = errors.New("packed public key is not a Baby Jubjub point")
)

// The packed point is at most 256 bits; leading zeros may be stripped by serializers.
var serializedPublicKeyRegex = regexp.MustCompile(`^macipk\.[0-9a-fA-F]{1,64}$`)

// MatchesPublicKeyGrammar checks the textual form of a serialized public key
// without attempting to decompress the point.
func MatchesPublicKeyGrammar(serialized string) bool {
	return serializedPublicKeyRegex.MatchString(serialized)
}

// IsValidSerializedPublicKey reports whether the string deserializes into a public key.
func IsValidSerializedPublicKey(serialized string) bool {
	_, err := ParsePublicKey(serialized)
	return err == nil
}

// ParsePublicKey deserializes a "macipk.<hex>" string into its coordinate pair.
//
// The hex payload is the packed point read as a 256-bit integer: the
// little-endian encoding of y, with the sign of x in the most significant bit.
func ParsePublicKey(serialized string) (interfaces.PublicKey, error) {
	if !MatchesPublicKeyGrammar(serialized) {
		return interfaces.PublicKey{}, ErrInvalidSerializedPublicKey
	}

	packed, ok := new(big.Int).SetString(strings.TrimPrefix(serialized, SerializedPublicKeyPrefix), 16)
	if !ok {
		return interfaces.PublicKey{}, ErrInvalidSerializedPublicKey
	}

	var comp babyjub.PublicKeyComp
	be := packed.FillBytes(make([]byte, len(comp)))
	for i := range be {
		comp[i] = be[len(be)-1-i]
	}

	point, err := comp.Decompress()
	if err != nil {
		return interfaces.PublicKey{}, fmt.Errorf("%w: %v", ErrPointNotOnCurve, err)
	}

	if point.X.Cmp(interfaces.SnarkFieldModulus) >= 0 || point.Y.Cmp(interfaces.SnarkFieldModulus) >= 0 {
		return interfaces.PublicKey{}, ErrPointNotOnCurve
	}

	return interfaces.PublicKey{X: point.X, Y: point.Y}, nil
}

// SerializePublicKey packs the point and renders it as "macipk.<hex>".
func SerializePublicKey(pk interfaces.PublicKey) string {
	point := babyjub.PublicKey{X: pk.X, Y: pk.Y}
	comp := point.Compress()

	be := make([]byte, len(comp))
	for i := range comp {
		be[len(be)-1-i] = comp[i]
	}

	return SerializedPublicKeyPrefix + new(big.Int).SetBytes(be).Text(16)
}

// PublicKeyFromBabyJub converts an iden3 Baby Jubjub public key.
func PublicKeyFromBabyJub(pk *babyjub.PublicKey) interfaces.PublicKey {
	return interfaces.PublicKey{
		X: new(big.Int).Set(pk.X),
		Y: new(big.Int).Set(pk.Y),
	}
}
