package cryptoutils

import (
	"math/big"
	"strings"
	"testing"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/ruteri/maci-signup/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKeyRoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		sk := babyjub.NewRandPrivKey()
		pk := PublicKeyFromBabyJub(sk.Public())

		serialized := SerializePublicKey(pk)
		require.True(t, strings.HasPrefix(serialized, SerializedPublicKeyPrefix))
		require.True(t, MatchesPublicKeyGrammar(serialized), serialized)

		parsed, err := ParsePublicKey(serialized)
		require.NoError(t, err, serialized)
		assert.True(t, pk.Equal(parsed), "coordinates should survive serialization")
		assert.True(t, IsValidSerializedPublicKey(serialized))
	}
}

func TestParsePublicKey_AcceptsUppercaseAndStrippedZeros(t *testing.T) {
	sk := babyjub.NewRandPrivKey()
	pk := PublicKeyFromBabyJub(sk.Public())
	serialized := SerializePublicKey(pk)

	upper := SerializedPublicKeyPrefix + strings.ToUpper(strings.TrimPrefix(serialized, SerializedPublicKeyPrefix))
	parsed, err := ParsePublicKey(upper)
	require.NoError(t, err)
	assert.True(t, pk.Equal(parsed))

	padded := SerializedPublicKeyPrefix + strings.Repeat("0", 64-len(strings.TrimPrefix(serialized, SerializedPublicKeyPrefix))) + strings.TrimPrefix(serialized, SerializedPublicKeyPrefix)
	parsed, err = ParsePublicKey(padded)
	require.NoError(t, err)
	assert.True(t, pk.Equal(parsed))
}

func TestParsePublicKey_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		serialized string
	}{
		{"empty", ""},
		{"not a key", "not-a-key"},
		{"prefix only", SerializedPublicKeyPrefix},
		{"missing prefix", "0d6e01a6b1d9c1e3b5a0f2b8f0e2d8d0a1b2c3d4e5f60718293a4b5c6d7e8f90"},
		{"wrong prefix", "macisk.0d6e01a6b1d9c1e3b5a0f2b8f0e2d8d0a1b2c3d4e5f6071829"},
		{"non-hex payload", "macipk.xyz"},
		{"too long", "macipk." + strings.Repeat("1", 65)},
		{"0x inside payload", "macipk.0x1234"},
		{"trailing whitespace", "macipk.1234 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePublicKey(tt.serialized)
			assert.ErrorIs(t, err, ErrInvalidSerializedPublicKey)
			assert.False(t, IsValidSerializedPublicKey(tt.serialized))
		})
	}
}

func TestParsePublicKey_OutOfFieldY(t *testing.T) {
	// y equal to the field modulus is never a valid coordinate
	serialized := SerializedPublicKeyPrefix + interfaces.SnarkFieldModulus.Text(16)
	require.True(t, MatchesPublicKeyGrammar(serialized))

	_, err := ParsePublicKey(serialized)
	assert.ErrorIs(t, err, ErrPointNotOnCurve)
	assert.False(t, IsValidSerializedPublicKey(serialized))
}

func TestAsContractParam(t *testing.T) {
	pk := interfaces.PublicKey{X: big.NewInt(7), Y: big.NewInt(11)}
	param := pk.AsContractParam()
	assert.Equal(t, int64(7), param.X.Int64())
	assert.Equal(t, int64(11), param.Y.Int64())

	// The contract parameter does not alias the key
	param.X.SetInt64(1)
	assert.Equal(t, int64(7), pk.X.Int64())
}
