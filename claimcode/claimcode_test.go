package claimcode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maaku/libwebcash/amount"
	"github.com/maaku/libwebcash/webcash"
)

func TestSecretRoundTrip(t *testing.T) {
	sec := webcash.NewSecretFromString(1234567800, "abc")
	s, err := SerializeSecret(sec)
	require.NoError(t, err)
	require.Equal(t, "e12.345678:secret:abc", s)

	got, noncanonical, err := ParseSecret(s)
	require.NoError(t, err)
	require.False(t, noncanonical)
	require.Equal(t, sec.Amount, got.Amount)
	require.Equal(t, sec.Serial, got.Serial)
}

func TestPublicRoundTripVector(t *testing.T) {
	sec := webcash.NewSecretFromString(1, "abc")
	pub := webcash.PublicFromSecret(sec)

	s, err := SerializePublic(pub)
	require.NoError(t, err)
	require.Equal(t,
		"e0.00000001:public:ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		s)

	got, noncanonical, err := ParsePublic(s)
	require.NoError(t, err)
	require.False(t, noncanonical)
	require.Equal(t, pub.Amount, got.Amount)
	require.Equal(t, pub.Hash, got.Hash)
}

func TestParseSecretNonCanonicalSigil(t *testing.T) {
	got, noncanonical, err := ParseSecret("X1:secret:abc")
	require.NoError(t, err)
	require.True(t, noncanonical)
	require.Equal(t, amount.Amount(100000000), got.Amount)
	require.Equal(t, "abc", string(got.Serial))
}

func TestParseSecretEmptySerialSucceeds(t *testing.T) {
	got, noncanonical, err := ParseSecret("e1:secret:")
	require.NoError(t, err)
	require.False(t, noncanonical)
	require.Empty(t, got.Serial)
	require.False(t, got.Valid())
}

func TestParseRejectsWrongKind(t *testing.T) {
	_, _, err := ParseSecret("e1:public:abc")
	require.Error(t, err)
	_, _, err = ParsePublic("e1:secret:abc")
	require.Error(t, err)
}

func TestParsePublicUppercaseHexNoncanonical(t *testing.T) {
	upper := "e1:public:BA7816BF8F01CFEA414140DE5DAE2223B00361A396177A9CB410FF61F20015AD"
	got, noncanonical, err := ParsePublic(upper)
	require.NoError(t, err)
	require.True(t, noncanonical)
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", got.Hash.String())
}

func TestParsePublicBadLength(t *testing.T) {
	_, _, err := ParsePublic("e1:public:abcd")
	require.Error(t, err)
}

func TestSerializeSecretRejectsInvalid(t *testing.T) {
	_, err := SerializeSecret(webcash.NewSecretFromString(0, "abc"))
	require.Error(t, err)
	_, err = SerializeSecret(webcash.NewSecretFromString(1, ""))
	require.Error(t, err)
}
