// Package claimcode implements the textual wire form of a Secret or Public:
// the ASCII string "e<amount>:<kind>:<payload>" (spec §4.2/§6).
package claimcode

import (
	"strings"

	"github.com/maaku/libwebcash/amount"
	"github.com/maaku/libwebcash/wcerr"
	"github.com/maaku/libwebcash/webcash"
)

const (
	kindSecret = "secret"
	kindPublic = "public"
)

// SerializeSecret renders sec as "e<amount>:secret:<serial>". sec's amount
// must be strictly positive and its serial non-empty.
func SerializeSecret(sec *webcash.Secret) (string, error) {
	if sec == nil || sec.Amount <= 0 || len(sec.Serial) == 0 {
		return "", wcerr.New(wcerr.InvalidArgument, "secret must have a positive amount and non-empty serial")
	}
	var sb strings.Builder
	sb.WriteByte('e')
	sb.WriteString(amount.Format(sec.Amount))
	sb.WriteString(":secret:")
	sb.Write(sec.Serial)
	return sb.String(), nil
}

// ParseSecret parses a claim code of the "secret" kind. A leading byte
// other than 'e' is tolerated and flagged noncanonical, as is a
// noncanonical amount sub-field. The serial may be empty; validity of the
// resulting Secret is a separate predicate (webcash.Secret.Valid), not
// enforced here.
func ParseSecret(s string) (*webcash.Secret, bool, error) {
	sigil, rest, kind, payload, err := splitClaimCode(s)
	if err != nil {
		return nil, false, err
	}
	if kind != kindSecret {
		return nil, false, wcerr.New(wcerr.InvalidArgument, "not a secret claim code")
	}

	amt, amtNoncanonical, err := amount.Parse(rest)
	if err != nil {
		return nil, false, err
	}

	noncanonical := amtNoncanonical || sigil != 'e'
	return &webcash.Secret{Amount: amt, Serial: []byte(payload)}, noncanonical, nil
}

// SerializePublic renders pub as "e<amount>:public:<64 lowercase hex>".
// pub's amount must be strictly positive.
func SerializePublic(pub *webcash.Public) (string, error) {
	if pub == nil || pub.Amount <= 0 {
		return "", wcerr.New(wcerr.InvalidArgument, "public must have a positive amount")
	}
	var sb strings.Builder
	sb.WriteByte('e')
	sb.WriteString(amount.Format(pub.Amount))
	sb.WriteString(":public:")
	sb.WriteString(pub.Hash.String())
	return sb.String(), nil
}

// ParsePublic parses a claim code of the "public" kind. As with
// ParseSecret, a non-'e' leading byte and uppercase hex digits are
// tolerated and flagged noncanonical; any other malformed input fails with
// invalid-argument.
func ParsePublic(s string) (*webcash.Public, bool, error) {
	sigil, rest, kind, payload, err := splitClaimCode(s)
	if err != nil {
		return nil, false, err
	}
	if kind != kindPublic {
		return nil, false, wcerr.New(wcerr.InvalidArgument, "not a public claim code")
	}

	amt, amtNoncanonical, err := amount.Parse(rest)
	if err != nil {
		return nil, false, err
	}
	h, hashNoncanonical, err := webcash.HashFromHex(payload)
	if err != nil {
		return nil, false, err
	}

	noncanonical := amtNoncanonical || hashNoncanonical || sigil != 'e'
	return &webcash.Public{Amount: amt, Hash: h}, noncanonical, nil
}

// splitClaimCode splits s into its leading sigil byte, the amount
// sub-field, the kind field, and the payload remainder, splitting only on
// the first two ':' characters so an arbitrary-byte secret serial (which
// may itself contain colons) is preserved intact.
func splitClaimCode(s string) (sigil byte, amountField, kind, payload string, err error) {
	if len(s) == 0 {
		return 0, "", "", "", wcerr.New(wcerr.InvalidArgument, "empty claim code")
	}
	sigil = s[0]
	rest := s[1:]

	idx1 := strings.IndexByte(rest, ':')
	if idx1 < 0 {
		return 0, "", "", "", wcerr.New(wcerr.InvalidArgument, "missing claim code separators")
	}
	amountField = rest[:idx1]

	tail := rest[idx1+1:]
	idx2 := strings.IndexByte(tail, ':')
	if idx2 < 0 {
		return 0, "", "", "", wcerr.New(wcerr.InvalidArgument, "missing claim code separators")
	}
	kind = tail[:idx2]
	payload = tail[idx2+1:]
	return sigil, amountField, kind, payload, nil
}
