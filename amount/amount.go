// Package amount implements the canonical fixed-point amount codec: a
// signed value scaled by 10^8, with strict canonicalization rules on
// parsing (spec §4.1/§6).
package amount

import (
	"math"
	"strings"

	"github.com/maaku/libwebcash/wcerr"
)

// Scale is the number of units per whole amount (10^8), matching the
// decimal precision of the scheme's serial accounting.
const Scale = 100000000

// Amount is a signed quantity scaled by Scale. Its representable range is
// the full signed 64-bit range.
type Amount int64

const (
	maxMagnitude = uint64(math.MaxInt64) + 1 // 2^63, reachable only when negative
	maxPositive  = uint64(math.MaxInt64)
)

// Parse parses s per the amount lexical grammar (spec §4.1/§6). It reports
// whether the input was syntactically valid but not in the canonical form
// Format would produce.
func Parse(s string) (Amount, bool, error) {
	if len(s) == 0 {
		return 0, false, wcerr.New(wcerr.InvalidArgument, "empty amount")
	}

	noncanonical := false

	t := s
	quoted := false
	if t[0] == '"' {
		if len(t) < 2 || t[len(t)-1] != '"' {
			return 0, false, wcerr.New(wcerr.InvalidArgument, "unterminated quote")
		}
		quoted = true
		t = t[1 : len(t)-1]
	} else if t[len(t)-1] == '"' {
		return 0, false, wcerr.New(wcerr.InvalidArgument, "unterminated quote")
	}
	if quoted {
		noncanonical = true
	}
	if strings.ContainsRune(t, '"') {
		return 0, false, wcerr.New(wcerr.InvalidArgument, "embedded quote")
	}
	if len(t) == 0 {
		return 0, false, wcerr.New(wcerr.InvalidArgument, "empty amount")
	}

	negative := false
	if t[0] == '-' {
		negative = true
		t = t[1:]
	}
	if len(t) == 0 {
		return 0, false, wcerr.New(wcerr.InvalidArgument, "lone sign")
	}

	// Split into integral and fractional parts on the first '.'.
	dotIdx := strings.IndexByte(t, '.')
	var intPart, fracPart string
	hasDot := dotIdx >= 0
	if hasDot {
		intPart = t[:dotIdx]
		fracPart = t[dotIdx+1:]
		if strings.IndexByte(fracPart, '.') >= 0 {
			return 0, false, wcerr.New(wcerr.InvalidArgument, "multiple decimal points")
		}
	} else {
		intPart = t
	}

	if len(intPart) == 0 {
		return 0, false, wcerr.New(wcerr.InvalidArgument, "missing integral part")
	}
	for _, c := range []byte(intPart) {
		if c < '0' || c > '9' {
			return 0, false, wcerr.New(wcerr.InvalidArgument, "non-digit in integral part")
		}
	}
	if len(intPart) > 1 && intPart[0] == '0' {
		noncanonical = true
	}

	intMag, err := accumulateDigits(intPart)
	if err != nil {
		return 0, false, err
	}

	var fracVal uint64
	if hasDot {
		if len(fracPart) == 0 {
			// trailing '.' with no fractional digit
			noncanonical = true
		} else {
			for _, c := range []byte(fracPart) {
				if c < '0' || c > '9' {
					return 0, false, wcerr.New(wcerr.InvalidArgument, "non-digit in fractional part")
				}
			}
			significant := fracPart
			var extra string
			if len(fracPart) > 8 {
				significant = fracPart[:8]
				extra = fracPart[8:]
			}
			for _, c := range []byte(extra) {
				if c != '0' {
					return 0, false, wcerr.New(wcerr.InvalidArgument, "more than eight non-zero fractional digits")
				}
			}
			if len(extra) > 0 {
				noncanonical = true
			}

			padded := significant + strings.Repeat("0", 8-len(significant))
			v, err := accumulateDigits(padded)
			if err != nil {
				return 0, false, err
			}
			fracVal = v

			if fracVal == 0 {
				noncanonical = true
			} else {
				canonical := strings.TrimRight(padded, "0")
				if significant != canonical {
					noncanonical = true
				}
			}
		}
	}

	// Combine integral and fractional magnitude, watching for overflow.
	if intMag > math.MaxUint64/Scale {
		return 0, false, wcerr.New(wcerr.Overflow, "amount overflows 64 bits")
	}
	magnitude := intMag * Scale
	if magnitude > math.MaxUint64-fracVal {
		return 0, false, wcerr.New(wcerr.Overflow, "amount overflows 64 bits")
	}
	magnitude += fracVal

	if negative && magnitude == 0 {
		noncanonical = true
	}

	var limit uint64
	if negative {
		limit = maxMagnitude
	} else {
		limit = maxPositive
	}
	if magnitude > limit {
		return 0, false, wcerr.New(wcerr.Overflow, "amount overflows 64 bits")
	}

	var result Amount
	if negative {
		if magnitude == maxMagnitude {
			result = math.MinInt64
		} else {
			result = Amount(-int64(magnitude))
		}
	} else {
		result = Amount(int64(magnitude))
	}

	return result, noncanonical, nil
}

// ParseStrict is the "plain parse" entry point: it behaves like Parse but
// rejects quoted input outright as invalid-argument rather than accepting it
// as noncanonical. Quoting is only tolerated by Parse itself, for permissive
// contexts such as a claim code's embedded amount sub-field (spec §4.1/§8 —
// "quotes forbidden on plain parse; noncanonical when accepted in permissive
// contexts").
func ParseStrict(s string) (Amount, bool, error) {
	if len(s) > 0 && (s[0] == '"' || s[len(s)-1] == '"') {
		return 0, false, wcerr.New(wcerr.InvalidArgument, "quotes not allowed")
	}
	return Parse(s)
}

// accumulateDigits parses an all-digit string into a uint64, failing with
// wcerr.Overflow on uint64 wraparound.
func accumulateDigits(digits string) (uint64, error) {
	var v uint64
	for _, c := range []byte(digits) {
		d := uint64(c - '0')
		if v > math.MaxUint64/10 {
			return 0, wcerr.New(wcerr.Overflow, "digit string overflows 64 bits")
		}
		v *= 10
		if v > math.MaxUint64-d {
			return 0, wcerr.New(wcerr.Overflow, "digit string overflows 64 bits")
		}
		v += d
	}
	return v, nil
}

// Format renders a canonical string for a, following spec §4.1's rule: a
// leading '-' iff negative, the integral quotient, and (if the remainder is
// nonzero) a '.' followed by up to 8 digits with trailing zeros stripped.
func Format(a Amount) string {
	var magnitude uint64
	negative := a < 0
	if negative {
		if a == math.MinInt64 {
			magnitude = maxMagnitude
		} else {
			magnitude = uint64(-int64(a))
		}
	} else {
		magnitude = uint64(a)
	}

	intPart := magnitude / Scale
	frac := magnitude % Scale

	var sb strings.Builder
	if negative {
		sb.WriteByte('-')
	}
	sb.WriteString(formatUint(intPart))
	if frac != 0 {
		fracStr := formatUintZeroPad(frac, 8)
		fracStr = strings.TrimRight(fracStr, "0")
		sb.WriteByte('.')
		sb.WriteString(fracStr)
	}
	return sb.String()
}

// String implements fmt.Stringer via Format.
func (a Amount) String() string { return Format(a) }

func formatUint(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

func formatUintZeroPad(v uint64, width int) string {
	s := formatUint(v)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
