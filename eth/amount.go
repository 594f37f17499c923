package eth

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Amounts cross the gateway boundary as decimal strings in display
// units and are converted to base-unit integers here. No floating
// point is involved at any step.

// ToBase converts a decimal string to base units for a token with the
// given decimal precision. Fractional digits beyond the precision are
// rejected rather than truncated.
func ToBase(amount string, decimals int) (*big.Int, error) {
	s := strings.TrimSpace(amount)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	if intPart == "" && fracPart == "" {
		return nil, errors.Errorf("invalid amount %q", amount)
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > decimals {
		return nil, errors.Errorf(
			"amount %q exceeds %d decimal places", amount, decimals)
	}

	digits := intPart + fracPart + strings.Repeat("0", decimals-len(fracPart))
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, errors.Errorf("invalid amount %q", amount)
		}
	}

	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, errors.Errorf("invalid amount %q", amount)
	}
	if neg {
		v.Neg(v)
	}

	return v, nil
}

// FromBase converts a base-unit integer back to a decimal string,
// trimming trailing fractional zeros.
func FromBase(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}

	s := new(big.Int).Abs(v).String()
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	intPart := s[:len(s)-decimals]
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")

	out := intPart
	if fracPart != "" {
		out += "." + fracPart
	}
	if v.Sign() < 0 {
		out = "-" + out
	}

	return out
}
