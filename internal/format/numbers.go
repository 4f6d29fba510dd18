package format

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// FormatNumberString inserts thousands separators into a decimal integer
// string. A leading minus sign is preserved.
func FormatNumberString(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 1)
	if neg {
		b.WriteByte('-')
	}
	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatBound renders an upper bound N. Powers of ten and values just above
// one (10^15 + 20) use exponent notation; anything else gets thousands
// separators.
func FormatBound(n *big.Int) string {
	if n == nil {
		return "-"
	}
	s := n.String()
	if n.Sign() <= 0 || len(s) < 7 {
		return FormatNumberString(s)
	}
	k := len(s) - 1
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(k)), nil)
	rest := new(big.Int).Sub(n, pow)
	switch {
	case rest.Sign() == 0:
		return fmt.Sprintf("10^%d", k)
	case rest.Sign() > 0 && rest.Cmp(big.NewInt(1_000_000)) < 0:
		return fmt.Sprintf("10^%d + %s", k, rest)
	default:
		return FormatNumberString(s)
	}
}

// FormatDensity renders a probability with six decimals; NaN renders as
// "n/a".
func FormatDensity(p float64) string {
	if math.IsNaN(p) {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", p)
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
