package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// Price is a parsed quote value. Phú Quý publishes whole đồng, BTMC
// publishes fractional thousand-đồng figures; the whole flag keeps the two
// domains apart so an integer quote never round-trips through a float
// rendering.
type Price struct {
	value float64
	whole bool
}

// Whole wraps an integer-domain price.
func Whole(v int64) *Price {
	return &Price{value: float64(v), whole: true}
}

// Decimal wraps a float-domain price.
func Decimal(v float64) *Price {
	return &Price{value: v}
}

// Int64 returns the integer value of a whole-domain price.
func (p *Price) Int64() int64 {
	return int64(p.value)
}

// Float64 returns the numeric value regardless of domain.
func (p *Price) Float64() float64 {
	return p.value
}

// MarshalJSON renders whole prices without a fractional part so the JSON
// output matches the vendor's numeric domain.
func (p Price) MarshalJSON() ([]byte, error) {
	if p.whole {
		return strconv.AppendInt(nil, int64(p.value), 10), nil
	}
	return strconv.AppendFloat(nil, p.value, 'f', -1, 64), nil
}

// UnmarshalJSON accepts a bare JSON number, inferring the domain from the
// presence of a fractional part.
func (p *Price) UnmarshalJSON(data []byte) error {
	s := string(data)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse price %q: %w", s, err)
	}
	p.value = v
	p.whole = !strings.ContainsAny(s, ".eE")
	return nil
}

func (p *Price) String() string {
	if p == nil {
		return "-"
	}
	b, _ := p.MarshalJSON()
	return string(b)
}

// ParseWhole normalizes an integer-domain price cell: whitespace trimmed,
// thousands separators stripped, everything else rejected. Placeholder text
// such as "Liên hệ" yields nil, never zero.
func ParseWhole(s string) *Price {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || v < 0 {
		return nil
	}
	// ParseInt tolerates a leading sign; the source never prints one.
	if !isDigits(cleaned) {
		return nil
	}
	return Whole(v)
}

// ParseDecimal normalizes a float-domain price cell. After trimming and
// separator stripping the string must consist of digits with at most one
// decimal point; exponent and sign forms are rejected.
func ParseDecimal(s string) *Price {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" || cleaned == "." {
		return nil
	}
	dots := 0
	for _, r := range cleaned {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return nil
			}
		default:
			return nil
		}
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return Decimal(v)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
