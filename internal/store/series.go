package store

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// ErrSeriesSyntax is wrapped by DecodeSeries for any malformed input.
var ErrSeriesSyntax = errors.New("malformed price series")

// EncodeSeries renders a price series as a list of (timestamp, price) pairs:
//
//	[('2024-01-01 10:00:00', 1499.0), ('2024-01-02 10:00:00', inf)]
//
// Unavailable prices are written as the literal inf.
func EncodeSeries(points []domain.PricePoint) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range points {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("('")
		b.WriteString(p.Timestamp)
		b.WriteString("', ")
		b.WriteString(formatNumber(float64(p.Price)))
		b.WriteByte(')')
	}
	b.WriteByte(']')
	return b.String()
}

func formatNumber(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "inf"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// DecodeSeries parses the EncodeSeries format. It accepts single- or
// double-quoted timestamps, integer or decimal prices, and inf or
// float('inf') for unavailable prices. Anything else is rejected.
func DecodeSeries(text string) ([]domain.PricePoint, error) {
	p := &seriesParser{src: text}
	points, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeriesSyntax, err)
	}
	return points, nil
}

type seriesParser struct {
	src string
	pos int
}

func (p *seriesParser) parse() ([]domain.PricePoint, error) {
	points := []domain.PricePoint{}

	p.skipSpace()
	if err := p.expect('['); err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return points, p.end()
	}

	for {
		pt, err := p.pair()
		if err != nil {
			return nil, err
		}
		points = append(points, pt)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			// Trailing comma before the closing bracket.
			if p.peek() == ']' {
				p.pos++
				return points, p.end()
			}
		case ']':
			p.pos++
			return points, p.end()
		default:
			return nil, p.errorf("expected ',' or ']'")
		}
	}
}

func (p *seriesParser) pair() (domain.PricePoint, error) {
	var pt domain.PricePoint

	p.skipSpace()
	if err := p.expect('('); err != nil {
		return pt, err
	}
	p.skipSpace()
	ts, err := p.quoted()
	if err != nil {
		return pt, err
	}
	p.skipSpace()
	if err := p.expect(','); err != nil {
		return pt, err
	}
	p.skipSpace()
	v, err := p.number()
	if err != nil {
		return pt, err
	}
	p.skipSpace()
	if err := p.expect(')'); err != nil {
		return pt, err
	}

	pt.Timestamp = ts
	pt.Price = domain.Price(v)
	return pt, nil
}

func (p *seriesParser) quoted() (string, error) {
	q := p.peek()
	if q != '\'' && q != '"' {
		return "", p.errorf("expected quoted timestamp")
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != q {
		if p.src[p.pos] == '\\' || p.src[p.pos] == '\n' {
			return "", p.errorf("unsupported character in timestamp")
		}
		p.pos++
	}
	if p.pos >= len(p.src) {
		return "", p.errorf("unterminated timestamp")
	}
	s := p.src[start:p.pos]
	p.pos++
	return s, nil
}

func (p *seriesParser) number() (float64, error) {
	rest := p.src[p.pos:]
	for _, lit := range []string{"float('inf')", `float("inf")`, "inf"} {
		if strings.HasPrefix(rest, lit) {
			p.pos += len(lit)
			return math.Inf(1), nil
		}
	}

	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' ||
			((c == '-' || c == '+') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')) {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return 0, p.errorf("expected number")
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("invalid number %q", p.src[start:p.pos])
	}
	return v, nil
}

func (p *seriesParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *seriesParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *seriesParser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *seriesParser) end() error {
	p.skipSpace()
	if p.pos != len(p.src) {
		return p.errorf("trailing input")
	}
	return nil
}

func (p *seriesParser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}
