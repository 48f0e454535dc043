package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/tinyjson/internal/models"
)

// Escaping selects how string contents (keys and values) are escaped
type Escaping int

const (
	// EscapeQuotes escapes only the double-quote character
	EscapeQuotes Escaping = iota
	// EscapeFull escapes per RFC 8259: quotes, backslashes and control characters
	EscapeFull
)

// String returns the config/flag spelling of the policy
func (e Escaping) String() string {
	switch e {
	case EscapeQuotes:
		return "quotes"
	case EscapeFull:
		return "full"
	default:
		return fmt.Sprintf("Escaping(%d)", int(e))
	}
}

// ParseEscaping converts a config/flag spelling into an Escaping policy
func ParseEscaping(s string) (Escaping, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "quotes":
		return EscapeQuotes, nil
	case "full":
		return EscapeFull, nil
	default:
		return EscapeQuotes, fmt.Errorf("unknown escaping policy %q (want quotes or full)", s)
	}
}

// Options controls serialization
type Options struct {
	Escaping Escaping
}

// Formatter renders value trees as compact JSON text.
// It holds no mutable state and is safe for concurrent use.
type Formatter struct {
	opts Options
}

// NewFormatter creates a Formatter with the default options
func NewFormatter() *Formatter {
	return &Formatter{}
}

// NewFormatterWithOptions creates a Formatter with custom options
func NewFormatterWithOptions(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

// Serialize renders root with the default options.
func Serialize(root models.Container) string {
	return NewFormatter().Format(root)
}

// Format renders root as compact JSON. It never fails; the recursion depth
// equals the tree depth, so bounding that depth is up to the caller.
func (f *Formatter) Format(root models.Container) string {
	var b strings.Builder
	f.writeContainer(&b, root)
	return b.String()
}

func (f *Formatter) writeContainer(b *strings.Builder, c models.Container) {
	switch c := c.(type) {
	case models.Object:
		b.WriteByte('{')
		first := true
		for _, m := range c {
			if !first {
				b.WriteByte(',')
			}
			first = false
			f.writeString(b, m.Key)
			b.WriteByte(':')
			f.writeValue(b, m.Value)
		}
		b.WriteByte('}')
	case models.Array:
		b.WriteByte('[')
		first := true
		for _, v := range c {
			if !first {
				b.WriteByte(',')
			}
			first = false
			f.writeValue(b, v)
		}
		b.WriteByte(']')
	case *models.Object:
		if c == nil {
			b.WriteString("null")
			return
		}
		f.writeContainer(b, *c)
	case *models.Array:
		if c == nil {
			b.WriteString("null")
			return
		}
		f.writeContainer(b, *c)
	case nil:
		b.WriteString("null")
	default:
		panic(fmt.Sprintf("formatter: unhandled container %T", c))
	}
}

func (f *Formatter) writeValue(b *strings.Builder, v models.Value) {
	switch v := v.(type) {
	case models.String:
		f.writeString(b, string(v))
	case models.Number:
		writeNumber(b, float64(v))
	case models.Composite:
		f.writeContainer(b, v.Container)
	case models.Bool:
		b.WriteString(strconv.FormatBool(bool(v)))
	case models.Null, nil:
		b.WriteString("null")
	case *models.String:
		if v == nil {
			b.WriteString("null")
			return
		}
		f.writeString(b, string(*v))
	case *models.Number:
		if v == nil {
			b.WriteString("null")
			return
		}
		writeNumber(b, float64(*v))
	case *models.Composite:
		if v == nil {
			b.WriteString("null")
			return
		}
		f.writeContainer(b, v.Container)
	case *models.Bool:
		if v == nil {
			b.WriteString("null")
			return
		}
		b.WriteString(strconv.FormatBool(bool(*v)))
	case *models.Null:
		b.WriteString("null")
	default:
		panic(fmt.Sprintf("formatter: unhandled value %T", v))
	}
}

// writeNumber uses the shortest round-tripping decimal without an exponent.
// NaN and infinities have no JSON spelling and become null.
func writeNumber(b *strings.Builder, n float64) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		b.WriteString("null")
		return
	}
	b.WriteString(strconv.FormatFloat(n, 'f', -1, 64))
}

func (f *Formatter) writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	if f.opts.Escaping == EscapeFull {
		writeEscapedFull(b, s)
	} else {
		b.WriteString(strings.ReplaceAll(s, `"`, `\"`))
	}
	b.WriteByte('"')
}

const hexDigits = "0123456789abcdef"

func writeEscapedFull(b *strings.Builder, s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		b.WriteString(s[start:i])
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteString(`\u00`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xF])
		}
		start = i + 1
	}
	b.WriteString(s[start:])
}
