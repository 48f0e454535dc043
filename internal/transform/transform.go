package transform

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/tinyjson/internal/models"
)

// KeyStyle names a case convention for object keys
type KeyStyle string

const (
	KeyStyleKeep           KeyStyle = ""
	KeyStyleCamel          KeyStyle = "camel"
	KeyStyleLowerCamel     KeyStyle = "lower_camel"
	KeyStyleSnake          KeyStyle = "snake"
	KeyStyleKebab          KeyStyle = "kebab"
	KeyStyleScreamingSnake KeyStyle = "screaming_snake"
)

// ParseKeyStyle validates a config/flag spelling of a key style
func ParseKeyStyle(s string) (KeyStyle, error) {
	style := KeyStyle(strings.ToLower(strings.TrimSpace(s)))
	switch style {
	case KeyStyleKeep, KeyStyleCamel, KeyStyleLowerCamel, KeyStyleSnake, KeyStyleKebab, KeyStyleScreamingSnake:
		return style, nil
	case "keep":
		return KeyStyleKeep, nil
	default:
		return KeyStyleKeep, fmt.Errorf("unknown key style %q", s)
	}
}

// Rules controls how keys are rewritten. Mappings are matched against the
// original key and take precedence over Style.
type Rules struct {
	Style    KeyStyle
	Mappings map[string]string
}

// IsNoop reports whether applying r would leave every key unchanged
func (r Rules) IsNoop() bool {
	return r.Style == KeyStyleKeep && len(r.Mappings) == 0
}

// Key returns the rewritten form of a single key
func (r Rules) Key(key string) string {
	if mapped, ok := r.Mappings[key]; ok {
		return mapped
	}

	switch r.Style {
	case KeyStyleCamel:
		return strcase.ToCamel(key)
	case KeyStyleLowerCamel:
		return strcase.ToLowerCamel(key)
	case KeyStyleSnake:
		return strcase.ToSnake(key)
	case KeyStyleKebab:
		return strcase.ToKebab(key)
	case KeyStyleScreamingSnake:
		return strcase.ToScreamingSnake(key)
	default:
		return key
	}
}

// RenameKeys returns a copy of c with every object key rewritten by rules.
// The input tree is left untouched; keys that collide after renaming are kept
// as duplicates in their original positions.
func RenameKeys(c models.Container, rules Rules) models.Container {
	switch c := c.(type) {
	case models.Object:
		out := make(models.Object, len(c))
		for i, m := range c {
			out[i] = models.Member{Key: rules.Key(m.Key), Value: renameValue(m.Value, rules)}
		}
		return out
	case models.Array:
		out := make(models.Array, len(c))
		for i, v := range c {
			out[i] = renameValue(v, rules)
		}
		return out
	case *models.Object:
		if c == nil {
			return c
		}
		return RenameKeys(*c, rules)
	case *models.Array:
		if c == nil {
			return c
		}
		return RenameKeys(*c, rules)
	default:
		return c
	}
}

func renameValue(v models.Value, rules Rules) models.Value {
	switch v := v.(type) {
	case models.Composite:
		return models.Composite{Container: RenameKeys(v.Container, rules)}
	case *models.Composite:
		if v == nil {
			return v
		}
		return models.Composite{Container: RenameKeys(v.Container, rules)}
	default:
		return v
	}
}
