package parser

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/tinyjson/internal/errors"
	"github.com/mcncl/tinyjson/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	// MaxDepth bounds nesting so conversion cannot exhaust the stack on
	// self-referencing aliases or hostile input.
	MaxDepth = 10000
	// MaxNodes bounds the size of the tree after alias expansion.
	MaxNodes = 10_000_000
)

// Parse reads a single YAML document from reader and converts it into a
// value tree. JSON input is accepted too, since YAML is a superset of it.
func Parse(reader io.Reader) (models.Container, error) {
	decoder := yaml.NewDecoder(reader)

	var doc yaml.Node
	if err := decoder.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only comments", errors.ErrEmptyInput)
		}
		return nil, errors.NewParsingError(err.Error(), fmt.Errorf("%w: %v", errors.ErrInvalidYAML, err))
	}

	var trailing yaml.Node
	if err := decoder.Decode(&trailing); err == nil {
		return nil, errors.NewParsingError("multiple documents found in input", errors.ErrMultipleDocuments)
	} else if !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError("invalid trailing data after first document", fmt.Errorf("%w: %v", errors.ErrInvalidYAML, err))
	}

	c := &converter{}
	return c.root(&doc)
}

// ParseString parses a YAML document held in a string
func ParseString(input string) (models.Container, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(input))
}

// ParseFile parses a YAML document from a file path
func ParseFile(filePath string) (models.Container, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", filePath), errors.ErrFileNotFound)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to open file '%s'", filePath), err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to get file stats for '%s'", filePath), err)
	}
	if stat.Size() == 0 {
		return nil, errors.NewInputError(fmt.Sprintf("input file '%s' is empty", filePath), errors.ErrFileEmpty)
	}

	return Parse(file)
}

// converter walks a yaml.Node graph and copies it into a strict value tree.
// Aliases are expanded by copy, so shared anchors never share tree nodes.
type converter struct {
	nodes int
}

func (c *converter) root(doc *yaml.Node) (models.Container, error) {
	n := doc
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, errors.NewParsingError("document has no content", errors.ErrEmptyInput)
		}
		n = n.Content[0]
	}
	n = resolveAlias(n)

	if n.Kind != yaml.MappingNode && n.Kind != yaml.SequenceNode {
		return nil, errors.NewConvertError(
			fmt.Sprintf("root node at line %d is a %s", n.Line, kindName(n)),
			errors.ErrUnsupportedRoot,
		)
	}
	return c.container(n, 1)
}

func (c *converter) container(n *yaml.Node, depth int) (models.Container, error) {
	if depth > MaxDepth {
		return nil, errors.NewConvertError(fmt.Sprintf("nesting deeper than %d levels at line %d", MaxDepth, n.Line), errors.ErrNestingTooDeep)
	}

	switch n.Kind {
	case yaml.SequenceNode:
		arr := make(models.Array, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := c.value(item, depth)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.MappingNode:
		obj := make(models.Object, 0, len(n.Content)/2)
		return c.members(obj, n, depth)
	default:
		return nil, errors.NewConvertError(fmt.Sprintf("expected mapping or sequence at line %d, got %s", n.Line, kindName(n)), nil)
	}
}

// members appends the pairs of mapping n to obj in document order.
// Merge keys splice the members of the referenced mappings in at their
// position, skipping keys the mapping sets explicitly and keys an earlier
// merge already supplied. Explicit duplicate keys are kept as written.
func (c *converter) members(obj models.Object, n *yaml.Node, depth int) (models.Object, error) {
	if depth > MaxDepth {
		return nil, errors.NewConvertError(fmt.Sprintf("nesting deeper than %d levels at line %d", MaxDepth, n.Line), errors.ErrNestingTooDeep)
	}

	explicit := explicitKeys(n)
	merged := make(map[string]bool)

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := resolveAlias(n.Content[i])
		valNode := n.Content[i+1]

		if isMergeKey(keyNode) {
			inherited, err := c.merge(valNode, depth+1)
			if err != nil {
				return nil, err
			}
			for _, m := range inherited {
				if explicit[m.Key] || merged[m.Key] {
					continue
				}
				merged[m.Key] = true
				obj = append(obj, m)
			}
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, errors.NewConvertError(fmt.Sprintf("mapping key at line %d is a %s, only scalar keys are supported", keyNode.Line, kindName(keyNode)), nil)
		}

		v, err := c.value(valNode, depth)
		if err != nil {
			return nil, err
		}
		obj = append(obj, models.Member{Key: keyNode.Value, Value: v})
	}
	return obj, nil
}

// merge returns the members a merge key inherits from n, a mapping or a
// sequence of mappings. Earlier mappings in a sequence come first.
func (c *converter) merge(n *yaml.Node, depth int) (models.Object, error) {
	n = resolveAlias(n)
	if depth > MaxDepth {
		return nil, errors.NewConvertError(fmt.Sprintf("merge nesting deeper than %d levels at line %d", MaxDepth, n.Line), errors.ErrNestingTooDeep)
	}

	switch n.Kind {
	case yaml.MappingNode:
		return c.members(nil, n, depth)
	case yaml.SequenceNode:
		var out models.Object
		for _, item := range n.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.MappingNode {
				return nil, errors.NewConvertError(fmt.Sprintf("merge sequence item at line %d must be a mapping", item.Line), nil)
			}
			inherited, err := c.merge(item, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, inherited...)
		}
		return out, nil
	default:
		return nil, errors.NewConvertError(fmt.Sprintf("merge value at line %d must be a mapping", n.Line), nil)
	}
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!merge"
}

// explicitKeys collects the scalar keys mapping n sets itself.
func explicitKeys(n *yaml.Node) map[string]bool {
	keys := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := resolveAlias(n.Content[i])
		if k.Kind == yaml.ScalarNode && !isMergeKey(k) {
			keys[k.Value] = true
		}
	}
	return keys
}

func (c *converter) value(n *yaml.Node, depth int) (models.Value, error) {
	c.nodes++
	if c.nodes > MaxNodes {
		return nil, errors.NewConvertError(fmt.Sprintf("more than %d values after alias expansion", MaxNodes), errors.ErrDocumentTooLarge)
	}

	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		inner, err := c.container(n, depth+1)
		if err != nil {
			return nil, err
		}
		return models.Composite{Container: inner}, nil
	case yaml.ScalarNode:
		return scalar(n)
	default:
		return nil, errors.NewConvertError(fmt.Sprintf("unsupported %s at line %d", kindName(n), n.Line), nil)
	}
}

func scalar(n *yaml.Node) (models.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return models.NullValue, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, errors.NewConvertError(fmt.Sprintf("invalid boolean %q at line %d", n.Value, n.Line), err)
		}
		return models.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, errors.NewConvertError(fmt.Sprintf("invalid number %q at line %d", n.Value, n.Line), err)
		}
		return models.Number(f), nil
	default:
		return models.String(n.Value), nil
	}
}

// resolveAlias follows alias chains to the anchored node.
func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
