package e2e_test

import (
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/mcncl/tinyjson/internal/formatter"
	"github.com/mcncl/tinyjson/internal/models"
	"github.com/mcncl/tinyjson/internal/parser"
	"github.com/stretchr/testify/require"
)

// generateNestedTree creates a tree depth levels deep with width members per object
func generateNestedTree(depth int, width int) models.Object {
	if depth <= 0 {
		return models.Obj(
			models.Field("leaf_value", models.Str("data")),
			models.Field("count", models.Num(float64(depth+width))),
			models.Field("enabled", models.BoolOf(width%2 == 0)),
			models.Field("missing", models.NullValue),
		)
	}

	members := make([]models.Member, 0, width)
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("nested_%d_%d", depth, i)
		members = append(members, models.Field(key, models.Nest(generateNestedTree(depth-1, width))))
	}
	return models.Obj(members...)
}

// generateWideTree creates an object with many members at the same level
func generateWideTree(fieldCount int) models.Object {
	rng := rand.New(rand.NewSource(42))
	members := make([]models.Member, 0, fieldCount)

	for i := 0; i < fieldCount; i++ {
		switch i % 5 {
		case 0:
			members = append(members, models.Field(fmt.Sprintf("string_field_%d", i), models.Str(fmt.Sprintf(`value "%d"`, i))))
		case 1:
			members = append(members, models.Field(fmt.Sprintf("int_field_%d", i), models.Num(float64(i))))
		case 2:
			members = append(members, models.Field(fmt.Sprintf("bool_field_%d", i), models.BoolOf(i%2 == 0)))
		case 3:
			members = append(members, models.Field(fmt.Sprintf("float_field_%d", i), models.Num(rng.Float64()*1000)))
		case 4:
			members = append(members, models.Field(fmt.Sprintf("object_field_%d", i), models.Nest(models.Obj(
				models.Field("id", models.Num(float64(i))),
				models.Field("tags", models.Nest(models.Arr(models.Str("a"), models.Str("b")))),
			))))
		}
	}
	return models.Obj(members...)
}

// BenchmarkSerialize_Person serializes the reference person object
func BenchmarkSerialize_Person(b *testing.B) {
	tree := models.Obj(
		models.Field("name", models.Str("Stefano")),
		models.Field("age", models.Num(31.0)),
		models.Field("fav_pls", models.Nest(models.Arr(models.Str("scala"), models.Str("rust")))),
		models.Field("clue", models.NullValue),
	)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = formatter.Serialize(tree)
	}
}

// BenchmarkSerialize_DeepNesting benchmarks deeply nested trees
func BenchmarkSerialize_DeepNesting(b *testing.B) {
	depths := []struct {
		name  string
		depth int
		width int
	}{
		{"Depth3Width3", 3, 3},
		{"Depth5Width2", 5, 2},
		{"Depth2Width10", 2, 10},
	}

	for _, d := range depths {
		b.Run(d.name, func(b *testing.B) {
			tree := generateNestedTree(d.depth, d.width)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = formatter.Serialize(tree)
			}
		})
	}
}

// BenchmarkSerialize_WideStructures benchmarks objects with many members
func BenchmarkSerialize_WideStructures(b *testing.B) {
	widths := []struct {
		name       string
		fieldCount int
	}{
		{"Fields10", 10},
		{"Fields100", 100},
		{"Fields1000", 1000},
	}

	for _, w := range widths {
		b.Run(w.name, func(b *testing.B) {
			tree := generateWideTree(w.fieldCount)
			full := formatter.NewFormatterWithOptions(formatter.Options{Escaping: formatter.EscapeFull})

			b.Run("quotes", func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					_ = formatter.Serialize(tree)
				}
			})
			b.Run("full", func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					_ = full.Format(tree)
				}
			})
		})
	}
}

// BenchmarkParseAndSerialize benchmarks the in-process pipeline on a generated document
func BenchmarkParseAndSerialize(b *testing.B) {
	doc := formatter.Serialize(generateNestedTree(4, 4))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		root, err := parser.ParseString(doc)
		require.NoError(b, err)
		_ = formatter.Serialize(root)
	}
}

// BenchmarkCLI benchmarks the built command on a generated file
func BenchmarkCLI(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	tempDir := b.TempDir()
	inputFile := filepath.Join(tempDir, "wide.json")
	require.NoError(b, os.WriteFile(inputFile, []byte(formatter.Serialize(generateWideTree(500))), 0o644))
	outputFile := filepath.Join(tempDir, "wide_output.json")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cmd := exec.Command("go", "run", "../../main.go", "-i", inputFile, "-o", outputFile)
		output, err := cmd.CombinedOutput()
		require.NoError(b, err, "CLI command failed: %s", string(output))
	}
}
