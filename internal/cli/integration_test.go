package cli_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCLI_FileInputOutput tests the CLI with file input and output
func TestCLI_FileInputOutput(t *testing.T) {
	tempDir := t.TempDir()

	yamlContent := `
name: John Doe
age: 30
email: john.doe@example.com
address:
  street: 123 Main St
  city: Anytown
  zip: "12345"
phones:
  - type: home
    number: 555-1234
  - type: work
    number: 555-5678
active: true
`
	inputFile := filepath.Join(tempDir, "test.yaml")
	require.NoError(t, os.WriteFile(inputFile, []byte(yamlContent), 0o644))

	outputFile := filepath.Join(tempDir, "output.json")

	cmd := exec.Command("go", "run", "../../main.go", "-i", inputFile, "-o", outputFile)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "CLI command failed: %s", string(output))
	assert.Contains(t, string(output), "JSON written to")

	generated, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	expected := `{"name":"John Doe","age":30,"email":"john.doe@example.com",` +
		`"address":{"street":"123 Main St","city":"Anytown","zip":"12345"},` +
		`"phones":[{"type":"home","number":"555-1234"},{"type":"work","number":"555-5678"}],` +
		`"active":true}` + "\n"
	assert.Equal(t, expected, string(generated))
}

// TestCLI_StdinStdout tests the CLI with stdin input and stdout output
func TestCLI_StdinStdout(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader(`{"name": "Jane Smith", "age": 25, "active": true}`)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "CLI command failed: %s", stderr.String())
	assert.Equal(t, `{"name":"Jane Smith","age":25,"active":true}`+"\n", stdout.String())
}

// TestCLI_KeyStyleFlag tests key rewriting from the command line
func TestCLI_KeyStyleFlag(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "-k", "lower_camel", "-n")
	cmd.Stdin = strings.NewReader("first_name: Test\nlast_name: User\n")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "CLI command failed: %s", stderr.String())
	assert.Equal(t, `{"firstName":"Test","lastName":"User"}`, stdout.String())
}

// TestCLI_EscapeFlag tests the full escaping policy
func TestCLI_EscapeFlag(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--escape", "full", "--no-newline")
	cmd.Stdin = strings.NewReader(`["tab\there", "back\\slash"]`)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "CLI command failed: %s", stderr.String())
	assert.Equal(t, `["tab\there","back\\slash"]`, stdout.String())
}

// TestCLI_ConfigFile tests that a config file is honoured
func TestCLI_ConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "tinyjson.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("keys:\n  style: kebab\noutput:\n  trailing_newline: false\n"), 0o644))

	cmd := exec.Command("go", "run", "../../main.go", "-c", configFile)
	cmd.Stdin = strings.NewReader("some_key: [1, 2.5]\n")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "CLI command failed: %s", stderr.String())
	assert.Equal(t, `{"some-key":[1,2.5]}`, stdout.String())
}

// TestCLI_InvalidInput tests the CLI with a malformed document
func TestCLI_InvalidInput(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader(`{"name": ["unclosed}`)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with invalid input")
	assert.Contains(t, stderr.String(), "YAML parsing error")
}

// TestCLI_ScalarRoot tests that a bare scalar document is rejected
func TestCLI_ScalarRoot(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader("42\n")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "Conversion error")
}

// TestCLI_EmptyInput tests the CLI with empty input
func TestCLI_EmptyInput(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader("")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with empty input")
	assert.Contains(t, stderr.String(), "empty input")
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "-v")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "tinyjson version")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--help")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	helpOutput := string(output)
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "-i, --input")
	assert.Contains(t, helpOutput, "-o, --output")
	assert.Contains(t, helpOutput, "-e, --escape")
	assert.Contains(t, helpOutput, "-k, --keys")
	assert.Contains(t, helpOutput, "-n, --no-newline")
}
