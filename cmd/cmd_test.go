package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/stencil-cli/api/schemas"
	"github.com/xkilldash9x/stencil-cli/internal/config"
	"github.com/xkilldash9x/stencil-cli/internal/observability"
)

const tagTemplate = `
<flex direction="column" padding="10" gap="5">
  <text grow="1" height="20">Item {sku}</text>
  <barcode code="{sku}" symbology="code128" width="120" height="40"/>
</flex>`

// resetForTest clears all state that leaks between command executions:
// viper's global instance, the root command's flag bindings, and the
// logger singleton.
func resetForTest(t *testing.T) {
	t.Helper()

	viper.Reset()
	viper.SetConfigName("a-config-file-that-does-not-exist")

	cfgFile = ""
	cfg = nil
	rootCmd = newRootCmd()

	observability.ResetForTest()
	observability.InitializeLogger(config.LoggerConfig{
		Level: "fatal", Format: "console", ServiceName: "stencil-test",
	})
	t.Cleanup(observability.ResetForTest)
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTemplate(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tag.xml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRootCmd_NoArgsPrintsHelp(t *testing.T) {
	resetForTest(t)

	out, err := executeCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "CSS-style flexbox model")
	assert.Contains(t, out, "render")
	assert.Contains(t, out, "geometry")
}

func TestVersionCommand(t *testing.T) {
	resetForTest(t)

	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "stencil dev")
}

func TestRootCmd_MissingConfigFileFails(t *testing.T) {
	resetForTest(t)

	_, err := executeCommand(t, "--config", "/nonexistent/config.yaml", "version")
	require.Error(t, err)
}

func TestRenderCommand_WritesGeometryFiles(t *testing.T) {
	resetForTest(t)

	tmpl := writeTemplate(t, tagTemplate)
	outDir := t.TempDir()

	out, err := executeCommand(t, "render", tmpl,
		"--output", outDir,
		"--width", "300",
		"--format", "json-indent",
		"--fields", "sku=AB-123",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered 1 template(s)")

	data, err := os.ReadFile(filepath.Join(outDir, "tag.json"))
	require.NoError(t, err)

	res, err := schemas.RenderResultFromJSON(data)
	require.NoError(t, err)
	require.NotEmpty(t, res.Boxes)

	root := res.Boxes[0]
	assert.Equal(t, "flex", root.Kind)
	assert.InDelta(t, 300, root.Width, 0.001)

	var sawBarcode bool
	for _, box := range res.Boxes {
		if box.Kind == "barcode" {
			sawBarcode = true
			assert.Equal(t, "AB-123", box.Code)
			assert.Equal(t, "code128", box.Symbology)
		}
	}
	assert.True(t, sawBarcode, "expected a barcode box in the output")
}

func TestRenderCommand_MissingTemplateFails(t *testing.T) {
	resetForTest(t)

	_, err := executeCommand(t, "render", "/nonexistent/tag.xml",
		"--output", t.TempDir())
	require.Error(t, err)
}

func TestRenderCommand_RequiresArgs(t *testing.T) {
	resetForTest(t)

	_, err := executeCommand(t, "render")
	require.Error(t, err)
}

func TestRenderCommand_InvalidFormatFails(t *testing.T) {
	resetForTest(t)

	tmpl := writeTemplate(t, tagTemplate)
	_, err := executeCommand(t, "render", tmpl,
		"--output", t.TempDir(), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestGeometryCommand_PrintsIndentedJSON(t *testing.T) {
	resetForTest(t)

	tmpl := writeTemplate(t, tagTemplate)

	out, err := executeCommand(t, "geometry", tmpl,
		"--width", "200", "--fields", "sku=Z9")
	require.NoError(t, err)

	res, err := schemas.RenderResultFromJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, tmpl, res.Template)
	assert.InDelta(t, 200, res.Width, 0.001)
	require.NotEmpty(t, res.Boxes)
	assert.Contains(t, out, "\n  ", "output should be indented")
}

func TestRenderCommand_ConfigFileSetsDefaults(t *testing.T) {
	resetForTest(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("render:\n  page_width: 256\n"), 0o644))

	tmpl := writeTemplate(t, tagTemplate)
	outDir := t.TempDir()

	_, err := executeCommand(t, "--config", cfgPath, "render", tmpl, "--output", outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "tag.json"))
	require.NoError(t, err)
	res, err := schemas.RenderResultFromJSON(data)
	require.NoError(t, err)
	assert.InDelta(t, 256, res.Width, 0.001)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "order.json"), outputPath("out", "receipts/order.xml"))
	assert.Equal(t, filepath.Join("out", "plain.json"), outputPath("out", "plain"))
}
