package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/stencil-cli/api/schemas"
	"github.com/xkilldash9x/stencil-cli/internal/layout"
	"github.com/xkilldash9x/stencil-cli/internal/observability"
	"github.com/xkilldash9x/stencil-cli/internal/render"
)

func newRenderCmd() *cobra.Command {
	var fields map[string]string

	cmd := &cobra.Command{
		Use:   "render [template...]",
		Short: "Compute render geometry for one or more templates",
		Long: `Render parses each XML template, substitutes field placeholders,
runs the flexbox layout pass and writes the resulting box geometry to the
output directory as one JSON document per template.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("render.page_width", cmd.Flags().Lookup("width")); err != nil {
				return err
			}
			if err := viper.BindPFlag("render.page_height", cmd.Flags().Lookup("height")); err != nil {
				return err
			}
			if err := viper.BindPFlag("render.base_font_size", cmd.Flags().Lookup("font-size")); err != nil {
				return err
			}
			if err := viper.BindPFlag("render.output_dir", cmd.Flags().Lookup("output")); err != nil {
				return err
			}
			if err := viper.BindPFlag("render.format", cmd.Flags().Lookup("format")); err != nil {
				return err
			}
			return viper.BindPFlag("engine.worker_concurrency", cmd.Flags().Lookup("concurrency"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, fields)
		},
	}

	cmd.Flags().Float64("width", 0, "page width in pixels (overrides config)")
	cmd.Flags().Float64("height", 0, "page height in pixels, 0 sizes to content")
	cmd.Flags().Float64("font-size", 0, "base font size in pixels for em units")
	cmd.Flags().StringP("output", "o", "", "directory for geometry output files")
	cmd.Flags().String("format", "", "output format: json or json-indent")
	cmd.Flags().IntP("concurrency", "c", 0, "number of templates rendered in parallel")
	cmd.Flags().StringToStringVarP(&fields, "fields", "f", nil, "template field values as key=value pairs")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, fields map[string]string) error {
	logger := observability.GetLogger().Named("render")

	// Flag bindings happened after the root PreRun unmarshal, so pull the
	// merged view back out of viper.
	merged, err := mergedConfig()
	if err != nil {
		return err
	}

	engine := layout.NewEngine(layout.Limits{
		MaxNestingDepth: merged.Limits.MaxNestingDepth,
		MaxFlexLines:    merged.Limits.MaxFlexLines,
		MaxRenderDepth:  merged.Limits.MaxRenderDepth,
	})
	renderer := render.New(engine, logger, merged.Engine.WorkerConcurrency)

	jobs := make([]schemas.RenderJob, len(args))
	for i, path := range args {
		jobs[i] = schemas.RenderJob{
			TemplatePath: path,
			Fields:       fields,
			Width:        merged.Render.PageWidth,
			Height:       merged.Render.PageHeight,
			FontSize:     merged.Render.BaseFontSize,
		}
	}

	results, err := renderer.RenderBatch(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	outDir := merged.Render.OutputDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for i, res := range results {
		data, err := encodeResult(res, merged.Render.Format)
		if err != nil {
			return err
		}
		out := outputPath(outDir, args[i])
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		logger.Info("geometry written",
			zap.String("template", args[i]),
			zap.String("output", out),
			zap.Int("boxes", len(res.Boxes)),
		)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d template(s) to %s\n", len(results), outDir)
	return nil
}

func encodeResult(res *schemas.RenderResult, format string) ([]byte, error) {
	if format == "json-indent" {
		return res.ToJSONIndent()
	}
	return res.ToJSON()
}

// outputPath maps a template path to its geometry file in the output
// directory, e.g. receipts/order.xml -> <out>/order.json.
func outputPath(outDir, templatePath string) string {
	base := filepath.Base(templatePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+".json")
}
