package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/stencil-cli/api/schemas"
	"github.com/xkilldash9x/stencil-cli/internal/layout"
	"github.com/xkilldash9x/stencil-cli/internal/observability"
	"github.com/xkilldash9x/stencil-cli/internal/render"
)

func newGeometryCmd() *cobra.Command {
	var fields map[string]string

	cmd := &cobra.Command{
		Use:   "geometry <template>",
		Short: "Print the computed box geometry for a template",
		Long: `Geometry lays out a single template and prints the resulting render
boxes as indented JSON on stdout. Useful for inspecting layout decisions
without writing output files.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("render.page_width", cmd.Flags().Lookup("width")); err != nil {
				return err
			}
			if err := viper.BindPFlag("render.page_height", cmd.Flags().Lookup("height")); err != nil {
				return err
			}
			return viper.BindPFlag("render.base_font_size", cmd.Flags().Lookup("font-size"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			merged, err := mergedConfig()
			if err != nil {
				return err
			}

			engine := layout.NewEngine(layout.Limits{
				MaxNestingDepth: merged.Limits.MaxNestingDepth,
				MaxFlexLines:    merged.Limits.MaxFlexLines,
				MaxRenderDepth:  merged.Limits.MaxRenderDepth,
			})
			renderer := render.New(engine, observability.GetLogger().Named("geometry"), 1)

			res, err := renderer.Render(cmd.Context(), schemas.RenderJob{
				TemplatePath: args[0],
				Fields:       fields,
				Width:        merged.Render.PageWidth,
				Height:       merged.Render.PageHeight,
				FontSize:     merged.Render.BaseFontSize,
			})
			if err != nil {
				return err
			}

			data, err := res.ToJSONIndent()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().Float64("width", 0, "page width in pixels (overrides config)")
	cmd.Flags().Float64("height", 0, "page height in pixels, 0 sizes to content")
	cmd.Flags().Float64("font-size", 0, "base font size in pixels for em units")
	cmd.Flags().StringToStringVarP(&fields, "fields", "f", nil, "template field values as key=value pairs")

	return cmd
}
