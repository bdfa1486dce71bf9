package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/stencil-cli/internal/config"
	"github.com/xkilldash9x/stencil-cli/internal/observability"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stencil",
		Short: "A flexbox layout engine for declarative document templates",
		Long: `Stencil computes pixel geometry for XML document templates using a
CSS-style flexbox model. It resolves text, image, barcode, QR and
separator elements into absolute render boxes ready for rasterization.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(); err != nil {
				return err
			}
			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("configuration loaded",
				zap.String("config_file", viper.ConfigFileUsed()),
			)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.stencil/config.yaml)")
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newGeometryCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command with the given context. It is the single
// entry point used by main.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// initializeConfig wires viper and unmarshals the validated configuration
// into the package-level cfg.
func initializeConfig() error {
	v := viper.GetViper()
	config.SetDefaults(v)
	if err := config.InitViper(v, cfgFile); err != nil {
		return err
	}

	loaded, err := config.NewConfigFromViper(v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = loaded
	return nil
}

// mergedConfig re-reads the configuration after subcommand flag binding,
// which runs later than the root PersistentPreRunE unmarshal.
func mergedConfig() (*config.Config, error) {
	merged, err := config.NewConfigFromViper(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return merged, nil
}
