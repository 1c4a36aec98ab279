package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	configPath string
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "bannerloop",
	Short: "An endless banner carousel for the terminal",
	Long: `bannerloop - An endless banner carousel for the terminal.

Banners scroll in a loop in both directions, advance on a timer, follow
mouse drags and snap to the nearest banner. Run without a subcommand to
start the carousel.`,
	SilenceUsage: true,
	RunE:         runCarousel,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file, .toml or .yaml (default: user config dir)")
	addRunFlags(rootCmd)
}
