package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bannerloop/internal/config"
	"bannerloop/internal/loop"
	"bannerloop/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate a config file and print the derived layout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntP("width", "w", 80, "Terminal width used for automatic item width")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := resolveConfigPath(args)
	width, _ := cmd.Flags().GetInt("width")

	cfg, err := config.NewConfigService(path).LoadFromPath(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	g := loop.Geometry{
		ItemExtent: float64(ui.ItemExtent(cfg.Carousel.ItemWidth, width)),
		Spacing:    float64(cfg.Carousel.Spacing),
		Count:      len(cfg.Items),
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: ok\n", path)
	fmt.Fprintf(out, "  items:      %d\n", g.Count)
	if err := g.Validate(); err != nil {
		fmt.Fprintf(out, "  geometry:   %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "  item width: %g (+%g spacing)\n", g.ItemExtent, g.Spacing)
	fmt.Fprintf(out, "  period:     %g\n", g.Period())
	if cfg.Autoplay.Enabled {
		interval := cfg.Autoplay.Interval.Std()
		if interval <= 0 {
			interval = loop.DefaultAutoplayInterval
		}
		fmt.Fprintf(out, "  autoplay:   every %s\n", interval)
	} else {
		fmt.Fprintf(out, "  autoplay:   off\n")
	}
	return nil
}
