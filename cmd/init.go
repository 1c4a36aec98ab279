package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bannerloop/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Long: `Write a config file with the default settings and a few sample banners.

The format follows the extension: .toml (default) or .yaml/.yml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := resolveConfigPath(args)
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := config.NewConfigService(path).Save(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

// resolveConfigPath picks the positional path, then --config, then the default
func resolveConfigPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}
