package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/philipparndt/planeview/internal/config"
	"github.com/philipparndt/planeview/version"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "planeview",
	Short: "Inspect and view 3D models with a plane-anchored camera",
	Long: `planeview loads STL, OBJ and OpenSCAD models and shows them in a
viewport whose camera keeps the model's data plane at a fixed depth while you
pan, zoom, twist and rotate. Snapshots can be rendered headless to PNG or WebP.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	loaded.Resolve(config.Flags{LogLevel: logLevel})
	cfg = loaded

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
