package main

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/planeview/pkg/camera"
	"github.com/philipparndt/planeview/pkg/dataset"
	"github.com/philipparndt/planeview/pkg/render"
	"github.com/philipparndt/planeview/pkg/viewer"
	"github.com/philipparndt/planeview/pkg/watcher"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Open a dataset in an interactive viewport",
	Long: `Open the dataset in a window. Scroll to pan, drag to rotate, drag with the
secondary button to zoom and double-click to centre on a point.

Keys: + and - zoom, [ and ] twist, h home, n close, e edges, b bounding box.
The file is reloaded when it changes on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := dataset.Load(args[0])
		if err != nil {
			return err
		}
		return runView(cmd.Context(), ds, slog.Default())
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(ctx context.Context, ds *dataset.Dataset, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a := app.NewWithID("io.github.philipparndt.planeview")
	w := a.NewWindow("planeview - " + ds.Name)

	status := widget.NewLabel("")
	controller := camera.NewController(cfg.CameraOptions(1024, 768, logger))
	v := viewer.NewView(controller, render.DefaultOptions(), logger)
	v.SetOnStatus(status.SetText)
	v.SetDataset(ds)

	w.Canvas().SetOnTypedRune(func(r rune) { v.TypedRune(r) })
	w.SetContent(container.NewBorder(nil, status, nil, nil, v))

	fw, err := watcher.New(cfg.WatchDebounce, logger, func(changed string) {
		reloaded, err := dataset.Load(ds.Path)
		if err != nil {
			logger.Warn("reload failed", "path", ds.Path, "changed", changed, "error", err)
			return
		}
		fyne.Do(func() {
			if !v.Reload(reloaded) {
				logger.Debug("reload ignored, dataset closed", "path", ds.Path)
			}
		})
	})
	if err != nil {
		return err
	}
	sources, err := dataset.Sources(ds.Path)
	if err != nil {
		return err
	}
	for _, source := range sources {
		if err := fw.Add(source); err != nil {
			return err
		}
	}
	go func() {
		if err := fw.Run(ctx); err != nil {
			logger.Warn("watcher stopped", "error", err)
		}
	}()

	w.Resize(fyne.NewSize(1024, 800))
	w.ShowAndRun()
	return nil
}
