package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/planeview/internal/config"
	"github.com/philipparndt/planeview/pkg/analysis"
	"github.com/philipparndt/planeview/pkg/camera"
	"github.com/philipparndt/planeview/pkg/dataset"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Display dataset information and the home view",
	Long:  "Show the bounding box, normalized extents, measurements and where the home view places the data plane.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := dataset.Load(args[0])
		if err != nil {
			return err
		}
		return inspect(cmd.OutOrStdout(), cfg, ds, slog.Default())
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func inspect(out io.Writer, cfg *config.Config, ds *dataset.Dataset, logger *slog.Logger) error {
	s := analysis.Summarize(ds)

	fmt.Fprintln(out, "Dataset Information")
	fmt.Fprintln(out, "===================")
	fmt.Fprintf(out, "Name: %s\n", ds.Name)
	fmt.Fprintf(out, "ID: %s\n", ds.ID)
	if ds.Path != "" {
		fmt.Fprintf(out, "File: %s\n", ds.Path)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", s.TriangleCount)
	fmt.Fprintf(out, "  Edges: %d\n", s.EdgeCount)
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n", s.SurfaceArea)
	fmt.Fprintf(out, "  Edge Lengths: min %.6f, max %.6f, avg %.6f\n\n", s.MinEdgeLength, s.MaxEdgeLength, s.AvgEdgeLength)

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", formatVec(s.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", formatVec(s.BoundingBox.Max))
	fmt.Fprintf(out, "  Size: %s\n", formatVec(s.Dimensions))
	fmt.Fprintf(out, "  Diagonal: %.6f units\n", s.BoundingBox.Diagonal())
	fmt.Fprintf(out, "  Volume: %.6f cubic units\n\n", s.Volume)

	fmt.Fprintln(out, "Extents:")
	fmt.Fprintf(out, "  Mid: %s\n", formatVec(ds.Extents.Mid))
	fmt.Fprintf(out, "  Max Range: %.6f\n\n", ds.Extents.MaxRange)

	c := camera.NewController(cfg.CameraOptions(float64(cfg.SnapshotWidth), float64(cfg.SnapshotHeight), logger))
	c.SetExtents(ds.Extents)

	fmt.Fprintln(out, "Home View:")
	depth, err := c.DepthAtCentre(ds.Extents)
	if err != nil {
		return fmt.Errorf("depth at centre: %w", err)
	}
	fmt.Fprintf(out, "  Depth at Centre: %.6f\n", depth)

	w, h := c.State().Width, c.State().Height
	centre, err := c.Pick(w/2, h/2)
	if err != nil {
		return fmt.Errorf("centre pick: %w", err)
	}
	fmt.Fprintf(out, "  Centre Pick: %s\n", formatVec(ds.Extents.Denormalize(centre)))
	return nil
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X(), v.Y(), v.Z())
}
