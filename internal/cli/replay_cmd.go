package cli

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-orbit/internal/script"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newReplayCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Replay a gesture script headlessly and print the camera pose per frame",
		Long: `Replay feeds a YAML gesture script through an orbit controller built from the
configuration, one step per frame at the script's fixed frame rate, and prints
the resulting camera pose for every frame.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.Validate(); err != nil {
				return err
			}
			s, err := script.Load(args[0])
			if err != nil {
				return err
			}

			aspect := 1.0
			if s.Viewport.Height > 0 {
				aspect = float64(s.Viewport.Width) / float64(s.Viewport.Height)
			}
			cam := app.Config.Camera.NewCamera(aspect)

			player := script.NewPlayer(
				script.WithLogger(app.Logger),
				script.WithControllerOptions(app.Config.ControllerOptions()...),
			)
			result, err := player.Play(cmd.Context(), s, cam)
			if err != nil {
				return err
			}

			app.Logger.Info().
				Str("script", s.Name).
				Int("frames", len(result.Frames)).
				Int("events", len(result.Events)).
				Msg("replay finished")

			switch format {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
				return enc.Close()
			case "text":
				writeText(cmd.OutOrStdout(), result)
				return nil
			default:
				return fmt.Errorf("unknown format %q (use text or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or yaml")
	return cmd
}

func writeText(w io.Writer, r *script.Result) {
	fmt.Fprintf(w, "%-6s %-6s %-16s %-32s %-8s %-9s %-9s\n", "frame", "moved", "mode", "position", "zoom", "polar", "azimuth")
	for _, f := range r.Frames {
		pos := fmt.Sprintf("(%.3f, %.3f, %.3f)", f.Position[0], f.Position[1], f.Position[2])
		fmt.Fprintf(w, "%-6d %-6t %-16s %-32s %-8.3f %-9.4f %-9.4f\n", f.Index, f.Moved, f.Mode, pos, f.Zoom, f.Polar, f.Azimuth)
	}
}
