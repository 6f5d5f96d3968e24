package cli

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-orbit/engine/loader"
	"github.com/spf13/cobra"
)

func newBoundsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bounds <model.gltf|model.glb>...",
		Short: "Print the world-space bounds the viewer would frame for each model",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(app.Logger))
			defer l.Close()

			results, err := l.LoadAll(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, path := range args {
				b := results[i]
				c := b.Center()
				fmt.Fprintf(out, "%s\n", path)
				fmt.Fprintf(out, "  Min:    (%.6f, %.6f, %.6f)\n", b.Min[0], b.Min[1], b.Min[2])
				fmt.Fprintf(out, "  Max:    (%.6f, %.6f, %.6f)\n", b.Max[0], b.Max[1], b.Max[2])
				fmt.Fprintf(out, "  Center: (%.6f, %.6f, %.6f)\n", c[0], c[1], c[2])
				fmt.Fprintf(out, "  Radius: %.6f\n", b.Radius())
			}
			return nil
		},
	}
}
