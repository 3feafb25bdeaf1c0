package commands

import (
	"github.com/Carmen-Shannon/oxy-shadows/engine/logger"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a scene and render its shadow maps until stopped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scene, err := loadScene(cmd)
			if err != nil {
				return err
			}
			if err := setupLogger(cmd, scene); err != nil {
				return err
			}

			headless, _ := cmd.Flags().GetBool("headless")
			headless = headless || scene.Engine.Headless
			if cmd.Flags().Changed("frames") {
				scene.Engine.MaxFrames, _ = cmd.Flags().GetInt("frames")
			}

			e, err := c.factory(scene, headless)
			if err != nil {
				return zerr.Wrap(err, "create engine")
			}
			defer e.Shutdown()

			n, err := scene.Populate(e.Registry(), e.Renderer(), e.Renderer())
			if err != nil {
				return err
			}
			logger.Logger().Info("scene loaded", "entities", n, "lights", len(e.Registry().Lights()), "headless", headless)

			return e.Run(cmd.Context())
		},
	}

	cmd.Flags().Int("frames", 0, "Stop after this many frames (0 runs until interrupted); overrides the scene file")
	cmd.Flags().Bool("headless", false, "Run without a window")
	return cmd
}
