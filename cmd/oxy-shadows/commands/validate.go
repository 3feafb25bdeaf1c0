package commands

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadows/engine/config"
	"github.com/spf13/cobra"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a scene file without creating a device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scene, err := loadScene(cmd)
			if err != nil {
				return err
			}

			entities, lights := 0, 0
			var count func(cfgs []config.EntityConfig)
			count = func(cfgs []config.EntityConfig) {
				for i := range cfgs {
					entities++
					if cfgs[i].Light != nil {
						lights++
					}
					count(cfgs[i].Children)
				}
			}
			count(scene.Entities)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "scene ok: %d entities, %d lights\n", entities, lights)
			return nil
		},
	}
}
