package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledtx",
		Short:         "Stream LED animations over MQTT",
		Long:          `ledtx renders animations for an LED strip and publishes each frame to an ledrx receiver over MQTT, crossfading between animations with eased transitions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "", "Log level, overriding the config file")

	root.AddCommand(newServeCmd(), newPreviewCmd())
	return root
}
