package main

import (
	"github.com/spf13/cobra"

	configx "github.com/tanpawarit/flight-delay-crew/pkg/config"
	logx "github.com/tanpawarit/flight-delay-crew/pkg/logger"
)

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "flightcrew",
		Short:         "Flight delay response crew",
		Long:          "flightcrew fans flight delay events out to a crew of specialist agents\nand answers single traveler questions through the intent router.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configx.SetEnvFile(envFile)
			logCfg, err := configx.New[logx.Config]("LOG")
			if err != nil {
				return err
			}
			logx.Init(*logCfg)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file (default ./.env when present)")

	cmd.AddCommand(
		newEventCmd(),
		newAskCmd(),
		newChatCmd(),
		newReserveCmd(),
		newNotifyCmd(),
	)

	return cmd
}
