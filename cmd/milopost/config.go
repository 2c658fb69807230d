package main

import (
	"github.com/mastercactapus/milopost/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default config file",
	Long: `Print the default option switches as TOML. Each key can also be set with
an environment variable, for example MILOPOST_LIFECYCLE_PARK_AT_END=false.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.DefaultTOML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
