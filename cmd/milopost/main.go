package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var (
	logger  = log.NewWithOptions(os.Stderr, log.Options{Prefix: "milopost"})
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "milopost",
	Short: "Post-process CAM jobs into G-code for the Milo mill",
	Long: `milopost turns a CAM job description into a RepRapFirmware program
for the Millennium Machines Milo, and checks existing programs.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output.")
	rootCmd.AddCommand(postCmd, checkCmd, configCmd)
}

func main() {
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		os.Exit(1)
	}
}
