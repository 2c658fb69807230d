package main

import (
	"os"

	"github.com/mastercactapus/milopost/gcode"
	"github.com/mastercactapus/milopost/vm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE.gcode",
	Short: "Validate a program and report the area it covers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fd, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open program")
		}
		defer fd.Close()

		rep, err := vm.Check(gcode.NewParser(fd))
		if err != nil {
			return errors.Wrap(err, args[0])
		}

		logger.Info("program ok", "blocks", rep.Blocks, "moves", rep.Moves, "tools", rep.Tools)
		if rep.Bounds.Valid() {
			lo, hi := rep.Bounds.Min, rep.Bounds.Max
			logger.Info("bounds (mm)",
				"x", []float64{lo.X, hi.X},
				"y", []float64{lo.Y, hi.Y},
				"z", []float64{lo.Z, hi.Z},
			)
		} else {
			logger.Warn("bounds unknown, not every axis was positioned")
		}
		return nil
	},
}
