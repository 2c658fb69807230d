package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/mastercactapus/milopost/config"
	"github.com/mastercactapus/milopost/jobfile"
	"github.com/mastercactapus/milopost/meshlevel"
	"github.com/mastercactapus/milopost/post"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var postFlags struct {
	output      string
	config      string
	mesh        string
	granularity float64
}

var postCmd = &cobra.Command{
	Use:   "post JOB.yaml",
	Short: "Write the G-code program for a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPost(args[0])
	},
}

func init() {
	f := postCmd.Flags()
	f.StringVarP(&postFlags.output, "output", "o", "", "Output file (default: job name with .gcode extension).")
	f.StringVar(&postFlags.config, "config", "", "Config file with option switches.")
	f.StringVar(&postFlags.mesh, "mesh", "", "YAML list of probed [x, y, z] points to level the job with.")
	f.Float64Var(&postFlags.granularity, "granularity", 5, "Longest feed move, in job units, before it is split for leveling.")
}

func outputPath(jobPath string) string {
	if postFlags.output != "" {
		return postFlags.output
	}
	return strings.TrimSuffix(jobPath, filepath.Ext(jobPath)) + ".gcode"
}

func levelJob(job *post.Job) error {
	points, err := jobfile.LoadPoints(postFlags.mesh)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return errors.New("mesh: no points")
	}

	// heights are relative to the first probed point
	mesh, err := meshlevel.NewMesh(meshlevel.OffsetFrom(points[0].Z, points))
	if err != nil {
		return errors.Wrap(err, "mesh")
	}
	logger.Debug("leveling job", "points", len(points), "granularity", postFlags.granularity)

	return meshlevel.New(meshlevel.Config{
		ZOffsetter:  mesh,
		Granularity: postFlags.granularity,
	}).LevelJob(job)
}

func runPost(jobPath string) error {
	cfg, used, err := config.Load(postFlags.config)
	if err != nil {
		return err
	}
	if used != "" {
		logger.Debug("loaded config", "file", used)
	}
	opts := cfg.Options()
	opts.Version = Version

	job, err := jobfile.Load(jobPath)
	if err != nil {
		return err
	}

	if postFlags.mesh != "" {
		err = levelJob(job)
		if err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	err = post.Run(&buf, job, opts, logger)
	if err != nil {
		logger.Error("post failed, no output written", "job", jobPath, "err", err)
		return err
	}

	out := outputPath(jobPath)
	err = os.WriteFile(out, buf.Bytes(), 0o644)
	if err != nil {
		return errors.Wrap(err, "write output")
	}
	logger.Info("wrote program", "file", out, "sections", len(job.Sections))

	return nil
}
