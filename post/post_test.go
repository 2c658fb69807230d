package post

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mastercactapus/milopost/coord"
	"github.com/mastercactapus/milopost/gcode"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Version = "1.5"
	opts.Modified = "2026-10-01"
	opts.Timestamp = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	return opts
}

func testJob() *Job {
	return &Job{
		Name: "bracket",
		Unit: gcode.Millimeters,
		Machine: Machine{
			Vendor:      "Millennium Machines",
			Model:       "Milo v1.5",
			Description: "Desktop mill",
			Width:       300,
			Depth:       200,
			Height:      150,
		},
		Tools: Tools{{Number: 1, Diameter: 6, Type: "flat end mill"}},
		Sections: []Section{{
			Name:         "Face",
			WorkOffset:   1,
			Tool:         1,
			SpindleSpeed: 12000,
			Records: []Record{
				{Kind: Rapid, Target: coord.Point{X: 0, Y: 0, Z: 5}},
				{Kind: Linear, Target: coord.Point{X: 0, Y: 0, Z: -1}, Feed: 300},
				{Kind: Linear, Target: coord.Point{X: 10, Y: 0, Z: -1}, Feed: 300},
				{Kind: Linear, Target: coord.Point{X: 10, Y: 0, Z: -1}, Feed: 300},
				{Kind: ArcCCW, Target: coord.Point{X: 10, Y: 10, Z: -1}, Center: coord.Point{Y: 5}, Feed: 300},
				{Kind: Comment, Text: "done!"},
				{Kind: Rapid, Target: coord.Point{X: 10, Y: 10, Z: 5}},
			},
		}},
	}
}

func runJob(t *testing.T, job *Job, opts Options) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := Run(&buf, job, opts, nil)
	return buf.String(), err
}

func TestPost_Run(t *testing.T) {
	out, err := runJob(t, testJob(), testOptions())
	require.NoError(t, err)

	assert.Equal(t, `(bracket)
(Program exported at 2026-10-19)

(Post-processor version 1.5)
(Post-processor last modified 2026-10-01)

(Machine Details)
( Vendor Millennium Machines)
( Model Milo v1.5)
( Description Desktop mill)
( Width 300 Depth 200 Height 150)

(Tool Details)
(T1 D=6.000 CR=0.000 - flat end mill)
M291 P"Make sure the machine and work-piece are secure, the spindle is in a safe spot and proceed with caution. Safety squints are NOT ADEQUATE" R"Safety First" S2
G90
G21
G28
G6000

(Face)
G28
G6000
T1
G37
G54
M3 S12000
G0 X0.000 Y0.000 Z5.000
G1 Z-1.000 F300
X10.000
G17 G3 Y10.000 J5.000
(done)
G0 Z5.000

M5
G27
`, out)
}

func TestPost_ZeroWorkOffset(t *testing.T) {
	job := testJob()
	job.Sections[0].WorkOffset = 0

	out, err := runJob(t, job, testOptions())
	require.Error(t, err)

	var cfgErr *gcode.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "non-zero work offset required")

	assert.Contains(t, out, "(Tool Details)")
	assert.NotContains(t, out, "M291")
	assert.NotContains(t, out, "G90")
	assert.NotContains(t, out, "(Face)")
}

func TestPost_UnsupportedWorkOffset(t *testing.T) {
	job := testJob()
	job.Sections = append(job.Sections, Section{Name: "Second", WorkOffset: 12, Tool: 1})

	_, err := runJob(t, job, testOptions())
	require.Error(t, err)
	var cfgErr *gcode.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "section 1 (Second)")
}

func TestPost_Lifecycle(t *testing.T) {
	job := testJob()
	job.Sections = append(job.Sections, job.Sections[0])

	opts := testOptions()
	opts.HomeBeforeStart = false
	opts.ProbeWorkpieceBeforeStart = false
	out, err := runJob(t, job, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "G28\n"))
	assert.Equal(t, 2, strings.Count(out, "G6000\n"))

	// the spindle from the first section stops before homing
	second := strings.LastIndex(out, "(Face)")
	require.Greater(t, second, 0)
	assert.Contains(t, out[second:], "(Face)\nM5\nG28\nG6000\nM3 S12000\n")
	assert.Equal(t, 2, strings.Count(out, "M5\n"))

	opts = testOptions()
	off := false
	job.Sections[1].HomeBeforeOp = &off
	out, err = runJob(t, job, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "G28\n"))
	assert.Equal(t, 3, strings.Count(out, "G6000\n"))

	opts.HomeBeforeOp = false
	opts.ProbeWorkpieceBeforeOp = false
	out, err = runJob(t, job, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "G28\n"))
	assert.Equal(t, 1, strings.Count(out, "G6000\n"))
}

func TestPost_ToolChange(t *testing.T) {
	job := testJob()
	second := job.Sections[0]
	second.Name = "Drill"
	second.Tool = 2
	second.SpindleCCW = true
	second.SpindleSpeed = 8000
	second.WorkOffset = 2
	job.Sections = append(job.Sections, second)

	opts := testOptions()
	opts.HomeBeforeOp = false
	opts.ProbeWorkpieceBeforeOp = false
	out, err := runJob(t, job, opts)
	require.NoError(t, err)

	assert.Contains(t, out, "(Drill)\nM5\nT2\nG37\nG55\nM4 S8000\nG0 X0.000 Y0.000 Z5.000\n")
	// same plane, only the arc motion code is needed again
	assert.Contains(t, out, "\nG3 Y10.000 J5.000\n")
}

func TestPost_SameToolKeepsWorkOffset(t *testing.T) {
	job := testJob()
	job.Sections = append(job.Sections, job.Sections[0])

	opts := testOptions()
	opts.HomeBeforeOp = false
	opts.ProbeWorkpieceBeforeOp = false
	out, err := runJob(t, job, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "T1\n"))
	assert.Equal(t, 1, strings.Count(out, "G54\n"))
	assert.Equal(t, 2, strings.Count(out, "M3 S12000\n"))
	// no homing or probing between the sections, so the spindle keeps running
	assert.Equal(t, 1, strings.Count(out, "M5\n"))
}

func TestPost_Inches(t *testing.T) {
	job := testJob()
	job.Unit = gcode.Inches
	job.Sections[0].Records = []Record{
		{Kind: Linear, Target: coord.Point{X: 1, Y: 2, Z: 0.25}, Feed: 20},
	}
	opts := testOptions()
	opts.OutputMachine = false
	opts.OutputTools = false
	opts.OutputVersion = false

	out, err := runJob(t, job, opts)
	require.NoError(t, err)
	assert.Contains(t, out, "G90\nG20\n")
	assert.Contains(t, out, "G1 X1.0000 Y2.0000 Z0.2500 F20.0\n")
	assert.NotContains(t, out, "(Machine Details)")
	assert.NotContains(t, out, "(Tool Details)")
}

func TestPost_FeedOnlyMove(t *testing.T) {
	job := testJob()
	job.Sections[0].Records = []Record{
		{Kind: Linear, Target: coord.Point{X: 1}, Feed: 100},
		{Kind: Linear, Target: coord.Point{X: 1}, Feed: 100},
		{Kind: Linear, Target: coord.Point{X: 1}, Feed: 200},
	}
	out, err := runJob(t, job, testOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "M3 S12000\nG1 X1.000 Y0.000 Z0.000 F100\nF200\n\nM5\n")
}

func TestPost_ArcPlanes(t *testing.T) {
	job := testJob()
	job.Sections[0].Records = []Record{
		{Kind: Rapid, Target: coord.Point{X: 0, Y: 0, Z: 0}},
		{Kind: ArcCW, Plane: PlaneZX, Target: coord.Point{X: 10, Z: 0}, Center: coord.Point{X: 5, Y: 3, Z: 0}, Feed: 100},
		{Kind: ArcCW, Plane: PlaneYZ, Target: coord.Point{X: 10, Y: 4, Z: 0}, Center: coord.Point{X: 5, Y: 2, Z: 1}, Feed: 100},
	}
	out, err := runJob(t, job, testOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "G18 G2 X10.000 I5.000 F100\n")
	assert.Contains(t, out, "G19 Y4.000 J2.000 K1.000\n")

	job.Sections[0].Records = []Record{{Kind: ArcCW, Plane: Plane(7)}}
	_, err = runJob(t, job, testOptions())
	var cfgErr *gcode.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestPost_NoTools(t *testing.T) {
	job := testJob()
	job.Tools = nil
	out, err := runJob(t, job, testOptions())
	require.NoError(t, err)
	assert.NotContains(t, out, "(Tool Details)")
}

func TestWorkOffsetCode(t *testing.T) {
	code, err := WorkOffsetCode(1)
	assert.NoError(t, err)
	assert.Equal(t, 54.0, code)

	code, err = WorkOffsetCode(9)
	assert.NoError(t, err)
	assert.Equal(t, 59.3, code)

	_, err = WorkOffsetCode(0)
	assert.Error(t, err)
}
