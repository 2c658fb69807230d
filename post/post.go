package post

import (
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mastercactapus/milopost/gcode"
	"github.com/pkg/errors"
)

const (
	codeRapid  = 0
	codeLinear = 1
	codeArcCW  = 2
	codeArcCCW = 3

	codeAbsolute = 90

	codePark            = 27
	codeHome            = 28
	codeProbeToolLength = 37
	codeProbeWorkpiece  = 6000

	mcodeSpindleCW  = 3
	mcodeSpindleCCW = 4
	mcodeSpindleOff = 5
	mcodePrompt     = 291
)

// GCodeGroups are the only G-codes the firmware is known to handle. Codes
// within a group cancel each other.
var GCodeGroups = [][]float64{
	{0, 1, 2, 3},       // motion
	{17, 18, 19},       // plane
	{90, 91, 93, 94},   // positioning and feed
	{27, 28, 37, 6000}, // park, home, probe tool length, probe workpiece
	{20, 21},           // units
	workOffsetCodes[:], // work coordinate systems
}

var workOffsetCodes = [...]float64{54, 55, 56, 57, 58, 59, 59.1, 59.2, 59.3}

const (
	safetyTitle  = "Safety First!"
	safetyPrompt = "Make sure the machine and work-piece are secure, the spindle is in a safe spot and proceed with caution. Safety squints are NOT ADEQUATE!"
)

// WorkOffsetCode returns the G-code selecting work offset n (1 = G54).
func WorkOffsetCode(n int) (float64, error) {
	if n < 1 || n > len(workOffsetCodes) {
		return 0, gcode.NewConfigError("work offset " + strconv.Itoa(n) + " has no coordinate system code (use 1-9)")
	}
	return workOffsetCodes[n-1], nil
}

// Post writes one job as a program for the Milo. A Post is single use.
type Post struct {
	w    *gcode.Writer
	job  *Job
	opts Options
	log  *log.Logger

	gCodes *gcode.Modal
	mCmd   *gcode.Variable
	tCmd   *gcode.Variable

	x, y, z *gcode.Variable
	i, j, k *gcode.Variable
	f       *gcode.Variable
	s       *gcode.Variable

	tool      int
	hasTool   bool
	spindleOn bool

	err error
}

// New prepares a Post writing job to w.
func New(w io.Writer, job *Job, opts Options) (*Post, error) {
	gFmt := gcode.Format{Prefix: "G", Decimals: 1, Trim: true}
	gCodes, err := gcode.NewModal(true, gFmt, GCodeGroups...)
	if err != nil {
		return nil, errors.Wrap(err, "build modal groups")
	}

	u := job.Unit
	feedFmt := gcode.Format{Prefix: "F"}
	if u != gcode.Millimeters {
		feedFmt.Decimals = 1
	}
	return &Post{
		w:    gcode.NewWriter(w),
		job:  job,
		opts: opts,
		log:  log.New(io.Discard),

		gCodes: gCodes,
		mCmd:   gcode.NewVariable(gcode.ControlForce, gcode.Format{Prefix: "M", Kind: gcode.Integer}),
		tCmd:   gcode.NewVariable(gcode.ControlForce, gcode.Format{Prefix: "T", Kind: gcode.Integer}),

		x: gcode.NewVariable(gcode.ControlOnChange, gcode.AxisFormat("X", u)),
		y: gcode.NewVariable(gcode.ControlOnChange, gcode.AxisFormat("Y", u)),
		z: gcode.NewVariable(gcode.ControlOnChange, gcode.AxisFormat("Z", u)),
		i: gcode.NewVariable(gcode.ControlNonZero, gcode.AxisFormat("I", u)),
		j: gcode.NewVariable(gcode.ControlNonZero, gcode.AxisFormat("J", u)),
		k: gcode.NewVariable(gcode.ControlNonZero, gcode.AxisFormat("K", u)),
		f: gcode.NewVariable(gcode.ControlOnChange, feedFmt),
		s: gcode.NewVariable(gcode.ControlForce, gcode.Format{Prefix: "S", Kind: gcode.Integer}),
	}, nil
}

// Run writes job to w using a new Post.
func Run(w io.Writer, job *Job, opts Options, l *log.Logger) error {
	p, err := New(w, job, opts)
	if err != nil {
		return err
	}
	if l != nil {
		p.SetLogger(l)
	}
	return p.Run()
}

// SetLogger sets the logger used for progress messages.
func (p *Post) SetLogger(l *log.Logger) { p.log = l }

// Lines returns the number of lines written so far.
func (p *Post) Lines() int { return p.w.Lines() }

// Run writes the whole program. On error the output is incomplete and
// must be discarded.
func (p *Post) Run() error {
	p.header()
	for i := range p.job.Sections {
		if p.err != nil {
			break
		}
		p.section(i, &p.job.Sections[i])
	}
	p.footer()

	if p.err != nil {
		return p.err
	}
	if err := p.w.Err(); err != nil {
		return errors.Wrap(err, "write program")
	}
	p.log.Info("program written", "name", p.job.Name, "sections", len(p.job.Sections), "lines", p.w.Lines())
	return nil
}

func (p *Post) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// gcode requests code from the modal registry. Lifecycle codes pass force
// since they are actions, not modes.
func (p *Post) gcode(code float64, force bool) string {
	if p.err != nil {
		return ""
	}
	s, err := p.gCodes.Code(code, force)
	if err != nil {
		p.fail(err)
		return ""
	}
	return s
}

func (p *Post) block(words ...string) {
	if p.err != nil {
		return
	}
	p.w.WriteBlock(words...)
}

func (p *Post) comment(text string) {
	if p.err != nil {
		return
	}
	p.w.WriteComment(text)
}

func (p *Post) line(s string) {
	if p.err != nil {
		return
	}
	p.w.WriteLine(s)
}

func (p *Post) prompt(title, text string, mode int) {
	p.block(
		p.mCmd.Emit(mcodePrompt),
		`P"`+gcode.SafeText(text)+`"`,
		`R"`+gcode.SafeText(title)+`"`,
		"S"+strconv.Itoa(mode),
	)
}

func (p *Post) header() {
	job := p.job
	if job.Name != "" {
		p.comment(job.Name)
	}
	if job.Comment != "" {
		p.comment(job.Comment)
	}

	ts := p.opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	p.comment("Program exported at " + ts.Format("2006-01-02"))
	p.line("")

	if p.opts.OutputVersion {
		if p.opts.Version != "" {
			p.comment("Post-processor version: " + p.opts.Version)
		}
		if p.opts.Modified != "" {
			p.comment("Post-processor last modified: " + p.opts.Modified)
		}
		p.line("")
	}

	if p.opts.OutputMachine {
		m := job.Machine
		p.comment("Machine Details")
		p.comment(" Vendor: " + m.Vendor)
		p.comment(" Model: " + m.Model)
		p.comment(" Description: " + m.Description)
		p.comment(" Width: " + dimension(m.Width) + " Depth: " + dimension(m.Depth) + " Height: " + dimension(m.Height))
		p.line("")
	}

	if p.opts.OutputTools && job.Tools != nil && job.Tools.NumTools() > 0 {
		axis := gcode.AxisFormat("", job.Unit)
		p.comment("Tool Details")
		for i := 0; i < job.Tools.NumTools(); i++ {
			t := job.Tools.Tool(i)
			p.comment(p.tCmd.Format().Format(float64(t.Number)) +
				" D=" + axis.Format(t.Diameter) +
				" CR=" + axis.Format(t.CornerRadius) +
				" - " + t.Type)
		}
	}

	// Work offset 0 is machine coordinates, which almost always means no
	// work zero was set.
	if len(job.Sections) > 0 && job.Sections[0].WorkOffset == 0 {
		p.fail(gcode.NewConfigError("non-zero work offset required, machine coordinates are not allowed"))
		return
	}

	p.prompt(safetyTitle, safetyPrompt, 2)

	p.block(p.gcode(codeAbsolute, false))
	p.block(p.gcode(job.Unit.Code(), false))

	if p.opts.HomeBeforeStart {
		p.log.Debug("home before start")
		p.block(p.gcode(codeHome, true))
	}
	if p.opts.ProbeWorkpieceBeforeStart {
		p.log.Debug("probe workpiece before start")
		p.block(p.gcode(codeProbeWorkpiece, true))
	}
}

func dimension(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (p *Post) section(n int, s *Section) {
	p.log.Debug("section", "index", n, "name", s.Name, "tool", s.Tool, "offset", s.WorkOffset)

	p.line("")
	if s.Name != "" {
		p.comment(s.Name)
	}
	if s.Comment != "" {
		p.comment(s.Comment)
	}

	home, probe := s.homeBeforeOp(p.opts), s.probeBeforeOp(p.opts)
	if home || probe {
		// never home or probe with the cutter turning
		p.stopSpindle()
	}
	if home {
		p.block(p.gcode(codeHome, true))
	}
	if probe {
		p.block(p.gcode(codeProbeWorkpiece, true))
	}

	if !p.hasTool || p.tool != s.Tool {
		p.toolChange(s.Tool)
	}

	wcs, err := WorkOffsetCode(s.WorkOffset)
	if err != nil {
		p.fail(errors.Wrapf(err, "section %d (%s)", n, s.Name))
		return
	}
	p.block(p.gcode(wcs, false))

	p.spindle(s)

	// the machine may have moved during homing, probing or a tool change
	if g, ok := p.gCodes.Group(codeRapid); ok {
		p.gCodes.ResetGroup(g)
	}
	p.x.Reset()
	p.y.Reset()
	p.z.Reset()
	p.f.Reset()

	for i := range s.Records {
		if p.err != nil {
			break
		}
		p.record(&s.Records[i])
	}
	if p.err != nil {
		p.err = errors.Wrapf(p.err, "section %d (%s)", n, s.Name)
	}
}

func (p *Post) toolChange(tool int) {
	p.log.Debug("tool change", "tool", tool)
	p.stopSpindle()
	p.block(p.tCmd.Emit(float64(tool)))
	p.block(p.gcode(codeProbeToolLength, true))

	p.tool = tool
	p.hasTool = true
}

func (p *Post) stopSpindle() {
	if !p.spindleOn {
		return
	}
	p.block(p.mCmd.Emit(mcodeSpindleOff))
	p.spindleOn = false
}

func (p *Post) spindle(s *Section) {
	if s.SpindleSpeed <= 0 {
		p.stopSpindle()
		return
	}

	code := mcodeSpindleCW
	if s.SpindleCCW {
		code = mcodeSpindleCCW
	}
	p.block(p.mCmd.Emit(float64(code)), p.s.Emit(s.SpindleSpeed))
	p.spindleOn = true
}

func (p *Post) record(r *Record) {
	switch r.Kind {
	case Comment:
		p.comment(r.Text)
	case Rapid:
		p.move(codeRapid, r, false)
	case Linear:
		p.move(codeLinear, r, true)
	case ArcCW, ArcCCW:
		p.arc(r)
	default:
		p.fail(gcode.NewConfigError("unknown record kind " + strconv.Itoa(int(r.Kind))))
	}
}

func (p *Post) move(code float64, r *Record, feed bool) {
	x := p.x.Emit(r.Target.X)
	y := p.y.Emit(r.Target.Y)
	z := p.z.Emit(r.Target.Z)
	var f string
	if feed {
		f = p.f.Emit(r.Feed)
	}
	if x == "" && y == "" && z == "" {
		p.block(f)
		return
	}
	p.block(p.gcode(code, false), x, y, z, f)
}

func (p *Post) arc(r *Record) {
	plane, ok := r.Plane.Code()
	if !ok {
		p.fail(gcode.NewConfigError("arcs are only supported in the XY, ZX and YZ planes"))
		return
	}
	code := float64(codeArcCW)
	if r.Kind == ArcCCW {
		code = codeArcCCW
	}

	var i, j, k string
	switch r.Plane {
	case PlaneXY:
		i, j = p.i.Emit(r.Center.X), p.j.Emit(r.Center.Y)
	case PlaneZX:
		i, k = p.i.Emit(r.Center.X), p.k.Emit(r.Center.Z)
	case PlaneYZ:
		j, k = p.j.Emit(r.Center.Y), p.k.Emit(r.Center.Z)
	}

	p.block(
		p.gcode(plane, false),
		p.gcode(code, false),
		p.x.Emit(r.Target.X),
		p.y.Emit(r.Target.Y),
		p.z.Emit(r.Target.Z),
		i, j, k,
		p.f.Emit(r.Feed),
	)
}

func (p *Post) footer() {
	if p.err != nil {
		return
	}
	p.line("")
	p.block(p.mCmd.Emit(mcodeSpindleOff))
	p.spindleOn = false
	if p.opts.ParkAtEnd {
		p.block(p.gcode(codePark, true))
	}
}
