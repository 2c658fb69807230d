package post

import "time"

// Options are the user facing switches of the post.
type Options struct {
	OutputMachine bool
	OutputTools   bool
	OutputVersion bool

	HomeBeforeStart           bool
	ProbeWorkpieceBeforeStart bool
	HomeBeforeOp              bool
	ProbeWorkpieceBeforeOp    bool

	// ParkAtEnd issues G27 after the last section.
	ParkAtEnd bool

	// Version and Modified are printed when OutputVersion is set and
	// they are non-empty.
	Version  string
	Modified string

	// Timestamp is the export time printed in the header. Zero means now.
	Timestamp time.Time
}

// DefaultOptions matches the shipped defaults of the post: every header
// block, homing and probing enabled.
func DefaultOptions() Options {
	return Options{
		OutputMachine:             true,
		OutputTools:               true,
		OutputVersion:             true,
		HomeBeforeStart:           true,
		ProbeWorkpieceBeforeStart: true,
		HomeBeforeOp:              true,
		ProbeWorkpieceBeforeOp:    true,
		ParkAtEnd:                 true,
	}
}

func (s Section) homeBeforeOp(opts Options) bool {
	if s.HomeBeforeOp != nil {
		return *s.HomeBeforeOp
	}
	return opts.HomeBeforeOp
}

func (s Section) probeBeforeOp(opts Options) bool {
	if s.ProbeWorkpieceBeforeOp != nil {
		return *s.ProbeWorkpieceBeforeOp
	}
	return opts.ProbeWorkpieceBeforeOp
}
