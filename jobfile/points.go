package jobfile

import (
	"io"
	"os"

	"github.com/mastercactapus/milopost/coord"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadPoints reads a list of probed [x, y, z] points from path.
func LoadPoints(path string) ([]coord.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open points")
	}
	defer f.Close()

	p, err := DecodePoints(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return p, nil
}

// DecodePoints reads a YAML sequence of [x, y, z] triples.
func DecodePoints(r io.Reader) ([]coord.Point, error) {
	var raw [][]float64
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode points")
	}

	res := make([]coord.Point, 0, len(raw))
	for i, v := range raw {
		p, err := point("point", v)
		if err != nil {
			return nil, errors.Wrapf(err, "point %d", i)
		}
		res = append(res, p)
	}
	return res, nil
}
