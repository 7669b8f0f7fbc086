package gc

import "github.com/pkg/errors"

// Config holds the collector's construction-time tunables.
type Config struct {
	// FromSpaceSize is the size in bytes of each semi-space.
	FromSpaceSize uint
	// ToSpaceSize must equal FromSpaceSize: the two semi-spaces are
	// always equal in size.
	ToSpaceSize uint
}

func (c Config) validate() error {
	if c.FromSpaceSize == 0 || c.ToSpaceSize == 0 {
		return errors.New("gc: semi-space size must be non-zero")
	}
	if c.FromSpaceSize != c.ToSpaceSize {
		return errors.Errorf("gc: semi-space sizes must be equal, got from=%d to=%d", c.FromSpaceSize, c.ToSpaceSize)
	}
	return nil
}
