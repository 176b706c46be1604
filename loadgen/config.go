package loadgen

import (
	"time"

	flag "github.com/spf13/pflag"

	"github.com/iotaledger/ringmix/ierrors"
)

// ErrInvalidConfig is returned if a Config can not drive a run.
var ErrInvalidConfig = ierrors.New("invalid load generator config")

// Config holds the parameters of a load generator run.
type Config struct {
	// Streams is the number of producer streams that are mixed.
	Streams int `koanf:"streams"`
	// Capacity is the number of samples every stream buffers.
	Capacity int `koanf:"capacity"`
	// FrameSize is the number of samples produced and mixed per tick.
	FrameSize int `koanf:"framesize"`
	// ProduceInterval is the time between two frames of a producer.
	ProduceInterval time.Duration `koanf:"produceinterval"`
	// MixInterval is the time between two mixed output frames.
	MixInterval time.Duration `koanf:"mixinterval"`
	// Duration limits the run; 0 runs until the context is canceled.
	Duration time.Duration `koanf:"duration"`
	// Workers is the number of goroutines writing the produced frames.
	Workers int `koanf:"workers"`
	// RelaxedWrite lets the stream buffers copy outside of their lock.
	RelaxedWrite bool `koanf:"relaxedwrite"`
}

// DefaultConfig returns 10ms frames of 48kHz audio for 4 streams with 100ms of buffering.
func DefaultConfig() Config {
	return Config{
		Streams:         4,
		Capacity:        4800,
		FrameSize:       480,
		ProduceInterval: 10 * time.Millisecond,
		MixInterval:     10 * time.Millisecond,
		Duration:        5 * time.Second,
		Workers:         2,
	}
}

// Validate checks that the config describes a runnable load.
func (c Config) Validate() error {
	switch {
	case c.Streams <= 0:
		return ierrors.Wrapf(ErrInvalidConfig, "streams must be positive, got %d", c.Streams)
	case c.Capacity <= 0:
		return ierrors.Wrapf(ErrInvalidConfig, "capacity must be positive, got %d", c.Capacity)
	case c.FrameSize <= 0:
		return ierrors.Wrapf(ErrInvalidConfig, "frame size must be positive, got %d", c.FrameSize)
	case c.ProduceInterval <= 0 || c.MixInterval <= 0:
		return ierrors.Wrapf(ErrInvalidConfig, "intervals must be positive, got %s and %s", c.ProduceInterval, c.MixInterval)
	case c.Duration < 0:
		return ierrors.Wrapf(ErrInvalidConfig, "duration must not be negative, got %s", c.Duration)
	case c.Workers <= 0:
		return ierrors.Wrapf(ErrInvalidConfig, "workers must be positive, got %d", c.Workers)
	default:
		return nil
	}
}

// RegisterFlags defines a flag for every parameter with the values of c as defaults.
func (c Config) RegisterFlags(flagSet *flag.FlagSet) {
	flagSet.Int("streams", c.Streams, "the number of producer streams that are mixed")
	flagSet.Int("capacity", c.Capacity, "the number of samples every stream buffers")
	flagSet.Int("frameSize", c.FrameSize, "the number of samples produced and mixed per tick")
	flagSet.Duration("produceInterval", c.ProduceInterval, "the time between two frames of a producer")
	flagSet.Duration("mixInterval", c.MixInterval, "the time between two mixed output frames")
	flagSet.Duration("duration", c.Duration, "the duration of the run (0 runs until interrupted)")
	flagSet.Int("workers", c.Workers, "the number of goroutines writing the produced frames")
	flagSet.Bool("relaxedWrite", c.RelaxedWrite, "copy into the stream buffers outside of their lock")
}
