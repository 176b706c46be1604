// Package loadgen drives a mixer with synthetic producer streams and a periodic consumer, the way an audio engine
// feeds its mixing stage.
package loadgen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iotaledger/ringmix/ierrors"
	"github.com/iotaledger/ringmix/mixer"
	"github.com/iotaledger/ringmix/ringbuffer"
	"github.com/iotaledger/ringmix/workerpool"
)

// rampPeriod is the number of samples after which a producer's ramp starts over.
const rampPeriod = 100

// Report summarizes a finished run.
type Report struct {
	// Frames is the number of output frames that contained samples of at least one stream.
	Frames int
	// Samples is the number of mixed output samples.
	Samples int
	// Peak is the largest absolute value of all mixed samples.
	Peak float32
	// Streams holds the buffer counters per stream.
	Streams map[string]ringbuffer.Stats
}

// StreamID returns the id of the stream with the given index.
func StreamID(index int) string {
	return fmt.Sprintf("stream-%d", index)
}

// Frame fills frame with the samples of the given stream that follow the first offset samples. Every stream
// produces a ramp from 0 to its gain (index+1) that repeats every rampPeriod samples.
func Frame(frame []float32, index int, offset int) {
	gain := float32(index + 1)
	for i := range frame {
		frame[i] = gain * float32((offset+i)%rampPeriod) / rampPeriod
	}
}

// Run produces and mixes samples until the configured duration elapsed or ctx is canceled.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	pool, err := workerpool.New(workerpool.WithWorkerCount(cfg.Workers), workerpool.WithLogger(logger))
	if err != nil {
		return nil, ierrors.Wrap(err, "creating producer pool")
	}
	defer pool.Shutdown()

	m := mixer.New[float32](cfg.Capacity,
		mixer.WithLogger[float32](logger.Named("mixer")),
		mixer.WithRelaxedWrite[float32](cfg.RelaxedWrite),
	)
	streams := make([]*ringbuffer.RingBuffer[float32], cfg.Streams)
	for i := range streams {
		streams[i] = m.Stream(StreamID(i))
	}

	logger.Info("starting load",
		zap.Int("streams", cfg.Streams),
		zap.Int("capacity", cfg.Capacity),
		zap.Int("frameSize", cfg.FrameSize),
		zap.Duration("produceInterval", cfg.ProduceInterval),
		zap.Duration("mixInterval", cfg.MixInterval),
		zap.Bool("relaxedWrite", cfg.RelaxedWrite),
	)

	report := &Report{}

	var wg sync.WaitGroup
	var produceErr error
	wg.Add(2)
	go func() {
		defer wg.Done()

		produceErr = produce(ctx, cfg, streams, pool)
	}()
	go func() {
		defer wg.Done()

		consume(ctx, cfg, m, report)
	}()
	wg.Wait()

	if produceErr != nil {
		return nil, produceErr
	}

	report.Streams = m.Stats()

	logger.Info("load finished", zap.Int("frames", report.Frames), zap.Int("samples", report.Samples), zap.Float32("peak", report.Peak))

	return report, nil
}

// produce writes one frame per stream and tick. The frames of a tick are written by the pool; waiting for them
// before the next tick keeps every stream at a single writer.
func produce(ctx context.Context, cfg Config, streams []*ringbuffer.RingBuffer[float32], pool *workerpool.WorkerPool) error {
	frames := make([][]float32, len(streams))
	for i := range frames {
		frames[i] = make([]float32, cfg.FrameSize)
	}

	ticker := time.NewTicker(cfg.ProduceInterval)
	defer ticker.Stop()

	for offset := 0; ; offset += cfg.FrameSize {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		for i := range frames {
			index := i
			if err := pool.Submit(func() {
				Frame(frames[index], index, offset)
				streams[index].Write(frames[index])
			}); err != nil {
				pool.Wait()

				return ierrors.Wrapf(err, "submitting frame of stream %d", index)
			}
		}
		pool.Wait()
	}
}

func consume(ctx context.Context, cfg Config, m *mixer.Mixer[float32], report *Report) {
	output := make([]float32, cfg.FrameSize)

	ticker := time.NewTicker(cfg.MixInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		mixed := m.Mix(output)
		if mixed == 0 {
			continue
		}

		report.Frames++
		report.Samples += mixed
		for _, sample := range output[:mixed] {
			if sample < 0 {
				sample = -sample
			}
			if sample > report.Peak {
				report.Peak = sample
			}
		}
	}
}
