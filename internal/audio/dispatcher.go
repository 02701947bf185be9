package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/verte-zerg/keypress/internal/session"
)

const (
	// DefaultMaxConcurrent bounds simultaneous playbacks.
	DefaultMaxConcurrent = 8
	queueSize            = 64
)

// Dispatcher runs session intents without ever blocking the caller. Sounds are
// started in emission order and play concurrently; when too many are already
// playing the new one is dropped.
type Dispatcher struct {
	player Player
	logger *zap.Logger
	sem    *semaphore.Weighted
	queue  chan session.Intent

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts the dispatch loop.
func NewDispatcher(player Player, logger *zap.Logger, maxConcurrent int) *Dispatcher {
	if player == nil {
		player = Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		player: player,
		logger: logger,
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
		queue:  make(chan session.Intent, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	d.wg.Add(1)
	go d.loop()
	return d
}

// Dispatch queues intents. Log intents are written immediately.
func (d *Dispatcher) Dispatch(intents []session.Intent) {
	for _, intent := range intents {
		if l, ok := intent.(session.Log); ok {
			d.logger.Debug(l.Message)
			continue
		}
		d.enqueue(intent)
	}
}

func (d *Dispatcher) enqueue(intent session.Intent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- intent:
	default:
		d.logger.Warn("audio queue full, dropping", zap.String("intent", fmt.Sprint(intent)))
	}
}

// Close stops playback and waits for running players to exit.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()
	for intent := range d.queue {
		if !d.sem.TryAcquire(1) {
			d.logger.Debug("audio busy, dropping", zap.String("intent", fmt.Sprint(intent)))
			continue
		}
		d.wg.Add(1)
		go func(intent session.Intent) {
			defer d.wg.Done()
			defer d.sem.Release(1)
			if err := d.play(d.ctx, intent); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Warn("audio playback failed", zap.String("intent", fmt.Sprint(intent)), zap.Error(err))
			}
		}(intent)
	}
}

func (d *Dispatcher) play(ctx context.Context, intent session.Intent) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	switch in := intent.(type) {
	case session.PlayClick:
		return d.player.PlayTone(ctx, ToneClick)
	case session.PlayCorrect:
		return d.player.PlayTone(ctx, ToneCorrect)
	case session.PlayWrong:
		return d.player.PlayTone(ctx, ToneWrong)
	case session.PlayPronunciation:
		return d.player.PlayWord(ctx, in.Word, in.Variant)
	default:
		return fmt.Errorf("unsupported intent %T", intent)
	}
}
