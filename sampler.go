package main

import (
	"context"
	"log"
	"sync"
	"time"
)

// Sampler drives the builder on a fixed interval and publishes each result.
// Cycles run synchronously inside the loop, so a cycle slower than the
// interval defers the next tick instead of overlapping it. A stopped
// sampler is terminal; a reconfigured interval means a new instance.
type Sampler struct {
	builder  *Builder
	state    *SharedState
	interval time.Duration

	// onPublish, when set before Start, is invoked after every publish with
	// the snapshot just published. The server uses it to push to websocket
	// subscribers.
	onPublish func(*Snapshot)

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func newSampler(builder *Builder, state *SharedState, interval time.Duration) *Sampler {
	return &Sampler{
		builder:  builder,
		state:    state,
		interval: interval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sampler) Start() {
	go func() {
		defer close(s.done)
		// Sample once up front so readers have data before the first tick.
		s.cycle()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.cycle()
			case <-s.stopCh:
				return
			}
		}
	}()
}

// Stop transitions the sampler to stopped and waits for any in-flight cycle
// to finish. After Stop returns, no further publishes occur.
func (s *Sampler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.done
}

func (s *Sampler) cycle() {
	// A programming defect in a probe must not kill the loop; the monitor
	// keeps running and tries again next tick.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("sample: recovered from panic: %v", r)
		}
	}()

	snap := s.builder.Build(context.Background())

	// A cycle that was already in flight when Stop was called discards its
	// result rather than publishing after shutdown.
	select {
	case <-s.stopCh:
		return
	default:
	}

	s.state.Publish(snap)
	if s.onPublish != nil {
		s.onPublish(snap)
	}
}
