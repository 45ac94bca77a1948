package syncer

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/nliven/airsync/internal/airport"
	"github.com/nliven/airsync/internal/bus"
	"github.com/nliven/airsync/internal/logger"
	"github.com/nliven/airsync/internal/metrics"
	"github.com/nliven/airsync/internal/repository"
)

// ErrSyncInFlight is returned by Execute when a previous sync has not
// published its completion event yet.
var ErrSyncInFlight = errors.New("sync already in progress")

// Publisher is the bus surface the syncer needs.
type Publisher interface {
	Publish(bus.Event)
}

// Syncer runs the fetch → decode → replace → notify pipeline.
//
// One Execute call triggers at most one pipeline run; the run happens
// on its own goroutine and publishes exactly one completion event,
// success or failure. A single-flight guard rejects overlapping runs
// so two pipelines never race on the store.
type Syncer struct {
	fetcher Fetcher
	store   repository.AirportStore
	pub     Publisher
	metrics *metrics.Metrics

	baseCtx  context.Context
	inFlight atomic.Bool
}

// New wires a syncer. metrics may be nil (no-op).
func New(ctx context.Context, fetcher Fetcher, store repository.AirportStore, pub Publisher, m *metrics.Metrics) *Syncer {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Syncer{
		fetcher: fetcher,
		store:   store,
		pub:     pub,
		metrics: m,
		baseCtx: ctx,
	}
}

// Execute triggers one asynchronous sync attempt and returns
// immediately. It returns ErrSyncInFlight when another attempt is
// still outstanding; in that case nothing is fetched and no event is
// published for this call. A started attempt always ends in exactly
// one published completion event.
func (s *Syncer) Execute() error {
	if !s.inFlight.CompareAndSwap(false, true) {
		logger.WithComponent("syncer").Debug("execute rejected: sync already in progress")
		return ErrSyncInFlight
	}
	go s.run()
	return nil
}

// InFlight reports whether a sync attempt is currently outstanding.
func (s *Syncer) InFlight() bool {
	return s.inFlight.Load()
}

func (s *Syncer) run() {
	start := time.Now()
	event := s.sync(s.baseCtx)

	s.metrics.ObserveSync(event.Success, event.Count, time.Since(start).Seconds())
	s.pub.Publish(event)
	// The guard clears only after the completion event is on its way;
	// a rejected Execute can never mean a lost notification.
	s.inFlight.Store(false)
}

// sync performs one full pipeline run and reduces its outcome to the
// single completion event. No error escapes past this boundary.
func (s *Syncer) sync(ctx context.Context) bus.Event {
	res, err := s.fetcher.Fetch(ctx)
	if err != nil {
		logger.WithComponent("syncer").Errorf("transport failure: %v", err)
		return bus.Event{Success: false, StatusCode: bus.StatusTransportError, Err: err.Error()}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		logger.WithComponent("syncer").Errorf("unexpected status from source: %d", res.StatusCode)
		return bus.Event{Success: false, StatusCode: res.StatusCode, Err: "unexpected status"}
	}

	// Decode the whole payload before touching the store: a malformed
	// element anywhere must leave the previous collection intact.
	airports, err := airport.Decode(res.Body)
	if err != nil {
		logger.WithComponent("syncer").Errorf("decode failure: %v", err)
		return bus.Event{Success: false, StatusCode: res.StatusCode, Err: err.Error()}
	}

	if err := s.store.ReplaceAll(ctx, airports); err != nil {
		logger.WithComponent("syncer").Errorf("store failure: %v", err)
		return bus.Event{Success: false, StatusCode: res.StatusCode, Err: err.Error()}
	}

	// The decoded slice is not retained: readers go through the store.
	logger.WithComponent("syncer").Infof("sync complete: %d airports stored (status %d)", len(airports), res.StatusCode)
	return bus.Event{Success: true, StatusCode: res.StatusCode, Count: len(airports)}
}
