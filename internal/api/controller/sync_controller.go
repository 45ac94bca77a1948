package controller

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/nliven/airsync/internal/bus"
	"github.com/nliven/airsync/internal/logger"
	"github.com/nliven/airsync/internal/syncer"
)

// SyncTrigger is the syncer surface the controller needs.
type SyncTrigger interface {
	Execute() error
	InFlight() bool
}

// SyncController triggers syncs and reports the last completion event.
// It is itself a bus subscriber, standing in for the UI layer of the
// original application.
type SyncController struct {
	trigger SyncTrigger

	mu   sync.RWMutex
	last *bus.Event
}

// NewSyncController wires the controller and subscribes it to sync
// completion events.
func NewSyncController(trigger SyncTrigger, b *bus.Bus) *SyncController {
	sc := &SyncController{trigger: trigger}
	b.Subscribe(sc.onCompleted)
	return sc
}

func (sc *SyncController) onCompleted(e bus.Event) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	// dispatch is asynchronous: an older sync's event can arrive after
	// a newer one and must not win
	if sc.last != nil && e.Seq < sc.last.Seq {
		return
	}
	sc.last = &e
}

// TriggerSync handles POST /sync - starts one asynchronous sync.
func (sc *SyncController) TriggerSync(c *gin.Context) {
	logger.WithComponent("sync-controller").Debugf("POST /sync handler called")

	if err := sc.trigger.Execute(); err != nil {
		if errors.Is(err, syncer.ErrSyncInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": "sync already in progress"})
			return
		}
		logger.WithComponent("sync-controller").Errorf("trigger sync: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start sync"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

// LastSync handles GET /sync/last - the most recent completion event.
func (sc *SyncController) LastSync(c *gin.Context) {
	sc.mu.RLock()
	last := sc.last
	sc.mu.RUnlock()

	if last == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sync has completed yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inFlight": sc.trigger.InFlight(),
		"last":     last,
	})
}
