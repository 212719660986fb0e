package eventconsumers

import (
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"github.com/akormos/alert-trading/src/eventmodels"
)

// Deduplicator suppresses intents that are near-duplicates of one recently
// seen. This is a rate gate against the same alert being re-broadcast on
// multiple channels, not a correctness mechanism.
type Deduplicator struct {
	recent *cache.Cache
}

func NewDeduplicator(window time.Duration) *Deduplicator {
	return &Deduplicator{
		recent: cache.New(window, 2*window),
	}
}

// ShouldProcess reports whether the intent should flow on. The first intent
// for a given (symbol, expiry, strike, entry) key within the window wins;
// later ones are suppressed.
func (d *Deduplicator) ShouldProcess(intent *eventmodels.TradeIntent) bool {
	key := intent.DedupKey()

	if err := d.recent.Add(key, time.Now(), cache.DefaultExpiration); err != nil {
		log.Debugf("Deduplicator: suppressing duplicate alert: %s", key)
		return false
	}

	return true
}
