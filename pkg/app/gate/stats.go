package gate

import (
	"sync"

	"github.com/uhyunpark/ordergate/pkg/app/core/validation"
)

// Stats counts admissions since start. Refused covers unknown or inactive
// markets and bad signatures; Failed covers arithmetic errors.
type Stats struct {
	Accepted uint64            `json:"accepted"`
	Rejected uint64            `json:"rejected"`
	Refused  uint64            `json:"refused"`
	Failed   uint64            `json:"failed"`
	ByReason map[string]uint64 `json:"byReason"`
}

type counters struct {
	mu sync.Mutex
	s  Stats
}

func newCounters() *counters {
	return &counters{s: Stats{ByReason: make(map[string]uint64)}}
}

func (c *counters) accepted() {
	c.mu.Lock()
	c.s.Accepted++
	c.mu.Unlock()
}

func (c *counters) rejected(r validation.RejectionReason) {
	c.mu.Lock()
	c.s.Rejected++
	c.s.ByReason[r.Code()]++
	c.mu.Unlock()
}

func (c *counters) refused() {
	c.mu.Lock()
	c.s.Refused++
	c.mu.Unlock()
}

func (c *counters) failed() {
	c.mu.Lock()
	c.s.Failed++
	c.mu.Unlock()
}

func (c *counters) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.s
	out.ByReason = make(map[string]uint64, len(c.s.ByReason))
	for k, v := range c.s.ByReason {
		out.ByReason[k] = v
	}
	return out
}
