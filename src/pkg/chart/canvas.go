package chart

import (
	"sync"
	"time"

	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/statement"
)

const DefaultCanvasCapacity = 256

// Chart is one rendered breakdown.
type Chart struct {
	ID         string
	Breakdown  []statement.CategorySpending
	Tooltips   []string
	PNG        []byte
	RenderedAt time.Time
}

/*
Canvas keeps the live chart of each analysis, keyed by analysis ID. Replace
renders first and only then swaps the chart in, so a failed render keeps the
previous chart under that ID. When full, the oldest chart is dropped.
Canvas is safe for concurrent use.
*/
type Canvas struct {
	mu       sync.RWMutex
	options  Options
	capacity int
	charts   map[string]*Chart
	order    []string // oldest first
}

func NewCanvas(options Options, capacity int) *Canvas {
	if capacity <= 0 {
		capacity = DefaultCanvasCapacity
	}
	return &Canvas{options: options.withDefaults(), capacity: capacity, charts: map[string]*Chart{}}
}

func (c *Canvas) Replace(id string, breakdown []statement.CategorySpending) (chart *Chart, e *xerr.Error) {
	pngBytes, e := Render(breakdown, c.options)
	if e != nil {
		return nil, e
	}
	chart = &Chart{
		ID:         id,
		Breakdown:  append([]statement.CategorySpending(nil), breakdown...),
		Tooltips:   Tooltips(breakdown),
		PNG:        pngBytes,
		RenderedAt: time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.charts[id]; exists {
		c.forget(id)
	}
	c.charts[id] = chart
	c.order = append(c.order, id)
	for len(c.order) > c.capacity {
		delete(c.charts, c.order[0])
		c.order = c.order[1:]
	}
	return chart, nil
}

// Get returns the chart stored under id, or nil.
func (c *Canvas) Get(id string) *Chart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.charts[id]
}

// Remove drops the chart stored under id.
func (c *Canvas) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.charts[id]; exists {
		c.forget(id)
		delete(c.charts, id)
	}
}

func (c *Canvas) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.charts)
}

// forget removes id from the eviction order. Caller holds the lock.
func (c *Canvas) forget(id string) {
	for i, key := range c.order {
		if key == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
