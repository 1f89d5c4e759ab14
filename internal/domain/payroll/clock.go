package payroll

import (
	"strconv"
	"sync"
	"time"
)

// PayslipClock issues PS-<unix millis> numbers that strictly increase
// within the process, even when several salaries are created in the same
// millisecond.
type PayslipClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewPayslipClock() *PayslipClock {
	return &PayslipClock{now: time.Now}
}

func (c *PayslipClock) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return PayslipPrefix + strconv.FormatInt(ms, 10)
}
