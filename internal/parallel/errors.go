// Package parallel holds small concurrency helpers shared by the worker pool.
package parallel

import "sync"

// ErrorCollector keeps the first non-nil error reported by any number of
// goroutines. The zero value is ready to use.
type ErrorCollector struct {
	once sync.Once
	err  error
	mu   sync.Mutex
}

// SetError records err if it is the first non-nil error. Nil is ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
	})
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
