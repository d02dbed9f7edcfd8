package word

import (
	"log"
	"time"
)

// timeoutChecker fails a lookup closed when it overruns the deadline.
type timeoutChecker struct {
	next Checker
	wait time.Duration
	log  *log.Logger
}

// WithTimeout wraps a checker so a lookup that takes longer than wait is
// treated as invalid.  Rooms hold their turn lock across word checks, so a
// misbehaving checker must not stall a room forever.
func WithTimeout(c Checker, wait time.Duration, log *log.Logger) Checker {
	return &timeoutChecker{
		next: c,
		wait: wait,
		log:  log,
	}
}

func (t *timeoutChecker) IsValid(word string) bool {
	done := make(chan bool, 1)
	go func() {
		done <- t.next.IsValid(word)
	}()
	timer := time.NewTimer(t.wait)
	defer timer.Stop()
	select {
	case ok := <-done:
		return ok
	case <-timer.C:
		t.log.Printf("word lookup for %q timed out after %v, treating as invalid", word, t.wait)
		return false
	}
}
