package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Connector keeps a session to one server alive, re-dialing after each
// disconnect no faster than Limiter allows.
type Connector struct {
	URL     string
	Options Options
	// Limiter bounds dial attempts; nil means one every two seconds.
	Limiter *rate.Limiter
	// OnConnect prepares a fresh session before its read loop starts,
	// typically registering handlers and sending ViewGame. An error drops
	// the session and counts as a failed attempt.
	OnConnect func(*Session) error
	// OnDisconnect is told why a session ended or a dial failed.
	OnDisconnect func(error)

	mu  sync.Mutex
	cur *Session
}

// Session returns the live session, or nil while disconnected.
func (c *Connector) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *Connector) setSession(s *Session) {
	c.mu.Lock()
	c.cur = s
	c.mu.Unlock()
}

// Run dials and serves sessions until ctx is done.
func (c *Connector) Run(ctx context.Context) error {
	lim := c.Limiter
	if lim == nil {
		lim = rate.NewLimiter(rate.Every(2*time.Second), 1)
	}
	log := c.Options.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("server", c.URL)

	for attempt := 1; ; attempt++ {
		if err := lim.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		err := c.serve(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).WithField("attempt", attempt).Warn("disconnected")
		if c.OnDisconnect != nil {
			c.OnDisconnect(err)
		}
	}
}

func (c *Connector) serve(ctx context.Context) error {
	s, err := Dial(ctx, c.URL, c.Options)
	if err != nil {
		return err
	}
	if c.OnConnect != nil {
		if err := c.OnConnect(s); err != nil {
			s.Close()
			return err
		}
	}
	c.setSession(s)
	defer c.setSession(nil)
	err = s.Run(ctx)
	if errors.Is(err, ErrClosed) {
		// Closed locally; let the loop redial.
		return &ConnectionError{URL: c.URL, Err: err}
	}
	return err
}
