// Package client implements the participant endpoint of the lobby protocol:
// dial, one correlated create-or-join exchange, then standing roster
// notifications until the session begins.
package client

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lobbywire/lobbywire/internal/protocol"
)

// ServerError is a rejection from the coordinator, carrying the reason text
// meant for the participant.
type ServerError struct {
	Reason string
}

func (e *ServerError) Error() string { return e.Reason }

// pendingWait is a single-use listener pair: whichever of its two events
// arrives first is delivered, and both registrations are dropped so a stale or
// duplicate delivery cannot fire later. After delivering, the read loop parks
// on resume until the handshake has finished arming its standing listeners;
// otherwise a notification right behind the response could slip through
// unhandled.
type pendingWait struct {
	ch      chan protocol.Envelope
	events  [2]string
	resume  chan struct{}
	release sync.Once
}

func (w *pendingWait) releaseReader() {
	w.release.Do(func() { close(w.resume) })
}

// Conn is one participant connection. A single read loop demultiplexes
// inbound events into pending waits and standing handlers; the handshake
// itself is a single logical flow that suspends on its correlated response.
type Conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex

	mu       sync.Mutex
	pending  map[string]*pendingWait
	standing map[string]func(json.RawMessage)

	done    chan struct{}
	readErr error
}

// Dial connects to the coordinator's websocket endpoint, e.g.
// ws://host:port/api/ws.
func Dial(ctx context.Context, url string) (*Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	c := &Conn{
		ws:       ws,
		pending:  make(map[string]*pendingWait),
		standing: make(map[string]func(json.RawMessage)),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Conn) Close() error {
	return c.ws.Close()
}

func (c *Conn) send(event string, payload any) error {
	raw, err := protocol.Encode(event, payload)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, raw)
}

// arm registers a single-use ok/no listener pair. It must be called before
// the request is sent so the response cannot race the registration.
func (c *Conn) arm(okEvent, noEvent string) *pendingWait {
	w := &pendingWait{
		ch:     make(chan protocol.Envelope, 1),
		events: [2]string{okEvent, noEvent},
		resume: make(chan struct{}),
	}
	c.mu.Lock()
	c.pending[okEvent] = w
	c.pending[noEvent] = w
	c.mu.Unlock()
	return w
}

// wait suspends until the armed pair fires, ctx ends, or the connection dies.
// No timeout is applied here; bounding the wait is the caller's concern.
func (c *Conn) wait(ctx context.Context, w *pendingWait) (protocol.Envelope, error) {
	select {
	case env := <-w.ch:
		return env, nil
	case <-ctx.Done():
		c.disarm(w)
		return protocol.Envelope{}, ctx.Err()
	case <-c.done:
		return protocol.Envelope{}, c.readErr
	}
}

func (c *Conn) disarm(w *pendingWait) {
	c.mu.Lock()
	for _, event := range w.events {
		if c.pending[event] == w {
			delete(c.pending, event)
		}
	}
	c.mu.Unlock()
	w.releaseReader()
}

func (c *Conn) readLoop() {
	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			c.readErr = err
			close(c.done)
			return
		}
		env, err := protocol.Decode(raw)
		if err != nil {
			log.Warn().Err(err).Str("module", "client").Msg("undecodable frame")
			continue
		}

		c.mu.Lock()
		if w, ok := c.pending[env.Event]; ok {
			for _, event := range w.events {
				delete(c.pending, event)
			}
			c.mu.Unlock()
			w.ch <- env
			<-w.resume
			continue
		}
		handler := c.standing[env.Event]
		c.mu.Unlock()

		if handler != nil {
			handler(env.Data)
		} else {
			log.Debug().Str("module", "client").Str("event", env.Event).Msg("unhandled event")
		}
	}
}
