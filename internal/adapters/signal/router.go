// Package signal is the coordinating endpoint of the lobby protocol. It owns
// the authoritative room state and demultiplexes inbound named events into the
// registry and sessions.
package signal

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lobbywire/lobbywire/internal/core"
	"github.com/lobbywire/lobbywire/internal/protocol"
)

// eventDisconnect is posted internally when a connection's read pump ends.
// It is not a wire event.
const eventDisconnect = "disconnect"

type inbound struct {
	cid    core.ConnID
	sender core.Sender
	env    protocol.Envelope
}

// Router dispatches every inbound message on a single goroutine: each message
// is handled to completion before the next, which makes registry and session
// mutations atomic with respect to all connections without any locking. The
// registry must only ever be touched from Run's goroutine.
type Router struct {
	Registry *core.Registry
	Starter  core.SessionStarter

	// IdleTimeout evicts rooms with no activity for this long. Zero disables
	// eviction.
	IdleTimeout time.Duration

	// ReadLimit caps inbound frame size when > 0.
	ReadLimit int64

	inbox chan inbound
}

func NewRouter(registry *core.Registry, starter core.SessionStarter) *Router {
	if starter == nil {
		starter = core.NopStarter{}
	}
	return &Router{
		Registry: registry,
		Starter:  starter,
		inbox:    make(chan inbound, 64),
	}
}

// Run drains the inbox until ctx is canceled. It is the single logical thread
// of control on the coordinating side.
func (r *Router) Run(ctx context.Context) {
	var tick <-chan time.Time
	if r.IdleTimeout > 0 {
		ticker := time.NewTicker(r.IdleTimeout / 2)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-r.inbox:
			r.dispatch(in)
		case <-tick:
			r.reap()
		}
	}
}

func (r *Router) dispatch(in inbound) {
	switch in.env.Event {
	case protocol.EventCreateRoom:
		r.handleCreate(in)
	case protocol.EventJoinRoom:
		r.handleJoin(in)
	case protocol.EventAllJoined:
		r.handleAllJoined(in)
	case eventDisconnect:
		r.handleDisconnect(in)
	default:
		log.Warn().Str("module", "signal").Str("event", in.env.Event).Msg("unknown event")
	}
}

func (r *Router) reap() {
	cutoff := time.Now().Add(-r.IdleTimeout)
	if evicted := r.Registry.EvictIdleBefore(cutoff); len(evicted) > 0 {
		log.Info().Str("module", "signal").Int("count", len(evicted)).Msg("idle rooms evicted")
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS upgrades a participant connection and runs its pumps. Inbound
// frames are posted to the inbox; the connection goroutines never touch room
// state themselves.
func (r *Router) HandleWS(ctx context.Context, c *gin.Context) {
	cid := core.ConnID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("new connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if r.ReadLimit > 0 {
		ws.SetReadLimit(r.ReadLimit)
	}

	conn := newWSConn(ws)
	ctx, cancel := context.WithCancel(ctx)

	go conn.writePump(ctx)
	go r.readPump(ctx, cancel, cid, conn)
}

func (r *Router) readPump(ctx context.Context, cancel context.CancelFunc, cid core.ConnID, conn *wsConn) {
	defer func() {
		cancel()
		conn.Close()
		r.post(inbound{cid: cid, sender: conn, env: protocol.Envelope{Event: eventDisconnect}})
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("connection closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, raw, err := conn.conn.ReadMessage()
			if err != nil {
				return
			}
			env, err := protocol.Decode(raw)
			if err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("undecodable frame")
				continue
			}
			r.post(inbound{cid: cid, sender: conn, env: env})
		}
	}
}

func (r *Router) post(in inbound) {
	select {
	case r.inbox <- in:
	case <-time.After(5 * time.Second):
		log.Error().Str("module", "signal").Str("event", in.env.Event).Msg("inbox stalled, frame dropped")
	}
}
