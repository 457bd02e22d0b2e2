package server

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	ferrors "github.com/vango-dev/noorform/internal/errors"
	"github.com/vango-dev/noorform/pkg/catalog"
	"github.com/vango-dev/noorform/pkg/form"
	"github.com/vango-dev/noorform/pkg/sink"
	"github.com/vango-dev/noorform/pkg/telemetry"
)

// liveSession is one WebSocket connection and the form it owns.
type liveSession struct {
	conn    *websocket.Conn
	form    *form.Form
	logger  *slog.Logger
	metrics *telemetry.Metrics

	idleTimeout  time.Duration
	writeTimeout time.Duration

	// ctx is cancelled when the connection closes.
	ctx    context.Context
	cancel context.CancelFunc

	writeMu sync.Mutex
	closed  atomic.Bool

	// inFlight guards against overlapping submissions.
	inFlight atomic.Bool
	submits  sync.WaitGroup
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	def, ok := s.definition(w, r)
	if !ok {
		return
	}
	locale := s.locale(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.config.MaxMessageBytes)

	ctx, cancel := context.WithCancel(sink.WithLocale(context.Background(), string(locale)))
	sess := &liveSession{
		conn:         conn,
		form:         s.mount(def, locale),
		logger:       s.logger.With("form", def.Name, "request_id", middleware.GetReqID(r.Context())),
		metrics:      s.config.Metrics,
		idleTimeout:  s.config.IdleTimeout,
		writeTimeout: s.config.WriteTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}

	s.track(sess, true)
	defer s.track(sess, false)

	sess.run(def.View(locale))
}

func (s *Server) track(sess *liveSession, open bool) {
	s.mu.Lock()
	if open {
		s.sessions[sess] = struct{}{}
	} else {
		delete(s.sessions, sess)
	}
	s.mu.Unlock()

	if open {
		s.config.Metrics.SessionOpened()
	} else {
		s.config.Metrics.SessionClosed()
	}
}

// run pushes the initial state, then reads client messages until the
// connection closes.
func (sess *liveSession) run(view catalog.View) {
	unsubscribe := sess.form.Subscribe(func() {
		sess.send(stateMessage(MsgState, sess.form))
	})
	defer func() {
		unsubscribe()
		sess.cancel()
		sess.submits.Wait()
		sess.closeWith(websocket.CloseNormalClosure, "")
	}()

	hello := stateMessage(MsgInit, sess.form)
	hello.Form = &view
	sess.send(hello)

	sess.readLoop()
}

func (sess *liveSession) readLoop() {
	for {
		sess.conn.SetReadDeadline(time.Now().Add(sess.idleTimeout))

		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				sess.logger.Warn("read error", "error", err)
			}
			return
		}

		msg, err := DecodeClientMessage(data)
		if err != nil {
			sess.metrics.MessageReceived("invalid")
			sess.sendError(err)
			continue
		}
		sess.metrics.MessageReceived(msg.Type)
		sess.handle(msg)
	}
}

func (sess *liveSession) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgChange:
		sess.form.Field(msg.Field).OnChange(msg.Value)
	case MsgBlur:
		sess.form.Field(msg.Field).OnBlur()
	case MsgReset:
		before := sess.form.State()
		sess.form.Reset()
		// A reset that changes nothing publishes no state, so reply explicitly.
		if reflect.DeepEqual(before, sess.form.State()) {
			sess.send(stateMessage(MsgState, sess.form))
		}
	case MsgSubmit:
		sess.submit()
	}
}

// submit runs the submission in the background so the connection keeps
// reading. A second submit while one is running is rejected.
func (sess *liveSession) submit() {
	if !sess.inFlight.CompareAndSwap(false, true) {
		sess.sendError(ferrors.New("F202"))
		return
	}

	sess.submits.Add(1)
	go func() {
		defer sess.submits.Done()
		defer sess.inFlight.Store(false)

		accepted := sess.form.Submit(sess.ctx)

		msg := stateMessage(MsgSubmitted, sess.form)
		msg.Accepted = &accepted
		sess.send(msg)
	}()
}

// send writes msg. State is read under the write lock, so the last write
// always carries the latest state.
func (sess *liveSession) send(msg ServerMessage) {
	if sess.closed.Load() {
		return
	}
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()

	if msg.State != nil {
		state := sess.form.State()
		msg.State = &state
	}

	sess.conn.SetWriteDeadline(time.Now().Add(sess.writeTimeout))
	if err := sess.conn.WriteJSON(msg); err != nil {
		sess.logger.Debug("write failed", "error", err)
	}
}

func (sess *liveSession) sendError(err error) {
	sess.send(ServerMessage{Type: MsgError, Error: errorPayload(err)})
}

// closeWith sends a close frame and closes the connection once.
func (sess *liveSession) closeWith(code int, reason string) {
	if !sess.closed.CompareAndSwap(false, true) {
		return
	}
	sess.writeMu.Lock()
	sess.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(time.Second))
	sess.writeMu.Unlock()
	sess.conn.Close()
	sess.cancel()
}
