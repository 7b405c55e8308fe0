// Package session speaks the game server's websocket protocol: it views or
// joins a game, forwards action vectors and delivers decoded snapshots.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"bombview/world"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 1 << 20
)

// ErrEmptyPlayerID is returned when joining with a blank id.
var ErrEmptyPlayerID = errors.New("session: player id is empty")

// ErrClosed is returned by writes after the session has closed.
var ErrClosed = errors.New("session: closed")

// ConnectionError reports a dial or transport failure.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("unable to connect to server with url %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Options tunes a session. The zero value is usable.
type Options struct {
	Log    logrus.FieldLogger
	Dialer *websocket.Dialer
	Header http.Header

	WriteWait time.Duration
	PongWait  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = logrus.StandardLogger()
	}
	if o.Dialer == nil {
		o.Dialer = websocket.DefaultDialer
	}
	if o.WriteWait <= 0 {
		o.WriteWait = writeWait
	}
	if o.PongWait <= 0 {
		o.PongWait = pongWait
	}
	return o
}

// SnapshotFunc receives every decoded snapshot.
type SnapshotFunc func(Kind, *world.Snapshot)

// ErrorFunc receives server error messages.
type ErrorFunc func(string)

// Session is one websocket connection to a game server.
type Session struct {
	id   string
	url  string
	conn *websocket.Conn
	opts Options
	log  logrus.FieldLogger

	writeMu sync.Mutex

	hmu        sync.RWMutex
	onSnapshot SnapshotFunc
	onError    ErrorFunc

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to url.
func Dial(ctx context.Context, url string, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	conn, resp, err := opts.Dialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (http %s)", err, resp.Status)
		}
		return nil, &ConnectionError{URL: url, Err: err}
	}
	conn.SetReadLimit(maxMessageSize)
	id := uuid.NewString()
	s := &Session{
		id:   id,
		url:  url,
		conn: conn,
		opts: opts,
		log:  opts.Log.WithFields(logrus.Fields{"server": url, "conn": id}),
		done: make(chan struct{}),
	}
	s.log.Info("connected")
	return s, nil
}

// ID identifies this connection in logs.
func (s *Session) ID() string { return s.id }

// URL returns the server address.
func (s *Session) URL() string { return s.url }

// OnSnapshot sets the snapshot handler, replacing any previous one.
func (s *Session) OnSnapshot(fn SnapshotFunc) {
	s.hmu.Lock()
	s.onSnapshot = fn
	s.hmu.Unlock()
}

// OnError sets the server error handler, replacing any previous one.
func (s *Session) OnError(fn ErrorFunc) {
	s.hmu.Lock()
	s.onError = fn
	s.hmu.Unlock()
}

// Run reads messages until the connection fails or ctx is done. ctx
// cancellation closes the connection and returns ctx.Err().
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()

	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	if err := s.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait)); err != nil {
		s.log.WithError(err).Warn("failed to set read deadline")
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	})

	go s.pinger()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			select {
			case <-s.done:
				return ErrClosed
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Info("server closed connection")
			}
			return &ConnectionError{URL: s.url, Err: err}
		}
		s.dispatch(data)
	}
}

func (s *Session) pinger() {
	t := time.NewTicker(s.opts.PongWait * 9 / 10)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.opts.WriteWait)); err != nil {
				s.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

func (s *Session) dispatch(data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.log.WithError(err).Warn("dropping malformed message")
		return
	}
	switch env.Type {
	case TypeViewingGame, TypeJoined, TypeGameState:
		snap, err := world.DecodeSnapshot(env.Payload)
		if err != nil {
			s.log.WithError(err).WithField("type", env.Type).Warn("dropping bad snapshot")
			return
		}
		s.hmu.RLock()
		fn := s.onSnapshot
		s.hmu.RUnlock()
		if fn != nil {
			fn(Kind(env.Type), snap)
		}
	case TypeError:
		msg := decodeError(env.Payload)
		s.log.WithField("message", msg).Warn("server error")
		s.hmu.RLock()
		fn := s.onError
		s.hmu.RUnlock()
		if fn != nil {
			fn(msg)
		}
	default:
		s.log.WithField("type", env.Type).Debug("ignoring message")
	}
}

func (s *Session) write(typ string, payload any) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	b, err := encode(typ, payload)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteWait)); err != nil {
		return &ConnectionError{URL: s.url, Err: err}
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return &ConnectionError{URL: s.url, Err: err}
	}
	return nil
}

// ViewGame asks to spectate the running game.
func (s *Session) ViewGame() error {
	return s.write(TypeViewGame, nil)
}

// JoinGame asks to play as id.
func (s *Session) JoinGame(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyPlayerID
	}
	return s.write(TypeJoinGame, JoinGame{PlayerID: id})
}

// LeaveGame gives up the player slot.
func (s *Session) LeaveGame() error {
	return s.write(TypeLeaveGame, nil)
}

// SendAction forwards a changed action vector for id.
func (s *Session) SendAction(id string, v world.ActionVector) error {
	return s.write(TypePlayerAction, PlayerAction{PlayerID: id, Actions: v})
}

// Close sends a close frame and tears the connection down. It is safe to
// call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = s.conn.Close()
	})
	return err
}

// Done is closed once the session has closed.
func (s *Session) Done() <-chan struct{} { return s.done }
