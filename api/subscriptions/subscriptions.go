// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/aawallet/api/utils"
	"github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/log"
	"github.com/vechain/aawallet/thor"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 7 / 10
	queueSize  = 64
)

// Message is one committed event as pushed to subscribers.
type Message struct {
	Call     uint64       `json:"call"`
	Index    uint32       `json:"index"`
	Time     uint64       `json:"time"`
	Contract thor.Address `json:"contract"`
	Name     string       `json:"name"`
	Subject  thor.Address `json:"subject"`
	Data     events.Event `json:"data"`
}

type filter struct {
	contract *thor.Address
	subject  *thor.Address
	names    map[string]bool
}

func (f *filter) match(r *events.Record) bool {
	if f.contract != nil && *f.contract != r.Contract {
		return false
	}
	if f.subject != nil && *f.subject != r.Event.Subject() {
		return false
	}
	if len(f.names) > 0 && !f.names[r.Event.Name()] {
		return false
	}
	return true
}

func parseFilter(req *http.Request) (*filter, error) {
	query := req.URL.Query()
	f := &filter{}
	if s := query.Get("contract"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "contract"))
		}
		f.contract = &addr
	}
	if s := query.Get("subject"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "subject"))
		}
		f.subject = &addr
	}
	if s := query.Get("names"); s != "" {
		f.names = make(map[string]bool)
		for _, name := range strings.Split(s, ",") {
			f.names[strings.TrimSpace(name)] = true
		}
	}
	return f, nil
}

type Subscriptions struct {
	feed     *events.Feed
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(feed *events.Feed, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		feed: feed,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) handleEvents(w http.ResponseWriter, req *http.Request) error {
	f, err := parseFilter(req)
	if err != nil {
		return err
	}
	// subscribe before the handshake completes, so nothing committed after it is missed
	q := newQueue(s.feed, queueSize)
	stop := make(chan struct{})
	defer close(stop)
	go q.run(stop)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already replied
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return nil
		case <-closed:
			return nil
		case <-q.ended:
			return nil
		case <-q.overflow:
			logger.Debug("subscriber too slow, dropped", "remote", req.RemoteAddr)
			conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"), time.Now().Add(writeWait))
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case records := <-q.out:
			for _, r := range records {
				if !f.match(r) {
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(&Message{
					Call:     r.Call,
					Index:    r.Index,
					Time:     r.Time,
					Contract: r.Contract,
					Name:     r.Event.Name(),
					Subject:  r.Event.Subject(),
					Data:     r.Event,
				}); err != nil {
					logger.Debug("write failed", "err", err)
					return nil
				}
			}
		}
	}
}

// Close disconnects all subscribers and waits for their handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleEvents))
}
