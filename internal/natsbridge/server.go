// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package natsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdhost/internal/host"
	"github.com/matt-FFFFFF/cmdhost/internal/peer"
	"github.com/nats-io/nats.go"
)

var (
	// ErrMissingInstance is returned when a request that needs a session carries no instance header.
	ErrMissingInstance = errors.New("missing " + InstanceHeader + " header")
	// ErrServerClosed is returned when Serve is called on a closed server.
	ErrServerClosed = errors.New("server closed")
)

// Server exposes a host.Host on NATS.
type Server struct {
	nc       *nats.Conn
	host     *host.Host
	subjects Subjects
	timeout  time.Duration

	mu       sync.Mutex
	sessions map[string]*host.Session
	subs     []*nats.Subscription
	closed   bool
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

type handlerFunc func(ctx context.Context, m *nats.Msg) (any, error)

// NewServer creates a Server for h. Requests the host sends back to facades use timeout
// unless the incoming request context has a deadline.
func NewServer(nc *nats.Conn, h *host.Host, prefix string, timeout time.Duration) *Server {
	return &Server{
		nc:       nc,
		host:     h,
		subjects: Subjects{Prefix: prefix},
		timeout:  timeout,
		sessions: make(map[string]*host.Session),
	}
}

// Serve subscribes to the host subjects. It returns once the subscriptions exist;
// requests are then handled until ctx is done or Close is called.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServerClosed
	}

	ctx, s.cancel = context.WithCancel(ctx)

	routes := map[string]handlerFunc{
		s.subjects.Register():   s.handleRegister,
		s.subjects.Unregister(): s.handleUnregister,
		s.subjects.Execute():    s.handleExecute,
		s.subjects.List():       s.handleList,
		s.subjects.Bye():        s.handleBye,
	}

	for subject, fn := range routes {
		sub, err := s.nc.Subscribe(subject, s.dispatch(ctx, fn))
		if err != nil {
			s.unsubscribeLocked(ctx)
			return fmt.Errorf("subscribe to %s: %w", subject, err)
		}

		s.subs = append(s.subs, sub)
	}

	ctxlog.Info(ctx, "natsbridge", "detail", "host serving", "prefix", s.subjects.Prefix)

	return nil
}

// Close unsubscribes, cancels and waits for in-flight requests, then closes every session.
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.closed = true
	s.unsubscribeLocked(context.Background())
	sessions := s.sessions
	s.sessions = make(map[string]*host.Session)
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	s.wg.Wait()

	for _, sess := range sessions {
		sess.Close()
	}
}

func (s *Server) unsubscribeLocked(ctx context.Context) {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			ctxlog.Warn(ctx, "natsbridge", "detail", "unsubscribe failed", "subject", sub.Subject, "error", err)
		}
	}

	s.subs = nil
}

func (s *Server) dispatch(ctx context.Context, fn handlerFunc) nats.MsgHandler {
	return func(m *nats.Msg) {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}

		s.wg.Add(1)
		s.mu.Unlock()

		go func() {
			defer s.wg.Done()

			res, err := fn(ctx, m)
			respond(ctx, m, res, err)
		}()
	}
}

// session returns the session of the requesting instance, creating it on first use.
func (s *Server) session(m *nats.Msg) (*host.Session, error) {
	instance := ""
	if m.Header != nil {
		instance = m.Header.Get(InstanceHeader)
	}

	if instance == "" {
		return nil, ErrMissingInstance
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[instance]; ok {
		return sess, nil
	}

	if s.closed {
		return nil, ErrServerClosed
	}

	sess := s.host.Attach(&contributorClient{
		requester: requester{nc: s.nc, instanceID: instance, timeout: s.timeout},
		subject:   s.subjects.Contributed(instance),
	})
	s.sessions[instance] = sess

	return sess, nil
}

func decodeID(m *nats.Msg) (string, error) {
	var req idRequest
	if err := json.Unmarshal(m.Data, &req); err != nil {
		return "", errors.Join(ErrDecode, err)
	}

	return req.ID, nil
}

func (s *Server) handleRegister(ctx context.Context, m *nats.Msg) (any, error) {
	sess, err := s.session(m)
	if err != nil {
		return nil, err
	}

	id, err := decodeID(m)
	if err != nil {
		return nil, err
	}

	return nil, sess.RegisterCommand(ctx, id)
}

func (s *Server) handleUnregister(ctx context.Context, m *nats.Msg) (any, error) {
	sess, err := s.session(m)
	if err != nil {
		return nil, err
	}

	id, err := decodeID(m)
	if err != nil {
		return nil, err
	}

	return nil, sess.UnregisterCommand(ctx, id)
}

func (s *Server) handleExecute(ctx context.Context, m *nats.Msg) (any, error) {
	var req executeRequest
	if err := json.Unmarshal(m.Data, &req); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}

	return s.host.ExecuteCommand(ctx, req.ID, req.Args, req.Retry)
}

func (s *Server) handleList(ctx context.Context, _ *nats.Msg) (any, error) {
	return s.host.GetCommands(ctx)
}

func (s *Server) handleBye(ctx context.Context, m *nats.Msg) (any, error) {
	instance := ""
	if m.Header != nil {
		instance = m.Header.Get(InstanceHeader)
	}

	s.mu.Lock()
	sess, ok := s.sessions[instance]
	delete(s.sessions, instance)
	s.mu.Unlock()

	if ok {
		ctxlog.Debug(ctx, "natsbridge", "detail", "session ended", "instance", instance)
		sess.Close()
	}

	return nil, nil
}

// contributorClient routes a contributed command back to its facade instance.
type contributorClient struct {
	requester
	subject string
}

var _ peer.Contributor = (*contributorClient)(nil)

func (c *contributorClient) ExecuteContributedCommand(ctx context.Context, id string, args []any) (any, error) {
	raw, err := c.request(ctx, c.subject, executeRequest{ID: id, Args: args})
	if err != nil {
		return nil, err
	}

	return decodeResult(raw)
}
