package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeServer blocks in Start until Shutdown, unless startErr is set.
type fakeServer struct {
	startErr error

	mu       sync.Mutex
	shutdown bool
	stopped  chan struct{}
}

func newFakeServer(startErr error) *fakeServer {
	return &fakeServer{startErr: startErr, stopped: make(chan struct{})}
}

func (s *fakeServer) Start(string) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-s.stopped
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.shutdown {
		s.shutdown = true
		close(s.stopped)
	}
	return nil
}

func TestRunHTTP_ReturnsStartFailure(t *testing.T) {
	bindErr := errors.New("listen tcp :8080: bind: address already in use")
	srv := newFakeServer(bindErr)

	err := runHTTP(context.Background(), srv, ":8080", zerolog.Nop())
	if !errors.Is(err, bindErr) {
		t.Fatalf("expected start failure to be returned, got %v", err)
	}
	if !srv.shutdown {
		t.Fatalf("server should still be shut down")
	}
}

func TestRunHTTP_SignalIsCleanExit(t *testing.T) {
	srv := newFakeServer(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- runHTTP(ctx, srv, ":0", zerolog.Nop()) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil on requested shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runHTTP did not return after cancellation")
	}
}
