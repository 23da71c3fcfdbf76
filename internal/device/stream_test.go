package device

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// startEchoSink listens on a loopback port and collects everything the
// client writes.
func startEchoSink(t *testing.T) (port int, received func() string) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { listener.Close() })

	var mu sync.Mutex
	var buf strings.Builder
	done := make(chan struct{})

	go func() {
		defer close(done)
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data := make([]byte, 1024)
		for {
			n, err := conn.Read(data)
			if n > 0 {
				mu.Lock()
				buf.Write(data[:n])
				mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()

	return listener.Addr().(*net.TCPAddr).Port, func() string {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
		mu.Lock()
		defer mu.Unlock()
		return buf.String()
	}
}

func TestStreamerForwardsLines(t *testing.T) {
	port, received := startEchoSink(t)

	s := NewStreamer(zap.NewNop())
	s.port = port

	input := strings.NewReader("line one\nline two\nno trailing newline")
	if err := s.Run(context.Background(), "127.0.0.1", input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "line one\nline two\nno trailing newline"
	if got := received(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStreamerClosesOnCancel(t *testing.T) {
	port, _ := startEchoSink(t)

	s := NewStreamer(zap.NewNop())
	s.port = port

	// A reader that never delivers data, like an idle terminal.
	blocked, _ := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx, "127.0.0.1", blocked)
	}()

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("streamer did not return after cancellation")
	}
}

func TestStreamerDialFailure(t *testing.T) {
	// A listener that is immediately closed leaves a port nothing is
	// listening on.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	s := NewStreamer(zap.NewNop())
	s.port = port

	if err := s.Run(context.Background(), "127.0.0.1", strings.NewReader("x\n")); err == nil {
		t.Error("expected a connection error")
	}
}
