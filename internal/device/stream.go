package device

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// StreamPort is the device's plain-text TCP line port. No framing beyond
// newlines, no handshake, no acknowledgments.
const StreamPort = 2323

const streamDialTimeout = 5 * time.Second

// Streamer forwards lines of text to the device's TCP stream port.
type Streamer struct {
	logger *zap.Logger
	port   int
}

// NewStreamer creates a streamer targeting the default stream port.
func NewStreamer(logger *zap.Logger) *Streamer {
	return &Streamer{logger: logger, port: StreamPort}
}

// Run connects to the device and forwards each input line verbatim,
// newline included, as it arrives. It returns on end-of-input or context
// cancellation, and the socket is closed on every exit path.
func (s *Streamer) Run(ctx context.Context, host string, input io.Reader) error {
	addr := net.JoinHostPort(host, strconv.Itoa(s.port))

	dialer := net.Dialer{Timeout: streamDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	s.logger.Info("Connected to stream port", zap.String("addr", addr))

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(input)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return fmt.Errorf("failed to read input: %w", err)
		case line, ok := <-lines:
			if !ok {
				// End of input.
				return nil
			}
			if _, err := conn.Write([]byte(line)); err != nil {
				return fmt.Errorf("failed to write to stream: %w", err)
			}
		}
	}
}
