package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/mazesearch/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the socket.io event frames are emitted as.
const DefaultEvent = "search_frame"

// defaultConnectTimeout bounds the wait for the server's connect event.
const defaultConnectTimeout = 15 * time.Second

// Options configures a socket.io publisher.
type Options struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// SocketIO emits frames to a socket.io server over a websocket transport.
type SocketIO struct {
	client *socket.Socket
	event  string
	emit   func(event string, payload any)
}

// Dial connects to the server described by opts and waits for the connect
// handshake.
func Dial(ctx context.Context, opts Options) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", opts.URL)
	logger.Debug("Connecting to trace viewer...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse publish URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("publish URL %q must include a scheme and host", opts.URL)
	}

	event := opts.Event
	if event == "" {
		event = DefaultEvent
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "/"
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	sockOpts := socket.DefaultOptions()
	sockOpts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(namespace, sockOpts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		connErr := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				connErr = e
			}
		}
		connected <- connErr
	})
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
	logger.Info("Connected to trace viewer.", "sid", io.Id(), "event", event)

	return &SocketIO{
		client: io,
		event:  event,
		emit:   func(ev string, payload any) { io.Emit(ev, payload) },
	}, nil
}

// Publish emits frame as the configured event.
func (s *SocketIO) Publish(ctx context.Context, frame Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.client != nil && !s.client.Connected() {
		return fmt.Errorf("socket.io client %v is not connected", s.client.Id())
	}
	s.emit(s.event, frame.Payload())
	return nil
}

// Close disconnects from the server.
func (s *SocketIO) Close() error {
	if s.client != nil {
		s.client.Disconnect()
	}
	return nil
}
