package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/record"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/task"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the 'socketio' task type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("socketio", func(defaults task.Args) (task.Task, error) {
		return registry.Configured("socketio", defaults, Run), nil
	})
}

// Input holds the decoded arguments of one socketio call.
type Input struct {
	URL                string
	Namespace          string
	OnEvent            string
	EmitEvent          string
	EmitData           any
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// ParseInput decodes and validates the arguments.
func ParseInput(args task.Args) (*Input, error) {
	in := &Input{EmitData: args["emit_data"]}
	var err error
	if in.URL, err = args.String("url", ""); err != nil {
		return nil, err
	}
	if in.URL == "" {
		return nil, fmt.Errorf("argument %q is required", "url")
	}
	if in.Namespace, err = args.String("namespace", "/"); err != nil {
		return nil, err
	}
	if in.OnEvent, err = args.String("on_event", ""); err != nil {
		return nil, err
	}
	if in.OnEvent == "" {
		return nil, fmt.Errorf("argument %q is required", "on_event")
	}
	if in.EmitEvent, err = args.String("emit_event", ""); err != nil {
		return nil, err
	}
	if in.Timeout, err = args.Duration("timeout", 10*time.Second); err != nil {
		return nil, err
	}
	if in.InsecureSkipVerify, err = args.Bool("insecure_skip_verify", false); err != nil {
		return nil, err
	}
	return in, nil
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value any
	err   error
}

// Run connects to a socket.io server, optionally emits an event and waits for
// on_event. The first payload of that event is returned under
// "response_data".
func Run(ctx context.Context, _ []any, args task.Args) (any, error) {
	input, err := ParseInput(args)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("task", "socketio", "url", input.URL, "onEvent", input.OnEvent, "emitEvent", input.EmitEvent)
	logger.Debug("Task started")
	defer logger.Debug("Task finished")

	var isConnected atomic.Bool

	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, input.Timeout)
	defer cancel()

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(input.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	send := func(r opResult) {
		select {
		case done <- r:
		default:
		}
	}

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", input.Namespace, "sid", io.Id())
		if input.EmitEvent != "" {
			jsonData, _ := json.Marshal(input.EmitData)
			logger.Info("Emitting event", "event", input.EmitEvent, "data", string(jsonData))
			io.Emit(input.EmitEvent, input.EmitData)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				send(opResult{err: fmt.Errorf("connect error: %w", err)})
				return
			}
		}
		send(opResult{err: fmt.Errorf("connect error")})
	})

	io.On(types.EventName(input.OnEvent), func(data ...any) {
		var responseData any
		if len(data) > 0 {
			responseData = data[0]
		}
		send(opResult{value: responseData})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", input.OnEvent)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return record.NewPatch(map[string]any{"response_data": res.value}), nil
	}
}
