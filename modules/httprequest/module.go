// Package httprequest provides the 'http_request' task, which performs one
// HTTP call per run and returns the response as a record.
package httprequest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/record"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client is shared by every task of this module. Nil means a default
	// resty client.
	Client *resty.Client
}

// Register registers the 'http_request' task type.
func (m *Module) Register(r *registry.Registry) {
	client := m.Client
	if client == nil {
		client = resty.New()
	}
	r.RegisterTask("http_request", func(defaults task.Args) (task.Task, error) {
		return registry.Configured("http_request", defaults, func(ctx context.Context, inputs []any, args task.Args) (any, error) {
			return Do(ctx, client, inputs, args)
		}), nil
	})
}

// Do performs the request described by args.
//
// Arguments: url (required), method (GET), headers (map), query (map),
// body (string), timeout (duration), allow_errors (bool). When no body is
// given and the first input is a record, the record is sent as JSON.
func Do(ctx context.Context, client *resty.Client, inputs []any, args task.Args) (any, error) {
	url, err := args.String("url", "")
	if err != nil {
		return nil, err
	}
	if url == "" {
		return nil, fmt.Errorf("argument %q is required", "url")
	}
	method, err := args.String("method", http.MethodGet)
	if err != nil {
		return nil, err
	}
	timeout, err := args.Duration("timeout", 30*time.Second)
	if err != nil {
		return nil, err
	}
	allowErrors, err := args.Bool("allow_errors", false)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("method", method, "url", url)

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := client.R().SetContext(reqCtx)
	if headers, err := stringMap(args, "headers"); err != nil {
		return nil, err
	} else if len(headers) > 0 {
		req = req.SetHeaders(headers)
	}
	if query, err := stringMap(args, "query"); err != nil {
		return nil, err
	} else if len(query) > 0 {
		req = req.SetQueryParams(query)
	}

	body, err := args.String("body", "")
	if err != nil {
		return nil, err
	}
	switch {
	case body != "":
		req = req.SetBody([]byte(body))
	case len(inputs) > 0:
		if p, ok := inputs[0].(*record.Patch); ok {
			req = req.SetHeader("Content-Type", "application/json").SetBody(p)
		}
	}

	logger.Info("Making HTTP request")
	resp, err := req.Execute(strings.ToUpper(method), url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	logger.Info("Received HTTP response", "status", resp.Status(), "duration", resp.Time())

	if resp.IsError() && !allowErrors {
		return nil, fmt.Errorf("request failed with status %s", resp.Status())
	}

	return record.NewPatch(map[string]any{
		"status_code": resp.StatusCode(),
		"body":        resp.String(),
		"headers":     flattenHeaders(resp.Header()),
	}), nil
}

func stringMap(args task.Args, key string) (map[string]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("argument %q: expected map, got %T", key, raw)
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out, nil
}

func flattenHeaders(h http.Header) map[string]any {
	out := make(map[string]any, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}
