package s3

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/record"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client is shared by every upload to reuse TCP connections. Nil means a
	// default resty client.
	Client *resty.Client
}

// Register registers the 's3_upload' task type.
func (m *Module) Register(r *registry.Registry) {
	client := m.Client
	if client == nil {
		client = resty.New()
	}
	r.RegisterTask("s3_upload", func(defaults task.Args) (task.Task, error) {
		return registry.Configured("s3_upload", defaults, func(ctx context.Context, _ []any, args task.Args) (any, error) {
			return Upload(ctx, client, args)
		}), nil
	})
}

// Upload PUTs the file at source_path to a pre-signed upload_url.
func Upload(ctx context.Context, client *resty.Client, args task.Args) (any, error) {
	sourcePath, err := args.String("source_path", "")
	if err != nil {
		return nil, err
	}
	uploadURL, err := args.String("upload_url", "")
	if err != nil {
		return nil, err
	}
	if sourcePath == "" || uploadURL == "" {
		return nil, fmt.Errorf("arguments %q and %q are required", "source_path", "upload_url")
	}

	logger := ctxlog.FromContext(ctx).With("action", "upload")

	file, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file '%s': %w", sourcePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file stats for '%s': %w", sourcePath, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(sourcePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	logger.Info("Uploading file to S3", "source", sourcePath, "size", stat.Size(), "contentType", contentType)

	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetContentLength(true).
		SetBody(file).
		Put(uploadURL)
	if err != nil {
		return nil, fmt.Errorf("failed to execute S3 upload request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("S3 upload failed with status: %s", resp.Status())
	}

	logger.Info("Successfully uploaded file", "status", resp.Status())

	return record.NewPatch(map[string]any{
		"success": true,
		"status":  resp.Status(),
		"etag":    strings.Trim(resp.Header().Get("ETag"), `"`),
		"size":    stat.Size(),
	}), nil
}
