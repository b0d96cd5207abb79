package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/record"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/task"
)

func TestUpload(t *testing.T) {
	var gotBody []byte
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"abc123"`)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ok":true}`), 0o644))

	reg := registry.New(&Module{})
	up, err := reg.NewTask("s3_upload", task.Args{"upload_url": srv.URL + "/bucket/report.json"})
	require.NoError(t, err)

	out, err := up.Execute(context.Background(), nil, task.Args{"source_path": path})
	require.NoError(t, err)

	res := out.(*record.Patch)
	etag, _ := res.Get("etag")
	size, _ := res.Get("size")
	assert.Equal(t, "abc123", etag)
	assert.Equal(t, int64(11), size)
	assert.Equal(t, `{"ok":true}`, string(gotBody))
	assert.Equal(t, "application/json", gotType)
}

func TestUpload_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	reg := registry.New(&Module{})
	up, err := reg.NewTask("s3_upload", nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = up.Execute(ctx, nil, task.Args{"source_path": path})
	assert.ErrorContains(t, err, "required")

	_, err = up.Execute(ctx, nil, task.Args{"source_path": path + ".missing", "upload_url": srv.URL})
	assert.ErrorContains(t, err, "failed to open")

	_, err = up.Execute(ctx, nil, task.Args{"source_path": path, "upload_url": srv.URL})
	assert.ErrorContains(t, err, "403")
}
