package publisher

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dmitrijs2005/talkpublisher/internal/common"
	"github.com/dmitrijs2005/talkpublisher/internal/config"
	"github.com/dmitrijs2005/talkpublisher/internal/manifest"
	"github.com/dmitrijs2005/talkpublisher/internal/remote"
	"github.com/stretchr/testify/assert"
)

// fakeRemote serves a fixed tree. Unknown paths fail like a 550 reply.
type fakeRemote struct {
	dirs  map[string][]string
	files map[string][]byte
	errs  map[string]error

	mu        sync.Mutex
	listed    []string
	retrieved []string
}

func (f *fakeRemote) List(_ context.Context, p string) ([]string, error) {
	f.mu.Lock()
	f.listed = append(f.listed, p)
	f.mu.Unlock()

	if err := f.errs[p]; err != nil {
		return nil, err
	}
	names, ok := f.dirs[p]
	if !ok {
		return nil, notFound("NLST", p)
	}
	return names, nil
}

func (f *fakeRemote) Retrieve(_ context.Context, p string) ([]byte, error) {
	f.mu.Lock()
	f.retrieved = append(f.retrieved, p)
	f.mu.Unlock()

	if err := f.errs[p]; err != nil {
		return nil, err
	}
	data, ok := f.files[p]
	if !ok {
		return nil, notFound("RETR", p)
	}
	return data, nil
}

func notFound(op, p string) *remote.Error {
	return &remote.Error{Op: op, Path: p, Kind: remote.KindPermanent, Code: 550, Err: errors.New("550 no such file or directory")}
}

type fakeMirror struct {
	err  error
	keys []string
}

func (m *fakeMirror) Store(_ context.Context, name, _ string) error {
	m.keys = append(m.keys, name)
	return m.err
}

// upload is what the upload server saw in one request.
type upload struct {
	apiKey   string
	entries  []string
	manifest manifest.MetaCast
	thumb    []byte
}

type uploadServer struct {
	*httptest.Server
	mu       sync.Mutex
	status   int
	requests []upload
}

func newUploadServer(t *testing.T, status int) *uploadServer {
	t.Helper()
	us := &uploadServer{status: status}
	us.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := upload{apiKey: r.FormValue(common.APIKeyFieldName)}

		f, _, err := r.FormFile(common.FileFieldName)
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, zf := range zr.File {
			got.entries = append(got.entries, zf.Name)
			rc, err := zf.Open()
			if !assert.NoError(t, err) {
				continue
			}
			body, _ := io.ReadAll(rc)
			_ = rc.Close()
			switch zf.Name {
			case common.ManifestEntryName:
				assert.NoError(t, xml.Unmarshal(body, &got.manifest))
			case common.ThumbnailEntryName:
				got.thumb = body
			}
		}

		us.mu.Lock()
		us.requests = append(us.requests, got)
		us.mu.Unlock()

		w.WriteHeader(us.status)
	}))
	t.Cleanup(us.Close)
	return us
}

func (us *uploadServer) received() []upload {
	us.mu.Lock()
	defer us.mu.Unlock()
	return append([]upload(nil), us.requests...)
}

func testConfig(t *testing.T, layout, uploadURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Layout = layout
	cfg.RemoteRoot = "videos"
	cfg.URLTemplate = "http://cdn.example.org/videos/{media_id}/{filename}"
	cfg.APIKey = "secret"
	cfg.UploadURL = uploadURL
	cfg.TempDir = t.TempDir()
	return cfg
}
