package publisher

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/talkpublisher/internal/common"
	"github.com/dmitrijs2005/talkpublisher/internal/config"
	"github.com/dmitrijs2005/talkpublisher/internal/logging"
	"github.com/dmitrijs2005/talkpublisher/internal/manifest"
	"github.com/dmitrijs2005/talkpublisher/internal/mirror"
	"github.com/dmitrijs2005/talkpublisher/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const talkMetadata = `#!/bin/sh
CID="42"
TIT="Talk"
AUT="A|B"
DAT="5"
`

func singleTalk() *fakeRemote {
	return &fakeRemote{
		dirs: map[string][]string{
			"videos":      {"talk"},
			"videos/talk": {"titre.sh", "talk_small.ogv", "talk_big.ogv"},
		},
		files: map[string][]byte{
			"videos/talk/titre.sh": []byte(talkMetadata),
		},
	}
}

func newTestPublisher(t *testing.T, cfg *config.Config, r Remote, m mirror.Mirror) *Publisher {
	t.Helper()
	p, err := New(cfg, r, m, logging.Discard())
	require.NoError(t, err)
	return p
}

func scratchEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestPublish_EndToEnd(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)

	sum, err := newTestPublisher(t, cfg, singleTalk(), nil).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Published: 1}, sum)

	reqs := srv.received()
	require.Len(t, reqs, 1, "upload must be attempted exactly once")
	got := reqs[0]

	assert.Equal(t, "secret", got.apiKey)
	assert.Equal(t, []string{common.ManifestEntryName}, got.entries)

	m := got.manifest
	assert.Equal(t, manifest.TypeDual, m.Type)
	assert.Equal(t, "fr", m.Language)
	assert.Equal(t, "Talk", m.Title)
	require.NotNil(t, m.Speaker)
	assert.Equal(t, "A, B", m.Speaker.Name)
	assert.Nil(t, m.License)
	assert.Equal(t, "2010 Bordeaux", m.Category)
	assert.Equal(t, time.Date(2010, time.July, 5, 0, 0, 0, 0, time.UTC).Format(time.ANSIC), m.Creation)
	assert.Equal(t, []manifest.Resource{
		{URL: "http://cdn.example.org/videos/talk/talk_small.ogv", Quality: "low", Downloadable: true, Displayable: true},
		{URL: "http://cdn.example.org/videos/talk/talk_big.ogv", Quality: "high", Downloadable: true, Displayable: true},
	}, m.Resources)

	assert.Empty(t, scratchEntries(t, cfg.TempDir))
}

func TestPublish_LogsClassifiedResources(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutDirectoryName, srv.URL)

	r := &fakeRemote{dirs: map[string][]string{
		"videos":                            {"20140706_123_My-Great_Talk"},
		"videos/20140706_123_My-Great_Talk": {"low_480p.mp4", "hd_ready_1080.mp4", "original.mov"},
	}}

	var buf bytes.Buffer
	p, err := New(cfg, r, nil, logging.NewTextLogger(&buf, slog.LevelDebug))
	require.NoError(t, err)

	_, err = p.Publish(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "resources classified")
	assert.Contains(t, out, "low=[low_480p.mp4]")
	assert.Contains(t, out, `high="[hd_ready_1080.mp4 original.mov]"`)
}

func TestPublish_IncludesThumbnail(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)

	r := singleTalk()
	r.dirs["videos/talk"] = append(r.dirs["videos/talk"], "titre.jpg")
	r.files["videos/talk/titre.jpg"] = []byte("\xff\xd8jpeg")

	sum, err := newTestPublisher(t, cfg, r, nil).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Published: 1}, sum)

	reqs := srv.received()
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{common.ManifestEntryName, common.ThumbnailEntryName}, reqs[0].entries)
	assert.Equal(t, []byte("\xff\xd8jpeg"), reqs[0].thumb)
	assert.Empty(t, scratchEntries(t, cfg.TempDir))
}

func TestPublish_UploadFailureStillCleansUp(t *testing.T) {
	srv := newUploadServer(t, http.StatusInternalServerError)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)

	r := singleTalk()
	r.dirs["videos/talk"] = append(r.dirs["videos/talk"], "titre.jpg")
	r.files["videos/talk/titre.jpg"] = []byte("jpeg")

	sum, err := newTestPublisher(t, cfg, r, nil).Publish(context.Background())
	require.NoError(t, err, "upload failures never abort the run")
	assert.Equal(t, Summary{Failed: 1}, sum)
	assert.Len(t, srv.received(), 1, "no retry after a failed upload")
	assert.Empty(t, scratchEntries(t, cfg.TempDir))
}

func TestPublish_UnreachableUploadEndpointIsItemLocal(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)
	srv.Close()

	sum, err := newTestPublisher(t, cfg, singleTalk(), nil).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Failed: 1}, sum)
	assert.Empty(t, scratchEntries(t, cfg.TempDir))
}

func TestPublish_KeepsScratchWhenCleanDisabled(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)
	cfg.Clean = false

	_, err := newTestPublisher(t, cfg, singleTalk(), nil).Publish(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"talk.xml", "talk.zip"}, scratchEntries(t, cfg.TempDir))
}

func TestPublish_DirectoryNameLayoutSkipsDoNotAbort(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutDirectoryName, srv.URL)
	cfg.Channel = "2014 Montpellier"

	r := &fakeRemote{dirs: map[string][]string{
		"videos":                            {"no-match", "20140706_123_My-Great_Talk", "20140707_124_Empty", "20140708_125_Slides"},
		"videos/no-match":                   {"low.mp4"},
		"videos/20140706_123_My-Great_Talk": {"low_480p.mp4", "hd_ready_1080.mp4", "original.mov"},
		"videos/20140707_124_Empty":         {},
		"videos/20140708_125_Slides":        {"slides.pdf"},
	}}

	sum, err := newTestPublisher(t, cfg, r, nil).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Published: 1, Skipped: 3}, sum)

	reqs := srv.received()
	require.Len(t, reqs, 1)
	m := reqs[0].manifest
	assert.Equal(t, "My Great Talk", m.Title)
	assert.Nil(t, m.Speaker)
	assert.Equal(t, "2014 Montpellier", m.Category)
	assert.Equal(t, time.Date(2014, time.July, 6, 0, 0, 0, 0, time.UTC).Format(time.ANSIC), m.Creation)

	base := "http://cdn.example.org/videos/20140706_123_My-Great_Talk/"
	assert.Equal(t, []manifest.Resource{
		{URL: base + "low_480p.mp4", Quality: "low", Downloadable: true, Displayable: true},
		{URL: base + "hd_ready_1080.mp4", Quality: "high", Downloadable: true, Displayable: true},
		{URL: base + "original.mov", Quality: "high", Downloadable: true, Displayable: false},
	}, m.Resources)
	assert.Empty(t, r.retrieved, "directory layout never fetches files")
}

func TestPublish_MetadataProblemsSkipItem(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)

	r := &fakeRemote{
		dirs: map[string][]string{
			"videos":        {"nometa", "bad", "nores", "good"},
			"videos/nometa": {"titre.jpg", "a_small.ogv"},
			"videos/bad":    {"titre.sh", "a_small.ogv"},
			"videos/nores":  {"titre.sh", "titre.jpg", "notes.txt"},
			"videos/good":   {"titre.sh", "a_big.ogv"},
		},
		files: map[string][]byte{
			"videos/bad/titre.sh":    []byte(`CID="x" TIT="Bad" DAT="5"`),
			"videos/nores/titre.sh":  []byte(talkMetadata),
			"videos/nores/titre.jpg": []byte("jpeg"),
			"videos/good/titre.sh":   []byte(talkMetadata),
		},
	}

	sum, err := newTestPublisher(t, cfg, r, nil).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Published: 1, Skipped: 3}, sum)
	assert.Len(t, srv.received(), 1)
	assert.NotContains(t, r.retrieved, "videos/nometa/titre.jpg", "no thumbnail fetch without metadata")
	assert.Empty(t, scratchEntries(t, cfg.TempDir), "thumbnail of an item without resources is removed")
}

func TestPublish_RemoteErrorAbortsRun(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)

	r := singleTalk()
	r.dirs["videos"] = []string{"broken", "talk"}
	r.errs = map[string]error{
		"videos/broken": &remote.Error{Op: "NLST", Path: "videos/broken", Kind: remote.KindTransient, Code: 421, Err: errors.New("421 timeout")},
	}

	sum, err := newTestPublisher(t, cfg, r, nil).Publish(context.Background())
	require.Error(t, err)

	var rerr *remote.Error
	require.ErrorAs(t, err, &rerr)
	assert.ErrorIs(t, err, remote.ErrTransient)
	assert.Equal(t, Summary{}, sum)
	assert.NotContains(t, r.listed, "videos/talk", "items after the failure are not visited")
	assert.Empty(t, srv.received())
}

func TestPublish_RootListingFails(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)
	cfg.RemoteRoot = "missing"

	_, err := newTestPublisher(t, cfg, singleTalk(), nil).Publish(context.Background())
	assert.ErrorIs(t, err, remote.ErrPermanent)
}

func TestPublish_MirrorsEveryPackage(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)
	m := &fakeMirror{}

	p := newTestPublisher(t, cfg, singleTalk(), m)
	_, err := p.Publish(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{p.RunID() + "/talk.zip"}, m.keys)
}

func TestPublish_MirrorFailureDoesNotBlockUpload(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)
	m := &fakeMirror{err: common.ErrMirrorFailed}

	sum, err := newTestPublisher(t, cfg, singleTalk(), m).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Published: 1}, sum)
	assert.Len(t, srv.received(), 1)
}

func TestPublish_CancelledContextStopsRun(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPublisher(t, cfg, singleTalk(), nil).Publish(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, srv.received())
}

// flakyTransport drops the session once on the first RETR.
type flakyTransport struct {
	tree    *fakeRemote
	dropped *bool
}

func (f flakyTransport) Login(string, string) error { return nil }

func (f flakyTransport) NameList(p string) ([]string, error) {
	return f.tree.List(context.Background(), p)
}

func (f flakyTransport) Retrieve(p string) ([]byte, error) {
	if !*f.dropped {
		*f.dropped = true
		return nil, &textproto.Error{Code: 421, Msg: "Timeout."}
	}
	return f.tree.Retrieve(context.Background(), p)
}

func (f flakyTransport) Quit() error { return nil }

func TestPublish_RecoversFromDroppedSession(t *testing.T) {
	srv := newUploadServer(t, http.StatusOK)
	cfg := testConfig(t, config.LayoutMetadataFile, srv.URL)

	tree := singleTalk()
	dropped := false
	dials := 0
	dial := func(context.Context, string) (remote.Transport, error) {
		dials++
		return flakyTransport{tree: tree, dropped: &dropped}, nil
	}

	client, err := remote.Dial(context.Background(), "ftp.example.org:21", remote.Credentials{}, dial, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sum, err := newTestPublisher(t, cfg, client, nil).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Published: 1}, sum)
	assert.Equal(t, 2, dials, "one reconnect")
}

func TestNew_UnknownLayout(t *testing.T) {
	cfg := testConfig(t, "flat", "http://localhost/")
	_, err := New(cfg, singleTalk(), nil, logging.Discard())
	assert.Error(t, err)
}
