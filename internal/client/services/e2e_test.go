package services

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/client"
	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/dbx"
	"github.com/dmitrijs2005/evidencevault/internal/server/config"
	"github.com/dmitrijs2005/evidencevault/internal/server/httpapi"
	"github.com/dmitrijs2005/evidencevault/internal/server/keycustody"
	sm "github.com/dmitrijs2005/evidencevault/internal/server/models"
	"github.com/dmitrijs2005/evidencevault/internal/server/objectstore"
	"github.com/dmitrijs2005/evidencevault/internal/server/repositories/evidence"
	"github.com/dmitrijs2005/evidencevault/internal/server/repositories/repomanager"
	ss "github.com/dmitrijs2005/evidencevault/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyRepo fails inserts for one file name.
type flakyRepo struct {
	evidence.Repository
	failName string
}

func (r *flakyRepo) Insert(ctx context.Context, f *sm.EvidenceFile) error {
	if f.FileName == r.failName {
		return errors.New("connection reset")
	}
	return r.Repository.Insert(ctx, f)
}

type flakyManager struct {
	repomanager.RepositoryManager
	repo *flakyRepo
}

func (m *flakyManager) Evidence(dbx.DBTX) evidence.Repository { return m.repo }

type stack struct {
	svc   EvidenceService
	store *objectstore.Memory
}

// newStack runs the real server handlers over an in-memory object store and
// repository, and points a real HTTP client at them.
func newStack(t *testing.T, custodian keycustody.Custodian, failName string) *stack {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	store, err := objectstore.NewMemory("", "objects")
	require.NoError(t, err)

	rm := &flakyManager{repo: &flakyRepo{Repository: evidence.NewMemoryRepository(), failName: failName}}
	es := ss.NewEvidenceService(nil, rm, store, custodian, cfg, testLogger())

	srv := httpapi.NewHTTPServer(":0", testLogger(), es, cfg.MaxUploadSize)
	srv.Handle(store.Prefix(), store)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	store.SetBaseURL(ts.URL)

	c := client.NewHTTPClient(ts.URL, 5*time.Second)
	return &stack{svc: NewEvidenceService(c, ts.Client(), testLogger()), store: store}
}

func TestEndToEnd_HelloWorld(t *testing.T) {
	for name, custodian := range map[string]keycustody.Custodian{
		"plain":    keycustody.Plain{},
		"envelope": keycustody.NewEnvelope("correct horse", "battery staple"),
	} {
		t.Run(name, func(t *testing.T) {
			st := newStack(t, custodian, "")
			ctx := context.Background()

			results := st.svc.Upload(ctx, "report-42", []models.LocalFile{
				{Name: "hello.txt", MimeType: "text/plain", Data: []byte("Hello, World!")},
			}, nil)
			require.Len(t, results, 1)
			require.NoError(t, results[0].Err)

			items, err := st.svc.List(ctx, "report-42")
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, results[0].EvidenceID, items[0].ID)
			assert.Equal(t, int64(13), items[0].Size)

			stored, _, ok := st.store.Get(items[0].StoragePath)
			require.True(t, ok)
			assert.NotContains(t, string(stored), "Hello")

			pt, err := st.svc.Retrieve(ctx, items[0], models.IntentDownload)
			require.NoError(t, err)
			assert.Equal(t, "Hello, World!", string(pt.Data))
			assert.Equal(t, "hello.txt", pt.FileName)
			assert.Equal(t, "text/plain", pt.MimeType)

			require.NoError(t, st.svc.Delete(ctx, items[0].ID))
			assert.Zero(t, st.store.Len())

			_, err = st.svc.Retrieve(ctx, items[0], models.IntentDownload)
			assert.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestEndToEnd_MetadataFailureLeavesNoObject(t *testing.T) {
	st := newStack(t, keycustody.Plain{}, "b.jpg")
	ctx := context.Background()

	files := []models.LocalFile{
		{Name: "a.jpg", MimeType: "image/jpeg", Data: []byte("one")},
		{Name: "b.jpg", MimeType: "image/jpeg", Data: []byte("two")},
		{Name: "c.jpg", MimeType: "image/jpeg", Data: []byte("three")},
	}
	results := st.svc.Upload(ctx, "r1", files, nil)

	require.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, common.ErrMetadata)
	assert.NotErrorIs(t, results[1].Err, common.ErrCompensation)
	require.NoError(t, results[2].Err)

	assert.Equal(t, 2, st.store.Len(), "the object of the failed file must be removed")

	items, err := st.svc.List(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, it := range items {
		pt, err := st.svc.Retrieve(ctx, it, models.IntentPreview)
		require.NoError(t, err)
		switch it.FileName {
		case "a.jpg":
			assert.Equal(t, "one", string(pt.Data))
		case "c.jpg":
			assert.Equal(t, "three", string(pt.Data))
		default:
			t.Fatalf("unexpected item %s", it.FileName)
		}
	}
}
