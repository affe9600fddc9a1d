package reference

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/db/kvdb"
	"github.com/meghashyamc/protocolnav/logger"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *kvdb.BoltDB) {
	t.Helper()
	store, err := kvdb.Open(logger.Discard(), filepath.Join(t.TempDir(), "refs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	idx := newTestIndex(t,
		corpus.NewDocument("7-21", "Cardiac Arrest", "Start CPR immediately.", "", nil),
		corpus.NewDocument("7-22", "CPR", "Used during cardiac arrest.", "", nil),
	)
	return New(logger.Discard(), idx, newTestScanner(PolicyLeftmostLongest), store), store
}

func TestServiceLinkify(t *testing.T) {
	assert := require.New(t)
	service, store := newTestService(t)

	segments, err := service.Linkify(context.Background(), "7-21")
	assert.NoError(err)
	assert.Equal([]Segment{
		{Text: "Start "},
		{Text: "CPR", TargetID: "7-22"},
		{Text: " immediately."},
	}, segments)

	keys, err := store.GetAllKeys(kvdb.ReferencesBucket)
	assert.NoError(err)
	assert.Len(keys, 1)

	cached, err := service.Linkify(context.Background(), "7-21")
	assert.NoError(err)
	assert.Equal(segments, cached)
}

func TestServicePrecompute(t *testing.T) {
	assert := require.New(t)
	service, store := newTestService(t)

	assert.NoError(service.Precompute("7-22"))
	assert.ErrorIs(service.Precompute("missing"), ErrDocumentNotFound)

	keys, err := store.GetAllKeys(kvdb.ReferencesBucket)
	assert.NoError(err)
	assert.Len(keys, 1)
}

func TestServiceErrors(t *testing.T) {
	assert := require.New(t)
	service, _ := newTestService(t)

	_, err := service.Linkify(context.Background(), "9-9")
	assert.ErrorIs(err, ErrDocumentNotFound)

	_, err = service.Document("9-9")
	assert.ErrorIs(err, ErrDocumentNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.Linkify(ctx, "7-21")
	assert.ErrorIs(err, context.Canceled)
}

func TestServiceWithoutStore(t *testing.T) {
	assert := require.New(t)
	idx := newTestIndex(t,
		corpus.NewDocument("1", "Burns", "See Airway.", "", nil),
		corpus.NewDocument("2", "Airway", "", "", nil),
	)
	service := New(logger.Discard(), idx, newTestScanner(PolicyLeftmostLongest), nil)

	segments, err := service.Linkify(context.Background(), "1")
	assert.NoError(err)
	assert.Len(segments, 3)
	assert.NoError(service.Precompute("1"))
}
