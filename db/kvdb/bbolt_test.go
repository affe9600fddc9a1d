package kvdb

import (
	"path/filepath"
	"testing"

	"github.com/meghashyamc/protocolnav/logger"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *BoltDB {
	t.Helper()
	db, err := Open(logger.Discard(), filepath.Join(t.TempDir(), "kvdb", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSetGetDelete(t *testing.T) {
	assert := require.New(t)
	db := openTestDB(t)

	assert.NoError(db.Set(RequestsBucket, "req-1", "20"))
	value, err := db.Get(RequestsBucket, "req-1")
	assert.NoError(err)
	assert.Equal("20", value)

	_, err = db.Get(ReferencesBucket, "req-1")
	assert.ErrorIs(err, ErrNotFound, "buckets should not share keys")

	assert.NoError(db.Delete(RequestsBucket, "req-1"))
	_, err = db.Get(RequestsBucket, "req-1")
	assert.ErrorIs(err, ErrNotFound)
}

func TestKeyErrors(t *testing.T) {
	type testCase struct {
		name string
		call func(db *BoltDB) error
		want error
	}

	testCases := []testCase{
		{
			name: "empty key on set",
			call: func(db *BoltDB) error { return db.Set(RequestsBucket, "", "x") },
			want: ErrInvalidKey,
		},
		{
			name: "empty key on get",
			call: func(db *BoltDB) error { _, err := db.Get(RequestsBucket, ""); return err },
			want: ErrInvalidKey,
		},
		{
			name: "empty key on delete",
			call: func(db *BoltDB) error { return db.Delete(RequestsBucket, "") },
			want: ErrInvalidKey,
		},
		{
			name: "unknown bucket",
			call: func(db *BoltDB) error { return db.Set("missing", "k", "v") },
			want: ErrBucketNotFound,
		},
		{
			name: "missing key",
			call: func(db *BoltDB) error { _, err := db.Get(ReferencesBucket, "nope"); return err },
			want: ErrNotFound,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			db := openTestDB(t)
			assert.ErrorIs(testCase.call(db), testCase.want)
		})
	}
}

func TestGetAllKeys(t *testing.T) {
	assert := require.New(t)
	db := openTestDB(t)

	keys, err := db.GetAllKeys(ReferencesBucket)
	assert.NoError(err)
	assert.Empty(keys)

	assert.NoError(db.Set(ReferencesBucket, "b", "2"))
	assert.NoError(db.Set(ReferencesBucket, "a", "1"))

	keys, err = db.GetAllKeys(ReferencesBucket)
	assert.NoError(err)
	assert.Equal([]string{"a", "b"}, keys)
}
