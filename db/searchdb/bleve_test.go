package searchdb

import (
	"testing"

	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/logger"
	"github.com/stretchr/testify/require"
)

var testDocuments = []corpus.Document{
	corpus.NewDocument("7-21", "Cardiac Arrest", "Begin CPR and attach the defibrillator.", "adult.pdf", []string{"adult", "medical"}),
	corpus.NewDocument("7-22", "CPR", "Compressions at a rate of 100 to 120 per minute.", "adult.pdf", []string{"adult"}),
	corpus.NewDocument("9-4", "Hypothermia", "Remove wet clothing. If pulseless see Cardiac Arrest.", "peds.pdf", []string{"pediatric", "medical"}),
}

func newTestIndex(t *testing.T) *BleveDB {
	t.Helper()
	db, err := New(logger.Discard())
	require.NoError(t, err)
	require.NoError(t, db.BuildIndex(FromCorpus(testDocuments)))
	t.Cleanup(func() { db.Close() })
	return db
}

func hitIDs(response *Response) []string {
	ids := make([]string, 0, len(response.Hits))
	for _, hit := range response.Hits {
		ids = append(ids, hit.ID)
	}
	return ids
}

func TestBuildIndex(t *testing.T) {
	assert := require.New(t)
	db := newTestIndex(t)

	count, err := db.GetDocCount()
	assert.NoError(err)
	assert.Equal(uint64(len(testDocuments)), count)
}

func TestSearch(t *testing.T) {
	type testCase struct {
		name       string
		query      string
		categories []string
		contains   []string
		excludes   []string
	}

	testCases := []testCase{
		{
			name:     "title match",
			query:    "hypothermia",
			contains: []string{"9-4"},
			excludes: []string{"7-22"},
		},
		{
			name:     "one typo is tolerated",
			query:    "hypotermia",
			contains: []string{"9-4"},
		},
		{
			name:     "id match",
			query:    "7-22",
			contains: []string{"7-22"},
		},
		{
			name:       "categories are combined with and",
			query:      "cardiac",
			categories: []string{"pediatric", "medical"},
			contains:   []string{"9-4"},
			excludes:   []string{"7-21"},
		},
		{
			name:       "empty query lists the category",
			query:      "",
			categories: []string{"adult"},
			contains:   []string{"7-21", "7-22"},
			excludes:   []string{"9-4"},
		},
	}

	db := newTestIndex(t)
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)

			response, err := db.Search(testCase.query, testCase.categories, 10, 0)
			assert.NoError(err)

			ids := hitIDs(response)
			for _, id := range testCase.contains {
				assert.Contains(ids, id)
			}
			for _, id := range testCase.excludes {
				assert.NotContains(ids, id)
			}
		})
	}
}
