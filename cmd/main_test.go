package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/meghashyamc/protocolnav/corpus"
	"github.com/meghashyamc/protocolnav/services/reference"
	"github.com/meghashyamc/protocolnav/services/search"
	"github.com/stretchr/testify/require"
)

func TestRenderSegments(t *testing.T) {
	assert := require.New(t)
	color.NoColor = true

	rendered := renderSegments([]reference.Segment{
		{Text: "Begin "},
		{Text: "CPR", TargetID: "7-22"},
		{Text: " now."},
	})

	assert.Equal("Begin CPR→7-22 now.", rendered)
}

func TestPrintResults(t *testing.T) {
	assert := require.New(t)
	color.NoColor = true

	var out bytes.Buffer
	printResults(&out, &search.Response{}, 0.4)
	assert.Equal("no matching protocols\n", out.String())

	out.Reset()
	printResults(&out, &search.Response{
		Results: []search.Result{{Document: corpus.NewDocument("7-22", "CPR", "", "", []string{"adult"})}},
		Total:   3,
	}, 0.4)
	assert.Equal("7-22     CPR  [adult]\n1 of 3 shown (threshold 0.40)\n", out.String())
}
