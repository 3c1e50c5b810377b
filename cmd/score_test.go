package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
)

func TestParseMode(t *testing.T) {
	mode, err := parseMode("manual")
	require.NoError(t, err)
	assert.Equal(t, model.ModeManual, mode)

	mode, err = parseMode("autopilot")
	require.NoError(t, err)
	assert.Equal(t, model.ModeAutopilot, mode)

	_, err = parseMode("turbo")
	assert.Error(t, err)
}

func TestWriteScoredCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	f, err := os.Create(path)
	require.NoError(t, err)

	scored := []scoredLead{
		{
			Lead: model.Lead{BusinessName: "Joe's Plumbing", Email: "joe@example.com", Phone: "555-0100"},
			Result: model.ScoreResult{
				Score:          95,
				Classification: model.ClassificationHot,
				Reasons:        []string{"No website", "Phone available"},
			},
		},
	}
	require.NoError(t, writeScoredCSV(f, scored))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "business_name,email,phone,score,classification,reasons")
	assert.Contains(t, out, "Joe's Plumbing,joe@example.com,555-0100,95,hot,No website; Phone available")
}

func TestWriteScoredTableTruncatesLongNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	f, err := os.Create(path)
	require.NoError(t, err)

	scored := []scoredLead{
		{
			Lead:   model.Lead{BusinessName: strings.Repeat("x", 60), Email: "x@example.com"},
			Result: model.ScoreResult{Score: 50, Classification: model.ClassificationCold},
		},
	}
	require.NoError(t, writeScoredTable(f, scored))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), strings.Repeat("x", 32)+"...")
}
