package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/tapeview/internal/replay"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	engine, err := replay.New(replay.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	return NewModel(engine, nil)
}

func TestHelpLineCarriesSegmentLegend(t *testing.T) {
	m := newTestModel(t)

	line := m.helpLine()
	assert.Contains(t, line, "momentum")
	assert.Contains(t, line, "consolidation")
	assert.Contains(t, line, "position")
}

func TestHelpLineShowsStatusMessage(t *testing.T) {
	m := newTestModel(t)
	m.statusMsg = "journal: disk full"

	assert.Contains(t, m.helpLine(), "journal: disk full")
}
