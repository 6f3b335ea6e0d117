package osmparser

import (
	"strings"
	"testing"

	"github.com/navcore/navcore/internal/fixtures"
	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseTwoWayResidential(t *testing.T) {
	g := graph.New(zap.NewNop())
	p := New(zap.NewNop())

	ok := p.Parse(g, strings.NewReader(fixtures.TwoNodeResidential))
	require.True(t, ok)

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())

	edge, ok := g.GetEdge(0)
	require.True(t, ok)
	assert.Equal(t, datastructure.RoadResidential, edge.Kind)
	assert.InDelta(t, 30.0, edge.SpeedLimitKph, 1e-9)
}

func TestParseOnewayMotorway(t *testing.T) {
	g := graph.New(zap.NewNop())
	p := New(zap.NewNop())

	ok := p.Parse(g, strings.NewReader(fixtures.TwoNodeMotorway))
	require.True(t, ok)

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())

	edge, ok := g.GetEdge(0)
	require.True(t, ok)
	assert.Equal(t, datastructure.RoadHighway, edge.Kind)
	assert.InDelta(t, 100.0, edge.SpeedLimitKph, 1e-9)
}

func TestParseGrid3x3(t *testing.T) {
	g := graph.New(zap.NewNop())
	p := New(zap.NewNop())

	ok := p.Parse(g, strings.NewReader(fixtures.Grid3x3))
	require.True(t, ok)

	assert.Equal(t, 9, g.NodeCount())
	// 12 ways, each two-way (not oneway), so 24 directed edges.
	assert.Equal(t, 24, g.EdgeCount())
}

func TestParseRejectsNoHighwayWays(t *testing.T) {
	g := graph.New(zap.NewNop())
	p := New(zap.NewNop())

	ok := p.Parse(g, strings.NewReader(fixtures.NoHighwaysXML))
	assert.False(t, ok)
}

func TestParseRejectsMalformedXML(t *testing.T) {
	g := graph.New(zap.NewNop())
	p := New(zap.NewNop())

	ok := p.Parse(g, strings.NewReader(fixtures.MalformedXML))
	assert.False(t, ok)
}

func TestLoadingSameDocumentTwiceIsIdempotent(t *testing.T) {
	g := graph.New(zap.NewNop())
	p := New(zap.NewNop())

	p.Parse(g, strings.NewReader(fixtures.Grid3x3))
	firstNodes, firstEdges := g.NodeCount(), g.EdgeCount()

	g.Clear()
	p.Parse(g, strings.NewReader(fixtures.Grid3x3))

	assert.Equal(t, firstNodes, g.NodeCount())
	assert.Equal(t, firstEdges, g.EdgeCount())
}
