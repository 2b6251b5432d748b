package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/pkg/types"
)

func TestRecompute_FocalIsSelfAtDepthZero(t *testing.T) {
	g := fourGenerations(t)

	for _, focal := range g.Names() {
		sel, err := Recompute(g, focal)
		require.NoError(t, err)
		assert.Equal(t, types.RelSelf, sel.Relationship(focal))
		assert.Equal(t, 0, sel.Depth(focal))
		assert.Len(t, sel.Relationships, g.Len())
		assert.Len(t, sel.Depths, g.Len())
	}
}

func TestRecompute_UnknownFocal(t *testing.T) {
	_, err := Recompute(nuclearFamily(t), "Nobody")
	assert.ErrorIs(t, err, graph.ErrUnknownPerson)
}

func TestSelection_NilIsNeutral(t *testing.T) {
	var sel *Selection
	assert.Equal(t, types.RelNone, sel.Relationship("Alice"))
	assert.Equal(t, Unreached, sel.Depth("Alice"))
}

func TestSelection_Members(t *testing.T) {
	g := nuclearFamily(t)
	sel, err := Recompute(g, "Alice")
	require.NoError(t, err)

	assert.Equal(t, []string{"Bob", "Carol"}, sel.Members(g.Names(), types.RelChild))
	assert.Empty(t, sel.Members(g.Names(), types.RelCousin))
}

func TestEngine_SelectAndCurrent(t *testing.T) {
	e, err := NewEngine(nuclearFamily(t), DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Nil(t, e.Current())

	var notified *Selection
	e.SetOnSelect(func(v View) { notified = v.Selection })

	sel, err := e.Select("Bob")
	require.NoError(t, err)
	assert.Same(t, sel, e.Current())
	assert.Same(t, sel, notified)
	assert.Equal(t, types.RelSibling, sel.Relationship("Carol"))

	_, err = e.Select("Nobody")
	assert.ErrorIs(t, err, graph.ErrUnknownPerson)
	assert.Same(t, sel, e.Current(), "failed select keeps the previous selection")

	e.Clear()
	assert.Nil(t, e.Current())
	assert.Nil(t, notified, "clear notifies with a nil selection")
}

func TestEngine_LookupUsesCache(t *testing.T) {
	e, err := NewEngine(nuclearFamily(t), DefaultConfig(), nil)
	require.NoError(t, err)

	first, err := e.Lookup("Alice")
	require.NoError(t, err)
	second, err := e.Lookup("Alice")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Nil(t, e.Current(), "lookup does not change the active selection")
}

func TestEngine_WithoutCache(t *testing.T) {
	e, err := NewEngine(nuclearFamily(t), Config{CacheSize: 0}, nil)
	require.NoError(t, err)

	first, err := e.Lookup("Alice")
	require.NoError(t, err)
	second, err := e.Lookup("Alice")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
}

func TestEngine_ReloadRecomputesCurrent(t *testing.T) {
	e, err := NewEngine(nuclearFamily(t), DefaultConfig(), nil)
	require.NoError(t, err)

	before, err := e.Select("Bob")
	require.NoError(t, err)
	assert.Equal(t, types.RelNone, before.Relationship("Dave"))

	grown := buildTree(t,
		[]string{"Alice"},
		[]string{"Bob", "Alice"},
		[]string{"Carol", "Alice"},
		[]string{"Dave", "Alice"},
	)
	require.NoError(t, e.Reload(grown))

	after := e.Current()
	require.NotNil(t, after)
	assert.NotSame(t, before, after)
	assert.Equal(t, types.RelSibling, after.Relationship("Dave"))
	assert.Same(t, grown, e.Graph())
}

func TestEngine_ReloadClearsMissingFocal(t *testing.T) {
	e, err := NewEngine(nuclearFamily(t), DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = e.Select("Carol")
	require.NoError(t, err)

	require.NoError(t, e.Reload(buildTree(t, []string{"Alice"}, []string{"Bob", "Alice"})))
	assert.Nil(t, e.Current())
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(nil, DefaultConfig(), nil)
	assert.Error(t, err)

	_, err = NewEngine(graph.New(), Config{CacheSize: -1}, nil)
	assert.Error(t, err)
}

func TestEngine_ViewPairsSelectionWithItsGraph(t *testing.T) {
	small := nuclearFamily(t)
	e, err := NewEngine(small, DefaultConfig(), nil)
	require.NoError(t, err)

	v := e.View()
	assert.Same(t, small, v.Graph)
	assert.Nil(t, v.Selection)

	v, err = e.SelectView("Bob")
	require.NoError(t, err)
	assert.Same(t, small, v.Graph)
	assert.Same(t, v.Selection, e.Current())

	grown := buildTree(t,
		[]string{"Alice"},
		[]string{"Bob", "Alice"},
		[]string{"Carol", "Alice"},
		[]string{"Dave", "Alice"},
	)
	require.NoError(t, e.Reload(grown))

	// A view taken before the reload still describes the old tree.
	assert.Same(t, small, v.Graph)
	assert.Len(t, v.Selection.Relationships, small.Len())

	after, err := e.LookupView("Bob")
	require.NoError(t, err)
	assert.Same(t, grown, after.Graph)
	assert.Equal(t, types.RelSibling, after.Selection.Relationship("Dave"))

	cleared := e.Clear()
	assert.Same(t, grown, cleared.Graph)
	assert.Nil(t, cleared.Selection)

	_, err = e.SelectView("Nobody")
	assert.ErrorIs(t, err, graph.ErrUnknownPerson)
}

func TestEngine_ViewConsistentDuringReloads(t *testing.T) {
	small := nuclearFamily(t)
	grown := buildTree(t,
		[]string{"Alice"},
		[]string{"Bob", "Alice"},
		[]string{"Carol", "Alice"},
		[]string{"Dave", "Alice"},
		[]string{"Erin", "", "", "Dave"},
	)
	e, err := NewEngine(small, DefaultConfig(), nil)
	require.NoError(t, err)

	var notifyMu sync.Mutex
	var notifications []View
	e.SetOnSelect(func(v View) {
		notifyMu.Lock()
		notifications = append(notifications, v)
		notifyMu.Unlock()
	})

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			g := small
			if i%2 == 0 {
				g = grown
			}
			_ = e.Reload(g)
		}
	}()

	check := func(v View) {
		require.NotNil(t, v.Selection)
		assert.Len(t, v.Selection.Relationships, v.Graph.Len(), "selection computed on another graph")
		for name := range v.Selection.Relationships {
			assert.True(t, v.Graph.Has(name), "%s missing from the view's graph", name)
		}
	}

	for i := 0; i < 200; i++ {
		v, err := e.SelectView("Bob")
		require.NoError(t, err)
		check(v)

		v, err = e.LookupView("Alice")
		require.NoError(t, err)
		check(v)

		if cur := e.View(); cur.Selection != nil {
			check(cur)
		}
	}
	close(done)
	wg.Wait()

	notifyMu.Lock()
	defer notifyMu.Unlock()
	require.Len(t, notifications, 200)
	for _, v := range notifications {
		check(v)
	}
}
