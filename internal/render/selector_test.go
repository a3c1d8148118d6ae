package render

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/metar-epd/internal/config"
	"github.com/yegors/metar-epd/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "json"})
	require.NoError(t, err)
	return log
}

func testLayouts() []Layout {
	return []Layout{
		{Name: "wind"},
		{Name: "bigtext"},
		{Name: "detail"},
	}
}

func TestSelectorFixedIndex(t *testing.T) {
	s := NewSelector(testLayouts(), 1, nil, rand.New(rand.NewSource(1)), testLogger(t))

	for i := 0; i < 5; i++ {
		layout, err := s.Pick()
		require.NoError(t, err)
		assert.Equal(t, "bigtext", layout.Name)
	}
}

func TestSelectorFixedIndexOutOfRange(t *testing.T) {
	s := NewSelector(testLayouts(), 7, nil, rand.New(rand.NewSource(1)), testLogger(t))

	_, err := s.Pick()
	assert.Error(t, err)
}

func TestSelectorCycleAll(t *testing.T) {
	s := NewSelector(testLayouts(), config.LayoutCycleAll, nil, rand.New(rand.NewSource(1)), testLogger(t))

	want := []string{"wind", "bigtext", "detail", "wind", "bigtext"}
	for _, name := range want {
		layout, err := s.Pick()
		require.NoError(t, err)
		assert.Equal(t, name, layout.Name)
	}
}

func TestSelectorCyclePreferred(t *testing.T) {
	s := NewSelector(testLayouts(), config.LayoutCycleAll, []int{2, 0}, rand.New(rand.NewSource(1)), testLogger(t))

	want := []string{"detail", "wind", "detail", "wind"}
	for _, name := range want {
		layout, err := s.Pick()
		require.NoError(t, err)
		assert.Equal(t, name, layout.Name)
	}
}

func TestSelectorPreferredOutOfRangeAdvances(t *testing.T) {
	// A bad preferred entry fails its own call but must not wedge the
	// rotation: the next call moves on to the next entry.
	s := NewSelector(testLayouts(), config.LayoutCycleAll, []int{5, 1}, rand.New(rand.NewSource(1)), testLogger(t))

	_, err := s.Pick()
	assert.Error(t, err)

	layout, err := s.Pick()
	require.NoError(t, err)
	assert.Equal(t, "bigtext", layout.Name)

	_, err = s.Pick()
	assert.Error(t, err)

	layout, err = s.Pick()
	require.NoError(t, err)
	assert.Equal(t, "bigtext", layout.Name)
}

func TestSelectorRandomStaysInRange(t *testing.T) {
	layouts := testLayouts()
	s := NewSelector(layouts, config.LayoutRandom, nil, rand.New(rand.NewSource(42)), testLogger(t))

	names := map[string]bool{}
	for _, l := range layouts {
		names[l.Name] = true
	}
	for i := 0; i < 50; i++ {
		layout, err := s.Pick()
		require.NoError(t, err)
		assert.True(t, names[layout.Name])
	}
}

func TestSelectorEmptyLayoutList(t *testing.T) {
	s := NewSelector(nil, config.LayoutRandom, nil, rand.New(rand.NewSource(1)), testLogger(t))

	_, err := s.Pick()
	assert.ErrorIs(t, err, ErrEmptyLayoutList)
}
