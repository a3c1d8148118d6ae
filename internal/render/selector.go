package render

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/yegors/metar-epd/internal/config"
	"github.com/yegors/metar-epd/pkg/logger"
)

// ErrEmptyLayoutList is returned when selection runs against zero layouts
var ErrEmptyLayoutList = errors.New("empty layout list")

// Selector picks the layout to run each render cycle. The cycle counters
// live here, not in package state, so independent selectors never share
// rotation position.
type Selector struct {
	layouts   []Layout
	mode      int
	preferred []int
	logger    *logger.Logger

	cycleNum  int
	prefCycle int
	rng       *rand.Rand
}

// NewSelector creates a selector over the given layouts. The mode is either
// a fixed layout index or one of the LayoutRandom / LayoutCycleAll
// sentinels; a non-empty preferred list switches cycling to the preferred
// subset.
func NewSelector(layouts []Layout, mode int, preferred []int, rng *rand.Rand, logger *logger.Logger) *Selector {
	return &Selector{
		layouts:   layouts,
		mode:      mode,
		preferred: preferred,
		rng:       rng,
		logger:    logger.Named("selector"),
	}
}

// Pick returns the layout for the next render cycle and advances the
// rotation counters. A selection error leaves the selector usable for the
// next call.
func (s *Selector) Pick() (Layout, error) {
	if len(s.layouts) == 0 {
		return Layout{}, ErrEmptyLayoutList
	}

	switch {
	case s.mode == config.LayoutRandom:
		idx := s.rng.Intn(len(s.layouts))
		s.logger.Debug("selected random layout",
			logger.Int("index", idx),
			logger.String("name", s.layouts[idx].Name))
		return s.layouts[idx], nil

	case s.mode == config.LayoutCycleAll && len(s.preferred) > 0:
		// Cycle the preferred subset. The counter advances even when the
		// entry is unusable so a bad entry skips rather than wedges the
		// rotation.
		pos := s.prefCycle % len(s.preferred)
		s.prefCycle++
		idx := s.preferred[pos]
		if idx < 0 || idx >= len(s.layouts) {
			return Layout{}, fmt.Errorf("preferred layout index %d out of range (have %d layouts)", idx, len(s.layouts))
		}
		s.logger.Debug("selected preferred layout",
			logger.Int("index", idx),
			logger.String("name", s.layouts[idx].Name))
		return s.layouts[idx], nil

	case s.mode == config.LayoutCycleAll:
		idx := s.cycleNum % len(s.layouts)
		s.cycleNum++
		s.logger.Debug("selected cycled layout",
			logger.Int("index", idx),
			logger.String("name", s.layouts[idx].Name))
		return s.layouts[idx], nil

	default:
		if s.mode < 0 || s.mode >= len(s.layouts) {
			return Layout{}, fmt.Errorf("layout index %d out of range (have %d layouts)", s.mode, len(s.layouts))
		}
		return s.layouts[s.mode], nil
	}
}
