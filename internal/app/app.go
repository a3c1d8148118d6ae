// Package app runs the fetch-decode-render-display cycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/yegors/metar-epd/internal/config"
	"github.com/yegors/metar-epd/internal/display"
	"github.com/yegors/metar-epd/internal/render"
	"github.com/yegors/metar-epd/internal/units"
	"github.com/yegors/metar-epd/internal/weather"
	"github.com/yegors/metar-epd/pkg/logger"
)

// errorRetryDelay is the wait after a failed cycle before trying again
const errorRetryDelay = 60 * time.Second

// Status is a snapshot of the display loop state for the admin API
type Status struct {
	Airport    string    `json:"airport"`
	Category   string    `json:"flight_category"`
	RawMETAR   string    `json:"raw_metar"`
	ObservedAt time.Time `json:"observed_at"`
	LastRender time.Time `json:"last_render"`
	NextRender time.Time `json:"next_render"`
	CycleCount int       `json:"cycle_count"`
	LastError  string    `json:"last_error,omitempty"`
}

// App owns the render loop: fetch a METAR, decode it, pick a layout, draw
// it, push the frame, sleep, repeat.
type App struct {
	cfg      *config.Config
	client   *weather.Client
	renderer *render.Renderer
	selector *render.Selector
	disp     display.Display
	logger   *logger.Logger

	refreshCh chan struct{}

	mu         sync.RWMutex
	lastReport *weather.Report
	lastRender time.Time
	nextRender time.Time
	lastError  string
	cycleCount int
}

// New wires the application together from the validated configuration
func New(cfg *config.Config, disp display.Display, log *logger.Logger) (*App, error) {
	fonts, err := render.NewFontSet()
	if err != nil {
		log.Warn("falling back to basic fonts", logger.Error(err))
		fonts = render.BasicFontSet()
	}

	sel := units.Selection{
		WindSpeedUnit:   cfg.Display.WindSpeedUnits,
		CloudHeightUnit: cfg.Display.CloudHeightUnits,
		VisibilityUnit:  cfg.Display.VisibilityUnits,
		TemperatureUnit: cfg.Display.TemperatureUnits,
	}
	renderer := render.NewRenderer(fonts, sel, cfg.Station, cfg.Display.ShowRemarks, log)

	preferred, err := cfg.Display.ParsePreferredLayouts()
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selector := render.NewSelector(renderer.Layouts(), cfg.Display.Layout, preferred, rng, log)

	return &App{
		cfg:       cfg,
		client:    weather.NewClient(cfg.Weather, log),
		renderer:  renderer,
		selector:  selector,
		disp:      disp,
		logger:    log.Named("app"),
		refreshCh: make(chan struct{}, 1),
	}, nil
}

// Run executes the render loop until the context is cancelled. A failed
// cycle shows the error screen and retries after a fixed delay instead of
// waiting the full update interval.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting display loop",
		logger.String("airport", a.cfg.Station.AirportCode),
		logger.Int("layout", a.cfg.Display.Layout))

	for {
		category, err := a.cycle(ctx)

		var wait time.Duration
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.logger.Error("render cycle failed", logger.Error(err))
			a.setError(err)
			a.showErrorScreen(err)
			wait = errorRetryDelay
		} else {
			a.setError(nil)
			wait = SleepInterval(category, a.cfg.Display.IntervalSecs)
		}

		a.mu.Lock()
		a.nextRender = time.Now().Add(wait)
		a.mu.Unlock()
		a.logger.Info("sleeping until next update", logger.Duration("wait", wait))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.refreshCh:
			a.logger.Info("refresh requested, skipping remaining sleep")
		case <-time.After(wait):
		}
	}
}

// cycle runs one fetch-decode-render-display pass and returns the flight
// category used to pick the next sleep interval.
func (a *App) cycle(ctx context.Context) (weather.FlightCategory, error) {
	now := time.Now()
	canvas := render.NewCanvas(display.PanelWidth, display.PanelHeight)

	resp, err := a.client.FetchMETAR(ctx, a.cfg.Station.AirportCode)
	if err != nil && !errors.Is(err, weather.ErrNoData) {
		return weather.CategoryUnknown, fmt.Errorf("weather fetch: %w", err)
	}

	if resp == nil {
		a.logger.Warn("no METAR available", logger.String("airport", a.cfg.Station.AirportCode))
		a.renderer.DrawNoData(canvas, a.cfg.Station.AirportCode, now)
		if err := a.disp.Render(canvas.Image()); err != nil {
			return weather.CategoryUnknown, fmt.Errorf("display transfer: %w", err)
		}
		a.recordCycle(nil, now)
		return weather.CategoryUnknown, nil
	}

	report := weather.DecodeReport(resp)
	a.logger.Info("decoded METAR",
		logger.String("airport", report.Airport),
		logger.String("category", string(report.Category)),
		logger.Int("wind_dir", report.WindDir),
		logger.Float64("wind_kts", report.WindSpeedKts))

	layout, err := a.selector.Pick()
	if err != nil {
		return report.Category, fmt.Errorf("layout selection: %w", err)
	}
	a.logger.Debug("rendering layout", logger.String("layout", layout.Name))
	layout.Draw(canvas, report, now)

	if err := a.disp.Render(canvas.Image()); err != nil {
		return report.Category, fmt.Errorf("display transfer: %w", err)
	}

	a.recordCycle(report, now)
	return report.Category, nil
}

// showErrorScreen pushes the error screen to the panel on a best-effort
// basis. A failure here is logged and swallowed so the retry loop keeps
// running even when the panel itself is the problem.
func (a *App) showErrorScreen(cause error) {
	canvas := render.NewCanvas(display.PanelWidth, display.PanelHeight)
	a.renderer.DrawErrorScreen(canvas, cause, a.cfg.Station.AirportCode)
	if err := a.disp.Render(canvas.Image()); err != nil {
		a.logger.Error("failed to display error screen", logger.Error(err))
	}
}

// Refresh requests an immediate re-render, cutting the current sleep short.
// Safe to call from other goroutines; extra requests coalesce.
func (a *App) Refresh() {
	select {
	case a.refreshCh <- struct{}{}:
	default:
	}
}

// Status returns a snapshot of the loop state
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := Status{
		Airport:    a.cfg.Station.AirportCode,
		Category:   string(weather.CategoryUnknown),
		LastRender: a.lastRender,
		NextRender: a.nextRender,
		CycleCount: a.cycleCount,
		LastError:  a.lastError,
	}
	if a.lastReport != nil {
		s.Category = string(a.lastReport.Category)
		s.RawMETAR = a.lastReport.Raw
		s.ObservedAt = a.lastReport.ObservedAt
	}
	return s
}

func (a *App) recordCycle(report *weather.Report, now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastReport = report
	a.lastRender = now
	a.cycleCount++
}

func (a *App) setError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.lastError = err.Error()
	} else {
		a.lastError = ""
	}
}

// SleepInterval returns the wait before the next update. A non-zero
// override wins; otherwise the interval follows the flight category, with
// worse weather refreshing more often.
func SleepInterval(category weather.FlightCategory, overrideSecs int) time.Duration {
	if overrideSecs != 0 {
		return time.Duration(overrideSecs) * time.Second
	}
	switch category {
	case weather.CategoryVFR:
		return 60 * time.Minute
	case weather.CategoryMVFR:
		return 30 * time.Minute
	case weather.CategoryIFR:
		return 20 * time.Minute
	case weather.CategoryLIFR:
		return 10 * time.Minute
	default:
		return 30 * time.Minute
	}
}
