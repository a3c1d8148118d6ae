package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yegors/metar-epd/internal/api"
	"github.com/yegors/metar-epd/internal/app"
	"github.com/yegors/metar-epd/internal/config"
	"github.com/yegors/metar-epd/internal/display"
	"github.com/yegors/metar-epd/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	airport := flag.String("airport", "", "Override the configured airport code")
	layout := flag.Int("layout", config.LayoutCycleAll - 1, "Override the layout selector (index, -1 random, -2 cycle)")
	interval := flag.Int("interval", -1, "Override the update interval in seconds (0 = auto by flight category)")
	preferred := flag.String("preferred", "", "Override the preferred layout list (e.g. \"2,0\", \"na\" to disable)")
	simulate := flag.Bool("simulate", false, "Render frames to PNG files instead of the panel")
	flag.Parse()

	// Load configuration with fallback logic
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply command line overrides
	if *airport != "" {
		cfg.Station.AirportCode = *airport
	}
	if *layout >= config.LayoutCycleAll {
		cfg.Display.Layout = *layout
	}
	if *interval >= 0 {
		cfg.Display.IntervalSecs = *interval
	}
	if *preferred != "" {
		cfg.Display.PreferredLayouts = *preferred
	}
	if *simulate {
		cfg.EPD.Simulate = true
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting METAR display",
		logger.String("version", Version),
		logger.String("airport", cfg.Station.AirportCode),
		logger.Bool("simulate", cfg.EPD.Simulate),
	)

	// Open the display
	disp, err := display.New(cfg.EPD, log)
	if err != nil {
		log.Error("Failed to open display", logger.Error(err))
		os.Exit(1)
	}
	defer disp.Close()

	// Create the application
	application, err := app.New(cfg, disp, log)
	if err != nil {
		log.Error("Failed to create application", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the admin HTTP server if enabled
	var server *http.Server
	if cfg.Server.Enabled {
		router := api.NewRouter(application, cfg, log)
		server = &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router.Routes(),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
		}
		go func() {
			log.Info("Starting HTTP server", logger.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("HTTP server error on startup", logger.String("addr", server.Addr), logger.Error(err))
			}
		}()
	}

	// Run the display loop
	runErr := make(chan error, 1)
	go func() {
		runErr <- application.Run(ctx)
	}()

	// Wait for interrupt signal or loop exit
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal, shutting down", logger.String("signal", sig.String()))
	case err := <-runErr:
		if err != nil && err != context.Canceled {
			log.Error("Display loop exited", logger.Error(err))
		}
	}

	// Cancel the main context to stop the display loop
	cancel()

	// Shutdown the HTTP server
	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", logger.Error(err))
		}
	}

	// Leave the panel clear so it does not ghost while powered off
	if err := disp.Clear(); err != nil {
		log.Error("Failed to clear display on shutdown", logger.Error(err))
	}

	log.Info("Display fully stopped")
}
