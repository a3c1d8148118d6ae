package display

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/yegors/metar-epd/internal/config"
	"github.com/yegors/metar-epd/pkg/logger"
)

// Display is one frame sink. Each Render call is a complete panel update;
// there is no partial refresh in 4-gray mode.
type Display interface {
	Render(img *image.Gray) error
	Clear() error
	Close() error
}

// New returns the configured display: the SPI panel driver, or a PNG
// simulator when simulate is set.
func New(cfg config.EPDConfig, log *logger.Logger) (Display, error) {
	if cfg.Simulate {
		return NewSimulator(cfg.SimulateDir, log), nil
	}
	return NewEPD(cfg, log)
}

// Simulator writes each frame as a PNG file instead of driving hardware.
// Frames pass through the same 4-level quantization as the panel so the
// preview matches what the panel would show.
type Simulator struct {
	dir    string
	frame  int
	logger *logger.Logger
}

// NewSimulator creates a simulator writing frames into dir
func NewSimulator(dir string, log *logger.Logger) *Simulator {
	if dir == "" {
		dir = "."
	}
	return &Simulator{dir: dir, logger: log.Named("epd-sim")}
}

// Render writes the frame as a timestamped PNG
func (s *Simulator) Render(img *image.Gray) error {
	b := img.Bounds()
	quantized := image.NewGray(b)
	levels := [4]uint8{0x00, 0x80, 0xC0, 0xFF}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			quantized.Pix[quantized.PixOffset(x, y)] = levels[quantize(img.GrayAt(x, y).Y)]
		}
	}

	s.frame++
	name := fmt.Sprintf("frame-%s-%03d.png", time.Now().Format("20060102-150405"), s.frame)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create frame file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, quantized); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	s.logger.Info("simulated frame written", logger.String("path", path))
	return nil
}

// Clear is a no-op for the simulator
func (s *Simulator) Clear() error {
	return nil
}

// Close is a no-op for the simulator
func (s *Simulator) Close() error {
	return nil
}
