package display

import (
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/yegors/metar-epd/internal/config"
	"github.com/yegors/metar-epd/pkg/logger"
)

// Panel command set
const (
	cmdPanelSetting      = 0x00
	cmdPowerSetting      = 0x01
	cmdPowerOff          = 0x02
	cmdPowerOn           = 0x04
	cmdBoosterSoftStart  = 0x06
	cmdDeepSleep         = 0x07
	cmdDataStartTrans1   = 0x10
	cmdDisplayRefresh    = 0x12
	cmdDataStartTrans2   = 0x13
	cmdLUTVCOM           = 0x20
	cmdLUTWW             = 0x21
	cmdLUTBW             = 0x22
	cmdLUTWB             = 0x23
	cmdLUTBB             = 0x24
	cmdPLLControl        = 0x30
	cmdResolutionSetting = 0x61
	cmdGetStatus         = 0x71
	cmdVCMDCSetting      = 0x82
	cmdVCOMDataInterval  = 0x50
)

// 4-gray waveform lookup tables from the panel vendor
var (
	lut4GrayVCOM = []byte{
		0x00, 0x0A, 0x00, 0x00, 0x00, 0x01,
		0x60, 0x14, 0x14, 0x00, 0x00, 0x01,
		0x00, 0x14, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x13, 0x0A, 0x01, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	lut4GrayWW = []byte{
		0x40, 0x0A, 0x00, 0x00, 0x00, 0x01,
		0x90, 0x14, 0x14, 0x00, 0x00, 0x01,
		0x10, 0x14, 0x0A, 0x00, 0x00, 0x01,
		0xA0, 0x13, 0x01, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	lut4GrayBW = []byte{
		0x40, 0x0A, 0x00, 0x00, 0x00, 0x01,
		0x90, 0x14, 0x14, 0x00, 0x00, 0x01,
		0x00, 0x14, 0x0A, 0x00, 0x00, 0x01,
		0x99, 0x0C, 0x01, 0x03, 0x04, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	lut4GrayWB = []byte{
		0x40, 0x0A, 0x00, 0x00, 0x00, 0x01,
		0x90, 0x14, 0x14, 0x00, 0x00, 0x01,
		0x00, 0x14, 0x0A, 0x00, 0x00, 0x01,
		0x99, 0x0B, 0x04, 0x04, 0x01, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	lut4GrayBB = []byte{
		0x80, 0x0A, 0x00, 0x00, 0x00, 0x01,
		0x90, 0x14, 0x14, 0x00, 0x00, 0x01,
		0x20, 0x14, 0x0A, 0x00, 0x00, 0x01,
		0x50, 0x13, 0x01, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
)

// busyTimeout bounds the wait for a display refresh. A full 4-gray refresh
// takes roughly 4 seconds on this panel.
const busyTimeout = 30 * time.Second

// EPD drives the Waveshare 4.2" panel over SPI. The panel is woken, written,
// and put back to deep sleep on every frame, so a frame can be hours after
// the previous one without the panel drawing standby current.
type EPD struct {
	port   spi.PortCloser
	conn   spi.Conn
	dc     gpio.PinIO
	rst    gpio.PinIO
	busy   gpio.PinIO
	logger *logger.Logger
}

// NewEPD opens the SPI port and GPIO pins named in the configuration
func NewEPD(cfg config.EPDConfig, log *logger.Logger) (*EPD, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host: %w", err)
	}

	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", cfg.SPIPort, err)
	}

	conn, err := port.Connect(physic.Frequency(cfg.SPIHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to connect SPI: %w", err)
	}

	pins := map[string]*gpio.PinIO{}
	e := &EPD{
		port:   port,
		conn:   conn,
		logger: log.Named("epd"),
	}
	pins[cfg.DCPin] = &e.dc
	pins[cfg.RSTPin] = &e.rst
	pins[cfg.BusyPin] = &e.busy
	for name, dst := range pins {
		pin := gpioreg.ByName(name)
		if pin == nil {
			port.Close()
			return nil, fmt.Errorf("gpio pin not found: %s", name)
		}
		*dst = pin
	}

	if err := e.dc.Out(gpio.Low); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to configure dc pin: %w", err)
	}
	if err := e.rst.Out(gpio.High); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to configure rst pin: %w", err)
	}
	if err := e.busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to configure busy pin: %w", err)
	}

	return e, nil
}

// Render wakes the panel, pushes one frame in 4-gray mode, and puts the
// panel back to deep sleep.
func (e *EPD) Render(img *image.Gray) error {
	plane1, plane2, err := Pack4Gray(img)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := e.init4Gray(); err != nil {
		return fmt.Errorf("panel init failed: %w", err)
	}

	if err := e.writeFrame(plane1, plane2); err != nil {
		return fmt.Errorf("frame transfer failed: %w", err)
	}
	if err := e.refresh(); err != nil {
		return fmt.Errorf("display refresh failed: %w", err)
	}

	e.logger.Debug("frame displayed", logger.Duration("elapsed", time.Since(start)))
	return e.sleep()
}

// Clear wakes the panel, writes an all-white frame, and sleeps it again
func (e *EPD) Clear() error {
	if err := e.init4Gray(); err != nil {
		return fmt.Errorf("panel init failed: %w", err)
	}
	white := make([]byte, planeSize)
	for i := range white {
		white[i] = 0xFF
	}
	if err := e.writeFrame(white, white); err != nil {
		return fmt.Errorf("frame transfer failed: %w", err)
	}
	if err := e.refresh(); err != nil {
		return fmt.Errorf("display refresh failed: %w", err)
	}
	return e.sleep()
}

// Close releases the SPI port. The panel is left in deep sleep.
func (e *EPD) Close() error {
	return e.port.Close()
}

func (e *EPD) init4Gray() error {
	e.reset()

	steps := []struct {
		cmd  byte
		data []byte
	}{
		{cmdPowerSetting, []byte{0x03, 0x00, 0x2B, 0x2B, 0x13}},
		{cmdBoosterSoftStart, []byte{0x17, 0x17, 0x17}},
		{cmdPowerOn, nil},
	}
	for _, s := range steps {
		if err := e.command(s.cmd, s.data...); err != nil {
			return err
		}
	}
	if err := e.waitIdle(); err != nil {
		return err
	}

	steps = []struct {
		cmd  byte
		data []byte
	}{
		{cmdPanelSetting, []byte{0x3F}},
		{cmdPLLControl, []byte{0x3C}},
		{cmdResolutionSetting, []byte{
			byte(PanelWidth >> 8), byte(PanelWidth & 0xFF),
			byte(PanelHeight >> 8), byte(PanelHeight & 0xFF),
		}},
		{cmdVCMDCSetting, []byte{0x12}},
		{cmdVCOMDataInterval, []byte{0x97}},
		{cmdLUTVCOM, lut4GrayVCOM},
		{cmdLUTWW, lut4GrayWW},
		{cmdLUTBW, lut4GrayBW},
		{cmdLUTWB, lut4GrayWB},
		{cmdLUTBB, lut4GrayBB},
	}
	for _, s := range steps {
		if err := e.command(s.cmd, s.data...); err != nil {
			return err
		}
	}
	return nil
}

func (e *EPD) writeFrame(plane1, plane2 []byte) error {
	if err := e.command(cmdDataStartTrans1); err != nil {
		return err
	}
	if err := e.data(plane1); err != nil {
		return err
	}
	if err := e.command(cmdDataStartTrans2); err != nil {
		return err
	}
	return e.data(plane2)
}

func (e *EPD) refresh() error {
	if err := e.command(cmdDisplayRefresh); err != nil {
		return err
	}
	// The controller needs a moment before BUSY asserts
	time.Sleep(100 * time.Millisecond)
	return e.waitIdle()
}

func (e *EPD) sleep() error {
	if err := e.command(cmdPowerOff); err != nil {
		return err
	}
	if err := e.waitIdle(); err != nil {
		return err
	}
	return e.command(cmdDeepSleep, 0xA5)
}

func (e *EPD) reset() {
	e.rst.Out(gpio.High)
	time.Sleep(200 * time.Millisecond)
	e.rst.Out(gpio.Low)
	time.Sleep(2 * time.Millisecond)
	e.rst.Out(gpio.High)
	time.Sleep(200 * time.Millisecond)
}

// waitIdle polls the BUSY line until the panel reports idle. BUSY is active
// low on this controller.
func (e *EPD) waitIdle() error {
	deadline := time.Now().Add(busyTimeout)
	for {
		if err := e.command(cmdGetStatus); err != nil {
			return err
		}
		if e.busy.Read() == gpio.High {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("panel busy timeout after %s", busyTimeout)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (e *EPD) command(cmd byte, data ...byte) error {
	if err := e.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := e.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("command 0x%02X failed: %w", cmd, err)
	}
	if len(data) > 0 {
		return e.data(data)
	}
	return nil
}

// data writes display data in chunks below the SPI driver's transfer limit
func (e *EPD) data(buf []byte) error {
	if err := e.dc.Out(gpio.High); err != nil {
		return err
	}
	const chunk = 4096
	for len(buf) > 0 {
		n := len(buf)
		if n > chunk {
			n = chunk
		}
		if err := e.conn.Tx(buf[:n], nil); err != nil {
			return fmt.Errorf("data write failed: %w", err)
		}
		buf = buf[n:]
	}
	return nil
}
