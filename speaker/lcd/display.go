// Package lcd drives the HD44780 character LCD that shows the speaker's
// menus.
//
// Device talks to a real display through its I2C backpack. Buffer keeps the
// same cells in memory, for tests and the desktop simulator.
package lcd

import (
	"errors"
	"io"
	"log/slog"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

// Config describes the attached display.
type Config struct {
	Width  uint8
	Height uint8
	// Addresses are probed in order. The first one that acknowledges a
	// write is used.
	Addresses []uint8
}

// DefaultConfig is a 20x4 display on one of the two common backpack
// addresses (0x27 then 0x3F).
func DefaultConfig() Config {
	return Config{
		Width:     20,
		Height:    4,
		Addresses: []uint8{0x27, 0x3F},
	}
}

// Device is a character display on an HD44780 I2C backpack. Writes past the
// last column are dropped instead of wrapping to the next row.
type Device struct {
	dev      hd44780i2c.Device
	cols     int
	rows     int
	col      int
	row      int
	printBuf []byte // Preallocated so that writing labels does not allocate.
}

// Configure probes the configured addresses on an already configured I2C
// bus and initializes the first display that answers. If no display
// answers, an error is returned.
func Configure(bus drivers.I2C, cfg Config, logger *slog.Logger) (*Device, error) {
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, errors.New("lcd: width and height must be set")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127), // Make temporary logger that does no logging.
		}))
	}
	for _, a := range cfg.Addresses {
		logger.Info("lcd:probe", slog.Int("addr", int(a)))
		// All backpack outputs low: harmless, and it tells us whether
		// anything acknowledges the address.
		if err := bus.Tx(uint16(a), []byte{0}, nil); err != nil {
			continue
		}
		dev := hd44780i2c.New(bus, a)
		err := dev.Configure(hd44780i2c.Config{
			Width:  cfg.Width,
			Height: cfg.Height,
		})
		if err != nil {
			return nil, errors.New("lcd: configure: " + err.Error())
		}
		logger.Info("lcd:found", slog.Int("addr", int(a)))
		return &Device{
			dev:      dev,
			cols:     int(cfg.Width),
			rows:     int(cfg.Height),
			printBuf: make([]byte, 0, cfg.Width),
		}, nil
	}
	return nil, errors.New("lcd: display not found on any configured address")
}

// Clear blanks the display and homes the cursor.
func (d *Device) Clear() {
	d.dev.ClearDisplay()
	d.col, d.row = 0, 0
}

// MoveCursor positions the cursor. Positions outside the display are
// remembered so that following writes are dropped.
func (d *Device) MoveCursor(col, row int) {
	d.col, d.row = col, row
	if !d.inside() {
		return
	}
	d.dev.SetCursor(uint8(col), uint8(row))
}

// WriteString prints s at the cursor, truncated at the last column.
func (d *Device) WriteString(s string) {
	if !d.inside() {
		return
	}
	n := min(len(s), d.cols-d.col)
	// Truncate in-place, no allocation
	d.printBuf = append(d.printBuf[:0], s[:n]...)
	d.dev.Print(d.printBuf)
	d.col += n
}

// Size returns the display geometry.
func (d *Device) Size() (cols, rows int) { return d.cols, d.rows }

func (d *Device) inside() bool {
	return d.col >= 0 && d.col < d.cols && d.row >= 0 && d.row < d.rows
}
