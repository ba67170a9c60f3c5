package types

import "time"

// BusConfig selects and configures the I2C bus to scan.
type BusConfig struct {
	ID        string `json:"id"`        // "i2c0", "i2c1" (or a periph bus name on Linux)
	SCL       int    `json:"scl"`       // GPIO number
	SDA       int    `json:"sda"`       // GPIO number
	Frequency uint32 `json:"frequency"` // Hz
}

// PiicoDev wiring on a Pico: i2c0 on GP9/GP8 at 400 kHz.
const (
	DefaultBusID     = "i2c0"
	DefaultSCL       = 9
	DefaultSDA       = 8
	DefaultFrequency = 400_000
)

func DefaultBusConfig() BusConfig {
	return BusConfig{ID: DefaultBusID, SCL: DefaultSCL, SDA: DefaultSDA, Frequency: DefaultFrequency}
}

// WithDefaults fills zero fields from DefaultBusConfig. Pin 0 is a valid GPIO,
// so pins are only defaulted together when both are zero.
func (c BusConfig) WithDefaults() BusConfig {
	if c.ID == "" {
		c.ID = DefaultBusID
	}
	if c.SCL == 0 && c.SDA == 0 {
		c.SCL, c.SDA = DefaultSCL, DefaultSDA
	}
	if c.Frequency == 0 {
		c.Frequency = DefaultFrequency
	}
	return c
}

// ConsoleConfig selects where firmware writes reports. An empty UART means
// the USB serial console.
type ConsoleConfig struct {
	UART string `json:"uart,omitempty"` // "uart0", "uart1"
	Baud uint32 `json:"baud,omitempty"`
	TX   int    `json:"tx,omitempty"`
	RX   int    `json:"rx,omitempty"`
}

// MonitorConfig is supplied on topic "config/piico".
type MonitorConfig struct {
	Interval time.Duration `json:"interval"` // 0 disables periodic rescans
	Mode     Mode          `json:"mode"`
	External Table         `json:"external,omitempty"`
}

const DefaultMonitorInterval = 5 * time.Second
