//go:build rp2040 || rp2350

package platform

import (
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"

	"piicoinfo-go/errcode"
	"piicoinfo-go/types"
)

// Opener configures i2c0/i2c1 on the requested pins and frequency. The
// machine bus cannot tell a NACK from a bus fault, so scans on it never
// fail; every error reads as an absent address.
type Opener struct{}

func NewOpener() *Opener { return &Opener{} }

func (*Opener) Open(cfg types.BusConfig) (drivers.I2C, error) {
	cfg = cfg.WithDefaults()

	var hw *machine.I2C
	switch cfg.ID {
	case "i2c0":
		hw = machine.I2C0
	case "i2c1":
		hw = machine.I2C1
	default:
		return nil, errUnknownBus(cfg.ID)
	}

	if !validPin(cfg.SDA) || !validPin(cfg.SCL) {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "open", Msg: cfg.ID}
	}
	sda := machine.Pin(cfg.SDA)
	scl := machine.Pin(cfg.SCL)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := hw.Configure(machine.I2CConfig{
		SCL:       scl,
		SDA:       sda,
		Frequency: cfg.Frequency,
	}); err != nil {
		return nil, errOpen(cfg.ID, err)
	}
	return hw, nil
}

// GP0..GP29 exist on both RP2040 and RP2350A.
func validPin(p int) bool { return p >= 0 && p <= 29 }

// Console returns the configured UART, or the USB serial console when none
// is set.
func Console(cfg types.ConsoleConfig) io.Writer {
	var hw *uartx.UART
	switch cfg.UART {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return machine.Serial
	}
	// Defaults inside uartx apply to zero fields.
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.Pin(cfg.TX),
		RX:       machine.Pin(cfg.RX),
	}); err != nil {
		println("Error: console", cfg.UART+":", err.Error(), "- using USB serial")
		return machine.Serial
	}
	return hw
}
