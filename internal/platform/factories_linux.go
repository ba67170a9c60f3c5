//go:build linux && !(rp2040 || rp2350)

package platform

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"

	"piicoinfo-go/errcode"
	"piicoinfo-go/types"
)

var (
	initOnce sync.Once
	initErr  error
)

// Opener opens Linux i2c-dev buses through periph.io. SCL/SDA are fixed by
// the kernel's pinmux and ignored here.
type Opener struct{}

func NewOpener() *Opener { return &Opener{} }

func (*Opener) Open(cfg types.BusConfig) (drivers.I2C, error) {
	cfg = cfg.WithDefaults()
	initOnce.Do(func() { _, initErr = host.Init() })
	if initErr != nil {
		return nil, errOpen(cfg.ID, initErr)
	}

	name := periphName(cfg.ID)
	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, errOpen(cfg.ID, err)
	}
	if err := bc.SetSpeed(physic.Frequency(cfg.Frequency) * physic.Hertz); err != nil {
		// Not every adapter lets userspace change the clock; keep the
		// kernel's rate rather than failing the open.
		println("Info: i2c speed unchanged on", name+":", err.Error())
	}
	return &periphBus{bc: bc}, nil
}

// periphName maps "i2c1" to periph's "1"; other names pass through.
func periphName(id string) string {
	if n, ok := strings.CutPrefix(id, "i2c"); ok && n != "" {
		return n
	}
	return id
}

// periphBus adapts a periph bus to drivers.I2C. The Tx shapes already match;
// the wrapper adds close tracking and fault classification.
type periphBus struct {
	mu     sync.Mutex
	bc     i2c.BusCloser
	closed bool
}

var errClosed = errors.New("i2c: bus closed")

func (p *periphBus) Tx(addr uint16, w, r []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errClosed
	}
	return p.bc.Tx(addr, w, r)
}

// IsFault treats a closed bus or a vanished device node as fatal; anything
// else is an address that did not answer.
func (p *periphBus) IsFault(err error) bool {
	return errors.Is(err, errClosed) || errors.Is(err, os.ErrClosed) || errors.Is(err, os.ErrNotExist)
}

func (p *periphBus) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return errcode.Wrap(errcode.Error, "close", p.bc.Close())
}

func (p *periphBus) String() string { return p.bc.String() }

// Console is stdout on a host.
func Console(types.ConsoleConfig) io.Writer { return os.Stdout }
