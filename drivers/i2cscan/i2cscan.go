// Package i2cscan probes a range of 7-bit addresses on an I2C bus and reports
// the ones that acknowledge.
//
//	s := i2cscan.New(bus)
//	found, err := s.Scan() // ascending, e.g. [0x10 0x3c 0x77]
//
// A missing acknowledge surfaces from drivers.I2C as an ordinary error, the
// same as a wedged bus would. The scanner treats every transfer error as
// "nothing there" unless the bus implements FaultClassifier and says
// otherwise.
package i2cscan

import (
	"tinygo.org/x/drivers"

	"piicoinfo-go/errcode"
	"piicoinfo-go/types"
)

// Default range skips the reserved addresses at both ends of the 7-bit space.
const (
	DefaultFirst types.Address = 0x08
	DefaultLast  types.Address = 0x77
)

// Probe selects the transfer used to test an address.
type Probe uint8

const (
	// ProbeWrite writes a single 0x00 byte.
	ProbeWrite Probe = iota
	// ProbeRead reads a single byte. Use it for devices that latch a write
	// as a register pointer or command.
	ProbeRead
)

// FaultClassifier is implemented by buses that can tell a failed transfer
// apart from an address nobody answered.
type FaultClassifier interface {
	IsFault(err error) bool
}

// Config controls the probe range and style. All fields are optional. A zero
// First or Last selects the default, so a scan cannot start at the general
// call address 0x00.
type Config struct {
	First types.Address // default 0x08
	Last  types.Address // default 0x77
	Probe Probe
}

// Scanner walks an address range on one bus.
type Scanner struct {
	bus drivers.I2C
	cfg Config
	buf [1]byte
}

// New creates a scanner with the default range. The bus must already be
// configured.
func New(bus drivers.I2C) *Scanner {
	return &Scanner{
		bus: bus,
		cfg: Config{First: DefaultFirst, Last: DefaultLast},
	}
}

// Configure applies cfg. A zero First/Last keeps the default.
func (s *Scanner) Configure(cfg Config) {
	if cfg.First == 0 {
		cfg.First = DefaultFirst
	}
	if cfg.Last == 0 {
		cfg.Last = DefaultLast
	}
	s.cfg = cfg
}

// Scan probes First..Last in ascending order and returns the responders.
func (s *Scanner) Scan() ([]types.Address, error) {
	if s.bus == nil {
		return nil, &errcode.E{C: errcode.BusClosed, Op: "scan"}
	}
	first, last := s.cfg.First, s.cfg.Last
	if first > last || !last.Valid() {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "scan", Msg: "bad address range"}
	}
	fc, _ := s.bus.(FaultClassifier)

	found := make([]types.Address, 0, 8)
	for a := int(first); a <= int(last); a++ {
		err := s.probe(uint16(a))
		if err == nil {
			found = append(found, types.Address(a))
			continue
		}
		if fc != nil && fc.IsFault(err) {
			return nil, errcode.Wrap(errcode.ScanFailed, "scan", err)
		}
	}
	return found, nil
}

func (s *Scanner) probe(addr uint16) error {
	if s.cfg.Probe == ProbeRead {
		return s.bus.Tx(addr, nil, s.buf[:])
	}
	s.buf[0] = 0x00
	return s.bus.Tx(addr, s.buf[:], nil)
}
