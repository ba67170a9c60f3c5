// Package piico maps the addresses found on an I2C bus to PiicoDev device
// names, with conflict hints where two devices share an address.
//
// A Registry is not safe for concurrent use; callers that share one must
// serialise access (see services/monitor).
package piico

import (
	"slices"

	"tinygo.org/x/drivers"

	"piicoinfo-go/drivers/i2cscan"
	"piicoinfo-go/errcode"
	"piicoinfo-go/types"
)

// Opener opens the bus described by a BusConfig.
type Opener interface {
	Open(cfg types.BusConfig) (drivers.I2C, error)
}

// Scanner returns the addresses currently answering on a bus.
type Scanner interface {
	Scan() ([]types.Address, error)
}

// Registry holds the latest scan result and answers lookups against the
// built-in tables.
type Registry struct {
	scanner   Scanner
	connected []types.Address

	primary   types.Table
	conflicts types.Table
}

// New opens the bus and performs the initial scan.
func New(op Opener, cfg types.BusConfig) (*Registry, error) {
	cfg = cfg.WithDefaults()
	bus, err := op.Open(cfg)
	if err != nil {
		if errcode.Of(err) == errcode.BusOpenFailed {
			return nil, err
		}
		return nil, &errcode.E{C: errcode.BusOpenFailed, Op: "open", Msg: cfg.ID, Err: err}
	}
	return NewWithScanner(i2cscan.New(bus))
}

// NewWithScanner performs the initial scan with s.
func NewWithScanner(s Scanner) (*Registry, error) {
	r := &Registry{scanner: s, primary: primary, conflicts: conflicts}
	if err := r.Rescan(); err != nil {
		return nil, err
	}
	return r, nil
}

// Clear forgets every observed address.
func (r *Registry) Clear() { r.connected = nil }

// Rescan replaces the observed set with a fresh scan. On failure the previous
// set is kept.
func (r *Registry) Rescan() error {
	found, err := r.scanner.Scan()
	if err != nil {
		if errcode.Of(err) == errcode.ScanFailed {
			return err
		}
		return errcode.Wrap(errcode.ScanFailed, "rescan", err)
	}
	r.connected = found
	return nil
}

func (r *Registry) IsConnected(a types.Address) bool {
	return slices.Contains(r.connected, a)
}

func (r *Registry) ConnectedCount() int { return len(r.connected) }

// Connected returns a copy of the observed set in scan order.
func (r *Registry) Connected() []types.Address { return slices.Clone(r.connected) }
