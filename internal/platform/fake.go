package platform

import (
	"errors"
	"sync"

	"tinygo.org/x/drivers"

	"piicoinfo-go/types"
)

// ErrNack is what FakeBus returns for an address nobody answers.
var ErrNack = errors.New("i2c: no ack")

// ErrFault is what FakeBus returns once a fault has been injected.
var ErrFault = errors.New("i2c: bus fault")

// FakeBus implements drivers.I2C for host-side tests. It acknowledges the
// addresses it has been told about and can be switched into a faulted state.
type FakeBus struct {
	mu     sync.Mutex
	acks   map[uint16]bool
	fault  bool
	Probes []uint16
	LastTx struct {
		Addr uint16
		W    []byte
		Rn   int
	}
}

func NewFakeBus(present ...types.Address) *FakeBus {
	b := &FakeBus{}
	b.Attach(present...)
	return b
}

// Attach makes addrs acknowledge.
func (b *FakeBus) Attach(addrs ...types.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.acks == nil {
		b.acks = make(map[uint16]bool)
	}
	for _, a := range addrs {
		b.acks[uint16(a)] = true
	}
}

// Detach makes addrs stop acknowledging.
func (b *FakeBus) Detach(addrs ...types.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range addrs {
		delete(b.acks, uint16(a))
	}
}

// SetFault makes every transfer fail with ErrFault while on.
func (b *FakeBus) SetFault(on bool) {
	b.mu.Lock()
	b.fault = on
	b.mu.Unlock()
}

func (b *FakeBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Probes = append(b.Probes, addr)
	b.LastTx.Addr = addr
	b.LastTx.W = append([]byte(nil), w...)
	b.LastTx.Rn = len(r)
	if b.fault {
		return ErrFault
	}
	if !b.acks[addr] {
		return ErrNack
	}
	for i := range r {
		r[i] = 0
	}
	return nil
}

// IsFault reports injected faults as bus failures; a NACK is not one.
func (b *FakeBus) IsFault(err error) bool { return errors.Is(err, ErrFault) }

// FakeOpener hands out one FakeBus per bus ID.
type FakeOpener struct {
	Buses map[string]*FakeBus
	Err   error // returned by Open when set
	Last  types.BusConfig
}

func (o *FakeOpener) Open(cfg types.BusConfig) (drivers.I2C, error) {
	o.Last = cfg
	if o.Err != nil {
		return nil, o.Err
	}
	b, ok := o.Buses[cfg.ID]
	if !ok {
		return nil, errUnknownBus(cfg.ID)
	}
	return b, nil
}
