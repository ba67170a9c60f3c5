//go:build !linux && !(rp2040 || rp2350)

package platform

import (
	"io"
	"os"

	"tinygo.org/x/drivers"

	"piicoinfo-go/errcode"
	"piicoinfo-go/types"
)

// Opener has no buses on this host. Tests inject FakeBus instead.
type Opener struct{}

func NewOpener() *Opener { return &Opener{} }

func (*Opener) Open(cfg types.BusConfig) (drivers.I2C, error) {
	return nil, &errcode.E{C: errcode.Unsupported, Op: "open", Msg: cfg.ID}
}

func Console(types.ConsoleConfig) io.Writer { return os.Stdout }
