// Package platform opens the I2C bus a registry scans and the console its
// reports go to. The implementation is chosen by build tags:
//
//   - rp2040 || rp2350: TinyGo machine.I2C0/I2C1 and a uartx or USB console
//   - linux (standard Go): periph.io i2c-dev buses and stdout
//   - anything else: no buses; tests use FakeBus
package platform

import (
	"piicoinfo-go/errcode"
)

func errUnknownBus(id string) error {
	return &errcode.E{C: errcode.UnknownBus, Op: "open", Msg: id}
}

func errOpen(id string, err error) error {
	return &errcode.E{C: errcode.BusOpenFailed, Op: "open", Msg: id, Err: err}
}
