// Package exttable loads a caller-supplied device table from YAML. Keys are
// addresses in decimal or 0x-hex; values carry the same three names as the
// built-in tables:
//
//	0x53:
//	  what: Ambient Light-UV Sensor
//	  short_name: LTR390
//	  long_name: Adafruit LTR390 Ambient Light-UV Sensor
package exttable

import (
	"errors"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"piicoinfo-go/errcode"
	"piicoinfo-go/types"
)

// Load decodes and validates a table. Unknown fields are rejected.
func Load(r io.Reader) (types.Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw map[int]types.Descriptor
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return types.Table{}, nil
		}
		return nil, &errcode.E{C: errcode.InvalidTable, Op: "load", Err: err}
	}

	t := make(types.Table, len(raw))
	for k, d := range raw {
		if k < 0 || k > int(types.MaxAddress) {
			return nil, &errcode.E{C: errcode.InvalidTable, Op: "load", Msg: "address " + strconv.Itoa(k) + " out of 7-bit range"}
		}
		t[types.Address(k)] = d
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFile reads a table from path.
func LoadFile(path string) (types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errcode.E{C: errcode.InvalidTable, Op: "open", Msg: path, Err: err}
	}
	defer f.Close()
	return Load(f)
}
