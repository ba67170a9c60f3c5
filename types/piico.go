package types

import (
	"sort"

	"piicoinfo-go/errcode"
	"piicoinfo-go/x/strx"
)

// ------------------------
// Addresses & descriptors
// ------------------------

// Address is a 7-bit I2C device address. Values above 0x7F can be carried
// (e.g. when a caller asks about 0xff) but never name a device.
type Address uint8

// MaxAddress is the highest 7-bit address.
const MaxAddress Address = 0x7F

func (a Address) Valid() bool { return a <= MaxAddress }

// Descriptor names one device at one address.
type Descriptor struct {
	What  string `yaml:"what" json:"what"`             // short human description
	Short string `yaml:"short_name" json:"short_name"` // manufacturer code
	Long  string `yaml:"long_name" json:"long_name"`   // full descriptive name
}

// Name returns the field selected by m.
func (d Descriptor) Name(m Mode) string {
	switch m {
	case ModeShort:
		return d.Short
	case ModeLong:
		return d.Long
	default:
		return d.What
	}
}

// ------------------------
// Report mode
// ------------------------

// Mode selects which descriptor field a report shows.
type Mode uint8

const (
	ModeWhat Mode = iota // default
	ModeShort
	ModeLong
)

// ParseMode normalises a user-supplied mode name. Unknown names are ModeWhat.
func ParseMode(s string) Mode {
	switch strx.Fold(s) {
	case "short":
		return ModeShort
	case "long":
		return ModeLong
	default:
		return ModeWhat
	}
}

// Or returns *m, or def when m is nil.
func (m *Mode) Or(def Mode) Mode {
	if m == nil {
		return def
	}
	return *m
}

func (m Mode) String() string {
	switch m {
	case ModeShort:
		return "short"
	case ModeLong:
		return "long"
	default:
		return "what"
	}
}

// ------------------------
// Tables
// ------------------------

// Table maps an address to the one device registered for it.
type Table map[Address]Descriptor

func (t Table) Lookup(a Address) (Descriptor, bool) {
	d, ok := t[a]
	return d, ok
}

func (t Table) Contains(a Address) bool {
	_, ok := t[a]
	return ok
}

// Addresses returns the table keys in ascending order.
func (t Table) Addresses() []Address {
	out := make([]Address, 0, len(t))
	for a := range t {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks every key is a 7-bit address and every descriptor has all
// three fields set.
func (t Table) Validate() error {
	for _, a := range t.Addresses() {
		if !a.Valid() {
			return &errcode.E{C: errcode.InvalidTable, Op: "validate", Msg: "address out of 7-bit range"}
		}
		d := t[a]
		if d.What == "" || d.Short == "" || d.Long == "" {
			return &errcode.E{C: errcode.InvalidTable, Op: "validate", Msg: "missing descriptor field"}
		}
	}
	return nil
}
