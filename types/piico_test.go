package types

import (
	"errors"
	"testing"

	"piicoinfo-go/errcode"
)

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"what":    ModeWhat,
		"short":   ModeShort,
		"long":    ModeLong,
		" LONG ":  ModeLong,
		"Short":   ModeShort,
		"":        ModeWhat,
		"verbose": ModeWhat,
	}
	for in, want := range cases {
		if got := ParseMode(in); got != want {
			t.Fatalf("ParseMode(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDescriptorName(t *testing.T) {
	d := Descriptor{What: "Atmospheric Sensor", Short: "BME280", Long: "PiicoDev BME280 Atmospheric Sensor"}
	if got := d.Name(ModeWhat); got != d.What {
		t.Fatalf("what = %q", got)
	}
	if got := d.Name(ModeShort); got != d.Short {
		t.Fatalf("short = %q", got)
	}
	if got := d.Name(ModeLong); got != d.Long {
		t.Fatalf("long = %q", got)
	}
	if got := d.Name(Mode(42)); got != d.What {
		t.Fatalf("unknown mode = %q, want what", got)
	}
}

func TestTableAddressesAscending(t *testing.T) {
	tb := Table{0x77: {}, 0x08: {}, 0x3c: {}, 0x10: {}}
	got := tb.Addresses()
	want := []Address{0x08, 0x10, 0x3c, 0x77}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Addresses()[%d] = %#x, want %#x", i, got[i], want[i])
		}
	}
	var empty Table
	if len(empty.Addresses()) != 0 || empty.Contains(0x10) {
		t.Fatal("nil table should be empty")
	}
}

func TestTableValidate(t *testing.T) {
	ok := Table{0x53: {What: "Ambient Light-UV Sensor", Short: "LTR390", Long: "Adafruit LTR390 Ambient Light-UV Sensor"}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	missing := Table{0x53: {What: "Ambient Light-UV Sensor", Short: "LTR390"}}
	if err := missing.Validate(); !errors.Is(err, errcode.InvalidTable) {
		t.Fatalf("missing field: got %v, want invalid_table", err)
	}
	wide := Table{0x80: {What: "x", Short: "x", Long: "x"}}
	if err := wide.Validate(); !errors.Is(err, errcode.InvalidTable) {
		t.Fatalf("wide address: got %v, want invalid_table", err)
	}
}

func TestBusConfigDefaults(t *testing.T) {
	got := BusConfig{}.WithDefaults()
	if got != DefaultBusConfig() {
		t.Fatalf("zero config = %+v, want %+v", got, DefaultBusConfig())
	}
	alt := BusConfig{ID: "i2c1", SCL: 7, SDA: 6}.WithDefaults()
	if alt.ID != "i2c1" || alt.SCL != 7 || alt.SDA != 6 || alt.Frequency != DefaultFrequency {
		t.Fatalf("alt config = %+v", alt)
	}
}
