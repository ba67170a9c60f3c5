package piico

import (
	"testing"

	"piicoinfo-go/types"
)

func TestCatalogSizes(t *testing.T) {
	if len(primary) != 19 {
		t.Fatalf("primary has %d entries, want 19", len(primary))
	}
	if len(conflicts) != 4 {
		t.Fatalf("conflicts has %d entries, want 4", len(conflicts))
	}
	if err := primary.Validate(); err != nil {
		t.Fatalf("primary: %v", err)
	}
	if err := conflicts.Validate(); err != nil {
		t.Fatalf("conflicts: %v", err)
	}
}

func TestEveryConflictCollidesWithPrimary(t *testing.T) {
	for _, a := range conflicts.Addresses() {
		if !primary.Contains(a) {
			t.Fatalf("conflict address %#x has no primary entry", a)
		}
	}
}

func TestSharedAddressResolvesPerTable(t *testing.T) {
	p, _ := primary.Lookup(AddrUltrasonic)
	c, _ := conflicts.Lookup(AddrPotentiometer)
	if p.What != "Ultrasonic Rangefinder" || c.What != "Potentiometer" {
		t.Fatalf("0x35 resolved to %q / %q", p.What, c.What)
	}
}

func TestMustTableRejectsDuplicate(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on duplicate address")
		}
	}()
	mustTable(
		entry{AddrUltrasonic, types.Descriptor{Short: "ULTRASONIC"}},
		entry{AddrPotentiometer, types.Descriptor{Short: "Potentiometer"}},
	)
}

func TestExportedTablesAreCopies(t *testing.T) {
	p := Primary()
	delete(p, AddrBME280)
	c := Conflicts()
	c[0x01] = types.Descriptor{What: "x"}
	if !primary.Contains(AddrBME280) || conflicts.Contains(0x01) {
		t.Fatal("mutating an exported table changed the catalog")
	}
}
