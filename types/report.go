package types

// RecordKind classifies one report line.
type RecordKind uint8

const (
	RecordDevice           RecordKind = iota // address + descriptor name
	RecordConflict                           // possible conflict marker
	RecordExternalConflict                   // possible conflict with an external entry
	RecordUnknownDevice                      // observed address with no table entry
	RecordUnknownID                          // queried address with no table entry
	RecordNothingConnected
	RecordConflictHeading
	RecordExternalHeading
)

// Source names the table a device record came from.
type Source uint8

const (
	SourceNone Source = iota
	SourcePrimary
	SourceConflict
	SourceExternal
)

func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceConflict:
		return "conflict"
	case SourceExternal:
		return "external"
	default:
		return "none"
	}
}

// Record is one line of a report. Addr and Source are meaningful for device
// and unknown records; Text only for device records.
type Record struct {
	Kind   RecordKind `json:"kind"`
	Addr   Address    `json:"addr"`
	Source Source     `json:"source,omitempty"`
	Text   string     `json:"text,omitempty"`
}
