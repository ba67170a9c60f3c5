package piico

import (
	"io"

	"piicoinfo-go/types"
	"piicoinfo-go/x/conv"
)

// Marker lines. They are stable so a reader can grep for them.
const (
	LineConflict         = "   vvv Possible conflict vvv"
	LineExternalConflict = "   vvv Possible EXTERNAL conflict vvv"
	LineNothing          = "Nothing connected"
	LineConflictHeading  = "-- conflicting --"
	LineExternalHeading  = "-- external list --"
)

// AppendRecord appends the text form of rec (without newline) to buf.
//
//	119 0x77 Atmospheric Sensor
//	Unknown device at ID 33
//	Unknown ID 255
func AppendRecord(buf []byte, rec types.Record) []byte {
	switch rec.Kind {
	case types.RecordDevice:
		buf = appendAddr(buf, rec.Addr)
		buf = append(buf, ' ')
		return append(buf, rec.Text...)
	case types.RecordConflict:
		return append(buf, LineConflict...)
	case types.RecordExternalConflict:
		return append(buf, LineExternalConflict...)
	case types.RecordUnknownDevice:
		buf = append(buf, "Unknown device at ID "...)
		return appendDec(buf, rec.Addr)
	case types.RecordUnknownID:
		buf = append(buf, "Unknown ID "...)
		return appendDec(buf, rec.Addr)
	case types.RecordNothingConnected:
		return append(buf, LineNothing...)
	case types.RecordConflictHeading:
		return append(buf, LineConflictHeading...)
	case types.RecordExternalHeading:
		return append(buf, LineExternalHeading...)
	}
	return buf
}

// Line returns the text form of rec.
func Line(rec types.Record) string { return string(AppendRecord(nil, rec)) }

// Render writes one line per record.
func Render(w io.Writer, recs []types.Record) error {
	buf := make([]byte, 0, 64)
	for _, rec := range recs {
		buf = AppendRecord(buf[:0], rec)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// FormatDecimal renders addrs as "[16, 60, 119]".
func FormatDecimal(addrs []types.Address) string {
	return formatList(addrs, appendDec)
}

// FormatHex renders addrs as "['0x10', '0x3c', '0x77']".
func FormatHex(addrs []types.Address) string {
	return formatList(addrs, func(buf []byte, a types.Address) []byte {
		buf = append(buf, '\'')
		buf = appendHex(buf, a)
		return append(buf, '\'')
	})
}

func formatList(addrs []types.Address, item func([]byte, types.Address) []byte) string {
	buf := make([]byte, 0, 2+len(addrs)*8)
	buf = append(buf, '[')
	for i, a := range addrs {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = item(buf, a)
	}
	return string(append(buf, ']'))
}

// appendAddr writes "119 0x77".
func appendAddr(buf []byte, a types.Address) []byte {
	buf = appendDec(buf, a)
	buf = append(buf, ' ')
	return appendHex(buf, a)
}

func appendDec(buf []byte, a types.Address) []byte { return conv.AppendUint(buf, uint64(a)) }
func appendHex(buf []byte, a types.Address) []byte { return conv.AppendHex(buf, uint64(a)) }
