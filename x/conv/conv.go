// Package conv appends unsigned integers to byte slices without fmt. Report
// lines are built with it on the MCU, where fmt is too heavy.
package conv

const digits = "0123456789abcdef"

// AppendUint appends n in base 10.
func AppendUint(dst []byte, n uint64) []byte {
	var tmp [20]byte
	return append(dst, fill(tmp[:], n, 10)...)
}

// AppendHex appends n as lowercase hex with a 0x prefix and no padding:
// 0x8, 0x3c, 0xff.
func AppendHex(dst []byte, n uint64) []byte {
	var tmp [16]byte
	dst = append(dst, '0', 'x')
	return append(dst, fill(tmp[:], n, 16)...)
}

// fill writes n right-aligned into buf and returns the used tail.
func fill(buf []byte, n, base uint64) []byte {
	i := len(buf)
	for {
		i--
		buf[i] = digits[n%base]
		n /= base
		if n == 0 {
			return buf[i:]
		}
	}
}
