// Package base58 implements Base58 encoding with the Bitcoin alphabet.
//
// Input bytes are read as one big-endian base-256 integer and rewritten in
// radix 58. Each leading zero byte is rendered as one leading '1', so the
// encoding keeps the input length visible: [0x00] and [] encode differently.
package base58

import "github.com/opal-lang/b58/invariant"

// Alphabet maps digit values 0..57 to their characters.
// It omits 0, O, I and l to avoid transcription mistakes.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const radix = 58

// MaxEncodedLen returns the number of digit slots used to encode n bytes.
// It is an upper bound on the length of the encoding of any n-byte input.
//
// log(256)/log(58) is about 1.3658; 138/100 over-approximates it and the
// extra slot absorbs the integer division's truncation.
func MaxEncodedLen(n int) int {
	invariant.Precondition(n >= 0, "input length must be non-negative, got %d", n)
	return n*138/100 + 1
}

// Encode returns the Base58 encoding of src.
// Every byte sequence has an encoding; Encode(nil) is "".
func Encode(src []byte) string {
	return string(encode(src))
}

// AppendEncode appends the Base58 encoding of src to dst and returns the
// extended buffer.
func AppendEncode(dst, src []byte) []byte {
	return append(dst, encode(src)...)
}

// encode converts src into a freshly allocated slice of alphabet characters.
func encode(src []byte) []byte {
	size := MaxEncodedLen(len(src))
	buf := make([]byte, size)

	// length is the number of tail slots holding significant digits so far.
	length := 0
	for _, b := range src {
		carry := uint32(b)
		i := 0
		for j := size - 1; j >= 0; j-- {
			if carry == 0 && i >= length {
				break
			}
			i++

			carry += 256 * uint32(buf[j])
			buf[j] = byte(carry % radix)
			carry /= radix
		}
		length = i
	}

	zlead := 0
	for zlead < len(src) && src[zlead] == 0 {
		zlead++
	}
	zbuf := 0
	for zbuf < size && buf[zbuf] == 0 {
		zbuf++
	}
	invariant.Invariant(zbuf >= zlead,
		"digit buffer has %d leading zeros for %d leading zero bytes", zbuf, zlead)

	out := buf[zbuf-zlead:]
	for k, d := range out {
		out[k] = Alphabet[d]
	}
	return out
}
