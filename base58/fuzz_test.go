package base58_test

import (
	"testing"

	"github.com/opal-lang/b58/base58"
)

// FuzzEncode checks that Encode never panics and keeps its structural guarantees.
func FuzzEncode(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("ABC"))
	f.Add([]byte("Hello World!"))
	f.Add([]byte{0x00})
	f.Add([]byte{0x00, 0x00, 0x28, 0x7f, 0xb4, 0xcd})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	f.Add(make([]byte, 32))

	f.Fuzz(func(t *testing.T, data []byte) {
		got := base58.Encode(data)

		if !alphabetPattern.MatchString(got) {
			t.Fatalf("Encode(%x) = %q contains non-alphabet characters", data, got)
		}
		if want := bigEncode(data); got != want {
			t.Fatalf("Encode(%x) = %q, reference %q", data, got, want)
		}
		if zeros, ones := leadingZeroBytes(data), leadingOnes(got); zeros != ones {
			t.Fatalf("Encode(%x): %d leading zero bytes but %d leading '1's", data, zeros, ones)
		}
	})
}
