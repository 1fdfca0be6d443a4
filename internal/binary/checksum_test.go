package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFletcher32(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  uint32
	}{
		{"empty", []byte{}, 0},
		{"abcde", []byte("abcde"), 0xF04FC729},
		{"abcdef", []byte("abcdef"), 0x56502D2A},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fletcher32(tt.input))
		})
	}
}

func TestFletcher32OddLength(t *testing.T) {
	// Odd-length input is zero padded
	odd := []byte{0x01, 0x02, 0x03}
	even := []byte{0x01, 0x02, 0x03, 0x00}
	assert.Equal(t, Fletcher32(even), Fletcher32(odd))
}

func TestVerifyFletcher32(t *testing.T) {
	data := []byte("test data for verification")
	checksum := Fletcher32(data)

	assert.True(t, VerifyFletcher32(data, checksum))
	assert.False(t, VerifyFletcher32(data, checksum+1))
}

func BenchmarkFletcher32(b *testing.B) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Fletcher32(data)
	}
}
