package krformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		want  string
	}{
		{"zero", 0, "0"},
		{"negative", -100, "0"},
		{"under a thousand", 999, "999"},
		{"exactly a thousand", 1000, "1,000"},
		{"delivery fee", 3000, "3,000"},
		{"free shipping threshold", 30000, "30,000"},
		{"order total", 50000, "50,000"},
		{"seven digits", 1234567, "1,234,567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.price))
		})
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"partial prefix", "010", "010"},
		{"mid entry", "0101234", "010-1234"},
		{"full number", "01012345678", "010-1234-5678"},
		{"already masked", "010-1234-5678", "010-1234-5678"},
		{"mixed garbage", "010 1234 5678!", "010-1234-5678"},
		{"ten digit number", "0111234567", "011-123-4567"},
		{"truncates beyond eleven digits", "010123456789999", "010-1234-5678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhone(tt.raw))
		})
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"010-1234-5678", "011-123-4567", "016-9999-0000"}
	for _, s := range valid {
		assert.True(t, ValidPhone(s), s)
	}
	invalid := []string{"", "01012345678", "010-12-5678", "012-1234-5678", "010-1234-567"}
	for _, s := range invalid {
		assert.False(t, ValidPhone(s), s)
	}
}

func TestByteLength(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"김인코스런", 10},
		{"runner김", 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ByteLength(tt.s), tt.s)
	}
}

func TestWithinByteLength(t *testing.T) {
	assert.True(t, WithinByteLength("런너", 2, 10))
	assert.True(t, WithinByteLength("ab", 2, 10))
	assert.False(t, WithinByteLength("a", 2, 10))
	assert.False(t, WithinByteLength("김인코스런김", 2, 10))
}
