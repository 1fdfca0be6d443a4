package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttrPath(t *testing.T) {
	tests := []struct {
		path       string
		wantObject string
		wantAttr   string
		wantErr    bool
	}{
		{"/@rkns_header", "/", "rkns_header", false},
		{"/_raw/signal@md5", "/_raw/signal", "md5", false},
		{"/rkns/signals/fg_1.0@sfreq_Hz", "/rkns/signals/fg_1.0", "sfreq_Hz", false},
		{"rkns@patient_info", "/rkns", "patient_info", false}, // relative path normalized
		{"", "", "", true},            // empty
		{"/path/no/at", "", "", true}, // missing @
		{"/path@", "", "", true},      // empty attr name
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			obj, attr, err := ParseAttrPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantObject, obj)
			assert.Equal(t, tt.wantAttr, attr)
		})
	}
}

func TestJoinAttrPath(t *testing.T) {
	assert.Equal(t, "/@attr", JoinAttrPath("/", "attr"))
	assert.Equal(t, "/_raw/signal@md5", JoinAttrPath("/_raw/signal", "md5"))
}

func TestPaths(t *testing.T) {
	tests := []struct {
		in    string
		clean string
		parts []string
		key   string
	}{
		{"", "/", []string{}, ""},
		{"/", "/", []string{}, ""},
		{"rkns", "/rkns", []string{"rkns"}, "rkns/"},
		{"/rkns/signals/", "/rkns/signals", []string{"rkns", "signals"}, "rkns/signals/"},
		{"//rkns//signals", "/rkns/signals", []string{"rkns", "signals"}, "rkns/signals/"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.clean, CleanPath(tt.in))
			assert.Equal(t, tt.parts, SplitPath(tt.in))
			assert.Equal(t, tt.key, keyPrefix(tt.in))
		})
	}

	assert.Equal(t, "/rkns/signals", JoinPath("/rkns", "signals"))
	assert.Equal(t, "/rkns", JoinPath("/", "rkns/"))
}

func TestValidName(t *testing.T) {
	assert.NoError(t, validName("fg_1.0"))
	assert.ErrorIs(t, validName(""), ErrInvalidPath)
	assert.ErrorIs(t, validName(".zattrs"), ErrInvalidPath)
	assert.ErrorIs(t, validName("a/b"), ErrInvalidPath)
}
