package ingest

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/legends/api"
	"github.com/agentic-research/legends/internal/metrics"
)

func TestSanitizer_Copy(t *testing.T) {
	tests := []struct {
		name      string
		blockSize int
		in        string
		want      string
		replaced  int64
	}{
		{"clean", 0, "<a>plain text\twith\r\nwhitespace</a>", "<a>plain text\twith\r\nwhitespace</a>", 0},
		{"control bytes", 0, "a\x01b\x1fc\x00d", "a?b?c?d", 3},
		{"invalid utf-8", 0, "ok \xff end", "ok ? end", 1},
		{"truncated rune at eof", 0, "abc\xc3", "abc?", 1},
		{"noncharacters", 0, "x\xef\xbf\xbey\xef\xbf\xbf", "x?y?", 2},
		{"rune across blocks", 4, "abc\xc3\xa9d", "abc\xc3\xa9d", 0},
		{"many blocks", 3, "ab\x02cdef\x03gh", "ab?cdef?gh", 2},
		{"multibyte kept", 0, "Mörul Ögon", "Mörul Ögon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := api.DefaultConfig().Sanitize
			if tt.blockSize > 0 {
				cfg.BlockSize = tt.blockSize
			}
			s := NewSanitizer(cfg, nil)

			var out bytes.Buffer
			n, err := s.Copy(&out, strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
			assert.Equal(t, tt.replaced, n)
		})
	}
}

func TestSanitizer_SingleByteDocument(t *testing.T) {
	in := "<?xml version=\"1.0\" encoding='CP437'?>\n<a>d\x81mmy\x01\xff</a>"
	want := "<?xml version=\"1.0\" encoding='CP437'?>\n<a>d\x81mmy?\xff</a>"

	for _, blockSize := range []int{0, 16, 4, 1} {
		t.Run(fmt.Sprintf("block %d", blockSize), func(t *testing.T) {
			cfg := api.DefaultConfig().Sanitize
			if blockSize > 0 {
				cfg.BlockSize = blockSize
			}
			s := NewSanitizer(cfg, nil)

			var out bytes.Buffer
			n, err := s.Copy(&out, strings.NewReader(in))
			require.NoError(t, err)
			assert.Equal(t, want, out.String(), "declaration is found regardless of block size")
			assert.Equal(t, int64(1), n)
		})
	}
}

func TestSanitizer_Placeholder(t *testing.T) {
	s := NewSanitizer(&api.SanitizeConfig{Placeholder: "_", BlockSize: 16, Suffix: ".clean"}, nil)

	var out bytes.Buffer
	_, err := s.Copy(&out, strings.NewReader("a\x07b"))
	require.NoError(t, err)
	assert.Equal(t, "a_b", out.String())
	assert.Equal(t, "world.clean.xml", SanitizedName("world.xml", s.Suffix))
}

func TestSanitizedName(t *testing.T) {
	assert.Equal(t, "world.sanitized.xml", SanitizedName("world.xml", ".sanitized"))
	assert.Equal(t, "dir/region1-legends.sanitized.xml", SanitizedName("dir/region1-legends.xml", ".sanitized"))
	assert.Equal(t, "legends.sanitized", SanitizedName("legends", ".sanitized"))
}

func TestSanitizer_Sanitize(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "world.xml", []byte("<a>\x01\x02</a>"), 0o644))

	m := metrics.New()
	name, err := NewSanitizer(nil, m).Sanitize(fs, "world.xml")
	require.NoError(t, err)
	assert.Equal(t, "world.sanitized.xml", name)

	got, err := util.ReadFile(fs, name)
	require.NoError(t, err)
	assert.Equal(t, "<a>??</a>", string(got))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BytesReplaced))

	orig, err := util.ReadFile(fs, "world.xml")
	require.NoError(t, err)
	assert.Equal(t, "<a>\x01\x02</a>", string(orig), "original is left untouched")
}

func TestSanitizer_MissingFile(t *testing.T) {
	_, err := NewSanitizer(nil, nil).Sanitize(memfs.New(), "absent.xml")
	assert.Error(t, err)
}
