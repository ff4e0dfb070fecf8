package ingest

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"

	"github.com/agentic-research/legends/api"
	"github.com/agentic-research/legends/internal/metrics"
)

// declScanSize is how much of the document is searched for the XML
// declaration, independent of the block size.
const declScanSize = 256

var encodingDeclRe = regexp.MustCompile(`<\?xml[^>]*encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// Sanitizer repairs documents the parser rejects because of stray control
// characters or broken UTF-8. It works byte by byte over fixed-size blocks and
// writes the result next to the original.
type Sanitizer struct {
	Placeholder byte
	BlockSize   int
	Suffix      string

	metrics *metrics.Metrics
}

// NewSanitizer builds a Sanitizer from configuration. m may be nil.
func NewSanitizer(cfg *api.SanitizeConfig, m *metrics.Metrics) *Sanitizer {
	if cfg == nil {
		cfg = api.DefaultConfig().Sanitize
	}
	s := &Sanitizer{
		Placeholder: '?',
		BlockSize:   cfg.BlockSize,
		Suffix:      cfg.Suffix,
		metrics:     m,
	}
	if cfg.Placeholder != "" {
		s.Placeholder = cfg.Placeholder[0]
	}
	if s.BlockSize <= 0 {
		s.BlockSize = 64 * 1024
	}
	return s
}

// SanitizedName returns the side-by-side name for the repaired copy:
// "world.xml" becomes "world.sanitized.xml" with the default suffix.
func SanitizedName(name, suffix string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + suffix + ext
}

// Sanitize writes a repaired copy of name and returns the copy's name.
func (s *Sanitizer) Sanitize(fsys billy.Filesystem, name string) (string, error) {
	in, err := fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer func() { _ = in.Close() }() // read-only

	outName := SanitizedName(name, s.Suffix)
	out, err := fsys.Create(outName)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outName, err)
	}

	replaced, err := s.Copy(out, in)
	if err != nil {
		_ = out.Close()
		_ = fsys.Remove(outName) // partial copy is useless
		return "", fmt.Errorf("sanitize %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", outName, err)
	}
	if s.metrics != nil {
		s.metrics.BytesReplaced.Add(float64(replaced))
	}
	return outName, nil
}

// Copy streams src to dst, replacing characters that are not allowed in XML
// with the placeholder. It returns the number of replacements. When the
// document declares a single-byte encoding only control characters are
// replaced; otherwise malformed UTF-8 sequences are replaced as well.
func (s *Sanitizer) Copy(dst io.Writer, src io.Reader) (int64, error) {
	br := bufio.NewReaderSize(src, declScanSize)
	head, perr := br.Peek(declScanSize)
	if perr != nil && perr != io.EOF && perr != bufio.ErrBufferFull {
		return 0, perr
	}
	checkUTF8 := !declaresSingleByte(head)

	buf := make([]byte, s.BlockSize)
	pending := make([]byte, 0, s.BlockSize+utf8.UTFMax)
	out := make([]byte, 0, s.BlockSize+utf8.UTFMax)

	var replaced int64
	for {
		n, rerr := io.ReadFull(br, buf)
		final := rerr == io.EOF || rerr == io.ErrUnexpectedEOF
		if rerr != nil && !final {
			return replaced, rerr
		}
		pending = append(pending, buf[:n]...)

		var used int
		var r int64
		out, used, r = s.repair(out[:0], pending, checkUTF8, final)
		replaced += r
		if _, err := dst.Write(out); err != nil {
			return replaced, err
		}
		rest := copy(pending, pending[used:])
		pending = pending[:rest]

		if final {
			return replaced, nil
		}
	}
}

// repair appends the repaired form of in to out. Unless final, an incomplete
// UTF-8 sequence at the end of in is left unconsumed for the next block.
func (s *Sanitizer) repair(out, in []byte, checkUTF8, final bool) ([]byte, int, int64) {
	var replaced int64
	i := 0
	for i < len(in) {
		c := in[i]
		if c < utf8.RuneSelf || !checkUTF8 {
			if invalidControl(c) {
				out = append(out, s.Placeholder)
				replaced++
			} else {
				out = append(out, c)
			}
			i++
			continue
		}
		if !final && !utf8.FullRune(in[i:]) {
			break
		}
		r, size := utf8.DecodeRune(in[i:])
		if (r == utf8.RuneError && size == 1) || r == 0xFFFE || r == 0xFFFF {
			out = append(out, s.Placeholder)
			replaced++
		} else {
			out = append(out, in[i:i+size]...)
		}
		i += size
	}
	return out, i, replaced
}

// invalidControl reports control bytes XML 1.0 forbids.
func invalidControl(c byte) bool {
	return c < 0x20 && c != '\t' && c != '\n' && c != '\r'
}

func declaresSingleByte(head []byte) bool {
	m := encodingDeclRe.FindSubmatch(head)
	if m == nil {
		return false
	}
	return singleByteLabel(string(m[1]))
}
