package ingest

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// charsetReader decodes documents whose XML declaration names an encoding
// other than UTF-8. The legends exporter writes CP437.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

func lookupEncoding(label string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "cp437", "ibm437", "437", "cspc8codepage437":
		return charmap.CodePage437, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc, nil
}

// singleByteLabel reports whether an encoding label names a single-byte
// character set, in which every byte value is a character on its own.
func singleByteLabel(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8":
		return false
	}
	enc, err := lookupEncoding(label)
	if err != nil {
		return false
	}
	_, ok := enc.(*charmap.Charmap)
	return ok
}
