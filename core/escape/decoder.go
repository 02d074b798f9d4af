// Package escape decodes the body of a KEVS quoted string literal
// (the bytes between, but excluding, the surrounding double quotes) into
// an owned UTF-8 byte sequence.
//
// Encoding is hand-rolled rather than routed through unicode/utf8, because
// utf8.AppendRune silently substitutes U+FFFD for surrogate-range and
// out-of-range code points instead of reporting an error, and this format
// requires both to be rejected (see DESIGN.md).
package escape

import (
	"fmt"
	"strconv"
)

// Decode converts a quoted-string body into its UTF-8 byte sequence,
// resolving the escapes listed in spec §4.2.
func Decode(body []byte) (string, error) {
	out := make([]byte, 0, len(body))

	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			out = append(out, c)
			i++
			continue
		}

		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape character")
		}

		switch body[i] {
		case 'a':
			out = append(out, '\a')
			i++
		case 'b':
			out = append(out, '\b')
			i++
		case 'f':
			out = append(out, '\f')
			i++
		case 'n':
			out = append(out, '\n')
			i++
		case 'r':
			out = append(out, '\r')
			i++
		case 't':
			out = append(out, '\t')
			i++
		case 'v':
			out = append(out, '\v')
			i++
		case '"':
			out = append(out, '"')
			i++
		case '\\':
			out = append(out, '\\')
			i++
		case 'u':
			n, err := decodeCodepoint(body, i+1, 4)
			if err != nil {
				return "", err
			}
			encoded, ok := ucsToUTF8(n)
			if !ok {
				return "", fmt.Errorf("could not encode Unicode code point to UTF-8")
			}
			out = append(out, encoded...)
			i += 1 + 4
		case 'U':
			n, err := decodeCodepoint(body, i+1, 8)
			if err != nil {
				return "", err
			}
			encoded, ok := ucsToUTF8(n)
			if !ok {
				return "", fmt.Errorf("could not encode Unicode code point to UTF-8")
			}
			out = append(out, encoded...)
			i += 1 + 8
		default:
			return "", fmt.Errorf("unknown escape sequence")
		}
	}

	return string(out), nil
}

// decodeCodepoint parses n hex digits starting at offset start in body.
func decodeCodepoint(body []byte, start, n int) (uint64, error) {
	if start+n > len(body) {
		return 0, fmt.Errorf("\\%c must be followed by %d hex digits", escapeLetter(n), n)
	}
	v, err := strconv.ParseUint(string(body[start:start+n]), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex digit in code point: %w", err)
	}
	return v, nil
}

func escapeLetter(n int) byte {
	if n == 4 {
		return 'u'
	}
	return 'U'
}

// ucsToUTF8 encodes a Unicode scalar value as UTF-8, rejecting the
// surrogate range and code points beyond U+10FFFF.
func ucsToUTF8(code uint64) ([]byte, bool) {
	switch {
	case code >= 0xd800 && code <= 0xdfff:
		return nil, false
	case code <= 0x7f:
		return []byte{byte(code)}, true
	case code <= 0x7ff:
		return []byte{
			byte(0xc0 | (code >> 6)),
			byte(0x80 | (code & 0x3f)),
		}, true
	case code <= 0xffff:
		return []byte{
			byte(0xe0 | (code >> 12)),
			byte(0x80 | ((code >> 6) & 0x3f)),
			byte(0x80 | (code & 0x3f)),
		}, true
	case code <= 0x10ffff:
		return []byte{
			byte(0xf0 | (code >> 18)),
			byte(0x80 | ((code >> 12) & 0x3f)),
			byte(0x80 | ((code >> 6) & 0x3f)),
			byte(0x80 | (code & 0x3f)),
		}, true
	default:
		return nil, false
	}
}
