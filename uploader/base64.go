package uploader

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

// ParseDataURI splits a data:<type>/<subtype>;base64,<payload> string into the
// subtype, used as file extension, and the decoded payload. Whitespace in the
// payload is read as '+', undoing form encoding applied in transit.
func ParseDataURI(dataURI string) (string, []byte, error) {
	semi := strings.Index(dataURI, ";")
	if semi < 0 {
		return "", nil, fmt.Errorf("%w: data uri has no media type terminator", ErrDecode)
	}

	_, mediaType, ok := strings.Cut(dataURI[:semi], ":")
	if !ok {
		return "", nil, fmt.Errorf("%w: data uri has no scheme", ErrDecode)
	}

	_, ext, ok := strings.Cut(mediaType, "/")
	if !ok || ext == "" {
		return "", nil, fmt.Errorf("%w: data uri media type %q has no subtype", ErrDecode, mediaType)
	}
	if !validSubtype(ext) {
		return "", nil, fmt.Errorf("%w: data uri subtype %q is not a valid extension", ErrDecode, ext)
	}

	comma := strings.Index(dataURI, ",")
	if comma < 0 {
		return "", nil, fmt.Errorf("%w: data uri has no payload", ErrDecode)
	}

	payload := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '+'
		}
		return r
	}, dataURI[comma+1:])

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return ext, data, nil
}

// validSubtype reports whether ext can be used as a file extension: only
// [A-Za-z0-9.+-], no leading dot and no "..".
func validSubtype(ext string) bool {
	if strings.HasPrefix(ext, ".") || strings.Contains(ext, "..") {
		return false
	}

	return !strings.ContainsFunc(ext, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '.', r == '+', r == '-':
			return false
		}
		return true
	})
}
