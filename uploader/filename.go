package uploader

import (
	"crypto/rand"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen. Letters are transliterated to ASCII.
func Slugify(s string) string {
	// separators go in as spaces so slug's symbol substitutions never apply
	return slug.Make(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s))
}

// DeriveFilename builds the stored name for an upload. An explicit name wins;
// otherwise the name is the unix timestamp of now followed by the slugged
// base name of original. Two calls within the same second for the same
// original collide. A name or base name without any alphanumerics is replaced
// by a uuid.
func DeriveFilename(name, original, ext string, now time.Time) string {
	var base string
	if name != "" {
		base = Slugify(name)
		if base == "" {
			base = uuid.New().String()
		}
	} else {
		stem := Slugify(strings.TrimSuffix(original, filepath.Ext(original)))
		if stem == "" {
			stem = uuid.New().String()
		}
		base = strconv.FormatInt(now.Unix(), 10) + "-" + stem
	}

	if ext == "" {
		return base
	}
	return base + "." + ext
}

// randomString returns n characters drawn uniformly from [A-Za-z0-9].
func randomString(n int) string {
	// bytes at or above the largest multiple of 62 that fits in a byte are rejected
	const limit = 256 - 256%len(alphanumeric)

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		rand.Read(buf)
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphanumeric[int(b)%len(alphanumeric)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out)
}
