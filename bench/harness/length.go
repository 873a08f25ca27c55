package harness

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidLength is returned by ParseLength for malformed input.
var ErrInvalidLength = errors.New("invalid length")

// ParseLength parses strings like "123", "12k" or "256M". Spaces around the number are
// allowed; an optional k/K, m/M or g/G suffix multiplies by 1024, 1024² or 1024³ and
// must be the last character.
func ParseLength(s string) (int, error) {
	body := strings.TrimLeftFunc(s, unicode.IsSpace)
	digits := 0
	for digits < len(body) && body[digits] >= '0' && body[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}
	n, err := strconv.ParseUint(body[:digits], 10, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidLength, s, err)
	}

	rest := strings.TrimLeftFunc(body[digits:], unicode.IsSpace)
	if rest == "" {
		return int(n), nil
	}
	if len(rest) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}
	var shift uint
	switch rest[0] {
	case 'k', 'K':
		shift = 10
	case 'm', 'M':
		shift = 20
	case 'g', 'G':
		shift = 30
	default:
		return 0, fmt.Errorf("%w: bad suffix in %q", ErrInvalidLength, s)
	}
	if n > (1<<62)>>shift {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidLength, s)
	}
	return int(n << shift), nil
}
