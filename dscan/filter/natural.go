package filter

import (
	"sort"
	"strings"
	"unicode"
)

// SortNatural orders paths so embedded numbers compare numerically:
// img2.jpg sorts before img10.jpg.
func SortNatural(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		return naturalLess(paths[i], paths[j])
	})
}

func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		aTok, aNum, aRest := nextToken(a)
		bTok, bNum, bRest := nextToken(b)

		if aNum && bNum {
			// Compare numerically: strip leading zeros, then by length.
			at := strings.TrimLeft(aTok, "0")
			bt := strings.TrimLeft(bTok, "0")
			if len(at) != len(bt) {
				return len(at) < len(bt)
			}
			if at != bt {
				return at < bt
			}
		} else if aTok != bTok {
			return aTok < bTok
		}

		a, b = aRest, bRest
	}
	return len(a) < len(b)
}

// nextToken splits off the leading run of digits or non-digits.
func nextToken(s string) (token string, numeric bool, rest string) {
	if s == "" {
		return "", false, ""
	}
	numeric = unicode.IsDigit(rune(s[0]))
	i := 0
	for i < len(s) && unicode.IsDigit(rune(s[i])) == numeric {
		i++
	}
	return s[:i], numeric, s[i:]
}
