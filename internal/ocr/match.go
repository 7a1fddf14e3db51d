package ocr

import (
	"strings"

	"golang.org/x/text/width"
)

func foldName(s string) string {
	return strings.ToLower(width.Fold.String(strings.TrimSpace(s)))
}

// matchRoster finds the first roster name that contains read or is contained
// in it, ignoring case and character width. It returns "" when nothing fits.
func matchRoster(read string, roster []string) string {
	r := foldName(read)
	if r == "" {
		return ""
	}
	for _, name := range roster {
		n := foldName(name)
		if n == "" {
			continue
		}
		if strings.Contains(n, r) || strings.Contains(r, n) {
			return name
		}
	}
	return ""
}
