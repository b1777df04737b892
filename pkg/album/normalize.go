package album

import "strings"

// NormalizeQuality rewrites a googleusercontent URL to request the largest
// available rendition: the trailing size/crop suffix and any query string
// are stripped, then the maximum-size suffix is appended. URLs on other
// hosts pass through unchanged.
//
// The served URLs chain size tokens after a final '=' (for example
// "=w200-h200-c-k-no"), so the whole suffix is validated against the token
// grammar and removed in one pass instead of peeling patterns one by one.
func NormalizeQuality(rawURL string) string {
	if !strings.Contains(rawURL, "googleusercontent.com") {
		return rawURL
	}

	base := rawURL
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	if i := strings.LastIndexByte(base, '='); i >= 0 && isSizeSuffix(base[i+1:]) {
		base = base[:i]
	}

	return base + "=w0-h0"
}

// isSizeSuffix reports whether s is a '-'-joined chain of size/crop tokens,
// such as "w200-h200-c-k-no" or "s1600".
func isSizeSuffix(s string) bool {
	if s == "" {
		return false
	}
	for _, tok := range strings.Split(s, "-") {
		if !isSizeToken(tok) {
			return false
		}
	}
	return true
}

func isSizeToken(tok string) bool {
	switch tok {
	case "c", "k", "no", "d", "rw", "rj", "p":
		return true
	}
	if len(tok) >= 2 {
		switch tok[0] {
		case 'w', 'h', 's':
			return allDigits(tok[1:])
		}
	}
	return false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
