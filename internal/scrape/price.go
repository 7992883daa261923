package scrape

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parsePrice parses a Turkish-formatted price string ("1.299,90", "₺449",
// "449 TL") into a float. Currency markers and thousands separators are
// stripped before parsing.
func parsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "₺", "")
	s = strings.ReplaceAll(s, "TL", "")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, fmt.Errorf("empty price string %q", raw)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q: %w", raw, err)
	}
	return v, nil
}

// formatPrice renders a float back into the Turkish display format the
// storefronts use ("1.299,90").
func formatPrice(v float64) string {
	v = math.Round(v*100) / 100
	s := strconv.FormatFloat(v, 'f', 2, 64)

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String() + "," + fracPart
}
