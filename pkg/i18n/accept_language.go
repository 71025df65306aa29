package i18n

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// maxAcceptLanguageLength caps the parsed part of an Accept-Language header.
const maxAcceptLanguageLength = 4096

type weightedLang struct {
	lang    Lang
	quality float64
}

// ParseAcceptLanguage turns an Accept-Language header into a ranked candidate list,
// highest quality first. Ranges with equal quality keep their header order.
// Wildcards, q=0 ranges and malformed tags are skipped.
//
// Example: "fr-CA,fr;q=0.9,en;q=0.8,*;q=0.5" yields [fr-CA fr en].
func ParseAcceptLanguage(header string) []Lang {
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	var ranked []weightedLang
	for part := range strings.SplitSeq(header, ",") {
		tag, params, _ := strings.Cut(part, ";")
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "*" {
			continue
		}

		quality := parseQuality(params)
		if quality == 0 {
			continue
		}

		lang, err := ParseLang(tag)
		if err != nil {
			continue
		}
		ranked = append(ranked, weightedLang{lang: lang, quality: quality})
	}

	slices.SortStableFunc(ranked, func(a, b weightedLang) int {
		return cmp.Compare(b.quality, a.quality)
	})

	langs := make([]Lang, 0, len(ranked))
	for _, w := range ranked {
		if !slices.Contains(langs, w.lang) {
			langs = append(langs, w.lang)
		}
	}
	return langs
}

// parseQuality reads the q parameter of a language range. A missing, malformed
// or out of range q counts as 1.
func parseQuality(params string) float64 {
	for param := range strings.SplitSeq(params, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(name), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || q < 0 || q > 1 {
			return 1
		}
		return q
	}
	return 1
}
