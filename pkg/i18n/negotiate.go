package i18n

// Negotiate picks the supported language that best serves the ranked candidates.
//
// Candidates are tried in order. For each one an exact match wins; otherwise any
// supported language with the same primary tag matches (the bare primary
// language first, then the smallest tag). The first candidate with any match
// decides. Without a match def is returned.
//
// The result depends only on the candidate order, never on the order of supported.
func Negotiate(candidates, supported []Lang, def Lang) Lang {
	for _, candidate := range candidates {
		if candidate.IsZero() {
			continue
		}
		if lang, ok := matchExact(candidate, supported); ok {
			return lang
		}
		if lang, ok := matchPrimary(candidate, supported); ok {
			return lang
		}
	}
	return def
}

func matchExact(candidate Lang, supported []Lang) (Lang, bool) {
	for _, s := range supported {
		if s == candidate {
			return s, true
		}
	}
	return Lang{}, false
}

func matchPrimary(candidate Lang, supported []Lang) (Lang, bool) {
	var (
		best  Lang
		found bool
	)
	for _, s := range supported {
		if s.Code() != candidate.Code() {
			continue
		}
		if !found || preferPrimary(s, best) {
			best, found = s, true
		}
	}
	return best, found
}

// preferPrimary orders languages sharing a primary tag: region-less first,
// then by tag.
func preferPrimary(a, b Lang) bool {
	if a.HasRegion() != b.HasRegion() {
		return !a.HasRegion()
	}
	return a.String() < b.String()
}
