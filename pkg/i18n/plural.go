package i18n

// PluralRule maps a count to its CLDR plural category.
type PluralRule func(n int) string

// CLDR plural categories. Not every language uses every category.
const (
	PluralZero  = "zero"
	PluralOne   = "one"
	PluralTwo   = "two"
	PluralFew   = "few"
	PluralMany  = "many"
	PluralOther = "other"
)

// pluralOrder is the canonical category order used for reporting.
var pluralOrder = []string{PluralZero, PluralOne, PluralTwo, PluralFew, PluralMany, PluralOther}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// DefaultPluralRule is used for languages without a dedicated rule.
var DefaultPluralRule PluralRule = func(n int) string {
	if abs(n) == 1 {
		return PluralOne
	}
	return PluralOther
}

// EnglishPluralRule: one (1), other. Zero is reported as "zero" so
// {n,plural,zero#...} can be used, and falls back to "other" otherwise.
var EnglishPluralRule PluralRule = func(n int) string {
	switch abs(n) {
	case 0:
		return PluralZero
	case 1:
		return PluralOne
	}
	return PluralOther
}

// SlavicPluralRule covers Polish, Russian, Czech, Ukrainian and related languages.
var SlavicPluralRule PluralRule = func(n int) string {
	a := abs(n)
	if a == 1 {
		return PluralOne
	}

	mod10, mod100 := a%10, a%100
	if mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14) {
		return PluralFew
	}
	return PluralMany
}

// RomancePluralRule covers French, Italian and Portuguese: one (0, 1), many (1,000,000+), other.
var RomancePluralRule PluralRule = func(n int) string {
	a := abs(n)
	switch {
	case a <= 1:
		return PluralOne
	case a >= 1000000 && a%1000000 == 0:
		return PluralMany
	}
	return PluralOther
}

// SpanishPluralRule: one (1), many (1,000,000+), other.
var SpanishPluralRule PluralRule = func(n int) string {
	a := abs(n)
	switch {
	case a == 1:
		return PluralOne
	case a >= 1000000 && a%1000000 == 0:
		return PluralMany
	}
	return PluralOther
}

// AsianPluralRule is for languages without plural inflection.
var AsianPluralRule PluralRule = func(int) string {
	return PluralOther
}

// ArabicPluralRule uses all six categories.
var ArabicPluralRule PluralRule = func(n int) string {
	a := abs(n)
	switch a {
	case 0:
		return PluralZero
	case 1:
		return PluralOne
	case 2:
		return PluralTwo
	}

	switch mod100 := a % 100; {
	case mod100 >= 3 && mod100 <= 10:
		return PluralFew
	case mod100 >= 11:
		return PluralMany
	}
	return PluralOther
}

var builtinPluralRules = map[string]PluralRule{
	"en": EnglishPluralRule,
	"de": DefaultPluralRule, "nl": DefaultPluralRule, "sv": DefaultPluralRule,
	"no": DefaultPluralRule, "da": DefaultPluralRule, "is": DefaultPluralRule,
	"pl": SlavicPluralRule, "ru": SlavicPluralRule, "cs": SlavicPluralRule,
	"uk": SlavicPluralRule, "hr": SlavicPluralRule, "sr": SlavicPluralRule,
	"sk": SlavicPluralRule, "sl": SlavicPluralRule, "bg": SlavicPluralRule,
	"fr": RomancePluralRule, "it": RomancePluralRule, "pt": RomancePluralRule,
	"es": SpanishPluralRule,
	"ja": AsianPluralRule, "zh": AsianPluralRule, "ko": AsianPluralRule,
	"th": AsianPluralRule, "vi": AsianPluralRule, "id": AsianPluralRule, "ms": AsianPluralRule,
	"ar": ArabicPluralRule,
}

// PluralRuleFor returns the built-in rule for the language's primary tag,
// or DefaultPluralRule.
func PluralRuleFor(lang Lang) PluralRule {
	if rule, ok := builtinPluralRules[lang.Code()]; ok {
		return rule
	}
	return DefaultPluralRule
}

// SupportedPluralForms returns the categories a rule produces, in CLDR order.
func SupportedPluralForms(rule PluralRule) []string {
	forms := make(map[string]bool)
	for _, n := range []int{0, 1, 2, 3, 4, 5, 10, 11, 12, 13, 14, 20, 21, 22, 100, 101, 111, 1000, 1000000} {
		forms[rule(n)] = true
	}

	var result []string
	for _, form := range pluralOrder {
		if forms[form] {
			result = append(result, form)
		}
	}
	return result
}

// pluralFallbacks lists the categories tried when a plural argument has no
// branch for the selected category.
func pluralFallbacks(form string) []string {
	switch form {
	case PluralTwo:
		return []string{PluralFew, PluralMany, PluralOther}
	case PluralFew:
		return []string{PluralMany, PluralOther}
	case PluralOther:
		return nil
	default:
		return []string{PluralOther}
	}
}
