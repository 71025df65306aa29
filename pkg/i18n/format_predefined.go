package i18n

// Predefined locale formats. LocaleFormatFor picks one by language.
var (
	FormatEnUS = NewLocaleFormat(
		WithLongDateLayout("January 2, 2006"),
		WithLongTimeLayout("3:04:05 PM MST"),
	)

	FormatEnGB = NewLocaleFormat(
		WithCurrencySymbol("£"),
		WithDateLayout("02/01/2006"),
		WithLongDateLayout("2 January 2006"),
		WithTimeLayout("15:04"),
		WithLongTimeLayout("15:04:05 MST"),
	)

	FormatDeDE = NewLocaleFormat(
		WithDecimalSeparator(","),
		WithThousandSeparator("."),
		WithCurrencySymbol("€"),
		WithCurrencyAfter(),
		WithDateLayout("02.01.2006"),
		WithTimeLayout("15:04"),
		WithLongTimeLayout("15:04:05 MST"),
	)

	FormatFrFR = NewLocaleFormat(
		WithDecimalSeparator(","),
		WithThousandSeparator(" "),
		WithCurrencySymbol("€"),
		WithCurrencyAfter(),
		WithPercentSymbol(" %"),
		WithDateLayout("02/01/2006"),
		WithTimeLayout("15:04"),
		WithLongTimeLayout("15:04:05 MST"),
	)

	FormatEsES = NewLocaleFormat(
		WithDecimalSeparator(","),
		WithThousandSeparator("."),
		WithCurrencySymbol("€"),
		WithCurrencyAfter(),
		WithDateLayout("02/01/2006"),
		WithTimeLayout("15:04"),
	)

	FormatPtBR = NewLocaleFormat(
		WithDecimalSeparator(","),
		WithThousandSeparator("."),
		WithCurrencySymbol("R$"),
		WithDateLayout("02/01/2006"),
		WithTimeLayout("15:04"),
	)

	FormatJaJP = NewLocaleFormat(
		WithCurrencySymbol("¥"),
		WithDateLayout("2006/01/02"),
		WithLongDateLayout("2006年1月2日"),
		WithTimeLayout("15:04"),
	)

	FormatZhCN = NewLocaleFormat(
		WithCurrencySymbol("¥"),
		WithDateLayout("2006-01-02"),
		WithLongDateLayout("2006年1月2日"),
		WithTimeLayout("15:04"),
	)

	FormatKoKR = NewLocaleFormat(
		WithCurrencySymbol("₩"),
		WithDateLayout("2006.01.02"),
		WithTimeLayout("15:04"),
	)

	FormatPlPL = NewLocaleFormat(
		WithDecimalSeparator(","),
		WithThousandSeparator(" "),
		WithCurrencySymbol("zł"),
		WithCurrencyAfter(),
		WithDateLayout("02.01.2006"),
		WithTimeLayout("15:04"),
	)

	FormatRuRU = NewLocaleFormat(
		WithDecimalSeparator(","),
		WithThousandSeparator(" "),
		WithCurrencySymbol("₽"),
		WithCurrencyAfter(),
		WithDateLayout("02.01.2006"),
		WithTimeLayout("15:04"),
	)

	FormatArSA = NewLocaleFormat(
		WithCurrencySymbol("SAR"),
		WithCurrencyAfter(),
		WithDateLayout("02/01/2006"),
	)
)

// localeFormats is keyed by full tag first, then by primary tag.
var localeFormats = map[string]*LocaleFormat{
	"en-US": FormatEnUS,
	"en-GB": FormatEnGB,
	"en-AU": FormatEnGB,
	"en-IE": FormatEnGB,
	"en":    FormatEnUS,
	"de":    FormatDeDE,
	"fr":    FormatFrFR,
	"es":    FormatEsES,
	"pt":    FormatPtBR,
	"ja":    FormatJaJP,
	"zh":    FormatZhCN,
	"ko":    FormatKoKR,
	"pl":    FormatPlPL,
	"ru":    FormatRuRU,
	"ar":    FormatArSA,
}

// LocaleFormatFor returns the predefined format for lang: exact tag, then
// primary tag, then FormatEnUS.
func LocaleFormatFor(lang Lang) *LocaleFormat {
	if lf, ok := localeFormats[lang.String()]; ok {
		return lf
	}
	if lf, ok := localeFormats[lang.Code()]; ok {
		return lf
	}
	return FormatEnUS
}
