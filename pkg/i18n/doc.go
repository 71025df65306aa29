// Package i18n resolves localized messages and negotiates languages.
//
// Messages live in bundles, one per language plus an optional default bundle
// that acts as the universal fallback. Bundles come from Sources (a directory of
// "messages" files or JSON/YAML/TOML trees, Redis, Postgres, S3) and are merged
// into an immutable Catalog of compiled templates.
//
// # Basic Usage
//
//	//go:embed conf
//	var conf embed.FS
//
//	sub, _ := fs.Sub(conf, "conf")
//	api, err := i18n.New(ctx,
//		i18n.WithLanguages("en", "fr", "en-US"),
//		i18n.WithSources(i18n.DirSource(sub)),
//	)
//
//	msgs := api.PreferredRequest(i18n.NewHTTPRequest(r))
//	msgs.Get("greeting", user.Name)
//
// # Bundle Files
//
//	conf/messages          default bundle
//	conf/messages.fr       French
//	conf/en/errors.yaml    keys "errors.*" for English
//
// The messages syntax is one "key = value" per line with # and ! comments,
// backslash escapes and trailing-backslash line continuation.
//
// # Fallback Chain
//
// A key is resolved in the requested language, then its primary language
// ("en-US" to "en"), then the default language and finally the default bundle.
// A key missing everywhere renders as the key itself.
//
// # Templates
//
//	Hello, {0}!
//	{0,number,#.##} {0,number,percent} {0,date,long} {0,time,short}
//	{0,choice,0#no files|1#one file|1<{0,number,integer} files}
//	{0,plural,=0#empty|one#one item|other#{0} items}
//	See {@help.link}
//
// Missing arguments render as the literal placeholder and extra arguments are
// ignored. A doubled apostrophe renders one apostrophe and '{' quotes syntax
// characters.
//
// # Negotiation
//
// Negotiate walks the candidates in order and returns the first supported
// language matching exactly or by primary tag, or the default language.
// PreferredRequest additionally honours the language cookie.
//
// # Reloading
//
// Reload rebuilds the catalog from every source and swaps it atomically; a
// failed reload keeps the previous catalog. Reloader runs Reload on a cron schedule.
package i18n
