// Package cookie manages the language cookie set by the message service.
//
// The cookie's name and flags come from the messages API configuration:
//
//	lc, err := cookie.New(api.LangCookieName(),
//		cookie.WithSecure(api.LangCookieSecure()),
//		cookie.WithHTTPOnly(api.LangCookieHTTPOnly()),
//	)
//	lc.Set(w, lang.String())
package cookie
