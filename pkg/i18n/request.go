package i18n

import "net/http"

// Request exposes the client's ranked language preferences.
type Request interface {
	AcceptLanguages() []Lang
}

// CookieRequest is a Request that can also read the language cookie.
type CookieRequest interface {
	Request
	LangCookie(name string) (string, bool)
}

type httpRequest struct {
	r *http.Request
}

// NewHTTPRequest adapts an *http.Request. The returned value implements CookieRequest.
func NewHTTPRequest(r *http.Request) CookieRequest {
	return httpRequest{r: r}
}

func (h httpRequest) AcceptLanguages() []Lang {
	return ParseAcceptLanguage(h.r.Header.Get("Accept-Language"))
}

func (h httpRequest) LangCookie(name string) (string, bool) {
	c, err := h.r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Candidates is a Request backed by a fixed candidate list.
type Candidates []Lang

func (c Candidates) AcceptLanguages() []Lang { return c }
