// Package middlewares holds the net/http middlewares of the message service.
//
//	r := chi.NewRouter()
//	r.Use(
//		middlewares.RequestID(),
//		middlewares.Recover(middlewares.WithRecoverLogger(log)),
//		middlewares.I18n(api, middlewares.WithI18nCache(cache.NewMemory[i18n.Lang](), time.Hour)),
//	)
//
// RequestIDExtractor and LanguageExtractor plug into pkg/logger so every record
// logged with the request context carries request_id and lang.
package middlewares
