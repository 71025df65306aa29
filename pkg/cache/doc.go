// Package cache provides a small generic in-memory LRU cache with TTLs.
//
// The message service uses it to memoize language negotiation per distinct
// Accept-Language header:
//
//	negotiated := cache.NewMemory[i18n.Lang](cache.WithMaxEntries(4096))
//	lang, err := negotiated.GetOrSet(ctx, header, 0, func(context.Context) (i18n.Lang, error) {
//		return api.Preferred(i18n.ParseAcceptLanguage(header)...).Lang(), nil
//	})
//
// GetOrSet coalesces concurrent misses for one key with singleflight.
package cache
