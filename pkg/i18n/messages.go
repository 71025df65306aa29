package i18n

// Messages is a language bound to one catalog snapshot.
// It is a small value, cheap to copy and safe to share between goroutines.
// A later Reload does not affect an existing Messages.
//
// The zero value has no catalog: every key is missing and renders as itself.
type Messages struct {
	api     *MessagesAPI
	catalog *Catalog
	lang    Lang
}

// Lang returns the bound language.
func (m Messages) Lang() Lang { return m.lang }

// Catalog returns the snapshot the value was bound to.
func (m Messages) Catalog() *Catalog { return m.catalog }

// Get renders key in the bound language.
func (m Messages) Get(key string, args ...any) string {
	return m.render([]string{key}, args)
}

// GetArgs is Get with an explicit argument list.
func (m Messages) GetArgs(key string, args []any) string {
	return m.render([]string{key}, args)
}

// GetFirst renders the first defined key, see MessagesAPI.GetFirst.
func (m Messages) GetFirst(keys []string, args ...any) string {
	return m.render(keys, args)
}

// GetFirstArgs is GetFirst with an explicit argument list.
func (m Messages) GetFirstArgs(keys []string, args []any) string {
	return m.render(keys, args)
}

// IsDefinedAt reports whether key resolves in the bound language.
func (m Messages) IsDefinedAt(key string) bool {
	return m.catalog != nil && m.catalog.IsDefinedAt(m.lang, key)
}

// Format renders an ad-hoc template in the bound language.
func (m Messages) Format(template string, args ...any) string {
	cat := m.catalog
	if cat == nil {
		cat = &Catalog{}
	}
	return cat.Format(m.lang, CompileTemplate(template), args...)
}

func (m Messages) render(keys []string, args []any) string {
	if m.api == nil || m.catalog == nil {
		if len(keys) == 0 {
			return ""
		}
		return keys[len(keys)-1]
	}
	return m.api.render(m.catalog, m.lang, keys, args)
}
