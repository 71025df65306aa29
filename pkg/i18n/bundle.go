package i18n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Bundle is one set of messages for one language, as produced by a Source.
// Lang is a language tag or DefaultBundle.
type Bundle struct {
	Messages map[string]string
	Lang     string
	Source   string
}

// Source produces bundles. Sources are applied in configuration order;
// a later bundle overrides keys of an earlier one for the same language.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Load returns every bundle the source currently holds.
	Load(ctx context.Context) ([]Bundle, error)
}

type staticSource struct {
	messages map[string]string
	lang     string
}

// StaticSource serves a fixed, possibly nested, message map for one language.
// Nested maps are flattened with dots: {"errors": {"required": "..."}} becomes "errors.required".
func StaticSource(lang string, messages map[string]any) Source {
	return &staticSource{lang: lang, messages: flattenMessages(messages, "")}
}

func (s *staticSource) Name() string { return "static:" + s.lang }

func (s *staticSource) Load(context.Context) ([]Bundle, error) {
	if s.lang == "" {
		return nil, ErrEmptyLanguage
	}
	return []Bundle{{Lang: s.lang, Source: s.Name(), Messages: maps.Clone(s.messages)}}, nil
}

// DecodeBundle decodes raw bundle data according to the file name:
// "messages" / "messages.<tag>" use the messages syntax, .json, .yaml/.yml and
// .toml files hold (nested) key maps.
func DecodeBundle(name string, data []byte) (map[string]string, error) {
	base := path.Base(name)
	if base == "messages" || strings.HasPrefix(base, "messages.") && !isStructuredExt(path.Ext(base)) {
		return ParseMessages(bytes.NewReader(data), name)
	}

	var tree map[string]any
	var err error
	switch strings.ToLower(path.Ext(base)) {
	case ".json":
		err = json.Unmarshal(data, &tree)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &tree)
	case ".toml":
		err = toml.Unmarshal(data, &tree)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, &ParseError{Source: name, Msg: err.Error()}
	}

	return flattenMessages(tree, ""), nil
}

func isStructuredExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

func flattenMessages(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string, len(data))

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flattenMessages(v, fullKey))
		case map[string]string:
			for subKey, subVal := range v {
				result[fullKey+"."+subKey] = subVal
			}
		case nil:
			result[fullKey] = ""
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}

	return result
}
