package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

type dirSource struct {
	fsys fs.FS
	name string
}

// DirSource loads bundles from an fs.FS. Recognised files:
//
//	messages                 default bundle
//	messages.en-US           bundle for en-US
//	fr/common.yaml           keys "common.*" for fr (.json, .yaml, .yml, .toml)
//	default/errors.json      keys "errors.*" for the default bundle
//
// Every malformed file is reported; the load fails if any file is malformed.
func DirSource(fsys fs.FS) Source {
	return &dirSource{fsys: fsys, name: "dir"}
}

// NamedDirSource is DirSource with a custom name used in errors and logs.
func NamedDirSource(name string, fsys fs.FS) Source {
	return &dirSource{fsys: fsys, name: name}
}

func (s *dirSource) Name() string { return s.name }

func (s *dirSource) Load(ctx context.Context) ([]Bundle, error) {
	var files []string
	err := fs.WalkDir(s.fsys, ".", func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, filePath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", s.name, err)
	}

	// Deterministic override order for files mapping to the same language.
	sort.Strings(files)

	var (
		bundles []Bundle
		errs    []error
	)
	for _, filePath := range files {
		if !IsBundleFile(filePath) {
			continue
		}

		data, err := fs.ReadFile(s.fsys, filePath)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading %q: %w", filePath, err))
			continue
		}

		b, _, err := BundleFromFile(filePath, data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.Source = s.name + ":" + filePath
		bundles = append(bundles, b)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return bundles, nil
}

// BundleFromFile decodes one bundle file found at filePath, using the same
// layout rules as DirSource. The boolean is false when the path is not a
// bundle file at all. On a syntax error the valid entries of a messages file
// are still returned alongside the error.
func BundleFromFile(filePath string, data []byte) (Bundle, bool, error) {
	lang, namespace, ok := classifyBundleFile(filePath)
	if !ok {
		return Bundle{}, false, nil
	}

	messages, err := DecodeBundle(filePath, data)
	if namespace != "" && len(messages) > 0 {
		prefixed := make(map[string]string, len(messages))
		for k, v := range messages {
			prefixed[namespace+"."+k] = v
		}
		messages = prefixed
	}

	return Bundle{Lang: lang, Source: filePath, Messages: messages}, true, err
}

// IsBundleFile reports whether filePath names a bundle file.
func IsBundleFile(filePath string) bool {
	_, _, ok := classifyBundleFile(filePath)
	return ok
}

// classifyBundleFile maps a file path to its language and key namespace.
func classifyBundleFile(filePath string) (lang, namespace string, ok bool) {
	base := path.Base(filePath)
	dir := path.Dir(filePath)

	if base == "messages" {
		return DefaultBundle, "", true
	}
	if tag, found := strings.CutPrefix(base, "messages."); found && !isStructuredExt(path.Ext(base)) {
		return tag, "", tag != ""
	}

	if !isStructuredExt(path.Ext(base)) || dir == "." {
		return "", "", false
	}

	lang = path.Base(dir)
	namespace = strings.TrimSuffix(base, path.Ext(base))
	return lang, namespace, lang != "" && namespace != ""
}
