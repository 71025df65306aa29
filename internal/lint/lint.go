// Package lint checks message bundle directories for translation gaps and
// template mistakes.
package lint

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"slices"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// Kind classifies an Issue.
type Kind string

const (
	KindMalformed    Kind = "malformed"
	KindMissing      Kind = "missing"
	KindRedundant    Kind = "redundant"
	KindUnbalanced   Kind = "unbalanced"
	KindPlaceholders Kind = "placeholders"
)

// Issue is one finding. Line is set for malformed entries only.
type Issue struct {
	Kind   Kind
	Lang   string
	Key    string
	Source string
	Msg    string
	Line   int
}

func (i Issue) String() string {
	switch {
	case i.Line > 0:
		return fmt.Sprintf("%s: %s %s:%d: %s", i.Lang, i.Kind, i.Source, i.Line, i.Msg)
	case i.Key != "" && i.Msg != "":
		return fmt.Sprintf("%s: %s key %q: %s", i.Lang, i.Kind, i.Key, i.Msg)
	case i.Key != "":
		return fmt.Sprintf("%s: %s key %q", i.Lang, i.Kind, i.Key)
	default:
		return fmt.Sprintf("%s: %s %s: %s", i.Lang, i.Kind, i.Source, i.Msg)
	}
}

// Report is the result of linting one directory.
type Report struct {
	// Keys counts the merged keys per bundle tag.
	Keys   map[string]int
	Issues []Issue
}

// Failed reports whether any issue was found.
func (r *Report) Failed() bool { return len(r.Issues) > 0 }

// Write prints one line per issue followed by a summary.
func (r *Report) Write(w io.Writer) error {
	for _, issue := range r.Issues {
		if _, err := fmt.Fprintln(w, issue.String()); err != nil {
			return err
		}
	}

	for _, tag := range slices.Sorted(maps.Keys(r.Keys)) {
		if _, err := fmt.Fprintf(w, "%s: %d keys\n", tag, r.Keys[tag]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d issue(s)\n", len(r.Issues))
	return err
}

// Run loads every bundle file of fsys and checks:
//
//   - malformed lines of messages files
//   - keys defined for some language (or the default bundle) but missing from
//     another language and from its primary language
//   - keys of a language absent from the default bundle, when one exists
//   - templates with unbalanced braces
//   - translations using argument indices the default bundle does not use
func Run(ctx context.Context, fsys fs.FS) (*Report, error) {
	bundles, issues, err := load(ctx, fsys)
	if err != nil {
		return nil, err
	}

	report := &Report{Keys: make(map[string]int, len(bundles)), Issues: issues}
	for tag, msgs := range bundles {
		report.Keys[tag] = len(msgs)
	}

	reference := make(map[string]struct{})
	for _, msgs := range bundles {
		for key := range msgs {
			reference[key] = struct{}{}
		}
	}
	defaults, hasDefault := bundles[i18n.DefaultBundle]

	for _, tag := range slices.Sorted(maps.Keys(bundles)) {
		msgs := bundles[tag]

		for _, key := range slices.Sorted(maps.Keys(msgs)) {
			raw := msgs[key]
			if !Balanced(raw) {
				report.Issues = append(report.Issues, Issue{Kind: KindUnbalanced, Lang: tag, Key: key, Msg: "unbalanced braces"})
			}
			if tag == i18n.DefaultBundle || !hasDefault {
				continue
			}

			def, ok := defaults[key]
			if !ok {
				report.Issues = append(report.Issues, Issue{Kind: KindRedundant, Lang: tag, Key: key})
				continue
			}
			if extra := extraIndices(raw, def); len(extra) > 0 {
				report.Issues = append(report.Issues, Issue{
					Kind: KindPlaceholders,
					Lang: tag,
					Key:  key,
					Msg:  fmt.Sprintf("uses argument(s) %v not used by the default message", extra),
				})
			}
		}

		if tag == i18n.DefaultBundle {
			continue
		}
		primary := primaryTag(tag)
		for _, key := range slices.Sorted(maps.Keys(reference)) {
			if _, ok := msgs[key]; ok {
				continue
			}
			if _, ok := bundles[primary][key]; ok && primary != tag {
				continue
			}
			report.Issues = append(report.Issues, Issue{Kind: KindMissing, Lang: tag, Key: key})
		}
	}

	slices.SortStableFunc(report.Issues, func(a, b Issue) int {
		return cmp.Or(
			cmp.Compare(a.Lang, b.Lang),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Source, b.Source),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Key, b.Key),
		)
	})
	return report, nil
}

// load merges the bundle files of fsys per tag. Syntax errors become issues;
// only I/O and cancellation fail the run.
func load(ctx context.Context, fsys fs.FS) (map[string]map[string]string, []Issue, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() && i18n.IsBundleFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	slices.Sort(files)

	bundles := make(map[string]map[string]string)
	var issues []Issue
	for _, p := range files {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %q: %w", p, err)
		}

		b, _, err := i18n.BundleFromFile(p, data)
		tag := canonicalTag(b.Lang)
		if err != nil {
			issues = append(issues, malformed(tag, p, err)...)
		}
		if tag == "" {
			continue
		}
		if bundles[tag] == nil {
			bundles[tag] = make(map[string]string, len(b.Messages))
		}
		maps.Copy(bundles[tag], b.Messages)
	}
	return bundles, issues, nil
}

func malformed(tag, source string, err error) []Issue {
	var out []Issue
	for _, e := range flatten(err) {
		issue := Issue{Kind: KindMalformed, Lang: tag, Source: source, Msg: e.Error()}
		var pe *i18n.ParseError
		if errors.As(e, &pe) {
			issue.Line, issue.Msg = pe.Line, pe.Msg
		}
		out = append(out, issue)
	}
	return out
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// canonicalTag maps "en_us" and "en-US" to the same bundle. Unparseable tags
// are kept as written so they still show up in the report.
func canonicalTag(lang string) string {
	if lang == "" || lang == i18n.DefaultBundle {
		return lang
	}
	if l, err := i18n.ParseLang(lang); err == nil {
		return l.String()
	}
	return lang
}

func primaryTag(tag string) string {
	if l, err := i18n.ParseLang(tag); err == nil {
		return l.Primary().String()
	}
	return tag
}

func extraIndices(raw, reference string) []int {
	want := i18n.CompileTemplate(reference).Placeholders()
	var extra []int
	for _, idx := range i18n.CompileTemplate(raw).Placeholders() {
		if !slices.Contains(want, idx) {
			extra = append(extra, idx)
		}
	}
	return extra
}

// Balanced reports whether every '{' of raw is closed. Apostrophe-quoted
// braces and doubled apostrophes are skipped the way templates read them.
func Balanced(raw string) bool {
	depth := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\'':
			if i+1 >= len(raw) {
				continue
			}
			if raw[i+1] == '\'' {
				i++
				continue
			}
			if raw[i+1] == '{' || raw[i+1] == '}' {
				end := i + 1
				for end < len(raw) && raw[end] != '\'' {
					end++
				}
				i = end
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
