package i18n

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Argument types recognised inside a placeholder: {index,type,style}.
const (
	ArgNumber = "number"
	ArgDate   = "date"
	ArgTime   = "time"
	ArgChoice = "choice"
	ArgPlural = "plural"
)

// maxRefDepth bounds {@key} expansion so reference cycles terminate.
const maxRefDepth = 8

// Template is a compiled message template. It is immutable and safe for concurrent use.
//
// Supported syntax:
//
//	{0}                           positional argument
//	{0,number} {0,number,integer} {0,number,percent} {0,number,currency} {0,number,#.##}
//	{0,date} {0,date,long} {0,date,2006-01-02} {0,time} {0,time,15:04}
//	{0,choice,0#no files|1#one file|1<{0} files}
//	{0,plural,=0#none|one#one item|other#{0} items}
//	{@other.key}                  reference to another message
//	'{0}'  ''                     quoted literal, single apostrophe
//
// Anything malformed is kept as literal text.
type Template struct {
	raw   string
	nodes []node
}

type node interface {
	render(r *renderer, b *strings.Builder)
}

type textNode string

type argNode struct {
	kind    string
	style   string
	raw     string
	options []option
	index   int
}

type refNode struct {
	key string
	raw string
}

// option is one branch of a choice or plural argument.
type option struct {
	sub      Template
	selector string  // plural: category or "=N"
	limit    float64 // choice: lower bound
	open     bool    // choice: '<' (exclusive) instead of '#'
}

// CompileTemplate compiles raw into a Template. It never fails:
// unparseable fragments render verbatim.
func CompileTemplate(raw string) Template {
	return Template{raw: raw, nodes: compile(raw, false)}
}

// Raw returns the template source.
func (t Template) Raw() string { return t.raw }

// Placeholders returns the distinct argument indices referenced by the template,
// including those inside choice and plural branches, in ascending order.
func (t Template) Placeholders() []int {
	seen := make(map[int]bool)
	t.collectIndices(seen)

	return slices.Sorted(maps.Keys(seen))
}

// References returns the message keys referenced with {@key}.
func (t Template) References() []string {
	var refs []string
	for _, n := range t.nodes {
		switch v := n.(type) {
		case *refNode:
			refs = append(refs, v.key)
		case *argNode:
			for _, o := range v.options {
				refs = append(refs, o.sub.References()...)
			}
		}
	}
	return refs
}

func (t Template) collectIndices(seen map[int]bool) {
	for _, n := range t.nodes {
		if a, ok := n.(*argNode); ok {
			seen[a.index] = true
			for _, o := range a.options {
				o.sub.collectIndices(seen)
			}
		}
	}
}

func compile(raw string, sub bool) []node {
	var (
		nodes []node
		text  strings.Builder
	)

	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, textNode(text.String()))
			text.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch c {
		case '\'':
			i = consumeQuote(raw, i, sub, &text)
		case '{':
			end := matchBrace(raw, i)
			if end < 0 {
				text.WriteByte(c)
				continue
			}
			n := parsePlaceholder(raw[i : end+1])
			if n == nil {
				text.WriteString(raw[i : end+1])
			} else {
				flush()
				nodes = append(nodes, n)
			}
			i = end
		default:
			text.WriteByte(c)
		}
	}

	flush()
	return nodes
}

// consumeQuote handles an apostrophe at raw[i] and returns the index of the last consumed byte.
func consumeQuote(raw string, i int, sub bool, text *strings.Builder) int {
	if i+1 >= len(raw) {
		text.WriteByte('\'')
		return i
	}

	next := raw[i+1]
	if next == '\'' {
		text.WriteByte('\'')
		return i + 1
	}
	if !isSyntaxChar(next, sub) {
		text.WriteByte('\'')
		return i
	}

	// Quoted literal up to the next lone apostrophe; '' inside renders one apostrophe.
	j := i + 1
	for j < len(raw) {
		if raw[j] == '\'' {
			if j+1 < len(raw) && raw[j+1] == '\'' {
				text.WriteByte('\'')
				j += 2
				continue
			}
			return j
		}
		text.WriteByte(raw[j])
		j++
	}
	return len(raw) - 1
}

func isSyntaxChar(c byte, sub bool) bool {
	return c == '{' || c == '}' || sub && (c == '#' || c == '|')
}

// matchBrace returns the index of the '}' closing the '{' at raw[start], or -1.
func matchBrace(raw string, start int) int {
	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '\'':
			if i+1 < len(raw) && raw[i+1] == '\'' {
				i++
				continue
			}
			if i+1 < len(raw) && isSyntaxChar(raw[i+1], true) {
				if end := strings.IndexByte(raw[i+1:], '\''); end >= 0 {
					i += end + 1
				}
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parsePlaceholder(raw string) node {
	body := strings.TrimSpace(raw[1 : len(raw)-1])
	if body == "" {
		return nil
	}

	if key, ok := strings.CutPrefix(body, "@"); ok {
		key = strings.TrimSpace(key)
		if key == "" || strings.ContainsAny(key, " \t{},") {
			return nil
		}
		return &refNode{key: key, raw: raw}
	}

	idxPart, rest, hasType := strings.Cut(body, ",")
	index, err := strconv.Atoi(strings.TrimSpace(idxPart))
	if err != nil || index < 0 {
		return nil
	}

	n := &argNode{index: index, raw: raw}
	if !hasType {
		return n
	}

	kind, style, _ := strings.Cut(rest, ",")
	n.kind = strings.ToLower(strings.TrimSpace(kind))
	n.style = strings.TrimSpace(style)

	switch n.kind {
	case ArgNumber, ArgDate, ArgTime:
	case ArgChoice:
		opts, ok := parseChoiceOptions(n.style)
		if !ok {
			return nil
		}
		n.options = opts
	case ArgPlural:
		opts, ok := parsePluralOptions(n.style)
		if !ok {
			return nil
		}
		n.options = opts
	default:
		// Unknown type: render as a plain argument.
		n.kind = ""
	}

	return n
}

func parseChoiceOptions(style string) ([]option, bool) {
	parts := splitOptions(style)
	if len(parts) == 0 {
		return nil, false
	}

	opts := make([]option, 0, len(parts))
	for _, part := range parts {
		sep := strings.IndexAny(part, "#<≤")
		if sep <= 0 {
			return nil, false
		}

		limit, ok := parseLimit(strings.TrimSpace(part[:sep]))
		if !ok {
			return nil, false
		}

		open := part[sep] == '<'
		text := part[sep+1:]
		if part[sep] != '#' && part[sep] != '<' {
			// '≤' is multi-byte.
			text = part[sep+len("≤"):]
		}

		opts = append(opts, option{
			limit: limit,
			open:  open,
			sub:   Template{raw: text, nodes: compile(text, true)},
		})
	}
	return opts, true
}

func parseLimit(s string) (float64, bool) {
	switch s {
	case "∞", "+∞", "inf", "+inf":
		return math.Inf(1), true
	case "-∞", "-inf":
		return math.Inf(-1), true
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func parsePluralOptions(style string) ([]option, bool) {
	parts := splitOptions(style)
	if len(parts) == 0 {
		return nil, false
	}

	opts := make([]option, 0, len(parts))
	for _, part := range parts {
		selector, text, ok := strings.Cut(part, "#")
		if !ok {
			return nil, false
		}
		selector = strings.ToLower(strings.TrimSpace(selector))
		if !validPluralSelector(selector) {
			return nil, false
		}
		opts = append(opts, option{
			selector: selector,
			sub:      Template{raw: text, nodes: compile(text, true)},
		})
	}
	return opts, true
}

func validPluralSelector(s string) bool {
	switch s {
	case PluralZero, PluralOne, PluralTwo, PluralFew, PluralMany, PluralOther:
		return true
	}
	if n, ok := strings.CutPrefix(s, "="); ok {
		_, err := strconv.Atoi(n)
		return err == nil
	}
	return false
}

// splitOptions splits a choice/plural style on top-level '|' separators,
// ignoring separators nested in braces or quoted with apostrophes.
func splitOptions(style string) []string {
	if strings.TrimSpace(style) == "" {
		return nil
	}

	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(style); i++ {
		switch style[i] {
		case '\'':
			if i+1 < len(style) && style[i+1] == '\'' {
				i++
				continue
			}
			if i+1 < len(style) && isSyntaxChar(style[i+1], true) {
				if end := strings.IndexByte(style[i+1:], '\''); end >= 0 {
					i += end + 1
				}
			}
		case '{':
			depth++
		case '}':
			depth--
		case '|':
			if depth == 0 {
				parts = append(parts, style[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, style[start:])
}
