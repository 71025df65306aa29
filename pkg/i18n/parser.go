package i18n

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// ParseMessages reads a bundle in the "messages" file syntax:
//
//	# comment
//	! also a comment
//	greeting = Hello, {0}!
//	long.text = first part \
//	            second part
//
// Values support the escapes \\ \n \t \r \= \: \# \! \(space) and \uXXXX.
// A trailing backslash joins the next line, dropping its leading whitespace.
//
// Malformed lines are reported as *ParseError values joined into the returned
// error; every well-formed entry of the source is still returned.
func ParseMessages(r io.Reader, source string) (map[string]string, error) {
	entries := make(map[string]string)
	var errs []error

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		logical   strings.Builder
		startLine int
		lineNo    int
		joining   bool
	)

	flush := func() {
		if err := parseEntry(logical.String(), source, startLine, entries); err != nil {
			errs = append(errs, err)
		}
		logical.Reset()
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		line = strings.TrimLeftFunc(line, unicode.IsSpace)
		if !joining {
			if line == "" || line[0] == '#' || line[0] == '!' {
				continue
			}
			startLine = lineNo
		}

		if endsWithContinuation(line) {
			logical.WriteString(line[:len(line)-1])
			joining = true
			continue
		}

		logical.WriteString(line)
		joining = false
		flush()
	}

	if joining {
		flush()
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, &ParseError{Source: source, Line: lineNo + 1, Msg: err.Error()})
	}

	return entries, errors.Join(errs...)
}

func parseEntry(raw, source string, line int, entries map[string]string) error {
	sep := separatorIndex(raw)
	if sep < 0 {
		return &ParseError{Source: source, Line: line, Msg: "missing '=' separator"}
	}

	rawKey := strings.TrimSpace(raw[:sep])
	if rawKey == "" {
		return &ParseError{Source: source, Line: line, Msg: "empty message key"}
	}
	if strings.IndexFunc(rawKey, unicode.IsSpace) >= 0 {
		return &ParseError{Source: source, Line: line, Msg: "message key " + strconv.Quote(rawKey) + " contains whitespace"}
	}

	key, err := unescape(rawKey)
	if err != nil {
		return &ParseError{Source: source, Line: line, Msg: err.Error()}
	}

	rawValue := strings.TrimSpace(raw[sep+1:])
	// An escaped trailing space survives trimming.
	if endsWithContinuation(rawValue) {
		rawValue += " "
	}

	value, err := unescape(rawValue)
	if err != nil {
		return &ParseError{Source: source, Line: line, Msg: err.Error()}
	}

	entries[key] = value
	return nil
}

// separatorIndex returns the index of the first '=' not preceded by a backslash.
func separatorIndex(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '=':
			return i
		}
	}
	return -1
}

// endsWithContinuation reports whether s ends with an odd number of backslashes.
func endsWithContinuation(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}

		i++
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '=', ':', '#', '!', ' ':
			b.WriteByte(s[i])
		case 'u':
			if i+4 >= len(s) {
				return "", errors.New("truncated \\u escape")
			}
			code, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return "", errors.New("invalid \\u escape " + strconv.Quote(s[i-1:i+5]))
			}
			i += 4
			r := rune(code)
			if utf16.IsSurrogate(r) && i+6 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				if low, err := strconv.ParseUint(s[i+3:i+7], 16, 32); err == nil {
					if pair := utf16.DecodeRune(r, rune(low)); pair != unicode.ReplacementChar {
						r = pair
						i += 6
					}
				}
			}
			b.WriteRune(r)
		default:
			// Unknown escapes are kept verbatim.
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}

	return b.String(), nil
}
