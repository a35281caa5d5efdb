// Package frontmatter splits YAML frontmatter (`---` delimited) from Markdown
// bodies and parses the metadata block into a flat string-keyed field map.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingOpeningFence indicates the document does not start with a
// frontmatter delimiter line.
var ErrMissingOpeningFence = errors.New("frontmatter opening delimiter is missing")

// ErrMissingClosingFence indicates the document started with a frontmatter
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingFence = errors.New("frontmatter opening delimiter found but closing delimiter is missing")

// Style captures newline formatting so CRLF documents split cleanly.
type Style struct {
	Newline string
}

// Split separates the YAML frontmatter block from the Markdown body.
//
// The opening `---` fence must be the first line of the document; its absence
// is an error rather than a bodies-only fallback, because every document in a
// collection is required to carry metadata.
func Split(content []byte) (frontmatter []byte, body []byte, err error) {
	style := detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	switch {
	case bytes.HasPrefix(content, open):
		// fall through to fence scanning
	case bytes.Equal(bytes.TrimRight(content, "\r\n"), []byte("---")):
		// A lone opening fence with nothing after it.
		return nil, nil, ErrMissingClosingFence
	default:
		return nil, nil, ErrMissingOpeningFence
	}

	rest := content[len(open):]

	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(rest, closeLine) {
		return []byte{}, rest[len(closeLine):], nil
	}

	closeSeq := []byte(nl + "---" + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		frontmatter = rest[:idx+len(nl)]
		body = rest[idx+len(closeSeq):]
		return frontmatter, body, nil
	}

	// Closing fence at EOF without a trailing newline.
	closeTail := []byte(nl + "---")
	if bytes.HasSuffix(rest, closeTail) {
		return rest[:len(rest)-len(closeTail)+len(nl)], nil, nil
	}

	return nil, nil, ErrMissingClosingFence
}

// ParseFields parses raw YAML frontmatter (without --- delimiters) into a flat
// map from field name to string value. Quoted values arrive unquoted via the
// YAML decoder; scalar non-string values are rendered to their canonical text
// form. Unknown fields are preserved for downstream consumers.
func ParseFields(frontmatter []byte) (map[string]string, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]string{}, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(frontmatter, &raw); err != nil {
		return nil, fmt.Errorf("parse frontmatter fields: %w", err)
	}

	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		text, err := scalarString(value)
		if err != nil {
			return nil, fmt.Errorf("frontmatter field %q: %w", key, err)
		}
		fields[key] = text
	}
	return fields, nil
}

func scalarString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return v.Format(time.DateOnly), nil
	default:
		return "", fmt.Errorf("expected scalar value, got %T", value)
	}
}

// SplitDocuments splits a physical file into sub-documents on separator
// lines. The separator must occupy a line of its own. Splitting is a pure
// text operation performed before any frontmatter parsing, so every
// sub-document goes through the same parse path as a standalone file.
func SplitDocuments(content []byte, separator string) [][]byte {
	if separator == "" {
		return [][]byte{content}
	}

	sep := []byte(separator)
	var parts [][]byte
	start := 0
	lineStart := 0
	for lineStart <= len(content) {
		var line []byte
		next := len(content) + 1
		if rel := bytes.IndexByte(content[lineStart:], '\n'); rel >= 0 {
			line = content[lineStart : lineStart+rel]
			next = lineStart + rel + 1
		} else {
			line = content[lineStart:]
		}
		if bytes.Equal(bytes.TrimRight(line, "\r"), sep) {
			parts = append(parts, content[start:lineStart])
			start = next
			if start > len(content) {
				start = len(content)
			}
		}
		lineStart = next
	}
	parts = append(parts, content[start:])
	return parts
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}
	return Style{Newline: newline}
}
