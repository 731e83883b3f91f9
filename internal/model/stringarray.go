package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringArray maps to a Postgres text[] column. Element order is
// preserved; tags are an ordered sequence.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, s := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String(), nil
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}
	parsed, err := parseTextArray(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// parseTextArray handles the {elem,"quoted elem"} literal form,
// including backslash escapes inside quoted elements.
func parseTextArray(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, fmt.Errorf("malformed array literal %q", s)
	}
	inner := s[1 : len(s)-1]
	if inner == "" {
		return []string{}, nil
	}

	var out []string
	var cur strings.Builder
	inQuotes := false
	escaped := false
	quotedElem := false
	flush := func() {
		v := cur.String()
		if !quotedElem && v == "NULL" {
			v = ""
		}
		out = append(out, v)
		cur.Reset()
		quotedElem = false
	}
	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		switch {
		case escaped:
			cur.WriteByte(ch)
			escaped = false
		case ch == '\\' && inQuotes:
			escaped = true
		case ch == '"':
			inQuotes = !inQuotes
			quotedElem = true
		case ch == ',' && !inQuotes:
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("malformed array literal %q", s)
	}
	flush()
	return out, nil
}

func (StringArray) GormDataType() string { return "text[]" }
