package naming

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	caseTransition = regexp.MustCompile(`(\p{Ll})(\p{Lu}+)`)
	enumWordBreak  = regexp.MustCompile(`(?i)[-_]([a-z])`)
)

// EnumKey returns the member key used for an enum value. A custom name is
// used verbatim; numbers become quoted "_<n>" keys; strings are sanitized,
// split at lower-to-upper transitions and upper-cased.
func EnumKey(value any, customName string) string {
	if customName != "" {
		return customName
	}
	if n, ok := numberLiteral(value); ok {
		return "'_" + n + "'"
	}

	key := ""
	if s, ok := value.(string); ok {
		var b strings.Builder
		for i, r := range s {
			if !identifierPart(r) {
				r = '_'
			}
			if i == 0 && r != '_' && r != '$' && !isIDStart(r) {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		}
		key = caseTransition.ReplaceAllString(b.String(), "${1}_${2}")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = EmptyPlaceholder
	}
	return strings.ToUpper(key)
}

// numberLiteral formats numeric enum values the way they are printed in
// generated source.
func numberLiteral(value any) (string, bool) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	}
	return "", false
}

// EnumIdent derives the exported name of an enum from raw without
// committing it.
func EnumIdent(raw string) string {
	name := enumWordBreak.ReplaceAllStringFunc(UnescapeName(raw), func(m string) string {
		return strings.ToUpper(m[1:])
	})
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// EnumName derives the exported name of an enum and commits it to reg.
// The second result is false when raw is empty or the derived name is
// already taken; callers then skip the standalone export and keep the enum
// inline.
func EnumName(reg *Registry, raw string) (string, bool) {
	name := EnumIdent(raw)
	if name == "" || !reg.Add(name) {
		return "", false
	}
	return name, true
}

// EnumValue renders an enum member value as a literal. Strings holding a
// single quote are double-quoted when they are printed inside a union.
func EnumValue(value any, union bool) string {
	switch v := value.(type) {
	case string:
		if union && strings.Contains(v, "'") {
			return `"` + v + `"`
		}
		return "'" + v + "'"
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	}
	if n, ok := numberLiteral(value); ok {
		return n
	}
	return "unknown"
}

// EnumUnion joins the distinct literal values of an enum with " | ".
func EnumUnion(values []any) string {
	seen := make(map[string]struct{}, len(values))
	parts := make([]string, 0, len(values))
	for _, v := range values {
		lit := EnumValue(v, true)
		if _, ok := seen[lit]; ok {
			continue
		}
		seen[lit] = struct{}{}
		parts = append(parts, lit)
	}
	return strings.Join(parts, " | ")
}
