// Package naming turns arbitrary schema strings into identifiers that are
// safe to print in generated TypeScript. Every function is pure except
// EnumName, which commits names into a caller-owned Registry.
package naming

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// EmptyPlaceholder is returned whenever sanitizing leaves nothing behind.
const EmptyPlaceholder = "empty_string"

const (
	zwnj = '\u200c'
	zwj  = '\u200d'
)

func isIDStart(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
}

func isIDContinue(r rune) bool {
	return isIDStart(r) ||
		unicode.Is(unicode.Mn, r) ||
		unicode.Is(unicode.Mc, r) ||
		unicode.Is(unicode.Nd, r) ||
		unicode.Is(unicode.Pc, r) ||
		unicode.Is(unicode.Other_ID_Continue, r)
}

// identifierPart reports whether r may appear after the first rune of an
// identifier.
func identifierPart(r rune) bool {
	return r == '$' || r == zwnj || r == zwj || isIDContinue(r)
}

// identifierStart reports whether r may open an identifier.
func identifierStart(r rune) bool {
	return r == '$' || r == '_' || isIDStart(r)
}

// SanitizeIdentifier replaces every character that cannot appear in an
// identifier with '_', prefixes '_' when the first character cannot start
// one and collapses runs of '_'. It never returns an empty string.
func SanitizeIdentifier(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 1)
	first := true
	lastUnderscore := false
	for _, r := range strings.TrimSpace(raw) {
		if !identifierPart(r) {
			r = '_'
		}
		if first && !identifierStart(r) {
			b.WriteByte('_')
			lastUnderscore = true
		}
		first = false
		if r == '_' {
			if lastUnderscore {
				continue
			}
			lastUnderscore = true
		} else {
			lastUnderscore = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" || out == "_" {
		return EmptyPlaceholder
	}
	return out
}

var typeNameReplacer = strings.NewReplacer(".", "_", "-", "_", "+", "_")

// SanitizeTypeName rewrites the separators that show up in schema names
// ('.', '-', '+') to '_'. Everything else, '$' included, is kept.
func SanitizeTypeName(name string) string {
	return typeNameReplacer.Replace(name)
}

// SanitizeNamespaceIdentifier strips leading characters that cannot start
// an identifier and turns every other illegal character (and '$') into '-'
// so a later camel-case pass treats it as a word boundary.
func SanitizeNamespaceIdentifier(name string) string {
	runes := []rune(name)
	i := 0
	for i < len(runes) && !isIDStart(runes[i]) {
		i++
	}
	var b strings.Builder
	for _, r := range runes[i:] {
		switch {
		case r == '$':
			b.WriteByte('-')
		case identifierPart(r):
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// SanitizeParameterName prepares a raw parameter name for camel-casing:
// "ids[]" becomes "idsArray" and illegal characters become word breaks.
func SanitizeParameterName(name string) string {
	return SanitizeNamespaceIdentifier(strings.Replace(name, "[]", "Array", 1))
}

// Camel converts s to lowerCamelCase, treating '-', '_', '.' and spaces as
// word boundaries.
func Camel(s string) string {
	return strcase.ToLowerCamel(s)
}

// Pascal converts s to UpperCamelCase.
func Pascal(s string) string {
	return strcase.ToCamel(s)
}

// IsIdentifier reports whether name can be printed as a bare identifier.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !identifierStart(r) {
				return false
			}
			continue
		}
		if !identifierPart(r) {
			return false
		}
	}
	return true
}

// EscapeName quotes name when it cannot be used as a bare property key.
func EscapeName(name string) string {
	if IsIdentifier(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "\\'") + "'"
}

// UnescapeName strips one pair of surrounding quotes.
func UnescapeName(name string) string {
	if len(name) >= 2 {
		first, last := name[0], name[len(name)-1]
		if (first == '\'' || first == '"') && first == last {
			return name[1 : len(name)-1]
		}
	}
	return name
}
