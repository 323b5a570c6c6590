package naming

var reservedWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"arguments", "break", "case", "catch", "class", "const", "continue",
		"debugger", "default", "delete", "do", "else", "enum", "eval",
		"export", "extends", "false", "finally", "for", "function", "if",
		"implements", "import", "in", "instanceof", "interface", "let", "new",
		"null", "package", "private", "protected", "public", "return",
		"static", "super", "switch", "this", "throw", "true", "try", "typeof",
		"var", "void", "while", "with", "yield",
	} {
		reservedWords[w] = struct{}{}
	}
}

// IsReserved reports whether name is a reserved word in the target language.
func IsReserved(name string) bool {
	_, ok := reservedWords[name]
	return ok
}

// EscapeReserved appends '_' to reserved words so they can be used as
// parameter names and property keys.
func EscapeReserved(name string) string {
	if IsReserved(name) {
		return name + "_"
	}
	return name
}
