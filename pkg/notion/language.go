package notion

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// PlainTextLanguage is used when a fence carries no known language.
const PlainTextLanguage = "plain text"

// languages accepted by the Notion code block.
var languages = map[string]struct{}{
	"abap": {}, "arduino": {}, "bash": {}, "basic": {}, "c": {}, "clojure": {},
	"coffeescript": {}, "c++": {}, "c#": {}, "css": {}, "dart": {}, "diff": {},
	"docker": {}, "elixir": {}, "elm": {}, "erlang": {}, "flow": {}, "fortran": {},
	"f#": {}, "gherkin": {}, "glsl": {}, "go": {}, "graphql": {}, "groovy": {},
	"haskell": {}, "html": {}, "java": {}, "javascript": {}, "json": {}, "julia": {},
	"kotlin": {}, "latex": {}, "less": {}, "lisp": {}, "livescript": {}, "lua": {},
	"makefile": {}, "markdown": {}, "markup": {}, "matlab": {}, "mermaid": {},
	"nix": {}, "objective-c": {}, "ocaml": {}, "pascal": {}, "perl": {}, "php": {},
	"plain text": {}, "powershell": {}, "prolog": {}, "protobuf": {}, "python": {},
	"r": {}, "reason": {}, "ruby": {}, "rust": {}, "sass": {}, "scala": {},
	"scheme": {}, "scss": {}, "shell": {}, "sql": {}, "swift": {}, "typescript": {},
	"vb.net": {}, "verilog": {}, "vhdl": {}, "visual basic": {}, "webassembly": {},
	"xml": {}, "yaml": {}, "java/c/c++/c#": {},
}

// chromaNames maps lowercased chroma lexer names that differ from Notion's.
var chromaNames = map[string]string{
	"plaintext":       PlainTextLanguage,
	"text":            PlainTextLanguage,
	"protocol buffer": "protobuf",
	"base makefile":   "makefile",
	"tex":             "latex",
	"fsharp":          "f#",
	"objectivec":      "objective-c",
	"tsx":             "typescript",
	"react":           "javascript",
	"sh":              "shell",
	"zsh":             "shell",
	"wasm":            "webassembly",
	"mysql":           "sql",
}

// Language normalizes a fence info string to a Notion code language.
// Aliases such as "js" or "golang" are resolved through chroma's lexer
// registry.
func Language(info string) string {
	name := strings.ToLower(strings.TrimSpace(info))
	if i := strings.IndexAny(name, " \t{"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return PlainTextLanguage
	}
	if _, ok := languages[name]; ok {
		return name
	}
	if mapped, ok := chromaNames[name]; ok {
		return mapped
	}

	lexer := lexers.Get(name)
	if lexer == nil {
		return PlainTextLanguage
	}
	lexerName := strings.ToLower(lexer.Config().Name)
	if _, ok := languages[lexerName]; ok {
		return lexerName
	}
	if mapped, ok := chromaNames[lexerName]; ok {
		return mapped
	}
	return PlainTextLanguage
}
