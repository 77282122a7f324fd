package extract

import "regexp"

// callRe matches an identifier immediately followed by an opening paren.
var callRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// keywords of the supported language families that look like calls when
// followed by a paren. Kept as one shared set; a Python keyword appearing in
// JS text (or vice versa) is never a useful callee anyway.
var callKeywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true,
	"return": true, "yield": true, "def": true, "class": true, "with": true,
	"lambda": true, "assert": true, "raise": true, "except": true, "del": true,
	"not": true, "and": true, "or": true, "in": true, "is": true,
	"await": true, "async": true, "match": true, "case": true, "pass": true,
	"import": true, "from": true, "global": true, "nonlocal": true,
	"function": true, "switch": true, "catch": true, "typeof": true,
	"new": true, "throw": true, "do": true, "void": true, "delete": true,
	"instanceof": true, "constructor": true, "require": true, "super": true,
}

// builtins that are never recorded as callees.
var callBuiltins = map[string]bool{
	"print": true, "len": true, "range": true, "str": true, "int": true,
	"float": true, "list": true, "dict": true, "set": true, "tuple": true,
	"bool": true, "type": true, "isinstance": true, "issubclass": true,
	"enumerate": true, "zip": true, "map": true, "filter": true,
	"sorted": true, "reversed": true, "sum": true, "min": true, "max": true,
	"abs": true, "round": true, "open": true, "input": true, "repr": true,
	"hash": true, "id": true, "iter": true, "next": true, "getattr": true,
	"setattr": true, "hasattr": true, "vars": true, "dir": true,
	"format": true, "any": true, "all": true, "bytes": true,
	"bytearray": true, "frozenset": true, "object": true,
	"staticmethod": true, "classmethod": true, "property": true,
	"Exception": true, "ValueError": true, "TypeError": true,
	"KeyError": true, "IndexError": true, "AttributeError": true,
	"RuntimeError": true, "NotImplementedError": true, "StopIteration": true,
}

// scanCalls records every call candidate on one line, attributed to caller
// (empty string at module scope).
func scanCalls(line string, caller string, lineNo int, rec *EntityRecord) {
	for _, m := range callRe.FindAllStringSubmatch(line, -1) {
		name := m[1]
		if callKeywords[name] || callBuiltins[name] {
			continue
		}
		rec.Calls = append(rec.Calls, CallEdge{Caller: caller, Callee: name, Line: lineNo})
	}
}
