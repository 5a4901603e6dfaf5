package parser

import "strings"

// cppKeywords cannot be used as names since identifiers are emitted as-is
var cppKeywords = map[string]bool{
	"alignas": true, "alignof": true, "asm": true, "auto": true, "bool": true,
	"case": true, "catch": true, "char": true, "char8_t": true, "char16_t": true,
	"char32_t": true, "class": true, "concept": true, "const": true, "consteval": true,
	"constexpr": true, "constinit": true, "const_cast": true, "co_await": true, "co_return": true,
	"co_yield": true, "decltype": true, "default": true, "delete": true, "do": true,
	"double": true, "dynamic_cast": true, "enum": true, "explicit": true, "export": true,
	"extern": true, "float": true, "friend": true, "goto": true, "inline": true,
	"int": true, "long": true, "mutable": true, "namespace": true, "new": true,
	"noexcept": true, "nullptr": true, "operator": true, "private": true, "protected": true,
	"public": true, "register": true, "reinterpret_cast": true, "requires": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "static_assert": true, "static_cast": true,
	"struct": true, "switch": true, "template": true, "this": true, "thread_local": true,
	"throw": true, "try": true, "typedef": true, "typeid": true, "typename": true,
	"union": true, "unsigned": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "wchar_t": true, "xor": true, "xor_eq": true, "bitand": true,
	"bitor": true, "compl": true, "and_eq": true, "or_eq": true, "not_eq": true,
}

// runtimeNames are defined by the runtime header or used by generated code
var runtimeNames = map[string]bool{
	"AuroraObject":  true,
	"AuroraFunc":    true,
	"AuroraSub":     true,
	"error":         true,
	"std":           true,
	"_FN_ARG_COUNT": true,
	"_FN_ARGS":      true,
	"_LAMBDA_PTR":   true,
	"_SELF":         true,
}

// reserved reports if name would collide with a name in the generated unit
func reserved(name string) bool {
	if cppKeywords[name] || runtimeNames[name] {
		return true
	}
	return strings.HasPrefix(name, "_CAPTURE_") || strings.HasPrefix(name, "_PTR_WRAP_")
}
