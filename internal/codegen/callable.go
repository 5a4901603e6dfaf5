package codegen

// callable describes how one kind of user-declared routine is emitted.
// A routine is a capture lambda plus a trampoline with a fixed signature,
// bound to a dynamic value that pairs the trampoline with the capture pointer.
type callable interface {
	// returnType is the C++ return type of both lambdas
	returnType() string
	// wrapperType is the runtime type the trampoline pointer is converted to
	wrapperType() string
	// forward turns the call into the captured lambda into the trampoline body
	forward(call string) string
	// guard is emitted after the body, for when control falls off the end
	guard() (string, bool)
}

// funcKind is a routine that must produce a value
type funcKind struct{}

func (funcKind) returnType() string         { return "AuroraObject" }
func (funcKind) wrapperType() string        { return "AuroraFunc" }
func (funcKind) forward(call string) string { return "return " + call + ";" }
func (funcKind) guard() (string, bool) {
	return `error("function must return a value");`, true
}

// subKind is a routine that returns nothing
type subKind struct{}

func (subKind) returnType() string         { return "void" }
func (subKind) wrapperType() string        { return "AuroraSub" }
func (subKind) forward(call string) string { return call + ";" }
func (subKind) guard() (string, bool)      { return "", false }
