package ast

// Kind is the closed set of AST node kinds.
type Kind uint8

const (
	Invalid Kind = iota

	Program
	Func
	Param
	ParamList
	VarDecl
	Assign
	Ident
	Call
	ArgList
	NumLit
	StrLit
	Unary
	Binary
	BuiltinUnary

	Block
	While
	If
	Branch
	Else
	Return
	Break
	CallStmt
	ExprStmt
	Cout
	ICout
	FCout
)

var kindNames = [...]string{
	Invalid:      "INVALID",
	Program:      "PROGRAM",
	Func:         "FUNC",
	Param:        "PARAM",
	ParamList:    "PARAM_LIST",
	VarDecl:      "VAR_DECL",
	Assign:       "ASSIGN",
	Ident:        "IDENT",
	Call:         "CALL",
	ArgList:      "ARG_LIST",
	NumLit:       "NUM_LIT",
	StrLit:       "STR_LIT",
	Unary:        "UNARY",
	Binary:       "BINARY",
	BuiltinUnary: "BUILTIN_UNARY",
	Block:        "BLOCK",
	While:        "WHILE",
	If:           "IF",
	Branch:       "BRANCH",
	Else:         "ELSE",
	Return:       "RETURN",
	Break:        "BREAK",
	CallStmt:     "CALL_STMT",
	ExprStmt:     "EXPR_STMT",
	Cout:         "COUT",
	ICout:        "ICOUT",
	FCout:        "FCOUT",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// KindFromString is the inverse of Kind.String, used by the .east reader.
func KindFromString(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return Invalid, false
}
