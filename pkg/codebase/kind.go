package codebase

// SymbolKind is the Language Server Protocol symbol kind enumeration.
type SymbolKind int

const (
	KindFile          SymbolKind = 1
	KindModule        SymbolKind = 2
	KindNamespace     SymbolKind = 3
	KindPackage       SymbolKind = 4
	KindClass         SymbolKind = 5
	KindMethod        SymbolKind = 6
	KindProperty      SymbolKind = 7
	KindField         SymbolKind = 8
	KindConstructor   SymbolKind = 9
	KindEnum          SymbolKind = 10
	KindInterface     SymbolKind = 11
	KindFunction      SymbolKind = 12
	KindVariable      SymbolKind = 13
	KindConstant      SymbolKind = 14
	KindString        SymbolKind = 15
	KindNumber        SymbolKind = 16
	KindBoolean       SymbolKind = 17
	KindArray         SymbolKind = 18
	KindObject        SymbolKind = 19
	KindKey           SymbolKind = 20
	KindNull          SymbolKind = 21
	KindEnumMember    SymbolKind = 22
	KindStruct        SymbolKind = 23
	KindEvent         SymbolKind = 24
	KindOperator      SymbolKind = 25
	KindTypeParameter SymbolKind = 26
)

var kindNames = [...]string{
	KindFile:          "File",
	KindModule:        "Module",
	KindNamespace:     "Namespace",
	KindPackage:       "Package",
	KindClass:         "Class",
	KindMethod:        "Method",
	KindProperty:      "Property",
	KindField:         "Field",
	KindConstructor:   "Constructor",
	KindEnum:          "Enum",
	KindInterface:     "Interface",
	KindFunction:      "Function",
	KindVariable:      "Variable",
	KindConstant:      "Constant",
	KindString:        "String",
	KindNumber:        "Number",
	KindBoolean:       "Boolean",
	KindArray:         "Array",
	KindObject:        "Object",
	KindKey:           "Key",
	KindNull:          "Null",
	KindEnumMember:    "Enum Member",
	KindStruct:        "Struct",
	KindEvent:         "Event",
	KindOperator:      "Operator",
	KindTypeParameter: "Type Parameter",
}

// String returns the display name of the kind, or "Symbol" when unknown.
func (k SymbolKind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Symbol"
}

// IsNamespace reports whether the kind is a pure namespace. Language servers
// report unreliable references for namespaces (extensions of external types
// in particular), so their references are never looked up.
func (k SymbolKind) IsNamespace() bool { return k == KindNamespace }
