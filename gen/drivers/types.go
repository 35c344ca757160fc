package drivers

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aarondl/opt/omit"
)

// Type is the logical type of a column, independent of the
// declared SQL keyword and of the generated language.
type Type int

const (
	TypeString Type = iota
	TypeNumber
	TypeFloat
	TypeDateTime
	TypeEnum
	TypeBool
)

//nolint:gochecknoglobals
var typeNames = map[Type]string{
	TypeString:   "STRING",
	TypeNumber:   "NUMBER",
	TypeFloat:    "FLOAT",
	TypeDateTime: "DATETIME",
	TypeEnum:     "ENUM",
	TypeBool:     "BOOL",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType reads a logical type name as written in configuration,
// e.g. "string" or "DATETIME".
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown logical type %q", ErrUnknownType, name)
}

// TypeDef maps a base type keyword to a logical type.
// When Func is set it takes precedence, receiving the raw type extra.
type TypeDef struct {
	Type Type
	Func func(extra omit.Val[string]) Type
}

func (d TypeDef) resolve(extra omit.Val[string]) Type {
	if d.Func != nil {
		return d.Func(extra)
	}
	return d.Type
}

// bitType is BOOL for a 1-bit declaration and NUMBER for anything wider
func bitType(extra omit.Val[string]) Type {
	if strings.TrimSpace(extra.GetOr("")) == "1" {
		return TypeBool
	}
	return TypeNumber
}

//nolint:gochecknoglobals
var defaultTypes = map[string]TypeDef{
	"VARCHAR":    {Type: TypeString},
	"CHAR":       {Type: TypeString},
	"TEXT":       {Type: TypeString},
	"TINYTEXT":   {Type: TypeString},
	"MEDIUMTEXT": {Type: TypeString},
	"LONGTEXT":   {Type: TypeString},
	"BLOB":       {Type: TypeString},
	"TINYBLOB":   {Type: TypeString},
	"MEDIUMBLOB": {Type: TypeString},
	"LONGBLOB":   {Type: TypeString},

	"INT":       {Type: TypeNumber},
	"INTEGER":   {Type: TypeNumber},
	"BIGINT":    {Type: TypeNumber},
	"MEDIUMINT": {Type: TypeNumber},
	"SMALLINT":  {Type: TypeNumber},
	"TINYINT":   {Type: TypeNumber},
	"BIT":       {Func: bitType},

	"BOOL":    {Type: TypeBool},
	"BOOLEAN": {Type: TypeBool},

	"DOUBLE":  {Type: TypeFloat},
	"FLOAT":   {Type: TypeFloat},
	"REAL":    {Type: TypeFloat},
	"DECIMAL": {Type: TypeFloat},
	"NUMERIC": {Type: TypeFloat},

	"DATETIME":  {Type: TypeDateTime},
	"TIMESTAMP": {Type: TypeDateTime},
	"DATE":      {Type: TypeDateTime},

	"ENUM": {Type: TypeEnum},
}

// Types resolves declared base type keywords.
// The zero value knows only the built-in keywords.
type Types struct {
	registered map[string]TypeDef
}

// Register adds or replaces the definition for a keyword
func (t *Types) Register(keyword string, def TypeDef) {
	if t.registered == nil {
		t.registered = make(map[string]TypeDef)
	}
	t.registered[strings.ToUpper(keyword)] = def
}

func (t Types) lookup(keyword string) (TypeDef, bool) {
	keyword = strings.ToUpper(keyword)
	if def, ok := t.registered[keyword]; ok {
		return def, true
	}
	def, ok := defaultTypes[keyword]
	return def, ok
}

// Resolve maps a base type keyword and its optional extra
// to a logical type.
func (t Types) Resolve(keyword string, extra omit.Val[string]) (Type, error) {
	def, ok := t.lookup(keyword)
	if !ok {
		return 0, fmt.Errorf("%w: undefined type %q, known types are %s",
			ErrUnknownType, keyword, strings.Join(t.Keywords(), ", "))
	}
	return def.resolve(extra), nil
}

// Keywords lists every known keyword, built-in and registered
func (t Types) Keywords() []string {
	all := maps.Clone(defaultTypes)
	maps.Copy(all, t.registered)

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// TypesFromConfig builds a resolver from a keyword -> logical type name map
func TypesFromConfig(m map[string]string) (Types, error) {
	var types Types
	for keyword, name := range m {
		typ, err := ParseType(name)
		if err != nil {
			return Types{}, fmt.Errorf("type %q: %w", keyword, err)
		}
		types.Register(keyword, TypeDef{Type: typ})
	}
	return types, nil
}
