package language

import (
	"fmt"
	"strings"

	"github.com/ddlgen/ddlgen/gen/drivers"
)

// Variant selects the PHP dialect of the generated record classes
type Variant int

const (
	// PHP8 uses constructor property promotion, trailing commas
	// and union return types
	PHP8 Variant = iota
	// PHP7 declares typed properties and assigns them in the constructor
	PHP7
)

func (v Variant) String() string {
	if v == PHP7 {
		return "php7"
	}
	return "php8"
}

// ParseVariant reads a configured variant, "php8" when empty
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "php8", "8":
		return PHP8, nil
	case "php7", "7":
		return PHP7, nil
	default:
		return 0, fmt.Errorf("unknown language variant %q, expected php8 or php7", s)
	}
}

const noEditDisclaimerFmt = `Code generated%s. DO NOT EDIT.
This file is meant to be re-generated in place and/or deleted at any time.`

// PHP is the output language
type PHP struct {
	Variant   Variant
	Generator string
}

// PromotedConstructor is true when record fields are declared
// in the constructor signature
func (p PHP) PromotedConstructor() bool {
	return p.Variant == PHP8
}

// ListEnd terminates the last entry of a multi-line argument list,
// PHP 7 does not accept a trailing comma there
func (p PHP) ListEnd() string {
	if p.Variant == PHP7 {
		return ""
	}
	return ","
}

// ReturnType renders a return type declaration. Union types are
// dropped for PHP 7 which cannot declare them.
func (p PHP) ReturnType(typ string) string {
	if p.Variant == PHP7 && strings.Contains(typ, "|") {
		return ""
	}
	return " : " + typ
}

func (p PHP) Disclaimer() string {
	noEditDisclaimer := fmt.Sprintf(noEditDisclaimerFmt, "")
	if p.Generator != "" {
		noEditDisclaimer = fmt.Sprintf(noEditDisclaimerFmt, " by "+p.Generator)
	}

	return "// " + strings.ReplaceAll(noEditDisclaimer, "\n", "\n// ")
}

//nolint:gochecknoglobals
var primitiveTypes = map[drivers.Type]string{
	drivers.TypeString:   "string",
	drivers.TypeNumber:   "int",
	drivers.TypeFloat:    "float",
	drivers.TypeDateTime: "int",
	drivers.TypeEnum:     "string",
	drivers.TypeBool:     "bool",
}

// mysqli bind_param codes
//
//nolint:gochecknoglobals
var bindingCodes = map[string]string{
	"string": "s",
	"int":    "i",
	"float":  "d",
	"bool":   "i",
}

// PrimitiveType is the PHP scalar type holding a logical type
func PrimitiveType(t drivers.Type) string {
	if p, ok := primitiveTypes[t]; ok {
		return p
	}
	return "mixed"
}

// BindingCode is the bind_param code for a PHP scalar type
func BindingCode(primitive string) string {
	if c, ok := bindingCodes[primitive]; ok {
		return c
	}
	return "s"
}

// BindingCodes concatenates the codes of the columns, in order
func BindingCodes(cols []*drivers.Column) string {
	var sb strings.Builder
	for _, c := range cols {
		sb.WriteString(BindingCode(PrimitiveType(c.Type)))
	}
	return sb.String()
}

// DisplayType is the declared type, nullable columns get a "?" prefix
func DisplayType(c *drivers.Column) string {
	if c.Nullable {
		return "?" + PrimitiveType(c.Type)
	}
	return PrimitiveType(c.Type)
}

// Definition declares a parameter named after the column
func Definition(c *drivers.Column) string {
	return DisplayType(c) + " " + Variable(c.Name)
}

// FieldDefinition declares the field storing the column value,
// named with the foreign key aware name
func FieldDefinition(c *drivers.Column) string {
	return DisplayType(c) + " " + Variable(c.FKAwareName())
}

// Definitions joins the parameter definitions of the columns
func Definitions(cols []*drivers.Column) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = Definition(c)
	}
	return strings.Join(defs, ", ")
}

// ParserExpression converts the raw row value of the column,
// read from $assoc, to its PHP type
func ParserExpression(c *drivers.Column) string {
	raw := fmt.Sprintf("$assoc[%q]", c.Name)

	switch c.Type {
	case drivers.TypeDateTime:
		if c.Nullable {
			return fmt.Sprintf("%s === null ? null : strtotime(%s)", raw, raw)
		}
		return fmt.Sprintf("strtotime(%s)", raw)
	case drivers.TypeBool:
		return fmt.Sprintf("%s === null ? null : (bool)%s", raw, raw)
	default:
		return raw
	}
}

func Variable(name string) string {
	return "$" + name
}

// Variables lists the parameter variables of the columns
func Variables(cols []*drivers.Column) string {
	vars := make([]string, len(cols))
	for i, c := range cols {
		vars[i] = Variable(c.Name)
	}
	return strings.Join(vars, ", ")
}

func Property(name string) string {
	return "$this->" + name
}
