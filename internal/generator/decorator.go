package generator

// Decorator is a class-validator annotation attached to a DTO field
type Decorator struct {
	Name     string
	Comment  string
	Fallback bool
}

// Render returns the decorator as it appears in TypeScript source
func (d Decorator) Render() string {
	s := "@" + d.Name + "()"
	if d.Comment != "" {
		s += " // " + d.Comment
	}
	return s
}

const (
	IsString        = "IsString"
	IsNumberString  = "IsNumberString"
	IsBooleanString = "IsBooleanString"
	IsDateString    = "IsDateString"
	IsArray         = "IsArray"
	IsObject        = "IsObject"
	IsOptional      = "IsOptional"

	jsonbColumnType = "jsonb"
	jsonbComment    = "json type not supported"
)

var decoratorByType = map[string]string{
	"string":  IsString,
	"number":  IsNumberString,
	"boolean": IsBooleanString,
	"Date":    IsDateString,
	"Array":   IsArray,
	"Object":  IsObject,
}

// validatorImports lists every class-validator decorator the generator can emit, in import order
var validatorImports = []string{
	IsArray,
	IsBooleanString,
	IsDateString,
	IsNumberString,
	IsObject,
	IsOptional,
	IsString,
}

// SelectDecorator maps a declared property type and column hint to its validator.
// A jsonb column always validates as a string.
func SelectDecorator(typ, columnTypeHint string) Decorator {
	if columnTypeHint == jsonbColumnType {
		return Decorator{Name: IsString, Comment: jsonbComment}
	}
	if name, ok := decoratorByType[typ]; ok {
		return Decorator{Name: name}
	}
	return Decorator{Name: IsString, Fallback: true}
}
