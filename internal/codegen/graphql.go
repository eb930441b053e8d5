package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/electwix/activeenum/internal/config"
	"github.com/electwix/activeenum/internal/ident"
)

// GraphQL renders the enums as a GraphQL schema document.
func GraphQL(enums []config.EnumPlan) ([]byte, error) {
	doc := &ast.SchemaDocument{}
	types := ident.NewSet()
	for _, ep := range enums {
		desc, err := Validate(ep)
		if err != nil {
			return nil, err
		}
		if prev, ok := types.Claim(ep.Type, ep.Name); !ok {
			return nil, fmt.Errorf("enum %q: graphql type %s is also used by enum %q", ep.Name, ep.Type, prev)
		}
		def := &ast.Definition{
			Kind:        ast.Enum,
			Name:        ep.Type,
			Description: fmt.Sprintf("Database enum %s.", ep.Name),
		}
		values := ident.NewSet()
		for i, id := range desc.Idents() {
			name := graphQLValue(id)
			if prev, ok := values.Claim(name, id); !ok {
				return nil, fmt.Errorf("enum %q: graphql value %s is produced by both %s and %s", ep.Name, name, prev, id)
			}
			v := &ast.EnumValueDefinition{Name: name}
			if label := ep.Variants[i].Label; label != "" {
				v.Description = label
			}
			def.EnumValues = append(def.EnumValues, v)
		}
		doc.Definitions = append(doc.Definitions, def)
	}

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	return buf.Bytes(), nil
}

// graphQLValue upper-cases a variant identifier in the SCREAMING_SNAKE style
// GraphQL schemas use for enum values.
func graphQLValue(id string) string {
	name := strings.ToUpper(ident.FileName(id))
	if name == "" || name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}
