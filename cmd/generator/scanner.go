package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/rs/zerolog"
)

type (
	// MemberDefinition is a struct field or a setter method annotated with @dependency.
	MemberDefinition struct {
		ImportPath string
		TypeName   string
		Member     string
		Setter     bool
		Named      string
	}

	RegistryDefinition struct {
		PackageName string
		ImportPath  string
		StructName  string
	}
)

func (m MemberDefinition) String() string {
	member := m.Member
	if m.Setter {
		member += "()"
	}
	return fmt.Sprintf(`🔌 Dependency: %s.%s
Import Path: %s
Named: %s`,
		m.TypeName,
		member,
		m.ImportPath,
		m.Named,
	)
}

// findRegistry looks for a struct embedding hypo.EmptyRegistry.
func findRegistry(logger *zerolog.Logger, importPath string, file *ast.File) *RegistryDefinition {
	var registry *RegistryDefinition
	ast.Inspect(file, func(n ast.Node) bool {
		typeSpec, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		structType, ok := typeSpec.Type.(*ast.StructType)
		if !ok {
			return true
		}
		for _, field := range structType.Fields.List {
			if len(field.Names) != 0 {
				continue
			}
			if sel, ok := field.Type.(*ast.SelectorExpr); ok {
				if ident, ok := sel.X.(*ast.Ident); ok && ident.Name == "hypo" && sel.Sel.Name == "EmptyRegistry" {
					logger.Debug().Str("struct", typeSpec.Name.Name).Msg("=> Found Registry")
					registry = &RegistryDefinition{
						PackageName: file.Name.Name,
						ImportPath:  importPath,
						StructName:  typeSpec.Name.Name,
					}
				}
			}
		}
		return true
	})
	return registry
}

// findMembers collects the annotated fields and setter methods of a file, in declaration order.
func findMembers(logger *zerolog.Logger, importPath string, file *ast.File) []MemberDefinition {
	var members []MemberDefinition
	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.TypeSpec:
			structType, ok := node.Type.(*ast.StructType)
			if !ok {
				return true
			}
			for _, field := range structType.Fields.List {
				annotation, found := parseDependencyAnnotation(logger, field.Doc.Text()+"\n"+field.Comment.Text())
				if !found {
					continue
				}
				named, _ := annotation.Named()
				for _, name := range field.Names {
					logger.Debug().Str("struct", node.Name.Name).Str("field", name.Name).Msg("=> Found field dependency")
					members = append(members, MemberDefinition{
						ImportPath: importPath,
						TypeName:   node.Name.Name,
						Member:     name.Name,
						Named:      named,
					})
				}
				if len(field.Names) == 0 {
					logger.Warn().Str("struct", node.Name.Name).Msg("Embedded fields cannot be dependencies, skipping")
				}
			}

		case *ast.FuncDecl:
			if node.Doc == nil {
				return true
			}
			annotation, found := parseDependencyAnnotation(logger, node.Doc.Text())
			if !found {
				return true
			}
			logger := logger.With().Str("method", node.Name.Name).Logger()
			typeName, ok := setterReceiver(node)
			if !ok {
				logger.Error().Msg("Only methods SetXxx(value) with a pointer receiver can be dependencies, skipping")
				return true
			}
			logger.Debug().Str("struct", typeName).Msg("=> Found setter dependency")
			named, _ := annotation.Named()
			members = append(members, MemberDefinition{
				ImportPath: importPath,
				TypeName:   typeName,
				Member:     node.Name.Name,
				Setter:     true,
				Named:      named,
			})
		}
		return true
	})
	return members
}

// setterReceiver returns the receiver type name of a simple setter method.
func setterReceiver(fn *ast.FuncDecl) (string, bool) {
	if fn.Recv == nil || len(fn.Recv.List) != 1 || !strings.HasPrefix(fn.Name.Name, "Set") || !token.IsExported(fn.Name.Name) {
		return "", false
	}
	if countParams(fn.Type.Params) != 1 {
		return "", false
	}
	star, ok := fn.Recv.List[0].Type.(*ast.StarExpr)
	if !ok {
		return "", false
	}
	ident, ok := star.X.(*ast.Ident)
	if !ok {
		return "", false
	}
	return ident.Name, true
}

func countParams(params *ast.FieldList) int {
	if params == nil {
		return 0
	}
	count := 0
	for _, param := range params.List {
		if len(param.Names) == 0 {
			count++
		}
		count += len(param.Names)
	}
	return count
}
