package main

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/a-peyrard/hypo/set"
)

const hypoImportPath = "github.com/a-peyrard/hypo"

type (
	importDefinition struct {
		Alias string
		Path  string
	}

	memberLine struct {
		Constructor string
		TypeName    string
		Member      string
		Named       string
	}

	templateData struct {
		PackageName string
		StructName  string
		Imports     []importDefinition
		Members     []memberLine
	}
)

var genTemplate = template.Must(
	template.New("members").Parse(`// Code generated by hypo generator; DO NOT EDIT.

package {{ .PackageName }}

import (
	"github.com/a-peyrard/hypo"
{{- range .Imports }}
	{{ .Alias }} "{{ .Path }}"
{{- end }}
)

// Members lists the members annotated with @dependency in the module.
func ({{ .StructName }}) Members() []hypo.MemberSpec {
	return []hypo.MemberSpec{
{{- range .Members }}
		hypo.{{ .Constructor }}[{{ .TypeName }}]({{ printf "%q" .Member }}, {{ printf "%q" .Named }}),
{{- end }}
	}
}
`))

// generateCode renders the Members method of the registry, members of other packages must be exported
// types to be referenced.
func generateCode(registry *RegistryDefinition, members []MemberDefinition) ([]byte, error) {
	sorted := make([]MemberDefinition, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ImportPath != sorted[j].ImportPath {
			return sorted[i].ImportPath < sorted[j].ImportPath
		}
		return sorted[i].TypeName < sorted[j].TypeName
	})

	aliases := set.NewFromSlice([]string{"hypo", registry.PackageName})
	importWithAlias := make(map[string]string)
	data := templateData{
		PackageName: registry.PackageName,
		StructName:  registry.StructName,
	}
	for _, m := range sorted {
		importPath := m.ImportPath
		if importPath == registry.ImportPath {
			importPath = ""
		} else if !token.IsExported(m.TypeName) {
			return nil, fmt.Errorf("type %s of package %s must be exported to be registered from package %s", m.TypeName, m.ImportPath, registry.ImportPath)
		}
		if _, found := importWithAlias[importPath]; importPath != "" && !found {
			alias := findSuitableAlias(importPath, aliases)
			aliases.Add(alias)
			importWithAlias[importPath] = alias
			data.Imports = append(data.Imports, importDefinition{Alias: alias, Path: importPath})
		}

		constructor := "FieldOf"
		if m.Setter {
			constructor = "SetterOf"
		}
		data.Members = append(data.Members, memberLine{
			Constructor: constructor,
			TypeName:    generateFQN(importPath, m.TypeName, importWithAlias),
			Member:      m.Member,
			Named:       m.Named,
		})
	}

	var out bytes.Buffer
	if err := genTemplate.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("failed to render template:\n\t%w", err)
	}
	formatted, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code:\n\t%w\n%s", err, out.String())
	}
	return formatted, nil
}

// findSuitableAlias uses the last element of the import path, prefixed by the initials of the
// previous elements on collision, then suffixed by a counter.
func findSuitableAlias(pkg string, aliases set.Set[string]) string {
	tokens := strings.Split(pkg, "/")
	alias := sanitize(tokens[len(tokens)-1])
	if !aliases.Contains(alias) {
		return alias
	}
	for i := len(tokens) - 2; i >= 0; i-- {
		clean := sanitize(tokens[i])
		if clean == "" {
			continue
		}
		alias = clean[:1] + alias
		if !aliases.Contains(alias) {
			return alias
		}
	}
	for i := 0; ; i++ {
		if candidate := alias + strconv.Itoa(i); !aliases.Contains(candidate) {
			return candidate
		}
	}
}

func sanitize(token string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(token) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9' && b.Len() > 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func generateFQN(importPath string, typeName string, importWithAlias map[string]string) string {
	if importPath == "" {
		return typeName
	}
	alias := importWithAlias[importPath]
	if strings.HasPrefix(typeName, "*") {
		return "*" + alias + "." + strings.TrimPrefix(typeName, "*")
	}
	return alias + "." + typeName
}

// writeFileAtomic writes to a temporary file renamed once complete.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(targetPath), filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpFile.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmpFile.Name(), targetPath)
}
