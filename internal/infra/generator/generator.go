// Where: internal/infra/generator/generator.go
// What: Render module, POM and ivy.xml descriptors for a publication.
// Why: Descriptors are produced from templates before identifiers are patched.
package generator

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/poruru/multipub/internal/domain/coordinate"
	"github.com/poruru/multipub/internal/domain/descriptor"
	"github.com/poruru/multipub/internal/infra/repository"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateCache sync.Map

// Input describes one publication as the generator sees it. Ref carries the
// coordinate captured when the publication was declared; its id is patched
// afterwards. Published names the artifact files and defaults to Ref.
type Input struct {
	Kind        coordinate.Kind
	Ref         coordinate.Ref
	Published   coordinate.Ref
	VariantName string
	Attributes  map[string]string
	Artifacts   []string
	ToolVersion string
}

// File is an artifact as listed in a module descriptor.
type File struct {
	Name   string
	URL    string
	Path   string
	Ext    string
	Size   int64
	SHA1   string
	SHA256 string
}

// Output holds the rendered descriptors.
type Output struct {
	Module        []byte
	Secondary     []byte
	SecondaryName string
	Files         []File
}

type variantData struct {
	Name       string
	Attributes map[string]string
	Files      []File
}

type templateData struct {
	Group        string
	Module       string
	ArtifactName string
	Version      string
	Status       string
	Packaging    string
	ToolVersion  string
	Variant      *variantData
}

// Generate renders every descriptor of in. Artifact files are hashed from
// disk; a publication without artifacts gets no local variant.
func Generate(in Input) (Output, error) {
	secondaryTemplate, secondaryName, err := secondaryFor(in.Kind)
	if err != nil {
		return Output{}, err
	}

	published := in.Published
	if published == (coordinate.Ref{}) {
		published = in.Ref
	}
	files, err := DescribeFiles(published, in.Artifacts)
	if err != nil {
		return Output{}, err
	}

	data := templateData{
		Group:        in.Ref.Group,
		Module:       in.Ref.ID,
		ArtifactName: published.ID,
		Version:      in.Ref.Version,
		Status:       status(in.Ref.Version),
		Packaging:    packaging(files),
		ToolVersion:  in.ToolVersion,
	}
	if len(files) > 0 {
		attrs := map[string]string{"org.gradle.status": data.Status}
		for k, v := range in.Attributes {
			attrs[k] = v
		}
		data.Variant = &variantData{Name: in.VariantName, Attributes: attrs, Files: files}
	}

	module, err := renderTemplate("module.json.tmpl", data)
	if err != nil {
		return Output{}, fmt.Errorf("render module for %s: %w", in.Ref, err)
	}
	doc, err := descriptor.Parse([]byte(module), in.Ref.String()+".module")
	if err != nil {
		return Output{}, err
	}
	if err := descriptor.Validate(doc); err != nil {
		return Output{}, err
	}
	normalized, err := doc.Bytes()
	if err != nil {
		return Output{}, err
	}

	secondary, err := renderTemplate(secondaryTemplate, data)
	if err != nil {
		return Output{}, fmt.Errorf("render %s for %s: %w", secondaryName, in.Ref, err)
	}

	return Output{
		Module:        normalized,
		Secondary:     []byte(secondary),
		SecondaryName: secondaryName,
		Files:         files,
	}, nil
}

// DescribeFiles hashes artifacts and names them after ref.
func DescribeFiles(ref coordinate.Ref, paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	seen := map[string]string{}
	for _, p := range paths {
		name := repository.ArtifactName(ref, p)
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("artifacts %s and %s publish under the same name %s", prev, p, name)
		}
		seen[name] = p
		file, err := describeFile(p)
		if err != nil {
			return nil, err
		}
		file.Name = name
		file.URL = name
		file.Ext = strings.TrimPrefix(strings.TrimPrefix(name, ref.ID+"-"+ref.Version), ".")
		files = append(files, file)
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func describeFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	h1 := sha1.New()
	h256 := sha256.New()
	size, err := io.Copy(io.MultiWriter(h1, h256), f)
	if err != nil {
		return File{}, fmt.Errorf("hash artifact %s: %w", path, err)
	}
	return File{
		Path:   filepath.Clean(path),
		Size:   size,
		SHA1:   hex.EncodeToString(h1.Sum(nil)),
		SHA256: hex.EncodeToString(h256.Sum(nil)),
	}, nil
}

func secondaryFor(kind coordinate.Kind) (string, string, error) {
	switch kind {
	case coordinate.KindMaven:
		return "pom.xml.tmpl", "pom-default.xml", nil
	case coordinate.KindIvy:
		return "ivy.xml.tmpl", "ivy.xml", nil
	default:
		return "", "", &coordinate.UnsupportedKindError{Type: string(kind)}
	}
}

func status(version string) string {
	if strings.HasSuffix(version, "-SNAPSHOT") {
		return "integration"
	}
	return "release"
}

func packaging(files []File) string {
	if len(files) == 1 && files[0].Ext != "" {
		return files[0].Ext
	}
	return "pom"
}

func renderTemplate(name string, data any) (string, error) {
	tmpl, err := loadTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func loadTemplate(name string) (*template.Template, error) {
	if value, ok := templateCache.Load(name); ok {
		return value.(*template.Template), nil
	}
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, err
	}
	templateCache.Store(name, tmpl)
	return tmpl, nil
}
