package latextree

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// categoryFile is one YAML document declaring a category:
//
//	category: mypkg
//	macros:
//	  - name: highlight
//	    args: "om"
//	environments:
//	  - name: snippet
//	    verbatim: true
//	specials:
//	  - text: "::"
//
// Argument shapes use the compact ParseArgSpec notation.
type categoryFile struct {
	Category     string            `yaml:"category"`
	Macros       []macroFile       `yaml:"macros"`
	Environments []environmentFile `yaml:"environments"`
	Specials     []specialsFile    `yaml:"specials"`
}

type macroFile struct {
	Name string `yaml:"name"`
	Args string `yaml:"args"`
}

type environmentFile struct {
	Name     string `yaml:"name"`
	Args     string `yaml:"args"`
	Math     bool   `yaml:"math"`
	Inline   bool   `yaml:"inline"`
	Verbatim bool   `yaml:"verbatim"`
}

type specialsFile struct {
	Text string `yaml:"text"`
	Args string `yaml:"args"`
}

// ReadCategories decodes categories from a stream of YAML documents, one
// category per document. Unknown keys, unknown argument-shape letters and
// duplicate names within a document are errors.
func ReadCategories(r io.Reader) ([]Category, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cats []Category

	for {
		var doc categoryFile

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("category file: %w", err)
		}

		cat, err := doc.category()
		if err != nil {
			return nil, err
		}

		cats = append(cats, cat)
	}

	return cats, nil
}

// AddCategoriesYAML decodes category documents and registers each of them,
// in document order, so a later document shadows an earlier one.
func (db *ContextDb) AddCategoriesYAML(data []byte) error {
	cats, err := ReadCategories(bytes.NewReader(data))
	if err != nil {
		return err
	}

	for _, cat := range cats {
		if err := db.AddCategory(cat); err != nil {
			return err
		}
	}

	return nil
}

func (f *categoryFile) category() (Category, error) {
	if f.Category == "" {
		return Category{}, errors.New("category file: missing category name")
	}

	cat := Category{Name: f.Category}

	seen := make(map[string]bool)
	for _, m := range f.Macros {
		if m.Name == "" {
			return Category{}, fmt.Errorf("category %q: macro without a name", f.Category)
		}
		if seen[m.Name] {
			return Category{}, fmt.Errorf("category %q: duplicate macro %q", f.Category, m.Name)
		}
		seen[m.Name] = true

		args, err := parseFileArgs(f.Category, "macro", m.Name, m.Args)
		if err != nil {
			return Category{}, err
		}

		cat.Macros = append(cat.Macros, MacroSpec{Name: m.Name, Args: args})
	}

	seen = make(map[string]bool)
	for _, e := range f.Environments {
		if e.Name == "" {
			return Category{}, fmt.Errorf("category %q: environment without a name", f.Category)
		}
		if seen[e.Name] {
			return Category{}, fmt.Errorf("category %q: duplicate environment %q", f.Category, e.Name)
		}
		seen[e.Name] = true

		if e.Verbatim && e.Math {
			return Category{}, fmt.Errorf("category %q: environment %q cannot be both math and verbatim", f.Category, e.Name)
		}
		if e.Inline && !e.Math {
			return Category{}, fmt.Errorf("category %q: environment %q: inline requires math", f.Category, e.Name)
		}

		args, err := parseFileArgs(f.Category, "environment", e.Name, e.Args)
		if err != nil {
			return Category{}, err
		}

		cat.Environments = append(cat.Environments, EnvironmentSpec{
			Name:        e.Name,
			Args:        args,
			IsMathMode:  e.Math,
			MathDisplay: e.Math && !e.Inline,
			Verbatim:    e.Verbatim,
		})
	}

	seen = make(map[string]bool)
	for _, s := range f.Specials {
		if s.Text == "" {
			return Category{}, fmt.Errorf("category %q: specials without text", f.Category)
		}
		if seen[s.Text] {
			return Category{}, fmt.Errorf("category %q: duplicate specials %q", f.Category, s.Text)
		}
		seen[s.Text] = true

		args, err := parseFileArgs(f.Category, "specials", s.Text, s.Args)
		if err != nil {
			return Category{}, err
		}

		cat.Specials = append(cat.Specials, SpecialsSpec{Text: s.Text, Args: args})
	}

	return cat, nil
}

func parseFileArgs(category, kind, name, shape string) ([]ArgSpec, error) {
	if shape == "" {
		return nil, nil
	}

	args, err := ParseArgSpec(shape)
	if err != nil {
		return nil, fmt.Errorf("category %q: %s %q: %w", category, kind, name, err)
	}

	return args, nil
}
