package latextree

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned when adding to a context database that is already
// attached to a parsing state. Derive an independent copy instead.
var ErrFrozen = errors.New("context database is frozen, derive a copy with Filtered or Extended")

// Category is a named batch of construct specifications, the unit of
// registration and filtering in a context database.
type Category struct {
	Name         string
	Macros       []MacroSpec
	Environments []EnvironmentSpec
	Specials     []SpecialsSpec
}

// ContextDb is the grammar registry: an ordered list of categories holding
// macro, environment and specials specifications. Categories added later
// shadow earlier ones for the same construct name, so lookups scan newest
// first. Lookups never mutate the database, which makes a frozen database
// safe to share between concurrent parses.
type ContextDb struct {
	cats []*dbCategory

	unknownMacro       *MacroSpec
	unknownEnvironment *EnvironmentSpec
	unknownSpecials    *SpecialsSpec

	frozen bool
}

type dbCategory struct {
	name          string
	macros        map[string]*MacroSpec
	environments  map[string]*EnvironmentSpec
	specials      map[string]*SpecialsSpec
	specialsOrder []*SpecialsSpec
}

// NewContextDb returns an empty database with no fallback specifications:
// until fallbacks are configured, every unknown name is an error.
func NewContextDb() *ContextDb {
	return &ContextDb{}
}

// CategoryOption adjusts how a category is registered.
type CategoryOption func(*categoryInsert)

type categoryInsert struct {
	prepend bool
}

// Prepend registers the category at the lowest priority, so that existing
// categories keep shadowing it instead of the usual newest-wins order.
func Prepend() CategoryOption {
	return func(ci *categoryInsert) {
		ci.prepend = true
	}
}

// AddCategory registers a batch of specifications. Category names must be
// unique within one database.
func (db *ContextDb) AddCategory(cat Category, opts ...CategoryOption) error {
	if db.frozen {
		return ErrFrozen
	}
	if cat.Name == "" {
		return errors.New("category name must not be empty")
	}
	if db.HasCategory(cat.Name) {
		return fmt.Errorf("category %q is already registered", cat.Name)
	}

	var ins categoryInsert
	for _, opt := range opts {
		opt(&ins)
	}

	dc := buildCategory(cat)
	if ins.prepend {
		db.cats = append([]*dbCategory{dc}, db.cats...)
	} else {
		db.cats = append(db.cats, dc)
	}

	return nil
}

func buildCategory(cat Category) *dbCategory {
	dc := &dbCategory{
		name:         cat.Name,
		macros:       make(map[string]*MacroSpec, len(cat.Macros)),
		environments: make(map[string]*EnvironmentSpec, len(cat.Environments)),
		specials:     make(map[string]*SpecialsSpec, len(cat.Specials)),
	}

	for i := range cat.Macros {
		m := cat.Macros[i]
		dc.macros[m.Name] = &m
	}
	for i := range cat.Environments {
		e := cat.Environments[i]
		dc.environments[e.Name] = &e
	}
	for i := range cat.Specials {
		s := cat.Specials[i]
		s.textRunes = []rune(s.Text)
		dc.specials[s.Text] = &s
		dc.specialsOrder = append(dc.specialsOrder, &s)
	}

	return dc
}

// SetUnknownMacroSpec configures the fallback used when a macro name is not
// registered. A nil fallback restores strict lookups.
func (db *ContextDb) SetUnknownMacroSpec(spec *MacroSpec) error {
	if db.frozen {
		return ErrFrozen
	}

	db.unknownMacro = spec
	return nil
}

func (db *ContextDb) SetUnknownEnvironmentSpec(spec *EnvironmentSpec) error {
	if db.frozen {
		return ErrFrozen
	}

	db.unknownEnvironment = spec
	return nil
}

func (db *ContextDb) SetUnknownSpecialsSpec(spec *SpecialsSpec) error {
	if db.frozen {
		return ErrFrozen
	}

	db.unknownSpecials = spec
	return nil
}

// GetMacroSpec resolves a macro name, newest category first, falling back to
// the configured unknown-macro specification. With no fallback configured
// the lookup fails with an UnknownConstructError; that strictness is the
// point of leaving the fallback unset.
func (db *ContextDb) GetMacroSpec(name string) (*MacroSpec, error) {
	for i := len(db.cats) - 1; i >= 0; i-- {
		if spec, ok := db.cats[i].macros[name]; ok {
			return spec, nil
		}
	}

	if db.unknownMacro != nil {
		return db.unknownMacro, nil
	}

	return nil, &UnknownConstructError{Kind: MacroConstruct, Name: name}
}

// GetEnvironmentSpec resolves an environment name like GetMacroSpec.
func (db *ContextDb) GetEnvironmentSpec(name string) (*EnvironmentSpec, error) {
	for i := len(db.cats) - 1; i >= 0; i-- {
		if spec, ok := db.cats[i].environments[name]; ok {
			return spec, nil
		}
	}

	if db.unknownEnvironment != nil {
		return db.unknownEnvironment, nil
	}

	return nil, &UnknownConstructError{Kind: EnvironmentConstruct, Name: name}
}

// GetSpecialsSpec resolves a specials string like GetMacroSpec.
func (db *ContextDb) GetSpecialsSpec(text string) (*SpecialsSpec, error) {
	if spec := db.lookupSpecials(text); spec != nil {
		return spec, nil
	}

	if db.unknownSpecials != nil {
		return db.unknownSpecials, nil
	}

	return nil, &UnknownConstructError{Kind: SpecialsConstruct, Name: text}
}

// lookupSpecials resolves exactly the registered specials string, without
// any fallback. The tokenizer uses this to probe for the paragraph spec.
func (db *ContextDb) lookupSpecials(text string) *SpecialsSpec {
	for i := len(db.cats) - 1; i >= 0; i-- {
		if spec, ok := db.cats[i].specials[text]; ok {
			return spec
		}
	}

	return nil
}

// SpecialsLongestMatch finds the specials specification matching at pos,
// preferring strictly longer matches; among equal lengths the newest
// category and earliest registration wins.
func (db *ContextDb) SpecialsLongestMatch(src []rune, pos int) *SpecialsSpec {
	var best *SpecialsSpec

	for i := len(db.cats) - 1; i >= 0; i-- {
		for _, spec := range db.cats[i].specialsOrder {
			if best != nil && len(spec.textRunes) <= len(best.textRunes) {
				continue
			}
			if runesHavePrefix(src, pos, spec.textRunes) {
				best = spec
			}
		}
	}

	return best
}

func runesHavePrefix(src []rune, pos int, prefix []rune) bool {
	if len(prefix) == 0 || pos+len(prefix) > len(src) {
		return false
	}

	for i, r := range prefix {
		if src[pos+i] != r {
			return false
		}
	}

	return true
}

// HasCategory reports whether a category with the given name is registered.
func (db *ContextDb) HasCategory(name string) bool {
	for _, c := range db.cats {
		if c.name == name {
			return true
		}
	}

	return false
}

// Categories lists the registered category names in priority order, the
// shadowing ones first.
func (db *ContextDb) Categories() []string {
	names := make([]string, 0, len(db.cats))
	for i := len(db.cats) - 1; i >= 0; i-- {
		names = append(names, db.cats[i].name)
	}

	return names
}

// FilterOption narrows the categories kept by Filtered.
type FilterOption func(*filterCfg)

type filterCfg struct {
	include map[string]bool
	exclude map[string]bool
}

// FilterInclude keeps only the named categories.
func FilterInclude(names ...string) FilterOption {
	return func(fc *filterCfg) {
		if fc.include == nil {
			fc.include = make(map[string]bool, len(names))
		}
		for _, n := range names {
			fc.include[n] = true
		}
	}
}

// FilterExclude drops the named categories.
func FilterExclude(names ...string) FilterOption {
	return func(fc *filterCfg) {
		if fc.exclude == nil {
			fc.exclude = make(map[string]bool, len(names))
		}
		for _, n := range names {
			fc.exclude[n] = true
		}
	}
}

// Filtered returns an independent database holding the categories that pass
// the given filters, in their original order. The receiver is not modified
// and the copy starts out unfrozen. Fallback specifications carry over.
func (db *ContextDb) Filtered(opts ...FilterOption) *ContextDb {
	var fc filterCfg
	for _, opt := range opts {
		opt(&fc)
	}

	out := &ContextDb{
		unknownMacro:       db.unknownMacro,
		unknownEnvironment: db.unknownEnvironment,
		unknownSpecials:    db.unknownSpecials,
	}

	for _, c := range db.cats {
		if fc.include != nil && !fc.include[c.name] {
			continue
		}
		if fc.exclude[c.name] {
			continue
		}
		out.cats = append(out.cats, c)
	}

	return out
}

// Extended returns an independent database with the given categories added
// at the highest priority. Name clashes with existing categories are
// allowed here; the added categories simply shadow them.
func (db *ContextDb) Extended(cats ...Category) *ContextDb {
	out := &ContextDb{
		cats:               append([]*dbCategory{}, db.cats...),
		unknownMacro:       db.unknownMacro,
		unknownEnvironment: db.unknownEnvironment,
		unknownSpecials:    db.unknownSpecials,
	}

	for _, cat := range cats {
		out.cats = append(out.cats, buildCategory(cat))
	}

	return out
}

// freeze pins the database once it is attached to a parsing state.
func (db *ContextDb) freeze() {
	db.frozen = true
}
