package latextree_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	latextree "github.com/texkit/go-latextree"
)

func TestContextDbLookup(t *testing.T) {
	db := latextree.NewContextDb()

	err := db.AddCategory(latextree.Category{
		Name:   "base",
		Macros: []latextree.MacroSpec{{Name: "x", Args: latextree.MustArgSpec("m")}},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = db.AddCategory(latextree.Category{
		Name:   "override",
		Macros: []latextree.MacroSpec{{Name: "x"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("newest category shadows older ones", func(t *testing.T) {
		spec, err := db.GetMacroSpec("x")
		if err != nil {
			t.Fatal(err)
		}
		if len(spec.Args) != 0 {
			t.Errorf("Lookup picked the shadowed specification: %v", spec.Args)
		}
	})

	t.Run("prepended category does not shadow", func(t *testing.T) {
		err := db.AddCategory(latextree.Category{
			Name:   "fallback",
			Macros: []latextree.MacroSpec{{Name: "x", Args: latextree.MustArgSpec("mm")}},
		}, latextree.Prepend())
		if err != nil {
			t.Fatal(err)
		}

		spec, err := db.GetMacroSpec("x")
		if err != nil {
			t.Fatal(err)
		}
		if len(spec.Args) != 0 {
			t.Errorf("Prepended category took priority: %v", spec.Args)
		}
	})

	t.Run("unknown name without a fallback is an error", func(t *testing.T) {
		_, err := db.GetMacroSpec("nosuch")

		var uerr *latextree.UnknownConstructError
		if !errors.As(err, &uerr) {
			t.Fatalf("Expected an unknown-construct error, got %v", err)
		}
		if uerr.Kind != latextree.MacroConstruct || uerr.Name != "nosuch" {
			t.Errorf("Error does not match: got kind %v name %q", uerr.Kind, uerr.Name)
		}
	})

	t.Run("unknown name resolves to the configured fallback", func(t *testing.T) {
		fallback := &latextree.MacroSpec{}
		if err := db.SetUnknownMacroSpec(fallback); err != nil {
			t.Fatal(err)
		}

		spec, err := db.GetMacroSpec("nosuch")
		if err != nil {
			t.Fatal(err)
		}
		if spec != fallback {
			t.Errorf("Lookup did not return the fallback: %v", spec)
		}
	})

	t.Run("category names are listed shadowing-first", func(t *testing.T) {
		want := []string{"override", "base", "fallback"}
		if diff := cmp.Diff(want, db.Categories()); diff != "" {
			t.Errorf("Categories do not match (-want +got):\n%s", diff)
		}
	})
}

func TestContextDbRegistration(t *testing.T) {
	db := latextree.NewContextDb()

	if err := db.AddCategory(latextree.Category{Name: "one"}); err != nil {
		t.Fatal(err)
	}

	if err := db.AddCategory(latextree.Category{Name: "one"}); err == nil {
		t.Errorf("Duplicate category name was accepted")
	}

	if err := db.AddCategory(latextree.Category{}); err == nil {
		t.Errorf("Empty category name was accepted")
	}
}

func TestContextDbFreeze(t *testing.T) {
	db := latextree.NewContextDb()
	if err := db.AddCategory(latextree.Category{Name: "one"}); err != nil {
		t.Fatal(err)
	}

	// attaching to a state freezes the database
	latextree.NewParsingState(db)

	if err := db.AddCategory(latextree.Category{Name: "two"}); !errors.Is(err, latextree.ErrFrozen) {
		t.Errorf("Expected ErrFrozen, got %v", err)
	}
	if err := db.SetUnknownMacroSpec(&latextree.MacroSpec{}); !errors.Is(err, latextree.ErrFrozen) {
		t.Errorf("Expected ErrFrozen, got %v", err)
	}

	t.Run("filtered copy starts out unfrozen", func(t *testing.T) {
		f := db.Filtered()
		if err := f.AddCategory(latextree.Category{Name: "two"}); err != nil {
			t.Errorf("Unable to add to the copy: %v", err)
		}
		if db.HasCategory("two") {
			t.Errorf("Adding to the copy changed the original")
		}
	})
}

func TestContextDbFiltered(t *testing.T) {
	db := latextree.NewContextDb()
	for _, name := range []string{"one", "two", "three"} {
		if err := db.AddCategory(latextree.Category{Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("include keeps only the named categories", func(t *testing.T) {
		f := db.Filtered(latextree.FilterInclude("one", "three"))
		want := []string{"three", "one"}
		if diff := cmp.Diff(want, f.Categories()); diff != "" {
			t.Errorf("Categories do not match (-want +got):\n%s", diff)
		}
	})

	t.Run("exclude drops the named categories", func(t *testing.T) {
		f := db.Filtered(latextree.FilterExclude("two"))
		want := []string{"three", "one"}
		if diff := cmp.Diff(want, f.Categories()); diff != "" {
			t.Errorf("Categories do not match (-want +got):\n%s", diff)
		}
	})

	t.Run("filtering twice changes nothing more", func(t *testing.T) {
		once := db.Filtered(latextree.FilterInclude("one", "two"))
		twice := once.Filtered(latextree.FilterInclude("one", "two"))
		if diff := cmp.Diff(once.Categories(), twice.Categories()); diff != "" {
			t.Errorf("Categories do not match (-once +twice):\n%s", diff)
		}
	})
}

func TestContextDbExtended(t *testing.T) {
	db := latextree.NewContextDb()
	err := db.AddCategory(latextree.Category{
		Name:   "base",
		Macros: []latextree.MacroSpec{{Name: "x", Args: latextree.MustArgSpec("m")}},
	})
	if err != nil {
		t.Fatal(err)
	}

	latextree.NewParsingState(db)

	// extending a frozen database is fine, the copy shadows the original
	e := db.Extended(latextree.Category{
		Name:   "base",
		Macros: []latextree.MacroSpec{{Name: "x"}},
	})

	spec, err := e.GetMacroSpec("x")
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.Args) != 0 {
		t.Errorf("Extension did not shadow the original: %v", spec.Args)
	}

	orig, err := db.GetMacroSpec("x")
	if err != nil {
		t.Fatal(err)
	}
	if len(orig.Args) != 1 {
		t.Errorf("Extension changed the original: %v", orig.Args)
	}
}

func TestSpecialsLongestMatch(t *testing.T) {
	db := latextree.NewContextDb()
	err := db.AddCategory(latextree.Category{
		Name:     "dashes",
		Specials: []latextree.SpecialsSpec{{Text: "-"}, {Text: "---"}, {Text: "--"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		name  string
		src   string
		pos   int
		match string
	}{
		{name: "longest wins", src: "---", pos: 0, match: "---"},
		{name: "shorter when the rest differs", src: "--x", pos: 0, match: "--"},
		{name: "single at offset", src: "x-", pos: 1, match: "-"},
		{name: "no match", src: "xy", pos: 0, match: ""},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			spec := db.SpecialsLongestMatch([]rune(tc.src), tc.pos)

			got := ""
			if spec != nil {
				got = spec.Text
			}
			if got != tc.match {
				t.Errorf("Match does not match: want %q, got %q", tc.match, got)
			}
		})
	}

	t.Run("equal lengths resolve to the newest category", func(t *testing.T) {
		db := latextree.NewContextDb()
		if err := db.AddCategory(latextree.Category{
			Name:     "older",
			Specials: []latextree.SpecialsSpec{{Text: "~"}},
		}); err != nil {
			t.Fatal(err)
		}
		if err := db.AddCategory(latextree.Category{
			Name:     "newer",
			Specials: []latextree.SpecialsSpec{{Text: "~", Args: latextree.MustArgSpec("m")}},
		}); err != nil {
			t.Fatal(err)
		}

		spec := db.SpecialsLongestMatch([]rune("~"), 0)
		if spec == nil || len(spec.Args) != 1 {
			t.Errorf("Expected the newest specification, got %v", spec)
		}
	})
}
