package script

import (
	"testing"

	zygo "github.com/glycerine/zygomys/zygo"
)

func TestNormalizeSourceKeywords(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"simple keyword", `(grid :name "x")`, `(grid "__kw_name" "x")`},
		{"kebab keyword", `(grid :origin-x 2)`, `(grid "__kw_origin-x" 2)`},
		{"assignment untouched", `(def x := 5)`, `(def x := 5)`},
		{"colon before digit untouched", `(foo :2)`, `(foo :2)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeSource(tt.in); got != tt.want {
				t.Errorf("normalizeSource(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeSourceKebabIdentifiers(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"call", `(fill-missing m p)`, `(fill_missing m p)`},
		{"multi hyphen", `(max-min m p)`, `(max_min m p)`},
		{"subtraction kept", `(- 5 3)`, `(- 5 3)`},
		{"numeric minus kept", `(+ 5 -3)`, `(+ 5 -3)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeSource(tt.in); got != tt.want {
				t.Errorf("normalizeSource(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeSourceStringsUntouched(t *testing.T) {
	in := `(polygon :name "a-b :keyword ; not a comment")`
	want := `(polygon "__kw_name" "a-b :keyword ; not a comment")`
	if got := normalizeSource(in); got != want {
		t.Errorf("normalizeSource = %q, want %q", got, want)
	}
}

func TestNormalizeSourceComments(t *testing.T) {
	in := ";; carve the pad\n(+ 1 2) ; trailing"
	want := "// carve the pad\n(+ 1 2) // trailing"
	if got := normalizeSource(in); got != want {
		t.Errorf("normalizeSource = %q, want %q", got, want)
	}
}

func TestParseArgs(t *testing.T) {
	args := []zygo.Sexp{
		&zygo.SexpStr{S: "__kw_min"},
		&zygo.SexpInt{Val: 4},
		&zygo.SexpStr{S: "positional"},
		&zygo.SexpStr{S: "__kw_max"},
		&zygo.SexpInt{Val: 9},
	}
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		t.Fatalf("%d positional args, want 1", len(pa.positional))
	}
	if v, ok := pa.kw["min"]; !ok || v.(*zygo.SexpInt).Val != 4 {
		t.Errorf("kw min = %v", v)
	}
	if v, ok := pa.kw["max"]; !ok || v.(*zygo.SexpInt).Val != 9 {
		t.Errorf("kw max = %v", v)
	}
}

func TestToFloat32(t *testing.T) {
	if v, err := toFloat32(&zygo.SexpInt{Val: 3}); err != nil || v != 3 {
		t.Errorf("int: %g, %v", v, err)
	}
	if v, err := toFloat32(&zygo.SexpFloat{Val: 2.5}); err != nil || v != 2.5 {
		t.Errorf("float: %g, %v", v, err)
	}
	if _, err := toFloat32(&zygo.SexpStr{S: "nope"}); err == nil {
		t.Error("string should not convert")
	}
}

func TestToKeywordString(t *testing.T) {
	if s, err := toKeywordString(&zygo.SexpStr{S: "__kw_nearest"}); err != nil || s != "nearest" {
		t.Errorf("keyword: %q, %v", s, err)
	}
	if s, err := toKeywordString(&zygo.SexpStr{S: "nearest"}); err != nil || s != "nearest" {
		t.Errorf("plain: %q, %v", s, err)
	}
	if _, err := toKeywordString(&zygo.SexpInt{Val: 1}); err == nil {
		t.Error("int should not convert")
	}
}

func TestToPoint(t *testing.T) {
	arr := &zygo.SexpArray{Val: []zygo.Sexp{
		&zygo.SexpInt{Val: 3},
		&zygo.SexpFloat{Val: 4.5},
	}}
	x, y, err := toPoint(arr)
	if err != nil || x != 3 || y != 4.5 {
		t.Errorf("toPoint = (%g, %g), %v", x, y, err)
	}

	short := &zygo.SexpArray{Val: []zygo.Sexp{&zygo.SexpInt{Val: 3}}}
	if _, _, err := toPoint(short); err == nil {
		t.Error("one-element point should not convert")
	}
}
