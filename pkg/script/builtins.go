package script

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/mjard/relief/pkg/filter"
	"github.com/mjard/relief/pkg/geometry"
	"github.com/mjard/relief/pkg/interp"
	"github.com/mjard/relief/pkg/scene"
	"github.com/mjard/relief/pkg/terrain"
	"github.com/mjard/relief/pkg/transform"
)

// ---------------------------------------------------------------------------
// Source normalization
// ---------------------------------------------------------------------------

// normalizeSource rewrites Relief Lisp source before handing it to
// zygomys:
//
//  1. Keywords: :keyword -> "__kw_keyword" string literals, so keyword
//     symbols need not be registered as globals.
//  2. Kebab-case: fill-missing -> fill_missing, since zygomys parses a
//     hyphen between identifiers as subtraction.
//  3. Comments: leading ; runs become //, the zygomys comment form.
//
// All three transformations respect string literal boundaries.
func normalizeSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy double-quoted string literals untouched.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Copy backtick-quoted string literals untouched.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// ; line comments become // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// :keyword -> "__kw_keyword"; := stays an assignment.
		if b[i] == ':' && i+1 < len(b) {
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Kebab-case identifiers: hyphen between identifier characters
		// is part of the name, not a minus operator.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpModel wraps a registered grid model id.
type sexpModel struct {
	id   terrain.ModelID
	name string
}

func (m *sexpModel) SexpString(ps *zygo.PrintState) string {
	if m.name != "" {
		return fmt.Sprintf("(model %q)", m.name)
	}
	return fmt.Sprintf("(model %s)", m.id.Short())
}
func (m *sexpModel) Type() *zygo.RegisteredType { return nil }

// sexpPolygon wraps a registered polygon id.
type sexpPolygon struct {
	id   geometry.PolygonID
	name string
}

func (p *sexpPolygon) SexpString(ps *zygo.PrintState) string {
	if p.name != "" {
		return fmt.Sprintf("(polygon %q)", p.name)
	}
	return fmt.Sprintf("(polygon %s)", p.id.Short())
}
func (p *sexpPolygon) Type() *zygo.RegisteredType { return nil }

// sexpFilter wraps one cell filter so chains can be built in Lisp.
type sexpFilter struct {
	f filter.Filter
}

func (f *sexpFilter) SexpString(ps *zygo.PrintState) string {
	switch f.f.Kind() {
	case filter.HeightBelow, filter.HeightAbove:
		return fmt.Sprintf("(%s %g)", f.f.Kind(), f.f.Limit())
	default:
		return fmt.Sprintf("(%s %s)", f.f.Kind(), f.f.Polygon().Short())
	}
}
func (f *sexpFilter) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix marks keyword names rewritten by normalizeSource.
const kwPrefix = "__kw_"

// isKW checks whether a Sexp is a normalized keyword string, returning
// the bare keyword name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs is a parsed mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat32(s zygo.Sexp) (float32, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float32(v.Val), nil
	case *zygo.SexpFloat:
		return float32(v.Val), nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts a normalized keyword or a plain string.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

func toModel(s zygo.Sexp) (*sexpModel, error) {
	if m, ok := s.(*sexpModel); ok {
		return m, nil
	}
	return nil, fmt.Errorf("expected model reference, got %T (%s)", s, s.SexpString(nil))
}

func toPolygon(s zygo.Sexp) (*sexpPolygon, error) {
	if p, ok := s.(*sexpPolygon); ok {
		return p, nil
	}
	return nil, fmt.Errorf("expected polygon reference, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a Lisp list or array to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toChain converts a :filters argument into a filter chain.
func toChain(s zygo.Sexp) (filter.Chain, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	var chain filter.Chain
	for _, item := range items {
		f, ok := item.(*sexpFilter)
		if !ok {
			return nil, fmt.Errorf("expected filter, got %T (%s)", item, item.SexpString(nil))
		}
		chain = append(chain, f.f)
	}
	return chain, nil
}

// toPoint converts a two-element list or array into (x, y).
func toPoint(s zygo.Sexp) (float32, float32, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return 0, 0, err
	}
	if len(items) != 2 {
		return 0, 0, fmt.Errorf("expected [x y] pair, got %d elements", len(items))
	}
	x, err := toFloat32(items[0])
	if err != nil {
		return 0, 0, err
	}
	y, err := toFloat32(items[1])
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the Relief DSL into a zygomys environment.
// Builtin names are the underscore forms produced by normalizeSource
// from the user-facing kebab-case names.
func registerBuiltins(env *zygo.Zlisp, coord *scene.Coordinator) {

	// -------------------------------------------------------------------
	// (grid :name "demo" :cols 10 :rows 10 :origin-x 0 :origin-y 0
	//       :spacing 1 :height 0)
	// -------------------------------------------------------------------
	env.AddFunction("grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		gridName := ""
		cols, rows := 0, 0
		var originX, originY, baseHeight float32
		spacing := float32(1)

		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("grid: name: %w", err)
			}
			gridName = s
		}
		for kw, dst := range map[string]*int{"cols": &cols, "rows": &rows} {
			if v, ok := pa.kw[kw]; ok {
				n, err := toInt(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("grid: %s: %w", kw, err)
				}
				*dst = n
			}
		}
		for kw, dst := range map[string]*float32{
			"origin-x": &originX, "origin-y": &originY,
			"spacing": &spacing, "height": &baseHeight,
		} {
			if v, ok := pa.kw[kw]; ok {
				f, err := toFloat32(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("grid: %s: %w", kw, err)
				}
				*dst = f
			}
		}
		if cols < 1 || rows < 1 {
			return zygo.SexpNull, fmt.Errorf("grid: need :cols and :rows >= 1, have %dx%d", rows, cols)
		}

		x := make([]float32, cols)
		for i := range x {
			x[i] = originX + float32(i)*spacing
		}
		y := make([]float32, rows)
		for i := range y {
			y[i] = originY + float32(i)*spacing
		}
		heights := make([]float32, rows*cols)
		for i := range heights {
			heights[i] = baseHeight
		}
		g, err := terrain.NewGrid(x, y, heights)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("grid: %w", err)
		}
		id := coord.AddModel(gridName, g)
		return &sexpModel{id: id, name: gridName}, nil
	})

	// -------------------------------------------------------------------
	// (polygon :name "cut" [1 0] [5 0] [1 5])
	// -------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		polyName := ""
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: name: %w", err)
			}
			polyName = s
		}
		p := coord.CreatePolygon(polyName)
		for i, arg := range pa.positional {
			x, y, err := toPoint(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: point %d: %w", i, err)
			}
			if err := p.Add(x, y); err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: point %d: %w", i, err)
			}
		}
		return &sexpPolygon{id: p.ID, name: polyName}, nil
	})

	// (add-point p x y)
	env.AddFunction("add_point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("add-point: want (add-point polygon x y)")
		}
		ref, err := toPolygon(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-point: %w", err)
		}
		p, ok := coord.Polygon(ref.id)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("add-point: polygon %s no longer exists", ref.id.Short())
		}
		x, err := toFloat32(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-point: x: %w", err)
		}
		y, err := toFloat32(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-point: y: %w", err)
		}
		if err := p.Add(x, y); err != nil {
			return zygo.SexpNull, fmt.Errorf("add-point: %w", err)
		}
		return args[0], nil
	})

	// (delete-polygon p)
	env.AddFunction("delete_polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("delete-polygon: want (delete-polygon polygon)")
		}
		ref, err := toPolygon(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("delete-polygon: %w", err)
		}
		if err := coord.DeletePolygon(ref.id); err != nil {
			return zygo.SexpNull, fmt.Errorf("delete-polygon: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// (remove-model m)
	env.AddFunction("remove_model", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("remove-model: want (remove-model model)")
		}
		ref, err := toModel(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-model: %w", err)
		}
		if err := coord.RemoveModel(ref.id); err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-model: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// (models) / (polygons)
	env.AddFunction("models", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var refs []zygo.Sexp
		for _, m := range coord.Models() {
			refs = append(refs, &sexpModel{id: m.ID, name: m.Name})
		}
		return &zygo.SexpArray{Val: refs, Env: env}, nil
	})
	env.AddFunction("polygons", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var refs []zygo.Sexp
		for _, p := range coord.Polygons() {
			refs = append(refs, &sexpPolygon{id: p.ID, name: p.Name})
		}
		return &zygo.SexpArray{Val: refs, Env: env}, nil
	})

	// (height-below 5.0) / (height-above 1.0)
	env.AddFunction("height_below", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("height-below: want (height-below limit)")
		}
		limit, err := toFloat32(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("height-below: %w", err)
		}
		return &sexpFilter{f: filter.NewHeightBelow(limit)}, nil
	})
	env.AddFunction("height_above", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("height-above: want (height-above limit)")
		}
		limit, err := toFloat32(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("height-above: %w", err)
		}
		return &sexpFilter{f: filter.NewHeightAbove(limit)}, nil
	})

	// (inside p) / (outside p)
	env.AddFunction("inside", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("inside: want (inside polygon)")
		}
		ref, err := toPolygon(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("inside: %w", err)
		}
		return &sexpFilter{f: filter.NewInside(ref.id)}, nil
	})
	env.AddFunction("outside", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("outside: want (outside polygon)")
		}
		ref, err := toPolygon(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("outside: %w", err)
		}
		return &sexpFilter{f: filter.NewOutside(ref.id)}, nil
	})

	// -------------------------------------------------------------------
	// (linear m p :min 100 :max 150 :filters [(height-above 0)])
	// -------------------------------------------------------------------
	env.AddFunction("linear", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("linear: want (linear model polygon :min a :max b)")
		}
		mref, err := toModel(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("linear: %w", err)
		}
		pref, err := toPolygon(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("linear: %w", err)
		}
		t := transform.Linear{Model: mref.id, Polygon: pref.id}
		if v, ok := pa.kw["min"]; ok {
			if t.MinHeight, err = toFloat32(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("linear: min: %w", err)
			}
		}
		if v, ok := pa.kw["max"]; ok {
			if t.MaxHeight, err = toFloat32(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("linear: max: %w", err)
			}
		}
		if v, ok := pa.kw["filters"]; ok {
			if t.Filters, err = toChain(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("linear: filters: %w", err)
			}
		}
		if err := coord.ApplyTransformation(t); err != nil {
			return zygo.SexpNull, fmt.Errorf("linear: %w", err)
		}
		return pa.positional[0], nil
	})

	// (fill-missing m p :filters [...])
	env.AddFunction("fill_missing", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("fill-missing: want (fill-missing model polygon)")
		}
		mref, err := toModel(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fill-missing: %w", err)
		}
		pref, err := toPolygon(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fill-missing: %w", err)
		}
		t := transform.FillMissing{Model: mref.id, Polygon: pref.id}
		if v, ok := pa.kw["filters"]; ok {
			if t.Filters, err = toChain(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("fill-missing: filters: %w", err)
			}
		}
		if err := coord.ApplyTransformation(t); err != nil {
			return zygo.SexpNull, fmt.Errorf("fill-missing: %w", err)
		}
		return pa.positional[0], nil
	})

	// -------------------------------------------------------------------
	// (interpolate m p :method :linear :distance 2.5)
	// -------------------------------------------------------------------
	env.AddFunction("interpolate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("interpolate: want (interpolate model polygon :method m :distance d)")
		}
		mref, err := toModel(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("interpolate: %w", err)
		}
		pref, err := toPolygon(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("interpolate: %w", err)
		}
		in := interp.Interpolation{Model: mref.id, Polygon: pref.id}
		if v, ok := pa.kw["method"]; ok {
			mname, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("interpolate: method: %w", err)
			}
			if in.Method, err = interp.ParseMethod(mname); err != nil {
				return zygo.SexpNull, fmt.Errorf("interpolate: %w", err)
			}
		}
		if v, ok := pa.kw["distance"]; ok {
			if in.Distance, err = toFloat32(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("interpolate: distance: %w", err)
			}
		}
		if err := coord.ApplyInterpolation(in); err != nil {
			return zygo.SexpNull, fmt.Errorf("interpolate: %w", err)
		}
		return pa.positional[0], nil
	})

	// (max-min m p) -> (max min)
	env.AddFunction("max_min", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("max-min: want (max-min model polygon)")
		}
		mref, err := toModel(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("max-min: %w", err)
		}
		pref, err := toPolygon(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("max-min: %w", err)
		}
		max, min, err := coord.MaxMinHeight(mref.id, pref.id)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("max-min: %w", err)
		}
		return &zygo.SexpArray{Val: []zygo.Sexp{
			&zygo.SexpFloat{Val: float64(max)},
			&zygo.SexpFloat{Val: float64(min)},
		}, Env: env}, nil
	})

	// (draw-priority ref index)
	env.AddFunction("draw_priority", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("draw-priority: want (draw-priority ref index)")
		}
		var id string
		switch ref := args[0].(type) {
		case *sexpModel:
			id = string(ref.id)
		case *sexpPolygon:
			id = string(ref.id)
		default:
			return zygo.SexpNull, fmt.Errorf("draw-priority: expected model or polygon reference, got %T", args[0])
		}
		idx, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("draw-priority: %w", err)
		}
		if err := coord.ChangeDrawPriority(id, idx); err != nil {
			return zygo.SexpNull, fmt.Errorf("draw-priority: %w", err)
		}
		return zygo.SexpNull, nil
	})
}
