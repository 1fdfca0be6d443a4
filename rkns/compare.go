package rkns

import (
	"bytes"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/robert-malhotra/go-rkns/store"
)

// Tolerances for comparing array values.
const (
	compareRelTol = 1e-5
	compareAbsTol = 1e-8
)

// CompareOptions selects how deep and how thoroughly DeepCompare looks.
type CompareOptions struct {
	// MaxDepth limits descent below the compared groups: 0 compares direct
	// children only. A negative value means no limit.
	MaxDepth      int
	CompareValues bool
	CompareAttrs  bool
}

// FullCompare compares every descendant, its values and its attributes.
var FullCompare = CompareOptions{MaxDepth: -1, CompareValues: true, CompareAttrs: true}

type member struct {
	path string
	kind store.Kind
}

// DeepCompare reports whether a and b hold the same tree. A difference is
// returned as a typed error wrapping ErrStructuralMismatch that names the
// offending path; the bool is true only when the error is nil.
func DeepCompare(a, b *store.Group, opts CompareOptions) (bool, error) {
	if a.Name() != b.Name() {
		return false, &NameMismatchError{A: a.Name(), B: b.Name()}
	}

	ma, err := collectMembers(a, opts.MaxDepth)
	if err != nil {
		return false, storeErr(err)
	}
	mb, err := collectMembers(b, opts.MaxDepth)
	if err != nil {
		return false, storeErr(err)
	}
	if len(ma) != len(mb) {
		return false, &MemberCountMismatchError{Path: a.Path(), A: len(ma), B: len(mb)}
	}

	if opts.CompareAttrs {
		if err := compareNodeAttrs(a.Path(), a.Attrs, b.Attrs); err != nil {
			return false, err
		}
	}

	for i := range ma {
		x, y := ma[i], mb[i]
		if x.path != y.path {
			return false, &PathMismatchError{A: x.path, B: y.path}
		}
		p := store.JoinPath(a.Path(), x.path)
		if x.kind != y.kind {
			return false, &NodeKindMismatchError{Path: p, A: x.kind, B: y.kind}
		}

		if x.kind == store.KindArray {
			arrA, err := a.OpenArray(x.path)
			if err != nil {
				return false, storeErr(err)
			}
			arrB, err := b.OpenArray(y.path)
			if err != nil {
				return false, storeErr(err)
			}
			if err := compareArrays(p, arrA, arrB, opts.CompareValues); err != nil {
				return false, err
			}
			if opts.CompareAttrs {
				if err := compareNodeAttrs(p, arrA.Attrs, arrB.Attrs); err != nil {
					return false, err
				}
			}
			continue
		}

		if opts.CompareAttrs {
			gA, err := a.OpenGroup(x.path)
			if err != nil {
				return false, storeErr(err)
			}
			gB, err := b.OpenGroup(y.path)
			if err != nil {
				return false, storeErr(err)
			}
			if err := compareNodeAttrs(p, gA.Attrs, gB.Attrs); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

// collectMembers lists descendants of g by path relative to g, sorted by
// path. Groups deeper than depth are listed but not entered.
func collectMembers(g *store.Group, depth int) ([]member, error) {
	prefix := strings.TrimSuffix(g.Path(), "/") + "/"
	var out []member
	err := store.Walk(g, func(p string, obj interface{}, err error) error {
		if err != nil {
			return err
		}
		if p == g.Path() {
			return nil
		}
		rel := strings.TrimPrefix(p, prefix)
		switch obj.(type) {
		case *store.Array:
			out = append(out, member{path: rel, kind: store.KindArray})
		case *store.Group:
			out = append(out, member{path: rel, kind: store.KindGroup})
			if depth >= 0 && strings.Count(rel, "/") >= depth {
				return store.SkipGroup
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out, nil
}

func compareArrays(p string, a, b *store.Array, values bool) error {
	if !reflect.DeepEqual(a.Shape(), b.Shape()) {
		return &ArrayShapeMismatchError{Path: p, A: a.Shape(), B: b.Shape()}
	}
	if !values {
		return nil
	}

	if a.DType() == b.DType() {
		ra, err := a.ReadRaw()
		if err != nil {
			return storeErr(err)
		}
		rb, err := b.ReadRaw()
		if err != nil {
			return storeErr(err)
		}
		if bytes.Equal(ra, rb) {
			return nil
		}
	}

	va, err := a.ReadFloat64()
	if err != nil {
		return storeErr(err)
	}
	vb, err := b.ReadFloat64()
	if err != nil {
		return storeErr(err)
	}
	for i := range va {
		if !closeEnough(va[i], vb[i]) {
			return &ArrayValueMismatchError{Path: p, Index: i}
		}
	}
	return nil
}

func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	return math.Abs(a-b) <= compareAbsTol+compareRelTol*math.Abs(b)
}

func compareNodeAttrs(p string, attrsA, attrsB func() (map[string]interface{}, error)) error {
	a, err := attrsA()
	if err != nil {
		return storeErr(err)
	}
	b, err := attrsB()
	if err != nil {
		return storeErr(err)
	}
	if len(a) != len(b) {
		return &AttributeMismatchError{Path: p}
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		if _, ok := b[k]; !ok {
			return &AttributeMismatchError{Path: p}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !equalAttr(a[k], b[k]) {
			return &AttributeMismatchError{Path: p, Attr: k}
		}
	}
	return nil
}

// equalAttr compares decoded JSON values: objects key-wise, arrays
// element-wise and scalars by equality.
func equalAttr(a, b interface{}) bool {
	switch x := a.(type) {
	case map[string]interface{}:
		y, ok := b.(map[string]interface{})
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !equalAttr(v, w) {
				return false
			}
		}
		return true
	case []interface{}:
		y, ok := b.([]interface{})
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalAttr(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}
