package store

import (
	"errors"
)

// WalkFunc is called for each object during traversal.
// path is the full path to the object.
// obj is either *Group or *Array.
// err is any error encountered opening the object.
// Return nil to continue walking, SkipGroup to skip a group's children,
// or another error to stop.
type WalkFunc func(path string, obj interface{}, err error) error

// SkipGroup can be returned from a WalkFunc for a group to skip its children.
var SkipGroup = errors.New("skip this group")

// Walk traverses all objects (groups and arrays) in the hierarchy starting from g.
// The callback is called for each group and array, including the starting
// group, in depth-first order with children sorted by name.
//
// Example:
//
//	store.Walk(root, func(path string, obj interface{}, err error) error {
//	    if err != nil {
//	        return err
//	    }
//	    switch o := obj.(type) {
//	    case *store.Group:
//	        fmt.Println("Group:", path)
//	    case *store.Array:
//	        fmt.Println("Array:", path, "shape:", o.Shape())
//	    }
//	    return nil
//	})
func Walk(g *Group, fn WalkFunc) error {
	err := walkGroup(g, fn)
	if errors.Is(err, SkipGroup) || IsStopWalk(err) {
		return nil
	}
	return err
}

// walkGroup recursively walks a group and its children.
func walkGroup(g *Group, fn WalkFunc) error {
	if err := fn(g.Path(), g, nil); err != nil {
		return err
	}

	members, err := g.Members()
	if err != nil {
		return err
	}

	for _, name := range members {
		childPath := JoinPath(g.Path(), name)

		kind, err := g.Kind(name)
		if err != nil {
			if err := fn(childPath, nil, err); err != nil {
				return err
			}
			continue
		}

		switch kind {
		case KindGroup:
			child, err := g.OpenGroup(name)
			if err != nil {
				if err := fn(childPath, nil, err); err != nil {
					return err
				}
				continue
			}
			if err := walkGroup(child, fn); err != nil && !errors.Is(err, SkipGroup) {
				return err
			}
		case KindArray:
			var obj interface{}
			arr, err := g.OpenArray(name)
			if err == nil {
				obj = arr
			}
			if err := fn(childPath, obj, err); err != nil && !errors.Is(err, SkipGroup) {
				return err
			}
		}
	}

	return nil
}

// AttrInfo contains information about an attribute during walking.
type AttrInfo struct {
	// Path is the full attribute path (e.g., "/_raw/signal@md5")
	Path string

	// ObjectPath is the path to the object containing this attribute
	ObjectPath string

	// ObjectType is "group" or "array"
	ObjectType string

	// Name is the attribute name
	Name string

	// Value contains the decoded attribute value (nil on read error)
	Value interface{}

	// Err contains any error from reading the attribute value
	Err error
}

// WalkAttrsFunc is the callback function type for WalkAttrs.
// Return nil to continue walking, or an error to stop.
type WalkAttrsFunc func(info AttrInfo) error

// WalkAttrs recursively walks all attributes in the store.
//
// Example:
//
//	f.WalkAttrs(func(info store.AttrInfo) error {
//	    fmt.Printf("%s = %v\n", info.Path, info.Value)
//	    return nil
//	})
func (f *File) WalkAttrs(fn WalkAttrsFunc) error {
	if f.closed {
		return ErrClosed
	}
	return WalkAttrs(f.root, fn)
}

// WalkAttrs walks the attributes of g and everything below it.
func WalkAttrs(g *Group, fn WalkAttrsFunc) error {
	return Walk(g, func(p string, obj interface{}, err error) error {
		var n *node
		var objectType string
		switch o := obj.(type) {
		case *Group:
			n, objectType = &o.node, KindGroup.String()
		case *Array:
			n, objectType = &o.node, KindArray.String()
		default:
			// Skip objects we can't open
			return nil
		}

		names, err := n.AttrNames()
		if err != nil {
			return err
		}
		for _, name := range names {
			info := AttrInfo{
				Path:       JoinAttrPath(p, name),
				ObjectPath: p,
				ObjectType: objectType,
				Name:       name,
			}
			info.Value, info.Err = n.Attr(name)
			if err := fn(info); err != nil {
				return err
			}
		}
		return nil
	})
}

// ErrStopWalk can be returned from a walk callback to stop walking without an error.
var ErrStopWalk = &walkStopError{}

type walkStopError struct{}

func (e *walkStopError) Error() string { return "walk stopped" }

// IsStopWalk returns true if the error is ErrStopWalk.
func IsStopWalk(err error) bool {
	var stop *walkStopError
	return errors.As(err, &stop)
}
