package store

import (
	"fmt"
	"sort"
	"strings"
)

// Group is a named container of groups and arrays.
type Group struct {
	node
}

// ReadOnly returns a view of g whose mutators fail with ErrReadOnly.
func (g *Group) ReadOnly() *Group {
	return &Group{node: node{file: g.file, path: g.path, readOnly: true}}
}

// OpenGroup opens a subgroup by relative path.
func (g *Group) OpenGroup(relativePath string) (*Group, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}
	p := JoinPath(g.path, relativePath)
	kind, err := g.file.kindAt(p)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindGroup:
		return &Group{node: node{file: g.file, path: p, readOnly: g.readOnly}}, nil
	case KindArray:
		return nil, fmt.Errorf("%s: %w", p, ErrNotGroup)
	}
	return nil, fmt.Errorf("group %s: %w", p, ErrNotFound)
}

// OpenArray opens an array by relative path.
func (g *Group) OpenArray(relativePath string) (*Array, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}
	p := JoinPath(g.path, relativePath)
	kind, err := g.file.kindAt(p)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindArray:
		return openArray(g.file, p, g.readOnly)
	case KindGroup:
		return nil, fmt.Errorf("%s: %w", p, ErrNotArray)
	}
	return nil, fmt.Errorf("array %s: %w", p, ErrNotFound)
}

// Kind reports the kind of the child at relativePath, or KindNone.
func (g *Group) Kind(relativePath string) (Kind, error) {
	if err := g.checkOpen(); err != nil {
		return KindNone, err
	}
	return g.file.kindAt(JoinPath(g.path, relativePath))
}

// Members returns the sorted names of all direct children.
func (g *Group) Members() ([]string, error) {
	if err := g.checkOpen(); err != nil {
		return nil, err
	}
	prefix := keyPrefix(g.path)
	keys, err := g.file.store.List(prefix)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", g.path, err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, k := range keys {
		rest := k[len(prefix):]
		var name string
		switch {
		case strings.HasSuffix(rest, "/"+groupKey):
			name = strings.TrimSuffix(rest, "/"+groupKey)
		case strings.HasSuffix(rest, "/"+arrayKey):
			name = strings.TrimSuffix(rest, "/"+arrayKey)
		default:
			continue
		}
		if strings.Contains(name, "/") || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// NumObjects returns the number of direct children.
func (g *Group) NumObjects() (int, error) {
	members, err := g.Members()
	if err != nil {
		return 0, err
	}
	return len(members), nil
}

// CreateGroup creates a group at the relative path, creating missing
// intermediate groups. If the target exists and overwrite is false it
// fails with ErrExists; otherwise the existing node is deleted first.
func (g *Group) CreateGroup(relativePath string, overwrite bool) (*Group, error) {
	if err := g.checkWritable(); err != nil {
		return nil, err
	}
	parts := SplitPath(relativePath)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: group name cannot be empty", ErrInvalidPath)
	}

	current := g.path
	for i, name := range parts {
		if err := validName(name); err != nil {
			return nil, err
		}
		current = JoinPath(current, name)
		kind, err := g.file.kindAt(current)
		if err != nil {
			return nil, err
		}

		last := i == len(parts)-1
		if !last {
			switch kind {
			case KindGroup:
				continue
			case KindArray:
				return nil, fmt.Errorf("%s: %w", current, ErrNotGroup)
			}
		} else if kind != KindNone {
			if !overwrite {
				return nil, fmt.Errorf("%s: %w", current, ErrExists)
			}
			if err := deletePrefix(g.file.store, keyPrefix(current)); err != nil {
				return nil, fmt.Errorf("deleting %s: %w", current, err)
			}
		}

		if err := g.file.writeGroupMeta(current); err != nil {
			return nil, err
		}
	}

	g.file.log.Debug().Str("path", current).Msg("group created")
	return &Group{node: node{file: g.file, path: current}}, nil
}

// RequireGroup opens the group at relativePath, creating it if missing.
func (g *Group) RequireGroup(relativePath string) (*Group, error) {
	sub, err := g.OpenGroup(relativePath)
	if err == nil {
		return sub, nil
	}
	kind, kerr := g.Kind(relativePath)
	if kerr != nil {
		return nil, kerr
	}
	if kind != KindNone {
		return nil, err
	}
	return g.CreateGroup(relativePath, false)
}

// Delete removes the child at relativePath with everything below it.
func (g *Group) Delete(relativePath string) error {
	if err := g.checkWritable(); err != nil {
		return err
	}
	p := JoinPath(g.path, relativePath)
	if p == g.path || !strings.HasPrefix(p, strings.TrimSuffix(g.path, "/")+"/") {
		return fmt.Errorf("%w: cannot delete %s from %s", ErrInvalidPath, p, g.path)
	}
	kind, err := g.file.kindAt(p)
	if err != nil {
		return err
	}
	if kind == KindNone {
		return fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	if err := deletePrefix(g.file.store, keyPrefix(p)); err != nil {
		return fmt.Errorf("deleting %s: %w", p, err)
	}
	return nil
}

// Clear removes every child and attribute of g.
func (g *Group) Clear() error {
	if err := g.checkWritable(); err != nil {
		return err
	}
	members, err := g.Members()
	if err != nil {
		return err
	}
	for _, name := range members {
		if err := g.Delete(name); err != nil {
			return err
		}
	}
	return g.file.store.Delete(g.attrsKey())
}
