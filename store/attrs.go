package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
)

// Kind identifies the type of a node.
type Kind int

// Node kinds
const (
	KindNone Kind = iota
	KindGroup
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindArray:
		return "array"
	default:
		return "none"
	}
}

// node holds what groups and arrays share: location and attributes.
type node struct {
	file     *File
	path     string
	readOnly bool
}

// Name returns the node name (last component of path).
func (n *node) Name() string {
	if n.path == "/" {
		return "/"
	}
	return path.Base(n.path)
}

// Path returns the full path to this node.
func (n *node) Path() string {
	return n.path
}

// File returns the store the node belongs to.
func (n *node) File() *File {
	return n.file
}

// IsReadOnly reports whether mutations through this handle are refused.
func (n *node) IsReadOnly() bool {
	return n.readOnly || !n.file.mode.Writable()
}

func (n *node) checkOpen() error {
	if n.file.closed {
		return ErrClosed
	}
	return nil
}

func (n *node) checkWritable() error {
	if err := n.checkOpen(); err != nil {
		return err
	}
	if n.IsReadOnly() {
		return fmt.Errorf("%s: %w", n.path, ErrReadOnly)
	}
	return nil
}

func (n *node) attrsKey() string {
	return keyPrefix(n.path) + attrsKey
}

// rawAttrs loads the undecoded attribute map. A node without attributes
// yields an empty map.
func (n *node) rawAttrs() (map[string]json.RawMessage, error) {
	if err := n.checkOpen(); err != nil {
		return nil, err
	}
	data, err := n.file.store.Get(n.attrsKey())
	if errors.Is(err, ErrKeyNotFound) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading attributes of %s: %w", n.path, err)
	}
	attrs := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("decoding attributes of %s: %w", n.path, err)
	}
	return attrs, nil
}

func (n *node) writeRawAttrs(attrs map[string]json.RawMessage) error {
	data, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("encoding attributes of %s: %w", n.path, err)
	}
	return n.file.store.Set(n.attrsKey(), data)
}

// Attrs returns every attribute decoded from JSON.
func (n *node) Attrs() (map[string]interface{}, error) {
	raw, err := n.rawAttrs()
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		var val interface{}
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, fmt.Errorf("decoding attribute %s: %w", JoinAttrPath(n.path, k), err)
		}
		out[k] = val
	}
	return out, nil
}

// AttrNames returns the sorted attribute names.
func (n *node) AttrNames() ([]string, error) {
	raw, err := n.rawAttrs()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

// Attr returns one attribute decoded from JSON.
func (n *node) Attr(name string) (interface{}, error) {
	var val interface{}
	if err := n.AttrInto(name, &val); err != nil {
		return nil, err
	}
	return val, nil
}

// AttrInto decodes one attribute into dest.
func (n *node) AttrInto(name string, dest interface{}) error {
	raw, err := n.rawAttrs()
	if err != nil {
		return err
	}
	v, ok := raw[name]
	if !ok {
		return fmt.Errorf("attribute %s: %w", JoinAttrPath(n.path, name), ErrNotFound)
	}
	if err := json.Unmarshal(v, dest); err != nil {
		return fmt.Errorf("decoding attribute %s: %w", JoinAttrPath(n.path, name), err)
	}
	return nil
}

// HasAttr returns true if the node has an attribute with the given name.
func (n *node) HasAttr(name string) bool {
	raw, err := n.rawAttrs()
	if err != nil {
		return false
	}
	_, ok := raw[name]
	return ok
}

// SetAttr sets one attribute. The value must be JSON-encodable.
func (n *node) SetAttr(name string, value interface{}) error {
	return n.SetAttrs(map[string]interface{}{name: value})
}

// SetAttrs merges attrs into the node's attributes.
func (n *node) SetAttrs(attrs map[string]interface{}) error {
	if err := n.checkWritable(); err != nil {
		return err
	}
	raw, err := n.rawAttrs()
	if err != nil {
		return err
	}
	for k, v := range attrs {
		if k == "" {
			return errors.New("attribute name cannot be empty")
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding attribute %s: %w", JoinAttrPath(n.path, k), err)
		}
		raw[k] = data
	}
	return n.writeRawAttrs(raw)
}

// DeleteAttr removes one attribute. Removing an absent attribute is not an error.
func (n *node) DeleteAttr(name string) error {
	if err := n.checkWritable(); err != nil {
		return err
	}
	raw, err := n.rawAttrs()
	if err != nil {
		return err
	}
	if _, ok := raw[name]; !ok {
		return nil
	}
	delete(raw, name)
	return n.writeRawAttrs(raw)
}
