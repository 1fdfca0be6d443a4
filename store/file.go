package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// zarrFormat is the metadata format version written to every node.
const zarrFormat = 2

type groupMeta struct {
	ZarrFormat int `json:"zarr_format"`
}

// File is an open chunked-array store.
type File struct {
	store  ChunkedStore
	mode   Mode
	log    zerolog.Logger
	root   *Group
	closed bool
}

// Open opens the hierarchy held by cs with the given access mode.
func Open(cs ChunkedStore, mode Mode, opts ...FileOption) (*File, error) {
	if cs == nil {
		return nil, errors.New("nil backend")
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	options := defaultFileOptions()
	for _, opt := range opts {
		opt(options)
	}

	f := &File{
		store: cs,
		mode:  mode,
		log:   options.logger,
	}
	f.root = &Group{node: node{file: f, path: "/", readOnly: !mode.Writable()}}

	rootExists, err := f.exists(groupKey)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeRead, ModeReadWrite:
		if !rootExists {
			return nil, fmt.Errorf("opening root group: %w", ErrNotFound)
		}
	case ModeAppend:
		if !rootExists {
			if err := f.writeGroupMeta("/"); err != nil {
				return nil, err
			}
		}
	case ModeOverwrite:
		if err := deletePrefix(cs, ""); err != nil {
			return nil, fmt.Errorf("clearing store: %w", err)
		}
		if err := f.writeGroupMeta("/"); err != nil {
			return nil, err
		}
	case ModeCreate:
		keys, err := cs.List("")
		if err != nil {
			return nil, err
		}
		if len(keys) > 0 {
			return nil, fmt.Errorf("creating root group: %w", ErrExists)
		}
		if err := f.writeGroupMeta("/"); err != nil {
			return nil, err
		}
	}

	f.log.Debug().Str("mode", string(mode)).Msg("store opened")
	return f, nil
}

// OpenMemory creates a fresh in-memory store.
func OpenMemory(opts ...FileOption) (*File, error) {
	return Open(NewMemory(), ModeOverwrite, opts...)
}

// Close closes the store and its backend.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.store.Close()
}

// Closed reports whether Close has been called.
func (f *File) Closed() bool {
	return f.closed
}

// Root returns the root group.
func (f *File) Root() *Group {
	return f.root
}

// Mode returns the access mode the store was opened with.
func (f *File) Mode() Mode {
	return f.mode
}

// Backend returns the underlying key/value store.
func (f *File) Backend() ChunkedStore {
	return f.store
}

// OpenGroup opens a group by absolute path.
func (f *File) OpenGroup(path string) (*Group, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.root.OpenGroup(path)
}

// OpenArray opens an array by absolute path.
func (f *File) OpenArray(path string) (*Array, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.root.OpenArray(path)
}

// GetAttr returns an attribute value by path.
// Path format: /group/object@attribute_name
func (f *File) GetAttr(path string) (interface{}, error) {
	if f.closed {
		return nil, ErrClosed
	}

	objectPath, attrName, err := ParseAttrPath(path)
	if err != nil {
		return nil, err
	}

	n, err := f.nodeAt(objectPath)
	if err != nil {
		return nil, fmt.Errorf("opening object %s: %w", objectPath, err)
	}
	return n.Attr(attrName)
}

// nodeAt returns the node holding attributes at path.
func (f *File) nodeAt(path string) (*node, error) {
	kind, err := f.kindAt(path)
	if err != nil {
		return nil, err
	}
	if kind == KindNone {
		return nil, ErrNotFound
	}
	return &node{file: f, path: CleanPath(path), readOnly: !f.mode.Writable()}, nil
}

func (f *File) exists(key string) (bool, error) {
	_, err := f.store.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// kindAt reports what kind of node, if any, lives at path.
func (f *File) kindAt(path string) (Kind, error) {
	prefix := keyPrefix(path)
	ok, err := f.exists(prefix + groupKey)
	if err != nil {
		return KindNone, err
	}
	if ok {
		return KindGroup, nil
	}
	ok, err = f.exists(prefix + arrayKey)
	if err != nil {
		return KindNone, err
	}
	if ok {
		return KindArray, nil
	}
	return KindNone, nil
}

func (f *File) writeGroupMeta(path string) error {
	data, err := json.Marshal(groupMeta{ZarrFormat: zarrFormat})
	if err != nil {
		return err
	}
	if err := f.store.Set(keyPrefix(path)+groupKey, data); err != nil {
		return fmt.Errorf("writing group %s: %w", path, err)
	}
	return nil
}
