package store

import (
	"fmt"
	"path"
	"strings"
)

// ParseAttrPath parses an attribute path into object path and attribute name.
// Path format: /group/subgroup/object@attribute_name
//
// Examples:
//   - "/@root_attr" -> objectPath="/", attrName="root_attr"
//   - "/_raw/signal@md5" -> objectPath="/_raw/signal", attrName="md5"
//
// Returns an error if the path is invalid or missing the @ separator.
func ParseAttrPath(p string) (objectPath, attrName string, err error) {
	if p == "" {
		return "", "", fmt.Errorf("empty attribute path")
	}

	atIdx := strings.LastIndex(p, "@")
	if atIdx == -1 {
		return "", "", fmt.Errorf("attribute path must contain '@' separator: %s", p)
	}

	objectPath = p[:atIdx]
	attrName = p[atIdx+1:]

	if attrName == "" {
		return "", "", fmt.Errorf("attribute name cannot be empty: %s", p)
	}

	return CleanPath(objectPath), attrName, nil
}

// JoinAttrPath creates an attribute path from object path and attribute name.
func JoinAttrPath(objectPath, attrName string) string {
	if objectPath == "/" {
		return "/@" + attrName
	}
	return objectPath + "@" + attrName
}

// SplitPath splits a path into its components.
// Leading and trailing slashes are handled, empty components are removed.
//
// Examples:
//   - "/" -> []string{}
//   - "/rkns" -> []string{"rkns"}
//   - "/rkns/signals" -> []string{"rkns", "signals"}
func SplitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return []string{}
	}
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// CleanPath normalizes a path, ensuring it starts with "/" and has no trailing slash.
func CleanPath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	return path.Clean("/" + p)
}

// JoinPath joins a base path and a relative path.
func JoinPath(base, rel string) string {
	return CleanPath(path.Join(CleanPath(base), rel))
}

// validName reports whether name can be used as a single path component.
// Names starting with a dot would collide with metadata keys.
func validName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return nil
}

// keyPrefix returns the backend key prefix of the node at p.
// The root maps to the empty prefix.
func keyPrefix(p string) string {
	p = strings.Trim(CleanPath(p), "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

// Metadata key names
const (
	groupKey = ".zgroup"
	arrayKey = ".zarray"
	attrsKey = ".zattrs"
)
