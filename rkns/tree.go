package rkns

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/robert-malhotra/go-rkns/store"
)

// maxAttrWidth truncates attribute values in tree output.
const maxAttrWidth = 60

// RenderTree draws the hierarchy below g. maxDepth limits descent as in
// CompareOptions; showAttrs adds one line per attribute.
func RenderTree(g *store.Group, maxDepth int, showAttrs bool) (string, error) {
	var sb strings.Builder
	sb.WriteString(g.Path())
	sb.WriteByte('\n')
	if showAttrs {
		if err := writeAttrs(&sb, "", g.Attrs); err != nil {
			return "", err
		}
	}
	if err := renderGroup(&sb, g, "", maxDepth, showAttrs); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderGroup(sb *strings.Builder, g *store.Group, indent string, depth int, showAttrs bool) error {
	names, err := g.Members()
	if err != nil {
		return storeErr(err)
	}
	for i, name := range names {
		branch, next := "├── ", "│   "
		if i == len(names)-1 {
			branch, next = "└── ", "    "
		}
		kind, err := g.Kind(name)
		if err != nil {
			return storeErr(err)
		}

		if kind == store.KindArray {
			arr, err := g.OpenArray(name)
			if err != nil {
				return storeErr(err)
			}
			fmt.Fprintf(sb, "%s%s%s %v %s\n", indent, branch, name, arr.Shape(), arr.DType())
			if showAttrs {
				if err := writeAttrs(sb, indent+next, arr.Attrs); err != nil {
					return err
				}
			}
			continue
		}

		sub, err := g.OpenGroup(name)
		if err != nil {
			return storeErr(err)
		}
		fmt.Fprintf(sb, "%s%s%s\n", indent, branch, name)
		if showAttrs {
			if err := writeAttrs(sb, indent+next, sub.Attrs); err != nil {
				return err
			}
		}
		if depth == 0 {
			continue
		}
		if err := renderGroup(sb, sub, indent+next, depth-1, showAttrs); err != nil {
			return err
		}
	}
	return nil
}

func writeAttrs(sb *strings.Builder, indent string, attrs func() (map[string]interface{}, error)) error {
	m, err := attrs()
	if err != nil {
		return storeErr(err)
	}
	for _, k := range sortedKeys(m) {
		v, err := json.Marshal(m[k])
		if err != nil {
			return err
		}
		s := string(v)
		if len(s) > maxAttrWidth {
			s = s[:maxAttrWidth-3] + "..."
		}
		fmt.Fprintf(sb, "%s  @%s = %s\n", indent, k, s)
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
