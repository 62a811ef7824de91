package assets

import "strings"

// EntriesAt returns the nodes visible at current, in record order. A record
// whose folder equals current yields a leaf; a record nested deeper yields a
// folder node named after the first segment beyond current. Folder names are
// emitted once per call, leaves are never deduplicated.
func EntriesAt(current string, records []Record) []Node {
	prefix := ""
	if current != "" {
		prefix = current + "/"
	}
	nodes := make([]Node, 0, len(records))
	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.Folder == current {
			nodes = append(nodes, Node{Name: baseName(rec.Path), Record: rec})
			continue
		}
		if !strings.HasPrefix(rec.Folder, prefix) {
			continue
		}
		rest := rec.Folder[len(prefix):]
		name, _, _ := strings.Cut(rest, "/")
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		nodes = append(nodes, Node{Name: name, Folder: true})
	}
	return nodes
}

// Leaves returns the record paths of the leaf nodes in display order. This is
// the list range selection indexes into.
func Leaves(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if !n.Folder {
			out = append(out, n.Record.Path)
		}
	}
	return out
}

// Folders returns the folder node names in display order.
func Folders(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.Folder {
			out = append(out, n.Name)
		}
	}
	return out
}

// CollectUnder returns every record whose folder is target or nested below
// it, in record order.
func CollectUnder(target string, records []Record) []Record {
	prefix := target + "/"
	var out []Record
	for _, rec := range records {
		if rec.Folder == target || strings.HasPrefix(rec.Folder, prefix) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterScope keeps the records whose folder starts with scope. An empty
// scope keeps everything.
func FilterScope(records []Record, scope string) []Record {
	if scope == "" {
		return append([]Record(nil), records...)
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if strings.HasPrefix(rec.Folder, scope) {
			out = append(out, rec)
		}
	}
	return out
}
