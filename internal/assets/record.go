package assets

import "strings"

// Record is one backend-reported media file. Path identifies the physical
// asset and Folder is the slash-delimited virtual directory it belongs to.
type Record struct {
	Path   string `json:"path"`
	Folder string `json:"folder"`
}

// Node is an entry visible at a virtual path. Leaves wrap a Record and are
// named after the file; folders only carry the segment name.
type Node struct {
	Name   string
	Folder bool
	Record Record
}

// Key returns the value used to identify the node in selections: the record
// path for leaves and the name for folders.
func (n Node) Key() string {
	if n.Folder {
		return n.Name
	}
	return n.Record.Path
}

func baseName(path string) string {
	path = strings.TrimRight(path, "/")
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// Depth reports the number of segments in a virtual path.
func Depth(path string) int {
	path = strings.Trim(path, "/")
	if path == "" {
		return 0
	}
	return strings.Count(path, "/") + 1
}

// Join appends name to a virtual path.
func Join(current, name string) string {
	if current == "" {
		return name
	}
	return current + "/" + name
}

// Parent removes the last segment of a virtual path.
func Parent(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[:idx]
	}
	return ""
}
