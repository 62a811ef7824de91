package assets

import (
	"errors"
	"fmt"
	"strings"
)

// MediaMarker separates the server-side storage prefix from the media-relative
// part of a canonical path.
const MediaMarker = "/media/"

// ErrNoMediaMarker reports a server path that does not contain MediaMarker.
var ErrNoMediaMarker = errors.New("path has no /media/ segment")

// Rewrite maps a canonical server path onto a browser URL: everything after
// the first "/media/" is appended to mediaRoot + "/media/".
//
//	Rewrite("https://cdn", "/usr/src/app/media/date/01_01_2024/a/x.jpg")
//	  == "https://cdn/media/date/01_01_2024/a/x.jpg"
func Rewrite(mediaRoot, serverPath string) (string, error) {
	rel, ok := MediaRelative(serverPath)
	if !ok {
		return "", fmt.Errorf("rewrite %q: %w", serverPath, ErrNoMediaMarker)
	}
	return mediaRoot + MediaMarker + rel, nil
}

// MediaRelative returns the part of serverPath after the first "/media/".
func MediaRelative(serverPath string) (string, bool) {
	_, rel, ok := strings.Cut(serverPath, MediaMarker)
	return rel, ok
}

// ResolveURL builds the browser URL for a listed record path. Listing paths
// are normally already rooted at "/media"; the first "/media" occurrence is
// dropped and the remainder is served from mediaRoot + "/media".
func ResolveURL(mediaRoot, recordPath string) string {
	rest := strings.Replace(recordPath, "/media", "", 1)
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return mediaRoot + "/media" + rest
}

// ResolveAll applies ResolveURL to every record, preserving order.
func ResolveAll(mediaRoot string, records []Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = ResolveURL(mediaRoot, rec.Path)
	}
	return out
}

// ClientFolderName recovers the client folder from the canonical paths of a
// freshly materialized selection: the parent directory of the first file,
// relative to the media root. Files are moved into <origin>/<client>/<name>,
// so the parent is the client folder at any nesting depth. The empty string
// is returned when the path carries no usable parent.
func ClientFolderName(serverPaths []string) string {
	if len(serverPaths) == 0 {
		return ""
	}
	rel, ok := MediaRelative(serverPaths[0])
	if !ok {
		return ""
	}
	dir := Parent(strings.Trim(rel, "/"))
	if dir == "" {
		return ""
	}
	if idx := strings.LastIndex(dir, "/"); idx >= 0 {
		return dir[idx+1:]
	}
	return dir
}
