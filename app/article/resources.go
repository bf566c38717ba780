package article

import (
	"path"
	"regexp"
	"strings"
)

// A relative reference starts with ./ or ../ and must not be glued to a
// preceding path or word character (so "a/./b" and "https://x/../y" are left
// alone). It ends at whitespace or at a character that closes markdown or
// HTML syntax.
var relativePathRegex = regexp.MustCompile(`(?:^|[^\w./~-])(\.{1,2}/[^\s"'()<>\[\]]+)`)

// rewriteRelative rewrites the first relative reference of each line in place.
func rewriteRelative(lines []string, base string) error {
	for i, line := range lines {
		loc := relativePathRegex.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		start, end := loc[2], loc[3]
		rel := line[start:end]

		resolved, err := resolveResource(base, rel)
		if err != nil {
			return &ResourceError{Line: i + 1, Path: rel, Base: base, Err: err}
		}
		lines[i] = line[:start] + "https://" + resolved + line[end:]
	}
	return nil
}

// resolveResource joins rel onto base. The first segment of base is the host
// and a reference may not climb above it.
func resolveResource(base, rel string) (string, error) {
	base = stripScheme(base)
	host, _, _ := strings.Cut(strings.TrimLeft(base, "/"), "/")
	if host == "" {
		return "", ErrResourceOutsideBase
	}

	resolved := strings.TrimLeft(path.Join(base, rel), "/")
	if resolved != host && !strings.HasPrefix(resolved, host+"/") {
		return "", ErrResourceOutsideBase
	}
	// path.Join drops the trailing slash of a directory reference.
	if strings.HasSuffix(rel, "/") && !strings.HasSuffix(resolved, "/") {
		resolved += "/"
	}
	return resolved, nil
}

func stripScheme(base string) string {
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(base, scheme) {
			return strings.TrimPrefix(base, scheme)
		}
	}
	return base
}
