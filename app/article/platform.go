package article

import (
	"regexp"
	"strings"
)

var (
	platformOpenRegex  = regexp.MustCompile(`^\s*<!--\s*platform:\s*([\w.-]+)\s*-->\s*$`)
	platformCloseRegex = regexp.MustCompile(`^\s*<!--\s*/platform\s*-->\s*$`)
)

// RenderFor returns the content as it should be sent to platform. Blocks
// fenced by <!-- platform:NAME --> and <!-- /platform --> are kept only for
// the matching platform and their marker lines are dropped. A block without
// a closing marker runs to the end of the content.
func (a *Article) RenderFor(platform string) string {
	if !strings.Contains(a.Content, "<!--") {
		return a.Content
	}

	lines := strings.Split(a.Content, "\n")
	out := make([]string, 0, len(lines))

	inBlock, keep := false, true
	for _, line := range lines {
		if match := platformOpenRegex.FindStringSubmatch(line); match != nil && !inBlock {
			inBlock = true
			keep = strings.EqualFold(match[1], platform)
			continue
		}
		if inBlock && platformCloseRegex.MatchString(line) {
			inBlock, keep = false, true
			continue
		}
		if keep {
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n")
}
