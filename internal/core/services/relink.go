package services

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/custodia-labs/migrator/internal/core/domain"
)

// imageRef matches ![alt](dest) and ![alt](dest "title").
var imageRef = regexp.MustCompile(`!\[([^\]]*)\]\(\s*(<[^>]*>|[^)\s]+)(\s+"[^"]*")?\s*\)`)

// RewriteImageLinks points image references whose base name is in assets at
// the assets folder. References to unknown images are left untouched.
func RewriteImageLinks(md string, assets map[string]bool) string {
	if len(assets) == 0 {
		return md
	}
	return imageRef.ReplaceAllStringFunc(md, func(match string) string {
		m := imageRef.FindStringSubmatch(match)
		alt, dest, title := m[1], m[2], m[3]

		base, ok := resolveAsset(dest, assets)
		if !ok {
			return match
		}
		target := domain.AssetsDir + "/" + base
		if strings.ContainsAny(target, " ()") {
			target = "<" + target + ">"
		}
		return "![" + alt + "](" + target + title + ")"
	})
}

// resolveAsset returns the asset base name a destination refers to.
func resolveAsset(dest string, assets map[string]bool) (string, bool) {
	dest = strings.TrimSuffix(strings.TrimPrefix(dest, "<"), ">")
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		dest = dest[:i]
	}
	base := domain.BaseName(dest)
	if assets[base] {
		return base, true
	}
	if unescaped, err := url.PathUnescape(base); err == nil && assets[unescaped] {
		return unescaped, true
	}
	return "", false
}
