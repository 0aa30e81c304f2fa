package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// assetAttrs lists the attributes that may reference note assets.
var assetAttrs = map[atom.Atom]string{
	atom.Img: "src",
	atom.A:   "href",
}

// ResolveAssetPaths rewrites relative img[src] and a[href] references in a
// rendered note fragment to file:// URLs under baseDir, so a headless
// browser printing from a temp file can still load them.
//
// References with a scheme, protocol-relative URLs, fragments, absolute
// paths and paths escaping baseDir are left as written.
// An empty baseDir returns the fragment unchanged.
func ResolveAssetPaths(fragment, baseDir string) (string, error) {
	if baseDir == "" || fragment == "" {
		return fragment, nil
	}

	root, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		walkElements(n, func(el *html.Node) {
			if key, ok := assetAttrs[el.DataAtom]; ok {
				resolveAttr(el, key, root)
			}
		})
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func walkElements(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, visit)
	}
}

func resolveAttr(el *html.Node, key, root string) {
	for i := range el.Attr {
		if el.Attr[i].Key != key {
			continue
		}
		if abs, ok := localAsset(el.Attr[i].Val, root); ok {
			el.Attr[i].Val = fileURL(abs)
		}
	}
}

// localAsset reports the absolute path of ref when it is a relative path
// that stays inside root.
func localAsset(ref, root string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return "", false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return "", false
	}
	if filepath.IsAbs(ref) || strings.HasPrefix(ref, "/") {
		return "", false
	}

	abs := filepath.Join(root, filepath.FromSlash(ref))
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return abs, true
}

func fileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
