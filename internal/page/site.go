package page

import (
	"fmt"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// PageExt is the extension of pages written by WriteSite.
const PageExt = ".html"

// WriteSite renders the pages of the given categories (every category in the
// store when none is given) into dir, one file per record named by its
// address, plus the splash page as index.html. It returns the number of
// pages written.
func (r *Renderer) WriteSite(fsys billy.Filesystem, dir string, categories ...string) (int, error) {
	site := *r
	site.LinkSuffix = PageExt

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}

	splash, err := site.Splash()
	if err != nil {
		return 0, err
	}
	if err := util.WriteFile(fsys, path.Join(dir, "index"+PageExt), []byte(splash), 0o644); err != nil {
		return 0, err
	}
	written := 1

	if len(categories) == 0 {
		categories = r.store.Categories()
	}
	for _, category := range categories {
		for _, rec := range r.store.Records(category) {
			addr, err := FormatAddress(category, rec.ID)
			if err != nil {
				return written, err
			}
			html, err := site.RenderRecord(category, rec.ID)
			if err != nil {
				return written, fmt.Errorf("render %s: %w", addr, err)
			}
			if err := util.WriteFile(fsys, path.Join(dir, addr+PageExt), []byte(html), 0o644); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}
