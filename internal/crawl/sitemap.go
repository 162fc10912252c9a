package crawl

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// ParseSitemap returns every <loc> in a sitemap or sitemap index, trimmed and
// de-duplicated in document order. Non-UTF-8 documents are decoded from
// their declared charset.
func ParseSitemap(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "sitemap: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var locs []string
	seen := make(map[string]bool)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return locs, eris.Wrap(err, "sitemap: read token")
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "loc" {
			continue
		}
		var loc string
		if err := dec.DecodeElement(&loc, &se); err != nil {
			return locs, eris.Wrap(err, "sitemap: decode loc")
		}
		loc = strings.TrimSpace(loc)
		if loc == "" || seen[loc] {
			continue
		}
		seen[loc] = true
		locs = append(locs, loc)
	}
	return locs, nil
}
