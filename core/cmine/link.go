package cmine

import (
	"net/http"

	"github.com/tomnomnom/linkheader"
)

// linkCursor walks a collection paginated with RFC 8288 Link headers.
// Its only state is the opaque URL of the next page.
type linkCursor struct {
	next string
}

func newLinkCursor(first string) *linkCursor {
	return &linkCursor{next: first}
}

// Done reports whether the last response carried no rel="next" link.
func (c *linkCursor) Done() bool {
	return c.next == ""
}

// URL returns the page to request next.
func (c *linkCursor) URL() string {
	return c.next
}

// Advance moves the cursor to the rel="next" target of the response headers.
func (c *linkCursor) Advance(header http.Header) {
	c.next = nextLink(header)
}

// nextLink returns the rel="next" URL of the Link headers, or "".
func nextLink(header http.Header) string {
	values := header.Values("Link")
	if len(values) == 0 {
		return ""
	}
	next := linkheader.ParseMultiple(values).FilterByRel("next")
	if len(next) == 0 {
		return ""
	}
	return next[0].URL
}
