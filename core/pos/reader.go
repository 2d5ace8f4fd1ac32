package pos

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pos2cmine/core/apierr"
	"pos2cmine/core/httpx"

	"go.uber.org/zap"
)

const exportPath = "/en/group_export"

// Reader produces PoS solutions page by page.
type Reader struct {
	baseURL   string
	client    *http.Client
	logger    *zap.Logger
	verbosity int
}

// NewReader creates a reader for the PoS site at baseURL.
// A nil logger disables logging.
func NewReader(baseURL string, client *http.Client, logger *zap.Logger, verbosity int) *Reader {
	if client == nil {
		client = httpx.NewClient(httpx.Config{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
		logger:    logger,
		verbosity: verbosity,
	}
}

// Records returns a lazy sequence over all solutions.
// Each range over the sequence starts again at offset 0. The sequence stops
// after the first empty page, or yields a single error and stops.
func (r *Reader) Records(ctx context.Context) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		p := r.Pager()
		for {
			page, err := p.Next(ctx)
			if err != nil {
				yield(Record{}, err)
				return
			}
			if p.Done() {
				return
			}
			for _, rec := range page {
				if !yield(rec, nil) {
					return
				}
			}
		}
	}
}

// Pager returns a fresh offset cursor positioned at the first page.
func (r *Reader) Pager() *Pager {
	return &Pager{reader: r}
}

// Pager walks the export with an offset cursor.
// The next offset is the previous one plus the size of the page just read.
type Pager struct {
	reader *Reader
	offset int
	done   bool
}

// Offset returns the offset the next page will be requested with.
func (p *Pager) Offset() int {
	return p.offset
}

// Done reports whether an empty page has been received.
func (p *Pager) Done() bool {
	return p.done
}

// Next fetches the page at the current offset and advances the cursor.
// Once Done, Next returns no records and issues no request.
func (p *Pager) Next(ctx context.Context) ([]Record, error) {
	if p.done {
		return nil, nil
	}
	page, err := p.reader.fetchPage(ctx, p.offset)
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		p.done = true
		return nil, nil
	}
	p.offset += len(page)
	return page, nil
}

func (r *Reader) pageURL(offset int) string {
	q := url.Values{}
	q.Set("_format", "json")
	q.Set("type", "solution")
	q.Set("may_reproduce", "1")
	q.Set("offset", strconv.Itoa(offset))
	return r.baseURL + exportPath + "?" + q.Encode()
}

func (r *Reader) fetchPage(ctx context.Context, offset int) ([]Record, error) {
	fullURL := r.pageURL(offset)
	r.logger.Debug("PoS: GET", zap.String("url", fullURL))

	req, err := httpx.NewJSONRequest(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}

	resp, body, err := httpx.Do(r.client, req)
	if err != nil {
		return nil, fmt.Errorf("get PoS data: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apierr.NewResponseError(apierr.ErrTransport, "get PoS data", resp, body)
	}
	if r.verbosity > 2 {
		r.logger.Debug("PoS: page", zap.Int("offset", offset), zap.ByteString("body", body))
	}

	var page []Record
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode PoS page at offset %d: %w", offset, err)
	}
	for i := range page {
		// Titles arrive HTML encoded, e.g. "AIR&#039;s Life and Health Models".
		page[i].Title = html.UnescapeString(page[i].Title)
	}
	return page, nil
}
