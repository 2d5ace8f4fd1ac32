package cmine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"pos2cmine/core/apierr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok-123"

// fakeCMINE is an in-memory stand-in for the CMINE admin API.
type fakeCMINE struct {
	t   *testing.T
	srv *httptest.Server

	mu         sync.Mutex
	pages      [][]Venture
	users      []User
	attributes []CustomizableAttribute
	deleted    []int64
	writes     []recordedWrite

	tokenStatus  int
	writeStatus  int
	deleteStatus int
}

type recordedWrite struct {
	Method string
	Path   string
	Body   map[string]map[string]any
}

func newFakeCMINE(t *testing.T) *fakeCMINE {
	t.Helper()
	f := &fakeCMINE{
		t:            t,
		tokenStatus:  http.StatusOK,
		writeStatus:  http.StatusCreated,
		deleteStatus: http.StatusNoContent,
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeCMINE) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == tokenPath {
		var req tokenRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(f.t, "password", req.GrantType)
		assert.Equal(f.t, "admin", req.Scope)
		if f.tokenStatus != http.StatusOK {
			w.Header().Set("X-Reason", "bad-credentials")
			w.WriteHeader(f.tokenStatus)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
			return
		}
		fmt.Fprintf(w, `{"access_token":%q}`, testToken)
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+testToken {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == mePath:
		fmt.Fprint(w, `{"admin":{"id":42}}`)
	case r.Method == http.MethodGet && r.URL.Path == usersPath:
		_ = json.NewEncoder(w).Encode(usersResponse{Users: f.users})
	case r.Method == http.MethodGet && r.URL.Path == attributesPath:
		_ = json.NewEncoder(w).Encode(attributesResponse{CustomizableAttributes: f.attributes})
	case r.Method == http.MethodGet && r.URL.Path == venturesPath:
		page := 0
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		if page+1 < len(f.pages) {
			w.Header().Add("Link", fmt.Sprintf(`<%s%s?page=%d>; rel="next", <%s%s?page=%d>; rel="last"`,
				f.srv.URL, venturesPath, page+1, f.srv.URL, venturesPath, len(f.pages)-1))
		}
		var ventures []Venture
		if page < len(f.pages) {
			ventures = f.pages[page]
		}
		_ = json.NewEncoder(w).Encode(venturesResponse{Ventures: ventures})
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, venturesPath+"/"):
		var id int64
		fmt.Sscanf(strings.TrimPrefix(r.URL.Path, venturesPath+"/"), "%d", &id)
		f.deleted = append(f.deleted, id)
		w.WriteHeader(f.deleteStatus)
	case r.Method == http.MethodPost || r.Method == http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		var body map[string]map[string]any
		require.NoError(f.t, json.Unmarshal(data, &body))
		f.writes = append(f.writes, recordedWrite{Method: r.Method, Path: r.URL.Path, Body: body})
		w.WriteHeader(f.writeStatus)
		fmt.Fprint(w, `{"venture":{"id":1}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeCMINE) session(t *testing.T) *Session {
	t.Helper()
	client := NewClient(Config{URL: f.srv.URL, Email: "admin@example.org", Password: "pw", ClientID: "id", ClientSecret: "secret"}, f.srv.Client(), nil, 0)
	s, err := client.Authenticate(context.Background())
	require.NoError(t, err)
	return s
}

func TestAuthenticate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFakeCMINE(t)
		s := f.session(t)
		assert.Equal(t, testToken, s.Token())
	})

	t.Run("Rejected", func(t *testing.T) {
		f := newFakeCMINE(t)
		f.tokenStatus = http.StatusUnauthorized

		client := NewClient(Config{URL: f.srv.URL}, f.srv.Client(), nil, 0)
		_, err := client.Authenticate(context.Background())

		require.Error(t, err)
		assert.True(t, errors.Is(err, apierr.ErrAuth))
		var re *apierr.ResponseError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, "bad-credentials", re.Header.Get("X-Reason"))
		assert.Contains(t, re.Body, "invalid_grant")
	})
}

func TestSession_Users(t *testing.T) {
	f := newFakeCMINE(t)
	f.users = []User{
		{ID: 1, Email: "someone@example.org"},
		{ID: 7, Email: "owner@example.org"},
		{ID: 8, Email: "owner@example.org"},
	}
	s := f.session(t)
	ctx := context.Background()

	me, err := s.CurrentUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), me)

	id, err := s.UserIDByEmail(ctx, "owner@example.org")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = s.UserIDByEmail(ctx, "OWNER@example.org")
	assert.True(t, errors.Is(err, apierr.ErrNotFound))
}

func TestSession_CustomAttributeNames(t *testing.T) {
	tests := []struct {
		name    string
		attrs   []CustomizableAttribute
		pattern string
		want    []string
	}{
		{
			name:    "single match is case insensitive",
			attrs:   []CustomizableAttribute{{Name: "attr_1", DisplayName: "TRL level"}, {Name: "attr_2", DisplayName: "Sector"}},
			pattern: "(Trl)",
			want:    []string{"attr_1"},
		},
		{
			name:    "no match",
			attrs:   []CustomizableAttribute{{Name: "attr_2", DisplayName: "Sector"}},
			pattern: "(Trl)",
			want:    []string{},
		},
		{
			name:    "several matches",
			attrs:   []CustomizableAttribute{{Name: "a", DisplayName: "trl"}, {Name: "b", DisplayName: "Target TRL"}},
			pattern: "(Trl)",
			want:    []string{"a", "b"},
		},
		{
			name:    "empty pattern returns all",
			attrs:   []CustomizableAttribute{{Name: "a", DisplayName: "x"}, {Name: "b", DisplayName: "y"}},
			pattern: "",
			want:    []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeCMINE(t)
			f.attributes = tt.attrs
			names, err := f.session(t).CustomAttributeNames(context.Background(), tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names)
		})
	}

	t.Run("invalid pattern", func(t *testing.T) {
		f := newFakeCMINE(t)
		_, err := f.session(t).CustomAttributeNames(context.Background(), "(")
		assert.Error(t, err)
	})
}

func TestSession_VentureIndex_FollowsLinks(t *testing.T) {
	f := newFakeCMINE(t)
	f.pages = [][]Venture{
		{{ID: 1, UserID: 7, HighLevelPitch: "A", UpdatedAt: "2019-09-04T12:08:09Z"}, {ID: 2, UserID: 9, HighLevelPitch: "B"}},
		{{ID: 3, UserID: 7, HighLevelPitch: "C"}},
		{{ID: 4, UserID: 7, HighLevelPitch: "D"}},
	}
	s := f.session(t)
	owner := int64(7)

	index, err := s.VentureIndex(context.Background(), &owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, index.Titles())

	e, ok := index.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, int64(1), e.ID)
	assert.Equal(t, "2019-09-04T12:08:09Z", e.UpdatedAt)

	all, err := s.Ventures(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)

	unscoped, err := s.VentureIndex(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, unscoped.Len())
}

func TestSession_VentureIndex_DeletesDuplicates(t *testing.T) {
	f := newFakeCMINE(t)
	f.pages = [][]Venture{
		{{ID: 10, UserID: 7, HighLevelPitch: "Foo"}},
		{{ID: 11, UserID: 7, HighLevelPitch: "Foo"}, {ID: 12, UserID: 8, HighLevelPitch: "Foo"}},
	}
	owner := int64(7)

	index, err := f.session(t).VentureIndex(context.Background(), &owner)
	require.NoError(t, err)

	assert.Equal(t, 1, index.Len())
	e, _ := index.Lookup("Foo")
	assert.Equal(t, int64(10), e.ID)
	assert.Equal(t, 1, index.Duplicates)
	assert.Equal(t, []int64{11}, f.deleted)
}

func TestSession_VentureIndex_DryRunKeepsDuplicates(t *testing.T) {
	f := newFakeCMINE(t)
	f.pages = [][]Venture{{{ID: 10, HighLevelPitch: "Foo"}, {ID: 11, HighLevelPitch: "Foo"}}}

	client := NewClient(Config{URL: f.srv.URL}, f.srv.Client(), nil, 0)
	client.SetDryRun(true)
	s, err := client.Authenticate(context.Background())
	require.NoError(t, err)

	index, err := s.VentureIndex(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, index.Duplicates)
	assert.Empty(t, f.deleted)
}

func TestSession_VentureIndex_DuplicateDeleteFails(t *testing.T) {
	f := newFakeCMINE(t)
	f.pages = [][]Venture{{{ID: 10, HighLevelPitch: "Foo"}, {ID: 11, HighLevelPitch: "Foo"}}}
	f.deleteStatus = http.StatusForbidden

	_, err := f.session(t).VentureIndex(context.Background(), nil)
	assert.True(t, errors.Is(err, apierr.ErrDelete))
}

func TestSession_WriteVenture(t *testing.T) {
	payload := VenturePayload{Venture: VentureFields{
		HighLevelPitch: "Foo",
		UserID:         7,
		Locations:      []Location{{Address: "Giefinggasse 4", City: "Vienna", CountryCode: "AT"}},
	}}

	t.Run("CreateKeepsLocations", func(t *testing.T) {
		f := newFakeCMINE(t)
		_, err := f.session(t).CreateVenture(context.Background(), payload)
		require.NoError(t, err)

		require.Len(t, f.writes, 1)
		assert.Equal(t, http.MethodPost, f.writes[0].Method)
		assert.Equal(t, venturesPath, f.writes[0].Path)
		assert.Contains(t, f.writes[0].Body["venture"], "locations")
	})

	t.Run("UpdateStripsLocations", func(t *testing.T) {
		f := newFakeCMINE(t)
		f.writeStatus = http.StatusOK
		_, err := f.session(t).UpdateVenture(context.Background(), 99, payload)
		require.NoError(t, err)

		require.Len(t, f.writes, 1)
		assert.Equal(t, http.MethodPut, f.writes[0].Method)
		assert.Equal(t, venturesPath+"/99", f.writes[0].Path)
		assert.NotContains(t, f.writes[0].Body["venture"], "locations")
		// The caller's payload is left untouched.
		assert.Len(t, payload.Venture.Locations, 1)
	})

	t.Run("Rejected", func(t *testing.T) {
		f := newFakeCMINE(t)
		f.writeStatus = http.StatusBadRequest
		_, err := f.session(t).CreateVenture(context.Background(), payload)
		assert.True(t, errors.Is(err, apierr.ErrWrite))
		assert.Contains(t, err.Error(), "Foo")
	})
}

func TestSession_DeleteVenture(t *testing.T) {
	f := newFakeCMINE(t)
	s := f.session(t)

	require.NoError(t, s.DeleteVenture(context.Background(), 5))
	assert.Equal(t, []int64{5}, f.deleted)

	f.deleteStatus = http.StatusOK
	err := s.DeleteVenture(context.Background(), 6)
	assert.True(t, errors.Is(err, apierr.ErrDelete))
}

func TestSession_ReadFailure(t *testing.T) {
	f := newFakeCMINE(t)
	s := f.session(t)
	s.token = "expired"

	_, err := s.CurrentUserID(context.Background())
	var re *apierr.ResponseError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusUnauthorized, re.StatusCode)
}

func TestNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		want   string
	}{
		{"none", http.Header{}, ""},
		{"next and last", http.Header{"Link": {`<https://x/v?page=2>; rel="next", <https://x/v?page=9>; rel="last"`}}, "https://x/v?page=2"},
		{"only prev", http.Header{"Link": {`<https://x/v?page=1>; rel="prev"`}}, ""},
		{"multiple headers", http.Header{"Link": {`<https://x/v?page=1>; rel="prev"`, `<https://x/v?page=3>; rel="next"`}}, "https://x/v?page=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextLink(tt.header))
		})
	}
}
