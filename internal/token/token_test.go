package token

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	cookieWith := func(tok string) func() (string, bool) {
		return func() (string, bool) { return tok, tok != "" }
	}

	t.Run("query_wins_over_cookie", func(t *testing.T) {
		res := Resolve("query-tok", cookieWith("cookie-tok"))
		assert.Equal(t, "query-tok", res.Token)
		assert.Equal(t, SourceQuery, res.Source)
		assert.True(t, res.Found())
	})

	t.Run("cookie_when_query_empty", func(t *testing.T) {
		res := Resolve("", cookieWith("cookie-tok"))
		assert.Equal(t, "cookie-tok", res.Token)
		assert.Equal(t, SourceCookie, res.Source)
	})

	t.Run("none_when_both_absent", func(t *testing.T) {
		res := Resolve("", cookieWith(""))
		assert.Empty(t, res.Token)
		assert.Equal(t, SourceNone, res.Source)
		assert.False(t, res.Found())
	})

	t.Run("nil_cookie_lookup", func(t *testing.T) {
		res := Resolve("", nil)
		assert.False(t, res.Found())
	})

	t.Run("cookie_not_consulted_when_query_present", func(t *testing.T) {
		called := false
		Resolve("query-tok", func() (string, bool) {
			called = true
			return "", false
		})
		assert.False(t, called)
	})
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "query", SourceQuery.String())
	assert.Equal(t, "cookie", SourceCookie.String())
	assert.Equal(t, "none", SourceNone.String())
}

func TestStore_PersistAndRead(t *testing.T) {
	store := NewStore("rtg_apply_", 30*24*60*60, false)

	t.Run("cookie_attributes", func(t *testing.T) {
		w := httptest.NewRecorder()
		store.Persist(w, "job-1", "tok-abc")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "rtg_apply_job-1", c.Name)
		assert.Equal(t, "tok-abc", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 30*24*60*60, c.MaxAge)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("token_value_url_encoded", func(t *testing.T) {
		w := httptest.NewRecorder()
		store.Persist(w, "job-1", "tok/with+special=chars")

		c := w.Result().Cookies()[0]
		assert.Equal(t, "tok%2Fwith%2Bspecial%3Dchars", c.Value)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		tok, ok := store.Read(r, "job-1")
		require.True(t, ok)
		assert.Equal(t, "tok/with+special=chars", tok)
	})

	t.Run("read_missing_cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, ok := store.Read(r, "job-1")
		assert.False(t, ok)
	})

	t.Run("read_scoped_per_job", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "rtg_apply_job-1", Value: "tok-abc"})

		_, ok := store.Read(r, "job-2")
		assert.False(t, ok)

		tok, ok := store.Read(r, "job-1")
		require.True(t, ok)
		assert.Equal(t, "tok-abc", tok)
	})
}
