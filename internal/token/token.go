// Package token resolves and persists an application's edit token. The token
// is a bearer-equivalent secret: whoever holds it can view and modify the
// application it was issued for. It lives in at most three places on the
// client side — the URL query string, a per-job cookie, or nowhere.
package token

import (
	"net/http"
	"net/url"
)

// Source tags where a resolved token came from.
type Source int

const (
	SourceNone Source = iota
	SourceQuery
	SourceCookie
)

func (s Source) String() string {
	switch s {
	case SourceQuery:
		return "query"
	case SourceCookie:
		return "cookie"
	default:
		return "none"
	}
}

// Resolution is the outcome of the precedence chain. Token is empty exactly
// when Source is SourceNone.
type Resolution struct {
	Token  string
	Source Source
}

// Found reports whether a token was resolved from any source.
func (r Resolution) Found() bool {
	return r.Source != SourceNone
}

// Resolve applies the precedence chain once per request: a token in the query
// string wins over a cookie, and an absent token means new-application mode.
// cookieLookup is called only when the query is empty.
func Resolve(queryToken string, cookieLookup func() (string, bool)) Resolution {
	if queryToken != "" {
		return Resolution{Token: queryToken, Source: SourceQuery}
	}
	if cookieLookup != nil {
		if tok, ok := cookieLookup(); ok && tok != "" {
			return Resolution{Token: tok, Source: SourceCookie}
		}
	}
	return Resolution{}
}

// Store writes and reads the per-job edit token cookie. One live token per
// job per client: a new write overwrites any prior token for that job.
type Store struct {
	prefix string
	maxAge int
	secure bool
}

// NewStore creates a cookie store. maxAge is in seconds. secure marks the
// cookie Secure for HTTPS deployments.
func NewStore(prefix string, maxAge int, secure bool) *Store {
	return &Store{prefix: prefix, maxAge: maxAge, secure: secure}
}

// CookieName is the deterministic cookie key for a job's edit token.
func (s *Store) CookieName(jobID string) string {
	return s.prefix + jobID
}

// Read returns the token stored for a job, if any. Values are URL-decoded.
func (s *Store) Read(r *http.Request, jobID string) (string, bool) {
	c, err := r.Cookie(s.CookieName(jobID))
	if err != nil || c.Value == "" {
		return "", false
	}
	decoded, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", false
	}
	return decoded, true
}

// Persist writes the token cookie for a job. Called only after a successful
// create; edits reuse the token the caller already holds.
func (s *Store) Persist(w http.ResponseWriter, jobID, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName(jobID),
		Value:    url.QueryEscape(token),
		Path:     "/",
		MaxAge:   s.maxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})
}
