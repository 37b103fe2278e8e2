package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestResolver() *Resolver {
	return NewResolver(DefaultTable(), DefaultFallback())
}

func TestResolver_Resolve(t *testing.T) {
	r := newTestResolver()

	t.Run("exact_match", func(t *testing.T) {
		cfg := r.Resolve("jobs.hometouch.co.th")
		assert.Equal(t, "HomeTouch", cfg.DisplayName)
		assert.Equal(t, "HT", cfg.CompanyCode)
	})

	t.Run("www_prefix_stripped", func(t *testing.T) {
		cfg := r.Resolve("www.jobs.reanthai.com")
		assert.Equal(t, "ReAnThai Group", cfg.DisplayName)
		assert.Equal(t, "RT", cfg.CompanyCode)
	})

	t.Run("unknown_host_falls_back_to_default", func(t *testing.T) {
		cfg := r.Resolve("unknown.example.com")
		assert.Equal(t, "RTG Group", cfg.DisplayName)
		assert.Empty(t, cfg.CompanyCode)
	})

	t.Run("localhost_falls_back_to_default", func(t *testing.T) {
		cfg := r.Resolve("localhost")
		assert.Equal(t, "RTG Group", cfg.DisplayName)
		assert.Empty(t, cfg.CompanyCode)
	})

	t.Run("case_insensitive", func(t *testing.T) {
		cfg := r.Resolve("JOBS.HOMETOUCH.CO.TH")
		assert.Equal(t, "HomeTouch", cfg.DisplayName)
	})

	t.Run("port_ignored", func(t *testing.T) {
		cfg := r.Resolve("jobs.hometouch.co.th:8080")
		assert.Equal(t, "HomeTouch", cfg.DisplayName)
	})

	t.Run("empty_host_falls_back_to_default", func(t *testing.T) {
		cfg := r.Resolve("")
		assert.Equal(t, "RTG Group", cfg.DisplayName)
	})
}

func TestResolver_InjectedTable(t *testing.T) {
	table := map[string]SiteConfig{
		"careers.acme.test": {
			CompanyCode: "AC",
			DisplayName: "Acme",
		},
	}
	fallback := SiteConfig{DisplayName: "Default Co"}
	r := NewResolver(table, fallback)

	assert.Equal(t, "Acme", r.Resolve("careers.acme.test").DisplayName)
	assert.Equal(t, "Acme", r.Resolve("www.careers.acme.test").DisplayName)
	assert.Equal(t, "Default Co", r.Resolve("other.test").DisplayName)
}

func TestDefaultFallback_NoCompanyFilter(t *testing.T) {
	assert.Empty(t, DefaultFallback().CompanyCode)
}
