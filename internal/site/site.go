// Package site maps an inbound request's host name to a tenant configuration.
// Each deployment of the careers portal serves several brands from one binary;
// the host header decides which branding and company filter a request sees.
package site

import (
	"net"
	"strings"
)

// Logo describes the header branding of a tenant.
type Logo struct {
	Text    string
	Subtext string
	Color   string
}

// Meta holds the page metadata rendered into <head>.
type Meta struct {
	Title       string
	Description string
}

// SiteConfig is the per-tenant configuration resolved once per request.
// An empty CompanyCode means no company filter: postings from all companies
// are shown.
type SiteConfig struct {
	CompanyCode string
	CompanyName string
	DisplayName string
	Logo        Logo
	Meta        Meta
}

// Resolver looks up tenant configuration by host name. The table is injected
// at construction so tests can run against arbitrary tenants.
type Resolver struct {
	table    map[string]SiteConfig
	fallback SiteConfig
}

// NewResolver builds a resolver over the given host table. Keys are compared
// case-insensitively. The fallback is returned for any host not in the table.
func NewResolver(table map[string]SiteConfig, fallback SiteConfig) *Resolver {
	normalized := make(map[string]SiteConfig, len(table))
	for host, cfg := range table {
		normalized[strings.ToLower(host)] = cfg
	}
	return &Resolver{table: normalized, fallback: fallback}
}

// Resolve returns the tenant configuration for a host header. It is total:
// unknown hosts resolve to the fallback entry. A port suffix and a leading
// "www." are ignored.
func (r *Resolver) Resolve(host string) SiteConfig {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	if cfg, ok := r.table[host]; ok {
		return cfg
	}

	if cleaned := strings.TrimPrefix(host, "www."); cleaned != host {
		if cfg, ok := r.table[cleaned]; ok {
			return cfg
		}
	}

	return r.fallback
}

// DefaultTable returns the compiled-in tenant table matching the production
// deployment. The caller passes it (or a replacement) into NewResolver.
func DefaultTable() map[string]SiteConfig {
	return map[string]SiteConfig{
		"jobs.reanthai.com": {
			CompanyCode: "RT",
			CompanyName: "เหรียญไทยกรุ๊ป",
			DisplayName: "ReAnThai Group",
			Logo: Logo{
				Text:    "RTG",
				Subtext: "Jobs",
				Color:   "text-blue-600",
			},
			Meta: Meta{
				Title:       "สมัครงาน เหรียญไทยกรุ๊ป",
				Description: "ร่วมเป็นส่วนหนึ่งของทีมเหรียญไทยกรุ๊ป",
			},
		},
		"jobs.hometouch.co.th": {
			CompanyCode: "HT",
			CompanyName: "โฮมทัช",
			DisplayName: "HomeTouch",
			Logo: Logo{
				Text:    "HomeTouch",
				Subtext: "Careers",
				Color:   "text-emerald-600",
			},
			Meta: Meta{
				Title:       "สมัครงาน โฮมทัช",
				Description: "ร่วมเป็นส่วนหนึ่งของทีมโฮมทัช",
			},
		},
	}
}

// DefaultFallback is the tenant served for localhost and unknown hosts.
// Its empty CompanyCode shows postings from all companies.
func DefaultFallback() SiteConfig {
	return SiteConfig{
		CompanyCode: "",
		CompanyName: "",
		DisplayName: "RTG Group",
		Logo: Logo{
			Text:    "RTG",
			Subtext: "Jobs",
			Color:   "text-blue-600",
		},
		Meta: Meta{
			Title:       "สมัครงาน RTG Group",
			Description: "ร่วมเป็นส่วนหนึ่งของทีม RTG Group",
		},
	}
}
