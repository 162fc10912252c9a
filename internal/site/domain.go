// Package site holds URL and domain helpers shared by the crawler, the
// signal extractor and the citation evaluator.
package site

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Host returns the lowercased host of rawURL without port or a leading "www.".
// A bare host ("example.com") is accepted.
func Host(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") && !strings.HasPrefix(raw, "//") {
		raw = "//" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	h := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	return strings.TrimPrefix(h, "www.")
}

// RegistrableDomain returns the eTLD+1 of rawURL ("blog.example.co.uk" ->
// "example.co.uk"). IP addresses, single-label hosts and hosts that are
// themselves public suffixes are returned unchanged.
func RegistrableDomain(rawURL string) string {
	h := Host(rawURL)
	if h == "" || net.ParseIP(h) != nil || !strings.Contains(h, ".") {
		return h
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(h)
	if err != nil {
		return h
	}
	return d
}

// SameSite reports whether a and b share a registrable domain.
func SameSite(a, b string) bool {
	da, db := RegistrableDomain(a), RegistrableDomain(b)
	return da != "" && da == db
}

// IsHTTPS reports whether rawURL uses the https scheme.
func IsHTTPS(rawURL string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(rawURL)), "https://")
}

// IsFile reports whether rawURL is a file:// source.
func IsFile(rawURL string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(rawURL)), "file://")
}

// Normalize trims whitespace and a trailing slash and adds https:// when the
// scheme is missing.
func Normalize(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return ""
	}
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	return strings.TrimRight(u, "/")
}
