package signer

import (
	"slices"
	"strings"
	"unicode/utf8"
)

const upperHex = "0123456789ABCDEF"

// ignoredHeaders never take part in the signature.
var ignoredHeaders = map[string]struct{}{
	"authorization":     {},
	"content-length":    {},
	"user-agent":        {},
	"presigned-expires": {},
	"expect":            {},
}

// alwaysSigned headers are kept even when an allow-list omits them.
var alwaysSigned = []string{"x-date", "host"}

func unreserved(c byte) bool {
	return 'A' <= c && c <= 'Z' ||
		'a' <= c && c <= 'z' ||
		'0' <= c && c <= '9' ||
		c == '_' || c == '.' || c == '~' || c == '-'
}

// URIEscape percent-encodes every UTF-8 byte outside [A-Za-z0-9_.~-] with upper-case hex.
// '*' is escaped as well. Invalid UTF-8 yields the empty string.
func URIEscape(s string) string {
	if !utf8.ValidString(s) {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

// CanonicalQuery renders query parameters sorted by raw key bytes.
// Multi-valued keys are repeated once per escaped value, values sorted after escaping.
// A nil value renders as "key=". Keys that escape to the empty string are omitted.
func CanonicalQuery(query map[string][]string) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		ek := URIEscape(k)
		if ek == "" {
			continue
		}
		values := query[k]
		if len(values) == 0 {
			pairs = append(pairs, ek+"=")
			continue
		}
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = URIEscape(v)
		}
		slices.Sort(escaped)
		for _, v := range escaped {
			pairs = append(pairs, ek+"="+v)
		}
	}
	return strings.Join(pairs, "&")
}

// CanonicalHeaders returns the signed-header list and the canonical header block.
// allow restricts the signed headers when non-nil; x-date and host are always allowed.
func CanonicalHeaders(headers map[string]string, allow []string) (signedHeaders, canonical string) {
	var allowed map[string]struct{}
	if allow != nil {
		allowed = make(map[string]struct{}, len(allow)+len(alwaysSigned))
		for _, k := range allow {
			allowed[strings.ToLower(k)] = struct{}{}
		}
		for _, k := range alwaysSigned {
			allowed[k] = struct{}{}
		}
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		lk := strings.ToLower(k)
		if allowed != nil {
			if _, ok := allowed[lk]; !ok {
				continue
			}
		}
		if _, ignored := ignoredHeaders[lk]; ignored {
			continue
		}
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	names := make([]string, len(keys))
	lines := make([]string, len(keys))
	for i, k := range keys {
		lk := strings.ToLower(k)
		names[i] = lk
		lines[i] = lk + ":" + normalizeHeaderValue(headers[k])
	}
	return strings.Join(names, ";"), strings.Join(lines, "\n")
}

// normalizeHeaderValue trims the value and collapses internal whitespace runs to one space.
func normalizeHeaderValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// CanonicalRequest joins the request parts hashed by the signature.
func CanonicalRequest(method, path, query, canonicalHeaders, signedHeaders, bodyHash string) string {
	if path == "" {
		path = "/"
	}
	return strings.Join([]string{
		strings.ToUpper(method),
		path,
		query,
		canonicalHeaders + "\n",
		signedHeaders,
		bodyHash,
	}, "\n")
}

// CredentialScope binds a signature to a date, region and service.
func CredentialScope(date, region, service string) string {
	return strings.Join([]string{date, region, service, terminator}, "/")
}

// StringToSign is the value signed with the derived key.
func StringToSign(timestamp, scope, canonicalRequestHash string) string {
	return strings.Join([]string{Algorithm, timestamp, scope, canonicalRequestHash}, "\n")
}
