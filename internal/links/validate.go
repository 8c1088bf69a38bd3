// internal/links/validate.go
package links

import (
	"net/url"
	"strings"
)

// Rejection reasons reported to the diagnostics sink.
const (
	ReasonNonString   = "Non-string input"
	ReasonEmptyOrNone = "Empty or None"
	ReasonFragment    = "Fragment-only link or base URL"
	ReasonBadScheme   = "Non-crawlable scheme"
	ReasonMalformed   = "Unsupported or malformed URL format"
)

// RejectionSink receives (reason, url) observations for every rejected
// link. It is a write-only diagnostics channel; the validator never reads
// it back. A nil sink disables reporting.
type RejectionSink func(reason, rawURL string)

// IsValidLink is the single shared link-validity predicate. It accepts
// absolute http/https URLs with a host and schemeless real relative paths
// (/, ./, ../); everything else is rejected with a reason. The predicate is
// the same regardless of caller.
func IsValidLink(rawURL string, sink RejectionSink) bool {
	reject := func(reason string) bool {
		if sink != nil {
			sink(reason, rawURL)
		}
		return false
	}

	trimmed := strings.TrimSpace(rawURL)
	lower := strings.ToLower(trimmed)

	parsed, parseErr := url.Parse(trimmed)

	// Obvious garbage and placeholders.
	if lower == "" || lower == "none" || lower == "void(0)" || strings.HasSuffix(lower, "/none") {
		return reject(ReasonEmptyOrNone)
	}

	// Fragment-only links and host-only URLs with no navigable path.
	if strings.HasPrefix(lower, "#") {
		return reject(ReasonFragment)
	}
	if parseErr == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != "" {
		if parsed.Path == "" || parsed.Path == "/" {
			return reject(ReasonFragment)
		}
	}

	// Known non-crawlable schemes.
	if strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") {
		return reject(ReasonBadScheme)
	}

	if parseErr != nil {
		return reject(ReasonMalformed)
	}

	// Absolute http/https with a host.
	if (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != "" {
		return true
	}

	// Schemeless relative paths that look like real paths. Protocol-relative
	// URLs ("//host/...") parse with a host and no scheme and fall through
	// to rejection.
	if parsed.Scheme == "" && parsed.Host == "" && parsed.Path != "" {
		if strings.HasPrefix(parsed.Path, "/") ||
			strings.HasPrefix(trimmed, "./") ||
			strings.HasPrefix(trimmed, "../") {
			return true
		}
	}

	return reject(ReasonMalformed)
}

// Resolve joins a possibly relative href against a base URL and strips any
// fragment. The input is trimmed first. Resolution of an already absolute
// URL is a no-op apart from defragmenting.
func Resolve(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}

	resolved := ref
	if base != nil {
		resolved = base.ResolveReference(ref)
	}
	resolved.Fragment = ""
	return resolved.String(), nil
}
