package security

import (
	"net/url"
	"strings"
)

var suspiciousPatterns = []string{
	"../", "..\\", ".env", "/etc/", "/proc/", "/sys/",
	"<script", "javascript:", "vbscript:", "data:",
	"union select", "drop table", "truncate", "delete from",
}

// Suspicious returns the first attack pattern found in the request path or
// raw query, or "" when none matches. Percent-encoding is undone once before
// matching.
func Suspicious(path, rawQuery string) string {
	target := path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	if decoded, err := url.QueryUnescape(target); err == nil {
		target = decoded
	}
	lower := strings.ToLower(target)
	for _, pattern := range suspiciousPatterns {
		if strings.Contains(lower, pattern) {
			return pattern
		}
	}
	return ""
}
