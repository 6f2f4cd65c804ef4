package util

import "strings"

// slugFallback is used when a topic contains no usable characters at all.
const slugFallback = "post"

// Slugify lowercases s and collapses every run of characters outside
// [a-z0-9] into a single hyphen, with no leading or trailing hyphen.
// The result is safe for use in object store keys and URLs.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return slugFallback
	}
	return b.String()
}
