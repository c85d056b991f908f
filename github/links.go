package github

import "strings"

// ParseLinkHeader extracts pagination relations from a web-linking header
// value, e.g.
//
//	<https://api.github.com/repos/o/r/commits?page=2>; rel="next",
//	<https://api.github.com/repos/o/r/commits?page=9>; rel="last"
//
// The result maps relation name to URL. Malformed segments are skipped;
// an empty header yields an empty map.
func ParseLinkHeader(value string) map[string]string {
	links := make(map[string]string)

	for _, segment := range strings.Split(value, ",") {
		parts := strings.Split(segment, ";")
		if len(parts) < 2 {
			continue
		}

		target := strings.TrimSpace(parts[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		target = strings.Trim(target, "<>")
		if target == "" {
			continue
		}

		for _, param := range parts[1:] {
			key, val, found := strings.Cut(strings.TrimSpace(param), "=")
			if !found || !strings.EqualFold(strings.TrimSpace(key), "rel") {
				continue
			}
			rel := strings.ToLower(strings.Trim(strings.TrimSpace(val), `"`))
			if rel != "" {
				links[rel] = target
			}
		}
	}

	return links
}
