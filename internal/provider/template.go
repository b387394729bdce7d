package provider

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// varPattern matches ${var} placeholders in URL templates.
var varPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ExpandURL replaces ${zone} in a URL template with the URL-encoded IANA
// time-zone identifier. Unknown placeholders are an error so that a
// misconfigured template fails loudly instead of hitting a bogus endpoint.
// A template without placeholders is returned unchanged.
func ExpandURL(template, zone string) (string, error) {
	if !strings.Contains(template, "${") {
		return template, nil
	}

	var unknown []string
	result := varPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[2 : len(match)-1]
		if name == "zone" {
			return url.QueryEscape(zone)
		}
		unknown = append(unknown, name)
		return match
	})

	if len(unknown) > 0 {
		return "", fmt.Errorf("unknown placeholder %q in provider URL", unknown[0])
	}
	return result, nil
}
