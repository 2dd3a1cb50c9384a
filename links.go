package portal

import (
	"net/url"
	"strings"
)

// AppConf describes one sub-application card shown on the portal page.
type AppConf struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	URL         string `yaml:"url"`
}

// LaunchURL appends the session identity to an application base URL. The
// base URL may already carry query parameters; the identity parameters are
// appended with the matching separator and always in the order user, token,
// ts, which is what the receiving applications parse.
func LaunchURL(base string, s Session) string {
	if !s.LoggedIn() {
		return base
	}
	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteString(separator)
	b.WriteString("user=")
	b.WriteString(url.QueryEscape(s.User))
	b.WriteString("&token=")
	b.WriteString(url.QueryEscape(s.Token))
	b.WriteString("&ts=")
	b.WriteString(url.QueryEscape(s.TS))
	return b.String()
}
