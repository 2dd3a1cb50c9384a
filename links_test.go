package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gyaan-apps/portal/sso"
)

func TestLaunchURL(t *testing.T) {
	s := Session{User: "Alice", Token: "abc123", TS: sso.TimestampStatic, View: ViewAuthenticated}

	t.Run(
		"plain base url", func(t *testing.T) {
			url := LaunchURL("https://apps.example.com/chat", s)
			assert.Equal(t, "https://apps.example.com/chat?user=Alice&token=abc123&ts=STATIC", url)
		},
	)
	t.Run(
		"base url with existing query", func(t *testing.T) {
			url := LaunchURL("https://apps.example.com/chat?theme=dark", s)
			assert.Equal(t, "https://apps.example.com/chat?theme=dark&user=Alice&token=abc123&ts=STATIC", url)
		},
	)
	t.Run(
		"values are escaped", func(t *testing.T) {
			escaped := Session{User: "a b", Token: "t&k", TS: "STATIC", View: ViewAuthenticated}
			url := LaunchURL("https://apps.example.com/chat", escaped)
			assert.Equal(t, "https://apps.example.com/chat?user=a+b&token=t%26k&ts=STATIC", url)
		},
	)
	t.Run(
		"anonymous session leaves url untouched", func(t *testing.T) {
			url := LaunchURL("https://apps.example.com/chat", Session{View: ViewAnonymous})
			assert.Equal(t, "https://apps.example.com/chat", url)
		},
	)
}
