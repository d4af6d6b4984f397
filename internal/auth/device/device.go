// Package device turns a User-Agent header into a short label shown next to sessions.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknown = "Unknown Device"

// Label returns "Browser on OS", e.g. "Chrome on Linux" or "Safari on iPhone".
func Label(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return unknown
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			os = platform
		}
	}
	if ua.Bot() {
		return "Bot"
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
