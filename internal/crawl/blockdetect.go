package crawl

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of anti-bot response detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// DetectBlock checks a response for anti-bot interstitials. resp may be nil
// for rendered pages, in which case only the body is inspected.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp != nil && (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable) {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("cf-mitigated") != "" ||
			strings.EqualFold(resp.Header.Get("server"), "cloudflare") {
			return true, BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))

	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") ||
		strings.Contains(lower, "cf-challenge") ||
		strings.Contains(lower, "just a moment...</title>") {
		return true, BlockCloudflare
	}

	if strings.Contains(lower, "g-recaptcha") ||
		strings.Contains(lower, "h-captcha") ||
		strings.Contains(lower, "complete the captcha") ||
		strings.Contains(lower, "are you a robot") {
		return true, BlockCaptcha
	}

	if len(body) < 2000 {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "enable javascript") {
			return true, BlockJSShell
		}
		if strings.Contains(lower, `http-equiv="refresh"`) {
			return true, BlockJSShell
		}
	}

	return false, BlockNone
}
