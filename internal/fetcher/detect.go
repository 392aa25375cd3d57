package fetcher

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/IshaanNene/keyscope/internal/types"
)

// Detector examines a response to determine whether bot protection blocked
// or challenged the request. It returns the name of the mechanism on a hit.
type Detector func(resp *types.Response) (detected bool, source string)

// DefaultDetectors returns the standard list of block detectors.
func DefaultDetectors() []Detector {
	return []Detector{
		detectGoogleSorry,
		detectNaverCaptcha,
		detectCloudflare,
		detectDataDome,
		detectCAPTCHA,
	}
}

// Analyze runs the response through the detectors and reports the first hit.
func Analyze(resp *types.Response, detectors []Detector) (string, bool) {
	if resp == nil {
		return "", false
	}
	for _, d := range detectors {
		if detected, source := d(resp); detected {
			return source, true
		}
	}
	return "", false
}

// detectGoogleSorry catches Google's "unusual traffic" interstitial.
func detectGoogleSorry(resp *types.Response) (bool, string) {
	if strings.Contains(resp.FinalURL, "google.com/sorry") {
		return true, "GoogleSorry"
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden ||
		resp.StatusCode == http.StatusOK {
		if bytes.Contains(resp.Body, []byte("Our systems have detected unusual traffic")) {
			return true, "GoogleSorry"
		}
	}
	return false, ""
}

// detectNaverCaptcha catches the Naver/Daum automated-query notice.
func detectNaverCaptcha(resp *types.Response) (bool, string) {
	if bytes.Contains(resp.Body, []byte("자동입력 방지")) || bytes.Contains(resp.Body, []byte("ncaptcha")) {
		return true, "NaverCaptcha"
	}
	return false, ""
}

// detectCloudflare looks for common Cloudflare challenge/block signatures.
func detectCloudflare(resp *types.Response) (bool, string) {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusServiceUnavailable {
		return false, ""
	}
	if strings.Contains(strings.ToLower(resp.Headers.Get("Server")), "cloudflare") {
		return true, "Cloudflare"
	}
	if bytes.Contains(resp.Body, []byte("cf-browser-verification")) ||
		bytes.Contains(resp.Body, []byte("cf-turnstile")) ||
		bytes.Contains(resp.Body, []byte("Attention Required! | Cloudflare")) {
		return true, "Cloudflare"
	}
	return false, ""
}

// detectDataDome looks for DataDome challenge/block signatures.
func detectDataDome(resp *types.Response) (bool, string) {
	if resp.StatusCode != http.StatusForbidden {
		return false, ""
	}
	if resp.Headers.Get("X-DataDome") != "" || strings.Contains(strings.ToLower(resp.Headers.Get("Server")), "datadome") {
		return true, "DataDome"
	}
	if bytes.Contains(resp.Body, []byte("geo.captcha-delivery.com")) {
		return true, "DataDome"
	}
	return false, ""
}

// detectCAPTCHA checks a page for embedded reCAPTCHA / hCaptcha widgets.
func detectCAPTCHA(resp *types.Response) (bool, string) {
	if !bytes.Contains(resp.Body, []byte(`data-sitekey="`)) {
		return false, ""
	}
	lower := bytes.ToLower(resp.Body)
	switch {
	case bytes.Contains(lower, []byte("g-recaptcha")) || bytes.Contains(lower, []byte("recaptcha/api.js")):
		return true, "reCAPTCHA"
	case bytes.Contains(lower, []byte("h-captcha")) || bytes.Contains(lower, []byte("hcaptcha.com")):
		return true, "hCaptcha"
	}
	return false, ""
}
