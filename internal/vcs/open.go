package vcs

import (
	"context"
	"runtime"
)

// OpenURL opens url in the default browser.
func OpenURL(ctx context.Context, r Runner, url string) error {
	switch runtime.GOOS {
	case "darwin":
		return r.Run(ctx, "", "open", url)
	case "windows":
		return r.Run(ctx, "", "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return r.Run(ctx, "", "xdg-open", url)
	}
}
