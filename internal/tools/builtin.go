package tools

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	log "log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbinani/screenshot"
	"github.com/pkg/browser"
)

const (
	SearchWeb      = "search_web"
	TakeScreenshot = "take_screenshot"

	searchURL      = "https://duckduckgo.com/?q="
	screenshotFile = "screenshot.png"
)

// openURL is swapped out in tests.
var openURL = browser.OpenURL

// Builtins registers search_web and take_screenshot. Screenshots are written
// into dir (the working directory when empty).
func Builtins(r *Registry, dir string) error {
	err := r.Register(Tool{
		Name:        SearchWeb,
		Description: "open a web search for a query in the browser",
		Params:      []string{"query"},
		Run:         searchWeb,
	})
	if err != nil {
		return err
	}

	return r.Register(Tool{
		Name:        TakeScreenshot,
		Description: "capture the screen and describe it",
		Run: func(ctx context.Context, _ Args) (Result, error) {
			return takeScreenshot(ctx, filepath.Join(dir, screenshotFile))
		},
	})
}

func SearchURL(query string) string {
	return searchURL + url.QueryEscape(query)
}

func searchWeb(_ context.Context, args Args) (Result, error) {
	q := strings.TrimSpace(args.String("query"))
	if q == "" {
		return Result{}, errors.New("empty search query")
	}

	u := SearchURL(q)
	log.Info("Opening browser", "url", u)

	if err := openURL(u); err != nil {
		return Result{}, fmt.Errorf("open browser: %w", err)
	}

	return Result{Text: fmt.Sprintf("Searching the web for %s.", q)}, nil
}

func takeScreenshot(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if screenshot.NumActiveDisplays() < 1 {
		return Result{}, errors.New("no active display")
	}

	img, err := screenshot.CaptureDisplay(0)
	if err != nil {
		return Result{}, fmt.Errorf("capture display: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return Result{}, fmt.Errorf("encode png: %w", err)
	}

	log.Info("Screenshot taken", "path", path)

	return Result{ImagePath: path}, nil
}
