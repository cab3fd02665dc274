// Package browser follows a live GeoGuessr tab through a Chrome instance
// driven by rod. It plays the part a content script would: it notices when
// the page rewrites its embedded state and hands the rendered HTML on.
package browser

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/geoboard/leaderboard/internal/geoguessr"
)

type Config struct {
	// ControlURL attaches to an already running browser (so the user's
	// GeoGuessr login is reused). Empty launches a new one.
	ControlURL   string
	Headless     bool
	PollInterval time.Duration
}

// PageSource implements watch.Source for one browser tab.
type PageSource struct {
	url    string
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	page     *rod.Page
	html     []byte
	stateSum [sha256.Size]byte
}

func NewPageSource(url string, cfg Config, logger *slog.Logger) *PageSource {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &PageSource{url: url, cfg: cfg, logger: logger}
}

func (p *PageSource) Name() string { return p.url }

// Open connects to the browser and navigates to the page.
func (p *PageSource) Open(ctx context.Context) error {
	controlURL := p.cfg.ControlURL
	if controlURL == "" {
		u, err := launcher.New().Headless(p.cfg.Headless).Launch()
		if err != nil {
			return fmt.Errorf("launching browser: %w", err)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: p.url})
	if err != nil {
		b.Close()
		return fmt.Errorf("opening %s: %w", p.url, err)
	}
	if err := page.WaitLoad(); err != nil {
		b.Close()
		return fmt.Errorf("loading %s: %w", p.url, err)
	}

	p.mu.Lock()
	p.browser = b
	p.page = page
	p.mu.Unlock()

	_, err = p.snapshot()
	return err
}

// Close detaches from the browser. A launched browser is shut down.
func (p *PageSource) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.browser == nil {
		return nil
	}
	err := p.browser.Close()
	p.browser = nil
	p.page = nil
	return err
}

// Run polls the state element and notifies when its text changes.
func (p *PageSource) Run(ctx context.Context, notify func()) error {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			changed, err := p.snapshot()
			if err != nil {
				p.logger.Warn("polling page", "url", p.url, "error", err)
				continue
			}
			if changed {
				notify()
			}
		}
	}
}

func (p *PageSource) Read(_ context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.html == nil {
		return nil, fmt.Errorf("page %s not open", p.url)
	}
	return p.html, nil
}

// snapshot refreshes the cached HTML and reports whether the state element
// text differs from the previous snapshot.
func (p *PageSource) snapshot() (bool, error) {
	p.mu.Lock()
	page := p.page
	p.mu.Unlock()
	if page == nil {
		return false, fmt.Errorf("page %s not open", p.url)
	}

	html, err := page.HTML()
	if err != nil {
		return false, fmt.Errorf("reading page html: %w", err)
	}

	var state string
	if has, el, err := page.Has("#" + geoguessr.StateElementID); err == nil && has {
		state, _ = el.Text()
	}

	sum := sha256.Sum256([]byte(state))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.html = []byte(html)
	if sum == p.stateSum {
		return false, nil
	}
	p.stateSum = sum
	p.logger.Debug("page state rewritten", "url", p.url, "state_bytes", len(state))
	return true, nil
}
