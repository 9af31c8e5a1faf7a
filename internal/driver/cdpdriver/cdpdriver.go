// Package cdpdriver implements the automation driver over the Chrome DevTools Protocol.
package cdpdriver

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/themizzi/shopcheck/internal/driver"
	"github.com/themizzi/shopcheck/internal/locator"
)

// BrowserName is the --browser value that selects this engine
const BrowserName = "chrome-cdp"

const loadTimeout = 30 * time.Second

// Options configures the Chrome process
type Options struct {
	Headless bool
	// Profile is a Chrome user data directory
	Profile string
	Width   int
	Height  int
	// ExecPath overrides Chrome discovery
	ExecPath string
}

// Driver drives one Chrome tab
type Driver struct {
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

// Launch starts Chrome and opens a tab
func Launch(ctx context.Context, opts Options) (*Driver, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocatorOptions(opts)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	startCtx, cancelStart := context.WithTimeout(tabCtx, loadTimeout)
	defer cancelStart()
	if err := chromedp.Run(startCtx, chromedp.Navigate("about:blank")); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("browser failed to start or respond: %w", err)
	}

	return &Driver{allocCancel: allocCancel, tabCtx: tabCtx, tabCancel: tabCancel}, nil
}

func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	width, height := opts.Width, opts.Height
	if width == 0 || height == 0 {
		width, height = 1920, 1080
	}

	var out []chromedp.ExecAllocatorOption
	for _, opt := range chromedp.DefaultExecAllocatorOptions {
		out = append(out, opt)
	}
	out = append(out,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", opts.Headless),
		chromedp.WindowSize(width, height),
	)
	if opts.Profile != "" {
		out = append(out, chromedp.UserDataDir(opts.Profile))
	}
	if opts.ExecPath != "" {
		out = append(out, chromedp.ExecPath(opts.ExecPath))
	}
	if runtime.GOOS == "linux" {
		out = append(out,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}
	return out
}

// run executes actions on the tab, aborting when ctx is done
func (d *Driver) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(d.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Navigate implements driver.Driver
func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := d.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// WaitForLoad implements driver.Driver
func (d *Driver) WaitForLoad(ctx context.Context) error {
	_, err := driver.PollUntil(ctx, loadTimeout, 100*time.Millisecond, func(ctx context.Context) (string, bool, error) {
		var state string
		if err := d.run(ctx, chromedp.Evaluate(`document.readyState`, &state)); err != nil {
			return "", false, err
		}
		return state, state == "complete", nil
	})
	if err != nil {
		return fmt.Errorf("page did not finish loading: %w", err)
	}
	return nil
}

// query maps a selector onto a chromedp query and its options
func query(sel locator.Selector) (string, []chromedp.QueryOption) {
	switch sel.Strategy {
	case locator.StrategyXPath:
		return sel.Value, []chromedp.QueryOption{chromedp.BySearch}
	case locator.StrategyID:
		return fmt.Sprintf(`[id=%q]`, sel.Value), []chromedp.QueryOption{chromedp.ByQueryAll}
	case locator.StrategyText:
		return fmt.Sprintf(`//*[contains(text(), %s)]`, xpathLiteral(sel.Value)), []chromedp.QueryOption{chromedp.BySearch}
	default:
		return sel.Value, []chromedp.QueryOption{chromedp.ByQueryAll}
	}
}

func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}

func (d *Driver) nodes(ctx context.Context, sel locator.Selector) ([]*cdp.Node, error) {
	q, opts := query(sel)
	var nodes []*cdp.Node
	opts = append(opts, chromedp.AtLeast(0))
	if err := d.run(ctx, chromedp.Nodes(q, &nodes, opts...)); err != nil {
		return nil, err
	}
	return nodes, nil
}

// FindElement implements driver.Driver
func (d *Driver) FindElement(ctx context.Context, sel locator.Selector) (driver.Element, error) {
	nodes, err := d.nodes(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, driver.NotFound(sel)
	}
	return &element{d: d, node: nodes[0]}, nil
}

// FindElements implements driver.Driver
func (d *Driver) FindElements(ctx context.Context, sel locator.Selector) ([]driver.Element, error) {
	nodes, err := d.nodes(ctx, sel)
	if err != nil {
		return nil, err
	}
	elements := make([]driver.Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &element{d: d, node: n})
	}
	return elements, nil
}

// CurrentURL implements driver.Driver
func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := d.run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// CaptureScreenshot implements driver.Driver
func (d *Driver) CaptureScreenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := d.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// Close shuts the tab and the browser process
func (d *Driver) Close() error {
	if d.tabCancel != nil {
		d.tabCancel()
		d.tabCancel = nil
	}
	if d.allocCancel != nil {
		d.allocCancel()
		d.allocCancel = nil
	}
	return nil
}

type element struct {
	d    *Driver
	node *cdp.Node
}

func (e *element) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *element) Click(ctx context.Context) error {
	return e.d.run(ctx, chromedp.MouseClickNode(e.node))
}

func (e *element) Type(ctx context.Context, text string) error {
	return e.d.run(ctx, chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID))
}

func (e *element) Clear(ctx context.Context) error {
	return e.d.run(ctx, chromedp.Clear(e.ids(), chromedp.ByNodeID))
}

func (e *element) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.d.run(ctx, chromedp.Text(e.ids(), &text, chromedp.ByNodeID)); err != nil {
		return "", err
	}
	return text, nil
}

func (e *element) Visible(ctx context.Context) (bool, error) {
	var width, height float64
	if err := e.d.run(ctx,
		chromedp.JavascriptAttribute(e.ids(), "offsetWidth", &width, chromedp.ByNodeID),
		chromedp.JavascriptAttribute(e.ids(), "offsetHeight", &height, chromedp.ByNodeID),
	); err != nil {
		return false, err
	}
	return width > 0 && height > 0, nil
}

func (e *element) Enabled(ctx context.Context) (bool, error) {
	var disabled bool
	if err := e.d.run(ctx, chromedp.JavascriptAttribute(e.ids(), "disabled", &disabled, chromedp.ByNodeID)); err != nil {
		return false, err
	}
	return !disabled, nil
}
