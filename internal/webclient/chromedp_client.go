package webclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/smoke/internal/logging"
)

// ChromedpClient drives a headless Chrome. Each request opens a fresh tab,
// navigates to the URL and reports the main document's status and headers
// together with the rendered HTML.
type ChromedpClient struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	timeout       time.Duration
	logger        logging.Logger
	closeOnce     sync.Once
}

// NewChromedpClient launches the browser. It fails when no Chrome binary can
// be started.
func NewChromedpClient(cfg Config, logger logging.Logger) (*ChromedpClient, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientChromedp)})

	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	if cfg.Headful {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	componentLogger.Debug("created chromedp webclient",
		logging.Field{Key: "timeout", Value: cfg.timeout().String()},
		logging.Field{Key: "headful", Value: cfg.Headful})

	return &ChromedpClient{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		timeout:       cfg.timeout(),
		logger:        componentLogger,
	}, nil
}

func (cdc *ChromedpClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	method := strings.ToUpper(req.Method)
	if method != "" && method != http.MethodGet {
		return nil, fmt.Errorf("chromedp backend: %s %w", method, ErrMethodNotSupported)
	}

	tabCtx, cancelTab := chromedp.NewContext(cdc.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, cdc.timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var (
		docMu sync.Mutex
		doc   *network.Response
	)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		e, ok := ev.(*network.EventResponseReceived)
		if !ok || e.Type != network.ResourceTypeDocument {
			return
		}
		docMu.Lock()
		if doc == nil {
			doc = e.Response
		}
		docMu.Unlock()
	})

	cdc.logger.Debug("navigating", logging.Field{Key: "url", Value: req.URL})

	var html string
	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(req.URL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		cdc.logger.Warn("navigation failed",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("navigate: %w", err)
	}

	docMu.Lock()
	defer docMu.Unlock()

	resp := &Response{
		Request:   req,
		Headers:   http.Header{},
		Body:      []byte(html),
		FetchedAt: time.Now(),
	}
	if doc != nil {
		resp.StatusCode = int(doc.Status)
		resp.Headers = headersFromCDP(doc.Headers)
	}
	return resp, nil
}

// headersFromCDP converts DevTools headers. Chrome joins repeated headers
// with newlines.
func headersFromCDP(in network.Headers) http.Header {
	out := make(http.Header, len(in))
	for k, v := range in {
		for _, line := range strings.Split(fmt.Sprint(v), "\n") {
			out.Add(k, line)
		}
	}
	return out
}

func (cdc *ChromedpClient) Get(ctx context.Context, url string) (*Response, error) {
	return cdc.Do(ctx, &Request{Method: http.MethodGet, URL: url})
}

func (cdc *ChromedpClient) Close() error {
	cdc.closeOnce.Do(func() {
		cdc.browserCancel()
		cdc.allocCancel()
		cdc.logger.Debug("closed chromedp webclient")
	})
	return nil
}
