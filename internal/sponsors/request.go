package sponsors

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const contentEncoding = "gzip"

// fetch issues a GET and returns the decoded body. Any transport failure or
// non-2xx status is reported as ErrSourceUnreachable.
func (l *Loader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrSourceUnreachable, err)
	}

	req = l.setHeaders(req)

	resp, err := l.request(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrSourceUnreachable, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: get %s: bad status: %s", ErrSourceUnreachable, url, resp.Status)
	}

	if resp.Header.Get("Content-Encoding") != "gzip" {
		return resp.Body, nil
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: decode %s: %w", ErrSourceUnreachable, url, err)
	}
	return &gzipBody{Reader: gz, body: resp.Body}, nil
}

func (l *Loader) request(req *http.Request) (*http.Response, error) {
	l.logger.Debug("make request", zap.String("url", req.URL.String()))
	return l.HTTPClient.Do(req)
}

func (l *Loader) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", l.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

type gzipBody struct {
	*gzip.Reader
	body io.ReadCloser
}

func (g *gzipBody) Close() error {
	g.Reader.Close()
	return g.body.Close()
}
