package sponsors

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	// DefaultIndexURL is the publication page that links the register CSV files.
	DefaultIndexURL = "https://www.gov.uk/government/publications/register-of-licensed-sponsors-workers"
	// DefaultTimeout bounds the index page fetch. The register table download is
	// bounded only by the caller's context.
	DefaultTimeout  = 30 * time.Second

	userAgent    = "spigell/sponsor-scout"
	// workerMarker tells the worker register apart from the student one on the same page.
	workerMarker = "worker"
	csvLinks     = `a[href$=".csv"]`
)

// ErrSourceUnreachable marks network failures while fetching the register.
var ErrSourceUnreachable = errors.New("sponsor register source unreachable")

// Register is an immutable, ordered list of normalized sponsor names.
type Register struct {
	names []string
}

func NewRegister(names []string) Register {
	return Register{names: slices.Clone(names)}
}

// Names returns a copy of the register entries in source order.
func (r Register) Names() []string {
	return slices.Clone(r.names)
}

func (r Register) Len() int {
	return len(r.names)
}

type Status int

const (
	StatusUnavailable Status = iota
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	default:
		return "unavailable"
	}
}

// Outcome of a register load. An unavailable outcome is not an error: the source
// answered, but had no usable register.
type Outcome struct {
	Status   Status
	Register Register
	Source   string
	Reason   string
}

func (o Outcome) Available() bool {
	return o.Status == StatusLoaded
}

func loaded(register Register, source string) Outcome {
	return Outcome{Status: StatusLoaded, Register: register, Source: source}
}

func unavailable(source, reason string) Outcome {
	return Outcome{Status: StatusUnavailable, Source: source, Reason: reason}
}

// Loader fetches the register of licensed worker sponsors.
type Loader struct {
	IndexURL     string
	IndexTimeout time.Duration
	HTTPClient   *http.Client
	UserAgent    string
	logger       *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{
		IndexURL:     DefaultIndexURL,
		IndexTimeout: DefaultTimeout,
		HTTPClient:   &http.Client{},
		UserAgent:    userAgent,
		logger:       logger,
	}
}

// Load fetches the index page, picks the worker register CSV and parses its first column.
// Network failures return an error wrapping ErrSourceUnreachable; a page without links or a
// table that cannot be parsed yields an unavailable outcome.
func (l *Loader) Load(ctx context.Context) (Outcome, error) {
	csvURL, err := l.discover(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if csvURL == "" {
		l.logger.Warn("no register table link found on index page", zap.String("index_url", l.IndexURL))
		return unavailable(l.IndexURL, "no table link on index page"), nil
	}

	names, err := l.download(ctx, csvURL)
	if errors.Is(err, ErrSourceUnreachable) {
		return Outcome{}, err
	}
	if err != nil {
		l.logger.Warn("register table could not be parsed", zap.String("url", csvURL), zap.Error(err))
		return unavailable(csvURL, err.Error()), nil
	}
	if len(names) == 0 {
		return unavailable(csvURL, "register table has no names"), nil
	}

	l.logger.Debug("register loaded", zap.String("url", csvURL), zap.Int("names", len(names)))
	return loaded(Register{names: names}, csvURL), nil
}

func (l *Loader) discover(ctx context.Context) (string, error) {
	if l.IndexTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.IndexTimeout)
		defer cancel()
	}

	body, err := l.fetch(ctx, l.IndexURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("%w: read index page: %w", ErrSourceUnreachable, err)
	}

	return selectTableLink(doc, l.IndexURL), nil
}

// selectTableLink prefers the first CSV link mentioning the worker marker in its href or text,
// falling back to the first CSV link. It returns an empty string when the page has none.
func selectTableLink(doc *goquery.Document, base string) string {
	var first, marked string
	doc.Find(csvLinks).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return true
		}
		if first == "" {
			first = href
		}
		text := strings.ToLower(strings.TrimSpace(a.Text()))
		if strings.Contains(strings.ToLower(href), workerMarker) || strings.Contains(text, workerMarker) {
			marked = href
			return false
		}
		return true
	})

	link := marked
	if link == "" {
		link = first
	}
	if link == "" {
		return ""
	}
	return resolve(base, link)
}

func resolve(base, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

func (l *Loader) download(ctx context.Context, csvURL string) ([]string, error) {
	body, err := l.fetch(ctx, csvURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return parseRegister(body)
}

// parseRegister reads the first column of the table whatever its header says,
// dropping blanks and normalizing the rest. Duplicates are kept. Rows may differ in width.
func parseRegister(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("register table is empty")
		}
		return nil, readError(err)
	}

	var names []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(err)
		}
		if len(record) == 0 {
			continue
		}

		name := Normalize(record[0])
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	return names, nil
}

// readError keeps malformed data apart from a body read that failed mid-transfer.
func readError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("parse register table: %w", err)
	}
	return fmt.Errorf("%w: read register table: %w", ErrSourceUnreachable, err)
}
