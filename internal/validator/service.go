// Package validator provides the application service that validates
// documentation metadata across a document tree.
package validator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eykd/docmeta-go/internal/domain"
)

// ErrNoFinder is returned when Run is called on a service without a DocumentFinder.
var ErrNoFinder = errors.New("no document finder configured")

// maxJobs caps the number of documents validated concurrently.
const maxJobs = 64

// DocumentFinder abstracts discovering the documents to validate.
// Paths are returned relative to the documentation root, sorted.
type DocumentFinder interface {
	FindDocuments(ctx context.Context) ([]string, error)
}

// ContentReader abstracts reading the decoded text of a document.
type ContentReader interface {
	ReadFile(ctx context.Context, path string) (string, error)
}

// Clock abstracts the current date used for future-date checks.
type Clock interface {
	Today() time.Time
}

// SystemClock reports the local system date.
type SystemClock struct{}

// Today returns the current local time.
func (SystemClock) Today() time.Time { return time.Now() }

// RunOptions controls a validation run.
type RunOptions struct {
	// Strict escalates warnings to a failing document status.
	Strict bool
	// Jobs is the number of documents validated concurrently. Values below 1
	// mean sequential validation.
	Jobs int
}

// DocumentReport is the validation outcome for one document.
type DocumentReport struct {
	Path   string
	Result domain.Result
	Status domain.DocStatus
}

// RunResult aggregates the reports of a validation run.
type RunResult struct {
	Reports []DocumentReport
	OK      int
	Warn    int
	Error   int
}

// Failed reports whether any document was counted as an error.
func (r *RunResult) Failed() bool {
	return r.Error > 0
}

// Findings flattens every report into findings, in report order.
func (r *RunResult) Findings() []domain.Finding {
	var findings []domain.Finding
	for _, rep := range r.Reports {
		findings = append(findings, rep.Result.Findings(rep.Path)...)
	}
	return findings
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for future-date checks.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithHeaderLines sets how many leading lines are searched for the header.
func WithHeaderLines(n int) Option {
	return func(s *Service) { s.headerLines = n }
}

// Service validates documentation metadata headers.
type Service struct {
	finder      DocumentFinder
	reader      ContentReader
	clock       Clock
	logger      *slog.Logger
	headerLines int
}

// NewService creates a Service with the given collaborators.
func NewService(finder DocumentFinder, reader ContentReader, opts ...Option) *Service {
	s := &Service{
		finder:      finder,
		reader:      reader,
		clock:       SystemClock{},
		logger:      slog.New(slog.DiscardHandler),
		headerLines: domain.DefaultHeaderLines,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateDocument reads and validates a single document. A document that
// cannot be read yields a Result with a single read error and no field
// diagnostics; it is never returned as an error.
func (s *Service) ValidateDocument(ctx context.Context, path string) domain.Result {
	text, err := s.reader.ReadFile(ctx, path)
	if err != nil {
		s.logger.DebugContext(ctx, "document unreadable", "path", path, "error", err)
		return domain.ReadFailure(err)
	}

	meta := domain.ExtractMetadata(domain.HeaderLines(text, s.headerLines))
	res := domain.Validate(meta, s.clock.Today())

	s.logger.DebugContext(ctx, "document validated",
		"path", path,
		"fields", len(meta),
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
	)
	return res
}

// Report validates a single document and attaches its status.
func (s *Service) Report(ctx context.Context, path string, strict bool) DocumentReport {
	res := s.ValidateDocument(ctx, path)
	return DocumentReport{Path: path, Result: res, Status: res.Status(strict)}
}

// Run discovers and validates every document. Reports keep the finder's
// order regardless of how many jobs run. Discovery failures and context
// cancellation abort the run; unreadable documents do not.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if s.finder == nil {
		return nil, ErrNoFinder
	}

	paths, err := s.finder.FindDocuments(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "documents discovered", "count", len(paths))

	reports := make([]DocumentReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobLimit(opts.Jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = s.Report(gctx, path, opts.Strict)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &RunResult{Reports: reports}
	for _, rep := range reports {
		switch rep.Status {
		case domain.DocOK:
			result.OK++
		case domain.DocWarn:
			result.Warn++
		default:
			result.Error++
		}
	}

	s.logger.DebugContext(ctx, "validation run complete",
		"documents", len(reports),
		"ok", result.OK,
		"warn", result.Warn,
		"error", result.Error,
	)
	return result, nil
}

// jobLimit clamps the requested job count to [1, min(maxJobs, n)].
func jobLimit(jobs, n int) int {
	if jobs < 1 {
		jobs = 1
	}
	if jobs > maxJobs {
		jobs = maxJobs
	}
	if n > 0 && jobs > n {
		jobs = n
	}
	return jobs
}
