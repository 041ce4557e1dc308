package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/eykd/docmeta-go/internal/config"
	"github.com/eykd/docmeta-go/internal/domain"
	"github.com/eykd/docmeta-go/internal/fs"
	"github.com/eykd/docmeta-go/internal/lock"
	"github.com/eykd/docmeta-go/internal/validator"
)

// settingsLoader resolves the root directory and loads its configuration.
type settingsLoader struct {
	findRoot   func(dir string) (string, error)
	loadConfig func(root, file string) (config.Config, error)
}

func defaultSettingsLoader() settingsLoader {
	return settingsLoader{findRoot: fs.FindRootImpl, loadConfig: config.Load}
}

func (l settingsLoader) load(dir, file string) (string, config.Config, error) {
	root, err := l.findRoot(dir)
	if err != nil {
		return "", config.Config{}, err
	}
	cfg, err := l.loadConfig(root, file)
	if err != nil {
		return "", config.Config{}, err
	}
	return root, cfg, nil
}

// apply overlays the flags that were given on the command line.
func (o CheckOptions) apply(cfg *config.Config) {
	if o.DocsDir != nil {
		cfg.DocsDir = *o.DocsDir
	}
	if o.IncludeRoot != nil {
		cfg.IncludeRoot = *o.IncludeRoot
	}
	if o.Strict != nil {
		cfg.Strict = *o.Strict
	}
	if o.StrictDecode != nil {
		cfg.StrictDecode = *o.StrictDecode
	}
	if o.Jobs != nil {
		cfg.Jobs = *o.Jobs
	}
	cfg.Exclude = append(cfg.Exclude, o.Exclude...)
}

// serviceOptions builds the validator options shared by every adapter.
func serviceOptions(cfg config.Config, logger *slog.Logger, clock validator.Clock) []validator.Option {
	opts := []validator.Option{validator.WithHeaderLines(cfg.HeaderLines)}
	if logger != nil {
		opts = append(opts, validator.WithLogger(logger))
	}
	if clock != nil {
		opts = append(opts, validator.WithClock(clock))
	}
	return opts
}

// --- checkAdapter ---

type checkAdapter struct {
	settings settingsLoader
	clock    validator.Clock
}

func newCheckAdapter() *checkAdapter {
	return &checkAdapter{settings: defaultSettingsLoader()}
}

func (a *checkAdapter) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	root, cfg, err := a.settings.load(req.Root, req.ConfigFile)
	if err != nil {
		return nil, err
	}
	req.Options.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	finder := &fs.DocFinder{
		Root:        root,
		DocsDir:     cfg.DocsDir,
		IncludeRoot: cfg.IncludeRoot,
		Exclude:     cfg.Exclude,
	}
	reader := &fs.OSContentReader{Root: root, StrictDecode: cfg.StrictDecode}
	svc := validator.NewService(finder, reader, serviceOptions(cfg, req.Logger, a.clock)...)

	run, err := svc.Run(ctx, validator.RunOptions{Strict: cfg.Strict, Jobs: cfg.Jobs})
	if err != nil {
		return nil, &ContextError{Op: "check", Path: root, Err: err}
	}
	return convertRunResult(run, cfg.Strict), nil
}

// --- showAdapter ---

type showAdapter struct {
	settings settingsLoader
	clock    validator.Clock
}

func newShowAdapter() *showAdapter {
	return &showAdapter{settings: defaultSettingsLoader()}
}

func (a *showAdapter) Show(ctx context.Context, req ShowRequest) (*DocumentResult, error) {
	root, cfg, err := a.settings.load(req.Root, req.ConfigFile)
	if err != nil {
		return nil, err
	}
	if req.Strict != nil {
		cfg.Strict = *req.Strict
	}
	if req.StrictDecode != nil {
		cfg.StrictDecode = *req.StrictDecode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reader := &fs.OSContentReader{Root: root, StrictDecode: cfg.StrictDecode}
	svc := validator.NewService(nil, reader, serviceOptions(cfg, req.Logger, a.clock)...)

	report := svc.Report(ctx, fs.RelPath(root, req.Path), cfg.Strict)
	doc := convertReport(report)
	return &doc, nil
}

// --- fileReportWriter ---

// fileReportWriter writes report files while holding PATH.lock.
type fileReportWriter struct{}

func (w *fileReportWriter) WriteReport(ctx context.Context, path string, data []byte) error {
	return lock.ForFile(path).Do(ctx, func() error {
		return os.WriteFile(path, data, 0o644)
	})
}

// convertRunResult converts a validator.RunResult to a cmd.CheckResult.
func convertRunResult(run *validator.RunResult, strict bool) *CheckResult {
	result := &CheckResult{
		Documents: make([]DocumentResult, 0, len(run.Reports)),
		Findings:  []CheckFinding{},
		Summary: CheckSummary{
			Documents: len(run.Reports),
			OK:        run.OK,
			Warn:      run.Warn,
			Error:     run.Error,
			Strict:    strict,
			Passed:    !run.Failed(),
		},
	}
	for _, rep := range run.Reports {
		result.Documents = append(result.Documents, convertReport(rep))
	}
	for _, f := range run.Findings() {
		result.Findings = append(result.Findings, convertFinding(f))
	}
	return result
}

// convertReport converts a validator.DocumentReport to a cmd.DocumentResult.
func convertReport(rep validator.DocumentReport) DocumentResult {
	d := DocumentResult{
		Path:     rep.Path,
		Status:   string(rep.Status),
		Errors:   append([]string{}, rep.Result.Errors...),
		Warnings: append([]string{}, rep.Result.Warnings...),
		Metadata: make(map[string]string, len(rep.Result.Metadata)),
	}
	for k, v := range rep.Result.Metadata {
		d.Metadata[k] = v
	}
	return d
}

// convertFinding converts a domain.Finding to a cmd.CheckFinding.
func convertFinding(f domain.Finding) CheckFinding {
	return CheckFinding{
		Severity: Severity(f.Severity),
		Message:  f.Message,
		Path:     f.Path,
	}
}
