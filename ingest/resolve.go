package ingest

// Input resolution for typeinfer tables.
// Uses hashicorp/go-getter for flexible source handling including:
//   - Local paths and file:// URLs
//   - HTTP(S) URLs
//   - S3/GCS buckets and git repositories (single file via //subpath)
//   - Archives (zip, tar.gz) with auto-extraction

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/internal/httpclient"
	"github.com/teranos/typeinfer/logger"
)

// Stdin is the input name that reads standard input
const Stdin = "-"

// Source represents a resolved input table
type Source struct {
	// LocalPath is the path of the table on disk (either original or fetched)
	LocalPath string
	// Input is the original input (URL, path or "-")
	Input string
	// Fetched indicates the table was downloaded from a remote source
	Fetched bool
	// TempDir is the temporary directory used for fetching (empty if local)
	TempDir string
	// cleanup function to call when done with the table
	cleanup func()
}

// IsStdin reports whether the source reads standard input
func (s *Source) IsStdin() bool {
	return s.Input == Stdin
}

// Open opens the table for reading. Closing a stdin source does not close
// os.Stdin.
func (s *Source) Open() (io.ReadCloser, error) {
	if s.IsStdin() {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(s.LocalPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", s.LocalPath)
	}
	return f, nil
}

// Name returns a display name for reports
func (s *Source) Name() string {
	if s.IsStdin() {
		return "stdin"
	}
	return s.Input
}

// Cleanup removes any temporary resources created for this source.
// Safe to call multiple times.
func (s *Source) Cleanup() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// ResolveOption configures Resolve
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	httpClient *http.Client
}

// WithHTTPClient sets the client used for http and https inputs.
// The default refuses private and loopback hosts.
func WithHTTPClient(c *http.Client) ResolveOption {
	return func(o *resolveOptions) {
		o.httpClient = c
	}
}

// Resolve resolves input to a readable local file, fetching remote inputs
// into a temporary directory. The returned Source must be cleaned up.
func Resolve(ctx context.Context, input string, log *zap.SugaredLogger, opts ...ResolveOption) (*Source, error) {
	log = logger.OrNop(log)

	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.New()
	}

	if input == Stdin {
		return &Source{Input: input, cleanup: func() {}}, nil
	}
	if strings.TrimSpace(input) == "" {
		return nil, errors.NewInvalidInputError("input cannot be empty")
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	// Handle tilde expansion before detection sees a relative path
	if strings.HasPrefix(input, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to expand home directory")
		}
		input = filepath.Join(home, input[2:])
	}

	detected, err := getter.Detect(input, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to detect source type of %s", input)
	}

	log.Debugw("go-getter detected source",
		logger.FieldSource, input,
		"detected", detected)

	if !isRemote(detected) {
		localPath := input
		if u, err := url.Parse(detected); err == nil && u.Scheme == "file" {
			localPath = u.Path
		}
		if !filepath.IsAbs(localPath) {
			localPath = filepath.Join(pwd, localPath)
		}

		info, err := os.Stat(localPath)
		if err != nil {
			return nil, errors.WrapNotFound(err, "input "+input)
		}
		if info.IsDir() {
			return nil, errors.NewInvalidInputError("input %s is a directory", input)
		}

		return &Source{
			LocalPath: localPath,
			Input:     input,
			cleanup:   func() {}, // No cleanup needed for local files
		}, nil
	}

	return fetch(ctx, input, detected, o.httpClient, log)
}

// fetch downloads a remote table using go-getter
func fetch(ctx context.Context, input, detected string, httpClient *http.Client, log *zap.SugaredLogger) (*Source, error) {
	tempDir, err := os.MkdirTemp("", "typeinfer-input-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	cleanup := func() {
		log.Debugw("Cleaning up fetched input", logger.FieldFile, tempDir)
		os.RemoveAll(tempDir)
	}

	log.Infow("Fetching input",
		logger.FieldSource, input,
		"destination", tempDir)

	// ClientModeAny saves a single file under its basename and extracts archives
	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     tempDir,
		Pwd:     tempDir,
		Mode:    getter.ClientModeAny,
		Getters: getters(httpClient),
	}
	if err := client.Get(); err != nil {
		cleanup()
		return nil, errors.Wrapf(err, "failed to fetch %s", input)
	}

	localPath, err := findTable(tempDir)
	if err != nil {
		cleanup()
		return nil, err
	}

	log.Infow("Fetch completed",
		logger.FieldFile, localPath)

	return &Source{
		LocalPath: localPath,
		Input:     input,
		Fetched:   true,
		TempDir:   tempDir,
		cleanup:   cleanup,
	}, nil
}

// getters is go-getter's default set with http and https routed through
// httpClient
func getters(httpClient *http.Client) map[string]getter.Getter {
	gs := make(map[string]getter.Getter, len(getter.Getters))
	for scheme, g := range getter.Getters {
		gs[scheme] = g
	}
	httpGetter := &getter.HttpGetter{
		Client: httpClient,
		Netrc:  true,
	}
	gs["http"] = httpGetter
	gs["https"] = httpGetter
	return gs
}

// tableExtensions are preferred when a fetch yields several files
var tableExtensions = []string{".csv", ".tsv", ".txt", ".psv"}

// findTable picks the table inside a fetched directory: the only regular
// file, or the first file with a table extension.
func findTable(dir string) (string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to scan fetched input")
	}

	switch len(files) {
	case 0:
		return "", errors.NewNotFoundError("fetched input contains no files")
	case 1:
		return files[0], nil
	}

	for _, ext := range tableExtensions {
		for _, f := range files {
			if strings.EqualFold(filepath.Ext(f), ext) {
				return f, nil
			}
		}
	}
	return "", errors.WithHint(
		errors.NewInvalidInputError("fetched input contains %d files and none is a table", len(files)),
		"point at a single file with a //subpath, e.g. archive.zip//data.csv")
}

// isRemote reports whether a detected go-getter URL needs fetching
func isRemote(detected string) bool {
	// go-getter forced getters look like "git::https://..."
	if strings.Contains(detected, "::") {
		return true
	}
	u, err := url.Parse(detected)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Scheme != "file"
}

// IsRemote reports whether input would be fetched rather than read locally
func IsRemote(input string) bool {
	if input == Stdin {
		return false
	}
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}
	detected, err := getter.Detect(input, pwd, getter.Detectors)
	if err != nil {
		return false
	}
	return isRemote(detected)
}
