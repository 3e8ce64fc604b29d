package fileloader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"circlesgraph/app/diagnostics"
)

// Loader fetches and decodes sources.
type Loader struct {
	opts       Options
	httpClient *http.Client
	s3Client   S3API
	logger     *slog.Logger
}

// NewLoader creates a Loader. The S3 client is created on first use unless
// set with WithS3Client.
func NewLoader(opts Options, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		opts:       opts,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		logger:     logger,
	}
}

// WithHTTPClient replaces the client used for http(s) sources.
func (l *Loader) WithHTTPClient(c *http.Client) *Loader {
	l.httpClient = c
	return l
}

// WithS3Client replaces the client used for s3:// sources.
func (l *Loader) WithS3Client(c S3API) *Loader {
	l.s3Client = c
	return l
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	lower := strings.ToLower(ref)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return fetchHTTP(ctx, l.httpClient, ref)
	case strings.HasPrefix(lower, "s3://"):
		if l.s3Client == nil {
			client, err := NewS3Client(ctx)
			if err != nil {
				return nil, err
			}
			l.s3Client = client
		}
		return fetchS3(ctx, l.s3Client, ref)
	case IsRemote(ref):
		return nil, fmt.Errorf("unsupported source scheme in %s", ref)
	default:
		return os.ReadFile(ref)
	}
}

func splitLines(data []byte) []string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func dropHeader(lines []string) []string {
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			return lines[i+1:]
		}
	}
	return lines
}

// Load reads one source. Compression is detected from the content.
func (l *Loader) Load(ctx context.Context, ref string) (*Source, error) {
	kind, _ := DetectKind(ref)
	src := &Source{ID: ref, Kind: kind}

	if kind == KindSQLite {
		lines, err := sqliteLines(ctx, ref, l.opts.Layout)
		if err != nil {
			return nil, err
		}
		src.Lines = lines
		src.Fingerprint, err = Fingerprint([]byte(strings.Join(lines, "\n")))
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	raw, err := l.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	src.Compression = DetectCompression(raw)
	result, err := Decompress(raw, src.Compression)
	if err != nil {
		return nil, err
	}
	src.Warning = result.Warning
	src.Size = len(result.Data)
	if src.Fingerprint, err = Fingerprint(result.Data); err != nil {
		return nil, err
	}

	switch kind {
	case KindJSON:
		src.Lines, err = jsonLines(result.Data, l.opts.JSONPath)
	case KindXLSX:
		src.Lines, err = xlsxLines(result.Data, l.opts.Sheet)
	default:
		src.Lines = splitLines(result.Data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s as %s: %w", ref, kind, err)
	}
	if l.opts.SkipHeader && kind != KindJSON {
		src.Lines = dropHeader(src.Lines)
	}
	return src, nil
}

// LoadAll loads every reference in order. Sources that fail to load, and
// sources whose content repeats an earlier one, are reported and left out.
func (l *Loader) LoadAll(ctx context.Context, refs []string, reporter *diagnostics.Reporter) ([]*Source, error) {
	var out []*Source
	seen := map[string]string{}
	for _, ref := range refs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		src, err := l.Load(ctx, ref)
		if err != nil {
			if werr := reporter.Warn(&diagnostics.SourceError{Source: ref, Err: err}); werr != nil {
				return nil, werr
			}
			continue
		}
		if src.Warning != "" {
			if werr := reporter.Warn(&diagnostics.SourceError{Source: ref, Err: fmt.Errorf("%s", src.Warning)}); werr != nil {
				return nil, werr
			}
		}
		if first, dup := seen[src.Fingerprint]; dup {
			err := fmt.Errorf("%w: same content as %s", diagnostics.ErrDuplicateSource, first)
			if werr := reporter.Warn(&diagnostics.SourceError{Source: ref, Err: err}); werr != nil {
				return nil, werr
			}
			continue
		}
		seen[src.Fingerprint] = ref
		l.logger.Info("loaded source", "source", ref, "kind", src.Kind.String(), "compression", src.Compression.String(), "lines", len(src.Lines))
		out = append(out, src)
	}
	return out, nil
}
