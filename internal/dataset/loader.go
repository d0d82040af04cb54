package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Options controls how a survey snapshot is read.
type Options struct {
	// Delimiter for CSV. If 0, picks '\t' for .tsv names and ',' otherwise.
	Delimiter rune
	// Sheet selects the XLSX sheet; empty means the first sheet.
	Sheet string
	// Timeout bounds remote fetches; 0 means no client timeout.
	Timeout time.Duration
	// NaNValues are raw cells treated as absent answers.
	NaNValues []string
}

// DefaultOptions returns the settings used for the public survey exports.
func DefaultOptions() Options {
	return Options{
		Timeout:   60 * time.Second,
		NaNValues: []string{"NA", "NaN", ""},
	}
}

// loader reads one file format into a Table.
type loader interface {
	CanLoad(name string) bool
	Load(r io.Reader, name string, opt Options) (*Table, error)
}

var registry []loader

// register adds a loader implementation to the registry.
func register(l loader) {
	registry = append(registry, l)
}

func init() {
	register(xlsxLoader{})
	register(csvLoader{})
}

// ErrUnsupported indicates no registered loader accepts the source.
var ErrUnsupported = errors.New("unsupported dataset format")

// Open reads a snapshot from a local path or an http(s) URL.
func Open(ctx context.Context, source string, opt Options) (*Table, error) {
	if isRemote(source) {
		return fetch(ctx, source, opt)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(f, filepath.Base(source), opt)
}

// Load selects a loader by name and reads r. Names without a known
// extension are read as CSV.
func Load(r io.Reader, name string, opt Options) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(name) {
			return l.Load(r, name, opt)
		}
	}
	return csvLoader{}.Load(r, name, opt)
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func fetch(ctx context.Context, url string, opt Options) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	client := &http.Client{Timeout: opt.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("fetch: unexpected status %s: %s", resp.Status, string(b))
	}
	name := path.Base(req.URL.Path)
	if name == "" || name == "/" || name == "." {
		name = req.URL.Host
	}
	t, err := Load(resp.Body, name, opt)
	if err != nil {
		return nil, err
	}
	t.name = url
	return t, nil
}

// fromDataFrame copies every gota column into an immutable Table.
func fromDataFrame(name string, df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("load %s: %w", name, df.Err)
	}
	names := df.Names()
	data := make(map[string][]Value, len(names))
	for _, c := range names {
		s := df.Col(c)
		if s.Err != nil {
			return nil, fmt.Errorf("column %q: %w", c, s.Err)
		}
		recs := s.Records()
		nan := s.IsNaN()
		vals := make([]Value, len(recs))
		for i, r := range recs {
			if nan[i] {
				vals[i] = Missing
				continue
			}
			vals[i] = Present(r)
		}
		data[c] = vals
	}
	return NewTable(name, names, data)
}
