package adapters

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"izpack/internal/ports"
	"izpack/internal/shared"
)

// ResourceOpenerAdapter opens installer resources from the filesystem, file://
// URLs or http(s) URLs. Relative paths resolve against BaseDir. Remote
// fetches are retried up to Retries times.
type ResourceOpenerAdapter struct {
	BaseDir    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

func NewResourceOpenerAdapter(baseDir string) ResourceOpenerAdapter {
	return ResourceOpenerAdapter{
		BaseDir:    baseDir,
		Timeout:    defaultHTTPTimeout,
		Retries:    defaultHTTPRetries,
		RetryDelay: defaultHTTPRetryDelay,
	}
}

func (a ResourceOpenerAdapter) Open(ref string) (io.ReadCloser, time.Time, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, time.Time{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resource reference is empty")
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return a.openHTTP(ref)
	}
	path := ref
	if strings.HasPrefix(ref, "file://") {
		parsed, err := url.Parse(ref)
		if err != nil {
			return nil, time.Time{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid resource url: " + ref).
				WithCause(err)
		}
		path = filepath.FromSlash(parsed.Path)
	} else if !filepath.IsAbs(path) && a.BaseDir != "" {
		path = filepath.Join(a.BaseDir, path)
	}
	return openLocal(path)
}

func openLocal(path string) (io.ReadCloser, time.Time, error) {
	file, err := os.Open(path)
	if err != nil {
		code := errbuilder.CodeInternal
		if errors.Is(err, fs.ErrNotExist) {
			code = errbuilder.CodeNotFound
		}
		return nil, time.Time{}, errbuilder.New().
			WithCode(code).
			WithMsg("resource not found: " + path).
			WithCause(err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, time.Time{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stat resource " + path).
			WithCause(err)
	}
	if info.IsDir() {
		file.Close()
		return nil, time.Time{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resource is a directory: " + path)
	}
	return file, info.ModTime(), nil
}

func (a ResourceOpenerAdapter) openHTTP(ref string) (io.ReadCloser, time.Time, error) {
	cfg := normalizeHTTPConfig(a.Timeout, a.Retries, a.RetryDelay)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
	resp, err := doRequest(ctx, ref, cfg)
	if err != nil {
		cancel()
		return nil, time.Time{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		cancel()
		code := errbuilder.CodeInternal
		if resp.StatusCode == http.StatusNotFound {
			code = errbuilder.CodeNotFound
		}
		return nil, time.Time{}, errbuilder.New().
			WithCode(code).
			WithMsg("failed to fetch resource " + ref).
			WithCause(shared.HTTPStatusError(resp.StatusCode, ref))
	}
	var modTime time.Time
	if lastModified := resp.Header.Get("Last-Modified"); lastModified != "" {
		if parsed, err := http.ParseTime(lastModified); err == nil {
			modTime = parsed
		}
	}
	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, modTime, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

var _ ports.ResourceOpener = ResourceOpenerAdapter{}
