package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/redcanvas/cache"
)

// cacheNamespace prefixes remote image keys in the shared cache.
const cacheNamespace = "image"

func (r *Registry) load(ctx context.Context, ref string) (image.Image, error) {
	data, err := r.read(ctx, ref)
	if err != nil {
		return nil, err
	}
	return decode(data, ref)
}

func decode(data []byte, ref string) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, shortRef(ref), err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: %s: empty image", ErrMalformed, shortRef(ref))
	}
	return img, nil
}

func (r *Registry) read(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == "":
		return nil, fmt.Errorf("%w: empty", ErrUnsupportedRef)
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return r.fetch(ctx, ref)
	case strings.HasPrefix(ref, "file://"):
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("解析 %s 失败: %w", ref, err)
		}
		return r.readFile(u.Path)
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRef, shortRef(ref))
	}
	return r.readFile(ref)
}

func (r *Registry) readFile(path string) ([]byte, error) {
	if !filepath.IsAbs(path) && r.opts.BaseDir != "" {
		path = filepath.Join(r.opts.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	return data, nil
}

// decodeDataURI handles data:[<mediatype>][;base64],<payload>.
func decodeDataURI(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: data URI without payload", ErrMalformed)
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// 有些来源省略了填充
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return []byte(s), nil
}

// fetch downloads a remote image through the cache.
func (r *Registry) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	key := cache.Key(cacheNamespace, rawURL)
	if data, ok, err := r.opts.Cache.Get(ctx, key); err != nil {
		r.logger.Debug("cache read failed", "url", rawURL, "err", err)
	} else if ok {
		r.logger.Debug("cache hit", "url", rawURL, "bytes", len(data))
		return data, nil
	}

	var data []byte
	err := retryWithBackoff(ctx, r.opts.RetryDelay, func() error {
		var err error
		data, err = r.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := r.opts.Cache.Set(ctx, key, data, r.opts.CacheTTL); err != nil {
		r.logger.Debug("cache write failed", "url", rawURL, "err", err)
	}
	return data, nil
}

func (r *Registry) get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, retryable(fmt.Errorf("下载 %s 失败: %w", rawURL, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return nil, retryable(fmt.Errorf("下载 %s 失败: %s", rawURL, resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("下载 %s 失败: %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, r.opts.MaxBytes+1))
	if err != nil {
		return nil, retryable(fmt.Errorf("下载 %s 失败: %w", rawURL, err))
	}
	if int64(len(data)) > r.opts.MaxBytes {
		return nil, fmt.Errorf("图片 %s 超过 %d 字节", rawURL, r.opts.MaxBytes)
	}
	return data, nil
}

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func retryable(err error) error { return &retryableError{err: err} }

// retryWithBackoff tries fn three times, doubling the delay, but only for
// errors marked retryable.
func retryWithBackoff(ctx context.Context, delay time.Duration, fn func() error) error {
	const attempts = 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		var re *retryableError
		if !errors.As(err, &re) {
			return err
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
