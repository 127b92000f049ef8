package export

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when an export is already running. Overlapping
	// requests are rejected rather than queued.
	ErrBusy = errors.New("export already in progress")
	// ErrEmptyImage is the rasterizer producing no bytes.
	ErrEmptyImage = errors.New("rasterizer produced no image")
	// ErrNotConfigured is an Exporter built without a required stage.
	ErrNotConfigured = errors.New("export stage not configured")
)

// UserMessage is the one message shown to the user for any export failure.
const UserMessage = "导出由于安全限制或资源加载失败。请确保网络顺畅，并检查图片与字体是否可以访问。"

// Stage names the pipeline step a Failure came from.
type Stage string

const (
	StageAssets    Stage = "assets"
	StageRasterize Stage = "rasterize"
	StageDeliver   Stage = "deliver"
)

// Failure is an export that could not produce a file.
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string { return fmt.Sprintf("export failed at %s: %v", f.Stage, f.Err) }
func (f *Failure) Unwrap() error { return f.Err }

// IsFailure reports whether err is (or wraps) a *Failure.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}
