package layout

import (
	"encoding/json"
	"io"
	"os"
)

// WriteDebugJSON 将画布输出为 JSON，便于调试或可视化。
func WriteDebugJSON(c *Canvas, path string) error {
	if c == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, c, DebugOptions{Indent: true}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeDebugJSON 把画布写入 w。
func EncodeDebugJSON(w io.Writer, c *Canvas, opts DebugOptions) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(c)
}
