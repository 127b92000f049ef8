package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/redcanvas/asset"
	"github.com/ByLCY/redcanvas/binding"
	"github.com/ByLCY/redcanvas/dsl"
	"github.com/ByLCY/redcanvas/editor"
	"github.com/ByLCY/redcanvas/export"
	"github.com/ByLCY/redcanvas/fonts"
	"github.com/ByLCY/redcanvas/layout"
	"github.com/ByLCY/redcanvas/renderer"
	canvasrenderer "github.com/ByLCY/redcanvas/renderer/canvas"
	"github.com/ByLCY/redcanvas/template"
)

type renderFlags struct {
	output   string
	format   string
	scale    float64
	quality  int
	settle   string
	template string
	font     string
	frame    bool
	image    string
	title    string
	series   string
	accent   string
	data     string
	state    string
	debug    string
	noCache  bool
}

func (a *app) renderCommand() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render [card]",
		Short: "Lay out a card and export it",
		Long: `Render builds the card state from, in order: the --state JSON file (or the
default card), the card script, and the flags. It then lays the card out and
exports redcanvas-<millis>.<ext> into the output directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card := ""
			if len(args) == 1 {
				card = args[0]
			}
			return a.render(cmd, card, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output directory (default from config)")
	fl.StringVar(&f.format, "format", "", "png, jpeg, pdf or svg")
	fl.Float64Var(&f.scale, "scale", 0, "pixels per layout unit for raster formats")
	fl.IntVar(&f.quality, "quality", 0, "JPEG quality 1-100")
	fl.StringVar(&f.settle, "settle", "", "delay before rasterizing, e.g. 600ms")
	fl.StringVar(&f.template, "template", "", "template id")
	fl.StringVar(&f.font, "font", "", "title font id")
	fl.BoolVar(&f.frame, "frame", true, "wrap the image in a device frame")
	fl.StringVar(&f.image, "image", "", "cover image: path, URL or data URI")
	fl.StringVar(&f.title, "title", "", "title text (\\n for line breaks)")
	fl.StringVar(&f.series, "series", "", "series tag, e.g. #01")
	fl.StringVar(&f.accent, "accent", "", "accent colour, e.g. #ff2442")
	fl.StringVar(&f.data, "data", "", "JSON file with values for ${...} placeholders")
	fl.StringVar(&f.state, "state", "", "JSON editor state to start from")
	fl.StringVar(&f.debug, "debug", "", "write the layout as JSON to this path")
	fl.BoolVar(&f.noCache, "no-cache", false, "do not cache downloaded images")
	return cmd
}

func (a *app) render(cmd *cobra.Command, card string, f renderFlags) error {
	ctx := cmd.Context()
	logger := a.logger

	start, err := a.startState(f.state)
	if err != nil {
		return err
	}

	var cmds []editor.Command
	baseDir := ""
	if card != "" {
		baseDir = filepath.Dir(card)
		if f.state == "" {
			start = editor.Blank()
		}
		scriptCmds, err := a.loadScript(card, f.data)
		if err != nil {
			return err
		}
		cmds = append(cmds, scriptCmds...)
	}
	cmds = append(cmds, flagCommands(cmd, f)...)

	c, err := a.newCache(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer c.Close()
	reg := a.newRegistry(c, baseDir)

	var ingested []*asset.Handle
	defer func() {
		for _, h := range ingested {
			h.Release()
		}
	}()
	cmds, err = dsl.ResolveImages(ctx, cmds, func(ctx context.Context, ref string) (editor.SetImage, error) {
		set, h, err := asset.Ingest(ctx, reg, ref)
		if errors.Is(err, asset.ErrMalformed) {
			logger.Debug("ignoring malformed image", "ref", ref, "err", err)
			return editor.SetImage{}, dsl.ErrSkipImage
		}
		if err != nil {
			return editor.SetImage{}, err
		}
		ingested = append(ingested, h)
		return set, nil
	})
	if err != nil {
		return err
	}

	state, err := editor.Apply(start, cmds...)
	if err != nil {
		if editor.IsRejected(err) {
			return fmt.Errorf("卡片内容无效: %w", err)
		}
		return err
	}
	logger.Debug("card state", "template", state.TemplateID, "font", state.FontFamily, "highlights", len(state.Highlights), "image", state.HasImage())

	holder := asset.NewHolder(reg)
	defer holder.Release()
	if err := holder.Sync(ctx, state.ImageURL); err != nil {
		// 图片打不开时退回占位图
		logger.Warn("cover image unavailable, using placeholder", "ref", state.ImageURL, "err", err)
		state, _ = editor.Apply(state, editor.ClearImage{})
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		Fonts:  fonts.NewSet(a.cfg.Fonts),
		Images: reg,
	})
	canvas, err := template.Build(state, r)
	if err != nil {
		return fmt.Errorf("布局失败: %w", err)
	}
	if f.debug != "" {
		if err := os.MkdirAll(filepath.Dir(f.debug), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(canvas, f.debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
		logger.Info("layout written", "path", f.debug)
	}

	exp, err := a.exporter(f, r, reg)
	if err != nil {
		return err
	}
	art, err := exp.Export(ctx, canvas)
	if err != nil {
		return err
	}
	a.printf("%s %s %s\n", styleSuccess.Render("✓"), art.Path,
		styleDim.Render(fmt.Sprintf("(%dx%d, %d bytes)", art.Width, art.Height, art.Bytes)))
	return nil
}

func (a *app) startState(path string) (editor.State, error) {
	if path == "" {
		return editor.Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return editor.State{}, fmt.Errorf("读取状态文件失败: %w", err)
	}
	var s editor.State
	if err := json.Unmarshal(raw, &s); err != nil {
		return editor.State{}, fmt.Errorf("解析状态文件 %s 失败: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return editor.State{}, fmt.Errorf("状态文件 %s 无效: %w", path, err)
	}
	return s, nil
}

func (a *app) loadScript(path, dataPath string) ([]editor.Command, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开卡片脚本 %s: %w", path, err)
	}
	defer file.Close()
	script, err := dsl.ParseFile(path, file)
	if err != nil {
		return nil, fmt.Errorf("解析卡片脚本失败: %w", err)
	}
	if dataPath != "" {
		df, err := os.Open(dataPath)
		if err != nil {
			return nil, fmt.Errorf("读取绑定数据失败: %w", err)
		}
		data, err := binding.Decode(df)
		df.Close()
		if err != nil {
			return nil, err
		}
		for _, m := range binding.Bind(script, data) {
			a.logger.Warn("unresolved placeholder", "placeholder", m)
		}
	}
	return script.Commands(editor.NewHighlightID)
}

// flagCommands turns explicitly set flags into commands applied last.
func flagCommands(cmd *cobra.Command, f renderFlags) []editor.Command {
	fl := cmd.Flags()
	var cmds []editor.Command
	if fl.Changed("title") {
		cmds = append(cmds, editor.SetTitle{Title: unescapeNewlines(f.title)})
	}
	if fl.Changed("series") {
		cmds = append(cmds, editor.SetSeriesNumber{Series: f.series})
	}
	if fl.Changed("image") {
		if f.image == "" {
			cmds = append(cmds, editor.ClearImage{})
		} else {
			cmds = append(cmds, dsl.ImageRef{Ref: f.image})
		}
	}
	if fl.Changed("frame") {
		cmds = append(cmds, editor.SetDeviceFrame{Enabled: f.frame})
	}
	if fl.Changed("template") {
		cmds = append(cmds, editor.SetTemplate{ID: editor.TemplateID(f.template)})
	}
	if fl.Changed("font") {
		cmds = append(cmds, editor.SetFont{ID: editor.FontID(f.font)})
	}
	if fl.Changed("accent") {
		cmds = append(cmds, editor.SetAccentColor{Color: f.accent})
	}
	return cmds
}

func (a *app) exporter(f renderFlags, r *canvasrenderer.Renderer, reg *asset.Registry) (*export.Exporter, error) {
	cfg := a.cfg.Export
	format := a.cfg.Format()
	if f.format != "" {
		parsed, err := renderer.ParseFormat(f.format)
		if err != nil {
			return nil, err
		}
		format = parsed
	}
	scale := cfg.Scale
	if f.scale > 0 {
		scale = f.scale
	}
	quality := cfg.Quality
	if f.quality > 0 {
		quality = f.quality
	}
	settle := cfg.Settle.Duration
	if f.settle != "" {
		var d durationFlag
		if err := d.Set(f.settle); err != nil {
			return nil, fmt.Errorf("--settle: %w", err)
		}
		settle = d.Duration
	}
	outDir := cfg.OutputDir
	if f.output != "" {
		outDir = f.output
	}
	releaseDelay := cfg.ReleaseDelay.Duration
	if releaseDelay == 0 {
		releaseDelay = -1
	}
	return &export.Exporter{
		Fonts:      r,
		Settler:    export.DelaySettler{Delay: settle},
		Rasterizer: r,
		Deliverer:  export.FileDeliverer{Dir: outDir},
		Notifier: export.NotifierFunc(func(msg string) {
			fmt.Fprintln(a.errOut, styleWarning.Render("! "+msg))
		}),
		Assets: reg,
		Logger: a.logger,
		Options: export.Options{
			Scale:        scale,
			Background:   a.cfg.Background(),
			Format:       format,
			Quality:      quality,
			ReleaseDelay: releaseDelay,
		},
		OnBusy: func(busy bool) { a.logger.Debug("export busy", "busy", busy) },
	}, nil
}
