package spritemap

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/esimov/spritemap/pack"
	"golang.org/x/exp/slog"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Processor builds one spritemap per configured scale factor.
type Processor struct {
	Config   *Config
	Provider SourceProvider
	// OutDir is the directory the spritemaps are written to.
	OutDir string
	// Format is the image file extension, ".png" by default.
	Format string
	// Workers limits the goroutines reading and expanding icons.
	Workers int
	// SkipInvalid drops the icons which fail to expand instead of aborting.
	SkipInvalid bool
	// Rasterizer overrides the SVG rasterizer.
	Rasterizer Rasterizer
	// Progress receives a short description of every stage of Run.
	// It is called concurrently by the scale factor builds.
	Progress func(stage string)
	Logger   *slog.Logger
}

// Spritemap is the in-memory result of one scale factor.
type Spritemap struct {
	Scale
	Layout   *Layout
	Image    *image.RGBA
	Metadata Metadata
}

// Output describes the files written for one scale factor.
type Output struct {
	Scale
	Image    string
	Metadata string
	Sprites  int
}

// result holds the outcome of the build of one scale factor.
type result struct {
	out Output
	err error
}

// Run loads the icons, expands their variants and writes the spritemap of every scale
// factor. The factors are built concurrently and independently: the failure of one
// does not prevent the others from being written. The returned outputs are ordered
// by label and the error joins the failure of every factor.
func (p *Processor) Run(ctx context.Context) ([]Output, error) {
	if p.Config == nil {
		return nil, fmt.Errorf("%w: missing config", ErrInvalidConfig)
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	if p.OutDir != "" {
		if err := os.MkdirAll(p.OutDir, 0755); err != nil {
			return nil, fmt.Errorf("unable to create the output directory: %w", err)
		}
	}

	p.progress("loading icons")
	variants, err := p.Variants(ctx)
	if err != nil {
		return nil, err
	}

	scales := p.Config.Scales()
	ch := make(chan result, len(scales))
	var wg sync.WaitGroup
	for _, sc := range scales {
		sc := sc
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.progress(fmt.Sprintf("building the %s spritemap", sc.Label))
			out, err := p.buildAndWrite(ctx, variants, sc)
			if err != nil {
				err = &ScaleError{Label: sc.Label, Err: err}
			}
			ch <- result{out: out, err: err}
		}()
	}
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var (
		outputs []Output
		errs    []*ScaleError
	)
	for res := range ch {
		if res.err != nil {
			var se *ScaleError
			errors.As(res.err, &se)
			errs = append(errs, se)
			p.logger().Error("spritemap failed", "label", se.Label, "error", se.Err)
			continue
		}
		outputs = append(outputs, res.out)
	}
	sort.Slice(outputs, func(i, j int) bool { return outputs[i].Label < outputs[j].Label })
	sort.Slice(errs, func(i, j int) bool { return errs[i].Label < errs[j].Label })

	var joined []error
	for _, e := range errs {
		joined = append(joined, e)
	}
	return outputs, errors.Join(joined...)
}

// Variants loads the icons of every set and expands them.
func (p *Processor) Variants(ctx context.Context) ([]Variant, error) {
	if p.Config == nil {
		return nil, fmt.Errorf("%w: missing config", ErrInvalidConfig)
	}
	if p.Provider == nil {
		return nil, fmt.Errorf("%w: missing icon source provider", ErrInvalidConfig)
	}
	var sources []IconSource
	for _, id := range p.Config.SetIDs() {
		srcs, err := p.Provider.Load(ctx, id, p.Config.Sets[id])
		if err != nil {
			return nil, err
		}
		p.logger().Debug("loaded icon set", "set", id, "icons", len(srcs))
		sources = append(sources, srcs...)
	}
	e := &Expander{
		Config:      p.Config,
		Workers:     p.Workers,
		SkipInvalid: p.SkipInvalid,
		Logger:      p.Logger,
	}
	return e.Expand(ctx, sources)
}

// Build resolves, packs and composites the variants for one scale factor.
func (p *Processor) Build(variants []Variant, sc Scale) (*Spritemap, error) {
	packer, err := pack.ByName(p.Config.Packer)
	if err != nil {
		return nil, err
	}
	comp, err := NewCompositor(p.Config.Blur)
	if err != nil {
		return nil, err
	}
	if p.Rasterizer != nil {
		comp.Rasterizer = p.Rasterizer
	}

	sprites, err := Resolve(variants, sc.Factor)
	if err != nil {
		return nil, err
	}
	layout, err := Arrange(packer, sprites, sc.Factor)
	if err != nil {
		return nil, err
	}
	img, err := comp.Compose(layout)
	if err != nil {
		return nil, err
	}
	return &Spritemap{
		Scale:    sc,
		Layout:   layout,
		Image:    img,
		Metadata: Emit(sprites, sc.Factor),
	}, nil
}

// Write stores the image and the metadata of the spritemap in the output directory.
// Either both files are replaced or none is.
func (p *Processor) Write(sm *Spritemap) (Output, error) {
	ext := p.Format
	if ext == "" {
		ext = ".png"
	}
	out := Output{
		Scale:    sm.Scale,
		Image:    filepath.Join(p.OutDir, "sprites"+sm.Label+ext),
		Metadata: filepath.Join(p.OutDir, "sprites"+sm.Label+".json"),
		Sprites:  len(sm.Metadata),
	}
	meta, err := sm.Metadata.MarshalIndent()
	if err != nil {
		return Output{}, err
	}

	var c commit
	defer c.discard()
	if err := c.stage(out.Image, func(w io.Writer) error {
		return Encode(w, sm.Image, ext)
	}); err != nil {
		return Output{}, err
	}
	if err := c.stage(out.Metadata, func(w io.Writer) error {
		_, err := w.Write(meta)
		return err
	}); err != nil {
		return Output{}, err
	}
	if err := c.apply(); err != nil {
		return Output{}, err
	}
	return out, nil
}

func (p *Processor) buildAndWrite(ctx context.Context, variants []Variant, sc Scale) (Output, error) {
	now := time.Now()
	sm, err := p.Build(variants, sc)
	if err != nil {
		return Output{}, err
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	out, err := p.Write(sm)
	if err != nil {
		return Output{}, err
	}
	p.logger().Info("spritemap written",
		"label", sc.Label,
		"sprites", out.Sprites,
		"width", sm.Image.Bounds().Dx(),
		"height", sm.Image.Bounds().Dy(),
		"elapsed", time.Since(now),
	)
	return out, nil
}

func (p *Processor) progress(stage string) {
	if p.Progress != nil {
		p.Progress(stage)
	}
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return discardLogger
	}
	return p.Logger
}
