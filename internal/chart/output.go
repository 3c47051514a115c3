package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/browser"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

// Viewer presents a rendered image to the user.
type Viewer interface {
	Show(path string) error
}

// BrowserViewer opens images with the platform's default application.
type BrowserViewer struct{}

func (BrowserViewer) Show(path string) error { return browser.OpenFile(path) }

// Output writes figures to disk or hands them to a Viewer.
type Output struct {
	Dir    string
	Stamp  string
	DPI    int
	Width  vg.Length
	Height vg.Length
	Viewer Viewer
	Log    *zap.Logger
}

// NewOutput creates an Output for one run. Width and height are in inches.
func NewOutput(dir, stamp string, dpi int, widthIn, heightIn float64, viewer Viewer, log *zap.Logger) *Output {
	if viewer == nil {
		viewer = BrowserViewer{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Output{
		Dir:    dir,
		Stamp:  stamp,
		DPI:    dpi,
		Width:  vg.Length(widthIn) * vg.Inch,
		Height: vg.Length(heightIn) * vg.Inch,
		Viewer: viewer,
		Log:    log,
	}
}

// Path returns where Save writes fig: <dir>/<name>_<stamp>.png.
func (o *Output) Path(fig *Figure) string {
	return filepath.Join(o.Dir, fmt.Sprintf("%s_%s.png", fig.Name, o.Stamp))
}

// Save writes fig as a PNG under Dir, creating it if missing, and returns the file path.
func (o *Output) Save(fig *Figure) (string, error) {
	if err := os.MkdirAll(o.Dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := o.Path(fig)
	if err := o.write(fig, path); err != nil {
		return "", err
	}
	return path, nil
}

// Show renders fig to a temporary PNG and opens it in the Viewer.
func (o *Output) Show(fig *Figure) (string, error) {
	tmp, err := os.CreateTemp("", fig.Name+"_*.png")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	path := tmp.Name()
	tmp.Close()

	if err := o.write(fig, path); err != nil {
		os.Remove(path)
		return "", err
	}
	if err := o.Viewer.Show(path); err != nil {
		return path, fmt.Errorf("show %s: %w", fig.Name, err)
	}
	return path, nil
}

func (o *Output) write(fig *Figure, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	n, err := fig.WritePNG(f, o.Width, o.Height, o.DPI)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", fig.Name, err)
	}
	o.Log.Info("chart written",
		zap.String("chart", fig.Name),
		zap.String("path", path),
		zap.String("size", humanize.Bytes(uint64(n))),
	)
	return nil
}
