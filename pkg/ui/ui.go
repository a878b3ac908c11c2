// Package ui renders feature states, rewrite reports and caches for the CLI.
// Each format lives in its own subpackage behind the Renderer interface;
// view holds the format-neutral structures they all consume.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/features"
	"github.com/arthur-debert/featlink/pkg/linkcache"
	"github.com/arthur-debert/featlink/pkg/staticlink"
	"github.com/arthur-debert/featlink/pkg/ui/json"
	"github.com/arthur-debert/featlink/pkg/ui/terminal"
	"github.com/arthur-debert/featlink/pkg/ui/text"
	"github.com/arthur-debert/featlink/pkg/ui/view"
)

// Renderer is implemented by every output format
type Renderer interface {
	RenderFeatures(v view.Features) error
	RenderReport(v view.Report) error
	RenderCache(v view.Cache) error
	RenderError(err error) error
	RenderMessage(msg string) error
}

var constructors = map[Format]func(io.Writer) (Renderer, error){
	FormatTerminal: func(w io.Writer) (Renderer, error) { return terminal.New(w) },
	FormatText:     func(w io.Writer) (Renderer, error) { return text.New(w) },
	FormatJSON:     func(w io.Writer) (Renderer, error) { return json.New(w) },
}

// NewRenderer returns the renderer for format. FormatAuto inspects output:
// files go through DetectFormat, any other writer gets plain text.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	if format == FormatAuto {
		format = FormatText
		if f, ok := output.(*os.File); ok {
			format = DetectFormat(f)
		}
	}
	ctor, ok := constructors[format]
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidInput, "no renderer for format %s", format)
	}
	return ctor(output)
}

func render(w io.Writer, format Format, fn func(Renderer) error) error {
	r, err := NewRenderer(format, w)
	if err != nil {
		return err
	}
	return fn(r)
}

// RenderFeatures renders an evaluated state together with the evaluation error, if any
func RenderFeatures(w io.Writer, state *features.State, evalErr error, format Format) error {
	return render(w, format, func(r Renderer) error {
		return r.RenderFeatures(view.FromState(state, evalErr))
	})
}

func RenderReport(w io.Writer, report *staticlink.Report, format Format) error {
	return render(w, format, func(r Renderer) error {
		return r.RenderReport(view.FromReport(report))
	})
}

func RenderCache(w io.Writer, path string, c *linkcache.Cache, format Format) error {
	return render(w, format, func(r Renderer) error {
		return r.RenderCache(view.FromCache(path, c))
	})
}
