// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/featlink/pkg/ui/view"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderFeatures prints one feature per line
func (r *Renderer) RenderFeatures(v view.Features) error {
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	for _, f := range v.Features {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Status, f.Reason); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(r.output, "\n%d enabled, %d disabled, %d unresolved\n", v.Enabled, v.Disabled, v.Unresolved)
	if err != nil {
		return err
	}
	if v.Error != "" {
		return r.RenderMessage("error: " + v.Error)
	}
	return nil
}

// RenderReport prints one rewritten token per line
func (r *Renderer) RenderReport(v view.Report) error {
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	for _, t := range v.Tokens {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Target, t.Token, t.Class, t.Result); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(v.Cleared) > 0 {
		if _, err := fmt.Fprintf(r.output, "cleared: %s\n", strings.Join(v.Cleared, ", ")); err != nil {
			return err
		}
	}
	if v.Backup != "" {
		if _, err := fmt.Fprintf(r.output, "backup: %s\n", v.Backup); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(r.output, "%d static, %d dynamic\n", v.Static, v.Dynamic)
	return err
}

// RenderCache prints the cache in its on-disk form
func (r *Renderer) RenderCache(v view.Cache) error {
	for _, e := range v.Entries {
		if _, err := fmt.Fprintf(r.output, "%s = %s\n", e.Key, e.Display()); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, writeErr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return writeErr
}

// RenderMessage renders a simple message as plain text
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
