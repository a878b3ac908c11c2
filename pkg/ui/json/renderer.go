// Package json renders featlink views as indented JSON documents, one per call
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/ui/view"
)

// Renderer encodes views for scripts and CI logs
type Renderer struct {
	enc *json.Encoder
}

func New(output io.Writer) (*Renderer, error) {
	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return &Renderer{enc: enc}, nil
}

func (r *Renderer) RenderFeatures(v view.Features) error { return r.enc.Encode(v) }

func (r *Renderer) RenderReport(v view.Report) error { return r.enc.Encode(v) }

func (r *Renderer) RenderCache(v view.Cache) error { return r.enc.Encode(v) }

type errorDoc struct {
	Error   string                 `json:"error"`
	Code    errors.ErrorCode       `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RenderError encodes err with its code and details
func (r *Renderer) RenderError(err error) error {
	return r.enc.Encode(errorDoc{
		Error:   err.Error(),
		Code:    errors.GetErrorCode(err),
		Details: errors.GetErrorDetails(err),
	})
}

func (r *Renderer) RenderMessage(msg string) error {
	return r.enc.Encode(struct {
		Message string `json:"message"`
	}{msg})
}
