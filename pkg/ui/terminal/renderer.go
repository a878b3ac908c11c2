// Package terminal renders featlink views with lipgloss styling
package terminal

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/ui/view"
	"github.com/charmbracelet/lipgloss"
)

// Renderer writes styled output for interactive terminals
type Renderer struct {
	output io.Writer
}

func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderFeatures prints features grouped by evaluation pass
func (r *Renderer) RenderFeatures(v view.Features) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Features") + "\n")

	pass := 0
	for _, f := range v.Features {
		if f.Pass != pass {
			pass = f.Pass
			b.WriteString(dimStyle.Render(fmt.Sprintf("pass %d", pass)) + "\n")
		}

		m, ok := statusMarks[f.Status]
		if !ok {
			m = statusMarks["unresolved"]
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			"  ", m.render(), " ", nameStyle.Render(f.Name), m.style.Render(f.Status))
		if f.Reason != "" {
			line += "  " + dimStyle.Render(f.Reason)
		}
		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "\n%s enabled, %s disabled",
		goodStyle.Render(fmt.Sprint(v.Enabled)),
		dimStyle.Render(fmt.Sprint(v.Disabled)))
	if v.Unresolved > 0 {
		b.WriteString(", " + warnStyle.Render(fmt.Sprintf("%d unresolved", v.Unresolved)))
	}
	b.WriteString("\n")

	if _, err := io.WriteString(r.output, b.String()); err != nil {
		return err
	}
	if v.Error != "" {
		return r.box(v.Error)
	}
	return nil
}

// RenderReport prints each rewritten token with the key it landed in
func (r *Renderer) RenderReport(v view.Report) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Static link rewrite") + "\n")

	for _, t := range v.Tokens {
		static := strings.HasPrefix(t.Target, "STLIB_")
		result := t.Result
		if static {
			result = pathStyle.Render(result)
		}
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			linkMarks[static].render(),
			nameStyle.Render(t.Target),
			result,
			dimStyle.Render("("+t.Class+")"))
	}
	for _, key := range v.Cleared {
		fmt.Fprintf(&b, "  %s %s %s\n", linkMarks[false].render(), nameStyle.Render(key), dimStyle.Render("cleared"))
	}

	fmt.Fprintf(&b, "\n%s static, %s dynamic\n",
		goodStyle.Render(fmt.Sprint(v.Static)),
		dimStyle.Render(fmt.Sprint(v.Dynamic)))
	if v.Backup != "" {
		b.WriteString(dimStyle.Render("backup: ") + pathStyle.Render(v.Backup) + "\n")
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderCache prints cache entries under the cache path
func (r *Renderer) RenderCache(v view.Cache) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Path) + "\n")
	for _, e := range v.Entries {
		fmt.Fprintf(&b, "  %s %s\n", nameStyle.Render(e.Key), e.Display())
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError boxes err and lists its details sorted by key
func (r *Renderer) RenderError(err error) error {
	msg := err.Error()
	details := errors.GetErrorDetails(err)
	if len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg += "\n" + dimStyle.Render(fmt.Sprintf("%s: %v", k, details[k]))
		}
	}
	return r.box(msg)
}

func (r *Renderer) box(msg string) error {
	_, err := fmt.Fprintln(r.output, errorBox.Render(errorTitle.Render("Error")+"\n"+msg))
	return err
}

func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
