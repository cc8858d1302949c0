// Package render projects record collections onto HTML tables. One generic
// renderer serves every kind; per-kind row templates supply the cells.
package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/goelzer/oficina/internal/models"
)

// RowFunc produces the cell values for one record. It may look up related
// records in the snapshot but must not mutate it.
type RowFunc func(rec models.Record, snap *models.Snapshot) []string

// Renderer writes table bodies. It never fails: bad inputs are logged and
// the call becomes a no-op.
type Renderer struct{ log *zap.Logger }

// New creates a renderer.
func New(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log}
}

// Table writes one <tr> per record, in input order, into w. An empty record
// list produces exactly one placeholder row spanning every declared column.
func (r *Renderer) Table(w io.Writer, columns []string, records []models.Record, snap *models.Snapshot, rowFn RowFunc) {
	if w == nil {
		r.log.Warn("render skipped: nil target")
		return
	}
	if len(columns) == 0 {
		r.log.Warn("render skipped: no columns declared")
		return
	}
	if rowFn == nil {
		r.log.Warn("render skipped: no row template")
		return
	}

	if len(records) == 0 {
		fmt.Fprintf(w, `<tr><td colspan="%d" class="empty">Nenhum registro encontrado</td></tr>`+"\n", len(columns))
		return
	}

	for _, rec := range records {
		cells := rowFn(rec, snap)
		var b strings.Builder
		b.WriteString("<tr>")
		for _, cell := range cells {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
		_, _ = io.WriteString(w, b.String())
	}
}

// Header writes the <tr> of column titles.
func (r *Renderer) Header(w io.Writer, columns []string) {
	if w == nil || len(columns) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range columns {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(c))
		b.WriteString("</th>")
	}
	b.WriteString("</tr>\n")
	_, _ = io.WriteString(w, b.String())
}
