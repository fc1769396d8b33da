package layout

import (
	"math"

	"github.com/jonathan/resume-layout/internal/fonts"
	"github.com/jonathan/resume-layout/internal/wrap"
)

// Field is one label:value pair to pack, already sanitized
type Field struct {
	ID     string
	Label  string
	Value  string
	URL    string
	IsLink bool
}

// PackedField is a Field measured and placed within its row
type PackedField struct {
	Field
	// LabelLines holds more than one line only when the field is stacked
	LabelLines []string
	ValueLines []string
	LabelWidth float64
	ValueWidth float64
	// Stacked puts the value under the label instead of beside it
	Stacked bool
	// X is the offset from the start of the row
	X      float64
	Width  float64
	Height float64
}

// FieldRow is one row of the packed grid
type FieldRow struct {
	Items  []PackedField
	Height float64
	// Width is the summed item widths plus the gaps between them
	Width float64
}

// PackOptions holds the measurements the packer works with
type PackOptions struct {
	Available  float64
	ValueMax   float64
	ValueMin   float64
	MinGap     float64
	LabelGap   float64
	LineHeight float64
	LabelFont  fonts.FontID
	ValueFont  fonts.FontID
	Size       float64
}

// PackFields measures fields and flows them left to right into rows.
//
// A value is wrapped to the smaller of ValueMax and the room left beside its
// label; when that room is under ValueMin the field is stacked with the
// value below the label. Items join the current row while the row width
// plus the minimum gap plus the item width fits Available. An item that
// cannot share a row is placed alone. Rows of more than one item spread the
// leftover width evenly across the gaps.
func PackFields(fields []Field, opts PackOptions, m fonts.Metrics) ([]FieldRow, error) {
	w := wrap.New(m)

	var rows []FieldRow
	var current FieldRow

	closeRow := func() {
		if len(current.Items) == 0 {
			return
		}
		justify(&current, opts)
		rows = append(rows, current)
		current = FieldRow{}
	}

	for _, f := range fields {
		item, err := measureField(f, opts, m, w)
		if err != nil {
			return nil, err
		}

		if len(current.Items) > 0 && current.Width+opts.MinGap+item.Width > opts.Available {
			closeRow()
		}

		if len(current.Items) > 0 {
			current.Width += opts.MinGap
		}
		item.X = current.Width
		current.Items = append(current.Items, item)
		current.Width += item.Width
		current.Height = math.Max(current.Height, item.Height)
	}
	closeRow()

	return rows, nil
}

// measureField wraps a field and computes its footprint.
func measureField(f Field, opts PackOptions, m fonts.Metrics, w *wrap.Wrapper) (PackedField, error) {
	item := PackedField{Field: f}

	labelWidth := m.WidthOf(f.Label, opts.LabelFont, opts.Size)
	gap := opts.LabelGap
	if f.Label == "" {
		gap = 0
	}

	beside := math.Min(opts.ValueMax, opts.Available-labelWidth-gap)
	if beside >= opts.ValueMin || (f.Label == "" && beside > 0) {
		lines, err := w.Wrap(f.Value, beside, opts.ValueFont, opts.Size)
		if err != nil {
			return item, &LayoutError{Message: "failed to wrap field " + f.ID, Cause: err}
		}
		item.LabelLines = []string{f.Label}
		item.LabelWidth = labelWidth
		item.ValueLines = lines
		item.ValueWidth = w.MaxWidth(lines, opts.ValueFont, opts.Size)
		item.Width = labelWidth + gap + item.ValueWidth
		item.Height = float64(len(lines)) * opts.LineHeight
		return item, nil
	}

	// too little room beside the label
	labelLines, err := w.Wrap(f.Label, opts.Available, opts.LabelFont, opts.Size)
	if err != nil {
		return item, &LayoutError{Message: "failed to wrap field label " + f.ID, Cause: err}
	}
	valueLines, err := w.Wrap(f.Value, math.Min(opts.ValueMax, opts.Available), opts.ValueFont, opts.Size)
	if err != nil {
		return item, &LayoutError{Message: "failed to wrap field " + f.ID, Cause: err}
	}
	item.Stacked = true
	item.LabelLines = labelLines
	item.LabelWidth = w.MaxWidth(labelLines, opts.LabelFont, opts.Size)
	item.ValueLines = valueLines
	item.ValueWidth = w.MaxWidth(valueLines, opts.ValueFont, opts.Size)
	item.Width = math.Max(item.LabelWidth, item.ValueWidth)
	item.Height = float64(len(labelLines)+len(valueLines)) * opts.LineHeight
	return item, nil
}

// justify spreads the leftover width of a row evenly across its gaps.
func justify(row *FieldRow, opts PackOptions) {
	n := len(row.Items)
	if n < 2 {
		return
	}
	leftover := opts.Available - row.Width
	if leftover <= 0 {
		return
	}
	extra := leftover / float64(n-1)
	for i := range row.Items {
		row.Items[i].X += extra * float64(i)
	}
}
