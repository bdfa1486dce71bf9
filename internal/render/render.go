// Package render turns parsed templates into positioned geometry ready for
// a rasterizer: it runs the layout engine, flattens the positioned tree
// into document-coordinate boxes, and fans out batches of jobs.
package render

import (
	"context"

	"github.com/xkilldash9x/stencil-cli/api/schemas"
	"github.com/xkilldash9x/stencil-cli/internal/layout"
)

// Rasterizer paints a positioned result onto some output medium. The
// geometry pipeline never paints; implementations live downstream (thermal
// printers, PNG encoders, test doubles).
type Rasterizer interface {
	Rasterize(ctx context.Context, result *schemas.RenderResult) error
}

// Flatten converts a positioned tree into a depth-first list of boxes in
// document coordinates. Parents precede children, so painting the slice in
// order layers correctly. Containers with overflow hidden carry the clip
// flag for the rasterizer; geometry itself is never clipped.
func Flatten(root *layout.LayoutNode) []schemas.RenderBox {
	var boxes []schemas.RenderBox
	flattenInto(&boxes, root, 0, 0, 0)
	return boxes
}

func flattenInto(boxes *[]schemas.RenderBox, ln *layout.LayoutNode, offsetX, offsetY float64, depth int) {
	absX := offsetX + ln.X
	absY := offsetY + ln.Y

	box := schemas.RenderBox{
		Kind:   ln.Node.Kind.String(),
		X:      absX,
		Y:      absY,
		Width:  ln.Width,
		Height: ln.Height,
		Depth:  depth,
	}
	switch ln.Node.Kind {
	case layout.KindText:
		box.Text = ln.Node.Text
	case layout.KindImage:
		box.Source = ln.Node.Source
	case layout.KindBarcode:
		box.Code = ln.Node.Code
		box.Symbology = ln.Node.Symbology
	case layout.KindQR:
		box.Code = ln.Node.Code
	case layout.KindContainer:
		box.Clip = ln.Node.Container.Overflow == layout.OverflowHidden
	}
	*boxes = append(*boxes, box)

	for _, child := range ln.Children {
		flattenInto(boxes, child, absX, absY, depth+1)
	}
}
