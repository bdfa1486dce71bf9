package layout

import "math"

// Aspect ratio applies to the content box: padding is peeled off the known
// dimension, the ratio derives the other content extent, and the derived
// box gets its own padding back. Margins never participate.

func deriveWidthFromHeight(h, r float64, pad Sides) float64 {
	content := math.Max(0, h-pad.Vertical())
	return content*r + pad.Horizontal()
}

func deriveHeightFromWidth(w, r float64, pad Sides) float64 {
	content := math.Max(0, w-pad.Horizontal())
	return content/r + pad.Vertical()
}

// deriveAspectMain derives the main-axis size from a known cross size.
func deriveAspectMain(cross, r float64, horizontal bool, pad Sides) float64 {
	if horizontal {
		return deriveWidthFromHeight(cross, r, pad)
	}
	return deriveHeightFromWidth(cross, r, pad)
}

// applyAspectToItem fires the post-main-flex aspect point: once the solver
// fixed the item's main size, an unset cross dimension with a ratio
// derives from it. A later cross-axis stretch may still overwrite the
// result; whichever fires last wins.
func applyAspectToItem(it *flexItem, horizontal bool) {
	r := it.node.Style.AspectRatio
	if r <= 0 || it.crossExplicit {
		return
	}
	var cross float64
	if horizontal {
		cross = deriveHeightFromWidth(it.size, r, it.padding)
	} else {
		cross = deriveWidthFromHeight(it.size, r, it.padding)
	}
	it.crossSize = ClampSize(cross, it.crossMin, it.crossMax)
	it.crossFromAspect = true
}

// layoutAbsolute sizes and positions one out-of-flow child after flow
// layout has finished. The child was excluded from basis computation, line
// breaking, flex distribution, and intrinsic aggregation; its geometry
// derives purely from its own attributes, the container box, and the
// container's alignment as a static-position fallback.
func (e *Engine) layoutAbsolute(node *Node, ln *LayoutNode, parent *Node, parentLN *LayoutNode, ctx *Context) {
	containerW, containerH := parentLN.Width, parentLN.Height
	pad := ParseSidesShorthand(parent.Style.Padding, containerW, ctx.FontSize)
	contentW := math.Max(0, containerW-pad.Horizontal())
	contentH := math.Max(0, containerH-pad.Vertical())

	style := node.Style
	margin := ParseMarginShorthand(style.Margin, contentW, ctx.FontSize)
	ownPad := ParseSidesShorthand(style.Padding, contentW, ctx.FontSize)
	minW, maxW, minH, maxH := resolveMinMax(style, contentW, contentH, ctx.FontSize)

	left, hasLeft := ResolveLength(style.Left, containerW, ctx.FontSize)
	right, hasRight := ResolveLength(style.Right, containerW, ctx.FontSize)
	top, hasTop := ResolveLength(style.Top, containerH, ctx.FontSize)
	bottom, hasBottom := ResolveLength(style.Bottom, containerH, ctx.FontSize)

	width, hasWidth := ResolveLength(style.Width, contentW, ctx.FontSize)
	height, hasHeight := ResolveLength(style.Height, contentH, ctx.FontSize)

	// Opposing insets with no explicit dimension pin both edges and derive
	// the dimension from what is left between them.
	if !hasWidth && hasLeft && hasRight {
		width = math.Max(0, containerW-pad.Horizontal()-left-right)
		hasWidth = true
	}
	if !hasHeight && hasTop && hasBottom {
		height = math.Max(0, containerH-pad.Vertical()-top-bottom)
		hasHeight = true
	}

	if r := style.AspectRatio; r > 0 {
		if hasWidth && !hasHeight {
			height = deriveHeightFromWidth(width, r, ownPad)
			hasHeight = true
		} else if hasHeight && !hasWidth {
			width = deriveWidthFromHeight(height, r, ownPad)
			hasWidth = true
		}
	}

	intrinsic := ctx.intrinsics[node]
	if !hasWidth {
		width = math.Max(0, intrinsic.MaxWidth-margin.Horizontal())
	}
	if !hasHeight {
		height = math.Max(0, intrinsic.MaxHeight-margin.Vertical())
	}

	ln.Width = ClampSize(math.Max(0, width), minW, maxW)
	ln.Height = ClampSize(math.Max(0, height), minH, maxH)

	horizontal := parent.Container.Direction.IsRow()
	crossReverse := parent.Container.Wrap == WrapReverse

	switch {
	case hasLeft:
		ln.X = pad.Left + left + margin.Left
	case hasRight:
		ln.X = containerW - pad.Right - right - ln.Width - margin.Right
	default:
		ln.X = pad.Left + margin.Left + e.staticOffset(node, parent, contentW, ln.Width+margin.Horizontal(), horizontal, crossReverse)
	}

	switch {
	case hasTop:
		ln.Y = pad.Top + top + margin.Top
	case hasBottom:
		ln.Y = containerH - pad.Bottom - bottom - ln.Height - margin.Bottom
	default:
		ln.Y = pad.Top + margin.Top + e.staticOffset(node, parent, contentH, ln.Height+margin.Vertical(), !horizontal, crossReverse)
	}
}

// staticOffset resolves the fallback position on one axis of an absolute
// child with no insets there: the parent's justify-content on its main
// axis, align-items/align-self on its cross axis, the latter inverted for
// wrap-reverse.
func (e *Engine) staticOffset(node *Node, parent *Node, available, outer float64, isMainAxis, crossReverse bool) float64 {
	free := available - outer

	if isMainAxis {
		switch parent.Container.Justify {
		case JustifyCenter, JustifySpaceAround, JustifySpaceEvenly:
			return free / 2
		case JustifyEnd:
			return free
		default:
			return 0
		}
	}

	align := resolveAlign(node.Style.AlignSelf, parent.Container.AlignItems)
	offset := 0.0
	switch align {
	case AlignItemsCenter:
		offset = free / 2
	case AlignItemsEnd:
		offset = free
	}
	if crossReverse {
		offset = free - offset
	}
	return offset
}

// applyRelativeOffset nudges an in-flow relative item after its normal
// position is known: left wins over right, top over bottom, both additive.
// Siblings are unaffected.
func applyRelativeOffset(node *Node, ln *LayoutNode, containerW, containerH, fontSize float64) {
	if node.Style.Position != PositionRelative {
		return
	}
	if v, ok := ResolveLength(node.Style.Left, containerW, fontSize); ok {
		ln.X += v
	} else if v, ok := ResolveLength(node.Style.Right, containerW, fontSize); ok {
		ln.X -= v
	}
	if v, ok := ResolveLength(node.Style.Top, containerH, fontSize); ok {
		ln.Y += v
	} else if v, ok := ResolveLength(node.Style.Bottom, containerH, fontSize); ok {
		ln.Y -= v
	}
}
