package layout

import (
	"math"
	"strings"
)

// TextMeasurer is the pluggable callback used to size text content during
// the intrinsic pass. It receives the text and the effective font size and
// returns the content box the shaped text would occupy.
type TextMeasurer func(text string, fontSize float64) (width, height float64)

// defaultTextMeasurer is the fixed heuristic used when no shaper is
// injected: one line of height fontSize*1.4, with an average advance of
// 0.6em per rune.
func defaultTextMeasurer(text string, fontSize float64) (float64, float64) {
	runes := float64(len([]rune(text)))
	return runes * fontSize * 0.6, fontSize * DefaultLineHeight
}

const (
	// DefaultLineHeight is the multiplier applied to the font size when
	// estimating text height without a shaper.
	DefaultLineHeight = 1.4

	// Content fallbacks for leaves that carry no explicit dimensions.
	// Image and QR content is decoded downstream, so the intrinsic pass
	// only needs a plausible placeholder box.
	defaultImageEdge     = 100.0
	defaultQREdge        = 96.0
	defaultBarcodeWidth  = 120.0
	defaultBarcodeHeight = 48.0
	defaultSeparatorSize = 2.0
)

// IntrinsicSize is a node's natural content range, computed once per
// layout call and immutable thereafter. Two structurally identical nodes
// in different subtrees may measure differently, so the cache is keyed by
// node identity.
type IntrinsicSize struct {
	MinWidth, MaxWidth   float64
	MinHeight, MaxHeight float64
}

// Main returns the (min, max) extent along the given main axis.
func (s IntrinsicSize) Main(horizontal bool) (float64, float64) {
	if horizontal {
		return s.MinWidth, s.MaxWidth
	}
	return s.MinHeight, s.MaxHeight
}

// Cross returns the (min, max) extent across the given main axis.
func (s IntrinsicSize) Cross(horizontal bool) (float64, float64) {
	if horizontal {
		return s.MinHeight, s.MaxHeight
	}
	return s.MinWidth, s.MaxWidth
}

// measureIntrinsic computes the natural size of node, memoized in
// ctx.intrinsics for the duration of one layout call.
func (e *Engine) measureIntrinsic(node *Node, ctx *Context, depth int) (IntrinsicSize, error) {
	if got, ok := ctx.intrinsics[node]; ok {
		return got, nil
	}
	if depth > e.limits.MaxRenderDepth {
		return IntrinsicSize{}, &LimitError{
			Name: "max render depth", Limit: e.limits.MaxRenderDepth, Observed: depth,
		}
	}

	var size IntrinsicSize
	var err error
	if node.Kind == KindContainer {
		size, err = e.measureContainer(node, ctx, depth)
		if err != nil {
			return IntrinsicSize{}, err
		}
	} else {
		size = e.measureLeaf(node, ctx)
	}

	// Margins inflate the contribution a node makes to its ancestors.
	// Percentages cannot resolve before the parent box exists, so the
	// intrinsic pass treats them as zero.
	margin := ParseMarginShorthand(node.Style.Margin, 0, ctx.FontSize)
	size.MinWidth += margin.Horizontal()
	size.MaxWidth += margin.Horizontal()
	size.MinHeight += margin.Vertical()
	size.MaxHeight += margin.Vertical()

	ctx.intrinsics[node] = size
	return size, nil
}

// measureLeaf estimates a leaf's box. Box sizes are padding-inclusive
// throughout the engine, so the variant estimate is inflated by the leaf's
// own padding while an explicit absolute dimension wins as-is.
func (e *Engine) measureLeaf(node *Node, ctx *Context) IntrinsicSize {
	minW, maxW, minH, maxH := e.estimateContent(node, ctx)

	pad := ParseSidesShorthand(node.Style.Padding, 0, ctx.FontSize)
	minW += pad.Horizontal()
	maxW += pad.Horizontal()
	minH += pad.Vertical()
	maxH += pad.Vertical()

	if w, ok := resolveAbsoluteLength(node.Style.Width, ctx.FontSize); ok {
		minW, maxW = w, w
	}
	if h, ok := resolveAbsoluteLength(node.Style.Height, ctx.FontSize); ok {
		minH, maxH = h, h
	}
	return IntrinsicSize{
		MinWidth: math.Max(0, minW), MaxWidth: math.Max(0, maxW),
		MinHeight: math.Max(0, minH), MaxHeight: math.Max(0, maxH),
	}
}

func (e *Engine) estimateContent(node *Node, ctx *Context) (minW, maxW, minH, maxH float64) {
	switch node.Kind {
	case KindText:
		maxW, maxH = e.measure(node.Text, ctx.FontSize)
		minW = maxW
		// The narrowest useful text box is the widest single word.
		if words := strings.Fields(node.Text); len(words) > 1 {
			minW = 0
			for _, w := range words {
				ww, _ := e.measure(w, ctx.FontSize)
				minW = math.Max(minW, ww)
			}
		}
		minH = maxH
	case KindImage:
		minW, maxW = defaultImageEdge, defaultImageEdge
		minH, maxH = defaultImageEdge, defaultImageEdge
	case KindQR:
		minW, maxW = defaultQREdge, defaultQREdge
		minH, maxH = defaultQREdge, defaultQREdge
	case KindBarcode:
		minW, maxW = defaultBarcodeWidth, defaultBarcodeWidth
		minH, maxH = defaultBarcodeHeight, defaultBarcodeHeight
	case KindSeparator:
		minW, maxW = defaultSeparatorSize, defaultSeparatorSize
		minH, maxH = defaultSeparatorSize, defaultSeparatorSize
	}
	return minW, maxW, minH, maxH
}

// measureContainer aggregates visible, in-flow children: main axis as a
// sum, cross axis as a max, plus gaps between visible children. Hidden
// (display:none) and out-of-flow (position:absolute) children contribute
// nothing, so they never inflate an auto-sized ancestor.
func (e *Engine) measureContainer(node *Node, ctx *Context, depth int) (IntrinsicSize, error) {
	horizontal := node.Container.Direction.IsRow()
	mainGap, _ := containerGaps(node, 0, ctx.FontSize)

	var size IntrinsicSize
	visible := 0
	for _, child := range node.Children {
		if child.Style.Display == DisplayNone {
			continue
		}
		cs, err := e.measureIntrinsic(child, ctx, depth+1)
		if err != nil {
			return IntrinsicSize{}, err
		}
		// Out-of-flow children still need their own measurement on record
		// for later sizing fallbacks, but contribute nothing here.
		if child.Style.Position == PositionAbsolute {
			continue
		}
		visible++

		cMinMain, cMaxMain := cs.Main(horizontal)
		cMinCross, cMaxCross := cs.Cross(horizontal)
		if horizontal {
			size.MinWidth += cMinMain
			size.MaxWidth += cMaxMain
			size.MinHeight = math.Max(size.MinHeight, cMinCross)
			size.MaxHeight = math.Max(size.MaxHeight, cMaxCross)
		} else {
			size.MinHeight += cMinMain
			size.MaxHeight += cMaxMain
			size.MinWidth = math.Max(size.MinWidth, cMinCross)
			size.MaxWidth = math.Max(size.MaxWidth, cMaxCross)
		}
	}

	if visible > 1 {
		total := mainGap * float64(visible-1)
		if horizontal {
			size.MinWidth += total
			size.MaxWidth += total
		} else {
			size.MinHeight += total
			size.MaxHeight += total
		}
	}

	pad := ParseSidesShorthand(node.Style.Padding, 0, ctx.FontSize)
	size.MinWidth += pad.Horizontal()
	size.MaxWidth += pad.Horizontal()
	size.MinHeight += pad.Vertical()
	size.MaxHeight += pad.Vertical()

	// An explicit absolute dimension on the container itself overrides
	// the aggregate on that axis.
	if w, ok := resolveAbsoluteLength(node.Style.Width, ctx.FontSize); ok {
		size.MinWidth, size.MaxWidth = w, w
	}
	if h, ok := resolveAbsoluteLength(node.Style.Height, ctx.FontSize); ok {
		size.MinHeight, size.MaxHeight = h, h
	}
	return size, nil
}

// resolveAbsoluteLength resolves px/em/bare tokens only. Percentages need
// a finalized parent box and therefore do not count as explicit sizes
// during the intrinsic pass.
func resolveAbsoluteLength(raw string, fontSize float64) (float64, bool) {
	if strings.HasSuffix(normalize(raw), "%") {
		return 0, false
	}
	return ResolveLength(raw, 0, fontSize)
}

// containerGaps resolves the container's main and cross (line) gaps.
// Gap seeds both axes; row-gap/column-gap override per axis.
func containerGaps(node *Node, parentSize, fontSize float64) (mainGap, crossGap float64) {
	resolve := func(raw string, fallback float64) float64 {
		v, ok := ResolveLength(raw, parentSize, fontSize)
		if !ok {
			return fallback
		}
		return math.Max(0, v)
	}

	base := resolve(node.Container.Gap, 0)
	row := resolve(node.Container.RowGap, base)
	col := resolve(node.Container.ColumnGap, base)

	if node.Container.Direction.IsRow() {
		return col, row
	}
	return row, col
}
