// Package layout computes element geometry for a tree of typed content
// nodes prior to rasterization. It implements the core subset of the CSS
// flexible box model: basis/grow/shrink resolution with iterative freezing,
// multi-line wrapping, content alignment, absolute/relative positioning,
// aspect ratios, and auto margins.
//
// The engine is re-entrant and holds no mutable state between calls; one
// call over one tree produces one positioned tree. All per-call inputs
// (container size, font size, limits) travel explicitly.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// Limits are the engine's only defense against pathological or adversarial
// input causing unbounded work or stack exhaustion. Violations abort the
// layout call with a LimitError; they are never retried internally.
type Limits struct {
	// MaxNestingDepth bounds container-in-container nesting in pass 2.
	MaxNestingDepth int
	// MaxFlexLines bounds the number of lines one wrapping container may
	// produce.
	MaxFlexLines int
	// MaxRenderDepth bounds total tree depth in the intrinsic pass.
	MaxRenderDepth int
}

// DefaultLimits returns the limits applied when a zero value is injected.
func DefaultLimits() Limits {
	return Limits{
		MaxNestingDepth: 64,
		MaxFlexLines:    1024,
		MaxRenderDepth:  256,
	}
}

// LimitError reports a resource-limit violation, carrying the configured
// limit and the observed value.
type LimitError struct {
	Name     string
	Limit    int
	Observed int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("layout: %s exceeded: limit %d, observed %d", e.Name, e.Limit, e.Observed)
}

// Context is the read-only per-call bundle threaded through both passes.
// It is never mutated during pass 2; the intrinsic cache is filled once in
// pass 1 and only read afterwards.
type Context struct {
	Width, Height float64
	FontSize      float64

	intrinsics map[*Node]IntrinsicSize
}

// LayoutNode is the positioned output tree. Coordinates are relative to
// the parent's top-left corner; sizes include the node's own padding.
type LayoutNode struct {
	Node     *Node
	X, Y     float64
	Width    float64
	Height   float64
	Children []*LayoutNode

	// Auto-sized axes may be back-filled after the node's own children
	// are laid out.
	autoWidth, autoHeight bool
}

// Engine runs the two-pass layout. It is safe for concurrent use;
// independent calls share nothing but the injected read-only limits.
type Engine struct {
	limits  Limits
	measure TextMeasurer
}

// Option customizes an Engine.
type Option func(*Engine)

// WithTextMeasurer plugs in a text shaper for the intrinsic pass. Without
// one, a fixed heuristic substitutes.
func WithTextMeasurer(m TextMeasurer) Option {
	return func(e *Engine) {
		if m != nil {
			e.measure = m
		}
	}
}

// NewEngine builds an engine with the given resource limits. Zero limit
// fields fall back to DefaultLimits.
func NewEngine(limits Limits, opts ...Option) *Engine {
	def := DefaultLimits()
	if limits.MaxNestingDepth <= 0 {
		limits.MaxNestingDepth = def.MaxNestingDepth
	}
	if limits.MaxFlexLines <= 0 {
		limits.MaxFlexLines = def.MaxFlexLines
	}
	if limits.MaxRenderDepth <= 0 {
		limits.MaxRenderDepth = def.MaxRenderDepth
	}

	e := &Engine{limits: limits, measure: defaultTextMeasurer}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout produces the positioned tree for root inside a container of the
// given size. A non-positive width or height means auto: the root takes
// its intrinsic extent on that axis and back-fills after its children are
// laid out. Layout is deterministic and idempotent; a failure recurs
// identically on retry, so callers must fix the input rather than
// re-invoke.
func (e *Engine) Layout(root *Node, width, height, fontSize float64) (*LayoutNode, error) {
	if root == nil {
		return nil, errors.New("layout: nil root node")
	}
	if fontSize <= 0 {
		return nil, fmt.Errorf("layout: font size must be positive, got %g", fontSize)
	}

	ctx := &Context{
		Width:      width,
		Height:     height,
		FontSize:   fontSize,
		intrinsics: make(map[*Node]IntrinsicSize),
	}

	// Pass 1: intrinsic measurement, bottom-up.
	if _, err := e.measureIntrinsic(root, ctx, 1); err != nil {
		return nil, err
	}

	ln := &LayoutNode{Node: root}
	intrinsic := ctx.intrinsics[root]
	rootMargin := ParseMarginShorthand(root.Style.Margin, 0, fontSize)
	if width > 0 {
		ln.Width = width
	} else {
		ln.Width = math.Max(0, intrinsic.MaxWidth-rootMargin.Horizontal())
		ln.autoWidth = true
	}
	if height > 0 {
		ln.Height = height
	} else {
		ln.Height = math.Max(0, intrinsic.MaxHeight-rootMargin.Vertical())
		ln.autoHeight = true
	}

	// Pass 2: top-down box resolution.
	if root.Kind == KindContainer {
		if err := e.layoutChildren(root, ln, ctx, 1); err != nil {
			return nil, err
		}
	}
	return ln, nil
}

// layoutChildren resolves one container's children: partitioning, basis
// resolution, line breaking, flexible-length resolution, justification,
// cross alignment, direction/wrap reversal, then out-of-flow children.
// The scratch flexItem and flexLine state is scoped to this call.
func (e *Engine) layoutChildren(parent *Node, parentLN *LayoutNode, ctx *Context, depth int) error {
	if depth > e.limits.MaxNestingDepth {
		return &LimitError{
			Name: "max nesting depth", Limit: e.limits.MaxNestingDepth, Observed: depth,
		}
	}

	horizontal := parent.Container.Direction.IsRow()
	crossReverse := parent.Container.Wrap == WrapReverse

	pad := ParseSidesShorthand(parent.Style.Padding, parentLN.Width, ctx.FontSize)
	contentW := math.Max(0, parentLN.Width-pad.Horizontal())
	contentH := math.Max(0, parentLN.Height-pad.Vertical())
	contentMain := contentH
	if horizontal {
		contentMain = contentW
	}
	mainGap, crossGap := containerGaps(parent, contentMain, ctx.FontSize)

	// Partition children. Hidden nodes generate no box at all; absolute
	// nodes get a box but stay out of every flow computation.
	var items []*flexItem
	type absChild struct {
		node *Node
		ln   *LayoutNode
	}
	var absolutes []absChild
	for _, child := range parent.Children {
		if child.Style.Display == DisplayNone {
			continue
		}
		cln := &LayoutNode{Node: child}
		parentLN.Children = append(parentLN.Children, cln)

		if child.Style.Position == PositionAbsolute {
			absolutes = append(absolutes, absChild{node: child, ln: cln})
			continue
		}
		it, err := e.buildFlexItem(child, cln, ctx, horizontal, contentW, contentH, contentMain)
		if err != nil {
			return err
		}
		items = append(items, it)
	}

	if len(items) > 0 {
		var lines []*flexLine
		var err error
		if parent.Container.Wrap == WrapNone {
			lines = []*flexLine{{items: items}}
		} else {
			lines, err = e.breakLines(items, contentMain, mainGap)
			if err != nil {
				return err
			}
		}

		for _, line := range lines {
			marginsAndGaps := mainGap * float64(len(line.items)-1)
			for _, it := range line.items {
				marginsAndGaps += it.mainMarginTotal()
			}
			resolveFlexibleLengths(line.items, contentMain-marginsAndGaps)

			for _, it := range line.items {
				applyAspectToItem(it, horizontal)
				if !it.crossExplicit && !it.crossFromAspect {
					// Provisional content-driven cross size; a stretch
					// alignment may replace it below.
					_, maxCross := it.intrinsic.Cross(horizontal)
					it.crossSize = ClampSize(
						math.Max(0, maxCross-it.margin.Cross(horizontal)),
						it.crossMin, it.crossMax,
					)
				}
			}
		}
		measureLineCross(lines, horizontal)

		// Back-fill auto-sized container axes now that line extents are
		// known, so justification and alignment see the final box.
		linesCross := crossGap * float64(len(lines)-1)
		linesMain := 0.0
		for _, line := range lines {
			linesCross += line.crossSize
			consumed := mainGap * float64(len(line.items)-1)
			for _, it := range line.items {
				consumed += it.outerMain()
			}
			linesMain = math.Max(linesMain, consumed)
		}
		if autoOnAxis(parentLN, horizontal) {
			setMainDim(parentLN, horizontal, linesMain+pad.Main(horizontal))
		}
		if autoOnAxis(parentLN, !horizontal) {
			setCrossDim(parentLN, horizontal, linesCross+pad.Cross(horizontal))
		}
		contentW = math.Max(0, parentLN.Width-pad.Horizontal())
		contentH = math.Max(0, parentLN.Height-pad.Vertical())
		contentMain = contentH
		contentCross := contentW
		if horizontal {
			contentMain = contentW
			contentCross = contentH
		}

		if parent.Container.Wrap == WrapNone {
			// A single non-wrapped line always spans the full content
			// cross size.
			lines[0].crossSize = contentCross
			lines[0].crossStart = pad.CrossStart(horizontal)
		} else {
			placeLinesCross(lines, parent.Container.AlignContent, contentCross, pad.CrossStart(horizontal), crossGap, crossReverse)
		}

		for _, line := range lines {
			placeLineMain(line.items, parent.Container.Justify, contentMain, pad.MainStart(horizontal), mainGap, horizontal)
			for _, it := range line.items {
				placeItemCross(it, line.crossStart, line.crossSize, parent.Container.AlignItems, horizontal)
			}
		}

		// Reverse direction mirrors main-axis positions; wrap-reverse
		// mirrors cross-axis positions. Both flips use the full container
		// dimension since positions already embed the leading padding.
		fullMain := parentLN.Height
		fullCross := parentLN.Width
		if horizontal {
			fullMain = parentLN.Width
			fullCross = parentLN.Height
		}
		for _, it := range flattenItems(lines) {
			if parent.Container.Direction.IsReverse() {
				it.mainPos = fullMain - it.mainPos - it.size
			}
			if crossReverse {
				it.crossPos = fullCross - it.crossPos - it.crossSize
			}

			if horizontal {
				it.ln.X, it.ln.Y = it.mainPos, it.crossPos
				it.ln.Width, it.ln.Height = it.size, it.crossSize
			} else {
				it.ln.X, it.ln.Y = it.crossPos, it.mainPos
				it.ln.Width, it.ln.Height = it.crossSize, it.size
			}

			// The main axis is always flex-resolved; only a cross axis
			// that was neither explicit nor stretched stays auto for
			// back-fill inside the child.
			stretched := resolveAlign(it.node.Style.AlignSelf, parent.Container.AlignItems) == AlignItemsStretch
			autoCross := !it.crossExplicit && !it.crossFromAspect && !stretched
			if horizontal {
				it.ln.autoHeight = autoCross
			} else {
				it.ln.autoWidth = autoCross
			}
		}

		for _, it := range flattenItems(lines) {
			if it.node.Kind == KindContainer {
				if err := e.layoutChildren(it.node, it.ln, ctx, depth+1); err != nil {
					return err
				}
			}
			applyRelativeOffset(it.node, it.ln, parentLN.Width, parentLN.Height, ctx.FontSize)
		}
	}

	for _, abs := range absolutes {
		e.layoutAbsolute(abs.node, abs.ln, parent, parentLN, ctx)
		if abs.node.Kind == KindContainer {
			if err := e.layoutChildren(abs.node, abs.ln, ctx, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func flattenItems(lines []*flexLine) []*flexItem {
	if len(lines) == 1 {
		return lines[0].items
	}
	var all []*flexItem
	for _, line := range lines {
		all = append(all, line.items...)
	}
	return all
}

func autoOnAxis(ln *LayoutNode, horizontal bool) bool {
	if horizontal {
		return ln.autoWidth
	}
	return ln.autoHeight
}

func setMainDim(ln *LayoutNode, horizontal bool, v float64) {
	if horizontal {
		ln.Width = v
	} else {
		ln.Height = v
	}
}

func setCrossDim(ln *LayoutNode, horizontal bool, v float64) {
	if horizontal {
		ln.Height = v
	} else {
		ln.Width = v
	}
}
