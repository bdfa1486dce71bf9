package layout

import (
	"fmt"
	"math"
)

// sizeEpsilon bounds the numeric noise tolerated by the freeze loop and by
// geometry assertions downstream.
const sizeEpsilon = 0.001

// flexItem is the per-child scratch state for one container resolution.
// Instances live in a slice scoped to a single layoutChildren call and are
// discarded as soon as the container's geometry is final.
type flexItem struct {
	node *Node
	ln   *LayoutNode

	margin  Margins
	padding Sides

	intrinsic IntrinsicSize

	basis        float64
	min, max     float64 // main-axis constraints
	mainExplicit bool

	crossMin, crossMax float64
	crossExplicit      bool
	crossFromAspect    bool

	size      float64 // resolved main size
	frozen    bool
	crossSize float64

	// Effective main margins after auto-margin distribution.
	marginMainStart, marginMainEnd float64

	mainPos, crossPos float64 // parent-relative, set during placement
}

// mainMarginTotal is the space the item's main-axis margins consume,
// counting unresolved auto margins as zero.
func (it *flexItem) mainMarginTotal() float64 {
	return it.marginMainStart + it.marginMainEnd
}

// outerMain is the item's full main-axis footprint.
func (it *flexItem) outerMain() float64 {
	return it.size + it.mainMarginTotal()
}

// outerCross is the item's full cross-axis footprint.
func (it *flexItem) outerCross(horizontal bool) float64 {
	return it.crossSize + it.margin.Cross(horizontal)
}

// buildFlexItem resolves the per-item inputs the solver needs: spacing,
// flex basis, and min/max constraints on both axes.
func (e *Engine) buildFlexItem(node *Node, ln *LayoutNode, ctx *Context, horizontal bool, contentW, contentH, mainAvail float64) (*flexItem, error) {
	if node.Style.Grow < 0 {
		return nil, fmt.Errorf("layout: negative flex grow %g on %s node", node.Style.Grow, node.Kind)
	}
	if node.Style.Shrink < 0 {
		return nil, fmt.Errorf("layout: negative flex shrink %g on %s node", node.Style.Shrink, node.Kind)
	}

	it := &flexItem{
		node:    node,
		ln:      ln,
		margin:  ParseMarginShorthand(node.Style.Margin, contentW, ctx.FontSize),
		padding: ParseSidesShorthand(node.Style.Padding, contentW, ctx.FontSize),
	}
	it.marginMainStart = it.margin.MainStart(horizontal)
	it.marginMainEnd = it.margin.MainEnd(horizontal)
	it.intrinsic = ctx.intrinsics[node]

	minW, maxW, minH, maxH := resolveMinMax(node.Style, contentW, contentH, ctx.FontSize)
	if horizontal {
		it.min, it.max = minW, maxW
		it.crossMin, it.crossMax = minH, maxH
	} else {
		it.min, it.max = minH, maxH
		it.crossMin, it.crossMax = minW, maxW
	}

	crossRaw := node.Style.Width
	crossAvail := contentW
	if horizontal {
		crossRaw = node.Style.Height
		crossAvail = contentH
	}
	if v, ok := ResolveLength(crossRaw, crossAvail, ctx.FontSize); ok {
		it.crossSize = ClampSize(math.Max(0, v), it.crossMin, it.crossMax)
		it.crossExplicit = true
	}

	it.basis, it.mainExplicit = resolveFlexBasis(it, ctx, horizontal, mainAvail)

	return it, nil
}

// resolveFlexBasis picks the item's hypothetical main size in priority
// order: explicit basis, explicit main-axis dimension, intrinsic content
// size. The margin box of content never collapses below the item's own
// main-axis padding. The second return reports whether the main dimension
// was explicitly given.
func resolveFlexBasis(it *flexItem, ctx *Context, horizontal bool, mainAvail float64) (float64, bool) {
	style := it.node.Style

	mainRaw := style.Width
	if !horizontal {
		mainRaw = style.Height
	}
	explicitMain, hasMain := ResolveLength(mainRaw, mainAvail, ctx.FontSize)

	basis := math.NaN()
	if v, ok := ResolveLength(style.Basis, mainAvail, ctx.FontSize); ok {
		basis = v
	} else if hasMain {
		basis = explicitMain
	} else if r := style.AspectRatio; r > 0 && it.crossExplicit {
		// Explicit-dimension aspect point: a lone explicit cross
		// dimension plus a ratio fixes the hypothetical main size.
		basis = deriveAspectMain(it.crossSize, r, horizontal, it.padding)
	} else {
		_, basis = it.intrinsic.Main(horizontal)
		// Intrinsic sizes include the item's own margins; the basis is a
		// content+padding measure.
		basis -= it.margin.Main(horizontal)
	}

	basis = math.Max(basis, it.padding.Main(horizontal))
	return math.Max(0, basis), hasMain
}

// resolveMinMax resolves the four min/max constraints against the parent
// content box. Unset or unparsable bounds default to 0 and +Inf.
func resolveMinMax(style ItemStyle, parentW, parentH, fontSize float64) (minW, maxW, minH, maxH float64) {
	maxW, maxH = math.Inf(1), math.Inf(1)
	if v, ok := ResolveLength(style.MinWidth, parentW, fontSize); ok {
		minW = math.Max(0, v)
	}
	if v, ok := ResolveLength(style.MaxWidth, parentW, fontSize); ok {
		maxW = math.Max(0, v)
	}
	if v, ok := ResolveLength(style.MinHeight, parentH, fontSize); ok {
		minH = math.Max(0, v)
	}
	if v, ok := ResolveLength(style.MaxHeight, parentH, fontSize); ok {
		maxH = math.Max(0, v)
	}
	return minW, maxW, minH, maxH
}

// resolveFlexibleLengths distributes free space over one line with the
// iterative freeze scheme. available is the main-axis space left for item
// content after gaps and margins. The sign of the initial free space fixes
// the mode for the whole resolution; each round recomputes the unfrozen
// free space, distributes it by grow or scaled-shrink factors, clamps, and
// freezes items whose constraints overrode their share. Cascading freezes
// converge within item_count+1 rounds.
func resolveFlexibleLengths(items []*flexItem, available float64) {
	for _, it := range items {
		it.size = ClampSize(it.basis, it.min, it.max)
		it.frozen = false
	}

	initialFree := available
	for _, it := range items {
		initialFree -= it.basis
	}
	growing := initialFree > sizeEpsilon
	shrinking := initialFree < -sizeEpsilon
	if !growing && !shrinking {
		return
	}

	for round := 0; round <= len(items); round++ {
		unfrozenFree := available
		for _, it := range items {
			if it.frozen {
				unfrozenFree -= it.size
			} else {
				unfrozenFree -= it.basis
			}
		}

		total := 0.0
		for _, it := range items {
			if it.frozen {
				continue
			}
			if growing {
				total += it.node.Style.Grow
			} else {
				total += it.node.Style.Shrink * it.basis
			}
		}
		if total <= 0 {
			break
		}
		// Fractional factors summing below one distribute only that
		// fraction of the free space instead of silently dropping it.
		if total < 1 {
			total = 1
		}

		froze := false
		for _, it := range items {
			if it.frozen {
				continue
			}
			factor := it.node.Style.Grow
			if shrinking {
				factor = it.node.Style.Shrink * it.basis
			}

			hypothetical := it.basis
			if factor > 0 {
				hypothetical = it.basis + unfrozenFree*factor/total
			}

			clamped := ClampSize(math.Max(0, hypothetical), it.min, it.max)
			it.size = clamped
			if math.Abs(clamped-hypothetical) > sizeEpsilon {
				it.frozen = true
				froze = true
			}
		}

		if !froze {
			break
		}
	}
}

// placeLineMain resolves main-axis positions for one line. Auto margins,
// when present, take the whole justification step: they split any
// non-negative free space equally among themselves and justify-content is
// skipped.
func placeLineMain(items []*flexItem, justify Justify, available, padStart, gap float64, horizontal bool) {
	used := gap * float64(len(items)-1)
	autoCount := 0
	for _, it := range items {
		used += it.outerMain()
		autoCount += it.margin.autoMainCount(horizontal)
	}
	free := available - used

	lead, between := 0.0, 0.0
	if autoCount > 0 {
		share := 0.0
		if free > 0 {
			share = free / float64(autoCount)
		}
		for _, it := range items {
			if it.margin.AutoMainStart(horizontal) {
				it.marginMainStart = share
			}
			if it.margin.AutoMainEnd(horizontal) {
				it.marginMainEnd = share
			}
		}
	} else {
		lead, between = justifyOffsets(justify, free, len(items))
	}

	cursor := padStart + lead
	for i, it := range items {
		if i > 0 {
			cursor += gap + between
		}
		cursor += it.marginMainStart
		it.mainPos = cursor
		cursor += it.size + it.marginMainEnd
	}
}

// justifyOffsets translates a justify mode and free space into a leading
// offset and inter-item spacing. When free space is negative the three
// distribution modes degrade to start; center and end still apply and may
// overflow the container.
func justifyOffsets(justify Justify, free float64, count int) (lead, between float64) {
	if free < 0 {
		switch justify {
		case JustifyCenter:
			return free / 2, 0
		case JustifyEnd:
			return free, 0
		default:
			return 0, 0
		}
	}

	switch justify {
	case JustifyCenter:
		return free / 2, 0
	case JustifyEnd:
		return free, 0
	case JustifySpaceBetween:
		if count > 1 {
			return 0, free / float64(count-1)
		}
		return 0, 0
	case JustifySpaceAround:
		if count > 0 {
			between = free / float64(count)
			return between / 2, between
		}
		return free / 2, 0
	case JustifySpaceEvenly:
		if count > 0 {
			between = free / float64(count+1)
			return between, between
		}
		return free / 2, 0
	default:
		return 0, 0
	}
}

// placeItemCross aligns one item inside its line. Auto align-self falls
// back to the container's align-items; baseline degrades to start since
// the engine carries no font metrics. Stretch sizes an item without an
// explicit cross dimension to the line, within its own constraints, and
// re-derives the opposite dimension when an aspect ratio is set and the
// main dimension was not explicit.
func placeItemCross(it *flexItem, lineStart, lineCross float64, alignItems AlignItems, horizontal bool) {
	align := resolveAlign(it.node.Style.AlignSelf, alignItems)

	inner := lineCross - it.margin.Cross(horizontal)

	if align == AlignItemsStretch && !it.crossExplicit {
		stretched := ClampSize(math.Max(0, inner), it.crossMin, it.crossMax)
		it.crossSize = stretched
		if r := it.node.Style.AspectRatio; r > 0 && !it.mainExplicit {
			it.size = ClampSize(deriveAspectMain(stretched, r, horizontal, it.padding), it.min, it.max)
		}
		it.crossPos = lineStart + it.margin.CrossStart(horizontal)
		return
	}

	free := inner - it.crossSize
	offset := 0.0
	switch align {
	case AlignItemsCenter:
		offset = free / 2
	case AlignItemsEnd:
		offset = free
	}
	it.crossPos = lineStart + it.margin.CrossStart(horizontal) + offset
}

func resolveAlign(self AlignSelf, containerDefault AlignItems) AlignItems {
	switch self {
	case AlignSelfStretch:
		return AlignItemsStretch
	case AlignSelfStart:
		return AlignItemsStart
	case AlignSelfCenter:
		return AlignItemsCenter
	case AlignSelfEnd:
		return AlignItemsEnd
	case AlignSelfBaseline:
		return AlignItemsStart
	default:
		if containerDefault == AlignItemsBaseline {
			return AlignItemsStart
		}
		return containerDefault
	}
}
