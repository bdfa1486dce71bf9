package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flexLeaf builds a separator leaf with the given flex parameters, a
// convenient content-free item for solver tests.
func flexLeaf(grow, shrink float64, basis string) *Node {
	n := NewNode(KindSeparator)
	n.Style.Grow = grow
	n.Style.Shrink = shrink
	n.Style.Basis = basis
	return n
}

func mustLayout(t *testing.T, root *Node, width, height float64) *LayoutNode {
	t.Helper()
	ln, err := NewEngine(Limits{}).Layout(root, width, height, 16)
	require.NoError(t, err)
	return ln
}

func TestFlex_GrowDistribution_Conservation(t *testing.T) {
	root := container(DirectionRow,
		flexLeaf(1, 1, "50"),
		flexLeaf(1, 1, "50"),
		flexLeaf(1, 1, "50"),
	)
	ln := mustLayout(t, root, 400, 100)

	total := 0.0
	for _, c := range ln.Children {
		assert.InDelta(t, 400.0/3, c.Width, sizeEpsilon)
		total += c.Width
	}
	assert.InDelta(t, 400.0, total, sizeEpsilon)
}

func TestFlex_FactorFlooring(t *testing.T) {
	// Grow factors sum to 0.8; the floored total of 1 distributes exactly
	// that fraction of the 460px free space, leaving 92px undistributed.
	root := container(DirectionColumn,
		flexLeaf(0.2, 1, "40"),
		flexLeaf(0.2, 1, "0"),
		flexLeaf(0.4, 1, "0"),
	)
	ln := mustLayout(t, root, 100, 500)

	require.Len(t, ln.Children, 3)
	assert.InDelta(t, 132.0, ln.Children[0].Height, sizeEpsilon)
	assert.InDelta(t, 92.0, ln.Children[1].Height, sizeEpsilon)
	assert.InDelta(t, 184.0, ln.Children[2].Height, sizeEpsilon)
}

func TestFlex_FreezeCascade(t *testing.T) {
	// The first item's max constraint freezes it; the freed space must
	// cascade to the remaining items in a later round.
	capped := flexLeaf(1, 1, "0")
	capped.Style.MaxWidth = "50"
	root := container(DirectionRow,
		capped,
		flexLeaf(1, 1, "0"),
		flexLeaf(1, 1, "0"),
	)
	ln := mustLayout(t, root, 300, 100)

	assert.InDelta(t, 50.0, ln.Children[0].Width, sizeEpsilon)
	assert.InDelta(t, 125.0, ln.Children[1].Width, sizeEpsilon)
	assert.InDelta(t, 125.0, ln.Children[2].Width, sizeEpsilon)
}

func TestFlex_ShrinkScaledByBasis(t *testing.T) {
	root := container(DirectionRow,
		flexLeaf(0, 1, "200"),
		flexLeaf(0, 1, "100"),
	)
	ln := mustLayout(t, root, 200, 100)

	// 100px overflow shared 2:1 by shrink x basis.
	assert.InDelta(t, 200.0-100.0*2/3, ln.Children[0].Width, sizeEpsilon)
	assert.InDelta(t, 100.0-100.0*1/3, ln.Children[1].Width, sizeEpsilon)
}

func TestFlex_ShrinkRespectsMin(t *testing.T) {
	floored := flexLeaf(0, 1, "200")
	floored.Style.MinWidth = "180"
	root := container(DirectionRow,
		floored,
		flexLeaf(0, 1, "100"),
	)
	ln := mustLayout(t, root, 200, 100)

	assert.InDelta(t, 180.0, ln.Children[0].Width, sizeEpsilon)
	assert.InDelta(t, 20.0, ln.Children[1].Width, sizeEpsilon)
}

func TestFlex_MinMaxInvariant(t *testing.T) {
	a := flexLeaf(5, 1, "10")
	a.Style.MaxWidth = "30"
	b := flexLeaf(1, 1, "10")
	b.Style.MinWidth = "25"
	c := flexLeaf(1, 1, "10")
	root := container(DirectionRow, a, b, c)
	ln := mustLayout(t, root, 500, 100)

	assert.LessOrEqual(t, ln.Children[0].Width, 30.0+sizeEpsilon)
	assert.GreaterOrEqual(t, ln.Children[1].Width, 25.0-sizeEpsilon)
	for _, c := range ln.Children {
		assert.GreaterOrEqual(t, c.Width, 0.0)
	}
}

func TestFlex_NoFactorsKeepsBasis(t *testing.T) {
	root := container(DirectionRow,
		flexLeaf(0, 0, "50"),
		flexLeaf(0, 0, "80"),
	)
	ln := mustLayout(t, root, 400, 100)

	assert.InDelta(t, 50.0, ln.Children[0].Width, sizeEpsilon)
	assert.InDelta(t, 80.0, ln.Children[1].Width, sizeEpsilon)
	assert.InDelta(t, 50.0, ln.Children[1].X, sizeEpsilon)
}

func TestFlex_BasisFloorsToPadding(t *testing.T) {
	squeezed := flexLeaf(0, 1, "0")
	squeezed.Style.Padding = "8"
	root := container(DirectionRow, squeezed)
	ln := mustLayout(t, root, 100, 50)

	assert.GreaterOrEqual(t, ln.Children[0].Width, 16.0-sizeEpsilon)
}

func TestFlex_GapConsumesMainSpace(t *testing.T) {
	root := container(DirectionRow,
		flexLeaf(1, 1, "0"),
		flexLeaf(1, 1, "0"),
		flexLeaf(1, 1, "0"),
	)
	root.Container.Gap = "10"
	ln := mustLayout(t, root, 300, 100)

	each := (300.0 - 20.0) / 3
	assert.InDelta(t, each, ln.Children[0].Width, sizeEpsilon)
	assert.InDelta(t, 0.0, ln.Children[0].X, sizeEpsilon)
	assert.InDelta(t, each+10, ln.Children[1].X, sizeEpsilon)
	assert.InDelta(t, 2*(each+10), ln.Children[2].X, sizeEpsilon)
}

func TestFlex_JustifyModes(t *testing.T) {
	build := func(justify Justify) *Node {
		root := container(DirectionRow,
			sizedNode(KindImage, "50", "50"),
			sizedNode(KindImage, "50", "50"),
		)
		root.Container.Justify = justify
		return root
	}

	tests := []struct {
		name    string
		justify Justify
		wantX   [2]float64
	}{
		{name: "start", justify: JustifyStart, wantX: [2]float64{0, 50}},
		{name: "center", justify: JustifyCenter, wantX: [2]float64{100, 150}},
		{name: "end", justify: JustifyEnd, wantX: [2]float64{200, 250}},
		{name: "space-between", justify: JustifySpaceBetween, wantX: [2]float64{0, 250}},
		{name: "space-around", justify: JustifySpaceAround, wantX: [2]float64{50, 200}},
		{name: "space-evenly", justify: JustifySpaceEvenly, wantX: [2]float64{200.0 / 3, 50 + 400.0/3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ln := mustLayout(t, build(tc.justify), 300, 100)
			assert.InDelta(t, tc.wantX[0], ln.Children[0].X, sizeEpsilon)
			assert.InDelta(t, tc.wantX[1], ln.Children[1].X, sizeEpsilon)
		})
	}
}

func TestFlex_OverflowFallbackToStart(t *testing.T) {
	root := container(DirectionColumn,
		sizedNode(KindImage, "50", "50"),
		sizedNode(KindImage, "50", "50"),
		sizedNode(KindImage, "50", "50"),
	)
	root.Container.Justify = JustifySpaceBetween
	// Shrinking is disabled so the overflow survives to justification.
	for _, c := range root.Children {
		c.Style.Shrink = 0
	}
	ln := mustLayout(t, root, 100, 100)

	for i, c := range ln.Children {
		assert.InDelta(t, float64(i)*50, c.Y, sizeEpsilon, "child %d", i)
	}
}

func TestFlex_CenterOverflowsSymmetrically(t *testing.T) {
	root := container(DirectionColumn,
		sizedNode(KindImage, "50", "150"),
	)
	root.Container.Justify = JustifyCenter
	root.Children[0].Style.Shrink = 0
	ln := mustLayout(t, root, 100, 100)

	assert.InDelta(t, -25.0, ln.Children[0].Y, sizeEpsilon)
}

func TestFlex_AutoMarginsOverrideJustify(t *testing.T) {
	item := sizedNode(KindImage, "100", "50")
	item.Style.Margin = "0 auto"
	root := container(DirectionRow, item)
	root.Container.Justify = JustifyEnd
	ln := mustLayout(t, root, 300, 100)

	assert.InDelta(t, 100.0, ln.Children[0].X, sizeEpsilon)
}

func TestFlex_AutoMarginsSplitEqually(t *testing.T) {
	a := sizedNode(KindImage, "50", "50")
	b := sizedNode(KindImage, "50", "50")
	b.Style.Margin = "0 0 0 auto"
	root := container(DirectionRow, a, b)
	ln := mustLayout(t, root, 300, 100)

	assert.InDelta(t, 0.0, ln.Children[0].X, sizeEpsilon)
	assert.InDelta(t, 250.0, ln.Children[1].X, sizeEpsilon)
}

func TestFlex_AutoMarginsCollapseWhenOverflowing(t *testing.T) {
	item := sizedNode(KindImage, "200", "50")
	item.Style.Margin = "0 auto"
	item.Style.Shrink = 0
	root := container(DirectionRow, item)
	ln := mustLayout(t, root, 100, 100)

	assert.InDelta(t, 0.0, ln.Children[0].X, sizeEpsilon)
}

func TestFlex_CrossAxisAlignment(t *testing.T) {
	tests := []struct {
		name  string
		align AlignItems
		wantY float64
	}{
		{name: "start", align: AlignItemsStart, wantY: 0},
		{name: "center", align: AlignItemsCenter, wantY: 30},
		{name: "end", align: AlignItemsEnd, wantY: 60},
		{name: "baseline degrades to start", align: AlignItemsBaseline, wantY: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := container(DirectionRow, sizedNode(KindImage, "50", "40"))
			root.Container.AlignItems = tc.align
			ln := mustLayout(t, root, 300, 100)
			assert.InDelta(t, tc.wantY, ln.Children[0].Y, sizeEpsilon)
			assert.InDelta(t, 40.0, ln.Children[0].Height, sizeEpsilon)
		})
	}
}

func TestFlex_StretchFillsCross(t *testing.T) {
	item := sizedNode(KindImage, "50", "")
	root := container(DirectionRow, item)
	ln := mustLayout(t, root, 300, 120)

	assert.InDelta(t, 120.0, ln.Children[0].Height, sizeEpsilon)
	assert.InDelta(t, 0.0, ln.Children[0].Y, sizeEpsilon)
}

func TestFlex_StretchRespectsCrossMax(t *testing.T) {
	item := sizedNode(KindImage, "50", "")
	item.Style.MaxHeight = "80"
	root := container(DirectionRow, item)
	ln := mustLayout(t, root, 300, 120)

	assert.InDelta(t, 80.0, ln.Children[0].Height, sizeEpsilon)
}

func TestFlex_AlignSelfOverridesContainer(t *testing.T) {
	item := sizedNode(KindImage, "50", "40")
	item.Style.AlignSelf = AlignSelfEnd
	other := sizedNode(KindImage, "50", "40")
	root := container(DirectionRow, item, other)
	root.Container.AlignItems = AlignItemsStart
	ln := mustLayout(t, root, 300, 100)

	assert.InDelta(t, 60.0, ln.Children[0].Y, sizeEpsilon)
	assert.InDelta(t, 0.0, ln.Children[1].Y, sizeEpsilon)
}

func TestFlex_CrossMarginSubtractedBeforeCentering(t *testing.T) {
	item := sizedNode(KindImage, "50", "40")
	item.Style.Margin = "10 0 0 0"
	item.Style.AlignSelf = AlignSelfCenter
	root := container(DirectionRow, item)
	ln := mustLayout(t, root, 300, 100)

	// Inner space is 100-10=90; free space 50 centers at 25, plus the
	// leading margin.
	assert.InDelta(t, 35.0, ln.Children[0].Y, sizeEpsilon)
}

func TestFlex_ContainerPaddingOffsetsChildren(t *testing.T) {
	root := container(DirectionRow, sizedNode(KindImage, "50", ""))
	root.Style.Padding = "10 20"
	ln := mustLayout(t, root, 300, 100)

	assert.InDelta(t, 20.0, ln.Children[0].X, sizeEpsilon)
	assert.InDelta(t, 10.0, ln.Children[0].Y, sizeEpsilon)
	assert.InDelta(t, 80.0, ln.Children[0].Height, sizeEpsilon)
}

func TestFlex_EmUnitsResolveAgainstFontSize(t *testing.T) {
	item := sizedNode(KindImage, "2em", "1em")
	root := container(DirectionRow, item)
	root.Container.AlignItems = AlignItemsStart
	ln, err := NewEngine(Limits{}).Layout(root, 300, 100, 10)
	require.NoError(t, err)

	assert.InDelta(t, 20.0, ln.Children[0].Width, sizeEpsilon)
	assert.InDelta(t, 10.0, ln.Children[0].Height, sizeEpsilon)
}

func TestFlex_NegativeGrowRejected(t *testing.T) {
	root := container(DirectionRow, flexLeaf(-1, 1, "0"))
	_, err := NewEngine(Limits{}).Layout(root, 300, 100, 16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative flex grow")

	root = container(DirectionRow, flexLeaf(0, -2, "0"))
	_, err = NewEngine(Limits{}).Layout(root, 300, 100, 16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative flex shrink")
}
