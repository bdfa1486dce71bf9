// Package template parses declarative XML layout templates into node
// trees consumable by the layout engine, and expands {field} placeholders
// from caller-supplied data.
package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/xkilldash9x/stencil-cli/internal/layout"
)

// Parse reads an XML template and returns the node tree it describes. The
// document root must be one of the known elements; unknown attributes are
// ignored and malformed numeric attributes fall back to their defaults, so
// a sloppy template still renders best-effort. Unknown elements are a hard
// error since silently dropping content would be worse than failing.
func Parse(data []byte) (*layout.Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("template: parse XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("template: document has no root element")
	}
	return buildNode(root)
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*layout.Node, error) {
	return Parse([]byte(s))
}

// ParseFile reads and parses a template from disk.
func ParseFile(path string) (*layout.Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("template: read %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("template: %s has no root element", path)
	}
	return buildNode(root)
}

func buildNode(el *etree.Element) (*layout.Node, error) {
	kind, ok := kindForTag(el.Tag)
	if !ok {
		return nil, fmt.Errorf("template: unknown element <%s>", el.Tag)
	}

	node := layout.NewNode(kind)
	applyItemAttrs(node, el)

	switch kind {
	case layout.KindText:
		node.Text = strings.TrimSpace(el.Text())
	case layout.KindImage:
		node.Source = el.SelectAttrValue("src", "")
	case layout.KindBarcode:
		node.Code = el.SelectAttrValue("code", "")
		node.Symbology = el.SelectAttrValue("symbology", "")
	case layout.KindQR:
		node.Code = el.SelectAttrValue("code", "")
	case layout.KindContainer:
		applyContainerAttrs(node, el)
		for _, childEl := range el.ChildElements() {
			child, err := buildNode(childEl)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

func kindForTag(tag string) (layout.Kind, bool) {
	switch strings.ToLower(tag) {
	case "flex":
		return layout.KindContainer, true
	case "text":
		return layout.KindText, true
	case "image":
		return layout.KindImage, true
	case "barcode":
		return layout.KindBarcode, true
	case "qr":
		return layout.KindQR, true
	case "separator":
		return layout.KindSeparator, true
	}
	return 0, false
}

func applyItemAttrs(node *layout.Node, el *etree.Element) {
	s := &node.Style
	for _, attr := range el.Attr {
		val := attr.Value
		switch strings.ToLower(attr.Key) {
		case "grow":
			s.Grow = parseFloatAttr(val, 0)
		case "shrink":
			s.Shrink = parseFloatAttr(val, 1)
		case "basis":
			s.Basis = val
		case "align-self":
			s.AlignSelf = layout.ParseAlignSelf(val)
		case "order":
			s.Order = parseIntAttr(val)
		case "width":
			s.Width = val
		case "height":
			s.Height = val
		case "min-width":
			s.MinWidth = val
		case "max-width":
			s.MaxWidth = val
		case "min-height":
			s.MinHeight = val
		case "max-height":
			s.MaxHeight = val
		case "margin":
			s.Margin = val
		case "padding":
			s.Padding = val
		case "position":
			s.Position = layout.ParsePosition(val)
		case "left":
			s.Left = val
		case "right":
			s.Right = val
		case "top":
			s.Top = val
		case "bottom":
			s.Bottom = val
		case "aspect-ratio":
			s.AspectRatio = parseAspectRatio(val)
		case "display":
			s.Display = layout.ParseDisplay(val)
		}
	}
}

func applyContainerAttrs(node *layout.Node, el *etree.Element) {
	c := &node.Container
	for _, attr := range el.Attr {
		val := attr.Value
		switch strings.ToLower(attr.Key) {
		case "direction":
			c.Direction = layout.ParseDirection(val)
		case "wrap":
			c.Wrap = layout.ParseWrap(val)
		case "gap":
			c.Gap = val
		case "row-gap":
			c.RowGap = val
		case "column-gap":
			c.ColumnGap = val
		case "justify-content":
			c.Justify = layout.ParseJustify(val)
		case "align-items":
			c.AlignItems = layout.ParseAlignItems(val)
		case "align-content":
			c.AlignContent = layout.ParseAlignContent(val)
		case "overflow":
			c.Overflow = layout.ParseOverflow(val)
		}
	}
}

func parseFloatAttr(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseIntAttr(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// parseAspectRatio accepts either a plain number ("1.5") or the CSS
// fraction form ("16/9"). Non-positive and malformed values mean no ratio.
func parseAspectRatio(s string) float64 {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, errN := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, errD := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if errN != nil || errD != nil || d <= 0 || n <= 0 {
			return 0
		}
		return n / d
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z0-9_.-]+)\}`)

// Expand substitutes {field} placeholders in all content-bearing fields of
// the tree from the given data map. Placeholders without a matching key are
// left verbatim so missing data is visible in the output instead of
// silently blank.
func Expand(node *layout.Node, fields map[string]string) {
	if node == nil {
		return
	}
	node.Text = expandString(node.Text, fields)
	node.Source = expandString(node.Source, fields)
	node.Code = expandString(node.Code, fields)
	for _, child := range node.Children {
		Expand(child, fields)
	}
}

func expandString(s string, fields map[string]string) string {
	if s == "" || len(fields) == 0 || !strings.Contains(s, "{") {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := fields[key]; ok {
			return v
		}
		return m
	})
}
