package report

// Page geometry in millimetres on A4 portrait.
const (
	headerHeight = 42.0
	footerHeight = 32.0
	footerOffset = 8.0
	contentTop   = 62.0
	marginLeft   = 18.0
	marginRight  = 18.0

	// Content never runs into the footer band.
	bottomMargin = footerHeight + footerOffset + 6

	fontFamily   = "Arial"
	fontSize     = 11.0
	titleSize    = 12.0
	lineHeight   = 5.0
	titleHeight  = 7.0
	labelGap     = 2.0
	dividerWidth = 0.8
	dividerSpace = 2.0
	rowGap       = 1.0
)

type rgb struct{ r, g, b int }

var (
	colorTitle   = rgb{33, 37, 104}
	colorValue   = rgb{0, 0, 0}
	colorDivider = rgb{86, 189, 181}
)
