package report

import "github.com/go-pdf/fpdf"

// layout writes the report body below the current Y position.
type layout struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (l *layout) color(c rgb) {
	l.pdf.SetTextColor(c.r, c.g, c.b)
}

func (l *layout) contentWidth() float64 {
	w, _ := l.pdf.GetPageSize()
	left, _, right, _ := l.pdf.GetMargins()
	return w - left - right
}

// labelValue prints a bold label of fixed width followed by its value. Values
// that do not fit the remaining width wrap onto further lines.
func (l *layout) labelValue(label, value string, labelW float64) {
	pdf := l.pdf
	left, _, _, _ := pdf.GetMargins()

	pdf.SetX(left)
	pdf.SetFont(fontFamily, "B", fontSize)
	l.color(colorTitle)
	pdf.CellFormat(labelW, lineHeight, l.tr(label), "", 0, "L", false, 0, "")

	x := left + labelW + labelGap
	valueW := l.contentWidth() - labelW - labelGap
	text := l.tr(value)

	pdf.SetFont(fontFamily, "", fontSize)
	l.color(colorValue)
	pdf.SetX(x)
	if pdf.GetStringWidth(text) <= valueW {
		pdf.CellFormat(valueW, lineHeight, text, "", 1, "L", false, 0, "")
		return
	}
	pdf.MultiCell(valueW, lineHeight, text, "", "L", false)
}

// rangeRow prints the license period as "Desde: <start>  Hasta: <end>".
func (l *layout) rangeRow(start, end string) {
	pdf := l.pdf
	left, _, _, _ := pdf.GetMargins()
	pdf.SetX(left)

	pdf.SetFont(fontFamily, "B", fontSize)
	l.color(colorTitle)
	pdf.CellFormat(14, lineHeight, l.tr("Desde:"), "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", fontSize)
	l.color(colorValue)
	pdf.CellFormat(50, lineHeight, l.tr(start), "", 0, "L", false, 0, "")

	pdf.SetFont(fontFamily, "B", fontSize)
	l.color(colorTitle)
	pdf.CellFormat(14, lineHeight, l.tr("Hasta:"), "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", fontSize)
	l.color(colorValue)
	pdf.CellFormat(0, lineHeight, l.tr(end), "", 1, "L", false, 0, "")
}

func (l *layout) sectionTitle(title string) {
	pdf := l.pdf
	left, _, _, _ := pdf.GetMargins()
	pdf.SetX(left)
	pdf.SetFont(fontFamily, "B", titleSize)
	l.color(colorTitle)
	pdf.CellFormat(0, titleHeight, l.tr(title), "", 1, "L", false, 0, "")
}

// paragraph prints free text across the full content width. It is never
// truncated; long text continues on the following pages.
func (l *layout) paragraph(text string) {
	pdf := l.pdf
	left, _, _, _ := pdf.GetMargins()
	pdf.SetX(left)
	pdf.SetFont(fontFamily, "", fontSize)
	l.color(colorValue)
	pdf.MultiCell(0, lineHeight, l.tr(text), "", "L", false)
}

// divider rules a line at the current Y and leaves dividerSpace below it.
func (l *layout) divider() {
	pdf := l.pdf
	w, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()

	y := pdf.GetY()
	pdf.SetDrawColor(colorDivider.r, colorDivider.g, colorDivider.b)
	pdf.SetLineWidth(dividerWidth)
	pdf.Line(left, y, w-right, y)
	pdf.SetY(y + dividerSpace)
}

// gap adds the small vertical space between rows of a section.
func (l *layout) gap() {
	l.pdf.SetY(l.pdf.GetY() + rowGap)
}
