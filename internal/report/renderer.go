// Package report renders a medical record into the clinic's A4 PDF report.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"clinicapi/internal/model"
)

// fallbackCreationDate stamps records that carry neither a creation time nor
// a visit date, keeping the output byte-stable.
var fallbackCreationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Renderer produces report PDFs. It holds no per-document state and is safe
// for concurrent use.
type Renderer struct {
	assets AssetSource
	header string
	footer string
	log    zerolog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for asset problems.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// WithAssetNames overrides the header and footer asset names.
func WithAssetNames(header, footer string) Option {
	return func(r *Renderer) {
		r.header = header
		r.footer = footer
	}
}

// NewRenderer returns a Renderer reading letterhead images from assets.
// A nil assets renders every report without images.
func NewRenderer(assets AssetSource, opts ...Option) *Renderer {
	r := &Renderer{
		assets: assets,
		header: HeaderAsset,
		footer: FooterAsset,
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render lays out d and returns the PDF bytes. Identical input yields
// identical output.
func (r *Renderer) Render(ctx context.Context, d model.RecordDetail) ([]byte, error) {
	pdf, err := r.build(ctx, d)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render record %d: %w", d.ID, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) build(ctx context.Context, d model.RecordDetail) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(creationDate(d))
	pdf.SetMargins(marginLeft, contentTop, marginRight)
	pdf.SetAutoPageBreak(true, bottomMargin)

	header := r.loadImage(ctx, pdf, r.header)
	footer := r.loadImage(ctx, pdf, r.footer)

	// The footer callback fires for every page; the letterhead footer only
	// belongs on the last one, which is closed by Output.
	closing := false
	pdf.SetFooterFunc(func() {
		if closing && footer != nil {
			w, h := pdf.GetPageSize()
			footer.draw(pdf, 0, h-footerHeight-footerOffset, w, footerHeight)
		}
	})

	pdf.AddPage()
	if header != nil {
		w, _ := pdf.GetPageSize()
		header.draw(pdf, 0, 0, w, header.heightFor(w, headerHeight))
	}
	pdf.SetY(contentTop)

	l := &layout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	l.divider()
	l.labelValue("EMPRESA:", d.CompanyName, 28)
	l.gap()

	l.divider()
	l.labelValue("Nombre y Apellido:", d.PatientFullName(), 45)
	l.labelValue("DNI:", d.DocumentNumber, 12)
	l.gap()

	l.divider()
	l.sectionTitle("EXAMEN")
	l.labelValue("Fecha:", d.Date.Display(), 15)
	l.gap()
	l.labelValue("Tipo de licencia:", LicenseDisplay(d.LicenseType), 35)
	l.gap()
	l.sectionTitle("Descripción:")
	l.paragraph(d.Diagnosis)
	l.gap()

	l.divider()
	l.sectionTitle("LICENCIA")
	l.labelValue("Días justificados:", justifiedDays(d.JustifiedDays), 40)
	l.rangeRow(d.LicenseStart.Display(), d.LicenseEnd.Display())
	l.labelValue("Fecha reincorporación:", d.ReturnDate.Display(), 45)
	l.gap()
	l.sectionTitle("Observaciones:")
	l.paragraph(d.Observations)

	closing = true
	pdf.Close()
	if pdf.Err() {
		return nil, fmt.Errorf("render record %d: %w", d.ID, pdf.Error())
	}
	return pdf, nil
}

// LicenseDisplay reduces the stored license tags to the single label printed
// on the report. "Enfermedad Inculpable" wins over "ART".
func LicenseDisplay(licenseType string) string {
	switch {
	case strings.Contains(licenseType, model.LicenseEnfermedadInculpable):
		return model.LicenseEnfermedadInculpable
	case strings.Contains(licenseType, model.LicenseART):
		return model.LicenseART
	}
	return ""
}

func justifiedDays(n *int) string {
	if n == nil || *n == 0 {
		return ""
	}
	return strconv.Itoa(*n)
}

func creationDate(d model.RecordDetail) time.Time {
	switch {
	case !d.CreatedAt.IsZero():
		return d.CreatedAt.UTC()
	case !d.Date.IsZero():
		return d.Date.Time()
	}
	return fallbackCreationDate
}

type letterhead struct {
	name string
	info *fpdf.ImageInfoType
	opt  fpdf.ImageOptions
}

// heightFor returns the height keeping the aspect ratio at width w, or
// fallback when the image reports no width.
func (im *letterhead) heightFor(w, fallback float64) float64 {
	if im.info.Width() <= 0 {
		return fallback
	}
	return w * im.info.Height() / im.info.Width()
}

func (im *letterhead) draw(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.ImageOptions(im.name, x, y, w, h, false, im.opt, 0, "")
}

// loadImage registers the named asset with pdf. Absent or unreadable assets
// yield nil and the band stays blank.
func (r *Renderer) loadImage(ctx context.Context, pdf *fpdf.Fpdf, name string) *letterhead {
	if r.assets == nil || name == "" {
		return nil
	}
	b, err := r.assets.Load(ctx, name)
	if err != nil {
		ev := r.log.Warn()
		if errors.Is(err, ErrAssetNotFound) {
			ev = r.log.Debug()
		}
		ev.Str("asset", name).Err(err).Msg("report asset unavailable")
		return nil
	}

	opt := fpdf.ImageOptions{ImageType: imageType(name)}
	info := pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(b))
	if pdf.Err() || info == nil {
		r.log.Warn().Str("asset", name).Err(pdf.Error()).Msg("report asset not decodable")
		pdf.ClearError()
		return nil
	}
	return &letterhead{name: name, info: info, opt: opt}
}

func imageType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "PNG"
	case ".gif":
		return "GIF"
	}
	return "JPG"
}
