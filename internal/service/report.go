package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"clinicapi/internal/mailer"
	"clinicapi/internal/metrics"
	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

var tracer = otel.Tracer("clinicapi/service")

// Renderer turns a record into report PDF bytes.
type Renderer interface {
	Render(ctx context.Context, d model.RecordDetail) ([]byte, error)
}

// Dispatcher delivers an envelope to its recipients.
type Dispatcher interface {
	Dispatch(ctx context.Context, env mailer.Envelope) error
}

// Outcome messages reported to callers. Details stay in the logs.
const (
	msgRenderFailed   = "report could not be rendered"
	msgNoRecipients   = "company has no email address"
	msgDeliveryFailed = "email delivery failed"
)

// DeliveryResult is the outcome of one email.
type DeliveryResult struct {
	CompanyName  string `json:"company_name"`
	CompanyEmail string `json:"company_email"`
	Attachments  int    `json:"attachments"`
	Sent         bool   `json:"sent"`
	Error        string `json:"error,omitempty"`
}

// DeliveryDeps are the collaborators shared by report generation and delivery.
type DeliveryDeps struct {
	Records    repository.MedicalRecordRepository
	Renderer   Renderer
	Dispatcher Dispatcher
	Composer   mailer.Composer
	Metrics    *metrics.Reports
	Logger     zerolog.Logger
	// Now defines "today" for the daily batch. Defaults to time.Now.
	Now func() time.Time
}

func (d DeliveryDeps) withDefaults() DeliveryDeps {
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// render loads and renders one record, counting the attempt.
func (d DeliveryDeps) render(ctx context.Context, id int64) (*model.RecordDetail, []byte, error) {
	detail, err := d.Records.FindDetail(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, "medical record")
	}
	pdf, err := d.Renderer.Render(ctx, *detail)
	d.Metrics.Rendered(err)
	if err != nil {
		return detail, nil, err
	}
	return detail, pdf, nil
}

// ReportService generates single-record reports and emails them.
type ReportService interface {
	// Generate returns the PDF for a record.
	Generate(ctx context.Context, recordID int64) ([]byte, error)
	// SendRecord emails the record's PDF to its company. Render and
	// transport failures are reported in the result, not as errors.
	SendRecord(ctx context.Context, recordID int64) (*DeliveryResult, error)
}

type reportService struct {
	deps DeliveryDeps
}

// NewReportService constructs a new ReportService.
func NewReportService(deps DeliveryDeps) ReportService {
	return &reportService{deps: deps.withDefaults()}
}

func (s *reportService) Generate(ctx context.Context, recordID int64) ([]byte, error) {
	if recordID <= 0 {
		return nil, ErrIDRequired
	}
	_, pdf, err := s.deps.render(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

func (s *reportService) SendRecord(ctx context.Context, recordID int64) (*DeliveryResult, error) {
	if recordID <= 0 {
		return nil, ErrIDRequired
	}
	ctx, span := tracer.Start(ctx, "report.send_record")
	defer span.End()
	span.SetAttributes(attribute.Int64("record.id", recordID))

	log := s.deps.Logger.With().Int64("record_id", recordID).Logger()

	detail, pdf, err := s.deps.render(ctx, recordID)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if detail == nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}

	res := &DeliveryResult{CompanyName: detail.CompanyName, CompanyEmail: detail.CompanyEmail}
	if err != nil {
		log.Error().Err(err).Msg("report render failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, msgRenderFailed)
		res.Error = msgRenderFailed
		return res, nil
	}

	res.Attachments = 1
	env := s.deps.Composer.RecordEnvelope(*detail, pdf)
	err = s.deps.Dispatcher.Dispatch(ctx, env)
	s.deps.Metrics.Emailed(metrics.KindRecord, err)
	if err != nil {
		res.Error = deliveryError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, res.Error)
		log.Error().Err(err).Str("company", detail.CompanyName).Msg("record email not sent")
		return res, nil
	}

	res.Sent = true
	log.Info().Str("company", detail.CompanyName).Msg("record email sent")
	return res, nil
}

func deliveryError(err error) string {
	if errors.Is(err, mailer.ErrNoRecipients) {
		return msgNoRecipients
	}
	return msgDeliveryFailed
}
