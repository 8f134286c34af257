package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clinicapi/internal/mailer"
	"clinicapi/internal/metrics"
	"clinicapi/internal/model"
)

// DailyResult is the outcome of one daily batch.
type DailyResult struct {
	Date   string           `json:"date"`
	Groups []DeliveryResult `json:"groups"`
}

// DailyService sends the day's reports grouped per company.
type DailyService interface {
	// Candidates lists the companies owning at least one record created today.
	Candidates(ctx context.Context) ([]model.CompanySummary, error)
	// Send emails today's records of the selected companies, one email per
	// (company email, company name) pair. Records that fail to render are
	// skipped; groups left without attachments are not emailed.
	Send(ctx context.Context, companyIDs []int64) (*DailyResult, error)
}

type dailyService struct {
	deps DeliveryDeps
}

// NewDailyService constructs a new DailyService.
func NewDailyService(deps DeliveryDeps) DailyService {
	return &dailyService{deps: deps.withDefaults()}
}

func (s *dailyService) today() model.Date {
	return model.DateOf(s.deps.Now())
}

func (s *dailyService) Candidates(ctx context.Context) ([]model.CompanySummary, error) {
	return s.deps.Records.CompaniesWithRecordsOn(ctx, s.today())
}

type groupKey struct {
	email string
	name  string
}

func (s *dailyService) Send(ctx context.Context, companyIDs []int64) (*DailyResult, error) {
	if len(companyIDs) == 0 {
		return nil, ErrNoCompaniesSelected
	}
	today := s.today()

	ctx, span := tracer.Start(ctx, "daily.send", trace.WithAttributes(
		attribute.String("day", today.String()),
		attribute.Int("companies.selected", len(companyIDs)),
	))
	defer span.End()

	refs, err := s.deps.Records.RecordRefsOn(ctx, today, companyIDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load records")
		return nil, err
	}

	var order []groupKey
	groups := make(map[groupKey][]int64)
	for _, ref := range refs {
		k := groupKey{email: ref.CompanyEmail, name: ref.CompanyName}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], ref.RecordID)
	}

	out := &DailyResult{Date: today.String(), Groups: make([]DeliveryResult, 0, len(order))}
	for _, k := range order {
		if res, ok := s.sendGroup(ctx, k, groups[k]); ok {
			out.Groups = append(out.Groups, res)
		}
	}

	span.SetAttributes(
		attribute.Int("records", len(refs)),
		attribute.Int("groups", len(out.Groups)),
	)
	s.deps.Logger.Info().
		Str("day", out.Date).
		Int("records", len(refs)).
		Int("groups", len(out.Groups)).
		Msg("daily batch finished")
	return out, nil
}

// sendGroup renders the group's records and emails them. It reports false
// when nothing could be rendered and no email was attempted.
func (s *dailyService) sendGroup(ctx context.Context, k groupKey, ids []int64) (DeliveryResult, bool) {
	ctx, span := tracer.Start(ctx, "daily.send_group", trace.WithAttributes(
		attribute.String("company.name", k.name),
		attribute.Int("records", len(ids)),
	))
	defer span.End()

	log := s.deps.Logger.With().Str("company", k.name).Logger()

	attachments := make([]mailer.Attachment, 0, len(ids))
	for _, id := range ids {
		_, pdf, err := s.deps.render(ctx, id)
		if err != nil {
			log.Error().Err(err).Int64("record_id", id).Msg("daily report render failed, skipping record")
			continue
		}
		attachments = append(attachments, mailer.Attachment{
			Filename: mailer.DailyAttachmentName(id),
			Content:  pdf,
		})
	}
	if len(attachments) == 0 {
		log.Warn().Int("records", len(ids)).Msg("no report rendered, skipping email")
		span.SetStatus(codes.Error, msgRenderFailed)
		return DeliveryResult{}, false
	}

	res := DeliveryResult{CompanyName: k.name, CompanyEmail: k.email, Attachments: len(attachments)}
	err := s.deps.Dispatcher.Dispatch(ctx, s.deps.Composer.DailyEnvelope(k.email, k.name, attachments))
	s.deps.Metrics.Emailed(metrics.KindDaily, err)
	if err != nil {
		res.Error = deliveryError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, res.Error)
		log.Error().Err(err).Int("attachments", len(attachments)).Msg("daily email not sent")
		return res, true
	}
	res.Sent = true
	log.Info().Int("attachments", len(attachments)).Msg("daily email sent")
	return res, true
}
