package attendance

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	attendanceerrors "go-kintai/internal/attendance/errors"
	"go-kintai/internal/events"
	"go-kintai/internal/shared/apperror"
	"go-kintai/internal/shared/contextutil"
	"go-kintai/internal/shared/idempotency"
	"go-kintai/internal/tablestore"
	"go-kintai/internal/timerules"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxApplicationDays = 366

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, req ApplyRequest) (ApplyResponse, error)
	List(ctx context.Context, filter ListFilter) ([]RecordResponse, error)
	GetByID(ctx context.Context, id string) (ApplicationResponse, error)
	Update(ctx context.Context, id string, req ApplyRequest) (ApplyResponse, error)
	Delete(ctx context.Context, id string) error
	Purge(ctx context.Context) error
	Summary(ctx context.Context, fiscalYear int) ([]SummaryRow, error)
	ExportSummary(ctx context.Context, fiscalYear int, w io.Writer) error
}

type service struct {
	repo      Repository
	rules     timerules.Rules
	idem      idempotency.Store
	publisher events.Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	rules timerules.Rules,
	idem idempotency.Store,
	publisher events.Publisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if idem == nil {
		idem = idempotency.NewMemory(idempotency.DefaultTTL)
	}
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &service{
		repo:      repo,
		rules:     rules,
		idem:      idem,
		publisher: publisher,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func actorFrom(ctx context.Context) (contextutil.Actor, error) {
	actor, ok := contextutil.GetActor(ctx)
	if !ok {
		return contextutil.Actor{}, apperror.ErrUnauthorized
	}
	return actor, nil
}

// buildRecords expands an application into one record per day, all sharing id.
func (s *service) buildRecords(actor contextutil.Actor, id, defaultStaff string, req ApplyRequest) ([]Record, error) {
	leaveType, ok := ParseLeaveType(req.LeaveType)
	if !ok {
		return nil, attendanceerrors.ErrInvalidLeaveType
	}

	startDate, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}
	endDate := startDate
	if req.EndDate != "" {
		endDate, err = time.Parse(DateLayout, req.EndDate)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDateFormat
		}
	}
	if endDate.Before(startDate) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}
	days := int(endDate.Sub(startDate).Hours()/24) + 1
	if days > maxApplicationDays {
		return nil, attendanceerrors.ErrRangeTooLong
	}

	startTime, err := timerules.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidTimeFormat
	}
	endTime, err := timerules.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidTimeFormat
	}
	if endTime <= startTime {
		return nil, attendanceerrors.ErrInvalidTimeRange
	}

	staff := req.StaffName
	if staff == "" {
		staff = defaultStaff
	}
	if staff == "" {
		return nil, attendanceerrors.ErrStaffNameRequired
	}
	if !actor.IsAdmin() && staff != actor.Name {
		return nil, attendanceerrors.ErrNotOwner
	}

	hours := s.rules.DurationHours(startTime, endTime)
	dayEq := s.rules.DayEquivalentOf(startTime, endTime)

	rows := make([]Record, 0, days)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		rows = append(rows, Record{
			ID:            id,
			Date:          d,
			StaffName:     staff,
			LeaveType:     leaveType,
			StartTime:     startTime.String(),
			EndTime:       endTime.String(),
			DurationHours: hours,
			DayEquivalent: dayEq,
			FiscalYear:    s.rules.FiscalYearOf(d),
			Remarks:       req.Remarks,
		})
	}
	return rows, nil
}

func (s *service) publish(ctx context.Context, eventType, key, staff string, rows int) {
	err := s.publisher.PublishLedgerChanged(ctx, events.LedgerChangedEvent{
		EventType:  eventType,
		Table:      string(tablestore.AttendanceLogs),
		Key:        key,
		StaffName:  staff,
		Rows:       rows,
		OccurredAt: s.now().UTC(),
		RequestID:  contextutil.GetRequestID(ctx),
	})
	if err != nil {
		s.log(ctx).Warn("ledger change not published", zap.String("event_type", eventType), zap.Error(err))
	}
}

func written(err error, requested int) int {
	var pw *tablestore.PartialWriteError
	if errors.As(err, &pw) {
		return pw.Succeeded
	}
	if err != nil {
		return 0
	}
	return requested
}

func (s *service) Apply(ctx context.Context, req ApplyRequest) (ApplyResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return ApplyResponse{}, err
	}

	id := uuid.NewString()
	rows, err := s.buildRecords(actor, id, actor.Name, req)
	if err != nil {
		s.log(ctx).Warn("apply leave validation failed", zap.Error(err))
		return ApplyResponse{}, err
	}

	s.log(ctx).Debug("apply leave requested",
		zap.String("id", id),
		zap.String("staff_name", rows[0].StaffName),
		zap.String("start_date", rows[0].DateString()),
		zap.Int("days", len(rows)),
	)

	n, err := s.repo.Create(ctx, rows)
	resp := ApplyResponse{
		ID:        id,
		Requested: len(rows),
		Succeeded: n,
		Days:      mapToResponses(rows),
	}
	if n > 0 {
		s.publish(ctx, events.AttendanceApplied, id, rows[0].StaffName, n)
	}
	if err != nil {
		s.log(ctx).Error("apply leave persist failed",
			zap.String("id", id),
			zap.Int("requested", len(rows)),
			zap.Int("succeeded", n),
			zap.Error(err),
		)
		return resp, err
	}

	s.log(ctx).Info("apply leave success", zap.String("id", id), zap.Int("days", n))
	return resp, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]RecordResponse, error) {
	var from, to time.Time
	var err error
	if filter.From != "" {
		if from, err = time.Parse(DateLayout, filter.From); err != nil {
			return nil, attendanceerrors.ErrInvalidDateFormat
		}
	}
	if filter.To != "" {
		if to, err = time.Parse(DateLayout, filter.To); err != nil {
			return nil, attendanceerrors.ErrInvalidDateFormat
		}
	}
	var leaveType LeaveType
	if filter.LeaveType != "" {
		lt, ok := ParseLeaveType(filter.LeaveType)
		if !ok {
			return nil, attendanceerrors.ErrInvalidLeaveType
		}
		leaveType = lt
	}

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		switch {
		case filter.StaffName != "" && r.StaffName != filter.StaffName:
			continue
		case leaveType != "" && r.LeaveType != leaveType:
			continue
		case filter.FiscalYear != 0 && r.FiscalYear != filter.FiscalYear:
			continue
		case !from.IsZero() && r.Date.Before(from):
			continue
		case !to.IsZero() && r.Date.After(to):
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StaffName < out[j].StaffName
	})
	return mapToResponses(out), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ApplicationResponse, error) {
	rows, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ApplicationResponse{}, err
	}
	if len(rows) == 0 {
		return ApplicationResponse{}, attendanceerrors.ErrApplicationNotFound
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	resp := ApplicationResponse{
		ID:        id,
		StaffName: rows[0].StaffName,
		LeaveType: string(rows[0].LeaveType),
		StartDate: rows[0].DateString(),
		EndDate:   rows[len(rows)-1].DateString(),
		Days:      mapToResponses(rows),
	}
	for _, r := range rows {
		resp.TotalDays += r.DayEquivalent
	}
	resp.TotalDays = timerules.Round2(resp.TotalDays)
	return resp, nil
}

func (s *service) ensureOwner(actor contextutil.Actor, rows []Record) error {
	if actor.IsAdmin() {
		return nil
	}
	for _, r := range rows {
		if r.StaffName != actor.Name {
			return attendanceerrors.ErrNotOwner
		}
	}
	return nil
}

// Update replaces every row of an application. With an Idempotency-Key the
// delete+reinsert runs as one recorded unit: a retry after a partial failure
// resumes it, a retry after success replays the recorded response.
func (s *service) Update(ctx context.Context, id string, req ApplyRequest) (ApplyResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return ApplyResponse{}, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ApplyResponse{}, err
	}
	if err := s.ensureOwner(actor, existing); err != nil {
		return ApplyResponse{}, err
	}

	defaultStaff := actor.Name
	if len(existing) > 0 {
		defaultStaff = existing[0].StaffName
	}
	rows, err := s.buildRecords(actor, id, defaultStaff, req)
	if err != nil {
		s.log(ctx).Warn("update leave validation failed", zap.String("id", id), zap.Error(err))
		return ApplyResponse{}, err
	}

	key := contextutil.GetIdempotencyKey(ctx)
	if key == "" {
		if len(existing) == 0 {
			return ApplyResponse{}, attendanceerrors.ErrApplicationNotFound
		}
		return s.replace(ctx, id, rows, false)
	}

	key = actor.ID + ":" + key
	scope := "attendance.update:" + id
	fingerprint, err := idempotency.Fingerprint(rows)
	if err != nil {
		return ApplyResponse{}, apperror.ErrInternal.WithCause(err)
	}

	locked, err := s.idem.Lock(ctx, key)
	if err != nil {
		s.log(ctx).Error("idempotency lock failed", zap.Error(err))
		return ApplyResponse{}, apperror.ErrInternal.WithCause(err)
	}
	if !locked {
		return ApplyResponse{}, idempotency.ErrInProgress
	}
	defer func() {
		if err := s.idem.Unlock(ctx, key); err != nil {
			s.log(ctx).Warn("idempotency unlock failed", zap.Error(err))
		}
	}()

	entry, found, err := s.idem.Load(ctx, key)
	if err != nil {
		return ApplyResponse{}, apperror.ErrInternal.WithCause(err)
	}
	resuming := false
	if found {
		if !entry.Matches(scope, fingerprint) {
			s.log(ctx).Warn("idempotency key reused",
				zap.String("id", id),
				zap.String("recorded_scope", entry.Scope),
				zap.Bool("same_scope", entry.Scope == scope),
			)
			return ApplyResponse{}, idempotency.ErrKeyReused
		}
		if entry.Done() {
			s.log(ctx).Info("update leave replayed", zap.String("id", id))
			return idempotency.Decode[ApplyResponse](entry)
		}
		resuming = true
	}

	if !resuming {
		if len(existing) == 0 {
			return ApplyResponse{}, attendanceerrors.ErrApplicationNotFound
		}
		if err := s.idem.Save(ctx, key, idempotency.Entry{Status: idempotency.StatusPending, Scope: scope, Fingerprint: fingerprint}); err != nil {
			return ApplyResponse{}, apperror.ErrInternal.WithCause(err)
		}
	}

	resp, err := s.replace(ctx, id, rows, resuming)
	if err != nil {
		return resp, err
	}
	if err := idempotency.Finish(ctx, s.idem, key, scope, fingerprint, resp); err != nil {
		s.log(ctx).Warn("idempotency result not recorded", zap.String("id", id), zap.Error(err))
	}
	return resp, nil
}

func (s *service) replace(ctx context.Context, id string, rows []Record, resuming bool) (ApplyResponse, error) {
	err := s.repo.ReplaceByID(ctx, id, rows)
	if resuming && tablestore.IsNotFound(err) {
		// An earlier attempt already removed the old rows.
		s.log(ctx).Info("update leave resuming after delete", zap.String("id", id))
		_, err = s.repo.Create(ctx, rows)
	}

	n := written(err, len(rows))
	resp := ApplyResponse{
		ID:        id,
		Requested: len(rows),
		Succeeded: n,
		Days:      mapToResponses(rows),
	}
	if err != nil {
		if tablestore.IsNotFound(err) {
			return ApplyResponse{}, attendanceerrors.ErrApplicationNotFound
		}
		s.log(ctx).Error("update leave failed",
			zap.String("id", id),
			zap.Int("requested", len(rows)),
			zap.Int("succeeded", n),
			zap.Error(err),
		)
		if n > 0 {
			s.publish(ctx, events.AttendanceReplaced, id, rows[0].StaffName, n)
		}
		return resp, err
	}

	s.publish(ctx, events.AttendanceReplaced, id, rows[0].StaffName, n)
	s.log(ctx).Info("update leave success", zap.String("id", id), zap.Int("days", n))
	return resp, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return attendanceerrors.ErrApplicationNotFound
	}
	if err := s.ensureOwner(actor, existing); err != nil {
		return err
	}

	n, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if tablestore.IsNotFound(err) {
			return attendanceerrors.ErrApplicationNotFound
		}
		s.log(ctx).Error("delete leave failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.publish(ctx, events.AttendanceDeleted, id, existing[0].StaffName, n)
	s.log(ctx).Info("delete leave success", zap.String("id", id), zap.Int("rows", n))
	return nil
}

func (s *service) Purge(ctx context.Context) error {
	if err := s.repo.Purge(ctx); err != nil {
		s.log(ctx).Error("purge attendance failed", zap.Error(err))
		return err
	}
	s.publish(ctx, events.LedgerPurged, "", "", 0)
	s.log(ctx).Warn("attendance ledger purged")
	return nil
}

type summaryKey struct {
	staff     string
	leaveType LeaveType
	year      int
}

// Summary totals day equivalents per staff, leave type and fiscal year.
// fiscalYear 0 means every year.
func (s *service) Summary(ctx context.Context, fiscalYear int) ([]SummaryRow, error) {
	if fiscalYear < 0 {
		return nil, attendanceerrors.ErrInvalidFiscalYear
	}
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := map[summaryKey]*SummaryRow{}
	for _, r := range rows {
		if fiscalYear != 0 && r.FiscalYear != fiscalYear {
			continue
		}
		k := summaryKey{staff: r.StaffName, leaveType: r.LeaveType, year: r.FiscalYear}
		row, ok := totals[k]
		if !ok {
			row = &SummaryRow{StaffName: r.StaffName, LeaveType: string(r.LeaveType), FiscalYear: r.FiscalYear}
			totals[k] = row
		}
		row.Entries++
		row.Hours += r.DurationHours
		row.Days += r.DayEquivalent
	}

	out := make([]SummaryRow, 0, len(totals))
	for _, row := range totals {
		row.Hours = timerules.Round2(row.Hours)
		row.Days = timerules.Round2(row.Days)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.FiscalYear != b.FiscalYear {
			return a.FiscalYear < b.FiscalYear
		}
		if a.StaffName != b.StaffName {
			return a.StaffName < b.StaffName
		}
		return leaveTypeOrder(a.LeaveType) < leaveTypeOrder(b.LeaveType)
	})
	return out, nil
}

func leaveTypeOrder(s string) int {
	for i, lt := range LeaveTypes() {
		if string(lt) == s {
			return i
		}
	}
	return len(LeaveTypes())
}

func (s *service) ExportSummary(ctx context.Context, fiscalYear int, w io.Writer) error {
	rows, err := s.Summary(ctx, fiscalYear)
	if err != nil {
		return err
	}
	return WriteSummaryXLSX(w, fiscalYear, rows)
}
