// internal/app/dispatch_service.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/plan2509/tms-final/internal/domain/civil"
	"github.com/plan2509/tms-final/internal/domain/notification"
	"github.com/plan2509/tms-final/internal/domain/schedule"
	"github.com/plan2509/tms-final/internal/domain/station"
	"github.com/plan2509/tms-final/internal/domain/tax"
	"github.com/plan2509/tms-final/internal/domain/teams"
	idb "github.com/plan2509/tms-final/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// taxGroupingPerRecord pins the generator policy: one notification per tax
// record rather than one aggregate message per due date. Per-record
// generation keeps the (tax, schedule, date) idempotency key auditable.
const taxGroupingPerRecord = true

// Manual notifications are released only inside a short fixed window so an
// at-least-hourly trigger cannot double-fire them later the same hour.
const (
	manualDispatchHour          = 10
	manualDispatchWindowMinutes = 5
)

const defaultNotificationTime = "10:00"

// ErrNoTargets is returned by SendDirect when no webhook URL resolves.
var ErrNoTargets = errors.New("no webhook URLs provided")

// DispatchSummary reports what one invocation actually delivered.
type DispatchSummary struct {
	Dispatched        int       // tax reminders attempted
	DispatchedStation int       // station-schedule reminders attempted
	DispatchedManual  int       // manual notifications attempted
	Now               time.Time // the frozen civil "now" of the run
}

// DirectSendRequest is an operator-initiated send: explicit webhook URLs
// and/or channel ids, optionally tied to an existing notification record.
type DirectSendRequest struct {
	WebhookURLs    []string
	ChannelIDs     []string
	NotificationID string
	Text           string
}

// DirectSendResult reports per-target outcomes of a direct send.
type DirectSendResult struct {
	Sent   int
	Failed int
}

// DispatchService defines the operations of the notification dispatch engine.
type DispatchService interface {
	// Dispatch runs one dispatch invocation. category selects "tax" or
	// "station_schedule"; anything else falls back to the default policy
	// (tax only — unattended triggers must not emit unsolicited station
	// alerts). The instant `at` is frozen for the whole run.
	Dispatch(ctx context.Context, category string, at time.Time) (*DispatchSummary, error)
	// SendDirect performs an operator re-trigger / test send.
	SendDirect(ctx context.Context, at time.Time, req DirectSendRequest) (*DirectSendResult, error)
}

// DispatchServiceImpl implements the DispatchService interface.
type DispatchServiceImpl struct {
	scheduleRepo schedule.Repository
	taxRepo      tax.Repository
	stationRepo  station.Repository
	notifRepo    notification.Repository
	channelRepo  teams.Repository
	sender       teams.Sender
	logger       *logrus.Logger
	baseURL      string // deep link appended to every reminder message
}

func NewDispatchServiceImpl(
	scheduleRepo schedule.Repository,
	taxRepo tax.Repository,
	stationRepo station.Repository,
	notifRepo notification.Repository,
	channelRepo teams.Repository,
	sender teams.Sender,
	logger *logrus.Logger,
	baseURL string,
) *DispatchServiceImpl {
	return &DispatchServiceImpl{
		scheduleRepo: scheduleRepo,
		taxRepo:      taxRepo,
		stationRepo:  stationRepo,
		notifRepo:    notifRepo,
		channelRepo:  channelRepo,
		sender:       sender,
		logger:       logger,
		baseURL:      baseURL,
	}
}

// channelSet is the resolved webhook targets of one invocation.
type channelSet struct {
	all  []string          // every active channel's webhook URL
	byID map[string]string // channel id -> webhook URL
}

func (s *DispatchServiceImpl) Dispatch(ctx context.Context, category string, at time.Time) (*DispatchSummary, error) {
	clock := civil.At(at)
	s.logger.Infof("Dispatch run started. category=%q today=%s time=%s", category, clock.Today(), clock.TimeHM())

	var taxSchedules, stationSchedules []*schedule.Schedule
	var err error
	switch category {
	case string(schedule.TypeTax):
		taxSchedules, err = s.scheduleRepo.ListActiveByType(ctx, schedule.TypeTax)
	case string(schedule.TypeStationSchedule):
		stationSchedules, err = s.scheduleRepo.ListActiveByType(ctx, schedule.TypeStationSchedule)
	default:
		// Station-schedule reminders run only on explicit request.
		taxSchedules, err = s.scheduleRepo.ListActiveByType(ctx, schedule.TypeTax)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load notification schedules: %w", err)
	}

	channels, err := s.channelRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams channels: %w", err)
	}
	chans := channelSet{byID: make(map[string]string, len(channels))}
	for _, c := range channels {
		chans.all = append(chans.all, c.WebhookURL)
		chans.byID[c.ID] = c.WebhookURL
	}

	summary := &DispatchSummary{Now: clock.Now()}

	summary.Dispatched, err = s.dispatchTaxReminders(ctx, clock, taxSchedules, chans)
	if err != nil {
		return nil, err
	}

	summary.DispatchedStation, err = s.dispatchStationReminders(ctx, clock, stationSchedules, chans)
	if err != nil {
		return nil, err
	}

	summary.DispatchedManual, err = s.dispatchManualNotifications(ctx, clock, chans)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Dispatch run finished. tax=%d station=%d manual=%d",
		summary.Dispatched, summary.DispatchedStation, summary.DispatchedManual)
	return summary, nil
}

// dispatchTaxReminders generates one reminder per tax record due exactly
// lead-time days from today.
func (s *DispatchServiceImpl) dispatchTaxReminders(ctx context.Context, clock civil.Clock, schedules []*schedule.Schedule, chans channelSet) (int, error) {
	dispatched := 0
	for _, sched := range schedules {
		targetDate := clock.AddDays(sched.DaysBefore)
		taxes, err := s.taxRepo.ListByDueDate(ctx, targetDate)
		if err != nil {
			return dispatched, fmt.Errorf("failed to load taxes due on %s: %w", targetDate, err)
		}
		s.logger.Debugf("Schedule %s (%d days before): %d taxes due on %s", sched.ID, sched.DaysBefore, len(taxes), targetDate)

		for _, t := range taxes {
			n := &notification.Notification{
				Type:             notification.TypeTax,
				ScheduleID:       sql.NullString{String: sched.ID, Valid: true},
				TaxID:            sql.NullString{String: t.ID, Valid: true},
				NotificationDate: clock.Today(),
				NotificationTime: defaultNotificationTime,
				Title:            scheduleTitle(sched),
				Message:          s.renderTaxMessage(t),
				TeamsChannelID:   sched.TeamsChannelID,
			}
			created, err := s.createOrRefresh(ctx, n)
			if err != nil {
				return dispatched, err
			}
			if created {
				s.deliver(ctx, clock, n, chans)
				dispatched++
			}
		}
	}
	return dispatched, nil
}

// dispatchStationReminders generates one reminder per missing schedule
// field per station old enough to be expected to have its dates filled in.
func (s *DispatchServiceImpl) dispatchStationReminders(ctx context.Context, clock civil.Clock, schedules []*schedule.Schedule, chans channelSet) (int, error) {
	if len(schedules) == 0 {
		return 0, nil
	}

	stations, err := s.stationRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load charging stations: %w", err)
	}
	scheduleRows, err := s.stationRepo.ListSchedules(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load station schedules: %w", err)
	}
	rowsByStation := make(map[string]*station.Schedule, len(scheduleRows))
	for _, row := range scheduleRows {
		rowsByStation[row.StationID] = row
	}

	dispatched := 0
	for _, sched := range schedules {
		for _, st := range stations {
			if clock.DaysSince(st.CreatedAt) < sched.DaysBefore {
				continue
			}
			for _, missing := range station.MissingFields(st, rowsByStation[st.ID]) {
				n := &notification.Notification{
					Type:               notification.TypeStationSchedule,
					ScheduleID:         sql.NullString{String: sched.ID, Valid: true},
					StationID:          sql.NullString{String: st.ID, Valid: true},
					StationMissingType: sql.NullString{String: string(missing), Valid: true},
					NotificationDate:   clock.Today(),
					NotificationTime:   defaultNotificationTime,
					Title:              scheduleTitle(sched),
					Message:            s.renderStationMessage(st, missing),
					TeamsChannelID:     sched.TeamsChannelID,
				}
				created, err := s.createOrRefresh(ctx, n)
				if err != nil {
					return dispatched, err
				}
				if created {
					s.deliver(ctx, clock, n, chans)
					dispatched++
				}
			}
		}
	}
	return dispatched, nil
}

// dispatchManualNotifications releases operator-authored notifications due
// today, but only inside the fixed delivery window. Records left pending
// (outside the window, or failed) are picked up by a later invocation.
func (s *DispatchServiceImpl) dispatchManualNotifications(ctx context.Context, clock civil.Clock, chans channelSet) (int, error) {
	if !inManualWindow(clock) {
		return 0, nil
	}

	pending, err := s.notifRepo.ListPendingManual(ctx, clock.Today())
	if err != nil {
		return 0, fmt.Errorf("failed to load pending manual notifications: %w", err)
	}

	for _, n := range pending {
		s.deliver(ctx, clock, n, chans)
	}
	return len(pending), nil
}

func inManualWindow(clock civil.Clock) bool {
	now := clock.Now()
	return now.Hour() == manualDispatchHour && now.Minute() < manualDispatchWindowMinutes
}

// createOrRefresh inserts the notification or, when its idempotency key
// already exists, refreshes only the stored message so template changes
// propagate. Delivery bookkeeping is never reset by re-discovery; only a
// freshly created record (created=true) gets a delivery attempt.
func (s *DispatchServiceImpl) createOrRefresh(ctx context.Context, n *notification.Notification) (created bool, err error) {
	existing, err := s.notifRepo.FindByKey(ctx, n.Key())
	if err != nil && err != idb.ErrNotificationNotFound {
		return false, fmt.Errorf("failed to look up notification by key: %w", err)
	}

	if existing == nil {
		createErr := s.notifRepo.Create(ctx, n)
		if createErr == nil {
			return true, nil
		}
		if createErr != idb.ErrDuplicateNotification {
			s.logger.Errorf("Failed to create notification (type=%s date=%s): %v", n.Type, n.NotificationDate, createErr)
			return false, nil
		}
		// A concurrent invocation won the insert race; fall through and
		// treat its record as the existing one.
		existing, err = s.notifRepo.FindByKey(ctx, n.Key())
		if err != nil {
			return false, fmt.Errorf("failed to re-fetch notification after duplicate insert: %w", err)
		}
	}

	n.ID = existing.ID
	n.IsSent = existing.IsSent
	if err := s.notifRepo.UpdateMessage(ctx, existing.ID, n.Message); err != nil {
		s.logger.Errorf("Failed to refresh message for notification %s: %v", existing.ID, err)
	}
	return false, nil
}

// deliver resolves targets, sends to all of them concurrently and writes
// back the aggregated delivery outcome. Failures stay on the record; they
// never abort sibling notifications.
func (s *DispatchServiceImpl) deliver(ctx context.Context, clock civil.Clock, n *notification.Notification, chans channelSet) {
	targets := s.resolveTargets(n.TeamsChannelID, chans)
	status := notification.DeliveryStatus{LastAttemptAt: clock.Now()}

	if len(targets) == 0 {
		status.ErrorMessage = sql.NullString{String: "발송 대상 채널이 없습니다", Valid: true}
	} else {
		failed := s.sendToAll(ctx, targets, n.Message)
		if failed == 0 {
			status.Sent = true
			status.SentAt = sql.NullTime{Time: clock.Now(), Valid: true}
		} else {
			status.ErrorMessage = sql.NullString{String: fmt.Sprintf("Teams 발송 실패 (%d/%d)", failed, len(targets)), Valid: true}
			s.logger.Errorf("Notification %s: failed to send %d/%d teams messages", n.ID, failed, len(targets))
		}
	}

	if err := s.notifRepo.UpdateDeliveryStatus(ctx, n.ID, status); err != nil {
		s.logger.Errorf("Failed to update delivery status for notification %s: %v", n.ID, err)
	}
}

// resolveTargets maps an optional explicit channel to webhook URLs. An
// explicit channel that is missing or inactive yields zero targets — not a
// broadcast and not a hard error.
func (s *DispatchServiceImpl) resolveTargets(channelID sql.NullString, chans channelSet) []string {
	if channelID.Valid && channelID.String != "" {
		if url, ok := chans.byID[channelID.String]; ok {
			return []string{url}
		}
		s.logger.Warnf("Configured teams channel %s: %v", channelID.String, idb.ErrChannelNotFound)
		return nil
	}
	return chans.all
}

// sendToAll posts the message to every target concurrently, waits for all
// sends to settle and returns how many failed.
func (s *DispatchServiceImpl) sendToAll(ctx context.Context, targets []string, message string) int {
	var wg sync.WaitGroup
	errs := make([]error, len(targets))
	for i, url := range targets {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			errs[i] = s.sender.Send(ctx, url, message)
		}(i, url)
	}
	wg.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			s.logger.Warnf("Teams send to target %d/%d failed: %v", i+1, len(targets), err)
		}
	}
	return failed
}

func (s *DispatchServiceImpl) SendDirect(ctx context.Context, at time.Time, req DirectSendRequest) (*DirectSendResult, error) {
	clock := civil.At(at)

	urls := make([]string, 0, len(req.WebhookURLs))
	seen := make(map[string]bool)
	appendURL := func(u string) {
		if strings.HasPrefix(u, "http") && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	for _, u := range req.WebhookURLs {
		appendURL(u)
	}
	if len(req.ChannelIDs) > 0 {
		channels, err := s.channelRepo.ListActiveByIDs(ctx, req.ChannelIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load teams channels by ids: %w", err)
		}
		for _, c := range channels {
			appendURL(c.WebhookURL)
		}
	}
	if len(urls) == 0 {
		return nil, ErrNoTargets
	}

	// A re-trigger without explicit text re-sends the stored message.
	text := req.Text
	if strings.TrimSpace(text) == "" && req.NotificationID != "" {
		n, err := s.notifRepo.GetByID(ctx, req.NotificationID)
		if err != nil {
			return nil, fmt.Errorf("failed to load notification %s: %w", req.NotificationID, err)
		}
		text = n.Message
	}
	if strings.TrimSpace(text) == "" {
		text = fmt.Sprintf("TMS 테스트 메시지 (%s)", clock.Now().Format("2006-01-02 15:04:05"))
	}

	failed := s.sendToAll(ctx, urls, text)
	result := &DirectSendResult{Sent: len(urls) - failed, Failed: failed}

	if req.NotificationID != "" {
		sent := failed == 0
		status := notification.DeliveryStatus{
			Sent:          sent,
			LastAttemptAt: clock.Now(),
		}
		if sent {
			status.SentAt = sql.NullTime{Time: clock.Now(), Valid: true}
		} else {
			status.ErrorMessage = sql.NullString{String: fmt.Sprintf("Teams 발송 실패 (%d/%d)", failed, len(urls)), Valid: true}
		}
		if err := s.notifRepo.UpdateDeliveryStatus(ctx, req.NotificationID, status); err != nil {
			s.logger.Errorf("Failed to update delivery status for notification %s: %v", req.NotificationID, err)
		}

		logStatus := "success"
		var logErr sql.NullString
		if !sent {
			logStatus = "failed"
			logErr = status.ErrorMessage
		}
		if err := s.notifRepo.CreateLog(ctx, &notification.DeliveryLog{
			NotificationID: req.NotificationID,
			SendStatus:     logStatus,
			ErrorMessage:   logErr,
			SentAt:         clock.Now(),
		}); err != nil {
			s.logger.Errorf("Failed to create delivery log for notification %s: %v", req.NotificationID, err)
		}
	}

	return result, nil
}

func scheduleTitle(sched *schedule.Schedule) string {
	if sched.Name != "" {
		return sched.Name
	}
	return "알림"
}

func (s *DispatchServiceImpl) renderTaxMessage(t *tax.Tax) string {
	stationName := t.StationName
	if stationName == "" {
		stationName = "-"
	}
	return strings.Join([]string{
		"세금 납부일 알림입니다.",
		fmt.Sprintf("%s / %s / %s", stationName, t.Type.Label(), t.DueDate),
		s.baseURL,
	}, "\n")
}

func (s *DispatchServiceImpl) renderStationMessage(st *station.Station, missing station.MissingField) string {
	return strings.Join([]string{
		fmt.Sprintf("%s %s 미입력 상태입니다.", st.Name, missing.Label()),
		"날짜를 입력해 주세요.",
		s.baseURL,
	}, "\n")
}
