package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ayursutra/ayursutra-backend/internal/logger"
	"github.com/ayursutra/ayursutra-backend/internal/stats"
	"github.com/ayursutra/ayursutra-backend/internal/types"
)

// EndResult is the outcome of a completed session: the derived summary, the
// awarded points, the storage outcome, and the rendered report locator.
type EndResult struct {
	Summary       stats.Summary
	PointsAwarded int
	LimitMessage  string
	StorageOK     bool
	ReportPath    string
}

// SessionService owns the single process-wide session. Start always resets
// the event log; a second start discards the previous session's in-flight
// data. Concurrent sessions for different users are not supported.
type SessionService interface {
	Start(ctx context.Context, userID, displayName string)
	Ingest(ctx context.Context, events []types.PoseEvent) (int, bool, error)
	End(ctx context.Context) (*EndResult, error)
	Status(ctx context.Context) types.SessionStatus
}

type sessionService struct {
	log     *logger.Logger
	reports ReportService
	store   SessionStoreService

	mu          sync.Mutex
	drained     *sync.Cond
	inflight    int
	active      bool
	events      []types.PoseEvent
	userID      string
	displayName string
}

func NewSessionService(log *logger.Logger, reports ReportService, store SessionStoreService) SessionService {
	serviceLog := log.With("service", "SessionService")
	ss := &sessionService{
		log:         serviceLog,
		reports:     reports,
		store:       store,
		displayName: "User",
	}
	ss.drained = sync.NewCond(&ss.mu)
	return ss
}

func (ss *sessionService) Start(ctx context.Context, userID, displayName string) {
	ss.mu.Lock()
	discarded := len(ss.events)
	ss.active = true
	ss.events = nil
	ss.userID = userID
	ss.displayName = displayName
	ss.mu.Unlock()

	if discarded > 0 {
		ss.log.Warn("New session discarded previous event log", "discarded_events", discarded)
	}
	ss.log.Info("Session started", "uid", userID, "display_name", displayName)
}

// Ingest appends events in input order. While the session is inactive it is
// a no-op and reports active=false. Validation runs before any mutation so a
// bad batch never partially appends.
func (ss *sessionService) Ingest(ctx context.Context, events []types.PoseEvent) (int, bool, error) {
	ss.mu.Lock()
	ss.inflight++
	ss.mu.Unlock()
	defer ss.finishIngest()

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if !ss.active {
		return 0, false, nil
	}
	if err := validatePoseEvents(events); err != nil {
		return 0, true, err
	}
	ss.events = append(ss.events, events...)
	return len(events), true, nil
}

func (ss *sessionService) finishIngest() {
	ss.mu.Lock()
	ss.inflight--
	if ss.inflight == 0 {
		ss.drained.Broadcast()
	}
	ss.mu.Unlock()
}

func validatePoseEvents(events []types.PoseEvent) error {
	for i, ev := range events {
		if ev.Pose == "" {
			return fmt.Errorf("%w: event %d has no pose", ErrInvalidPoseData, i)
		}
		if ev.Confidence < 0 || ev.Confidence > 1 {
			return fmt.Errorf("%w: event %d confidence %v outside [0,1]", ErrInvalidPoseData, i, ev.Confidence)
		}
		if ev.Timestamp < 0 {
			return fmt.Errorf("%w: event %d has negative timestamp", ErrInvalidPoseData, i)
		}
	}
	return nil
}

// End closes the session and runs the summary pipeline. The session is
// flipped inactive first, then End waits for in-flight ingest calls to land
// before snapshotting the event log; report rendering and the storage write
// operate on the snapshot outside the lock. A storage failure is reported
// via StorageOK and never fails the call; a report write failure does.
func (ss *sessionService) End(ctx context.Context) (*EndResult, error) {
	ss.mu.Lock()
	if !ss.active || ss.userID == "" {
		ss.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	ss.active = false
	for ss.inflight > 0 {
		ss.drained.Wait()
	}
	events := make([]types.PoseEvent, len(ss.events))
	copy(events, ss.events)
	userID := ss.userID
	displayName := ss.displayName
	ss.mu.Unlock()

	endTime := time.Now()
	summary := stats.Aggregate(events)
	points, capped := stats.ComputePoints(summary.AverageConfidence, summary.DurationSeconds)

	var limitMessage string
	if capped {
		limitMessage = "Points capped at 99 to comply with limit."
	}

	storageOK := ss.store.Save(ctx, userID, displayName, endTime, summary, points)

	reportPath, err := ss.reports.Generate(ctx, displayName, endTime, summary)
	if err != nil {
		ss.log.Error("Failed to generate session report", "uid", userID, "error", err)
		return nil, fmt.Errorf("Failed to generate session report: %w", err)
	}

	ss.log.Info("Session ended",
		"uid", userID,
		"frames", summary.FrameCount,
		"points", points,
		"storage_ok", storageOK,
		"report_path", reportPath,
	)
	return &EndResult{
		Summary:       summary,
		PointsAwarded: points,
		LimitMessage:  limitMessage,
		StorageOK:     storageOK,
		ReportPath:    reportPath,
	}, nil
}

func (ss *sessionService) Status(ctx context.Context) types.SessionStatus {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return types.SessionStatus{
		Active:      ss.active,
		PosesLogged: len(ss.events),
		UserID:      ss.userID,
		DisplayName: ss.displayName,
	}
}
