package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"healthsync/internal/api/mocks"
	"healthsync/internal/domain"
)

type serverCtxKey struct{}

type RoutesTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	syncer  *mocks.MockSyncer
	ctx     context.Context
	handler http.Handler
}

func (s *RoutesTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.syncer = mocks.NewMockSyncer(s.ctrl)
	s.ctx = context.WithValue(context.Background(), serverCtxKey{}, "server")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.handler = NewServer(s.ctx, s.syncer, logger, WithMiddlewares(LoggingMiddleware(logger)))
}

func (s *RoutesTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}

func (s *RoutesTestSuite) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *RoutesTestSuite) doBody(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// doDisconnected serves a request whose client has already gone away.
func (s *RoutesTestSuite) doDisconnected(method, target string) *httptest.ResponseRecorder {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(method, target, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *RoutesTestSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Equal("application/json", rec.Header().Get("Content-Type"))
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(v))
}

func (s *RoutesTestSuite) TestHealthz() {
	rec := s.do(http.MethodGet, "/healthz")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RoutesTestSuite) TestSync_Success() {
	record := &domain.SyncRecord{
		ID:          uuid.New(),
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Status:      domain.RecordStatusSuccess,
		SyncedCount: 12,
		Duration:    1500 * time.Millisecond,
	}
	s.syncer.EXPECT().PerformManualSync(gomock.Any()).Return(record, nil)

	rec := s.do(http.MethodPost, "/v1/sync")

	s.Equal(http.StatusOK, rec.Code)
	var resp RecordResponse
	s.decode(rec, &resp)
	s.Equal(record.ID.String(), resp.ID)
	s.Equal("success", resp.Status)
	s.Equal(12, resp.SyncedCount)
	s.Equal(int64(1500), resp.DurationMS)
	s.Nil(resp.ErrorMessage)
}

func (s *RoutesTestSuite) TestSync_InProgress() {
	s.syncer.EXPECT().PerformManualSync(gomock.Any()).Return(nil, domain.ErrSyncInProgress)

	rec := s.do(http.MethodPost, "/v1/sync")

	s.Equal(http.StatusConflict, rec.Code)
	var resp errorResponse
	s.decode(rec, &resp)
	s.Equal(domain.ErrSyncInProgress.Error(), resp.Error)
}

func (s *RoutesTestSuite) TestSync_FailedPass() {
	msg := "authentication failed"
	record := &domain.SyncRecord{ID: uuid.New(), Status: domain.RecordStatusFailed, ErrorMessage: &msg}
	s.syncer.EXPECT().PerformManualSync(gomock.Any()).
		Return(record, &domain.DeliveryError{Kind: domain.DeliveryAuthFailed})

	rec := s.do(http.MethodPost, "/v1/sync")

	s.Equal(http.StatusBadGateway, rec.Code)
	var resp RecordResponse
	s.decode(rec, &resp)
	s.Equal("failed", resp.Status)
	s.Require().NotNil(resp.ErrorMessage)
	s.Equal(msg, *resp.ErrorMessage)
}

func (s *RoutesTestSuite) TestSync_OutlivesClientDisconnect() {
	s.syncer.EXPECT().PerformManualSync(gomock.Any()).DoAndReturn(func(ctx context.Context) (*domain.SyncRecord, error) {
		s.NoError(ctx.Err())
		return &domain.SyncRecord{ID: uuid.New(), Status: domain.RecordStatusSuccess}, nil
	})

	rec := s.doDisconnected(http.MethodPost, "/v1/sync")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RoutesTestSuite) TestSync_ServerShutdownCancelsPass() {
	serverCtx, shutdown := context.WithCancel(context.Background())
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	handler := NewServer(serverCtx, s.syncer, logger)

	s.syncer.EXPECT().PerformManualSync(gomock.Any()).DoAndReturn(func(ctx context.Context) (*domain.SyncRecord, error) {
		shutdown()
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			s.Fail("pass context not cancelled on shutdown")
		}
		return nil, ctx.Err()
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sync", nil))
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *RoutesTestSuite) TestStatus() {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.syncer.EXPECT().Status().Return(domain.SyncingStatus(0.54))
	s.syncer.EXPECT().AutoSyncMode().Return(domain.AutoSyncMode{Kind: domain.AutoSyncPeriodic, Interval: time.Hour})
	s.syncer.EXPECT().LastSuccessfulSync(gomock.Any()).Return(at, true, nil)
	s.syncer.EXPECT().QueuedSamples().Return(150)

	rec := s.do(http.MethodGet, "/v1/status")

	s.Equal(http.StatusOK, rec.Code)
	var resp StatusResponse
	s.decode(rec, &resp)
	s.Equal(domain.SyncStateSyncing, resp.Status.State)
	s.InDelta(0.54, resp.Status.Progress, 1e-9)
	s.Equal("periodic", resp.AutoSync.Mode)
	s.Equal("1h0m0s", resp.AutoSync.Interval)
	s.Require().NotNil(resp.LastSuccess)
	s.True(at.Equal(*resp.LastSuccess))
	s.Equal(150, resp.QueuedSamples)
}

func (s *RoutesTestSuite) TestStatus_NeverSynced() {
	s.syncer.EXPECT().Status().Return(domain.IdleStatus())
	s.syncer.EXPECT().AutoSyncMode().Return(domain.AutoSyncMode{Kind: domain.AutoSyncStopped})
	s.syncer.EXPECT().LastSuccessfulSync(gomock.Any()).Return(time.Time{}, false, nil)
	s.syncer.EXPECT().QueuedSamples().Return(0)

	rec := s.do(http.MethodGet, "/v1/status")

	var resp StatusResponse
	s.decode(rec, &resp)
	s.Nil(resp.LastSuccess)
	s.Empty(resp.AutoSync.Interval)
}

func (s *RoutesTestSuite) TestHistory() {
	records := []domain.SyncRecord{
		{ID: uuid.New(), Status: domain.RecordStatusSuccess, SyncedCount: 3},
		{ID: uuid.New(), Status: domain.RecordStatusPartialSuccess, SyncedCount: 1},
	}
	s.syncer.EXPECT().History(gomock.Any(), 2).Return(records, nil)

	rec := s.do(http.MethodGet, "/v1/history?limit=2")

	s.Equal(http.StatusOK, rec.Code)
	var resp HistoryResponse
	s.decode(rec, &resp)
	s.Equal(2, resp.Total)
	s.Equal("partialSuccess", resp.Records[1].Status)
}

func (s *RoutesTestSuite) TestHistory_DefaultLimit() {
	s.syncer.EXPECT().History(gomock.Any(), 0).Return(nil, nil)

	rec := s.do(http.MethodGet, "/v1/history")

	s.Equal(http.StatusOK, rec.Code)
	var resp HistoryResponse
	s.decode(rec, &resp)
	s.Zero(resp.Total)
	s.NotNil(resp.Records)
}

func (s *RoutesTestSuite) TestHistory_InvalidLimit() {
	for _, limit := range []string{"0", "-1", "abc", "501"} {
		rec := s.do(http.MethodGet, "/v1/history?limit="+limit)
		s.Equal(http.StatusBadRequest, rec.Code, limit)
	}
}

func (s *RoutesTestSuite) TestHistory_LedgerError() {
	s.syncer.EXPECT().History(gomock.Any(), 0).
		Return(nil, &domain.LedgerError{Op: domain.LedgerFetchFailed, Err: errors.New("locked")})

	rec := s.do(http.MethodGet, "/v1/history")
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *RoutesTestSuite) TestStartAutoSync_UsesServerContext() {
	s.syncer.EXPECT().StartAutoSync(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		s.Equal("server", ctx.Value(serverCtxKey{}))
		return nil
	})
	s.syncer.EXPECT().AutoSyncMode().Return(domain.AutoSyncMode{Kind: domain.AutoSyncRealtime})

	rec := s.do(http.MethodPost, "/v1/autosync/start")

	s.Equal(http.StatusOK, rec.Code)
	var resp AutoSyncResponse
	s.decode(rec, &resp)
	s.Equal("realtime", resp.Mode)
}

func (s *RoutesTestSuite) TestStartAutoSync_ObservationUnsupported() {
	s.syncer.EXPECT().StartAutoSync(gomock.Any()).Return(domain.ErrObservationUnsupported)

	rec := s.do(http.MethodPost, "/v1/autosync/start")
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *RoutesTestSuite) TestStopAutoSync() {
	s.syncer.EXPECT().StopAutoSync()
	s.syncer.EXPECT().AutoSyncMode().Return(domain.AutoSyncMode{Kind: domain.AutoSyncStopped})

	rec := s.do(http.MethodPost, "/v1/autosync/stop")

	s.Equal(http.StatusOK, rec.Code)
	var resp AutoSyncResponse
	s.decode(rec, &resp)
	s.Equal("stopped", resp.Mode)
}

func (s *RoutesTestSuite) TestSetFrequency() {
	s.syncer.EXPECT().SetFrequency(gomock.Any(), domain.FrequencyDaily).DoAndReturn(func(ctx context.Context, _ domain.SyncFrequency) error {
		s.Equal("server", ctx.Value(serverCtxKey{}))
		return nil
	})
	s.syncer.EXPECT().AutoSyncMode().Return(domain.AutoSyncMode{Kind: domain.AutoSyncPeriodic, Interval: 24 * time.Hour})

	rec := s.doBody(http.MethodPut, "/v1/autosync/frequency", `{"frequency":"daily"}`)

	s.Equal(http.StatusOK, rec.Code)
	var resp AutoSyncResponse
	s.decode(rec, &resp)
	s.Equal("periodic", resp.Mode)
	s.Equal("24h0m0s", resp.Interval)
}

func (s *RoutesTestSuite) TestSetFrequency_Invalid() {
	rec := s.doBody(http.MethodPut, "/v1/autosync/frequency", `{"frequency":"weekly"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.doBody(http.MethodPut, "/v1/autosync/frequency", `not json`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RoutesTestSuite) TestSetFrequency_ObservationUnsupported() {
	s.syncer.EXPECT().SetFrequency(gomock.Any(), domain.FrequencyRealtime).Return(domain.ErrObservationUnsupported)

	rec := s.doBody(http.MethodPut, "/v1/autosync/frequency", `{"frequency":"realtime"}`)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *RoutesTestSuite) TestNetworkRestored() {
	s.syncer.EXPECT().NetworkRestored(gomock.Any()).Return(7, nil)

	rec := s.do(http.MethodPost, "/v1/network/restored")

	s.Equal(http.StatusOK, rec.Code)
	var resp RestoredResponse
	s.decode(rec, &resp)
	s.Equal(7, resp.Synced)
}

func (s *RoutesTestSuite) TestNetworkRestored_Partial() {
	s.syncer.EXPECT().NetworkRestored(gomock.Any()).
		Return(2, &domain.DeliveryError{Kind: domain.DeliveryTimeout})

	rec := s.do(http.MethodPost, "/v1/network/restored")
	s.Equal(http.StatusBadGateway, rec.Code)
}

func (s *RoutesTestSuite) TestNetworkRestored_OutlivesClientDisconnect() {
	s.syncer.EXPECT().NetworkRestored(gomock.Any()).DoAndReturn(func(ctx context.Context) (int, error) {
		s.NoError(ctx.Err())
		return 3, nil
	})

	rec := s.doDisconnected(http.MethodPost, "/v1/network/restored")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RoutesTestSuite) TestMethodNotAllowed() {
	rec := s.do(http.MethodGet, "/v1/sync")
	s.Equal(http.StatusMethodNotAllowed, rec.Code)
}
