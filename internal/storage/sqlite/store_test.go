package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	"healthsync/internal/domain"
)

type LedgerSuite struct {
	suite.Suite
	ctx     context.Context
	db      *sqlx.DB
	samples *SampleStore
	history *HistoryStore
	marks   *WatermarkStore
	tx      *TransactionManager
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := Open(s.ctx, MemoryPath)
	s.Require().NoError(err)

	s.db = db
	s.samples = NewSampleStore(db)
	s.history = NewHistoryStore(db)
	s.marks = NewWatermarkStore(db)
	s.tx = NewTransactionManager(db)
}

func (s *LedgerSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func newSamples(n int, base time.Time) []domain.Sample {
	out := make([]domain.Sample, n)
	for i := range out {
		at := base.Add(time.Duration(i) * time.Millisecond)
		out[i] = domain.NewSample(domain.DataTypeHeartRate, float64(60+i), "count/min", at, at.Add(time.Second))
		out[i].CreatedAt = at
	}
	return out
}

func (s *LedgerSuite) TestSaveSamples_RoundTrip() {
	base := time.Date(2026, 3, 1, 8, 0, 0, 123456789, time.UTC)
	source := "com.example.watch"
	samples := newSamples(1, base)
	samples[0].Source = &source
	samples[0].Metadata = map[string]string{"context": "resting"}
	samples[0].TimeZone = "Europe/Berlin"

	s.Require().NoError(s.samples.SaveSamples(s.ctx, samples, "user-1"))

	got, err := s.samples.FetchUnsynced(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(samples[0].ID, got[0].ID)
	s.Equal(domain.DataTypeHeartRate, got[0].Type)
	s.Equal(60.0, got[0].Value)
	s.Equal(base, got[0].StartDate)
	s.Equal(base, got[0].CreatedAt)
	s.Equal(source, *got[0].Source)
	s.Equal(map[string]string{"context": "resting"}, got[0].Metadata)
	s.Equal("Europe/Berlin", got[0].TimeZone)
	s.False(got[0].IsSynced)
}

func (s *LedgerSuite) TestSaveSamples_IdempotentUpsert() {
	samples := newSamples(3, time.Now().UTC())

	s.Require().NoError(s.samples.SaveSamples(s.ctx, samples, "user-1"))
	samples[1].Value = 99
	s.Require().NoError(s.samples.SaveSamples(s.ctx, append(samples, samples[1]), "user-1"))

	count, err := s.samples.CountUnsynced(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, count)

	got, err := s.samples.FetchUnsynced(s.ctx)
	s.Require().NoError(err)
	s.Equal(99.0, got[1].Value)
}

func (s *LedgerSuite) TestSaveSamples_SyncedFlagNeverReverts() {
	samples := newSamples(2, time.Now().UTC())
	s.Require().NoError(s.samples.SaveSamples(s.ctx, samples, "user-1"))
	s.Require().NoError(s.samples.MarkSynced(s.ctx, domain.SampleIDs(samples)))

	s.Require().NoError(s.samples.SaveSamples(s.ctx, samples, "user-1"))

	count, err := s.samples.CountUnsynced(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *LedgerSuite) TestFetchUnsyncedPage_MatchesUnpagedFetch() {
	s.Require().NoError(s.samples.SaveSamples(s.ctx, newSamples(25, time.Now().UTC()), "user-1"))

	all, err := s.samples.FetchUnsynced(s.ctx)
	s.Require().NoError(err)

	var paged []domain.Sample
	for offset := 0; ; offset += 10 {
		page, err := s.samples.FetchUnsyncedPage(s.ctx, 10, offset)
		s.Require().NoError(err)
		if len(page) == 0 {
			break
		}
		paged = append(paged, page...)
	}

	s.Equal(domain.SampleIDs(all), domain.SampleIDs(paged))
}

func (s *LedgerSuite) TestFetchUnsyncedPage_WhileMarkingSynced() {
	s.Require().NoError(s.samples.SaveSamples(s.ctx, newSamples(25, time.Now().UTC()), "user-1"))
	all, err := s.samples.FetchUnsynced(s.ctx)
	s.Require().NoError(err)

	// every other page is only partially accepted; the synced rows leave the
	// unsynced set, so the query offset trails the cursor by the synced total
	var seen []domain.Sample
	cursor, synced := 0, 0
	for cursor < len(all) {
		page, err := s.samples.FetchUnsyncedPage(s.ctx, 10, cursor-synced)
		s.Require().NoError(err)
		s.Require().NotEmpty(page)
		seen = append(seen, page...)

		accepted := len(page)
		if len(seen)%20 == 0 {
			accepted = 3
		}
		s.Require().NoError(s.samples.MarkSynced(s.ctx, domain.SampleIDs(page[:accepted])))
		synced += accepted
		cursor += len(page)
	}

	s.Equal(domain.SampleIDs(all), domain.SampleIDs(seen))
}

func (s *LedgerSuite) TestDeleteSyncedOlderThan_KeepsUnsynced() {
	now := time.Now().UTC()
	old := newSamples(4, now.AddDate(0, 0, -45))
	fresh := newSamples(2, now)
	s.Require().NoError(s.samples.SaveSamples(s.ctx, append(old, fresh...), "user-1"))
	s.Require().NoError(s.samples.MarkSynced(s.ctx, domain.SampleIDs(old[:3])))
	s.Require().NoError(s.samples.MarkSynced(s.ctx, domain.SampleIDs(fresh)))

	deleted, err := s.samples.DeleteSyncedOlderThan(s.ctx, domain.RetentionCutoff(now, 30))
	s.Require().NoError(err)
	s.Equal(int64(3), deleted)

	var total int
	s.Require().NoError(s.db.GetContext(s.ctx, &total, "SELECT COUNT(*) FROM samples"))
	s.Equal(3, total)

	unsynced, err := s.samples.FetchUnsynced(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(unsynced, 1)
	s.Equal(old[3].ID, unsynced[0].ID)
}

func (s *LedgerSuite) TestHistory_NewestFirst() {
	base := time.Now().UTC()
	msg := "authentication failed"
	for i, status := range []domain.RecordStatus{domain.RecordStatusSuccess, domain.RecordStatusPartialSuccess, domain.RecordStatusFailed} {
		rec := domain.NewSyncRecord(status, i, time.Duration(i)*time.Second)
		rec.Timestamp = base.Add(time.Duration(i) * time.Minute)
		if status == domain.RecordStatusFailed {
			rec.ErrorMessage = &msg
		}
		s.Require().NoError(s.history.AppendHistory(s.ctx, rec))
	}

	records, err := s.history.ListHistory(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(domain.RecordStatusFailed, records[0].Status)
	s.Equal(msg, *records[0].ErrorMessage)
	s.Equal(domain.RecordStatusPartialSuccess, records[1].Status)
	s.Equal(time.Second, records[1].Duration)

	last, err := s.history.LastSuccess(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(last)
	s.Equal(domain.RecordStatusPartialSuccess, last.Status)
}

func (s *LedgerSuite) TestHistory_LastSuccessEmpty() {
	last, err := s.history.LastSuccess(s.ctx)
	s.NoError(err)
	s.Nil(last)
}

func (s *LedgerSuite) TestWatermark_OnlyMovesForward() {
	now := time.Now().UTC()

	at, err := s.marks.GetWatermark(s.ctx, domain.DataTypeStepCount)
	s.Require().NoError(err)
	s.True(at.IsZero())

	s.Require().NoError(s.marks.SetWatermark(s.ctx, domain.DataTypeStepCount, now))
	s.Require().NoError(s.marks.SetWatermark(s.ctx, domain.DataTypeStepCount, now.Add(-time.Hour)))

	at, err = s.marks.GetWatermark(s.ctx, domain.DataTypeStepCount)
	s.Require().NoError(err)
	s.True(now.Equal(at))
}

func (s *LedgerSuite) TestTransaction_RollbackDiscardsWrites() {
	now := time.Now().UTC()

	err := s.tx.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.samples.SaveSamples(ctx, newSamples(3, now), "user-1"); err != nil {
			return err
		}
		if err := s.marks.SetWatermark(ctx, domain.DataTypeHeartRate, now); err != nil {
			return err
		}
		return errors.New("abort")
	})
	s.Require().Error(err)

	count, err := s.samples.CountUnsynced(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)

	at, err := s.marks.GetWatermark(s.ctx, domain.DataTypeHeartRate)
	s.Require().NoError(err)
	s.True(at.IsZero())
}

func (s *LedgerSuite) TestTransaction_Commit() {
	err := s.tx.WithTransaction(s.ctx, func(ctx context.Context) error {
		return s.samples.SaveSamples(ctx, newSamples(3, time.Now().UTC()), "user-1")
	})
	s.Require().NoError(err)

	count, err := s.samples.CountUnsynced(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, count)
}
