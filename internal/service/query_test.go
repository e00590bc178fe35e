package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iotlogic/tank-monitor/internal/domain"
)

func newQuery(store *fakeStore) *QueryService {
	svc := NewQueryService(store, testConfig(), zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return svc
}

func ts(h int) time.Time {
	return time.Date(2026, 8, 30, h, 0, 0, 0, time.UTC)
}

func TestSnapshot_EmptyTank(t *testing.T) {
	snap, err := newQuery(&fakeStore{}).Snapshot(7)
	if err != nil {
		t.Fatalf("empty tank must not be an error: %v", err)
	}
	if snap.Status != "OK" || snap.TankID != 7 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Latest != nil {
		t.Error("latest should be nil for an empty tank")
	}

	// Empty arrays must serialize as [] rather than null.
	data, _ := json.Marshal(snap)
	body := string(data)
	if !strings.Contains(body, `"latest":null`) {
		t.Errorf("latest not null in %s", body)
	}
	if !strings.Contains(body, `"recent":[]`) || !strings.Contains(body, `"hourly":[]`) {
		t.Errorf("empty arrays serialized wrong: %s", body)
	}
}

func TestSnapshot_ReversesToChronological(t *testing.T) {
	store := &fakeStore{
		latest: &domain.Reading{TankID: 1, Level: 150, Percentage: 75, Timestamp: ts(11)},
		recent: []domain.Reading{
			{TankID: 1, Level: 150, Percentage: 75, Timestamp: ts(11)},
			{TankID: 1, Level: 140, Percentage: 70, Timestamp: ts(10)},
			{TankID: 1, Level: 130, Percentage: 65, Timestamp: ts(9)},
		},
		hourly: []domain.HourlyAggregate{
			{TankID: 1, HourStart: ts(11), AvgLevel: 145, AvgPercentage: 72.5, Samples: 6},
			{TankID: 1, HourStart: ts(10), AvgLevel: 135, AvgPercentage: 67.5, Samples: 6},
		},
	}

	snap, err := newQuery(store).Snapshot(1)
	if err != nil {
		t.Fatal(err)
	}

	if len(snap.Recent) != 3 {
		t.Fatalf("recent length = %d", len(snap.Recent))
	}
	for i := 1; i < len(snap.Recent); i++ {
		if snap.Recent[i-1].Timestamp >= snap.Recent[i].Timestamp {
			t.Errorf("recent not ascending: %q before %q", snap.Recent[i-1].Timestamp, snap.Recent[i].Timestamp)
		}
	}
	if snap.Recent[0].Level != 130 || snap.Recent[2].Level != 150 {
		t.Errorf("recent order wrong: %+v", snap.Recent)
	}

	if len(snap.Hourly) != 2 {
		t.Fatalf("hourly length = %d", len(snap.Hourly))
	}
	if snap.Hourly[0].HourStart >= snap.Hourly[1].HourStart {
		t.Errorf("hourly not ascending: %+v", snap.Hourly)
	}

	if snap.Latest == nil || snap.Latest.Level != 150 {
		t.Errorf("latest = %+v", snap.Latest)
	}
}

func TestSnapshot_StoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	for _, store := range []*fakeStore{
		{latestErr: boom},
		{recentErr: boom},
		{hourlyErr: boom},
	} {
		_, err := newQuery(store).Snapshot(1)
		if !errors.Is(err, ErrDBConnection) {
			t.Errorf("got %v, want ErrDBConnection", err)
		}
	}
}

func TestSnapshot_DisplayTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Location = time.FixedZone("IST", 5*3600+1800)
	store := &fakeStore{
		latest: &domain.Reading{TankID: 1, Level: 100, Percentage: 50, Timestamp: ts(12)},
	}
	svc := NewQueryService(store, cfg, zerolog.Nop())
	svc.now = func() time.Time { return ts(12) }

	snap, err := svc.Snapshot(1)
	if err != nil {
		t.Fatal(err)
	}
	// 12:00 UTC renders as 17:30 IST.
	if snap.Latest.Timestamp != "2026-08-30 17:30:00" {
		t.Errorf("latest timestamp = %q", snap.Latest.Timestamp)
	}
	if snap.Timestamp != "2026-08-30 17:30:00" {
		t.Errorf("response timestamp = %q", snap.Timestamp)
	}
}
