package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elie222/inbox-zero-sub003/internal/connections"
)

// fakeStore returns a fixed set of connections.
type fakeStore struct {
	conns []connections.CalendarConnection
	err   error
}

func (s *fakeStore) ConnectionsForAccount(_ context.Context, _ string) ([]connections.CalendarConnection, error) {
	return s.conns, s.err
}

// fakeProvider returns fixed busy periods or a fixed error.
type fakeProvider struct {
	name    string
	periods []BusyPeriod
	err     error

	gotRequests []FetchRequest
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) FetchBusyPeriods(_ context.Context, req FetchRequest) ([]BusyPeriod, error) {
	p.gotRequests = append(p.gotRequests, req)
	if p.err != nil {
		return nil, p.err
	}
	return p.periods, nil
}

func googleConn(id string, calendarIDs ...string) connections.CalendarConnection {
	return conn(id, connections.ProviderGoogle, calendarIDs...)
}

func microsoftConn(id string, calendarIDs ...string) connections.CalendarConnection {
	return conn(id, connections.ProviderMicrosoft, calendarIDs...)
}

func conn(id, provider string, calendarIDs ...string) connections.CalendarConnection {
	c := connections.CalendarConnection{
		ID:          id,
		Provider:    provider,
		AccessToken: "at-" + id,
		Connected:   true,
	}
	for _, calID := range calendarIDs {
		c.Calendars = append(c.Calendars, connections.CalendarRef{CalendarID: calID, Enabled: true})
	}
	return c
}

func newTestService(t *testing.T, store connections.Store, google, microsoft Provider) *Service {
	t.Helper()
	svc, err := NewService(Config{
		Store:     store,
		Google:    google,
		Microsoft: microsoft,
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(Config{})
	assert.Error(t, err)
}

func TestFetchBusyPeriodsMergesAcrossProviders(t *testing.T) {
	google := &fakeProvider{
		name: connections.ProviderGoogle,
		periods: []BusyPeriod{
			busyUTC(t, "2025-11-17T10:00:00Z", "2025-11-17T11:00:00Z"),
		},
	}
	microsoft := &fakeProvider{
		name: connections.ProviderMicrosoft,
		periods: []BusyPeriod{
			busyUTC(t, "2025-11-17T10:30:00Z", "2025-11-17T11:30:00Z"),
			busyUTC(t, "2025-11-17T14:00:00Z", "2025-11-17T15:00:00Z"),
		},
	}
	store := &fakeStore{conns: []connections.CalendarConnection{
		googleConn("conn-g", "primary"),
		microsoftConn("conn-m", "cal-1", "cal-2"),
	}}

	svc := newTestService(t, store, google, microsoft)
	result, err := svc.FetchBusyPeriods(context.Background(), Request{
		AccountID: "acct-1",
		StartDate: "2025-11-17",
		EndDate:   "2025-11-17",
		Timezone:  "UTC",
	})
	require.NoError(t, err)
	assert.False(t, result.PartialFailure)
	require.Len(t, result.Periods, 2)
	assert.True(t, result.Periods[0].Start.Equal(utc(t, "2025-11-17T10:00:00Z")))
	assert.True(t, result.Periods[0].End.Equal(utc(t, "2025-11-17T11:30:00Z")))
	assert.True(t, result.Periods[1].Start.Equal(utc(t, "2025-11-17T14:00:00Z")))

	// Each provider got exactly its own connection's calendars.
	require.Len(t, google.gotRequests, 1)
	assert.Equal(t, []string{"primary"}, google.gotRequests[0].CalendarIDs)
	require.Len(t, microsoft.gotRequests, 1)
	assert.Equal(t, []string{"cal-1", "cal-2"}, microsoft.gotRequests[0].CalendarIDs)
}

func TestFetchBusyPeriodsPartialFailure(t *testing.T) {
	google := &fakeProvider{
		name: connections.ProviderGoogle,
		err:  errors.New("503 backend unavailable"),
	}
	microsoft := &fakeProvider{
		name: connections.ProviderMicrosoft,
		periods: []BusyPeriod{
			busyUTC(t, "2025-11-17T09:00:00Z", "2025-11-17T09:30:00Z"),
		},
	}
	store := &fakeStore{conns: []connections.CalendarConnection{
		googleConn("conn-g", "primary"),
		microsoftConn("conn-m", "cal-1"),
	}}

	svc := newTestService(t, store, google, microsoft)
	result, err := svc.FetchBusyPeriods(context.Background(), Request{
		AccountID: "acct-1",
		StartDate: "2025-11-17",
		EndDate:   "2025-11-17",
		Timezone:  "UTC",
	})
	require.NoError(t, err, "a failing provider must not fail the request")
	assert.True(t, result.PartialFailure)
	assert.Equal(t, []string{"conn-g"}, result.FailedConnections)
	require.Len(t, result.Periods, 1)
	assert.True(t, result.Periods[0].Start.Equal(utc(t, "2025-11-17T09:00:00Z")))
}

func TestFetchBusyPeriodsEmpty(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil, nil)

	result, err := svc.FetchBusyPeriods(context.Background(), Request{
		AccountID: "acct-1",
		StartDate: "2025-11-17",
		EndDate:   "2025-11-17",
		Timezone:  "UTC",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Periods)
	assert.False(t, result.PartialFailure)
}

func TestFetchBusyPeriodsSkipsDisabledCalendars(t *testing.T) {
	google := &fakeProvider{name: connections.ProviderGoogle}
	c := googleConn("conn-g")
	c.Calendars = []connections.CalendarRef{{CalendarID: "primary", Enabled: false}}
	store := &fakeStore{conns: []connections.CalendarConnection{c}}

	svc := newTestService(t, store, google, nil)
	result, err := svc.FetchBusyPeriods(context.Background(), Request{
		AccountID: "acct-1",
		StartDate: "2025-11-17",
		EndDate:   "2025-11-17",
		Timezone:  "UTC",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Periods)
	assert.Empty(t, google.gotRequests, "connections with no enabled calendars fetch nothing")
}

func TestFetchBusyPeriodsUnsupportedProvider(t *testing.T) {
	store := &fakeStore{conns: []connections.CalendarConnection{
		conn("conn-x", "caldav", "cal-1"),
	}}

	svc := newTestService(t, store, nil, nil)
	result, err := svc.FetchBusyPeriods(context.Background(), Request{
		AccountID: "acct-1",
		StartDate: "2025-11-17",
		EndDate:   "2025-11-17",
		Timezone:  "UTC",
	})
	require.NoError(t, err)
	assert.True(t, result.PartialFailure)
	assert.Equal(t, []string{"conn-x"}, result.FailedConnections)
}

func TestFetchBusyPeriodsInvalidTimezone(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil, nil)

	_, err := svc.FetchBusyPeriods(context.Background(), Request{
		AccountID: "acct-1",
		StartDate: "2025-11-17",
		EndDate:   "2025-11-17",
		Timezone:  "Not/AZone",
	})
	assert.Error(t, err, "configuration errors must surface to the caller")
}

func TestFetchBusyPeriodsStoreError(t *testing.T) {
	svc := newTestService(t, &fakeStore{err: errors.New("db down")}, nil, nil)

	_, err := svc.FetchBusyPeriods(context.Background(), Request{
		AccountID: "acct-1",
		StartDate: "2025-11-17",
		EndDate:   "2025-11-17",
		Timezone:  "UTC",
	})
	assert.Error(t, err)
}

func TestFetchBusyPeriodsRendersInRequestedZone(t *testing.T) {
	google := &fakeProvider{
		name: connections.ProviderGoogle,
		periods: []BusyPeriod{
			busyUTC(t, "2025-11-17T05:00:00Z", "2025-11-17T21:00:00Z"),
		},
	}
	store := &fakeStore{conns: []connections.CalendarConnection{
		googleConn("conn-g", "primary"),
	}}

	svc := newTestService(t, store, google, nil)
	result, err := svc.FetchBusyPeriods(context.Background(), Request{
		AccountID: "acct-1",
		StartDate: "2025-11-16",
		EndDate:   "2025-11-17",
		Timezone:  "America/Los_Angeles",
	})
	require.NoError(t, err)
	require.Len(t, result.Periods, 1)
	assert.Equal(t, "2025-11-16T21:00:00-08:00", result.Periods[0].Start.Format(time.RFC3339))
	assert.Equal(t, "2025-11-17T13:00:00-08:00", result.Periods[0].End.Format(time.RFC3339))
}

func TestAvailabilityMultiDay(t *testing.T) {
	google := &fakeProvider{
		name: connections.ProviderGoogle,
		periods: []BusyPeriod{
			busyUTC(t, "2025-11-17T10:00:00Z", "2025-11-17T11:00:00Z"),
			busyUTC(t, "2025-11-18T14:00:00Z", "2025-11-18T15:00:00Z"),
		},
	}
	store := &fakeStore{conns: []connections.CalendarConnection{
		googleConn("conn-g", "primary"),
	}}

	svc := newTestService(t, store, google, nil)
	days, err := svc.Availability(context.Background(), Request{
		AccountID:           "acct-1",
		StartDate:           "2025-11-17",
		EndDate:             "2025-11-19",
		Timezone:            "UTC",
		SlotDurationMinutes: 30,
		WorkHours:           WorkHours{StartHour: 9, EndHour: 17},
	})
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, "2025-11-17", days[0].Date)
	require.Len(t, days[0].BusyPeriods, 1)
	assert.Len(t, days[0].TimeSlots, 16)

	assert.Equal(t, "2025-11-18", days[1].Date)
	require.Len(t, days[1].BusyPeriods, 1)

	assert.Equal(t, "2025-11-19", days[2].Date)
	assert.Empty(t, days[2].BusyPeriods)
	for _, slot := range days[2].TimeSlots {
		assert.True(t, slot.Available)
	}

	// 10:00-11:00 busy on the 17th makes slots 2 and 3 unavailable.
	assert.True(t, days[0].TimeSlots[0].Available)
	assert.False(t, days[0].TimeSlots[2].Available)
	assert.False(t, days[0].TimeSlots[3].Available)
	assert.True(t, days[0].TimeSlots[4].Available)
}

func TestAvailabilityAppliesDefaults(t *testing.T) {
	store := &fakeStore{conns: []connections.CalendarConnection{
		googleConn("conn-g", "primary"),
	}}
	google := &fakeProvider{name: connections.ProviderGoogle}

	svc := newTestService(t, store, google, nil)
	days, err := svc.Availability(context.Background(), Request{
		AccountID: "acct-1",
		StartDate: "2025-11-17",
		EndDate:   "2025-11-17",
		Timezone:  "UTC",
	})
	require.NoError(t, err)
	require.Len(t, days, 1)
	// Default 9-17 window with 30-minute slots.
	assert.Len(t, days[0].TimeSlots, 16)
}
