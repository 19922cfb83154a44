package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierhub/shift-settlement-service/internal/domain"
)

const (
	terminalLat = 55.751244
	terminalLon = 37.618423
)

type shiftFixture struct {
	uc        *DefaultShiftUsecase
	shiftRepo *fakeShiftRepo
	couriers  *fakeCourierRepo
	pub       *recordingPublisher
}

// newShiftFixture builds a usecase around one eligible courier with one
// terminal and a weekday 09:00-18:00 schedule, grace cutoff 09:15.
func newShiftFixture(now time.Time) *shiftFixture {
	courier := &domain.Courier{ID: "c1", Role: domain.RoleCourier, DriveType: domain.DriveCar}
	terminal := &domain.Terminal{ID: "t1", OrganizationID: "org1", Lat: terminalLat, Lon: terminalLon, MaxDistanceMeters: 300}
	schedule := daySchedule("s1", "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR,SA,SU")

	shiftRepo := newFakeShiftRepo()
	couriers := newFakeCourierRepo(courier)
	pub := &recordingPublisher{}
	uc := &DefaultShiftUsecase{
		ShiftRepo:   shiftRepo,
		CourierRepo: couriers,
		Terminals:   newFakeTerminalSource(map[string][]*domain.Terminal{"c1": {terminal}}),
		Catalog:     catalogFor("c1", schedule),
		Publisher:   pub,
		Now:         func() time.Time { return now },
	}
	return &shiftFixture{uc: uc, shiftRepo: shiftRepo, couriers: couriers, pub: pub}
}

func TestOpen_OnTime(t *testing.T) {
	now := time.Date(2025, time.June, 3, 9, 5, 0, 0, time.UTC)
	f := newShiftFixture(now)

	shift, err := f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftOpen, shift.Status)
	assert.False(t, shift.Late)
	assert.Equal(t, "s1", shift.ScheduleID)

	att, err := f.shiftRepo.attendanceFor("c1", time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.False(t, att.Late)
	assert.Zero(t, att.LatenessMinutes)

	require.Len(t, f.pub.presence, 1)
	assert.True(t, f.pub.presence[0].Online)
}

func TestOpen_LatenessAgainstCutoff(t *testing.T) {
	// Cutoff is 09:15; opening at 09:38 is 23 minutes late.
	now := time.Date(2025, time.June, 3, 9, 38, 0, 0, time.UTC)
	f := newShiftFixture(now)

	shift, err := f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, shift.Late)

	att, err := f.shiftRepo.attendanceFor("c1", time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.True(t, att.Late)
	assert.Equal(t, 23, att.LatenessMinutes)
}

func TestOpen_SecondOpenRejected(t *testing.T) {
	now := time.Date(2025, time.June, 3, 9, 5, 0, 0, time.UTC)
	f := newShiftFixture(now)

	_, err := f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	require.NoError(t, err)

	_, err = f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrShiftAlreadyOpen)
}

func TestOpen_ConcurrentOpensCreateOneShiftOneRecord(t *testing.T) {
	now := time.Date(2025, time.June, 3, 9, 5, 0, 0, time.UTC)
	f := newShiftFixture(now)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrShiftAlreadyOpen)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.shiftRepo.attendance, 1)
}

func TestOpen_ReopenSameDayKeepsFirstLateness(t *testing.T) {
	// First open on time, close, reopen late: the day's attendance
	// record keeps the first arrival's lateness.
	f := newShiftFixture(time.Date(2025, time.June, 3, 9, 5, 0, 0, time.UTC))

	_, err := f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	require.NoError(t, err)
	f.uc.Now = func() time.Time { return time.Date(2025, time.June, 3, 13, 0, 0, 0, time.UTC) }
	_, err = f.uc.Close(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	require.NoError(t, err)

	f.uc.Now = func() time.Time { return time.Date(2025, time.June, 3, 14, 0, 0, 0, time.UTC) }
	shift, err := f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, shift.Late, "the reopen itself is past the cutoff")

	att, err := f.shiftRepo.attendanceFor("c1", time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.False(t, att.Late)
	assert.Zero(t, att.LatenessMinutes)
	assert.Len(t, f.shiftRepo.attendance, 1)
}

func TestOpen_RejectsIneligibleRole(t *testing.T) {
	now := time.Date(2025, time.June, 3, 9, 5, 0, 0, time.UTC)
	f := newShiftFixture(now)
	f.couriers.couriers["c1"].Role = "MANAGER"

	_, err := f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrNotCourier)
}

func TestOpen_RejectsUnknownCourier(t *testing.T) {
	f := newShiftFixture(time.Date(2025, time.June, 3, 9, 5, 0, 0, time.UTC))

	_, err := f.uc.Open(context.Background(), "ghost", terminalLat, terminalLon, "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrCourierNotFound)
}

func TestOpen_RejectsFarFromTerminal(t *testing.T) {
	now := time.Date(2025, time.June, 3, 9, 5, 0, 0, time.UTC)
	f := newShiftFixture(now)

	// ~1.1km north of the terminal, radius is 300m.
	_, err := f.uc.Open(context.Background(), "c1", terminalLat+0.01, terminalLon, "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrTooFarFromTerminal)
}

func TestOpen_RejectsWithoutActiveSchedule(t *testing.T) {
	now := time.Date(2025, time.June, 3, 9, 5, 0, 0, time.UTC)
	f := newShiftFixture(now)
	f.uc.Catalog = catalogFor("c1", daySchedule("s1", "FREQ=WEEKLY;BYDAY=SA"))

	_, err := f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrNoActiveSchedule)
}

func TestOpen_OvernightOpenAfterMidnightKeepsNominalDay(t *testing.T) {
	now := time.Date(2025, time.June, 4, 0, 45, 0, 0, time.UTC)
	f := newShiftFixture(now)
	f.uc.Catalog = catalogFor("c1", nightSchedule("night", "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR,SA,SU"))

	shift, err := f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, shift.Late, "open inside the overnight window is on time")

	att, err := f.shiftRepo.attendanceFor("c1", time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, att, "attendance belongs to the shift's anchor day, not the calendar day of the open")
	assert.Zero(t, att.LatenessMinutes)
}

func TestOpen_OvernightWindowNotLateOnEitherSideOfMidnight(t *testing.T) {
	overnight := &domain.WorkSchedule{
		ID:         "night",
		Recurrence: "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR,SA,SU",
		Start:      domain.DayTime{Hour: 22},
		End:        domain.DayTime{Hour: 6},
		MaxStart:   domain.DayTime{Hour: 22, Minute: 15},
	}

	opens := []struct {
		name string
		at   time.Time
	}{
		{"before midnight", time.Date(2025, time.June, 3, 23, 50, 0, 0, time.UTC)},
		{"after midnight", time.Date(2025, time.June, 4, 0, 40, 0, 0, time.UTC)},
	}
	for _, tc := range opens {
		t.Run(tc.name, func(t *testing.T) {
			f := newShiftFixture(tc.at)
			f.uc.Catalog = catalogFor("c1", overnight)

			shift, err := f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
			require.NoError(t, err)
			assert.False(t, shift.Late)

			att, err := f.shiftRepo.attendanceFor("c1", time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC))
			require.NoError(t, err)
			require.NotNil(t, att)
			assert.False(t, att.Late)
			assert.Zero(t, att.LatenessMinutes)
		})
	}
}

func TestClose_SetsDuration(t *testing.T) {
	f := newShiftFixture(time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC))

	_, err := f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	require.NoError(t, err)

	f.uc.Now = func() time.Time { return time.Date(2025, time.June, 3, 17, 30, 0, 0, time.UTC) }
	shift, err := f.uc.Close(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.2")
	require.NoError(t, err)

	assert.Equal(t, domain.ShiftClosed, shift.Status)
	assert.Equal(t, int64(8*3600+30*60), shift.DurationSeconds)
	require.NotNil(t, shift.ClosedAt)

	require.Len(t, f.pub.presence, 2)
	assert.False(t, f.pub.presence[1].Online)
}

func TestClose_NoOpenShift(t *testing.T) {
	f := newShiftFixture(time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC))

	_, err := f.uc.Close(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)
}

func TestCloseStale_ForceClosesOldShifts(t *testing.T) {
	f := newShiftFixture(time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC))

	_, err := f.uc.Open(context.Background(), "c1", terminalLat, terminalLon, "10.0.0.1")
	require.NoError(t, err)

	// 20 hours later the 16h cap has passed.
	f.uc.Now = func() time.Time { return time.Date(2025, time.June, 4, 5, 0, 0, 0, time.UTC) }
	closed, err := f.uc.CloseStale(context.Background(), 16*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	open, err := f.shiftRepo.GetOpenShift("c1")
	require.NoError(t, err)
	assert.Nil(t, open)
}
