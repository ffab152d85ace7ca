package handler

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/service"
)

type mockBookings struct{ mock.Mock }

func (m *mockBookings) Create(ctx context.Context, userID, venueID uint64, start, end time.Time) (*model.Booking, error) {
	args := m.Called(ctx, userID, venueID, start, end)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockBookings) Get(ctx context.Context, id uint64, actor model.Actor) (*model.Booking, error) {
	args := m.Called(ctx, id, actor)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockBookings) List(ctx context.Context, q model.PageQuery) (model.Page[model.Booking], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.Page[model.Booking]), args.Error(1)
}

func (m *mockBookings) Cancel(ctx context.Context, id uint64, actor model.Actor) (*model.Booking, error) {
	args := m.Called(ctx, id, actor)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockBookings) Complete(ctx context.Context, id uint64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

type mockPayments struct{ mock.Mock }

func (m *mockPayments) Quote(ctx context.Context, bookingID uint64, actor model.Actor) (service.Quote, error) {
	args := m.Called(ctx, bookingID, actor)
	return args.Get(0).(service.Quote), args.Error(1)
}

func (m *mockPayments) Process(ctx context.Context, bookingID uint64, actor model.Actor) (*model.Payment, error) {
	args := m.Called(ctx, bookingID, actor)
	p, _ := args.Get(0).(*model.Payment)
	return p, args.Error(1)
}

func (m *mockPayments) Get(ctx context.Context, id uint64, actor model.Actor) (*model.Payment, error) {
	args := m.Called(ctx, id, actor)
	p, _ := args.Get(0).(*model.Payment)
	return p, args.Error(1)
}

func (m *mockPayments) List(ctx context.Context, q model.PageQuery) (model.Page[model.Payment], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.Page[model.Payment]), args.Error(1)
}

type mockVenues struct{ mock.Mock }

func (m *mockVenues) Create(ctx context.Context, in service.VenueInput, img *service.Upload) (*model.Venue, error) {
	args := m.Called(ctx, in, img)
	v, _ := args.Get(0).(*model.Venue)
	return v, args.Error(1)
}

func (m *mockVenues) Update(ctx context.Context, id uint64, in service.VenueInput, img *service.Upload) (*model.Venue, error) {
	args := m.Called(ctx, id, in, img)
	v, _ := args.Get(0).(*model.Venue)
	return v, args.Error(1)
}

func (m *mockVenues) Get(ctx context.Context, id uint64) (*model.Venue, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*model.Venue)
	return v, args.Error(1)
}

func (m *mockVenues) List(ctx context.Context, q model.PageQuery) (model.Page[model.Venue], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.Page[model.Venue]), args.Error(1)
}

func (m *mockVenues) Available(ctx context.Context) ([]model.Venue, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]model.Venue)
	return v, args.Error(1)
}

func (m *mockVenues) SetStatus(ctx context.Context, id uint64, status model.VenueStatus) (*model.Venue, error) {
	args := m.Called(ctx, id, status)
	v, _ := args.Get(0).(*model.Venue)
	return v, args.Error(1)
}

func (m *mockVenues) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) Register(ctx context.Context, username, email, password, role string) (*model.User, error) {
	args := m.Called(ctx, username, email, password, role)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockAccounts) Get(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type mockSessions struct{ mock.Mock }

func (m *mockSessions) Login(ctx context.Context, login, password string) (*service.Session, error) {
	args := m.Called(ctx, login, password)
	s, _ := args.Get(0).(*service.Session)
	return s, args.Error(1)
}

func (m *mockSessions) Refresh(ctx context.Context, raw string) (*service.Session, error) {
	args := m.Called(ctx, raw)
	s, _ := args.Get(0).(*service.Session)
	return s, args.Error(1)
}

func (m *mockSessions) Logout(ctx context.Context, raw string) error {
	return m.Called(ctx, raw).Error(0)
}

type mockReports struct{ mock.Mock }

func (m *mockReports) Admin(ctx context.Context) (service.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.DashboardStats), args.Error(1)
}

func (m *mockReports) ExportBookings(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	if data, ok := args.Get(0).([]byte); ok {
		_, _ = w.Write(data)
	}
	return args.Error(1)
}
