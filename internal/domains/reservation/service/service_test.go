package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"biblio/config"
	kafkaMocks "biblio/infras/kafka/mocks"
	"biblio/infras/otel/mocks"
	s3Mocks "biblio/infras/s3/mocks"
	reservationMocks "biblio/internal/domains/reservation/mocks"
	"biblio/internal/domains/reservation/model"
	"biblio/internal/domains/reservation/model/dto"
	"biblio/internal/domains/reservation/repository"
	"biblio/internal/domains/reservation/service"
	resourceMocks "biblio/internal/domains/resource/mocks"
	resourceModel "biblio/internal/domains/resource/model"
	cacheMocks "biblio/shared/cache/mocks"
	"biblio/shared/constant"
	"biblio/shared/failure"
	gModel "biblio/shared/model"
	"biblio/shared/timezone"
)

type fixture struct {
	repo         *reservationMocks.MockReservation
	resourceRepo *resourceMocks.MockResource
	cache        *cacheMocks.MockRedisCache
	s3           *s3Mocks.MockS3
	kafka        *kafkaMocks.MockClient
	svc          service.Reservation
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &fixture{
		repo:         reservationMocks.NewMockReservation(ctrl),
		resourceRepo: resourceMocks.NewMockResource(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		s3:           s3Mocks.NewMockS3(ctrl),
		kafka:        kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Reservation.MaxRoomDurationHours = 12
	cfg.Reservation.TourMinMinutes = 30
	cfg.Reservation.TourMaxMinutes = 180
	cfg.Reservation.SlotMinutes = 60

	f.svc = service.New(f.repo, f.resourceRepo, cfg, f.cache, mocks.NewOtel(), f.s3, f.kafka)

	// Cache invalidation and event publishing run on background goroutines.
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func testRoom() resourceModel.Resource {
	return resourceModel.Resource{
		ID:       "room-1",
		Name:     "Reading Room A",
		Kind:     resourceModel.KindRoom,
		Capacity: 8,
		OpensAt:  "08:00",
		ClosesAt: "17:00",
		Active:   true,
	}
}

func testGuide() resourceModel.Resource {
	return resourceModel.Resource{
		ID:       "guide-1",
		Name:     "Heritage Tour",
		Kind:     resourceModel.KindTourGuide,
		OpensAt:  "09:00",
		ClosesAt: "16:00",
		Active:   true,
	}
}

func futureDate() string {
	return timezone.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
}

func TestReservationService_Create(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.CreateReservationRequest
		setupMock  func(f *fixture)
		wantErr    bool
		wantStatus int
	}{
		{
			name: "successful room reservation",
			req: dto.CreateReservationRequest{
				ResourceID: "room-1",
				GuestName:  "Ana",
				Date:       futureDate(),
				StartTime:  "10:00",
				EndTime:    "11:00",
			},
			setupMock: func(f *fixture) {
				f.resourceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(), nil)

				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any(), "").
					Return(nil, nil)

				f.repo.EXPECT().
					CreateGuarded(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
		},
		{
			name: "overlapping interval is rejected with conflict",
			req: dto.CreateReservationRequest{
				ResourceID: "room-1",
				GuestName:  "Ana",
				Date:       futureDate(),
				StartTime:  "10:30",
				EndTime:    "11:30",
			},
			setupMock: func(f *fixture) {
				f.resourceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(), nil)

				existing := model.Reservation{
					ID:        "res-1",
					GuestName: "Budi",
					StartsAt:  timezone.Now().AddDate(0, 0, 7),
					EndsAt:    timezone.Now().AddDate(0, 0, 7).Add(time.Hour),
					Metadata:  gModel.Metadata{CreatedBy: "user-2"},
				}

				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any(), "").
					Return(&existing, nil)
			},
			wantErr:    true,
			wantStatus: 409,
		},
		{
			name: "race lost at commit surfaces as conflict",
			req: dto.CreateReservationRequest{
				ResourceID: "room-1",
				GuestName:  "Ana",
				Date:       futureDate(),
				StartTime:  "10:00",
				EndTime:    "11:00",
			},
			setupMock: func(f *fixture) {
				f.resourceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(), nil)

				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any(), "").
					Return(nil, nil)

				f.repo.EXPECT().
					CreateGuarded(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, repository.ErrAdmissionRace)
			},
			wantErr:    true,
			wantStatus: 409,
		},
		{
			name: "resource not found",
			req: dto.CreateReservationRequest{
				ResourceID: "missing",
				GuestName:  "Ana",
				Date:       futureDate(),
				StartTime:  "10:00",
				EndTime:    "11:00",
			},
			setupMock: func(f *fixture) {
				f.resourceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(resourceModel.Resource{}, nil)
			},
			wantErr:    true,
			wantStatus: 404,
		},
		{
			name: "inactive resource rejects new reservations",
			req: dto.CreateReservationRequest{
				ResourceID: "room-1",
				GuestName:  "Ana",
				Date:       futureDate(),
				StartTime:  "10:00",
				EndTime:    "11:00",
			},
			setupMock: func(f *fixture) {
				room := testRoom()
				room.Active = false

				f.resourceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)
			},
			wantErr:    true,
			wantStatus: 422,
		},
		{
			name: "interval outside operating hours",
			req: dto.CreateReservationRequest{
				ResourceID: "room-1",
				GuestName:  "Ana",
				Date:       futureDate(),
				StartTime:  "07:00",
				EndTime:    "09:00",
			},
			setupMock: func(f *fixture) {
				f.resourceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(), nil)
			},
			wantErr:    true,
			wantStatus: 400,
		},
		{
			name: "end must be after start",
			req: dto.CreateReservationRequest{
				ResourceID: "room-1",
				GuestName:  "Ana",
				Date:       futureDate(),
				StartTime:  "11:00",
				EndTime:    "10:00",
			},
			setupMock: func(f *fixture) {
				f.resourceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(), nil)
			},
			wantErr:    true,
			wantStatus: 400,
		},
		{
			name: "tour shorter than the minimum duration",
			req: dto.CreateReservationRequest{
				ResourceID:      "guide-1",
				GuestName:       "Ana",
				Date:            futureDate(),
				StartTime:       "10:00",
				DurationMinutes: 15,
			},
			setupMock: func(f *fixture) {
				f.resourceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testGuide(), nil)
			},
			wantErr:    true,
			wantStatus: 400,
		},
		{
			name: "tour within duration bounds",
			req: dto.CreateReservationRequest{
				ResourceID:      "guide-1",
				GuestName:       "Ana",
				Date:            futureDate(),
				StartTime:       "10:00",
				DurationMinutes: 90,
			},
			setupMock: func(f *fixture) {
				f.resourceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testGuide(), nil)

				f.repo.EXPECT().
					FindOverlapping(gomock.Any(), "guide-1", gomock.Any(), gomock.Any(), "").
					Return(nil, nil)

				f.repo.EXPECT().
					CreateGuarded(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
		},
		{
			name: "participants exceed room capacity",
			req: dto.CreateReservationRequest{
				ResourceID:   "room-1",
				GuestName:    "Ana",
				Participants: 20,
				Date:         futureDate(),
				StartTime:    "10:00",
				EndTime:      "11:00",
			},
			setupMock: func(f *fixture) {
				f.resourceRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(), nil)
			},
			wantErr:    true,
			wantStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(userContext(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantStatus != 0 {
					assert.Equal(t, tt.wantStatus, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "pending", res.Status)
		})
	}
}

func TestReservationService_CreateBackToBack(t *testing.T) {
	// [10:00, 11:00) and [11:00, 12:00) share only the boundary instant, so
	// the second request must go through.
	f := newFixture(t)

	f.resourceRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(testRoom(), nil)

	f.repo.EXPECT().
		FindOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any(), "").
		Return(nil, nil)

	f.repo.EXPECT().
		CreateGuarded(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	req := dto.CreateReservationRequest{
		ResourceID: "room-1",
		GuestName:  "Ana",
		Date:       futureDate(),
		StartTime:  "11:00",
		EndTime:    "12:00",
	}

	_, err := f.svc.Create(userContext(), req)
	assert.NoError(t, err)
}

func TestReservationService_UpdateStatus(t *testing.T) {
	pending := func() model.Reservation {
		return model.Reservation{
			ID:         "res-1",
			ResourceID: "room-1",
			StartsAt:   timezone.Now().AddDate(0, 0, 7),
			EndsAt:     timezone.Now().AddDate(0, 0, 7).Add(time.Hour),
			Status:     "pending",
		}
	}

	tests := []struct {
		name       string
		current    model.Reservation
		req        dto.UpdateStatusRequest
		setupMock  func(f *fixture, current model.Reservation)
		wantErr    bool
		wantStatus int
	}{
		{
			name:    "approve pending reservation",
			current: pending(),
			req:     dto.UpdateStatusRequest{Status: "approved"},
			setupMock: func(f *fixture, current model.Reservation) {
				f.repo.EXPECT().
					UpdateGuarded(gomock.Any(), current.ID, current.ResourceID, current.StartsAt, current.EndsAt, gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
		},
		{
			name:    "reject pending reservation",
			current: pending(),
			req:     dto.UpdateStatusRequest{Status: "rejected", AdminNote: "double-booked elsewhere"},
			setupMock: func(f *fixture, current model.Reservation) {
				f.repo.EXPECT().
					UpdateWithHistory(gomock.Any(), current.ID, gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "complete approved reservation",
			current: model.Reservation{
				ID: "res-1", ResourceID: "room-1", Status: "approved",
				StartsAt: timezone.Now().Add(-2 * time.Hour),
				EndsAt:   timezone.Now().Add(-time.Hour),
			},
			req: dto.UpdateStatusRequest{Status: "completed"},
			setupMock: func(f *fixture, current model.Reservation) {
				f.repo.EXPECT().
					UpdateWithHistory(gomock.Any(), current.ID, gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "rejected reservation cannot be approved",
			current: model.Reservation{
				ID: "res-1", ResourceID: "room-1", Status: "rejected",
			},
			req:        dto.UpdateStatusRequest{Status: "approved"},
			setupMock:  func(f *fixture, current model.Reservation) {},
			wantErr:    true,
			wantStatus: 422,
		},
		{
			name: "pending reservation cannot be completed",
			current: model.Reservation{
				ID: "res-1", ResourceID: "room-1", Status: "pending",
			},
			req:        dto.UpdateStatusRequest{Status: "completed"},
			setupMock:  func(f *fixture, current model.Reservation) {},
			wantErr:    true,
			wantStatus: 422,
		},
		{
			name:    "approval loses to a reservation approved meanwhile",
			current: pending(),
			req:     dto.UpdateStatusRequest{Status: "approved"},
			setupMock: func(f *fixture, current model.Reservation) {
				winner := model.Reservation{ID: "res-2", GuestName: "Budi"}

				f.repo.EXPECT().
					UpdateGuarded(gomock.Any(), current.ID, current.ResourceID, current.StartsAt, current.EndsAt, gomock.Any(), gomock.Any()).
					Return(&winner, nil)
			},
			wantErr:    true,
			wantStatus: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(tt.current, nil)

			tt.setupMock(f, tt.current)

			err := f.svc.UpdateStatus(userContext(), tt.req, tt.current.ID)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantStatus != 0 {
					assert.Equal(t, tt.wantStatus, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestReservationService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		current   model.Reservation
		setupMock func(f *fixture)
		wantErr   bool
	}{
		{
			name: "cancel pending before start",
			current: model.Reservation{
				ID: "res-1", Status: "pending",
				StartsAt: timezone.Now().Add(24 * time.Hour),
				Metadata: gModel.Metadata{CreatedBy: "user-1"},
			},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					UpdateWithHistory(gomock.Any(), "res-1", gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "cancel approved before start",
			current: model.Reservation{
				ID: "res-1", Status: "approved",
				StartsAt: timezone.Now().Add(24 * time.Hour),
				Metadata: gModel.Metadata{CreatedBy: "user-1"},
			},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					UpdateWithHistory(gomock.Any(), "res-1", gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "cannot cancel after start",
			current: model.Reservation{
				ID: "res-1", Status: "approved",
				StartsAt: timezone.Now().Add(-time.Hour),
				Metadata: gModel.Metadata{CreatedBy: "user-1"},
			},
			setupMock: func(f *fixture) {},
			wantErr:   true,
		},
		{
			name: "cannot cancel a rejected reservation",
			current: model.Reservation{
				ID: "res-1", Status: "rejected",
				StartsAt: timezone.Now().Add(24 * time.Hour),
				Metadata: gModel.Metadata{CreatedBy: "user-1"},
			},
			setupMock: func(f *fixture) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(tt.current, nil)

			tt.setupMock(f)

			err := f.svc.Cancel(userContext(), tt.current.ID)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, 422, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}

	t.Run("another user cannot cancel the reservation", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{
				ID: "res-1", Status: "pending",
				StartsAt: timezone.Now().Add(24 * time.Hour),
				Metadata: gModel.Metadata{CreatedBy: "user-1"},
			}, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-2")

		err := f.svc.Cancel(ctx, "res-1")
		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("admin can cancel on behalf of the requester", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{
				ID: "res-1", Status: "pending",
				StartsAt: timezone.Now().Add(24 * time.Hour),
				Metadata: gModel.Metadata{CreatedBy: "user-1"},
			}, nil)

		f.repo.EXPECT().
			UpdateWithHistory(gomock.Any(), "res-1", gomock.Any(), gomock.Any()).
			Return(nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)

		err := f.svc.Cancel(ctx, "res-1")
		assert.NoError(t, err)
	})
}

func TestReservationService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		current   model.Reservation
		setupMock func(f *fixture)
		wantErr   bool
	}{
		{
			name:    "delete cancelled reservation",
			current: model.Reservation{ID: "res-1", Status: "cancelled"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "delete completed reservation releases its document",
			current: model.Reservation{
				ID: "res-1", Status: "completed",
				DocumentURL: "https://cdn.example.com/reservation/doc.pdf",
			},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				f.s3.EXPECT().
					GetObjectNameFromURL(gomock.Any(), "https://cdn.example.com/reservation/doc.pdf").
					Return("doc.pdf")

				f.s3.EXPECT().
					DeleteFile(gomock.Any(), gomock.Any(), gomock.Any(), "doc.pdf").
					Return(nil)
			},
		},
		{
			name:      "pending reservation cannot be deleted",
			current:   model.Reservation{ID: "res-1", Status: "pending"},
			setupMock: func(f *fixture) {},
			wantErr:   true,
		},
		{
			name:      "approved reservation cannot be deleted",
			current:   model.Reservation{ID: "res-1", Status: "approved"},
			setupMock: func(f *fixture) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(tt.current, nil)

			tt.setupMock(f)

			err := f.svc.Delete(userContext(), tt.current.ID)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, 422, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestReservationService_CheckAvailability(t *testing.T) {
	t.Run("free interval reports available", func(t *testing.T) {
		f := newFixture(t)

		f.resourceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(), nil)

		f.repo.EXPECT().
			FindOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any(), "").
			Return(nil, nil)

		req := dto.CheckAvailabilityRequest{Date: futureDate(), StartTime: "10:00", EndTime: "11:00"}

		res, err := f.svc.CheckAvailability(context.Background(), "room-1", req)
		assert.NoError(t, err)
		assert.True(t, res.Available)
		assert.Nil(t, res.ConflictingReservation)
	})

	t.Run("occupied interval names the conflicting reservation", func(t *testing.T) {
		f := newFixture(t)

		f.resourceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(), nil)

		existing := model.Reservation{
			ID:        "res-1",
			GuestName: "Budi",
			StartsAt:  timezone.Now().AddDate(0, 0, 7),
			EndsAt:    timezone.Now().AddDate(0, 0, 7).Add(time.Hour),
			Metadata:  gModel.Metadata{CreatedBy: "user-2"},
		}

		f.repo.EXPECT().
			FindOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any(), "").
			Return(&existing, nil)

		req := dto.CheckAvailabilityRequest{Date: futureDate(), StartTime: "10:00", EndTime: "11:00"}

		res, err := f.svc.CheckAvailability(context.Background(), "room-1", req)
		assert.NoError(t, err)
		assert.False(t, res.Available)

		if assert.NotNil(t, res.ConflictingReservation) {
			assert.Equal(t, "res-1", res.ConflictingReservation.ID)
			assert.Equal(t, "Budi", res.ConflictingReservation.GuestName)
			assert.Equal(t, "user-2", res.ConflictingReservation.Requester)
		}
	})

	t.Run("interval outside operating hours is unavailable", func(t *testing.T) {
		f := newFixture(t)

		f.resourceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(), nil)

		req := dto.CheckAvailabilityRequest{Date: futureDate(), StartTime: "06:00", EndTime: "07:00"}

		res, err := f.svc.CheckAvailability(context.Background(), "room-1", req)
		assert.NoError(t, err)
		assert.False(t, res.Available)
		assert.Nil(t, res.ConflictingReservation)
	})
}

func TestReservationService_AvailableSlots(t *testing.T) {
	t.Run("booked hour is excluded", func(t *testing.T) {
		f := newFixture(t)

		f.resourceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(), nil)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		date := futureDate()
		day, _ := timezone.Parse("2006-01-02", date)

		booked := model.Reservation{
			ID:         "res-1",
			ResourceID: "room-1",
			Status:     "approved",
			StartsAt:   day.Add(10 * time.Hour),
			EndsAt:     day.Add(11 * time.Hour),
		}

		f.repo.EXPECT().
			ListByResourceWindow(gomock.Any(), "room-1", gomock.Any(), gomock.Any(), []string{"approved"}).
			Return([]model.Reservation{booked}, nil)

		res, err := f.svc.AvailableSlots(context.Background(), "room-1", date)
		assert.NoError(t, err)

		// 08:00-17:00 yields nine hourly slots, minus the booked 10:00 hour.
		assert.Len(t, res.Slots, 8)

		for _, slot := range res.Slots {
			assert.NotEqual(t, "10:00", slot.StartTime)
		}
	})

	t.Run("empty day yields the full grid", func(t *testing.T) {
		f := newFixture(t)

		f.resourceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(), nil)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.repo.EXPECT().
			ListByResourceWindow(gomock.Any(), "room-1", gomock.Any(), gomock.Any(), []string{"approved"}).
			Return(nil, nil)

		res, err := f.svc.AvailableSlots(context.Background(), "room-1", futureDate())
		assert.NoError(t, err)
		assert.Len(t, res.Slots, 9)
		assert.Equal(t, "08:00", res.Slots[0].StartTime)
		assert.Equal(t, "16:00", res.Slots[len(res.Slots)-1].StartTime)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		f := newFixture(t)

		f.resourceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(), nil)

		_, err := f.svc.AvailableSlots(context.Background(), "room-1", "07-01-2026")
		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestReservationService_Update(t *testing.T) {
	pending := model.Reservation{
		ID:         "res-1",
		ResourceID: "room-1",
		Status:     "pending",
		StartsAt:   timezone.Now().AddDate(0, 0, 7),
		EndsAt:     timezone.Now().AddDate(0, 0, 7).Add(time.Hour),
		Metadata:   gModel.Metadata{CreatedBy: "user-1"},
	}

	t.Run("editing a non-pending reservation fails", func(t *testing.T) {
		f := newFixture(t)

		approved := pending
		approved.Status = "approved"

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(approved, nil)

		err := f.svc.Update(userContext(), dto.UpdateReservationRequest{GuestName: "Ana"}, "res-1")
		assert.Error(t, err)
		assert.Equal(t, 422, failure.GetCode(err))
	})

	t.Run("plain field edit", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pending, nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := f.svc.Update(userContext(), dto.UpdateReservationRequest{GuestName: "Ana"}, "res-1")
		assert.NoError(t, err)
	})

	t.Run("interval change re-checks conflicts excluding itself", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pending, nil)

		f.resourceRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(testRoom(), nil)

		f.repo.EXPECT().
			UpdateGuarded(gomock.Any(), "res-1", "room-1", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)

		req := dto.UpdateReservationRequest{
			Date:      futureDate(),
			StartTime: "14:00",
			EndTime:   "15:00",
		}

		err := f.svc.Update(userContext(), req, "res-1")
		assert.NoError(t, err)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(userContext(), dto.UpdateReservationRequest{}, "res-1")
		assert.Error(t, err)
	})

	t.Run("another user cannot edit the reservation", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pending, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-2")

		err := f.svc.Update(ctx, dto.UpdateReservationRequest{GuestName: "Ana"}, "res-1")
		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})
}

func TestReservationService_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")
		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("found with history", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		reservation := model.Reservation{
			ID: "res-1", ResourceID: "room-1", Status: "approved",
			StartsAt: timezone.Now(), EndsAt: timezone.Now().Add(time.Hour),
		}

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(reservation, nil)

		f.repo.EXPECT().
			GetHistory(gomock.Any(), "res-1").
			Return([]model.StatusHistory{
				{Status: "pending", CreatedAt: timezone.Now()},
				{Status: "approved", CreatedAt: timezone.Now()},
			}, nil)

		res, err := f.svc.Get(context.Background(), "res-1")
		assert.NoError(t, err)
		assert.Equal(t, "res-1", res.ID)
		assert.Len(t, res.History, 2)
	})
}
