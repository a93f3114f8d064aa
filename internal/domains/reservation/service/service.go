package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"biblio/config"
	"biblio/infras/kafka"
	"biblio/infras/otel"
	"biblio/infras/s3"
	"biblio/internal/domains/reservation/model"
	"biblio/internal/domains/reservation/model/dto"
	"biblio/internal/domains/reservation/repository"
	resourceModel "biblio/internal/domains/resource/model"
	resourceRepo "biblio/internal/domains/resource/repository"
	"biblio/internal/scheduling"
	"biblio/shared"
	"biblio/shared/cache"
	"biblio/shared/constant"
	gDto "biblio/shared/dto"
	"biblio/shared/failure"
	"biblio/shared/timezone"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
	cacheSlots             = "reservation:slots"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	CheckAvailability(ctx context.Context, resourceID string, req dto.CheckAvailabilityRequest) (dto.CheckAvailabilityResponse, error)
	AvailableSlots(ctx context.Context, resourceID, date string) (dto.AvailableSlotsResponse, error)
}

type serviceImpl struct {
	repo         repository.Reservation
	resourceRepo resourceRepo.Resource
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	s3           s3.S3
	kafka        kafka.Client
}

func New(repo repository.Reservation, resourceRepo resourceRepo.Resource, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3, kafka kafka.Client) Reservation {
	return &serviceImpl{
		repo:         repo,
		resourceRepo: resourceRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		s3:           s3,
		kafka:        kafka,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	resource, err := s.activeResource(ctx, req.ResourceID)
	if err != nil {
		return res, err
	}

	interval, err := req.Interval()
	if err != nil {
		return res, err
	}

	if err = s.validateInterval(resource, interval); err != nil {
		return res, err
	}

	if req.Participants > 0 && resource.Capacity > 0 && req.Participants > resource.Capacity {
		return res, failure.BadRequestFromString(fmt.Sprintf("participants exceed resource capacity of %d", resource.Capacity)) // nolint:wrapcheck
	}

	conflict, err := s.repo.FindOverlapping(ctx, resource.ID, interval.Start, interval.End, constant.Empty)
	if err != nil {
		return res, fmt.Errorf("failed to check for conflicts: %w", err)
	}

	if conflict != nil {
		return res, conflictFailure(conflict)
	}

	documentURL := constant.Empty
	var uploadedObjectName string

	if req.Document != nil {
		documentURL, uploadedObjectName, err = s.uploadDocument(ctx, req)
		if err != nil {
			return res, err
		}
	}

	reservation := req.ToModel(user, interval, documentURL)
	hist := newHistoryEntry(reservation.ID, scheduling.StatusPending, user, constant.Empty)

	conflict, err = s.repo.CreateGuarded(ctx, reservation, hist)
	if err != nil || conflict != nil {
		if uploadedObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, uploadedObjectName)
		}

		if conflict != nil {
			return res, conflictFailure(conflict)
		}

		if errors.Is(err, repository.ErrAdmissionRace) {
			return res, failure.Conflict("requested interval was just taken, please pick another time") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create reservation")

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	res.FromModel(reservation)

	s.afterWrite(ctx, reservation, "reservation.created")

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	history, err := s.repo.GetHistory(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation history")

		return res, fmt.Errorf("failed to get reservation history: %w", err)
	}

	res.FromModel(reservation)
	res.WithHistory(history)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

// Update edits a reservation that is still pending. Interval changes are
// re-validated against the resource window and re-checked for conflicts
// excluding the reservation itself.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateReservationRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if !requesterOwns(ctx, current.CreatedBy) {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if scheduling.Status(current.Status) != scheduling.StatusPending {
		return failure.UnprocessableEntity("only pending reservations can be edited") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	if req.ChangesInterval() {
		resource, err := s.activeResource(ctx, current.ResourceID)
		if err != nil {
			return err
		}

		interval, err := req.Interval()
		if err != nil {
			return err
		}

		if err = s.validateInterval(resource, interval); err != nil {
			return err
		}

		updatedFields[model.FieldStartsAt] = interval.Start
		updatedFields[model.FieldEndsAt] = interval.End

		conflict, err := s.repo.UpdateGuarded(ctx, id, current.ResourceID, interval.Start, interval.End, updatedFields, nil)
		if err != nil {
			if errors.Is(err, repository.ErrAdmissionRace) {
				return failure.Conflict("requested interval was just taken, please pick another time") // nolint:wrapcheck
			}

			log.Error().Err(err).Msg("failed to update reservation")

			return fmt.Errorf("failed to update reservation: %w", err)
		}

		if conflict != nil {
			return conflictFailure(conflict)
		}
	} else {
		if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
			log.Error().Err(err).Msg("failed to update reservation")

			return fmt.Errorf("failed to update reservation: %w", err)
		}
	}

	s.afterWrite(ctx, current, "reservation.updated")

	return nil
}

// UpdateStatus moves the reservation through its lifecycle. Approval re-checks
// the interval against other blocking reservations before committing, so a
// pending reservation whose slot was taken in the meantime cannot be approved.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	next := scheduling.Status(req.Status)

	if err = scheduling.Transition(scheduling.Status(current.Status), next); err != nil {
		return failure.UnprocessableEntity(err.Error()) // nolint:wrapcheck
	}

	updates := map[string]any{
		model.FieldStatus:        string(next),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
	if req.AdminNote != constant.Empty {
		updates[model.FieldAdminNote] = req.AdminNote
	}

	hist := newHistoryEntry(id, next, user, req.AdminNote)

	if next == scheduling.StatusApproved {
		conflict, err := s.repo.UpdateGuarded(ctx, id, current.ResourceID, current.StartsAt, current.EndsAt, updates, &hist)
		if err != nil {
			if errors.Is(err, repository.ErrAdmissionRace) {
				return failure.Conflict("reservation interval is no longer free") // nolint:wrapcheck
			}

			log.Error().Err(err).Msg("failed to approve reservation")

			return fmt.Errorf("failed to approve reservation: %w", err)
		}

		if conflict != nil {
			return conflictFailure(conflict)
		}
	} else {
		if err = s.repo.UpdateWithHistory(ctx, id, updates, hist); err != nil {
			log.Error().Err(err).Msg("failed to update reservation status")

			return fmt.Errorf("failed to update reservation status: %w", err)
		}
	}

	current.Status = string(next)
	s.afterWrite(ctx, current, "reservation."+string(next))

	return nil
}

// Cancel is available to the requester before the reservation starts, from
// pending or approved.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if !requesterOwns(ctx, current.CreatedBy) {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if err = scheduling.ValidateCancel(scheduling.Status(current.Status), current.StartsAt, timezone.Now()); err != nil {
		return failure.UnprocessableEntity(err.Error()) // nolint:wrapcheck
	}

	updates := map[string]any{
		model.FieldStatus:        string(scheduling.StatusCancelled),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	hist := newHistoryEntry(id, scheduling.StatusCancelled, user, constant.Empty)

	if err = s.repo.UpdateWithHistory(ctx, id, updates, hist); err != nil {
		log.Error().Err(err).Msg("failed to cancel reservation")

		return fmt.Errorf("failed to cancel reservation: %w", err)
	}

	current.Status = string(scheduling.StatusCancelled)
	s.afterWrite(ctx, current, "reservation.cancelled")

	return nil
}

// Delete removes a reservation record. Only terminal reservations can be
// deleted; active ones must be cancelled or rejected first. The attached
// document, if any, is released from storage.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if !scheduling.Deletable(scheduling.Status(current.Status)) {
		return failure.UnprocessableEntity("only rejected, cancelled, or completed reservations can be deleted") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	if current.DocumentURL != constant.Empty {
		bucketName := s.cfg.External.S3.BucketName

		objectName := s.s3.GetObjectNameFromURL(bucketName, current.DocumentURL)
		if objectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName)
		}
	}

	s.afterWrite(ctx, current, "reservation.deleted")

	return nil
}

func (s *serviceImpl) CheckAvailability(ctx context.Context, resourceID string, req dto.CheckAvailabilityRequest) (res dto.CheckAvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	resource, err := s.activeResource(ctx, resourceID)
	if err != nil {
		return res, err
	}

	interval, err := req.Interval()
	if err != nil {
		return res, err
	}

	// An interval outside the operating window can never be reserved, so it
	// reports unavailable without naming a conflicting reservation.
	window, err := resource.Window()
	if err != nil {
		log.Error().Err(err).Str("resourceID", resource.ID).Msg("resource has malformed operating hours")

		return res, fmt.Errorf("failed to parse resource operating hours: %w", err)
	}

	if err := window.ValidateWithin(interval); err != nil {
		return dto.CheckAvailabilityResponse{Available: false}, nil
	}

	conflict, err := s.repo.FindOverlapping(ctx, resource.ID, interval.Start, interval.End, constant.Empty)
	if err != nil {
		return res, fmt.Errorf("failed to check for conflicts: %w", err)
	}

	res.Available = conflict == nil

	if conflict != nil {
		summary := &dto.ConflictSummary{}
		summary.FromModel(*conflict)
		res.ConflictingReservation = summary
	}

	return res, nil
}

// AvailableSlots lists the free fixed-size slots of a resource on a date.
// Only approved reservations hide slots: a pending request is not yet a
// commitment, and hiding its slot would let unreviewed requests block the
// calendar.
func (s *serviceImpl) AvailableSlots(ctx context.Context, resourceID, date string) (res dto.AvailableSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.AvailableSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	resource, err := s.activeResource(ctx, resourceID)
	if err != nil {
		return res, err
	}

	day, err := timezone.Parse("2006-01-02", date)
	if err != nil {
		return res, failure.BadRequestFromString("date must be in YYYY-MM-DD format") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheSlots, resourceID, date)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for available slots")

		return res, nil
	}

	window, err := resource.Window()
	if err != nil {
		log.Error().Err(err).Str("resourceID", resource.ID).Msg("resource has malformed operating hours")

		return res, fmt.Errorf("failed to parse resource operating hours: %w", err)
	}

	dayWindow := window.On(day)

	busyModels, err := s.repo.ListByResourceWindow(ctx, resource.ID, dayWindow.Start, dayWindow.End, []string{string(scheduling.StatusApproved)})
	if err != nil {
		return res, fmt.Errorf("failed to list reservations: %w", err)
	}

	busy := make([]scheduling.Interval, len(busyModels))
	for i, m := range busyModels {
		busy[i] = m.Interval()
	}

	slotSize := time.Duration(s.cfg.Reservation.SlotMinutes) * time.Minute
	slots := scheduling.AvailableSlots(dayWindow, slotSize, busy)

	res.FromSlots(resource.ID, day, slots)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save available slots to cache")
		}
	}()

	return res, nil
}

// requesterOwns guards edit and cancel: only the reservation's creator may act
// on it, except for admins.
func requesterOwns(ctx context.Context, createdBy string) bool {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return user == createdBy || role == constant.RoleAdmin || role == constant.RoleSuperAdmin
}

func (s *serviceImpl) activeResource(ctx context.Context, id string) (resourceModel.Resource, error) {
	resource, err := s.resourceRepo.Get(ctx, shared.FilterByID(id, resourceModel.FieldID, resourceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get resource")

		return resource, fmt.Errorf("failed to get resource: %w", err)
	}

	if resource.ID == constant.Empty {
		return resource, failure.NotFound("resource not found") // nolint:wrapcheck
	}

	if !resource.Active {
		return resource, failure.UnprocessableEntity("resource is not accepting reservations") // nolint:wrapcheck
	}

	return resource, nil
}

// validateInterval enforces the per-kind scheduling rules: the interval must
// start in the future, fit the resource's operating window, and respect the
// duration bounds for its kind.
func (s *serviceImpl) validateInterval(resource resourceModel.Resource, interval scheduling.Interval) error {
	if !interval.Start.After(timezone.Now()) {
		return failure.BadRequestFromString("reservation must start in the future") // nolint:wrapcheck
	}

	window, err := resource.Window()
	if err != nil {
		log.Error().Err(err).Str("resourceID", resource.ID).Msg("resource has malformed operating hours")

		return fmt.Errorf("failed to parse resource operating hours: %w", err)
	}

	if err := window.ValidateWithin(interval); err != nil {
		return failure.BadRequestFromString(fmt.Sprintf("requested time is outside operating hours (%s-%s)", resource.OpensAt, resource.ClosesAt)) // nolint:wrapcheck
	}

	duration := interval.Duration()

	switch resource.Kind {
	case resourceModel.KindRoom:
		maxDuration := time.Duration(s.cfg.Reservation.MaxRoomDurationHours) * time.Hour
		if duration > maxDuration {
			return failure.BadRequestFromString(fmt.Sprintf("room reservations cannot exceed %d hours", s.cfg.Reservation.MaxRoomDurationHours)) // nolint:wrapcheck
		}
	case resourceModel.KindTourGuide:
		minDuration := time.Duration(s.cfg.Reservation.TourMinMinutes) * time.Minute
		maxDuration := time.Duration(s.cfg.Reservation.TourMaxMinutes) * time.Minute

		if duration < minDuration || duration > maxDuration {
			return failure.BadRequestFromString(fmt.Sprintf("tour duration must be between %d and %d minutes", s.cfg.Reservation.TourMinMinutes, s.cfg.Reservation.TourMaxMinutes)) // nolint:wrapcheck
		}
	}

	return nil
}

func (s *serviceImpl) uploadDocument(ctx context.Context, req dto.CreateReservationRequest) (documentURL, objectName string, err error) {
	bucketName := s.cfg.External.S3.BucketName
	filename := uuid.NewString()

	parts := strings.Split(req.Document.Filename, ".")
	if len(parts) > 1 {
		filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
	}

	url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.DocumentFile, req.Document, filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload document to S3")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload document: %w", err)
	}

	return url, filename, nil
}

// afterWrite invalidates reservation caches and publishes a lifecycle event.
// Both run off the request path.
func (s *serviceImpl) afterWrite(ctx context.Context, reservation model.Reservation, event string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, reservation.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
		shared.InvalidateCaches(c, s.cache, cacheSlots)

		message := kafka.Message{
			Key: reservation.ID,
			Value: reservationEvent{
				Event:         event,
				ReservationID: reservation.ID,
				ResourceID:    reservation.ResourceID,
				Status:        reservation.Status,
				StartsAt:      reservation.StartsAt,
				EndsAt:        reservation.EndsAt,
				OccurredAt:    timezone.Now(),
			},
		}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.ReservationEvents, message); err != nil {
			log.Error().Err(err).Str("event", event).Msg("failed to publish reservation event")
		}
	}()
}

type reservationEvent struct {
	Event         string    `json:"event"`
	ReservationID string    `json:"reservation_id"`
	ResourceID    string    `json:"resource_id"`
	Status        string    `json:"status"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func conflictFailure(conflict *model.Reservation) error {
	summary := &dto.ConflictSummary{}
	summary.FromModel(*conflict)

	return failure.ConflictWithDetails("requested interval conflicts with an existing reservation", summary) // nolint:wrapcheck
}

func newHistoryEntry(reservationID string, status scheduling.Status, actor, note string) model.StatusHistory {
	entry := model.StatusHistory{
		ID:            uuid.NewString(),
		ReservationID: reservationID,
		Status:        string(status),
		Note:          note,
		CreatedAt:     timezone.Now(),
	}

	if actor != constant.Empty {
		entry.ActorID = &actor
	}

	return entry
}
