package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"biblio/infras/otel"
	"biblio/infras/postgres"
	"biblio/internal/domains/reservation/model"
	"biblio/internal/scheduling"
	"biblio/shared"
	"biblio/shared/constant"
	gDto "biblio/shared/dto"
	"biblio/shared/logger"
	gRepo "biblio/shared/repository"
	"biblio/shared/timezone"
)

// ErrAdmissionRace is returned when a concurrent writer won the interval
// between our conflict pre-check and commit. The exclusion constraint on the
// reservations table rejects the second writer; callers should surface it as
// a conflict without a diagnostic summary.
var ErrAdmissionRace = errors.New("reservation interval was taken by a concurrent request")

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// FindOverlapping returns the first pending or approved reservation on the
	// resource whose half-open interval intersects [start, end), skipping
	// excludeID when non-empty. Returns nil when the interval is free.
	FindOverlapping(ctx context.Context, resourceID string, start, end time.Time, excludeID string) (*model.Reservation, error)

	// ListByResourceWindow returns reservations on the resource in the given
	// statuses that intersect [start, end), ordered by start.
	ListByResourceWindow(ctx context.Context, resourceID string, start, end time.Time, statuses []string) ([]model.Reservation, error)

	// CreateGuarded re-checks for overlap and inserts the reservation with its
	// first history entry inside one serializable transaction. A non-nil
	// conflict return means nothing was written.
	CreateGuarded(ctx context.Context, res model.Reservation, hist model.StatusHistory) (*model.Reservation, error)

	// UpdateGuarded re-checks the new interval (excluding the reservation
	// itself), applies the updates, and appends the optional history entry
	// inside one serializable transaction.
	UpdateGuarded(ctx context.Context, id, resourceID string, start, end time.Time, updates map[string]any, hist *model.StatusHistory) (*model.Reservation, error)

	// UpdateWithHistory applies the updates and appends the history entry in
	// one transaction. Used by transitions that need no conflict re-check.
	UpdateWithHistory(ctx context.Context, id string, updates map[string]any, hist model.StatusHistory) error

	// CancelFutureByResource cancels every pending or approved reservation on
	// the resource starting after the cutoff, appending a history entry per
	// reservation. Returns the number of reservations cancelled.
	CancelFutureByResource(ctx context.Context, resourceID string, cutoff time.Time, actor, note string) (int, error)

	GetHistory(ctx context.Context, reservationID string) ([]model.StatusHistory, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	history gRepo.Repository[model.StatusHistory]
	db      *postgres.Connection
	otel    otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		history:    gRepo.NewRepository[model.StatusHistory](model.HistoryEntityName, model.HistoryTableName, model.HistoryFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const overlapQuery = `SELECT id, resource_id, guest_name, guest_email, guest_phone, participants, purpose,
	starts_at, ends_at, status, admin_note, document_url, created_at, modified_at, created_by, modified_by
	FROM reservations
	WHERE resource_id = $1
	AND status IN ($2, $3)
	AND starts_at < $5
	AND ends_at > $4
	AND ($6 = '' OR id != $6)
	ORDER BY starts_at
	LIMIT 1`

type sqlxGetter interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func (repo *repositoryImpl) findOverlapping(ctx context.Context, q sqlxGetter, resourceID string, start, end time.Time, excludeID string) (*model.Reservation, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.findOverlapping")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, overlapQuery)

	var conflict model.Reservation

	err := q.GetContext(ctx, &conflict, overlapQuery,
		resourceID,
		string(scheduling.StatusPending),
		string(scheduling.StatusApproved),
		start,
		end,
		excludeID,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to check overlapping reservations: %w", err)
	}

	return &conflict, nil
}

func (repo *repositoryImpl) FindOverlapping(ctx context.Context, resourceID string, start, end time.Time, excludeID string) (*model.Reservation, error) {
	return repo.findOverlapping(ctx, repo.db.Read, resourceID, start, end, excludeID)
}

func (repo *repositoryImpl) ListByResourceWindow(ctx context.Context, resourceID string, start, end time.Time, statuses []string) ([]model.Reservation, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldResourceID, Operator: gDto.FilterOperatorEq, Value: resourceID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: statuses, Table: model.TableName},
			gDto.Filter{ArgName: "window_end", Field: model.FieldStartsAt, Operator: gDto.FilterOperatorLess, Value: end, Table: model.TableName},
			gDto.Filter{ArgName: "window_start", Field: model.FieldEndsAt, Operator: gDto.FilterOperatorGreater, Value: start, Table: model.TableName},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldStartsAt, SortDir: gDto.SortDirAsc}

	return repo.GetAll(ctx, params, filter)
}

func (repo *repositoryImpl) CreateGuarded(ctx context.Context, res model.Reservation, hist model.StatusHistory) (conflict *model.Reservation, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CreateGuarded")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	conflict, err = repo.findOverlapping(ctx, tx, res.ResourceID, res.StartsAt, res.EndsAt, "")
	if err != nil {
		return nil, err
	}

	if conflict != nil {
		return conflict, nil
	}

	if err = repo.InsertTx(ctx, tx, res); err != nil {
		return nil, mapAdmissionError(err)
	}

	if err = repo.history.InsertTx(ctx, tx, hist); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err = tx.Commit(); err != nil {
		return nil, mapAdmissionError(fmt.Errorf("failed to commit reservation: %w", err))
	}

	return nil, nil
}

func (repo *repositoryImpl) UpdateGuarded(ctx context.Context, id, resourceID string, start, end time.Time, updates map[string]any, hist *model.StatusHistory) (conflict *model.Reservation, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.UpdateGuarded")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	conflict, err = repo.findOverlapping(ctx, tx, resourceID, start, end, id)
	if err != nil {
		return nil, err
	}

	if conflict != nil {
		return conflict, nil
	}

	if err = repo.UpdateTx(ctx, tx, updates, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		return nil, mapAdmissionError(err)
	}

	if hist != nil {
		if err = repo.history.InsertTx(ctx, tx, *hist); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, mapAdmissionError(fmt.Errorf("failed to commit reservation update: %w", err))
	}

	return nil, nil
}

func (repo *repositoryImpl) UpdateWithHistory(ctx context.Context, id string, updates map[string]any, hist model.StatusHistory) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.UpdateWithHistory")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err = repo.UpdateTx(ctx, tx, updates, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		return err //nolint:wrapcheck
	}

	if err = repo.history.InsertTx(ctx, tx, hist); err != nil {
		return err //nolint:wrapcheck
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status transition: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) CancelFutureByResource(ctx context.Context, resourceID string, cutoff time.Time, actor, note string) (cancelled int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CancelFutureByResource")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var ids []string

	const selectQuery = `SELECT id FROM reservations
		WHERE resource_id = $1 AND status IN ($2, $3) AND starts_at > $4
		FOR UPDATE`

	if err = tx.SelectContext(ctx, &ids, selectQuery,
		resourceID,
		string(scheduling.StatusPending),
		string(scheduling.StatusApproved),
		cutoff,
	); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to select future reservations: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	updates := map[string]any{
		model.FieldStatus:        string(scheduling.StatusCancelled),
		model.FieldAdminNote:     note,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorIn, Value: ids, Table: model.TableName},
		},
	}

	if err = repo.UpdateTx(ctx, tx, updates, filter); err != nil {
		return 0, err //nolint:wrapcheck
	}

	entries := make([]model.StatusHistory, len(ids))
	for i, id := range ids {
		entries[i] = newCancellationEntry(id, actor, note)
	}

	if err = repo.history.InsertBulkTx(ctx, tx, entries); err != nil {
		return 0, err //nolint:wrapcheck
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cascade cancellation: %w", err)
	}

	log.Info().Str("resourceID", resourceID).Int("cancelled", len(ids)).Msg("cancelled future reservations for deactivated resource")

	return len(ids), nil
}

func (repo *repositoryImpl) GetHistory(ctx context.Context, reservationID string) ([]model.StatusHistory, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.HistoryFieldReservationID, Operator: gDto.FilterOperatorEq, Value: reservationID, Table: model.HistoryTableName},
		},
	}

	params := gDto.QueryParams{SortBy: model.HistoryFieldCreatedAt, SortDir: gDto.SortDirAsc}

	return repo.history.GetAll(ctx, params, filter)
}

// mapAdmissionError translates storage-level admission failures into
// ErrAdmissionRace. The reservations table carries an exclusion constraint on
// (resource_id, interval) for pending/approved rows, so a racing writer
// surfaces as SQLSTATE 23P01 here even though the pre-check saw a free slot.
func mapAdmissionError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constant.PqErrorCodeExclusionViolation, constant.PqErrorCodeUniqueViolation, constant.PqErrorCodeSerializationFailure:
			return ErrAdmissionRace
		}
	}

	return err
}

func newCancellationEntry(reservationID, actor, note string) model.StatusHistory {
	actorID := actor

	return model.StatusHistory{
		ID:            uuid.NewString(),
		ReservationID: reservationID,
		Status:        string(scheduling.StatusCancelled),
		ActorID:       &actorID,
		Note:          note,
		CreatedAt:     timezone.Now(),
	}
}
