package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"stay/infras/otel"
	"stay/infras/postgres"
	"stay/internal/domains/booking/model"
	"stay/shared/constant"
	gDto "stay/shared/dto"
	"stay/shared/logger"
	gRepo "stay/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	LockRoomTx(ctx context.Context, tx *sqlx.Tx, roomID string) error
	GetActiveOverlapping(ctx context.Context, roomID string, stay model.StayRange) ([]model.Booking, error)
	GetActiveOverlappingTx(ctx context.Context, tx *sqlx.Tx, roomID string, stay model.StayRange) ([]model.Booking, error)
	UpdateStatusGuarded(ctx context.Context, id string, to model.Status, fields map[string]any) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// WithTx runs fn inside one transaction on the write connection so an
// availability check and the following insert commit or roll back as a
// unit. This closes the double-booking window between two concurrent
// requests for the same room.
func (repo *repositoryImpl) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.WithTx")
	defer scope.End()

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.ErrorWithStack(rollbackErr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

// LockRoomTx serializes booking creation per room with a transaction-scoped
// advisory lock, released on commit or rollback.
func (repo *repositoryImpl) LockRoomTx(ctx context.Context, tx *sqlx.Tx, roomID string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockRoomTx")
	defer scope.End()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", roomID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to lock room %s: %w", roomID, err)
	}

	return nil
}

const activeOverlappingQuery = `SELECT * FROM bookings
 WHERE room_id = $1
   AND status IN ('CONFIRMED', 'CHECKED_IN')
   AND check_in_date < $3
   AND check_out_date > $2`

func (repo *repositoryImpl) GetActiveOverlapping(ctx context.Context, roomID string, stay model.StayRange) ([]model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetActiveOverlapping")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, activeOverlappingQuery)

	var bookings []model.Booking

	err := repo.db.Read.SelectContext(ctx, &bookings, activeOverlappingQuery, roomID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get active bookings (%s): %w", model.EntityName, err)
	}

	return bookings, nil
}

func (repo *repositoryImpl) GetActiveOverlappingTx(ctx context.Context, tx *sqlx.Tx, roomID string, stay model.StayRange) ([]model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetActiveOverlappingTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, activeOverlappingQuery)

	var bookings []model.Booking

	err := tx.SelectContext(ctx, &bookings, activeOverlappingQuery, roomID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get active bookings (%s): %w", model.EntityName, err)
	}

	return bookings, nil
}

// UpdateStatusGuarded applies a lifecycle transition as one conditional
// update: the row only changes when its current status is in the
// transition table's allowed set. Returns false when the guard rejected
// the change, leaving the stored state untouched.
func (repo *repositoryImpl) UpdateStatusGuarded(ctx context.Context, id string, to model.Status, fields map[string]any) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatusGuarded")
	defer scope.End()

	allowed := model.AllowedFrom(to)
	if len(allowed) == 0 {
		return false, nil
	}

	setClause := "status = :status"
	args := map[string]any{
		"id":     id,
		"status": to,
	}

	for col, value := range fields {
		setClause += fmt.Sprintf(", %s = :%s", col, col)
		args[col] = value
	}

	statusArgs := make([]string, len(allowed))
	for i, status := range allowed {
		argName := fmt.Sprintf("allowed_%d", i)
		statusArgs[i] = ":" + argName
		args[argName] = status
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id AND status IN (%s)", model.TableName, setClause, strings.Join(statusArgs, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}
