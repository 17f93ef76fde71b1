package exception

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	"github.com/kmalyshev/ABS-BookingService/pkg/dbmetrics"
	"github.com/kmalyshev/ABS-BookingService/pkg/psqlbuilder"
)

const pqUniqueViolation = "23505"

// Repository репозиторий для работы с исключениями графика (праздники, особые дни)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория исключений графика
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое исключение графика
// Частичный уникальный индекс запрещает два полнодневных закрытия на одну дату:
// повторная вставка возвращает ErrExceptionExists
func (r *Repository) Create(ctx context.Context, exc *domain.AvailabilityException) (*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_exceptions").
		Columns(
			"business_id",
			"date",
			"kind",
			"start_time",
			"end_time",
			"reason",
		).
		Values(
			exc.BusinessID,
			exc.Date,
			exc.Kind,
			exc.StartTime,
			exc.EndTime,
			exc.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exc.ID,
		&createdAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrExceptionExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	exc.CreatedAt = createdAt.Time

	return exc, nil
}

// GetByID получает исключение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectColumns().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var exc domain.AvailabilityException
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exc.ID,
		&exc.BusinessID,
		&exc.Date,
		&exc.Kind,
		&exc.StartTime,
		&exc.EndTime,
		&exc.Reason,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan exception: %v", ErrScanRow, err)
	}

	exc.CreatedAt = createdAt.Time

	return &exc, nil
}

// GetByBusinessAndDate получает все исключения бизнеса на конкретную дату
func (r *Repository) GetByBusinessAndDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectColumns().
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"date": date}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanExceptions(rows)
}

// GetByBusinessAndDateRange получает исключения бизнеса за период [from, to]
// Используется в админском списке исключений
func (r *Repository) GetByBusinessAndDateRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectColumns().
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanExceptions(rows)
}

// Delete удаляет исключение графика
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_exceptions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

// selectColumns возвращает builder с полным набором колонок таблицы availability_exceptions
func selectColumns() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"business_id",
		"date",
		"kind",
		"start_time",
		"end_time",
		"reason",
		"created_at",
	).From("availability_exceptions")
}

// scanExceptions сканирует результаты запроса в слайс исключений
func (r *Repository) scanExceptions(rows *sql.Rows) ([]*domain.AvailabilityException, error) {
	exceptions := make([]*domain.AvailabilityException, 0)

	for rows.Next() {
		var exc domain.AvailabilityException
		var createdAt sql.NullTime

		err := rows.Scan(
			&exc.ID,
			&exc.BusinessID,
			&exc.Date,
			&exc.Kind,
			&exc.StartTime,
			&exc.EndTime,
			&exc.Reason,
			&createdAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanExceptions - scan row: %v", ErrScanRow, err)
		}

		exc.CreatedAt = createdAt.Time

		exceptions = append(exceptions, &exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanExceptions - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}
