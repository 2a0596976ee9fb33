package repository

import (
	"context"
	"database/sql"
	"errors"
	"fieldbook/infras/otel"
	"fieldbook/infras/postgres"
	"fieldbook/shared/constant"
	"fieldbook/shared/dto"
	"fieldbook/shared/logger"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	errRequiredFilter = errors.New("required filter")

	// ErrInvalidSort is returned when an ordering names a column the table does not have.
	ErrInvalidSort = errors.New("invalid sort")

	// ErrExclusionViolation is returned when a write is rejected by an EXCLUDE constraint.
	ErrExclusionViolation = errors.New("exclusion constraint violated")

	// ErrForeignKeyViolation is returned when a write references a missing row.
	ErrForeignKeyViolation = errors.New("foreign key constraint violated")
)

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type queryer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// Repository is a generic table gateway over the db tags of T. A zero tx routes reads to the
// read pool and writes to the write pool; WithTx binds both to a single transaction.
type Repository[T any] struct {
	db            *postgres.Connection
	tx            *sqlx.Tx
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columnsOf(reflect.TypeFor[T]()),
	}
}

// columnsOf lists the db tags of t in field order, descending into embedded structs.
func columnsOf(t reflect.Type) []string {
	columns := []string{}

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, columnsOf(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}

// WithTx returns a copy of the repository bound to sqltx.
func (repo Repository[T]) WithTx(sqltx *sqlx.Tx) Repository[T] {
	repo.tx = sqltx

	return repo
}

func (repo *Repository[T]) InTx() bool {
	return repo.tx != nil
}

// Begin opens a transaction on the write pool.
func (repo *Repository[T]) Begin(ctx context.Context) (*sqlx.Tx, error) {
	sqltx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to begin transaction (%s): %w", repo.entity, err)
	}

	return sqltx, nil
}

func (repo *Repository[T]) reader() queryer {
	if repo.tx != nil {
		return repo.tx
	}

	return repo.db.Read
}

func (repo *Repository[T]) writer() execer {
	if repo.tx != nil {
		return repo.tx
	}

	return repo.db.Write
}

func (repo *Repository[T]) span(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
}

// read prepares query on the read side and hands the statement to run.
func (repo *Repository[T]) read(ctx context.Context, operation, query string, run func(stmt *sqlx.NamedStmt) error) error {
	ctx, scope := repo.span(ctx, operation)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.reader().PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to prepare %s (%s): %w", operation, repo.entity, err)
	}
	defer stmt.Close()

	if err = run(stmt); err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to %s (%s): %w", operation, repo.entity, err)
	}

	return err //nolint:wrapcheck
}

// write runs a named statement on the write side, translating constraint violations.
func (repo *Repository[T]) write(ctx context.Context, operation, query string, arg any) error {
	ctx, scope := repo.span(ctx, operation)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.writer().NamedExecContext(ctx, query, arg); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to %s (%s): %w", operation, repo.entity, mapError(err))
	}

	return nil
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, len(repo.columns))

	for i, col := range repo.columns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.columns, ", "), strings.Join(placeholders, ", "))
}

// InsertBulk writes every model with a single multi-row INSERT.
func (repo *Repository[T]) InsertBulk(ctx context.Context, models []T) error {
	if len(models) == 0 {
		return nil
	}

	return repo.write(ctx, "InsertBulk", repo.insertQuery(), models)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	where, args := repo.where(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	exist := false
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", repo.table, where)

	err := repo.read(ctx, "Exist", query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &exist, args)
	})

	return exist, err
}

// Get returns the first matching row, or the zero T when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	var model T

	where, args := repo.where(filter)
	query := fmt.Sprintf("SELECT %s FROM %s%s", repo.selectList(columns), repo.table, where)

	err := repo.read(ctx, "Get", query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &model, args)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	return model, err
}

// GetAll returns one page of matching rows. A non-positive page with a positive limit
// returns the first limit rows.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ordering, err := repo.orderBy(params.SortBy, params.SortDir)
	if err != nil {
		return nil, err
	}

	where, args := repo.where(filter)

	var pagination string

	if params.Limit > 0 {
		args["limit"] = params.Limit
		args["offset"] = max(0, params.Page-1) * params.Limit

		pagination = " LIMIT :limit OFFSET :offset"
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s%s%s", repo.selectList(columns), repo.table, where, ordering, pagination)

	var models []T

	err = repo.read(ctx, "GetAll", query, func(stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &models, args)
	})

	return models, err
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	where, args := repo.where(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s%s", repo.table, repo.primaryColumn, repo.table, where)

	var count int

	err := repo.read(ctx, "Count", query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args)
	})

	return count, err
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	where, args := repo.where(filter)
	if where == "" {
		return errRequiredFilter
	}

	return repo.write(ctx, "Delete", fmt.Sprintf("DELETE FROM %s%s", repo.table, where), args)
}

// Update sets the columns in mod on every matching row. Column names come from code, never
// from the request.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	where, args := repo.where(filter)
	if where == "" {
		return errRequiredFilter
	}

	assignments := make([]string, 0, len(mod))

	for _, col := range slices.Sorted(maps.Keys(mod)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	maps.Copy(args, mod)

	return repo.write(ctx, "Update", fmt.Sprintf("UPDATE %s SET %s%s", repo.table, strings.Join(assignments, ", "), where), args)
}

// Exec runs a raw named statement on the bound connection.
func (repo *Repository[T]) Exec(ctx context.Context, query string, args map[string]any) error {
	return repo.write(ctx, "Exec", query, args)
}

func (repo *Repository[T]) selectList(columns []string) string {
	selected := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(columns) > 0 && !slices.Contains(columns, col) {
			continue
		}

		selected = append(selected, repo.table+"."+col)
	}

	return strings.Join(selected, ", ")
}

func (repo *Repository[T]) where(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where, args
}

// orderBy renders sortBy, a comma separated list of columns each optionally followed by a
// direction, with dir applied to the last column. Every column must belong to the table.
func (repo *Repository[T]) orderBy(sortBy, dir string) (string, error) {
	if strings.TrimSpace(sortBy) == "" {
		return "", nil
	}

	segments := strings.Split(sortBy, ",")
	if dir != "" {
		segments[len(segments)-1] += " " + dir
	}

	terms := make([]string, 0, len(segments))

	for _, segment := range segments {
		fields := strings.Fields(segment)
		if len(fields) == 0 || len(fields) > 2 {
			return "", fmt.Errorf("%w: %q", ErrInvalidSort, segment)
		}

		col := strings.TrimPrefix(fields[0], repo.table+".")
		if !slices.Contains(repo.columns, col) {
			return "", fmt.Errorf("%w: unknown column %q", ErrInvalidSort, fields[0])
		}

		term := repo.table + "." + col

		if len(fields) == 2 {
			direction := strings.ToUpper(fields[1])
			if direction != dto.SortDirAsc && direction != dto.SortDirDesc {
				return "", fmt.Errorf("%w: direction %q", ErrInvalidSort, fields[1])
			}

			term += " " + direction
		}

		terms = append(terms, term)
	}

	return " ORDER BY " + strings.Join(terms, ", "), nil
}

// mapError translates driver errors the callers branch on into sentinel errors.
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeExclusionViolation:
		return fmt.Errorf("%w: %s", ErrExclusionViolation, pqErr.Constraint)
	case constant.PqErrorCodeForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrForeignKeyViolation, pqErr.Constraint)
	default:
		return err
	}
}
