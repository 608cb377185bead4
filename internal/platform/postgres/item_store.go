package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/item-api/internal/domain"
	"github.com/phrazzld/item-api/internal/platform/logger"
	"github.com/phrazzld/item-api/internal/redact"
	"github.com/phrazzld/item-api/internal/store"
)

// PostgresItemStore implements store.ItemStore on a PostgreSQL database.
// All methods issue single statements, so concurrent calls are safe as
// long as db is a *sql.DB (a *sql.Tx serializes them).
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// NewPostgresItemStore creates a new PostgreSQL implementation of the ItemStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// WithTx returns a store bound to tx.
func (s *PostgresItemStore) WithTx(tx *sql.Tx) *PostgresItemStore {
	return &PostgresItemStore{db: tx, logger: s.logger}
}

// ListIDs implements store.ItemStore.ListIDs
func (s *PostgresItemStore) ListIDs(ctx context.Context) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM items ORDER BY id`)
	if err != nil {
		log.Error("failed to list item ids", redact.Attr(err))
		return nil, store.NewStoreError("item", "list_ids", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("item", "list_ids", "scan failed", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("item", "list_ids", "row iteration failed", MapError(err))
	}

	log.Debug("listed item ids", slog.Int("count", len(ids)))
	return ids, nil
}

// GetByID implements store.ItemStore.GetByID
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, status, email
		FROM items
		WHERE id = $1
	`

	var item domain.Item
	var status string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&status,
		&item.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("item not found", slog.Int64("item_id", id))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get item", slog.Int64("item_id", id), redact.Attr(err))
		return nil, store.NewStoreError("item", "get", "query failed", MapError(err))
	}
	item.Status = domain.ItemStatus(status)

	return &item, nil
}

// Save implements store.ItemStore.Save
// It inserts when item.ID is zero and updates otherwise. The input is not
// modified; the persisted copy is returned.
func (s *PostgresItemStore) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: nil item", store.ErrInvalidEntity)
	}
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	saved := *item
	if saved.ID == 0 {
		return s.insert(ctx, &saved)
	}
	return s.update(ctx, &saved)
}

func (s *PostgresItemStore) insert(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO items (name, description, status, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		item.Name,
		item.Description,
		string(item.Status),
		item.Email,
	).Scan(&item.ID)
	if err != nil {
		log.Error("failed to insert item", redact.Attr(err))
		return nil, store.NewStoreError("item", "insert", "insert failed", MapError(err))
	}

	log.Debug("item inserted", slog.Int64("item_id", item.ID))
	return item, nil
}

func (s *PostgresItemStore) update(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// A PROCESSED row only accepts updates that keep it PROCESSED.
	query := `
		UPDATE items
		SET name = $1, description = $2, status = $3, email = $4, updated_at = NOW()
		WHERE id = $5 AND (status <> 'PROCESSED' OR $3::text = 'PROCESSED')
	`
	result, err := s.db.ExecContext(ctx, query,
		item.Name,
		item.Description,
		string(item.Status),
		item.Email,
		item.ID,
	)
	if err != nil {
		log.Error("failed to update item", slog.Int64("item_id", item.ID), redact.Attr(err))
		return nil, store.NewStoreError("item", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrItemNotFound); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, s.explainSkippedUpdate(ctx, log, item.ID)
		}
		return nil, store.NewStoreError("item", "update", "rows affected check failed", err)
	}

	log.Debug("item updated", slog.Int64("item_id", item.ID))
	return item, nil
}

// explainSkippedUpdate tells a missing row apart from a PROCESSED row that
// refused a status regression after a guarded UPDATE matched nothing.
func (s *PostgresItemStore) explainSkippedUpdate(ctx context.Context, log *slog.Logger, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`SELECT 1 FROM items WHERE id = $1 AND status = 'PROCESSED'`, id)
	if err != nil {
		log.Error("failed to inspect item after skipped update", slog.Int64("item_id", id), redact.Attr(err))
		return store.NewStoreError("item", "update", "status lookup failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrItemNotFound); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			log.Debug("item not found for update", slog.Int64("item_id", id))
			return err
		}
		return store.NewStoreError("item", "update", "rows affected check failed", err)
	}

	log.Debug("refused status regression", slog.Int64("item_id", id))
	return fmt.Errorf("%w: item %d", domain.ErrStatusRegression, id)
}

// DeleteByID implements store.ItemStore.DeleteByID
// Deleting a missing item is not an error.
func (s *PostgresItemStore) DeleteByID(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete item", slog.Int64("item_id", id), redact.Attr(err))
		return store.NewStoreError("item", "delete", "delete failed", MapError(err))
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		log.Debug("delete of missing item ignored", slog.Int64("item_id", id))
	}
	return nil
}

// List implements store.ItemStore.List
func (s *PostgresItemStore) List(ctx context.Context) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, status, email
		FROM items
		ORDER BY id
	`)
	if err != nil {
		log.Error("failed to list items", redact.Attr(err))
		return nil, store.NewStoreError("item", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		var item domain.Item
		var status string
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &status, &item.Email); err != nil {
			return nil, store.NewStoreError("item", "list", "scan failed", err)
		}
		item.Status = domain.ItemStatus(status)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("item", "list", "row iteration failed", MapError(err))
	}

	return items, nil
}
