package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

type TranslationRepository interface {
	UpsertMany(ctx context.Context, translations []model.Translation) error
	GetAll(ctx context.Context) ([]model.Translation, error)
	Get(ctx context.Context, entryID, language string) (*model.Translation, error)
	DeleteByEntryIDs(ctx context.Context, entryIDs []string) error
	Reset(ctx context.Context) error
}

type translationRepository struct {
	db dbtx
}

func NewTranslationRepository(db dbtx) TranslationRepository {
	return &translationRepository{db: db}
}

const translationColumns = `entry_id, language, title, description, content, readability_content, created_at`

func (r *translationRepository) UpsertMany(ctx context.Context, translations []model.Translation) error {
	if len(translations) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(db dbtx) error {
		for _, t := range translations {
			_, err := db.ExecContext(
				ctx,
				`INSERT INTO translations (`+translationColumns+`)
				 VALUES (?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(entry_id, language) DO UPDATE SET
				   title = excluded.title,
				   description = excluded.description,
				   content = excluded.content,
				   readability_content = excluded.readability_content,
				   created_at = excluded.created_at`,
				t.EntryID,
				t.Language,
				nullableString(t.Title),
				nullableString(t.Description),
				nullableString(t.Content),
				nullableString(t.ReadabilityContent),
				formatTime(t.CreatedAt),
			)
			if err != nil {
				return fmt.Errorf("upsert translation %s/%s: %w", t.EntryID, t.Language, err)
			}
		}
		return nil
	})
}

func (r *translationRepository) GetAll(ctx context.Context) ([]model.Translation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+translationColumns+` FROM translations ORDER BY entry_id, language`)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	var result []model.Translation
	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translations: %w", err)
	}
	return result, nil
}

func (r *translationRepository) Get(ctx context.Context, entryID, language string) (*model.Translation, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT `+translationColumns+` FROM translations WHERE entry_id = ? AND language = ?`,
		entryID, language,
	)
	t, err := scanTranslation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get translation: %w", err)
	}
	return &t, nil
}

func (r *translationRepository) DeleteByEntryIDs(ctx context.Context, entryIDs []string) error {
	return deleteWhereIn(ctx, r.db, "translations", "entry_id", entryIDs)
}

func (r *translationRepository) Reset(ctx context.Context) error {
	return truncate(ctx, r.db, "translations")
}

func scanTranslation(scanner interface {
	Scan(dest ...interface{}) error
}) (model.Translation, error) {
	var t model.Translation
	var title, description, content, readability sql.NullString
	var createdAt string
	if err := scanner.Scan(&t.EntryID, &t.Language, &title, &description, &content, &readability, &createdAt); err != nil {
		return model.Translation{}, err
	}
	t.Title = stringPtr(title)
	t.Description = stringPtr(description)
	t.Content = stringPtr(content)
	t.ReadabilityContent = stringPtr(readability)
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Translation{}, fmt.Errorf("parse translation created_at: %w", err)
	}
	return t, nil
}
