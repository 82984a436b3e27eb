package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

// DefaultExampleLimit は承認履歴の読み出し件数のデフォルト値です。
const DefaultExampleLimit = 10

// ObjectWriter は画像オブジェクトの書き込み先に対する最小インターフェースです。
type ObjectWriter interface {
	Write(ctx context.Context, path string, reader io.Reader, mimeType string) error
}

// Querier はメタデータベースに対する最小インターフェースです。*pgxpool.Pool が満たします。
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store は承認済みミームを画像オブジェクトとメタデータ行の2段階で永続化します。
//
// 書き込みは「画像が先、メタデータが後」の順で行います。画像の書き込みが
// 拒否された時点でメタデータには触れないため、画像のない行は発生しません。
type Store struct {
	writer ObjectWriter
	db     Querier
	bucket string
}

// New は Store を初期化します。bucket はオブジェクトパスのプレフィックスです。
func New(writer ObjectWriter, db Querier, bucket string) *Store {
	return &Store{writer: writer, db: db, bucket: bucket}
}

// Write は承認済みアーティファクトを永続化します。
// 同じ ID に対する再実行は冪等で、メタデータは upsert されます。
func (s *Store) Write(ctx context.Context, art *domain.Artifact) error {
	if s.db == nil {
		return fmt.Errorf("承認を保存できません: %w", domain.ErrNotConfigured)
	}

	mimeType, data, err := domain.DecodeDataURI(art.ImageData)
	if err != nil {
		return fmt.Errorf("画像データの解析に失敗しました: %w", err)
	}

	objectPath := s.objectPath(art.ID, domain.ImageFormat(mimeType))
	if err := s.writer.Write(ctx, objectPath, bytes.NewReader(data), mimeType); err != nil {
		storeErr := classifyStoreError(err)
		slog.ErrorContext(ctx, "画像オブジェクトの書き込みに失敗しました",
			"id", art.ID, "path", objectPath, "policy_denied", storeErr.PolicyDenied, "error", err)
		return storeErr
	}

	const upsert = `
INSERT INTO meme_artifacts (id, top_caption, bottom_caption, image_prompt, alt_text, image_path, provider, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
ON CONFLICT (id) DO UPDATE
SET alt_text = EXCLUDED.alt_text, image_path = EXCLUDED.image_path, provider = EXCLUDED.provider, status = EXCLUDED.status`

	_, err = s.db.Exec(ctx, upsert,
		art.ID, art.TopCaption, art.BottomCaption, art.ImagePrompt,
		art.AltText, objectPath, string(art.ProviderUsed), string(art.Status))
	if err != nil {
		slog.ErrorContext(ctx, "メタデータの書き込みに失敗しました", "id", art.ID, "error", err)
		return &domain.StoreError{Kind: domain.MetadataWriteFailed, Err: err}
	}

	slog.InfoContext(ctx, "承認済みミームを保存しました", "id", art.ID, "path", objectPath)
	return nil
}

// Read は承認済みミームを新しい順に最大 limit 件返します。
// 取得失敗は空の履歴として扱い、エラーを返しません。
func (s *Store) Read(ctx context.Context, limit int) []domain.ApprovedExample {
	if s.db == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultExampleLimit
	}

	const query = `
SELECT top_caption, bottom_caption, image_prompt, provider
FROM meme_artifacts
WHERE status = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := s.db.Query(ctx, query, string(domain.StatusApproved), limit)
	if err != nil {
		slog.WarnContext(ctx, "承認履歴の取得に失敗したため空の履歴で続行します", "error", err)
		return nil
	}
	defer rows.Close()

	var examples []domain.ApprovedExample
	for rows.Next() {
		var ex domain.ApprovedExample
		var provider string
		if err := rows.Scan(&ex.TopCaption, &ex.BottomCaption, &ex.ImagePrompt, &provider); err != nil {
			slog.WarnContext(ctx, "承認履歴の行の読み取りをスキップします", "error", err)
			continue
		}
		ex.ProviderUsed = domain.ParseProvider(provider)
		examples = append(examples, ex)
	}
	if err := rows.Err(); err != nil {
		slog.WarnContext(ctx, "承認履歴の読み出しが途中で失敗しました", "error", err)
	}
	return examples
}

// objectPath は画像オブジェクトの保存先パスを組み立てます。
func (s *Store) objectPath(id, format string) string {
	return fmt.Sprintf("%s/%s.%s", strings.TrimSuffix(s.bucket, "/"), id, format)
}

// classifyStoreError はオブジェクト書き込みの失敗をエラー分類に写します。
// ストレージ側のアクセス制御による拒否は PolicyDenied として区別します。
func classifyStoreError(err error) *domain.StoreError {
	message := strings.ToLower(err.Error())

	denied := strings.Contains(message, "security policy") ||
		strings.Contains(message, "row-level security") ||
		strings.Contains(message, "permission denied") ||
		strings.Contains(message, "unauthorized")

	kind := domain.StorageUnavailable
	if strings.Contains(message, "bucket") && strings.Contains(message, "not found") {
		kind = domain.BucketNotFound
	}

	return &domain.StoreError{Kind: kind, PolicyDenied: denied, Err: err}
}
