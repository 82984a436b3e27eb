package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-meme-kit/internal/config"
	"github.com/shouni/go-meme-kit/pkg/domain"
	"github.com/shouni/go-meme-kit/pkg/session"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// StudioRunner は、1バッチ分のミーム生成からレビュー依頼（または一括承認）までを実行する実体なのだ。
type StudioRunner struct {
	session *session.Session      // レビューセッション
	writer  remoteio.OutputWriter // 生成画像のローカル/GCS保存先
	opts    config.GenerateOptions
}

// NewStudioRunner は、StudioRunnerの新しいインスタンスを生成して返すのだ。
func NewStudioRunner(sess *session.Session, writer remoteio.OutputWriter, opts config.GenerateOptions) *StudioRunner {
	return &StudioRunner{
		session: sess,
		writer:  writer,
		opts:    opts,
	}
}

// Run は、バッチ生成、画像の書き出し、レビュー依頼（または一括承認）を一気に行うのだ。
func (sr *StudioRunner) Run(ctx context.Context) error {
	if err := sr.generate(ctx); err != nil {
		slog.Error("バッチ生成に失敗したのだ", "reason", domain.FriendlyMessage(err))
		return err
	}

	artifacts := sr.session.Artifacts()
	slog.Info("バッチ生成が完了したのだ", "count", len(artifacts))

	if err := sr.saveImages(ctx, artifacts); err != nil {
		return err
	}

	if sr.opts.ApproveAll {
		sr.approveAll(ctx, artifacts)
		return nil
	}

	if err := sr.session.SendForReview(ctx); err != nil {
		return fmt.Errorf("レビュー依頼の送信に失敗したのだ: %w", err)
	}
	slog.Info("レビュー依頼を送信したのだ！")
	return nil
}

// generate は、見出しまたは参考リンク＋プロンプトのどちらかを起点にバッチを生成するのだ。
func (sr *StudioRunner) generate(ctx context.Context) error {
	if sr.opts.Headline != "" {
		return sr.session.GenerateFromHeadline(ctx, sr.opts.Headline)
	}
	return sr.session.GenerateFromInspiration(ctx, sr.opts.Links, sr.opts.Prompt)
}

// saveImages は、生成された全ミーム画像を出力先に書き出すのだ。
func (sr *StudioRunner) saveImages(ctx context.Context, artifacts []domain.Artifact) error {
	outputDir := sr.opts.OutputImageDir
	if outputDir == "" {
		outputDir = config.DefaultLocalImageDir
	}

	for i, art := range artifacts {
		mimeType, data, err := domain.DecodeDataURI(art.ImageData)
		if err != nil {
			slog.Warn("画像データの解析に失敗したためスキップするのだ", "index", i+1, "error", err)
			continue
		}

		path := fmt.Sprintf("%s/meme_%02d_%s.%s", outputDir, i+1, art.ID, domain.ImageFormat(mimeType))
		if err := sr.writer.Write(ctx, path, bytes.NewReader(data), mimeType); err != nil {
			return fmt.Errorf("画像 '%s' の保存に失敗したのだ: %w", path, err)
		}
		slog.Info("画像を保存したのだ", "path", path, "provider", art.ProviderUsed)
	}
	return nil
}

// approveAll は、バッチ内の全ミームを順番に承認するのだ。失敗した分は記録して続行するのだ。
func (sr *StudioRunner) approveAll(ctx context.Context, artifacts []domain.Artifact) {
	approved := 0
	for _, art := range artifacts {
		if err := sr.session.Approve(ctx, art.ID); err != nil {
			slog.Error("承認に失敗したのだ", "id", art.ID, "reason", domain.FriendlyMessage(err))
			continue
		}
		approved++
	}
	slog.Info("一括承認が完了したのだ", "approved", approved, "total", len(artifacts))
}
