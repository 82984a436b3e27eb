package pipeline

import (
	"context"
	"fmt"

	"github.com/shouni/go-meme-kit/internal/builder"
	"github.com/shouni/go-meme-kit/internal/config"
	"github.com/shouni/go-meme-kit/internal/runner"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// ExecuteStudio は、1バッチ分のミーム生成からレビュー依頼（または一括承認）までを実行するのだ。
func ExecuteStudio(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	sess, err := builder.BuildSession(ctx, appCtx)
	if err != nil {
		return fmt.Errorf("セッションの構築に失敗したのだ: %w", err)
	}

	studioRunner := runner.NewStudioRunner(sess, appCtx.Writer, cfg.Options)
	return studioRunner.Run(ctx)
}

// ExecuteAutopilot は、一定間隔でバッチ生成とレビュー依頼を繰り返す自動運転を開始するのだ。
func ExecuteAutopilot(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	sess, err := builder.BuildSession(ctx, appCtx)
	if err != nil {
		return fmt.Errorf("セッションの構築に失敗したのだ: %w", err)
	}

	studioRunner := runner.NewStudioRunner(sess, appCtx.Writer, cfg.Options)
	autopilotRunner := runner.NewAutopilotRunner(sess, studioRunner, cfg.Options)
	return autopilotRunner.Run(ctx)
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
// ライフサイクル管理用の context と設定オブジェクトを受け取るのだ。
// 初期化中にエラーが発生した場合は、AppContext のポインタとエラーを返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(config.DefaultHTTPTimeout)
	aiClient, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient, gcsFactory, reader, writer)
	return &appCtx, nil
}
