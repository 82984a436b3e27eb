package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-meme-kit/internal/config"
	"github.com/shouni/go-meme-kit/pkg/generator"
	"github.com/shouni/go-meme-kit/pkg/imagegen"
	"github.com/shouni/go-meme-kit/pkg/notify"
	"github.com/shouni/go-meme-kit/pkg/pipeline"
	"github.com/shouni/go-meme-kit/pkg/session"
	"github.com/shouni/go-meme-kit/pkg/store"

	"github.com/patrickmn/go-cache"
	imagekit "github.com/shouni/gemini-image-kit/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

const (
	defaultCacheExpiration = 5 * time.Minute
	cacheCleanupInterval   = 15 * time.Minute
	defaultTTL             = 5 * time.Minute
)

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// geminiTextModel は gemini クライアントをコンセプト生成用の TextModel に適合させるアダプターなのだ。
type geminiTextModel struct {
	aiClient gemini.GenerativeModel
}

func (m *geminiTextModel) Generate(ctx context.Context, prompt, model string) (string, error) {
	resp, err := m.aiClient.GenerateContent(ctx, prompt, model)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// BuildSession はレビューセッションを依存関係込みで構築します。
// 同じストアが承認保存とスタイル例の読み出しの両方を担うのだ。
func BuildSession(ctx context.Context, appCtx *AppContext) (*session.Session, error) {
	storeCfg := store.Config{
		DatabaseURL: appCtx.Config.DatabaseURL,
		Bucket:      appCtx.Config.StorageBucket,
	}

	artifactStore, err := buildStore(ctx, appCtx, storeCfg)
	if err != nil {
		return nil, err
	}

	orch, err := buildOrchestrator(appCtx, artifactStore, storeCfg)
	if err != nil {
		return nil, err
	}

	notifier := notify.NewWebhookNotifier(appCtx.Config.ReviewWebhookURL, appCtx.Options.HTTPTimeout)
	return session.New(orch, artifactStore, notifier, storeCfg, appCtx.Config.ReviewRecipient), nil
}

// buildOrchestrator はコンセプト生成から画像合成までのパイプラインを組み立てます。
func buildOrchestrator(appCtx *AppContext, examples pipeline.ExampleSource, storeCfg store.Config) (*pipeline.Orchestrator, error) {
	textModel := &geminiTextModel{aiClient: appCtx.aiClient}
	conceptGen := generator.NewConceptGenerator(textModel, appCtx.Options.AIModel)
	altTextGen := generator.NewAltTextGenerator(textModel, appCtx.Options.AIModel)

	geminiEngine, err := initializeGeminiEngine(appCtx)
	if err != nil {
		return nil, fmt.Errorf("Gemini画像エンジンの初期化に失敗したのだ: %w", err)
	}

	openaiEngine := imagegen.NewOpenAISynthesizer(
		appCtx.Config.OpenAIAPIKey,
		appCtx.Config.OpenAIImageModel,
		appCtx.Config.OpenAIEndpoint,
		appCtx.Options.HTTPTimeout,
	)
	synth := imagegen.NewFallbackSynthesizer(geminiEngine, openaiEngine, openaiEngine.HasCredential())

	return pipeline.NewOrchestrator(conceptGen, altTextGen, examples, storeCfg, synth, config.DefaultRateLimit), nil
}

// initializeGeminiEngine は画像キャッシュ付きの Gemini 合成エンジンを初期化します。
func initializeGeminiEngine(appCtx *AppContext) (*imagegen.GeminiSynthesizer, error) {
	imgCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)
	core, err := imagekit.NewGeminiImageCore(
		appCtx.aiClient,
		appCtx.Reader,
		appCtx.httpClient,
		imgCache,
		defaultTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCore の初期化に失敗しました: %w", err)
	}

	imgGen, err := imagekit.NewGeminiGenerator(appCtx.Options.ImageModel, core)
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗したのだ: %w", err)
	}
	return imagegen.NewGeminiSynthesizer(imgGen), nil
}

// buildStore は承認済みミームの保存先を組み立てます。
// バックエンドが未設定の場合でもセッション自体は動かせるよう、未接続のストアを返すのだ。
func buildStore(ctx context.Context, appCtx *AppContext, storeCfg store.Config) (*store.Store, error) {
	if !storeCfg.Verified() {
		slog.WarnContext(ctx, "ストアのバックエンドが未設定のため、バッチ生成と承認保存は無効なのだ",
			"database", storeCfg.DatabaseURL != "", "bucket", storeCfg.Bucket != "")
		return store.New(appCtx.Writer, nil, storeCfg.Bucket), nil
	}

	pool, err := store.AcquirePool(ctx, storeCfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("メタデータベースへの接続に失敗しました: %w", err)
	}
	return store.New(appCtx.Writer, pool, storeCfg.Bucket), nil
}
