package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel           = "gemini-3-flash-preview"
	DefaultImageModel      = "gemini-3-pro-image-preview"
	DefaultOpenAIModel     = "dall-e-3"
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultRateLimit       = 10 * time.Second
	DefaultLocalImageDir   = "output/memes" // スタジオランナーが使うデフォルト保存先なのだ
	DefaultAutopilotPeriod = 30 * time.Minute
)

// Config はアプリケーション全体の環境設定（APIキーやバックエンド設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string
	OpenAIAPIKey     string
	OpenAIImageModel string
	OpenAIEndpoint   string
	DatabaseURL      string
	StorageBucket    string
	ReviewWebhookURL string
	ReviewRecipient  string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		OpenAIAPIKey:     envutil.GetEnv("OPENAI_API_KEY", ""),
		OpenAIImageModel: envutil.GetEnv("OPENAI_IMAGE_MODEL", DefaultOpenAIModel),
		OpenAIEndpoint:   envutil.GetEnv("OPENAI_IMAGE_ENDPOINT", ""),
		DatabaseURL:      envutil.GetEnv("DATABASE_URL", ""),
		StorageBucket:    envutil.GetEnv("MEME_STORAGE_BUCKET", ""),
		ReviewWebhookURL: envutil.GetEnv("REVIEW_WEBHOOK_URL", ""),
		ReviewRecipient:  envutil.GetEnv("REVIEW_RECIPIENT", ""),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	Headline string // --headline
	Links    string // --links
	Prompt   string // --prompt

	// 出力関連
	OutputImageDir string // --output-image-dir
	ApproveAll     bool   // --approve-all: レビューを省略して全件承認するのだ

	// AI挙動設定
	AIModel    string // --model: コンセプト生成用のGeminiモデル
	ImageModel string // --image-model: 画像生成用のGeminiモデル

	// 実行制御
	HTTPTimeout     time.Duration // --http-timeout
	AutopilotPeriod time.Duration // --period: 自動運転の周回間隔なのだ
}
