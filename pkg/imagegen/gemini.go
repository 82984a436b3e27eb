package imagegen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

// MemeAspectRatio はミーム画像の固定アスペクト比（正方形）です。
const MemeAspectRatio = "1:1"

// NegativeTextPrompt は画像内への文字の描き込みを禁止する固定ネガティブプロンプトです。
// キャプションはフロント側で重ねるため、画像自体に文字が焼き込まれると使い物になりません。
const NegativeTextPrompt = "embedded text, letters, numbers, words, captions, subtitles, watermarks, typography, signage"

// memeSystemPrompt は単体ミーム画像としての役割定義です。
const memeSystemPrompt = "You are a professional illustrator. Create a single expressive scene that works as a meme background. Leave clear space at the top and bottom for caption overlays."

// panelGenerator は gemini-image-kit のジェネレーターに対する最小インターフェースです。
type panelGenerator interface {
	GenerateMangaPanel(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error)
}

// GeminiSynthesizer は Gemini 画像モデル（プロバイダA）のアダプターです。
// いかなる失敗もプレースホルダへの劣化として吸収し、エラーを返しません。
type GeminiSynthesizer struct {
	generator panelGenerator
}

// NewGeminiSynthesizer は GeminiSynthesizer を初期化します。
func NewGeminiSynthesizer(gen panelGenerator) *GeminiSynthesizer {
	return &GeminiSynthesizer{generator: gen}
}

// Synthesize は1枚の正方形ミーム画像を生成します。err は常に nil です。
func (s *GeminiSynthesizer) Synthesize(ctx context.Context, prompt string) (Result, error) {
	startTime := time.Now()

	resp, err := s.generator.GenerateMangaPanel(ctx, imagedom.ImageGenerationRequest{
		Prompt:         prompt,
		NegativePrompt: NegativeTextPrompt,
		SystemPrompt:   memeSystemPrompt,
		AspectRatio:    MemeAspectRatio,
	})
	if err != nil {
		slog.WarnContext(ctx, "Gemini 画像生成に失敗したためプレースホルダを使用します", "error", err)
		return degradedResult(err), nil
	}
	if resp == nil || len(resp.Data) == 0 {
		cause := fmt.Errorf("レスポンスに画像パートが含まれていません")
		slog.WarnContext(ctx, "Gemini レスポンスが空のためプレースホルダを使用します")
		return degradedResult(cause), nil
	}

	mimeType := resp.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}

	slog.InfoContext(ctx, "Gemini 画像生成が完了しました",
		"duration", time.Since(startTime).Round(time.Millisecond))
	return Result{Data: domain.DataURI(mimeType, resp.Data)}, nil
}
