package generator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shouni/go-meme-kit/pkg/domain"
	"github.com/shouni/go-meme-kit/pkg/prompts"
)

// AltTextGenerator は構成案からアクセシビリティ用の代替テキストを生成します。
type AltTextGenerator struct {
	model     TextModel
	modelName string
}

// NewAltTextGenerator は AltTextGenerator を初期化します。
func NewAltTextGenerator(model TextModel, modelName string) *AltTextGenerator {
	return &AltTextGenerator{model: model, modelName: modelName}
}

// Describe は代替テキストを1回の呼び出しで生成します。
// 失敗してもエラーは返さず、構成案自身から組み立てた決定論的フォールバックを返します。
func (g *AltTextGenerator) Describe(ctx context.Context, c domain.Concept) string {
	prompt := prompts.BuildAltTextPrompt(c)

	raw, err := g.model.Generate(ctx, prompt, g.modelName)
	if err != nil {
		slog.WarnContext(ctx, "代替テキスト生成に失敗したためフォールバックを使用します", "error", err)
		return prompts.FallbackAltText(c)
	}

	text := sanitizeAltText(raw)
	if text == "" {
		slog.WarnContext(ctx, "代替テキストが空だったためフォールバックを使用します")
		return prompts.FallbackAltText(c)
	}
	return text
}

// sanitizeAltText は引用符とハッシュタグを取り除き、文字数上限に収めます。
func sanitizeAltText(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.Trim(text, `"'`)
	text = strings.ReplaceAll(text, "#", "")

	runes := []rune(text)
	if len(runes) > prompts.AltTextMaxLength {
		text = string(runes[:prompts.AltTextMaxLength])
	}
	return strings.TrimSpace(text)
}
