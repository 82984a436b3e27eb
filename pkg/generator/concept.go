// Package generator は、Gemini テキストモデルによるミーム構成案と代替テキストの生成を担います。
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shouni/go-meme-kit/pkg/domain"
	"github.com/shouni/go-meme-kit/pkg/prompts"
)

// BatchSize は1バッチで要求する構成案の固定数です。
const BatchSize = 5

// TextModel は生成テキストサービスへの最小インターフェースです。
// 実装側ではなく利用側で定義し、テストでは偽物に差し替えます。
type TextModel interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// ConceptGenerator はリクエストとスタイル例から構成案バッチを生成します。
type ConceptGenerator struct {
	model     TextModel
	modelName string
}

// NewConceptGenerator は ConceptGenerator を初期化します。
func NewConceptGenerator(model TextModel, modelName string) *ConceptGenerator {
	return &ConceptGenerator{model: model, modelName: modelName}
}

// Generate は1回だけ外部呼び出しを行い、ちょうど BatchSize 件の構成案を返します。リトライはしません。
// 0件なら ErrGenerationEmpty、件数不一致を含む不正レスポンスとサービス失敗は
// UpstreamError に分類して伝搬します。
func (g *ConceptGenerator) Generate(ctx context.Context, req domain.Request, examples []domain.ApprovedExample) ([]domain.Concept, error) {
	prompt := prompts.BuildConceptPrompt(req, examples, BatchSize)

	raw, err := g.model.Generate(ctx, prompt, g.modelName)
	if err != nil {
		return nil, classifyUpstream(err)
	}

	concepts, err := parseConcepts(raw)
	if err != nil {
		return nil, err
	}

	// 件数不足のバッチを黙って縮めず、不正レスポンスとして中断します。
	if len(concepts) != BatchSize {
		return nil, &domain.UpstreamError{
			Kind: domain.UpstreamUnavailable,
			Err:  fmt.Errorf("構成案の件数が要求と一致しません: want %d, got %d", BatchSize, len(concepts)),
		}
	}
	return concepts, nil
}

// parseConcepts は、AI が返したテキストから Markdown のコードブロック等を除去して JSON としてパースします。
func parseConcepts(raw string) ([]domain.Concept, error) {
	rawJSON := strings.TrimSpace(raw)
	rawJSON = strings.TrimPrefix(rawJSON, "```json")
	rawJSON = strings.TrimPrefix(rawJSON, "```")
	rawJSON = strings.TrimSuffix(rawJSON, "```")
	rawJSON = strings.TrimSpace(rawJSON)

	var payload struct {
		Concepts []domain.Concept `json:"concepts"`
	}
	if err := json.Unmarshal([]byte(rawJSON), &payload); err != nil {
		return nil, &domain.UpstreamError{
			Kind: domain.UpstreamUnavailable,
			Err:  fmt.Errorf("構成案 JSON のパースに失敗しました: %w", err),
		}
	}

	if len(payload.Concepts) == 0 {
		return nil, domain.ErrGenerationEmpty
	}

	for i, c := range payload.Concepts {
		if c.TopCaption == "" || c.BottomCaption == "" || c.ImagePrompt == "" {
			return nil, &domain.UpstreamError{
				Kind: domain.UpstreamUnavailable,
				Err:  fmt.Errorf("構成案 %d に空のフィールドがあります", i+1),
			}
		}
	}

	return payload.Concepts, nil
}

// classifyUpstream はサービス側エラーのメッセージを3分類にマッピングします。
func classifyUpstream(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429"):
		return &domain.UpstreamError{Kind: domain.UpstreamQuota, Err: err}
	case strings.Contains(msg, "safety") ||
		strings.Contains(msg, "blocked") ||
		strings.Contains(msg, "prohibited") ||
		strings.Contains(msg, "rejected"):
		return &domain.UpstreamError{Kind: domain.UpstreamRejected, Err: err}
	default:
		return &domain.UpstreamError{Kind: domain.UpstreamUnavailable, Err: err}
	}
}
