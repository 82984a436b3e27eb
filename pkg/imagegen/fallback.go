package imagegen

import (
	"context"
	"log/slog"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

// FallbackSynthesizer はプロバイダ指定付きの合成をプロバイダ置換付きで実行するラッパーです。
//
// OpenAI が指定されたのにクレデンシャルがない場合は黙って Gemini に置き換えます。
// これはスケジューリングの補正であって失敗ではないため、エラーは表面化しません。
type FallbackSynthesizer struct {
	gemini       Engine
	openai       Engine
	hasOpenAIKey bool
}

// NewFallbackSynthesizer は FallbackSynthesizer を初期化します。
func NewFallbackSynthesizer(gemini, openai Engine, hasOpenAIKey bool) *FallbackSynthesizer {
	return &FallbackSynthesizer{
		gemini:       gemini,
		openai:       openai,
		hasOpenAIKey: hasOpenAIKey,
	}
}

// SynthesizeWithFallback は要求プロバイダで合成し、実際に使ったプロバイダを報告します。
// 内部でプレースホルダに劣化したかどうかはこの契約のレベルでは区別しません。
func (f *FallbackSynthesizer) SynthesizeWithFallback(ctx context.Context, prompt string, requested domain.Provider) (Result, domain.Provider) {
	if requested == domain.ProviderOpenAI && !f.hasOpenAIKey {
		slog.InfoContext(ctx, "OpenAI キーがないため Gemini に割り当てを補正します")
		res, _ := f.gemini.Synthesize(ctx, prompt)
		return res, domain.ProviderGemini
	}

	var engine Engine
	switch requested {
	case domain.ProviderOpenAI:
		engine = f.openai
	default:
		engine = f.gemini
	}

	res, err := engine.Synthesize(ctx, prompt)
	if err != nil {
		// クレデンシャル確認済みの経路では構造上到達しないはずの分岐。
		// 到達しても契約どおりバッチは落とさず、劣化結果として扱います。
		slog.ErrorContext(ctx, "合成エンジンが想定外のエラーを返しました", "provider", requested, "error", err)
		return degradedResult(err), requested
	}
	return res, requested
}
