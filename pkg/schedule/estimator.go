// Package schedule は、承認履歴からバッチ内の画像プロバイダ割り当てを決定します。
package schedule

import (
	"github.com/shouni/go-meme-kit/pkg/domain"
)

// Ratio は1バッチ内の Gemini : OpenAI の割り当て比です。
type Ratio struct {
	Gemini int
	OpenAI int
}

// デフォルト比はプロバイダA（Gemini）を優遇する 3:2 です。
const (
	defaultMajor = 3
	defaultMinor = 2
)

// Estimate は承認履歴から割り当て比を返します。
// これは多数派を強化するだけの単純なヒューリスティックであり、統計モデルではありません。
// 平滑化や時間減衰は行わず、履歴の範囲はストア側の読み取り上限に従います。
func Estimate(history []domain.ApprovedExample) Ratio {
	if len(history) == 0 {
		return Ratio{Gemini: defaultMajor, OpenAI: defaultMinor}
	}

	var openaiCount, geminiCount int
	for _, ex := range history {
		if ex.ProviderUsed == domain.ProviderOpenAI {
			openaiCount++
		} else {
			geminiCount++
		}
	}

	// OpenAI が多数派のときだけデフォルト比を反転します。同数は Gemini 優遇のままです。
	if openaiCount > geminiCount {
		return Ratio{Gemini: defaultMinor, OpenAI: defaultMajor}
	}
	return Ratio{Gemini: defaultMajor, OpenAI: defaultMinor}
}

// Build は比率をバッチ長 n のプロバイダ列に展開します。
// Gemini を ratio.Gemini 回、続けて OpenAI を ratio.OpenAI 回並べ、
// 繰り返しプレフィックスを超えるインデックスは Gemini に倒します。
func Build(ratio Ratio, n int) []domain.Provider {
	if n <= 0 {
		return nil
	}

	providers := make([]domain.Provider, n)
	for i := range providers {
		switch {
		case i < ratio.Gemini:
			providers[i] = domain.ProviderGemini
		case i < ratio.Gemini+ratio.OpenAI:
			providers[i] = domain.ProviderOpenAI
		default:
			providers[i] = domain.ProviderGemini
		}
	}
	return providers
}
