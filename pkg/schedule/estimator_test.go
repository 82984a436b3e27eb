package schedule

import (
	"testing"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

func history(providers ...domain.Provider) []domain.ApprovedExample {
	examples := make([]domain.ApprovedExample, len(providers))
	for i, p := range providers {
		examples[i] = domain.ApprovedExample{ProviderUsed: p}
	}
	return examples
}

func TestEstimate(t *testing.T) {
	cases := []struct {
		name    string
		history []domain.ApprovedExample
		want    Ratio
	}{
		{"履歴なしはデフォルト3:2", nil, Ratio{Gemini: 3, OpenAI: 2}},
		{
			"OpenAI多数派は2:3に反転",
			history(domain.ProviderOpenAI, domain.ProviderOpenAI, domain.ProviderGemini),
			Ratio{Gemini: 2, OpenAI: 3},
		},
		{
			"Gemini多数派は3:2のまま",
			history(domain.ProviderGemini, domain.ProviderGemini, domain.ProviderOpenAI),
			Ratio{Gemini: 3, OpenAI: 2},
		},
		{
			"同数はGemini優遇のまま",
			history(domain.ProviderGemini, domain.ProviderOpenAI),
			Ratio{Gemini: 3, OpenAI: 2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Estimate(tc.history); got != tc.want {
				t.Errorf("Estimate = %+v, 期待値 %+v", got, tc.want)
			}
		})
	}
}

func TestBuildExpandsRatioInOrder(t *testing.T) {
	got := Build(Ratio{Gemini: 3, OpenAI: 2}, 5)
	want := []domain.Provider{
		domain.ProviderGemini,
		domain.ProviderGemini,
		domain.ProviderGemini,
		domain.ProviderOpenAI,
		domain.ProviderOpenAI,
	}

	if len(got) != len(want) {
		t.Fatalf("スケジュール長 = %d, 期待値 %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("schedule[%d] = %s, 期待値 %s", i, got[i], want[i])
		}
	}
}

func TestBuildDefaultsBeyondPrefixToGemini(t *testing.T) {
	// 比率の合計(4)を超えるインデックスは Gemini に倒れることを確認します。
	got := Build(Ratio{Gemini: 2, OpenAI: 2}, 6)
	if got[4] != domain.ProviderGemini || got[5] != domain.ProviderGemini {
		t.Errorf("プレフィックスを超えた割り当てが Gemini になっていません: %v", got)
	}
}

func TestBuildEmptyBatch(t *testing.T) {
	if got := Build(Ratio{Gemini: 3, OpenAI: 2}, 0); got != nil {
		t.Errorf("長さ0のバッチは nil を返すべきですが %v でした", got)
	}
}
