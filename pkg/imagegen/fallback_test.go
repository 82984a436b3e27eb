package imagegen

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

// fakeEngine は Engine の偽実装です。呼び出し回数と結果を固定できます。
type fakeEngine struct {
	result Result
	err    error
	calls  int
}

func (f *fakeEngine) Synthesize(_ context.Context, _ string) (Result, error) {
	f.calls++
	if f.err != nil {
		return Result{}, f.err
	}
	return f.result, nil
}

func TestFallbackSubstitutesGeminiWithoutKey(t *testing.T) {
	gemini := &fakeEngine{result: Result{Data: "data:image/png;base64,AAAA"}}
	openai := &fakeEngine{}
	f := NewFallbackSynthesizer(gemini, openai, false)

	res, used := f.SynthesizeWithFallback(context.Background(), "a cat", domain.ProviderOpenAI)

	if used != domain.ProviderGemini {
		t.Errorf("キーなしの OpenAI 要求は Gemini に補正されるべきですが %s でした", used)
	}
	if openai.calls != 0 {
		t.Error("OpenAI エンジンが呼ばれてはいけません")
	}
	if gemini.calls != 1 {
		t.Errorf("Gemini エンジンの呼び出し回数 = %d, 期待値 1", gemini.calls)
	}
	if res.Degraded {
		t.Error("プロバイダ置換は劣化として扱うべきではありません")
	}
}

func TestFallbackReportsRequestedProvider(t *testing.T) {
	gemini := &fakeEngine{result: Result{Data: "g"}}
	openai := &fakeEngine{result: Result{Data: "o", Degraded: true, Cause: errors.New("status 500")}}
	f := NewFallbackSynthesizer(gemini, openai, true)

	// 内部で劣化していても、報告されるプロバイダは要求どおりであることを確認します。
	res, used := f.SynthesizeWithFallback(context.Background(), "a dog", domain.ProviderOpenAI)
	if used != domain.ProviderOpenAI {
		t.Errorf("要求プロバイダが報告されるべきですが %s でした", used)
	}
	if !res.Degraded {
		t.Error("劣化フラグが結果に伝搬していません")
	}

	_, used = f.SynthesizeWithFallback(context.Background(), "a dog", domain.ProviderGemini)
	if used != domain.ProviderGemini {
		t.Errorf("Gemini 要求は Gemini と報告されるべきですが %s でした", used)
	}
}

func TestFallbackNeverRaisesMissingCredential(t *testing.T) {
	gemini := &fakeEngine{result: Result{Data: "g"}}
	openai := &fakeEngine{err: domain.ErrMissingCredential}
	f := NewFallbackSynthesizer(gemini, openai, false)

	res, used := f.SynthesizeWithFallback(context.Background(), "a bird", domain.ProviderOpenAI)
	if used != domain.ProviderGemini {
		t.Errorf("置換後のプロバイダ = %s, 期待値 %s", used, domain.ProviderGemini)
	}
	if res.Cause != nil && errors.Is(res.Cause, domain.ErrMissingCredential) {
		t.Error("ErrMissingCredential がラッパーの外に漏れています")
	}
}

func TestFallbackAbsorbsUnexpectedEngineError(t *testing.T) {
	// 構造上到達しないはずの分岐でも、契約どおり劣化結果に落ちることを確認します。
	openai := &fakeEngine{err: errors.New("unexpected")}
	f := NewFallbackSynthesizer(&fakeEngine{}, openai, true)

	res, used := f.SynthesizeWithFallback(context.Background(), "x", domain.ProviderOpenAI)
	if !res.Degraded {
		t.Error("想定外エラーは劣化結果に吸収されるべきです")
	}
	if used != domain.ProviderOpenAI {
		t.Errorf("報告プロバイダ = %s, 期待値 %s", used, domain.ProviderOpenAI)
	}
}
