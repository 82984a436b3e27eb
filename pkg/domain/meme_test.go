package domain

import (
	"bytes"
	"testing"
)

func TestDataURIRoundTrip(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}
	uri := DataURI("image/png", raw)

	mimeType, decoded, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("正常な data URI でエラーが発生しました: %v", err)
	}
	if mimeType != "image/png" {
		t.Errorf("期待値 'image/png', 実際の値 '%s'", mimeType)
	}
	if !bytes.Equal(decoded, raw) {
		t.Errorf("復元されたバイト列が元データと一致しません")
	}
}

func TestDecodeDataURIRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		uri  string
	}{
		{"スキームなし", "image/png;base64,AAAA"},
		{"base64マーカーなし", "data:image/png,AAAA"},
		{"不正なbase64", "data:image/png;base64,@@@@"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := DecodeDataURI(tc.uri); err == nil {
				t.Errorf("不正な入力 '%s' がエラーになりませんでした", tc.uri)
			}
		})
	}
}

func TestParseProvider(t *testing.T) {
	cases := []struct {
		input string
		want  Provider
	}{
		{"openai", ProviderOpenAI},
		{" OpenAI ", ProviderOpenAI},
		{"gemini", ProviderGemini},
		{"", ProviderGemini},
		{"unknown-provider", ProviderGemini},
	}

	for _, tc := range cases {
		if got := ParseProvider(tc.input); got != tc.want {
			t.Errorf("ParseProvider(%q) = %q, 期待値 %q", tc.input, got, tc.want)
		}
	}
}

func TestImageFormat(t *testing.T) {
	if got := ImageFormat("image/jpeg"); got != "jpg" {
		t.Errorf("期待値 'jpg', 実際の値 '%s'", got)
	}
	if got := ImageFormat("image/png"); got != "png" {
		t.Errorf("期待値 'png', 実際の値 '%s'", got)
	}
	if got := ImageFormat("application/octet-stream"); got != "png" {
		t.Errorf("未知の MIME タイプは png に倒すべきですが '%s' でした", got)
	}
}

func TestRequestSubject(t *testing.T) {
	headline := Request{Headline: "新製品発表"}
	if headline.Subject() != "新製品発表" {
		t.Errorf("ヘッドライン付きリクエストの Subject が一致しません: %s", headline.Subject())
	}

	inspiration := Request{Links: "https://example.com", Prompt: "猫の気持ち"}
	if inspiration.Subject() != "猫の気持ち https://example.com" {
		t.Errorf("インスピレーション型リクエストの Subject が一致しません: %s", inspiration.Subject())
	}
}

func TestArtifactExample(t *testing.T) {
	a := &Artifact{
		ID: "abc",
		Concept: Concept{
			TopCaption:    "上",
			BottomCaption: "下",
			ImagePrompt:   "a surprised cat",
		},
		Status:       StatusApproved,
		ProviderUsed: ProviderOpenAI,
	}

	ex := a.Example()
	if ex.TopCaption != "上" || ex.BottomCaption != "下" || ex.ImagePrompt != "a surprised cat" {
		t.Errorf("射影のキャプションが一致しません: %+v", ex)
	}
	if ex.ProviderUsed != ProviderOpenAI {
		t.Errorf("射影のプロバイダが一致しません: %s", ex.ProviderUsed)
	}
}
