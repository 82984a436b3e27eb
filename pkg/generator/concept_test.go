package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

// fakeTextModel は TextModel の偽実装です。返すテキストとエラーを固定できます。
type fakeTextModel struct {
	response string
	err      error
	calls    int
	lastLine string
}

func (f *fakeTextModel) Generate(_ context.Context, prompt, _ string) (string, error) {
	f.calls++
	f.lastLine = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const validConceptsJSON = `{
	"concepts": [
		{"top_caption": "t1", "bottom_caption": "b1", "image_prompt": "p1"},
		{"top_caption": "t2", "bottom_caption": "b2", "image_prompt": "p2"},
		{"top_caption": "t3", "bottom_caption": "b3", "image_prompt": "p3"},
		{"top_caption": "t4", "bottom_caption": "b4", "image_prompt": "p4"},
		{"top_caption": "t5", "bottom_caption": "b5", "image_prompt": "p5"}
	]
}`

func TestGenerateParsesFencedJSON(t *testing.T) {
	model := &fakeTextModel{response: "```json\n" + validConceptsJSON + "\n```"}
	g := NewConceptGenerator(model, "test-model")

	concepts, err := g.Generate(context.Background(), domain.Request{Headline: "x"}, nil)
	if err != nil {
		t.Fatalf("正常なレスポンスでエラーが発生しました: %v", err)
	}
	if len(concepts) != BatchSize {
		t.Fatalf("構成案の件数 = %d, 期待値 %d", len(concepts), BatchSize)
	}
	if concepts[0].TopCaption != "t1" || concepts[4].ImagePrompt != "p5" {
		t.Errorf("構成案の順序が入力と一致しません: %+v", concepts)
	}
	if model.calls != 1 {
		t.Errorf("外部呼び出しは1回であるべきですが %d 回でした", model.calls)
	}
}

func TestGenerateEmptyConceptsFails(t *testing.T) {
	model := &fakeTextModel{response: `{"concepts": []}`}
	g := NewConceptGenerator(model, "test-model")

	_, err := g.Generate(context.Background(), domain.Request{Headline: "x"}, nil)
	if !errors.Is(err, domain.ErrGenerationEmpty) {
		t.Errorf("0件の場合は ErrGenerationEmpty を返すべきですが %v でした", err)
	}
}

func TestGenerateClassifiesUpstreamErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.UpstreamKind
	}{
		{"クォータ超過", errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED quota exceeded"), domain.UpstreamQuota},
		{"セーフティ拒否", errors.New("candidate was blocked due to safety"), domain.UpstreamRejected},
		{"接続失敗", errors.New("dial tcp: connection refused"), domain.UpstreamUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewConceptGenerator(&fakeTextModel{err: tc.err}, "test-model")
			_, err := g.Generate(context.Background(), domain.Request{Headline: "x"}, nil)

			var upstream *domain.UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("UpstreamError に分類されていません: %v", err)
			}
			if upstream.Kind != tc.want {
				t.Errorf("分類 = %d, 期待値 %d", upstream.Kind, tc.want)
			}
		})
	}
}

func TestGenerateMalformedJSONIsUnavailable(t *testing.T) {
	g := NewConceptGenerator(&fakeTextModel{response: "ここにJSONはないのだ"}, "test-model")

	_, err := g.Generate(context.Background(), domain.Request{Headline: "x"}, nil)
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) || upstream.Kind != domain.UpstreamUnavailable {
		t.Errorf("不正レスポンスは UpstreamUnavailable に分類すべきですが %v でした", err)
	}
}

func TestGenerateRejectsEmptyFields(t *testing.T) {
	g := NewConceptGenerator(&fakeTextModel{
		response: `{"concepts": [{"top_caption": "", "bottom_caption": "b", "image_prompt": "p"}]}`,
	}, "test-model")

	if _, err := g.Generate(context.Background(), domain.Request{Headline: "x"}, nil); err == nil {
		t.Error("空フィールドを含む構成案がエラーになりませんでした")
	}
}

func TestGenerateRejectsShortBatch(t *testing.T) {
	g := NewConceptGenerator(&fakeTextModel{
		response: `{"concepts": [
			{"top_caption": "t1", "bottom_caption": "b1", "image_prompt": "p1"},
			{"top_caption": "t2", "bottom_caption": "b2", "image_prompt": "p2"},
			{"top_caption": "t3", "bottom_caption": "b3", "image_prompt": "p3"}
		]}`,
	}, "test-model")

	concepts, err := g.Generate(context.Background(), domain.Request{Headline: "x"}, nil)
	if concepts != nil {
		t.Errorf("件数不足のバッチを返してはいけないのですが %d 件返されました", len(concepts))
	}
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) || upstream.Kind != domain.UpstreamUnavailable {
		t.Errorf("件数不一致は UpstreamUnavailable に分類すべきですが %v でした", err)
	}
}

func TestGenerateEmbedsExamplesInPrompt(t *testing.T) {
	model := &fakeTextModel{response: validConceptsJSON}
	g := NewConceptGenerator(model, "test-model")

	examples := []domain.ApprovedExample{{TopCaption: "過去の傑作", BottomCaption: "b", ImagePrompt: "p"}}
	if _, err := g.Generate(context.Background(), domain.Request{Headline: "x"}, examples); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if !strings.Contains(model.lastLine, "過去の傑作") {
		t.Error("スタイル例がプロンプトに埋め込まれていません")
	}
}
