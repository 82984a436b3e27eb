package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-meme-kit/pkg/domain"
	"github.com/shouni/go-meme-kit/pkg/prompts"
)

func TestDescribeReturnsSanitizedText(t *testing.T) {
	model := &fakeTextModel{response: `"A confused cat staring at a laptop #meme"`}
	g := NewAltTextGenerator(model, "test-model")

	got := g.Describe(context.Background(), domain.Concept{TopCaption: "t", BottomCaption: "b", ImagePrompt: "p"})

	if strings.Contains(got, `"`) {
		t.Errorf("引用符が除去されていません: %s", got)
	}
	if strings.Contains(got, "#") {
		t.Errorf("ハッシュタグが除去されていません: %s", got)
	}
}

func TestDescribeFallsBackOnError(t *testing.T) {
	c := domain.Concept{TopCaption: "上", BottomCaption: "下", ImagePrompt: "scene"}
	g := NewAltTextGenerator(&fakeTextModel{err: errors.New("unavailable")}, "test-model")

	got := g.Describe(context.Background(), c)
	if got != prompts.FallbackAltText(c) {
		t.Errorf("失敗時は決定論的フォールバックを返すべきです: %s", got)
	}
}

func TestDescribeFallsBackOnEmptyResponse(t *testing.T) {
	c := domain.Concept{TopCaption: "上", BottomCaption: "下", ImagePrompt: "scene"}
	g := NewAltTextGenerator(&fakeTextModel{response: "  \n "}, "test-model")

	if got := g.Describe(context.Background(), c); got != prompts.FallbackAltText(c) {
		t.Errorf("空レスポンス時はフォールバックを返すべきです: %s", got)
	}
}

func TestDescribeTruncatesLongText(t *testing.T) {
	g := NewAltTextGenerator(&fakeTextModel{response: strings.Repeat("a", 400)}, "test-model")

	got := g.Describe(context.Background(), domain.Concept{TopCaption: "t", BottomCaption: "b", ImagePrompt: "p"})
	if len([]rune(got)) > prompts.AltTextMaxLength {
		t.Errorf("代替テキストが上限を超えています: %d 文字", len([]rune(got)))
	}
}
