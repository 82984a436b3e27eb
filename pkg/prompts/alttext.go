package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

// AltTextKeywords は代替テキストに織り込むドメインキーワードの固定セットです。
const AltTextKeywords = "meme, humor, internet culture"

// AltTextMaxLength は代替テキストの目安となる最大文字数です。
const AltTextMaxLength = 150

// BuildAltTextPrompt は、1つの構成案から SEO 向け代替テキストを要求するプロンプトを組み立てます。
func BuildAltTextPrompt(c domain.Concept) string {
	var sb strings.Builder

	sb.WriteString("Write an SEO-friendly alt text for a meme image.\n")
	sb.WriteString(fmt.Sprintf("Top caption: %s\n", c.TopCaption))
	sb.WriteString(fmt.Sprintf("Bottom caption: %s\n", c.BottomCaption))
	sb.WriteString(fmt.Sprintf("Scene: %s\n\n", c.ImagePrompt))
	sb.WriteString("Rules:\n")
	sb.WriteString(fmt.Sprintf("- Under %d characters.\n", AltTextMaxLength))
	sb.WriteString("- No quotation marks, no hashtags.\n")
	sb.WriteString(fmt.Sprintf("- Reference both captions and include these keywords: %s.\n", AltTextKeywords))
	sb.WriteString("- Respond with the alt text only, nothing else.")

	return sb.String()
}

// FallbackAltText は生成失敗時の決定論的な代替テキストを組み立てます。
// 構成案自身のキャプションと画像プロンプトの抜粋だけから作るため、常に同じ入力で同じ結果になります。
func FallbackAltText(c domain.Concept) string {
	excerpt := truncateRunes(c.ImagePrompt, 60)
	text := fmt.Sprintf("Meme: %s %s - %s", c.TopCaption, c.BottomCaption, excerpt)
	return strings.TrimSpace(truncateRunes(text, AltTextMaxLength))
}

// truncateRunes はマルチバイト文字を壊さずに文字数上限で切り詰めます。
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
