// Package prompts は、ミーム生成用の AI プロンプトを構築します。
package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

// MaxExamples はプロンプトに埋め込む承認済みスタイル例の上限です。
const MaxExamples = 10

// memePersona はミーム職人としての役割定義です。
const memePersona = `You are a sharp-witted internet meme writer. You create short, punchy memes
that land in one read. Captions are conversational, never explain the joke, and
never exceed roughly 80 characters combined.`

// conceptSchemaInstruction は構造化出力の契約です。
// JSON 以外のテキストを混ぜない指示まで含めて、パース失敗を減らします。
const conceptSchemaInstruction = `Respond with ONLY a valid JSON object, no other text, matching exactly:
{
  "concepts": [
    {
      "top_caption": "text shown at the top of the image",
      "bottom_caption": "text shown at the bottom of the image",
      "image_prompt": "a vivid scene description for an image generator, no text in the scene"
    }
  ]
}
The "concepts" array must contain exactly %d objects. Every field must be non-empty.`

// BuildConceptPrompt は、リクエストと承認済みスタイル例からひとつのプロンプトを組み立てます。
// 例は新しい順で最大 MaxExamples 件まで箇条書きにしてトーンを誘導します。
func BuildConceptPrompt(req domain.Request, examples []domain.ApprovedExample, batchSize int) string {
	var sb strings.Builder

	sb.WriteString(memePersona)
	sb.WriteString("\n\n")

	if len(examples) > 0 {
		sb.WriteString("### STYLE EXAMPLES (previously approved memes, newest first) ###\n")
		sb.WriteString("Match the tone and humor of these examples:\n")
		for i, ex := range examples {
			if i >= MaxExamples {
				break
			}
			sb.WriteString(fmt.Sprintf("- top: %q / bottom: %q / scene: %s\n",
				ex.TopCaption, ex.BottomCaption, ex.ImagePrompt))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("### TASK ###\n")
	if req.Headline != "" {
		sb.WriteString(fmt.Sprintf("Create meme concepts about this headline: %s\n", req.Headline))
	} else {
		sb.WriteString(fmt.Sprintf("Create meme concepts inspired by these links: %s\n", req.Links))
		if req.Prompt != "" {
			sb.WriteString(fmt.Sprintf("Additional direction: %s\n", req.Prompt))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(conceptSchemaInstruction, batchSize))

	return sb.String()
}
