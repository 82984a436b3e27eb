package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Provider は画像生成バックエンドを示す2値のタグです。
// スケジューラとフォールバックの網羅性チェックを保つため、自由文字列ではなく必ずこの型を使います。
type Provider string

const (
	// ProviderGemini は Gemini 系の画像生成バックエンド（プロバイダA）です。
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI は OpenAI 互換の画像生成エンドポイント（プロバイダB）です。
	ProviderOpenAI Provider = "openai"
)

// ParseProvider は保存済みの文字列を Provider に変換します。
// 未知の値は安全側に倒して ProviderGemini を返します。
func ParseProvider(s string) Provider {
	if Provider(strings.ToLower(strings.TrimSpace(s))) == ProviderOpenAI {
		return ProviderOpenAI
	}
	return ProviderGemini
}

// Status はレビュー対象ミームの承認状態です。
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Concept は AI モデルが返すミームの構成案（上下キャプションと画像プロンプト）です。
// ConceptGenerator だけが生成し、生成後は不変として扱います。
type Concept struct {
	TopCaption    string `json:"top_caption"`
	BottomCaption string `json:"bottom_caption"`
	ImagePrompt   string `json:"image_prompt"`
}

// Artifact はレビュー可能な1枚のミームです。
// Concept に生成画像・代替テキスト・承認状態・生成元プロバイダを加えたものなのだ。
// ID は生成時に採番され、再利用されません。
type Artifact struct {
	ID string
	Concept
	ImageData    string // data URI 形式の画像データ
	AltText      string
	Status       Status
	ProviderUsed Provider
}

// ApprovedExample は承認済みミームのうち、次回以降のプロンプト構築に使う読み取り専用の射影です。
// ストアから新しい順で取得されます。
type ApprovedExample struct {
	TopCaption    string
	BottomCaption string
	ImagePrompt   string
	ProviderUsed  Provider
}

// Request は生成バッチの起点となるオペレーター入力です。
// Headline 単独、または Links + Prompt の組み合わせのどちらかを使います。
type Request struct {
	Headline string
	Links    string
	Prompt   string
}

// Subject は Request の中身をログやプロンプトで扱いやすい一文にまとめます。
func (r Request) Subject() string {
	if r.Headline != "" {
		return r.Headline
	}
	return strings.TrimSpace(r.Prompt + " " + r.Links)
}

// DataURI はバイナリ画像を data URI 文字列に変換します。
func DataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURI は data URI から MIME タイプと生のバイト列を復元します。
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("data URI 形式ではありません")
	}
	mimeType, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, fmt.Errorf("base64 エンコードされた data URI ではありません")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data URI のデコードに失敗しました: %w", err)
	}
	return mimeType, data, nil
}

// ImageFormat は data URI の MIME タイプから保存用の拡張子を導きます。
func ImageFormat(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	default:
		return "png"
	}
}

// Example は承認済み Artifact をストア保存用の射影に変換します。
func (a *Artifact) Example() ApprovedExample {
	return ApprovedExample{
		TopCaption:    a.TopCaption,
		BottomCaption: a.BottomCaption,
		ImagePrompt:   a.ImagePrompt,
		ProviderUsed:  a.ProviderUsed,
	}
}
