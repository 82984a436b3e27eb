package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

// DefaultOpenAIEndpoint は OpenAI 互換の画像生成エンドポイントです。
const DefaultOpenAIEndpoint = "https://api.openai.com/v1/images/generations"

// openaiImageSize はミーム用の固定出力サイズ（正方形）です。
const openaiImageSize = "1024x1024"

// OpenAISynthesizer は OpenAI 互換エンドポイント（プロバイダB）のアダプターです。
// クレデンシャルがある限りエラーを返さず、失敗はプレースホルダへの劣化として吸収します。
type OpenAISynthesizer struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewOpenAISynthesizer は OpenAISynthesizer を初期化します。
// endpoint が空の場合はデフォルトエンドポイントを使います。
func NewOpenAISynthesizer(apiKey, model, endpoint string, timeout time.Duration) *OpenAISynthesizer {
	if endpoint == "" {
		endpoint = DefaultOpenAIEndpoint
	}
	return &OpenAISynthesizer{
		apiKey:     apiKey,
		model:      model,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// HasCredential は API キーが設定されているかを返します。
// フォールバックラッパーはこれを見てプロバイダ置換を判断します。
func (s *OpenAISynthesizer) HasCredential() bool {
	return s.apiKey != ""
}

// Synthesize は1枚の正方形画像を inline base64 で要求します。
// クレデンシャルなしで直接呼ばれた場合のみ ErrMissingCredential を返します（構造的誤用）。
// それ以外の失敗はすべてプレースホルダに劣化させ、err は nil のままです。
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, prompt string) (Result, error) {
	if !s.HasCredential() {
		return Result{}, domain.ErrMissingCredential
	}

	requestBody := map[string]any{
		"model":           s.model,
		"prompt":          prompt,
		"n":               1,
		"size":            openaiImageSize,
		"response_format": "b64_json",
	}
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return degradedResult(fmt.Errorf("リクエストのエンコードに失敗しました: %w", err)), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return degradedResult(fmt.Errorf("リクエストの作成に失敗しました: %w", err)), nil
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "OpenAI 画像リクエストに失敗したためプレースホルダを使用します", "error", err)
		return degradedResult(err), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		cause := s.describeFailure(ctx, resp)
		return degradedResult(cause), nil
	}

	var imageResp struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&imageResp); err != nil {
		slog.WarnContext(ctx, "OpenAI レスポンスのデコードに失敗したためプレースホルダを使用します", "error", err)
		return degradedResult(err), nil
	}
	if len(imageResp.Data) == 0 || imageResp.Data[0].B64JSON == "" {
		cause := fmt.Errorf("レスポンスに画像が含まれていません")
		slog.WarnContext(ctx, "OpenAI レスポンスが空のためプレースホルダを使用します")
		return degradedResult(cause), nil
	}

	data, err := base64.StdEncoding.DecodeString(imageResp.Data[0].B64JSON)
	if err != nil {
		slog.WarnContext(ctx, "OpenAI 画像の base64 デコードに失敗したためプレースホルダを使用します", "error", err)
		return degradedResult(err), nil
	}

	return Result{Data: domain.DataURI("image/png", data)}, nil
}

// describeFailure はエラーレスポンスのボディから人間可読なメッセージを取り出します。
// パースできない場合は「status N」の汎用メッセージに落とします。
// 課金上限のメッセージはバッチを落とさず継続しますが、オペレーターへの可視性のため
// 通常より高いレベルでログに残します。
func (s *OpenAISynthesizer) describeFailure(ctx context.Context, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := fmt.Sprintf("status %d", resp.StatusCode)
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	if isBillingLimit(message) {
		slog.ErrorContext(ctx, "OpenAI の課金上限に達しています。プレースホルダで継続します", "message", message)
	} else {
		slog.WarnContext(ctx, "OpenAI 画像生成がエラーを返したためプレースホルダを使用します",
			"status", resp.StatusCode, "message", message)
	}

	return fmt.Errorf("OpenAI 画像生成に失敗しました: %s", message)
}

// isBillingLimit は課金上限系のメッセージを検出します。
func isBillingLimit(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "billing") && strings.Contains(lower, "limit")
}
