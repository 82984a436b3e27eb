// Package notify はレビュー依頼の外部通知を担当します。
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

// Notifier はレビュー待ちミームの一覧をレビュアーに届けるインターフェースです。
// リトライは定義しません。失敗は呼び出し側にそのまま返します。
type Notifier interface {
	Notify(ctx context.Context, recipient, subject string, artifacts []domain.Artifact) error
}

// reviewItem は Webhook ペイロード内の1ミーム分の要約です。
// 画像データ本体は重いため送らず、キャプションと状態だけを届けます。
type reviewItem struct {
	ID            string `json:"id"`
	TopCaption    string `json:"top_caption"`
	BottomCaption string `json:"bottom_caption"`
	AltText       string `json:"alt_text"`
	Provider      string `json:"provider"`
	Status        string `json:"status"`
}

type reviewPayload struct {
	Recipient string       `json:"recipient"`
	Subject   string       `json:"subject"`
	Items     []reviewItem `json:"items"`
}

// WebhookNotifier はレビュー依頼を JSON で Webhook エンドポイントに POST します。
type WebhookNotifier struct {
	endpoint   string
	httpClient *http.Client
}

// NewWebhookNotifier は WebhookNotifier を初期化します。
func NewWebhookNotifier(endpoint string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Notify はレビュー依頼を送信します。エンドポイント未設定の場合は何もしません。
func (n *WebhookNotifier) Notify(ctx context.Context, recipient, subject string, artifacts []domain.Artifact) error {
	if n.endpoint == "" {
		slog.InfoContext(ctx, "Webhook が未設定のためレビュー通知をスキップします")
		return nil
	}

	payload := reviewPayload{Recipient: recipient, Subject: subject, Items: make([]reviewItem, 0, len(artifacts))}
	for _, art := range artifacts {
		payload.Items = append(payload.Items, reviewItem{
			ID:            art.ID,
			TopCaption:    art.TopCaption,
			BottomCaption: art.BottomCaption,
			AltText:       art.AltText,
			Provider:      string(art.ProviderUsed),
			Status:        string(art.Status),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("レビュー通知のエンコードに失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("レビュー通知リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("レビュー通知の送信に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("レビュー通知が拒否されました: status %d", resp.StatusCode)
	}

	slog.InfoContext(ctx, "レビュー通知を送信しました", "items", len(payload.Items))
	return nil
}
