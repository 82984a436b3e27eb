package domain

import (
	"errors"
	"fmt"
)

// バッチ実行前にブロックされる構成・排他系のエラー群です。
var (
	// ErrNotConfigured はバックエンド未検証のまま生成を要求した場合に返します。ネットワーク呼び出し前に弾きます。
	ErrNotConfigured = errors.New("バックエンドが未設定です。接続設定を確認してください")
	// ErrGenerationEmpty は構成案生成が0件を返した場合のエラーです。バッチ全体を中断します。
	ErrGenerationEmpty = errors.New("構成案が1件も生成されませんでした")
	// ErrMissingCredential はクレデンシャルなしで OpenAI 系シンセサイザを直接呼んだ場合の構造的誤用エラーです。
	// フォールバックラッパー経由の通常経路では発生しません。
	ErrMissingCredential = errors.New("OpenAI API キーが設定されていません")
	// ErrBatchInFlight は前のバッチが完了する前に新しいバッチを要求した場合に返します。キューイングはしません。
	ErrBatchInFlight = errors.New("前の生成バッチがまだ実行中です")
)

// UpstreamKind は生成テキストサービス側の失敗分類です。
type UpstreamKind int

const (
	// UpstreamQuota はクォータ超過・レート制限です。
	UpstreamQuota UpstreamKind = iota
	// UpstreamRejected はコンテンツ拒否（セーフティブロック等）です。
	UpstreamRejected
	// UpstreamUnavailable は上記以外の失敗（接続不能・不正レスポンス等）です。
	UpstreamUnavailable
)

// UpstreamError は生成テキストサービスの失敗を分類付きで伝搬します。
type UpstreamError struct {
	Kind UpstreamKind
	Err  error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case UpstreamQuota:
		return fmt.Sprintf("生成サービスのクォータを超過しました: %v", e.Err)
	case UpstreamRejected:
		return fmt.Sprintf("生成サービスがリクエストを拒否しました: %v", e.Err)
	default:
		return fmt.Sprintf("生成サービスが利用できません: %v", e.Err)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StoreErrorKind は承認ストアの失敗分類です。
type StoreErrorKind int

const (
	// StorageUnavailable は画像アップロード段階の失敗です。メタデータ書き込みは実行されません。
	StorageUnavailable StoreErrorKind = iota
	// BucketNotFound はアップロード先が存在しない場合です。
	BucketNotFound
	// MetadataWriteFailed はアップロード成功後のメタデータ書き込み失敗です。
	// 承認操作全体の失敗として扱い、Artifact は pending に戻します（孤児画像は許容）。
	MetadataWriteFailed
)

// StoreError は承認ストアの失敗を分類付きで表します。
// PolicyDenied は認可・ポリシー拒否による失敗であることを示すサブ種別です。
type StoreError struct {
	Kind         StoreErrorKind
	PolicyDenied bool
	Err          error
}

func (e *StoreError) Error() string {
	var base string
	switch e.Kind {
	case BucketNotFound:
		base = "保存先バケットが見つかりません"
	case MetadataWriteFailed:
		base = "メタデータの書き込みに失敗しました"
	default:
		base = "ストレージが利用できません"
	}
	if e.PolicyDenied {
		base += "（セキュリティポリシーにより拒否）"
	}
	return fmt.Sprintf("%s: %v", base, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// FriendlyMessage はエラー分類をオペレーター向けの一文に変換します。
// 1回の失敗につき1メッセージだけを表示する方針です。
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrNotConfigured):
		return "バックエンドが未設定です。接続テストを実行してから再試行してください。"
	case errors.Is(err, ErrGenerationEmpty):
		return "ミーム案を生成できませんでした。お題を変えて再試行してください。"
	case errors.Is(err, ErrBatchInFlight):
		return "前回の生成がまだ実行中です。完了を待ってください。"
	case errors.Is(err, ErrMissingCredential):
		return "OpenAI API キーが設定されていません。"
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.Kind {
		case UpstreamQuota:
			return "AI サービスの利用上限に達しました。しばらく待ってから再試行してください。"
		case UpstreamRejected:
			return "AI サービスがこのお題を拒否しました。表現を変えて再試行してください。"
		default:
			return "AI サービスとの通信に失敗しました。再試行してください。"
		}
	}

	var store *StoreError
	if errors.As(err, &store) {
		if store.PolicyDenied {
			return "保存がセキュリティポリシーにより拒否されました。ストアの権限設定を確認してください。"
		}
		switch store.Kind {
		case BucketNotFound:
			return "保存先バケットが見つかりません。ストア設定を確認してください。"
		case MetadataWriteFailed:
			return "メタデータの保存に失敗しました。承認は取り消されています。"
		default:
			return "画像の保存に失敗しました。承認は取り消されています。"
		}
	}

	return "処理に失敗しました: " + err.Error()
}
