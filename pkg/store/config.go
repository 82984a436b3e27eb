// Package store は承認済みミームの永続化（画像オブジェクトとメタデータ行）を担当します。
package store

// Config はストアのバックエンド接続設定を表す値オブジェクトです。
type Config struct {
	// DatabaseURL はメタデータ用 PostgreSQL の接続文字列です。
	DatabaseURL string
	// Bucket は画像オブジェクトの保存先プレフィックス（例: gs://memes/approved）です。
	Bucket string
}

// Verified は保存に必要な設定がすべて揃っているかを返します。
// パイプラインはこれが false の間、バッチ生成も承認保存も受け付けません。
func (c Config) Verified() bool {
	return c.DatabaseURL != "" && c.Bucket != ""
}
