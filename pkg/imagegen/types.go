// Package imagegen は、2つの画像生成バックエンドをひとつの契約の下にまとめます。
//
// 各アダプターは「決して呼び出し元を落とさない」方針で動き、失敗はプレースホルダ画像への
// 置き換え（degraded）として結果型に記録します。1枚の失敗が5枚のバッチを潰さないためです。
package imagegen

import (
	"context"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

// Result は1回の画像合成の結果です。
// Degraded が true のとき、Data はプレースホルダであり Cause に原因が入ります。
// ログを読まなくても劣化の有無をテストで検証できるように、エラーを握り潰さず結果に残します。
type Result struct {
	Data     string // data URI 形式の画像
	Degraded bool
	Cause    error
}

// Engine は単一バックエンドの合成エンジンです。
// エラーを返すのは構造的誤用（クレデンシャル欠如での直接呼び出し）の場合だけです。
type Engine interface {
	Synthesize(ctx context.Context, prompt string) (Result, error)
}

// Synthesizer はプロバイダ指定付きの合成契約です。オーケストレーターはこれだけを見ます。
type Synthesizer interface {
	SynthesizeWithFallback(ctx context.Context, prompt string, requested domain.Provider) (Result, domain.Provider)
}
