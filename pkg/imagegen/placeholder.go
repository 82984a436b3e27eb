package imagegen

import (
	"encoding/base64"

	"github.com/shouni/go-meme-kit/pkg/domain"
)

// placeholderPNG は 1x1 の透過 PNG です。合成失敗時の固定プレースホルダとして使います。
const placeholderPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// PlaceholderDataURI はプレースホルダ画像を data URI として返します。
func PlaceholderDataURI() string {
	data, _ := base64.StdEncoding.DecodeString(placeholderPNG)
	return domain.DataURI("image/png", data)
}

// degradedResult は原因付きのプレースホルダ結果を組み立てる内部ヘルパーです。
func degradedResult(cause error) Result {
	return Result{
		Data:     PlaceholderDataURI(),
		Degraded: true,
		Cause:    cause,
	}
}
