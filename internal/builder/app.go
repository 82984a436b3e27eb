package builder

import (
	"github.com/shouni/go-meme-kit/internal/config"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config          *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、接続先など）。
	Options         config.GenerateOptions  // Optionsは、コマンドラインから渡された実行時の設定です（見出し、モデル名など）。
	Reader          remoteio.InputReader    // Readerは、ローカルやGCSのファイル読み込みに使用する入力元です。
	Writer          remoteio.OutputWriter   // Writerは、生成画像や承認済みミームを保存するための出力先です。
	RemoteIOFactory gcsfactory.Factory      // RemoteIOFactoryは、入出力クライアントを生成するファクトリです。
	aiClient        gemini.GenerativeModel  // aiClient はGeminiの通信に使う共通クライアント
	httpClient      httpkit.ClientInterface // httpClient は外部APIとの通信に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.ClientInterface,
	aiClient gemini.GenerativeModel,
	rioFactory gcsfactory.Factory,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
) AppContext {
	return AppContext{
		Config:          cfg,
		Options:         cfg.Options,
		aiClient:        aiClient,
		httpClient:      httpClient,
		RemoteIOFactory: rioFactory,
		Reader:          reader,
		Writer:          writer,
	}
}
