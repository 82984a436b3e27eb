package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-meme-kit/internal/config"

	"github.com/spf13/cobra"
)

// opts は、コマンドラインフラグで上書きされる実行時パラメータなのだ。
var opts config.GenerateOptions

// rootCmd は、ミーム合成スタジオのエントリポイントなのだ。
var rootCmd = &cobra.Command{
	Use:               "go-meme-kit",
	Short:             "複数の画像生成モデルを束ねるミーム合成スタジオなのだ。",
	PersistentPreRunE: preRunAppE,
	SilenceUsage:      true,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVar(&opts.Headline, "headline", "", "ミームの起点となるニュース見出しなのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Links, "links", "", "インスピレーション用の参考リンク（カンマ区切り）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Prompt, "prompt", "", "自由入力のインスピレーションプロンプトなのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputImageDir, "output-image-dir", "i", config.DefaultLocalImageDir, "生成された画像を保存するディレクトリ（ローカル or gs://...）なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", config.DefaultModel, "コンセプト生成に使う Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "画像生成に使う Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(generateCmd, autopilotCmd)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
// Ctrl+C での停止は context のキャンセルとして全パイプラインに伝わるのだ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
