package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-meme-kit/internal/config"
	"github.com/shouni/go-meme-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、AIによるミーム構成案と画像の生成からレビュー依頼までを実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "AIにミーム案5件と画像を生成させますなのだ。",
	Long: `見出しまたは参考リンク＋プロンプトを解析し、キャプションと画像を5件生成するのだ。
生成結果は画像ファイルとして保存され、レビュー依頼が送信されるのだよ。`,
	RunE: generateCommand,
}

func init() {
	generateCmd.Flags().BoolVar(&opts.ApproveAll, "approve-all", false, "レビューを省略して全件を即承認・保存するのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.Headline == "" && opts.Links == "" && opts.Prompt == "" {
		return fmt.Errorf("ソース（--headline または --links / --prompt）を指定してほしいのだ")
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("ミーム合成パイプラインを起動するのだ！",
		"text_model", cfg.GeminiModel,
		"image_model", cfg.GeminiImageModel,
		"output", opts.OutputImageDir)

	// 3. 更新した config を考慮しつつパイプラインを実行するのだ
	err := pipeline.ExecuteStudio(ctx, cfg)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}
