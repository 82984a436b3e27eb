package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-meme-kit/internal/config"
	"github.com/shouni/go-meme-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// autopilotCmd は、一定間隔でバッチ生成とレビュー依頼を繰り返す自動運転モードなのだ。
var autopilotCmd = &cobra.Command{
	Use:   "autopilot",
	Short: "一定間隔でミーム生成を繰り返す自動運転モードなのだ。",
	Long: `同じ起点（参考リンク＋プロンプト）から周期的に新しいバッチを生成し続けるのだ。
Ctrl+C で自動運転を解除して停止できるのだよ。`,
	RunE: autopilotCommand,
}

func init() {
	autopilotCmd.Flags().DurationVar(&opts.AutopilotPeriod, "period", config.DefaultAutopilotPeriod, "自動運転の周回間隔なのだ。")
	autopilotCmd.Flags().BoolVar(&opts.ApproveAll, "approve-all", false, "レビューを省略して全件を即承認・保存するのだ。")
}

func autopilotCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 自動運転はプロンプトと参考リンクの両方が揃っていないと始められないのだ
	if opts.Prompt == "" || opts.Links == "" {
		return fmt.Errorf("自動運転には --prompt と --links の両方を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.GeminiModel = opts.AIModel
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("自動運転モードを起動するのだ！", "period", opts.AutopilotPeriod)

	err := pipeline.ExecuteAutopilot(ctx, cfg)
	if err != nil {
		return fmt.Errorf("自動運転の実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
