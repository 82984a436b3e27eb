package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shouni/go-meme-kit/internal/config"
	"github.com/shouni/go-meme-kit/pkg/domain"
	"github.com/shouni/go-meme-kit/pkg/session"
)

// AutopilotRunner は、一定間隔でバッチ生成とレビュー依頼を繰り返す自動運転の実体なのだ。
type AutopilotRunner struct {
	session *session.Session
	studio  *StudioRunner
	opts    config.GenerateOptions
}

// NewAutopilotRunner は、AutopilotRunnerの新しいインスタンスを生成して返すのだ。
func NewAutopilotRunner(sess *session.Session, studio *StudioRunner, opts config.GenerateOptions) *AutopilotRunner {
	return &AutopilotRunner{
		session: sess,
		studio:  studio,
		opts:    opts,
	}
}

// Run は、自動運転を有効化してから最初の1周を即座に実行し、周期的に次のバッチを回し続けるのだ。
// 有効化にはプロンプトと参考リンクの両方が必要なのだ。
// context のキャンセル（Ctrl+C など）で自動運転を解除して停止するのだ。
func (ar *AutopilotRunner) Run(ctx context.Context) error {
	if err := ar.session.ToggleAutopilot(true, ar.opts.Prompt, ar.opts.Links); err != nil {
		return err
	}

	period := ar.opts.AutopilotPeriod
	if period <= 0 {
		period = config.DefaultAutopilotPeriod
	}
	slog.Info("自動運転を開始したのだ", "period", period)

	// 最初の1周は待たずに回すのだ
	ar.runCycle(ctx)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ar.session.ToggleAutopilot(false, "", "")
			slog.Info("自動運転を停止したのだ")
			return nil
		case <-ticker.C:
			ar.runCycle(ctx)
		}
	}
}

// runCycle は1周分のバッチ生成を実行するのだ。失敗しても記録だけして次の周回に進むのだ。
func (ar *AutopilotRunner) runCycle(ctx context.Context) {
	if !ar.session.AutopilotEnabled() {
		return
	}

	err := ar.studio.Run(ctx)
	if err == nil {
		return
	}

	// 進行中バッチとの競合は次の周回で解消されるので、静かにスキップするのだ
	if errors.Is(err, domain.ErrBatchInFlight) {
		slog.Info("前の周回がまだ実行中のためスキップするのだ")
		return
	}
	slog.Error("自動運転の周回が失敗したのだ。次の周回で再試行するのだ", "reason", domain.FriendlyMessage(err))
}
