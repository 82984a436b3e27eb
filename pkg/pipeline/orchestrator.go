package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/shouni/go-meme-kit/pkg/domain"
	"github.com/shouni/go-meme-kit/pkg/imagegen"
	"github.com/shouni/go-meme-kit/pkg/prompts"
	"github.com/shouni/go-meme-kit/pkg/schedule"
)

// ConceptSource はコンセプト案のバッチを生成するインターフェースです。
type ConceptSource interface {
	Generate(ctx context.Context, req domain.Request, examples []domain.ApprovedExample) ([]domain.Concept, error)
}

// Describer はコンセプトから代替テキストを導出するインターフェースです。
// 失敗時は決定的フォールバックに落ちるため、エラーを返しません。
type Describer interface {
	Describe(ctx context.Context, c domain.Concept) string
}

// ExampleSource は承認済みのスタイル例を取得するインターフェースです。
// 取得失敗は空リストとして扱われるため、エラーを返しません。
type ExampleSource interface {
	Read(ctx context.Context, limit int) []domain.ApprovedExample
}

// BackendProbe はバックエンド設定が検証済みかどうかを答えるインターフェースです。
type BackendProbe interface {
	Verified() bool
}

// Orchestrator はコンセプト生成から画像合成までのバッチパイプラインを駆動します。
//
// バッチ生成と再生成はそれぞれシステム全体で同時に1件までです。
// 進行中の再実行要求はエラーまたは no-op として弾かれます。
type Orchestrator struct {
	concepts  ConceptSource
	describer Describer
	examples  ExampleSource
	probe     BackendProbe
	synth     imagegen.Synthesizer
	limiter   *rate.Limiter

	batchInFlight atomic.Bool
	regenInFlight atomic.Bool
}

// NewOrchestrator は Orchestrator を初期化します。
// interval は画像合成リクエスト間の最小間隔です。
func NewOrchestrator(concepts ConceptSource, describer Describer, examples ExampleSource, probe BackendProbe, synth imagegen.Synthesizer, interval time.Duration) *Orchestrator {
	return &Orchestrator{
		concepts:  concepts,
		describer: describer,
		examples:  examples,
		probe:     probe,
		synth:     synth,
		limiter:   rate.NewLimiter(rate.Every(interval), 2),
	}
}

// GenerateBatch はリクエストからアーティファクトのバッチを生成します。
//
// 返り値はコンセプトと同数・同順で、各要素は pending 状態で初期化されます。
// コンセプト生成の失敗はバッチ全体を中断しますが、画像合成の失敗は
// プレースホルダへの劣化として吸収され、バッチは必ず完走します。
func (o *Orchestrator) GenerateBatch(ctx context.Context, req domain.Request) ([]domain.Artifact, error) {
	if !o.probe.Verified() {
		return nil, fmt.Errorf("バッチを開始できません: %w", domain.ErrNotConfigured)
	}
	if !o.batchInFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrBatchInFlight
	}
	defer o.batchInFlight.Store(false)

	examples := o.examples.Read(ctx, prompts.MaxExamples)

	concepts, err := o.concepts.Generate(ctx, req, examples)
	if err != nil {
		return nil, fmt.Errorf("コンセプト生成に失敗しました: %w", err)
	}

	ratio := schedule.Estimate(examples)
	provs := schedule.Build(ratio, len(concepts))
	slog.InfoContext(ctx, "バッチ生成を開始します",
		"concepts", len(concepts), "gemini", ratio.Gemini, "openai", ratio.OpenAI)

	artifacts := make([]domain.Artifact, len(concepts))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, concept := range concepts {
		i, concept := i, concept
		eg.Go(func() error {
			if err := o.limiter.Wait(egCtx); err != nil {
				return err
			}

			requested := domain.ProviderGemini
			if i < len(provs) {
				requested = provs[i]
			}

			startTime := time.Now()
			res, used := o.synth.SynthesizeWithFallback(egCtx, concept.ImagePrompt, requested)
			altText := o.describer.Describe(egCtx, concept)

			logger := slog.With("index", i+1, "provider", used, "degraded", res.Degraded)
			logger.Info("アーティファクトを生成しました", "duration", time.Since(startTime).Round(time.Millisecond))

			artifacts[i] = domain.Artifact{
				ID:           uuid.NewString(),
				Concept:      concept,
				ImageData:    res.Data,
				AltText:      altText,
				Status:       domain.StatusPending,
				ProviderUsed: used,
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("バッチ生成が中断されました: %w", err)
	}
	return artifacts, nil
}

// Regenerate は単一アーティファクトの画像を同じコンセプトで作り直します。
//
// 直前に使われたプロバイダを優先して再割り当てし、状態は pending に戻ります。
// すでに再生成が進行中の場合は何もせず、元のアーティファクトをそのまま返します。
func (o *Orchestrator) Regenerate(ctx context.Context, art domain.Artifact) (domain.Artifact, bool) {
	if !o.regenInFlight.CompareAndSwap(false, true) {
		slog.InfoContext(ctx, "再生成が進行中のため要求をスキップします", "id", art.ID)
		return art, false
	}
	defer o.regenInFlight.Store(false)

	if err := o.limiter.Wait(ctx); err != nil {
		slog.WarnContext(ctx, "再生成がキャンセルされました", "id", art.ID, "error", err)
		return art, false
	}

	res, used := o.synth.SynthesizeWithFallback(ctx, art.ImagePrompt, art.ProviderUsed)

	art.ImageData = res.Data
	art.AltText = o.describer.Describe(ctx, art.Concept)
	art.Status = domain.StatusPending
	art.ProviderUsed = used
	slog.InfoContext(ctx, "アーティファクトを再生成しました", "id", art.ID, "provider", used, "degraded", res.Degraded)
	return art, true
}
