// Package session はレビュー中のミームバッチの状態（承認・却下・再生成・通知）を管理します。
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shouni/go-meme-kit/pkg/domain"
	"github.com/shouni/go-meme-kit/pkg/notify"
)

// ErrUnknownArtifact は指定 ID のミームが現在のバッチに存在しないことを示します。
var ErrUnknownArtifact = errors.New("指定されたミームは現在のバッチに存在しません")

// ErrAutopilotNotReady は自動運転を開始できる前提が揃っていないことを示します。
var ErrAutopilotNotReady = errors.New("自動運転には検証済みバックエンドとプロンプト・参考リンクの両方が必要です")

// BatchGenerator はバッチ生成と単体再生成を提供するインターフェースです。
type BatchGenerator interface {
	GenerateBatch(ctx context.Context, req domain.Request) ([]domain.Artifact, error)
	Regenerate(ctx context.Context, art domain.Artifact) (domain.Artifact, bool)
}

// ArtifactStore は承認済みミームの永続化を提供するインターフェースです。
type ArtifactStore interface {
	Write(ctx context.Context, art *domain.Artifact) error
}

// BackendProbe はバックエンド設定が検証済みかどうかを答えるインターフェースです。
type BackendProbe interface {
	Verified() bool
}

// Session は1つのレビューセッションを表します。
//
// バッチの置き換えは生成が成功したときだけ行われ、失敗時は直前のバッチが
// そのまま残ります。すべての操作はミューテックスで直列化されます。
type Session struct {
	mu          sync.Mutex
	artifacts   []domain.Artifact
	lastRequest domain.Request
	autopilot   bool

	gen       BatchGenerator
	store     ArtifactStore
	notifier  notify.Notifier
	probe     BackendProbe
	recipient string
}

// New は Session を初期化します。recipient はレビュー通知の宛先です。
func New(gen BatchGenerator, store ArtifactStore, notifier notify.Notifier, probe BackendProbe, recipient string) *Session {
	return &Session{gen: gen, store: store, notifier: notifier, probe: probe, recipient: recipient}
}

// GenerateFromHeadline はニュース見出しを起点に新しいバッチを生成します。
func (s *Session) GenerateFromHeadline(ctx context.Context, headline string) error {
	return s.generate(ctx, domain.Request{Headline: headline})
}

// GenerateFromInspiration は参考リンクと自由プロンプトを起点に新しいバッチを生成します。
func (s *Session) GenerateFromInspiration(ctx context.Context, links, prompt string) error {
	return s.generate(ctx, domain.Request{Links: links, Prompt: prompt})
}

func (s *Session) generate(ctx context.Context, req domain.Request) error {
	artifacts, err := s.gen.GenerateBatch(ctx, req)
	if err != nil {
		// 失敗時は現在のバッチに触れません。
		return err
	}

	s.mu.Lock()
	s.artifacts = artifacts
	s.lastRequest = req
	s.mu.Unlock()

	slog.InfoContext(ctx, "新しいバッチを受け付けました", "count", len(artifacts))
	return nil
}

// Approve は指定ミームを承認してストアに保存します。
// 保存に失敗した場合は承認を取り消し、状態を pending に戻します。
func (s *Session) Approve(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrUnknownArtifact
	}

	s.artifacts[idx].Status = domain.StatusApproved
	if err := s.store.Write(ctx, &s.artifacts[idx]); err != nil {
		s.artifacts[idx].Status = domain.StatusPending
		return fmt.Errorf("承認の保存に失敗したため pending に戻しました: %w", err)
	}
	return nil
}

// Reject は指定ミームを却下します。ストアには何も書き込みません。
func (s *Session) Reject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrUnknownArtifact
	}
	s.artifacts[idx].Status = domain.StatusRejected
	return nil
}

// Regenerate は指定ミームの画像を同じコンセプトで作り直します。
// 別の再生成が進行中の場合は何もしません。
func (s *Session) Regenerate(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrUnknownArtifact
	}
	current := s.artifacts[idx]
	s.mu.Unlock()

	// 生成中はロックを手放し、他の承認操作をブロックしません。
	regenerated, ok := s.gen.Regenerate(ctx, current)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx = s.indexOf(id); idx >= 0 {
		s.artifacts[idx] = regenerated
	}
	return nil
}

// SendForReview はレビュー待ちのミームをレビュアーに通知します。
// レビュー待ちが1件もない場合は通知を送らず、何もしません。
func (s *Session) SendForReview(ctx context.Context) error {
	s.mu.Lock()
	var pending []domain.Artifact
	for _, art := range s.artifacts {
		if art.Status == domain.StatusPending {
			pending = append(pending, art)
		}
	}
	subject := s.lastRequest.Subject()
	s.mu.Unlock()

	if len(pending) == 0 {
		slog.InfoContext(ctx, "レビュー待ちのミームがないため通知を送りません")
		return nil
	}

	return s.notifier.Notify(ctx, s.recipient, subject, pending)
}

// ToggleAutopilot は自動運転の有効・無効を切り替えます。
// 有効化には検証済みバックエンドに加え、周回の起点となるプロンプトと
// 参考リンクの両方が必要です。どちらかが欠けたままの周回は許可しません。
func (s *Session) ToggleAutopilot(enabled bool, prompt, links string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enabled {
		if !s.probe.Verified() || prompt == "" || links == "" {
			return ErrAutopilotNotReady
		}
		s.lastRequest = domain.Request{Links: links, Prompt: prompt}
	}
	s.autopilot = enabled
	return nil
}

// AutopilotEnabled は自動運転が有効かどうかを返します。
func (s *Session) AutopilotEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autopilot
}

// LastRequest は直近の生成リクエストを返します。自動運転の周回で再利用されます。
func (s *Session) LastRequest() domain.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRequest
}

// Artifacts は現在のバッチのコピーを返します。
func (s *Session) Artifacts() []domain.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Artifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// indexOf は呼び出し側がロックを保持している前提で ID の位置を返します。
func (s *Session) indexOf(id string) int {
	for i, art := range s.artifacts {
		if art.ID == id {
			return i
		}
	}
	return -1
}
