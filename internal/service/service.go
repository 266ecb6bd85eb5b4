package service

import (
	"context"
	"time"
	"tunestatus"
	"tunestatus/internal/config"
	"tunestatus/internal/logger"
	"tunestatus/internal/player"
	"tunestatus/internal/repository"
)

// StatusAPI is the remote profile-status capability consumed by the
// reconciler. internal/slack provides the production implementation.
type StatusAPI interface {
	GetStatus(ctx context.Context) (tunestatus.StatusSnapshot, error)
	SetStatus(ctx context.Context, text, emoji string, expiration int64) error
}

// TextFilter censors a track label before it is published.
type TextFilter interface {
	Filter(s string) string
}

// Reconciler runs one reconcile pass per invocation.
type Reconciler interface {
	RunOnce(ctx context.Context) tunestatus.RunRecord
	Run(ctx context.Context, tick time.Duration)
}

// Status exposes the live overview consumed by the admin UI and ws stream.
type Status interface {
	Overview(ctx context.Context) (Overview, error)
}

// LogFile exposes tail/clear/trim access to the daemon's own log file.
type LogFile interface {
	Tail(n int) ([]string, error)
	Clear() error
	TrimToLast(max int) error
}

// Auth verifies admin credentials and mints websocket tokens.
type Auth interface {
	VerifyBasic(username, password string) bool
	IssueWSToken() (string, error)
	ParseWSToken(token string) error
}

// RunHistory exposes the persisted run records with filtering.
type RunHistory interface {
	List(ctx context.Context, from, to time.Time, outcome string) ([]tunestatus.RunRecord, error)
}

type Service struct {
	Reconciler
	Status
	LogFile
	Auth
	RunHistory
	ConfigAdmin
}

// Deps carries everything the service layer is wired with.
type Deps struct {
	Config    *config.Store
	Player    player.Player
	API       StatusAPI
	Repos     *repository.Repository
	Filter    TextFilter
	Log       *logger.Logger
	Broadcast func(tunestatus.RunRecord) // optional, ws fan-out
}

func NewService(d Deps) *Service {
	rec := NewReconcilerService(d)
	return &Service{
		Reconciler:  rec,
		Status:      NewStatusService(d.Config, d.Player, d.Repos),
		LogFile:     NewLogFileService(d.Config),
		Auth:        NewAuthService(d.Config),
		RunHistory:  NewRunHistoryService(d.Repos.Runs),
		ConfigAdmin: NewConfigAdminService(d.Config),
	}
}
