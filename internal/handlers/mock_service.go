package handlers

import (
	"context"
	"time"
	"tunestatus"
	"tunestatus/internal/config"
	"tunestatus/internal/service"
)

// ---- Service mocks ----

type mockReconciler struct {
	runResult tunestatus.RunRecord
	runCalls  int
}

func (m *mockReconciler) RunOnce(context.Context) tunestatus.RunRecord {
	m.runCalls++
	return m.runResult
}
func (m *mockReconciler) Run(context.Context, time.Duration) {}

type mockStatus struct {
	overview service.Overview
	err      error
}

func (m *mockStatus) Overview(context.Context) (service.Overview, error) {
	return m.overview, m.err
}

type mockLogFile struct {
	lines      []string
	tailErr    error
	clearErr   error
	lastTailN  int
	clearCalls int
}

func (m *mockLogFile) Tail(n int) ([]string, error) {
	m.lastTailN = n
	if m.tailErr != nil {
		return nil, m.tailErr
	}
	if n < len(m.lines) {
		return m.lines[len(m.lines)-n:], nil
	}
	return m.lines, nil
}
func (m *mockLogFile) Clear() error {
	m.clearCalls++
	return m.clearErr
}
func (m *mockLogFile) TrimToLast(int) error { return nil }

type mockAuth struct {
	allowUser string
	allowPass string
	token     string
	tokenErr  error
	parseErr  error
}

func (m *mockAuth) VerifyBasic(username, password string) bool {
	return username == m.allowUser && password == m.allowPass
}
func (m *mockAuth) IssueWSToken() (string, error) { return m.token, m.tokenErr }
func (m *mockAuth) ParseWSToken(string) error     { return m.parseErr }

type mockRunHistory struct {
	resp        []tunestatus.RunRecord
	err         error
	lastFrom    time.Time
	lastTo      time.Time
	lastOutcome string
}

func (m *mockRunHistory) List(_ context.Context, from, to time.Time, outcome string) ([]tunestatus.RunRecord, error) {
	m.lastFrom = from
	m.lastTo = to
	m.lastOutcome = outcome
	return m.resp, m.err
}

type mockConfigAdmin struct {
	cfg        config.Config
	applyErr   error
	applied    []config.Config
	hashErr    error
	lastHashed string
}

func (m *mockConfigAdmin) Current() config.Config { return m.cfg }
func (m *mockConfigAdmin) Apply(cfg config.Config) error {
	m.applied = append(m.applied, cfg)
	if m.applyErr == nil {
		m.cfg = cfg
	}
	return m.applyErr
}
func (m *mockConfigAdmin) HashPassword(password string) (string, error) {
	m.lastHashed = password
	if m.hashErr != nil {
		return "", m.hashErr
	}
	return "bcrypt:" + password, nil
}
