// Package tui is a read-only dashboard over the schedule: workload
// summary, detected conflicts, and the proposal history. Mutations stay
// on the command line.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studyloop/cadence/internal/engine"
	"github.com/studyloop/cadence/internal/models"
	"github.com/studyloop/cadence/internal/storage"
)

type SessionState int

const (
	StateWorkload SessionState = iota
	StateConflicts
	StateProposals
	stateCount
)

type Model struct {
	store  storage.Provider
	engine *engine.Engine
	userID string

	state  SessionState
	keys   KeyMap
	help   help.Model
	cursor int

	analysis  models.WorkloadAnalysis
	conflicts []models.Conflict
	proposals []models.Proposal
	loadErr   error

	quitting bool
	width    int
	height   int
}

func NewModel(store storage.Provider, eng *engine.Engine, userID string) Model {
	m := Model{
		store:  store,
		engine: eng,
		userID: userID,
		state:  StateWorkload,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	m.reload()
	return m
}

// reload refreshes every tab's data in one pass.
func (m *Model) reload() {
	m.loadErr = nil
	if m.analysis, m.loadErr = m.engine.AnalyzeWorkload(m.userID, 0); m.loadErr != nil {
		return
	}
	if m.conflicts, m.loadErr = m.engine.DetectConflicts(m.userID, 0); m.loadErr != nil {
		return
	}
	if m.proposals, m.loadErr = m.store.ListProposalsByUser(m.userID, ""); m.loadErr != nil {
		return
	}
	if m.cursor >= len(m.proposals) {
		m.cursor = 0
	}
}

func (m Model) selectedProposal() *models.Proposal {
	if len(m.proposals) == 0 || m.cursor >= len(m.proposals) {
		return nil
	}
	return &m.proposals[m.cursor]
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
	if m.state == StateProposals {
		keys = append(keys, m.keys.Up, m.keys.Down)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Refresh, m.keys.Quit, m.keys.Help},
		{m.keys.Up, m.keys.Down},
	}
}

func (m Model) Init() tea.Cmd { return nil }

// location is a small convenience for the views.
func (m Model) location() *time.Location { return m.engine.Location() }
