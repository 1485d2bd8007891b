package models

import (
	"context"
	"sync"
	"time"

	mdt694b "github.com/optomech/go-mdt694b"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	switch m {
	case InputModeNormal:
		return "NORMAL"
	case InputModeInsert:
		return "INSERT"
	default:
		return "NORMAL"
	}
}

// ConnectionStatusMsg reports the outcome of the background connect.
type ConnectionStatusMsg struct {
	Connected bool
	Error     error
}

// ReadingMsg carries one polled voltage reading.
type ReadingMsg struct {
	Timestamp time.Time
	Voltage   float64
	Err       error
}

// MoveResultMsg reports a completed (or failed) move.
type MoveResultMsg struct {
	Timestamp time.Time
	Target    float64
	Voltage   float64
	Elapsed   time.Duration
	Err       error
}

// PiezoModel holds the shared controller state behind the watch UI. The
// driver itself is not safe for concurrent use, so every device operation
// goes through the model's mutex.
type PiezoModel struct {
	ctl      *mdt694b.Controller
	portPath string

	connected bool
	moving    bool
	err       error
	ready     bool
	inputMode InputMode

	cancel context.CancelFunc
	ctx    context.Context
	mu     sync.Mutex
}

func NewPiezoModel(portPath string) *PiezoModel {
	ctx, cancel := context.WithCancel(context.Background())

	return &PiezoModel{
		portPath:  portPath,
		inputMode: InputModeNormal,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m *PiezoModel) SetController(ctl *mdt694b.Controller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctl = ctl
}

func (m *PiezoModel) GetPortPath() string {
	return m.portPath
}

// DeviceInfo returns identity and limit once connected.
func (m *PiezoModel) DeviceInfo() (mdt694b.Identity, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctl == nil {
		return mdt694b.Identity{}, 0, false
	}
	return m.ctl.Identity(), m.ctl.VoltageLimit(), true
}

// ReadVoltage performs a serialized voltage query.
func (m *PiezoModel) ReadVoltage() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctl == nil {
		return 0, mdt694b.ErrControllerClosed
	}
	return m.ctl.Voltage()
}

// Move performs a serialized settled move and reports the result.
func (m *PiezoModel) Move(target float64) MoveResultMsg {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	if m.ctl == nil {
		return MoveResultMsg{Timestamp: start, Target: target, Err: mdt694b.ErrControllerClosed}
	}

	err := m.ctl.SetVoltage(target)
	return MoveResultMsg{
		Timestamp: time.Now(),
		Target:    target,
		Voltage:   m.ctl.LastVoltage(),
		Elapsed:   time.Since(start),
		Err:       err,
	}
}

func (m *PiezoModel) VoltageLimit() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctl == nil {
		return 0
	}
	return m.ctl.VoltageLimit()
}

func (m *PiezoModel) LastVoltage() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctl == nil {
		return 0
	}
	return m.ctl.LastVoltage()
}

func (m *PiezoModel) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *PiezoModel) SetConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = connected
}

func (m *PiezoModel) IsMoving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.moving
}

func (m *PiezoModel) SetMoving(moving bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moving = moving
}

func (m *PiezoModel) GetError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *PiezoModel) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *PiezoModel) IsReady() bool {
	return m.ready
}

func (m *PiezoModel) SetReady(ready bool) {
	m.ready = ready
}

func (m *PiezoModel) GetInputMode() InputMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputMode
}

func (m *PiezoModel) SetInputMode(mode InputMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputMode = mode
}

func (m *PiezoModel) IsInInsertMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputMode == InputModeInsert
}

func (m *PiezoModel) GetContext() context.Context {
	return m.ctx
}

func (m *PiezoModel) Cancel() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *PiezoModel) Cleanup() {
	if m.cancel != nil {
		m.cancel()
	}

	m.mu.Lock()
	if m.ctl != nil {
		m.ctl.Close()
		m.ctl = nil
	}
	m.mu.Unlock()
}
