package telnyx

import (
	"context"
	"sync"

	"github.com/sprucehealth/callflow/model"
)

// MockCommandClient is a test double for capturing issued commands.
type MockCommandClient struct {
	mu       sync.Mutex
	commands []MockCommand

	// Err, when set, is returned from every command.
	Err error

	// CommandFunc, when set, is invoked for every command after it is
	// recorded and its result returned in place of Err. It may block to
	// simulate a slow provider.
	CommandFunc func(MockCommand) error
}

// MockCommand records one issued command and its parameters.
type MockCommand struct {
	Type        model.CommandType
	CallID      model.CallControlID
	Text        string
	ValidDigits string
	MaxDigits   int
	To          string
	From        string
	NextState   model.MenuState
}

// NewMockCommandClient creates a new mock client
func NewMockCommandClient() *MockCommandClient {
	return &MockCommandClient{}
}

func (m *MockCommandClient) record(cmd MockCommand) error {
	m.mu.Lock()
	m.commands = append(m.commands, cmd)
	fn := m.CommandFunc
	err := m.Err
	m.mu.Unlock()

	// Run outside the lock so a blocking CommandFunc does not stall
	// Commands() inspection.
	if fn != nil {
		return fn(cmd)
	}
	return err
}

func (m *MockCommandClient) Answer(_ context.Context, id model.CallControlID, nextState model.MenuState) error {
	return m.record(MockCommand{Type: model.CommandAnswer, CallID: id, NextState: nextState})
}

func (m *MockCommandClient) Speak(_ context.Context, id model.CallControlID, text string) error {
	return m.record(MockCommand{Type: model.CommandSpeak, CallID: id, Text: text})
}

func (m *MockCommandClient) GatherUsingSpeak(_ context.Context, id model.CallControlID, text, validDigits string, maxDigits int, nextState model.MenuState) error {
	return m.record(MockCommand{
		Type:        model.CommandGatherUsingSpeak,
		CallID:      id,
		Text:        text,
		ValidDigits: validDigits,
		MaxDigits:   maxDigits,
		NextState:   nextState,
	})
}

func (m *MockCommandClient) Transfer(_ context.Context, id model.CallControlID, dest, orig string) error {
	return m.record(MockCommand{Type: model.CommandTransfer, CallID: id, To: dest, From: orig})
}

func (m *MockCommandClient) Hangup(_ context.Context, id model.CallControlID) error {
	return m.record(MockCommand{Type: model.CommandHangup, CallID: id})
}

// Commands returns a copy of all recorded commands in issue order.
func (m *MockCommandClient) Commands() []MockCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCommand{}, m.commands...)
}

// CommandsOfType returns recorded commands of the given kind.
func (m *MockCommandClient) CommandsOfType(t model.CommandType) []MockCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []MockCommand
	for _, cmd := range m.commands {
		if cmd.Type == t {
			result = append(result, cmd)
		}
	}
	return result
}

// Reset clears all recorded commands
func (m *MockCommandClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = nil
}
