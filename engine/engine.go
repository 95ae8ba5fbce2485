// Package engine is the IVR state machine. Given one inbound webhook event
// and the menu state the provider echoed back, it decides which
// call-control command to issue next and which state to attach to it. The
// engine holds no per-call memory: everything it knows about a caller's
// position arrives inside the event.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sprucehealth/callflow/model"
	"github.com/sprucehealth/callflow/telnyx"
)

// commandTimeout bounds one outbound command request. The webhook response
// never waits on it.
const commandTimeout = 10 * time.Second

// Numbers holds the transfer destinations behind the sales menu.
type Numbers struct {
	AccountExecutive string
	SalesEngineer    string
}

// Engine dispatches inbound events to outbound call-control commands.
type Engine struct {
	client  telnyx.CommandClient
	numbers Numbers
	log     *zap.Logger
	wg      sync.WaitGroup
}

// New creates an engine issuing commands through client.
func New(client telnyx.CommandClient, numbers Numbers, log *zap.Logger) *Engine {
	return &Engine{
		client:  client,
		numbers: numbers,
		log:     log,
	}
}

// Plan maps one inbound event to the command it calls for, or nil when the
// event calls for no action. Plan is pure: it issues nothing and holds no
// state, so the full transition table can be asserted synchronously.
func (e *Engine) Plan(ev model.InboundEvent) *model.OutboundCommand {
	switch ev.Type {
	case model.EventCallInitiated:
		if ev.Direction == model.DirectionIncoming {
			return &model.OutboundCommand{
				Type:   model.CommandAnswer,
				CallID: ev.CallID,
			}
		}
		// A call we originated: tag it so the answered event is a no-op.
		return &model.OutboundCommand{
			Type:      model.CommandAnswer,
			CallID:    ev.CallID,
			NextState: model.StateOutgoing,
		}

	case model.EventCallAnswered:
		if !ev.State.None() {
			// Outbound leg answered, nothing to prompt.
			return nil
		}
		return &model.OutboundCommand{
			Type:        model.CommandGatherUsingSpeak,
			CallID:      ev.CallID,
			Text:        welcomePrompt,
			ValidDigits: menuDigits,
			MaxDigits:   menuMaxDigits,
		}

	case model.EventSpeakEnded, model.EventCallBridged:
		return nil

	case model.EventGatherEnded:
		return e.planGather(ev)
	}

	return nil
}

// planGather handles DTMF input for the menu level the caller is at. Digits
// outside the menu's choice set yield no action; the caller stays where
// they are.
func (e *Engine) planGather(ev model.InboundEvent) *model.OutboundCommand {
	switch ev.State {
	case model.StateNone: // lobby
		switch ev.Digits {
		case "1":
			return &model.OutboundCommand{
				Type:        model.CommandGatherUsingSpeak,
				CallID:      ev.CallID,
				Text:        salesPrompt,
				ValidDigits: menuDigits,
				MaxDigits:   menuMaxDigits,
				NextState:   model.StateSales,
			}
		case "2":
			return &model.OutboundCommand{
				Type:   model.CommandSpeak,
				CallID: ev.CallID,
				Text:   operationsPrompt,
			}
		}

	case model.StateSales:
		switch ev.Digits {
		case "1":
			return &model.OutboundCommand{
				Type:   model.CommandTransfer,
				CallID: ev.CallID,
				To:     e.numbers.AccountExecutive,
				From:   ev.From,
			}
		case "2":
			return &model.OutboundCommand{
				Type:   model.CommandTransfer,
				CallID: ev.CallID,
				To:     e.numbers.SalesEngineer,
				From:   ev.From,
			}
		}
	}

	return nil
}

// Dispatch plans the event and issues the resulting command, if any, in a
// detached goroutine. It returns immediately: command completion is logged,
// never awaited, and never affects the webhook response.
func (e *Engine) Dispatch(ev model.InboundEvent) {
	cmd := e.Plan(ev)
	if cmd == nil {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.issue(*cmd)
	}()
}

// issue executes one command against the provider. Failures are logged with
// the command name and the provider's reply; nothing is retried.
func (e *Engine) issue(cmd model.OutboundCommand) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var err error
	switch cmd.Type {
	case model.CommandAnswer:
		err = e.client.Answer(ctx, cmd.CallID, cmd.NextState)
	case model.CommandSpeak:
		err = e.client.Speak(ctx, cmd.CallID, cmd.Text)
	case model.CommandGatherUsingSpeak:
		err = e.client.GatherUsingSpeak(ctx, cmd.CallID, cmd.Text, cmd.ValidDigits, cmd.MaxDigits, cmd.NextState)
	case model.CommandTransfer:
		err = e.client.Transfer(ctx, cmd.CallID, cmd.To, cmd.From)
	case model.CommandHangup:
		err = e.client.Hangup(ctx, cmd.CallID)
	}

	if err != nil {
		e.log.Error("command failed",
			zap.String("command", string(cmd.Type)),
			zap.String("call_control_id", cmd.CallID.String()),
			zap.Error(err),
		)
		return
	}

	e.log.Debug("command executed",
		zap.String("command", string(cmd.Type)),
		zap.String("call_control_id", cmd.CallID.String()),
	)
}

// Close waits for in-flight commands to finish. Used on shutdown and by
// tests that need to observe issued commands.
func (e *Engine) Close() error {
	e.wg.Wait()
	return nil
}
