// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package webhook_test

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sprucehealth/callflow/engine"
	"github.com/sprucehealth/callflow/model"
	"github.com/sprucehealth/callflow/telnyx"
	"github.com/sprucehealth/callflow/webhook"
)

type fixture struct {
	app  *fiber.App
	eng  *engine.Engine
	mock *telnyx.MockCommandClient
}

func newFixture() *fixture {
	mock := telnyx.NewMockCommandClient()
	eng := engine.New(mock, engine.Numbers{
		AccountExecutive: "+15550000001",
		SalesEngineer:    "+15550000002",
	}, zap.NewNop())
	h := webhook.NewHandler(eng, zap.NewNop())
	return &fixture{
		app:  webhook.NewApp(h),
		eng:  eng,
		mock: mock,
	}
}

func (f *fixture) post(t *testing.T, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/callflow/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestWebhookDispatchesIncomingCall(t *testing.T) {
	f := newFixture()

	resp := f.post(t, `{
		"event_type": "call_initiated",
		"payload": {"call_control_id": "cc-1", "direction": "incoming"}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if err := f.eng.Close(); err != nil {
		t.Fatal(err)
	}

	cmds := f.mock.Commands()
	if len(cmds) != 1 || cmds[0].Type != model.CommandAnswer || cmds[0].CallID != "cc-1" {
		t.Errorf("commands = %+v, want one answer for cc-1", cmds)
	}
}

func TestWebhookDecodesClientState(t *testing.T) {
	f := newFixture()

	token := base64.StdEncoding.EncodeToString([]byte(model.StateSales))
	f.post(t, `{
		"event_type": "gather_ended",
		"payload": {
			"call_control_id": "cc-2",
			"client_state": "`+token+`",
			"digits": "2",
			"from": "+15557654321"
		}
	}`)
	if err := f.eng.Close(); err != nil {
		t.Fatal(err)
	}

	cmds := f.mock.Commands()
	if len(cmds) != 1 || cmds[0].Type != model.CommandTransfer {
		t.Fatalf("commands = %+v, want one transfer", cmds)
	}
	if cmds[0].To != "+15550000002" || cmds[0].From != "+15557654321" {
		t.Errorf("transfer = %+v", cmds[0])
	}
}

func TestWebhookMissingEventType(t *testing.T) {
	f := newFixture()

	resp := f.post(t, `{"payload": {"call_control_id": "cc-3"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 0 {
		t.Errorf("response body = %q, want empty", body)
	}

	if err := f.eng.Close(); err != nil {
		t.Fatal(err)
	}
	if cmds := f.mock.Commands(); len(cmds) != 0 {
		t.Errorf("%d commands issued, want none", len(cmds))
	}
}

func TestWebhookMissingCallControlID(t *testing.T) {
	f := newFixture()

	resp := f.post(t, `{"event_type": "call_answered", "payload": {}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	if err := f.eng.Close(); err != nil {
		t.Fatal(err)
	}
	if cmds := f.mock.Commands(); len(cmds) != 0 {
		t.Errorf("%d commands issued, want none", len(cmds))
	}
}

func TestWebhookMalformedClientState(t *testing.T) {
	f := newFixture()

	// Undecodable state is an error, not the lobby: the lobby menu must
	// not be prompted.
	resp := f.post(t, `{
		"event_type": "gather_ended",
		"payload": {"call_control_id": "cc-4", "client_state": "!!!", "digits": "1"}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	if err := f.eng.Close(); err != nil {
		t.Fatal(err)
	}
	if cmds := f.mock.Commands(); len(cmds) != 0 {
		t.Errorf("%d commands issued, want none", len(cmds))
	}
}

func TestWebhookUnknownEventType(t *testing.T) {
	f := newFixture()

	resp := f.post(t, `{
		"event_type": "call_recorded",
		"payload": {"call_control_id": "cc-5"}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	if err := f.eng.Close(); err != nil {
		t.Fatal(err)
	}
	if cmds := f.mock.Commands(); len(cmds) != 0 {
		t.Errorf("%d commands issued, want none", len(cmds))
	}
}

func TestWebhookRespondsWhileCommandInFlight(t *testing.T) {
	f := newFixture()

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	f.mock.CommandFunc = func(telnyx.MockCommand) error {
		started <- struct{}{}
		<-release
		return nil
	}

	// The acknowledgment must not wait on the provider call; a handler
	// blocked on it would trip app.Test's timeout instead.
	resp := f.post(t, `{
		"event_type": "call_initiated",
		"payload": {"call_control_id": "cc-6", "direction": "incoming"}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("command was never issued")
	}

	close(release)
	if err := f.eng.Close(); err != nil {
		t.Fatal(err)
	}

	cmds := f.mock.Commands()
	if len(cmds) != 1 || cmds[0].Type != model.CommandAnswer {
		t.Errorf("commands = %+v, want one answer", cmds)
	}
}

func TestStatusEndpoint(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodGet, "/callflow/status", nil)
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
