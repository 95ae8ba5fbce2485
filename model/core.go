// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package model

// CallControlID names one telephony call for the duration of its lifecycle.
// It is assigned by the provider and opaque to us.
type CallControlID string

func (id CallControlID) String() string {
	return string(id)
}

// EventType is the kind of an inbound webhook notification
type EventType string

const (
	EventCallInitiated EventType = "call_initiated"
	EventCallAnswered  EventType = "call_answered"
	EventSpeakEnded    EventType = "speak_ended"
	EventCallBridged   EventType = "call_bridged"
	EventGatherEnded   EventType = "gather_ended"
)

// Valid reports whether t is one of the event kinds this service handles.
func (t EventType) Valid() bool {
	switch t {
	case EventCallInitiated, EventCallAnswered, EventSpeakEnded, EventCallBridged, EventGatherEnded:
		return true
	}
	return false
}

// Direction represents whether a call was placed to us or by us
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// MenuState is the caller's current position in the IVR menu tree. It is
// never held in process memory between events: it rides across the call
// inside the provider's client-state token and comes back on the next
// webhook. StateNone (no token attached) is the lobby level and is distinct
// from a token that fails to decode.
type MenuState string

const (
	// StateNone means no client state is attached; the caller is in the lobby.
	StateNone MenuState = ""

	// StateOutgoing marks a call this service originated and that has not
	// been answered yet.
	StateOutgoing MenuState = "stage-outgoing"

	// StateSales marks a caller inside the sales sub-menu.
	StateSales MenuState = "stage-sales"
)

// Valid reports whether s is a member of the closed menu-state set.
func (s MenuState) Valid() bool {
	switch s {
	case StateNone, StateOutgoing, StateSales:
		return true
	}
	return false
}

// None reports whether s is the lobby level (no token attached).
func (s MenuState) None() bool {
	return s == StateNone
}

// InboundEvent is one webhook notification, already parsed and with its
// client state decoded. Type tags which of the kind-specific fields carry
// meaning: Direction is set only for call_initiated, Digits and From only
// for gather_ended.
type InboundEvent struct {
	Type   EventType
	CallID CallControlID
	State  MenuState

	Direction Direction
	Digits    string
	From      string
}
