package model

// CommandType names one of the provider's call-control actions. The value
// doubles as the final path segment of the action endpoint.
type CommandType string

const (
	CommandAnswer           CommandType = "answer"
	CommandSpeak            CommandType = "speak"
	CommandGatherUsingSpeak CommandType = "gather_using_speak"
	CommandTransfer         CommandType = "transfer"
	CommandHangup           CommandType = "hangup"
)

// OutboundCommand is one control action to issue against a call. Type tags
// which parameter fields carry meaning: Text for speak and
// gather_using_speak, ValidDigits/MaxDigits for gather_using_speak, To/From
// for transfer, NextState for answer and gather_using_speak. A command
// always names the call it acts on.
type OutboundCommand struct {
	Type   CommandType
	CallID CallControlID

	Text        string
	ValidDigits string
	MaxDigits   int
	To          string
	From        string

	// NextState is attached as client state so the next inbound event for
	// this call carries it back. StateNone attaches nothing.
	NextState MenuState
}
