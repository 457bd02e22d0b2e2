package server

import (
	"encoding/json"
	"strconv"

	ferrors "github.com/vango-dev/noorform/internal/errors"
	"github.com/vango-dev/noorform/pkg/catalog"
	"github.com/vango-dev/noorform/pkg/form"
)

// Client message types.
const (
	MsgChange = "change"
	MsgBlur   = "blur"
	MsgSubmit = "submit"
	MsgReset  = "reset"
)

// Server message types.
const (
	MsgInit      = "init"
	MsgState     = "state"
	MsgSubmitted = "submitted"
	MsgError     = "error"
)

// ClientMessage is a message sent by a live client.
type ClientMessage struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value any    `json:"value,omitempty"`
}

// ServerMessage is a message sent to a live client.
type ServerMessage struct {
	Type     string        `json:"type"`
	Form     *catalog.View `json:"form,omitempty"`
	State    *form.State   `json:"state,omitempty"`
	Accepted *bool         `json:"accepted,omitempty"`
	Error    *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload describes a rejected request or message.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// DecodeClientMessage parses and checks one client message.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, ferrors.New("F200").Wrap(err)
	}

	switch msg.Type {
	case MsgChange, MsgBlur:
		if msg.Field == "" {
			return ClientMessage{}, ferrors.New("F203").
				WithDetail(strconv.Quote(msg.Type) + " messages need a field")
		}
	case MsgSubmit, MsgReset:
	case "":
		return ClientMessage{}, ferrors.New("F200").WithDetail("Message has no type")
	default:
		return ClientMessage{}, ferrors.New("F201").
			WithDetail("Got " + strconv.Quote(msg.Type))
	}
	return msg, nil
}

// errorPayload converts err for the wire.
func errorPayload(err error) *ErrorPayload {
	fe := ferrors.FromError(err, "F200")
	return &ErrorPayload{
		Code:    fe.Code,
		Message: fe.Message,
		Detail:  fe.Detail,
	}
}

func stateMessage(msgType string, f *form.Form) ServerMessage {
	state := f.State()
	return ServerMessage{Type: msgType, State: &state}
}
