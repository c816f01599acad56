package quote

import (
	"fmt"

	appErrors "cargo-broker/pkg/errors"
)

// Action is a lifecycle command applied to a request.
type Action string

const (
	ActionAccept  Action = "accept"
	ActionDeny    Action = "deny"
	ActionDeliver Action = "deliver"
	ActionCancel  Action = "cancel"
)

// State machine for request status transitions
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionAccept: StatusAccepted,
		ActionDeny:   StatusDenied,
		ActionCancel: StatusCancelled,
	},
	StatusAccepted: {
		ActionDeliver: StatusDelivered,
		ActionCancel:  StatusCancelled,
	},
	StatusDenied: {
		ActionCancel: StatusCancelled,
	},
	StatusDelivered: {
		ActionCancel: StatusCancelled,
	},
	StatusCancelled: {
		// Terminal state - no transitions
	},
}

// Next resolves the target status for action from the current status.
func Next(from Status, action Action) (Status, error) {
	actions, exists := transitions[from]
	if !exists {
		return "", appErrors.NewAppError(
			appErrors.CodeInvalidStatus,
			fmt.Sprintf("Unknown current status: %s", from),
			ErrInvalidStatus,
		)
	}

	to, ok := actions[action]
	if !ok {
		return "", appErrors.NewAppError(
			appErrors.CodeInvalidTransition,
			fmt.Sprintf("Cannot %s a request in status %s", action, from),
			ErrInvalidTransition,
		)
	}

	return to, nil
}

// AllowedActions returns the actions valid from a status.
func AllowedActions(from Status) []Action {
	var actions []Action
	for _, a := range []Action{ActionAccept, ActionDeny, ActionDeliver, ActionCancel} {
		if _, ok := transitions[from][a]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}

// ActionFor maps a target status to the action that reaches it.
func ActionFor(target Status) (Action, bool) {
	switch target {
	case StatusAccepted:
		return ActionAccept, true
	case StatusDenied:
		return ActionDeny, true
	case StatusDelivered:
		return ActionDeliver, true
	case StatusCancelled:
		return ActionCancel, true
	}
	return "", false
}

// IsTerminal reports whether normal flow has ended; an admin cancel is still possible.
func (s Status) IsTerminal() bool {
	for a := range transitions[s] {
		if a != ActionCancel {
			return false
		}
	}
	return true
}
