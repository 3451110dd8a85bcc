package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeEvent Type = "event"
	TypeTask  Type = "task"
	TypeFocus Type = "focus"
	TypeSet   Type = "set"
	TypeGoto  Type = "goto"
	TypeShow  Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// EventArgs creates a calendar event: /event Lunch at 12:30 for 45m
type EventArgs struct {
	Title string
	At    string
	For   string
}

// TaskArgs creates a task, optionally due on the grid: /task Write report at 16:30 for 1h
type TaskArgs struct {
	Title string
	At    string
	For   string
}

// FocusArgs drives the focus timer: /focus start [task], pause, stop, skip.
type FocusArgs struct {
	Action string
	TaskID string
}

// SetArgs changes one timer setting: /set focus 50
type SetArgs struct {
	Field string
	Value string
}

// GotoArgs moves the grid window: /goto today, /goto 2026-02-09
type GotoArgs struct {
	When string
}

// ShowArgs switches screens: /show grid|focus|history
type ShowArgs struct {
	Subject string
}

type Command struct {
	Type  Type
	Raw   string
	Event *EventArgs
	Task  *TaskArgs
	Focus *FocusArgs
	Set   *SetArgs
	Goto  *GotoArgs
	Show  *ShowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeEvent:
		return parseEvent(input, args)
	case TypeTask:
		return parseTask(input, args)
	case TypeFocus:
		return parseFocus(input, args)
	case TypeSet:
		return parseSet(input, args)
	case TypeGoto:
		return parseGoto(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseEvent(raw string, args []string) (Command, error) {
	title, at, span, err := parseTitleAtFor("event", args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeEvent, Raw: raw, Event: &EventArgs{Title: title, At: at, For: span}}, nil
}

func parseTask(raw string, args []string) (Command, error) {
	title, at, span, err := parseTitleAtFor("task", args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeTask, Raw: raw, Task: &TaskArgs{Title: title, At: at, For: span}}, nil
}

// parseTitleAtFor handles the shared "<title words> [at HH:MM] [for 45m]"
// grammar used by event and task.
func parseTitleAtFor(name string, args []string) (title, at, span string, err error) {
	if len(args) == 0 {
		return "", "", "", &CommandError{Code: ErrCodeInvalidArgument, Message: name + " requires a title"}
	}
	titleWords := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "at":
			if i+1 < len(args) {
				i++
				at = args[i]
			}
		case "for":
			if i+1 < len(args) {
				i++
				span = args[i]
			}
		default:
			titleWords = append(titleWords, args[i])
		}
	}
	title = strings.TrimSpace(strings.Join(titleWords, " "))
	if title == "" {
		return "", "", "", &CommandError{Code: ErrCodeInvalidArgument, Message: name + " requires a title"}
	}
	return title, at, span, nil
}

func parseFocus(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "focus requires an action"}
	}
	action := strings.ToLower(args[0])
	switch action {
	case "start", "pause", "stop", "skip":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown focus action: %s", action)}
	}
	taskID := ""
	if action == "start" && len(args) > 1 {
		taskID = strings.Join(args[1:], " ")
	}
	return Command{Type: TypeFocus, Raw: raw, Focus: &FocusArgs{Action: action, TaskID: taskID}}, nil
}

func parseSet(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set requires a field and a value"}
	}
	return Command{Type: TypeSet, Raw: raw, Set: &SetArgs{Field: strings.ToLower(args[0]), Value: args[1]}}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goto requires a date"}
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{When: strings.ToLower(strings.Join(args, " "))}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: strings.ToLower(args[0])}}, nil
}
