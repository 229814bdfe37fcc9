// Package callbackdata encodes and decodes inline button payloads of the
// form action(__arg)*.
package callbackdata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Separator joins the action and its arguments.
const Separator = "__"

// MaxLength is Telegram's limit on callback data, in bytes.
const MaxLength = 64

var (
	// ErrUnknownAction is returned for payloads whose action is not known.
	ErrUnknownAction = errors.New("unknown callback action")
	// ErrBadArity is returned when an action has too few or too many arguments.
	ErrBadArity = errors.New("wrong number of callback arguments")
)

// Action is the leading token of a callback payload.
type Action string

const (
	Onboarding   Action = "onboarding"
	Language     Action = "language"
	CaseIntro    Action = "case_intro"
	LanguageMenu Action = "language_menu"
	Difficulty   Action = "difficulty"
	Menu         Action = "menu"
	Guide        Action = "guide"
	Clue         Action = "clue"
	Talk         Action = "talk"
	Mode         Action = "mode"
	Accuse       Action = "accuse"
	Explain      Action = "explain"
	Reveal       Action = "reveal"
	RevealCustom Action = "reveal_custom"
	Restart      Action = "restart"
	Final        Action = "final"
)

type arity struct{ min, max int }

var arities = map[Action]arity{
	Onboarding:   {1, 1},
	Language:     {1, 1},
	CaseIntro:    {1, 1},
	LanguageMenu: {1, 1},
	Difficulty:   {2, 2},
	Menu:         {1, 1},
	Guide:        {1, 1},
	Clue:         {1, 1},
	Talk:         {1, 1},
	Mode:         {1, 1},
	Accuse:       {1, 2},
	Explain:      {1, 3},
	Reveal:       {1, 1},
	RevealCustom: {1, 1},
	Restart:      {1, 1},
	Final:        {1, 1},
}

// AllActions lists every known action.
func AllActions() []Action {
	return []Action{
		Onboarding, Language, CaseIntro, LanguageMenu, Difficulty, Menu,
		Guide, Clue, Talk, Mode, Accuse, Explain, Reveal, RevealCustom,
		Restart, Final,
	}
}

// Data is a decoded callback payload.
type Data struct {
	Action Action
	Args   []string
}

// New builds a payload.
func New(action Action, args ...string) Data {
	return Data{Action: action, Args: args}
}

// String encodes d for use as callback data.
func (d Data) String() string {
	return strings.Join(append([]string{string(d.Action)}, d.Args...), Separator)
}

// Arg returns the i-th argument or "".
func (d Data) Arg(i int) string {
	if i < 0 || i >= len(d.Args) {
		return ""
	}
	return d.Args[i]
}

// Sub is the first argument, the sub-action for most families.
func (d Data) Sub() string {
	return d.Arg(0)
}

// IntArg parses the i-th argument as an integer.
func (d Data) IntArg(i int) (int, error) {
	n, err := strconv.Atoi(d.Arg(i))
	if err != nil {
		return 0, fmt.Errorf("callback %s argument %d: %w", d.Action, i, err)
	}
	return n, nil
}

// Parse decodes raw callback data. The last argument keeps any trailing
// separators, so free text such as a word to explain survives.
func Parse(raw string) (Data, error) {
	head, rest, _ := strings.Cut(raw, Separator)
	action := Action(head)
	ar, ok := arities[action]
	if !ok {
		return Data{}, fmt.Errorf("%w: %q", ErrUnknownAction, head)
	}

	var args []string
	if rest != "" {
		args = strings.SplitN(rest, Separator, ar.max)
	}
	if len(args) < ar.min {
		return Data{}, fmt.Errorf("%w: %s wants at least %d, got %d", ErrBadArity, action, ar.min, len(args))
	}
	return Data{Action: action, Args: args}, nil
}
