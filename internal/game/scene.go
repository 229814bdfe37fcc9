package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognizedShape is returned when director output does not match the
// scene schema.
var ErrUnrecognizedShape = errors.New("unrecognized scene shape")

// SceneAction is one beat of a scene: a narrator note, a character reply or a
// character reaction.
type SceneAction interface {
	sceneAction()
}

// NarrateAction is a narrator beat shown verbatim.
type NarrateAction struct {
	Message string
}

// CharacterReplyAction asks a character to answer the trigger message.
type CharacterReplyAction struct {
	CharacterKey string
	Trigger      string
}

// CharacterReactionAction asks a character to react to what just happened.
type CharacterReactionAction struct {
	CharacterKey string
	Trigger      string
}

func (NarrateAction) sceneAction()           {}
func (CharacterReplyAction) sceneAction()    {}
func (CharacterReactionAction) sceneAction() {}

// SpeakerOf returns the character voicing a, or "" for narrator beats.
func SpeakerOf(a SceneAction) string {
	switch v := a.(type) {
	case CharacterReplyAction:
		return v.CharacterKey
	case CharacterReactionAction:
		return v.CharacterKey
	default:
		return ""
	}
}

// Scene is the director's plan for answering one player message.
type Scene struct {
	Actions  []SceneAction
	NewTopic string
}

type rawScene struct {
	Scene    []rawAction `json:"scene"`
	NewTopic string      `json:"new_topic"`
}

type rawAction struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type rawActionData struct {
	Message        string `json:"message"`
	CharacterKey   string `json:"character_key"`
	TriggerMessage string `json:"trigger_message"`
}

// ParseScene decodes director output. The top level must be an object whose
// scene field is a list; every action must be director_note,
// character_reply or character_reaction with the fields it needs. Markdown
// code fences around the JSON are tolerated.
func ParseScene(raw string) (Scene, error) {
	body := ExtractJSON(raw)
	if body == "" {
		return Scene{}, fmt.Errorf("%w: empty output", ErrUnrecognizedShape)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &probe); err != nil {
		return Scene{}, fmt.Errorf("%w: not a JSON object: %v", ErrUnrecognizedShape, err)
	}
	sceneField, ok := probe["scene"]
	if !ok {
		return Scene{}, fmt.Errorf("%w: missing scene", ErrUnrecognizedShape)
	}
	if t := strings.TrimSpace(string(sceneField)); !strings.HasPrefix(t, "[") {
		return Scene{}, fmt.Errorf("%w: scene is not a list", ErrUnrecognizedShape)
	}

	var rs rawScene
	if err := json.Unmarshal([]byte(body), &rs); err != nil {
		return Scene{}, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
	}

	scene := Scene{NewTopic: strings.TrimSpace(rs.NewTopic)}
	for i, ra := range rs.Scene {
		action, err := parseAction(ra)
		if err != nil {
			return Scene{}, fmt.Errorf("action %d: %w", i, err)
		}
		scene.Actions = append(scene.Actions, action)
	}
	return scene, nil
}

func parseAction(ra rawAction) (SceneAction, error) {
	var d rawActionData
	if len(ra.Data) > 0 {
		if err := json.Unmarshal(ra.Data, &d); err != nil {
			return nil, fmt.Errorf("%w: bad data for %q: %v", ErrUnrecognizedShape, ra.Action, err)
		}
	}

	switch ra.Action {
	case "director_note":
		if strings.TrimSpace(d.Message) == "" {
			return nil, fmt.Errorf("%w: director_note without message", ErrUnrecognizedShape)
		}
		return NarrateAction{Message: d.Message}, nil
	case "character_reply", "character_reaction":
		key := strings.ToLower(strings.TrimSpace(d.CharacterKey))
		if !IsSuspect(key) {
			return nil, fmt.Errorf("%w: unknown character %q", ErrUnrecognizedShape, d.CharacterKey)
		}
		if strings.TrimSpace(d.TriggerMessage) == "" {
			return nil, fmt.Errorf("%w: %s without trigger_message", ErrUnrecognizedShape, ra.Action)
		}
		if ra.Action == "character_reply" {
			return CharacterReplyAction{CharacterKey: key, Trigger: d.TriggerMessage}, nil
		}
		return CharacterReactionAction{CharacterKey: key, Trigger: d.TriggerMessage}, nil
	default:
		return nil, fmt.Errorf("%w: action %q", ErrUnrecognizedShape, ra.Action)
	}
}

// ExtractJSON strips surrounding prose and Markdown fences from model output
// and returns the outermost JSON object or array, or "" if none is found.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return ""
	}
	return s[start : end+1]
}
