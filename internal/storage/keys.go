package storage

import "fmt"

// GameStateKey is where a user's session snapshot lives.
func GameStateKey(userID int64) string {
	return fmt.Sprintf("game_states/user_%d_state.json", userID)
}

// ProgressKey is where language progress lives. Study participants are keyed
// by their participant code, everyone else by user id.
func ProgressKey(userID int64, participantCode string) string {
	if participantCode != "" {
		return fmt.Sprintf("participant_logs/%s_language_progress.json", participantCode)
	}
	return fmt.Sprintf("user_progress/user_%d_progress.json", userID)
}

// ChatLogKey is where the plain-text chat transcript lives.
func ChatLogKey(userID int64, participantCode string) string {
	if participantCode != "" {
		return fmt.Sprintf("participant_logs/%s_chat_history.txt", participantCode)
	}
	return fmt.Sprintf("user_logs/chat_history_%d.txt", userID)
}
