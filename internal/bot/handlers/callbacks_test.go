package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/storage"
)

func TestCallbackRoutesCoverEveryAction(t *testing.T) {
	t.Parallel()
	for _, a := range callbackdata.AllActions() {
		_, ok := callbackRoutes[a]
		assert.True(t, ok, "no route for %s", a)
	}
	assert.Len(t, callbackRoutes, len(callbackdata.AllActions()))
}

func TestAllowedAfterCompletion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		action callbackdata.Action
		want   bool
	}{
		{callbackdata.Final, true},
		{callbackdata.Reveal, true},
		{callbackdata.RevealCustom, true},
		{callbackdata.Restart, true},
		{callbackdata.Clue, false},
		{callbackdata.Accuse, false},
		{callbackdata.Menu, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, allowedAfterCompletion(tt.action), tt.action)
	}
}

func TestExplainKeyboardSkipsOversizedWords(t *testing.T) {
	t.Parallel()
	kb := explainKeyboard(12, []string{"alibi", strings.Repeat("x", 70)})

	var labels []string
	for _, row := range kb.InlineKeyboard {
		labels = append(labels, row[0].Text)
		assert.LessOrEqual(t, len(row[0].CallbackData), callbackdata.MaxLength)
	}
	assert.Equal(t, []string{"'alibi'", "💬 The whole sentence", "✍️ A different word..."}, labels)
	assert.Equal(t, "explain__word__12__alibi", kb.InlineKeyboard[0][0].CallbackData)
}

func TestExpiredButtonWithoutSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.press(t, "clue__1")

	edit := h.api.lastEdit()
	require.NotNil(t, edit)
	assert.Equal(t, h.deps.Config.Messages.ExpiredButton, edit.Text)
}

func TestMalformedCallbackData(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.investigating(t)

	h.press(t, "teleport__now")
	require.NotNil(t, h.api.lastEdit())
	assert.Equal(t, h.deps.Config.Messages.UnknownAction, h.api.lastEdit().Text)

	h.press(t, "clue__9")
	assert.Equal(t, h.deps.Config.Messages.UnknownAction, h.api.lastEdit().Text)
}

func TestCompletedGameRejectsGameplay(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := h.investigating(t)
	_, err := sess.Accuse(game.Culprit)
	require.NoError(t, err)

	h.press(t, "clue__1")

	assert.Equal(t, h.deps.Config.Messages.GameCompleted, h.api.lastEdit().Text)
	assert.Empty(t, sess.CluesExamined)
}

func TestLastClueUnlocksAccusation(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := h.investigating(t)
	for _, id := range []string{"1", "2", "3"} {
		sess.ExamineClue(id)
	}
	for _, k := range game.SuspectKeys {
		sess.MarkInterrogated(k)
	}

	h.press(t, "clue__4")

	assert.True(t, sess.AccuseUnlocked)
	assert.Contains(t, h.api.texts(), "The apartment was a mess.")

	// The clue text is explainable.
	msgID := h.api.nextID
	cached, ok := h.deps.Messages.Get(testChat, msgID)
	require.True(t, ok)
	assert.Equal(t, "The apartment was a mess.", cached.Text)
	assert.Empty(t, cached.CharacterKey)

	_, err := h.backend.Read(context.Background(), storage.GameStateKey(testUser))
	assert.NoError(t, err)
}

func TestTalkEntersPrivateMode(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := h.investigating(t)

	h.press(t, "talk__fiona")

	assert.Equal(t, game.ModePrivate, sess.Mode)
	assert.Equal(t, game.Fiona, sess.CurrentCharacter)
	assert.Contains(t, h.api.deleted, 500)
	require.NotEmpty(t, h.api.texts())
	assert.Contains(t, h.api.texts()[0], "The narrator speaks.")

	h.press(t, "talk__tutor")
	assert.Equal(t, h.deps.Config.Messages.UnknownAction, h.api.lastEdit().Text)
	assert.Equal(t, game.Fiona, sess.CurrentCharacter)
}

func TestPublicModeLeavesPrivateTalk(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := h.investigating(t)
	sess.EnterPrivate(game.Ronnie)

	h.press(t, "mode__public")

	assert.Equal(t, game.ModePublic, sess.Mode)
	assert.Empty(t, sess.CurrentCharacter)
	require.NotEmpty(t, h.api.texts())
	assert.Contains(t, h.api.texts()[0], "Everyone is in the living room.")
}

func TestAccuseWarnsWhenInvestigationIncomplete(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.investigating(t)

	h.press(t, "accuse__init")

	edit := h.api.lastEdit()
	require.NotNil(t, edit)
	assert.Contains(t, edit.Text, "4 more clues and 4 more suspects")
}

func TestAccuseCulpritWins(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := h.investigating(t)

	h.press(t, "accuse__confirm__tim")

	assert.True(t, sess.GameCompleted)
	assert.Equal(t, game.Tim, sess.AccusedCharacter)
	assert.Contains(t, h.api.texts(), "You got him!")
	assert.Contains(t, h.reminders.cancelled, testUser)
}

func TestTwoWrongAccusationsLose(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := h.investigating(t)

	h.press(t, "accuse__confirm__fiona")
	assert.False(t, sess.GameCompleted)
	assert.Equal(t, 1, sess.AccusationAttempts)
	assert.Contains(t, h.api.texts(), "Fiona: It wasn't me!")
	assert.Contains(t, h.api.texts(), "What would you like to do next?")

	h.press(t, "accuse__confirm__ronnie")
	assert.True(t, sess.GameCompleted)
	assert.Equal(t, game.Ronnie, sess.AccusedCharacter)
	assert.Contains(t, h.api.lastEdit().Text, "(Attempt 2/2)")
	assert.Contains(t, h.api.texts(), "The culprit walks free.")
}

func TestExplainFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := h.investigating(t)
	h.gateway.words = []string{"alibi"}
	h.deps.Messages.Put(testChat, 77, CachedMessage{Text: "I have an alibi.", CharacterKey: game.Tim})

	h.press(t, "explain__init__77")
	require.Len(t, h.api.keyboard, 1)
	kb := h.api.keyboard[0].ReplyMarkup
	require.NotNil(t, kb)

	h.press(t, "explain__word__77__alibi")
	assert.Equal(t, []string{"alibi"}, h.gateway.explains)

	rec := h.deps.Progress.Get(context.Background(), testUser, sess.ParticipantCode)
	require.Len(t, rec.WordsLearned, 1)
	assert.Equal(t, "alibi", rec.WordsLearned[0].Query)

	h.press(t, "explain__other")
	assert.True(t, sess.WaitingForWord)
	assert.Contains(t, h.api.texts(), askForWord)
}

func TestShortRevealAfterWin(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := h.investigating(t)
	_, err := sess.Accuse(game.Culprit)
	require.NoError(t, err)

	h.press(t, "reveal_custom__start")

	assert.Equal(t, "The truth.", h.api.lastEdit().Text)
	assert.Contains(t, h.api.texts(), "The motive.")
	assert.Equal(t, 1, sess.CustomRevealStep)
}

func TestFinalReportForgetsPlayer(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	sess := h.investigating(t)
	h.deps.Progress.AddWord(ctx, testUser, sess.ParticipantCode, "alibi", "proof of being elsewhere")
	_, err := sess.Accuse(game.Culprit)
	require.NoError(t, err)
	h.deps.Sessions.Save(ctx, testUser)

	h.press(t, "final__report")

	texts := h.api.texts()
	require.NotEmpty(t, texts)
	assert.Contains(t, texts[len(texts)-1], "Well done.")
	assert.Contains(t, texts[len(texts)-1], "<code>alibi</code>")
	assert.Equal(t, h.deps.Config.Messages.Farewell, h.api.lastEdit().Text)

	assert.False(t, h.deps.Sessions.Cached(testUser))
	_, ok := h.deps.Sessions.Get(ctx, testUser)
	assert.False(t, ok)
	assert.True(t, h.deps.Progress.Get(ctx, testUser, sess.ParticipantCode).Empty())
	assert.Equal(t, 1, h.gateway.cleared)
}
