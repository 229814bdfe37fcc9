package handlers

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"gocloud.dev/blob/memblob"

	"github.com/lingosleuth/detectivebot/internal/config"
	"github.com/lingosleuth/detectivebot/internal/content"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/llm"
	"github.com/lingosleuth/detectivebot/internal/metrics"
	"github.com/lingosleuth/detectivebot/internal/progress"
	"github.com/lingosleuth/detectivebot/internal/session"
	"github.com/lingosleuth/detectivebot/internal/storage"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

const (
	testUser int64 = 42
	testChat int64 = 42
)

type recordingAPI struct {
	mu       sync.Mutex
	nextID   int
	sent     []*bot.SendMessageParams
	edits    []*bot.EditMessageTextParams
	keyboard []*bot.EditMessageReplyMarkupParams
	deleted  []int
	photos   int
}

func (f *recordingAPI) message(chatID int64) *models.Message {
	f.nextID++
	return &models.Message{ID: f.nextID, Chat: models.Chat{ID: chatID}}
}

func (f *recordingAPI) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, p)
	return f.message(p.ChatID.(int64)), nil
}

func (f *recordingAPI) EditMessageText(_ context.Context, p *bot.EditMessageTextParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, p)
	return &models.Message{ID: p.MessageID}, nil
}

func (f *recordingAPI) EditMessageReplyMarkup(_ context.Context, p *bot.EditMessageReplyMarkupParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keyboard = append(f.keyboard, p)
	return &models.Message{ID: p.MessageID}, nil
}

func (f *recordingAPI) DeleteMessage(_ context.Context, p *bot.DeleteMessageParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, p.MessageID)
	return true, nil
}

func (f *recordingAPI) AnswerCallbackQuery(context.Context, *bot.AnswerCallbackQueryParams) (bool, error) {
	return true, nil
}

func (f *recordingAPI) SendChatAction(context.Context, *bot.SendChatActionParams) (bool, error) {
	return true, nil
}

func (f *recordingAPI) SendPhoto(_ context.Context, p *bot.SendPhotoParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos++
	return f.message(p.ChatID.(int64)), nil
}

func (f *recordingAPI) PinChatMessage(context.Context, *bot.PinChatMessageParams) (bool, error) {
	return true, nil
}

func (f *recordingAPI) SetMyCommands(context.Context, *bot.SetMyCommandsParams) (bool, error) {
	return true, nil
}

func (f *recordingAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, p := range f.sent {
		out = append(out, p.Text)
	}
	return out
}

func (f *recordingAPI) lastEdit() *bot.EditMessageTextParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edits) == 0 {
		return nil
	}
	return f.edits[len(f.edits)-1]
}

type stubGateway struct {
	mu       sync.Mutex
	reply    string
	words    []string
	summary  string
	cleared  int
	explains []string
}

func (g *stubGateway) Dialogue(context.Context, int64, string, string, string) string {
	return g.reply
}

func (g *stubGateway) ClearHistory(int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cleared++
}

func (g *stubGateway) TutorAnalysis(context.Context, int64, string) llm.Analysis {
	return llm.Analysis{}
}

func (g *stubGateway) TutorExplanation(_ context.Context, _ int64, text, _ string) llm.Explanation {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.explains = append(g.explains, text)
	return llm.Explanation{Definition: "a meaning of " + text, Examples: []string{"An example."}}
}

func (g *stubGateway) TutorFinalSummary(context.Context, int64, any) llm.Summary {
	return llm.Summary{Summary: g.summary}
}

func (g *stubGateway) SpotWords(context.Context, string) []string {
	return g.words
}

type stubReminders struct {
	mu        sync.Mutex
	scheduled map[int64]time.Time
	cancelled []int64
}

func (r *stubReminders) Schedule(userID int64, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scheduled == nil {
		r.scheduled = make(map[int64]time.Time)
	}
	r.scheduled[userID] = at
}

func (r *stubReminders) Cancel(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scheduled, userID)
	r.cancelled = append(r.cancelled, userID)
}

type harness struct {
	deps      HandlerDeps
	api       *recordingAPI
	gateway   *stubGateway
	reminders *stubReminders
	backend   storage.Store
}

func testContent() fstest.MapFS {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }
	return fstest.MapFS{
		"game_texts/Clue1.txt":              file("The initial police report."),
		"game_texts/Clue4.txt":              file("The apartment was a mess."),
		"game_texts/common_space.txt":       file("Everyone is in the living room.\n"),
		"game_texts/outro_win.txt":          file("You got him!"),
		"game_texts/outro_lose.txt":         file("The culprit walks free."),
		"game_texts/defense_fiona.txt":      file("Fiona: It wasn't me!"),
		"game_texts/defense_ronnie.txt":     file("Ronnie: No way, mate."),
		"game_texts/reveal_1_truth.txt":     file("The truth."),
		"game_texts/reveal_5_motive.txt":    file("The motive."),
		"game_texts/outro_questionnaire.txt": file("Please fill in the questionnaire."),
		"prompts/prompt_narrator.md":        file("You narrate."),
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend := storage.NewBucketStore(memblob.OpenBucket(nil), log)
	t.Cleanup(func() { _ = backend.Close() })

	api := &recordingAPI{}
	gw := &stubGateway{reply: "The narrator speaks.", summary: "Well done."}
	rem := &stubReminders{}
	m := metrics.Nop()

	cfg := &config.Config{
		Messages: config.DefaultMessages,
		Game: config.GameConfig{
			PostTestDelay:   20 * time.Minute,
			AnalysisTimeout: time.Second,
		},
	}

	deps := HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Messenger: telegram.NewMessenger(api, telegram.MaxMessageLength, 0, log),
		Sessions:  session.New(backend, m, log),
		Progress:  progress.NewStore(backend, time.UTC, m, log),
		ChatLog:   progress.NewChatLog(backend, time.UTC, m, log),
		Gateway:   gw,
		Resolver:  game.NewResolver(game.NewShortcuts(game.DefaultTopics, func(int) int { return 0 }), nil, log),
		Content:   content.NewLoader(testContent(), log),
		Reminders: rem,
		Metrics:   m,
		Messages:  NewMessageCache(0),
	}
	return &harness{deps: deps, api: api, gateway: gw, reminders: rem, backend: backend}
}

// investigating puts a session in the investigation phase.
func (h *harness) investigating(t *testing.T) *game.Session {
	t.Helper()
	sess := game.NewSession()
	sess.SetParticipantCode("AN0842")
	sess.StartInvestigation(time.Now())
	h.deps.Sessions.Put(testUser, sess)
	return sess
}

// press dispatches a button press the way Telegram delivers it.
func (h *harness) press(t *testing.T, data string) {
	t.Helper()
	update := &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "q",
			From: models.User{ID: testUser},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Type:    models.MaybeInaccessibleMessageTypeMessage,
				Message: &models.Message{ID: 500, Chat: models.Chat{ID: testChat}},
			},
		},
	}
	NewCallbackHandler(h.deps)(context.Background(), nil, update)
}
