package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sancris/concierge/internal/config"
	"github.com/sancris/concierge/internal/i18n"
	"github.com/sancris/concierge/internal/markup"
	"github.com/sancris/concierge/internal/telegram"
)

type sentMessage struct {
	chatID int64
	text   string
	opts   *telegram.SendOptions
}

type fakeTransport struct {
	failures int // SendMessage calls to reject before succeeding
	sent     []sentMessage
	deleted  []int
	acks     []string // toast text per callback acknowledgement
	nextID   int
}

func (f *fakeTransport) SendMessage(_ context.Context, chatID int64, html string, opts *telegram.SendOptions) (telegram.Message, error) {
	if f.failures > 0 {
		f.failures--
		return telegram.Message{}, errors.New("bad request: can't parse entities")
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: html, opts: opts})
	return telegram.Message{ID: f.nextID, ChatID: chatID}, nil
}

func (f *fakeTransport) SendPhoto(ctx context.Context, chatID int64, _, captionHTML string, opts *telegram.SendOptions) (telegram.Message, error) {
	return f.SendMessage(ctx, chatID, captionHTML, opts)
}

func (f *fakeTransport) EditMessageText(context.Context, int64, int, string) error { return nil }

func (f *fakeTransport) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTransport) AnswerCallback(_ context.Context, _ string, text string) error {
	f.acks = append(f.acks, text)
	return nil
}

func (f *fakeTransport) last() sentMessage {
	return f.sent[len(f.sent)-1]
}

type savedFeedback struct {
	chatID    int64
	userID    int64
	messageID int
	text      string
	rating    int
}

type fakeConv struct {
	summaries map[int64]string
	upsertErr error
	feedback  []savedFeedback
	saved     int
}

func newFakeConv() *fakeConv {
	return &fakeConv{summaries: make(map[int64]string)}
}

func (f *fakeConv) EnsureChat(context.Context, int64) (bool, error) { return false, nil }

func (f *fakeConv) SaveMessage(context.Context, int64, int64, string, string) error {
	f.saved++
	return nil
}

func (f *fakeConv) Summary(_ context.Context, chatID int64) (string, error) {
	return f.summaries[chatID], nil
}

func (f *fakeConv) UpsertSummary(_ context.Context, chatID int64, summary string) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.summaries[chatID] = summary
	return nil
}

func (f *fakeConv) SaveFeedback(_ context.Context, chatID, userID int64, messageID int, text string, rating int) error {
	f.feedback = append(f.feedback, savedFeedback{chatID, userID, messageID, text, rating})
	return nil
}

type fakeGen struct {
	answer       string
	answerErr    error
	prompts      []string
	summaryCalls [][]string
}

func (f *fakeGen) Answer(_ context.Context, prompt, _ string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.answerErr
}

func (f *fakeGen) UpdateSummary(_ context.Context, _ string, turns []string) (string, error) {
	f.summaryCalls = append(f.summaryCalls, turns)
	return "updated summary", nil
}

func (f *fakeGen) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

func (f *fakeGen) IsPlacesQuery(context.Context, string) (bool, error) { return false, nil }

// echoDetector reports the expected language, so no re-translation triggers.
type echoDetector struct{}

func (echoDetector) Detect(_, fallback string) string { return fallback }

func newTestBot(transport *fakeTransport, conv *fakeConv, gen *fakeGen, threshold int) *Bot {
	cfg := config.Config{
		SummaryThreshold: threshold,
		RecentWindow:     5,
		WeatherCity:      "San Cristóbal de las Casas",
	}
	return New(cfg, Deps{
		Transport: transport,
		Conv:      conv,
		Gen:       gen,
		Detector:  echoDetector{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func textUpdate(chatID int64, text string) telegram.Update {
	return telegram.Update{ChatID: chatID, UserID: 42, Text: text}
}

func TestPromptCarriesSummaryAndRecentTurns(t *testing.T) {
	transport := &fakeTransport{}
	conv := newFakeConv()
	conv.summaries[7] = "User likes budget hotels"
	gen := &fakeGen{answer: "Try the old town."}
	b := newTestBot(transport, conv, gen, 5)

	b.handleUpdate(context.Background(), textUpdate(7, "looking for food"))
	b.handleUpdate(context.Background(), textUpdate(7, "any recommendations?"))

	if len(gen.prompts) != 2 {
		t.Fatalf("expected 2 generation calls, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[1]
	if !strings.Contains(prompt, "Summary: User likes budget hotels") {
		t.Errorf("prompt missing summary:\n%s", prompt)
	}
	if !strings.Contains(prompt, "looking for food") {
		t.Errorf("prompt missing earlier turn:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "Now answer the following query: any recommendations?") {
		t.Errorf("prompt does not end with the query:\n%s", prompt)
	}
	if idx := strings.Index(prompt, "Summary:"); idx > strings.Index(prompt, "looking for food") {
		t.Errorf("summary should precede recent turns:\n%s", prompt)
	}
}

func TestAnswerTrackedForFeedback(t *testing.T) {
	transport := &fakeTransport{}
	conv := newFakeConv()
	gen := &fakeGen{answer: "Visit the <b>Arcotete</b> caves."}
	b := newTestBot(transport, conv, gen, 5)

	b.handleUpdate(context.Background(), textUpdate(3, "what should I see?"))

	sess := b.sessions.Get(3)
	id, text := sess.LastAnswer()
	if id == 0 {
		t.Fatal("last answer id not tracked")
	}
	if text != "Visit the <b>Arcotete</b> caves." {
		t.Errorf("tracked text = %q", text)
	}
	if opts := transport.last().opts; opts == nil || len(opts.Inline) == 0 {
		t.Error("answer should carry the rating keyboard")
	}
}

func TestSummarizationThreshold(t *testing.T) {
	transport := &fakeTransport{}
	conv := newFakeConv()
	gen := &fakeGen{answer: "ok"}
	b := newTestBot(transport, conv, gen, 3)

	for _, msg := range []string{"one", "two"} {
		b.handleUpdate(context.Background(), textUpdate(9, msg))
	}
	if len(gen.summaryCalls) != 0 {
		t.Fatalf("summarized below threshold: %d calls", len(gen.summaryCalls))
	}

	b.handleUpdate(context.Background(), textUpdate(9, "three"))
	if len(gen.summaryCalls) != 1 {
		t.Fatalf("expected 1 summarization, got %d", len(gen.summaryCalls))
	}
	if got := gen.summaryCalls[0]; len(got) != 3 || got[2] != "three" {
		t.Errorf("summarized turns = %v", got)
	}
	if conv.summaries[9] != "updated summary" {
		t.Errorf("stored summary = %q", conv.summaries[9])
	}
	if b.sessions.Get(9).PendingCount() != 0 {
		t.Error("pending buffer not cleared after summarization")
	}
}

func TestSummarizationPendingClearedOnStoreFailure(t *testing.T) {
	transport := &fakeTransport{}
	conv := newFakeConv()
	conv.upsertErr = errors.New("disk full")
	gen := &fakeGen{answer: "ok"}
	b := newTestBot(transport, conv, gen, 2)

	b.handleUpdate(context.Background(), textUpdate(4, "one"))
	b.handleUpdate(context.Background(), textUpdate(4, "two"))

	if b.sessions.Get(4).PendingCount() != 0 {
		t.Error("pending buffer must clear even when the summary write fails")
	}
}

func TestFeedbackCorrelation(t *testing.T) {
	transport := &fakeTransport{}
	conv := newFakeConv()
	gen := &fakeGen{answer: "answer one"}
	b := newTestBot(transport, conv, gen, 5)

	b.handleUpdate(context.Background(), textUpdate(5, "hello?"))
	id, _ := b.sessions.Get(5).LastAnswer()

	rate := func(messageID int, data string) telegram.Update {
		return telegram.Update{ChatID: 5, Callback: &telegram.Callback{
			ID: "cb", Data: data, ChatID: 5, UserID: 42, MessageID: messageID,
		}}
	}

	b.handleUpdate(context.Background(), rate(id, "rate:up"))
	if len(conv.feedback) != 1 {
		t.Fatalf("expected 1 feedback row, got %d", len(conv.feedback))
	}
	fb := conv.feedback[0]
	if fb.rating != 1 || fb.messageID != id || fb.text != "answer one" {
		t.Errorf("feedback = %+v", fb)
	}
	if got := transport.acks[len(transport.acks)-1]; got != i18n.T("en", "rating_thanks") {
		t.Errorf("recorded rating should toast thanks, got %q", got)
	}

	// A rating on a superseded message is ignored and gets a plain ack.
	b.handleUpdate(context.Background(), rate(id+100, "rate:down"))
	if len(conv.feedback) != 1 {
		t.Errorf("stale rating recorded: %d rows", len(conv.feedback))
	}
	if got := transport.acks[len(transport.acks)-1]; got != "" {
		t.Errorf("stale rating should ack without a toast, got %q", got)
	}
}

func TestSendCheckedRecoveryLadder(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("resanitize succeeds", func(t *testing.T) {
		transport := &fakeTransport{failures: 1}
		b := newTestBot(transport, newFakeConv(), &fakeGen{}, 5)
		if _, err := b.sendChecked(ctx, logger, 1, "en", "<u>hi</u>", nil); err != nil {
			t.Fatalf("sendChecked: %v", err)
		}
		if got := transport.last().text; got != "hi" {
			t.Errorf("retry should send re-sanitized text, got %q", got)
		}
	})

	t.Run("fallback notice", func(t *testing.T) {
		transport := &fakeTransport{failures: 2}
		b := newTestBot(transport, newFakeConv(), &fakeGen{}, 5)
		if _, err := b.sendChecked(ctx, logger, 1, "en", "<u>hi</u>", nil); err != nil {
			t.Fatalf("sendChecked: %v", err)
		}
		if got := transport.last().text; got != i18n.T("en", "generic_error") {
			t.Errorf("third attempt should be the fallback notice, got %q", got)
		}
	})

	t.Run("everything fails", func(t *testing.T) {
		transport := &fakeTransport{failures: 3}
		b := newTestBot(transport, newFakeConv(), &fakeGen{}, 5)
		if _, err := b.sendChecked(ctx, logger, 1, "en", "<u>hi</u>", nil); err == nil {
			t.Fatal("expected an error when the fallback notice fails too")
		}
	})
}

func TestLongAnswerDeliveredInSegments(t *testing.T) {
	transport := &fakeTransport{}
	conv := newFakeConv()
	gen := &fakeGen{answer: strings.TrimSpace(strings.Repeat("<b>tip</b> visit early ", 250))}
	b := newTestBot(transport, conv, gen, 5)

	b.handleUpdate(context.Background(), textUpdate(2, "long answer please"))

	if len(transport.sent) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(transport.sent))
	}
	for i, m := range transport.sent {
		if len(m.text) > markup.MessageLimit {
			t.Errorf("segment %d exceeds limit: %d bytes", i, len(m.text))
		}
	}
	if transport.sent[0].opts != nil {
		t.Error("only the final segment may carry reply controls")
	}
	if opts := transport.sent[1].opts; opts == nil || len(opts.Inline) == 0 {
		t.Error("final segment should carry the rating keyboard")
	}
}

func TestLanguageCallbackAppliesLanguage(t *testing.T) {
	transport := &fakeTransport{}
	b := newTestBot(transport, newFakeConv(), &fakeGen{}, 5)

	b.handleUpdate(context.Background(), telegram.Update{
		ChatID: 8, UserID: 42, FirstName: "Ana",
		Callback: &telegram.Callback{ID: "cb", Data: "lang:es", ChatID: 8, UserID: 42, MessageID: 11},
	})

	if got := b.sessions.Get(8).Lang; got != "es" {
		t.Errorf("session language = %q", got)
	}
	if got := transport.acks[len(transport.acks)-1]; got != i18n.T("es", "language_set") {
		t.Errorf("ack should confirm the new language, got %q", got)
	}
	if len(transport.deleted) != 1 || transport.deleted[0] != 11 {
		t.Errorf("chooser message not removed: %v", transport.deleted)
	}
	greeting := transport.last()
	if !strings.Contains(greeting.text, "Ana") {
		t.Error("greeting should address the user by name")
	}
	if greeting.opts == nil || len(greeting.opts.Menu) == 0 {
		t.Fatal("greeting should attach the menu keyboard")
	}
	var labels []string
	for _, row := range greeting.opts.Menu {
		labels = append(labels, row...)
	}
	if !strings.Contains(strings.Join(labels, ","), "Alojamiento") {
		t.Errorf("menu not localized: %v", labels)
	}
}

// fakeSource feeds a fixed batch of updates and closes the channel.
type fakeSource struct {
	updates []telegram.Update
}

func (f fakeSource) Updates(context.Context) <-chan telegram.Update {
	ch := make(chan telegram.Update, len(f.updates))
	for _, u := range f.updates {
		ch <- u
	}
	close(ch)
	return ch
}

func TestRunKeepsPerChatOrder(t *testing.T) {
	transport := &fakeTransport{}
	conv := newFakeConv()
	gen := &fakeGen{answer: "ok"}
	b := newTestBot(transport, conv, gen, 50)

	msgs := []string{"first", "second", "third", "fourth", "fifth"}
	var updates []telegram.Update
	for _, m := range msgs {
		updates = append(updates, textUpdate(6, m))
	}
	b.Run(context.Background(), fakeSource{updates: updates})

	recent := b.sessions.Get(6).Recent()
	if len(recent) != len(msgs) {
		t.Fatalf("got %d recent turns, want %d", len(recent), len(msgs))
	}
	for i, m := range msgs {
		if recent[i] != m {
			t.Errorf("turn %d = %q, want %q", i, recent[i], m)
		}
	}
}

func TestMenuKeyboardRows(t *testing.T) {
	for _, lang := range []string{"en", "es"} {
		rows := menuKeyboard(lang)
		if len(rows) != 3 {
			t.Fatalf("%s: got %d rows, want 3", lang, len(rows))
		}
		for i, want := range []int{3, 2, 3} {
			if len(rows[i]) != want {
				t.Errorf("%s: row %d has %d labels, want %d", lang, i, len(rows[i]), want)
			}
		}
	}
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data string
		want callbackData
	}{
		{"lang:en", callbackData{kind: callbackLanguage, lang: "en"}},
		{"lang:es", callbackData{kind: callbackLanguage, lang: "es"}},
		{"lang:fr", callbackData{}},
		{"tour:12", callbackData{kind: callbackTour, id: 12}},
		{"accom:3", callbackData{kind: callbackLodging, id: 3}},
		{"attr:9", callbackData{kind: callbackAttraction, id: 9}},
		{"rest:4", callbackData{kind: callbackRestaurant, id: 4}},
		{"tour:abc", callbackData{}},
		{"tour:-1", callbackData{}},
		{"rate:up", callbackData{kind: callbackRate, rating: 1}},
		{"rate:down", callbackData{kind: callbackRate, rating: -1}},
		{"rate:sideways", callbackData{}},
		{"banana", callbackData{}},
		{"", callbackData{}},
	}
	for _, tt := range tests {
		if got := parseCallback(tt.data); got != tt.want {
			t.Errorf("parseCallback(%q) = %+v, want %+v", tt.data, got, tt.want)
		}
	}
}
