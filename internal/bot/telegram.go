package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"
)

// Telegram adapts the Telegram Bot API (long polling via telebot) to the
// conversation machine: updates become Events, and the machine's outbound
// descriptors become messages with inline keyboards.
type Telegram struct {
	bot     *tele.Bot
	machine *Machine
	log     zerolog.Logger
}

// NewTelegram connects to the Bot API with the given token. The machine is
// attached in Run, because the machine itself needs the adapter as its
// Sender.
func NewTelegram(token string, log zerolog.Logger) (*Telegram, error) {
	t := &Telegram{log: log}
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, _ tele.Context) {
			log.Error().Err(err).Msg("telegram update failed")
		},
	})
	if err != nil {
		return nil, err
	}
	t.bot = b
	return t, nil
}

// Run registers the update handlers and blocks polling for updates until
// Stop is called.
func (t *Telegram) Run(m *Machine) {
	t.machine = m

	t.bot.Handle("/start", func(c tele.Context) error {
		t.dispatch(c, KindCommand, "/start")
		return nil
	})
	t.bot.Handle(tele.OnText, func(c tele.Context) error {
		t.dispatch(c, KindText, c.Text())
		return nil
	})
	t.bot.Handle(tele.OnCallback, func(c tele.Context) error {
		data := strings.TrimPrefix(c.Callback().Data, "\f")
		// Stop the client's loading spinner before doing any backend work.
		_ = c.Respond()
		// Views replace each other: drop the message the button hung off,
		// except for quantity presses, which leave the product view up.
		if !strings.Contains(data, countDelim) {
			_ = t.bot.Delete(c.Message())
		}
		t.dispatch(c, KindButton, data)
		return nil
	})

	t.bot.Start()
}

// Stop terminates the polling loop.
func (t *Telegram) Stop() {
	t.bot.Stop()
}

// dispatch normalizes one update into an Event and hands it to the machine.
// Errors never propagate back to telebot; the machine is the recovery
// boundary and has already logged anything that went wrong.
func (t *Telegram) dispatch(c tele.Context, kind Kind, value string) {
	ev := Event{
		Session:  strconv.FormatInt(c.Chat().ID, 10),
		UserName: displayName(c.Sender()),
		Kind:     kind,
		Value:    value,
	}
	t.log.Debug().
		Str("update_id", uuid.NewString()).
		Str("session", ev.Session).
		Stringer("kind", kind).
		Msg("update received")
	t.machine.Handle(context.Background(), ev)
}

// SendText implements Sender.
func (t *Telegram) SendText(_ context.Context, session, text string, keyboard [][]Button) error {
	to, err := recipient(session)
	if err != nil {
		return err
	}
	_, err = t.bot.Send(to, text, sendOptions(keyboard, ""))
	return err
}

// SendPhoto implements Sender. Captions carry backend-supplied rich text and
// are rendered as HTML, mirroring the product descriptions' format.
func (t *Telegram) SendPhoto(_ context.Context, session, url, caption string, keyboard [][]Button) error {
	to, err := recipient(session)
	if err != nil {
		return err
	}
	photo := &tele.Photo{File: tele.FromURL(url), Caption: caption}
	_, err = t.bot.Send(to, photo, sendOptions(keyboard, tele.ModeHTML))
	return err
}

// recipient parses a session id back into a chat id.
func recipient(session string) (tele.ChatID, error) {
	id, err := strconv.ParseInt(session, 10, 64)
	if err != nil {
		return 0, err
	}
	return tele.ChatID(id), nil
}

// sendOptions converts button descriptors into an inline keyboard.
func sendOptions(keyboard [][]Button, parseMode tele.ParseMode) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: parseMode}
	if len(keyboard) == 0 {
		return opts
	}
	rows := make([][]tele.InlineButton, 0, len(keyboard))
	for _, row := range keyboard {
		btns := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tele.InlineButton{Text: b.Label, Data: b.Data})
		}
		rows = append(rows, btns)
	}
	opts.ReplyMarkup = &tele.ReplyMarkup{InlineKeyboard: rows}
	return opts
}

// displayName builds a customer name from the sender's profile, falling back
// to the username when first/last names are absent.
func displayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		name = u.Username
	}
	return name
}
