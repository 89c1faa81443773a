package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/MovieExplore/internal/core"
	"github.com/vadimtrunov/MovieExplore/internal/detail"
	"github.com/vadimtrunov/MovieExplore/internal/listing"
)

const (
	unauthorizedMsg = "Sorry, you are not authorized to use this bot."
	resetMsg        = "Search reset. Send /movies to start over."
	unknownMsg      = "Unknown command. Send /help for the list of commands."

	movieCallback  = "movie:"  // movie:<id>
	personCallback = "person:" // person:<actors|directors>:<id>

	maxListed      = 20 // movies listed per reply
	maxButtonLabel = 30 // max characters in inline keyboard button label
)

const helpText = `Browse the movie catalogue.

/movies - show the current listing
/search <text> - search by the selected filter (plain text works too)
/filter <title|genre|actor|director> - choose what the search matches
/genres - list genres
/genre <name> - select or deselect a genre
/movie <id> - movie details and reviews
/actor <id>, /director <id> - profile and filmography
/reset - clear search and filters`

// router turns commands and callbacks into replies. It does not talk to
// Telegram, so it can be exercised directly.
type router struct {
	catalog core.Catalog
	logger  *slog.Logger
}

// handle processes one text message against a user's listing controller.
func (r *router) handle(ctx context.Context, ctrl *listing.Controller, text string) reply {
	cmd, arg := splitCommand(text)
	switch cmd {
	case "":
		return r.search(ctx, ctrl, arg)
	case "start":
		r.ensureStarted(ctx, ctrl)
		var m message
		m.bold("Welcome to Movie Explorer!").nl().nl().text(helpText)
		return m.reply()
	case "help":
		return plainReply(helpText)
	case "movies":
		r.ensureStarted(ctx, ctrl)
		if ctrl.ShowRetry() {
			r.run(ctx, ctrl, ctrl.Reload)
		}
		return listingReply(ctrl)
	case "search":
		return r.search(ctx, ctrl, arg)
	case "filter":
		return r.filter(ctx, ctrl, arg)
	case "genres":
		r.ensureStarted(ctx, ctrl)
		return genresReply(ctrl)
	case "genre":
		return r.toggleGenre(ctx, ctrl, arg)
	case "movie":
		id, err := parseID(arg)
		if err != nil {
			return plainReply("Usage: /movie <id>")
		}
		return r.movie(ctx, id)
	case "actor", "director":
		kind, _ := core.ParsePersonKind(cmd)
		id, err := parseID(arg)
		if err != nil {
			return plainReply(fmt.Sprintf("Usage: /%s <id>", cmd))
		}
		return r.person(ctx, kind, id)
	}
	return plainReply(unknownMsg)
}

// callback processes inline keyboard data.
func (r *router) callback(ctx context.Context, data string) (reply, bool) {
	switch {
	case strings.HasPrefix(data, movieCallback):
		id, err := parseID(strings.TrimPrefix(data, movieCallback))
		if err != nil {
			return reply{}, false
		}
		return r.movie(ctx, id), true
	case strings.HasPrefix(data, personCallback):
		kindStr, idStr, ok := strings.Cut(strings.TrimPrefix(data, personCallback), ":")
		if !ok {
			return reply{}, false
		}
		kind, err := core.ParsePersonKind(kindStr)
		if err != nil {
			return reply{}, false
		}
		id, err := parseID(idStr)
		if err != nil {
			return reply{}, false
		}
		return r.person(ctx, kind, id), true
	}
	return reply{}, false
}

// ensureStarted performs the first listing load of a session.
func (r *router) ensureStarted(ctx context.Context, ctrl *listing.Controller) {
	if req, ok := ctrl.Start(); ok {
		ctrl.LoadGenres(ctx)
		ctrl.Run(ctx, req)
	}
}

// run applies a controller change and performs the fetch it asks for.
func (r *router) run(ctx context.Context, ctrl *listing.Controller, change func() (listing.Request, bool)) {
	if req, ok := change(); ok {
		ctrl.Run(ctx, req)
	}
}

// search commits text immediately; each message is one finished search.
// Text sent before a filter is chosen searches titles.
func (r *router) search(ctx context.Context, ctrl *listing.Controller, text string) reply {
	r.ensureStarted(ctx, ctrl)
	var (
		req listing.Request
		ok  bool
	)
	if text != "" && (ctrl.Filter() == listing.FilterNone || ctrl.Filter() == listing.FilterGenre) {
		req, ok = ctrl.SetFilterType(listing.FilterTitle)
	}
	ctrl.SetSearchText(text)
	if commit, issued := ctrl.CommitSearch(text); issued {
		req, ok = commit, true
	}
	if ok {
		ctrl.Run(ctx, req)
	}
	return listingReply(ctrl)
}

func (r *router) filter(ctx context.Context, ctrl *listing.Controller, arg string) reply {
	ft, err := listing.ParseFilterType(arg)
	if err != nil || ft == listing.FilterNone {
		return plainReply("Usage: /filter <title|genre|actor|director>")
	}
	r.ensureStarted(ctx, ctrl)
	r.run(ctx, ctrl, func() (listing.Request, bool) { return ctrl.SetFilterType(ft) })
	return listingReply(ctrl)
}

func (r *router) toggleGenre(ctx context.Context, ctrl *listing.Controller, arg string) reply {
	r.ensureStarted(ctx, ctrl)
	if len(ctrl.Genres()) == 0 {
		ctrl.LoadGenres(ctx)
	}
	name, ok := matchGenre(ctrl.Genres(), arg)
	if !ok {
		return genresReply(ctrl)
	}
	if ctrl.Filter() != listing.FilterGenre {
		// Superseded by the toggle below, so its result is never fetched.
		_, _ = ctrl.SetFilterType(listing.FilterGenre)
	}
	r.run(ctx, ctrl, func() (listing.Request, bool) { return ctrl.ToggleGenre(name) })
	return listingReply(ctrl)
}

func (r *router) movie(ctx context.Context, id int) reply {
	view := detail.MovieView(ctx, r.catalog, id)
	switch view.Phase() {
	case detail.PhaseNotFound:
		return plainReply(detail.MovieNotFoundMessage)
	case detail.PhaseFailed:
		r.logger.Warn("movie page failed", slog.Int("movie_id", id))
		return plainReply(view.Message())
	}
	return movieReply(view.Data())
}

func (r *router) person(ctx context.Context, kind core.PersonKind, id int) reply {
	view := detail.PersonView(ctx, r.catalog, kind, id)
	switch view.Phase() {
	case detail.PhaseNotFound:
		return plainReply(detail.PersonNotFoundMessage)
	case detail.PhaseFailed:
		r.logger.Warn("person page failed", slog.String("kind", string(kind)), slog.Int("person_id", id))
		return plainReply(view.Message())
	}
	return personReply(kind, view.Data())
}

// listingReply renders the controller state: criteria, then either the
// failure, the empty-state message or the movies with one button each.
func listingReply(ctrl *listing.Controller) reply {
	var m message

	m.italic("Filter: " + ctrl.Filter().Label())
	if ctrl.DebouncedText() != "" {
		m.italic(fmt.Sprintf(" · %q", ctrl.DebouncedText()))
	}
	if ctrl.Filter() == listing.FilterGenre && ctrl.Selected().Len() > 0 {
		m.italic(" · " + strings.Join(ctrl.Selected().Names(), ", "))
	}
	m.nl().nl()

	switch {
	case ctrl.ShowRetry():
		m.text(ctrl.Err()).nl().text("Send /movies to retry.")
		return m.reply()
	case ctrl.EmptyMessage() != "":
		m.text(ctrl.EmptyMessage())
		return m.reply()
	}

	movies := ctrl.Movies()
	for i, mv := range movies {
		if i == maxListed {
			m.textf("…and %d more. Narrow the search to see them.", len(movies)-maxListed).nl()
			break
		}
		m.textf("%d. ", i+1).bold(mv.Title).textf(" (%d) %.1f", mv.ReleaseYear, mv.DisplayRating()).nl()
		m.button(fmt.Sprintf("%s (%d)", mv.Title, mv.ReleaseYear), movieCallback+strconv.Itoa(mv.ID))
	}
	if ctrl.Err() != "" {
		m.nl().italic(ctrl.Err())
	}
	return m.reply()
}

func genresReply(ctrl *listing.Controller) reply {
	var m message
	if len(ctrl.Genres()) == 0 {
		return plainReply("No genres available.")
	}
	m.bold("Genres").nl()
	for _, g := range ctrl.Genres() {
		mark := "○"
		if ctrl.Selected().Contains(g) {
			mark = "●"
		}
		m.textf("%s %s", mark, g).nl()
	}
	m.nl().text("Toggle one with /genre <name>.")
	return m.reply()
}

func movieReply(page *detail.Movie) reply {
	var m message
	mv := page.Movie

	m.bold(mv.Title).textf(" (%d)", mv.ReleaseYear).nl()
	if names := mv.GenreNames(); len(names) > 0 {
		m.italic(strings.Join(names, ", ")).nl()
	}
	m.text(RatingBar(mv.Rating, 10)).nl().nl()
	m.text(mv.Description).nl().nl()

	if mv.Director.ID != 0 {
		m.bold("Director: ").text(mv.Director.FullName()).nl()
		m.button("🎬 "+mv.Director.FullName(), fmt.Sprintf("%s%s:%d", personCallback, core.KindDirectors, mv.Director.ID))
	}
	if len(mv.Actors) > 0 {
		names := make([]string, len(mv.Actors))
		for i, a := range mv.Actors {
			names[i] = a.FullName()
			m.button("🎭 "+a.FullName(), fmt.Sprintf("%s%s:%d", personCallback, core.KindActors, a.ID))
		}
		m.bold("Cast: ").text(strings.Join(names, ", ")).nl()
	}

	m.nl().bold(fmt.Sprintf("Reviews (%d)", len(page.Reviews))).nl()
	if len(page.Reviews) == 0 {
		m.text("No reviews yet.").nl()
	}
	for _, rv := range page.Reviews {
		m.textf("%s · %s · %s", detail.ReviewScore(rv), rv.ReviewerName, detail.ReviewDate(rv)).nl()
		if rv.Comment != "" {
			m.italic(rv.Comment).nl()
		}
	}
	return m.reply()
}

func personReply(kind core.PersonKind, p *core.PersonWithMovies) reply {
	var m message

	m.italic(kind.Label()).nl()
	m.bold(p.FullName()).nl()
	m.textf("Age: %d · Total Movies: %d", p.Age, len(p.Movies)).nl().nl()

	m.bold(detail.FilmographyHeading(kind)).nl()
	if len(p.Movies) == 0 {
		m.text(detail.EmptyFilmographyMessage(kind))
		return m.reply()
	}
	for _, mv := range p.Movies {
		m.textf("• %s (%d) %.1f", mv.Title, mv.ReleaseYear, mv.DisplayRating()).nl()
		m.button(fmt.Sprintf("%s (%d)", mv.Title, mv.ReleaseYear), movieCallback+strconv.Itoa(mv.ID))
	}
	return m.reply()
}

// splitCommand separates "/cmd@bot arg" into ("cmd", "arg"). Text that is
// not a command comes back as ("", text).
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, arg, _ := strings.Cut(text[1:], " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func matchGenre(genres []string, name string) (string, bool) {
	for _, g := range genres {
		if strings.EqualFold(g, strings.TrimSpace(name)) {
			return g, true
		}
	}
	return "", false
}

// handleMessage processes an incoming text message.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	b.logger.Debug("received message",
		slog.Int64("user_id", userID),
	)

	if !b.sessions.isAllowed(userID) {
		b.send(chatID, plainReply(unauthorizedMsg))
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	if cmd, _ := splitCommand(text); cmd == "reset" {
		b.sessions.reset(userID)
		b.send(chatID, plainReply(resetMsg))
		return
	}

	typing := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	b.api.Send(typing) //nolint:errcheck // best-effort typing indicator

	s := b.sessions.getOrCreate(userID)
	s.mu.Lock()
	r := b.router.handle(ctx, s.ctrl, text)
	s.mu.Unlock()

	b.send(chatID, r)
}

// handleCallback processes inline keyboard callback queries.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	userID := cq.From.ID

	b.logger.Debug("received callback",
		slog.Int64("user_id", userID),
		slog.String("data", cq.Data),
	)

	// Acknowledge the callback immediately.
	callback := tgbotapi.NewCallback(cq.ID, "")
	b.api.Send(callback) //nolint:errcheck // best-effort ack

	if !b.sessions.isAllowed(userID) || cq.Message == nil {
		return
	}

	r, ok := b.router.callback(ctx, cq.Data)
	if !ok {
		b.logger.Debug("ignoring unknown callback", slog.String("data", cq.Data))
		return
	}
	b.send(cq.Message.Chat.ID, r)
}

// send delivers a reply as MarkdownV2, retrying as plain text if Telegram
// rejects the markup.
func (b *Bot) send(chatID int64, r reply) {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if r.Keyboard != nil {
		msg.ReplyMarkup = r.Keyboard
	}
	_, err := b.api.Send(msg)
	if err == nil {
		return
	}
	b.logger.Warn("failed to send markdown, retrying plain",
		slog.String("error", err.Error()),
	)

	plain := tgbotapi.NewMessage(chatID, r.Plain)
	if r.Keyboard != nil {
		plain.ReplyMarkup = r.Keyboard
	}
	if _, err := b.api.Send(plain); err != nil {
		b.logger.Error("failed to send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}
