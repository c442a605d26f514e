// Package bot is a Telegram front end for the task board: operators
// listed in BOT_ADMIN_IDS can read the board and issue task commands
// from a chat.
package bot

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/service"
	"taskboard/internal/taskstore"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxBoardLines = 20

// Bot handles task commands via Telegram
type Bot struct {
	api      *tgbotapi.BotAPI
	tasks    *service.TaskService
	adminIDs []int64 // Telegram user IDs allowed to use the bot
	stopCh   chan struct{}
	wg       sync.WaitGroup
	log      *slog.Logger
}

// New authorizes token against the Bot API.
func New(token string, tasks *service.TaskService, adminIDs []int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	b := newBot(tasks, adminIDs)
	b.api = api
	b.log.Info("bot authorized", "username", api.Self.UserName, "admins", len(adminIDs))
	return b, nil
}

func newBot(tasks *service.TaskService, adminIDs []int64) *Bot {
	return &Bot{
		tasks:    tasks,
		adminIDs: adminIDs,
		stopCh:   make(chan struct{}),
		log:      logger.With("component", "bot"),
	}
}

// Start listens for updates until Stop is called.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || msg.From == nil || !msg.IsCommand() {
				continue
			}
			if !b.isAdmin(msg.From.ID) {
				b.log.Debug("ignoring command from non-admin", "tg_id", msg.From.ID)
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(msg)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	b.log.Info("stopping bot...")
	close(b.stopCh)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	for _, id := range b.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = service.WithActor(ctx, "tg:"+strconv.FormatInt(msg.From.ID, 10))

	reply := tgbotapi.NewMessage(msg.Chat.ID, b.respond(ctx, msg.Command(), msg.CommandArguments()))
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyToMessageID = msg.MessageID

	if _, err := b.api.Send(reply); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}

// respond runs one command and renders the HTML reply.
func (b *Bot) respond(ctx context.Context, command, args string) string {
	args = strings.TrimSpace(args)
	switch command {
	case "start", "help":
		return helpMessage
	case "stats":
		return b.handleStats()
	case "board":
		return b.handleBoard(args)
	case "add":
		return b.handleAdd(ctx, args)
	case "done":
		return b.handleToggle(ctx, args)
	case "delete":
		return b.handleDelete(ctx, args)
	case "activity":
		return b.handleActivity(ctx, args)
	default:
		return "Unknown command. Use /help for the list of commands."
	}
}

const helpMessage = `<b>Task board</b>

/board [all|pending|completed|high|overdue] [search] - list tasks
/stats - counts and completion rate
/add &lt;title&gt; [!high|!medium|!low] [#Category] [due:YYYY-MM-DD] - add a task
/done &lt;id&gt; - toggle completion
/delete &lt;id&gt; - delete a task
/activity [limit] - recent changes`

func (b *Bot) handleStats() string {
	a := b.tasks.Analytics(domain.Date{})

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>Stats for %s</b>\n\n", b.tasks.Today())
	fmt.Fprintf(&sb, "Total: %d\nCompleted: %d\nPending: %d\nOverdue: %d\nCompletion rate: %d%%\n",
		a.Total, a.Completed, a.Pending, a.Overdue, a.CompletionRate)
	if len(a.Categories) > 0 {
		sb.WriteString("\n<b>Categories</b>\n")
		for _, c := range a.Categories {
			fmt.Fprintf(&sb, "• %s: %d\n", html.EscapeString(string(c.Category)), c.Count)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) handleBoard(args string) string {
	var q service.BoardQuery
	q.Filter = domain.FilterAll
	search := args
	if first, rest, _ := strings.Cut(args, " "); first != "" {
		if m, err := domain.ParseFilterMode(first); err == nil {
			q.Filter = m
			search = strings.TrimSpace(rest)
		}
	}
	q.Search = &search

	view := b.tasks.Board(q)
	if len(view.Tasks) == 0 {
		return fmt.Sprintf("No %s tasks.", view.Filter)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s tasks</b> (%d)\n\n", view.Filter, len(view.Tasks))
	for i, card := range view.Tasks {
		if i == maxBoardLines {
			fmt.Fprintf(&sb, "… and %d more\n", len(view.Tasks)-maxBoardLines)
			break
		}
		sb.WriteString(cardLine(card))
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func cardLine(card service.TaskCard) string {
	mark := "☐"
	if card.Completed {
		mark = "☑"
	}
	line := fmt.Sprintf("%s #%d %s [%s]", mark, card.ID, html.EscapeString(card.Title), card.Priority)
	if !card.DueDate.IsZero() {
		line += " due " + card.DueDate.String()
	}
	if card.Overdue {
		line += " <b>overdue</b>"
	}
	return line
}

func (b *Bot) handleAdd(ctx context.Context, args string) string {
	draft, err := parseDraft(args)
	if err != nil {
		return "Error: " + html.EscapeString(err.Error())
	}
	res, err := b.tasks.Dispatch(ctx, taskstore.AddTask{Draft: draft})
	if !res.Applied {
		return "Usage: /add &lt;title&gt; [!priority] [#Category] [due:YYYY-MM-DD]"
	}
	reply := fmt.Sprintf("Added #%d %s", res.Task.ID, html.EscapeString(res.Task.Title))
	if err != nil {
		reply += "\n(not persisted: " + html.EscapeString(err.Error()) + ")"
	}
	return reply
}

// parseDraft reads "/add" arguments: plain words form the title, and
// !priority, #Category and due:YYYY-MM-DD tokens set the other fields.
func parseDraft(args string) (domain.Draft, error) {
	var d domain.Draft
	var title []string
	for _, f := range strings.Fields(args) {
		switch {
		case strings.HasPrefix(f, "!") && len(f) > 1:
			p, err := domain.ParsePriority(f[1:])
			if err != nil {
				return d, err
			}
			d.Priority = p
		case strings.HasPrefix(f, "#") && len(f) > 1:
			d.Category = domain.Category(f[1:])
		case strings.HasPrefix(f, "due:"):
			due, err := domain.ParseDate(strings.TrimPrefix(f, "due:"))
			if err != nil {
				return d, err
			}
			d.DueDate = due
		default:
			title = append(title, f)
		}
	}
	d.Title = strings.Join(title, " ")
	return d.Normalize(), nil
}

func parseID(args string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(args, "#"), 10, 64)
	return id, err == nil && id > 0
}

func (b *Bot) handleToggle(ctx context.Context, args string) string {
	id, ok := parseID(args)
	if !ok {
		return "Usage: /done &lt;id&gt;"
	}
	res, err := b.tasks.Dispatch(ctx, taskstore.ToggleComplete{ID: id})
	if !res.Applied {
		return fmt.Sprintf("Task #%d not found.", id)
	}
	state := "pending"
	if res.Task.Completed {
		state = "completed"
	}
	reply := fmt.Sprintf("#%d %s is now %s", id, html.EscapeString(res.Task.Title), state)
	if err != nil {
		reply += "\n(not persisted: " + html.EscapeString(err.Error()) + ")"
	}
	return reply
}

func (b *Bot) handleDelete(ctx context.Context, args string) string {
	id, ok := parseID(args)
	if !ok {
		return "Usage: /delete &lt;id&gt;"
	}
	res, err := b.tasks.Dispatch(ctx, taskstore.DeleteTask{ID: id})
	if !res.Applied {
		return fmt.Sprintf("Task #%d not found.", id)
	}
	reply := fmt.Sprintf("Deleted #%d %s", id, html.EscapeString(res.Task.Title))
	if err != nil {
		reply += "\n(not persisted: " + html.EscapeString(err.Error()) + ")"
	}
	return reply
}

func (b *Bot) handleActivity(ctx context.Context, args string) string {
	audit := b.tasks.Audit()
	if audit == nil {
		return "Activity log is disabled for the memory store."
	}
	limit := 10
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n <= 0 {
			return "Usage: /activity [limit]"
		}
		limit = n
	}

	events, err := audit.Recent(ctx, 0, limit)
	if err != nil {
		return "Error: " + html.EscapeString(err.Error())
	}
	if len(events) == 0 {
		return "No activity yet."
	}

	var sb strings.Builder
	sb.WriteString("<b>Recent activity</b>\n\n")
	for _, ev := range events {
		fmt.Fprintf(&sb, "%s %s #%d", ev.CreatedAt.Format("01-02 15:04"), ev.Command, ev.TaskID)
		if ev.Actor != "" {
			fmt.Fprintf(&sb, " by %s", html.EscapeString(ev.Actor))
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Notify tells admins about new high-priority tasks. Register it with
// TaskService.OnChange; sends happen off the dispatching goroutine.
func (b *Bot) Notify(res taskstore.Result) {
	if res.Command != (taskstore.AddTask{}).Name() || res.Task == nil || res.Task.Priority != domain.PriorityHigh {
		return
	}
	text := "New high-priority task: " + cardLine(service.TaskCard{Task: res.Task})

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for _, adminID := range b.adminIDs {
			msg := tgbotapi.NewMessage(adminID, text)
			msg.ParseMode = tgbotapi.ModeHTML
			if _, err := b.api.Send(msg); err != nil {
				b.log.Error("failed to notify admin", "admin_id", adminID, "error", err)
			}
		}
	}()
}
