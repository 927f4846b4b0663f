package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/storage"
	"taskflow/internal/task"
	"taskflow/internal/ui"
	"taskflow/internal/view"
)

const logFileName = "taskflow.log"

var (
	configPath string
	dbPath     string
	slotName   string
)

type app struct {
	cfg   config.Config
	db    *storage.Store
	tasks *task.Store
	out   io.Writer
	now   func() time.Time
}

func main() {
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	flag.StringVar(&slotName, "slot", "", "Slot holding the task collection (overrides config)")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Println("Warning: .env file could not be loaded:", err)
	}

	command := "ui"
	var args []string
	if flag.NArg() > 0 {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	if err := run(command, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	path := configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if slotName != "" {
		cfg.Slot = slotName
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// The TUI owns the terminal, so its log lines go to a file instead.
	logger := log.Default()
	if command == "ui" {
		f, err := os.OpenFile(filepath.Join(filepath.Dir(cfg.DBPath), logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logger = log.New(f, "", log.LstdFlags)
		log.SetOutput(f)
	}

	a := &app{
		cfg:   cfg,
		db:    db,
		tasks: task.Open(db.Slot(cfg.Slot), task.WithLogger(logger)),
		out:   os.Stdout,
		now:   time.Now,
	}
	return a.dispatch(command, args)
}

func (a *app) dispatch(command string, args []string) error {
	switch command {
	case "ui":
		return ui.Run(a.tasks, a.cfg)
	case "list":
		return a.runList(args)
	case "add":
		return a.runAdd(args)
	case "done":
		return a.runDone(args)
	case "rm":
		return a.runRemove(args)
	case "stats":
		return a.runStats(args)
	case "export":
		return a.runExport(args)
	case "slots":
		return a.runSlots(args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *app) runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	search := fs.String("search", "", "Match title or description")
	category := fs.String("category", string(a.cfg.DefaultCategory), "Filter by category")
	priority := fs.String("priority", string(a.cfg.DefaultPriority), "Filter by priority")
	sortKey := fs.String("sort", string(a.cfg.DefaultSort), "Sort by created, due or priority")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key := view.SortKey(*sortKey)
	if !key.Valid() {
		return fmt.Errorf("unknown sort key: %s", *sortKey)
	}
	criteria := view.Criteria{
		Search:   *search,
		Category: task.Category(*category),
		Priority: task.Priority(*priority),
	}

	now := a.now()
	open, done := view.Partition(view.Sort(view.Filter(a.tasks.LoadAll(), criteria), key))

	fmt.Fprintf(a.out, "%-36s %-30s %-10s %-8s %-10s %s\n", "ID", "TITLE", "CATEGORY", "PRIORITY", "DUE", "STATUS")
	fmt.Fprintln(a.out, strings.Repeat("-", 110))
	for _, t := range append(open, done...) {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.In(now.Location()).Format(task.DateLayout)
		}
		status := "pending"
		switch {
		case t.Completed:
			status = "done"
		case t.Overdue(now):
			status = "overdue"
		}
		fmt.Fprintf(a.out, "%-36s %-30s %-10s %-8s %-10s %s\n", t.ID, t.Title, t.Category, t.Priority, due, status)
	}
	return nil
}

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func (a *app) runAdd(args []string) error {
	defCategory, defPriority := task.CategoryPersonal, task.PriorityMedium
	if a.cfg.DefaultCategory.Valid() {
		defCategory = a.cfg.DefaultCategory
	}
	if a.cfg.DefaultPriority.Valid() {
		defPriority = a.cfg.DefaultPriority
	}

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "Task title (required)")
	description := fs.String("description", "", "Task description")
	category := fs.String("category", string(defCategory), "Task category")
	priority := fs.String("priority", string(defPriority), "Task priority")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	recurring := fs.String("recurring", "", "Repeat daily, weekly or monthly, optionally /n")
	var tags, assignees stringList
	fs.Var(&tags, "tag", "Tag (repeatable)")
	fs.Var(&assignees, "assignee", "Assignee (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dueDate, err := task.ParseDate(*due, a.now().Location())
	if err != nil {
		return fmt.Errorf("invalid due date: %w", err)
	}
	rec, err := task.ParseRecurrence(*recurring)
	if err != nil {
		return fmt.Errorf("invalid recurrence: %w", err)
	}

	t, err := a.tasks.Create(task.Input{
		Title:       *title,
		Description: *description,
		Category:    task.Category(*category),
		Priority:    task.Priority(*priority),
		DueDate:     dueDate,
		Recurring:   rec,
		Tags:        tags,
		Assignees:   assignees,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created task %s\n", t.ID)
	return nil
}

func (a *app) runDone(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: done <id>")
	}
	t, err := a.tasks.Update(args[0], task.Patch{Completed: task.Set(true)})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Completed %q\n", t.Title)
	return nil
}

func (a *app) runRemove(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rm <id>")
	}
	if err := a.tasks.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", args[0])
	return nil
}

type statsReport struct {
	Summary    view.Summary          `json:"summary"`
	ByCategory map[task.Category]int `json:"byCategory"`
	ByPriority map[task.Priority]int `json:"byPriority"`
	Weekly     []view.WeekBucket     `json:"weekly"`
	Streaks    view.StreakStats      `json:"streaks"`
}

func (a *app) runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	weeks := fs.Int("weeks", a.cfg.TrendWeeks, "Number of weeks in the trend")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *weeks < 1 || *weeks > view.MaxTrendWeeks {
		return fmt.Errorf("weeks must be between 1 and %d", view.MaxTrendWeeks)
	}

	now := a.now()
	tasks := a.tasks.LoadAll()
	report := statsReport{
		Summary:    view.Summarize(tasks, now),
		ByCategory: view.ByCategory(tasks),
		ByPriority: view.ByPriority(tasks),
		Weekly:     view.WeeklyTrend(tasks, now, *weeks),
		Streaks:    view.Streaks(tasks, now),
	}

	if *asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode stats: %w", err)
		}
		fmt.Fprintln(a.out, string(data))
		return nil
	}

	s := report.Summary
	fmt.Fprintf(a.out, "Total: %d  Completed: %d  Pending: %d  Overdue: %d  Due today: %d  Completion: %d%%\n",
		s.Total, s.Completed, s.Pending, s.Overdue, s.DueToday, s.CompletionRate)
	fmt.Fprintln(a.out, "\nBy category:")
	for _, c := range task.Categories() {
		fmt.Fprintf(a.out, "  %-10s %d\n", c, report.ByCategory[c])
	}
	fmt.Fprintln(a.out, "\nBy priority:")
	for _, p := range task.Priorities() {
		fmt.Fprintf(a.out, "  %-10s %d\n", p, report.ByPriority[p])
	}
	fmt.Fprintln(a.out, "\nWeekly trend:")
	for _, w := range report.Weekly {
		fmt.Fprintf(a.out, "  %-8s %s  %d/%d (%d%%)\n", w.Label, w.Start.Format(task.DateLayout), w.Completed, w.Total, w.Rate())
	}
	fmt.Fprintf(a.out, "\nStreak: current %d, longest %d\n", report.Streaks.Current, report.Streaks.Longest)
	return nil
}

func (a *app) runExport(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: export <file|->")
	}
	tasks := a.tasks.LoadAll()
	data, err := task.Encode(tasks)
	if err != nil {
		return err
	}
	if args[0] == "-" {
		_, err := a.out.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(a.out, "Exported %d tasks to %s\n", len(tasks), args[0])
	return nil
}

func (a *app) runSlots(_ []string) error {
	names, err := a.db.Names()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(a.out, "No slots written yet.")
		return nil
	}
	for _, name := range names {
		marker := " "
		if name == a.cfg.Slot {
			marker = "*"
		}
		at, ok, err := a.db.Slot(name).UpdatedAt()
		if err != nil {
			return err
		}
		updated := "unknown"
		if ok {
			updated = at.Local().Format(time.DateTime)
		}
		fmt.Fprintf(a.out, "%s %-20s %s\n", marker, name, updated)
	}
	return nil
}
