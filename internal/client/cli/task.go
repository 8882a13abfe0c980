package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tickit/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/tickit/internal/client/services"
	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// resolveTask finds a task by unique id prefix.
func (a *App) resolveTask(ctx context.Context, prefix string) (*models.Task, error) {
	all, err := a.repos.Task.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var found *models.Task
	for _, t := range all {
		if strings.HasPrefix(t.ID, prefix) {
			if found != nil {
				return nil, fmt.Errorf("ambiguous id %q", prefix)
			}
			found = t
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no task matching %q", prefix)
	}
	return found, nil
}

func formatTask(t *models.Task) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %-8s %-8s %s", mark, t.ID[:8], t.Priority, t.Title)
	if t.DueDate != nil {
		line += " (due " + t.DueDate.Format("2006-01-02") + ")"
	}
	return line
}

func (a *App) addTask(ctx context.Context, args []string) {
	title := strings.Join(args, " ")
	if title == "" {
		var err error
		title, err = GetSimpleText(a.reader, "Task title", stdout)
		if err != nil || title == "" {
			printlnFn("A title is required")
			return
		}
	}

	in := services.CreateTaskInput{Title: title}

	priority, err := GetSimpleText(a.reader, "Priority (low/medium/high/urgent, empty for medium)", stdout)
	if err == nil && priority != "" {
		in.Priority = models.Priority(priority)
	}

	due, err := GetSimpleText(a.reader, "Due date (YYYY-MM-DD, empty for none)", stdout)
	if err == nil && due != "" {
		when, err := timex.Parse(due)
		if err != nil {
			printlnFn("Ignoring invalid due date:", due)
		} else {
			in.DueDate = &when
		}
	}

	task, err := a.taskSvc.Create(ctx, in)
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	printlnFn("Created", task.ID[:8])
	a.changed()
}

func (a *App) listTasks(ctx context.Context, args []string) {
	f := tasks.Filter{}
	if len(args) > 0 {
		if args[0] == "all" {
			f.IncludeCompleted = true
		} else {
			list, err := a.resolveList(ctx, args[0])
			if err != nil {
				printlnFn("Error:", err)
				return
			}
			f.ListID = list.ID
		}
	}

	items, err := a.taskSvc.List(ctx, f)
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	if len(items) == 0 {
		printlnFn("Nothing to do")
		return
	}
	for _, t := range items {
		printlnFn(formatTask(t))
	}
}

func (a *App) showTask(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: show <id>")
		return
	}
	task, err := a.resolveTask(ctx, args[0])
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	full, err := a.taskSvc.Get(ctx, task.ID)
	if err != nil {
		printlnFn("Error:", err)
		return
	}

	printlnFn(formatTask(full))
	if full.Description != nil {
		printlnFn(" ", *full.Description)
	}
	if full.URL != nil {
		printlnFn("  url:", *full.URL)
	}
	if list, err := a.listSvc.Get(ctx, full.ListID); err == nil {
		printlnFn("  list:", list.Name)
	}
	if len(full.TagIDs) > 0 {
		tags, err := a.tagSvc.TagsForTask(ctx, full.ID)
		if err == nil {
			names := make([]string, 0, len(tags))
			for _, tg := range tags {
				names = append(names, tg.Name)
			}
			printlnFn("  tags:", strings.Join(names, ", "))
		}
	}
}

func (a *App) doneTask(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: done <id>")
		return
	}
	task, err := a.resolveTask(ctx, args[0])
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	if err := a.taskSvc.Toggle(ctx, task.ID); err != nil {
		printlnFn("Error:", err)
		return
	}
	a.changed()
}

func (a *App) removeTask(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: rm <id>")
		return
	}
	task, err := a.resolveTask(ctx, args[0])
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	if err := a.taskSvc.Delete(ctx, task.ID); err != nil {
		printlnFn("Error:", err)
		return
	}
	printlnFn("Deleted", task.Title)
	a.changed()
}

func (a *App) moveTask(ctx context.Context, args []string) {
	if len(args) < 2 {
		printlnFn("Usage: mv <id> <list-name>")
		return
	}
	task, err := a.resolveTask(ctx, args[0])
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	list, err := a.resolveList(ctx, strings.Join(args[1:], " "))
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	task.ListID = list.ID
	if err := a.taskSvc.Update(ctx, task); err != nil {
		printlnFn("Error:", err)
		return
	}
	printlnFn("Moved to", list.Name)
	a.changed()
}
