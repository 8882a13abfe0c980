package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tickit/internal/models"
)

func (a *App) resolveTag(ctx context.Context, name string) (*models.Tag, error) {
	all, err := a.tagSvc.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no tag named %q", name)
}

func (a *App) showTags(ctx context.Context) {
	all, err := a.tagSvc.GetAll(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	for _, t := range all {
		printlnFn(fmt.Sprintf("%-8s %-8s %s", t.ID[:8], t.Color, t.Name))
	}
}

func (a *App) addTag(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: addtag <name> [color]")
		return
	}
	color := ""
	if len(args) > 1 {
		color = args[1]
	}
	tag, err := a.tagSvc.Create(ctx, args[0], color)
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	printlnFn("Created tag", tag.Name)
	a.changed()
}

func (a *App) removeTag(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: rmtag <name>")
		return
	}
	tag, err := a.resolveTag(ctx, args[0])
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	if err := a.tagSvc.Delete(ctx, tag.ID); err != nil {
		printlnFn("Error:", err)
		return
	}
	printlnFn("Deleted tag", tag.Name)
	a.changed()
}

// tagTask replaces the tags on a task. With no tag names it clears them.
func (a *App) tagTask(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: tag <id> [tag names...]")
		return
	}
	task, err := a.resolveTask(ctx, args[0])
	if err != nil {
		printlnFn("Error:", err)
		return
	}

	var tagIDs []string
	for _, name := range args[1:] {
		tag, err := a.resolveTag(ctx, name)
		if err != nil {
			printlnFn("Error:", err)
			return
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	if err := a.taskSvc.SetTags(ctx, task.ID, tagIDs); err != nil {
		printlnFn("Error:", err)
		return
	}
	a.changed()
}
