package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tickit/internal/client/services"
	"github.com/dmitrijs2005/tickit/internal/models"
)

// resolveList finds a list by exact name (case-insensitive) or id prefix.
func (a *App) resolveList(ctx context.Context, nameOrID string) (*models.List, error) {
	all, err := a.listSvc.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range all {
		if strings.EqualFold(l.Name, nameOrID) {
			return l, nil
		}
	}
	for _, l := range all {
		if strings.HasPrefix(l.ID, nameOrID) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("no list matching %q", nameOrID)
}

func (a *App) showLists(ctx context.Context) {
	all, err := a.listSvc.GetAll(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	for _, l := range all {
		printlnFn(fmt.Sprintf("%s %-8s %s", l.Icon, l.ID[:8], l.Name))
	}
}

func (a *App) addList(ctx context.Context, args []string) {
	name := strings.Join(args, " ")
	if name == "" {
		printlnFn("Usage: addlist <name>")
		return
	}
	list, err := a.listSvc.Create(ctx, services.CreateListInput{Name: name})
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	printlnFn("Created list", list.Name)
	a.changed()
}

func (a *App) removeList(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: rmlist <name>")
		return
	}
	list, err := a.resolveList(ctx, strings.Join(args, " "))
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	if err := a.listSvc.Delete(ctx, list.ID); err != nil {
		printlnFn("Error:", err)
		return
	}
	printlnFn("Deleted list", list.Name, "(its tasks moved to the inbox)")
	a.changed()
}
