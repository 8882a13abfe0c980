package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// commands is the surface the REPL dispatches to. App satisfies it; tests
// can provide a stub.
type commands interface {
	addTask(ctx context.Context, args []string)
	listTasks(ctx context.Context, args []string)
	showTask(ctx context.Context, args []string)
	doneTask(ctx context.Context, args []string)
	removeTask(ctx context.Context, args []string)
	moveTask(ctx context.Context, args []string)
	showLists(ctx context.Context)
	addList(ctx context.Context, args []string)
	removeList(ctx context.Context, args []string)
	showTags(ctx context.Context)
	addTag(ctx context.Context, args []string)
	removeTag(ctx context.Context, args []string)
	tagTask(ctx context.Context, args []string)
	syncNow(ctx context.Context)
	fullSync(ctx context.Context)
	syncStatus(ctx context.Context)
	configure(ctx context.Context)
}

const helpText = `Commands:
  add [title]          create a task
  list [list-name|all] show open tasks (all includes completed)
  show <id>            show one task with details
  done <id>            toggle completion
  rm <id>              delete a task
  mv <id> <list-name>  move a task to another list
  lists                show lists
  addlist <name>       create a list
  rmlist <name>        delete a list (tasks go to the inbox)
  tags                 show tags
  addtag <name> [col]  create a tag
  rmtag <name>         delete a tag
  tag <id> [names...]  replace a task's tags
  sync                 run a sync cycle now
  fullsync             reset the checkpoint and sync everything
  status               show sync status
  config               configure the sync server
  exit | quit          leave`

// runREPL reads lines from scanner and dispatches commands until EOF or
// exit. Command handlers report their own errors; the loop only routes.
func runREPL(ctx context.Context, c commands, scanner *bufio.Scanner) {
	for {
		fmt.Print("tickit> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
		case "add", "a":
			c.addTask(ctx, args)
		case "list", "ls", "l":
			c.listTasks(ctx, args)
		case "show":
			c.showTask(ctx, args)
		case "done", "d":
			c.doneTask(ctx, args)
		case "rm":
			c.removeTask(ctx, args)
		case "mv":
			c.moveTask(ctx, args)
		case "lists":
			c.showLists(ctx)
		case "addlist":
			c.addList(ctx, args)
		case "rmlist":
			c.removeList(ctx, args)
		case "tags":
			c.showTags(ctx)
		case "addtag":
			c.addTag(ctx, args)
		case "rmtag":
			c.removeTag(ctx, args)
		case "tag":
			c.tagTask(ctx, args)
		case "sync":
			c.syncNow(ctx)
		case "fullsync":
			c.fullSync(ctx)
		case "status":
			c.syncStatus(ctx)
		case "config":
			c.configure(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// Root runs the REPL on stdin.
func (a *App) Root(ctx context.Context) {
	printlnFn("Tickit CLI (type 'help' for commands)")
	runREPL(ctx, a, bufio.NewScanner(os.Stdin))
}
