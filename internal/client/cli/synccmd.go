package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/tickit/internal/client/sync"
	"github.com/dmitrijs2005/tickit/internal/common"
)

func (a *App) reportSync(res *sync.Result, err error) {
	switch {
	case errors.Is(err, common.ErrNotConfigured):
		printlnFn("Sync is not configured, run 'config' first")
	case errors.Is(err, common.ErrSyncInProgress):
		printlnFn("A sync is already running")
	case err != nil:
		printlnFn("Sync failed:", err)
	default:
		printlnFn(fmt.Sprintf("Synced: pushed %d, pulled %d, applied %d, skipped %d, conflicts %d",
			res.Pushed, res.Pulled, res.Applied, res.Skipped, len(res.Conflicts)))
	}
}

func (a *App) syncNow(ctx context.Context) {
	res, err := a.engine.Sync(ctx)
	a.reportSync(res, err)
}

func (a *App) fullSync(ctx context.Context) {
	res, err := a.engine.ForceFullSync(ctx)
	a.reportSync(res, err)
}

func (a *App) syncStatus(ctx context.Context) {
	cfg, err := a.repos.SyncState.GetConfig(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	if !cfg.Ready() {
		printlnFn("Sync: not configured")
		return
	}
	printlnFn("Server:", cfg.Server)
	printlnFn("Interval:", cfg.IntervalSecs, "seconds")

	if last, err := a.repos.SyncState.GetLastSync(ctx); err == nil {
		if last == nil {
			printlnFn("Checkpoint: none (next sync is full)")
		} else {
			printlnFn("Checkpoint:", last.String())
		}
	}

	st := a.engine.Status()
	if st.Syncing {
		printlnFn("State: syncing")
	}
	if st.LastSuccess != nil {
		printlnFn("Last success:", st.LastSuccess.String())
	}
	if st.LastError != "" {
		printlnFn("Last error:", st.LastError)
	}
}

// configure prompts for the sync settings and persists them. The token is
// read without echo.
func (a *App) configure(ctx context.Context) {
	cfg, err := a.repos.SyncState.GetConfig(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return
	}

	server, err := GetSimpleText(a.reader, fmt.Sprintf("Server URL [%s]", cfg.Server), stdout)
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	if server != "" {
		cfg.Server = server
	}

	token, err := GetSecret(stdout, "Access token (empty to keep current)")
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	if token != "" {
		cfg.Token = token
	}

	interval, err := GetSimpleText(a.reader,
		fmt.Sprintf("Sync interval in seconds [%d]", cfg.IntervalSecs), stdout)
	if err != nil {
		printlnFn("Error:", err)
		return
	}
	if interval != "" {
		n, err := strconv.Atoi(interval)
		if err != nil || n <= 0 {
			printlnFn("Ignoring invalid interval:", interval)
		} else {
			cfg.IntervalSecs = n
		}
	}

	cfg.Enabled = cfg.Server != "" && cfg.Token != ""

	if err := a.repos.SyncState.SaveConfig(ctx, cfg); err != nil {
		printlnFn("Error:", err)
		return
	}

	if cfg.Ready() {
		printlnFn("Sync configured; restart to apply the new interval")
	} else {
		printlnFn("Sync disabled (server and token are both required)")
	}
}
