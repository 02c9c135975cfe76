package tui

import (
	"context"

	"solution-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	Store store.Store
	// Initial is the solution to open first. Empty opens the first stored one.
	Initial string
	// Glyphs is the tui.glyphs config value.
	Glyphs string
	Log    *zap.Logger
}

func Run(ctx context.Context, opt Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opt.Glyphs)

	w, err := opt.Store.Watch(ctx)
	if err != nil {
		// Browsing still works without live reload.
		if opt.Log != nil {
			opt.Log.Warn("tui.watch.unavailable", zap.Error(err))
		}
		w = nil
	} else {
		defer w.Close()
	}

	m := newAppModel(ctx, opt)
	m.watcher = w
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
