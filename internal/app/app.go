package app

import (
	"go.uber.org/zap"
)

// Application bundles everything one running client needs. The TUI and
// the one-shot subcommands both build on it.
type Application struct {
	Config  Config
	Prefs   Prefs
	Logger  *zap.Logger
	Client  *Client
	Session *Session
	Toasts  *NotificationQueue
}

func NewApplication(cfg Config, logger *zap.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{
		Config:  cfg,
		Prefs:   LoadPrefs(""),
		Logger:  logger,
		Client:  NewClient(cfg.BaseURL, cfg.APIKey, logger),
		Session: NewSession(),
		Toasts:  NewNotificationQueue(),
	}, nil
}

// ToggleDarkMode flips and persists the dark-mode flag. Persistence
// failures are logged and otherwise ignored; the in-memory flag wins.
func (a *Application) ToggleDarkMode() bool {
	a.Prefs.DarkMode = !a.Prefs.DarkMode
	if err := SavePrefs(a.Prefs, ""); err != nil {
		a.Logger.Error("save prefs", zap.Error(err))
	}
	return a.Prefs.DarkMode
}
