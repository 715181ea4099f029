package handler

import (
	"log/slog"

	"github.com/softysite/internal/service"
	"github.com/softysite/internal/session"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	contacts *service.ContactService
	content  *service.ContentService
	views    *service.PageViewService
	auth     *service.AuthService
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAPI constructs a handler set with shared services. A nil notifier
// disables contact notifications.
func NewAPI(gdb *gorm.DB, sessions *session.Manager, notifier service.ContactNotifier) *API {
	contacts := service.NewContactService(gdb)
	if notifier != nil {
		contacts.WithNotifier(notifier)
	}

	return &API{
		db:       gdb,
		contacts: contacts,
		content:  service.NewContentService(gdb),
		views:    service.NewPageViewService(gdb),
		auth:     service.NewAuthService(gdb),
		sessions: sessions,
		logger:   slog.Default(),
	}
}

// Sessions exposes the session table the handlers authenticate against.
func (a *API) Sessions() *session.Manager {
	return a.sessions
}
