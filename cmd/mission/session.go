package main

import (
	"missionchat/internal/config"
	"missionchat/internal/dispatch"
	"missionchat/internal/endpoint"
	"missionchat/internal/logging"
	"missionchat/internal/transcript"
)

// session bundles one conversation: transcript, backend client and controller.
type session struct {
	id     string
	store  *transcript.Store
	client *endpoint.Client
	ctrl   *dispatch.Controller
	audit  *logging.AuditLogger
}

func newSession(cfg *config.Config, opts ...dispatch.Option) *session {
	id := transcript.NewID()
	audit := logging.AuditWithSession(id)

	client := endpoint.New(endpoint.Config{
		BaseURL: cfg.API.BaseURL,
		UserID:  cfg.API.UserID,
		Timeout: cfg.GetAPITimeout(),
	})

	store := transcript.NewSession(cfg.UI.Greeting)
	if logging.Get(logging.CategorySession).Enabled() {
		store.Subscribe(func(m transcript.Message) {
			logging.Session("append %s %s (%d chars)", m.Sender, m.ID, len(m.Text))
		})
	}

	opts = append([]dispatch.Option{dispatch.WithAudit(audit)}, opts...)
	return &session{
		id:     id,
		store:  store,
		client: client,
		ctrl:   dispatch.New(store, client, opts...),
		audit:  audit,
	}
}
