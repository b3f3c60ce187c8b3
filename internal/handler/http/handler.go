package http

import (
	"github.com/MKhiriev/go-ledger-keeper/internal/config"
	"github.com/MKhiriev/go-ledger-keeper/internal/logger"
)

type Handler struct {
	contents *contentStore
	token    string

	logger *logger.Logger
}

func NewHandler(cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		contents: newContentStore(),
		token:    cfg.Token,
		logger:   logger,
	}
}
