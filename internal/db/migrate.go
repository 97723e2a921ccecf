package db

import (
	"fmt"
)

// Migrate tworzy/aktualizuje schemat lustra.
func (h *Handle) Migrate() error {
	if err := h.DB.AutoMigrate(
		&SheetRow{},
		&KV{},
	); err != nil {
		return fmt.Errorf("AutoMigrate error: %w", err)
	}
	return nil
}
