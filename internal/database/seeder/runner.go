package seeder

import (
	"context"
	"fmt"

	"job-portal/internal/database"
)

type Runner struct {
	Seeders []Seeder
	Logf    func(format string, args ...any)
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logf != nil {
			r.Logf("[Seeder] %s done", s.Name())
		}
	}
	return nil
}
