package seeder

import "job-portal/internal/config"

// Defaults returns the seeders for cfg. Demo data is only loaded in
// development.
func Defaults(cfg config.Config) []Seeder {
	seeders := []Seeder{
		AdminSeeder{Email: cfg.Admin.Email, Password: cfg.Admin.Password, DisplayName: cfg.Admin.Name},
	}
	if cfg.App.Environment == "development" {
		seeders = append(seeders, DemoSeeder{})
	}
	return seeders
}
