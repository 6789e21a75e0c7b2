package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"job-portal/internal/app"
	"job-portal/internal/config"
	"job-portal/internal/database/migration"
	"job-portal/internal/domain/user"
	"job-portal/internal/usecase"
	"job-portal/migrations"
)

func main() {
	keywords := flag.String("keywords", "", "LinkedIn search keywords")
	location := flag.String("location", "", "job location")
	limit := flag.Int("limit", 10, "maximum jobs to fetch")
	workers := flag.Int("workers", 4, "concurrent imports")
	rps := flag.Int("rps", -1, "imports started per second; 0 is unthrottled (defaults to LINKEDIN_IMPORT_RPS)")
	adminEmail := flag.String("admin", "", "email of the admin recorded as importer (defaults to ADMIN_EMAIL)")
	ids := flag.String("ids", "", "comma separated LinkedIn job ids to import; empty imports every result")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	kw := strings.TrimSpace(*keywords)
	if kw == "" {
		log.Fatalf("provide -keywords")
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	r := migration.Runner{Source: migrations.FS, Logf: c.Logger.Printf}
	if err := r.Run(migCtx, c.DB.SQLDB()); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	email := strings.TrimSpace(*adminEmail)
	if email == "" {
		email = cfg.Admin.Email
	}
	admin, err := c.Users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		log.Fatalf("admin %q not found: %v", email, err)
	}
	if admin.Role != user.RoleAdmin {
		log.Fatalf("%q is not an admin", email)
	}

	c.LinkedInUC.SetImportWorkers(*workers)
	if *rps >= 0 {
		c.LinkedInUC.SetImportRate(*rps)
	}
	res, err := c.LinkedInUC.BulkImport(ctx, user.Actor{ID: admin.ID, Role: admin.Role}, usecase.BulkImportInput{
		Keywords: kw,
		Location: strings.TrimSpace(*location),
		Limit:    *limit,
		JobIDs:   splitIDs(*ids),
	})
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	for _, item := range res.Results {
		log.Printf("linkedin_id=%s success=%t duplicate=%t message=%q", item.ExternalID, item.Success, item.Duplicate, item.Message)
	}
	log.Printf("import done total=%d successful=%d failed=%d", res.Total, res.Successful, res.Failed)
}

func splitIDs(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
