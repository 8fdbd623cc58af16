package hayotush

import (
	"context"

	"github.com/or-haklay/hayotush/internal/core/doctor"
)

// RunChecks runs every health check. With autofix, fixable issues are
// repaired where possible.
func (a *App) RunChecks(ctx context.Context, configPath string, autofix bool) doctor.Report {
	return doctor.RunAll(ctx, []doctor.Check{
		doctor.NewConfigCheck(a.Config, configPath),
		doctor.NewStorageCheck(a.DB, a.Notifications, a.Config.History.Retention),
		doctor.NewLocaleCheck(a.Locale, a.Runtime, a.Catalog.Languages(), autofix),
	})
}
