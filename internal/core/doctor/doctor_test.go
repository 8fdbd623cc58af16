package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/or-haklay/hayotush/internal/core/config"
	"github.com/or-haklay/hayotush/internal/core/locale"
)

type staticCheck struct {
	name  string
	items []CheckItem
}

func (s staticCheck) Name() string { return s.name }
func (s staticCheck) Run(context.Context) Result {
	return Result{Name: s.name, Items: s.items}
}

func TestRunAll_tallies_items(t *testing.T) {
	report := RunAll(context.Background(), []Check{
		staticCheck{name: "a", items: []CheckItem{
			{Label: "x", Status: StatusPass, Fixable: true},
			{Label: "y", Status: StatusWarn, Fixable: true},
		}},
		staticCheck{name: "b", items: []CheckItem{{Label: "z", Status: StatusFail}}},
	})

	require.Len(t, report.Checks, 2)
	assert.Equal(t, "b", report.Checks[1].Name)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Warned)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Fixable, "passing items are never counted as fixable")
	assert.False(t, report.Healthy())
}

func TestReport_json(t *testing.T) {
	report := RunAll(context.Background(), []Check{
		staticCheck{name: "a", items: []CheckItem{{Label: "x", Status: StatusWarn, Detail: "d"}}},
	})

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"checks": [{"name": "a", "items": [{"label": "x", "status": "warn", "detail": "d"}]}],
		"passed": 0, "warned": 1, "failed": 0, "fixable": 0
	}`, string(data))
}

func TestConfigCheck(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	result := NewConfigCheck(&cfg, "").Run(context.Background())
	require.NotEmpty(t, result.Items)
	assert.Equal(t, StatusPass, result.Items[0].Status)

	cfg.TUI.Theme = "neon"
	cfg.Host.Development = true
	result = NewConfigCheck(&cfg, "").Run(context.Background())

	var labels []string
	for _, item := range result.Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "tui.theme")
	assert.Contains(t, labels, "Host reload")
}

type fakeDB struct {
	err       error
	cur       int
	latest    int
	schemaErr error
}

func (f fakeDB) PingContext(context.Context) error { return f.err }

func (f fakeDB) SchemaVersion(context.Context) (int, int, error) {
	return f.cur, f.latest, f.schemaErr
}

type fakeCounter struct {
	n   int64
	err error
}

func (f fakeCounter) Count(context.Context) (int64, error) { return f.n, f.err }

func TestStorageCheck(t *testing.T) {
	tests := []struct {
		name      string
		db        fakeDB
		counter   fakeCounter
		retention int
		want      []Status
	}{
		{name: "healthy", db: fakeDB{cur: 2, latest: 2}, counter: fakeCounter{n: 3}, retention: 10, want: []Status{StatusPass, StatusPass, StatusPass}},
		{name: "over retention", counter: fakeCounter{n: 30}, retention: 10, want: []Status{StatusPass, StatusPass, StatusWarn}},
		{name: "unlimited", counter: fakeCounter{n: 30}, want: []Status{StatusPass, StatusPass, StatusPass}},
		{name: "count fails", counter: fakeCounter{err: errors.New("no table")}, want: []Status{StatusPass, StatusPass, StatusFail}},
		{name: "schema behind", db: fakeDB{cur: 1, latest: 2}, want: []Status{StatusPass, StatusWarn, StatusPass}},
		{name: "schema ahead", db: fakeDB{cur: 3, latest: 2}, want: []Status{StatusPass, StatusFail, StatusPass}},
		{name: "schema unreadable", db: fakeDB{schemaErr: errors.New("locked")}, want: []Status{StatusPass, StatusFail, StatusPass}},
		{name: "db down", db: fakeDB{err: errors.New("closed")}, want: []Status{StatusFail}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewStorageCheck(tt.db, tt.counter, tt.retention).Run(context.Background())

			got := make([]Status, 0, len(result.Items))
			for _, item := range result.Items {
				got = append(got, item.Status)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeLanguage struct {
	state   locale.State
	saved   string
	loadErr error
	setErr  error
	set     []string
}

func (f *fakeLanguage) State() locale.State { return f.state }

func (f *fakeLanguage) PersistedLanguage(context.Context) (string, error) {
	return f.saved, f.loadErr
}

func (f *fakeLanguage) SetLanguage(_ context.Context, lang string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.set = append(f.set, lang)
	f.saved = lang
	return nil
}

type fakeFlags struct {
	forced, allowed, pending bool
}

func (f fakeFlags) ForcedRTL() bool              { return f.forced }
func (f fakeFlags) AllowsRTL() bool              { return f.allowed }
func (f fakeFlags) PendingDirectionChange() bool { return f.pending }

func itemByLabel(t *testing.T, r Result, label string) CheckItem {
	t.Helper()
	for _, item := range r.Items {
		if item.Label == label {
			return item
		}
	}
	t.Fatalf("no item %q", label)
	return CheckItem{}
}

func TestLocaleCheck_consistent(t *testing.T) {
	lang := &fakeLanguage{
		state: locale.State{Language: "he", Direction: locale.RTL, RuntimeIsRTL: true},
		saved: "he",
	}

	result := NewLocaleCheck(lang, fakeFlags{forced: true, allowed: true}, []string{"he", "en"}, false).
		Run(context.Background())

	assert.Equal(t, "Language", result.Name)
	assert.Equal(t, StatusPass, itemByLabel(t, result, "preference").Status)
	assert.Equal(t, StatusPass, itemByLabel(t, result, "direction").Status)
	assert.Equal(t, "forceRTL=true allowRTL=true", itemByLabel(t, result, "runtime flags").Detail)
}

func TestLocaleCheck_not_saved(t *testing.T) {
	lang := &fakeLanguage{state: locale.State{Language: "en"}}

	result := NewLocaleCheck(lang, fakeFlags{}, []string{"he", "en"}, false).Run(context.Background())

	item := itemByLabel(t, result, "preference")
	assert.Equal(t, StatusPass, item.Status)
	assert.Contains(t, item.Detail, "not saved")
}

func TestLocaleCheck_direction(t *testing.T) {
	t.Run("pending relaunch", func(t *testing.T) {
		lang := &fakeLanguage{state: locale.State{Language: "he", Direction: locale.RTL, RuntimeIsRTL: true}, saved: "he"}
		result := NewLocaleCheck(lang, fakeFlags{forced: true, allowed: true, pending: true}, []string{"he"}, false).
			Run(context.Background())

		item := itemByLabel(t, result, "direction")
		assert.Equal(t, StatusWarn, item.Status)
		assert.Contains(t, item.Detail, "next launch")
	})

	t.Run("development host", func(t *testing.T) {
		lang := &fakeLanguage{state: locale.State{Language: "he", Direction: locale.LTR, DevelopmentHost: true}, saved: "he"}
		result := NewLocaleCheck(lang, fakeFlags{}, []string{"he"}, false).Run(context.Background())

		item := itemByLabel(t, result, "direction")
		assert.Equal(t, StatusWarn, item.Status)
		assert.Contains(t, item.Detail, "development host")
	})
}

func TestLocaleCheck_unsupported_preference(t *testing.T) {
	newLang := func() *fakeLanguage {
		return &fakeLanguage{state: locale.State{Language: "en"}, saved: "fr"}
	}

	t.Run("reported", func(t *testing.T) {
		lang := newLang()
		result := NewLocaleCheck(lang, fakeFlags{}, []string{"he", "en"}, false).Run(context.Background())

		item := itemByLabel(t, result, "preference")
		assert.Equal(t, StatusWarn, item.Status)
		assert.True(t, item.Fixable)
		assert.Empty(t, lang.set)
	})

	t.Run("autofix", func(t *testing.T) {
		lang := newLang()
		result := NewLocaleCheck(lang, fakeFlags{}, []string{"he", "en"}, true).Run(context.Background())

		item := itemByLabel(t, result, "preference")
		assert.Equal(t, StatusPass, item.Status)
		assert.Equal(t, []string{"en"}, lang.set)
	})

	t.Run("autofix fails", func(t *testing.T) {
		lang := newLang()
		lang.setErr = errors.New("disk full")
		result := NewLocaleCheck(lang, fakeFlags{}, []string{"he", "en"}, true).Run(context.Background())

		item := itemByLabel(t, result, "preference")
		assert.Equal(t, StatusWarn, item.Status)
		assert.Contains(t, item.Detail, "disk full")
	})
}

func TestLocaleCheck_load_failure(t *testing.T) {
	lang := &fakeLanguage{state: locale.State{Language: "en"}, loadErr: errors.New("locked")}
	result := NewLocaleCheck(lang, fakeFlags{}, []string{"en"}, false).Run(context.Background())

	assert.Equal(t, StatusFail, itemByLabel(t, result, "preference").Status)
}
