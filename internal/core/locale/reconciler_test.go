package locale

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/or-haklay/hayotush/internal/core/kv"
)

type fakeRuntime struct {
	mu        sync.Mutex
	rtl       bool
	allowRTL  bool
	forced    []bool
	reloads   int
	reloadErr error
	forceErr  error
}

func (f *fakeRuntime) IsRTL() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rtl
}

func (f *fakeRuntime) AllowsRTL() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.allowRTL
}

func (f *fakeRuntime) SetAllowRTL(allow bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allowRTL = allow
}

func (f *fakeRuntime) ForceRTL(rtl bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forceErr != nil {
		return f.forceErr
	}
	f.forced = append(f.forced, rtl)
	return nil
}

func (f *fakeRuntime) Reload(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return f.reloadErr
}

func (f *fakeRuntime) reloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reloads
}

type fakeTranslator struct {
	mu      sync.Mutex
	lang    string
	changes []string
}

func (f *fakeTranslator) ChangeLanguage(lang string) error {
	if lang != "he" && lang != "en" {
		return fmt.Errorf("no bundle for %q", lang)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lang = lang
	f.changes = append(f.changes, lang)
	return nil
}

func (f *fakeTranslator) Language() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lang
}

func (f *fakeTranslator) Languages() []string { return []string{"en", "he"} }

// memKV is an in-memory kv.KV whose writes can be made to fail.
type memKV struct {
	mu      sync.Mutex
	data    map[string]json.RawMessage
	failSet error
	failGet error
	// afterSet runs once a write is stored, outside the lock.
	afterSet func(value any)
}

var _ kv.KV = (*memKV)(nil)

func newMemKV() *memKV {
	return &memKV{data: map[string]json.RawMessage{}}
}

func (m *memKV) Get(_ context.Context, key string, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return m.failGet
	}
	v, ok := m.data[key]
	if !ok {
		return fmt.Errorf("kv get %q: %w", key, sql.ErrNoRows)
	}
	return json.Unmarshal(v, dest)
}

func (m *memKV) Set(_ context.Context, key string, value any) error {
	m.mu.Lock()
	if m.failSet != nil {
		m.mu.Unlock()
		return m.failSet
	}
	b, err := json.Marshal(value)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.data[key] = b
	after := m.afterSet
	m.mu.Unlock()

	if after != nil {
		after(value)
	}
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memKV) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *memKV) ListKeys(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *memKV) GetRaw(_ context.Context, key string) (kv.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return kv.Entry{}, sql.ErrNoRows
	}
	return kv.Entry{Key: key, Value: v, CreatedAt: time.Now(), UpdatedAt: time.Now()}, nil
}

type fixture struct {
	runtime    *fakeRuntime
	translator *fakeTranslator
	prefs      *memKV
	r          *Reconciler
}

func newFixture(t *testing.T, lang string, rtl, devHost bool) *fixture {
	t.Helper()
	f := &fixture{
		runtime:    &fakeRuntime{rtl: rtl, allowRTL: rtl},
		translator: &fakeTranslator{lang: lang},
		prefs:      newMemKV(),
	}
	f.r = NewReconciler(Options{
		Runtime:           f.runtime,
		Translator:        f.translator,
		Preferences:       f.prefs,
		IsDevelopmentHost: devHost,
	})
	return f
}

func TestIsRTLLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want bool
	}{
		{"he", true},
		{"HE-IL", true},
		{"he_IL", true},
		{"en", false},
		{"en-US", false},
		{"", false},
		{"ar", false},
		{"xx", false},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRTLLanguage(tt.lang))
		})
	}
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, RTL, DirectionOf("he"))
	assert.Equal(t, LTR, DirectionOf("en"))
	assert.Equal(t, "rtl", RTL.String())
	assert.Equal(t, "ltr", LTR.String())
}

func TestEnsureDirection_noop_when_matching(t *testing.T) {
	f := newFixture(t, "en", false, false)

	require.NoError(t, f.r.EnsureDirection(context.Background(), "en"))

	assert.Empty(t, f.runtime.forced)
	assert.Equal(t, 0, f.runtime.reloadCount())
	assert.Equal(t, LatchNotAttempted, f.r.State().Latch)
}

func TestEnsureDirection_production_flips_and_reloads(t *testing.T) {
	f := newFixture(t, "en", false, false)

	require.NoError(t, f.r.EnsureDirection(context.Background(), "he"))

	state := f.r.State()
	assert.True(t, state.RuntimeIsRTL)
	assert.True(t, state.AllowRTL)
	assert.Equal(t, RTL, state.Direction)
	assert.Equal(t, LatchCompleted, state.Latch)
	assert.Equal(t, []bool{true}, f.runtime.forced)
	assert.Equal(t, 1, f.runtime.reloadCount())
}

func TestEnsureDirection_reload_latch(t *testing.T) {
	f := newFixture(t, "en", false, false)
	ctx := context.Background()

	require.NoError(t, f.r.EnsureDirection(ctx, "he"))
	require.NoError(t, f.r.EnsureDirection(ctx, "en"))
	require.NoError(t, f.r.EnsureDirection(ctx, "he"))

	assert.Equal(t, 1, f.runtime.reloadCount(), "at most one reload per process")
	assert.Equal(t, []bool{true, false, true}, f.runtime.forced)
	assert.True(t, f.r.State().RuntimeIsRTL)
}

func TestEnsureDirection_development_host(t *testing.T) {
	f := newFixture(t, "en", false, true)

	require.NoError(t, f.r.EnsureDirection(context.Background(), "he"))

	state := f.r.State()
	assert.True(t, state.AllowRTL, "allowRTL is always safe to change")
	assert.False(t, state.RuntimeIsRTL, "runtime flag stays stale on a development host")
	assert.Empty(t, f.runtime.forced)
	assert.Equal(t, 0, f.runtime.reloadCount())
	assert.Equal(t, LatchNotAttempted, state.Latch)
}

func TestEnsureDirection_reload_failure_swallowed(t *testing.T) {
	f := newFixture(t, "en", false, false)
	f.runtime.reloadErr = errors.New("reload unsupported")

	err := f.r.EnsureDirection(context.Background(), "he")

	require.NoError(t, err)
	assert.True(t, f.r.State().RuntimeIsRTL)
	assert.Equal(t, LatchCompleted, f.r.State().Latch)
}

func TestEnsureDirection_force_failure_leaves_runtime_flag(t *testing.T) {
	f := newFixture(t, "en", false, false)
	f.runtime.forceErr = errors.New("flag store unavailable")

	require.NoError(t, f.r.EnsureDirection(context.Background(), "he"))

	assert.False(t, f.r.State().RuntimeIsRTL)
	assert.Equal(t, 0, f.runtime.reloadCount())
	assert.Equal(t, LatchNotAttempted, f.r.State().Latch)
}

func TestEnsureDirection_concurrent_single_reload(t *testing.T) {
	f := newFixture(t, "en", false, false)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lang := "he"
			if i%2 == 1 {
				lang = "en"
			}
			_ = f.r.SetLanguage(ctx, lang)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, f.runtime.reloadCount(), 1)
}

func TestSetLanguage_concurrent_calls_do_not_interleave(t *testing.T) {
	f := newFixture(t, "en", false, true)
	ctx := context.Background()

	heStored := make(chan struct{})
	f.prefs.afterSet = func(v any) {
		if v == "he" {
			close(heStored)
			// Give the competing call time to run between persist and apply.
			time.Sleep(50 * time.Millisecond)
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, f.r.SetLanguage(ctx, "he"))
	}()
	go func() {
		defer wg.Done()
		<-heStored
		assert.NoError(t, f.r.SetLanguage(ctx, "en"))
	}()
	wg.Wait()

	persisted, err := f.r.PersistedLanguage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "en", persisted, "the later call wins")
	assert.Equal(t, persisted, f.r.CurrentLanguage())
	assert.Equal(t, persisted, f.translator.Language())
}

func TestSetLanguage_persists_then_reconciles(t *testing.T) {
	f := newFixture(t, "en", false, false)
	ctx := context.Background()

	require.NoError(t, f.r.SetLanguage(ctx, " HE "))

	persisted, err := f.r.PersistedLanguage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "he", persisted)
	assert.Equal(t, "he", f.r.CurrentLanguage())
	assert.Equal(t, []string{"he"}, f.translator.changes)
	assert.True(t, f.r.State().RuntimeIsRTL)
	assert.Equal(t, 1, f.runtime.reloadCount())
}

func TestSetLanguage_persistence_failure(t *testing.T) {
	f := newFixture(t, "he", true, false)
	f.prefs.failSet = errors.New("disk unavailable")

	err := f.r.SetLanguage(context.Background(), "en")

	require.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, "he", f.r.CurrentLanguage())
	assert.True(t, f.r.State().RuntimeIsRTL, "direction untouched")
	assert.Empty(t, f.runtime.forced)
	assert.Empty(t, f.translator.changes)
}

func TestSetLanguage_unsupported(t *testing.T) {
	f := newFixture(t, "en", false, false)

	err := f.r.SetLanguage(context.Background(), "fr")

	require.ErrorIs(t, err, ErrUnsupportedLanguage)
	has, _ := f.prefs.Has(context.Background(), PreferencesNamespace+":"+LanguageKey)
	assert.False(t, has)
}

func TestBootstrap_prefers_persisted(t *testing.T) {
	f := newFixture(t, "", false, false)
	ctx := context.Background()
	require.NoError(t, f.prefs.Set(ctx, "settings:appLanguage", "en"))

	lang, err := f.r.Bootstrap(ctx, "he_IL.UTF-8", "he")

	require.NoError(t, err)
	assert.Equal(t, "en", lang)
	assert.Equal(t, "en", f.r.CurrentLanguage())
	assert.Equal(t, 0, f.runtime.reloadCount())
}

func TestBootstrap_device_locale(t *testing.T) {
	f := newFixture(t, "", false, false)

	lang, err := f.r.Bootstrap(context.Background(), "he_IL.UTF-8", "en")

	require.NoError(t, err)
	assert.Equal(t, "he", lang)
	assert.True(t, f.r.State().RuntimeIsRTL)
	assert.Equal(t, 1, f.runtime.reloadCount())
}

func TestBootstrap_default(t *testing.T) {
	f := newFixture(t, "", true, false)

	lang, err := f.r.Bootstrap(context.Background(), "C", "en")

	require.NoError(t, err)
	assert.Equal(t, "en", lang)
	assert.False(t, f.r.State().RuntimeIsRTL)
}

func TestBootstrap_storage_read_failure_falls_back(t *testing.T) {
	f := newFixture(t, "", false, true)
	f.prefs.failGet = errors.New("database is locked")

	lang, err := f.r.Bootstrap(context.Background(), "", "")

	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, lang)
}

func TestMatchDeviceLocale(t *testing.T) {
	supported := []string{"en", "he"}

	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"he_IL.UTF-8", "he", true},
		{"en_US.UTF-8", "en", true},
		{"en-GB", "en", true},
		{"he_IL@euro", "he", true},
		{"C", "", false},
		{"POSIX", "", false},
		{"", "", false},
		{"ja_JP.UTF-8", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := MatchDeviceLocale(tt.raw, supported)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeviceLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "he_IL.UTF-8")
	assert.Equal(t, "he_IL.UTF-8", DeviceLocale())

	t.Setenv("LC_ALL", "en_US.UTF-8")
	assert.Equal(t, "en_US.UTF-8", DeviceLocale())
}

func TestState_JSON(t *testing.T) {
	f := newFixture(t, "he", true, false)

	b, err := json.Marshal(f.r.State())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"language": "he",
		"direction": "rtl",
		"runtime_is_rtl": true,
		"allow_rtl": true,
		"reload_latch": "not-attempted",
		"development_host": false
	}`, string(b))
}
