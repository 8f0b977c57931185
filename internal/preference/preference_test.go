package preference_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/patsapolpro/web-starter-kit-ai/internal/apperror"
	"github.com/patsapolpro/web-starter-kit-ai/internal/logger"
	"github.com/patsapolpro/web-starter-kit-ai/internal/messaging"
	"github.com/patsapolpro/web-starter-kit-ai/internal/preference"
	"github.com/patsapolpro/web-starter-kit-ai/testing/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, router http.Handler, method, path, body string) (int, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

type fakeService struct {
	prefs     preference.Preferences
	err       error
	lastPatch *preference.Patch
}

func (f *fakeService) GetPreferences(ctx context.Context) (*preference.Preferences, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.prefs, nil
}

func (f *fakeService) UpdatePreferences(ctx context.Context, patch preference.Patch) (*preference.Preferences, error) {
	f.lastPatch = &patch
	if f.err != nil {
		return nil, f.err
	}
	if patch.Language != nil {
		f.prefs.Language = *patch.Language
	}
	if patch.EffortColumnVisible != nil {
		f.prefs.EffortColumnVisible = *patch.EffortColumnVisible
	}
	return &f.prefs, nil
}

func (f *fakeService) ResetPreferences(ctx context.Context) (*preference.Preferences, error) {
	f.prefs = preference.Defaults()
	return &f.prefs, nil
}

func setupRouter(svc preference.Service) chi.Router {
	router := chi.NewRouter()
	preference.NewHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestPreferenceHandler(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		router := setupRouter(&fakeService{prefs: preference.Defaults()})

		status, env := do(t, router, http.MethodGet, "/api/preferences", "")

		assert.Equal(t, http.StatusOK, status)
		var got map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, true, got["effortColumnVisible"])
		assert.Equal(t, true, got["showTotalWhenEffortHidden"])
		assert.Equal(t, "en", got["language"])
	})

	t.Run("GetStorageFailure", func(t *testing.T) {
		router := setupRouter(&fakeService{err: assert.AnError})

		status, env := do(t, router, http.MethodGet, "/api/preferences", "")

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Unable to load preferences. Please try again.", env.Error.Message)
	})

	rejects := []struct {
		name    string
		body    string
		message string
	}{
		{"UnknownLanguage", `{"language":"fr"}`, `Language must be "en" or "th"`},
		{"EmptyLanguage", `{"language":""}`, `Language must be "en" or "th"`},
		{"NumericLanguage", `{"language":1}`, `Language must be "en" or "th"`},
		{"StringFlag", `{"effortColumnVisible":"true"}`, "effortColumnVisible must be a boolean"},
		{"NumericFlag", `{"showTotalWhenEffortHidden":0}`, "showTotalWhenEffortHidden must be a boolean"},
		{"Malformed", `{`, "Invalid request body"},
	}
	for _, tc := range rejects {
		t.Run("Update"+tc.name, func(t *testing.T) {
			svc := &fakeService{prefs: preference.Defaults()}
			router := setupRouter(svc)

			status, env := do(t, router, http.MethodPut, "/api/preferences", tc.body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
			assert.Equal(t, tc.message, env.Error.Message)
			assert.Nil(t, svc.lastPatch)
		})
	}

	t.Run("UpdatePartial", func(t *testing.T) {
		svc := &fakeService{prefs: preference.Defaults()}
		router := setupRouter(svc)

		status, env := do(t, router, http.MethodPut, "/api/preferences", `{"language":"th"}`)

		assert.Equal(t, http.StatusOK, status)
		require.NotNil(t, svc.lastPatch)
		assert.Nil(t, svc.lastPatch.EffortColumnVisible)
		assert.Nil(t, svc.lastPatch.ShowTotalWhenEffortHidden)

		var got preference.Preferences
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "th", got.Language)
		assert.True(t, got.EffortColumnVisible)
	})

	t.Run("UpdateEmptyBody", func(t *testing.T) {
		svc := &fakeService{prefs: preference.Defaults()}
		router := setupRouter(svc)

		status, _ := do(t, router, http.MethodPut, "/api/preferences", "")

		assert.Equal(t, http.StatusOK, status)
		require.NotNil(t, svc.lastPatch)
		assert.True(t, svc.lastPatch.IsEmpty())
	})

	t.Run("UpdateValidationFromService", func(t *testing.T) {
		svc := &fakeService{err: apperror.Validation(`Invalid language. Must be "en" or "th"`)}
		router := setupRouter(svc)

		status, env := do(t, router, http.MethodPut, "/api/preferences", `{"effortColumnVisible":false}`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, env.Error.Message, "Invalid language")
	})

	t.Run("Reset", func(t *testing.T) {
		svc := &fakeService{prefs: preference.Preferences{Language: "th"}}
		router := setupRouter(svc)

		status, env := do(t, router, http.MethodPost, "/api/preferences/reset", "")

		assert.Equal(t, http.StatusOK, status)
		var got preference.Preferences
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "en", got.Language)
		assert.True(t, got.EffortColumnVisible)
		assert.True(t, got.ShowTotalWhenEffortHidden)
	})
}

func TestPreferenceRepository(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	repo := preference.NewRepository(pgContainer.DB, nil)
	ctx := context.Background()

	countRows := func(t *testing.T) int {
		t.Helper()
		n, err := pgContainer.DB.NewSelect().Model((*preference.Preferences)(nil)).Count(ctx)
		require.NoError(t, err)
		return n
	}

	t.Run("GetCreatesDefaults", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "preferences")

		prefs, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.NotZero(t, prefs.ID)
		assert.True(t, prefs.EffortColumnVisible)
		assert.True(t, prefs.ShowTotalWhenEffortHidden)
		assert.Equal(t, "en", prefs.Language)
		assert.False(t, prefs.LastUpdatedAt.IsZero())

		again, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, prefs.ID, again.ID)
		assert.Equal(t, 1, countRows(t))
	})

	t.Run("UpdateWithoutRowMergesOverDefaults", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "preferences")

		prefs, err := repo.Update(ctx, preference.Patch{EffortColumnVisible: ptr(false)})
		require.NoError(t, err)
		assert.False(t, prefs.EffortColumnVisible)
		assert.True(t, prefs.ShowTotalWhenEffortHidden)
		assert.Equal(t, "en", prefs.Language)
		assert.Equal(t, 1, countRows(t))
	})

	t.Run("UpdatePreservesOmittedFields", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "preferences")

		initial, err := repo.Get(ctx)
		require.NoError(t, err)

		prefs, err := repo.Update(ctx, preference.Patch{Language: ptr("th")})
		require.NoError(t, err)
		assert.Equal(t, initial.ID, prefs.ID)
		assert.Equal(t, "th", prefs.Language)
		assert.True(t, prefs.EffortColumnVisible)
		assert.True(t, prefs.LastUpdatedAt.After(initial.LastUpdatedAt))

		prefs, err = repo.Update(ctx, preference.Patch{ShowTotalWhenEffortHidden: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, "th", prefs.Language)
		assert.False(t, prefs.ShowTotalWhenEffortHidden)
	})

	t.Run("UpdateRejectsLanguage", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "preferences")

		_, err := repo.Update(ctx, preference.Patch{Language: ptr("fr"), EffortColumnVisible: ptr(false)})
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
		assert.Contains(t, err.Error(), "Invalid language")
		assert.Zero(t, countRows(t))
	})

	t.Run("EmptyPatchIsGet", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "preferences")

		prefs, err := repo.Update(ctx, preference.Patch{})
		require.NoError(t, err)
		assert.Equal(t, "en", prefs.Language)
		assert.Equal(t, 1, countRows(t))
	})

	t.Run("Reset", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "preferences")

		_, err := repo.Update(ctx, preference.Patch{
			EffortColumnVisible:       ptr(false),
			ShowTotalWhenEffortHidden: ptr(false),
			Language:                  ptr("th"),
		})
		require.NoError(t, err)

		prefs, err := repo.Reset(ctx)
		require.NoError(t, err)
		assert.True(t, prefs.EffortColumnVisible)
		assert.True(t, prefs.ShowTotalWhenEffortHidden)
		assert.Equal(t, "en", prefs.Language)
		assert.Equal(t, 1, countRows(t))
	})
}

func TestPreferenceAPI_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	svc := preference.NewService(preference.NewRepository(pgContainer.DB, nil), messaging.NopPublisher{})
	router := setupRouter(svc)

	t.Run("UnsupportedLanguage", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "preferences")

		status, env := do(t, router, http.MethodPut, "/api/preferences", `{"language":"fr"}`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Message, `must be "en" or "th"`)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, "preferences")

		status, _ := do(t, router, http.MethodPut, "/api/preferences", `{"effortColumnVisible":false,"language":"th"}`)
		require.Equal(t, http.StatusOK, status)

		status, env := do(t, router, http.MethodGet, "/api/preferences", "")
		require.Equal(t, http.StatusOK, status)

		var got preference.Preferences
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.False(t, got.EffortColumnVisible)
		assert.True(t, got.ShowTotalWhenEffortHidden)
		assert.Equal(t, "th", got.Language)
	})
}
