package dashboardservice

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecfrdash/ecfr-dashboard/internal/config"
)

func TestBuild_CreatesDirectoriesAndServes(t *testing.T) {
	cfg := config.NewForTesting(t.TempDir())

	h, err := Build(cfg, zerolog.Nop())
	require.NoError(t, err)

	for _, dir := range []string{cfg.DataDir, cfg.ImageDir} {
		st, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, st.IsDir())
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/chat/rooms", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `["general"]`, rr.Body.String())
}

func TestBuild_FailsOnUnusableDataDir(t *testing.T) {
	dir := t.TempDir()
	blocker := dir + "/blocker"
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := config.NewForTesting(dir)
	cfg.DataDir = blocker + "/data"
	cfg.ImageDir = blocker + "/data/images"

	_, err := Build(cfg, zerolog.Nop())
	assert.Error(t, err)
}
