package freshcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_MissingResource(t *testing.T) {
	f := newTestFetcher(t, &fakeRemote{})
	st, err := f.Status("agencies")
	require.NoError(t, err)
	assert.False(t, st.Exists)
	assert.False(t, st.Fresh)
}

func TestPurge_RemovesOnlyOldFiles(t *testing.T) {
	f := newTestFetcher(t, &fakeRemote{payload: agenciesJSON})
	_, err := f.GetOrRefresh(context.Background(), "agencies", "u")
	require.NoError(t, err)

	removed, err := f.Purge(48*time.Hour, "agencies", "unknown")
	require.NoError(t, err)
	assert.Empty(t, removed)

	age(t, f.Path("agencies"), 72*time.Hour)
	removed, err = f.Purge(48*time.Hour, "agencies")
	require.NoError(t, err)
	assert.Equal(t, []string{f.Path("agencies")}, removed)

	st, err := f.Status("agencies")
	require.NoError(t, err)
	assert.False(t, st.Exists)
}
