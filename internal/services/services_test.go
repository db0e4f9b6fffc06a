package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecfrdash/ecfr-dashboard/internal/collection"
	"github.com/ecfrdash/ecfr-dashboard/internal/model"
	"github.com/ecfrdash/ecfr-dashboard/internal/upstream"
)

// --- Fakes ---

type fakeCollections struct {
	records  map[string][]json.RawMessage
	appendFn func(c collection.Collection, record any) error
}

func newFakeCollections() *fakeCollections {
	return &fakeCollections{records: map[string][]json.RawMessage{}}
}

func (f *fakeCollections) ReadAll(ctx context.Context, c collection.Collection) ([]json.RawMessage, error) {
	if recs, ok := f.records[c.Name]; ok {
		return recs, nil
	}
	out := make([]json.RawMessage, len(c.Default))
	copy(out, c.Default)
	return out, nil
}

func (f *fakeCollections) Append(ctx context.Context, c collection.Collection, record any) (json.RawMessage, error) {
	if f.appendFn != nil {
		if err := f.appendFn(c, record); err != nil {
			return nil, err
		}
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	f.records[c.Name] = append(f.records[c.Name], raw)
	return raw, nil
}

type fakeImages struct {
	saved map[string]string
}

func (f *fakeImages) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	name := "stored-" + originalName
	f.saved[name] = string(b)
	return name, nil
}

type fakeCache struct {
	resource, url string
}

func (f *fakeCache) GetOrRefresh(ctx context.Context, resource, remoteURL string) (json.RawMessage, error) {
	f.resource, f.url = resource, remoteURL
	return json.RawMessage(`{"agencies":[]}`), nil
}

type fakeUpstream struct {
	calls int
	ep    upstream.Endpoint
	q     upstream.SearchQuery
}

func (f *fakeUpstream) AgenciesURL() string { return "http://up/api/admin/v1/agencies" }

func (f *fakeUpstream) Search(ctx context.Context, ep upstream.Endpoint, q upstream.SearchQuery) (json.RawMessage, error) {
	f.calls++
	f.ep, f.q = ep, q
	return json.RawMessage(`{"count":1}`), nil
}

// --- Agency ---

func TestAgencyService_AgenciesGoThroughCache(t *testing.T) {
	cache := &fakeCache{}
	svc := NewAgencyService(cache, &fakeUpstream{})

	out, err := svc.Agencies(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"agencies":[]}`, string(out))
	assert.Equal(t, AgenciesResource, cache.resource)
	assert.Equal(t, "http://up/api/admin/v1/agencies", cache.url)
}

func TestAgencyService_SearchRequiresSlug(t *testing.T) {
	up := &fakeUpstream{}
	svc := NewAgencyService(&fakeCache{}, up)

	_, err := svc.Search(context.Background(), upstream.Count, upstream.SearchQuery{Query: "water"})
	assert.True(t, model.IsValidationError(err))
	assert.Equal(t, 0, up.calls)

	_, err = svc.Search(context.Background(), upstream.Titles, upstream.SearchQuery{Child: "epa-region-1"})
	require.NoError(t, err)
	assert.Equal(t, upstream.Titles, up.ep)
}

// --- Chat ---

func TestChatService_PostMessageStampsIDAndTime(t *testing.T) {
	store := newFakeCollections()
	svc := NewChatService(store)
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	msg, err := svc.PostMessage(context.Background(), model.MessageInput{Text: "hello", User: "ann"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, model.DefaultRoom, msg.Room)
	assert.True(t, time.Time(msg.CreatedAt).Equal(fixed))

	other, err := svc.PostMessage(context.Background(), model.MessageInput{Text: "again", User: "ann", Room: "ops"})
	require.NoError(t, err)
	assert.NotEqual(t, msg.ID, other.ID)
	assert.Equal(t, "ops", other.Room)

	all, err := svc.ListMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	var stored model.Message
	require.NoError(t, json.Unmarshal(all[0], &stored))
	assert.Equal(t, msg.ID, stored.ID)
	assert.Equal(t, "hello", stored.Text)
}

func TestChatService_PostMessageRejectsBlankText(t *testing.T) {
	store := newFakeCollections()
	svc := NewChatService(store)

	_, err := svc.PostMessage(context.Background(), model.MessageInput{Text: "  ", User: "ann"})
	assert.True(t, model.IsValidationError(err))
	assert.Empty(t, store.records[collection.Messages.Name])
}

func TestChatService_AppendFailurePropagates(t *testing.T) {
	store := newFakeCollections()
	store.appendFn = func(collection.Collection, any) error { return errors.New("disk full") }
	svc := NewChatService(store)

	_, err := svc.PostMessage(context.Background(), model.MessageInput{Text: "hi", User: "ann"})
	assert.EqualError(t, err, "disk full")
}

func TestChatService_ListRoomsDefault(t *testing.T) {
	svc := NewChatService(newFakeCollections())
	rooms, err := svc.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.JSONEq(t, `"general"`, string(rooms[0]))
}

// --- Activity ---

func TestActivityService_UploadWithoutImage(t *testing.T) {
	store := newFakeCollections()
	images := &fakeImages{}
	svc := NewActivityService(store, images)

	_, err := svc.Upload(context.Background(), UploadInput{Fields: map[string]string{"title": "x"}})
	require.Error(t, err)
	assert.True(t, model.IsMissingUploadError(err))
	assert.Empty(t, store.records[collection.Activities.Name])
	assert.Empty(t, images.saved)
}

func TestActivityService_UploadAppendsRecord(t *testing.T) {
	store := newFakeCollections()
	images := &fakeImages{}
	svc := NewActivityService(store, images)

	rec, err := svc.Upload(context.Background(), UploadInput{
		Fields:    map[string]string{"title": "Inspection", "image": "ignored"},
		ImageName: "photo.png",
		Image:     strings.NewReader("bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Inspection", rec["title"])
	assert.Equal(t, "/images/stored-photo.png", rec[model.ActivityImageField])
	assert.Equal(t, "bytes", images.saved["stored-photo.png"])

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	var stored map[string]any
	require.NoError(t, json.Unmarshal(all[0], &stored))
	assert.Equal(t, "/images/stored-photo.png", stored["image"])
	assert.NotEmpty(t, stored[model.ActivityUploadedAtField])
}

func TestUserService_List(t *testing.T) {
	store := newFakeCollections()
	store.records[collection.Users.Name] = []json.RawMessage{json.RawMessage(`{"name":"ann"}`)}

	users, err := NewUserService(store).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
