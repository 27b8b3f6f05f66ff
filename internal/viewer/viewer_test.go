package viewer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyim-dev/moyim/internal/backend"
	"github.com/moyim-dev/moyim/internal/boards"
	"github.com/moyim-dev/moyim/internal/feed"
	"github.com/moyim-dev/moyim/internal/notify"
	"github.com/moyim-dev/moyim/internal/profile"
	"github.com/moyim-dev/moyim/internal/session"
	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/domain"
	internal_errors "github.com/moyim-dev/moyim/shared/errors"
)

const testSecret = "viewer-test-secret"

type mockBackend struct {
	fetchPosts         func(ctx context.Context, f backend.Filter) ([]api.PostRecord, error)
	fetchBoardGroups   func(ctx context.Context) ([]api.BoardGroupRecord, error)
	fetchProfile       func(ctx context.Context, userId domain.UserId) (api.UserRecord, error)
	createComment      func(ctx context.Context, postId domain.PostId, parentId domain.CommentId, authorId domain.UserId, content domain.ContentText) (api.CommentRecord, error)
	fetchNotifications func(ctx context.Context, userId domain.UserId) ([]api.NotificationRecord, error)
	markRead           func(ctx context.Context, notificationId string) error
}

func (m *mockBackend) FetchPosts(ctx context.Context, f backend.Filter) ([]api.PostRecord, error) {
	if m.fetchPosts != nil {
		return m.fetchPosts(ctx, f)
	}
	return nil, nil
}

func (m *mockBackend) FetchBoardGroups(ctx context.Context) ([]api.BoardGroupRecord, error) {
	if m.fetchBoardGroups != nil {
		return m.fetchBoardGroups(ctx)
	}
	return nil, nil
}

func (m *mockBackend) FetchProfile(ctx context.Context, userId domain.UserId) (api.UserRecord, error) {
	if m.fetchProfile != nil {
		return m.fetchProfile(ctx, userId)
	}
	return api.UserRecord{Id: userId}, nil
}

func (m *mockBackend) CreatePost(ctx context.Context, authorId domain.UserId, data domain.PostCreationData) error {
	return nil
}

func (m *mockBackend) UpdatePost(ctx context.Context, postId domain.PostId, data domain.PostUpdateData) error {
	return nil
}

func (m *mockBackend) DeletePost(ctx context.Context, postId domain.PostId) error { return nil }

func (m *mockBackend) CreateComment(ctx context.Context, postId domain.PostId, parentId domain.CommentId, authorId domain.UserId, content domain.ContentText) (api.CommentRecord, error) {
	if m.createComment != nil {
		return m.createComment(ctx, postId, parentId, authorId, content)
	}
	return api.CommentRecord{Id: "server-id", PostId: postId, ParentId: parentId, Content: content, Author: api.UserRecord{Id: authorId}}, nil
}

func (m *mockBackend) UpdateComment(ctx context.Context, commentId domain.CommentId, content domain.ContentText) error {
	return nil
}

func (m *mockBackend) DeleteComment(ctx context.Context, commentId domain.CommentId) error {
	return nil
}

func (m *mockBackend) CreateLike(ctx context.Context, postId domain.PostId, userId domain.UserId) error {
	return nil
}

func (m *mockBackend) DeleteLike(ctx context.Context, postId domain.PostId, userId domain.UserId) error {
	return nil
}

func (m *mockBackend) CreateNotification(ctx context.Context, rec api.NotificationRecord) error {
	return nil
}

func (m *mockBackend) FetchNotifications(ctx context.Context, userId domain.UserId) ([]api.NotificationRecord, error) {
	if m.fetchNotifications != nil {
		return m.fetchNotifications(ctx, userId)
	}
	return nil, nil
}

func (m *mockBackend) MarkNotificationRead(ctx context.Context, notificationId string) error {
	if m.markRead != nil {
		return m.markRead(ctx, notificationId)
	}
	return nil
}

func (m *mockBackend) Subscribe(ctx context.Context, f backend.Filter) (<-chan api.ChangeEvent, error) {
	ch := make(chan api.ChangeEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func mintToken(t *testing.T, uid, name string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  uid,
		"name": name,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newTestHandler(t *testing.T, b backend.Backend) (*Handler, *feed.Feed, *session.Session) {
	t.Helper()
	sess := session.New(testSecret)
	f := feed.New(b, sess, notify.New(b))
	catalog := boards.New(b)
	profiles := profile.NewCache(b)
	return New(f, catalog, sess, profiles, notify.NewInbox(b)), f, sess
}

func seedRecords() []api.PostRecord {
	return []api.PostRecord{{
		Id:      "p1",
		BoardId: "b1",
		Title:   "first",
		Content: "**bold** content",
		Author:  api.UserRecord{Id: "other", Name: "Other"},
	}}
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandler(t, &mockBackend{})
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetPostsRendersContent(t *testing.T) {
	b := &mockBackend{
		fetchPosts: func(ctx context.Context, f backend.Filter) ([]api.PostRecord, error) {
			return seedRecords(), nil
		},
	}
	h, f, _ := newTestHandler(t, b)
	require.NoError(t, f.Refresh(context.Background()))

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/posts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp FeedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "**bold** content", resp.Posts[0].Content)
	assert.Contains(t, resp.Posts[0].ContentHTML, "<strong>bold</strong>")
}

func TestCreateCommentRequiresAuth(t *testing.T) {
	b := &mockBackend{
		fetchPosts: func(ctx context.Context, f backend.Filter) ([]api.PostRecord, error) {
			return seedRecords(), nil
		},
	}
	h, f, _ := newTestHandler(t, b)
	require.NoError(t, f.Refresh(context.Background()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/posts/p1/comments", strings.NewReader(`{"content":"hi"}`))
	h.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignInAndComment(t *testing.T) {
	var gotAuthor domain.UserId
	b := &mockBackend{
		fetchPosts: func(ctx context.Context, f backend.Filter) ([]api.PostRecord, error) {
			return seedRecords(), nil
		},
		createComment: func(ctx context.Context, postId domain.PostId, parentId domain.CommentId, authorId domain.UserId, content domain.ContentText) (api.CommentRecord, error) {
			gotAuthor = authorId
			return api.CommentRecord{Id: "c-real", PostId: postId, Content: content, Author: api.UserRecord{Id: authorId, Name: "Me"}}, nil
		},
	}
	h, f, _ := newTestHandler(t, b)
	require.NoError(t, f.Refresh(context.Background()))
	router := h.Router()

	rec := httptest.NewRecorder()
	signIn := `{"token":"` + mintToken(t, "me", "Me") + `"}`
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/session", strings.NewReader(signIn)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/posts/p1/comments", strings.NewReader(`{"content":"hi"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.UserId("me"), gotAuthor)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/posts", nil))
	var resp FeedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Posts[0].Comments, 1)
	assert.Equal(t, "c-real", resp.Posts[0].Comments[0].Id)
	assert.False(t, resp.Posts[0].Comments[0].Pending)
}

func TestCreateCommentRejectsBlankContent(t *testing.T) {
	b := &mockBackend{
		fetchPosts: func(ctx context.Context, f backend.Filter) ([]api.PostRecord, error) {
			return seedRecords(), nil
		},
	}
	h, f, sess := newTestHandler(t, b)
	require.NoError(t, f.Refresh(context.Background()))
	require.NoError(t, sess.SignIn(mintToken(t, "me", "Me")))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/posts/p1/comments", strings.NewReader(`{"content":"   "}`))
	h.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetSelectionScopesFeed(t *testing.T) {
	var lastFilter backend.Filter
	b := &mockBackend{
		fetchPosts: func(ctx context.Context, f backend.Filter) ([]api.PostRecord, error) {
			lastFilter = f
			return nil, nil
		},
		fetchBoardGroups: func(ctx context.Context) ([]api.BoardGroupRecord, error) {
			return []api.BoardGroupRecord{{
				Id: "g1", Name: "General",
				Boards: []api.BoardRecord{{Id: "b1", GroupId: "g1", Name: "Chat"}},
			}}, nil
		},
	}
	h, _, _ := newTestHandler(t, b)
	require.NoError(t, h.catalog.Load(context.Background()))
	router := h.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PUT", "/v1/selection", strings.NewReader(`{"board_id":"b1"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, backend.Filter{BoardId: "b1"}, lastFilter)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PUT", "/v1/selection", strings.NewReader(`{"board_id":"nope"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PUT", "/v1/selection", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, backend.Filter{}, lastFilter)
}

func TestGetSessionLifecycle(t *testing.T) {
	h, _, _ := newTestHandler(t, &mockBackend{})
	router := h.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	signIn := `{"token":"` + mintToken(t, "me", "Me") + `"}`
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/session", strings.NewReader(signIn)))
	require.Equal(t, http.StatusOK, rec.Code)

	var user domain.UserSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "me", user.Id)
	assert.Equal(t, domain.DefaultAvatar, user.AvatarUrl)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/v1/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetNotificationsRequiresAuth(t *testing.T) {
	h, _, _ := newTestHandler(t, &mockBackend{})

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/v1/notifications/n1/read", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotificationInbox(t *testing.T) {
	var gotUser domain.UserId
	var readIds []string
	b := &mockBackend{
		fetchNotifications: func(ctx context.Context, userId domain.UserId) ([]api.NotificationRecord, error) {
			gotUser = userId
			return []api.NotificationRecord{
				{Id: "n2", Type: domain.NotificationReply, UserId: "me", ActorId: "other", PostId: "p1", CommentId: "c1", CreatedAt: time.Now()},
				{Id: "n1", Type: domain.NotificationLike, UserId: "me", ActorId: "other", PostId: "p1", IsRead: true, CreatedAt: time.Now().Add(-time.Hour)},
			}, nil
		},
		markRead: func(ctx context.Context, notificationId string) error {
			readIds = append(readIds, notificationId)
			return nil
		},
	}
	h, _, sess := newTestHandler(t, b)
	require.NoError(t, sess.SignIn(mintToken(t, "me", "Me")))
	router := h.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/notifications", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []domain.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, domain.UserId("me"), gotUser, "the inbox is scoped to the signed-in user")
	assert.Equal(t, "n2", items[0].Id)
	assert.False(t, items[0].IsRead)
	assert.True(t, items[1].IsRead)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/notifications/n2/read", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"n2"}, readIds)
}

func TestMarkNotificationReadUnknownId(t *testing.T) {
	b := &mockBackend{
		markRead: func(ctx context.Context, notificationId string) error {
			return internal_errors.ErrNotFound
		},
	}
	h, _, sess := newTestHandler(t, b)
	require.NoError(t, sess.SignIn(mintToken(t, "me", "Me")))

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/v1/notifications/gone/read", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProfile(t *testing.T) {
	b := &mockBackend{
		fetchProfile: func(ctx context.Context, userId domain.UserId) (api.UserRecord, error) {
			return api.UserRecord{Id: userId, Name: "Other", ProfileImage: "/img/o.png"}, nil
		},
	}
	h, _, _ := newTestHandler(t, b)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/users/other", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var user domain.UserSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "Other", user.Name)
}
