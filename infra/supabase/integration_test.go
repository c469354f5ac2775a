package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"pulsefeed/domain"
	"pulsefeed/infra/auth"
)

type staticToken string

func (s staticToken) AccessToken() (string, error) { return string(s), nil }

type noToken struct{}

func (noToken) AccessToken() (string, error) { return "", auth.ErrNoToken }

type handlerRoundTripper struct {
	h http.Handler
}

func (rt handlerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := newResponseRecorder()
	rt.h.ServeHTTP(rec, req)
	return rec.response(req), nil
}

type responseRecorder struct {
	header http.Header
	body   strings.Builder
	code   int
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{header: make(http.Header), code: http.StatusOK}
}

func (r *responseRecorder) Header() http.Header         { return r.header }
func (r *responseRecorder) Write(p []byte) (int, error) { return r.body.Write(p) }
func (r *responseRecorder) WriteHeader(statusCode int)  { r.code = statusCode }

func (r *responseRecorder) response(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: r.code,
		Header:     r.header.Clone(),
		Body:       io.NopCloser(strings.NewReader(r.body.String())),
		Request:    req,
	}
}

func newTestClient(h http.Handler) *Client {
	return &Client{
		baseURL:       "https://example.test",
		anonKey:       "anon-key",
		tokenProvider: staticToken("tok"),
		http:          &http.Client{Transport: handlerRoundTripper{h: h}},
	}
}

func postRowJSON(id, authorID, display, username, content string) map[string]any {
	return map[string]any{
		"id":             id,
		"content":        content,
		"created_at":     time.Now().UTC().Format(time.RFC3339),
		"likes_count":    3,
		"views_count":    7,
		"comments_count": 2,
		"author": map[string]any{
			"id":           authorID,
			"username":     username,
			"display_name": display,
		},
	}
}

func TestClient_SendsAPIKeyAndBearerToken(t *testing.T) {
	var gotAPIKey, gotAuth string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	})

	client := newTestClient(h)
	if _, err := client.Get(context.Background(), "/rest/v1/posts"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gotAPIKey != "anon-key" || gotAuth != "Bearer tok" {
		t.Fatalf("unexpected headers: apikey=%q auth=%q", gotAPIKey, gotAuth)
	}
}

func TestClient_NoSessionFallsBackToAnonKey(t *testing.T) {
	var gotAuth string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	})

	client := newTestClient(h)
	client.tokenProvider = noToken{}
	if _, err := client.Get(context.Background(), "/rest/v1/posts"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gotAuth != "Bearer anon-key" {
		t.Fatalf("expected anon bearer fallback, got %q", gotAuth)
	}
}

func TestClient_MapsStatusesOntoDomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrUnauthenticated},
		{"forbidden", http.StatusForbidden, domain.ErrUnauthenticated},
		{"conflict", http.StatusConflict, domain.ErrRemoteRejected},
		{"unprocessable", http.StatusUnprocessableEntity, domain.ErrRemoteRejected},
		{"server error", http.StatusInternalServerError, domain.ErrNetwork},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			})
			client := newTestClient(h)
			_, err := client.Post(context.Background(), "/rest/v1/post_likes", map[string]string{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
			}
		})
	}
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	client := newTestClient(nil)
	client.http = &http.Client{Transport: failingRoundTripper{}}
	_, err := client.Get(context.Background(), "/rest/v1/posts")
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

type failingRoundTripper struct{}

func (failingRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestIdentityService_FetchesAndCaches(t *testing.T) {
	var hits int
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		hits++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "user-1",
			"email": "kai@example.test",
			"user_metadata": map[string]any{
				"username": "kai",
			},
		})
	})

	svc := NewIdentityService(newTestClient(h))
	actor, err := svc.CurrentActor(context.Background())
	if err != nil {
		t.Fatalf("current actor failed: %v", err)
	}
	if actor.ID != "user-1" || actor.Username != "kai" {
		t.Fatalf("unexpected actor: %#v", actor)
	}

	if _, err := svc.CurrentActor(context.Background()); err != nil {
		t.Fatalf("cached lookup failed: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected a single auth fetch, got %d", hits)
	}
}

func TestIdentityService_AnonymousIsUnauthenticated(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	})

	svc := NewIdentityService(newTestClient(h))
	_, err := svc.CurrentActor(context.Background())
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestLikeService_InsertAndDelete_RequestShape(t *testing.T) {
	var inserts, deletes int
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/post_likes":
			inserts++
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["post_id"] != "p1" || body["user_id"] != "user-1" {
				t.Fatalf("unexpected insert body: %v", body)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`[{}]`))
		case r.Method == http.MethodDelete && r.URL.Path == "/rest/v1/comment_likes":
			deletes++
			q := r.URL.Query()
			if q.Get("comment_id") != "eq.c1" || q.Get("user_id") != "eq.user-1" {
				t.Fatalf("unexpected delete filters: %v", q)
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected req: %s %s", r.Method, r.URL.Path)
		}
	})

	svc := NewLikeService(newTestClient(h))
	post := domain.Subject{ID: "p1", Kind: domain.KindPost}
	comment := domain.Subject{ID: "c1", Kind: domain.KindComment}

	if err := svc.InsertLike(context.Background(), post, "user-1"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := svc.DeleteLike(context.Background(), comment, "user-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if inserts != 1 || deletes != 1 {
		t.Fatalf("unexpected call counts: inserts=%d deletes=%d", inserts, deletes)
	}
}

func TestLikeService_DuplicateInsertIsRemoteRejected(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"duplicate key value"}`))
	})

	svc := NewLikeService(newTestClient(h))
	err := svc.InsertLike(context.Background(), domain.Subject{ID: "p1", Kind: domain.KindPost}, "user-1")
	if !errors.Is(err, domain.ErrRemoteRejected) {
		t.Fatalf("expected remote rejection, got %v", err)
	}
}

func TestCounterService_CallsExpectedRPCs(t *testing.T) {
	var paths []string
	var lastBody map[string]string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		lastBody = nil
		_ = json.NewDecoder(r.Body).Decode(&lastBody)
		_, _ = w.Write([]byte(`null`))
	})

	svc := NewCounterService(newTestClient(h), "session-9")
	ctx := context.Background()
	post := domain.Subject{ID: "p1", Kind: domain.KindPost}
	comment := domain.Subject{ID: "c1", Kind: domain.KindComment}

	if err := svc.IncrementLikeCount(ctx, post); err != nil {
		t.Fatalf("increment likes failed: %v", err)
	}
	if err := svc.DecrementLikeCount(ctx, comment); err != nil {
		t.Fatalf("decrement likes failed: %v", err)
	}
	if err := svc.IncrementViewCount(ctx, post); err != nil {
		t.Fatalf("increment views failed: %v", err)
	}

	want := []string{
		"/rest/v1/rpc/increment_post_likes",
		"/rest/v1/rpc/decrement_comment_likes",
		"/rest/v1/rpc/increment_post_views",
	}
	if len(paths) != len(want) {
		t.Fatalf("unexpected rpc calls: %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("rpc %d: got %s want %s", i, paths[i], want[i])
		}
	}
	if lastBody["post_id"] != "p1" || lastBody["session_id"] != "session-9" {
		t.Fatalf("view rpc must carry subject and session: %v", lastBody)
	}
}

func TestTimelineService_FetchFeedPage_RequestShapeAndMapping(t *testing.T) {
	var gotQuery url.Values
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/user":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": "user-1", "email": "me@example.test",
			})
		case "/rest/v1/posts":
			gotQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode([]map[string]any{
				postRowJSON("20", "user-1", "Me", "me", "own post"),
				postRowJSON("19", "user-2", "", "other", "their post"),
			})
		case "/rest/v1/post_likes":
			q := r.URL.Query()
			if q.Get("user_id") != "eq.user-1" || q.Get("post_id") != "in.(20,19)" {
				t.Fatalf("unexpected like filters: %v", q)
			}
			_ = json.NewEncoder(w).Encode([]map[string]string{{"post_id": "19"}})
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	})

	client := newTestClient(h)
	svc := NewTimelineService(client, NewIdentityService(client))

	posts, err := svc.FetchFeedPage(context.Background(), 20, "21")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if gotQuery.Get("limit") != "20" || gotQuery.Get("id") != "lt.21" {
		t.Fatalf("unexpected query: %v", gotQuery)
	}
	if gotQuery.Get("order") != "id.desc" {
		t.Fatalf("expected newest-first order, got %v", gotQuery)
	}
	if len(posts) != 2 {
		t.Fatalf("expected two posts, got %d", len(posts))
	}
	if !posts[0].IsOwn || posts[0].Liked {
		t.Fatalf("unexpected own-post mapping: %#v", posts[0])
	}
	if posts[1].IsOwn || !posts[1].Liked {
		t.Fatalf("expected liked enrichment on second post: %#v", posts[1])
	}
	if posts[1].Author != "other" {
		t.Fatalf("expected username fallback for empty display name: %q", posts[1].Author)
	}
}

func TestTimelineService_AnonymousSkipsLikeEnrichment(t *testing.T) {
	var likeQueries int
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/user":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{}`))
		case "/rest/v1/posts":
			_ = json.NewEncoder(w).Encode([]map[string]any{
				postRowJSON("1", "user-2", "Other", "other", "post"),
			})
		case "/rest/v1/post_likes":
			likeQueries++
			_, _ = w.Write([]byte(`[]`))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	})

	client := newTestClient(h)
	svc := NewTimelineService(client, NewIdentityService(client))

	posts, err := svc.FetchFeed(context.Background(), 20)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Liked || posts[0].IsOwn {
		t.Fatalf("unexpected anonymous mapping: %#v", posts)
	}
	if likeQueries != 0 {
		t.Fatalf("anonymous sessions must not query likes")
	}
}

func TestTimelineService_FetchComments_MapsParent(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/user":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{}`))
		case "/rest/v1/comments":
			q := r.URL.Query()
			if q.Get("post_id") != "eq.p1" || q.Get("order") != "created_at.asc" {
				t.Fatalf("unexpected comment filters: %v", q)
			}
			row := postRowJSON("c1", "user-2", "Other", "other", "a comment")
			row["post_id"] = "p1"
			_ = json.NewEncoder(w).Encode([]map[string]any{row})
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	})

	client := newTestClient(h)
	svc := NewTimelineService(client, NewIdentityService(client))

	comments, err := svc.FetchComments(context.Background(), "p1")
	if err != nil {
		t.Fatalf("fetch comments failed: %v", err)
	}
	if len(comments) != 1 || comments[0].ParentID != "p1" {
		t.Fatalf("unexpected comment mapping: %#v", comments)
	}
	if comments[0].Subject().Kind != domain.KindComment {
		t.Fatalf("comment rows must map to comment subjects")
	}
}

func TestCommentService_PostComment(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/comments" {
			t.Fatalf("unexpected req: %s %s", r.Method, r.URL.Path)
		}
		if prefer := r.Header.Get("Prefer"); !strings.Contains(prefer, "return=representation") {
			t.Fatalf("insert must request the stored row back, got %q", prefer)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["post_id"] != "p1" || body["content"] != "nice one" {
			t.Fatalf("unexpected body: %v", body)
		}
		row := postRowJSON("c9", "user-1", "Me", "me", "nice one")
		row["post_id"] = "p1"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]map[string]any{row})
	})

	svc := NewCommentService(newTestClient(h))
	comment, err := svc.PostComment(context.Background(), "p1", "  nice one \n")
	if err != nil {
		t.Fatalf("post comment failed: %v", err)
	}
	if comment.ID != "c9" || comment.ParentID != "p1" || !comment.IsOwn {
		t.Fatalf("unexpected comment: %#v", comment)
	}
}

func TestCommentService_EmptyCommentRejectedLocally(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("empty comment must not reach the network")
	})

	svc := NewCommentService(newTestClient(h))
	_, err := svc.PostComment(context.Background(), "p1", "   \n\t")
	if !errors.Is(err, domain.ErrEmptyComment) {
		t.Fatalf("expected empty comment error, got %v", err)
	}
}
