package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"movie-catalog/internal/handlers"
	"movie-catalog/internal/middleware"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/routes"
	"movie-catalog/internal/services"
	"movie-catalog/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string            `json:"status"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type testServer struct {
	t     *testing.T
	app   *fiber.App
	users repository.UserRepository
}

func newTestServer(t *testing.T, writesRequireStaff bool) *testServer {
	t.Helper()
	db := testutil.NewDatabase(t)
	log := testutil.NewLogger()
	cfg := testutil.AuthConfig()

	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	seriesRepo := repository.NewTVSeriesRepository(db)
	revocation := services.NewDatabaseRevocationStore(repository.NewRevokedTokenRepository(db))
	authService := services.NewAuthService(userRepo, services.NewTokenManager(cfg), revocation, cfg.BcryptCost, log)

	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, log),
		Movie:     handlers.NewMovieHandler(services.NewMovieService(movieRepo, nil, log), log),
		TVSeries:  handlers.NewTVSeriesHandler(services.NewTVSeriesService(seriesRepo, nil, log), log),
		Genre:     handlers.NewGenreHandler(services.NewGenreService(repository.NewGenreRepository(db), log), log),
		Review:    handlers.NewReviewHandler(services.NewReviewService(repository.NewReviewRepository(db), movieRepo, seriesRepo, log), log),
		Watchlist: handlers.NewWatchlistHandler(services.NewWatchlistService(repository.NewWatchlistRepository(db), movieRepo, seriesRepo, log), log),
		Upload:    handlers.NewUploadHandler(nil, log),
	}

	app := fiber.New()
	routes.Setup(app, h, middleware.NewAuth(authService, writesRequireStaff, log))

	return &testServer{t: t, app: app, users: userRepo}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

type tokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

func (s *testServer) register(email, username string) tokenPair {
	s.t.Helper()
	status, env := s.do(http.MethodPost, "/api/v1/register/", "", map[string]string{
		"email":    email,
		"username": username,
		"password": "s3cret-pass",
	})
	require.Equal(s.t, http.StatusCreated, status, env.Message)
	return decode[tokenPair](s.t, env.Data)
}

func movieBody(id int, title string) map[string]interface{} {
	return map[string]interface{}{
		"tmdb_id":      id,
		"title":        title,
		"description":  "A movie.",
		"release_date": "2020-01-01",
		"genres": []map[string]interface{}{
			{"tmdb_genre_id": 1, "name": "Action"},
		},
	}
}

type watchlistBody struct {
	ID    uint `json:"id"`
	Items []struct {
		TMDBID    int    `json:"tmdb_id"`
		Title     string `json:"title"`
		MediaType string `json:"media_type"`
	} `json:"items"`
}

func TestWatchlistEndToEnd(t *testing.T) {
	s := newTestServer(t, false)
	tokens := s.register("a@example.com", "a")

	status, env := s.do(http.MethodPost, "/api/v1/movies/", tokens.Access, movieBody(1, "X"))
	require.Equal(t, http.StatusCreated, status, env.Errors)

	item := map[string]interface{}{"tmdb_id": 1, "tmdb_type": "movie"}

	status, env = s.do(http.MethodPost, "/api/v1/watchlist/add/", tokens.Access, item)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Movie added to watchlist.", env.Message)

	status, env = s.do(http.MethodPost, "/api/v1/watchlist/add/", tokens.Access, item)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Movie is already in watchlist.", env.Message)

	status, env = s.do(http.MethodGet, "/api/v1/watchlist/", tokens.Access, nil)
	require.Equal(t, http.StatusOK, status)
	lists := decode[[]watchlistBody](t, env.Data)
	require.Len(t, lists, 1)
	require.Len(t, lists[0].Items, 1)
	assert.Equal(t, 1, lists[0].Items[0].TMDBID)
	assert.Equal(t, "movie", lists[0].Items[0].MediaType)

	status, env = s.do(http.MethodPost, "/api/v1/watchlist/remove/", tokens.Access, item)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Movie removed from watchlist.", env.Message)

	status, env = s.do(http.MethodGet, "/api/v1/watchlist/", tokens.Access, nil)
	require.Equal(t, http.StatusOK, status)
	lists = decode[[]watchlistBody](t, env.Data)
	require.Len(t, lists, 1)
	assert.Empty(t, lists[0].Items)

	status, env = s.do(http.MethodPost, "/api/v1/watchlist/remove/", tokens.Access, item)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Movie not found in watchlist.", env.Message)
	missing := decode[map[string]interface{}](t, env.Data)
	assert.EqualValues(t, 1, missing["tmdb_id"])
	assert.Equal(t, "movie", missing["tmdb_type"])
}

func TestWatchlistAcceptsNumericStringID(t *testing.T) {
	s := newTestServer(t, false)
	tokens := s.register("a@example.com", "a")

	status, _ := s.do(http.MethodPost, "/api/v1/movies/", tokens.Access, movieBody(1, "X"))
	require.Equal(t, http.StatusCreated, status)

	status, env := s.do(http.MethodPost, "/api/v1/watchlist/add/", tokens.Access, map[string]interface{}{"tmdb_id": "1", "tmdb_type": "movie"})
	assert.Equal(t, http.StatusCreated, status, env.Message)

	status, env = s.do(http.MethodPost, "/api/v1/watchlist/remove/", tokens.Access, map[string]interface{}{"tmdb_id": " 1 "})
	assert.Equal(t, http.StatusOK, status, env.Message)

	status, env = s.do(http.MethodPost, "/api/v1/watchlist/add/", tokens.Access, map[string]interface{}{"tmdb_id": "abc"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "A valid integer is required.", env.Errors["tmdb_id"])

	status, env = s.do(http.MethodPost, "/api/v1/watchlist/add/", tokens.Access, map[string]interface{}{"tmdb_id": 1.5})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "tmdb_id")

	status, env = s.do(http.MethodPost, "/api/v1/watchlist/add/", tokens.Access, map[string]interface{}{"tmdb_type": "movie"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "This field is required.", env.Errors["tmdb_id"])
}

func TestWatchlistRequiresExistingTarget(t *testing.T) {
	s := newTestServer(t, false)
	tokens := s.register("a@example.com", "a")

	status, _ := s.do(http.MethodPost, "/api/v1/watchlist/remove/", tokens.Access, map[string]interface{}{"tmdb_id": 1})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(http.MethodPost, "/api/v1/watchlist/add/", tokens.Access, map[string]interface{}{"tmdb_id": 404, "tmdb_type": "tv"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(http.MethodGet, "/api/v1/watchlist/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGenreCreateReportsCreation(t *testing.T) {
	s := newTestServer(t, false)
	tokens := s.register("a@example.com", "a")

	body := map[string]interface{}{"tmdb_genre_id": 28, "name": "Action"}
	status, env := s.do(http.MethodPost, "/api/v1/genres/", tokens.Access, body)
	assert.Equal(t, http.StatusCreated, status)

	body["name"] = "Renamed"
	status, env = s.do(http.MethodPost, "/api/v1/genres", tokens.Access, body)
	assert.Equal(t, http.StatusOK, status)
	genre := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, "Action", genre["name"])

	status, env = s.do(http.MethodGet, "/api/v1/genres/28/", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodGet, "/api/v1/genres/29/", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = s.do(http.MethodGet, "/api/v1/genres/", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]interface{}](t, env.Data), 1)
}

func TestDetailLookupsRespectMediaType(t *testing.T) {
	s := newTestServer(t, false)
	tokens := s.register("a@example.com", "a")

	status, _ := s.do(http.MethodPost, "/api/v1/tv/", tokens.Access, movieBody(1399, "Series"))
	require.Equal(t, http.StatusCreated, status)

	status, env := s.do(http.MethodGet, "/api/v1/tv/1399/", "", nil)
	require.Equal(t, http.StatusOK, status)
	series := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, "tv", series["tmdb_type"])

	status, _ = s.do(http.MethodGet, "/api/v1/movies/1399/", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(http.MethodPut, "/api/v1/movies/1399/", tokens.Access, map[string]interface{}{"title": "Y"})
	assert.Equal(t, http.StatusNotFound, status)

	status, env = s.do(http.MethodGet, "/api/v1/movies/", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]map[string]interface{}](t, env.Data))
}

func TestUpdateMovieReplacesGenres(t *testing.T) {
	s := newTestServer(t, false)
	tokens := s.register("a@example.com", "a")

	status, _ := s.do(http.MethodPost, "/api/v1/movies/", tokens.Access, movieBody(7, "Before"))
	require.Equal(t, http.StatusCreated, status)

	status, env := s.do(http.MethodPut, "/api/v1/movies/7/", tokens.Access, map[string]interface{}{"title": "After"})
	require.Equal(t, http.StatusOK, status, env.Errors)

	status, env = s.do(http.MethodGet, "/api/v1/movies/7/", "", nil)
	require.Equal(t, http.StatusOK, status)
	movie := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, "After", movie["title"])
	assert.Equal(t, "A movie.", movie["description"])
	assert.Empty(t, movie["genres"])
}

func TestUpdateMovieRejectsBlankFields(t *testing.T) {
	s := newTestServer(t, false)
	tokens := s.register("a@example.com", "a")

	status, _ := s.do(http.MethodPost, "/api/v1/movies/", tokens.Access, movieBody(7, "Before"))
	require.Equal(t, http.StatusCreated, status)

	cases := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"empty title", map[string]interface{}{"title": ""}, "title"},
		{"whitespace title", map[string]interface{}{"title": "   "}, "title"},
		{"empty description", map[string]interface{}{"description": ""}, "description"},
		{"empty release date", map[string]interface{}{"release_date": ""}, "release_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := s.do(http.MethodPut, "/api/v1/movies/7/", tokens.Access, tc.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, env.Errors, tc.field)
		})
	}

	status, env := s.do(http.MethodPatch, "/api/v1/movies/7/", tokens.Access, map[string]interface{}{"title": "", "description": ""})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "This field may not be blank.", env.Errors["title"])
	assert.Equal(t, "This field may not be blank.", env.Errors["description"])

	status, env = s.do(http.MethodGet, "/api/v1/movies/7/", "", nil)
	require.Equal(t, http.StatusOK, status)
	movie := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, "Before", movie["title"])
	assert.Equal(t, "A movie.", movie["description"])
}

func TestCatalogWritesRequireAuthentication(t *testing.T) {
	s := newTestServer(t, false)

	status, _ := s.do(http.MethodPost, "/api/v1/movies/", "", movieBody(1, "X"))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodPost, "/api/v1/movies/", "not-a-token", movieBody(1, "X"))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCatalogWritesCanRequireStaff(t *testing.T) {
	s := newTestServer(t, true)
	tokens := s.register("a@example.com", "a")

	status, _ := s.do(http.MethodPost, "/api/v1/movies/", tokens.Access, movieBody(1, "X"))
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCreateMovieValidation(t *testing.T) {
	s := newTestServer(t, false)
	tokens := s.register("a@example.com", "a")

	status, env := s.do(http.MethodPost, "/api/v1/movies/", tokens.Access, map[string]interface{}{
		"tmdb_id":      1,
		"release_date": "01/01/2020",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "title")
	assert.Contains(t, env.Errors, "release_date")

	status, _ = s.do(http.MethodPost, "/api/v1/movies/", tokens.Access, movieBody(2, "X"))
	require.Equal(t, http.StatusCreated, status)
	status, env = s.do(http.MethodPost, "/api/v1/movies/", tokens.Access, movieBody(2, "X"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "tmdb_id")
}

type reviewBody struct {
	ID       uint   `json:"id"`
	Movie    *int   `json:"movie"`
	TVSeries *int   `json:"tv_series"`
	Content  string `json:"content"`
	User     string `json:"user"`
}

func TestReviews(t *testing.T) {
	s := newTestServer(t, false)
	alice := s.register("alice@example.com", "alice")
	s.register("bob@example.com", "bob")

	status, _ := s.do(http.MethodPost, "/api/v1/movies/", alice.Access, movieBody(550, "Fight Club"))
	require.Equal(t, http.StatusCreated, status)

	status, env := s.do(http.MethodPost, "/api/v1/reviews/", alice.Access, map[string]interface{}{"movie": 550, "content": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Content cannot be empty.", env.Errors["content"])

	status, env = s.do(http.MethodPost, "/api/v1/reviews/", alice.Access, map[string]interface{}{
		"movie":   550,
		"content": "Great.",
		"user":    "bob",
	})
	require.Equal(t, http.StatusCreated, status)
	created := decode[reviewBody](t, env.Data)
	assert.Equal(t, "alice", created.User)
	require.NotNil(t, created.Movie)
	assert.Equal(t, 550, *created.Movie)
	assert.Nil(t, created.TVSeries)

	status, env = s.do(http.MethodPost, "/api/v1/reviews/", alice.Access, map[string]interface{}{"tv_series": 550, "content": "Wrong type."})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "tv_series")

	status, _ = s.do(http.MethodPost, "/api/v1/reviews/", "", map[string]interface{}{"movie": 550, "content": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = s.do(http.MethodGet, "/api/v1/reviews/550/movie/", "", nil)
	require.Equal(t, http.StatusOK, status)
	reviews := decode[[]reviewBody](t, env.Data)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Great.", reviews[0].Content)

	status, env = s.do(http.MethodGet, "/api/v1/reviews/550/tv/", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]reviewBody](t, env.Data))
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, false)
	tokens := s.register("Carol@Example.com", "carol")

	status, env := s.do(http.MethodPost, "/api/v1/register/", "", map[string]string{
		"email": "carol@example.com", "username": "carol", "password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "username")

	status, wrong := s.do(http.MethodPost, "/api/v1/login/", "", map[string]string{"email": "carol@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, unknown := s.do(http.MethodPost, "/api/v1/login/", "", map[string]string{"email": "nobody@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, wrong.Message, unknown.Message)

	status, env = s.do(http.MethodPost, "/api/v1/login/", "", map[string]string{"email": "carol@example.com", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, status)
	login := decode[tokenPair](t, env.Data)

	status, env = s.do(http.MethodGet, "/api/v1/user/", login.Access, nil)
	require.Equal(t, http.StatusOK, status)
	me := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, "carol@example.com", me["email"])
	assert.Equal(t, "carol", me["username"])

	status, env = s.do(http.MethodPost, "/api/v1/token/refresh/", "", map[string]string{"refresh": tokens.Refresh})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decode[map[string]string](t, env.Data)["access"])

	status, _ = s.do(http.MethodPost, "/api/v1/logout/", login.Access, map[string]string{"refresh": tokens.Refresh})
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(http.MethodPost, "/api/v1/logout/", login.Access, map[string]string{"refresh": tokens.Refresh})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPost, "/api/v1/logout/", login.Access, map[string]string{"refresh": "garbage"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPost, "/api/v1/token/refresh/", "", map[string]string{"refresh": tokens.Refresh})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodPost, "/api/v1/logout/", "", map[string]string{"refresh": login.Refresh})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogoutAcceptsRefreshTokenKey(t *testing.T) {
	s := newTestServer(t, false)
	tokens := s.register("dave@example.com", "dave")

	status, _ := s.do(http.MethodPost, "/api/v1/logout/", tokens.Access, map[string]string{"refresh_token": tokens.Refresh})
	require.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(http.MethodPost, "/api/v1/token/refresh/", "", map[string]string{"refresh": tokens.Refresh})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodPost, "/api/v1/logout/", tokens.Access, map[string]string{"refresh_token": tokens.Refresh})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPost, "/api/v1/logout/", tokens.Access, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPresignWithoutStorage(t *testing.T) {
	s := newTestServer(t, false)
	tokens := s.register("a@example.com", "a")

	status, _ := s.do(http.MethodGet, "/api/v1/upload/presign?filename=poster.png", tokens.Access, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
