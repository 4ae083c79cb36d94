package repository_test

import (
	"context"
	"testing"
	"time"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreFindOrCreateIsIdempotent(t *testing.T) {
	db := testutil.NewDatabase(t)
	repo := repository.NewGenreRepository(db)
	ctx := context.Background()

	first, created, err := repo.FindOrCreate(ctx, 28, "Action")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Action", first.Name)

	second, created, err := repo.FindOrCreate(ctx, 28, "Renamed")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Action", second.Name)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	missing, err := repo.FindByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMovieCreateAttachesGenres(t *testing.T) {
	db := testutil.NewDatabase(t)
	movies := repository.NewMovieRepository(db)
	genres := repository.NewGenreRepository(db)
	ctx := context.Background()

	_, _, err := genres.FindOrCreate(ctx, 18, "Drama")
	require.NoError(t, err)

	movie := &models.Movie{TMDBID: 550, Title: "Fight Club", Description: "Soap.", ReleaseDate: "1999-10-15"}
	err = movies.Create(ctx, movie, []models.Genre{
		{TMDBGenreID: 18, Name: "ignored, already stored"},
		{TMDBGenreID: 53, Name: "Thriller"},
		{TMDBGenreID: 53, Name: "Thriller"},
	})
	require.NoError(t, err)

	found, err := movies.FindByTMDBID(ctx, 550)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.MediaTypeMovie, found.TMDBType)
	require.Len(t, found.Genres, 2)

	names := []string{found.Genres[0].Name, found.Genres[1].Name}
	assert.ElementsMatch(t, []string{"Drama", "Thriller"}, names)
}

func TestMovieUpdateReplacesGenres(t *testing.T) {
	db := testutil.NewDatabase(t)
	movies := repository.NewMovieRepository(db)
	ctx := context.Background()

	movie := &models.Movie{TMDBID: 1, Title: "X", Description: "d", ReleaseDate: "2020-01-01"}
	require.NoError(t, movies.Create(ctx, movie, []models.Genre{
		{TMDBGenreID: 1, Name: "Action"},
		{TMDBGenreID: 2, Name: "Comedy"},
	}))

	movie.Title = "Y"
	require.NoError(t, movies.Update(ctx, movie, []models.Genre{{TMDBGenreID: 3, Name: "Horror"}}))

	found, err := movies.FindByTMDBID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Y", found.Title)
	require.Len(t, found.Genres, 1)
	assert.Equal(t, 3, found.Genres[0].TMDBGenreID)

	require.NoError(t, movies.Update(ctx, found, nil))

	found, err = movies.FindByTMDBID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, found.Genres)
}

func TestMovieAndTVSeriesShareNoLookups(t *testing.T) {
	db := testutil.NewDatabase(t)
	movies := repository.NewMovieRepository(db)
	series := repository.NewTVSeriesRepository(db)
	ctx := context.Background()

	require.NoError(t, movies.Create(ctx, &models.Movie{TMDBID: 7, Title: "Film", Description: "d", ReleaseDate: "2001-01-01"}, nil))
	require.NoError(t, series.Create(ctx, &models.TVSeries{TMDBID: 8, Title: "Show", Description: "d", ReleaseDate: "2002-01-01"}, nil))

	tv, err := series.FindByTMDBID(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, tv)

	movie, err := movies.FindByTMDBID(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, movie)

	show, err := series.FindByTMDBID(ctx, 8)
	require.NoError(t, err)
	require.NotNil(t, show)
	assert.Equal(t, models.MediaTypeTV, show.TMDBType)

	all, err := series.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWatchlistMembership(t *testing.T) {
	db := testutil.NewDatabase(t)
	users := repository.NewUserRepository(db)
	movies := repository.NewMovieRepository(db)
	series := repository.NewTVSeriesRepository(db)
	watchlists := repository.NewWatchlistRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "a@example.com", Username: "a", PasswordHash: "x", IsActive: true}
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, movies.Create(ctx, &models.Movie{TMDBID: 1, Title: "X", Description: "d", ReleaseDate: "2020-01-01"}, nil))
	require.NoError(t, series.Create(ctx, &models.TVSeries{TMDBID: 1, Title: "S", Description: "d", ReleaseDate: "2020-01-01"}, nil))

	_, err := watchlists.RemoveMember(ctx, user.ID, models.MediaTypeMovie, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	added, err := watchlists.AddMember(ctx, user.ID, models.MediaTypeMovie, 1)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = watchlists.AddMember(ctx, user.ID, models.MediaTypeMovie, 1)
	require.NoError(t, err)
	assert.False(t, added)

	added, err = watchlists.AddMember(ctx, user.ID, models.MediaTypeTV, 1)
	require.NoError(t, err)
	assert.True(t, added)

	lists, err := watchlists.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	items := lists[0].Items()
	require.Len(t, items, 2)
	assert.Equal(t, models.MediaTypeMovie, items[0].MediaType)
	assert.Equal(t, models.MediaTypeTV, items[1].MediaType)

	removed, err := watchlists.RemoveMember(ctx, user.ID, models.MediaTypeTV, 42)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = watchlists.RemoveMember(ctx, user.ID, models.MediaTypeMovie, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	lists, err = watchlists.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Len(t, lists[0].Items(), 1)
}

func TestReviewsFilteredByTarget(t *testing.T) {
	db := testutil.NewDatabase(t)
	users := repository.NewUserRepository(db)
	movies := repository.NewMovieRepository(db)
	series := repository.NewTVSeriesRepository(db)
	reviews := repository.NewReviewRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "r@example.com", Username: "r", PasswordHash: "x", IsActive: true}
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, movies.Create(ctx, &models.Movie{TMDBID: 5, Title: "M", Description: "d", ReleaseDate: "2020-01-01"}, nil))
	require.NoError(t, series.Create(ctx, &models.TVSeries{TMDBID: 5, Title: "S", Description: "d", ReleaseDate: "2020-01-01"}, nil))

	id := 5
	require.NoError(t, reviews.Create(ctx, &models.Review{MovieID: &id, UserID: user.ID, Content: "movie review"}))
	require.NoError(t, reviews.Create(ctx, &models.Review{TVSeriesID: &id, UserID: user.ID, Content: "tv review"}))

	movieReviews, err := reviews.FindByMovie(ctx, 5)
	require.NoError(t, err)
	require.Len(t, movieReviews, 1)
	assert.Equal(t, "movie review", movieReviews[0].Content)
	require.NotNil(t, movieReviews[0].User)
	assert.Equal(t, "r", movieReviews[0].User.Username)

	tvReviews, err := reviews.FindByTVSeries(ctx, 5)
	require.NoError(t, err)
	require.Len(t, tvReviews, 1)
	assert.Equal(t, "tv review", tvReviews[0].Content)

	none, err := reviews.FindByTVSeries(ctx, 6)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRevokedTokens(t *testing.T) {
	db := testutil.NewDatabase(t)
	users := repository.NewUserRepository(db)
	tokens := repository.NewRevokedTokenRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "t@example.com", Username: "t", PasswordHash: "x", IsActive: true}
	require.NoError(t, users.Create(ctx, user))

	now := time.Now().UTC()
	fresh, err := tokens.Revoke(ctx, &models.RevokedToken{JTI: "abc", UserID: user.ID, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = tokens.Revoke(ctx, &models.RevokedToken{JTI: "abc", UserID: user.ID, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.False(t, fresh)

	revoked, err := tokens.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = tokens.Revoke(ctx, &models.RevokedToken{JTI: "old", UserID: user.ID, ExpiresAt: now.Add(-time.Hour)})
	require.NoError(t, err)

	deleted, err := tokens.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	revoked, err = tokens.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestUserLookups(t *testing.T) {
	db := testutil.NewDatabase(t)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "someone@example.com", Username: "someone", PasswordHash: "x", IsActive: true}
	require.NoError(t, users.Create(ctx, user))

	found, err := users.FindByEmail(ctx, "SOMEONE@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	exists, err := users.ExistsByUsername(ctx, "someone")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = users.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	missing, err := users.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
