package routes

import (
	"movie-catalog/internal/handlers"
	"movie-catalog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Movie     *handlers.MovieHandler
	TVSeries  *handlers.TVSeriesHandler
	Genre     *handlers.GenreHandler
	Review    *handlers.ReviewHandler
	Watchlist *handlers.WatchlistHandler
	Upload    *handlers.UploadHandler
}

func Setup(app *fiber.App, h Handlers, auth *middleware.Auth) {
	// API versioning
	api := app.Group("/api")
	v1 := api.Group("/v1")

	requireAuth := auth.RequireAuth()
	catalogWrite := []fiber.Handler{requireAuth, auth.RequireStaff()}

	// Auth routes
	v1.Post("/register", h.Auth.Register)
	v1.Post("/login", h.Auth.Login)
	v1.Post("/logout", requireAuth, h.Auth.Logout)
	v1.Post("/token/refresh", h.Auth.RefreshToken)
	v1.Get("/user", requireAuth, h.Auth.Me)

	movies := v1.Group("/movies")
	{
		movies.Get("/", h.Movie.ListMovies)
		movies.Get("/:id", h.Movie.GetMovie)
		movies.Post("/", append(catalogWrite, h.Movie.CreateMovie)...)
		movies.Put("/:id", append(catalogWrite, h.Movie.UpdateMovie)...)
		movies.Patch("/:id", append(catalogWrite, h.Movie.UpdateMovie)...)
	}

	tv := v1.Group("/tv")
	{
		tv.Get("/", h.TVSeries.ListSeries)
		tv.Get("/:id", h.TVSeries.GetSeries)
		tv.Post("/", append(catalogWrite, h.TVSeries.CreateSeries)...)
		tv.Put("/:id", append(catalogWrite, h.TVSeries.UpdateSeries)...)
		tv.Patch("/:id", append(catalogWrite, h.TVSeries.UpdateSeries)...)
	}

	genres := v1.Group("/genres")
	{
		genres.Get("/", h.Genre.ListGenres)
		genres.Post("/", append(catalogWrite, h.Genre.CreateGenre)...)
		genres.Get("/:id", h.Genre.GetGenre)
	}

	reviews := v1.Group("/reviews")
	{
		reviews.Post("/", requireAuth, h.Review.CreateReview)
		reviews.Get("/:id/:media_type", h.Review.ListReviews)
	}

	watchlist := v1.Group("/watchlist", requireAuth)
	{
		watchlist.Get("/", h.Watchlist.ListWatchlists)
		watchlist.Post("/add", h.Watchlist.AddToWatchlist)
		watchlist.Post("/remove", h.Watchlist.RemoveFromWatchlist)
	}

	upload := v1.Group("/upload", requireAuth)
	{
		upload.Get("/presign", h.Upload.GetPresignedURL)
	}
}
