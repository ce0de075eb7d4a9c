// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── favourites/      # Liked pictures keyed by date
//
// # Usage
//
//	db, err := database.NewDatabase("./stargazer.db", logger)
//	repo := favourites.NewRepository(db.DB)
//	err = repo.Add(picture)
//
// # Interface Implementations
//
//   - favourites.Repository: implements http.FavouritesStore and browser.FavouritesStore
//
// Compile-time checks live in internal/interfaces.
package database
