package model

import "time"

// Movie is the catalog entry a showtime screens.  The engine only needs
// the duration, which fixes the showtime end together with the
// turnaround buffer.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title.
//  DurationMin – running time in minutes.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	DurationMin uint32    // movies.duration_min
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}
