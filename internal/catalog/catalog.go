// Package catalog holds the music catalog: artists, albums, songs with
// lyrics, and per-user playlists.
//
// The recommendation core consumes the catalog only through two narrow
// views: a song/lyrics lookup and a user's liked-songs set (the "Favorites"
// playlist). The catalog itself is plain CRUD over an in-memory store that
// can be loaded from and saved to a single JSON file.
package catalog

import (
	"errors"
	"fmt"
)

// FavoritesPlaylist is the reserved playlist name backing a user's
// liked-songs set. It is created on demand, one per user.
const FavoritesPlaylist = "Favorites"

// ErrNotFound indicates a lookup against the catalog missed.
var ErrNotFound = errors.New("not found in catalog")

// Artist is a recording artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album groups songs under an artist and carries the genre that songs
// inherit when they don't set their own.
type Album struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ArtistID    string `json:"artist_id"`
	Genre       string `json:"genre,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	CoverPath   string `json:"cover_path,omitempty"`
}

// Song is a catalog track. Lyrics may be empty; absence of lyrics is not an
// error anywhere in the pipeline.
type Song struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ArtistID    string `json:"artist_id"`
	AlbumID     string `json:"album_id,omitempty"`
	Genre       string `json:"genre,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Lyrics      string `json:"lyrics,omitempty"`
}

// Playlist is an ordered set of songs owned by a user.
type Playlist struct {
	Name    string   `json:"name"`
	User    string   `json:"user"`
	SongIDs []string `json:"song_ids"`
}

// Record is a display-ready recommendation entry, the shape handed to the
// presentation layer and stored in session state.
type Record struct {
	SongTitle string `json:"song_title"`
	Album     string `json:"album"`
	Artist    string `json:"artist"`
	Genre     string `json:"genre"`
}

// SongSource is the lookup view the recommendation core consumes.
type SongSource interface {
	// Song returns the track with the given id, or ErrNotFound.
	Song(id string) (Song, error)
	// LikedSongs returns the songs in the user's Favorites playlist, in
	// playlist order. A user with no Favorites playlist has no liked songs.
	LikedSongs(user string) ([]Song, error)
	// Resolve returns every song whose title and genre both match. Used to
	// round-trip ranked (name, genre) pairs back to catalog records.
	Resolve(name, genre string) []Song
	// DisplayRecord joins a song with its album and artist names.
	DisplayRecord(song Song) Record
}

// validateSong rejects songs that cannot be stored.
func validateSong(s Song) error {
	if s.ID == "" {
		return fmt.Errorf("song id is required")
	}
	if s.Title == "" {
		return fmt.Errorf("song %q: title is required", s.ID)
	}
	if s.ArtistID == "" {
		return fmt.Errorf("song %q: artist is required", s.ID)
	}
	return nil
}
