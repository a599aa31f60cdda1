package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
)

// Store is the in-memory catalog. It implements SongSource and is safe for
// concurrent use. Load/Save round-trip the whole catalog through one JSON
// file so the CLI can run against durable state.
type Store struct {
	mu        sync.RWMutex
	artists   map[string]Artist
	albums    map[string]Album
	songs     map[string]Song
	songOrder []string // insertion order, keeps listings stable
	playlists map[string]map[string]*Playlist // user -> name -> playlist
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{
		artists:   make(map[string]Artist),
		albums:    make(map[string]Album),
		songs:     make(map[string]Song),
		playlists: make(map[string]map[string]*Playlist),
	}
}

// fileShape is the on-disk JSON layout of a catalog file.
type fileShape struct {
	Artists   []Artist   `json:"artists"`
	Albums    []Album    `json:"albums"`
	Songs     []Song     `json:"songs"`
	Playlists []Playlist `json:"playlists"`
}

// LoadFile reads a catalog from the given JSON file.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	var shape fileShape
	if err := json.NewDecoder(f).Decode(&shape); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}

	s := NewStore()
	for _, a := range shape.Artists {
		s.artists[a.ID] = a
	}
	for _, a := range shape.Albums {
		s.albums[a.ID] = a
	}
	for _, song := range shape.Songs {
		if err := s.AddSong(song); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
	}
	for i := range shape.Playlists {
		p := shape.Playlists[i]
		byName, ok := s.playlists[p.User]
		if !ok {
			byName = make(map[string]*Playlist)
			s.playlists[p.User] = byName
		}
		byName[p.Name] = &p
	}

	slog.Debug("Loaded catalog", "path", path, "songs", len(s.songs), "albums", len(s.albums))
	return s, nil
}

// SaveFile writes the catalog to the given JSON file. Output is
// deterministic: artists and albums sort by id, playlists by user then
// name, and songs keep catalog order.
func (s *Store) SaveFile(path string) error {
	s.mu.RLock()
	shape := fileShape{}
	for _, a := range s.artists {
		shape.Artists = append(shape.Artists, a)
	}
	for _, a := range s.albums {
		shape.Albums = append(shape.Albums, a)
	}
	for _, id := range s.songOrder {
		shape.Songs = append(shape.Songs, s.songs[id])
	}
	for _, byName := range s.playlists {
		for _, p := range byName {
			shape.Playlists = append(shape.Playlists, *p)
		}
	}
	s.mu.RUnlock()

	sort.Slice(shape.Artists, func(i, j int) bool { return shape.Artists[i].ID < shape.Artists[j].ID })
	sort.Slice(shape.Albums, func(i, j int) bool { return shape.Albums[i].ID < shape.Albums[j].ID })
	sort.Slice(shape.Playlists, func(i, j int) bool {
		if shape.Playlists[i].User != shape.Playlists[j].User {
			return shape.Playlists[i].User < shape.Playlists[j].User
		}
		return shape.Playlists[i].Name < shape.Playlists[j].Name
	})

	data, err := json.MarshalIndent(shape, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// AddArtist inserts or replaces an artist.
func (s *Store) AddArtist(a Artist) error {
	if a.ID == "" || a.Name == "" {
		return fmt.Errorf("artist id and name are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artists[a.ID] = a
	return nil
}

// AddAlbum inserts or replaces an album.
func (s *Store) AddAlbum(a Album) error {
	if a.ID == "" || a.Title == "" {
		return fmt.Errorf("album id and title are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.albums[a.ID] = a
	return nil
}

// AddSong inserts or replaces a song. A song without its own genre or
// release date inherits them from its album.
func (s *Store) AddSong(song Song) error {
	if err := validateSong(song); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if album, ok := s.albums[song.AlbumID]; ok {
		if song.Genre == "" {
			song.Genre = album.Genre
		}
		if album.ReleaseDate != "" {
			song.ReleaseDate = album.ReleaseDate
		}
	}

	if _, exists := s.songs[song.ID]; !exists {
		s.songOrder = append(s.songOrder, song.ID)
	}
	s.songs[song.ID] = song
	return nil
}

// Song returns the track with the given id.
func (s *Store) Song(id string) (Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	song, ok := s.songs[id]
	if !ok {
		return Song{}, fmt.Errorf("song %q: %w", id, ErrNotFound)
	}
	return song, nil
}

// Songs returns every track in insertion order.
func (s *Store) Songs() []Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Song, 0, len(s.songOrder))
	for _, id := range s.songOrder {
		out = append(out, s.songs[id])
	}
	return out
}

// SetLyrics replaces a song's lyrics (used by ingestion).
func (s *Store) SetLyrics(id, lyrics string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	song, ok := s.songs[id]
	if !ok {
		return fmt.Errorf("song %q: %w", id, ErrNotFound)
	}
	song.Lyrics = lyrics
	s.songs[id] = song
	return nil
}

// LikedSongs returns the songs in the user's Favorites playlist, skipping
// ids that no longer resolve.
func (s *Store) LikedSongs(user string) ([]Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byName, ok := s.playlists[user]
	if !ok {
		return nil, nil
	}
	fav, ok := byName[FavoritesPlaylist]
	if !ok {
		return nil, nil
	}

	var liked []Song
	for _, id := range fav.SongIDs {
		if song, ok := s.songs[id]; ok {
			liked = append(liked, song)
		}
	}
	return liked, nil
}

// AddFavorite appends a song to the user's Favorites playlist, creating the
// playlist on first use. Adding a song twice is a no-op.
func (s *Store) AddFavorite(user, songID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.songs[songID]; !ok {
		return fmt.Errorf("song %q: %w", songID, ErrNotFound)
	}

	byName, ok := s.playlists[user]
	if !ok {
		byName = make(map[string]*Playlist)
		s.playlists[user] = byName
	}
	fav, ok := byName[FavoritesPlaylist]
	if !ok {
		fav = &Playlist{Name: FavoritesPlaylist, User: user}
		byName[FavoritesPlaylist] = fav
	}

	for _, id := range fav.SongIDs {
		if id == songID {
			return nil
		}
	}
	fav.SongIDs = append(fav.SongIDs, songID)
	return nil
}

// RemoveFavorite drops a song from the user's Favorites playlist.
func (s *Store) RemoveFavorite(user, songID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName, ok := s.playlists[user]
	if !ok {
		return
	}
	fav, ok := byName[FavoritesPlaylist]
	if !ok {
		return
	}
	for i, id := range fav.SongIDs {
		if id == songID {
			fav.SongIDs = append(fav.SongIDs[:i], fav.SongIDs[i+1:]...)
			return
		}
	}
}

// Resolve returns every song matching both title and genre, in catalog
// order.
func (s *Store) Resolve(name, genre string) []Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []Song
	for _, id := range s.songOrder {
		song := s.songs[id]
		if song.Title == name && song.Genre == genre {
			matches = append(matches, song)
		}
	}
	return matches
}

// DisplayRecord joins a song with its album and artist names for display.
func (s *Store) DisplayRecord(song Song) Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := Record{SongTitle: song.Title, Genre: song.Genre}
	if album, ok := s.albums[song.AlbumID]; ok {
		rec.Album = album.Title
	}
	if artist, ok := s.artists[song.ArtistID]; ok {
		rec.Artist = artist.Name
	}
	return rec
}
