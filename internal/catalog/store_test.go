package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// seedStore builds a small catalog with two artists, two albums, and four
// songs, one of which sets its own genre.
func seedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()

	artists := []Artist{
		{ID: "ar1", Name: "Nova Waves"},
		{ID: "ar2", Name: "The Quarry"},
	}
	for _, a := range artists {
		if err := s.AddArtist(a); err != nil {
			t.Fatalf("AddArtist(%s) error = %v", a.ID, err)
		}
	}

	albums := []Album{
		{ID: "al1", Title: "First Light", ArtistID: "ar1", Genre: "Pop", ReleaseDate: "2019-03-01"},
		{ID: "al2", Title: "Gravel", ArtistID: "ar2", Genre: "Rock"},
	}
	for _, a := range albums {
		if err := s.AddAlbum(a); err != nil {
			t.Fatalf("AddAlbum(%s) error = %v", a.ID, err)
		}
	}

	songs := []Song{
		{ID: "s1", Title: "Golden Hour", ArtistID: "ar1", AlbumID: "al1", Lyrics: "love love happy"},
		{ID: "s2", Title: "Iron Sky", ArtistID: "ar2", AlbumID: "al2", Lyrics: "war war sad"},
		{ID: "s3", Title: "Golden Hour", ArtistID: "ar2", AlbumID: "al2", Genre: "Indie", Lyrics: "love happy joy"},
		{ID: "s4", Title: "Static", ArtistID: "ar2", AlbumID: "al2"},
	}
	for _, song := range songs {
		if err := s.AddSong(song); err != nil {
			t.Fatalf("AddSong(%s) error = %v", song.ID, err)
		}
	}
	return s
}

func TestAddSongInheritsFromAlbum(t *testing.T) {
	s := seedStore(t)

	song, err := s.Song("s1")
	if err != nil {
		t.Fatalf("Song(s1) error = %v", err)
	}
	if song.Genre != "Pop" {
		t.Errorf("song without genre should inherit album genre, got %q", song.Genre)
	}
	if song.ReleaseDate != "2019-03-01" {
		t.Errorf("song should carry album release date, got %q", song.ReleaseDate)
	}

	// a song's own genre is kept
	song, err = s.Song("s3")
	if err != nil {
		t.Fatalf("Song(s3) error = %v", err)
	}
	if song.Genre != "Indie" {
		t.Errorf("song with explicit genre should keep it, got %q", song.Genre)
	}
}

func TestAddSongValidation(t *testing.T) {
	s := NewStore()

	tests := []struct {
		name string
		song Song
	}{
		{name: "missing id", song: Song{Title: "Golden Hour", ArtistID: "ar1"}},
		{name: "missing title", song: Song{ID: "s1", ArtistID: "ar1"}},
		{name: "missing artist", song: Song{ID: "s1", Title: "Golden Hour"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.AddSong(tt.song); err == nil {
				t.Error("AddSong() should reject invalid song")
			}
		})
	}
}

func TestSongNotFound(t *testing.T) {
	s := seedStore(t)

	_, err := s.Song("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Song() error = %v, want ErrNotFound", err)
	}
}

func TestSongsKeepInsertionOrder(t *testing.T) {
	s := seedStore(t)

	var ids []string
	for _, song := range s.Songs() {
		ids = append(ids, song.ID)
	}
	want := []string{"s1", "s2", "s3", "s4"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Songs() order = %v, want %v", ids, want)
	}
}

func TestSetLyrics(t *testing.T) {
	s := seedStore(t)

	if err := s.SetLyrics("s4", "静けさ quiet nights"); err != nil {
		t.Fatalf("SetLyrics() error = %v", err)
	}
	song, _ := s.Song("s4")
	if song.Lyrics != "静けさ quiet nights" {
		t.Errorf("SetLyrics() did not persist, got %q", song.Lyrics)
	}

	if err := s.SetLyrics("missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetLyrics() on unknown song error = %v, want ErrNotFound", err)
	}
}

func TestFavorites(t *testing.T) {
	s := seedStore(t)

	// no playlist yet: no liked songs, no error
	liked, err := s.LikedSongs("ana")
	if err != nil {
		t.Fatalf("LikedSongs() error = %v", err)
	}
	if liked != nil {
		t.Errorf("LikedSongs() for new user = %v, want nil", liked)
	}

	// first AddFavorite creates the playlist
	if err := s.AddFavorite("ana", "s1"); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}
	if err := s.AddFavorite("ana", "s2"); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}

	// duplicates are a no-op
	if err := s.AddFavorite("ana", "s1"); err != nil {
		t.Fatalf("duplicate AddFavorite() error = %v", err)
	}

	liked, err = s.LikedSongs("ana")
	if err != nil {
		t.Fatalf("LikedSongs() error = %v", err)
	}
	if len(liked) != 2 || liked[0].ID != "s1" || liked[1].ID != "s2" {
		t.Errorf("LikedSongs() = %v, want [s1 s2]", liked)
	}

	// favorites are per-user
	if liked, _ := s.LikedSongs("ben"); liked != nil {
		t.Errorf("LikedSongs() for another user = %v, want nil", liked)
	}

	s.RemoveFavorite("ana", "s1")
	liked, _ = s.LikedSongs("ana")
	if len(liked) != 1 || liked[0].ID != "s2" {
		t.Errorf("LikedSongs() after removal = %v, want [s2]", liked)
	}
}

func TestAddFavoriteUnknownSong(t *testing.T) {
	s := seedStore(t)

	if err := s.AddFavorite("ana", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddFavorite() error = %v, want ErrNotFound", err)
	}
}

func TestResolve(t *testing.T) {
	s := seedStore(t)

	tests := []struct {
		name    string
		title   string
		genre   string
		wantIDs []string
	}{
		{name: "title and genre match", title: "Golden Hour", genre: "Pop", wantIDs: []string{"s1"}},
		{name: "same title different genre", title: "Golden Hour", genre: "Indie", wantIDs: []string{"s3"}},
		{name: "genre mismatch", title: "Golden Hour", genre: "Rock", wantIDs: nil},
		{name: "unknown title", title: "Nothing Here", genre: "Pop", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, song := range s.Resolve(tt.title, tt.genre) {
				ids = append(ids, song.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("Resolve(%q, %q) = %v, want %v", tt.title, tt.genre, ids, tt.wantIDs)
			}
		})
	}
}

func TestDisplayRecord(t *testing.T) {
	s := seedStore(t)

	song, _ := s.Song("s1")
	rec := s.DisplayRecord(song)

	want := Record{SongTitle: "Golden Hour", Album: "First Light", Artist: "Nova Waves", Genre: "Pop"}
	if rec != want {
		t.Errorf("DisplayRecord() = %+v, want %+v", rec, want)
	}

	// missing album and artist leave those fields empty
	rec = s.DisplayRecord(Song{Title: "Orphan", Genre: "Jazz"})
	want = Record{SongTitle: "Orphan", Genre: "Jazz"}
	if rec != want {
		t.Errorf("DisplayRecord() for orphan song = %+v, want %+v", rec, want)
	}
}

func TestLikedSongsSkipsDanglingIDs(t *testing.T) {
	s := seedStore(t)
	if err := s.AddFavorite("ana", "s1"); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}

	// simulate a song deleted out from under the playlist
	s.mu.Lock()
	delete(s.songs, "s1")
	s.mu.Unlock()

	liked, err := s.LikedSongs("ana")
	if err != nil {
		t.Fatalf("LikedSongs() error = %v", err)
	}
	if liked != nil {
		t.Errorf("LikedSongs() with dangling id = %v, want nil", liked)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := seedStore(t)
	if err := s.AddFavorite("ana", "s2"); err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := s.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if got, want := len(loaded.Songs()), len(s.Songs()); got != want {
		t.Errorf("loaded catalog has %d songs, want %d", got, want)
	}

	song, err := loaded.Song("s1")
	if err != nil {
		t.Fatalf("Song(s1) after reload error = %v", err)
	}
	if song.Genre != "Pop" || song.Lyrics != "love love happy" {
		t.Errorf("Song(s1) after reload = %+v", song)
	}

	liked, err := loaded.LikedSongs("ana")
	if err != nil {
		t.Fatalf("LikedSongs() after reload error = %v", err)
	}
	if len(liked) != 1 || liked[0].ID != "s2" {
		t.Errorf("LikedSongs() after reload = %v, want [s2]", liked)
	}
}

func TestSaveFileDeterministic(t *testing.T) {
	s := seedStore(t)
	for _, fav := range []struct{ user, id string }{
		{"ana", "s1"}, {"ana", "s2"}, {"ben", "s3"},
	} {
		if err := s.AddFavorite(fav.user, fav.id); err != nil {
			t.Fatalf("AddFavorite(%s, %s) error = %v", fav.user, fav.id, err)
		}
	}

	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	if err := s.SaveFile(first); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if err := s.SaveFile(second); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("failed to read %s: %v", first, err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("failed to read %s: %v", second, err)
	}
	if !bytes.Equal(a, b) {
		t.Error("consecutive saves of an unchanged catalog differ")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadFile() on missing file should return error")
	}
}
