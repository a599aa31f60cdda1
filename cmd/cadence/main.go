package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/chriscorrea/cadence/internal/catalog"
	"github.com/chriscorrea/cadence/internal/extract"
	"github.com/chriscorrea/cadence/internal/fetch"
	"github.com/chriscorrea/cadence/internal/plsa"
	"github.com/chriscorrea/cadence/internal/recommend"
	"github.com/chriscorrea/cadence/internal/search"
	"github.com/chriscorrea/cadence/internal/session"
	"github.com/chriscorrea/cadence/internal/spinner"

	"github.com/spf13/cobra"
)

// CatalogFile is the well-known catalog file name inside the data directory.
const CatalogFile = "catalog.json"

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// dataDir resolves the data directory from the flag, falling back to the
// CADENCE_DATA_DIR environment variable and then to "./data".
func dataDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		return dir
	}
	if dir := os.Getenv("CADENCE_DATA_DIR"); dir != "" {
		return dir
	}
	return "data"
}

// openRecommender loads the catalog and wires up a Recommender rooted at the
// data directory.
func openRecommender(dir string) (*recommend.Recommender, *catalog.Store, error) {
	store, err := catalog.LoadFile(filepath.Join(dir, CatalogFile))
	if err != nil {
		return nil, nil, err
	}

	rec := &recommend.Recommender{
		Artifacts: plsa.NewStore(dir),
		Catalog:   store,
		Session:   session.NewMemoryStore(),
	}
	return rec, store, nil
}

// signalContext returns a context cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Lyric-topic music recommendations for a song catalog",
	Long: `Cadence analyzes song lyrics with a pretrained topic model and recommends
catalog songs by topic affinity and genre overlap with a user's liked songs.

Examples:
  cadence predict lyrics.txt
  cat lyrics.txt | cadence predict
  cadence recommend --user alice
  cadence search "midnight rain"
  cadence ingest https://example.com/lyrics/song --song s42`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(debug)
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict [source]",
	Short: "Predict the dominant topic for lyrics and list related songs",
	Long: `Predict reads raw lyrics from a file, URL, or standard input ("-", the
default), infers the dominant topic, and prints the corpus songs most
affine to that topic.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := "-"
		if len(args) == 1 {
			source = args[0]
		}
		topN, _ := cmd.Flags().GetInt("top-n")
		asJSON, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx, stop := signalContext()
		defer stop()

		lyrics, err := fetch.GetText(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to read lyrics: %w", err)
		}

		rec := &recommend.Recommender{Artifacts: plsa.NewStore(dataDir(cmd))}

		var sp *spinner.Spinner
		if !quiet {
			sp = spinner.New(ctx, os.Stderr, "Analyzing lyrics...")
			sp.Start()
		}
		assignment, ranked, err := rec.PredictTopic(lyrics, topN)
		if sp != nil {
			sp.Stop()
		}
		if err != nil {
			if recommend.IsArtifactError(err) {
				return fmt.Errorf("no prediction available: %w", err)
			}
			return err
		}

		if asJSON {
			return printJSON(predictOutput{
				Topic:       assignment.Topic,
				Probability: assignment.Probability,
				Related:     ranked,
			})
		}

		if assignment.Topic == plsa.NoTopic {
			fmt.Println("No topic signal: the lyrics share no vocabulary with the corpus.")
			return nil
		}

		fmt.Printf("Top topic: %d (probability %.4f)\n\n", assignment.Topic, assignment.Probability)
		for _, rs := range ranked {
			fmt.Printf("%-40s  %-15s  %.4f\n", rs.Name, rs.Genre, rs.Probability)
		}
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recompute and print a user's recommendation list",
	Long: `Recommend runs the full pipeline over the user's liked songs (their
Favorites playlist), filters by genre overlap, and prints the resulting
recommendation list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		topN, _ := cmd.Flags().GetInt("top-n")
		asJSON, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx, stop := signalContext()
		defer stop()

		rec, _, err := openRecommender(dataDir(cmd))
		if err != nil {
			return err
		}
		rec.TopN = topN

		var sp *spinner.Spinner
		if !quiet {
			sp = spinner.New(ctx, os.Stderr, "Computing recommendations...")
			sp.Start()
		}
		err = rec.Update(user)
		if sp != nil {
			sp.Stop()
		}
		if err != nil {
			return fmt.Errorf("recommendation update failed: %w", err)
		}

		notices := rec.Session.Notices(user)
		records := rec.Session.Recommendations(user)

		if asJSON {
			return printJSON(recommendOutput{Notices: notices, Recommendations: records})
		}

		for _, notice := range notices {
			fmt.Println(notice)
		}
		for _, r := range records {
			fmt.Printf("%-40s  %-25s  %-20s  %s\n", r.SongTitle, r.Album, r.Artist, r.Genre)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Keyword search over catalog lyrics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")
		query := strings.Join(args, " ")

		_, store, err := openRecommender(dataDir(cmd))
		if err != nil {
			return err
		}

		idx := search.NewIndex(store.Songs())
		results := idx.Search(query, limit)

		if asJSON {
			return printJSON(results)
		}

		if len(results) == 0 {
			fmt.Println("No matching lyrics found.")
			return nil
		}
		for _, res := range results {
			fmt.Printf("%-40s  %-15s  %.4f\n", res.Song.Title, res.Song.Genre, res.Score)
		}
		return nil
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest SOURCE",
	Short: "Fetch lyrics from a file or web page into the catalog",
	Long: `Ingest fetches lyric content and stores it on a catalog song. URL sources
are treated as HTML pages: the lyrics are extracted with readability, or
with a CSS selector when --selector is given. File and stdin sources are
stored verbatim.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		songID, _ := cmd.Flags().GetString("song")
		selector, _ := cmd.Flags().GetString("selector")

		ctx, stop := signalContext()
		defer stop()

		dir := dataDir(cmd)
		_, store, err := openRecommender(dir)
		if err != nil {
			return err
		}

		lyrics, err := ingestLyrics(ctx, source, selector)
		if err != nil {
			return err
		}

		if err := store.SetLyrics(songID, lyrics); err != nil {
			return err
		}
		if err := store.SaveFile(filepath.Join(dir, CatalogFile)); err != nil {
			return err
		}

		fmt.Printf("Stored %d bytes of lyrics on song %s\n", len(lyrics), songID)
		return nil
	},
}

// ingestLyrics fetches a source and extracts lyric text from it. HTML
// extraction applies to URL sources and whenever a selector is given.
func ingestLyrics(ctx context.Context, source, selector string) (string, error) {
	isURL := strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")

	if !isURL && selector == "" {
		return fetch.GetText(ctx, source)
	}

	reader, err := fetch.GetContent(ctx, source)
	if err != nil {
		return "", fmt.Errorf("failed to fetch lyrics: %w", err)
	}
	defer reader.Close()

	var baseURL *url.URL
	if isURL {
		baseURL, _ = url.Parse(source) // ignore parse errors, will use nil
	}

	lyrics, err := extract.LyricsFromHTML(reader, selector, baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract lyrics: %w", err)
	}
	return lyrics, nil
}

type predictOutput struct {
	Topic       int               `json:"topic"`
	Probability float64           `json:"probability"`
	Related     []plsa.RankedSong `json:"related_songs"`
}

type recommendOutput struct {
	Notices         []string         `json:"notices,omitempty"`
	Recommendations []catalog.Record `json:"recommendations"`
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory holding model, corpus, index, and catalog files")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress messages")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")
	_ = rootCmd.PersistentFlags().MarkHidden("debug")

	predictCmd.Flags().IntP("top-n", "n", plsa.DefaultTopN, "Number of related songs to return")
	predictCmd.Flags().Bool("json", false, "Output in JSON format")

	recommendCmd.Flags().StringP("user", "u", "", "User to recommend for")
	_ = recommendCmd.MarkFlagRequired("user")
	recommendCmd.Flags().IntP("top-n", "n", plsa.DefaultTopN, "Ranking depth per liked song")
	recommendCmd.Flags().Bool("json", false, "Output in JSON format")

	searchCmd.Flags().IntP("limit", "l", 10, "Maximum number of results")
	searchCmd.Flags().Bool("json", false, "Output in JSON format")

	ingestCmd.Flags().StringP("song", "s", "", "Catalog song id to attach the lyrics to")
	_ = ingestCmd.MarkFlagRequired("song")
	ingestCmd.Flags().String("selector", "", "CSS selector for the lyrics container on an HTML page")

	rootCmd.AddCommand(predictCmd, recommendCmd, searchCmd, ingestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
