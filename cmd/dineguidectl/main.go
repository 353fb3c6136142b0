package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dineguide/dineguide/client"
	"github.com/dineguide/dineguide/internal/model"
)

const requestTimeout = 30 * time.Second

// globals holds the persistent flags shared by every sub-command.
type globals struct {
	apiURL  string
	apiKey  string
	debug   bool
	jsonOut bool
}

func main() {
	_ = godotenv.Load()

	if err := NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:           "dineguidectl",
		Short:         "Admin CLI for the dineguide restaurant service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})
			if g.debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.apiURL, "api-url", getEnv("DINEGUIDE_API_URL", "http://localhost:8080"), "Base URL of the dineguide service")
	rootCmd.PersistentFlags().StringVar(&g.apiKey, "api-key", os.Getenv("DINEGUIDE_API_KEY"), "Admin API key")
	rootCmd.PersistentFlags().BoolVarP(&g.debug, "debug", "d", os.Getenv("DINEGUIDE_DEBUG") == "true", "Log HTTP traffic")
	rootCmd.PersistentFlags().BoolVar(&g.jsonOut, "json", false, "Print raw JSON")

	rootCmd.AddCommand(newRestaurantsCmd(g))
	rootCmd.AddCommand(newMenuCmd(g))
	rootCmd.AddCommand(newReviewsCmd(g))
	rootCmd.AddCommand(newCollectionsCmd(g))
	rootCmd.AddCommand(newPagesCmd())

	return rootCmd
}

func (g *globals) client() (*client.Client, error) {
	log.Debug().Str("api_url", g.apiURL).Bool("has_key", g.apiKey != "").Msg("building client")
	return client.New(g.apiURL,
		client.WithAPIKey(g.apiKey),
		client.WithHTTPTimeout(requestTimeout),
		client.WithDebugLogging(g.debug),
	)
}

// print writes v as indented JSON when --json is set, otherwise calls text.
func (g *globals) print(w io.Writer, v interface{}, text func(io.Writer)) error {
	if !g.jsonOut {
		text(w)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// readImage loads an image file for upload.
func readImage(path string) (*model.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &model.Upload{Filename: filepath.Base(path), ContentType: ct, Data: data}, nil
}
