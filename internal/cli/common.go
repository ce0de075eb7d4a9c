package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/stargazer/internal/config"
	"github.com/mrlokans/stargazer/internal/entities"
	"github.com/mrlokans/stargazer/internal/entrypoint"
	"github.com/mrlokans/stargazer/internal/logging"
)

// openApp builds the shared components for a one-shot command. Metrics are
// never exported from the CLI.
func openApp(cfg *config.Config, dbPath string, verbose bool, logOut io.Writer) (*entrypoint.App, error) {
	c := *cfg
	if dbPath != "" {
		c.Database.Path = dbPath
	}
	c.Metrics.Enabled = false

	level := "warn"
	if verbose {
		level = "debug"
	}
	if logOut == nil {
		logOut = os.Stderr
	}
	logger, err := logging.New(level, "console", logOut)
	if err != nil {
		return nil, err
	}

	return entrypoint.NewApp(&c, logger)
}

func printPicture(w io.Writer, picture entities.Picture, liked bool) {
	fmt.Fprintln(w, picture.Title)

	meta := []string{picture.Date, string(picture.MediaType)}
	if c := picture.CopyrightOrEmpty(); c != "" {
		meta = append(meta, "(c) "+c)
	}
	if liked {
		meta = append(meta, "liked")
	}
	fmt.Fprintln(w, strings.Join(meta, " | "))
	fmt.Fprintln(w, picture.URL)
	fmt.Fprintln(w)
	fmt.Fprintln(w, picture.Explanation)
}
