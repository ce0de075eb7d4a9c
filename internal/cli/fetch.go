package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/browser"
	"github.com/mrlokans/stargazer/internal/config"
	"github.com/mrlokans/stargazer/internal/entities"
)

// FetchCommand prints the picture of the day, optionally liking it.
type FetchCommand struct {
	Date         string
	DatabasePath string
	JSON         bool
	Like         bool
	Verbose      bool

	cfg    *config.Config
	out    io.Writer
	logOut io.Writer
}

func NewFetchCommand(cfg *config.Config) *FetchCommand {
	return &FetchCommand{cfg: cfg, out: os.Stdout}
}

func (cmd *FetchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)

	fs.StringVar(&cmd.Date, "date", "", "Picture date as YYYY-MM-DD (default: latest)")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the favourites database")
	fs.BoolVar(&cmd.JSON, "json", false, "Print the picture as JSON")
	fs.BoolVar(&cmd.Like, "like", false, "Add the picture to favourites")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s fetch [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fetch an Astronomy Picture of the Day.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s fetch\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s fetch -date 2004-10-31 -like\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Date != "" {
		if _, err := apod.ParseDate(cmd.Date); err != nil {
			return fmt.Errorf("invalid -date %q, expected YYYY-MM-DD", cmd.Date)
		}
	}

	return nil
}

type fetchOutput struct {
	entities.Picture
	Liked bool `json:"liked"`
}

func (cmd *FetchCommand) Run(ctx context.Context) error {
	app, err := openApp(cmd.cfg, cmd.DatabasePath, cmd.Verbose, cmd.logOut)
	if err != nil {
		return err
	}
	defer app.Close()

	session := browser.NewSession(app.Fetcher, app.Favourites, browser.Events{}, app.Logger)

	var date *time.Time
	if cmd.Date != "" {
		d, _ := apod.ParseDate(cmd.Date)
		date = &d
	}

	picture, err := session.Load(ctx, date)
	if err != nil {
		if msg := session.State().ErrorMessage; msg != "" {
			return errors.New(msg)
		}
		return err
	}

	if cmd.Like {
		if err := session.LikeCurrent(); err != nil {
			return fmt.Errorf("failed to like picture: %w", err)
		}
	}

	liked := session.IsLiked(picture.Date)

	if cmd.JSON {
		data, err := json.MarshalIndent(fetchOutput{Picture: picture, Liked: liked}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.out, string(data))
		return nil
	}

	printPicture(cmd.out, picture, liked)
	return nil
}
