package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mrlokans/stargazer/internal/apod"
	"github.com/mrlokans/stargazer/internal/backup"
	"github.com/mrlokans/stargazer/internal/browser"
	"github.com/mrlokans/stargazer/internal/config"
)

var favouritesActions = []string{"list", "add", "remove", "export", "import"}

// FavouritesCommand manages the local favourites list.
type FavouritesCommand struct {
	Action       string
	Date         string
	File         string
	DatabasePath string
	JSON         bool
	Verbose      bool

	cfg    *config.Config
	out    io.Writer
	logOut io.Writer
	now    func() time.Time
}

func NewFavouritesCommand(cfg *config.Config) *FavouritesCommand {
	return &FavouritesCommand{cfg: cfg, out: os.Stdout, now: time.Now}
}

func (cmd *FavouritesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("favourites", flag.ContinueOnError)

	fs.StringVar(&cmd.Date, "date", "", "Picture date as YYYY-MM-DD (add, remove)")
	fs.StringVar(&cmd.File, "file", "", "Archive path (export, import); '-' for stdout on export")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the favourites database")
	fs.BoolVar(&cmd.JSON, "json", false, "Print the list as JSON (list)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s favourites <list|add|remove|export|import> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage liked pictures.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s favourites list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s favourites add -date 2004-10-31\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s favourites export -file favourites.json.zst\n", os.Args[0])
	}

	if len(args) == 0 {
		fs.Usage()
		return errors.New("an action is required")
	}
	cmd.Action = args[0]

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	switch cmd.Action {
	case "list":
	case "add", "remove":
		if cmd.Date == "" {
			return fmt.Errorf("required flag -date not provided")
		}
		if _, err := apod.ParseDate(cmd.Date); err != nil {
			return fmt.Errorf("invalid -date %q, expected YYYY-MM-DD", cmd.Date)
		}
	case "export", "import":
		if cmd.File == "" {
			return fmt.Errorf("required flag -file not provided")
		}
	default:
		return fmt.Errorf("unknown action %q (expected one of %v)", cmd.Action, favouritesActions)
	}

	return nil
}

func (cmd *FavouritesCommand) Run(ctx context.Context) error {
	app, err := openApp(cmd.cfg, cmd.DatabasePath, cmd.Verbose, cmd.logOut)
	if err != nil {
		return err
	}
	defer app.Close()

	session := browser.NewSession(app.Fetcher, app.Favourites, browser.Events{}, app.Logger)

	switch cmd.Action {
	case "list":
		return cmd.list(session)
	case "add":
		return cmd.add(ctx, session)
	case "remove":
		d, _ := apod.ParseDate(cmd.Date)
		if err := session.Unlike(apod.FormatDate(d)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.out, "Removed %s from favourites\n", apod.FormatDate(d))
		return nil
	case "export":
		return cmd.export(session)
	case "import":
		return cmd.restore(app.Favourites)
	}
	return nil
}

func (cmd *FavouritesCommand) list(session *browser.Session) error {
	if err := session.Refresh(); err != nil {
		return err
	}
	liked := session.Liked()

	if cmd.JSON {
		data, err := json.MarshalIndent(liked, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.out, string(data))
		return nil
	}

	if len(liked) == 0 {
		fmt.Fprintln(cmd.out, "No favourites yet")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tTITLE")
	for _, p := range liked {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Date, p.MediaType, p.Title)
	}
	return tw.Flush()
}

func (cmd *FavouritesCommand) add(ctx context.Context, session *browser.Session) error {
	d, _ := apod.ParseDate(cmd.Date)
	picture, err := session.Load(ctx, &d)
	if err != nil {
		if msg := session.State().ErrorMessage; msg != "" {
			return errors.New(msg)
		}
		return err
	}
	if err := session.LikeCurrent(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.out, "Added %s (%s) to favourites\n", picture.Date, picture.Title)
	return nil
}

func (cmd *FavouritesCommand) export(session *browser.Session) error {
	if err := session.Refresh(); err != nil {
		return err
	}
	liked := session.Liked()

	var w io.Writer = cmd.out
	if cmd.File != "-" {
		f, err := os.Create(cmd.File)
		if err != nil {
			return fmt.Errorf("failed to create archive: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := backup.Export(w, liked, cmd.now()); err != nil {
		return err
	}
	if cmd.File != "-" {
		fmt.Fprintf(cmd.out, "Exported %d favourites to %s\n", len(liked), cmd.File)
	}
	return nil
}

func (cmd *FavouritesCommand) restore(store backup.Adder) error {
	f, err := os.Open(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	archive, err := backup.Import(f)
	if err != nil {
		return err
	}

	n, err := backup.Restore(store, archive)
	if err != nil {
		return fmt.Errorf("imported %d favourites before failing: %w", n, err)
	}
	fmt.Fprintf(cmd.out, "Imported %d favourites from %s\n", n, cmd.File)
	return nil
}
