package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/railmap/editor/internal/config"
	"github.com/railmap/editor/internal/database"
	"github.com/railmap/editor/internal/dem"
	"github.com/railmap/editor/internal/dispatcher"
	"github.com/railmap/editor/internal/export"
	"github.com/railmap/editor/internal/geometry"
	"github.com/railmap/editor/internal/handlers"
	"github.com/railmap/editor/internal/influx"
	"github.com/railmap/editor/internal/store"
)

const usage = `commands:
  station add <x,y>
  station move <id> <x,y>
  station rename <id> <name>
  station rm <id>
  line add <name> <id,id,...> [#RRGGBB]
  line update <id> <id,id,...> [#RRGGBB]
  line rename <id> <name>
  line rm <id>
  cell <stations|lines> <id> <column> <value>
  elev <x,y>
  terrain
  list
  layouts
  save | load | clear
  export <path.geojson>
  quit`

// runShell reads commands from stdin until EOF or "quit".
func runShell(st *store.Store, d *dispatcher.Dispatcher, im *influx.Manager, log zerolog.Logger) {
	fmt.Println(usage)
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		tokens := tokenize(line)
		if err := execute(tokens, st, d, im, log); err != nil {
			fmt.Println("error:", err)
		}
		fmt.Print("> ")
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("Input error")
	}
}

// runCommand executes a single non-interactive command, e.g.
// "railmap export layout.geojson".
func runCommand(args []string, st *store.Store, d *dispatcher.Dispatcher, log zerolog.Logger) error {
	switch args[0] {
	case "export":
		if len(args) < 2 {
			return fmt.Errorf("export: want output path")
		}
		if _, err := d.Dispatch(event(handlers.CmdLayoutLoad)); err != nil {
			return err
		}
		if err := export.WriteFile(st, args[1]); err != nil {
			return err
		}
		log.Info().Str("path", args[1]).Msg("Layout exported")
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// runGradient renders a synthetic coast-to-peak elevation image from a
// land mask: railmap gradient <mask.png> <out.png>.
func runGradient(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("gradient: want mask path and output path")
	}
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer out.Close()
	return dem.GenerateGradient(in, out)
}

func event(cmd string, args ...string) dispatcher.Event {
	return dispatcher.Event{Command: cmd, Args: args}
}

// execute maps shell tokens onto dispatcher commands. Dispatched
// commands are timed and recorded in the performance bucket when
// metrics are up.
func execute(tokens []string, st *store.Store, d *dispatcher.Dispatcher, im *influx.Manager, log zerolog.Logger) error {
	if len(tokens) == 0 {
		return nil
	}

	var e dispatcher.Event
	switch tokens[0] {
	case "help":
		fmt.Println(usage)
		return nil
	case "list":
		printLayout(st)
		return nil
	case "terrain":
		land, sea := geometry.Partition(st.Surface())
		fmt.Printf("terrain: %d land points, %d sea points\n", len(land), len(sea))
		return nil
	case "layouts":
		dir := filepath.Dir(config.GetStorageConfig().SQLite.Path)
		paths, err := database.ListDatabaseFiles(dir)
		if err != nil {
			return err
		}
		fmt.Printf("database files (%d):\n", len(paths))
		for _, p := range paths {
			fmt.Println(" ", p)
		}
		return nil
	case "save":
		e = event(handlers.CmdLayoutSave)
	case "load":
		e = event(handlers.CmdLayoutLoad)
	case "clear":
		e = event(handlers.CmdLayoutClear)
	case "elev":
		e = event(handlers.CmdElevation, tokens[1:]...)
	case "cell":
		e = event(handlers.CmdCellEdit, tokens[1:]...)
	case "export":
		if len(tokens) < 2 {
			return fmt.Errorf("export: want output path")
		}
		return export.WriteFile(st, tokens[1])
	case "station":
		if len(tokens) < 2 {
			return fmt.Errorf("station: want subcommand")
		}
		switch tokens[1] {
		case "add":
			e = event(handlers.CmdStationAdd, tokens[2:]...)
		case "move":
			e = event(handlers.CmdStationMove, tokens[2:]...)
		case "rename":
			e = event(handlers.CmdStationRename, tokens[2:]...)
		case "rm":
			e = event(handlers.CmdStationRemove, tokens[2:]...)
		default:
			return fmt.Errorf("station: unknown subcommand %q", tokens[1])
		}
	case "line":
		if len(tokens) < 2 {
			return fmt.Errorf("line: want subcommand")
		}
		switch tokens[1] {
		case "add":
			e = event(handlers.CmdLineAdd, tokens[2:]...)
		case "update":
			e = event(handlers.CmdLineUpdate, tokens[2:]...)
		case "rename":
			e = event(handlers.CmdLineRename, tokens[2:]...)
		case "rm":
			e = event(handlers.CmdLineRemove, tokens[2:]...)
		default:
			return fmt.Errorf("line: unknown subcommand %q", tokens[1])
		}
	default:
		return fmt.Errorf("unknown command %q (try help)", tokens[0])
	}

	start := time.Now()
	result, err := d.Dispatch(e)
	if im != nil {
		if werr := im.WriteOperation(context.Background(), e.Command, time.Since(start), err != nil); werr != nil {
			log.Debug().Err(werr).Msg("Failed to record operation metric")
		}
	}
	if err != nil {
		return err
	}
	if result != nil {
		fmt.Printf("%+v\n", result)
	}
	return nil
}

func printLayout(st *store.Store) {
	stations := st.Stations()
	fmt.Printf("stations (%d):\n", len(stations))
	for _, s := range stations {
		fmt.Printf("  %3d  %-20s  %10.2f %10.2f %8.2f\n",
			s.ID, s.Name, s.Position.X, s.Position.Y, s.Position.Z)
	}

	lines := st.Lines()
	fmt.Printf("lines (%d):\n", len(lines))
	for _, l := range lines {
		fmt.Printf("  %3d  %-20s  %s  stations=%v\n",
			l.ID, l.Name, l.Color.Hex(), l.StationIDs)
	}
}

// tokenize splits a command line into fields, honoring double quotes.
func tokenize(line string) []string {
	var tokens []string
	var b strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			if b.Len() > 0 {
				tokens = append(tokens, b.String())
				b.Reset()
			}
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
