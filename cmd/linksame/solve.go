package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/linksame/internal/games/linksame"
	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

var (
	flagSolveRows []string
	flagSolveSave string
	flagSolveAuto bool
)

var solveCmd = &cobra.Command{
	Use:   "solve [file.yaml]",
	Short: "Inspect a saved board: hint, stuck or won",
	Long: `Load a board and report whether it is cleared, stuck, or which pair the
hint would show. The board can come from a save file (a game save or the
web server's /save document), from a saved game in the database, or from
rows given on the command line ('.' is empty).

With --auto the hinted pair is removed repeatedly until the board is clear
or stuck, showing how far plain hints get.

Examples:
  linksame solve board.yaml
  linksame solve --save lunch --auto
  linksame solve --rows AB.. --rows BA.. --rows ....`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringArrayVar(&flagSolveRows, "rows", nil, "Board row, one flag per row")
	solveCmd.Flags().StringVar(&flagSolveSave, "save", "", "Saved game name in the database")
	solveCmd.Flags().BoolVar(&flagSolveAuto, "auto", false, "Keep removing hinted pairs")
}

func runSolve(_ *cobra.Command, args []string) error {
	st, err := solveInput(args)
	if err != nil {
		return err
	}
	e, err := core.Restore(st, core.NewDealer(flagSeed))
	if err != nil {
		return err
	}

	fmt.Println(e.Grid().String())
	fmt.Println()
	fmt.Printf("Size: %dx%d  Pairs: %d  Gravity: %s\n", e.Width(), e.Height(), e.RemainingPairs(), e.Gravity())
	printCounters(st.Counters)

	if !flagSolveAuto {
		printStatus(e)
		return nil
	}

	for step := 1; ; step++ {
		h := e.Hint()
		if !h.Found {
			break
		}
		e.ClearSelection()
		e.Tap(h.Pair.A)
		res := e.Tap(h.Pair.B)
		if res.Kind != core.TapRemoved {
			return fmt.Errorf("hinted pair %v was not removed: %v", h.Pair, res.Err)
		}
		fmt.Printf("%3d. %v - %v  (%d turns)\n", step, h.Pair.A, h.Pair.B, h.Path.Turns())
	}
	fmt.Println()
	if !e.IsWon() {
		fmt.Println(e.Grid().String())
		fmt.Println()
	}
	printStatus(e)
	return nil
}

// solveInput reads the board from rows, the database or a file.
func solveInput(args []string) (core.SavedState, error) {
	switch {
	case len(flagSolveRows) > 0:
		g := core.ParseGrid(flagSolveRows...)
		st := core.SavedState{Width: g.W, Height: g.H, Cells: g.Cells}
		return st, st.Validate()
	case flagSolveSave != "":
		store := openStore()
		if store == nil {
			return core.SavedState{}, errors.New("no database to load from")
		}
		defer store.Close()
		saved, err := store.LoadGame(flagSolveSave)
		if err != nil {
			return core.SavedState{}, err
		}
		return parseBoard(saved.Doc)
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return core.SavedState{}, err
		}
		return parseBoard(data)
	}
	return core.SavedState{}, errors.New("give a file, --save or --rows")
}

// parseBoard accepts a game save document or a bare board.
func parseBoard(data []byte) (core.SavedState, error) {
	if doc, err := linksame.ParseSaveDoc(data); err == nil {
		fmt.Printf("%s save: size %s, style %s, stage %d of %d\n\n",
			doc.Game, doc.Size, doc.Style, doc.Stage+1, doc.LastStage+1)
		return doc.Board, nil
	}
	var st core.SavedState
	if err := yaml.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("%w: %v", core.ErrCorruptState, err)
	}
	return st, st.Validate()
}

func printCounters(counters map[string]int) {
	if len(counters) == 0 {
		return
	}
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %d\n", k, counters[k])
	}
}

func printStatus(e *core.Engine) {
	if e.IsWon() {
		fmt.Println("Board is clear.")
		return
	}
	h := e.Hint()
	switch {
	case h.Found:
		fmt.Printf("Open pairs: %d\n", core.OpenPairs(e.Grid()))
		fmt.Printf("Hint: %v - %v, %d turns, path %v\n", h.Pair.A, h.Pair.B, h.Path.Turns(), h.Path)
	case errors.Is(h.Err, core.ErrNoHintAvailable):
		fmt.Println("Stuck: no pair connects, the board needs a shuffle.")
	}
}
