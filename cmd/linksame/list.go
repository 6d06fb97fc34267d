package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/linksame/internal/registry"
	"github.com/vovakirdan/linksame/internal/storage"
)

var flagDeleteSave string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List modes, board sizes, tile styles and saved games",
	Long: `Shows the registered game modes, the configured board sizes and tile styles, and the saved games in the database.

Examples:
  linksame list
  linksame list --delete lunch   # Remove a saved game`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&flagDeleteSave, "delete", "", "Delete the saved game with this name")
}

func runList(_ *cobra.Command, _ []string) error {
	if flagDeleteSave != "" {
		store := openStore()
		if store == nil {
			return fmt.Errorf("no database to delete %q from", flagDeleteSave)
		}
		defer store.Close()
		return deleteSave(store, flagDeleteSave)
	}

	cfg := loadConfig()

	fmt.Println("Modes:")
	for _, g := range registry.List() {
		fmt.Printf("  %-18s  %s\n", g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Sizes:")
	for _, name := range cfg.SizeNames() {
		size := cfg.Sizes[name]
		fmt.Printf("  %-8s  %-6s  %d pairs\n", name, size.String(), size.Cells()/2)
	}

	fmt.Println()
	fmt.Println("Styles:")
	for _, name := range cfg.StyleNames() {
		style := cfg.Styles[name]
		fmt.Printf("  %-8s  %-8s  %d kinds  %s\n", name, style.Title, style.Kinds(), strings.Join(style.Basic, " "))
	}

	store := openStore()
	if store == nil {
		return nil
	}
	defer store.Close()

	saves, err := store.ListSaves()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Saved games:")
	if len(saves) == 0 {
		fmt.Println("  (none)")
		fmt.Println()
		fmt.Println("Press S while playing to save, then 'linksame play --resume <name>'.")
		return nil
	}
	for _, s := range saves {
		fmt.Printf("  %-16s  %-18s  %s\n", s.Name, s.GameID, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func deleteSave(store *storage.Store, name string) error {
	if err := store.DeleteGame(name); err != nil {
		return err
	}
	fmt.Printf("Deleted saved game %q\n", name)
	return nil
}
