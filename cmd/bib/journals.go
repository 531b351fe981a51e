package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/autocomplete"
	"github.com/matsen/bibliograph/internal/library"
	"github.com/matsen/bibliograph/internal/storage"
)

var (
	journalScope         string
	journalsCompleteLive bool
	journalsCompleteWait time.Duration
)

func init() {
	journalsSearchCmd.Flags().StringVar(&journalScope, "scope", storage.ScopeName, "Field to search (name, abbrev, issn)")
	journalsCompleteCmd.Flags().BoolVar(&journalsCompleteLive, "stdin", false, "Read successive inputs from stdin, one per line")
	journalsCompleteCmd.Flags().DurationVar(&journalsCompleteWait, "delay", autocomplete.DefaultDelay, "Settle delay for --stdin input")
	journalsCmd.AddCommand(journalsListCmd, journalsSearchCmd, journalsCompleteCmd, journalsDeleteCmd, journalsTitleCaseCmd)
	rootCmd.AddCommand(journalsCmd)
}

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "List, search and edit journals",
}

var journalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all journals",
	Args:  cobra.NoArgs,
	RunE:  runJournalsList,
}

var journalsSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find journals whose name, abbreviation or ISSN contains text",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalsSearch,
}

var journalsCompleteCmd = &cobra.Command{
	Use:   "complete [prefix]",
	Short: "Suggest journal names starting with prefix",
	Long: `Suggest journal names starting with prefix, ignoring case.

Nothing is suggested when the prefix already is the only matching name.

With --stdin each line read is the current input of an editor field.
Suggestions are printed as one JSON array per line once the input has
not changed for --delay; superseded inputs print nothing.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if journalsCompleteLive {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runJournalsComplete,
}

var journalsDeleteCmd = &cobra.Command{
	Use:   "delete <journal-id>",
	Short: "Delete a journal no article refers to",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalsDelete,
}

var journalsTitleCaseCmd = &cobra.Command{
	Use:   "titlecase <journal-id>",
	Short: "Capitalize every word of a journal name",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalsTitleCase,
}

// JournalView is a journal with its article count.
type JournalView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Abbrev   string `json:"abbrev,omitempty"`
	ISSN     string `json:"issn,omitempty"`
	Articles int    `json:"articles"`
}

func journalViews(g *library.Graph, journals []*library.Journal) []JournalView {
	out := make([]JournalView, 0, len(journals))
	for _, j := range journals {
		out = append(out, JournalView{
			ID:       j.ID,
			Name:     j.Name,
			Abbrev:   j.Abbrev,
			ISSN:     j.ISSN,
			Articles: g.JournalReferences(j.ID),
		})
	}
	return out
}

func printJournals(views []JournalView) {
	if len(views) == 0 {
		fmt.Println("No journals found")
		return
	}
	for _, v := range views {
		fmt.Printf("  %-36s %-40s %-12s %3d\n", v.ID, truncateString(v.Name, 40), v.ISSN, v.Articles)
	}
}

func runJournalsList(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	g := repo.lib.Graph()
	views := journalViews(g, g.Journals())

	if humanOutput {
		printJournals(views)
	} else {
		outputJSON(views)
	}
	return nil
}

func runJournalsSearch(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	db := mustOpenDatabase(repo.root)
	defer db.Close()

	ids, err := db.SearchJournals(journalScope, args[0], 0)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	g := repo.lib.Graph()
	var journals []*library.Journal
	for _, id := range ids {
		if j, ok := g.Journal(id); ok {
			journals = append(journals, j)
		}
	}
	views := journalViews(g, journals)

	if humanOutput {
		printJournals(views)
	} else {
		outputJSON(views)
	}
	return nil
}

func runJournalsComplete(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	cache := autocomplete.NewJournalCache(repo.lib.Graph().JournalNames())
	if journalsCompleteLive {
		return streamJournalCompletions(cache, newJournalWatcher(repo.store, cache))
	}

	suggestions := cache.Suggest(args[0])
	if suggestions == nil {
		suggestions = []string{}
	}

	if humanOutput {
		for _, s := range suggestions {
			fmt.Println(s)
		}
	} else {
		outputJSON(suggestions)
	}
	return nil
}

func runJournalsDelete(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()

	tx := repo.lib.Begin()
	if err := tx.DeleteJournal(args[0]); err != nil {
		tx.Rollback()
		exitWithError(exitCodeFor(err), "%v", err)
	}
	repo.mustCommit(tx)

	if humanOutput {
		printOK("Deleted journal %s", args[0])
	} else {
		outputJSON(StatusResponse{Status: "deleted", ID: args[0]})
	}
	return nil
}

func runJournalsTitleCase(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()

	tx := repo.lib.Begin()
	j, ok := tx.Journal(args[0])
	if !ok {
		tx.Rollback()
		exitWithError(ExitNotFound, "journal not found: %s", args[0])
	}
	tx.TitleCaseJournal(j)
	repo.mustCommit(tx)

	if humanOutput {
		printOK("Renamed journal to %s", j.Name)
	} else {
		outputJSON(journalViews(repo.lib.Graph(), []*library.Journal{j})[0])
	}
	return nil
}

// journalWatcher rebuilds a journal cache when the journals file of a
// store changes on disk, e.g. after an import in another terminal.
type journalWatcher struct {
	store *storage.Store
	cache *autocomplete.JournalCache
	path  string
	mod   time.Time
	size  int64
}

func newJournalWatcher(store *storage.Store, cache *autocomplete.JournalCache) *journalWatcher {
	w := &journalWatcher{store: store, cache: cache, path: filepath.Join(store.Dir, storage.JournalsFile)}
	w.mod, w.size = w.stat()
	return w
}

func (w *journalWatcher) stat() (time.Time, int64) {
	fi, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}, -1
	}
	return fi.ModTime(), fi.Size()
}

// refresh reloads the journal names when the file changed since the last
// call and reports whether the cache was rebuilt.
func (w *journalWatcher) refresh() (bool, error) {
	mod, size := w.stat()
	if mod.Equal(w.mod) && size == w.size {
		return false, nil
	}
	snap, err := w.store.Load()
	if err != nil {
		return false, err
	}
	g, err := library.GraphFromSnapshot(snap)
	if err != nil {
		return false, err
	}
	w.cache.Rebuild(g.JournalNames())
	w.mod, w.size = mod, size
	return true, nil
}

// streamJournalCompletions feeds stdin lines through a debounced
// autocompleter and prints each published suggestion list.
func streamJournalCompletions(cache *autocomplete.JournalCache, w *journalWatcher) error {
	enc := json.NewEncoder(os.Stdout)
	ac := autocomplete.New(cache,
		autocomplete.WithDelay(journalsCompleteWait),
		autocomplete.WithCallback(func(s []string) {
			if s == nil {
				s = []string{}
			}
			if err := enc.Encode(s); err != nil {
				log.WithError(err).Warn("writing suggestions")
			}
		}),
	)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if rebuilt, err := w.refresh(); err != nil {
			log.WithError(err).Warn("reloading journals")
		} else if rebuilt {
			log.WithField("journals", cache.Len()).Debug("journal cache rebuilt")
		}
		ac.Update(scanner.Text())
	}
	ac.Flush()
	if err := scanner.Err(); err != nil {
		exitWithError(ExitError, "reading input: %v", err)
	}
	return nil
}
