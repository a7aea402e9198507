// Command sparqlviz parses a SPARQL query or update document and displays
// its algebra tree as a navigable, syntax-colored outline in the terminal.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/google/renameio/v2"

	"github.com/sparqlkit/sparqlkit/config"
	"github.com/sparqlkit/sparqlkit/sparql"
	"github.com/sparqlkit/sparqlkit/sparql/parser"
	"github.com/sparqlkit/sparqlkit/tui"
)

var version = "dev"

var (
	logpath    = flag.String("log", "", "log to file")
	noconfig   = flag.Bool("noconfig", false, "force default configuration")
	baseFlag   = flag.String("base", "", "override the document's base IRI")
	updateFlag = flag.Bool("update", false, "parse the file as a SPARQL Update document instead of a Query")
	versionFl  = flag.Bool("version", false, "print version")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if *versionFl {
		fmt.Printf("%s\n", version)
		return
	}

	log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	if *logpath != "" {
		logFile, err := os.Create(*logpath)
		if err != nil {
			exitWithError(err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(io.Discard)
	}

	path := flag.Arg(0)
	if path == "" {
		exitWithError(fmt.Errorf("usage: sparqlviz [options...] <path>"))
	}

	if err := runViewer(path); err != nil {
		exitWithError(err)
	}
}

func printUsage() {
	f := flag.CommandLine.Output()
	fmt.Fprintf(f, "Usage: %s [options...] <path>\n", os.Args[0])
	flag.PrintDefaults()
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}

// document is the currently loaded file's parsed form, kept so `:save-ir`
// can re-serialize it without reparsing.
type document struct {
	path     string
	asUpdate bool
	query    sparql.Query
	update   sparql.Update
}

func runViewer(path string) error {
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		log.Printf("go version: %s\n", buildInfo.GoVersion)
	}

	ps, err := config.LoadOrCreateProfileSet(*noconfig)
	if err != nil {
		return err
	}

	doc, err := loadDocument(path, ps, *updateFlag)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	view := tui.NewView(screen, outlineFor(doc), doc.path)

	view.Commands["open"] = func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: :open <path>")
		}
		newDoc, err := loadDocument(args[0], ps, *updateFlag)
		if err != nil {
			return err
		}
		*doc = *newDoc
		view.SetRoot(outlineFor(doc), doc.path)
		return nil
	}
	view.Commands["base"] = func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: :base <iri>")
		}
		newDoc, err := reparseWithBase(doc.path, ps, doc.asUpdate, args[0])
		if err != nil {
			return err
		}
		*doc = *newDoc
		view.SetRoot(outlineFor(doc), doc.path)
		return nil
	}
	view.Commands["save-ir"] = func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: :save-ir <path>")
		}
		return saveIR(args[0], outlineFor(doc))
	}

	view.RunEventLoop()
	return nil
}

func loadDocument(path string, ps config.ProfileSet, forceUpdate bool) (*document, error) {
	base := *baseFlag
	if base == "" {
		base = ps.ProfileForPath(path).BaseIRI
	}
	return reparseWithBase(path, ps, forceUpdate || looksLikeUpdate(path), base)
}

func reparseWithBase(path string, ps config.ProfileSet, asUpdate bool, base string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	input := seedPrefixes(string(data), ps.ProfileForPath(path))

	doc := &document{path: path, asUpdate: asUpdate}
	if asUpdate {
		u, err := parser.ParseUpdate(input, base)
		if err != nil {
			return nil, err
		}
		doc.update = u
	} else {
		q, err := parser.ParseQuery(input, base)
		if err != nil {
			return nil, err
		}
		doc.query = q
	}
	return doc, nil
}

func looksLikeUpdate(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ru")
}

// seedPrefixes prepends PREFIX declarations for a profile's namespace
// bindings so they're in scope without editing the document text, matching
// how a batch tool driven by the config package would invoke the parser.
func seedPrefixes(input string, profile config.Profile) string {
	if len(profile.Namespaces) == 0 {
		return input
	}
	var b strings.Builder
	for prefix, iri := range profile.Namespaces {
		fmt.Fprintf(&b, "PREFIX %s: <%s>\n", prefix, iri)
	}
	b.WriteString(input)
	return b.String()
}

func outlineFor(doc *document) tui.Node {
	if doc.asUpdate {
		return tui.BuildUpdateOutline(doc.update)
	}
	return tui.BuildQueryOutline(doc.query)
}

func saveIR(path string, root tui.Node) error {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(path, data, 0644)
}
