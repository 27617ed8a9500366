package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/polyjson"
	"github.com/reoring/polyjson/config"
	_ "github.com/reoring/polyjson/source"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "polyjson CLI\n\nUsage:\n  polyjson lint -config registry.yaml [-naming NAME] [-base NAME] [-each] FILE...\n  polyjson check -config registry.yaml\n\nNotes:\n  - lint classifies each document (JSON, or YAML by extension) against every base type.\n  - Exit status is 1 when a document matches no variant or several variants.")
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "lint":
		return lintCmd(args[1:], stdout, stderr)
	case "check":
		return checkCmd(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func checkCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cfgPath string
	fs.StringVar(&cfgPath, "config", "", "registry YAML file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if cfgPath == "" {
		fs.Usage()
		return 2
	}
	doc, err := config.LoadFile(cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	policy, err := doc.NamingPolicy()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if _, err := doc.Matcher(policy); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	variants := 0
	for _, a := range doc.Abstracts {
		variants += len(a.Variants)
	}
	fmt.Fprintf(stdout, "%s: ok (%d abstracts, %d variants, naming %s)\n",
		cfgPath, len(doc.Abstracts), variants, polyjson.NamingPolicyName(policy))
	return 0
}

func lintCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath string
		naming  string
		base    string
		each    bool
		verbose bool
	)
	fs.StringVar(&cfgPath, "config", "", "registry YAML file")
	fs.StringVar(&naming, "naming", "", "naming policy overriding the registry file")
	fs.StringVar(&base, "base", "", "only classify against this base type")
	fs.BoolVar(&each, "each", false, "classify the elements of top-level arrays")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if cfgPath == "" || fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	doc, err := config.LoadFile(cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	policy, err := doc.NamingPolicy()
	if naming != "" {
		policy, err = polyjson.NamingPolicyByName(naming)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	m, err := doc.Matcher(policy)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger.Debug("lint: registry loaded", "config", cfgPath, "bases", strings.Join(m.Bases(), ","), "naming", polyjson.NamingPolicyName(policy))

	problems := 0
	for _, path := range fs.Args() {
		n, err := readDocument(path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			problems++
			continue
		}
		targets := []polyjson.Node{n}
		labels := []string{path}
		if each && n.Kind() == polyjson.KindArray {
			targets, labels = targets[:0], labels[:0]
			for i := 0; i < n.Len(); i++ {
				targets = append(targets, n.Index(i))
				labels = append(labels, fmt.Sprintf("%s#%d", path, i))
			}
		}
		for i, t := range targets {
			results, err := classify(m, base, t)
			if err != nil {
				fmt.Fprintln(stderr, err)
				return 2
			}
			for _, r := range results {
				if r.Status() != "ok" {
					problems++
				}
				fmt.Fprintf(stdout, "%s: %s\n", labels[i], describe(r))
			}
		}
	}
	if problems > 0 {
		logger.Debug("lint: problems found", "count", problems)
		return 1
	}
	return 0
}

func readDocument(path string) (polyjson.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return polyjson.Node{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return polyjson.ParseYAMLNode(data)
	default:
		return polyjson.ParseNode(data)
	}
}

func classify(m *config.Matcher, base string, n polyjson.Node) ([]config.Result, error) {
	if base == "" {
		return m.ClassifyAll(n), nil
	}
	r, err := m.Classify(base, n)
	if err != nil {
		return nil, err
	}
	return []config.Result{r}, nil
}

func describe(r config.Result) string {
	switch r.Status() {
	case "no match":
		return r.Base + " -> NO MATCH"
	case "ambiguous":
		s := r.Base + " -> AMBIGUOUS (" + strings.Join(r.Matches, ", ") + ")"
		if r.Selected != "" {
			s += ", first match " + r.Selected
		}
		return s
	}
	return r.Base + " -> " + r.Selected
}
