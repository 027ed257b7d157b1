package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/coursesearch"
	"github.com/poiesic/coursesearch/core"
)

var catalog = [][3]string{
	{"CS 101", "Introduction to Programming", "Fundamentals of programming in Python: variables, control flow, functions and simple data types."},
	{"CS 102", "Object-Oriented Programming", "Classes, objects, inheritance and interfaces, with a semester project in Java."},
	{"CS 201", "Data Structures", "Lists, stacks, queues, hash tables, trees and graphs, and the analysis of their operations."},
	{"CS 202", "Computer Organization", "Number representation, assembly language, memory hierarchy and processor datapaths."},
	{"CS 221", "Discrete Mathematics", "Logic, sets, relations, combinatorics and proof techniques for computer science."},
	{"CS 301", "Algorithms", "Sorting, searching, graph algorithms, dynamic programming and greedy strategies."},
	{"CS 310", "Operating Systems", "Processes, threads, scheduling, virtual memory and file systems."},
	{"CS 320", "Programming Languages", "Syntax, semantics, type systems and interpreters for functional and imperative languages."},
	{"CS 330", "Computer Networks", "Layered protocols, routing, congestion control and socket programming."},
	{"CS 340", "Database Systems", "Relational model, SQL, query processing, indexing and transactions."},
	{"CS 350", "Software Engineering", "Requirements, design, testing and maintenance of large software systems in teams."},
	{"CS 370", "Computer Graphics", "Rasterization, transformations, shading and ray tracing."},
	{"CS 380", "Artificial Intelligence", "Search, knowledge representation, planning and probabilistic reasoning."},
	{"CS 381", "Machine Learning", "Supervised and unsupervised learning, regression, classification and neural networks."},
	{"CS 385", "Information Retrieval", "Indexing, vector space models, ranking and evaluation of search engines."},
	{"CS 390", "Computer Security", "Cryptography, authentication, access control and secure software design."},
	{"CS 410", "Compilers", "Lexical analysis, parsing, semantic analysis, optimization and code generation."},
	{"CS 420", "Distributed Systems", "Consistency, replication, consensus and fault tolerance in networked systems."},
	{"CS 450", "Theory of Computation", "Automata, formal languages, computability and complexity."},
	{"MATH 120", "Calculus I", "Limits, derivatives and their applications, and an introduction to integrals."},
	{"MATH 121", "Calculus II", "Integration techniques, sequences, series and parametric curves."},
	{"MATH 221", "Linear Algebra", "Vectors, matrices, linear maps, eigenvalues and eigenvectors."},
	{"MATH 231", "Probability and Statistics", "Random variables, distributions, estimation and hypothesis testing."},
	{"MATH 310", "Numerical Analysis", "Floating point, root finding, interpolation and numerical linear algebra."},
	{"PHYS 101", "Physics I", "Mechanics: motion, forces, energy and momentum."},
	{"PHYS 102", "Physics II", "Electricity, magnetism and waves."},
	{"EE 201", "Circuits", "Circuit analysis, network theorems and transient response."},
	{"EE 310", "Signals and Systems", "Continuous and discrete signals, convolution and Fourier analysis."},
	{"ECON 101", "Principles of Economics", "Supply and demand, markets, and an introduction to macroeconomics."},
	{"HIST 110", "World History", "Civilizations from antiquity to the modern era."},
}

var (
	dbPath       = flag.String("db", "./catalog_db", "path to the catalog store")
	driver       = flag.String("driver", "badger", "storage driver, badger or sqlite")
	seedFileName = flag.String("src", "", "file of seed data, one \"code | name | description\" per line")
	noIndex      = flag.Bool("no-index", false, "import without rebuilding the index")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// docsFromFile returns an iterator over documents in a pipe-delimited file.
// Malformed lines are logged and skipped.
func docsFromFile(filename string) (iter.Seq[*core.Document], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(*core.Document) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			doc, err := parseLine(line)
			if err != nil {
				slog.Warn("skipping seed line", "line", lineNo, "err", err)
				continue
			}
			if !yield(doc) {
				return
			}
		}
	}, nil
}

func parseLine(line string) (*core.Document, error) {
	parts := strings.SplitN(line, "|", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("expected \"code | name | description\", got %q", line)
	}
	doc := &core.Document{
		Code: strings.TrimSpace(parts[0]),
		Name: strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		doc.Description = strings.TrimSpace(parts[2])
	}
	return doc, nil
}

// docsFromCatalog returns an iterator over the built-in catalog.
func docsFromCatalog() iter.Seq[*core.Document] {
	return func(yield func(*core.Document) bool) {
		for _, c := range catalog {
			if !yield(&core.Document{Code: c[0], Name: c[1], Description: c[2]}) {
				return
			}
		}
	}
}

// importBatched reads from a source iterator and imports documents in batches.
func importBatched(ctx context.Context, db *coursesearch.Database, source iter.Seq[*core.Document], batchSize int) (int, error) {
	batch := make([]*core.Document, 0, batchSize)
	total := 0

	flush := func() error {
		result, err := db.Import(ctx, batch, true)
		if err != nil {
			return err
		}
		total += result.Added + result.Updated
		batch = batch[:0]
		return nil
	}

	for doc := range source {
		batch = append(batch, doc)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	// Process any remaining documents
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return total, err
		}
	}

	return total, nil
}

func main() {
	db, err := coursesearch.NewDatabase(*dbPath, coursesearch.WithDriver(*driver))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx := context.Background()

	// Determine source of seed data
	var source iter.Seq[*core.Document]
	if seedFileName != nil && *seedFileName != "" {
		source, err = docsFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = docsFromCatalog()
	}

	// Import in batches of 10
	changed, err := importBatched(ctx, db, source, 10)
	if err != nil {
		panic(err)
	}
	slog.Info("seeded catalog", "changed", changed)

	if *noIndex {
		return
	}
	result, err := db.Index(ctx)
	if err != nil {
		panic(err)
	}
	slog.Info("indexed catalog", "documents", result.Documents, "terms", result.Terms)
}
