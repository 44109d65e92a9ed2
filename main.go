package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/mkg33/sat2/internal/dimacs"
	"github.com/mkg33/sat2/internal/sat"
)

var (
	flagGzip    = flag.Bool("gzip", false, "the instance file is gzip-compressed")
	flagTimeout = flag.Duration("timeout", 0, "abort the search after this long and report unknown (0 disables)")
	flagSeed    = flag.Int64("seed", 0, "seed for the heuristic's random source (0: seed from the current time)")
	flagVerbose = flag.Bool("v", false, "print search diagnostics to stderr")

	flagCPUProfile = flag.Bool("cpuprof", false, "save pprof CPU profile in cpuprof")
	flagMemProfile = flag.Bool("memprof", false, "save pprof memory profile in memprof")
)

type config struct {
	instanceFile string
	heuristic    sat.Heuristic
	gzip         bool
	timeout      time.Duration
	seed         int64
	verbose      bool
	cpuProfile   bool
	memProfile   bool
}

// parseConfig reads the two positional arguments: the instance file and,
// optionally, a heuristic name drawn from the closed set ParseHeuristic
// recognizes.
func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}

	h := sat.HeuristicFirst
	if flag.NArg() > 1 {
		parsed, err := sat.ParseHeuristic(strings.ToLower(flag.Arg(1)))
		if err != nil {
			return nil, err
		}
		h = parsed
	}

	return &config{
		instanceFile: flag.Arg(0),
		heuristic:    h,
		gzip:         *flagGzip,
		timeout:      *flagTimeout,
		seed:         *flagSeed,
		verbose:      *flagVerbose,
		cpuProfile:   *flagCPUProfile,
		memProfile:   *flagMemProfile,
	}, nil
}

// run parses the instance, solves it, and prints the verdict in standard
// SAT-competition output format. It returns the process exit code: 0 for a
// completed solve (SAT or UNSAT both succeed), 1 for parse/IO errors or an
// unresolved (timed-out) search.
func run(cfg *config) int {
	s := sat.NewSolver(sat.Options{
		Heuristic: cfg.heuristic,
		Seed:      cfg.seed,
	})

	if err := dimacs.LoadFile(cfg.instanceFile, cfg.gzip, s); err != nil {
		fmt.Fprintf(os.Stderr, "c error: %s\n", err)
		return 1
	}

	if cfg.verbose {
		fmt.Fprintf(os.Stderr, "c variables:  %d\n", s.NumVariables())
		fmt.Fprintf(os.Stderr, "c clauses:    %d\n", s.NumConstraints())
		fmt.Fprintf(os.Stderr, "c heuristic:  %s\n", cfg.heuristic)
	}

	ctx := context.Background()
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	start := time.Now()
	status := s.Solve(ctx)
	elapsed := time.Since(start)

	if cfg.verbose {
		fmt.Fprintf(os.Stderr, "c time (sec): %f\n", elapsed.Seconds())
		fmt.Fprintf(os.Stderr, "c decisions:  %d\n", s.TotalDecisions)
		fmt.Fprintf(os.Stderr, "c conflicts:  %d\n", s.TotalConflicts)
	}

	switch status {
	case sat.True:
		fmt.Println("s SATISFIABLE")
		fmt.Print("v")
		for _, l := range s.SortedModel() {
			fmt.Print(" ", strconv.Itoa(l))
		}
		fmt.Println(" 0")
		return 0
	case sat.False:
		fmt.Println("s UNSATISFIABLE")
		return 0
	default:
		fmt.Println("s UNKNOWN")
		return 1
	}
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	var cpuProfFile *os.File
	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		cpuProfFile = f
		pprof.StartCPUProfile(f)
	}

	code := run(cfg)

	if cfg.cpuProfile {
		pprof.StopCPUProfile()
		cpuProfFile.Close()
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}

	os.Exit(code)
}
