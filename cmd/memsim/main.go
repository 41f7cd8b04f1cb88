// Command memsim is the line-oriented command interpreter for the
// allocator/cache simulator: a REPL modeled on the orizon-repl command
// loop, optionally fronted by the rpc package when -listen is given.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shenjiangwei/memsim/cache"
	"github.com/shenjiangwei/memsim/internal/simlog"
	"github.com/shenjiangwei/memsim/partition"
	"github.com/shenjiangwei/memsim/present"
	memrpc "github.com/shenjiangwei/memsim/rpc"
	"github.com/shenjiangwei/memsim/session"
)

func main() {
	var (
		listen   = flag.String("listen", "", "if set, serve the session over TCP at this address instead of reading stdin")
		memSize  = flag.Uint64("mem", 0, "if non-zero, initialize the partition allocator with this size before the REPL starts")
		logLevel = flag.String("log-level", "info", "log level: none, fatal, error, info, debug")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Interactive memory allocation and cache simulator.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	simlog.SetLevel(simlog.ParseLevel(*logLevel))

	if *listen != "" {
		server := memrpc.NewServer()
		if err := server.Register(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to register rpc server: %v\n", err)
			os.Exit(1)
		}
		if err := server.Start(*listen); err != nil {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sess := session.New()
	if *memSize != 0 {
		sess.InitMemory(*memSize)
	}

	repl := &repl{sess: sess, scanner: bufio.NewScanner(os.Stdin), out: os.Stdout}
	repl.run()
}

type repl struct {
	sess    *session.Session
	scanner *bufio.Scanner
	out     *os.File
}

func (r *repl) run() {
	fmt.Fprintln(r.out, "memsim: type 'help' for commands, 'exit' to quit")
	for {
		fmt.Fprint(r.out, "memsim> ")
		if !r.scanner.Scan() {
			return
		}
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		if r.dispatch(line) {
			return
		}
	}
}

// dispatch executes one command line and reports true iff the REPL should
// terminate. Unknown commands and malformed arguments are reported to the
// user; engines are left untouched, per spec §7.
func (r *repl) dispatch(line string) bool {
	tokens := strings.Fields(line)
	cmd := tokens[0]

	switch cmd {
	case "exit":
		return true

	case "help":
		r.printHelp()

	case "init":
		if len(tokens) != 3 || tokens[1] != "memory" {
			fmt.Fprintln(r.out, "usage: init memory <N>")
			return false
		}
		n, err := strconv.ParseUint(tokens[2], 10, 64)
		if err != nil {
			fmt.Fprintln(r.out, "malformed input: expected integer size")
			return false
		}
		r.sess.InitMemory(n)
		fmt.Fprintln(r.out, "ok")

	case "set":
		if len(tokens) != 3 || tokens[1] != "allocator" {
			fmt.Fprintln(r.out, "usage: set allocator <first_fit|best_fit|worst_fit>")
			return false
		}
		p, err := parsePolicy(tokens[2])
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		if err := r.sess.SetAllocatorPolicy(p); err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		fmt.Fprintln(r.out, "ok")

	case "malloc":
		n, err := parseArg(tokens)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		id, err := r.sess.Malloc(n)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		fmt.Fprintf(r.out, "id=%d\n", id)

	case "free":
		n, err := parseArg(tokens)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		if err := r.sess.Free(int(n)); err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		fmt.Fprintln(r.out, "ok")

	case "dump":
		if len(tokens) != 2 || tokens[1] != "memory" {
			fmt.Fprintln(r.out, "usage: dump memory")
			return false
		}
		blocks, err := r.sess.PartitionSnapshot()
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		fmt.Fprint(r.out, present.DumpPartition(blocks))

	case "visualize":
		blocks, err := r.sess.PartitionSnapshot()
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		fmt.Fprint(r.out, present.Visualize(r.sess.PartitionTotal(), blocks))

	case "stats":
		report := r.sess.Stats()
		if report.Target == session.StatsBuddy {
			fmt.Fprint(r.out, present.StatsBuddy(report.Buddy))
		} else {
			fmt.Fprint(r.out, present.StatsPartition(report.Partition))
		}

	case "access":
		n, err := parseArg(tokens)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		result := r.sess.Access(n)
		fmt.Fprintln(r.out, result)

	case "cache":
		if len(tokens) != 2 {
			fmt.Fprintln(r.out, "usage: cache dump|stats")
			return false
		}
		switch tokens[1] {
		case "dump":
			fmt.Fprint(r.out, dumpMultiLevel(r.sess.Cache()))
		case "stats":
			fmt.Fprint(r.out, present.StatsMultiLevel(r.sess.CacheStats()))
			fmt.Fprintln(r.out, "-- L1 --")
			fmt.Fprint(r.out, present.StatsCache(r.sess.Cache().L1().Stats()))
			fmt.Fprintln(r.out, "-- L2 --")
			fmt.Fprint(r.out, present.StatsCache(r.sess.Cache().L2().Stats()))
		default:
			fmt.Fprintln(r.out, "usage: cache dump|stats")
		}

	case "buddy_init":
		n, err := parseArg(tokens)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		r.sess.BuddyInit(n)
		fmt.Fprintln(r.out, "ok")

	case "buddy_malloc":
		n, err := parseArg(tokens)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		id, err := r.sess.BuddyMalloc(n)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		fmt.Fprintf(r.out, "id=%d\n", id)

	case "buddy_free":
		n, err := parseArg(tokens)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		if err := r.sess.BuddyFree(int(n)); err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		fmt.Fprintln(r.out, "ok")

	case "buddy_dump":
		blocks, err := r.sess.BuddySnapshot()
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		fmt.Fprint(r.out, present.DumpBuddy(blocks))

	default:
		fmt.Fprintf(r.out, "unknown command: %s\n", cmd)
	}

	return false
}

func (r *repl) printHelp() {
	fmt.Fprint(r.out, `commands:
  help                          show this list
  init memory <N>               create the partition allocator
  set allocator <policy>        first_fit | best_fit | worst_fit
  malloc <N>                    allocate in the partition allocator
  free <id>                     free a partition block
  dump memory                   print partition layout
  visualize                     ASCII bar of partition occupancy
  stats                         buddy stats if initialized, else partition stats
  access <addr>                 multi-level cache access
  cache dump | cache stats      multi-level cache reports
  buddy_init <N>                create or replace the buddy allocator
  buddy_malloc <N>               allocate in the buddy allocator
  buddy_free <id>                free a buddy block
  buddy_dump                     print buddy layout
  exit                          terminate
`)
}

func parseArg(tokens []string) (uint64, error) {
	if len(tokens) != 2 {
		return 0, fmt.Errorf("usage: %s <N>", tokens[0])
	}
	n, err := strconv.ParseUint(tokens[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed input: expected integer argument")
	}
	return n, nil
}

func parsePolicy(s string) (partition.Policy, error) {
	switch s {
	case "first_fit":
		return partition.FirstFit, nil
	case "best_fit":
		return partition.BestFit, nil
	case "worst_fit":
		return partition.WorstFit, nil
	default:
		return 0, fmt.Errorf("unknown policy: %s", s)
	}
}

func dumpMultiLevel(ml *cache.MultiLevel) string {
	var b strings.Builder
	b.WriteString("=== L1 ===\n")
	for setIdx, set := range ml.L1().Snapshot() {
		for wayIdx, line := range set {
			if !line.Valid {
				continue
			}
			fmt.Fprintf(&b, "set=%d way=%d tag=%d freq=%d last_used=%d\n", setIdx, wayIdx, line.Tag, line.Freq, line.LastUsed)
		}
	}
	b.WriteString("=== L2 ===\n")
	for setIdx, set := range ml.L2().Snapshot() {
		for wayIdx, line := range set {
			if !line.Valid {
				continue
			}
			fmt.Fprintf(&b, "set=%d way=%d tag=%d freq=%d last_used=%d\n", setIdx, wayIdx, line.Tag, line.Freq, line.LastUsed)
		}
	}
	return b.String()
}
