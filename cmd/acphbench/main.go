// Command acphbench is the CLI test harness for ACPH: it builds a tree
// over a generated (or file-loaded) key set, reports its efficiency and a
// hierarchical diagnostics tree, and exercises lookups over both the
// built keys and random negative probes.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"acph"
	"acph/diag"
)

func main() {
	var (
		n        = flag.Int("n", 10_000, "number of keys to generate")
		keyLen   = flag.Int("keylen", 12, "length of each generated key in bytes")
		probes   = flag.Int("probes", 1_000, "number of random negative probes to run")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "RNG seed")
		keysFile = flag.String("keys-file", "", "optional newline-delimited key file; overrides -n/-keylen")
		report   = flag.Bool("report", true, "print a per-node diagnostics tree")
		statsLog = flag.String("stats-log", "", "optional path to append this run's per-node slot counts to, for tuning sweeps")
	)
	flag.Parse()

	var keys []string
	if *keysFile != "" {
		var err error
		keys, err = loadKeys(*keysFile)
		if err != nil {
			fail("failed to load keys: %v", err)
		}
	} else {
		keys = genUniqueKeys(*n, *keyLen, *seed)
	}

	payloads := make([]int, len(keys))
	for i := range payloads {
		payloads[i] = i
	}

	t, err := acph.BuildStrings(keys, payloads)
	if err != nil {
		fail("build failed: %v", err)
	}
	defer t.Destroy()

	var misses int
	for i, k := range keys {
		got, ok := t.FindString(k)
		if !ok || got != i {
			misses++
		}
	}
	fmt.Printf("keys=%d verified_misses=%d\n", len(keys), misses)

	eff := t.Efficiency()
	fmt.Printf("slots_used=%d slots_total=%d slot_efficiency=%.2f%% max_comparisons=%d\n",
		eff.SlotsUsed, eff.SlotsTotal, eff.SlotEfficiency*100, eff.MaxComparisons)

	falsePositives := runNegativeProbes(t, keys, *probes, *seed)
	fmt.Printf("negative_probes=%d false_positives=%d\n", *probes, falsePositives)

	rep := diag.Build(t.Root())
	if *report && t.Root() != nil {
		fmt.Print(rep.String())
	}

	if *statsLog != "" {
		diag.OpenStatsLog(*statsLog).LogSlotCounts(fmt.Sprintf("n=%d,keylen=%d,seed=%d", len(keys), *keyLen, *seed), rep)
	}
}

func runNegativeProbes[P comparable](t *acph.Tree[P], keys []string, probes int, seed int64) int {
	rng := rand.New(rand.NewSource(seed ^ 0x9e3779b97f4a7c15))
	existing := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		existing[k] = struct{}{}
	}

	falsePositives := 0
	for i := 0; i < probes; i++ {
		probe := randomKey(rng, 16)
		if _, ok := existing[probe]; ok {
			continue
		}
		if _, found := t.FindString(probe); found {
			falsePositives++
		}
	}
	return falsePositives
}

func genUniqueKeys(n, keyLen int, seed int64) []string {
	rng := rand.New(rand.NewSource(seed))
	seen := make(map[string]struct{}, n)
	keys := make([]string, 0, n)
	for len(keys) < n {
		k := randomKey(rng, keyLen)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

func randomKey(rng *rand.Rand, length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = byte(rng.Intn(256))
	}
	return string(buf)
}

func loadKeys(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var keys []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		keys = append(keys, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
