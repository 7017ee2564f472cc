package kv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"github.com/ValentinKolb/txKV/cmd/util"
	"github.com/ValentinKolb/txKV/lib/kverr"
	"github.com/ValentinKolb/txKV/rpc/client"
	"github.com/ValentinKolb/txKV/rpc/common"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for txKV endpoints",
		Long:    "Runs a set of benchmarks against the endpoint. Every benchmark works on its own keys, which are deleted afterwards.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)

	// perfTimers holds one latency timer per benchmark
	perfTimers = gometrics.NewRegistry()
)

// percentiles reported for every benchmark
var perfPercentiles = []float64{0.5, 0.95, 0.99}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. write,read)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the write-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

// benchmark describes a single performance test
type benchmark struct {
	name string
	// prepare is called with all keys of the benchmark before the timer starts
	prepare func(key string) error
	// op is the measured operation
	op func(key string, counter int) error
}

func run(_ *cobra.Command, _ []string) error {
	dht, err := client.NewReplicatedDHT(util.GetClientConfig(), util.GetTransport())
	if err != nil {
		return err
	}
	defer dht.CloseConnection()

	fmt.Println("Performance testing tool for txKV endpoints")

	// Print configuration
	config := util.GetClientConfig()
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(config.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	largeValue := make([]byte, perfLargeValueSizeKB*1024)
	write := func(key string) error { return session.Write(key, "test") }

	// transactions are short-lived sessions sharing one transport
	txTransport := util.GetTransport()
	defer txTransport.Close()

	benchmarks := []benchmark{
		{
			name: "write",
			op:   func(key string, _ int) error { return session.Write(key, "test") },
		},
		{
			name: "write-large",
			op:   func(key string, _ int) error { return session.Write(key, largeValue) },
		},
		{
			name:    "read",
			prepare: write,
			op: func(key string, _ int) error {
				_, err := session.Read(key)
				return err
			},
		},
		{
			name: "read-missing",
			op: func(key string, _ int) error {
				// not found is expected
				_, err := session.Read(key)
				if errors.Is(err, kverr.ErrNotFound) {
					return nil
				}
				return err
			},
		},
		{
			name:    "tas",
			prepare: write,
			op: func(key string, _ int) error {
				// the value never changes, so every call must succeed
				return session.TestAndSet(key, "test", "test")
			},
		},
		{
			name: "nop",
			op:   func(_ string, counter int) error { return session.Nop(counter) },
		},
		{
			name: "tx",
			op: func(key string, counter int) error {
				tx, err := client.NewTransaction(config, txTransport)
				if err != nil {
					return err
				}
				list := tx.NewReqList()
				_ = list.AddRead(key)
				_ = list.AddWrite(key, strconv.Itoa(counter))
				_ = list.AddCommit()
				_, err = tx.ReqList(list)
				return err
			},
		},
		{
			name:    "mixed",
			prepare: write,
			op: func(key string, counter int) error {
				var err error
				switch counter % 3 {
				case 0: // write
					err = session.Write(key, "test")
				case 1: // read
					_, err = session.Read(key)
				case 2: // tas
					err = session.TestAndSet(key, "test", "test")
				}
				return err
			},
		},
	}

	// Run all benchmarks
	results := make(map[string]testing.BenchmarkResult)
	for _, bm := range benchmarks {
		result := runBenchmark(bm, dht)
		results[bm.name] = result
		printResult(bm.name, result)
	}

	// Print latencies
	fmt.Println()
	fmt.Println("Latencies:")
	for _, bm := range benchmarks {
		printLatency(bm.name)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, config); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// runBenchmark runs a single benchmark and records the latency of every operation
func runBenchmark(bm benchmark, dht *client.ReplicatedDHT) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		if shouldSkip(bm.name) {
			return
		}

		timer := gometrics.GetOrRegisterTimer(bm.name, perfTimers)

		// prepare keys
		getKey, iter := getKeys(bm.name)

		if bm.prepare != nil {
			iter(func(k string) {
				if err := bm.prepare(k); err != nil {
					log.Printf("(%s) - error preparing key: %v\n", bm.name, err)
				}
			})
		}

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				if _, err := dht.Delete(k); err != nil {
					log.Printf("(%s) - error deleting key: %v\n", bm.name, err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				start := time.Now()
				err := bm.op(getKey(counter), counter)
				timer.UpdateSince(start)
				if err != nil {
					log.Printf("(%s) - error: %v\n", bm.name, err)
				}
				counter++
			}
		})
	})
}

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// printLatency prints the latency percentiles recorded for a benchmark
func printLatency(test string) {
	timer, ok := perfTimers.Get(test).(gometrics.Timer)
	if !ok || timer.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	ps := timer.Percentiles(perfPercentiles)
	fmt.Printf("%-20sp50 %s\tp95 %s\tp99 %s\tmax %s\t(%d calls)\n", test,
		time.Duration(ps[0]), time.Duration(ps[1]), time.Duration(ps[2]), time.Duration(timer.Max()), timer.Count())
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"P50", "P95", "P99",
		"Endpoints", "Path", "TimeoutSec", "RetryCount",
		"Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		ps := make([]float64, len(perfPercentiles))
		if timer, ok := perfTimers.Get(test).(gometrics.Timer); ok {
			ps = timer.Percentiles(perfPercentiles)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			time.Duration(ps[0]).String(),
			time.Duration(ps[1]).String(),
			time.Duration(ps[2]).String(),
			strings.Join(config.Endpoints, ";"),
			config.Path,
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
