package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numUsers     = 200
	numSnapshots = 5
)

var months = []struct {
	year  int
	month int
}{
	{2025, 3}, {2025, 4}, {2025, 5}, {2025, 6}, {2025, 7},
}

var queries = []string{"a", "al", "ali", "b", "be", "ka", "y", "mi"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== Stats Gateway Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Users: %d | Snapshots: %d\n\n", numUsers, numSnapshots)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: cold cache, dashboards only
	fmt.Println("\n--- Phase 1: Dashboard load (cold cache) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doGetDashboard(rng)
	})

	// Phase 2: mixed load, cache mostly warm by now
	fmt.Println("\n--- Phase 2: Mixed load (60% dashboard, 40% lists/search) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.60:
			return doGetDashboard(rng)
		case r < 0.75:
			return doGetSearch(rng)
		case r < 0.90:
			return doGetSnapshots()
		default:
			return doGetChannels()
		}
	})

	// Phase 3: search-heavy, exercises the upstream pass-through
	fmt.Println("\n--- Phase 3: Search-heavy load (20% dashboard, 80% search) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.20 {
			return doGetDashboard(rng)
		}
		return doGetSearch(rng)
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doGetDashboard(rng *rand.Rand) result {
	var url string
	if rng.Float64() < 0.2 {
		url = fmt.Sprintf("%s/api/dashboard?snapshot_id=%d", baseURL, rng.Intn(numSnapshots)+1)
	} else {
		m := months[rng.Intn(len(months))]
		url = fmt.Sprintf("%s/api/dashboard?year=%d&month=%d", baseURL, m.year, m.month)
	}
	if rng.Float64() < 0.3 {
		url += fmt.Sprintf("&user_id=%d", rng.Intn(numUsers)+1)
	}
	if rng.Float64() < 0.1 {
		url += fmt.Sprintf("&focus_id=%d", rng.Intn(numUsers)+1)
	}
	return doGet("GET /api/dashboard", url)
}

func doGetSearch(rng *rand.Rand) result {
	q := queries[rng.Intn(len(queries))]
	return doGet("GET /api/users/search", fmt.Sprintf("%s/api/users/search?q=%s", baseURL, q))
}

func doGetSnapshots() result {
	return doGet("GET /api/snapshots", baseURL+"/api/snapshots")
}

func doGetChannels() result {
	return doGet("GET /api/channels", baseURL+"/api/channels")
}

func doGet(endpoint, url string) result {
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// 429 is expected under load with rate limiting enabled.
	ok := resp.StatusCode == 200 || resp.StatusCode == 429
	return result{endpoint, resp.StatusCode, lat, !ok}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
