package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL         = "http://127.0.0.1:18090"
	numWorkers      = 50
	testDuration    = 10 * time.Second
	numApps         = 20
	numIPs          = 200
	numFingerprints = 100
)

var appIDs = []string{"100001", "100002", "100003", "com.example.one", "com.example.two"}

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
		// Redirect targets are external affiliate URLs; never follow them.
	},
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
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
	fmt.Println("=== LeadTrack Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Apps: %d | IPs: %d | Fingerprints: %d\n\n", numApps, numIPs, numFingerprints)

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

	// Phase 1: Seed leads with track requests
	fmt.Println("\n--- Phase 1: Seeding leads (GET /track) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doTrack(rng)
	})

	// Phase 2: Mixed track/check load
	fmt.Println("\n--- Phase 2: Mixed load (60% track, 35% check, 5% stats) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.60:
			return doTrack(rng)
		case r < 0.95:
			return doCheck(rng)
		default:
			return doStats(rng)
		}
	})

	// Phase 3: Check-heavy load, mostly re-identifying seeded visitors
	fmt.Println("\n--- Phase 3: Check-heavy load (10% track, 80% check, 10% stats) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doTrack(rng)
		case r < 0.90:
			return doCheck(rng)
		default:
			return doStats(rng)
		}
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

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

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

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

// identity returns a stable (ip, user-agent) pair so checks can hit leads
// seeded by earlier track requests.
func identity(rng *rand.Rand) (string, string) {
	ip := fmt.Sprintf("10.0.%d.%d", rng.Intn(numIPs)/256, rng.Intn(numIPs)%256+1)
	ua := fmt.Sprintf("Mozilla/5.0 (Device %d; Build %d) AppleWebKit/537.36", rng.Intn(numFingerprints), rng.Intn(numApps))
	return ip, ua
}

func doTrack(rng *rand.Rand) result {
	ip, ua := identity(rng)
	q := url.Values{}
	q.Set("app_id", appIDs[rng.Intn(len(appIDs))])
	q.Set("camp_id", fmt.Sprintf("camp_%d", rng.Intn(numApps)))
	q.Set("sub1", fmt.Sprintf("s1_%d", rng.Intn(numApps)))
	if rng.Float64() < 0.5 {
		q.Set("pixel", fmt.Sprintf("px_%d", rng.Intn(numApps)))
	}

	req, _ := http.NewRequest(http.MethodGet, baseURL+"/track?"+q.Encode(), nil)
	req.Header.Set("X-Forwarded-For", ip)
	req.Header.Set("User-Agent", ua)

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /track", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	ok := resp.StatusCode == 200 || resp.StatusCode == 302
	return result{"GET /track", resp.StatusCode, lat, !ok}
}

func doCheck(rng *rand.Rand) result {
	ip, ua := identity(rng)
	q := url.Values{}
	q.Set("app_id", appIDs[rng.Intn(len(appIDs))])

	req, _ := http.NewRequest(http.MethodGet, baseURL+"/check?"+q.Encode(), nil)
	req.Header.Set("X-Forwarded-For", ip)
	req.Header.Set("User-Agent", ua)

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /check", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// 404 is the defined miss outcome, not a failure.
	ok := resp.StatusCode == 302 || resp.StatusCode == 404
	return result{"GET /check", resp.StatusCode, lat, !ok}
}

func doStats(rng *rand.Rand) result {
	u := baseURL + "/api/stats"
	if rng.Float64() < 0.5 {
		u += "?app_id=" + appIDs[rng.Intn(len(appIDs))]
	}
	start := time.Now()
	resp, err := httpClient.Get(u)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /api/stats", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /api/stats", resp.StatusCode, lat, resp.StatusCode != 200}
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
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
